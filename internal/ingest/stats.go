package ingest

import (
	"math"
	"sort"

	"github.com/riskibarqy/bet-tracker/internal/domain/stats"
)

// Alias tables for pre-aggregated stats payloads, probed with the same
// first-key-wins discipline as bet fields.
var (
	statsTotalBetsAliases    = []string{"total_bets", "totalBets", "bets", "count"}
	statsWinsAliases         = []string{"wins", "won", "win_count", "vitorias"}
	statsLossesAliases       = []string{"losses", "lost", "loss_count", "derrotas"}
	statsCashoutsAliases     = []string{"cashouts", "cashout_count"}
	statsCashPositiveAliases = []string{"cashouts_positive", "cashoutsPositive"}
	statsTotalStakeAliases   = []string{"total_stake", "totalStake", "stake", "total_wagered"}
	statsTotalProfitAliases  = []string{"total_profit", "totalProfit", "profit", "net_profit"}
	statsAvgOddAliases       = []string{"avg_odd", "avgOdd", "average_odd"}
	statsWinRateAliases      = []string{"win_rate", "winRate", "hit_rate"}
	statsROIAliases          = []string{"roi", "roi_pct", "return_on_investment"}
	statsByResultAliases     = []string{"by_result", "byResult"}
	statsByMarketAliases     = []string{"by_market", "byMarket", "markets"}
	statsBestMarketAliases   = []string{"best_market", "bestMarket"}
	statsWorstMarketAliases  = []string{"worst_market", "worstMarket"}
	statsPosCashoutsAliases  = []string{"positive_cashouts", "positiveCashouts"}
	statsPosCashProfAliases  = []string{"positive_cashouts_profit", "positiveCashoutsProfit"}
	statsMonthlyAliases      = []string{"monthly_performance", "monthlyPerformance", "monthly"}

	monthLabelAliases  = []string{"month", "label", "period"}
	monthGainsAliases  = []string{"gains", "gain", "profit"}
	monthLossesAliases = []string{"losses", "loss"}
)

// NormalizeStats coerces a pre-aggregated stats payload into the canonical
// shape. Every numeric field goes through the shared number coercion, so a
// provider sending strings, nulls or garbage still yields a usable summary.
func NormalizeStats(payload any) stats.Stats {
	record, ok := asRecord(unwrapEnvelope(payload))
	if !ok {
		record = Record{}
	}

	out := stats.Stats{
		TotalBets:              pickInt(record, statsTotalBetsAliases),
		Wins:                   pickInt(record, statsWinsAliases),
		Losses:                 pickInt(record, statsLossesAliases),
		Cashouts:               pickInt(record, statsCashoutsAliases),
		TotalStake:             pickNumber(record, statsTotalStakeAliases),
		TotalProfit:            pickNumber(record, statsTotalProfitAliases),
		AvgOdd:                 pickNumber(record, statsAvgOddAliases),
		WinRate:                pickInt(record, statsWinRateAliases),
		ROI:                    pickNumber(record, statsROIAliases),
		ByResult:               normalizeByResult(record),
		ByMarket:               normalizeByMarket(record),
		BestMarket:             pickString(record, statsBestMarketAliases),
		WorstMarket:            pickString(record, statsWorstMarketAliases),
		PositiveCashouts:       pickInt(record, statsPosCashoutsAliases),
		PositiveCashoutsProfit: pickNumber(record, statsPosCashProfAliases),
		MonthlyPerformance:     normalizeMonthly(record),
	}

	return out
}

func normalizeByResult(record Record) map[string]int {
	out := make(map[string]int)

	value, ok := pickValue(record, statsByResultAliases)
	if !ok {
		return out
	}
	counts, ok := asRecord(value)
	if !ok {
		return out
	}

	for result, count := range counts {
		out[result] = int(toNumber(count))
	}

	return out
}

func normalizeByMarket(record Record) *stats.MarketTable {
	table := stats.NewMarketTable()

	value, ok := pickValue(record, statsByMarketAliases)
	if !ok {
		return table
	}
	markets, ok := asRecord(value)
	if !ok {
		return table
	}

	// JSON decoding into a Go map already lost the provider's key order, so
	// rebuild the table sorted by name to keep the output deterministic.
	names := make([]string, 0, len(markets))
	for name := range markets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sub := markets[name]
		subRecord, isRecord := asRecord(sub)
		if !isRecord {
			subRecord = Record{}
		}

		entry := table.Entry(name)
		entry.TotalBets = pickInt(subRecord, statsTotalBetsAliases)
		entry.Wins = pickInt(subRecord, statsWinsAliases)
		entry.Losses = pickInt(subRecord, statsLossesAliases)
		entry.Cashouts = pickInt(subRecord, statsCashoutsAliases)
		entry.CashoutsPositive = pickInt(subRecord, statsCashPositiveAliases)
		entry.TotalStake = pickNumber(subRecord, statsTotalStakeAliases)
		entry.TotalProfit = pickNumber(subRecord, statsTotalProfitAliases)
		entry.WinRate = pickInt(subRecord, statsWinRateAliases)
		entry.ROI = pickNumber(subRecord, statsROIAliases)
	}

	return table
}

// normalizeMonthly rebuilds the monthly series. Entries without a resolvable
// month label are dropped rather than defaulted, and losses are forced to a
// non-negative magnitude because providers disagree on the sign convention.
func normalizeMonthly(record Record) []stats.MonthlyPoint {
	value, ok := pickValue(record, statsMonthlyAliases)
	if !ok {
		return nil
	}
	list, ok := asList(value)
	if !ok {
		return nil
	}

	out := make([]stats.MonthlyPoint, 0, len(list))
	for _, element := range list {
		entry, isRecord := asRecord(element)
		if !isRecord {
			continue
		}

		month := pickString(entry, monthLabelAliases)
		if month == "" {
			continue
		}

		out = append(out, stats.MonthlyPoint{
			Month:  month,
			Gains:  pickNumber(entry, monthGainsAliases),
			Losses: math.Abs(pickNumber(entry, monthLossesAliases)),
		})
	}

	return out
}

func pickNumber(record Record, keys []string) float64 {
	value, ok := pickValue(record, keys)
	if !ok {
		return 0
	}
	return toNumber(value)
}

func pickInt(record Record, keys []string) int {
	return int(math.Round(pickNumber(record, keys)))
}
