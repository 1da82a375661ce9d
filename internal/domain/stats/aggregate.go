package stats

import (
	"math"
	"sort"

	"github.com/riskibarqy/bet-tracker/internal/domain/bet"
)

const monthlyBucketLayout = "2006-01"

// Aggregate computes the full summary for a bet collection in a single pass
// plus one finalize pass over the per-market table. It never mutates its
// input and allocates a fresh result on every call, so concurrent calls on
// independent collections are safe.
//
// Rate and ROI divisions degrade to 0 when the denominator is 0; a nil
// Profit contributes 0 to every profit sum.
func Aggregate(bets []bet.Bet) Stats {
	out := Stats{
		ByResult: make(map[string]int, 5),
		ByMarket: NewMarketTable(),
	}
	for _, result := range bet.Results() {
		out.ByResult[string(result)] = 0
	}

	oddSum := 0.0
	monthly := make(map[string]*MonthlyPoint)

	for _, b := range bets {
		profit := 0.0
		if b.Profit != nil {
			profit = *b.Profit
		}

		out.TotalBets++
		out.TotalStake += b.Stake
		out.TotalProfit += profit
		oddSum += b.Odd
		out.ByResult[string(b.Result)]++

		market := out.ByMarket.Entry(b.Market)
		market.TotalBets++
		market.TotalStake += b.Stake
		market.TotalProfit += profit

		switch b.Result {
		case bet.ResultWin:
			out.Wins++
			market.Wins++
		case bet.ResultLoss:
			out.Losses++
			market.Losses++
		case bet.ResultCashout:
			out.Cashouts++
			market.Cashouts++
			if b.Profit != nil && profit > 0 {
				market.CashoutsPositive++
				out.PositiveCashouts++
				out.PositiveCashoutsProfit += profit
			}
		}

		if createdAt, ok := bet.ParseCreatedAt(b.CreatedAt); ok {
			label := createdAt.Format(monthlyBucketLayout)
			point, exists := monthly[label]
			if !exists {
				point = &MonthlyPoint{Month: label}
				monthly[label] = point
			}
			if profit >= 0 {
				point.Gains += profit
			} else {
				point.Losses += -profit
			}
		}
	}

	if out.TotalBets > 0 {
		out.AvgOdd = oddSum / float64(out.TotalBets)
	}
	out.WinRate = winRate(out.Wins, out.TotalBets)
	out.ROI = roi(out.TotalProfit, out.TotalStake)

	for _, name := range out.ByMarket.Markets() {
		market := out.ByMarket.Entry(name)
		market.WinRate = winRate(market.Wins, market.TotalBets)
		market.ROI = roi(market.TotalProfit, market.TotalStake)
	}

	out.BestMarket, out.WorstMarket = pickBestWorst(out.ByMarket)
	out.MonthlyPerformance = sortMonthly(monthly)

	return out
}

func winRate(wins, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(wins) / float64(total)))
}

func roi(profit, stake float64) float64 {
	if stake == 0 {
		return 0
	}
	return 100 * profit / stake
}

// pickBestWorst scans markets in first-seen order with strict comparisons,
// so the earliest-inserted market wins any ROI tie.
func pickBestWorst(table *MarketTable) (best, worst string) {
	first := true
	bestROI := 0.0
	worstROI := 0.0

	for _, name := range table.Markets() {
		market, _ := table.Get(name)
		if first {
			best, worst = name, name
			bestROI, worstROI = market.ROI, market.ROI
			first = false
			continue
		}
		if market.ROI > bestROI {
			best = name
			bestROI = market.ROI
		}
		if market.ROI < worstROI {
			worst = name
			worstROI = market.ROI
		}
	}

	return best, worst
}

func sortMonthly(buckets map[string]*MonthlyPoint) []MonthlyPoint {
	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	// Labels are year-month, so lexical order is chronological order.
	sort.Strings(labels)

	out := make([]MonthlyPoint, 0, len(labels))
	for _, label := range labels {
		out = append(out, *buckets[label])
	}

	return out
}
