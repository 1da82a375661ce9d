package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/bet-tracker/internal/domain/stats"
	"github.com/riskibarqy/bet-tracker/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

var statsRangeLayouts = []string{
	"2006-01-02",
	time.RFC3339,
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStats")
	defer span.End()

	query := usecase.StatsQuery{UserID: requestUserID(r)}

	from, err := parseStatsRangeParam(r, "from")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	query.From = from

	to, err := parseStatsRangeParam(r, "to")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	query.To = to

	summary, err := h.statsService.GetStats(ctx, query)
	if err != nil {
		h.logger.WarnContext(ctx, "get stats failed", "user_id", query.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statsToDTO(ctx, summary))
}

func parseStatsRangeParam(r *http.Request, name string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}

	for _, layout := range statsRangeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			parsed = parsed.UTC()
			return &parsed, nil
		}
	}

	return nil, fmt.Errorf("%w: invalid %s date %q", usecase.ErrInvalidInput, name, raw)
}

type statsDTO struct {
	TotalBets              int               `json:"total_bets"`
	Wins                   int               `json:"wins"`
	Losses                 int               `json:"losses"`
	Cashouts               int               `json:"cashouts"`
	TotalStake             float64           `json:"total_stake"`
	TotalProfit            float64           `json:"total_profit"`
	AvgOdd                 float64           `json:"avg_odd"`
	WinRate                int               `json:"win_rate"`
	ROI                    float64           `json:"roi"`
	ByResult               map[string]int    `json:"by_result"`
	ByMarket               byMarketDTO       `json:"by_market"`
	BestMarket             string            `json:"best_market"`
	WorstMarket            string            `json:"worst_market"`
	PositiveCashouts       int               `json:"positive_cashouts"`
	PositiveCashoutsProfit float64           `json:"positive_cashouts_profit"`
	MonthlyPerformance     []monthlyPointDTO `json:"monthly_performance"`
}

type marketStatsDTO struct {
	TotalBets        int     `json:"total_bets"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	Cashouts         int     `json:"cashouts"`
	CashoutsPositive int     `json:"cashouts_positive"`
	TotalStake       float64 `json:"total_stake"`
	TotalProfit      float64 `json:"total_profit"`
	WinRate          int     `json:"win_rate"`
	ROI              float64 `json:"roi"`
}

type monthlyPointDTO struct {
	Month  string  `json:"month"`
	Gains  float64 `json:"gains"`
	Losses float64 `json:"losses"`
}

// byMarketDTO serializes the market table as a JSON object in first-seen
// market order. encoding a plain map would re-order the keys.
type byMarketDTO struct {
	table *stats.MarketTable
}

func (d byMarketDTO) MarshalJSON() ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_ = buf.WriteByte('{')
	for i, market := range d.table.Markets() {
		if i > 0 {
			_ = buf.WriteByte(',')
		}

		nameJSON, err := sonic.Marshal(market)
		if err != nil {
			return nil, err
		}
		_, _ = buf.Write(nameJSON)
		_ = buf.WriteByte(':')

		entry, _ := d.table.Get(market)
		entryJSON, err := sonic.Marshal(marketStatsToDTO(entry))
		if err != nil {
			return nil, err
		}
		_, _ = buf.Write(entryJSON)
	}
	_ = buf.WriteByte('}')

	return append([]byte(nil), buf.B...), nil
}

func statsToDTO(ctx context.Context, v stats.Stats) statsDTO {
	ctx, span := startSpan(ctx, "httpapi.statsToDTO")
	defer span.End()

	monthly := make([]monthlyPointDTO, 0, len(v.MonthlyPerformance))
	for _, point := range v.MonthlyPerformance {
		monthly = append(monthly, monthlyPointDTO{
			Month:  point.Month,
			Gains:  point.Gains,
			Losses: point.Losses,
		})
	}

	byResult := v.ByResult
	if byResult == nil {
		byResult = map[string]int{}
	}

	return statsDTO{
		TotalBets:              v.TotalBets,
		Wins:                   v.Wins,
		Losses:                 v.Losses,
		Cashouts:               v.Cashouts,
		TotalStake:             v.TotalStake,
		TotalProfit:            v.TotalProfit,
		AvgOdd:                 v.AvgOdd,
		WinRate:                v.WinRate,
		ROI:                    v.ROI,
		ByResult:               byResult,
		ByMarket:               byMarketDTO{table: v.ByMarket},
		BestMarket:             v.BestMarket,
		WorstMarket:            v.WorstMarket,
		PositiveCashouts:       v.PositiveCashouts,
		PositiveCashoutsProfit: v.PositiveCashoutsProfit,
		MonthlyPerformance:     monthly,
	}
}

func marketStatsToDTO(v stats.MarketStats) marketStatsDTO {
	return marketStatsDTO{
		TotalBets:        v.TotalBets,
		Wins:             v.Wins,
		Losses:           v.Losses,
		Cashouts:         v.Cashouts,
		CashoutsPositive: v.CashoutsPositive,
		TotalStake:       v.TotalStake,
		TotalProfit:      v.TotalProfit,
		WinRate:          v.WinRate,
		ROI:              v.ROI,
	}
}
