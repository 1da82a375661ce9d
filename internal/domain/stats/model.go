package stats

// MarketStats aggregates the bets placed on one market.
//
// Pending and void bets count toward TotalBets but neither Wins nor Losses,
// so Wins+Losses+Cashouts <= TotalBets always holds.
type MarketStats struct {
	TotalBets        int
	Wins             int
	Losses           int
	Cashouts         int
	CashoutsPositive int
	TotalStake       float64
	TotalProfit      float64
	WinRate          int
	ROI              float64
}

// MonthlyPoint is one month of gains and losses. Losses is a magnitude,
// never negative.
type MonthlyPoint struct {
	Month  string
	Gains  float64
	Losses float64
}

// Stats is the full derived summary for a bet collection. It has no
// identity of its own: it is always rebuilt from scratch, never patched.
type Stats struct {
	TotalBets              int
	Wins                   int
	Losses                 int
	Cashouts               int
	TotalStake             float64
	TotalProfit            float64
	AvgOdd                 float64
	WinRate                int
	ROI                    float64
	ByResult               map[string]int
	ByMarket               *MarketTable
	BestMarket             string
	WorstMarket            string
	PositiveCashouts       int
	PositiveCashoutsProfit float64
	MonthlyPerformance     []MonthlyPoint
}

// MarketTable maps market names to their aggregates while remembering the
// order in which markets were first seen. Plain Go maps lose that order and
// the best/worst tie-break depends on it.
type MarketTable struct {
	order []string
	items map[string]*MarketStats
}

func NewMarketTable() *MarketTable {
	return &MarketTable{
		items: make(map[string]*MarketStats),
	}
}

// Entry returns the aggregate for name, creating a zeroed one on first use.
func (t *MarketTable) Entry(name string) *MarketStats {
	if existing, ok := t.items[name]; ok {
		return existing
	}

	created := &MarketStats{}
	t.items[name] = created
	t.order = append(t.order, name)

	return created
}

func (t *MarketTable) Get(name string) (MarketStats, bool) {
	if t == nil {
		return MarketStats{}, false
	}
	item, ok := t.items[name]
	if !ok {
		return MarketStats{}, false
	}
	return *item, true
}

// Markets returns the market names in first-seen order.
func (t *MarketTable) Markets() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.order...)
}

func (t *MarketTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}
