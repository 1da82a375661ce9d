package bet

import (
	"fmt"
	"strings"
	"time"
)

// Result is the settled outcome of one wager.
type Result string

const (
	ResultWin     Result = "win"
	ResultLoss    Result = "loss"
	ResultPending Result = "pending"
	ResultVoid    Result = "void"
	ResultCashout Result = "cashout"
)

// Results lists every canonical result value in a stable order.
func Results() []Result {
	return []Result{ResultWin, ResultLoss, ResultPending, ResultVoid, ResultCashout}
}

// Bet is one recorded wager with its resolved outcome and financial result.
//
// CreatedAt is kept as the ISO-8601 string that providers send; timestamps
// are only parsed where a real time comparison is needed (see ParseCreatedAt).
// Profit is a pointer because "unknown" is distinct from a known zero result.
type Bet struct {
	ID          string
	UserID      string
	FixtureID   *int64
	HomeTeam    *string
	AwayTeam    *string
	Event       string
	Market      string
	Odd         float64
	Stake       float64
	PayoutValue *float64
	Profit      *float64
	Result      Result
	IsLive      bool
	Source      *string
	ImageURL    *string
	CreatedAt   string
	UpdatedAt   *string
}

func (b Bet) ValidateBasic() error {
	if b.ID == "" {
		return fmt.Errorf("bet id is required")
	}
	if b.Odd < 0 {
		return fmt.Errorf("odd must be non-negative")
	}
	if b.Stake < 0 {
		return fmt.Errorf("stake must be non-negative")
	}
	if !isCanonicalResult(b.Result) {
		return fmt.Errorf("unknown result %q", b.Result)
	}

	return nil
}

// NormalizeResult maps free-form provider outcome labels onto the canonical
// result enum. Matching is case-insensitive and the common settlement
// synonyms (won, lost, lose) are accepted; anything else is pending.
func NormalizeResult(value string) Result {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "win", "won":
		return ResultWin
	case "loss", "lost", "lose":
		return ResultLoss
	case "void":
		return ResultVoid
	case "cashout":
		return ResultCashout
	default:
		return ResultPending
	}
}

func isCanonicalResult(r Result) bool {
	switch r {
	case ResultWin, ResultLoss, ResultPending, ResultVoid, ResultCashout:
		return true
	default:
		return false
	}
}

// createdAtLayouts are tried in order when parsing provider timestamps.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseCreatedAt parses a bet timestamp string. The boolean reports whether
// any of the accepted ISO-8601 layouts matched.
func ParseCreatedAt(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range createdAtLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}

// FilterByRange keeps the bets whose CreatedAt falls inside [start, end] at
// day granularity: the lower bound snaps to the start of start's day and the
// upper bound to the end of end's day. Bets with an unparsable CreatedAt are
// excluded; a record without a usable date cannot be placed in any range.
func FilterByRange(bets []Bet, start, end time.Time) []Bet {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	to := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), end.Location())

	out := make([]Bet, 0, len(bets))
	for _, b := range bets {
		createdAt, ok := ParseCreatedAt(b.CreatedAt)
		if !ok {
			continue
		}
		if createdAt.Before(from) || createdAt.After(to) {
			continue
		}
		out = append(out, b)
	}

	return out
}
