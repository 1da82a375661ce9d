package bet

import (
	"testing"
	"time"
)

func TestNormalizeResult_Synonyms(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  Result
	}{
		{"win", ResultWin},
		{"won", ResultWin},
		{"WON", ResultWin},
		{"loss", ResultLoss},
		{"lost", ResultLoss},
		{"LOST", ResultLoss},
		{"lose", ResultLoss},
		{"void", ResultVoid},
		{"cashout", ResultCashout},
		{"  Cashout  ", ResultCashout},
		{"unknown", ResultPending},
		{"", ResultPending},
		{"half-won", ResultPending},
	}

	for _, tc := range cases {
		if got := NormalizeResult(tc.input); got != tc.want {
			t.Fatalf("NormalizeResult(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestValidateBasic(t *testing.T) {
	t.Parallel()

	valid := Bet{ID: "b1", Odd: 1.8, Stake: 50, Result: ResultPending}
	if err := valid.ValidateBasic(); err != nil {
		t.Fatalf("unexpected error for valid bet: %v", err)
	}

	missingID := Bet{Odd: 1.8, Result: ResultPending}
	if err := missingID.ValidateBasic(); err == nil {
		t.Fatalf("expected error for missing id")
	}

	negativeOdd := Bet{ID: "b1", Odd: -1, Result: ResultPending}
	if err := negativeOdd.ValidateBasic(); err == nil {
		t.Fatalf("expected error for negative odd")
	}

	badResult := Bet{ID: "b1", Result: Result("half-won")}
	if err := badResult.ValidateBasic(); err == nil {
		t.Fatalf("expected error for unknown result")
	}
}

func TestParseCreatedAt_Layouts(t *testing.T) {
	t.Parallel()

	cases := []string{
		"2026-06-15T18:30:00Z",
		"2026-06-15T18:30:00.123Z",
		"2026-06-15T18:30:00",
		"2026-06-15 18:30:00",
		"2026-06-15",
	}
	for _, raw := range cases {
		parsed, ok := ParseCreatedAt(raw)
		if !ok {
			t.Fatalf("ParseCreatedAt(%q) did not parse", raw)
		}
		if parsed.Year() != 2026 || parsed.Month() != time.June || parsed.Day() != 15 {
			t.Fatalf("ParseCreatedAt(%q) = %v, wrong date", raw, parsed)
		}
	}

	for _, raw := range []string{"", "   ", "not-a-date", "15/06/2026"} {
		if _, ok := ParseCreatedAt(raw); ok {
			t.Fatalf("ParseCreatedAt(%q) unexpectedly parsed", raw)
		}
	}
}

func TestFilterByRange_InclusiveDayGranularity(t *testing.T) {
	t.Parallel()

	bets := []Bet{
		{ID: "before", CreatedAt: "2026-05-31T23:59:59Z"},
		{ID: "start-midnight", CreatedAt: "2026-06-01"},
		{ID: "start-evening", CreatedAt: "2026-06-01T22:00:00Z"},
		{ID: "middle", CreatedAt: "2026-06-15T12:00:00Z"},
		{ID: "end-late", CreatedAt: "2026-06-30T23:59:00Z"},
		{ID: "after", CreatedAt: "2026-07-01T00:00:01Z"},
	}

	// Bounds deliberately mid-day: the filter snaps them to day edges.
	start := time.Date(2026, time.June, 1, 15, 30, 0, 0, time.UTC)
	end := time.Date(2026, time.June, 30, 8, 0, 0, 0, time.UTC)

	got := FilterByRange(bets, start, end)
	want := []string{"start-midnight", "start-evening", "middle", "end-late"}
	if len(got) != len(want) {
		t.Fatalf("filtered %d bets, want %d: %+v", len(got), len(want), got)
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("filtered[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestFilterByRange_ExcludesUnparsableCreatedAt(t *testing.T) {
	t.Parallel()

	bets := []Bet{
		{ID: "good", CreatedAt: "2026-06-15"},
		{ID: "garbage", CreatedAt: "yesterday"},
		{ID: "empty", CreatedAt: ""},
	}

	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)

	got := FilterByRange(bets, start, end)
	if len(got) != 1 || got[0].ID != "good" {
		t.Fatalf("expected only the parseable bet, got %+v", got)
	}
}
