package memory

import (
	"github.com/riskibarqy/bet-tracker/internal/domain/bet"
)

const SeedUserID = "demo-user"

func strPtr(v string) *string { return &v }

func floatPtr(v float64) *float64 { return &v }

func int64Ptr(v int64) *int64 { return &v }

// SeedBets returns a small in-memory dataset for local development without a
// database. Created timestamps are spread over two months so the monthly
// performance series has more than one point.
func SeedBets() []bet.Bet {
	return []bet.Bet{
		{
			ID:          "seed-0001",
			UserID:      SeedUserID,
			FixtureID:   int64Ptr(881101),
			HomeTeam:    strPtr("Flamengo"),
			AwayTeam:    strPtr("Palmeiras"),
			Event:       "Flamengo vs Palmeiras",
			Market:      "Match Winner",
			Odd:         1.85,
			Stake:       50,
			PayoutValue: floatPtr(92.5),
			Profit:      floatPtr(42.5),
			Result:      bet.ResultWin,
			Source:      strPtr("seed"),
			CreatedAt:   "2026-06-03T18:30:00Z",
		},
		{
			ID:        "seed-0002",
			UserID:    SeedUserID,
			HomeTeam:  strPtr("Corinthians"),
			AwayTeam:  strPtr("Santos"),
			Event:     "Corinthians vs Santos",
			Market:    "Match Winner",
			Odd:       2.4,
			Stake:     30,
			Profit:    floatPtr(-30),
			Result:    bet.ResultLoss,
			Source:    strPtr("seed"),
			CreatedAt: "2026-06-15T20:00:00Z",
		},
		{
			ID:        "seed-0003",
			UserID:    SeedUserID,
			Event:     "Gremio vs Internacional",
			Market:    "Over/Under 2.5",
			Odd:       1.95,
			Stake:     40,
			Profit:    floatPtr(38),
			Result:    bet.ResultWin,
			IsLive:    true,
			Source:    strPtr("seed"),
			CreatedAt: "2026-07-02T16:45:00Z",
		},
		{
			ID:          "seed-0004",
			UserID:      SeedUserID,
			Event:       "Botafogo vs Fluminense",
			Market:      "Both Teams To Score",
			Odd:         1.7,
			Stake:       25,
			PayoutValue: floatPtr(31.2),
			Profit:      floatPtr(6.2),
			Result:      bet.ResultCashout,
			Source:      strPtr("seed"),
			CreatedAt:   "2026-07-11T19:15:00Z",
		},
		{
			ID:        "seed-0005",
			UserID:    SeedUserID,
			Event:     "Cruzeiro vs Atletico-MG",
			Market:    "Match Winner",
			Odd:       3.1,
			Stake:     20,
			Result:    bet.ResultPending,
			Source:    strPtr("seed"),
			CreatedAt: "2026-07-28T21:00:00Z",
		},
	}
}
