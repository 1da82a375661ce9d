package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/bet-tracker/internal/domain/bet"
	"github.com/riskibarqy/bet-tracker/internal/domain/stats"
	"github.com/riskibarqy/bet-tracker/internal/platform/cache"
)

var statsTestStart = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

func profitPtr(v float64) *float64 { return &v }

func newStatsServiceForTest(repo bet.Repository, provider StatsProvider, store *cache.Store) *StatsService {
	svc := NewStatsService(repo, provider, store, statsTestStart, nil)
	svc.now = fixedNow
	return svc
}

func TestStatsService_ComputesFromLocalBets(t *testing.T) {
	t.Parallel()

	repo := newFakeBetRepository(
		bet.Bet{ID: "1", UserID: "u1", Market: "A", Stake: 100, Profit: profitPtr(50), Result: bet.ResultWin, CreatedAt: "2026-07-01"},
		bet.Bet{ID: "2", UserID: "u1", Market: "A", Stake: 100, Profit: profitPtr(-100), Result: bet.ResultLoss, CreatedAt: "2026-07-02"},
	)
	svc := newStatsServiceForTest(repo, nil, nil)

	got, err := svc.GetStats(context.Background(), StatsQuery{UserID: "u1"})
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if got.TotalBets != 2 || got.TotalStake != 200 || got.TotalProfit != -50 {
		t.Fatalf("unexpected summary: %+v", got)
	}
	if got.ROI != -25 {
		t.Fatalf("roi = %v, want -25", got.ROI)
	}
}

func TestStatsService_AppliesDateRange(t *testing.T) {
	t.Parallel()

	repo := newFakeBetRepository(
		bet.Bet{ID: "in", UserID: "u1", Market: "A", Stake: 10, Result: bet.ResultWin, CreatedAt: "2026-06-15"},
		bet.Bet{ID: "out", UserID: "u1", Market: "A", Stake: 99, Result: bet.ResultWin, CreatedAt: "2026-01-15"},
	)
	svc := newStatsServiceForTest(repo, nil, nil)

	from := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC)
	got, err := svc.GetStats(context.Background(), StatsQuery{UserID: "u1", From: &from, To: &to})
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if got.TotalBets != 1 || got.TotalStake != 10 {
		t.Fatalf("range not applied: %+v", got)
	}
}

func TestStatsService_RejectsInvertedRange(t *testing.T) {
	t.Parallel()

	svc := newStatsServiceForTest(newFakeBetRepository(), nil, nil)

	from := time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.GetStats(context.Background(), StatsQuery{UserID: "u1", From: &from, To: &to})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStatsService_ProviderFallbackWhenNoLocalBets(t *testing.T) {
	t.Parallel()

	provider := &fakeStatsProvider{
		summary: stats.Stats{TotalBets: 12, WinRate: 50},
		found:   true,
	}
	svc := newStatsServiceForTest(newFakeBetRepository(), provider, nil)

	got, err := svc.GetStats(context.Background(), StatsQuery{UserID: "u1"})
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if got.TotalBets != 12 || got.WinRate != 50 {
		t.Fatalf("provider summary not used: %+v", got)
	}
	if provider.calls != 1 {
		t.Fatalf("provider called %d times, want 1", provider.calls)
	}
}

func TestStatsService_ProviderMissFallsBackToEmptyAggregate(t *testing.T) {
	t.Parallel()

	provider := &fakeStatsProvider{found: false}
	svc := newStatsServiceForTest(newFakeBetRepository(), provider, nil)

	got, err := svc.GetStats(context.Background(), StatsQuery{UserID: "u1"})
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if got.TotalBets != 0 || got.ByMarket == nil {
		t.Fatalf("expected empty aggregate, got %+v", got)
	}
}

func TestStatsService_ProviderErrorDegradesToLocalAggregate(t *testing.T) {
	t.Parallel()

	provider := &fakeStatsProvider{err: errors.New("provider down")}
	svc := newStatsServiceForTest(newFakeBetRepository(), provider, nil)

	got, err := svc.GetStats(context.Background(), StatsQuery{UserID: "u1"})
	if err != nil {
		t.Fatalf("provider failure must not surface: %v", err)
	}
	if got.TotalBets != 0 {
		t.Fatalf("expected empty aggregate, got %+v", got)
	}
}

func TestStatsService_LocalBetsSkipProvider(t *testing.T) {
	t.Parallel()

	provider := &fakeStatsProvider{summary: stats.Stats{TotalBets: 99}, found: true}
	repo := newFakeBetRepository(
		bet.Bet{ID: "1", UserID: "u1", Market: "A", Stake: 10, Result: bet.ResultWin, CreatedAt: "2026-07-01"},
	)
	svc := newStatsServiceForTest(repo, provider, nil)

	got, err := svc.GetStats(context.Background(), StatsQuery{UserID: "u1"})
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if got.TotalBets != 1 {
		t.Fatalf("local aggregate not preferred: %+v", got)
	}
	if provider.calls != 0 {
		t.Fatalf("provider called despite local bets")
	}
}

func TestStatsService_CachesPerUserAndRange(t *testing.T) {
	t.Parallel()

	repo := newFakeBetRepository(
		bet.Bet{ID: "1", UserID: "u1", Market: "A", Stake: 10, Result: bet.ResultWin, CreatedAt: "2026-07-01"},
	)
	store := cache.NewStore(time.Minute)
	svc := newStatsServiceForTest(repo, nil, store)

	first, err := svc.GetStats(context.Background(), StatsQuery{UserID: "u1"})
	if err != nil {
		t.Fatalf("first get: %v", err)
	}

	// A write bypassing invalidation is invisible until the entry expires.
	_ = repo.Upsert(context.Background(), bet.Bet{ID: "2", UserID: "u1", Market: "A", Stake: 10, Result: bet.ResultWin, CreatedAt: "2026-07-02"})

	second, err := svc.GetStats(context.Background(), StatsQuery{UserID: "u1"})
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if second.TotalBets != first.TotalBets {
		t.Fatalf("cache miss on identical query: %d vs %d", second.TotalBets, first.TotalBets)
	}

	store.DeletePrefix(context.Background(), "stats:u1:")
	third, err := svc.GetStats(context.Background(), StatsQuery{UserID: "u1"})
	if err != nil {
		t.Fatalf("third get: %v", err)
	}
	if third.TotalBets != 2 {
		t.Fatalf("expected recomputed summary after invalidation, got %+v", third)
	}
}
