package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/bet-tracker/internal/domain/bet"
)

func TestSyncService_MirrorsProviderBets(t *testing.T) {
	t.Parallel()

	repo := newFakeBetRepository()
	invalidator := &recordingInvalidator{}
	provider := &fakeBetProvider{bets: []bet.Bet{
		{ID: "r1", Market: "Match Winner", Result: bet.ResultWin},
		{ID: "r2", UserID: "other", Market: "Corners", Result: bet.ResultLoss},
	}}
	svc := NewSyncService(repo, provider, invalidator, nil)

	result, err := svc.Sync(context.Background(), "u1")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Synced != 2 {
		t.Fatalf("synced = %d, want 2", result.Synced)
	}

	first, _, _ := repo.GetByID(context.Background(), "r1")
	if first.UserID != "u1" {
		t.Fatalf("missing user_id not filled in: %q", first.UserID)
	}
	second, _, _ := repo.GetByID(context.Background(), "r2")
	if second.UserID != "other" {
		t.Fatalf("provider-supplied user_id overridden: %q", second.UserID)
	}

	if len(invalidator.prefixes) != 1 || invalidator.prefixes[0] != "stats:u1:" {
		t.Fatalf("unexpected invalidations: %v", invalidator.prefixes)
	}
}

func TestSyncService_EmptyFetchSkipsWrites(t *testing.T) {
	t.Parallel()

	invalidator := &recordingInvalidator{}
	svc := NewSyncService(newFakeBetRepository(), &fakeBetProvider{}, invalidator, nil)

	result, err := svc.Sync(context.Background(), "u1")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Synced != 0 {
		t.Fatalf("synced = %d, want 0", result.Synced)
	}
	if len(invalidator.prefixes) != 0 {
		t.Fatalf("cache invalidated without writes: %v", invalidator.prefixes)
	}
}

func TestSyncService_ProviderFailure(t *testing.T) {
	t.Parallel()

	svc := NewSyncService(newFakeBetRepository(), &fakeBetProvider{err: errors.New("boom")}, nil, nil)

	if _, err := svc.Sync(context.Background(), "u1"); err == nil {
		t.Fatalf("expected provider failure to surface")
	}
}

func TestSyncService_RequiresConfiguration(t *testing.T) {
	t.Parallel()

	svc := NewSyncService(newFakeBetRepository(), nil, nil, nil)

	if _, err := svc.Sync(context.Background(), "u1"); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable for nil provider, got %v", err)
	}
	if _, err := svc.Sync(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank user, got %v", err)
	}
}
