package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/riskibarqy/bet-tracker/internal/domain/bet"
)

// BetProvider pulls raw bet collections from an external tracker. The
// returned bets are already normalized by the client's parser.
type BetProvider interface {
	FetchBets(ctx context.Context, userID string) ([]bet.Bet, error)
}

// SyncService mirrors a user's remotely tracked bets into local storage.
type SyncService struct {
	betRepo     bet.Repository
	provider    BetProvider
	invalidator StatsInvalidator
	logger      *slog.Logger
}

func NewSyncService(
	betRepo bet.Repository,
	provider BetProvider,
	invalidator StatsInvalidator,
	logger *slog.Logger,
) *SyncService {
	if logger == nil {
		logger = slog.Default()
	}

	return &SyncService{
		betRepo:     betRepo,
		provider:    provider,
		invalidator: invalidator,
		logger:      logger,
	}
}

type SyncResult struct {
	Synced int `json:"synced"`
}

func (s *SyncService) Sync(ctx context.Context, userID string) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Sync")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return SyncResult{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if s.provider == nil {
		return SyncResult{}, fmt.Errorf("%w: bet provider is not configured", ErrDependencyUnavailable)
	}

	bets, err := s.provider.FetchBets(ctx, userID)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch provider bets: %w", err)
	}

	for i := range bets {
		if bets[i].UserID == "" {
			bets[i].UserID = userID
		}
	}

	if len(bets) > 0 {
		if err := s.betRepo.UpsertMany(ctx, bets); err != nil {
			return SyncResult{}, fmt.Errorf("upsert synced bets: %w", err)
		}
		if s.invalidator != nil {
			s.invalidator.DeletePrefix(ctx, statsCachePrefix(userID))
		}
	}

	s.logger.InfoContext(ctx, "provider sync finished", "user_id", userID, "synced", len(bets))

	return SyncResult{Synced: len(bets)}, nil
}
