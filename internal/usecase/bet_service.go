package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/riskibarqy/bet-tracker/internal/domain/bet"
	idgen "github.com/riskibarqy/bet-tracker/internal/platform/id"
)

// StatsInvalidator drops cached stats summaries after a write. A nil
// invalidator disables invalidation (cache disabled).
type StatsInvalidator interface {
	DeletePrefix(ctx context.Context, prefix string)
}

type BetService struct {
	betRepo     bet.Repository
	idGenerator idgen.Generator
	invalidator StatsInvalidator
	logger      *slog.Logger
	now         func() time.Time
}

func NewBetService(
	betRepo bet.Repository,
	idGenerator idgen.Generator,
	invalidator StatsInvalidator,
	logger *slog.Logger,
) *BetService {
	if logger == nil {
		logger = slog.Default()
	}

	return &BetService{
		betRepo:     betRepo,
		idGenerator: idGenerator,
		invalidator: invalidator,
		logger:      logger,
		now:         time.Now,
	}
}

type UpsertBetInput struct {
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
	Result      string
	IsLive      bool
	Source      *string
	ImageURL    *string
}

func (s *BetService) ListBets(ctx context.Context, userID string) ([]bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.ListBets")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		bets, err := s.betRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list bets: %w", err)
		}
		return bets, nil
	}

	bets, err := s.betRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bets by user: %w", err)
	}

	return bets, nil
}

func (s *BetService) GetBet(ctx context.Context, betID string) (bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.GetBet")
	defer span.End()

	betID = strings.TrimSpace(betID)
	if betID == "" {
		return bet.Bet{}, fmt.Errorf("%w: bet id is required", ErrInvalidInput)
	}

	item, exists, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("get bet: %w", err)
	}
	if !exists {
		return bet.Bet{}, fmt.Errorf("%w: bet=%s", ErrNotFound, betID)
	}

	return item, nil
}

func (s *BetService) CreateBet(ctx context.Context, input UpsertBetInput) (bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.CreateBet")
	defer span.End()

	item, err := s.buildBet(input)
	if err != nil {
		return bet.Bet{}, err
	}

	betID, err := s.idGenerator.NewID()
	if err != nil {
		return bet.Bet{}, fmt.Errorf("generate bet id: %w", err)
	}
	item.ID = betID
	item.CreatedAt = s.now().UTC().Format(time.RFC3339)

	if err := s.betRepo.Upsert(ctx, item); err != nil {
		return bet.Bet{}, fmt.Errorf("create bet: %w", err)
	}

	s.invalidateStats(ctx, item.UserID)
	s.logger.InfoContext(ctx, "bet created", "bet_id", item.ID, "market", item.Market)

	return item, nil
}

func (s *BetService) UpdateBet(ctx context.Context, betID string, input UpsertBetInput) (bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.UpdateBet")
	defer span.End()

	existing, err := s.GetBet(ctx, betID)
	if err != nil {
		return bet.Bet{}, err
	}

	updated, err := s.buildBet(input)
	if err != nil {
		return bet.Bet{}, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if updated.UserID == "" {
		updated.UserID = existing.UserID
	}
	updatedAt := s.now().UTC().Format(time.RFC3339)
	updated.UpdatedAt = &updatedAt

	if err := s.betRepo.Upsert(ctx, updated); err != nil {
		return bet.Bet{}, fmt.Errorf("update bet: %w", err)
	}

	s.invalidateStats(ctx, updated.UserID)

	return updated, nil
}

func (s *BetService) DeleteBet(ctx context.Context, betID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.DeleteBet")
	defer span.End()

	betID = strings.TrimSpace(betID)
	if betID == "" {
		return fmt.Errorf("%w: bet id is required", ErrInvalidInput)
	}

	existing, err := s.GetBet(ctx, betID)
	if err != nil {
		return err
	}

	deleted, err := s.betRepo.Delete(ctx, betID)
	if err != nil {
		return fmt.Errorf("delete bet: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: bet=%s", ErrNotFound, betID)
	}

	s.invalidateStats(ctx, existing.UserID)

	return nil
}

func (s *BetService) buildBet(input UpsertBetInput) (bet.Bet, error) {
	if input.Odd < 0 {
		return bet.Bet{}, fmt.Errorf("%w: odd must be non-negative", ErrInvalidInput)
	}
	if input.Stake < 0 {
		return bet.Bet{}, fmt.Errorf("%w: stake must be non-negative", ErrInvalidInput)
	}

	event := strings.TrimSpace(input.Event)
	if event == "" && input.HomeTeam != nil && input.AwayTeam != nil {
		event = fmt.Sprintf("%s vs %s", *input.HomeTeam, *input.AwayTeam)
	}

	return bet.Bet{
		UserID:      strings.TrimSpace(input.UserID),
		FixtureID:   input.FixtureID,
		HomeTeam:    input.HomeTeam,
		AwayTeam:    input.AwayTeam,
		Event:       event,
		Market:      strings.TrimSpace(input.Market),
		Odd:         input.Odd,
		Stake:       input.Stake,
		PayoutValue: input.PayoutValue,
		Profit:      input.Profit,
		Result:      bet.NormalizeResult(input.Result),
		IsLive:      input.IsLive,
		Source:      input.Source,
		ImageURL:    input.ImageURL,
	}, nil
}

func (s *BetService) invalidateStats(ctx context.Context, userID string) {
	if s.invalidator == nil {
		return
	}
	s.invalidator.DeletePrefix(ctx, statsCachePrefix(userID))
}
