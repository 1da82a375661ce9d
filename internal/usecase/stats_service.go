package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/riskibarqy/bet-tracker/internal/domain/bet"
	"github.com/riskibarqy/bet-tracker/internal/domain/stats"
	"github.com/riskibarqy/bet-tracker/internal/platform/cache"
)

// StatsProvider serves pre-aggregated summaries from an external tracker.
// It is the fallback when no bets exist locally yet.
type StatsProvider interface {
	FetchStats(ctx context.Context, userID string) (stats.Stats, bool, error)
}

type StatsService struct {
	betRepo      bet.Repository
	provider     StatsProvider
	cacheStore   *cache.Store
	allTimeStart time.Time
	logger       *slog.Logger
	now          func() time.Time
}

// NewStatsService builds the stats read path. provider and cacheStore may
// be nil. allTimeStart is the lower bound used when a query has no explicit
// start; it is deployment configuration, not a constant.
func NewStatsService(
	betRepo bet.Repository,
	provider StatsProvider,
	cacheStore *cache.Store,
	allTimeStart time.Time,
	logger *slog.Logger,
) *StatsService {
	if logger == nil {
		logger = slog.Default()
	}

	return &StatsService{
		betRepo:      betRepo,
		provider:     provider,
		cacheStore:   cacheStore,
		allTimeStart: allTimeStart,
		logger:       logger,
		now:          time.Now,
	}
}

type StatsQuery struct {
	UserID string
	From   *time.Time
	To     *time.Time
}

// GetStats computes the summary for one user's bets inside the requested
// range. Results are cached per user+range and rebuilt from scratch on every
// miss; the summary is always derived, never patched in place.
func (s *StatsService) GetStats(ctx context.Context, query StatsQuery) (stats.Stats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.GetStats")
	defer span.End()

	from := s.allTimeStart
	if query.From != nil {
		from = *query.From
	}
	to := s.now().UTC()
	if query.To != nil {
		to = *query.To
	}
	if to.Before(from) {
		return stats.Stats{}, fmt.Errorf("%w: range end before range start", ErrInvalidInput)
	}

	if s.cacheStore == nil {
		return s.computeStats(ctx, query.UserID, from, to)
	}

	key := statsCacheKey(query.UserID, from, to)
	value, err := s.cacheStore.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.computeStats(ctx, query.UserID, from, to)
	})
	if err != nil {
		return stats.Stats{}, err
	}

	summary, ok := value.(stats.Stats)
	if !ok {
		return stats.Stats{}, fmt.Errorf("unexpected cached stats type %T", value)
	}

	return summary, nil
}

func (s *StatsService) computeStats(ctx context.Context, userID string, from, to time.Time) (stats.Stats, error) {
	bets, err := s.listBets(ctx, userID)
	if err != nil {
		return stats.Stats{}, err
	}

	if len(bets) == 0 && s.provider != nil {
		remote, found, provErr := s.provider.FetchStats(ctx, userID)
		if provErr != nil {
			s.logger.WarnContext(ctx, "provider stats unavailable", "user_id", userID, "error", provErr)
		} else if found {
			return remote, nil
		}
	}

	return stats.Aggregate(bet.FilterByRange(bets, from, to)), nil
}

func (s *StatsService) listBets(ctx context.Context, userID string) ([]bet.Bet, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		bets, err := s.betRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list bets for stats: %w", err)
		}
		return bets, nil
	}

	bets, err := s.betRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bets for stats: %w", err)
	}

	return bets, nil
}

func statsCachePrefix(userID string) string {
	return "stats:" + userID + ":"
}

func statsCacheKey(userID string, from, to time.Time) string {
	return statsCachePrefix(userID) + from.Format("2006-01-02") + ":" + to.Format("2006-01-02")
}
