package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/bet-tracker/internal/domain/bet"
	"github.com/riskibarqy/bet-tracker/internal/domain/stats"
)

// fakeBetRepository is an in-memory bet.Repository that preserves insertion
// order, mirroring what the real stores guarantee.
type fakeBetRepository struct {
	items map[string]bet.Bet
	order []string
}

func newFakeBetRepository(bets ...bet.Bet) *fakeBetRepository {
	repo := &fakeBetRepository{items: make(map[string]bet.Bet)}
	for _, b := range bets {
		repo.put(b)
	}
	return repo
}

func (r *fakeBetRepository) put(item bet.Bet) {
	if _, exists := r.items[item.ID]; !exists {
		r.order = append(r.order, item.ID)
	}
	r.items[item.ID] = item
}

func (r *fakeBetRepository) List(context.Context) ([]bet.Bet, error) {
	out := make([]bet.Bet, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *fakeBetRepository) ListByUser(_ context.Context, userID string) ([]bet.Bet, error) {
	out := make([]bet.Bet, 0, len(r.order))
	for _, id := range r.order {
		if item := r.items[id]; item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeBetRepository) GetByID(_ context.Context, betID string) (bet.Bet, bool, error) {
	item, ok := r.items[betID]
	return item, ok, nil
}

func (r *fakeBetRepository) Upsert(_ context.Context, item bet.Bet) error {
	r.put(item)
	return nil
}

func (r *fakeBetRepository) UpsertMany(_ context.Context, items []bet.Bet) error {
	for _, item := range items {
		r.put(item)
	}
	return nil
}

func (r *fakeBetRepository) Delete(_ context.Context, betID string) (bool, error) {
	if _, ok := r.items[betID]; !ok {
		return false, nil
	}
	delete(r.items, betID)
	for i, id := range r.order {
		if id == betID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

type sequentialIDGenerator struct {
	next int
}

func (g *sequentialIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("bet-%d", g.next), nil
}

type recordingInvalidator struct {
	prefixes []string
}

func (r *recordingInvalidator) DeletePrefix(_ context.Context, prefix string) {
	r.prefixes = append(r.prefixes, prefix)
}

type fakeStatsProvider struct {
	summary stats.Stats
	found   bool
	err     error
	calls   int
}

func (p *fakeStatsProvider) FetchStats(context.Context, string) (stats.Stats, bool, error) {
	p.calls++
	return p.summary, p.found, p.err
}

type fakeBetProvider struct {
	bets []bet.Bet
	err  error
}

func (p *fakeBetProvider) FetchBets(context.Context, string) ([]bet.Bet, error) {
	return p.bets, p.err
}
