package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/bet-tracker/internal/domain/bet"
)

type BetRepository struct {
	mu     sync.RWMutex
	items  map[string]bet.Bet
	orders []string
}

func NewBetRepository(bets []bet.Bet) *BetRepository {
	items := make(map[string]bet.Bet, len(bets))
	orders := make([]string, 0, len(bets))

	for _, b := range bets {
		if _, exists := items[b.ID]; !exists {
			orders = append(orders, b.ID)
		}
		items[b.ID] = b
	}

	return &BetRepository{
		items:  items,
		orders: orders,
	}
}

func (r *BetRepository) List(_ context.Context) ([]bet.Bet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bet.Bet, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *BetRepository) ListByUser(_ context.Context, userID string) ([]bet.Bet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bet.Bet, 0, len(r.orders))
	for _, id := range r.orders {
		if item := r.items[id]; item.UserID == userID {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *BetRepository) GetByID(_ context.Context, betID string) (bet.Bet, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[betID]
	if !ok {
		return bet.Bet{}, false, nil
	}

	return item, true, nil
}

func (r *BetRepository) Upsert(_ context.Context, item bet.Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.upsertLocked(item)

	return nil
}

func (r *BetRepository) UpsertMany(_ context.Context, items []bet.Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.upsertLocked(item)
	}

	return nil
}

func (r *BetRepository) Delete(_ context.Context, betID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[betID]; !ok {
		return false, nil
	}

	delete(r.items, betID)
	for i, id := range r.orders {
		if id == betID {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			break
		}
	}

	return true, nil
}

func (r *BetRepository) upsertLocked(item bet.Bet) {
	if _, exists := r.items[item.ID]; !exists {
		r.orders = append(r.orders, item.ID)
	}
	r.items[item.ID] = item
}
