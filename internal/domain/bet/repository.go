package bet

import "context"

// Repository describes bet persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Bet, error)
	ListByUser(ctx context.Context, userID string) ([]Bet, error)
	GetByID(ctx context.Context, betID string) (Bet, bool, error)
	Upsert(ctx context.Context, item Bet) error
	UpsertMany(ctx context.Context, items []Bet) error
	Delete(ctx context.Context, betID string) (bool, error)
}
