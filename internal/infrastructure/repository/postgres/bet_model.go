package postgres

import (
	"database/sql"
	"time"
)

// placed_at and modified_at keep the bet's own timestamps as text, exactly as
// normalized from the provider payload. created_at/updated_at are row
// bookkeeping, managed by the database.
type betTableModel struct {
	ID          int64           `db:"id"`
	PublicID    string          `db:"public_id"`
	UserID      string          `db:"user_id"`
	FixtureID   sql.NullInt64   `db:"fixture_id"`
	HomeTeam    sql.NullString  `db:"home_team"`
	AwayTeam    sql.NullString  `db:"away_team"`
	Event       string          `db:"event"`
	Market      string          `db:"market"`
	Odd         float64         `db:"odd"`
	Stake       float64         `db:"stake"`
	PayoutValue sql.NullFloat64 `db:"payout_value"`
	Profit      sql.NullFloat64 `db:"profit"`
	Result      string          `db:"result"`
	IsLive      bool            `db:"is_live"`
	Source      sql.NullString  `db:"source"`
	ImageURL    sql.NullString  `db:"image_url"`
	PlacedAt    string          `db:"placed_at"`
	ModifiedAt  sql.NullString  `db:"modified_at"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	DeletedAt   *time.Time      `db:"deleted_at"`
}

type betInsertModel struct {
	PublicID    string   `db:"public_id"`
	UserID      string   `db:"user_id"`
	FixtureID   *int64   `db:"fixture_id"`
	HomeTeam    *string  `db:"home_team"`
	AwayTeam    *string  `db:"away_team"`
	Event       string   `db:"event"`
	Market      string   `db:"market"`
	Odd         float64  `db:"odd"`
	Stake       float64  `db:"stake"`
	PayoutValue *float64 `db:"payout_value"`
	Profit      *float64 `db:"profit"`
	Result      string   `db:"result"`
	IsLive      bool     `db:"is_live"`
	Source      *string  `db:"source"`
	ImageURL    *string  `db:"image_url"`
	PlacedAt    string   `db:"placed_at"`
	ModifiedAt  *string  `db:"modified_at"`
}
