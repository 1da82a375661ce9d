package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/bet-tracker/internal/domain/bet"
	qb "github.com/riskibarqy/bet-tracker/internal/platform/querybuilder"
)

const betUpsertSuffix = `ON CONFLICT (public_id)
DO UPDATE SET
    user_id = EXCLUDED.user_id,
    fixture_id = EXCLUDED.fixture_id,
    home_team = EXCLUDED.home_team,
    away_team = EXCLUDED.away_team,
    event = EXCLUDED.event,
    market = EXCLUDED.market,
    odd = EXCLUDED.odd,
    stake = EXCLUDED.stake,
    payout_value = EXCLUDED.payout_value,
    profit = EXCLUDED.profit,
    result = EXCLUDED.result,
    is_live = EXCLUDED.is_live,
    source = EXCLUDED.source,
    image_url = EXCLUDED.image_url,
    placed_at = EXCLUDED.placed_at,
    modified_at = EXCLUDED.modified_at,
    updated_at = NOW(),
    deleted_at = NULL`

type BetRepository struct {
	db *sqlx.DB
}

func NewBetRepository(db *sqlx.DB) *BetRepository {
	return &BetRepository{db: db}
}

func (r *BetRepository) List(ctx context.Context) ([]bet.Bet, error) {
	query, args, err := qb.Select("*").From("bets").
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select bets query: %w", err)
	}

	var rows []betTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select bets: %w", err)
	}

	return betsFromRows(rows), nil
}

func (r *BetRepository) ListByUser(ctx context.Context, userID string) ([]bet.Bet, error) {
	query, args, err := qb.Select("*").From("bets").
		Where(
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select bets by user query: %w", err)
	}

	var rows []betTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select bets by user: %w", err)
	}

	return betsFromRows(rows), nil
}

func (r *BetRepository) GetByID(ctx context.Context, betID string) (bet.Bet, bool, error) {
	query, args, err := qb.Select("*").From("bets").
		Where(
			qb.Eq("public_id", betID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return bet.Bet{}, false, fmt.Errorf("build get bet by id query: %w", err)
	}

	var row betTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return bet.Bet{}, false, nil
		}
		return bet.Bet{}, false, fmt.Errorf("get bet by id: %w", err)
	}

	return betFromRow(row), true, nil
}

func (r *BetRepository) Upsert(ctx context.Context, item bet.Bet) error {
	query, args, err := qb.InsertModel("bets", betToInsertModel(item), betUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert bet query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert bet: %w", err)
	}

	return nil
}

func (r *BetRepository) UpsertMany(ctx context.Context, items []bet.Bet) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert bets: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		query, args, err := qb.InsertModel("bets", betToInsertModel(item), betUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert bet query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert bet %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert bets tx: %w", err)
	}

	return nil
}

func (r *BetRepository) Delete(ctx context.Context, betID string) (bool, error) {
	query, args, err := qb.Update("bets").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", betID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete bet query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete bet: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected delete bet: %w", err)
	}

	return affected > 0, nil
}

func betToInsertModel(item bet.Bet) betInsertModel {
	return betInsertModel{
		PublicID:    item.ID,
		UserID:      item.UserID,
		FixtureID:   item.FixtureID,
		HomeTeam:    item.HomeTeam,
		AwayTeam:    item.AwayTeam,
		Event:       item.Event,
		Market:      item.Market,
		Odd:         item.Odd,
		Stake:       item.Stake,
		PayoutValue: item.PayoutValue,
		Profit:      item.Profit,
		Result:      string(item.Result),
		IsLive:      item.IsLive,
		Source:      item.Source,
		ImageURL:    item.ImageURL,
		PlacedAt:    item.CreatedAt,
		ModifiedAt:  item.UpdatedAt,
	}
}

func betFromRow(row betTableModel) bet.Bet {
	return bet.Bet{
		ID:          row.PublicID,
		UserID:      row.UserID,
		FixtureID:   nullInt64ToPtr(row.FixtureID),
		HomeTeam:    nullStringToPtr(row.HomeTeam),
		AwayTeam:    nullStringToPtr(row.AwayTeam),
		Event:       row.Event,
		Market:      row.Market,
		Odd:         row.Odd,
		Stake:       row.Stake,
		PayoutValue: nullFloat64ToPtr(row.PayoutValue),
		Profit:      nullFloat64ToPtr(row.Profit),
		Result:      bet.NormalizeResult(row.Result),
		IsLive:      row.IsLive,
		Source:      nullStringToPtr(row.Source),
		ImageURL:    nullStringToPtr(row.ImageURL),
		CreatedAt:   row.PlacedAt,
		UpdatedAt:   nullStringToPtr(row.ModifiedAt),
	}
}

func betsFromRows(rows []betTableModel) []bet.Bet {
	out := make([]bet.Bet, 0, len(rows))
	for _, row := range rows {
		out = append(out, betFromRow(row))
	}
	return out
}
