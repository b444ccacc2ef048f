package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rewear-hq/rewear/internal/model"
	"github.com/rewear-hq/rewear/internal/utils"
)

// EcoRepo persists the append-only eco-impact ledger and aggregates the
// per-user stats that drive profiles and badge thresholds. Ledger rows are
// only written inside settlement or donation transactions and are never
// updated or deleted.
type EcoRepo struct {
	db *sql.DB
}

// NewEcoRepo returns a new EcoRepo bound to the given database.
func NewEcoRepo(db *sql.DB) *EcoRepo { return &EcoRepo{db: db} }

// InsertTx appends a ledger row within the caller's transaction. SwapID is
// nil for donation rows.
func (r *EcoRepo) InsertTx(ctx context.Context, tx *sql.Tx, e *model.EcoImpact) error {
	e.CreatedAt = time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO eco_impact (user_id, swap_id, item_id, points_awarded, water_saved_liters, co2_saved_kg, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.SwapID, e.ItemID, e.PointsAwarded, e.WaterSavedLiters, e.CO2SavedKg, e.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// ListByUser returns a page of a user's ledger rows, newest first, with the
// total count.
func (r *EcoRepo) ListByUser(ctx context.Context, userID uint64, page utils.PageParams) ([]model.EcoImpact, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM eco_impact WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, swap_id, item_id, points_awarded, water_saved_liters, co2_saved_kg, created_at
		 FROM eco_impact WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		userID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]model.EcoImpact, 0)
	for rows.Next() {
		var e model.EcoImpact
		var swapID sql.NullInt64
		if err := rows.Scan(&e.ID, &e.UserID, &swapID, &e.ItemID, &e.PointsAwarded,
			&e.WaterSavedLiters, &e.CO2SavedKg, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		if swapID.Valid {
			v := uint64(swapID.Int64)
			e.SwapID = &v
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

// StatsForUser aggregates the numbers badge evaluation and the profile
// endpoint need: completed swap count, listed item count, donation count,
// current point balance and lifetime water/CO2 savings.
func (r *EcoRepo) StatsForUser(ctx context.Context, userID uint64) (model.UserStats, error) {
	var stats model.UserStats

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM swaps WHERE (from_user_id = ? OR to_user_id = ?) AND status = ?`,
		userID, userID, model.SwapCompleted).Scan(&stats.CompletedSwaps); err != nil {
		return stats, err
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE owner_id = ?`, userID).Scan(&stats.ListedItems); err != nil {
		return stats, err
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE owner_id = ? AND status = ?`,
		userID, model.ItemDonated).Scan(&stats.Donations); err != nil {
		return stats, err
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT eco_points FROM users WHERE id = ?`, userID).Scan(&stats.EcoPoints); err != nil {
		if err == sql.ErrNoRows {
			return stats, ErrNotFound
		}
		return stats, err
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(water_saved_liters), 0), COALESCE(SUM(co2_saved_kg), 0)
		 FROM eco_impact WHERE user_id = ?`,
		userID).Scan(&stats.WaterSavedLiters, &stats.CO2SavedKg); err != nil {
		return stats, err
	}
	return stats, nil
}
