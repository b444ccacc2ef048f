package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rewear-hq/rewear/internal/model"
	"github.com/rewear-hq/rewear/internal/utils"
)

// RewardRepo persists the partner reward catalog and redemption records.
// The redemption insert lives in the same transaction as the guarded point
// debit, so a redemption row always has points behind it.
type RewardRepo struct {
	db *sql.DB
}

// NewRewardRepo returns a new RewardRepo bound to the given database.
func NewRewardRepo(db *sql.DB) *RewardRepo { return &RewardRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span multiple repositories.
func (r *RewardRepo) DB() *sql.DB { return r.db }

const rewardColumns = `id, partner, title, description, cost_points, is_active, created_at`

// ListActive returns every redeemable reward, cheapest first.
func (r *RewardRepo) ListActive(ctx context.Context) ([]model.Reward, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+rewardColumns+` FROM rewards WHERE is_active = 1 ORDER BY cost_points, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rewards := make([]model.Reward, 0)
	for rows.Next() {
		var rw model.Reward
		if err := rows.Scan(&rw.ID, &rw.Partner, &rw.Title, &rw.Description,
			&rw.CostPoints, &rw.IsActive, &rw.CreatedAt); err != nil {
			return nil, err
		}
		rewards = append(rewards, rw)
	}
	return rewards, rows.Err()
}

// GetByID loads a reward. ErrNotFound when it does not exist.
func (r *RewardRepo) GetByID(ctx context.Context, id uint64) (*model.Reward, error) {
	var rw model.Reward
	err := r.db.QueryRowContext(ctx,
		`SELECT `+rewardColumns+` FROM rewards WHERE id = ?`, id).
		Scan(&rw.ID, &rw.Partner, &rw.Title, &rw.Description, &rw.CostPoints, &rw.IsActive, &rw.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rw, nil
}

// Create inserts a new catalog entry, used by admin management.
func (r *RewardRepo) Create(ctx context.Context, rw *model.Reward) error {
	rw.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO rewards (partner, title, description, cost_points, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rw.Partner, rw.Title, rw.Description, rw.CostPoints, rw.IsActive, rw.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rw.ID = uint64(id)
	return nil
}

// SetActive toggles a reward's availability. ErrNotFound when the reward
// does not exist.
func (r *RewardRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rewards SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertRedemptionTx records a redemption within the caller's transaction,
// alongside the guarded point debit.
func (r *RewardRepo) InsertRedemptionTx(ctx context.Context, tx *sql.Tx, red *model.RewardRedemption) error {
	red.CreatedAt = time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO reward_redemptions (reward_id, user_id, points_spent, created_at) VALUES (?, ?, ?, ?)`,
		red.RewardID, red.UserID, red.PointsSpent, red.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	red.ID = uint64(id)
	return nil
}

// ListRedemptionsByUser returns a page of a user's redemption history,
// newest first, with the total count.
func (r *RewardRepo) ListRedemptionsByUser(ctx context.Context, userID uint64, page utils.PageParams) ([]model.RewardRedemption, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reward_redemptions WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, reward_id, user_id, points_spent, created_at
		 FROM reward_redemptions WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		userID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]model.RewardRedemption, 0)
	for rows.Next() {
		var red model.RewardRedemption
		if err := rows.Scan(&red.ID, &red.RewardID, &red.UserID, &red.PointsSpent, &red.CreatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, red)
	}
	return list, total, rows.Err()
}
