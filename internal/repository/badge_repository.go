package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rewear-hq/rewear/internal/model"
)

// BadgeRepo persists awarded badges. The unique (user_id, badge_type) key
// makes awarding idempotent at the storage layer.
type BadgeRepo struct {
	db *sql.DB
}

// NewBadgeRepo returns a new BadgeRepo bound to the given database.
func NewBadgeRepo(db *sql.DB) *BadgeRepo { return &BadgeRepo{db: db} }

// HeldTypes returns the set of badge types a user already holds.
func (r *BadgeRepo) HeldTypes(ctx context.Context, userID uint64) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT badge_type FROM badges WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	held := make(map[string]bool)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		held[t] = true
	}
	return held, rows.Err()
}

// Award grants a badge to a user. ErrConflict is returned when the user
// already holds it, which callers may safely ignore.
func (r *BadgeRepo) Award(ctx context.Context, userID uint64, badgeType string) (*model.Badge, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM badges WHERE user_id = ? AND badge_type = ?`,
		userID, badgeType).Scan(&n); err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrConflict
	}
	b := &model.Badge{UserID: userID, BadgeType: badgeType, AwardedAt: time.Now().UTC()}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO badges (user_id, badge_type, awarded_at) VALUES (?, ?, ?)`,
		b.UserID, b.BadgeType, b.AwardedAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	b.ID = uint64(id)
	return b, nil
}

// ListByUser returns every badge a user holds, oldest first.
func (r *BadgeRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Badge, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, badge_type, awarded_at FROM badges WHERE user_id = ? ORDER BY awarded_at, id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	badges := make([]model.Badge, 0)
	for rows.Next() {
		var b model.Badge
		if err := rows.Scan(&b.ID, &b.UserID, &b.BadgeType, &b.AwardedAt); err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}
