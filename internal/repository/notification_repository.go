package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rewear-hq/rewear/internal/model"
	"github.com/rewear-hq/rewear/internal/utils"
)

// NotificationRepo persists in-app notifications. Writes are best effort
// from the caller's point of view: a failed notification never rolls back
// the domain transition that produced it.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo returns a new NotificationRepo bound to the given
// database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Insert stores a new unread notification for a user.
func (r *NotificationRepo) Insert(ctx context.Context, userID uint64, ntype, message string) (*model.Notification, error) {
	n := &model.Notification{
		UserID:    userID,
		Type:      ntype,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, ntype, message, is_read, created_at) VALUES (?, ?, ?, 0, ?)`,
		n.UserID, n.Type, n.Message, n.CreatedAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	n.ID = uint64(id)
	return n, nil
}

// ListByUser returns a page of a user's notifications, newest first, with
// the total count. When unreadOnly is set, read ones are excluded.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint64, unreadOnly bool, page utils.PageParams) ([]model.Notification, int, error) {
	cond := "user_id = ?"
	args := []interface{}{userID}
	if unreadOnly {
		cond += " AND is_read = 0"
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, ntype, message, is_read, created_at
		 FROM notifications WHERE `+cond+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, n)
	}
	return list, total, rows.Err()
}

// UnreadCount returns how many unread notifications a user has.
func (r *NotificationRepo) UnreadCount(ctx context.Context, userID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0`, userID).Scan(&n)
	return n, err
}

// MarkRead marks one notification as read, scoped to the owner so a user
// can never flip someone else's. ErrNotFound when no row matched.
func (r *NotificationRepo) MarkRead(ctx context.Context, userID, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`, id, userID)
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

// MarkAllRead marks every unread notification a user has as read and
// returns how many were flipped.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// PurgeOlderThan deletes read notifications created before the cutoff.
// Intended for a periodic maintenance job.
func (r *NotificationRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE is_read = 1 AND created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
