package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rewear-hq/rewear/internal/model"
	"github.com/rewear-hq/rewear/internal/utils"
)

// UserRepo provides persistence for users and their eco-point balances.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span multiple repositories.
func (r *UserRepo) DB() *sql.DB { return r.db }

// Create inserts a new user with a bcrypt-hashed password and returns the
// generated ID. ErrEmailExists is returned when the email is taken.
func (r *UserRepo) Create(ctx context.Context, email, password, displayName, role string, bcryptCost int) (uint64, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&n); err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, ErrEmailExists
	}
	hash, err := utils.HashPassword(password, bcryptCost)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, display_name, role, eco_points, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 0, ?, ?)`,
		email, hash, displayName, role, now, now)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail loads a user by email. sql.ErrNoRows is returned unchanged so
// the auth handler can distinguish bad credentials from server errors.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, display_name, role, eco_points, created_at, updated_at
		 FROM users WHERE email = ?`, email))
}

// GetByID loads a user by primary key. ErrNotFound is returned when the
// user does not exist.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	u, err := r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, display_name, role, eco_points, created_at, updated_at
		 FROM users WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return u, err
}

func (r *UserRepo) scanOne(row *sql.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role,
		&u.EcoPoints, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// AddPointsTx credits eco points to a user within a transaction. Used by
// swap completion and donation; the delta must be positive.
func (r *UserRepo) AddPointsTx(ctx context.Context, tx *sql.Tx, userID uint64, delta int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE users SET eco_points = eco_points + ?, updated_at = ? WHERE id = ?`,
		delta, time.Now().UTC(), userID)
	return err
}

// SpendPointsTx debits eco points within a transaction, guarded so the
// balance can never go negative: the update only matches when the current
// balance covers the cost. ErrInsufficientPoints is returned otherwise.
func (r *UserRepo) SpendPointsTx(ctx context.Context, tx *sql.Tx, userID uint64, cost int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE users SET eco_points = eco_points - ?, updated_at = ? WHERE id = ? AND eco_points >= ?`,
		cost, time.Now().UTC(), userID, cost)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientPoints
	}
	return nil
}
