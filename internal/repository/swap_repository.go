package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rewear-hq/rewear/internal/model"
	"github.com/rewear-hq/rewear/internal/utils"
)

// SwapRepo provides persistence for swaps and their item snapshots. Swaps
// only come into existence inside the offer-acceptance transaction, and
// settlement transitions use compare-and-set guards so completion can only
// ever happen once.
type SwapRepo struct {
	db *sql.DB
}

// NewSwapRepo returns a new SwapRepo bound to the given database.
func NewSwapRepo(db *sql.DB) *SwapRepo { return &SwapRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span multiple repositories.
func (r *SwapRepo) DB() *sql.DB { return r.db }

// CreateTx inserts the swap and its item snapshot rows within the
// acceptance transaction. FromItemIDs become FROM-side rows, ToItemID the
// single TO-side row; the snapshot is immutable for the life of the swap.
func (r *SwapRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Swap) error {
	now := time.Now().UTC()
	s.Status = model.SwapInProgress
	s.CreatedAt = now
	s.UpdatedAt = now
	res, err := tx.ExecContext(ctx,
		`INSERT INTO swaps (offer_id, reference, from_user_id, to_user_id, status, completed_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, NULL, ?, ?)`,
		s.OfferID, s.Reference, s.FromUserID, s.ToUserID, s.Status, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	query := `INSERT INTO swap_items (swap_id, item_id, side) VALUES `
	args := make([]interface{}, 0, (len(s.FromItemIDs)+1)*3)
	for i, itemID := range s.FromItemIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, s.ID, itemID, model.SwapSideFrom)
	}
	query += ",(?, ?, ?)"
	args = append(args, s.ID, s.ToItemID, model.SwapSideTo)
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

const swapColumns = `id, offer_id, reference, from_user_id, to_user_id, status, completed_at, created_at, updated_at`

// GetByID loads a swap with its item snapshot. ErrNotFound is returned
// when it does not exist.
func (r *SwapRepo) GetByID(ctx context.Context, id uint64) (*model.Swap, error) {
	s, err := scanSwap(r.db.QueryRowContext(ctx,
		`SELECT `+swapColumns+` FROM swaps WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// GetByIDTx is GetByID within an existing transaction.
func (r *SwapRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Swap, error) {
	s, err := scanSwap(tx.QueryRowContext(ctx,
		`SELECT `+swapColumns+` FROM swaps WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	rows, err := tx.QueryContext(ctx,
		`SELECT item_id, side FROM swap_items WHERE swap_id = ? ORDER BY item_id`, s.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s, collectSwapItems(rows, s)
}

func (r *SwapRepo) loadItems(ctx context.Context, s *model.Swap) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id, side FROM swap_items WHERE swap_id = ? ORDER BY item_id`, s.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	return collectSwapItems(rows, s)
}

func collectSwapItems(rows *sql.Rows, s *model.Swap) error {
	for rows.Next() {
		var itemID uint64
		var side string
		if err := rows.Scan(&itemID, &side); err != nil {
			return err
		}
		if side == model.SwapSideTo {
			s.ToItemID = itemID
		} else {
			s.FromItemIDs = append(s.FromItemIDs, itemID)
		}
	}
	return rows.Err()
}

func scanSwap(row *sql.Row) (*model.Swap, error) {
	var s model.Swap
	var completed sql.NullTime
	err := row.Scan(&s.ID, &s.OfferID, &s.Reference, &s.FromUserID, &s.ToUserID,
		&s.Status, &completed, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if completed.Valid {
		t := completed.Time
		s.CompletedAt = &t
	}
	return &s, nil
}

// ListForUser returns a page of swaps where the user is a party, newest
// first, along with the total count. An optional status narrows the list.
func (r *SwapRepo) ListForUser(ctx context.Context, userID uint64, status string, page utils.PageParams) ([]model.Swap, int, error) {
	cond := "(from_user_id = ? OR to_user_id = ?)"
	args := []interface{}{userID, userID}
	if status != "" {
		cond += " AND status = ?"
		args = append(args, status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM swaps WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+swapColumns+` FROM swaps WHERE `+cond+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	swaps := make([]model.Swap, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var s model.Swap
		var completed sql.NullTime
		if err := rows.Scan(&s.ID, &s.OfferID, &s.Reference, &s.FromUserID, &s.ToUserID,
			&s.Status, &completed, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		if completed.Valid {
			t := completed.Time
			s.CompletedAt = &t
		}
		index[s.ID] = len(swaps)
		swaps = append(swaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(swaps) == 0 {
		return swaps, total, nil
	}

	ids := make([]interface{}, 0, len(swaps))
	placeholders := make([]string, 0, len(swaps))
	for _, s := range swaps {
		ids = append(ids, s.ID)
		placeholders = append(placeholders, "?")
	}
	irows, err := r.db.QueryContext(ctx,
		`SELECT swap_id, item_id, side FROM swap_items WHERE swap_id IN (`+strings.Join(placeholders, ",")+`) ORDER BY swap_id, item_id`,
		ids...)
	if err != nil {
		return nil, 0, err
	}
	defer irows.Close()
	for irows.Next() {
		var swapID, itemID uint64
		var side string
		if err := irows.Scan(&swapID, &itemID, &side); err != nil {
			return nil, 0, err
		}
		idx, ok := index[swapID]
		if !ok {
			continue
		}
		if side == model.SwapSideTo {
			swaps[idx].ToItemID = itemID
		} else {
			swaps[idx].FromItemIDs = append(swaps[idx].FromItemIDs, itemID)
		}
	}
	return swaps, total, irows.Err()
}

// CompleteCASTx moves a swap from in_progress to completed within the
// settlement transaction and stamps completed_at. The guard makes
// completion idempotent in the failure direction: a second attempt matches
// zero rows and surfaces ErrConflict, so points are never awarded twice.
func (r *SwapRepo) CompleteCASTx(ctx context.Context, tx *sql.Tx, id uint64, completedAt time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE swaps SET status = ?, completed_at = ?, updated_at = ? WHERE id = ? AND status = ?`,
		model.SwapCompleted, completedAt, completedAt, id, model.SwapInProgress)
	if err != nil {
		return err
	}
	return requireTransition(res)
}

// CancelCASTx moves a swap from in_progress to cancelled within the
// settlement transaction. ErrConflict when the swap already settled.
func (r *SwapRepo) CancelCASTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE swaps SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		model.SwapCancelled, time.Now().UTC(), id, model.SwapInProgress)
	if err != nil {
		return err
	}
	return requireTransition(res)
}
