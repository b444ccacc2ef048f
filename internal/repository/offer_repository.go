package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rewear-hq/rewear/internal/model"
	"github.com/rewear-hq/rewear/internal/utils"
)

// OfferRepo provides persistence for swap offers and their offered-item
// sets. Creation validates every precondition inside one transaction;
// status transitions are guarded compare-and-set updates so an offer can
// leave pending exactly once.
type OfferRepo struct {
	db *sql.DB
}

// NewOfferRepo returns a new OfferRepo bound to the given database.
func NewOfferRepo(db *sql.DB) *OfferRepo { return &OfferRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span multiple repositories.
func (r *OfferRepo) DB() *sql.DB { return r.db }

// Create validates and inserts a new pending offer in a single
// transaction. Preconditions, each reported with its own error:
//
//   - FromUserID and ToUserID differ (ErrSelfOffer)
//   - the requested item exists, is owned by ToUserID and is available
//   - every offered item exists, is owned by FromUserID and is available
//   - no other pending offer from the same sender targets the same item
//     (ErrDuplicatePending)
func (r *OfferRepo) Create(ctx context.Context, offer *model.SwapOffer) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.validateTx(ctx, tx, offer); err != nil {
		return err
	}
	if err := r.insertTx(ctx, tx, offer); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *OfferRepo) validateTx(ctx context.Context, tx *sql.Tx, offer *model.SwapOffer) error {
	if offer.FromUserID == offer.ToUserID {
		return ErrSelfOffer
	}
	if len(offer.OfferedItemIDs) == 0 {
		return ErrNoOfferedItems
	}

	requested, err := scanItem(tx.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, offer.RequestedItemID))
	if err == ErrNotFound {
		return fmt.Errorf("requested item: %w", ErrNotFound)
	}
	if err != nil {
		return err
	}
	if requested.OwnerID != offer.ToUserID {
		return fmt.Errorf("requested item: %w", ErrWrongOwner)
	}
	if requested.Status != model.ItemAvailable {
		return fmt.Errorf("requested item: %w", ErrItemUnavailable)
	}

	for _, id := range offer.OfferedItemIDs {
		it, err := scanItem(tx.QueryRowContext(ctx,
			`SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
		if err == ErrNotFound {
			return fmt.Errorf("offered item %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}
		if it.OwnerID != offer.FromUserID {
			return fmt.Errorf("offered item %d: %w", id, ErrWrongOwner)
		}
		if it.Status != model.ItemAvailable {
			return fmt.Errorf("offered item %d: %w", id, ErrItemUnavailable)
		}
	}

	var pending int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM swap_offers WHERE from_user_id = ? AND requested_item_id = ? AND status = ?`,
		offer.FromUserID, offer.RequestedItemID, model.OfferPending).Scan(&pending); err != nil {
		return err
	}
	if pending > 0 {
		return ErrDuplicatePending
	}
	return nil
}

func (r *OfferRepo) insertTx(ctx context.Context, tx *sql.Tx, offer *model.SwapOffer) error {
	now := time.Now().UTC()
	offer.Status = model.OfferPending
	offer.CreatedAt = now
	offer.UpdatedAt = now
	res, err := tx.ExecContext(ctx,
		`INSERT INTO swap_offers (from_user_id, to_user_id, requested_item_id, status, message, supersedes_offer_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		offer.FromUserID, offer.ToUserID, offer.RequestedItemID, offer.Status, offer.Message,
		offer.SupersedesOfferID, offer.CreatedAt, offer.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	offer.ID = uint64(id)

	query := `INSERT INTO swap_offer_items (offer_id, item_id) VALUES `
	args := make([]interface{}, 0, len(offer.OfferedItemIDs)*2)
	for i, itemID := range offer.OfferedItemIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, offer.ID, itemID)
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

// Counter closes a pending offer and opens the replacement in a single
// transaction. The original moves pending→countered via compare-and-set
// (ErrConflict when it already left pending); the replacement is validated
// like any new offer and carries SupersedesOfferID so the negotiation
// history stays an immutable chain.
func (r *OfferRepo) Counter(ctx context.Context, originalID uint64, replacement *model.SwapOffer) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.casStatusTx(ctx, tx, originalID, model.OfferPending, model.OfferCountered); err != nil {
		return err
	}
	sup := originalID
	replacement.SupersedesOfferID = &sup
	if err := r.validateTx(ctx, tx, replacement); err != nil {
		return err
	}
	if err := r.insertTx(ctx, tx, replacement); err != nil {
		return err
	}
	return tx.Commit()
}

const offerColumns = `id, from_user_id, to_user_id, requested_item_id, status, message, supersedes_offer_id, created_at, updated_at`

// GetByID loads an offer with its offered item set. ErrNotFound is
// returned when it does not exist.
func (r *OfferRepo) GetByID(ctx context.Context, id uint64) (*model.SwapOffer, error) {
	offer, err := scanOffer(r.db.QueryRowContext(ctx,
		`SELECT `+offerColumns+` FROM swap_offers WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id FROM swap_offer_items WHERE offer_id = ? ORDER BY item_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var itemID uint64
		if err := rows.Scan(&itemID); err != nil {
			return nil, err
		}
		offer.OfferedItemIDs = append(offer.OfferedItemIDs, itemID)
	}
	return offer, rows.Err()
}

// GetByIDTx is GetByID within an existing transaction.
func (r *OfferRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.SwapOffer, error) {
	offer, err := scanOffer(tx.QueryRowContext(ctx,
		`SELECT `+offerColumns+` FROM swap_offers WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	rows, err := tx.QueryContext(ctx,
		`SELECT item_id FROM swap_offer_items WHERE offer_id = ? ORDER BY item_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var itemID uint64
		if err := rows.Scan(&itemID); err != nil {
			return nil, err
		}
		offer.OfferedItemIDs = append(offer.OfferedItemIDs, itemID)
	}
	return offer, rows.Err()
}

func scanOffer(row *sql.Row) (*model.SwapOffer, error) {
	var o model.SwapOffer
	var supersedes sql.NullInt64
	err := row.Scan(&o.ID, &o.FromUserID, &o.ToUserID, &o.RequestedItemID, &o.Status,
		&o.Message, &supersedes, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if supersedes.Valid {
		v := uint64(supersedes.Int64)
		o.SupersedesOfferID = &v
	}
	return &o, nil
}

// ListForUser returns a page of offers where the user is a party, newest
// first. Box narrows the direction: "incoming" (user is recipient),
// "outgoing" (user is sender) or "" for both.
func (r *OfferRepo) ListForUser(ctx context.Context, userID uint64, box string, page utils.PageParams) ([]model.SwapOffer, int, error) {
	var cond string
	args := []interface{}{}
	switch box {
	case "incoming":
		cond = "to_user_id = ?"
		args = append(args, userID)
	case "outgoing":
		cond = "from_user_id = ?"
		args = append(args, userID)
	default:
		cond = "(from_user_id = ? OR to_user_id = ?)"
		args = append(args, userID, userID)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM swap_offers WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+offerColumns+` FROM swap_offers WHERE `+cond+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	offers := make([]model.SwapOffer, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var o model.SwapOffer
		var supersedes sql.NullInt64
		if err := rows.Scan(&o.ID, &o.FromUserID, &o.ToUserID, &o.RequestedItemID, &o.Status,
			&o.Message, &supersedes, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		if supersedes.Valid {
			v := uint64(supersedes.Int64)
			o.SupersedesOfferID = &v
		}
		index[o.ID] = len(offers)
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(offers) == 0 {
		return offers, total, nil
	}

	// Populate offered items for the whole page in one query.
	ids := make([]interface{}, 0, len(offers))
	placeholders := make([]string, 0, len(offers))
	for _, o := range offers {
		ids = append(ids, o.ID)
		placeholders = append(placeholders, "?")
	}
	irows, err := r.db.QueryContext(ctx,
		`SELECT offer_id, item_id FROM swap_offer_items WHERE offer_id IN (`+strings.Join(placeholders, ",")+`) ORDER BY offer_id, item_id`,
		ids...)
	if err != nil {
		return nil, 0, err
	}
	defer irows.Close()
	for irows.Next() {
		var offerID, itemID uint64
		if err := irows.Scan(&offerID, &itemID); err != nil {
			return nil, 0, err
		}
		if idx, ok := index[offerID]; ok {
			offers[idx].OfferedItemIDs = append(offers[idx].OfferedItemIDs, itemID)
		}
	}
	return offers, total, irows.Err()
}

// CASStatus flips an offer between statuses outside a transaction, used by
// reject and cancel. ErrConflict is returned when the offer already left
// the source state.
func (r *OfferRepo) CASStatus(ctx context.Context, id uint64, from, to string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE swap_offers SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to, time.Now().UTC(), id, from)
	if err != nil {
		return err
	}
	return requireTransition(res)
}

// CASStatusTx is CASStatus within an existing transaction, used by offer
// acceptance.
func (r *OfferRepo) CASStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to string) error {
	return r.casStatusTx(ctx, tx, id, from, to)
}

func (r *OfferRepo) casStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE swap_offers SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to, time.Now().UTC(), id, from)
	if err != nil {
		return err
	}
	return requireTransition(res)
}

func requireTransition(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}
