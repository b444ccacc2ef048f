package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rewear-hq/rewear/internal/model"
	"github.com/rewear-hq/rewear/internal/utils"
)

// ItemRepo provides persistence for listed items. Status flips that are
// part of lifecycle transitions use guarded compare-and-set updates inside
// the caller's transaction so a stale availability read can never
// double-allocate an item.
type ItemRepo struct {
	db *sql.DB
}

// NewItemRepo returns a new ItemRepo bound to the given database.
func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span multiple repositories.
func (r *ItemRepo) DB() *sql.DB { return r.db }

const itemColumns = `id, owner_id, title, description, category, item_condition, size, material,
	price_estimate_cents, image_url, eco_points_value, status, created_at, updated_at`

// Create inserts a new listing and populates the generated ID and
// timestamps on the given item.
func (r *ItemRepo) Create(ctx context.Context, it *model.Item) error {
	now := time.Now().UTC()
	it.CreatedAt = now
	it.UpdatedAt = now
	if it.Status == "" {
		it.Status = model.ItemAvailable
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO items (owner_id, title, description, category, item_condition, size, material,
			price_estimate_cents, image_url, eco_points_value, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.OwnerID, it.Title, it.Description, it.Category, it.Condition, it.Size, it.Material,
		it.PriceEstimateCents, it.ImageURL, it.EcoPointsValue, it.Status, it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = uint64(id)
	return nil
}

// GetByID loads a single item. ErrNotFound is returned when it does not
// exist.
func (r *ItemRepo) GetByID(ctx context.Context, id uint64) (*model.Item, error) {
	return scanItem(r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
}

// GetByIDTx is GetByID within an existing transaction.
func (r *ItemRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Item, error) {
	return scanItem(tx.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
}

func scanItem(row *sql.Row) (*model.Item, error) {
	var it model.Item
	err := row.Scan(&it.ID, &it.OwnerID, &it.Title, &it.Description, &it.Category, &it.Condition,
		&it.Size, &it.Material, &it.PriceEstimateCents, &it.ImageURL, &it.EcoPointsValue,
		&it.Status, &it.CreatedAt, &it.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// BrowseFilter narrows the public catalog listing. Zero values mean "no
// filter"; Status defaults to available in the handler so removed items
// never leak into browse.
type BrowseFilter struct {
	OwnerID  uint64
	Category string
	Size     string
	Status   string
	Page     utils.PageParams
}

// Browse returns a filtered, paginated slice of items ordered newest first,
// along with the total row count for the filter.
func (r *ItemRepo) Browse(ctx context.Context, f BrowseFilter) ([]model.Item, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if f.OwnerID != 0 {
		where = append(where, "owner_id = ?")
		args = append(args, f.OwnerID)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Size != "" {
		where = append(where, "size = ?")
		args = append(args, f.Size)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE `+cond+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, f.Page.Limit, f.Page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]model.Item, 0)
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.OwnerID, &it.Title, &it.Description, &it.Category,
			&it.Condition, &it.Size, &it.Material, &it.PriceEstimateCents, &it.ImageURL,
			&it.EcoPointsValue, &it.Status, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

// Update persists the mutable listing fields (title, description, category,
// condition, size, material, price, image) and the recomputed point value.
func (r *ItemRepo) Update(ctx context.Context, it *model.Item) error {
	it.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`UPDATE items SET title = ?, description = ?, category = ?, item_condition = ?, size = ?,
			material = ?, price_estimate_cents = ?, image_url = ?, eco_points_value = ?, updated_at = ?
		 WHERE id = ?`,
		it.Title, it.Description, it.Category, it.Condition, it.Size, it.Material,
		it.PriceEstimateCents, it.ImageURL, it.EcoPointsValue, it.UpdatedAt, it.ID)
	return err
}

// SetStatusCAS flips a single item from one status to another outside a
// transaction. ErrItemUnavailable is returned when the item was not in the
// expected state.
func (r *ItemRepo) SetStatusCAS(ctx context.Context, id uint64, from, to string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to, time.Now().UTC(), id, from)
	if err != nil {
		return err
	}
	return requireRows(res, 1)
}

// SetStatusCASTx flips every listed item from one status to another within
// a transaction. The update is guarded: unless all rows matched the
// expected source status, ErrItemUnavailable is returned and the caller
// must roll back. This is what makes offer acceptance atomic against
// concurrent allocation of the same item.
func (r *ItemRepo) SetStatusCASTx(ctx context.Context, tx *sql.Tx, ids []uint64, from, to string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, 0, len(ids)+3)
	args = append(args, to, time.Now().UTC())
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, from)
	res, err := tx.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = ? WHERE id IN (`+placeholders+`) AND status = ?`,
		args...)
	if err != nil {
		return err
	}
	return requireRows(res, int64(len(ids)))
}

// RestoreStatusTx unconditionally returns items to a status within a
// transaction, used by swap cancellation where the source state is known
// to be swapped.
func (r *ItemRepo) RestoreStatusTx(ctx context.Context, tx *sql.Tx, ids []uint64, to string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, 0, len(ids)+2)
	args = append(args, to, time.Now().UTC())
	for _, id := range ids {
		args = append(args, id)
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = ? WHERE id IN (`+placeholders+`)`, args...)
	return err
}

func requireRows(res sql.Result, want int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != want {
		return ErrItemUnavailable
	}
	return nil
}
