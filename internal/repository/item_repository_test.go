package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewear-hq/rewear/internal/model"
	"github.com/rewear-hq/rewear/internal/utils"
)

func TestItemCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepo(db)
	ctx := context.Background()
	uid := seedUser(t, db, "owner@example.com")

	it := seedItem(t, db, uid, "Blue jeans", 81)
	require.NotZero(t, it.ID)
	assert.Equal(t, model.ItemAvailable, it.Status)

	got, err := repo.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blue jeans", got.Title)
	assert.Equal(t, uid, got.OwnerID)
	assert.Equal(t, 81, got.EcoPointsValue)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemBrowseFiltersAndPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepo(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")

	for i := 0; i < 3; i++ {
		seedItem(t, db, alice, "Alice jeans", 81)
	}
	shirt := seedItem(t, db, bob, "Bob shirt", 100)
	shirt.Category = "Shirt"
	require.NoError(t, repo.Update(ctx, shirt))
	require.NoError(t, repo.SetStatusCAS(ctx, shirt.ID, model.ItemAvailable, model.ItemRemoved))

	// Status filter keeps the removed shirt out.
	items, total, err := repo.Browse(ctx, BrowseFilter{
		Status: model.ItemAvailable,
		Page:   utils.PageParams{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, items, 3)

	// Owner filter.
	items, total, err = repo.Browse(ctx, BrowseFilter{
		OwnerID: bob,
		Page:    utils.PageParams{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Bob shirt", items[0].Title)

	// Pagination: page 2 of size 2 over alice's three items.
	items, total, err = repo.Browse(ctx, BrowseFilter{
		OwnerID: alice,
		Page:    utils.PageParams{Page: 2, Limit: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, items, 1)

	// Category filter.
	_, total, err = repo.Browse(ctx, BrowseFilter{
		Category: "Shirt",
		Page:     utils.PageParams{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestItemSetStatusCAS(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepo(db)
	ctx := context.Background()
	uid := seedUser(t, db, "cas@example.com")
	it := seedItem(t, db, uid, "Coat", 60)

	require.NoError(t, repo.SetStatusCAS(ctx, it.ID, model.ItemAvailable, model.ItemRemoved))

	// Second flip from available fails: the item already left that state.
	err := repo.SetStatusCAS(ctx, it.ID, model.ItemAvailable, model.ItemDonated)
	assert.ErrorIs(t, err, ErrItemUnavailable)

	got, err := repo.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ItemRemoved, got.Status)
}

func TestItemBulkCASIsAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepo(db)
	ctx := context.Background()
	uid := seedUser(t, db, "bulk@example.com")
	a := seedItem(t, db, uid, "Item A", 10)
	b := seedItem(t, db, uid, "Item B", 10)
	require.NoError(t, repo.SetStatusCAS(ctx, b.ID, model.ItemAvailable, model.ItemSwapped))

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	err = repo.SetStatusCASTx(ctx, tx, []uint64{a.ID, b.ID}, model.ItemAvailable, model.ItemSwapped)
	assert.ErrorIs(t, err, ErrItemUnavailable)
	require.NoError(t, tx.Rollback())

	// The rollback left item A untouched.
	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ItemAvailable, got.Status)
}

func TestItemRestoreStatusTx(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepo(db)
	ctx := context.Background()
	uid := seedUser(t, db, "restore@example.com")
	a := seedItem(t, db, uid, "Item A", 10)
	b := seedItem(t, db, uid, "Item B", 10)
	require.NoError(t, repo.SetStatusCAS(ctx, a.ID, model.ItemAvailable, model.ItemSwapped))
	require.NoError(t, repo.SetStatusCAS(ctx, b.ID, model.ItemAvailable, model.ItemSwapped))

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.RestoreStatusTx(ctx, tx, []uint64{a.ID, b.ID}, model.ItemAvailable))
	require.NoError(t, tx.Commit())

	for _, id := range []uint64{a.ID, b.ID} {
		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.ItemAvailable, got.Status)
	}
}
