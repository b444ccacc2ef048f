package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewear-hq/rewear/internal/model"
	"github.com/rewear-hq/rewear/internal/utils"
)

func TestOfferCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewOfferRepo(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	wanted := seedItem(t, db, alice, "Alice jeans", 81)
	give1 := seedItem(t, db, bob, "Bob shirt", 100)
	give2 := seedItem(t, db, bob, "Bob coat", 60)

	offer := seedOffer(t, db, bob, alice, wanted.ID, give1.ID, give2.ID)
	assert.Equal(t, model.OfferPending, offer.Status)
	require.NotZero(t, offer.ID)

	got, err := repo.GetByID(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, bob, got.FromUserID)
	assert.Equal(t, alice, got.ToUserID)
	assert.ElementsMatch(t, []uint64{give1.ID, give2.ID}, got.OfferedItemIDs)
	assert.Nil(t, got.SupersedesOfferID)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOfferCreateValidations(t *testing.T) {
	db := newTestDB(t)
	repo := NewOfferRepo(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	carol := seedUser(t, db, "carol@example.com")
	wanted := seedItem(t, db, alice, "Alice jeans", 81)
	bobItem := seedItem(t, db, bob, "Bob shirt", 100)
	carolItem := seedItem(t, db, carol, "Carol dress", 55)

	// Offering to yourself.
	err := repo.Create(ctx, &model.SwapOffer{
		FromUserID: alice, ToUserID: alice, RequestedItemID: wanted.ID, OfferedItemIDs: []uint64{bobItem.ID},
	})
	assert.ErrorIs(t, err, ErrSelfOffer)

	// Empty offered set.
	err = repo.Create(ctx, &model.SwapOffer{
		FromUserID: bob, ToUserID: alice, RequestedItemID: wanted.ID,
	})
	assert.ErrorIs(t, err, ErrNoOfferedItems)

	// Requested item does not exist.
	err = repo.Create(ctx, &model.SwapOffer{
		FromUserID: bob, ToUserID: alice, RequestedItemID: 999, OfferedItemIDs: []uint64{bobItem.ID},
	})
	assert.ErrorIs(t, err, ErrNotFound)

	// Offered item belongs to someone else.
	err = repo.Create(ctx, &model.SwapOffer{
		FromUserID: bob, ToUserID: alice, RequestedItemID: wanted.ID, OfferedItemIDs: []uint64{carolItem.ID},
	})
	assert.ErrorIs(t, err, ErrWrongOwner)

	// Requested item not available.
	require.NoError(t, NewItemRepo(db).SetStatusCAS(ctx, wanted.ID, model.ItemAvailable, model.ItemRemoved))
	err = repo.Create(ctx, &model.SwapOffer{
		FromUserID: bob, ToUserID: alice, RequestedItemID: wanted.ID, OfferedItemIDs: []uint64{bobItem.ID},
	})
	assert.ErrorIs(t, err, ErrItemUnavailable)
}

func TestOfferDuplicatePending(t *testing.T) {
	db := newTestDB(t)
	repo := NewOfferRepo(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	wanted := seedItem(t, db, alice, "Alice jeans", 81)
	give1 := seedItem(t, db, bob, "Bob shirt", 100)
	give2 := seedItem(t, db, bob, "Bob coat", 60)

	seedOffer(t, db, bob, alice, wanted.ID, give1.ID)

	// A second pending offer from the same sender for the same item is
	// rejected even with a different offered set.
	err := repo.Create(ctx, &model.SwapOffer{
		FromUserID: bob, ToUserID: alice, RequestedItemID: wanted.ID, OfferedItemIDs: []uint64{give2.ID},
	})
	assert.ErrorIs(t, err, ErrDuplicatePending)
}

func TestOfferStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	repo := NewOfferRepo(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	wanted := seedItem(t, db, alice, "Alice jeans", 81)
	give := seedItem(t, db, bob, "Bob shirt", 100)

	offer := seedOffer(t, db, bob, alice, wanted.ID, give.ID)

	require.NoError(t, repo.CASStatus(ctx, offer.ID, model.OfferPending, model.OfferRejected))

	// Every terminal state is final: no transition leaves it.
	err := repo.CASStatus(ctx, offer.ID, model.OfferPending, model.OfferCancelled)
	assert.ErrorIs(t, err, ErrConflict)

	got, err := repo.GetByID(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OfferRejected, got.Status)
}

func TestOfferCounterChain(t *testing.T) {
	db := newTestDB(t)
	repo := NewOfferRepo(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	aliceJeans := seedItem(t, db, alice, "Alice jeans", 81)
	aliceBag := seedItem(t, db, alice, "Alice bag", 50)
	bobShirt := seedItem(t, db, bob, "Bob shirt", 100)

	original := seedOffer(t, db, bob, alice, aliceJeans.ID, bobShirt.ID)

	// Alice counters: she now offers her bag and asks for Bob's shirt.
	replacement := &model.SwapOffer{
		FromUserID:      alice,
		ToUserID:        bob,
		RequestedItemID: bobShirt.ID,
		OfferedItemIDs:  []uint64{aliceBag.ID},
	}
	require.NoError(t, repo.Counter(ctx, original.ID, replacement))

	closed, err := repo.GetByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OfferCountered, closed.Status)

	got, err := repo.GetByID(ctx, replacement.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OfferPending, got.Status)
	require.NotNil(t, got.SupersedesOfferID)
	assert.Equal(t, original.ID, *got.SupersedesOfferID)

	// Countering a closed offer fails and creates nothing.
	again := &model.SwapOffer{
		FromUserID:      alice,
		ToUserID:        bob,
		RequestedItemID: bobShirt.ID,
		OfferedItemIDs:  []uint64{aliceBag.ID},
	}
	err = repo.Counter(ctx, original.ID, again)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestOfferCounterRollsBackOnInvalidReplacement(t *testing.T) {
	db := newTestDB(t)
	repo := NewOfferRepo(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	aliceJeans := seedItem(t, db, alice, "Alice jeans", 81)
	bobShirt := seedItem(t, db, bob, "Bob shirt", 100)

	original := seedOffer(t, db, bob, alice, aliceJeans.ID, bobShirt.ID)

	// The counter offers an item Alice does not own; the whole transaction
	// rolls back and the original stays pending.
	bad := &model.SwapOffer{
		FromUserID:      alice,
		ToUserID:        bob,
		RequestedItemID: bobShirt.ID,
		OfferedItemIDs:  []uint64{bobShirt.ID},
	}
	err := repo.Counter(ctx, original.ID, bad)
	assert.ErrorIs(t, err, ErrWrongOwner)

	got, err := repo.GetByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OfferPending, got.Status)
}

func TestOfferListForUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewOfferRepo(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	carol := seedUser(t, db, "carol@example.com")
	aliceItem := seedItem(t, db, alice, "Alice jeans", 81)
	bobItem := seedItem(t, db, bob, "Bob shirt", 100)
	carolItem := seedItem(t, db, carol, "Carol dress", 55)

	toAlice := seedOffer(t, db, bob, alice, aliceItem.ID, bobItem.ID)
	fromAlice := seedOffer(t, db, alice, carol, carolItem.ID, aliceItem.ID)

	page := utils.PageParams{Page: 1, Limit: 10}

	incoming, total, err := repo.ListForUser(ctx, alice, "incoming", page)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, incoming, 1)
	assert.Equal(t, toAlice.ID, incoming[0].ID)
	assert.Equal(t, []uint64{bobItem.ID}, incoming[0].OfferedItemIDs)

	outgoing, total, err := repo.ListForUser(ctx, alice, "outgoing", page)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, outgoing, 1)
	assert.Equal(t, fromAlice.ID, outgoing[0].ID)

	both, total, err := repo.ListForUser(ctx, alice, "", page)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, both, 2)

	none, total, err := repo.ListForUser(ctx, 999, "", page)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)
}
