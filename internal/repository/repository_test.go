package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rewear-hq/rewear/internal/database"
	"github.com/rewear-hq/rewear/internal/model"
)

// seedUser creates a USER-role account and returns its ID.
func seedUser(t *testing.T, db *sql.DB, email string) uint64 {
	t.Helper()
	id, err := NewUserRepo(db).Create(context.Background(), email, "password", "Test User", model.RoleUser, bcrypt.MinCost)
	require.NoError(t, err)
	return id
}

// seedItem creates an available listing owned by the given user.
func seedItem(t *testing.T, db *sql.DB, ownerID uint64, title string, points int) *model.Item {
	t.Helper()
	it := &model.Item{
		OwnerID:        ownerID,
		Title:          title,
		Category:       "Jeans",
		Condition:      "Good",
		Material:       "Denim",
		EcoPointsValue: points,
	}
	require.NoError(t, NewItemRepo(db).Create(context.Background(), it))
	return it
}

// seedOffer creates a pending offer of the given items for the requested
// item.
func seedOffer(t *testing.T, db *sql.DB, fromUser, toUser, requested uint64, offered ...uint64) *model.SwapOffer {
	t.Helper()
	offer := &model.SwapOffer{
		FromUserID:      fromUser,
		ToUserID:        toUser,
		RequestedItemID: requested,
		OfferedItemIDs:  offered,
	}
	require.NoError(t, NewOfferRepo(db).Create(context.Background(), offer))
	return offer
}

// acceptOffer performs the acceptance transaction the way the handler does:
// offer pending→accepted, items available→swapped, swap created.
func acceptOffer(t *testing.T, db *sql.DB, offer *model.SwapOffer) *model.Swap {
	t.Helper()
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	offers := NewOfferRepo(db)
	items := NewItemRepo(db)
	swaps := NewSwapRepo(db)

	require.NoError(t, offers.CASStatusTx(ctx, tx, offer.ID, model.OfferPending, model.OfferAccepted))
	all := append(append([]uint64{}, offer.OfferedItemIDs...), offer.RequestedItemID)
	require.NoError(t, items.SetStatusCASTx(ctx, tx, all, model.ItemAvailable, model.ItemSwapped))

	swap := &model.Swap{
		OfferID:     offer.ID,
		Reference:   "ref-test",
		FromUserID:  offer.FromUserID,
		ToUserID:    offer.ToUserID,
		FromItemIDs: offer.OfferedItemIDs,
		ToItemID:    offer.RequestedItemID,
	}
	require.NoError(t, swaps.CreateTx(ctx, tx, swap))
	require.NoError(t, tx.Commit())
	return swap
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return database.NewTestDB(t)
}
