package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rewear-hq/rewear/internal/model"
	"github.com/rewear-hq/rewear/internal/repository"
)

func TestOfferCapabilities(t *testing.T) {
	offer := &model.SwapOffer{FromUserID: 1, ToUserID: 2}

	assert.NoError(t, CanRespondToOffer(2, offer))
	assert.ErrorIs(t, CanRespondToOffer(1, offer), repository.ErrForbidden)
	assert.ErrorIs(t, CanRespondToOffer(3, offer), repository.ErrForbidden)

	assert.NoError(t, CanCancelOffer(1, offer))
	assert.ErrorIs(t, CanCancelOffer(2, offer), repository.ErrForbidden)

	assert.NoError(t, CanViewOffer(1, model.RoleUser, offer))
	assert.NoError(t, CanViewOffer(2, model.RoleUser, offer))
	assert.NoError(t, CanViewOffer(3, model.RoleAdmin, offer))
	assert.ErrorIs(t, CanViewOffer(3, model.RoleUser, offer), repository.ErrForbidden)
}

func TestSwapCapabilities(t *testing.T) {
	swap := &model.Swap{FromUserID: 1, ToUserID: 2}

	assert.NoError(t, CanSettleSwap(1, swap))
	assert.NoError(t, CanSettleSwap(2, swap))
	assert.ErrorIs(t, CanSettleSwap(3, swap), repository.ErrForbidden)

	assert.NoError(t, CanViewSwap(3, model.RoleAdmin, swap))
	assert.ErrorIs(t, CanViewSwap(3, model.RoleUser, swap), repository.ErrForbidden)
}

func TestItemCapabilities(t *testing.T) {
	item := &model.Item{OwnerID: 7}

	assert.NoError(t, CanManageItem(7, model.RoleUser, item))
	assert.NoError(t, CanManageItem(1, model.RoleAdmin, item))
	assert.ErrorIs(t, CanManageItem(8, model.RoleUser, item), repository.ErrForbidden)
}
