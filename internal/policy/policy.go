// Package policy is the single capability-check surface for the swap
// lifecycle. Every handler consults these functions instead of scattering
// role and party comparisons through controllers; a nil return means the
// actor may attempt the operation (state checks still happen at the
// storage layer).
package policy

import (
	"github.com/rewear-hq/rewear/internal/model"
	"github.com/rewear-hq/rewear/internal/repository"
)

// CanRespondToOffer reports whether the actor may accept, reject or counter
// an offer. Only the recipient may respond.
func CanRespondToOffer(actorID uint64, offer *model.SwapOffer) error {
	if actorID != offer.ToUserID {
		return repository.ErrForbidden
	}
	return nil
}

// CanCancelOffer reports whether the actor may cancel an offer. Only the
// sender may cancel.
func CanCancelOffer(actorID uint64, offer *model.SwapOffer) error {
	if actorID != offer.FromUserID {
		return repository.ErrForbidden
	}
	return nil
}

// CanViewOffer reports whether the actor may read an offer. Both parties
// and admins may.
func CanViewOffer(actorID uint64, role string, offer *model.SwapOffer) error {
	if actorID == offer.FromUserID || actorID == offer.ToUserID || role == model.RoleAdmin {
		return nil
	}
	return repository.ErrForbidden
}

// CanSettleSwap reports whether the actor may complete or cancel a swap.
// Either party may settle.
func CanSettleSwap(actorID uint64, swap *model.Swap) error {
	if actorID != swap.FromUserID && actorID != swap.ToUserID {
		return repository.ErrForbidden
	}
	return nil
}

// CanViewSwap mirrors CanSettleSwap but additionally admits admins.
func CanViewSwap(actorID uint64, role string, swap *model.Swap) error {
	if actorID == swap.FromUserID || actorID == swap.ToUserID || role == model.RoleAdmin {
		return nil
	}
	return repository.ErrForbidden
}

// CanManageItem reports whether the actor may update, remove or donate an
// item. The owner and admins may.
func CanManageItem(actorID uint64, role string, item *model.Item) error {
	if actorID == item.OwnerID || role == model.RoleAdmin {
		return nil
	}
	return repository.ErrForbidden
}
