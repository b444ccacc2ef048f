// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios without inspecting
// error strings.
package repository

import "errors"

// ErrNotFound is returned when the requested row does not exist. Handlers
// should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they are not a party to. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a state transition cannot be performed
// because the row is no longer in the expected state, such as accepting an
// offer that is not pending. Handlers should translate this into an HTTP
// 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when registering with an email address that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicatePending is returned when a user already has a pending offer
// for the same requested item.
var ErrDuplicatePending = errors.New("pending offer already exists for this item")

// ErrItemUnavailable is returned when an item referenced by a transition is
// not in the status the transition requires. The guarded compare-and-set
// updates surface this instead of double-allocating an item.
var ErrItemUnavailable = errors.New("item unavailable")

// ErrInsufficientPoints is returned when a redemption would overdraw the
// user's eco-point balance.
var ErrInsufficientPoints = errors.New("insufficient eco points")

// ErrSelfOffer is returned when a user targets their own item with an
// offer.
var ErrSelfOffer = errors.New("cannot offer a swap to yourself")

// ErrWrongOwner is returned when an offer references an item that does not
// belong to the expected party.
var ErrWrongOwner = errors.New("item not owned by expected user")

// ErrNoOfferedItems is returned when an offer carries an empty offered-item
// set.
var ErrNoOfferedItems = errors.New("offer must include at least one item")
