package service

import (
	"errors"
	"fmt"
)

// ErrEmptyCart signals that a purchase was attempted on an empty cart. It is
// a defined outcome, not a failure: callers render "nothing to purchase".
var ErrEmptyCart = errors.New("cart is empty")

// NotFoundError reports an id with no catalog record behind it.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ResolutionError reports that one or more ids in a fan-out could not be
// resolved. The whole operation aborts: totals and hydrated views are never
// assembled from a partial set.
type ResolutionError struct {
	KitID int64 // kit being hydrated, 0 when resolving a bare id list
	IDs   []int64
	Err   error // first underlying failure; a NotFoundError when the record simply does not exist
}

func (e *ResolutionError) Error() string {
	if e.KitID != 0 {
		return fmt.Sprintf("kit %d: could not resolve product ids %v", e.KitID, e.IDs)
	}
	return fmt.Sprintf("could not resolve ids %v", e.IDs)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// ValidationError reports malformed caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InconsistentStateError reports that an order was persisted but the
// subsequent cart clear failed. The order stands; recovery is re-issuing
// the clear, which is idempotent.
type InconsistentStateError struct {
	OrderID int64
	User    string
	Err     error
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("order %d saved but cart clear failed for %s: %v", e.OrderID, e.User, e.Err)
}

func (e *InconsistentStateError) Unwrap() error {
	return e.Err
}
