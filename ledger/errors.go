package ledger

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds surfaced by the ledger core. Callers branch on these with
// errors.Is; the HTTP layer maps them onto response codes.
var (
	ErrNotFound                = errors.New("entity not found")
	ErrNotPending              = errors.New("request is not pending")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrMissingBalanceEntry     = errors.New("user balance entry missing")
	ErrMissingExecutedPrice    = errors.New("executed price is required")
	ErrNotOwner                = errors.New("not the owner of this entity")
	ErrPersistence             = errors.New("persistence failure")
)

// StatusTransitionError names the transition a state machine refused.
type StatusTransitionError struct {
	From string
	To   string
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

func (e *StatusTransitionError) Unwrap() error {
	return ErrInvalidStatusTransition
}

// NewStatusTransitionError records a refused from→to transition.
func NewStatusTransitionError(from, to string) error {
	return &StatusTransitionError{From: from, To: to}
}
