package ledger

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// domainErrors are passed through Atomic untouched so callers can branch
// on the kind. Anything else is classified as a persistence failure.
var domainErrors = []error{
	ErrNotFound,
	ErrNotPending,
	ErrInvalidStatusTransition,
	ErrInsufficientFunds,
	ErrMissingBalanceEntry,
	ErrMissingExecutedPrice,
	ErrNotOwner,
}

// Atomic runs fn as a single all-or-nothing unit. Every balance mutation,
// status transition and audit-record insert of one request must happen
// inside the same unit; on any error the transaction is rolled back and
// nothing is visible externally. Infra failures surface as ErrPersistence
// and are safe to retry whole.
func Atomic(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	err := db.Transaction(fn)
	if err == nil {
		return nil
	}
	for _, kind := range domainErrors {
		if errors.Is(err, kind) {
			return err
		}
	}
	return errors.Wrap(ErrPersistence, err.Error())
}

// LockForUpdate takes a row-level lock so the decide-then-commit step of a
// state machine is serialized per entity. SELECT ... FOR UPDATE is
// postgres syntax; sqlite (used in tests) serializes writers on its own.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
