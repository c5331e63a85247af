package ledger

import (
	"coinvault/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Adjust moves one user's balance for a single currency by delta and
// returns the new amount. Debits that would take the balance negative
// fail with ErrInsufficientFunds and write nothing. Balance rows are
// pre-seeded at registration; a missing row is a data-integrity fault,
// not a signal to create one.
//
// Adjust must only be called inside a coordinated unit (see Atomic) so
// the mutation commits or rolls back together with its accompanying
// status transition.
func Adjust(tx *gorm.DB, userID uint, currency string, delta decimal.Decimal) (decimal.Decimal, error) {
	var balance models.Balance
	err := LockForUpdate(tx).
		Where("user_id = ? AND currency = ?", userID, currency).
		First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, ErrMissingBalanceEntry
		}
		return decimal.Zero, errors.Wrap(ErrPersistence, err.Error())
	}

	next := balance.Amount.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, ErrInsufficientFunds
	}

	balance.Amount = next
	if err := tx.Save(&balance).Error; err != nil {
		return decimal.Zero, errors.Wrap(ErrPersistence, err.Error())
	}
	return next, nil
}
