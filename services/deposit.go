package services

import (
	"fmt"
	"time"

	"coinvault/ledger"
	"coinvault/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubmitDeposit records a pending deposit claim. The proof image lives in
// the external file store; only its reference is kept here.
func SubmitDeposit(db *gorm.DB, userID uint, amount decimal.Decimal, currency, chain, proofImageURL string, metadata datatypes.JSON) (*models.Deposit, error) {
	if !amount.IsPositive() {
		return nil, errors.New("amount must be positive")
	}
	if !models.IsSupportedCurrency(currency) {
		return nil, errors.Errorf("unsupported currency: %s", currency)
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrNotFound
		}
		return nil, errors.Wrap(ledger.ErrPersistence, err.Error())
	}

	deposit := &models.Deposit{
		UserID:        userID,
		UID:           user.UID,
		Amount:        amount,
		Currency:      currency,
		Chain:         chain,
		ProofImageURL: proofImageURL,
		Metadata:      metadata,
		Status:        models.DepositStatusPending,
	}
	if err := db.Create(deposit).Error; err != nil {
		return nil, errors.Wrap(ledger.ErrPersistence, err.Error())
	}

	logrus.WithFields(logrus.Fields{
		"deposit_id": deposit.ID,
		"uid":        user.UID,
		"amount":     amount,
		"currency":   currency,
	}).Info("deposit submitted")

	return deposit, nil
}

// UpdateDepositStatus applies the admin decision. Accepting credits the
// user's balance and writes the audit transaction in the same unit;
// rejecting only flips the status.
func UpdateDepositStatus(db *gorm.DB, depositID, adminID uint, status string) (*models.Deposit, error) {
	if status != models.DepositStatusAccepted && status != models.DepositStatusRejected {
		return nil, errors.Errorf("invalid deposit status: %s", status)
	}

	var deposit *models.Deposit
	err := ledger.Atomic(db, func(tx *gorm.DB) error {
		var locked models.Deposit
		if err := ledger.LockForUpdate(tx).First(&locked, depositID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ledger.ErrNotFound
			}
			return err
		}
		if locked.Status != models.DepositStatusPending {
			return ledger.ErrNotPending
		}

		now := time.Now()
		if status == models.DepositStatusAccepted {
			if _, err := ledger.Adjust(tx, locked.UserID, locked.Currency, locked.Amount); err != nil {
				return err
			}
			audit := &models.Transaction{
				UserID:      locked.UserID,
				Type:        models.TransactionTypeDeposit,
				Amount:      locked.Amount,
				Currency:    locked.Currency,
				Status:      models.TransactionStatusCompleted,
				Description: fmt.Sprintf("Deposit of %s %s", locked.Amount, locked.Currency),
				ApprovedBy:  &adminID,
				ApprovedAt:  &now,
			}
			if err := tx.Create(audit).Error; err != nil {
				return err
			}
			locked.TransactionID = &audit.ID
		}

		locked.Status = status
		locked.ApprovedBy = &adminID
		locked.ApprovedAt = &now
		if err := tx.Save(&locked).Error; err != nil {
			return err
		}
		deposit = &locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deposit, nil
}

// ListDeposits returns deposits, optionally narrowed to one status,
// newest first.
func ListDeposits(db *gorm.DB, status string) ([]models.Deposit, error) {
	query := db.Model(&models.Deposit{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var deposits []models.Deposit
	if err := query.Order("created_at desc").Find(&deposits).Error; err != nil {
		return nil, errors.Wrap(ledger.ErrPersistence, err.Error())
	}
	return deposits, nil
}
