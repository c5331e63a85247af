package services

import (
	"fmt"
	"time"

	"coinvault/ledger"
	"coinvault/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// minimum withdrawal, in USDT
var minWithdrawalAmount = decimal.NewFromInt(10)

// RequestWithdrawal records a pending withdrawal after checking the
// withdrawal password and current balance. Nothing is debited until an
// admin approves.
func RequestWithdrawal(db *gorm.DB, userID uint, amount decimal.Decimal, address, password string) (*models.Withdrawal, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrNotFound
		}
		return nil, errors.Wrap(ledger.ErrPersistence, err.Error())
	}

	if user.WithdrawalPasswordHash == "" {
		return nil, errors.New("withdrawal password not set")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.WithdrawalPasswordHash), []byte(password)); err != nil {
		return nil, errors.New("invalid withdrawal password")
	}

	if amount.LessThan(minWithdrawalAmount) {
		return nil, errors.Errorf("amount must be at least %s USDT", minWithdrawalAmount)
	}

	var balance models.Balance
	if err := db.Where("user_id = ? AND currency = ?", userID, "USDT").
		First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrMissingBalanceEntry
		}
		return nil, errors.Wrap(ledger.ErrPersistence, err.Error())
	}
	if balance.Amount.LessThan(amount) {
		return nil, ledger.ErrInsufficientFunds
	}

	withdrawal := &models.Withdrawal{
		UserID:   userID,
		UID:      user.UID,
		Amount:   amount,
		Currency: "USDT",
		Address:  address,
		Status:   models.WithdrawalStatusPending,
	}
	if err := db.Create(withdrawal).Error; err != nil {
		return nil, errors.Wrap(ledger.ErrPersistence, err.Error())
	}

	logrus.WithFields(logrus.Fields{
		"withdrawal_id": withdrawal.ID,
		"uid":           user.UID,
		"amount":        amount,
	}).Info("withdrawal requested")

	return withdrawal, nil
}

// ApproveWithdrawal debits the user and writes the audit transaction in
// one unit. The balance is re-checked under lock; it may have shrunk
// since the request was made.
func ApproveWithdrawal(db *gorm.DB, withdrawalID, adminID uint) (*models.Withdrawal, error) {
	var withdrawal *models.Withdrawal
	err := ledger.Atomic(db, func(tx *gorm.DB) error {
		locked, err := lockWithdrawal(tx, withdrawalID)
		if err != nil {
			return err
		}
		if locked.Status != models.WithdrawalStatusPending {
			return ledger.ErrNotPending
		}

		if _, err := ledger.Adjust(tx, locked.UserID, locked.Currency, locked.Amount.Neg()); err != nil {
			return err
		}

		now := time.Now()
		audit := &models.Transaction{
			UserID:        locked.UserID,
			Type:          models.TransactionTypeWithdrawal,
			Amount:        locked.Amount,
			Currency:      locked.Currency,
			Status:        models.TransactionStatusCompleted,
			Description:   fmt.Sprintf("Withdrawal of %s %s to %s", locked.Amount, locked.Currency, locked.Address),
			WalletAddress: locked.Address,
			ApprovedBy:    &adminID,
			ApprovedAt:    &now,
		}
		if err := tx.Create(audit).Error; err != nil {
			return err
		}

		locked.Status = models.WithdrawalStatusApproved
		locked.TransactionID = &audit.ID
		locked.ApprovedBy = &adminID
		locked.ApprovedAt = &now
		if err := tx.Save(locked).Error; err != nil {
			return err
		}
		withdrawal = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return withdrawal, nil
}

// RejectWithdrawal is a pure status transition.
func RejectWithdrawal(db *gorm.DB, withdrawalID, adminID uint) (*models.Withdrawal, error) {
	var withdrawal *models.Withdrawal
	err := ledger.Atomic(db, func(tx *gorm.DB) error {
		locked, err := lockWithdrawal(tx, withdrawalID)
		if err != nil {
			return err
		}
		if locked.Status != models.WithdrawalStatusPending {
			return ledger.ErrNotPending
		}
		now := time.Now()
		locked.Status = models.WithdrawalStatusRejected
		locked.ApprovedBy = &adminID
		locked.ApprovedAt = &now
		if err := tx.Save(locked).Error; err != nil {
			return err
		}
		withdrawal = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return withdrawal, nil
}

// ListPendingWithdrawals returns withdrawal requests awaiting a decision.
func ListPendingWithdrawals(db *gorm.DB) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := db.Where("status = ?", models.WithdrawalStatusPending).
		Order("created_at asc").
		Find(&withdrawals).Error
	if err != nil {
		return nil, errors.Wrap(ledger.ErrPersistence, err.Error())
	}
	return withdrawals, nil
}

func lockWithdrawal(tx *gorm.DB, withdrawalID uint) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	if err := ledger.LockForUpdate(tx).First(&withdrawal, withdrawalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	return &withdrawal, nil
}
