package services

import (
	"fmt"
	"time"

	"coinvault/ledger"
	"coinvault/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CreateTradeInput carries a user's trade submission. Seconds mode is
// refused here; wagers go through the seconds request workflow.
type CreateTradeInput struct {
	UserID          uint
	TradeType       string
	FromCurrency    string
	ToCurrency      string
	PrincipalAmount decimal.Decimal
	ExpectedPrice   decimal.Decimal
	TradeMode       string
}

// ProcessTradeInput is an admin decision on a pending or approved trade.
type ProcessTradeInput struct {
	TradeID       uint
	AdminID       uint
	Status        string
	ExecutedPrice *decimal.Decimal
	AdminNotes    string
}

// CreateTrade stores a pending trade. No balance is touched until the
// trade completes.
func CreateTrade(db *gorm.DB, input CreateTradeInput) (*models.Trade, error) {
	if !models.IsValidTradeType(input.TradeType) {
		return nil, errors.Errorf("invalid trade type: %s", input.TradeType)
	}
	if input.TradeMode != models.TradeModeSwap && input.TradeMode != models.TradeModeSpot {
		return nil, errors.Errorf("invalid trade mode: %s", input.TradeMode)
	}
	if !input.PrincipalAmount.IsPositive() {
		return nil, errors.New("principal amount must be positive")
	}
	if !input.ExpectedPrice.IsPositive() {
		return nil, errors.New("expected price must be positive")
	}

	var user models.User
	if err := db.First(&user, input.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrNotFound
		}
		return nil, errors.Wrap(ledger.ErrPersistence, err.Error())
	}

	trade := &models.Trade{
		UserID:          input.UserID,
		TradeType:       input.TradeType,
		FromCurrency:    input.FromCurrency,
		ToCurrency:      input.ToCurrency,
		PrincipalAmount: input.PrincipalAmount,
		ExpectedPrice:   input.ExpectedPrice,
		Status:          models.TradeStatusPending,
		TradeMode:       input.TradeMode,
	}
	if err := db.Create(trade).Error; err != nil {
		return nil, errors.Wrap(ledger.ErrPersistence, err.Error())
	}

	logrus.WithFields(logrus.Fields{
		"trade_id":   trade.ID,
		"user_id":    trade.UserID,
		"trade_type": trade.TradeType,
		"mode":       trade.TradeMode,
	}).Info("trade submitted")

	return trade, nil
}

// CancelTrade lets the owning user withdraw a trade that is still
// pending. No balance effect.
func CancelTrade(db *gorm.DB, tradeID, userID uint) (*models.Trade, error) {
	var trade *models.Trade
	err := ledger.Atomic(db, func(tx *gorm.DB) error {
		locked, err := lockTrade(tx, tradeID)
		if err != nil {
			return err
		}
		if locked.UserID != userID {
			return ledger.ErrNotOwner
		}
		if locked.Status != models.TradeStatusPending {
			return ledger.NewStatusTransitionError(locked.Status, models.TradeStatusCancelled)
		}
		locked.Status = models.TradeStatusCancelled
		if err := tx.Save(locked).Error; err != nil {
			return err
		}
		trade = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trade, nil
}

// ProcessTrade applies an admin decision. Approval records the executed
// price and the approver; completion settles the trade against the user's
// balances and writes the audit transaction, all in one unit.
func ProcessTrade(db *gorm.DB, input ProcessTradeInput) (*models.Trade, error) {
	var trade *models.Trade
	err := ledger.Atomic(db, func(tx *gorm.DB) error {
		locked, err := lockTrade(tx, input.TradeID)
		if err != nil {
			return err
		}

		switch input.Status {
		case models.TradeStatusApproved:
			err = approveTrade(tx, locked, input)
		case models.TradeStatusCompleted:
			err = completeTrade(tx, locked, input)
		case models.TradeStatusRejected:
			err = rejectTrade(tx, locked, input)
		default:
			err = ledger.NewStatusTransitionError(locked.Status, input.Status)
		}
		if err != nil {
			return err
		}
		trade = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"trade_id": trade.ID,
		"status":   trade.Status,
		"admin_id": input.AdminID,
	}).Info("trade processed")

	return trade, nil
}

func approveTrade(tx *gorm.DB, trade *models.Trade, input ProcessTradeInput) error {
	if trade.Status != models.TradeStatusPending {
		return ledger.NewStatusTransitionError(trade.Status, models.TradeStatusApproved)
	}

	executed := trade.ExpectedPrice
	if input.ExecutedPrice != nil {
		executed = *input.ExecutedPrice
	}
	now := time.Now()
	trade.Status = models.TradeStatusApproved
	trade.ExecutedPrice = &executed
	trade.ApprovedBy = &input.AdminID
	trade.ApprovedAt = &now
	if input.AdminNotes != "" {
		trade.AdminNotes = input.AdminNotes
	}
	return tx.Save(trade).Error
}

func completeTrade(tx *gorm.DB, trade *models.Trade, input ProcessTradeInput) error {
	if trade.Status != models.TradeStatusPending && trade.Status != models.TradeStatusApproved {
		return ledger.NewStatusTransitionError(trade.Status, models.TradeStatusCompleted)
	}

	if input.ExecutedPrice != nil {
		trade.ExecutedPrice = input.ExecutedPrice
	}
	if trade.ExecutedPrice == nil {
		return ledger.ErrMissingExecutedPrice
	}

	var (
		currency    string
		description string
	)
	switch trade.TradeType {
	case models.TradeTypeBuy:
		currency = trade.ToCurrency
		description = fmt.Sprintf("Purchase of %s %s at %s %s each",
			trade.PrincipalAmount, trade.ToCurrency, trade.ExecutedPrice, trade.FromCurrency)
		if _, err := ledger.Adjust(tx, trade.UserID, trade.ToCurrency, trade.PrincipalAmount); err != nil {
			return err
		}
	case models.TradeTypeSell:
		currency = trade.FromCurrency
		description = fmt.Sprintf("Sale of %s %s at %s %s each",
			trade.PrincipalAmount, trade.FromCurrency, trade.ExecutedPrice, trade.ToCurrency)
		if _, err := ledger.Adjust(tx, trade.UserID, trade.FromCurrency, trade.PrincipalAmount.Neg()); err != nil {
			return err
		}
	default:
		return errors.Errorf("trade %d has unknown type %s", trade.ID, trade.TradeType)
	}

	now := time.Now()
	audit := &models.Transaction{
		UserID:      trade.UserID,
		Type:        models.TransactionTypeTrade,
		Amount:      trade.PrincipalAmount,
		Currency:    currency,
		Status:      models.TransactionStatusCompleted,
		Description: description,
		ApprovedBy:  &input.AdminID,
		ApprovedAt:  &now,
	}
	if err := tx.Create(audit).Error; err != nil {
		return err
	}

	trade.Status = models.TradeStatusCompleted
	trade.TransactionID = &audit.ID
	trade.CompletedAt = &now
	if trade.ApprovedBy == nil {
		trade.ApprovedBy = &input.AdminID
		trade.ApprovedAt = &now
	}
	if input.AdminNotes != "" {
		trade.AdminNotes = input.AdminNotes
	}
	return tx.Save(trade).Error
}

func rejectTrade(tx *gorm.DB, trade *models.Trade, input ProcessTradeInput) error {
	if trade.Status != models.TradeStatusPending && trade.Status != models.TradeStatusApproved {
		return ledger.NewStatusTransitionError(trade.Status, models.TradeStatusRejected)
	}
	now := time.Now()
	trade.Status = models.TradeStatusRejected
	trade.ApprovedBy = &input.AdminID
	trade.ApprovedAt = &now
	if input.AdminNotes != "" {
		trade.AdminNotes = input.AdminNotes
	}
	return tx.Save(trade).Error
}

// TradeFilter narrows trade listings.
type TradeFilter struct {
	UserID    *uint
	Status    string
	TradeType string
	TradeMode string
	Page      int
	Limit     int
}

// ListTrades returns trades newest first with the given filter and a
// total count for pagination.
func ListTrades(db *gorm.DB, filter TradeFilter) ([]models.Trade, int64, error) {
	query := db.Model(&models.Trade{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TradeType != "" {
		query = query.Where("trade_type = ?", filter.TradeType)
	}
	if filter.TradeMode != "" {
		query = query.Where("trade_mode = ?", filter.TradeMode)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(ledger.ErrPersistence, err.Error())
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var trades []models.Trade
	err := query.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&trades).Error
	if err != nil {
		return nil, 0, errors.Wrap(ledger.ErrPersistence, err.Error())
	}
	return trades, total, nil
}

// GetTrade loads one trade by id.
func GetTrade(db *gorm.DB, tradeID uint) (*models.Trade, error) {
	var trade models.Trade
	if err := db.First(&trade, tradeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrNotFound
		}
		return nil, errors.Wrap(ledger.ErrPersistence, err.Error())
	}
	return &trade, nil
}

func lockTrade(tx *gorm.DB, tradeID uint) (*models.Trade, error) {
	var trade models.Trade
	if err := ledger.LockForUpdate(tx).First(&trade, tradeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	return &trade, nil
}
