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

// secondsProfitPercents maps a wager duration to its payout percentage.
// Durations outside the table (120) fall back to the base 6%.
var secondsProfitPercents = map[int]int64{
	30:  12,
	60:  18,
	90:  25,
	180: 32,
	300: 45,
}

const secondsProfitFallbackPercent = 6

// SecondsProfitPercent returns the profit percentage for a duration bucket.
func SecondsProfitPercent(seconds int) decimal.Decimal {
	if pct, ok := secondsProfitPercents[seconds]; ok {
		return decimal.NewFromInt(pct)
	}
	return decimal.NewFromInt(secondsProfitFallbackPercent)
}

// SecondsOutcome reports the settled figures of a wager.
type SecondsOutcome struct {
	Status          string          `json:"status"`
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	Profit          decimal.Decimal `json:"profit"`
	Payout          decimal.Decimal `json:"payout"`
}

// SubmitSecondsRequest validates and stores a new wager. The stake stays
// in the user's balance untouched; it is only paid out on approval or
// recorded as a loss on rejection. Users flagged CanWinSeconds skip the
// pending state and win immediately.
func SubmitSecondsRequest(db *gorm.DB, userID uint, seconds int, amount decimal.Decimal, tradeType, fromCurrency, toCurrency string, openPrice decimal.Decimal) (*models.SecondsRequest, *SecondsOutcome, error) {
	if !models.IsAllowedSecondsDuration(seconds) {
		return nil, nil, errors.Errorf("invalid seconds value: %d", seconds)
	}
	if !amount.IsPositive() {
		return nil, nil, errors.New("amount must be positive")
	}
	if !models.IsValidTradeType(tradeType) {
		return nil, nil, errors.Errorf("invalid trade type: %s", tradeType)
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ledger.ErrNotFound
		}
		return nil, nil, errors.Wrap(ledger.ErrPersistence, err.Error())
	}

	// Stake sufficiency is checked up front even though nothing is
	// debited until the request resolves.
	var stake models.Balance
	if err := db.Where("user_id = ? AND currency = ?", userID, fromCurrency).
		First(&stake).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ledger.ErrMissingBalanceEntry
		}
		return nil, nil, errors.Wrap(ledger.ErrPersistence, err.Error())
	}
	if stake.Amount.LessThan(amount) {
		return nil, nil, ledger.ErrInsufficientFunds
	}

	request := &models.SecondsRequest{
		UserID:       userID,
		UID:          user.UID,
		Seconds:      seconds,
		Amount:       amount,
		TradeType:    tradeType,
		FromCurrency: fromCurrency,
		ToCurrency:   toCurrency,
		OpenPrice:    openPrice,
		Status:       models.SecondsStatusPending,
	}

	var outcome *SecondsOutcome
	err := ledger.Atomic(db, func(tx *gorm.DB) error {
		if err := tx.Create(request).Error; err != nil {
			return err
		}
		if !user.CanWinSeconds {
			return nil
		}
		settled, err := settleSecondsWin(tx, request, nil)
		if err != nil {
			return err
		}
		outcome = settled
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	logrus.WithFields(logrus.Fields{
		"request_id": request.ID,
		"uid":        request.UID,
		"seconds":    seconds,
		"status":     request.Status,
	}).Info("seconds request submitted")

	return request, outcome, nil
}

// ApproveSecondsRequest resolves a pending wager as a win: the stake plus
// profit is credited and a completed Seconds trade is recorded, all in one
// unit. A second approve of the same request fails with ErrNotPending.
func ApproveSecondsRequest(db *gorm.DB, requestID, adminID uint) (*SecondsOutcome, error) {
	var outcome *SecondsOutcome
	err := ledger.Atomic(db, func(tx *gorm.DB) error {
		request, err := lockSecondsRequest(tx, requestID)
		if err != nil {
			return err
		}
		if request.Status != models.SecondsStatusPending {
			return ledger.ErrNotPending
		}
		outcome, err = settleSecondsWin(tx, request, &adminID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// settleSecondsWin credits the payout, records the completed trade and
// marks the request approved. Caller holds the row lock.
func settleSecondsWin(tx *gorm.DB, request *models.SecondsRequest, adminID *uint) (*SecondsOutcome, error) {
	profit := request.Amount.Mul(SecondsProfitPercent(request.Seconds)).Div(decimal.NewFromInt(100))
	payout := request.Amount.Add(profit)

	if _, err := ledger.Adjust(tx, request.UserID, request.FromCurrency, payout); err != nil {
		return nil, err
	}

	now := time.Now()
	trade := &models.Trade{
		UserID:          request.UserID,
		TradeType:       request.TradeType,
		FromCurrency:    request.FromCurrency,
		ToCurrency:      request.ToCurrency,
		PrincipalAmount: request.Amount,
		ProfitAmount:    profit,
		ExpectedPrice:   request.OpenPrice,
		ExecutedPrice:   &request.OpenPrice,
		Status:          models.TradeStatusCompleted,
		TradeMode:       models.TradeModeSeconds,
		ApprovedBy:      adminID,
		ApprovedAt:      &now,
		CompletedAt:     &now,
	}
	if err := tx.Create(trade).Error; err != nil {
		return nil, err
	}

	request.Status = models.SecondsStatusApproved
	request.ApprovedAt = &now
	request.TradeID = &trade.ID
	if err := tx.Save(request).Error; err != nil {
		return nil, err
	}

	return &SecondsOutcome{
		Status:          models.SecondsStatusApproved,
		PrincipalAmount: request.Amount,
		Profit:          profit,
		Payout:          payout,
	}, nil
}

// RejectSecondsRequest resolves a pending wager as a loss. The stake was
// never debited at submission, so no balance changes; a full-loss trade
// is recorded for the audit trail.
func RejectSecondsRequest(db *gorm.DB, requestID uint) (*SecondsOutcome, error) {
	var outcome *SecondsOutcome
	err := ledger.Atomic(db, func(tx *gorm.DB) error {
		request, err := lockSecondsRequest(tx, requestID)
		if err != nil {
			return err
		}
		if request.Status != models.SecondsStatusPending {
			return ledger.ErrNotPending
		}
		settled, err := settleSecondsLoss(tx, request)
		if err != nil {
			return err
		}
		outcome = settled
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func settleSecondsLoss(tx *gorm.DB, request *models.SecondsRequest) (*SecondsOutcome, error) {
	trade := &models.Trade{
		UserID:          request.UserID,
		TradeType:       request.TradeType,
		FromCurrency:    request.FromCurrency,
		ToCurrency:      request.ToCurrency,
		PrincipalAmount: request.Amount,
		ProfitAmount:    request.Amount.Neg(),
		ExpectedPrice:   request.OpenPrice,
		ExecutedPrice:   &request.OpenPrice,
		Status:          models.TradeStatusCompleted,
		TradeMode:       models.TradeModeSeconds,
	}
	if err := tx.Create(trade).Error; err != nil {
		return nil, err
	}

	request.Status = models.SecondsStatusRejected
	request.TradeID = &trade.ID
	if err := tx.Save(request).Error; err != nil {
		return nil, err
	}

	return &SecondsOutcome{
		Status:          models.SecondsStatusRejected,
		PrincipalAmount: request.Amount,
		Profit:          request.Amount.Neg(),
		Payout:          decimal.Zero,
	}, nil
}

// ResolveSecondsTimeout settles an expired wager. Pending requests are
// rejected exactly as an admin reject would; already-resolved requests
// yield their recorded outcome without touching any balance, so the
// trigger may fire any number of times.
func ResolveSecondsTimeout(db *gorm.DB, requestID uint) (*SecondsOutcome, error) {
	var outcome *SecondsOutcome
	err := ledger.Atomic(db, func(tx *gorm.DB) error {
		request, err := lockSecondsRequest(tx, requestID)
		if err != nil {
			return err
		}

		switch request.Status {
		case models.SecondsStatusPending:
			settled, err := settleSecondsLoss(tx, request)
			if err != nil {
				return err
			}
			outcome = settled
			return nil
		case models.SecondsStatusApproved:
			recorded, err := recordedSecondsOutcome(tx, request)
			if err != nil {
				return err
			}
			outcome = recorded
			return nil
		case models.SecondsStatusRejected:
			outcome = &SecondsOutcome{
				Status:          models.SecondsStatusRejected,
				PrincipalAmount: request.Amount,
				Profit:          request.Amount.Neg(),
				Payout:          decimal.Zero,
			}
			return nil
		default:
			return fmt.Errorf("seconds request %d has unknown status %s", request.ID, request.Status)
		}
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// recordedSecondsOutcome reads the figures off the trade owned by an
// approved request.
func recordedSecondsOutcome(tx *gorm.DB, request *models.SecondsRequest) (*SecondsOutcome, error) {
	if request.TradeID == nil {
		return nil, ledger.ErrNotFound
	}
	var trade models.Trade
	if err := tx.First(&trade, *request.TradeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	return &SecondsOutcome{
		Status:          models.SecondsStatusApproved,
		PrincipalAmount: trade.PrincipalAmount,
		Profit:          trade.ProfitAmount,
		Payout:          trade.TotalPayout,
	}, nil
}

// ListPendingSecondsRequests returns wagers awaiting an admin decision,
// oldest first.
func ListPendingSecondsRequests(db *gorm.DB) ([]models.SecondsRequest, error) {
	var requests []models.SecondsRequest
	err := db.Where("status = ?", models.SecondsStatusPending).
		Order("created_at asc").
		Find(&requests).Error
	if err != nil {
		return nil, errors.Wrap(ledger.ErrPersistence, err.Error())
	}
	return requests, nil
}

// ListExpiredPendingSecondsRequests returns pending wagers whose window
// closed at or before now. Used by the expiry sweep.
func ListExpiredPendingSecondsRequests(db *gorm.DB, now time.Time) ([]models.SecondsRequest, error) {
	var requests []models.SecondsRequest
	err := db.Where("status = ?", models.SecondsStatusPending).
		Find(&requests).Error
	if err != nil {
		return nil, errors.Wrap(ledger.ErrPersistence, err.Error())
	}
	expired := requests[:0]
	for _, r := range requests {
		if !r.ExpiresAt().After(now) {
			expired = append(expired, r)
		}
	}
	return expired, nil
}

func lockSecondsRequest(tx *gorm.DB, requestID uint) (*models.SecondsRequest, error) {
	var request models.SecondsRequest
	if err := ledger.LockForUpdate(tx).First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}
