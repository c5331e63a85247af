package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TradeStatusPending   = "pending"
	TradeStatusApproved  = "approved"
	TradeStatusRejected  = "rejected"
	TradeStatusCompleted = "completed"
	TradeStatusCancelled = "cancelled"
	TradeStatusTimedOut  = "timedout"
)

const (
	TradeTypeBuy  = "buy"
	TradeTypeSell = "sell"
)

const (
	TradeModeSwap    = "Swap"
	TradeModeSpot    = "Spot"
	TradeModeSeconds = "Seconds"
)

type Trade struct {
	gorm.Model

	UserID       uint   `gorm:"index" json:"user_id"`
	TradeType    string `gorm:"size:8" json:"trade_type"`
	FromCurrency string `gorm:"size:8" json:"from_currency"`
	ToCurrency   string `gorm:"size:8" json:"to_currency"`

	PrincipalAmount decimal.Decimal `gorm:"type:numeric" json:"principal_amount"`
	ProfitAmount    decimal.Decimal `gorm:"type:numeric" json:"profit_amount"`
	TotalPayout     decimal.Decimal `gorm:"type:numeric" json:"total_payout"`

	ExpectedPrice decimal.Decimal  `gorm:"type:numeric" json:"expected_price"`
	ExecutedPrice *decimal.Decimal `gorm:"type:numeric" json:"executed_price,omitempty"`

	Status    string `gorm:"size:16;index;default:pending" json:"status"`
	TradeMode string `gorm:"size:8;index" json:"trade_mode"`

	TransactionID *uint  `gorm:"index" json:"transaction_id,omitempty"`
	AdminNotes    string `gorm:"size:255" json:"admin_notes,omitempty"`

	ApprovedBy  *uint      `gorm:"index" json:"approved_by,omitempty"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// BeforeSave keeps the payout derived. TotalPayout is never written
// independently of principal and profit.
func (t *Trade) BeforeSave(tx *gorm.DB) error {
	t.TotalPayout = t.PrincipalAmount.Add(t.ProfitAmount)
	return nil
}

func IsValidTradeType(tradeType string) bool {
	return tradeType == TradeTypeBuy || tradeType == TradeTypeSell
}

func IsValidTradeMode(mode string) bool {
	return mode == TradeModeSwap || mode == TradeModeSpot || mode == TradeModeSeconds
}
