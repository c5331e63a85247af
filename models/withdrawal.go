package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusApproved = "approved"
	WithdrawalStatusRejected = "rejected"
)

type Withdrawal struct {
	gorm.Model

	UserID   uint            `gorm:"index" json:"user_id"`
	UID      string          `gorm:"size:32;index" json:"uid"`
	Amount   decimal.Decimal `gorm:"type:numeric" json:"amount"`
	Currency string          `gorm:"size:8;default:USDT" json:"currency"`
	Address  string          `gorm:"size:128" json:"address"`
	Status   string          `gorm:"size:16;index;default:pending" json:"status"`

	TransactionID *uint      `gorm:"index" json:"transaction_id,omitempty"`
	ApprovedBy    *uint      `gorm:"index" json:"approved_by,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
}
