package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypeTrade      = "trade"
	TransactionTypeReferral   = "referral"
	TransactionTypeSystem     = "system"
)

const (
	TransactionStatusPending   = "pending"
	TransactionStatusApproved  = "approved"
	TransactionStatusRejected  = "rejected"
	TransactionStatusCompleted = "completed"
)

// Transaction is the audit record of a balance-affecting event. Rows are
// append-only.
type Transaction struct {
	gorm.Model

	UserID        uint            `gorm:"index" json:"user_id"`
	Type          string          `gorm:"size:16;index" json:"type"`
	Amount        decimal.Decimal `gorm:"type:numeric" json:"amount"`
	Currency      string          `gorm:"size:8" json:"currency"`
	Status        string          `gorm:"size:16;index" json:"status"`
	Description   string          `gorm:"size:255" json:"description,omitempty"`
	WalletAddress string          `gorm:"size:128" json:"wallet_address,omitempty"`
	AdminNotes    string          `gorm:"size:255" json:"admin_notes,omitempty"`
	RefID         string          `gorm:"size:36;uniqueIndex" json:"ref_id"`

	ApprovedBy *uint      `gorm:"index" json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.RefID == "" {
		t.RefID = strings.ToLower(uuid.New().String())
	}
	return nil
}
