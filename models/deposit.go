package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DepositStatusPending  = "pending"
	DepositStatusAccepted = "accepted"
	DepositStatusRejected = "rejected"
)

// Deposit is a user-submitted credit request. ProofImageURL points at the
// evidentiary attachment held by the external file store.
type Deposit struct {
	gorm.Model

	UserID        uint            `gorm:"index" json:"user_id"`
	UID           string          `gorm:"size:32;index" json:"uid"`
	Amount        decimal.Decimal `gorm:"type:numeric" json:"amount"`
	Currency      string          `gorm:"size:8" json:"currency"`
	Chain         string          `gorm:"size:32" json:"chain,omitempty"`
	ProofImageURL string          `gorm:"size:255" json:"proof_image_url,omitempty"`
	Metadata      datatypes.JSON  `gorm:"type:jsonb" json:"metadata,omitempty"`
	Status        string          `gorm:"size:16;index;default:pending" json:"status"`

	TransactionID *uint      `gorm:"index" json:"transaction_id,omitempty"`
	ApprovedBy    *uint      `gorm:"index" json:"approved_by,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
}
