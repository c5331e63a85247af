package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	SecondsStatusPending  = "pending"
	SecondsStatusApproved = "approved"
	SecondsStatusRejected = "rejected"
)

// AllowedSecondsDurations is the enumerated set of wager buckets accepted
// at submission.
var AllowedSecondsDurations = []int{30, 60, 90, 120, 180, 300}

func IsAllowedSecondsDuration(seconds int) bool {
	for _, s := range AllowedSecondsDurations {
		if s == seconds {
			return true
		}
	}
	return false
}

// SecondsRequest is a timed wager. On approval it owns exactly one Trade
// (TradeMode=Seconds) through TradeID.
type SecondsRequest struct {
	gorm.Model

	UserID       uint            `gorm:"index" json:"user_id"`
	UID          string          `gorm:"size:32;index" json:"uid"`
	Seconds      int             `json:"seconds"`
	Amount       decimal.Decimal `gorm:"type:numeric" json:"amount"`
	TradeType    string          `gorm:"size:8" json:"trade_type"`
	FromCurrency string          `gorm:"size:8" json:"from_currency"`
	ToCurrency   string          `gorm:"size:8" json:"to_currency"`
	OpenPrice    decimal.Decimal `gorm:"type:numeric" json:"open_price"`

	Status     string     `gorm:"size:16;index;default:pending" json:"status"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	TradeID    *uint      `gorm:"index" json:"trade_id,omitempty"`
}

// ExpiresAt is the moment the wager window closes and a pending request
// becomes eligible for timeout resolution.
func (r *SecondsRequest) ExpiresAt() time.Time {
	return r.CreatedAt.Add(time.Duration(r.Seconds) * time.Second)
}
