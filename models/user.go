package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// SupportedCurrencies is the fixed set of balance entries every user is
// seeded with at registration. Balances are never lazily created.
var SupportedCurrencies = []string{"USDT", "BTC", "USDC", "ETH"}

func IsSupportedCurrency(currency string) bool {
	for _, c := range SupportedCurrencies {
		if c == currency {
			return true
		}
	}
	return false
}

type User struct {
	gorm.Model

	UID                    string  `gorm:"uniqueIndex;size:32" json:"uid"`
	Email                  *string `gorm:"uniqueIndex;size:255" json:"email,omitempty"`
	Phone                  *string `gorm:"uniqueIndex;size:32" json:"phone,omitempty"`
	PasswordHash           string  `gorm:"size:128" json:"-"`
	WithdrawalPasswordHash string  `gorm:"size:128" json:"-"`
	Role                   string  `gorm:"size:8;default:user" json:"role"`
	WalletAddress          string  `gorm:"size:128" json:"wallet_address,omitempty"`
	ReferralCode           string  `gorm:"uniqueIndex;size:16" json:"referral_code"`
	ReferredBy             *uint   `gorm:"index" json:"referred_by,omitempty"`
	IsVerified             bool    `gorm:"default:false" json:"is_verified"`
	CanWinSeconds          bool    `gorm:"default:false" json:"can_win_seconds"`

	Balances     []Balance     `gorm:"foreignKey:UserID" json:"balances,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UID == "" {
		u.UID = GenerateUID()
	}
	if u.ReferralCode == "" {
		u.ReferralCode = "REF-" + strings.ToUpper(uuid.New().String()[:6])
	}
	return nil
}

// Balance is one currency entry of a user's wallet. The composite unique
// index guarantees at most one row per user and currency.
type Balance struct {
	gorm.Model

	UserID   uint            `gorm:"uniqueIndex:idx_user_currency" json:"user_id"`
	Currency string          `gorm:"size:8;uniqueIndex:idx_user_currency" json:"currency"`
	Amount   decimal.Decimal `gorm:"type:numeric" json:"amount"`
}

// SeedBalances returns zeroed balance rows for every supported currency.
func SeedBalances(userID uint) []Balance {
	balances := make([]Balance, 0, len(SupportedCurrencies))
	for _, currency := range SupportedCurrencies {
		balances = append(balances, Balance{
			UserID:   userID,
			Currency: currency,
			Amount:   decimal.Zero,
		})
	}
	return balances
}

func GenerateUID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])
}
