package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newModelDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&User{}, &Balance{}, &Trade{}))
	return db
}

// TotalPayout is derived on every persist; writing it directly never
// survives a save.
func TestTradeTotalPayoutAlwaysDerived(t *testing.T) {
	db := newModelDB(t)

	trade := &Trade{
		UserID:          1,
		TradeType:       TradeTypeBuy,
		FromCurrency:    "USDT",
		ToCurrency:      "BTC",
		PrincipalAmount: decimal.NewFromInt(200),
		ProfitAmount:    decimal.NewFromInt(36),
		TotalPayout:     decimal.NewFromInt(99999),
		ExpectedPrice:   decimal.NewFromInt(50000),
		Status:          TradeStatusPending,
		TradeMode:       TradeModeSeconds,
	}
	require.NoError(t, db.Create(trade).Error)

	var reloaded Trade
	require.NoError(t, db.First(&reloaded, trade.ID).Error)
	assert.True(t, reloaded.TotalPayout.Equal(decimal.NewFromInt(236)))

	// negative profit nets against the principal
	reloaded.ProfitAmount = decimal.NewFromInt(-200)
	require.NoError(t, db.Save(&reloaded).Error)

	var again Trade
	require.NoError(t, db.First(&again, trade.ID).Error)
	assert.True(t, again.TotalPayout.IsZero())
}

func TestIsAllowedSecondsDuration(t *testing.T) {
	for _, s := range []int{30, 60, 90, 120, 180, 300} {
		assert.True(t, IsAllowedSecondsDuration(s))
	}
	for _, s := range []int{0, 15, 45, 600} {
		assert.False(t, IsAllowedSecondsDuration(s))
	}
}

func TestUserBeforeCreateGeneratesIdentifiers(t *testing.T) {
	db := newModelDB(t)

	user := &User{Role: RoleUser}
	require.NoError(t, db.Create(user).Error)
	assert.NotEmpty(t, user.UID)
	assert.NotEmpty(t, user.ReferralCode)
	assert.Contains(t, user.ReferralCode, "REF-")
}
