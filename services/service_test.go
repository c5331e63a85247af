package services

import (
	"testing"

	"coinvault/database"
	"coinvault/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, usdt string, canWinSeconds bool) *models.User {
	t.Helper()
	user := &models.User{Role: models.RoleUser, CanWinSeconds: canWinSeconds}
	require.NoError(t, db.Create(user).Error)

	balances := models.SeedBalances(user.ID)
	for i := range balances {
		if balances[i].Currency == "USDT" {
			balances[i].Amount = decimal.RequireFromString(usdt)
		}
	}
	require.NoError(t, db.Create(&balances).Error)
	return user
}

func seedAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	admin := &models.User{Role: models.RoleAdmin}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

func balanceOf(t *testing.T, db *gorm.DB, userID uint, currency string) decimal.Decimal {
	t.Helper()
	var balance models.Balance
	require.NoError(t, db.Where("user_id = ? AND currency = ?", userID, currency).First(&balance).Error)
	return balance.Amount
}

func setBalance(t *testing.T, db *gorm.DB, userID uint, currency, amount string) {
	t.Helper()
	require.NoError(t, db.Model(&models.Balance{}).
		Where("user_id = ? AND currency = ?", userID, currency).
		Update("amount", decimal.RequireFromString(amount)).Error)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
