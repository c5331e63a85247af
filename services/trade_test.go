package services

import (
	"testing"

	"coinvault/ledger"
	"coinvault/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTradeValidation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "1000", false)

	base := CreateTradeInput{
		UserID:          user.ID,
		TradeType:       "buy",
		FromCurrency:    "USDT",
		ToCurrency:      "BTC",
		PrincipalAmount: dec("100"),
		ExpectedPrice:   dec("50000"),
		TradeMode:       models.TradeModeSpot,
	}

	created, err := CreateTrade(db, base)
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusPending, created.Status)
	// balance untouched at creation
	assert.True(t, balanceOf(t, db, user.ID, "USDT").Equal(dec("1000")))

	bad := base
	bad.TradeType = "hold"
	_, err = CreateTrade(db, bad)
	require.Error(t, err)

	bad = base
	bad.TradeMode = models.TradeModeSeconds
	_, err = CreateTrade(db, bad)
	require.Error(t, err)

	bad = base
	bad.PrincipalAmount = dec("0")
	_, err = CreateTrade(db, bad)
	require.Error(t, err)

	bad = base
	bad.ExpectedPrice = dec("-1")
	_, err = CreateTrade(db, bad)
	require.Error(t, err)
}

func TestCancelTradeOnlyFromPending(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "1000", false)
	admin := seedAdmin(t, db)

	created, err := CreateTrade(db, CreateTradeInput{
		UserID:          user.ID,
		TradeType:       "buy",
		FromCurrency:    "USDT",
		ToCurrency:      "BTC",
		PrincipalAmount: dec("100"),
		ExpectedPrice:   dec("50000"),
		TradeMode:       models.TradeModeSpot,
	})
	require.NoError(t, err)

	// wrong owner
	_, err = CancelTrade(db, created.ID, admin.ID)
	require.ErrorIs(t, err, ledger.ErrNotOwner)

	// approve, then cancel must be refused
	_, err = ProcessTrade(db, ProcessTradeInput{
		TradeID: created.ID,
		AdminID: admin.ID,
		Status:  models.TradeStatusApproved,
	})
	require.NoError(t, err)

	_, err = CancelTrade(db, created.ID, user.ID)
	require.ErrorIs(t, err, ledger.ErrInvalidStatusTransition)

	// a fresh pending trade cancels fine
	second, err := CreateTrade(db, CreateTradeInput{
		UserID:          user.ID,
		TradeType:       "sell",
		FromCurrency:    "USDT",
		ToCurrency:      "BTC",
		PrincipalAmount: dec("10"),
		ExpectedPrice:   dec("50000"),
		TradeMode:       models.TradeModeSwap,
	})
	require.NoError(t, err)

	cancelled, err := CancelTrade(db, second.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusCancelled, cancelled.Status)
}

func TestProcessTradeApproveRecordsPriceAndApprover(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "1000", false)
	admin := seedAdmin(t, db)

	created, err := CreateTrade(db, CreateTradeInput{
		UserID:          user.ID,
		TradeType:       "buy",
		FromCurrency:    "USDT",
		ToCurrency:      "BTC",
		PrincipalAmount: dec("100"),
		ExpectedPrice:   dec("50000"),
		TradeMode:       models.TradeModeSpot,
	})
	require.NoError(t, err)

	approved, err := ProcessTrade(db, ProcessTradeInput{
		TradeID: created.ID,
		AdminID: admin.ID,
		Status:  models.TradeStatusApproved,
	})
	require.NoError(t, err)

	assert.Equal(t, models.TradeStatusApproved, approved.Status)
	require.NotNil(t, approved.ExecutedPrice)
	// defaults to the expected price
	assert.True(t, approved.ExecutedPrice.Equal(dec("50000")))
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, admin.ID, *approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)

	// no balance effect at approval
	assert.True(t, balanceOf(t, db, user.ID, "USDT").Equal(dec("1000")))
	assert.True(t, balanceOf(t, db, user.ID, "BTC").Equal(dec("0")))
}

func TestProcessTradeCompleteBuyCreditsToCurrency(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "1000", false)
	admin := seedAdmin(t, db)

	created, err := CreateTrade(db, CreateTradeInput{
		UserID:          user.ID,
		TradeType:       "buy",
		FromCurrency:    "USDT",
		ToCurrency:      "BTC",
		PrincipalAmount: dec("2"),
		ExpectedPrice:   dec("50000"),
		TradeMode:       models.TradeModeSpot,
	})
	require.NoError(t, err)

	price := dec("51000")
	completed, err := ProcessTrade(db, ProcessTradeInput{
		TradeID:       created.ID,
		AdminID:       admin.ID,
		Status:        models.TradeStatusCompleted,
		ExecutedPrice: &price,
	})
	require.NoError(t, err)

	assert.Equal(t, models.TradeStatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)
	assert.True(t, balanceOf(t, db, user.ID, "BTC").Equal(dec("2")))

	// audit transaction created and linked
	require.NotNil(t, completed.TransactionID)
	var audit models.Transaction
	require.NoError(t, db.First(&audit, *completed.TransactionID).Error)
	assert.Equal(t, models.TransactionTypeTrade, audit.Type)
	assert.Equal(t, "BTC", audit.Currency)
	assert.True(t, audit.Amount.Equal(dec("2")))
}

func TestProcessTradeCompleteSellDebitsFromCurrency(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "0", false)
	admin := seedAdmin(t, db)
	setBalance(t, db, user.ID, "ETH", "100")

	created, err := CreateTrade(db, CreateTradeInput{
		UserID:          user.ID,
		TradeType:       "sell",
		FromCurrency:    "ETH",
		ToCurrency:      "USDT",
		PrincipalAmount: dec("40"),
		ExpectedPrice:   dec("3000"),
		TradeMode:       models.TradeModeSpot,
	})
	require.NoError(t, err)

	price := dec("3000")
	completed, err := ProcessTrade(db, ProcessTradeInput{
		TradeID:       created.ID,
		AdminID:       admin.ID,
		Status:        models.TradeStatusCompleted,
		ExecutedPrice: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusCompleted, completed.Status)
	assert.True(t, balanceOf(t, db, user.ID, "ETH").Equal(dec("60")))
}

func TestProcessTradeCompleteSellInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "0", false)
	admin := seedAdmin(t, db)
	setBalance(t, db, user.ID, "ETH", "30")

	created, err := CreateTrade(db, CreateTradeInput{
		UserID:          user.ID,
		TradeType:       "sell",
		FromCurrency:    "ETH",
		ToCurrency:      "USDT",
		PrincipalAmount: dec("50"),
		ExpectedPrice:   dec("3000"),
		TradeMode:       models.TradeModeSpot,
	})
	require.NoError(t, err)

	price := dec("3000")
	_, err = ProcessTrade(db, ProcessTradeInput{
		TradeID:       created.ID,
		AdminID:       admin.ID,
		Status:        models.TradeStatusCompleted,
		ExecutedPrice: &price,
	})
	require.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	// balance intact and status unchanged
	assert.True(t, balanceOf(t, db, user.ID, "ETH").Equal(dec("30")))
	var reloaded models.Trade
	require.NoError(t, db.First(&reloaded, created.ID).Error)
	assert.Equal(t, models.TradeStatusPending, reloaded.Status)
}

func TestProcessTradeCompleteBuyMissingBalanceEntry(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)

	// legacy-style user without seeded balance rows
	user := &models.User{Role: models.RoleUser}
	require.NoError(t, db.Create(user).Error)

	created, err := CreateTrade(db, CreateTradeInput{
		UserID:          user.ID,
		TradeType:       "buy",
		FromCurrency:    "USDT",
		ToCurrency:      "BTC",
		PrincipalAmount: dec("100"),
		ExpectedPrice:   dec("50000"),
		TradeMode:       models.TradeModeSpot,
	})
	require.NoError(t, err)

	price := dec("50000")
	_, err = ProcessTrade(db, ProcessTradeInput{
		TradeID:       created.ID,
		AdminID:       admin.ID,
		Status:        models.TradeStatusCompleted,
		ExecutedPrice: &price,
	})
	require.ErrorIs(t, err, ledger.ErrMissingBalanceEntry)

	var reloaded models.Trade
	require.NoError(t, db.First(&reloaded, created.ID).Error)
	assert.Equal(t, models.TradeStatusPending, reloaded.Status)
	assert.Nil(t, reloaded.TransactionID)
}

func TestProcessTradeCompleteRequiresExecutedPrice(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "1000", false)
	admin := seedAdmin(t, db)

	created, err := CreateTrade(db, CreateTradeInput{
		UserID:          user.ID,
		TradeType:       "buy",
		FromCurrency:    "USDT",
		ToCurrency:      "BTC",
		PrincipalAmount: dec("1"),
		ExpectedPrice:   dec("50000"),
		TradeMode:       models.TradeModeSpot,
	})
	require.NoError(t, err)

	_, err = ProcessTrade(db, ProcessTradeInput{
		TradeID: created.ID,
		AdminID: admin.ID,
		Status:  models.TradeStatusCompleted,
	})
	require.ErrorIs(t, err, ledger.ErrMissingExecutedPrice)

	// approval sets the price; completion then works without one
	_, err = ProcessTrade(db, ProcessTradeInput{
		TradeID: created.ID,
		AdminID: admin.ID,
		Status:  models.TradeStatusApproved,
	})
	require.NoError(t, err)

	completed, err := ProcessTrade(db, ProcessTradeInput{
		TradeID: created.ID,
		AdminID: admin.ID,
		Status:  models.TradeStatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusCompleted, completed.Status)
}

func TestProcessTradeInvalidTransitions(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "1000", false)
	admin := seedAdmin(t, db)

	created, err := CreateTrade(db, CreateTradeInput{
		UserID:          user.ID,
		TradeType:       "buy",
		FromCurrency:    "USDT",
		ToCurrency:      "BTC",
		PrincipalAmount: dec("1"),
		ExpectedPrice:   dec("50000"),
		TradeMode:       models.TradeModeSpot,
	})
	require.NoError(t, err)

	cancelled, err := CancelTrade(db, created.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusCancelled, cancelled.Status)

	for _, status := range []string{
		models.TradeStatusApproved,
		models.TradeStatusCompleted,
		models.TradeStatusRejected,
	} {
		_, err = ProcessTrade(db, ProcessTradeInput{
			TradeID: created.ID,
			AdminID: admin.ID,
			Status:  status,
		})
		require.ErrorIs(t, err, ledger.ErrInvalidStatusTransition, "status %s", status)
	}

	_, err = ProcessTrade(db, ProcessTradeInput{
		TradeID: created.ID,
		AdminID: admin.ID,
		Status:  "pending",
	})
	require.ErrorIs(t, err, ledger.ErrInvalidStatusTransition)

	_, err = ProcessTrade(db, ProcessTradeInput{
		TradeID: 9999,
		AdminID: admin.ID,
		Status:  models.TradeStatusApproved,
	})
	require.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestListTradesFilters(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "1000", false)
	other := seedUser(t, db, "1000", false)

	for _, in := range []CreateTradeInput{
		{UserID: user.ID, TradeType: "buy", FromCurrency: "USDT", ToCurrency: "BTC", PrincipalAmount: dec("1"), ExpectedPrice: dec("1"), TradeMode: models.TradeModeSpot},
		{UserID: user.ID, TradeType: "sell", FromCurrency: "USDT", ToCurrency: "BTC", PrincipalAmount: dec("1"), ExpectedPrice: dec("1"), TradeMode: models.TradeModeSwap},
		{UserID: other.ID, TradeType: "buy", FromCurrency: "USDT", ToCurrency: "ETH", PrincipalAmount: dec("1"), ExpectedPrice: dec("1"), TradeMode: models.TradeModeSpot},
	} {
		_, err := CreateTrade(db, in)
		require.NoError(t, err)
	}

	trades, total, err := ListTrades(db, TradeFilter{UserID: &user.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, trades, 2)

	trades, total, err = ListTrades(db, TradeFilter{TradeType: "sell"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, trades, 1)
	assert.Equal(t, models.TradeModeSwap, trades[0].TradeMode)
}
