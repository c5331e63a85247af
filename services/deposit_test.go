package services

import (
	"testing"

	"coinvault/ledger"
	"coinvault/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitDepositValidation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "0", false)

	_, err := SubmitDeposit(db, user.ID, dec("0"), "USDT", "", "", nil)
	require.Error(t, err)

	_, err = SubmitDeposit(db, user.ID, dec("10"), "DOGE", "", "", nil)
	require.Error(t, err)

	_, err = SubmitDeposit(db, 9999, dec("10"), "USDT", "", "", nil)
	require.ErrorIs(t, err, ledger.ErrNotFound)

	created, err := SubmitDeposit(db, user.ID, dec("10"), "USDT", "TRC20", "https://files/proof.png", nil)
	require.NoError(t, err)
	assert.Equal(t, models.DepositStatusPending, created.Status)
	assert.True(t, balanceOf(t, db, user.ID, "USDT").Equal(dec("0")))
}

func TestAcceptDepositCreditsAndAudits(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "0", false)
	admin := seedAdmin(t, db)

	created, err := SubmitDeposit(db, user.ID, dec("250"), "USDT", "TRC20", "https://files/proof.png", nil)
	require.NoError(t, err)

	accepted, err := UpdateDepositStatus(db, created.ID, admin.ID, models.DepositStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.DepositStatusAccepted, accepted.Status)
	assert.True(t, balanceOf(t, db, user.ID, "USDT").Equal(dec("250")))

	require.NotNil(t, accepted.TransactionID)
	var audit models.Transaction
	require.NoError(t, db.First(&audit, *accepted.TransactionID).Error)
	assert.Equal(t, models.TransactionTypeDeposit, audit.Type)
	assert.True(t, audit.Amount.Equal(dec("250")))

	// already resolved
	_, err = UpdateDepositStatus(db, created.ID, admin.ID, models.DepositStatusAccepted)
	require.ErrorIs(t, err, ledger.ErrNotPending)
	assert.True(t, balanceOf(t, db, user.ID, "USDT").Equal(dec("250")))
}

func TestRejectDepositNoBalanceEffect(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "0", false)
	admin := seedAdmin(t, db)

	created, err := SubmitDeposit(db, user.ID, dec("250"), "USDT", "", "", nil)
	require.NoError(t, err)

	rejected, err := UpdateDepositStatus(db, created.ID, admin.ID, models.DepositStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.DepositStatusRejected, rejected.Status)
	assert.Nil(t, rejected.TransactionID)
	assert.True(t, balanceOf(t, db, user.ID, "USDT").Equal(dec("0")))
}

func TestUpdateDepositStatusRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)

	_, err := UpdateDepositStatus(db, 1, admin.ID, "maybe")
	require.Error(t, err)
}
