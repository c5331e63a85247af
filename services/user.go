package services

import (
	"fmt"
	"os"
	"time"

	"coinvault/ledger"
	"coinvault/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterUserInput carries a signup. Either email or phone must be set.
type RegisterUserInput struct {
	Email    string
	Phone    string
	Password string
	Role     string
}

// RegisterUser creates the user together with a zeroed balance row for
// every supported currency in one unit, so no account ever exists without
// its full balance set.
func RegisterUser(db *gorm.DB, input RegisterUserInput) (*models.User, error) {
	if input.Email == "" && input.Phone == "" {
		return nil, errors.New("email or phone is required")
	}
	if len(input.Password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		PasswordHash: string(hash),
		Role:         role,
	}
	if input.Email != "" {
		user.Email = &input.Email
	}
	if input.Phone != "" {
		user.Phone = &input.Phone
	}

	err = ledger.Atomic(db, func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(models.SeedBalances(user.ID)).Error
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"uid":     user.UID,
	}).Info("user registered")

	return user, nil
}

// Authenticate verifies credentials and issues a signed JWT.
func Authenticate(db *gorm.DB, identifier, password string) (*models.User, string, error) {
	var user models.User
	err := db.Where("email = ? OR phone = ? OR uid = ?", identifier, identifier, identifier).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", errors.New("invalid credentials")
		}
		return nil, "", errors.Wrap(ledger.ErrPersistence, err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", errors.New("invalid credentials")
	}

	token, err := IssueToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// IssueToken signs a JWT for the user with the configured secret.
func IssueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"uid":  user.UID,
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// SetWithdrawalPassword hashes and stores the withdrawal password.
func SetWithdrawalPassword(db *gorm.DB, userID uint, password string) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	result := db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("withdrawal_password_hash", string(hash))
	if result.Error != nil {
		return errors.Wrap(ledger.ErrPersistence, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// GetUserWithBalances loads a user and their balance rows.
func GetUserWithBalances(db *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	if err := db.Preload("Balances").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrNotFound
		}
		return nil, errors.Wrap(ledger.ErrPersistence, err.Error())
	}
	return &user, nil
}

// ListUsers returns users, optionally filtered by a UID fragment.
func ListUsers(db *gorm.DB, uidFilter string) ([]models.User, error) {
	query := db.Preload("Balances")
	if uidFilter != "" {
		query = query.Where("lower(uid) LIKE lower(?)", "%"+uidFilter+"%")
	}
	var users []models.User
	if err := query.Order("created_at desc").Find(&users).Error; err != nil {
		return nil, errors.Wrap(ledger.ErrPersistence, err.Error())
	}
	return users, nil
}

// SetCanWinSeconds toggles forced wager wins for a user.
func SetCanWinSeconds(db *gorm.DB, userID uint, canWin bool) error {
	result := db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("can_win_seconds", canWin)
	if result.Error != nil {
		return errors.Wrap(ledger.ErrPersistence, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// AdjustUserBalance is an admin correction applied through the balance
// mutator, recorded with a system transaction.
func AdjustUserBalance(db *gorm.DB, userID, adminID uint, currency string, delta decimal.Decimal, note string) (decimal.Decimal, error) {
	var next decimal.Decimal
	err := ledger.Atomic(db, func(tx *gorm.DB) error {
		amount, err := ledger.Adjust(tx, userID, currency, delta)
		if err != nil {
			return err
		}
		now := time.Now()
		audit := &models.Transaction{
			UserID:      userID,
			Type:        models.TransactionTypeSystem,
			Amount:      delta.Abs(),
			Currency:    currency,
			Status:      models.TransactionStatusCompleted,
			Description: fmt.Sprintf("Admin balance adjustment of %s %s", delta, currency),
			AdminNotes:  note,
			ApprovedBy:  &adminID,
			ApprovedAt:  &now,
		}
		if err := tx.Create(audit).Error; err != nil {
			return err
		}
		next = amount
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return next, nil
}

// ListTransactions returns a user's audit records newest first.
func ListTransactions(db *gorm.DB, userID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&transactions).Error
	if err != nil {
		return nil, errors.Wrap(ledger.ErrPersistence, err.Error())
	}
	return transactions, nil
}
