package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "gastor/internal/errors"
	"gastor/internal/models"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// GetAccountByUserID retrieves the user's single account.
func (s *accountService) GetAccountByUserID(userID string) (*models.Account, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	var account models.Account
	if err := s.db.Where("user_id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// GetBalance returns the current balance of the user's account in cents.
func (s *accountService) GetBalance(userID string) (int64, error) {
	account, err := s.GetAccountByUserID(userID)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// Deposit adds a positive amount to the user's account balance.
func (s *accountService) Deposit(userID string, amount int64) (*models.Account, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return adjustAccountBalance(tx, userID, amount)
	})
	if err != nil {
		return nil, err
	}

	return s.GetAccountByUserID(userID)
}
