package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "gastor/internal/errors"
	"gastor/internal/models"
	"gastor/internal/uuid"
)

// authorizeCategory loads a category by primary key and verifies it belongs
// to the given user. Absence and foreign ownership are reported as distinct
// failures: CATEGORY_NOT_FOUND and FORBIDDEN.
func authorizeCategory(tx *gorm.DB, categoryID, userID string) (*models.Category, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	var category models.Category
	if err := tx.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if category.UserID != userID {
		return nil, apperrors.ErrForbidden
	}

	return &category, nil
}

// authorizeExpense loads an expense and verifies ownership through its
// current category. Expenses carry no user reference of their own, so the
// category check is the ownership check.
func authorizeExpense(tx *gorm.DB, expenseID, userID string) (*models.Expense, *models.Category, error) {
	if userID == "" {
		return nil, nil, apperrors.ErrUnauthorized
	}

	var expense models.Expense
	if err := tx.Where("id = ?", expenseID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrExpenseNotFound
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	category, err := authorizeCategory(tx, expense.CategoryID, userID)
	if err != nil {
		return nil, nil, err
	}

	return &expense, category, nil
}

// lookupCategory resolves a category reference, which may be a category ID
// or a (case-insensitive) category name scoped to the user, and verifies
// ownership of the result.
func lookupCategory(tx *gorm.DB, ref, userID string) (*models.Category, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	if uuid.IsValid(ref) {
		return authorizeCategory(tx, ref, userID)
	}

	var category models.Category
	if err := tx.Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, ref).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}
