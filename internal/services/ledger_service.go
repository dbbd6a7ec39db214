package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "gastor/internal/errors"
	"gastor/internal/models"
	"gastor/internal/pagination"
)

// DependencyChecker reports whether other records still reference the
// given expense, blocking its deletion. A nil checker means no dependents.
type DependencyChecker func(tx *gorm.DB, expenseID string) (bool, error)

// ledgerService is the only path that mutates account balances and
// category totals. Every expense mutation and its compensating
// adjustments run inside one database transaction: all effects commit
// together or none do.
type ledgerService struct {
	db            *gorm.DB
	hasDependents DependencyChecker
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB, hasDependents DependencyChecker) LedgerServicer {
	return &ledgerService{db: db, hasDependents: hasDependents}
}

// CreateExpense records a new expense in the given category, adds its
// amount to the category total, and debits the account balance.
func (s *ledgerService) CreateExpense(userID, categoryRef string, amount int64, description, label string, date time.Time) (*models.Expense, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if date.IsZero() {
		date = time.Now()
	}

	var result *models.Expense
	err := s.db.Transaction(func(tx *gorm.DB) error {
		category, err := lookupCategory(tx, categoryRef, userID)
		if err != nil {
			return err
		}

		expense := &models.Expense{
			CategoryID:  category.ID,
			Description: description,
			Label:       label,
			Amount:      amount,
			Date:        date,
		}
		if err := tx.Create(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := adjustCategoryTotal(tx, category.ID, amount); err != nil {
			return err
		}
		if err := adjustAccountBalance(tx, userID, -amount); err != nil {
			return err
		}

		result = expense
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateExpense applies a partial update to an expense. The account is
// debited by the net amount change only; moving an expense between
// categories shifts the amount between the two totals without touching
// the balance.
func (s *ledgerService) UpdateExpense(userID, expenseID string, patch ExpensePatch) (*models.Expense, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if patch.Amount != nil && *patch.Amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	var result *models.Expense
	err := s.db.Transaction(func(tx *gorm.DB) error {
		expense, category, err := authorizeExpense(tx, expenseID, userID)
		if err != nil {
			return err
		}

		newAmount := expense.Amount
		if patch.Amount != nil {
			newAmount = *patch.Amount
		}
		deltaAmount := newAmount - expense.Amount

		newCategory := category
		if patch.CategoryRef != nil {
			newCategory, err = lookupCategory(tx, *patch.CategoryRef, userID)
			if err != nil {
				return err
			}
		}

		if newCategory.ID != category.ID {
			// Category changed: move the full amount between totals.
			if err := adjustCategoryTotal(tx, category.ID, -expense.Amount); err != nil {
				return err
			}
			if err := adjustCategoryTotal(tx, newCategory.ID, newAmount); err != nil {
				return err
			}
		} else if deltaAmount != 0 {
			if err := adjustCategoryTotal(tx, category.ID, deltaAmount); err != nil {
				return err
			}
		}

		// The account only cares about the net change in spend.
		if deltaAmount != 0 {
			if err := adjustAccountBalance(tx, userID, -deltaAmount); err != nil {
				return err
			}
		}

		updates := map[string]interface{}{
			"amount":      newAmount,
			"category_id": newCategory.ID,
		}
		if patch.Description != nil {
			updates["description"] = *patch.Description
		}
		if patch.Label != nil {
			updates["label"] = *patch.Label
		}
		if patch.Date != nil {
			updates["date"] = *patch.Date
		}
		if err := tx.Model(expense).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		result = expense
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteExpense removes an expense, subtracts its amount from the
// category total, and refunds the account balance. Deletion is refused
// while other records still reference the expense.
func (s *ledgerService) DeleteExpense(userID, expenseID string) error {
	if userID == "" {
		return apperrors.ErrUnauthorized
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		expense, category, err := authorizeExpense(tx, expenseID, userID)
		if err != nil {
			return err
		}

		if s.hasDependents != nil {
			inUse, err := s.hasDependents(tx, expense.ID)
			if err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if inUse {
				return apperrors.ErrExpenseInUse
			}
		}

		if err := tx.Delete(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := adjustCategoryTotal(tx, category.ID, -expense.Amount); err != nil {
			return err
		}
		return adjustAccountBalance(tx, userID, expense.Amount)
	})
}

// GetExpenseByID retrieves an expense, verifying ownership through its category.
func (s *ledgerService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	expense, _, err := authorizeExpense(s.db, expenseID, userID)
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// GetUserExpenses retrieves a paginated, filtered list of the user's expenses
// across all of their categories.
func (s *ledgerService) GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	if filter.CategoryID != nil {
		if _, err := authorizeCategory(s.db, *filter.CategoryID, userID); err != nil {
			return nil, err
		}
	}

	page.Defaults()

	base := s.db.Model(&models.Expense{}).
		Joins("JOIN categories ON categories.id = expenses.category_id").
		Where("categories.user_id = ?", userID)
	base = applyExpenseFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Scopes(pagination.Paginate(page)).
		Order("expenses.date DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyExpenseFilters(q *gorm.DB, f ExpenseFilter) *gorm.DB {
	if f.CategoryID != nil {
		q = q.Where("expenses.category_id = ?", *f.CategoryID)
	}
	if f.FromDate != nil {
		q = q.Where("expenses.date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("expenses.date <= ?", *f.ToDate)
	}
	return q
}

// adjustCategoryTotal applies a delta to a category's running total as a
// single atomic UPDATE expression, so concurrent reconciliations cannot
// interleave a read-modify-write of the same total.
func adjustCategoryTotal(tx *gorm.DB, categoryID string, delta int64) error {
	res := tx.Model(&models.Category{}).
		Where("id = ?", categoryID).
		Update("total", gorm.Expr("total + ?", delta))
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

// adjustAccountBalance applies a delta to the user's account balance,
// atomically for the same reason as adjustCategoryTotal.
func adjustAccountBalance(tx *gorm.DB, userID string, delta int64) error {
	res := tx.Model(&models.Account{}).
		Where("user_id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// CountCategoryExpenses returns the number of live expenses referencing a
// category. Used by the category deletion guard.
func CountCategoryExpenses(tx *gorm.DB, categoryID string) (int64, error) {
	var count int64
	if err := tx.Model(&models.Expense{}).Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}
