package services

import (
	"time"

	"gastor/internal/models"
	"gastor/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, email, password string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(username, password string) (*models.User, error)
	StoreRefreshTokenHash(userID string, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	GetAccountByUserID(userID string) (*models.Account, error)
	GetBalance(userID string) (int64, error)
	Deposit(userID string, amount int64) (*models.Account, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	RenameCategory(userID, categoryID, name string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// ExpensePatch holds the optional fields of an expense update.
// Nil fields are left unchanged.
type ExpensePatch struct {
	Amount      *int64
	CategoryRef *string
	Description *string
	Label       *string
	Date        *time.Time
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	CategoryID *string
	FromDate   *time.Time
	ToDate     *time.Time
}

// LedgerServicer defines the contract for expense mutations and the
// paired account-balance and category-total adjustments.
type LedgerServicer interface {
	CreateExpense(userID, categoryRef string, amount int64, description, label string, date time.Time) (*models.Expense, error)
	UpdateExpense(userID, expenseID string, patch ExpensePatch) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
}

// ExportServicer defines the contract for expense exports.
type ExportServicer interface {
	ExportExpensesXLSX(userID string, from, to time.Time) ([]byte, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
