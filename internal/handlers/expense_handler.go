package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "gastor/internal/errors"
	"gastor/internal/events"
	"gastor/internal/logger"
	"gastor/internal/pagination"
	"gastor/internal/services"
)

// EventPublisher publishes expense events to a message broker.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, event *events.ExpenseEvent) error
}

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	ledgerService services.LedgerServicer
	auditService  services.AuditServicer
	publisher     EventPublisher
}

// NewExpenseHandler creates a new ExpenseHandler. The publisher may be nil
// when event publishing is not configured.
func NewExpenseHandler(ledgerService services.LedgerServicer, auditService services.AuditServicer, publisher EventPublisher) *ExpenseHandler {
	return &ExpenseHandler{ledgerService: ledgerService, auditService: auditService, publisher: publisher}
}

// CreateExpenseRequest represents the request payload for creating an expense
type CreateExpenseRequest struct {
	CategoryRef string  `json:"category" binding:"required"`
	Amount      int64   `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description" binding:"required,max=500"`
	Label       string  `json:"label" binding:"max=100"`
	Date        *string `json:"date" binding:"omitempty,dateonly"`
}

// UpdateExpenseRequest represents the request payload for updating an expense.
// All fields are optional; absent fields are left unchanged.
type UpdateExpenseRequest struct {
	CategoryRef *string `json:"category"`
	Amount      *int64  `json:"amount"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Label       *string `json:"label" binding:"omitempty,max=100"`
	Date        *string `json:"date" binding:"omitempty,dateonly"`
}

// ListExpensesQuery holds query parameters for listing expenses.
type ListExpensesQuery struct {
	pagination.PageRequest
	CategoryID *string `form:"category_id"`
	From       *string `form:"from" binding:"omitempty,dateonly"`
	To         *string `form:"to" binding:"omitempty,dateonly"`
}

// publishEvent emits an expense event if a publisher is configured.
// Publish failures are logged, never surfaced to the client.
func (h *ExpenseHandler) publishEvent(c *gin.Context, expenseID, action string) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.PublishExpenseEvent(c.Request.Context(), events.NewExpenseEvent(expenseID, action)); err != nil {
		logger.Get().Warnw("failed to publish expense event",
			"expense_id", expenseID,
			"action", action,
			"error", err,
		)
	}
}

// CreateExpense handles the creation of a new expense
// @Summary     Create an expense
// @Description Record an expense; the category total and account balance are adjusted atomically
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input or amount"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var date time.Time
	if req.Date != nil && *req.Date != "" {
		date, err = parseDateOnly(*req.Date)
		if err != nil {
			respondWithError(c, err)
			return
		}
	}

	expense, err := h.ledgerService.CreateExpense(userID, req.CategoryRef, req.Amount, req.Description, req.Label, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount, "category": req.CategoryRef})
	h.publishEvent(c, expense.ID, events.ActionExpenseCreated)

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetUserExpenses handles the retrieval of the user's expenses
// @Summary     List expenses
// @Description Get a paginated, filterable list of the authenticated user's expenses
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       category_id query string false "Filter by category ID"
// @Param       from query string false "Start date (YYYY-MM-DD)"
// @Param       to query string false "End date (YYYY-MM-DD)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "List of expenses"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetUserExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ListExpensesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.ExpenseFilter{CategoryID: query.CategoryID}
	if query.From != nil {
		from, err := parseDateOnly(*query.From)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.FromDate = &from
	}
	if query.To != nil {
		to, err := parseDateOnly(*query.To)
		if err != nil {
			respondWithError(c, err)
			return
		}
		// Include the whole final day.
		end := to.Add(24*time.Hour - time.Second)
		filter.ToDate = &end
	}

	expenses, err := h.ledgerService.GetUserExpenses(userID, query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// GetExpenseByID handles the retrieval of a specific expense
// @Summary     Get expense by ID
// @Description Get a specific expense by ID
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpenseByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.ledgerService.GetExpenseByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense handles updating an expense
// @Summary     Update expense
// @Description Update an expense's fields; totals and balance are re-reconciled atomically
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to update"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input or amount"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Expense or category not found"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	patch := services.ExpensePatch{
		Amount:      req.Amount,
		CategoryRef: req.CategoryRef,
		Description: req.Description,
		Label:       req.Label,
	}
	if req.Date != nil {
		date, err := parseDateOnly(*req.Date)
		if err != nil {
			respondWithError(c, err)
			return
		}
		patch.Date = &date
	}

	expense, err := h.ledgerService.UpdateExpense(userID, c.Param("id"), patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"amount": expense.Amount, "category_id": expense.CategoryID})
	h.publishEvent(c, expense.ID, events.ActionExpenseUpdated)

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles deleting an expense
// @Summary     Delete expense
// @Description Delete an expense; its amount is refunded to the account balance
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     409 {object} ErrorResponse "Expense is referenced by other records"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID := c.Param("id")
	if err := h.ledgerService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_EXPENSE", "expense", expenseID, c.ClientIP(), nil)
	h.publishEvent(c, expenseID, events.ActionExpenseDeleted)

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
