package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "gastor/internal/errors"
	"gastor/internal/services"
)

// ExportHandler handles export-related requests.
type ExportHandler struct {
	exportService services.ExportServicer
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService services.ExportServicer) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportExpensesQuery holds query parameters for the expense export.
type ExportExpensesQuery struct {
	From *string `form:"from" binding:"omitempty,dateonly"`
	To   *string `form:"to" binding:"omitempty,dateonly"`
}

// ExportExpensesXLSX streams the user's expenses as an XLSX workbook
// @Summary     Export expenses
// @Description Download the authenticated user's expenses as an XLSX spreadsheet
// @Tags        export
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       from query string false "Start date (YYYY-MM-DD)"
// @Param       to query string false "End date (YYYY-MM-DD)"
// @Success     200 {file} file "XLSX workbook"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /export/expenses.xlsx [get]
func (h *ExportHandler) ExportExpensesXLSX(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ExportExpensesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var from, to time.Time
	if query.From != nil {
		if from, err = parseDateOnly(*query.From); err != nil {
			respondWithError(c, err)
			return
		}
	}
	if query.To != nil {
		if to, err = parseDateOnly(*query.To); err != nil {
			respondWithError(c, err)
			return
		}
	}

	data, err := h.exportService.ExportExpensesXLSX(userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("expenses-%s.xlsx", time.Now().Format(time.DateOnly))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
