package services

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	apperrors "gastor/internal/errors"
	"gastor/internal/models"
)

// exportService renders a user's expenses as spreadsheet files.
type exportService struct {
	db *gorm.DB
}

// NewExportService creates a new ExportServicer.
func NewExportService(db *gorm.DB) ExportServicer {
	return &exportService{db: db}
}

// ExportExpensesXLSX writes all of the user's expenses in the given date
// range (inclusive) to an XLSX workbook and returns the encoded bytes.
func (s *exportService) ExportExpensesXLSX(userID string, from, to time.Time) ([]byte, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	q := s.db.Model(&models.Expense{}).
		Joins("JOIN categories ON categories.id = expenses.category_id").
		Where("categories.user_id = ?", userID)
	if !from.IsZero() {
		q = q.Where("expenses.date >= ?", from)
	}
	if !to.IsZero() {
		// Include the whole final day.
		q = q.Where("expenses.date <= ?", to.Add(24*time.Hour-time.Second))
	}

	var expenses []models.Expense
	if err := q.Preload("Category").
		Order("expenses.date DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Expenses"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Date", "Description", "Label", "Category", "Amount"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	for row, expense := range expenses {
		categoryName := ""
		if expense.Category != nil {
			categoryName = expense.Category.Name
		}
		values := []interface{}{
			expense.Date.Format(time.DateOnly),
			expense.Description,
			expense.Label,
			categoryName,
			fmt.Sprintf("%d.%02d", expense.Amount/100, expense.Amount%100),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return buf.Bytes(), nil
}
