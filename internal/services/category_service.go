package services

import (
	"gorm.io/gorm"

	apperrors "gastor/internal/errors"
	"gastor/internal/models"
	"gastor/internal/pagination"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category with a zero running total.
// Names are unique per user, compared case-insensitively.
func (s *categoryService) CreateCategory(userID, name string) (*models.Category, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCategory
	}

	category := &models.Category{
		UserID: userID,
		Name:   name,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetUserCategories retrieves a paginated list of categories for a user.
func (s *categoryService) GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Category{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Scopes(pagination.Paginate(page)).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID retrieves a category, verifying ownership.
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	return authorizeCategory(s.db, categoryID, userID)
}

// RenameCategory changes a category's name, re-checking per-user uniqueness.
func (s *categoryService) RenameCategory(userID, categoryID, name string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	var result *models.Category
	err := s.db.Transaction(func(tx *gorm.DB) error {
		category, err := authorizeCategory(tx, categoryID, userID)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Category{}).
			Where("user_id = ? AND LOWER(name) = LOWER(?) AND id <> ?", userID, name, categoryID).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrDuplicateCategory
		}

		if err := tx.Model(category).Update("name", name).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		result = category
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteCategory deletes a category. Deletion is refused while any expense
// still references the category; there is no cascade.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		category, err := authorizeCategory(tx, categoryID, userID)
		if err != nil {
			return err
		}

		count, err := CountCategoryExpenses(tx, categoryID)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperrors.ErrCategoryHasExpenses
		}

		if err := tx.Delete(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
