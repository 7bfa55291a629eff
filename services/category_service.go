package services

import (
	"context"
	"fmt"

	"github.com/Danibruno18/credix/database"
	"github.com/Danibruno18/credix/models"
	"github.com/Danibruno18/credix/utils"
	"github.com/go-playground/validator/v10"
)

// CreateCategoryRequest представляет данные для создания категории
type CreateCategoryRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=100"`
	Description *string  `json:"description" validate:"omitnil,max=255"`
	Icon        *string  `json:"icon" validate:"omitnil,max=50"`
	BudgetLimit *float64 `json:"budget_limit" validate:"omitnil,gt=0,cents"`
}

// UpdateCategoryRequest частичное обновление категории, nil = без изменений
type UpdateCategoryRequest struct {
	Name        *string  `json:"name" validate:"omitnil,min=1,max=100"`
	Description *string  `json:"description" validate:"omitnil,max=255"`
	Icon        *string  `json:"icon" validate:"omitnil,max=50"`
	BudgetLimit *float64 `json:"budget_limit" validate:"omitnil,gt=0,cents"`
}

// ListCategoriesRequest пагинация и фильтр по статусу
type ListCategoriesRequest struct {
	Page     int  `validate:"gte=1"`
	PageSize int  `validate:"gte=1,max=100"`
	IsActive bool
}

// CategoryService управляет категориями пользователя
type CategoryService struct {
	db        *database.Database
	validator *validator.Validate
	clock     Clock
}

// NewCategoryService создает новый экземпляр CategoryService
func NewCategoryService(db *database.Database, clock Clock) *CategoryService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &CategoryService{db: db, validator: newValidator(), clock: clock}
}

// Create создает категорию
func (s *CategoryService) Create(ctx context.Context, userID string, req CreateCategoryRequest) (*models.Category, error) {
	if err := validateDTO(s.validator, req); err != nil {
		return nil, err
	}

	category := &models.Category{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		BudgetLimit: req.BudgetLimit,
		IsActive:    true,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.db.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	utils.LogInfo("Category created: %s (%s)", category.Name, category.ID)
	return category, nil
}

// List возвращает страницу категорий пользователя
func (s *CategoryService) List(ctx context.Context, userID string, req ListCategoriesRequest) ([]models.Category, error) {
	if err := validateDTO(s.validator, req); err != nil {
		return nil, err
	}

	categories, err := s.db.ListCategories(ctx, userID, req.IsActive, (req.Page-1)*req.PageSize, req.PageSize)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Get возвращает активную категорию пользователя
func (s *CategoryService) Get(ctx context.Context, userID, categoryID string) (*models.Category, error) {
	category, err := s.db.FindActiveCategory(ctx, categoryID, userID)
	if err != nil {
		return nil, lookupError(err, ErrCategoryNotFound, "find category")
	}
	return category, nil
}

// Update изменяет только переданные поля
func (s *CategoryService) Update(ctx context.Context, userID, categoryID string, req UpdateCategoryRequest) (*models.Category, error) {
	if err := validateDTO(s.validator, req); err != nil {
		return nil, err
	}

	var category *models.Category
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		current, err := tx.FindActiveCategory(ctx, categoryID, userID)
		if err != nil {
			return lookupError(err, ErrCategoryNotFound, "find category")
		}

		fields := make(map[string]interface{})
		if req.Name != nil {
			current.Name = *req.Name
			fields["name"] = current.Name
		}
		if req.Description != nil {
			current.Description = req.Description
			fields["description"] = *req.Description
		}
		if req.Icon != nil {
			current.Icon = req.Icon
			fields["icon"] = *req.Icon
		}
		if req.BudgetLimit != nil {
			current.BudgetLimit = req.BudgetLimit
			fields["budget_limit"] = *req.BudgetLimit
		}

		if err := tx.UpdateCategoryFields(ctx, categoryID, userID, fields); err != nil {
			return lookupError(err, ErrCategoryNotFound, "update category")
		}
		category = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Delete мягко удаляет категорию. Транзакции сохраняют ссылку на нее.
func (s *CategoryService) Delete(ctx context.Context, userID, categoryID string) error {
	if err := s.db.DeactivateCategory(ctx, categoryID, userID); err != nil {
		return lookupError(err, ErrCategoryNotFound, "deactivate category")
	}
	utils.LogInfo("Category deleted: %s", categoryID)
	return nil
}
