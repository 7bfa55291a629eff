package database

import (
	"context"

	"github.com/Danibruno18/credix/models"
)

// Методы для работы с категориями

func (d *Database) CreateCategory(ctx context.Context, category *models.Category) error {
	return d.conn(ctx).Create(category).Error
}

// FindActiveCategory ищет активную категорию, принадлежащую пользователю
func (d *Database) FindActiveCategory(ctx context.Context, id, userID string) (*models.Category, error) {
	var category models.Category
	err := d.conn(ctx).
		Where("id = ? AND user_id = ? AND is_active = ?", id, userID, true).
		First(&category).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

// ListCategories возвращает страницу категорий пользователя с заданным статусом
func (d *Database) ListCategories(ctx context.Context, userID string, active bool, offset, limit int) ([]models.Category, error) {
	categories := []models.Category{}
	err := d.conn(ctx).
		Where("user_id = ? AND is_active = ?", userID, active).
		Order("created_at").
		Offset(offset).
		Limit(limit).
		Find(&categories).Error
	return categories, err
}

// UpdateCategoryFields обновляет только переданные поля активной категории
func (d *Database) UpdateCategoryFields(ctx context.Context, id, userID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	res := d.conn(ctx).Model(&models.Category{}).
		Where("id = ? AND user_id = ? AND is_active = ?", id, userID, true).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateCategory помечает категорию удаленной. Транзакции не затрагиваются.
func (d *Database) DeactivateCategory(ctx context.Context, id, userID string) error {
	res := d.conn(ctx).Model(&models.Category{}).
		Where("id = ? AND user_id = ? AND is_active = ?", id, userID, true).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ActiveCategoryNames возвращает id -> name для активных категорий пользователя.
// Если ids не пуст, выборка ограничивается ими.
func (d *Database) ActiveCategoryNames(ctx context.Context, userID string, ids []string) (map[string]string, error) {
	var rows []models.Category
	q := d.conn(ctx).Select("id", "name").Where("user_id = ? AND is_active = ?", userID, true)
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	names := make(map[string]string, len(rows))
	for _, c := range rows {
		names[c.ID] = c.Name
	}
	return names, nil
}
