package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category категория расходов/доходов пользователя.
// Удаление мягкое: IsActive=false, транзакции сохраняют ссылку.
type Category struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"column:user_id;not null;size:36;index" json:"user_id"`
	Name        string    `gorm:"column:name;not null;size:100" json:"name"`
	Description *string   `gorm:"column:description;size:255" json:"description"`
	Icon        *string   `gorm:"column:icon;size:50" json:"icon"`
	BudgetLimit *float64  `gorm:"column:budget_limit;type:decimal(20,2)" json:"budget_limit"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
