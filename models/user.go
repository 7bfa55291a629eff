package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User владелец категорий и транзакций.
// TotalBalance кешируемое значение: сумма эффектов всех активных транзакций.
type User struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Email        string     `gorm:"column:email;uniqueIndex;not null;size:100" json:"email"`
	FullName     string     `gorm:"column:full_name;not null;size:100" json:"full_name"`
	PasswordHash string     `gorm:"column:password_hash;not null;size:100" json:"-"`
	TotalBalance float64    `gorm:"column:total_balance;type:decimal(20,2);not null;default:0" json:"total_balance"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	LastLogin    *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate хук для валидации перед созданием
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.TrimSpace(u.Email)
	if len(u.Email) < 3 || len(u.Email) > 100 {
		return errors.New("email must be between 3 and 100 characters")
	}
	if len(u.FullName) < 3 || len(u.FullName) > 100 {
		return errors.New("full name must be between 3 and 100 characters")
	}
	return nil
}
