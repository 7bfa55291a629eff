package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionType определяет направление движения средств
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Transaction запись журнала. Amount всегда > 0, знак определяется типом.
type Transaction struct {
	ID              string          `gorm:"primaryKey;size:36" json:"id"`
	UserID          string          `gorm:"column:user_id;not null;size:36;index:idx_transactions_user_date,priority:1" json:"user_id"`
	CategoryID      *string         `gorm:"column:category_id;size:36;index" json:"category_id"`
	Amount          float64         `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	Description     string          `gorm:"column:description;not null;size:255" json:"description"`
	Type            TransactionType `gorm:"column:type;type:varchar(20);not null" json:"type"`
	TransactionDate time.Time       `gorm:"column:transaction_date;not null;index:idx_transactions_user_date,priority:2" json:"transaction_date"`
	Notes           *string         `gorm:"column:notes" json:"notes"`
	IsActive        bool            `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt       time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
