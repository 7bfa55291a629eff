package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Danibruno18/credix/database"
	"github.com/Danibruno18/credix/models"
	"github.com/Danibruno18/credix/utils"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest представляет данные для создания транзакции
type CreateTransactionRequest struct {
	Amount          float64                `json:"amount" validate:"required,gt=0,cents"`
	Description     string                 `json:"description" validate:"required,min=1"`
	Type            models.TransactionType `json:"type" validate:"required,oneof=income expense transfer"`
	CategoryID      *string                `json:"category_id"`
	TransactionDate *time.Time             `json:"transaction_date"`
	Notes           *string                `json:"notes"`
}

// UpdateTransactionRequest частичное обновление: nil означает "не менять".
// Отсутствующее поле и явный null неразличимы.
type UpdateTransactionRequest struct {
	Amount          *float64                `json:"amount" validate:"omitnil,gt=0,cents"`
	Description     *string                 `json:"description" validate:"omitnil,min=1"`
	Type            *models.TransactionType `json:"type" validate:"omitnil,oneof=income expense transfer"`
	CategoryID      *string                 `json:"category_id"`
	TransactionDate *time.Time              `json:"transaction_date"`
	Notes           *string                 `json:"notes"`
}

// ListTransactionsRequest фильтры и пагинация списка транзакций
type ListTransactionsRequest struct {
	CategoryID *string
	Type       *models.TransactionType `validate:"omitnil,oneof=income expense transfer"`
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int `validate:"gte=1"`
	PageSize   int `validate:"gte=1,max=100"`
}

// TransactionWithCategory транзакция с названием категории для списка
type TransactionWithCategory struct {
	models.Transaction
	CategoryName *string `json:"category_name"`
}

// TransactionService управляет жизненным циклом транзакций и их влиянием на баланс
type TransactionService struct {
	db        *database.Database
	validator *validator.Validate
	clock     Clock
	budgets   *BudgetMonitor
	publisher EventPublisher
}

// NewTransactionService создает новый экземпляр TransactionService
func NewTransactionService(db *database.Database, clock Clock, budgets *BudgetMonitor, publisher EventPublisher) *TransactionService {
	if clock == nil {
		clock = SystemClock{}
	}
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &TransactionService{
		db:        db,
		validator: newValidator(),
		clock:     clock,
		budgets:   budgets,
		publisher: publisher,
	}
}

// Create создает транзакцию и применяет ее эффект к балансу в одной транзакции БД
func (s *TransactionService) Create(ctx context.Context, userID string, req CreateTransactionRequest) (*models.Transaction, error) {
	if err := validateDTO(s.validator, req); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	transaction := &models.Transaction{
		UserID:          userID,
		CategoryID:      nonEmpty(req.CategoryID),
		Amount:          req.Amount,
		Description:     req.Description,
		Type:            req.Type,
		TransactionDate: now,
		Notes:           req.Notes,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.TransactionDate != nil {
		transaction.TransactionDate = req.TransactionDate.UTC()
	}

	adjustment := Adjustment(decimal.Zero, Effect(transaction.Amount, transaction.Type))
	var adjusted bool

	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		if transaction.CategoryID != nil {
			if _, err := tx.FindActiveCategory(ctx, *transaction.CategoryID, userID); err != nil {
				return lookupError(err, ErrCategoryNotFound, "find category")
			}
		}

		// Запись журнала предшествует изменению баланса
		if err := tx.CreateTransaction(ctx, transaction); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}

		var err error
		adjusted, err = ApplyAdjustment(ctx, tx, userID, adjustment)
		return err
	})
	utils.GetMetrics().RecordLedgerMutation("create", adjusted, err)
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Transaction created: %s - %.2f", transaction.Description, transaction.Amount)
	s.afterCommit(ctx, EventTransactionCreated, transaction, adjustment)
	return transaction, nil
}

// Update применяет переданные поля и корректирует баланс на разницу эффектов
func (s *TransactionService) Update(ctx context.Context, userID, transactionID string, req UpdateTransactionRequest) (*models.Transaction, error) {
	if err := validateDTO(s.validator, req); err != nil {
		return nil, err
	}

	var (
		transaction *models.Transaction
		adjustment  decimal.Decimal
		adjusted    bool
	)

	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		current, err := tx.FindActiveTransaction(ctx, transactionID, userID)
		if err != nil {
			return lookupError(err, ErrTransactionNotFound, "find transaction")
		}

		categoryID := nonEmpty(req.CategoryID)
		if categoryID != nil {
			if _, err := tx.FindActiveCategory(ctx, *categoryID, userID); err != nil {
				return lookupError(err, ErrCategoryNotFound, "find category")
			}
		}

		oldEffect := Effect(current.Amount, current.Type)
		fields := make(map[string]interface{})

		if req.Amount != nil {
			current.Amount = *req.Amount
			fields["amount"] = current.Amount
		}
		if req.Description != nil {
			current.Description = *req.Description
			fields["description"] = current.Description
		}
		if req.Type != nil {
			current.Type = *req.Type
			fields["type"] = current.Type
		}
		if categoryID != nil {
			current.CategoryID = categoryID
			fields["category_id"] = *categoryID
		}
		if req.TransactionDate != nil {
			current.TransactionDate = req.TransactionDate.UTC()
			fields["transaction_date"] = current.TransactionDate
		}
		if notes := nonEmpty(req.Notes); notes != nil {
			current.Notes = notes
			fields["notes"] = *notes
		}

		if len(fields) > 0 {
			current.UpdatedAt = s.clock.Now()
			fields["updated_at"] = current.UpdatedAt
			if err := tx.UpdateTransactionFields(ctx, transactionID, userID, fields); err != nil {
				return lookupError(err, ErrTransactionNotFound, "update transaction")
			}
		}

		adjustment = Adjustment(oldEffect, Effect(current.Amount, current.Type))
		adjusted, err = ApplyAdjustment(ctx, tx, userID, adjustment)
		if err != nil {
			return err
		}

		transaction = current
		return nil
	})
	utils.GetMetrics().RecordLedgerMutation("update", adjusted, err)
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Transaction updated: %s (adjustment %s)", transaction.ID, adjustment.StringFixed(2))
	s.afterCommit(ctx, EventTransactionUpdated, transaction, adjustment)
	return transaction, nil
}

// Delete мягко удаляет транзакцию и снимает ее эффект с баланса
func (s *TransactionService) Delete(ctx context.Context, userID, transactionID string) error {
	var (
		transaction *models.Transaction
		adjustment  decimal.Decimal
		adjusted    bool
	)

	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		current, err := tx.FindActiveTransaction(ctx, transactionID, userID)
		if err != nil {
			return lookupError(err, ErrTransactionNotFound, "find transaction")
		}

		if err := tx.DeactivateTransaction(ctx, transactionID, userID); err != nil {
			return lookupError(err, ErrTransactionNotFound, "deactivate transaction")
		}
		current.IsActive = false

		adjustment = Adjustment(Effect(current.Amount, current.Type), decimal.Zero)
		adjusted, err = ApplyAdjustment(ctx, tx, userID, adjustment)
		if err != nil {
			return err
		}

		transaction = current
		return nil
	})
	utils.GetMetrics().RecordLedgerMutation("delete", adjusted, err)
	if err != nil {
		return err
	}

	utils.LogInfo("Transaction deleted: %s", transactionID)
	publishBestEffort(ctx, s.publisher, s.event(EventTransactionDeleted, transaction, adjustment))
	return nil
}

// List возвращает активные транзакции пользователя с названиями категорий
func (s *TransactionService) List(ctx context.Context, userID string, req ListTransactionsRequest) ([]TransactionWithCategory, error) {
	if err := validateDTO(s.validator, req); err != nil {
		return nil, err
	}

	transactions, err := s.db.ListTransactions(ctx, database.TransactionFilter{
		UserID:     userID,
		CategoryID: nonEmpty(req.CategoryID),
		Type:       req.Type,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Offset:     (req.Page - 1) * req.PageSize,
		Limit:      req.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	var categoryIDs []string
	seen := make(map[string]bool)
	for _, t := range transactions {
		if t.CategoryID != nil && !seen[*t.CategoryID] {
			seen[*t.CategoryID] = true
			categoryIDs = append(categoryIDs, *t.CategoryID)
		}
	}

	names := map[string]string{}
	if len(categoryIDs) > 0 {
		names, err = s.db.ActiveCategoryNames(ctx, userID, categoryIDs)
		if err != nil {
			return nil, fmt.Errorf("load category names: %w", err)
		}
	}

	result := make([]TransactionWithCategory, 0, len(transactions))
	for _, t := range transactions {
		item := TransactionWithCategory{Transaction: t}
		if t.CategoryID != nil {
			if name, ok := names[*t.CategoryID]; ok {
				item.CategoryName = &name
			}
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *TransactionService) afterCommit(ctx context.Context, eventType string, t *models.Transaction, adjustment decimal.Decimal) {
	s.budgets.Check(ctx, t)
	publishBestEffort(ctx, s.publisher, s.event(eventType, t, adjustment))
}

func (s *TransactionService) event(eventType string, t *models.Transaction, adjustment decimal.Decimal) LedgerEvent {
	return LedgerEvent{
		Type:            eventType,
		TransactionID:   t.ID,
		UserID:          t.UserID,
		TransactionType: t.Type,
		Amount:          t.Amount,
		Adjustment:      adjustment.InexactFloat64(),
		OccurredAt:      s.clock.Now(),
	}
}

// lookupError переводит database.ErrNotFound в доменную ошибку
func lookupError(err error, notFound error, op string) error {
	if errors.Is(err, database.ErrNotFound) {
		return notFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// nonEmpty трактует пустую строку как отсутствие значения
func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}
