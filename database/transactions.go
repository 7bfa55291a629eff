package database

import (
	"context"
	"time"

	"github.com/Danibruno18/credix/models"
	"github.com/shopspring/decimal"
)

// TransactionFilter параметры выборки активных транзакций пользователя
type TransactionFilter struct {
	UserID     string
	CategoryID *string
	Type       *models.TransactionType
	StartDate  *time.Time // включительно
	EndDate    *time.Time // включительно
	Offset     int
	Limit      int
}

// Методы для работы с транзакциями

func (d *Database) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	return d.conn(ctx).Create(transaction).Error
}

// FindActiveTransaction ищет транзакцию по (id, user_id, is_active=true).
// Чужая и удаленная транзакции неразличимы: обе дают ErrNotFound.
func (d *Database) FindActiveTransaction(ctx context.Context, id, userID string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := d.conn(ctx).
		Where("id = ? AND user_id = ? AND is_active = ?", id, userID, true).
		First(&transaction).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &transaction, nil
}

// ListTransactions возвращает страницу активных транзакций, новые первыми
func (d *Database) ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, error) {
	q := d.conn(ctx).Where("user_id = ? AND is_active = ?", f.UserID, true)
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.StartDate != nil {
		q = q.Where("transaction_date >= ?", f.StartDate.UTC())
	}
	if f.EndDate != nil {
		q = q.Where("transaction_date <= ?", f.EndDate.UTC())
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	transactions := []models.Transaction{}
	err := q.Order("transaction_date DESC").Offset(f.Offset).Find(&transactions).Error
	return transactions, err
}

// ActiveTransactionsInWindow возвращает активные транзакции с датой в [start, end).
// Если txType не nil, выборка ограничивается этим типом.
func (d *Database) ActiveTransactionsInWindow(ctx context.Context, userID string, start, end time.Time, txType *models.TransactionType) ([]models.Transaction, error) {
	q := d.conn(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Where("transaction_date >= ? AND transaction_date < ?", start.UTC(), end.UTC())
	if txType != nil {
		q = q.Where("type = ?", *txType)
	}

	transactions := []models.Transaction{}
	err := q.Order("transaction_date, created_at, id").Find(&transactions).Error
	return transactions, err
}

// LedgerTotals кешированный баланс и суммы активных транзакций по типам.
// Оба значения читаются одним запросом, то есть из одного снимка данных.
type LedgerTotals struct {
	Stored decimal.Decimal
	ByType map[models.TransactionType]decimal.Decimal
}

type ledgerTotalsRow struct {
	Stored decimal.Decimal
	Type   *string
	Total  decimal.Decimal
}

// ReadLedgerTotals читает total_balance и суммы активных транзакций пользователя одним запросом
func (d *Database) ReadLedgerTotals(ctx context.Context, userID string) (*LedgerTotals, error) {
	var rows []ledgerTotalsRow
	err := d.conn(ctx).Raw(`
		SELECT u.total_balance AS stored, t.type AS type, COALESCE(SUM(t.amount), 0) AS total
		FROM users u
		LEFT JOIN transactions t ON t.user_id = u.id AND t.is_active = ?
		WHERE u.id = ?
		GROUP BY u.total_balance, t.type`, true, userID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	totals := &LedgerTotals{
		Stored: rows[0].Stored,
		ByType: make(map[models.TransactionType]decimal.Decimal, len(rows)),
	}
	for _, r := range rows {
		if r.Type != nil {
			totals.ByType[models.TransactionType(*r.Type)] = r.Total
		}
	}
	return totals, nil
}

// SumCategoryExpenses суммирует активные расходы категории за период [start, end)
func (d *Database) SumCategoryExpenses(ctx context.Context, userID, categoryID string, start, end time.Time) (float64, error) {
	var total float64
	err := d.conn(ctx).Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND category_id = ? AND is_active = ? AND type = ?",
			userID, categoryID, true, models.TransactionTypeExpense).
		Where("transaction_date >= ? AND transaction_date < ?", start.UTC(), end.UTC()).
		Scan(&total).Error
	return total, err
}

// UpdateTransactionFields обновляет переданные поля активной транзакции пользователя
func (d *Database) UpdateTransactionFields(ctx context.Context, id, userID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	res := d.conn(ctx).Model(&models.Transaction{}).
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

// DeactivateTransaction переводит транзакцию в неактивное состояние.
// Повторная деактивация возвращает ErrNotFound, поэтому эффект не снимается дважды.
func (d *Database) DeactivateTransaction(ctx context.Context, id, userID string) error {
	res := d.conn(ctx).Model(&models.Transaction{}).
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
