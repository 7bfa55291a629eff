package services

import (
	"context"
	"fmt"

	"github.com/Danibruno18/credix/database"
	"github.com/Danibruno18/credix/models"
	"github.com/Danibruno18/credix/utils"
	"github.com/shopspring/decimal"
)

// BalanceStore атомарно изменяет кешированный баланс пользователя
type BalanceStore interface {
	IncrementUserBalance(ctx context.Context, userID string, delta float64) error
}

// Effect возвращает знаковый вклад транзакции в баланс:
// income +amount, expense -amount, transfer 0.
func Effect(amount float64, txType models.TransactionType) decimal.Decimal {
	return effect(decimal.NewFromFloat(amount), txType)
}

func effect(amount decimal.Decimal, txType models.TransactionType) decimal.Decimal {
	switch txType {
	case models.TransactionTypeIncome:
		return amount
	case models.TransactionTypeExpense:
		return amount.Neg()
	default:
		return decimal.Zero
	}
}

// Adjustment возвращает изменение баланса при переходе от oldEffect к newEffect.
// Создание: oldEffect = 0. Удаление: newEffect = 0.
func Adjustment(oldEffect, newEffect decimal.Decimal) decimal.Decimal {
	return newEffect.Sub(oldEffect)
}

// ApplyAdjustment применяет корректировку к total_balance атомарным инкрементом.
// Нулевая корректировка не порождает запись; возвращает true, если баланс изменен.
func ApplyAdjustment(ctx context.Context, store BalanceStore, userID string, adjustment decimal.Decimal) (bool, error) {
	if adjustment.IsZero() {
		return false, nil
	}
	if err := store.IncrementUserBalance(ctx, userID, adjustment.InexactFloat64()); err != nil {
		return false, fmt.Errorf("apply balance adjustment: %w", err)
	}
	return true, nil
}

// ReconcileResult результат сверки кешированного баланса с журналом
type ReconcileResult struct {
	UserID    string  `json:"user_id"`
	Stored    float64 `json:"stored_balance"`
	Computed  float64 `json:"computed_balance"`
	Drift     float64 `json:"drift"`
	Corrected bool    `json:"corrected"`
}

// BalanceReconciler пересчитывает total_balance из активных транзакций
type BalanceReconciler struct {
	db *database.Database
}

// NewBalanceReconciler создает новый экземпляр BalanceReconciler
func NewBalanceReconciler(db *database.Database) *BalanceReconciler {
	return &BalanceReconciler{db: db}
}

// Reconcile сравнивает total_balance с суммой эффектов активных транзакций и исправляет расхождение.
// Строка пользователя блокируется на время сверки. Исправление применяется инкрементом на величину расхождения, чтобы не затереть
// корректировки, выполненные параллельно.
func (r *BalanceReconciler) Reconcile(ctx context.Context, userID string) (*ReconcileResult, error) {
	var result *ReconcileResult

	err := r.db.Transaction(ctx, func(tx *database.Database) error {
		// Блокировка строки пользователя ждет незавершенные изменения баланса
		if err := tx.LockUser(ctx, userID); err != nil {
			return lookupError(err, ErrUserNotFound, "lock user")
		}

		// Баланс и журнал читаются одним запросом, иначе изменение между двумя чтениями
		// выглядело бы как расхождение и учитывалось бы дважды
		totals, err := tx.ReadLedgerTotals(ctx, userID)
		if err != nil {
			return lookupError(err, ErrUserNotFound, "read ledger totals")
		}

		computed := decimal.Zero
		for txType, total := range totals.ByType {
			computed = computed.Add(effect(total, txType))
		}

		stored := totals.Stored
		drift := computed.Sub(stored).Round(2)

		result = &ReconcileResult{
			UserID:   userID,
			Stored:   stored.InexactFloat64(),
			Computed: computed.InexactFloat64(),
			Drift:    drift.InexactFloat64(),
		}

		corrected, err := ApplyAdjustment(ctx, tx, userID, drift)
		if err != nil {
			return err
		}
		result.Corrected = corrected
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.GetMetrics().RecordReconcile(result.Corrected)
	if result.Corrected {
		utils.LogInfo("Balance drift corrected for user %s: stored=%.2f computed=%.2f drift=%.2f",
			userID, result.Stored, result.Computed, result.Drift)
	} else {
		utils.LogDebug("Balance consistent for user %s: %.2f", userID, result.Stored)
	}
	return result, nil
}

// ReconcileAll сверяет балансы всех активных пользователей.
// Ошибка по одному пользователю не прерывает проход.
func (r *BalanceReconciler) ReconcileAll(ctx context.Context) ([]ReconcileResult, error) {
	ids, err := r.db.ListActiveUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	results := make([]ReconcileResult, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := r.Reconcile(ctx, id)
		if err != nil {
			utils.LogError("Reconcile failed for user %s: %v", id, err)
			continue
		}
		results = append(results, *res)
	}
	return results, nil
}
