package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Danibruno18/credix/database"
	"github.com/Danibruno18/credix/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeBalanceStore struct {
	calls []float64
	err   error
}

func (s *fakeBalanceStore) IncrementUserBalance(_ context.Context, _ string, delta float64) error {
	if s.err != nil {
		return s.err
	}
	s.calls = append(s.calls, delta)
	return nil
}

func TestEffect(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		txType models.TransactionType
		want   string
	}{
		{"income is positive", 100.50, models.TransactionTypeIncome, "100.5"},
		{"expense is negative", 50.25, models.TransactionTypeExpense, "-50.25"},
		{"transfer is neutral", 999, models.TransactionTypeTransfer, "0"},
		{"unknown type is neutral", 10, models.TransactionType("bogus"), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Effect(tt.amount, tt.txType).String())
		})
	}
}

func TestAdjustment(t *testing.T) {
	income := Effect(100, models.TransactionTypeIncome)
	expense := Effect(30, models.TransactionTypeExpense)

	assert.True(t, Adjustment(decimal.Zero, income).Equal(decimal.NewFromInt(100)), "create")
	assert.True(t, Adjustment(income, decimal.Zero).Equal(decimal.NewFromInt(-100)), "delete")
	assert.True(t, Adjustment(income, expense).Equal(decimal.NewFromInt(-130)), "income -> expense")
	assert.True(t, Adjustment(income, income).IsZero(), "unchanged")
}

func TestApplyAdjustment(t *testing.T) {
	ctx := context.Background()

	t.Run("zero adjustment is skipped", func(t *testing.T) {
		store := &fakeBalanceStore{}
		adjusted, err := ApplyAdjustment(ctx, store, "u1", decimal.Zero)
		require.NoError(t, err)
		assert.False(t, adjusted)
		assert.Empty(t, store.calls)
	})

	t.Run("non-zero adjustment increments once", func(t *testing.T) {
		store := &fakeBalanceStore{}
		adjusted, err := ApplyAdjustment(ctx, store, "u1", decimal.RequireFromString("-50.25"))
		require.NoError(t, err)
		assert.True(t, adjusted)
		assert.Equal(t, []float64{-50.25}, store.calls)
	})

	t.Run("store error is wrapped", func(t *testing.T) {
		storeErr := errors.New("boom")
		store := &fakeBalanceStore{err: storeErr}
		adjusted, err := ApplyAdjustment(ctx, store, "u1", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, storeErr)
		assert.False(t, adjusted)
	})
}

func TestBalanceReconciler_CorrectsDrift(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	user := createTestUser(t, db, "drift@example.com")

	svc := NewTransactionService(db, FixedClock{At: testNow}, nil, nil)
	_, err := svc.Create(ctx, user.ID, CreateTransactionRequest{Amount: 200, Description: "salary", Type: models.TransactionTypeIncome})
	require.NoError(t, err)
	_, err = svc.Create(ctx, user.ID, CreateTransactionRequest{Amount: 75.5, Description: "food", Type: models.TransactionTypeExpense})
	require.NoError(t, err)

	// Искусственное расхождение
	require.NoError(t, db.IncrementUserBalance(ctx, user.ID, 10))
	require.InDelta(t, 134.5, balanceOf(t, db, user.ID), 0.001)

	reconciler := NewBalanceReconciler(db)
	result, err := reconciler.Reconcile(ctx, user.ID)
	require.NoError(t, err)

	assert.True(t, result.Corrected)
	assert.InDelta(t, 134.5, result.Stored, 0.001)
	assert.InDelta(t, 124.5, result.Computed, 0.001)
	assert.InDelta(t, -10, result.Drift, 0.001)
	assert.InDelta(t, 124.5, balanceOf(t, db, user.ID), 0.001)

	// Повторная сверка ничего не меняет
	result, err = reconciler.Reconcile(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, result.Corrected)
	assert.Zero(t, result.Drift)
}

func TestBalanceReconciler_MutationCommittedDuringReconcile(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	user := createTestUser(t, db, "interleave@example.com")

	// Сразу после чтения строки пользователя в журнал попадает доход 100 вместе с
	// инкрементом баланса, как если бы параллельная транзакция успела зафиксироваться
	fired := false
	require.NoError(t, db.DB.Callback().Query().After("gorm:query").Register("test:interleaved_income", func(g *gorm.DB) {
		if fired || g.Statement.Table != "users" {
			return
		}
		fired = true

		tx := &database.Database{DB: g.Session(&gorm.Session{NewDB: true})}
		income := &models.Transaction{
			UserID: user.ID, Amount: 100, Description: "salary", Type: models.TransactionTypeIncome,
			TransactionDate: testNow, IsActive: true, CreatedAt: testNow, UpdatedAt: testNow,
		}
		if err := tx.CreateTransaction(ctx, income); err != nil {
			g.AddError(err)
			return
		}
		if err := tx.IncrementUserBalance(ctx, user.ID, 100); err != nil {
			g.AddError(err)
		}
	}))

	result, err := NewBalanceReconciler(db).Reconcile(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, fired)

	assert.False(t, result.Corrected)
	assert.InDelta(t, 100, result.Stored, 0.001)
	assert.InDelta(t, 100, result.Computed, 0.001)
	assert.InDelta(t, 100, balanceOf(t, db, user.ID), 0.001, "the concurrent adjustment is counted once")
}

func TestBalanceReconciler_UnknownUser(t *testing.T) {
	db := setupTestDB(t)

	_, err := NewBalanceReconciler(db).Reconcile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestBalanceReconciler_ReconcileAll(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	a := createTestUser(t, db, "a@example.com")
	b := createTestUser(t, db, "b@example.com")

	require.NoError(t, db.IncrementUserBalance(ctx, a.ID, 5))

	results, err := NewBalanceReconciler(db).ReconcileAll(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byUser := map[string]ReconcileResult{}
	for _, r := range results {
		byUser[r.UserID] = r
	}
	assert.True(t, byUser[a.ID].Corrected)
	assert.False(t, byUser[b.ID].Corrected)
	assert.Zero(t, balanceOf(t, db, a.ID))
}

func TestBalanceAuditScheduler_RunOnce(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	user := createTestUser(t, db, "audit@example.com")
	require.NoError(t, db.IncrementUserBalance(ctx, user.ID, -3.5))

	scheduler := NewBalanceAuditScheduler(NewBalanceReconciler(db), 0)
	assert.Equal(t, 1, scheduler.RunOnce(ctx))
	assert.Equal(t, 0, scheduler.RunOnce(ctx))

	// Нулевой интервал: Start возвращается сразу
	scheduler.Start(ctx)
}
