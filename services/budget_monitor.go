package services

import (
	"context"
	"sync"
	"time"

	"github.com/Danibruno18/credix/database"
	"github.com/Danibruno18/credix/models"
	"github.com/Danibruno18/credix/utils"
)

const alertTimeout = 30 * time.Second

// BudgetMonitor проверяет месячный лимит категории после изменения расхода.
// Уведомления отправляются в фоне и не задерживают ответ на запрос.
type BudgetMonitor struct {
	db       *database.Database
	notifier BudgetNotifier
	timeout  time.Duration
	pending  sync.WaitGroup
}

// NewBudgetMonitor создает новый экземпляр BudgetMonitor. notifier может быть nil.
func NewBudgetMonitor(db *database.Database, notifier BudgetNotifier) *BudgetMonitor {
	return &BudgetMonitor{db: db, notifier: notifier, timeout: alertTimeout}
}

// Wait ждет завершения фоновых отправок уведомлений
func (m *BudgetMonitor) Wait() {
	if m != nil {
		m.pending.Wait()
	}
}

// Check отправляет уведомление, если расходы категории за месяц транзакции превысили лимит.
// Возвращает true, если лимит превышен. Ошибки только логируются.
func (m *BudgetMonitor) Check(ctx context.Context, t *models.Transaction) bool {
	if m == nil || t.Type != models.TransactionTypeExpense || t.CategoryID == nil {
		return false
	}

	category, err := m.db.FindActiveCategory(ctx, *t.CategoryID, t.UserID)
	if err != nil || category.BudgetLimit == nil {
		return false
	}

	date := t.TransactionDate.UTC()
	start, end := MonthWindow(date.Year(), int(date.Month()))
	spent, err := m.db.SumCategoryExpenses(ctx, t.UserID, category.ID, start, end)
	if err != nil {
		utils.LogError("Budget check failed for category %s: %v", category.ID, err)
		return false
	}
	if spent <= *category.BudgetLimit {
		return false
	}

	utils.LogInfo("Budget exceeded for category %s: spent %.2f of %.2f", category.Name, spent, *category.BudgetLimit)
	if m.notifier == nil {
		return true
	}

	user, err := m.db.FindUserByID(ctx, t.UserID)
	if err != nil {
		utils.LogError("Budget alert skipped, user %s not loaded: %v", t.UserID, err)
		return true
	}
	alert := BudgetAlert{
		To:           user.Email,
		FullName:     user.FullName,
		CategoryName: category.Name,
		Limit:        *category.BudgetLimit,
		Spent:        spent,
		Month:        int(date.Month()),
		Year:         date.Year(),
	}
	m.notify(alert)
	return true
}

// notify отправляет уведомление в отдельной горутине. Отправка дольше timeout
// логируется как ошибка; зависший SMTP не блокирует Wait дольше timeout.
func (m *BudgetMonitor) notify(alert BudgetAlert) {
	m.pending.Add(1)
	go func() {
		defer m.pending.Done()

		done := make(chan error, 1)
		go func() { done <- m.notifier.SendBudgetAlert(alert) }()

		timer := time.NewTimer(m.timeout)
		defer timer.Stop()

		select {
		case err := <-done:
			if err != nil {
				utils.LogError("Ошибка отправки уведомления: %v", err)
			}
		case <-timer.C:
			utils.LogError("Budget alert to %s timed out after %v", alert.To, m.timeout)
		}
	}()
}
