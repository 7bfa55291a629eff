package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Danibruno18/credix/database"
	"github.com/Danibruno18/credix/models"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *database.Database {
	t.Helper()

	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())

	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *database.Database, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		FullName:     "Test User",
		PasswordHash: "x",
		IsActive:     true,
		CreatedAt:    testNow,
	}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

func createTestCategory(t *testing.T, db *database.Database, userID, name string) *models.Category {
	t.Helper()

	category := &models.Category{UserID: userID, Name: name, IsActive: true, CreatedAt: testNow}
	require.NoError(t, db.CreateCategory(context.Background(), category))
	return category
}

func balanceOf(t *testing.T, db *database.Database, userID string) float64 {
	t.Helper()

	user, err := db.FindUserByID(context.Background(), userID)
	require.NoError(t, err)
	return user.TotalBalance
}

// recordingPublisher запоминает опубликованные события
type recordingPublisher struct {
	mu     sync.Mutex
	events []LedgerEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

// recordingNotifier запоминает уведомления о бюджете
type recordingNotifier struct {
	mu     sync.Mutex
	alerts []BudgetAlert
}

func (n *recordingNotifier) SendBudgetAlert(a BudgetAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, a)
	return nil
}

func (n *recordingNotifier) sent() []BudgetAlert {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]BudgetAlert(nil), n.alerts...)
}

// blockingNotifier не возвращается из отправки, пока не закрыт release
type blockingNotifier struct {
	release chan struct{}
}

func (n *blockingNotifier) SendBudgetAlert(BudgetAlert) error {
	<-n.release
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
