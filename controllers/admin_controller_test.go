package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Danibruno18/credix/models"
	"github.com/Danibruno18/credix/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminRequest(t *testing.T, router http.Handler, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("X-Admin-Token", token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestAdminRouter(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	db := setupTestDB(t)
	router := NewAdminRouter(cfg, db)

	user := &models.User{Email: "admin-case@example.com", FullName: "Admin Case", PasswordHash: "x", IsActive: true, CreatedAt: testNow, UpdatedAt: testNow}
	require.NoError(t, db.CreateUser(ctx, user))

	transactions := services.NewTransactionService(db, services.FixedClock{At: testNow}, nil, nil)
	_, err := transactions.Create(ctx, user.ID, services.CreateTransactionRequest{Amount: 100, Description: "Salary", Type: models.TransactionTypeIncome})
	require.NoError(t, err)

	// Искусственное расхождение кешированного баланса
	require.NoError(t, db.IncrementUserBalance(ctx, user.ID, 25))

	rr := adminRequest(t, router, "GET", "/admin/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = adminRequest(t, router, "GET", "/admin/metrics", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = adminRequest(t, router, "GET", "/admin/metrics", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = adminRequest(t, router, "GET", "/admin/metrics", cfg.Admin.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = adminRequest(t, router, "POST", "/admin/users/missing/reconcile", cfg.Admin.Token)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = adminRequest(t, router, "POST", "/admin/users/"+user.ID+"/reconcile", cfg.Admin.Token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result services.ReconcileResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.True(t, result.Corrected)
	assert.InDelta(t, 125, result.Stored, 0.0001)
	assert.InDelta(t, 100, result.Computed, 0.0001)

	stored, err := db.FindActiveUser(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100, stored.TotalBalance, 0.0001)

	rr = adminRequest(t, router, "POST", "/admin/reconcile", cfg.Admin.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	var results []services.ReconcileResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.False(t, results[0].Corrected)
}

func TestAdminRouterWithoutToken(t *testing.T) {
	cfg := testConfig()
	cfg.Admin.Token = ""
	router := NewAdminRouter(cfg, setupTestDB(t))

	rr := adminRequest(t, router, "POST", "/admin/reconcile", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, http.StatusOK, adminRequest(t, router, "GET", "/admin/health", "").Code)
}
