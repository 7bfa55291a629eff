package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CRUD(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	user := createTestUser(t, db, "cats@example.com")
	other := createTestUser(t, db, "other@example.com")
	svc := NewCategoryService(db, FixedClock{At: testNow})

	created, err := svc.Create(ctx, user.ID, CreateCategoryRequest{Name: "Mercado", Icon: ptr("cart"), BudgetLimit: ptr(500.0)})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsActive)

	_, err = svc.Create(ctx, user.ID, CreateCategoryRequest{Name: ""})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(ctx, user.ID, CreateCategoryRequest{Name: "x", BudgetLimit: ptr(-1.0)})
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := svc.Update(ctx, user.ID, created.ID, UpdateCategoryRequest{Name: ptr("Supermercado")})
	require.NoError(t, err)
	assert.Equal(t, "Supermercado", updated.Name)
	require.NotNil(t, updated.Icon)
	assert.Equal(t, "cart", *updated.Icon, "absent fields are unchanged")

	_, err = svc.Update(ctx, other.ID, created.ID, UpdateCategoryRequest{Name: ptr("Stolen")})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, other.ID, created.ID), ErrCategoryNotFound)

	got, err := svc.Get(ctx, user.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Supermercado", got.Name)

	require.NoError(t, svc.Delete(ctx, user.ID, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, user.ID, created.ID), ErrCategoryNotFound)
	_, err = svc.Get(ctx, user.ID, created.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	_, err = svc.Update(ctx, user.ID, created.ID, UpdateCategoryRequest{})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryService_List(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	user := createTestUser(t, db, "list@example.com")
	svc := NewCategoryService(db, FixedClock{At: testNow})

	for _, name := range []string{"A", "B", "C"} {
		_, err := svc.Create(ctx, user.ID, CreateCategoryRequest{Name: name})
		require.NoError(t, err)
	}
	removed, err := svc.Create(ctx, user.ID, CreateCategoryRequest{Name: "Removed"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, user.ID, removed.ID))

	active, err := svc.List(ctx, user.ID, ListCategoriesRequest{Page: 1, PageSize: 50, IsActive: true})
	require.NoError(t, err)
	assert.Len(t, active, 3)

	inactive, err := svc.List(ctx, user.ID, ListCategoriesRequest{Page: 1, PageSize: 50, IsActive: false})
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, "Removed", inactive[0].Name)

	page, err := svc.List(ctx, user.ID, ListCategoriesRequest{Page: 2, PageSize: 2, IsActive: true})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	_, err = svc.List(ctx, user.ID, ListCategoriesRequest{Page: 1, PageSize: 0, IsActive: true})
	assert.ErrorIs(t, err, ErrValidation)
}
