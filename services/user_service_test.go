package services

import (
	"context"
	"testing"
	"time"

	"github.com/Danibruno18/credix/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewUserService(db, FixedClock{At: testNow})

	user, err := svc.Register(ctx, RegisterRequest{Email: " Ana@Example.com ", FullName: "Ana Souza", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Zero(t, user.TotalBalance)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	_, err = svc.Register(ctx, RegisterRequest{Email: "ANA@example.com", FullName: "Ana Again", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(ctx, RegisterRequest{Email: "bad", FullName: "Ana", Password: "secret1"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Register(ctx, RegisterRequest{Email: "b@example.com", FullName: "Bo", Password: "secret1"})
	assert.ErrorIs(t, err, ErrValidation, "full name too short")
	_, err = svc.Register(ctx, RegisterRequest{Email: "c@example.com", FullName: "Carla", Password: "12345"})
	assert.ErrorIs(t, err, ErrValidation, "password too short")

	logged, err := svc.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotNil(t, logged.LastLogin)
	assert.True(t, testNow.Equal(*logged.LastLogin))

	_, err = svc.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, db.SetUserActive(ctx, user.ID, false))
	_, err = svc.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUserInactive)
	_, err = svc.GetActiveUser(ctx, user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestTokenService(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "ana@example.com"}
	issuer := NewTokenService("secret", 1, FixedClock{At: testNow})

	token, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)
	assert.Same(t, user, token.User)

	claims, err := issuer.Parse(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "ana@example.com", claims.Email)

	later := NewTokenService("secret", 1, FixedClock{At: testNow.Add(2 * time.Hour)})
	_, err = later.Parse(token.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)

	forged := NewTokenService("other-secret", 1, FixedClock{At: testNow})
	_, err = forged.Parse(token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
