package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Danibruno18/credix/database"
	"github.com/Danibruno18/credix/models"
	"github.com/Danibruno18/credix/utils"
	"github.com/go-playground/validator/v10"
)

// UserService отвечает за регистрацию и аутентификацию пользователей
type UserService struct {
	db        *database.Database
	validator *validator.Validate
	clock     Clock
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	FullName string `json:"full_name" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func NewUserService(db *database.Database, clock Clock) *UserService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &UserService{db: db, validator: newValidator(), clock: clock}
}

// Register создает нового пользователя с нулевым балансом
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validateDTO(s.validator, req); err != nil {
		return nil, err
	}

	// Проверяем, существует ли пользователь с таким email
	if _, err := s.db.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &models.User{
		Email:        strings.ToLower(req.Email),
		FullName:     req.FullName,
		PasswordHash: hashedPassword,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	utils.LogInfo("User registered: %s", user.Email)
	return user, nil
}

// Login проверяет пароль и фиксирует время входа
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*models.User, error) {
	if err := validateDTO(s.validator, req); err != nil {
		return nil, err
	}

	user, err := s.db.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !utils.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	now := s.clock.Now()
	if err := s.db.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	user.LastLogin = &now
	return user, nil
}

// GetActiveUser возвращает активного пользователя по ID
func (s *UserService) GetActiveUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.db.FindActiveUser(ctx, id)
	if err != nil {
		return nil, lookupError(err, ErrUserNotFound, "find user")
	}
	return user, nil
}
