package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Danibruno18/credix/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims содержимое access-токена
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AccessToken ответ на успешный вход или регистрацию
type AccessToken struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

// TokenService выпускает и проверяет JWT (HS256)
type TokenService struct {
	secret  []byte
	expires time.Duration
	clock   Clock
}

// NewTokenService создает сервис токенов. expiresIn задается в часах.
func NewTokenService(secret string, expiresIn int, clock Clock) *TokenService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &TokenService{
		secret:  []byte(secret),
		expires: time.Duration(expiresIn) * time.Hour,
		clock:   clock,
	}
}

// Issue создает токен для пользователя
func (s *TokenService) Issue(user *models.User) (*AccessToken, error) {
	now := s.clock.Now()
	claims := &Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expires)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &AccessToken{
		AccessToken: tokenString,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

// Parse проверяет подпись и срок действия, возвращает claims
func (s *TokenService) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
