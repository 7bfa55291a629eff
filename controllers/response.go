package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Danibruno18/credix/services"
	"github.com/Danibruno18/credix/utils"
	"github.com/gin-gonic/gin"
)

// errorStatus переводит доменную ошибку в HTTP статус
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrUserInactive),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrTokenExpired):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError пишет {"detail": ...}. Внутренние ошибки наружу не раскрываются.
func respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		utils.LogError("Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.GetMetrics().RecordError(err)
		c.AbortWithStatusJSON(status, gin.H{"detail": "Internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": err.Error()})
}

func badRequest(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": detail})
}

// userID возвращает ID пользователя, установленный middleware.Auth
func userID(c *gin.Context) string {
	return c.GetString("user_id")
}

// queryInt читает целый параметр запроса; отсутствующий параметр дает def
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("query parameter " + name + " must be an integer")
	}
	return v, nil
}

// optionalQueryInt как queryInt, но отсутствие параметра дает nil
func optionalQueryInt(c *gin.Context, name string) (*int, error) {
	if raw, ok := c.GetQuery(name); !ok || raw == "" {
		return nil, nil
	}
	v, err := queryInt(c, name, 0)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func optionalQueryString(c *gin.Context, name string) *string {
	raw, ok := c.GetQuery(name)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	return &raw
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// optionalQueryTime разбирает ISO-8601 дату; время без зоны считается UTC
func optionalQueryTime(c *gin.Context, name string) (*time.Time, error) {
	raw := optionalQueryString(c, name)
	if raw == nil {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, *raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, errors.New("query parameter " + name + " must be an ISO-8601 date")
}

// optionalQueryBool разбирает true/false; отсутствие параметра дает def
func optionalQueryBool(c *gin.Context, name string, def bool) (bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.New("query parameter " + name + " must be a boolean")
	}
	return v, nil
}
