package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/Danibruno18/credix/services"
	"github.com/Danibruno18/credix/utils"
	"github.com/gin-gonic/gin"
)

// Auth проверяет bearer-токен и загружает активного пользователя.
// В контекст кладутся user_id, email и user.
func Auth(tokens *services.TokenService, users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "Authorization header is required")
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			unauthorized(c, "Invalid authorization header")
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			unauthorized(c, err.Error())
			return
		}

		user, err := users.GetActiveUser(c.Request.Context(), claims.Subject)
		if err != nil {
			unauthorized(c, services.ErrUserNotFound.Error())
			return
		}

		c.Set("user_id", user.ID)
		c.Set("email", user.Email)
		c.Set("user", user)
		c.Next()
	}
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}

type LoggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *LoggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware логирует запросы административного сервера
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &LoggingResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(lrw, r)

		utils.LogInfo("Admin: %s %s - Status: %d - Duration: %v",
			r.Method,
			r.URL.Path,
			lrw.statusCode,
			time.Since(start),
		)
	})
}

// AdminTokenMiddleware требует заголовок X-Admin-Token. Пустой token закрывает доступ полностью.
func AdminTokenMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Admin-Token")
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
