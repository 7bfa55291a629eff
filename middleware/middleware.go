package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Danibruno18/credix/utils"
	"github.com/gin-gonic/gin"
)

// RateLimit middleware для ограничения частоты запросов по IP
func RateLimit(limiter *utils.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		if !limiter.Allow(clientIP) {
			reset := limiter.ResetAt(clientIP)
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"detail": "Too many requests",
			})
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(clientIP)))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(limiter.ResetAt(clientIP).Unix(), 10))
		c.Next()
	}
}

// Logger middleware для логирования запросов и сбора метрик
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID, _ = utils.GenerateSecureToken(8)
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		duration := time.Since(startTime)
		status := c.Writer.Status()
		utils.GetMetrics().RecordRequest(duration, status)

		utils.LogInfo("Request %s: %s %s - Status: %d - Duration: %v",
			requestID,
			c.Request.Method,
			c.Request.URL.Path,
			status,
			duration,
		)

		for _, e := range c.Errors {
			utils.LogError("Request %s error: %v", requestID, e)
		}
	}
}

// Recovery middleware для обработки паник
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				utils.LogError("Panic recovered: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"detail": "Internal server error",
				})
			}
		}()

		c.Next()
	}
}

// Timeout ограничивает время обработки запроса через контекст.
// Операции хранилища получают этот контекст и прерываются по истечении.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CORS middleware. "*" в списке разрешает любой origin.
// Allow-Credentials не отправляется: аутентификация идет через bearer-токен, не cookie.
func CORS(origins []string) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowAll || allowed[origin]) {
			if allowAll {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
			c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
			c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
