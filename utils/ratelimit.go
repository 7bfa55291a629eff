package utils

import (
	"sync"
	"time"
)

// RateLimiter ограничивает число запросов на ключ в скользящем окне
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

// NewRateLimiter создает новый RateLimiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Limit возвращает максимальное число запросов в окне
func (rl *RateLimiter) Limit() int {
	return rl.limit
}

// Allow проверяет, разрешен ли запрос, и учитывает его
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	recent := rl.prune(key, now)
	if len(recent) >= rl.limit {
		return false
	}
	rl.requests[key] = append(recent, now)
	return true
}

// Remaining возвращает количество оставшихся запросов в текущем окне
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	left := rl.limit - len(rl.prune(key, rl.now()))
	if left < 0 {
		return 0
	}
	return left
}

// ResetAt возвращает момент, когда освободится самый старый слот
func (rl *RateLimiter) ResetAt(key string) time.Time {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	recent := rl.prune(key, now)
	if len(recent) == 0 {
		return now
	}
	return recent[0].Add(rl.window)
}

// Reset сбрасывает счетчик для ключа
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.requests, key)
}

// prune удаляет запросы старше окна. Вызывается под rl.mu.
func (rl *RateLimiter) prune(key string, now time.Time) []time.Time {
	windowStart := now.Add(-rl.window)
	requests := rl.requests[key]

	i := 0
	for i < len(requests) && !requests[i].After(windowStart) {
		i++
	}
	recent := requests[i:]
	if len(recent) == 0 {
		delete(rl.requests, key)
		return nil
	}
	rl.requests[key] = recent
	return recent
}
