package utils

import (
	"sync"
	"time"
)

// Metrics содержит метрики приложения
type Metrics struct {
	mu sync.RWMutex

	// Метрики запросов
	TotalRequests   int64
	FailedRequests  int64
	RequestLatency  time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time

	// Метрики журнала
	TransactionsCreated int64
	TransactionsUpdated int64
	TransactionsDeleted int64
	BalanceAdjustments  int64
	LastLedgerMutation  time.Time

	// Метрики сверки баланса
	ReconcileRuns    int64
	DriftsCorrected  int64
	LastReconcileRun time.Time

	// Метрики ошибок
	ErrorCount    int64
	LastErrorTime time.Time
	ErrorTypes    map[string]int64
}

var (
	metrics     *Metrics
	metricsOnce sync.Once
)

// GetMetrics возвращает экземпляр метрик
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = NewMetrics()
	})
	return metrics
}

// NewMetrics создает независимый набор метрик
func NewMetrics() *Metrics {
	return &Metrics{
		ErrorTypes: make(map[string]int64),
	}
}

// RecordRequest записывает метрики запроса. Запрос считается неудачным при status >= 500.
func (m *Metrics) RecordRequest(duration time.Duration, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests++
	m.RequestLatency += duration
	m.AverageLatency = m.RequestLatency / time.Duration(m.TotalRequests)
	m.LastRequestTime = time.Now()

	if status >= 500 {
		m.FailedRequests++
	}
}

// RecordLedgerMutation записывает метрики изменения журнала.
// adjusted показывает, был ли изменен баланс пользователя.
func (m *Metrics) RecordLedgerMutation(operation string, adjusted bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.recordErrorLocked(operation + ": " + err.Error())
		return
	}

	m.LastLedgerMutation = time.Now()
	switch operation {
	case "create":
		m.TransactionsCreated++
	case "update":
		m.TransactionsUpdated++
	case "delete":
		m.TransactionsDeleted++
	}
	if adjusted {
		m.BalanceAdjustments++
	}
}

// RecordReconcile записывает результат сверки баланса
func (m *Metrics) RecordReconcile(corrected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ReconcileRuns++
	m.LastReconcileRun = time.Now()
	if corrected {
		m.DriftsCorrected++
	}
}

// RecordError записывает метрики ошибки
func (m *Metrics) RecordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	errorType := "unknown"
	if err != nil {
		errorType = err.Error()
	}
	m.recordErrorLocked(errorType)
}

func (m *Metrics) recordErrorLocked(errorType string) {
	m.ErrorCount++
	m.LastErrorTime = time.Now()
	m.ErrorTypes[errorType]++
}

// GetMetricsSnapshot возвращает снимок текущих метрик
func (m *Metrics) GetMetricsSnapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	errorTypes := make(map[string]int64, len(m.ErrorTypes))
	for k, v := range m.ErrorTypes {
		errorTypes[k] = v
	}

	return map[string]interface{}{
		"total_requests":       m.TotalRequests,
		"failed_requests":      m.FailedRequests,
		"average_latency_ms":   m.AverageLatency.Milliseconds(),
		"transactions_created": m.TransactionsCreated,
		"transactions_updated": m.TransactionsUpdated,
		"transactions_deleted": m.TransactionsDeleted,
		"balance_adjustments":  m.BalanceAdjustments,
		"reconcile_runs":       m.ReconcileRuns,
		"drifts_corrected":     m.DriftsCorrected,
		"error_count":          m.ErrorCount,
		"last_error_time":      m.LastErrorTime,
		"error_types":          errorTypes,
	}
}

// ResetMetrics сбрасывает все метрики
func (m *Metrics) ResetMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests = 0
	m.FailedRequests = 0
	m.RequestLatency = 0
	m.AverageLatency = 0
	m.TransactionsCreated = 0
	m.TransactionsUpdated = 0
	m.TransactionsDeleted = 0
	m.BalanceAdjustments = 0
	m.ReconcileRuns = 0
	m.DriftsCorrected = 0
	m.ErrorCount = 0
	m.ErrorTypes = make(map[string]int64)
}
