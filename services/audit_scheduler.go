package services

import (
	"context"
	"time"

	"github.com/Danibruno18/credix/utils"
)

// BalanceAuditScheduler периодически сверяет балансы всех пользователей
type BalanceAuditScheduler struct {
	reconciler *BalanceReconciler
	interval   time.Duration
}

// NewBalanceAuditScheduler создает планировщик. interval <= 0 отключает сверку.
func NewBalanceAuditScheduler(reconciler *BalanceReconciler, interval time.Duration) *BalanceAuditScheduler {
	return &BalanceAuditScheduler{
		reconciler: reconciler,
		interval:   interval,
	}
}

// Start запускает сверку по тикеру и блокируется до отмены ctx
func (s *BalanceAuditScheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	utils.LogInfo("Balance audit scheduled every %v", s.interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce выполняет один проход сверки
func (s *BalanceAuditScheduler) RunOnce(ctx context.Context) int {
	startTime := time.Now()
	results, err := s.reconciler.ReconcileAll(ctx)
	utils.LogOperation("balance audit", startTime, err)

	corrected := 0
	for _, r := range results {
		if r.Corrected {
			corrected++
		}
	}
	if corrected > 0 {
		utils.LogInfo("Balance audit corrected %d of %d users", corrected, len(results))
	}
	return corrected
}
