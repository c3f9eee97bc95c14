package workers

import (
	"context"
	"time"

	"climatework_backend/internal/logger"
	"climatework_backend/internal/repositories"

	"gorm.io/gorm"
)

// HousekeepingWorker sweeps expired pending registrations and auth codes.
type HousekeepingWorker struct {
	db          *gorm.DB
	pendingRepo repositories.PendingRegistrationRepository
	codeRepo    repositories.AuthCodeRepository
	interval    time.Duration
}

func NewHousekeepingWorker(db *gorm.DB) *HousekeepingWorker {
	return &HousekeepingWorker{
		db:          db,
		pendingRepo: repositories.NewPendingRegistrationRepository(),
		codeRepo:    repositories.NewAuthCodeRepository(),
		interval:    1 * time.Hour,
	}
}

// Start launches the background sweep loop.
func (w *HousekeepingWorker) Start(ctx context.Context) {
	go w.sweepLoop(ctx)
}

func (w *HousekeepingWorker) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Housekeeping worker stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *HousekeepingWorker) sweep() {
	if n, err := w.pendingRepo.DeleteExpired(w.db); err != nil {
		logger.Error("Failed to delete expired pending registrations", "error", err)
	} else if n > 0 {
		logger.Info("Deleted expired pending registrations", "count", n)
	}

	if err := w.codeRepo.DeleteExpired(w.db); err != nil {
		logger.Error("Failed to delete expired auth codes", "error", err)
	}
}
