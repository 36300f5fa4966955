package workers

import (
	"context"
	"log/slog"
	"time"

	"studlance_backend/internal/logger"
	"studlance_backend/internal/repositories"

	"gorm.io/gorm"
)

const (
	cleanupInterval       = 6 * time.Hour
	notificationRetention = 30 * 24 * time.Hour
)

// NotificationWorker prunes old read notifications and expired refresh
// tokens on a timer.
type NotificationWorker struct {
	db               *gorm.DB
	notificationRepo *repositories.NotificationRepository
	userRepo         *repositories.UserRepository
}

func NewNotificationWorker(db *gorm.DB) *NotificationWorker {
	return &NotificationWorker{
		db:               db,
		notificationRepo: repositories.NewNotificationRepository(),
		userRepo:         repositories.NewUserRepository(),
	}
}

func (w *NotificationWorker) Run(ctx context.Context) {
	log := logger.GetLogger().With(slog.String("worker", "notification_cleanup"))
	log.Info("worker started", slog.Duration("interval", cleanupInterval))

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.runOnce(log)
		case <-ctx.Done():
			log.Info("worker stopped")
			return
		}
	}
}

func (w *NotificationWorker) runOnce(log *slog.Logger) {
	cutoff := time.Now().Add(-notificationRetention)

	pruned, err := w.notificationRepo.DeleteOlderThan(w.db, cutoff)
	if err != nil {
		log.Error("notification cleanup failed", slog.String("error", err.Error()))
	} else if pruned > 0 {
		log.Info("pruned notifications", slog.Int64("count", pruned))
	}

	expired, err := w.userRepo.DeleteExpiredRefreshTokens(w.db)
	if err != nil {
		log.Error("refresh token cleanup failed", slog.String("error", err.Error()))
	} else if expired > 0 {
		log.Info("pruned refresh tokens", slog.Int64("count", expired))
	}
}
