package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// StartSessionSweeper periodically removes expired sessions from the
// registry. Stops when ctx is cancelled.
func StartSessionSweeper(ctx context.Context, sessions auth.SessionRegistry, interval time.Duration, logger *zap.Logger) {
	if sessions == nil || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := sessions.Sweep(ctx); err != nil {
					logger.Warn("session sweep failed", zap.Error(err))
				}
			}
		}
	}()
}
