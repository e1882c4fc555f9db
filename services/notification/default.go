// File: services/notification/default.go
package notification

import (
	"context"

	"ravmarket/models"
	"ravmarket/services/tasks"
	"ravmarket/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// DefaultNotificationService queues notifications onto the async worker for
// out-of-band delivery.
type DefaultNotificationService struct {
	client *asynq.Client
}

// NewDefaultNotificationService constructs the queue-backed implementation.
func NewDefaultNotificationService(client *asynq.Client) *DefaultNotificationService {
	return &DefaultNotificationService{client: client}
}

func (s *DefaultNotificationService) Notify(ctx context.Context, payload models.NotificationPayload) {
	logger := utils.GetLogger()

	task, err := tasks.NewNotifyTask(payload)
	if err != nil {
		logger.Error("Failed to build notification task",
			zap.String("user_id", payload.UserID),
			zap.String("type", string(payload.Type)),
			zap.Error(err))
		return
	}

	if _, err := s.client.EnqueueContext(ctx, task); err != nil {
		// Notifications are best-effort; the triggering operation already
		// committed.
		logger.Error("Failed to enqueue notification",
			zap.String("user_id", payload.UserID),
			zap.String("type", string(payload.Type)),
			zap.Error(err))
		return
	}

	logger.Debug("Notification enqueued",
		zap.String("user_id", payload.UserID),
		zap.String("type", string(payload.Type)))
}

// NoopNotificationService discards all notifications. Intended for tests.
type NoopNotificationService struct{}

func (NoopNotificationService) Notify(context.Context, models.NotificationPayload) {}
