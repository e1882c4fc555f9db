// File: services/notification/interface.go
package notification

import (
	"context"

	"ravmarket/models"
)

// NotificationService is how the marketplace engines surface lifecycle events
// to users. Notify must never block or fail a business operation: dispatch is
// queued, and enqueue failures are logged rather than propagated.
type NotificationService interface {
	Notify(ctx context.Context, payload models.NotificationPayload)
}
