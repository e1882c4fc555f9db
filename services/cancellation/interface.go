// File: services/cancellation/interface.go
package cancellation

import (
	"context"
	"time"

	"ravmarket/models"
)

// RefundPreview is what a renter sees before committing to a cancellation.
type RefundPreview struct {
	Quote            models.RefundQuote `json:"quote"`
	RefundAmount     float64            `json:"refund_amount"`
	DaysUntilCheckin int                `json:"days_until_checkin"`
	PayoutDate       time.Time          `json:"estimated_payout_date"`
}

// CancellationService tears down a confirmed booking: computes the refund per
// the listing's policy, routes the refund, releases the listing back to the
// market, and records the whole thing.
type CancellationService interface {
	// PreviewRefund quotes the refund a requester would get right now,
	// without changing anything.
	PreviewRefund(ctx context.Context, bookingID, requesterID string) (*RefundPreview, error)
	// CancelBooking cancels a confirmed booking. Owner-initiated
	// cancellations always refund the renter in full regardless of policy.
	CancelBooking(ctx context.Context, bookingID, requesterID, reason string) (*models.CancellationRequest, error)
}
