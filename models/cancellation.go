package models

import "time"

// CancellationStatus tracks a cancellation request record.
type CancellationStatus string

const (
	CancellationPending   CancellationStatus = "pending"
	CancellationApproved  CancellationStatus = "approved"
	CancellationDenied    CancellationStatus = "denied"
	CancellationCompleted CancellationStatus = "completed"
)

// RefundQuote is the human-readable companion of the refund calculation. It
// must stay in lock-step with the policy amount at every boundary.
type RefundQuote struct {
	Percentage  int    `json:"percentage"`
	Description string `json:"description"`
}

// CancellationRequest is the audit record written when a booking is cancelled.
type CancellationRequest struct {
	ID          string `bson:"id" json:"id"`
	BookingID   string `bson:"booking_id" json:"booking_id"`
	RequesterID string `bson:"requester_id" json:"requester_id"`
	CancelledBy string `bson:"cancelled_by" json:"cancelled_by"` // "renter" or "owner"
	Reason      string `bson:"reason" json:"reason"`

	Status             CancellationStatus `bson:"status" json:"status"`
	DaysUntilCheckin   int                `bson:"days_until_checkin" json:"days_until_checkin"`
	PolicyRefundAmount float64            `bson:"policy_refund_amount" json:"policy_refund_amount"`
	FinalRefundAmount  float64            `bson:"final_refund_amount" json:"final_refund_amount"`

	RefundReference   *string    `bson:"refund_reference,omitempty" json:"refund_reference,omitempty"`
	RefundProcessedAt *time.Time `bson:"refund_processed_at,omitempty" json:"refund_processed_at,omitempty"`
	CreatedAt         time.Time  `bson:"created_at" json:"created_at"`
}
