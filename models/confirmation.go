package models

import "time"

// OwnerConfirmationStatus is the owner's time-boxed yes/no gate on a fresh
// booking. pending_owner is the only non-terminal state.
type OwnerConfirmationStatus string

const (
	OwnerPending   OwnerConfirmationStatus = "pending_owner"
	OwnerConfirmed OwnerConfirmationStatus = "owner_confirmed"
	OwnerDeclined  OwnerConfirmationStatus = "owner_declined"
	OwnerTimedOut  OwnerConfirmationStatus = "owner_timed_out"
	// OwnerVoided means the booking was cancelled out from under the gate;
	// the timeout sweep must never refund a voided confirmation.
	OwnerVoided OwnerConfirmationStatus = "voided"
)

// EscrowStatus tracks the resort-confirmation evidence sub-lifecycle. It is
// deliberately independent of the owner gate: funds release only once the
// owner has confirmed AND the resort confirmation is verified.
type EscrowStatus string

const (
	EscrowPendingConfirmation   EscrowStatus = "pending_confirmation"
	EscrowConfirmationSubmitted EscrowStatus = "confirmation_submitted"
	EscrowVerified              EscrowStatus = "verified"
	EscrowReleased              EscrowStatus = "released"
	EscrowRefunded              EscrowStatus = "refunded"
	EscrowDisputed              EscrowStatus = "disputed"
)

// EscrowConfirmation holds escrowed funds for one booking pending owner
// sign-off and resort verification.
type EscrowConfirmation struct {
	ID        string `bson:"id" json:"id"`
	BookingID string `bson:"booking_id" json:"booking_id"`
	ListingID string `bson:"listing_id" json:"listing_id"`
	OwnerID   string `bson:"owner_id" json:"owner_id"`

	EscrowAmount float64      `bson:"escrow_amount" json:"escrow_amount"`
	EscrowStatus EscrowStatus `bson:"escrow_status" json:"escrow_status"`

	OwnerConfirmationStatus   OwnerConfirmationStatus `bson:"owner_confirmation_status" json:"owner_confirmation_status"`
	OwnerConfirmationDeadline time.Time               `bson:"owner_confirmation_deadline" json:"owner_confirmation_deadline"`
	ExtensionsUsed            int                     `bson:"extensions_used" json:"extensions_used"`
	OwnerConfirmedAt          *time.Time              `bson:"owner_confirmed_at,omitempty" json:"owner_confirmed_at,omitempty"`
	OwnerDeclinedAt           *time.Time              `bson:"owner_declined_at,omitempty" json:"owner_declined_at,omitempty"`

	// Resort-confirmation evidence.
	ResortConfirmationNumber string     `bson:"resort_confirmation_number,omitempty" json:"resort_confirmation_number,omitempty"`
	ConfirmationSubmittedAt  *time.Time `bson:"confirmation_submitted_at,omitempty" json:"confirmation_submitted_at,omitempty"`
	RavVerifiedAt            *time.Time `bson:"rav_verified_at,omitempty" json:"rav_verified_at,omitempty"`

	EscrowReleasedAt *time.Time `bson:"escrow_released_at,omitempty" json:"escrow_released_at,omitempty"`
	EscrowRefundedAt *time.Time `bson:"escrow_refunded_at,omitempty" json:"escrow_refunded_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Countdown is a pure derived view of the time left on the owner gate; the
// caller recomputes it, no countdown state is stored.
type Countdown struct {
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
	Expired bool `json:"expired"`
}
