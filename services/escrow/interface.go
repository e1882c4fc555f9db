// File: services/escrow/interface.go
package escrow

import (
	"context"
	"time"

	"ravmarket/models"
)

// EscrowService runs the post-acceptance escrow lifecycle: the owner's
// time-boxed confirmation gate, the resort-confirmation evidence trail, and
// the eventual release or refund of the held funds.
type EscrowService interface {
	GetConfirmation(ctx context.Context, id string) (*models.EscrowConfirmation, error)
	ListPendingForOwner(ctx context.Context, ownerID string) ([]models.EscrowConfirmation, error)

	// Confirm is the owner accepting the booking inside the window.
	Confirm(ctx context.Context, id, ownerID string) (*models.EscrowConfirmation, error)
	// Decline is the owner backing out. The renter is refunded in full
	// regardless of the listing's cancellation policy.
	Decline(ctx context.Context, id, ownerID, reason string) error
	// RequestExtension pushes the confirmation deadline out by one fixed
	// increment, up to the extension limit.
	RequestExtension(ctx context.Context, id, ownerID string) (*models.EscrowConfirmation, error)
	// CountdownFor reports the time remaining on the owner gate.
	CountdownFor(ctx context.Context, id string) (*models.Countdown, error)

	// SubmitResortConfirmation records the owner's resort booking reference
	// as evidence the stay was actually transferred.
	SubmitResortConfirmation(ctx context.Context, id, ownerID, confirmationNumber string) error
	// VerifyResortConfirmation is the back-office marking the evidence
	// checked.
	VerifyResortConfirmation(ctx context.Context, id string) error

	// SweepTimeouts times out every owner gate past its deadline, refunding
	// the renters. Returns the number of confirmations transitioned.
	SweepTimeouts(ctx context.Context, now time.Time) (int, error)
	// ReleaseEligible pays out every escrow whose hold period has lapsed
	// with confirmed owner and verified evidence. Returns the number
	// released.
	ReleaseEligible(ctx context.Context, now time.Time) (int, error)
}
