// File: database/repository/escrow/interface.go
package escrowRepo

import (
	"context"
	"fmt"
	"time"

	"ravmarket/database"
	"ravmarket/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Every owner-gate write is conditional on the record still being
// pending_owner; the boolean result reports whether the guard held. This is
// what prevents a user action and the timeout sweep from producing two
// outcomes for one confirmation.
type EscrowRepository interface {
	GetByID(ctx context.Context, id string) (*models.EscrowConfirmation, error)
	GetByBookingID(ctx context.Context, bookingID string) (*models.EscrowConfirmation, error)
	ListPendingByOwner(ctx context.Context, ownerID string) ([]models.EscrowConfirmation, error)

	MarkOwnerConfirmed(ctx context.Context, id string, at time.Time) (bool, error)
	MarkOwnerDeclined(ctx context.Context, id string, at time.Time) (bool, error)
	// VoidOwnerGate terminally closes a still-pending gate when its booking is
	// cancelled through another flow, taking the record out of the timeout
	// sweep's reach.
	VoidOwnerGate(ctx context.Context, id string, at time.Time) (bool, error)
	// ApplyExtension bumps the deadline; the guard also pins extensions_used
	// so two racing extension requests cannot both count once.
	ApplyExtension(ctx context.Context, id string, usedBefore int, newDeadline time.Time) (bool, error)
	// SweepTimedOut expires every pending_owner record past its deadline and
	// returns the affected confirmations.
	SweepTimedOut(ctx context.Context, now time.Time) ([]models.EscrowConfirmation, error)

	// Resort-confirmation evidence transitions, each guarded on the expected
	// source escrow_status.
	SubmitResortConfirmation(ctx context.Context, id, confirmationNumber string, at time.Time) (bool, error)
	VerifyResortConfirmation(ctx context.Context, id string, at time.Time) (bool, error)
	MarkReleased(ctx context.Context, id string, at time.Time) (bool, error)
	MarkRefunded(ctx context.Context, id string, at time.Time) error
	// FindReleasable returns escrows eligible for payout: verified evidence,
	// confirmed owner, checkout past the hold cutoff.
	FindReleasable(ctx context.Context, checkoutBefore time.Time) ([]models.EscrowConfirmation, error)
}

type mongoEscrowRepo struct {
	coll        *mongo.Collection
	listingColl *mongo.Collection
}

// NewMongoEscrowRepo constructs a new MongoDB EscrowRepository.
func NewMongoEscrowRepo() EscrowRepository {
	repo := &mongoEscrowRepo{
		coll:        database.Collection("booking_confirmations"),
		listingColl: database.Collection("listings"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		fmt.Printf("failed to create escrow indexes: %v\n", err)
	}
	return repo
}
