// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"errors"
	"time"

	"ravmarket/database"
	"ravmarket/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AcceptBidParams carries everything the acceptance transaction writes.
type AcceptBidParams struct {
	BidID        string
	ListingID    string
	Booking      *models.Booking
	Confirmation *models.EscrowConfirmation
	AcceptedAt   time.Time
}

// Sentinel errors for lost optimistic guards inside the acceptance
// transaction.
var (
	ErrListingNotActive = errors.New("listing is no longer active")
	ErrBidNotPending    = errors.New("bid is no longer pending")
)

type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByRenter(ctx context.Context, renterID string) ([]models.Booking, error)
	SetStatus(ctx context.Context, id string, status models.BookingStatus) error
	SetPayoutStatus(ctx context.Context, id string, status models.PayoutStatus) error

	// AcceptBidTransactionally applies the whole single-winner acceptance as
	// one unit: listing active→booked (CAS), winning bid accepted, sibling
	// pending bids rejected, booking and escrow confirmation inserted.
	AcceptBidTransactionally(ctx context.Context, params AcceptBidParams) error
}

type mongoBookingRepo struct {
	coll        *mongo.Collection
	bidColl     *mongo.Collection
	listingColl *mongo.Collection
	escrowColl  *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	return &mongoBookingRepo{
		coll:        database.Collection("bookings"),
		bidColl:     database.Collection("listing_bids"),
		listingColl: database.Collection("listings"),
		escrowColl:  database.Collection("booking_confirmations"),
	}
}
