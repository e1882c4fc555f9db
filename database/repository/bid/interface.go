// File: database/repository/bid/interface.go
package bidRepo

import (
	"context"
	"fmt"
	"time"

	"ravmarket/database"
	"ravmarket/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type BidRepository interface {
	Create(ctx context.Context, bid *models.Bid) error
	GetByID(ctx context.Context, id string) (*models.Bid, error)
	ListByListing(ctx context.Context, listingID string) ([]models.Bid, error)
	ListByBidder(ctx context.Context, bidderID string) ([]models.Bid, error)

	// TransitionIfPending moves a bid out of pending. Returns false when the
	// bid was not pending at write time (the optimistic guard lost).
	TransitionIfPending(ctx context.Context, id string, to models.BidStatus, at time.Time) (bool, error)
	// SetCounterOffer annotates a pending bid; status stays pending.
	SetCounterOffer(ctx context.Context, id string, amount float64, message string, at time.Time) (bool, error)

	// ListExpiredPendingIDs returns pending bids whose listing's bidding
	// window closed before now.
	ListExpiredPendingIDs(ctx context.Context, now time.Time) ([]string, error)
	// MarkExpired expires the given bids, skipping any no longer pending.
	MarkExpired(ctx context.Context, ids []string, at time.Time) (int64, error)

	// ComparableAcceptedAmounts returns accepted bid amounts in the same
	// destination/bedroom bucket since the given cutoff.
	ComparableAcceptedAmounts(ctx context.Context, destination string, bedrooms int, since time.Time) ([]float64, error)
}

type mongoBidRepo struct {
	coll        *mongo.Collection
	listingColl *mongo.Collection
}

// NewMongoBidRepo constructs a new MongoDB BidRepository.
func NewMongoBidRepo() BidRepository {
	repo := &mongoBidRepo{
		coll:        database.Collection("listing_bids"),
		listingColl: database.Collection("listings"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		fmt.Printf("failed to create bid indexes: %v\n", err)
	}
	return repo
}
