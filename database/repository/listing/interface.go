// File: database/repository/listing/interface.go
package listingRepo

import (
	"context"
	"fmt"

	"ravmarket/database"
	"ravmarket/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	OpenForBidding(ctx context.Context, id, ownerID string, cfg models.BiddingConfig) (*models.Listing, error)
	// SetStatus updates the listing status unconditionally.
	SetStatus(ctx context.Context, id string, status models.ListingStatus) error
	// Reactivate returns a booked listing to active after a cancellation.
	Reactivate(ctx context.Context, id string) error
}

type mongoListingRepo struct {
	coll *mongo.Collection
}

// NewMongoListingRepo constructs a new MongoDB ListingRepository.
func NewMongoListingRepo() ListingRepository {
	repo := &mongoListingRepo{
		coll: database.Collection("listings"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		fmt.Printf("failed to create listing indexes: %v\n", err)
	}
	return repo
}
