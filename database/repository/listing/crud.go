// File: database/repository/listing/crud.go
package listingRepo

import (
	"context"
	"fmt"
	"time"

	"ravmarket/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoListingRepo) Create(ctx context.Context, listing *models.Listing) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, listing); err != nil {
		return fmt.Errorf("failed to insert listing: %w", err)
	}
	return nil
}

func (r *mongoListingRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var listing models.Listing
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&listing); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch listing %s: %w", id, err)
	}
	return &listing, nil
}

// OpenForBidding stamps the bidding configuration onto an active listing owned
// by ownerID. The status guard keeps booked listings closed to new bids.
func (r *mongoListingRepo) OpenForBidding(ctx context.Context, id, ownerID string, cfg models.BiddingConfig) (*models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "owner_id": ownerID, "status": models.ListingActive}
	update := bson.M{"$set": bson.M{
		"open_for_bidding":     true,
		"bidding_ends_at":      cfg.BiddingEndsAt,
		"min_bid_amount":       cfg.MinBidAmount,
		"reserve_price":        cfg.ReservePrice,
		"allow_counter_offers": cfg.AllowCounterOffers,
		"updated_at":           time.Now(),
	}}

	res := r.coll.FindOneAndUpdate(ctx, filter, update)
	if err := res.Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("failed to open listing %s for bidding: %w", id, err)
	}
	return r.GetByID(ctx, id)
}

func (r *mongoListingRepo) SetStatus(ctx context.Context, id string, status models.ListingStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update listing %s status: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Reactivate flips a booked listing back to active and closes the stale
// bidding window so it does not immediately re-open for bids.
func (r *mongoListingRepo) Reactivate(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.ListingBooked}
	update := bson.M{"$set": bson.M{
		"status":           models.ListingActive,
		"open_for_bidding": false,
		"updated_at":       time.Now(),
	}}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to reactivate listing %s: %w", id, err)
	}
	return nil
}
