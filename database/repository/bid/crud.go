// File: database/repository/bid/crud.go
package bidRepo

import (
	"context"
	"fmt"
	"time"

	"ravmarket/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoBidRepo) Create(ctx context.Context, bid *models.Bid) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if bid.ID == "" {
		bid.ID = uuid.New().String()
	}
	bid.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, bid); err != nil {
		return fmt.Errorf("failed to insert bid: %w", err)
	}
	return nil
}

func (r *mongoBidRepo) GetByID(ctx context.Context, id string) (*models.Bid, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var bid models.Bid
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&bid); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch bid %s: %w", id, err)
	}
	return &bid, nil
}

func (r *mongoBidRepo) ListByListing(ctx context.Context, listingID string) ([]models.Bid, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "bid_amount", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"listing_id": listingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids for listing %s: %w", listingID, err)
	}
	defer cursor.Close(ctx)

	var bids []models.Bid
	if err := cursor.All(ctx, &bids); err != nil {
		return nil, fmt.Errorf("failed to decode bids: %w", err)
	}
	return bids, nil
}

func (r *mongoBidRepo) ListByBidder(ctx context.Context, bidderID string) ([]models.Bid, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"bidder_id": bidderID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids for bidder %s: %w", bidderID, err)
	}
	defer cursor.Close(ctx)

	var bids []models.Bid
	if err := cursor.All(ctx, &bids); err != nil {
		return nil, fmt.Errorf("failed to decode bids: %w", err)
	}
	return bids, nil
}

func (r *mongoBidRepo) TransitionIfPending(ctx context.Context, id string, to models.BidStatus, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.BidPending}
	update := bson.M{"$set": bson.M{"status": to, "responded_at": at}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to transition bid %s to %s: %w", id, to, err)
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoBidRepo) SetCounterOffer(ctx context.Context, id string, amount float64, message string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.BidPending}
	update := bson.M{"$set": bson.M{
		"counter_offer_amount":  amount,
		"counter_offer_message": message,
		"responded_at":          at,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to set counter offer on bid %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}
