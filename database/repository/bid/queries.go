// File: database/repository/bid/queries.go
package bidRepo

import (
	"context"
	"fmt"
	"time"

	"ravmarket/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ListExpiredPendingIDs joins pending bids against their listings and returns
// the ids whose bidding window closed before now.
func (r *mongoBidRepo) ListExpiredPendingIDs(ctx context.Context, now time.Time) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{"status": models.BidPending}},
		{"$lookup": bson.M{
			"from":         "listings",
			"localField":   "listing_id",
			"foreignField": "id",
			"as":           "listing",
		}},
		{"$unwind": "$listing"},
		{"$match": bson.M{"listing.bidding_ends_at": bson.M{"$lt": now}}},
		{"$project": bson.M{"_id": 0, "id": 1}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to find expired pending bids: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID string `bson:"id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode expired bid ids: %w", err)
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	return ids, nil
}

// MarkExpired batch-expires bids. The pending guard makes the sweep safe to
// re-run: already-terminal bids are simply not matched.
func (r *mongoBidRepo) MarkExpired(ctx context.Context, ids []string, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"id": bson.M{"$in": ids}, "status": models.BidPending}
	update := bson.M{"$set": bson.M{"status": models.BidExpired, "responded_at": at}}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to expire bids: %w", err)
	}
	return res.ModifiedCount, nil
}

// ComparableAcceptedAmounts returns accepted bid amounts for listings in the
// same destination/bedroom bucket created after the cutoff.
func (r *mongoBidRepo) ComparableAcceptedAmounts(ctx context.Context, destination string, bedrooms int, since time.Time) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{
			"status":     models.BidAccepted,
			"created_at": bson.M{"$gte": since},
		}},
		{"$lookup": bson.M{
			"from":         "listings",
			"localField":   "listing_id",
			"foreignField": "id",
			"as":           "listing",
		}},
		{"$unwind": "$listing"},
		{"$match": bson.M{
			"listing.destination": destination,
			"listing.bedrooms":    bedrooms,
		}},
		{"$project": bson.M{"_id": 0, "bid_amount": 1}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparable bids: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		BidAmount float64 `bson:"bid_amount"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode comparable bids: %w", err)
	}

	amounts := make([]float64, len(rows))
	for i, row := range rows {
		amounts[i] = row.BidAmount
	}
	return amounts, nil
}
