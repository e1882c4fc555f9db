// File: database/repository/bid/indexes.go
package bidRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the listing_bids collection.
func (r *mongoBidRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "listing_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("listing_status_idx"),
		},
		{
			Keys:    bson.D{{Key: "bidder_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("bidder_created_idx"),
		},
		// Sweep and comparable scans.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("status_created_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create bid indexes: %w", err)
	}
	return nil
}
