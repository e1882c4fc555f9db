// File: database/repository/listing/indexes.go
package listingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the listings collection.
func (r *mongoListingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Open-bidding discovery: active listings with a live bidding window.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "open_for_bidding", Value: 1}, {Key: "bidding_ends_at", Value: 1}},
			Options: options.Index().SetName("status_bidding_idx"),
		},
		// Comparable bucket for fair value scoring.
		{
			Keys:    bson.D{{Key: "destination", Value: 1}, {Key: "bedrooms", Value: 1}},
			Options: options.Index().SetName("destination_bedrooms_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create listing indexes: %w", err)
	}
	return nil
}
