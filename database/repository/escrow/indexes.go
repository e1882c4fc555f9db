// File: database/repository/escrow/indexes.go
package escrowRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the booking_confirmations collection.
func (r *mongoEscrowRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "booking_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_booking_id"),
		},
		// Owner dashboard and timeout sweep.
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "owner_confirmation_status", Value: 1}},
			Options: options.Index().SetName("owner_status_idx"),
		},
		{
			Keys:    bson.D{{Key: "owner_confirmation_status", Value: 1}, {Key: "owner_confirmation_deadline", Value: 1}},
			Options: options.Index().SetName("status_deadline_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create escrow indexes: %w", err)
	}
	return nil
}
