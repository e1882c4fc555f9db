// File: database/repository/cancellation/crud.go
package cancellationRepo

import (
	"context"
	"fmt"
	"time"

	"ravmarket/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoCancellationRepo) Create(ctx context.Context, req *models.CancellationRequest) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	req.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("failed to insert cancellation request: %w", err)
	}
	return nil
}

func (r *mongoCancellationRepo) ListByBooking(ctx context.Context, bookingID string) ([]models.CancellationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list cancellation requests for booking %s: %w", bookingID, err)
	}
	defer cursor.Close(ctx)

	var reqs []models.CancellationRequest
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("failed to decode cancellation requests: %w", err)
	}
	return reqs, nil
}
