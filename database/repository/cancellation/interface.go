// File: database/repository/cancellation/interface.go
package cancellationRepo

import (
	"context"

	"ravmarket/database"
	"ravmarket/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type CancellationRepository interface {
	Create(ctx context.Context, req *models.CancellationRequest) error
	ListByBooking(ctx context.Context, bookingID string) ([]models.CancellationRequest, error)
}

type mongoCancellationRepo struct {
	coll *mongo.Collection
}

// NewMongoCancellationRepo constructs a new MongoDB CancellationRepository.
func NewMongoCancellationRepo() CancellationRepository {
	return &mongoCancellationRepo{
		coll: database.Collection("cancellation_requests"),
	}
}
