// File: database/repository/escrow/release.go
package escrowRepo

import (
	"context"
	"fmt"
	"time"

	"ravmarket/models"

	"go.mongodb.org/mongo-driver/bson"
)

func (r *mongoEscrowRepo) SubmitResortConfirmation(ctx context.Context, id, confirmationNumber string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "escrow_status": models.EscrowPendingConfirmation}
	update := bson.M{"$set": bson.M{
		"escrow_status":              models.EscrowConfirmationSubmitted,
		"resort_confirmation_number": confirmationNumber,
		"confirmation_submitted_at":  at,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to submit resort confirmation for %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoEscrowRepo) VerifyResortConfirmation(ctx context.Context, id string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "escrow_status": models.EscrowConfirmationSubmitted}
	update := bson.M{"$set": bson.M{
		"escrow_status":   models.EscrowVerified,
		"rav_verified_at": at,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to verify resort confirmation for %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoEscrowRepo) MarkReleased(ctx context.Context, id string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "escrow_status": models.EscrowVerified}
	update := bson.M{"$set": bson.M{
		"escrow_status":      models.EscrowReleased,
		"escrow_released_at": at,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to release escrow %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

// MarkRefunded is terminal from any non-released state; refunds triggered by
// declines, timeouts and cancellations all land here.
func (r *mongoEscrowRepo) MarkRefunded(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "escrow_status": bson.M{"$ne": models.EscrowReleased}}
	update := bson.M{"$set": bson.M{
		"escrow_status":      models.EscrowRefunded,
		"escrow_refunded_at": at,
	}}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to mark escrow %s refunded: %w", id, err)
	}
	return nil
}

// FindReleasable joins against listings to apply the checkout hold cutoff.
func (r *mongoEscrowRepo) FindReleasable(ctx context.Context, checkoutBefore time.Time) ([]models.EscrowConfirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{
			"escrow_status":             models.EscrowVerified,
			"owner_confirmation_status": models.OwnerConfirmed,
		}},
		{"$lookup": bson.M{
			"from":         "listings",
			"localField":   "listing_id",
			"foreignField": "id",
			"as":           "listing",
		}},
		{"$unwind": "$listing"},
		{"$match": bson.M{"listing.check_out_date": bson.M{"$lt": checkoutBefore}}},
		{"$project": bson.M{"listing": 0}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to query releasable escrows: %w", err)
	}
	defer cursor.Close(ctx)

	var confs []models.EscrowConfirmation
	if err := cursor.All(ctx, &confs); err != nil {
		return nil, fmt.Errorf("failed to decode releasable escrows: %w", err)
	}
	return confs, nil
}
