// File: database/repository/escrow/crud.go
package escrowRepo

import (
	"context"
	"fmt"
	"time"

	"ravmarket/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoEscrowRepo) GetByID(ctx context.Context, id string) (*models.EscrowConfirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var conf models.EscrowConfirmation
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&conf); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch escrow confirmation %s: %w", id, err)
	}
	return &conf, nil
}

func (r *mongoEscrowRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.EscrowConfirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var conf models.EscrowConfirmation
	if err := r.coll.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&conf); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch escrow confirmation for booking %s: %w", bookingID, err)
	}
	return &conf, nil
}

func (r *mongoEscrowRepo) ListPendingByOwner(ctx context.Context, ownerID string) ([]models.EscrowConfirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"owner_id": ownerID, "owner_confirmation_status": models.OwnerPending}
	opts := options.Find().SetSort(bson.D{{Key: "owner_confirmation_deadline", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending confirmations for owner %s: %w", ownerID, err)
	}
	defer cursor.Close(ctx)

	var confs []models.EscrowConfirmation
	if err := cursor.All(ctx, &confs); err != nil {
		return nil, fmt.Errorf("failed to decode confirmations: %w", err)
	}
	return confs, nil
}

func (r *mongoEscrowRepo) MarkOwnerConfirmed(ctx context.Context, id string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "owner_confirmation_status": models.OwnerPending}
	update := bson.M{"$set": bson.M{
		"owner_confirmation_status": models.OwnerConfirmed,
		"owner_confirmed_at":        at,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to confirm escrow %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoEscrowRepo) MarkOwnerDeclined(ctx context.Context, id string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "owner_confirmation_status": models.OwnerPending}
	update := bson.M{"$set": bson.M{
		"owner_confirmation_status": models.OwnerDeclined,
		"owner_declined_at":         at,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to decline escrow %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoEscrowRepo) VoidOwnerGate(ctx context.Context, id string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "owner_confirmation_status": models.OwnerPending}
	update := bson.M{"$set": bson.M{
		"owner_confirmation_status": models.OwnerVoided,
		"owner_declined_at":         at,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to void escrow gate %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoEscrowRepo) ApplyExtension(ctx context.Context, id string, usedBefore int, newDeadline time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":                        id,
		"owner_confirmation_status": models.OwnerPending,
		"extensions_used":           usedBefore,
	}
	update := bson.M{
		"$set": bson.M{"owner_confirmation_deadline": newDeadline},
		"$inc": bson.M{"extensions_used": 1},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to extend escrow %s deadline: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoEscrowRepo) SweepTimedOut(ctx context.Context, now time.Time) ([]models.EscrowConfirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"owner_confirmation_status":   models.OwnerPending,
		"owner_confirmation_deadline": bson.M{"$lt": now},
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find timed out confirmations: %w", err)
	}
	var candidates []models.EscrowConfirmation
	if err := cursor.All(ctx, &candidates); err != nil {
		return nil, fmt.Errorf("failed to decode timed out confirmations: %w", err)
	}

	// Transition each candidate under its own pending guard; records a
	// concurrent writer already resolved are skipped, not errors.
	update := bson.M{"$set": bson.M{
		"owner_confirmation_status": models.OwnerTimedOut,
		"owner_declined_at":         now,
	}}
	var swept []models.EscrowConfirmation
	for _, c := range candidates {
		guard := bson.M{"id": c.ID, "owner_confirmation_status": models.OwnerPending}
		res, err := r.coll.UpdateOne(ctx, guard, update)
		if err != nil {
			return swept, fmt.Errorf("failed to time out confirmation %s: %w", c.ID, err)
		}
		if res.MatchedCount > 0 {
			c.OwnerConfirmationStatus = models.OwnerTimedOut
			swept = append(swept, c)
		}
	}
	return swept, nil
}
