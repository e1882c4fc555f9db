// File: database/repository/booking/transaction.go
package bookingRepo

import (
	"context"
	"fmt"

	"ravmarket/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AcceptBidTransactionally performs the single-winner acceptance inside one
// mongo transaction. The listing update is a compare-and-swap on
// status == active; when it matches nothing, a concurrent acceptance already
// won and the whole transaction aborts with ErrListingNotActive.
func (r *mongoBookingRepo) AcceptBidTransactionally(ctx context.Context, params AcceptBidParams) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		// CAS the listing out of active; losing this race aborts everything.
		listingFilter := bson.M{"id": params.ListingID, "status": models.ListingActive}
		listingUpdate := bson.M{"$set": bson.M{
			"status":     models.ListingBooked,
			"updated_at": params.AcceptedAt,
		}}
		res, err := r.listingColl.UpdateOne(sc, listingFilter, listingUpdate)
		if err != nil {
			return fmt.Errorf("listing status update failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrListingNotActive
		}

		// Winner: pending → accepted.
		winFilter := bson.M{"id": params.BidID, "status": models.BidPending}
		winUpdate := bson.M{"$set": bson.M{
			"status":       models.BidAccepted,
			"responded_at": params.AcceptedAt,
		}}
		res, err = r.bidColl.UpdateOne(sc, winFilter, winUpdate)
		if err != nil {
			return fmt.Errorf("accepting bid failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrBidNotPending
		}

		// Siblings: every other pending bid on the listing is rejected.
		sibFilter := bson.M{
			"listing_id": params.ListingID,
			"id":         bson.M{"$ne": params.BidID},
			"status":     models.BidPending,
		}
		sibUpdate := bson.M{"$set": bson.M{
			"status":       models.BidRejected,
			"responded_at": params.AcceptedAt,
		}}
		if _, err := r.bidColl.UpdateMany(sc, sibFilter, sibUpdate); err != nil {
			return fmt.Errorf("rejecting sibling bids failed: %w", err)
		}

		if _, err := r.coll.InsertOne(sc, params.Booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		if _, err := r.escrowColl.InsertOne(sc, params.Confirmation); err != nil {
			return fmt.Errorf("insert escrow confirmation failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}

	return nil
}
