// File: database/repository/travelreq/crud.go
package travelreqRepo

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

func (r *mongoTravelRequestRepo) CreateRequest(ctx context.Context, req *models.TravelRequest) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	req.CreatedAt = time.Now()
	if _, err := r.reqColl.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("failed to insert travel request: %w", err)
	}
	return nil
}

func (r *mongoTravelRequestRepo) GetRequest(ctx context.Context, id string) (*models.TravelRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var req models.TravelRequest
	if err := r.reqColl.FindOne(ctx, bson.M{"id": id}).Decode(&req); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch travel request %s: %w", id, err)
	}
	return &req, nil
}

func (r *mongoTravelRequestRepo) ListOpenRequests(ctx context.Context, now time.Time) ([]models.TravelRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":             models.RequestOpen,
		"proposals_deadline": bson.M{"$gt": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.reqColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list open travel requests: %w", err)
	}
	defer cursor.Close(ctx)

	var reqs []models.TravelRequest
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("failed to decode travel requests: %w", err)
	}
	return reqs, nil
}

func (r *mongoTravelRequestRepo) TransitionRequestIfOpen(ctx context.Context, id string, to models.TravelRequestStatus) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.RequestOpen}
	res, err := r.reqColl.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"status": to}})
	if err != nil {
		return false, fmt.Errorf("failed to transition travel request %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoTravelRequestRepo) ExpireRequests(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"status":             models.RequestOpen,
		"proposals_deadline": bson.M{"$lt": now},
	}
	res, err := r.reqColl.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"status": models.RequestExpired}})
	if err != nil {
		return 0, fmt.Errorf("failed to expire travel requests: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *mongoTravelRequestRepo) CreateProposal(ctx context.Context, p *models.TravelProposal) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = time.Now()
	if _, err := r.propColl.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to insert travel proposal: %w", err)
	}
	return nil
}

func (r *mongoTravelRequestRepo) GetProposal(ctx context.Context, id string) (*models.TravelProposal, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.TravelProposal
	if err := r.propColl.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch travel proposal %s: %w", id, err)
	}
	return &p, nil
}

func (r *mongoTravelRequestRepo) ListProposalsForRequest(ctx context.Context, requestID string) ([]models.TravelProposal, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "proposed_price", Value: 1}})
	cursor, err := r.propColl.Find(ctx, bson.M{"request_id": requestID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals for request %s: %w", requestID, err)
	}
	defer cursor.Close(ctx)

	var props []models.TravelProposal
	if err := cursor.All(ctx, &props); err != nil {
		return nil, fmt.Errorf("failed to decode travel proposals: %w", err)
	}
	return props, nil
}

func (r *mongoTravelRequestRepo) TransitionProposalIfPending(ctx context.Context, id string, to models.ProposalStatus, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.ProposalPending}
	update := bson.M{"$set": bson.M{"status": to, "responded_at": at}}
	res, err := r.propColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to transition travel proposal %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoTravelRequestRepo) LinkProposalListing(ctx context.Context, id, listingID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"listing_id": listingID}}
	if _, err := r.propColl.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("failed to link listing to proposal %s: %w", id, err)
	}
	return nil
}
