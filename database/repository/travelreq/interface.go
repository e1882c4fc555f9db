// File: database/repository/travelreq/interface.go
package travelreqRepo

import (
	"context"
	"time"

	"ravmarket/database"
	"ravmarket/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type TravelRequestRepository interface {
	CreateRequest(ctx context.Context, req *models.TravelRequest) error
	GetRequest(ctx context.Context, id string) (*models.TravelRequest, error)
	ListOpenRequests(ctx context.Context, now time.Time) ([]models.TravelRequest, error)
	// TransitionRequestIfOpen moves a request out of open under a guard.
	TransitionRequestIfOpen(ctx context.Context, id string, to models.TravelRequestStatus) (bool, error)
	// ExpireRequests closes every open request past its proposals deadline.
	ExpireRequests(ctx context.Context, now time.Time) (int64, error)

	CreateProposal(ctx context.Context, p *models.TravelProposal) error
	GetProposal(ctx context.Context, id string) (*models.TravelProposal, error)
	ListProposalsForRequest(ctx context.Context, requestID string) ([]models.TravelProposal, error)
	TransitionProposalIfPending(ctx context.Context, id string, to models.ProposalStatus, at time.Time) (bool, error)
	LinkProposalListing(ctx context.Context, id, listingID string) error
}

type mongoTravelRequestRepo struct {
	reqColl  *mongo.Collection
	propColl *mongo.Collection
}

// NewMongoTravelRequestRepo constructs a new MongoDB TravelRequestRepository.
func NewMongoTravelRequestRepo() TravelRequestRepository {
	return &mongoTravelRequestRepo{
		reqColl:  database.Collection("travel_requests"),
		propColl: database.Collection("travel_proposals"),
	}
}
