// File: services/travelreq/interface.go
package travelreq

import (
	"context"
	"time"

	"ravmarket/models"
)

// OpenRequestInput is the traveler-supplied slice of a new travel request.
type OpenRequestInput struct {
	Destination string    `json:"destination" binding:"required"`
	CheckIn     time.Time `json:"check_in" binding:"required"`
	CheckOut    time.Time `json:"check_out" binding:"required"`
	GuestCount  int       `json:"guest_count" binding:"required"`

	BudgetLow  *float64 `json:"budget_low"`
	BudgetHigh *float64 `json:"budget_high"`

	ProposalsDeadline time.Time `json:"proposals_deadline" binding:"required"`
}

// SubmitProposalInput is the owner-supplied slice of a new proposal.
type SubmitProposalInput struct {
	RequestID  string `json:"request_id" binding:"required"`
	PropertyID string `json:"property_id" binding:"required"`

	ProposedPrice    float64   `json:"proposed_price" binding:"required"`
	ProposedCheckIn  time.Time `json:"proposed_check_in" binding:"required"`
	ProposedCheckOut time.Time `json:"proposed_check_out" binding:"required"`
	Message          string    `json:"message"`
}

// TravelRequestService runs the reverse-marketplace flow: travelers post the
// trip they want, owners answer with proposals, and an accepted proposal
// turns into a live listing priced with the platform markup.
type TravelRequestService interface {
	OpenRequest(ctx context.Context, travelerID string, input OpenRequestInput) (*models.TravelRequest, error)
	GetRequest(ctx context.Context, id string) (*models.TravelRequest, error)
	ListOpenRequests(ctx context.Context) ([]models.TravelRequest, error)

	SubmitProposal(ctx context.Context, ownerID string, input SubmitProposalInput) (*models.TravelProposal, error)
	ListProposals(ctx context.Context, requestID string) ([]models.TravelProposal, error)

	// AcceptProposal fulfills the request: the proposal is accepted, its
	// siblings rejected, and a bookable listing is created from it.
	AcceptProposal(ctx context.Context, proposalID, travelerID string) (*models.Listing, error)
	RejectProposal(ctx context.Context, proposalID, travelerID string) error
	WithdrawProposal(ctx context.Context, proposalID, ownerID string) error

	// SweepExpiredRequests closes every open request past its proposals
	// deadline.
	SweepExpiredRequests(ctx context.Context, now time.Time) (int64, error)
}
