package models

import "time"

// TravelRequestStatus is the lifecycle of a traveler-posted request.
type TravelRequestStatus string

const (
	RequestOpen      TravelRequestStatus = "open"
	RequestClosed    TravelRequestStatus = "closed"
	RequestFulfilled TravelRequestStatus = "fulfilled"
	RequestExpired   TravelRequestStatus = "expired"
)

// ProposalStatus mirrors bid semantics on the owner side of the reverse flow.
type ProposalStatus string

const (
	ProposalPending   ProposalStatus = "pending"
	ProposalAccepted  ProposalStatus = "accepted"
	ProposalRejected  ProposalStatus = "rejected"
	ProposalExpired   ProposalStatus = "expired"
	ProposalWithdrawn ProposalStatus = "withdrawn"
)

// TravelRequest is the reverse-marketplace flow: a traveler describes the trip
// they want and owners respond with proposals.
type TravelRequest struct {
	ID          string    `bson:"id" json:"id"`
	TravelerID  string    `bson:"traveler_id" json:"traveler_id"`
	Destination string    `bson:"destination" json:"destination"`
	CheckIn     time.Time `bson:"check_in" json:"check_in"`
	CheckOut    time.Time `bson:"check_out" json:"check_out"`
	GuestCount  int       `bson:"guest_count" json:"guest_count"`

	BudgetLow  *float64 `bson:"budget_low,omitempty" json:"budget_low,omitempty"`
	BudgetHigh *float64 `bson:"budget_high,omitempty" json:"budget_high,omitempty"`

	ProposalsDeadline time.Time           `bson:"proposals_deadline" json:"proposals_deadline"`
	Status            TravelRequestStatus `bson:"status" json:"status"`
	CreatedAt         time.Time           `bson:"created_at" json:"created_at"`
}

// TravelProposal is an owner's offer against a travel request. Acceptance
// auto-creates an active listing priced from the proposal.
type TravelProposal struct {
	ID         string  `bson:"id" json:"id"`
	RequestID  string  `bson:"request_id" json:"request_id"`
	OwnerID    string  `bson:"owner_id" json:"owner_id"`
	PropertyID string  `bson:"property_id" json:"property_id"`
	ListingID  *string `bson:"listing_id,omitempty" json:"listing_id,omitempty"`

	ProposedPrice    float64   `bson:"proposed_price" json:"proposed_price"`
	ProposedCheckIn  time.Time `bson:"proposed_check_in" json:"proposed_check_in"`
	ProposedCheckOut time.Time `bson:"proposed_check_out" json:"proposed_check_out"`
	Message          string    `bson:"message,omitempty" json:"message,omitempty"`

	Status      ProposalStatus `bson:"status" json:"status"`
	RespondedAt *time.Time     `bson:"responded_at,omitempty" json:"responded_at,omitempty"`
	CreatedAt   time.Time      `bson:"created_at" json:"created_at"`
}
