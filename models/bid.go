package models

import "time"

// BidStatus is the negotiation state of a bid. Every branch out of pending is
// terminal; a counter-offer keeps the bid pending and only stamps the
// counter-offer fields.
type BidStatus string

const (
	BidPending   BidStatus = "pending"
	BidAccepted  BidStatus = "accepted"
	BidRejected  BidStatus = "rejected"
	BidExpired   BidStatus = "expired"
	BidWithdrawn BidStatus = "withdrawn"
)

// Bid is a traveler's offer against a listing.
type Bid struct {
	ID         string  `bson:"id" json:"id"`
	ListingID  string  `bson:"listing_id" json:"listing_id"`
	BidderID   string  `bson:"bidder_id" json:"bidder_id"`
	BidAmount  float64 `bson:"bid_amount" json:"bid_amount"`
	GuestCount int     `bson:"guest_count" json:"guest_count"`
	Message    string  `bson:"message,omitempty" json:"message,omitempty"`

	// Optional alternate-date proposal.
	RequestedCheckIn  *time.Time `bson:"requested_check_in,omitempty" json:"requested_check_in,omitempty"`
	RequestedCheckOut *time.Time `bson:"requested_check_out,omitempty" json:"requested_check_out,omitempty"`

	Status BidStatus `bson:"status" json:"status"`

	// Owner counter-offer annotation; advisory, not a new bid.
	CounterOfferAmount  *float64 `bson:"counter_offer_amount,omitempty" json:"counter_offer_amount,omitempty"`
	CounterOfferMessage string   `bson:"counter_offer_message,omitempty" json:"counter_offer_message,omitempty"`

	RespondedAt *time.Time `bson:"responded_at,omitempty" json:"responded_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
}
