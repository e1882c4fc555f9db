// File: services/bidding/interface.go
package bidding

import (
	"context"
	"time"

	"ravmarket/models"
)

// SubmitBidRequest is the traveler-supplied slice of a new bid.
type SubmitBidRequest struct {
	ListingID  string  `json:"listing_id" binding:"required"`
	BidAmount  float64 `json:"bid_amount" binding:"required"`
	GuestCount int     `json:"guest_count" binding:"required"`
	Message    string  `json:"message"`

	RequestedCheckIn  *time.Time `json:"requested_check_in"`
	RequestedCheckOut *time.Time `json:"requested_check_out"`
}

// BiddingService runs the bid negotiation lifecycle on a listing: open the
// auction, collect bids, and resolve them to exactly one winner or none.
type BiddingService interface {
	// OpenListingForBidding flips an active listing into bidding mode.
	OpenListingForBidding(ctx context.Context, listingID, ownerID string, cfg models.BiddingConfig) (*models.Listing, error)

	// SubmitBid places a traveler's offer against an open listing.
	SubmitBid(ctx context.Context, bidderID string, req SubmitBidRequest) (*models.Bid, error)

	ListBidsForListing(ctx context.Context, listingID string) ([]models.Bid, error)
	ListMyBids(ctx context.Context, bidderID string) ([]models.Bid, error)

	// AcceptBid resolves the auction: the listing books, the winner is
	// accepted, every sibling pending bid is rejected, and an escrow
	// confirmation starts the owner gate. All of it commits atomically.
	AcceptBid(ctx context.Context, bidID, ownerID string) (*models.Booking, error)

	// RejectBid declines a single pending bid. Rejecting an
	// already-rejected bid is a no-op.
	RejectBid(ctx context.Context, bidID, ownerID string) error

	// IssueCounterOffer annotates a pending bid with the owner's suggested
	// amount. The bid stays pending; the traveler responds by withdrawing
	// and re-bidding or letting it stand.
	IssueCounterOffer(ctx context.Context, bidID, ownerID string, amount float64, message string) (*models.Bid, error)

	// WithdrawBid lets a bidder retract their own pending bid.
	WithdrawBid(ctx context.Context, bidID, bidderID string) error

	// SweepExpiredBids expires every pending bid whose listing's bidding
	// window has closed. Returns the number of bids transitioned.
	SweepExpiredBids(ctx context.Context, now time.Time) (int64, error)
}
