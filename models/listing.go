package models

import "time"

// CancellationPolicy controls the refund tiers applied to renter cancellations.
type CancellationPolicy string

const (
	PolicyFlexible    CancellationPolicy = "flexible"
	PolicyModerate    CancellationPolicy = "moderate"
	PolicyStrict      CancellationPolicy = "strict"
	PolicySuperStrict CancellationPolicy = "super_strict"
)

// ListingStatus is the lifecycle state of a listing.
type ListingStatus string

const (
	ListingDraft           ListingStatus = "draft"
	ListingPendingApproval ListingStatus = "pending_approval"
	ListingActive          ListingStatus = "active"
	ListingBooked          ListingStatus = "booked"
	ListingCompleted       ListingStatus = "completed"
	ListingCancelled       ListingStatus = "cancelled"
)

// Listing is a bookable date range on a property. Bidding fields are only
// meaningful while the listing is active; acceptance of a bid flips the status
// to booked and closes bidding.
type Listing struct {
	ID           string    `bson:"id" json:"id"`
	PropertyID   string    `bson:"property_id" json:"property_id"`
	OwnerID      string    `bson:"owner_id" json:"owner_id"`
	Destination  string    `bson:"destination" json:"destination"` // comparable bucket key
	Bedrooms     int       `bson:"bedrooms" json:"bedrooms"`       // comparable bucket key
	CheckInDate  time.Time `bson:"check_in_date" json:"check_in_date"`
	CheckOutDate time.Time `bson:"check_out_date" json:"check_out_date"`

	NightlyRate float64 `bson:"nightly_rate" json:"nightly_rate"`
	OwnerPrice  float64 `bson:"owner_price" json:"owner_price"`
	RavMarkup   float64 `bson:"rav_markup" json:"rav_markup"`
	FinalPrice  float64 `bson:"final_price" json:"final_price"`

	Status             ListingStatus      `bson:"status" json:"status"`
	CancellationPolicy CancellationPolicy `bson:"cancellation_policy" json:"cancellation_policy"`

	// Bidding configuration.
	OpenForBidding     bool       `bson:"open_for_bidding" json:"open_for_bidding"`
	BiddingEndsAt      *time.Time `bson:"bidding_ends_at,omitempty" json:"bidding_ends_at,omitempty"`
	MinBidAmount       *float64   `bson:"min_bid_amount,omitempty" json:"min_bid_amount,omitempty"`
	ReservePrice       *float64   `bson:"reserve_price,omitempty" json:"reserve_price,omitempty"`
	AllowCounterOffers bool       `bson:"allow_counter_offers" json:"allow_counter_offers"`

	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// BiddingConfig is the owner-supplied configuration applied when a listing is
// opened for bidding.
type BiddingConfig struct {
	BiddingEndsAt      time.Time `json:"bidding_ends_at"`
	MinBidAmount       *float64  `json:"min_bid_amount,omitempty"`
	ReservePrice       *float64  `json:"reserve_price,omitempty"`
	AllowCounterOffers bool      `json:"allow_counter_offers"`
}
