package models

// FairValueTier classifies a listing price against comparable accepted bids.
type FairValueTier string

const (
	TierBelowMarket      FairValueTier = "below_market"
	TierFairValue        FairValueTier = "fair_value"
	TierAboveMarket      FairValueTier = "above_market"
	TierInsufficientData FairValueTier = "insufficient_data"
)

// FairValueResult is derived, never persisted. Range fields are nil when the
// comparable sample is too small.
type FairValueResult struct {
	Tier            FairValueTier `json:"tier"`
	RangeLow        *float64      `json:"range_low,omitempty"`
	RangeHigh       *float64      `json:"range_high,omitempty"`
	AvgAcceptedBid  *float64      `json:"avg_accepted_bid,omitempty"`
	ComparableCount int           `json:"comparable_count"`
	ListingPrice    float64       `json:"listing_price"`
}
