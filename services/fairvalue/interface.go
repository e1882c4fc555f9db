// File: services/fairvalue/interface.go
package fairvalue

import (
	"context"

	"ravmarket/models"
)

// FairValueService classifies a listing's asking price against comparable
// accepted bids in the same destination/bedroom bucket.
type FairValueService interface {
	// ClassifyListing computes (or serves from cache) the fair-value verdict
	// for one listing.
	ClassifyListing(ctx context.Context, listingID string) (*models.FairValueResult, error)
}
