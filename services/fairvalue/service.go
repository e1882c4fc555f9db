// File: services/fairvalue/service.go
package fairvalue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ravmarket/config"
	bidRepo "ravmarket/database/repository/bid"
	listingRepo "ravmarket/database/repository/listing"
	"ravmarket/models"
	"ravmarket/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DefaultFairValueService is the production implementation: comparables come
// from accepted bids inside a rolling window, verdicts are cached briefly so
// listing pages don't recompute the aggregation per view.
type DefaultFairValueService struct {
	listings listingRepo.ListingRepository
	bids     bidRepo.BidRepository
	cache    *redis.Client
	clock    utils.Clock
}

// NewDefaultFairValueService constructs the service. A nil cache disables
// caching (used in tests).
func NewDefaultFairValueService(
	listings listingRepo.ListingRepository,
	bids bidRepo.BidRepository,
	cache *redis.Client,
	clock utils.Clock,
) *DefaultFairValueService {
	return &DefaultFairValueService{
		listings: listings,
		bids:     bids,
		cache:    cache,
		clock:    clock,
	}
}

func (s *DefaultFairValueService) ClassifyListing(ctx context.Context, listingID string) (*models.FairValueResult, error) {
	logger := utils.GetLogger()

	if cached := s.cachedResult(ctx, listingID); cached != nil {
		return cached, nil
	}

	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing %s: %w", listingID, err)
	}

	now := s.clock.Now()
	since := now.AddDate(0, 0, -config.AppConfig.FairValueWindowDays)
	comparables, err := s.bids.ComparableAcceptedAmounts(ctx, listing.Destination, listing.Bedrooms, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comparable bids: %w", err)
	}

	result := Classify(listing.FinalPrice, comparables, BandConfig{
		LowPercentile:  config.AppConfig.FairValueLowPctile,
		HighPercentile: config.AppConfig.FairValueHighPctile,
		MinSamples:     config.AppConfig.FairValueMinSamples,
	})

	logger.Debug("Fair value classified",
		zap.String("listing_id", listingID),
		zap.String("tier", string(result.Tier)),
		zap.Int("comparables", result.ComparableCount))

	s.storeResult(ctx, listingID, &result)
	return &result, nil
}

func (s *DefaultFairValueService) cachedResult(ctx context.Context, listingID string) *models.FairValueResult {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, cacheKey(listingID)).Result()
	if err != nil {
		return nil
	}
	var result models.FairValueResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil
	}
	return &result
}

func (s *DefaultFairValueService) storeResult(ctx context.Context, listingID string, result *models.FairValueResult) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(result)
	if err != nil {
		return
	}
	ttl := time.Duration(config.AppConfig.FairValueCacheTTLMin) * time.Minute
	if err := s.cache.Set(ctx, cacheKey(listingID), b, ttl).Err(); err != nil {
		utils.GetLogger().Warn("Failed to cache fair value result",
			zap.String("listing_id", listingID), zap.Error(err))
	}
}

func cacheKey(listingID string) string {
	return "fairvalue:" + listingID
}
