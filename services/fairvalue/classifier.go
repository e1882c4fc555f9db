// File: services/fairvalue/classifier.go
package fairvalue

import (
	"math"

	"ravmarket/models"

	"github.com/montanaflynn/stats"
)

// BandConfig controls the comparable band: which percentiles bound "fair" and
// how many samples the verdict needs before it stops degrading to
// insufficient_data.
type BandConfig struct {
	LowPercentile  float64
	HighPercentile float64
	MinSamples     int
}

// Classify buckets a listing price against comparable accepted bid amounts.
// With fewer than MinSamples comparables the verdict degrades to
// insufficient_data and the range fields stay nil; the service never guesses
// from a thin sample.
func Classify(listingPrice float64, comparables []float64, cfg BandConfig) models.FairValueResult {
	result := models.FairValueResult{
		Tier:            models.TierInsufficientData,
		ComparableCount: len(comparables),
		ListingPrice:    listingPrice,
	}
	if len(comparables) < cfg.MinSamples {
		return result
	}

	data := stats.Float64Data(comparables)
	low, err := stats.Percentile(data, cfg.LowPercentile)
	if err != nil {
		return result
	}
	high, err := stats.Percentile(data, cfg.HighPercentile)
	if err != nil {
		return result
	}
	avg, err := stats.Mean(data)
	if err != nil {
		return result
	}

	low = roundCents(low)
	high = roundCents(high)
	avg = roundCents(avg)

	result.RangeLow = &low
	result.RangeHigh = &high
	result.AvgAcceptedBid = &avg

	switch {
	case listingPrice < low:
		result.Tier = models.TierBelowMarket
	case listingPrice > high:
		result.Tier = models.TierAboveMarket
	default:
		result.Tier = models.TierFairValue
	}
	return result
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
