package fairvalue

import (
	"testing"

	"ravmarket/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var band = BandConfig{LowPercentile: 25, HighPercentile: 75, MinSamples: 3}

func TestClassifyInsufficientData(t *testing.T) {
	result := Classify(500, []float64{480, 520}, band)

	assert.Equal(t, models.TierInsufficientData, result.Tier)
	assert.Equal(t, 2, result.ComparableCount)
	assert.Nil(t, result.RangeLow)
	assert.Nil(t, result.RangeHigh)
	assert.Nil(t, result.AvgAcceptedBid)
	assert.Equal(t, 500.0, result.ListingPrice)
}

func TestClassifyNoComparables(t *testing.T) {
	result := Classify(500, nil, band)
	assert.Equal(t, models.TierInsufficientData, result.Tier)
	assert.Equal(t, 0, result.ComparableCount)
}

func TestClassifyTiers(t *testing.T) {
	comparables := []float64{400, 450, 500, 550, 600}

	below := Classify(100, comparables, band)
	assert.Equal(t, models.TierBelowMarket, below.Tier)

	fair := Classify(500, comparables, band)
	assert.Equal(t, models.TierFairValue, fair.Tier)

	above := Classify(900, comparables, band)
	assert.Equal(t, models.TierAboveMarket, above.Tier)
}

func TestClassifyBandIsInclusive(t *testing.T) {
	comparables := []float64{400, 450, 500, 550, 600}
	probe := Classify(500, comparables, band)
	require.NotNil(t, probe.RangeLow)
	require.NotNil(t, probe.RangeHigh)

	// Prices exactly on the band edges count as fair.
	atLow := Classify(*probe.RangeLow, comparables, band)
	assert.Equal(t, models.TierFairValue, atLow.Tier)

	atHigh := Classify(*probe.RangeHigh, comparables, band)
	assert.Equal(t, models.TierFairValue, atHigh.Tier)

	justUnder := Classify(*probe.RangeLow-0.01, comparables, band)
	assert.Equal(t, models.TierBelowMarket, justUnder.Tier)

	justOver := Classify(*probe.RangeHigh+0.01, comparables, band)
	assert.Equal(t, models.TierAboveMarket, justOver.Tier)
}

func TestClassifyReportsAverage(t *testing.T) {
	result := Classify(500, []float64{400, 500, 600}, band)
	require.NotNil(t, result.AvgAcceptedBid)
	assert.Equal(t, 500.0, *result.AvgAcceptedBid)
	assert.Equal(t, 3, result.ComparableCount)
}
