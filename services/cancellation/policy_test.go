package cancellation

import (
	"testing"
	"time"

	"ravmarket/models"

	"github.com/stretchr/testify/assert"
)

func TestRefundFlexible(t *testing.T) {
	assert.Equal(t, 1000.0, Refund(1000, models.PolicyFlexible, 10))
	assert.Equal(t, 1000.0, Refund(1000, models.PolicyFlexible, 1))
	assert.Equal(t, 0.0, Refund(1000, models.PolicyFlexible, 0))
}

func TestRefundModerate(t *testing.T) {
	assert.Equal(t, 1000.0, Refund(1000, models.PolicyModerate, 5))
	assert.Equal(t, 500.0, Refund(1000, models.PolicyModerate, 4))
	assert.Equal(t, 500.0, Refund(1000, models.PolicyModerate, 1))
	assert.Equal(t, 0.0, Refund(1000, models.PolicyModerate, 0))
}

func TestRefundStrict(t *testing.T) {
	assert.Equal(t, 500.0, Refund(1000, models.PolicyStrict, 7))
	assert.Equal(t, 0.0, Refund(1000, models.PolicyStrict, 6))
	assert.Equal(t, 0.0, Refund(1000, models.PolicyStrict, 0))
}

func TestRefundSuperStrict(t *testing.T) {
	assert.Equal(t, 0.0, Refund(1000, models.PolicySuperStrict, 365))
}

func TestRefundUnknownPolicyRefundsNothing(t *testing.T) {
	assert.Equal(t, 0.0, Refund(1000, models.CancellationPolicy("mystery"), 30))
}

func TestRefundHalvesRoundToCents(t *testing.T) {
	// 333.33 * 0.5 = 166.665, which must land on a cent boundary.
	assert.Equal(t, 166.67, Refund(333.33, models.PolicyModerate, 3))
	assert.Equal(t, 166.67, Refund(333.33, models.PolicyStrict, 7))
}

// The quote percentage must agree with the computed amount at every boundary
// of every policy.
func TestQuoteMatchesRefundAtBoundaries(t *testing.T) {
	policies := []models.CancellationPolicy{
		models.PolicyFlexible, models.PolicyModerate, models.PolicyStrict, models.PolicySuperStrict,
	}
	const total = 1000.0

	for _, policy := range policies {
		for days := 0; days <= 10; days++ {
			amount := Refund(total, policy, days)
			quote := Quote(policy, days)
			expected := total * float64(quote.Percentage) / 100
			assert.InDelta(t, expected, amount, 0.01,
				"policy %s at %d days: quote says %d%% but amount is %.2f", policy, days, quote.Percentage, amount)
		}
	}
}

func TestDaysUntilCheckin(t *testing.T) {
	checkIn := time.Date(2026, 6, 10, 15, 0, 0, 0, time.UTC)

	// Same calendar day counts as zero regardless of clock time.
	assert.Equal(t, 0, DaysUntilCheckin(checkIn, time.Date(2026, 6, 10, 1, 0, 0, 0, time.UTC)))
	// Late the night before is still a full day out.
	assert.Equal(t, 1, DaysUntilCheckin(checkIn, time.Date(2026, 6, 9, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, 7, DaysUntilCheckin(checkIn, time.Date(2026, 6, 3, 12, 0, 0, 0, time.UTC)))
	// Past check-in goes negative.
	assert.Equal(t, -2, DaysUntilCheckin(checkIn, time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC)))
}

func TestEstimatePayoutDate(t *testing.T) {
	checkOut := time.Date(2026, 6, 15, 11, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 6, 20, 11, 0, 0, 0, time.UTC), EstimatePayoutDate(checkOut))
}
