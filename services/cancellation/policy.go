package cancellation

import (
	"math"
	"time"

	"ravmarket/models"
)

// PayoutHoldDays is the processing offset between checkout and the estimated
// owner payout date.
const PayoutHoldDays = 5

// Refund computes the policy-based refund amount for a renter cancellation.
// Unknown policies refund nothing rather than erroring: fund safety over
// crash-on-bad-data.
func Refund(totalAmount float64, policy models.CancellationPolicy, daysUntilCheckin int) float64 {
	switch policy {
	case models.PolicyFlexible:
		// Full refund up to 24 hours before check-in.
		if daysUntilCheckin >= 1 {
			return totalAmount
		}
		return 0
	case models.PolicyModerate:
		// Full refund 5+ days out, 50% for 1-4 days, nothing after.
		if daysUntilCheckin >= 5 {
			return totalAmount
		}
		if daysUntilCheckin >= 1 {
			return roundCents(totalAmount * 0.5)
		}
		return 0
	case models.PolicyStrict:
		// 50% refund 7+ days out, nothing after.
		if daysUntilCheckin >= 7 {
			return roundCents(totalAmount * 0.5)
		}
		return 0
	case models.PolicySuperStrict:
		return 0
	default:
		return 0
	}
}

// Quote returns the human-readable companion of Refund. The thresholds here
// must stay in lock-step with Refund at every boundary.
func Quote(policy models.CancellationPolicy, daysUntilCheckin int) models.RefundQuote {
	switch policy {
	case models.PolicyFlexible:
		if daysUntilCheckin >= 1 {
			return models.RefundQuote{Percentage: 100, Description: "Full refund available"}
		}
		return models.RefundQuote{Percentage: 0, Description: "No refund - less than 24 hours before check-in"}
	case models.PolicyModerate:
		if daysUntilCheckin >= 5 {
			return models.RefundQuote{Percentage: 100, Description: "Full refund available (5+ days before)"}
		}
		if daysUntilCheckin >= 1 {
			return models.RefundQuote{Percentage: 50, Description: "50% refund available (1-4 days before)"}
		}
		return models.RefundQuote{Percentage: 0, Description: "No refund - less than 24 hours before check-in"}
	case models.PolicyStrict:
		if daysUntilCheckin >= 7 {
			return models.RefundQuote{Percentage: 50, Description: "50% refund available (7+ days before)"}
		}
		return models.RefundQuote{Percentage: 0, Description: "No refund - less than 7 days before check-in"}
	case models.PolicySuperStrict:
		return models.RefundQuote{Percentage: 0, Description: "This booking is non-refundable"}
	default:
		return models.RefundQuote{Percentage: 0, Description: "Refund policy not available"}
	}
}

// DaysUntilCheckin is the whole-day difference between check-in and now, both
// normalized to local midnight, so a same-calendar-day cancellation yields 0.
func DaysUntilCheckin(checkIn, now time.Time) int {
	checkInMidnight := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, checkIn.Location())
	nowMidnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return int(checkInMidnight.Sub(nowMidnight).Hours() / 24)
}

// EstimatePayoutDate is checkout plus the fixed processing offset. Not gated
// by policy; other components use it to show owners when funds land.
func EstimatePayoutDate(checkOut time.Time) time.Time {
	return checkOut.AddDate(0, 0, PayoutHoldDays)
}

func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
