// File: services/escrow/countdown.go
package escrow

import (
	"time"

	"ravmarket/models"
)

// CountdownUntil derives the remaining time on a deadline. It is recomputed
// on every read; nothing ticks server-side.
func CountdownUntil(deadline, now time.Time) models.Countdown {
	remaining := deadline.Sub(now)
	if remaining <= 0 {
		return models.Countdown{Expired: true}
	}
	total := int(remaining.Seconds())
	return models.Countdown{
		Hours:   total / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}
