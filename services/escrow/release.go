// File: services/escrow/release.go
package escrow

import (
	"context"
	"fmt"
	"time"

	"ravmarket/config"
	"ravmarket/models"
	"ravmarket/utils"

	"go.uber.org/zap"
)

// SweepTimeouts expires every owner gate past its deadline. The repository
// transitions each record under a pending guard, so an owner action landing
// mid-sweep wins and the record is skipped here. Safe to run repeatedly.
func (s *DefaultEscrowService) SweepTimeouts(ctx context.Context, now time.Time) (int, error) {
	timedOut, err := s.escrows.SweepTimedOut(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("escrow timeout sweep failed: %w", err)
	}
	if len(timedOut) == 0 {
		return 0, nil
	}

	utils.GetLogger().Info("Timed out owner confirmations", zap.Int("count", len(timedOut)))

	for i := range timedOut {
		esc := timedOut[i]
		s.unwindBooking(ctx, &esc, models.NotifyBookingDeclined, now)
		s.notifier.Notify(ctx, models.NotificationPayload{
			UserID: esc.OwnerID,
			Type:   models.NotifyBookingDeclined,
			Data: map[string]string{
				"booking_id": esc.BookingID,
				"reason":     "confirmation window expired",
			},
		})
	}
	return len(timedOut), nil
}

// ReleaseEligible pays out every escrow past the post-checkout hold with a
// confirmed owner and verified resort evidence. Each release is guarded on
// the verified state so a repeated run cannot pay an owner twice.
func (s *DefaultEscrowService) ReleaseEligible(ctx context.Context, now time.Time) (int, error) {
	logger := utils.GetLogger()

	cutoff := now.AddDate(0, 0, -config.AppConfig.EscrowHoldDays)
	eligible, err := s.escrows.FindReleasable(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to find releasable escrows: %w", err)
	}

	released := 0
	for i := range eligible {
		esc := eligible[i]

		booking, err := s.bookings.GetByID(ctx, esc.BookingID)
		if err != nil {
			logger.Error("Failed to fetch booking for release",
				zap.String("booking_id", esc.BookingID), zap.Error(err))
			continue
		}

		ok, err := s.escrows.MarkReleased(ctx, esc.ID, now)
		if err != nil {
			logger.Error("Failed to mark escrow released",
				zap.String("confirmation_id", esc.ID), zap.Error(err))
			continue
		}
		if !ok {
			// Another sweep instance got here first.
			continue
		}

		if err := s.bookings.SetPayoutStatus(ctx, booking.ID, models.PayoutProcessing); err != nil {
			logger.Error("Failed to set payout status",
				zap.String("booking_id", booking.ID), zap.Error(err))
		}

		if _, err := s.payments.PayoutOwner(ctx, esc.OwnerID, booking.OwnerPayout, booking.ID); err != nil {
			logger.Error("Owner payout routing failed; needs manual retry",
				zap.String("booking_id", booking.ID), zap.Error(err))
			if err := s.bookings.SetPayoutStatus(ctx, booking.ID, models.PayoutFailed); err != nil {
				logger.Error("Failed to mark payout failed",
					zap.String("booking_id", booking.ID), zap.Error(err))
			}
		} else {
			if err := s.bookings.SetPayoutStatus(ctx, booking.ID, models.PayoutPaid); err != nil {
				logger.Error("Failed to mark payout paid",
					zap.String("booking_id", booking.ID), zap.Error(err))
			}
			if err := s.bookings.SetStatus(ctx, booking.ID, models.BookingCompleted); err != nil {
				logger.Error("Failed to complete booking after payout",
					zap.String("booking_id", booking.ID), zap.Error(err))
			}
		}
		released++
	}

	if released > 0 {
		logger.Info("Released escrowed payouts", zap.Int("count", released))
	}
	return released, nil
}
