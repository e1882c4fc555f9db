// File: services/escrow/service.go
package escrow

import (
	"context"
	"fmt"
	"time"

	"ravmarket/config"
	bookingRepo "ravmarket/database/repository/booking"
	escrowRepo "ravmarket/database/repository/escrow"
	listingRepo "ravmarket/database/repository/listing"
	"ravmarket/models"
	"ravmarket/services/notification"
	"ravmarket/services/payment"
	"ravmarket/utils"

	"go.uber.org/zap"
)

// DefaultEscrowService is the production implementation.
type DefaultEscrowService struct {
	escrows  escrowRepo.EscrowRepository
	bookings bookingRepo.BookingRepository
	listings listingRepo.ListingRepository
	payments payment.PaymentService
	notifier notification.NotificationService
	clock    utils.Clock
}

// NewDefaultEscrowService constructs the service.
func NewDefaultEscrowService(
	escrows escrowRepo.EscrowRepository,
	bookings bookingRepo.BookingRepository,
	listings listingRepo.ListingRepository,
	payments payment.PaymentService,
	notifier notification.NotificationService,
	clock utils.Clock,
) *DefaultEscrowService {
	return &DefaultEscrowService{
		escrows:  escrows,
		bookings: bookings,
		listings: listings,
		payments: payments,
		notifier: notifier,
		clock:    clock,
	}
}

func (s *DefaultEscrowService) GetConfirmation(ctx context.Context, id string) (*models.EscrowConfirmation, error) {
	return s.escrows.GetByID(ctx, id)
}

func (s *DefaultEscrowService) ListPendingForOwner(ctx context.Context, ownerID string) ([]models.EscrowConfirmation, error) {
	return s.escrows.ListPendingByOwner(ctx, ownerID)
}

func (s *DefaultEscrowService) Confirm(ctx context.Context, id, ownerID string) (*models.EscrowConfirmation, error) {
	esc, err := s.loadOwnedGate(ctx, id, ownerID, "confirm")
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !now.Before(esc.OwnerConfirmationDeadline) {
		// The sweep owns this record from the deadline instant on; confirming
		// late would give one confirmation two outcomes.
		return nil, &utils.DeadlineExpiredError{Deadline: esc.OwnerConfirmationDeadline.Format(time.RFC3339)}
	}

	ok, err := s.escrows.MarkOwnerConfirmed(ctx, esc.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm escrow %s: %w", esc.ID, err)
	}
	if !ok {
		return nil, &utils.ConcurrentModificationError{Entity: "escrow confirmation", ID: esc.ID}
	}

	utils.GetLogger().Info("Owner confirmed booking",
		zap.String("confirmation_id", esc.ID),
		zap.String("booking_id", esc.BookingID))

	if booking, err := s.bookings.GetByID(ctx, esc.BookingID); err == nil {
		s.notifier.Notify(ctx, models.NotificationPayload{
			UserID: booking.RenterID,
			Type:   models.NotifyBookingConfirmed,
			Data:   map[string]string{"booking_id": booking.ID},
		})
	}

	return s.escrows.GetByID(ctx, esc.ID)
}

func (s *DefaultEscrowService) Decline(ctx context.Context, id, ownerID, reason string) error {
	esc, err := s.loadOwnedGate(ctx, id, ownerID, "decline")
	if err != nil {
		return err
	}

	now := s.clock.Now()
	if !now.Before(esc.OwnerConfirmationDeadline) {
		return &utils.DeadlineExpiredError{Deadline: esc.OwnerConfirmationDeadline.Format(time.RFC3339)}
	}

	ok, err := s.escrows.MarkOwnerDeclined(ctx, esc.ID, now)
	if err != nil {
		return fmt.Errorf("failed to decline escrow %s: %w", esc.ID, err)
	}
	if !ok {
		return &utils.ConcurrentModificationError{Entity: "escrow confirmation", ID: esc.ID}
	}

	utils.GetLogger().Info("Owner declined booking",
		zap.String("confirmation_id", esc.ID),
		zap.String("booking_id", esc.BookingID),
		zap.String("reason", reason))

	s.unwindBooking(ctx, esc, models.NotifyBookingDeclined, now)
	return nil
}

func (s *DefaultEscrowService) RequestExtension(ctx context.Context, id, ownerID string) (*models.EscrowConfirmation, error) {
	esc, err := s.loadOwnedGate(ctx, id, ownerID, "extend")
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !now.Before(esc.OwnerConfirmationDeadline) {
		return nil, &utils.DeadlineExpiredError{Deadline: esc.OwnerConfirmationDeadline.Format(time.RFC3339)}
	}
	maxExts := config.AppConfig.OwnerConfirmMaxExts
	if esc.ExtensionsUsed >= maxExts {
		return nil, &utils.ExtensionLimitExceededError{Max: maxExts}
	}

	// Extend from the current deadline, never from now, so the deadline only
	// ever moves forward by the fixed increment.
	newDeadline := esc.OwnerConfirmationDeadline.Add(time.Duration(config.AppConfig.OwnerConfirmExtensionMin) * time.Minute)

	ok, err := s.escrows.ApplyExtension(ctx, esc.ID, esc.ExtensionsUsed, newDeadline)
	if err != nil {
		return nil, fmt.Errorf("failed to extend escrow %s: %w", esc.ID, err)
	}
	if !ok {
		return nil, &utils.ConcurrentModificationError{Entity: "escrow confirmation", ID: esc.ID}
	}

	utils.GetLogger().Info("Confirmation deadline extended",
		zap.String("confirmation_id", esc.ID),
		zap.Time("new_deadline", newDeadline),
		zap.Int("extensions_used", esc.ExtensionsUsed+1))

	return s.escrows.GetByID(ctx, esc.ID)
}

func (s *DefaultEscrowService) CountdownFor(ctx context.Context, id string) (*models.Countdown, error) {
	esc, err := s.escrows.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if esc.OwnerConfirmationStatus != models.OwnerPending {
		return &models.Countdown{Expired: true}, nil
	}
	cd := CountdownUntil(esc.OwnerConfirmationDeadline, s.clock.Now())
	return &cd, nil
}

func (s *DefaultEscrowService) SubmitResortConfirmation(ctx context.Context, id, ownerID, confirmationNumber string) error {
	if confirmationNumber == "" {
		return utils.NewValidationError("resort confirmation number is required")
	}
	esc, err := s.escrows.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch escrow confirmation %s: %w", id, err)
	}
	if esc.OwnerID != ownerID {
		return utils.NewValidationError("escrow confirmation %s does not belong to user %s", id, ownerID)
	}
	if esc.OwnerConfirmationStatus != models.OwnerConfirmed {
		return &utils.InvalidStateTransitionError{
			Entity: "escrow confirmation", State: string(esc.OwnerConfirmationStatus), Action: "submit evidence for",
		}
	}

	ok, err := s.escrows.SubmitResortConfirmation(ctx, esc.ID, confirmationNumber, s.clock.Now())
	if err != nil {
		return fmt.Errorf("failed to submit resort confirmation: %w", err)
	}
	if !ok {
		return &utils.InvalidStateTransitionError{
			Entity: "escrow confirmation", State: string(esc.EscrowStatus), Action: "submit evidence for",
		}
	}
	return nil
}

func (s *DefaultEscrowService) VerifyResortConfirmation(ctx context.Context, id string) error {
	ok, err := s.escrows.VerifyResortConfirmation(ctx, id, s.clock.Now())
	if err != nil {
		return fmt.Errorf("failed to verify resort confirmation: %w", err)
	}
	if !ok {
		return &utils.InvalidStateTransitionError{
			Entity: "escrow confirmation", State: "not confirmation_submitted", Action: "verify",
		}
	}
	return nil
}

// unwindBooking is the shared teardown when an owner gate resolves against
// the renter (decline or timeout): cancel the booking, put the listing back
// on the market, refund the renter in full, mark the escrow refunded.
func (s *DefaultEscrowService) unwindBooking(ctx context.Context, esc *models.EscrowConfirmation, notifyType models.NotificationType, now time.Time) {
	logger := utils.GetLogger()

	// A settled escrow was already refunded or paid out through another flow;
	// unwinding it again would move the money twice and could stomp a listing
	// that has since been re-booked.
	if esc.EscrowStatus == models.EscrowRefunded || esc.EscrowStatus == models.EscrowReleased {
		logger.Warn("Escrow already settled; skipping unwind",
			zap.String("confirmation_id", esc.ID),
			zap.String("escrow_status", string(esc.EscrowStatus)))
		return
	}

	if err := s.bookings.SetStatus(ctx, esc.BookingID, models.BookingCancelled); err != nil {
		logger.Error("Failed to cancel booking during escrow unwind",
			zap.String("booking_id", esc.BookingID), zap.Error(err))
	}
	if err := s.listings.Reactivate(ctx, esc.ListingID); err != nil {
		logger.Error("Failed to reactivate listing during escrow unwind",
			zap.String("listing_id", esc.ListingID), zap.Error(err))
	}

	booking, err := s.bookings.GetByID(ctx, esc.BookingID)
	if err != nil {
		logger.Error("Failed to fetch booking during escrow unwind",
			zap.String("booking_id", esc.BookingID), zap.Error(err))
	} else {
		if booking.PaymentIntentID != nil && *booking.PaymentIntentID != "" {
			if _, err := s.payments.RefundEscrow(ctx, *booking.PaymentIntentID, esc.EscrowAmount); err != nil {
				logger.Error("Escrow refund routing failed; needs manual retry",
					zap.String("booking_id", esc.BookingID), zap.Error(err))
			}
		} else {
			logger.Warn("Escrow unwind has no payment reference; refund needs manual routing",
				zap.String("booking_id", esc.BookingID))
		}
		s.notifier.Notify(ctx, models.NotificationPayload{
			UserID: booking.RenterID,
			Type:   notifyType,
			Data: map[string]string{
				"booking_id":    booking.ID,
				"refund_amount": fmt.Sprintf("%.2f", esc.EscrowAmount),
			},
		})
	}

	if err := s.escrows.MarkRefunded(ctx, esc.ID, now); err != nil {
		logger.Error("Failed to mark escrow refunded during unwind",
			zap.String("confirmation_id", esc.ID), zap.Error(err))
	}
}

// loadOwnedGate fetches a confirmation, checks ownership, and requires the
// owner gate to still be open.
func (s *DefaultEscrowService) loadOwnedGate(ctx context.Context, id, ownerID, action string) (*models.EscrowConfirmation, error) {
	esc, err := s.escrows.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch escrow confirmation %s: %w", id, err)
	}
	if esc.OwnerID != ownerID {
		return nil, utils.NewValidationError("escrow confirmation %s does not belong to user %s", id, ownerID)
	}
	if esc.OwnerConfirmationStatus != models.OwnerPending {
		return nil, &utils.InvalidStateTransitionError{
			Entity: "escrow confirmation", State: string(esc.OwnerConfirmationStatus), Action: action,
		}
	}
	return esc, nil
}
