// File: services/cancellation/service.go
package cancellation

import (
	"context"
	"fmt"
	"time"

	bookingRepo "ravmarket/database/repository/booking"
	cancellationRepo "ravmarket/database/repository/cancellation"
	escrowRepo "ravmarket/database/repository/escrow"
	listingRepo "ravmarket/database/repository/listing"
	"ravmarket/models"
	"ravmarket/services/notification"
	"ravmarket/services/payment"
	"ravmarket/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultCancellationService is the production implementation.
type DefaultCancellationService struct {
	bookings      bookingRepo.BookingRepository
	listings      listingRepo.ListingRepository
	escrows       escrowRepo.EscrowRepository
	cancellations cancellationRepo.CancellationRepository
	payments      payment.PaymentService
	notifier      notification.NotificationService
	clock         utils.Clock
}

// NewDefaultCancellationService constructs the service.
func NewDefaultCancellationService(
	bookings bookingRepo.BookingRepository,
	listings listingRepo.ListingRepository,
	escrows escrowRepo.EscrowRepository,
	cancellations cancellationRepo.CancellationRepository,
	payments payment.PaymentService,
	notifier notification.NotificationService,
	clock utils.Clock,
) *DefaultCancellationService {
	return &DefaultCancellationService{
		bookings:      bookings,
		listings:      listings,
		escrows:       escrows,
		cancellations: cancellations,
		payments:      payments,
		notifier:      notifier,
		clock:         clock,
	}
}

func (s *DefaultCancellationService) PreviewRefund(ctx context.Context, bookingID, requesterID string) (*RefundPreview, error) {
	booking, listing, role, err := s.loadCancellable(ctx, bookingID, requesterID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	days := DaysUntilCheckin(listing.CheckInDate, now)

	var amount float64
	var quote models.RefundQuote
	if role == "owner" {
		// Owners cancelling on a renter never short the renter.
		amount = booking.TotalAmount
		quote = models.RefundQuote{Percentage: 100, Description: "Full refund - cancelled by owner"}
	} else {
		amount = Refund(booking.TotalAmount, listing.CancellationPolicy, days)
		quote = Quote(listing.CancellationPolicy, days)
	}

	return &RefundPreview{
		Quote:            quote,
		RefundAmount:     amount,
		DaysUntilCheckin: days,
		PayoutDate:       EstimatePayoutDate(listing.CheckOutDate),
	}, nil
}

func (s *DefaultCancellationService) CancelBooking(ctx context.Context, bookingID, requesterID, reason string) (*models.CancellationRequest, error) {
	logger := utils.GetLogger()

	booking, listing, role, err := s.loadCancellable(ctx, bookingID, requesterID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	days := DaysUntilCheckin(listing.CheckInDate, now)

	policyAmount := Refund(booking.TotalAmount, listing.CancellationPolicy, days)
	finalAmount := policyAmount
	if role == "owner" {
		finalAmount = booking.TotalAmount
	}

	record := &models.CancellationRequest{
		ID:                 uuid.New().String(),
		BookingID:          booking.ID,
		RequesterID:        requesterID,
		CancelledBy:        role,
		Reason:             reason,
		Status:             models.CancellationApproved,
		DaysUntilCheckin:   days,
		PolicyRefundAmount: policyAmount,
		FinalRefundAmount:  finalAmount,
		CreatedAt:          now,
	}

	// Teardown order: booking first so no second cancellation can slip in,
	// then escrow, then the listing back onto the market. Each step logs and
	// continues on failure; a partial teardown is recoverable from the
	// record, a silently missing record is not.
	if err := s.bookings.SetStatus(ctx, booking.ID, models.BookingCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel booking %s: %w", booking.ID, err)
	}

	if esc, err := s.escrows.GetByBookingID(ctx, booking.ID); err == nil && esc != nil {
		if err := s.escrows.MarkRefunded(ctx, esc.ID, now); err != nil {
			logger.Error("Failed to mark escrow refunded after cancellation",
				zap.String("booking_id", booking.ID), zap.Error(err))
		}
		// Close a still-open owner gate so the timeout sweep cannot pick this
		// escrow up later and route a second refund. A false guard just means
		// the gate already resolved.
		if _, err := s.escrows.VoidOwnerGate(ctx, esc.ID, now); err != nil {
			logger.Error("Failed to void owner gate after cancellation",
				zap.String("confirmation_id", esc.ID), zap.Error(err))
		}
	}

	if err := s.listings.Reactivate(ctx, listing.ID); err != nil {
		logger.Error("Failed to reactivate listing after cancellation",
			zap.String("listing_id", listing.ID), zap.Error(err))
	}

	s.routeRefund(ctx, booking, record)

	if err := s.cancellations.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record cancellation: %w", err)
	}

	logger.Info("Booking cancelled",
		zap.String("booking_id", booking.ID),
		zap.String("cancelled_by", role),
		zap.Float64("refund", finalAmount))

	s.notifier.Notify(ctx, models.NotificationPayload{
		UserID: booking.RenterID,
		Type:   models.NotifyBookingCancelled,
		Data: map[string]string{
			"booking_id":    booking.ID,
			"refund_amount": fmt.Sprintf("%.2f", finalAmount),
		},
	})
	if role == "renter" {
		s.notifier.Notify(ctx, models.NotificationPayload{
			UserID: listing.OwnerID,
			Type:   models.NotifyBookingCancelled,
			Data:   map[string]string{"booking_id": booking.ID},
		})
	}

	return record, nil
}

// routeRefund pushes the refund to the payment processor. Failures do not
// fail the cancellation: the record keeps pending status so a retry path can
// find it.
func (s *DefaultCancellationService) routeRefund(ctx context.Context, booking *models.Booking, record *models.CancellationRequest) {
	if record.FinalRefundAmount <= 0 {
		record.Status = models.CancellationCompleted
		return
	}
	if booking.PaymentIntentID == nil || *booking.PaymentIntentID == "" {
		record.Status = models.CancellationPending
		utils.GetLogger().Warn("Cancellation has no payment reference; refund needs manual routing",
			zap.String("booking_id", booking.ID))
		return
	}

	ref, err := s.payments.RefundEscrow(ctx, *booking.PaymentIntentID, record.FinalRefundAmount)
	if err != nil {
		record.Status = models.CancellationPending
		utils.GetLogger().Error("Refund routing failed; left pending for retry",
			zap.String("booking_id", booking.ID), zap.Error(err))
		return
	}

	processedAt := s.clock.Now()
	record.RefundReference = &ref
	record.RefundProcessedAt = &processedAt
	record.Status = models.CancellationCompleted
}

// loadCancellable fetches the booking and listing and resolves the
// requester's role, enforcing every precondition of a cancellation.
func (s *DefaultCancellationService) loadCancellable(ctx context.Context, bookingID, requesterID string) (*models.Booking, *models.Listing, string, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}
	if booking.Status != models.BookingConfirmed {
		return nil, nil, "", &utils.InvalidStateTransitionError{
			Entity: "booking", State: string(booking.Status), Action: "cancel",
		}
	}

	listing, err := s.listings.GetByID(ctx, booking.ListingID)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to fetch listing %s: %w", booking.ListingID, err)
	}

	var role string
	switch requesterID {
	case booking.RenterID:
		role = "renter"
	case listing.OwnerID:
		role = "owner"
	default:
		return nil, nil, "", utils.NewValidationError("user %s is not a party to booking %s", requesterID, bookingID)
	}

	// A stay already underway cannot be cancelled through this flow.
	if role == "renter" && s.clock.Now().After(listing.CheckInDate) {
		return nil, nil, "", &utils.DeadlineExpiredError{Deadline: listing.CheckInDate.Format(time.RFC3339)}
	}

	return booking, listing, role, nil
}
