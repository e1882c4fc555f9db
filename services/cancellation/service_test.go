package cancellation

import (
	"context"
	"fmt"
	"testing"
	"time"

	bookingRepo "ravmarket/database/repository/booking"
	"ravmarket/models"
	"ravmarket/services/notification"
	"ravmarket/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- in-memory fakes ---

type fakeBookings struct {
	bookings map[string]*models.Booking
}

func (f *fakeBookings) GetByID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s not found", id)
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookings) ListByRenter(context.Context, string) ([]models.Booking, error) {
	return nil, nil
}

func (f *fakeBookings) SetStatus(_ context.Context, id string, status models.BookingStatus) error {
	f.bookings[id].Status = status
	return nil
}

func (f *fakeBookings) SetPayoutStatus(_ context.Context, id string, status models.PayoutStatus) error {
	f.bookings[id].PayoutStatus = status
	return nil
}

func (f *fakeBookings) AcceptBidTransactionally(context.Context, bookingRepo.AcceptBidParams) error {
	return fmt.Errorf("not used")
}

type fakeListings struct {
	listings map[string]*models.Listing
}

func (f *fakeListings) Create(_ context.Context, l *models.Listing) error {
	f.listings[l.ID] = l
	return nil
}

func (f *fakeListings) GetByID(_ context.Context, id string) (*models.Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return nil, fmt.Errorf("listing %s not found", id)
	}
	cp := *l
	return &cp, nil
}

func (f *fakeListings) OpenForBidding(context.Context, string, string, models.BiddingConfig) (*models.Listing, error) {
	return nil, fmt.Errorf("not used")
}

func (f *fakeListings) SetStatus(_ context.Context, id string, status models.ListingStatus) error {
	f.listings[id].Status = status
	return nil
}

func (f *fakeListings) Reactivate(_ context.Context, id string) error {
	f.listings[id].Status = models.ListingActive
	return nil
}

type fakeEscrows struct {
	confirmations map[string]*models.EscrowConfirmation
}

func (f *fakeEscrows) GetByID(_ context.Context, id string) (*models.EscrowConfirmation, error) {
	e, ok := f.confirmations[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEscrows) GetByBookingID(_ context.Context, bookingID string) (*models.EscrowConfirmation, error) {
	for _, e := range f.confirmations {
		if e.BookingID == bookingID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("no escrow for booking %s", bookingID)
}

func (f *fakeEscrows) ListPendingByOwner(context.Context, string) ([]models.EscrowConfirmation, error) {
	return nil, nil
}

func (f *fakeEscrows) MarkOwnerConfirmed(context.Context, string, time.Time) (bool, error) {
	return false, nil
}

func (f *fakeEscrows) MarkOwnerDeclined(context.Context, string, time.Time) (bool, error) {
	return false, nil
}

func (f *fakeEscrows) VoidOwnerGate(_ context.Context, id string, at time.Time) (bool, error) {
	e, ok := f.confirmations[id]
	if !ok || e.OwnerConfirmationStatus != models.OwnerPending {
		return false, nil
	}
	e.OwnerConfirmationStatus = models.OwnerVoided
	e.OwnerDeclinedAt = &at
	return true, nil
}

func (f *fakeEscrows) ApplyExtension(context.Context, string, int, time.Time) (bool, error) {
	return false, nil
}

func (f *fakeEscrows) SweepTimedOut(context.Context, time.Time) ([]models.EscrowConfirmation, error) {
	return nil, nil
}

func (f *fakeEscrows) SubmitResortConfirmation(context.Context, string, string, time.Time) (bool, error) {
	return false, nil
}

func (f *fakeEscrows) VerifyResortConfirmation(context.Context, string, time.Time) (bool, error) {
	return false, nil
}

func (f *fakeEscrows) MarkReleased(context.Context, string, time.Time) (bool, error) {
	return false, nil
}

func (f *fakeEscrows) MarkRefunded(_ context.Context, id string, at time.Time) error {
	f.confirmations[id].EscrowStatus = models.EscrowRefunded
	f.confirmations[id].EscrowRefundedAt = &at
	return nil
}

func (f *fakeEscrows) FindReleasable(context.Context, time.Time) ([]models.EscrowConfirmation, error) {
	return nil, nil
}

type fakeCancellations struct {
	records []*models.CancellationRequest
}

func (f *fakeCancellations) Create(_ context.Context, r *models.CancellationRequest) error {
	f.records = append(f.records, r)
	return nil
}

func (f *fakeCancellations) ListByBooking(_ context.Context, bookingID string) ([]models.CancellationRequest, error) {
	var out []models.CancellationRequest
	for _, r := range f.records {
		if r.BookingID == bookingID {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakePayments struct {
	refunds   []float64
	refundErr error
}

func (f *fakePayments) RefundEscrow(_ context.Context, _ string, amount float64) (string, error) {
	if f.refundErr != nil {
		return "", f.refundErr
	}
	f.refunds = append(f.refunds, amount)
	return "re_test", nil
}

func (f *fakePayments) PayoutOwner(context.Context, string, float64, string) (string, error) {
	return "", fmt.Errorf("not used")
}

// --- harness ---

type cancelFixture struct {
	svc           *DefaultCancellationService
	bookings      *fakeBookings
	listings      *fakeListings
	escrows       *fakeEscrows
	cancellations *fakeCancellations
	payments      *fakePayments
	now           time.Time
}

func newCancelFixture(t *testing.T, policy models.CancellationPolicy, daysOut int) *cancelFixture {
	t.Helper()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	pi := "pi_test"

	listings := &fakeListings{listings: map[string]*models.Listing{
		"listing-1": {
			ID:                 "listing-1",
			OwnerID:            "owner-1",
			Status:             models.ListingBooked,
			CancellationPolicy: policy,
			CheckInDate:        now.AddDate(0, 0, daysOut),
			CheckOutDate:       now.AddDate(0, 0, daysOut+7),
		},
	}}
	bookings := &fakeBookings{bookings: map[string]*models.Booking{
		"booking-1": {
			ID:              "booking-1",
			ListingID:       "listing-1",
			RenterID:        "renter-1",
			TotalAmount:     1000,
			Status:          models.BookingConfirmed,
			PaymentIntentID: &pi,
		},
	}}
	escrows := &fakeEscrows{confirmations: map[string]*models.EscrowConfirmation{
		"esc-1": {
			ID:           "esc-1",
			BookingID:    "booking-1",
			ListingID:    "listing-1",
			OwnerID:      "owner-1",
			EscrowAmount:              1000,
			EscrowStatus:              models.EscrowPendingConfirmation,
			OwnerConfirmationStatus:   models.OwnerPending,
			OwnerConfirmationDeadline: now.Add(time.Hour),
		},
	}}
	cancellations := &fakeCancellations{}
	payments := &fakePayments{}

	svc := NewDefaultCancellationService(bookings, listings, escrows, cancellations, payments,
		notification.NoopNotificationService{}, utils.FixedClock{Instant: now})
	return &cancelFixture{
		svc: svc, bookings: bookings, listings: listings,
		escrows: escrows, cancellations: cancellations, payments: payments, now: now,
	}
}

// --- tests ---

func TestCancelByRenterStrictPolicy(t *testing.T) {
	fx := newCancelFixture(t, models.PolicyStrict, 10)

	record, err := fx.svc.CancelBooking(context.Background(), "booking-1", "renter-1", "plans changed")
	require.NoError(t, err)

	assert.Equal(t, "renter", record.CancelledBy)
	assert.Equal(t, 10, record.DaysUntilCheckin)
	assert.Equal(t, 500.0, record.PolicyRefundAmount)
	assert.Equal(t, 500.0, record.FinalRefundAmount)
	assert.Equal(t, models.CancellationCompleted, record.Status)
	require.NotNil(t, record.RefundReference)

	assert.Equal(t, models.BookingCancelled, fx.bookings.bookings["booking-1"].Status)
	assert.Equal(t, models.ListingActive, fx.listings.listings["listing-1"].Status)
	assert.Equal(t, models.EscrowRefunded, fx.escrows.confirmations["esc-1"].EscrowStatus)
	require.Len(t, fx.payments.refunds, 1)
	assert.Equal(t, 500.0, fx.payments.refunds[0])
}

func TestCancelClosesOpenOwnerGate(t *testing.T) {
	fx := newCancelFixture(t, models.PolicySuperStrict, 10)

	_, err := fx.svc.CancelBooking(context.Background(), "booking-1", "renter-1", "plans changed")
	require.NoError(t, err)

	// The open gate must resolve terminally with the cancellation, or the
	// escrow timeout sweep would later treat this record as an owner timeout
	// and refund an escrow that was already settled.
	assert.Equal(t, models.OwnerVoided, fx.escrows.confirmations["esc-1"].OwnerConfirmationStatus)
	assert.Equal(t, models.EscrowRefunded, fx.escrows.confirmations["esc-1"].EscrowStatus)
	// super_strict renter cancellation: nothing routed.
	assert.Empty(t, fx.payments.refunds)
}

func TestCancelByOwnerOverridesPolicy(t *testing.T) {
	fx := newCancelFixture(t, models.PolicySuperStrict, 2)

	record, err := fx.svc.CancelBooking(context.Background(), "booking-1", "owner-1", "pipe burst")
	require.NoError(t, err)

	assert.Equal(t, "owner", record.CancelledBy)
	// super_strict pays the renter nothing on a renter cancellation, but the
	// owner backing out always refunds in full.
	assert.Equal(t, 0.0, record.PolicyRefundAmount)
	assert.Equal(t, 1000.0, record.FinalRefundAmount)
	require.Len(t, fx.payments.refunds, 1)
	assert.Equal(t, 1000.0, fx.payments.refunds[0])
}

func TestCancelInsideWindowNoRefund(t *testing.T) {
	fx := newCancelFixture(t, models.PolicyStrict, 2)

	record, err := fx.svc.CancelBooking(context.Background(), "booking-1", "renter-1", "")
	require.NoError(t, err)

	assert.Equal(t, 0.0, record.FinalRefundAmount)
	assert.Equal(t, models.CancellationCompleted, record.Status)
	// Nothing to route.
	assert.Empty(t, fx.payments.refunds)
	// The booking is still torn down.
	assert.Equal(t, models.BookingCancelled, fx.bookings.bookings["booking-1"].Status)
}

func TestCancelRequiresConfirmedBooking(t *testing.T) {
	fx := newCancelFixture(t, models.PolicyFlexible, 10)
	fx.bookings.bookings["booking-1"].Status = models.BookingCancelled

	var stateErr *utils.InvalidStateTransitionError
	_, err := fx.svc.CancelBooking(context.Background(), "booking-1", "renter-1", "")
	assert.ErrorAs(t, err, &stateErr)
}

func TestCancelByStrangerRejected(t *testing.T) {
	fx := newCancelFixture(t, models.PolicyFlexible, 10)

	var validationErr *utils.ValidationError
	_, err := fx.svc.CancelBooking(context.Background(), "booking-1", "stranger", "")
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, models.BookingConfirmed, fx.bookings.bookings["booking-1"].Status)
}

func TestCancelAfterCheckinRejected(t *testing.T) {
	fx := newCancelFixture(t, models.PolicyFlexible, 10)
	fx.listings.listings["listing-1"].CheckInDate = fx.now.AddDate(0, 0, -1)

	var deadlineErr *utils.DeadlineExpiredError
	_, err := fx.svc.CancelBooking(context.Background(), "booking-1", "renter-1", "")
	assert.ErrorAs(t, err, &deadlineErr)
}

func TestCancelRefundRoutingFailureLeavesPending(t *testing.T) {
	fx := newCancelFixture(t, models.PolicyFlexible, 10)
	fx.payments.refundErr = fmt.Errorf("processor down")

	record, err := fx.svc.CancelBooking(context.Background(), "booking-1", "renter-1", "")
	require.NoError(t, err)

	// The cancellation sticks, but the record stays pending for a retry.
	assert.Equal(t, models.CancellationPending, record.Status)
	assert.Nil(t, record.RefundReference)
	assert.Equal(t, models.BookingCancelled, fx.bookings.bookings["booking-1"].Status)
}

func TestPreviewRefundMatchesCancellation(t *testing.T) {
	fx := newCancelFixture(t, models.PolicyModerate, 3)

	preview, err := fx.svc.PreviewRefund(context.Background(), "booking-1", "renter-1")
	require.NoError(t, err)
	assert.Equal(t, 50, preview.Quote.Percentage)
	assert.Equal(t, 500.0, preview.RefundAmount)
	assert.Equal(t, 3, preview.DaysUntilCheckin)

	record, err := fx.svc.CancelBooking(context.Background(), "booking-1", "renter-1", "")
	require.NoError(t, err)
	assert.Equal(t, preview.RefundAmount, record.FinalRefundAmount)
}
