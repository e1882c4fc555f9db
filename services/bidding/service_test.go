package bidding

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ravmarket/config"
	bookingRepo "ravmarket/database/repository/booking"
	"ravmarket/models"
	"ravmarket/services/notification"
	"ravmarket/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.AppConfig.CommissionRatePct = 15.0
	config.AppConfig.OwnerConfirmWindowMins = 60
	m.Run()
}

// --- in-memory fakes ---

type fakeListingRepo struct {
	listings map[string]*models.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[string]*models.Listing)}
}

func (f *fakeListingRepo) Create(_ context.Context, l *models.Listing) error {
	f.listings[l.ID] = l
	return nil
}

func (f *fakeListingRepo) GetByID(_ context.Context, id string) (*models.Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return nil, fmt.Errorf("listing %s not found", id)
	}
	cp := *l
	return &cp, nil
}

func (f *fakeListingRepo) OpenForBidding(_ context.Context, id, ownerID string, cfg models.BiddingConfig) (*models.Listing, error) {
	l, ok := f.listings[id]
	if !ok || l.OwnerID != ownerID || l.Status != models.ListingActive {
		return nil, fmt.Errorf("listing %s cannot be opened", id)
	}
	l.OpenForBidding = true
	l.BiddingEndsAt = &cfg.BiddingEndsAt
	l.MinBidAmount = cfg.MinBidAmount
	l.ReservePrice = cfg.ReservePrice
	l.AllowCounterOffers = cfg.AllowCounterOffers
	cp := *l
	return &cp, nil
}

func (f *fakeListingRepo) SetStatus(_ context.Context, id string, status models.ListingStatus) error {
	f.listings[id].Status = status
	return nil
}

func (f *fakeListingRepo) Reactivate(_ context.Context, id string) error {
	f.listings[id].Status = models.ListingActive
	f.listings[id].OpenForBidding = false
	return nil
}

type fakeBidRepo struct {
	bids     map[string]*models.Bid
	listings *fakeListingRepo
}

func newFakeBidRepo(listings *fakeListingRepo) *fakeBidRepo {
	return &fakeBidRepo{bids: make(map[string]*models.Bid), listings: listings}
}

func (f *fakeBidRepo) Create(_ context.Context, b *models.Bid) error {
	f.bids[b.ID] = b
	return nil
}

func (f *fakeBidRepo) GetByID(_ context.Context, id string) (*models.Bid, error) {
	b, ok := f.bids[id]
	if !ok {
		return nil, fmt.Errorf("bid %s not found", id)
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBidRepo) ListByListing(_ context.Context, listingID string) ([]models.Bid, error) {
	var out []models.Bid
	for _, b := range f.bids {
		if b.ListingID == listingID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBidRepo) ListByBidder(_ context.Context, bidderID string) ([]models.Bid, error) {
	var out []models.Bid
	for _, b := range f.bids {
		if b.BidderID == bidderID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBidRepo) TransitionIfPending(_ context.Context, id string, to models.BidStatus, at time.Time) (bool, error) {
	b, ok := f.bids[id]
	if !ok || b.Status != models.BidPending {
		return false, nil
	}
	b.Status = to
	b.RespondedAt = &at
	return true, nil
}

func (f *fakeBidRepo) SetCounterOffer(_ context.Context, id string, amount float64, message string, at time.Time) (bool, error) {
	b, ok := f.bids[id]
	if !ok || b.Status != models.BidPending {
		return false, nil
	}
	b.CounterOfferAmount = &amount
	b.CounterOfferMessage = message
	b.RespondedAt = &at
	return true, nil
}

// ListExpiredPendingIDs mirrors the production aggregation: pending bids
// joined against their listing's bidding window.
func (f *fakeBidRepo) ListExpiredPendingIDs(_ context.Context, now time.Time) ([]string, error) {
	var ids []string
	for _, b := range f.bids {
		if b.Status != models.BidPending {
			continue
		}
		l, ok := f.listings.listings[b.ListingID]
		if ok && l.BiddingEndsAt != nil && l.BiddingEndsAt.Before(now) {
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

func (f *fakeBidRepo) MarkExpired(_ context.Context, ids []string, at time.Time) (int64, error) {
	var n int64
	for _, id := range ids {
		if b, ok := f.bids[id]; ok && b.Status == models.BidPending {
			b.Status = models.BidExpired
			b.RespondedAt = &at
			n++
		}
	}
	return n, nil
}

func (f *fakeBidRepo) ComparableAcceptedAmounts(context.Context, string, int, time.Time) ([]float64, error) {
	return nil, nil
}

type fakeBookingRepo struct {
	listings *fakeListingRepo
	bids     *fakeBidRepo

	bookings      map[string]*models.Booking
	confirmations map[string]*models.EscrowConfirmation
}

func newFakeBookingRepo(listings *fakeListingRepo, bids *fakeBidRepo) *fakeBookingRepo {
	return &fakeBookingRepo{
		listings:      listings,
		bids:          bids,
		bookings:      make(map[string]*models.Booking),
		confirmations: make(map[string]*models.EscrowConfirmation),
	}
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s not found", id)
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) ListByRenter(context.Context, string) ([]models.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) SetStatus(_ context.Context, id string, status models.BookingStatus) error {
	f.bookings[id].Status = status
	return nil
}

func (f *fakeBookingRepo) SetPayoutStatus(_ context.Context, id string, status models.PayoutStatus) error {
	f.bookings[id].PayoutStatus = status
	return nil
}

// AcceptBidTransactionally mirrors the production guards: the listing must
// still be active and the bid still pending, and either everything applies or
// nothing does.
func (f *fakeBookingRepo) AcceptBidTransactionally(_ context.Context, p bookingRepo.AcceptBidParams) error {
	listing, ok := f.listings.listings[p.ListingID]
	if !ok || listing.Status != models.ListingActive {
		return bookingRepo.ErrListingNotActive
	}
	winner, ok := f.bids.bids[p.BidID]
	if !ok || winner.Status != models.BidPending {
		return bookingRepo.ErrBidNotPending
	}

	listing.Status = models.ListingBooked
	listing.OpenForBidding = false
	winner.Status = models.BidAccepted
	winner.RespondedAt = &p.AcceptedAt
	for _, b := range f.bids.bids {
		if b.ListingID == p.ListingID && b.ID != p.BidID && b.Status == models.BidPending {
			b.Status = models.BidRejected
			b.RespondedAt = &p.AcceptedAt
		}
	}
	f.bookings[p.Booking.ID] = p.Booking
	f.confirmations[p.Confirmation.ID] = p.Confirmation
	return nil
}

// --- harness ---

type biddingFixture struct {
	svc      *DefaultBiddingService
	listings *fakeListingRepo
	bids     *fakeBidRepo
	bookings *fakeBookingRepo
	now      time.Time
}

func newBiddingFixture(t *testing.T) *biddingFixture {
	t.Helper()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	listings := newFakeListingRepo()
	bids := newFakeBidRepo(listings)
	bookings := newFakeBookingRepo(listings, bids)
	svc := NewDefaultBiddingService(listings, bids, bookings, notification.NoopNotificationService{}, utils.FixedClock{Instant: now})
	return &biddingFixture{svc: svc, listings: listings, bids: bids, bookings: bookings, now: now}
}

func (fx *biddingFixture) openListing(t *testing.T) *models.Listing {
	t.Helper()
	endsAt := fx.now.Add(48 * time.Hour)
	listing := &models.Listing{
		ID:                 "listing-1",
		OwnerID:            "owner-1",
		Destination:        "cancun",
		Bedrooms:           2,
		CheckInDate:        fx.now.AddDate(0, 1, 0),
		CheckOutDate:       fx.now.AddDate(0, 1, 7),
		FinalPrice:         1000,
		Status:             models.ListingActive,
		CancellationPolicy: models.PolicyModerate,
		OpenForBidding:     true,
		BiddingEndsAt:      &endsAt,
		AllowCounterOffers: true,
	}
	require.NoError(t, fx.listings.Create(context.Background(), listing))
	return listing
}

func (fx *biddingFixture) submitBid(t *testing.T, bidderID string, amount float64) *models.Bid {
	t.Helper()
	bid, err := fx.svc.SubmitBid(context.Background(), bidderID, SubmitBidRequest{
		ListingID:  "listing-1",
		BidAmount:  amount,
		GuestCount: 2,
	})
	require.NoError(t, err)
	return bid
}

// --- tests ---

func TestSubmitBidValidations(t *testing.T) {
	fx := newBiddingFixture(t)
	listing := fx.openListing(t)
	ctx := context.Background()

	_, err := fx.svc.SubmitBid(ctx, listing.OwnerID, SubmitBidRequest{ListingID: listing.ID, BidAmount: 500, GuestCount: 2})
	assert.ErrorContains(t, err, "own listing")

	_, err = fx.svc.SubmitBid(ctx, "bidder-1", SubmitBidRequest{ListingID: listing.ID, BidAmount: -5, GuestCount: 2})
	assert.ErrorContains(t, err, "positive")

	min := 600.0
	fx.listings.listings[listing.ID].MinBidAmount = &min
	_, err = fx.svc.SubmitBid(ctx, "bidder-1", SubmitBidRequest{ListingID: listing.ID, BidAmount: 500, GuestCount: 2})
	assert.ErrorContains(t, err, "below the minimum")

	_, err = fx.svc.SubmitBid(ctx, "bidder-1", SubmitBidRequest{ListingID: listing.ID, BidAmount: 700, GuestCount: 0})
	assert.ErrorContains(t, err, "guest count")
}

func TestSubmitBidAfterWindowClosed(t *testing.T) {
	fx := newBiddingFixture(t)
	listing := fx.openListing(t)
	past := fx.now.Add(-time.Minute)
	fx.listings.listings[listing.ID].BiddingEndsAt = &past

	var deadlineErr *utils.DeadlineExpiredError
	_, err := fx.svc.SubmitBid(context.Background(), "bidder-1", SubmitBidRequest{ListingID: listing.ID, BidAmount: 500, GuestCount: 2})
	assert.ErrorAs(t, err, &deadlineErr)
}

func TestAcceptBidResolvesSingleWinner(t *testing.T) {
	fx := newBiddingFixture(t)
	fx.openListing(t)
	winner := fx.submitBid(t, "bidder-1", 800)
	loser := fx.submitBid(t, "bidder-2", 750)

	booking, err := fx.svc.AcceptBid(context.Background(), winner.ID, "owner-1")
	require.NoError(t, err)

	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.Equal(t, 800.0, booking.TotalAmount)
	assert.Equal(t, 120.0, booking.RavCommission) // 15% of 800
	assert.Equal(t, 680.0, booking.OwnerPayout)
	assert.Equal(t, "bidder-1", booking.RenterID)

	assert.Equal(t, models.BidAccepted, fx.bids.bids[winner.ID].Status)
	assert.Equal(t, models.BidRejected, fx.bids.bids[loser.ID].Status)
	assert.Equal(t, models.ListingBooked, fx.listings.listings["listing-1"].Status)

	// Exactly one escrow confirmation opened, with the owner gate pending
	// and the configured window applied.
	require.Len(t, fx.bookings.confirmations, 1)
	for _, esc := range fx.bookings.confirmations {
		assert.Equal(t, models.OwnerPending, esc.OwnerConfirmationStatus)
		assert.Equal(t, models.EscrowPendingConfirmation, esc.EscrowStatus)
		assert.Equal(t, 800.0, esc.EscrowAmount)
		assert.Equal(t, fx.now.Add(60*time.Minute), esc.OwnerConfirmationDeadline)
	}
}

func TestAcceptSecondBidLosesRace(t *testing.T) {
	fx := newBiddingFixture(t)
	fx.openListing(t)
	first := fx.submitBid(t, "bidder-1", 800)
	second := fx.submitBid(t, "bidder-2", 900)

	_, err := fx.svc.AcceptBid(context.Background(), first.ID, "owner-1")
	require.NoError(t, err)

	// The listing booked, so the second acceptance must fail without
	// creating another booking.
	_, err = fx.svc.AcceptBid(context.Background(), second.ID, "owner-1")
	var stateErr *utils.InvalidStateTransitionError
	assert.ErrorAs(t, err, &stateErr)
	assert.Len(t, fx.bookings.bookings, 1)
}

// racingBookingRepo simulates a guard lost inside the transaction after the
// pre-checks passed.
type racingBookingRepo struct {
	*fakeBookingRepo
}

func (r *racingBookingRepo) AcceptBidTransactionally(context.Context, bookingRepo.AcceptBidParams) error {
	return bookingRepo.ErrListingNotActive
}

func TestAcceptBidLostGuardMapsToConflict(t *testing.T) {
	fx := newBiddingFixture(t)
	fx.openListing(t)
	bid := fx.submitBid(t, "bidder-1", 800)

	svc := NewDefaultBiddingService(fx.listings, fx.bids, &racingBookingRepo{fx.bookings},
		notification.NoopNotificationService{}, utils.FixedClock{Instant: fx.now})

	var concurrentErr *utils.ConcurrentModificationError
	_, err := svc.AcceptBid(context.Background(), bid.ID, "owner-1")
	assert.ErrorAs(t, err, &concurrentErr)
}

func TestAcceptBidWrongOwner(t *testing.T) {
	fx := newBiddingFixture(t)
	fx.openListing(t)
	bid := fx.submitBid(t, "bidder-1", 800)

	_, err := fx.svc.AcceptBid(context.Background(), bid.ID, "intruder")
	assert.ErrorContains(t, err, "does not belong")
}

func TestRejectBidIsIdempotent(t *testing.T) {
	fx := newBiddingFixture(t)
	fx.openListing(t)
	bid := fx.submitBid(t, "bidder-1", 800)
	ctx := context.Background()

	require.NoError(t, fx.svc.RejectBid(ctx, bid.ID, "owner-1"))
	assert.Equal(t, models.BidRejected, fx.bids.bids[bid.ID].Status)

	// Second rejection is a no-op, not an error.
	assert.NoError(t, fx.svc.RejectBid(ctx, bid.ID, "owner-1"))

	// But rejecting a withdrawn bid is a state error.
	other := fx.submitBid(t, "bidder-2", 700)
	require.NoError(t, fx.svc.WithdrawBid(ctx, other.ID, "bidder-2"))
	var stateErr *utils.InvalidStateTransitionError
	assert.ErrorAs(t, fx.svc.RejectBid(ctx, other.ID, "owner-1"), &stateErr)
}

func TestCounterOfferKeepsBidPending(t *testing.T) {
	fx := newBiddingFixture(t)
	fx.openListing(t)
	bid := fx.submitBid(t, "bidder-1", 600)

	updated, err := fx.svc.IssueCounterOffer(context.Background(), bid.ID, "owner-1", 750, "meet me in the middle")
	require.NoError(t, err)

	assert.Equal(t, models.BidPending, updated.Status)
	require.NotNil(t, updated.CounterOfferAmount)
	assert.Equal(t, 750.0, *updated.CounterOfferAmount)
	assert.Equal(t, "meet me in the middle", updated.CounterOfferMessage)
}

func TestCounterOfferDisallowed(t *testing.T) {
	fx := newBiddingFixture(t)
	listing := fx.openListing(t)
	fx.listings.listings[listing.ID].AllowCounterOffers = false
	bid := fx.submitBid(t, "bidder-1", 600)

	_, err := fx.svc.IssueCounterOffer(context.Background(), bid.ID, "owner-1", 750, "")
	assert.ErrorContains(t, err, "does not allow counter-offers")
}

func TestWithdrawBidRequiresOwnership(t *testing.T) {
	fx := newBiddingFixture(t)
	fx.openListing(t)
	bid := fx.submitBid(t, "bidder-1", 600)

	assert.ErrorContains(t, fx.svc.WithdrawBid(context.Background(), bid.ID, "bidder-2"), "does not belong")
	require.NoError(t, fx.svc.WithdrawBid(context.Background(), bid.ID, "bidder-1"))
	assert.Equal(t, models.BidWithdrawn, fx.bids.bids[bid.ID].Status)
}

func TestSweepExpiredBidsIsIdempotent(t *testing.T) {
	fx := newBiddingFixture(t)
	listing := fx.openListing(t)
	stale := fx.submitBid(t, "bidder-1", 600)

	// A second listing whose window is still open.
	stillOpen := fx.now.Add(72 * time.Hour)
	require.NoError(t, fx.listings.Create(context.Background(), &models.Listing{
		ID:             "listing-2",
		OwnerID:        "owner-2",
		Status:         models.ListingActive,
		OpenForBidding: true,
		BiddingEndsAt:  &stillOpen,
	}))
	fresh, err := fx.svc.SubmitBid(context.Background(), "bidder-2", SubmitBidRequest{
		ListingID: "listing-2", BidAmount: 700, GuestCount: 2,
	})
	require.NoError(t, err)

	// The first listing's window closes; its pending bid is now stale.
	closed := fx.now.Add(-time.Minute)
	fx.listings.listings[listing.ID].BiddingEndsAt = &closed

	n, err := fx.svc.SweepExpiredBids(context.Background(), fx.now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, models.BidExpired, fx.bids.bids[stale.ID].Status)
	assert.Equal(t, models.BidPending, fx.bids.bids[fresh.ID].Status)
	// Expiry only clears bids; the listing itself stays on the market.
	assert.Equal(t, models.ListingActive, fx.listings.listings[listing.ID].Status)

	// Second run over the same instant finds nothing new.
	n, err = fx.svc.SweepExpiredBids(context.Background(), fx.now)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCounteredBidStillExpiresOnSweep(t *testing.T) {
	fx := newBiddingFixture(t)
	listing := fx.openListing(t)
	bid := fx.submitBid(t, "bidder-1", 600)

	_, err := fx.svc.IssueCounterOffer(context.Background(), bid.ID, "owner-1", 750, "best I can do")
	require.NoError(t, err)

	// The counter annotates the bid but does not stop the clock: the window
	// closes with the counter unanswered.
	closed := fx.now.Add(-time.Minute)
	fx.listings.listings[listing.ID].BiddingEndsAt = &closed

	n, err := fx.svc.SweepExpiredBids(context.Background(), fx.now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, models.BidExpired, fx.bids.bids[bid.ID].Status)
	require.NotNil(t, fx.bids.bids[bid.ID].CounterOfferAmount)
	assert.Equal(t, 750.0, *fx.bids.bids[bid.ID].CounterOfferAmount)
	assert.Equal(t, models.ListingActive, fx.listings.listings[listing.ID].Status)

	var stateErr *utils.InvalidStateTransitionError
	_, err = fx.svc.AcceptBid(context.Background(), bid.ID, "owner-1")
	assert.ErrorAs(t, err, &stateErr)
}
