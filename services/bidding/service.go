// File: services/bidding/service.go
package bidding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ravmarket/config"
	bidRepo "ravmarket/database/repository/bid"
	bookingRepo "ravmarket/database/repository/booking"
	listingRepo "ravmarket/database/repository/listing"
	"ravmarket/models"
	"ravmarket/services/notification"
	"ravmarket/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBiddingService is the production implementation.
type DefaultBiddingService struct {
	listings listingRepo.ListingRepository
	bids     bidRepo.BidRepository
	bookings bookingRepo.BookingRepository
	notifier notification.NotificationService
	clock    utils.Clock
}

// NewDefaultBiddingService constructs the service.
func NewDefaultBiddingService(
	listings listingRepo.ListingRepository,
	bids bidRepo.BidRepository,
	bookings bookingRepo.BookingRepository,
	notifier notification.NotificationService,
	clock utils.Clock,
) *DefaultBiddingService {
	return &DefaultBiddingService{
		listings: listings,
		bids:     bids,
		bookings: bookings,
		notifier: notifier,
		clock:    clock,
	}
}

func (s *DefaultBiddingService) OpenListingForBidding(ctx context.Context, listingID, ownerID string, cfg models.BiddingConfig) (*models.Listing, error) {
	if !cfg.BiddingEndsAt.After(s.clock.Now()) {
		return nil, utils.NewValidationError("bidding end time must be in the future")
	}
	if cfg.MinBidAmount != nil && *cfg.MinBidAmount <= 0 {
		return nil, utils.NewValidationError("minimum bid amount must be positive")
	}
	if cfg.MinBidAmount != nil && cfg.ReservePrice != nil && *cfg.ReservePrice < *cfg.MinBidAmount {
		return nil, utils.NewValidationError("reserve price cannot be below the minimum bid amount")
	}

	listing, err := s.listings.OpenForBidding(ctx, listingID, ownerID, cfg)
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Info("Listing opened for bidding",
		zap.String("listing_id", listingID),
		zap.Time("ends_at", cfg.BiddingEndsAt))
	return listing, nil
}

func (s *DefaultBiddingService) SubmitBid(ctx context.Context, bidderID string, req SubmitBidRequest) (*models.Bid, error) {
	listing, err := s.listings.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing %s: %w", req.ListingID, err)
	}

	now := s.clock.Now()
	if err := validateBid(listing, bidderID, req, now); err != nil {
		return nil, err
	}

	bid := &models.Bid{
		ID:                uuid.New().String(),
		ListingID:         listing.ID,
		BidderID:          bidderID,
		BidAmount:         req.BidAmount,
		GuestCount:        req.GuestCount,
		Message:           req.Message,
		RequestedCheckIn:  req.RequestedCheckIn,
		RequestedCheckOut: req.RequestedCheckOut,
		Status:            models.BidPending,
		CreatedAt:         now,
	}
	if err := s.bids.Create(ctx, bid); err != nil {
		return nil, fmt.Errorf("failed to create bid: %w", err)
	}

	utils.GetLogger().Info("Bid submitted",
		zap.String("bid_id", bid.ID),
		zap.String("listing_id", listing.ID),
		zap.Float64("amount", bid.BidAmount))

	s.notifier.Notify(ctx, models.NotificationPayload{
		UserID: listing.OwnerID,
		Type:   models.NotifyNewBidReceived,
		Data: map[string]string{
			"listing_id": listing.ID,
			"bid_id":     bid.ID,
			"amount":     fmt.Sprintf("%.2f", bid.BidAmount),
		},
	})
	return bid, nil
}

func (s *DefaultBiddingService) ListBidsForListing(ctx context.Context, listingID string) ([]models.Bid, error) {
	return s.bids.ListByListing(ctx, listingID)
}

func (s *DefaultBiddingService) ListMyBids(ctx context.Context, bidderID string) ([]models.Bid, error) {
	return s.bids.ListByBidder(ctx, bidderID)
}

func (s *DefaultBiddingService) AcceptBid(ctx context.Context, bidID, ownerID string) (*models.Booking, error) {
	logger := utils.GetLogger()

	bid, listing, err := s.loadOwnedBid(ctx, bidID, ownerID)
	if err != nil {
		return nil, err
	}
	if bid.Status != models.BidPending {
		return nil, &utils.InvalidStateTransitionError{
			Entity: "bid", State: string(bid.Status), Action: "accept",
		}
	}
	if listing.Status != models.ListingActive {
		return nil, &utils.InvalidStateTransitionError{
			Entity: "listing", State: string(listing.Status), Action: "accept a bid on",
		}
	}

	// Snapshot the sibling pending bids before the transaction so the losers
	// can be notified afterwards.
	siblings, err := s.bids.ListByListing(ctx, listing.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sibling bids: %w", err)
	}

	now := s.clock.Now()
	commission := utils.RoundCents(bid.BidAmount * config.AppConfig.CommissionRatePct / 100)

	booking := &models.Booking{
		ID:            uuid.New().String(),
		ListingID:     listing.ID,
		RenterID:      bid.BidderID,
		GuestCount:    bid.GuestCount,
		TotalAmount:   bid.BidAmount,
		ServiceFee:    commission,
		RavCommission: commission,
		OwnerPayout:   bid.BidAmount - commission,
		Status:        models.BookingConfirmed,
		PayoutStatus:  models.PayoutPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	confirmation := &models.EscrowConfirmation{
		ID:                        uuid.New().String(),
		BookingID:                 booking.ID,
		ListingID:                 listing.ID,
		OwnerID:                   listing.OwnerID,
		EscrowAmount:              bid.BidAmount,
		EscrowStatus:              models.EscrowPendingConfirmation,
		OwnerConfirmationStatus:   models.OwnerPending,
		OwnerConfirmationDeadline: now.Add(time.Duration(config.AppConfig.OwnerConfirmWindowMins) * time.Minute),
		CreatedAt:                 now,
	}

	err = s.bookings.AcceptBidTransactionally(ctx, bookingRepo.AcceptBidParams{
		BidID:        bid.ID,
		ListingID:    listing.ID,
		Booking:      booking,
		Confirmation: confirmation,
		AcceptedAt:   now,
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrListingNotActive) {
			return nil, &utils.ConcurrentModificationError{Entity: "listing", ID: listing.ID}
		}
		if errors.Is(err, bookingRepo.ErrBidNotPending) {
			return nil, &utils.ConcurrentModificationError{Entity: "bid", ID: bid.ID}
		}
		return nil, fmt.Errorf("bid acceptance failed: %w", err)
	}

	logger.Info("Bid accepted",
		zap.String("bid_id", bid.ID),
		zap.String("listing_id", listing.ID),
		zap.String("booking_id", booking.ID),
		zap.Float64("amount", bid.BidAmount))

	s.notifier.Notify(ctx, models.NotificationPayload{
		UserID: bid.BidderID,
		Type:   models.NotifyBidAccepted,
		Data: map[string]string{
			"bid_id":     bid.ID,
			"booking_id": booking.ID,
		},
	})
	for _, sib := range siblings {
		if sib.ID == bid.ID || sib.Status != models.BidPending {
			continue
		}
		s.notifier.Notify(ctx, models.NotificationPayload{
			UserID: sib.BidderID,
			Type:   models.NotifyBidRejected,
			Data:   map[string]string{"bid_id": sib.ID, "listing_id": listing.ID},
		})
	}

	return booking, nil
}

func (s *DefaultBiddingService) RejectBid(ctx context.Context, bidID, ownerID string) error {
	bid, listing, err := s.loadOwnedBid(ctx, bidID, ownerID)
	if err != nil {
		return err
	}
	// Rejecting twice is harmless.
	if bid.Status == models.BidRejected {
		return nil
	}
	if bid.Status != models.BidPending {
		return &utils.InvalidStateTransitionError{
			Entity: "bid", State: string(bid.Status), Action: "reject",
		}
	}

	ok, err := s.bids.TransitionIfPending(ctx, bid.ID, models.BidRejected, s.clock.Now())
	if err != nil {
		return fmt.Errorf("failed to reject bid %s: %w", bid.ID, err)
	}
	if !ok {
		return &utils.ConcurrentModificationError{Entity: "bid", ID: bid.ID}
	}

	s.notifier.Notify(ctx, models.NotificationPayload{
		UserID: bid.BidderID,
		Type:   models.NotifyBidRejected,
		Data:   map[string]string{"bid_id": bid.ID, "listing_id": listing.ID},
	})
	return nil
}

func (s *DefaultBiddingService) IssueCounterOffer(ctx context.Context, bidID, ownerID string, amount float64, message string) (*models.Bid, error) {
	bid, listing, err := s.loadOwnedBid(ctx, bidID, ownerID)
	if err != nil {
		return nil, err
	}
	if !listing.AllowCounterOffers {
		return nil, utils.NewValidationError("listing %s does not allow counter-offers", listing.ID)
	}
	if amount <= 0 {
		return nil, utils.NewValidationError("counter-offer amount must be positive")
	}
	if bid.Status != models.BidPending {
		return nil, &utils.InvalidStateTransitionError{
			Entity: "bid", State: string(bid.Status), Action: "counter",
		}
	}

	ok, err := s.bids.SetCounterOffer(ctx, bid.ID, amount, message, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to set counter-offer on bid %s: %w", bid.ID, err)
	}
	if !ok {
		return nil, &utils.ConcurrentModificationError{Entity: "bid", ID: bid.ID}
	}

	s.notifier.Notify(ctx, models.NotificationPayload{
		UserID: bid.BidderID,
		Type:   models.NotifyCounterOffer,
		Data: map[string]string{
			"bid_id": bid.ID,
			"amount": fmt.Sprintf("%.2f", amount),
		},
	})

	return s.bids.GetByID(ctx, bid.ID)
}

func (s *DefaultBiddingService) WithdrawBid(ctx context.Context, bidID, bidderID string) error {
	bid, err := s.bids.GetByID(ctx, bidID)
	if err != nil {
		return fmt.Errorf("failed to fetch bid %s: %w", bidID, err)
	}
	if bid.BidderID != bidderID {
		return utils.NewValidationError("bid %s does not belong to user %s", bidID, bidderID)
	}
	if bid.Status != models.BidPending {
		return &utils.InvalidStateTransitionError{
			Entity: "bid", State: string(bid.Status), Action: "withdraw",
		}
	}

	ok, err := s.bids.TransitionIfPending(ctx, bid.ID, models.BidWithdrawn, s.clock.Now())
	if err != nil {
		return fmt.Errorf("failed to withdraw bid %s: %w", bid.ID, err)
	}
	if !ok {
		return &utils.ConcurrentModificationError{Entity: "bid", ID: bid.ID}
	}
	return nil
}

// loadOwnedBid fetches a bid and its listing and checks the caller owns the
// listing.
func (s *DefaultBiddingService) loadOwnedBid(ctx context.Context, bidID, ownerID string) (*models.Bid, *models.Listing, error) {
	bid, err := s.bids.GetByID(ctx, bidID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch bid %s: %w", bidID, err)
	}
	listing, err := s.listings.GetByID(ctx, bid.ListingID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch listing %s: %w", bid.ListingID, err)
	}
	if listing.OwnerID != ownerID {
		return nil, nil, utils.NewValidationError("listing %s does not belong to user %s", listing.ID, ownerID)
	}
	return bid, listing, nil
}

func validateBid(listing *models.Listing, bidderID string, req SubmitBidRequest, now time.Time) error {
	if listing.OwnerID == bidderID {
		return utils.NewValidationError("owners cannot bid on their own listing")
	}
	if listing.Status != models.ListingActive {
		return &utils.InvalidStateTransitionError{
			Entity: "listing", State: string(listing.Status), Action: "bid on",
		}
	}
	if !listing.OpenForBidding {
		return utils.NewValidationError("listing %s is not open for bidding", listing.ID)
	}
	if listing.BiddingEndsAt != nil && !now.Before(*listing.BiddingEndsAt) {
		return &utils.DeadlineExpiredError{Deadline: listing.BiddingEndsAt.Format(time.RFC3339)}
	}
	if req.BidAmount <= 0 {
		return utils.NewValidationError("bid amount must be positive")
	}
	if listing.MinBidAmount != nil && req.BidAmount < *listing.MinBidAmount {
		return utils.NewValidationError("bid amount %.2f is below the minimum bid of %.2f", req.BidAmount, *listing.MinBidAmount)
	}
	if req.GuestCount <= 0 {
		return utils.NewValidationError("guest count must be positive")
	}
	if req.RequestedCheckIn != nil && req.RequestedCheckOut != nil && !req.RequestedCheckOut.After(*req.RequestedCheckIn) {
		return utils.NewValidationError("requested check-out must be after check-in")
	}
	if (req.RequestedCheckIn == nil) != (req.RequestedCheckOut == nil) {
		return utils.NewValidationError("alternate dates require both check-in and check-out")
	}
	return nil
}
