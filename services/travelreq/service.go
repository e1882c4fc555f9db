// File: services/travelreq/service.go
package travelreq

import (
	"context"
	"fmt"
	"time"

	"ravmarket/config"
	listingRepo "ravmarket/database/repository/listing"
	travelreqRepo "ravmarket/database/repository/travelreq"
	"ravmarket/models"
	"ravmarket/services/notification"
	"ravmarket/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTravelRequestService is the production implementation.
type DefaultTravelRequestService struct {
	requests travelreqRepo.TravelRequestRepository
	listings listingRepo.ListingRepository
	notifier notification.NotificationService
	clock    utils.Clock
}

// NewDefaultTravelRequestService constructs the service.
func NewDefaultTravelRequestService(
	requests travelreqRepo.TravelRequestRepository,
	listings listingRepo.ListingRepository,
	notifier notification.NotificationService,
	clock utils.Clock,
) *DefaultTravelRequestService {
	return &DefaultTravelRequestService{
		requests: requests,
		listings: listings,
		notifier: notifier,
		clock:    clock,
	}
}

func (s *DefaultTravelRequestService) OpenRequest(ctx context.Context, travelerID string, input OpenRequestInput) (*models.TravelRequest, error) {
	now := s.clock.Now()
	if !input.CheckOut.After(input.CheckIn) {
		return nil, utils.NewValidationError("check-out must be after check-in")
	}
	if input.CheckIn.Before(now) {
		return nil, utils.NewValidationError("check-in must be in the future")
	}
	if !input.ProposalsDeadline.After(now) {
		return nil, utils.NewValidationError("proposals deadline must be in the future")
	}
	if input.ProposalsDeadline.After(input.CheckIn) {
		return nil, utils.NewValidationError("proposals deadline must fall before check-in")
	}
	if input.GuestCount <= 0 {
		return nil, utils.NewValidationError("guest count must be positive")
	}
	if input.BudgetLow != nil && input.BudgetHigh != nil && *input.BudgetHigh < *input.BudgetLow {
		return nil, utils.NewValidationError("budget range is inverted")
	}

	req := &models.TravelRequest{
		ID:                uuid.New().String(),
		TravelerID:        travelerID,
		Destination:       input.Destination,
		CheckIn:           input.CheckIn,
		CheckOut:          input.CheckOut,
		GuestCount:        input.GuestCount,
		BudgetLow:         input.BudgetLow,
		BudgetHigh:        input.BudgetHigh,
		ProposalsDeadline: input.ProposalsDeadline,
		Status:            models.RequestOpen,
		CreatedAt:         now,
	}
	if err := s.requests.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create travel request: %w", err)
	}

	utils.GetLogger().Info("Travel request opened",
		zap.String("request_id", req.ID),
		zap.String("destination", req.Destination))
	return req, nil
}

func (s *DefaultTravelRequestService) GetRequest(ctx context.Context, id string) (*models.TravelRequest, error) {
	return s.requests.GetRequest(ctx, id)
}

func (s *DefaultTravelRequestService) ListOpenRequests(ctx context.Context) ([]models.TravelRequest, error) {
	return s.requests.ListOpenRequests(ctx, s.clock.Now())
}

func (s *DefaultTravelRequestService) SubmitProposal(ctx context.Context, ownerID string, input SubmitProposalInput) (*models.TravelProposal, error) {
	req, err := s.requests.GetRequest(ctx, input.RequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch travel request %s: %w", input.RequestID, err)
	}
	if req.TravelerID == ownerID {
		return nil, utils.NewValidationError("travelers cannot propose on their own request")
	}
	if req.Status != models.RequestOpen {
		return nil, &utils.InvalidStateTransitionError{
			Entity: "travel request", State: string(req.Status), Action: "propose on",
		}
	}
	now := s.clock.Now()
	if !now.Before(req.ProposalsDeadline) {
		return nil, &utils.DeadlineExpiredError{Deadline: req.ProposalsDeadline.Format(time.RFC3339)}
	}
	if input.ProposedPrice <= 0 {
		return nil, utils.NewValidationError("proposed price must be positive")
	}
	if !input.ProposedCheckOut.After(input.ProposedCheckIn) {
		return nil, utils.NewValidationError("proposed check-out must be after check-in")
	}

	p := &models.TravelProposal{
		ID:               uuid.New().String(),
		RequestID:        req.ID,
		OwnerID:          ownerID,
		PropertyID:       input.PropertyID,
		ProposedPrice:    input.ProposedPrice,
		ProposedCheckIn:  input.ProposedCheckIn,
		ProposedCheckOut: input.ProposedCheckOut,
		Message:          input.Message,
		Status:           models.ProposalPending,
		CreatedAt:        now,
	}
	if err := s.requests.CreateProposal(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}

	s.notifier.Notify(ctx, models.NotificationPayload{
		UserID: req.TravelerID,
		Type:   models.NotifyNewProposal,
		Data: map[string]string{
			"request_id":  req.ID,
			"proposal_id": p.ID,
			"price":       fmt.Sprintf("%.2f", p.ProposedPrice),
		},
	})
	return p, nil
}

func (s *DefaultTravelRequestService) ListProposals(ctx context.Context, requestID string) ([]models.TravelProposal, error) {
	return s.requests.ListProposalsForRequest(ctx, requestID)
}

func (s *DefaultTravelRequestService) AcceptProposal(ctx context.Context, proposalID, travelerID string) (*models.Listing, error) {
	logger := utils.GetLogger()

	p, req, err := s.loadProposalForTraveler(ctx, proposalID, travelerID)
	if err != nil {
		return nil, err
	}
	if p.Status != models.ProposalPending {
		return nil, &utils.InvalidStateTransitionError{
			Entity: "proposal", State: string(p.Status), Action: "accept",
		}
	}
	if req.Status != models.RequestOpen {
		return nil, &utils.InvalidStateTransitionError{
			Entity: "travel request", State: string(req.Status), Action: "accept a proposal on",
		}
	}

	now := s.clock.Now()
	ok, err := s.requests.TransitionProposalIfPending(ctx, p.ID, models.ProposalAccepted, now)
	if err != nil {
		return nil, fmt.Errorf("failed to accept proposal %s: %w", p.ID, err)
	}
	if !ok {
		return nil, &utils.ConcurrentModificationError{Entity: "proposal", ID: p.ID}
	}

	listing := listingFromProposal(p, req, now)
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing from proposal %s: %w", p.ID, err)
	}
	if err := s.requests.LinkProposalListing(ctx, p.ID, listing.ID); err != nil {
		logger.Error("Failed to link proposal to listing",
			zap.String("proposal_id", p.ID), zap.Error(err))
	}

	if ok, err := s.requests.TransitionRequestIfOpen(ctx, req.ID, models.RequestFulfilled); err != nil || !ok {
		logger.Error("Failed to mark travel request fulfilled",
			zap.String("request_id", req.ID), zap.Error(err))
	}

	// Close out the losing proposals.
	siblings, err := s.requests.ListProposalsForRequest(ctx, req.ID)
	if err == nil {
		for _, sib := range siblings {
			if sib.ID == p.ID || sib.Status != models.ProposalPending {
				continue
			}
			if ok, err := s.requests.TransitionProposalIfPending(ctx, sib.ID, models.ProposalRejected, now); err != nil || !ok {
				continue
			}
			s.notifier.Notify(ctx, models.NotificationPayload{
				UserID: sib.OwnerID,
				Type:   models.NotifyProposalRejected,
				Data:   map[string]string{"proposal_id": sib.ID, "request_id": req.ID},
			})
		}
	}

	logger.Info("Proposal accepted, listing created",
		zap.String("proposal_id", p.ID),
		zap.String("listing_id", listing.ID),
		zap.Float64("final_price", listing.FinalPrice))

	s.notifier.Notify(ctx, models.NotificationPayload{
		UserID: p.OwnerID,
		Type:   models.NotifyProposalAccepted,
		Data: map[string]string{
			"proposal_id": p.ID,
			"listing_id":  listing.ID,
		},
	})
	return listing, nil
}

func (s *DefaultTravelRequestService) RejectProposal(ctx context.Context, proposalID, travelerID string) error {
	p, req, err := s.loadProposalForTraveler(ctx, proposalID, travelerID)
	if err != nil {
		return err
	}
	if p.Status == models.ProposalRejected {
		return nil
	}
	if p.Status != models.ProposalPending {
		return &utils.InvalidStateTransitionError{
			Entity: "proposal", State: string(p.Status), Action: "reject",
		}
	}

	ok, err := s.requests.TransitionProposalIfPending(ctx, p.ID, models.ProposalRejected, s.clock.Now())
	if err != nil {
		return fmt.Errorf("failed to reject proposal %s: %w", p.ID, err)
	}
	if !ok {
		return &utils.ConcurrentModificationError{Entity: "proposal", ID: p.ID}
	}

	s.notifier.Notify(ctx, models.NotificationPayload{
		UserID: p.OwnerID,
		Type:   models.NotifyProposalRejected,
		Data:   map[string]string{"proposal_id": p.ID, "request_id": req.ID},
	})
	return nil
}

func (s *DefaultTravelRequestService) WithdrawProposal(ctx context.Context, proposalID, ownerID string) error {
	p, err := s.requests.GetProposal(ctx, proposalID)
	if err != nil {
		return fmt.Errorf("failed to fetch proposal %s: %w", proposalID, err)
	}
	if p.OwnerID != ownerID {
		return utils.NewValidationError("proposal %s does not belong to user %s", proposalID, ownerID)
	}
	if p.Status != models.ProposalPending {
		return &utils.InvalidStateTransitionError{
			Entity: "proposal", State: string(p.Status), Action: "withdraw",
		}
	}

	ok, err := s.requests.TransitionProposalIfPending(ctx, p.ID, models.ProposalWithdrawn, s.clock.Now())
	if err != nil {
		return fmt.Errorf("failed to withdraw proposal %s: %w", p.ID, err)
	}
	if !ok {
		return &utils.ConcurrentModificationError{Entity: "proposal", ID: p.ID}
	}
	return nil
}

func (s *DefaultTravelRequestService) SweepExpiredRequests(ctx context.Context, now time.Time) (int64, error) {
	expired, err := s.requests.ExpireRequests(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("travel request sweep failed: %w", err)
	}
	if expired > 0 {
		utils.GetLogger().Info("Expired stale travel requests", zap.Int64("count", expired))
	}
	return expired, nil
}

func (s *DefaultTravelRequestService) loadProposalForTraveler(ctx context.Context, proposalID, travelerID string) (*models.TravelProposal, *models.TravelRequest, error) {
	p, err := s.requests.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch proposal %s: %w", proposalID, err)
	}
	req, err := s.requests.GetRequest(ctx, p.RequestID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch travel request %s: %w", p.RequestID, err)
	}
	if req.TravelerID != travelerID {
		return nil, nil, utils.NewValidationError("travel request %s does not belong to user %s", req.ID, travelerID)
	}
	return p, req, nil
}

// listingFromProposal prices a new listing off the accepted proposal: the
// proposal price is the owner's take, and the platform markup is added on
// top to form the renter-facing final price.
func listingFromProposal(p *models.TravelProposal, req *models.TravelRequest, now time.Time) *models.Listing {
	nights := int(p.ProposedCheckOut.Sub(p.ProposedCheckIn).Hours() / 24)
	if nights < 1 {
		nights = 1
	}
	ownerPrice := p.ProposedPrice
	nightlyRate := utils.RoundCents(ownerPrice / float64(nights))
	markup := utils.RoundCents(ownerPrice * config.AppConfig.CommissionRatePct / 100)

	return &models.Listing{
		ID:                 uuid.New().String(),
		PropertyID:         p.PropertyID,
		OwnerID:            p.OwnerID,
		Destination:        req.Destination,
		CheckInDate:        p.ProposedCheckIn,
		CheckOutDate:       p.ProposedCheckOut,
		NightlyRate:        nightlyRate,
		OwnerPrice:         ownerPrice,
		RavMarkup:          markup,
		FinalPrice:         ownerPrice + markup,
		Status:             models.ListingActive,
		CancellationPolicy: models.PolicyModerate,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
