// File: services/bidding/sweep.go
package bidding

import (
	"context"
	"fmt"
	"time"

	"ravmarket/models"
	"ravmarket/utils"

	"go.uber.org/zap"
)

// SweepExpiredBids expires every pending bid whose listing's bidding window
// closed before now. Each bid is expired under a pending guard, so a sweep
// racing an owner's accept/reject never double-resolves a bid, and running
// the sweep twice over the same window is a no-op the second time.
func (s *DefaultBiddingService) SweepExpiredBids(ctx context.Context, now time.Time) (int64, error) {
	logger := utils.GetLogger()

	ids, err := s.bids.ListExpiredPendingIDs(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to find expired bids: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	expired, err := s.bids.MarkExpired(ctx, ids, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire bids: %w", err)
	}
	logger.Info("Expired stale bids",
		zap.Int("candidates", len(ids)),
		zap.Int64("expired", expired))

	for _, id := range ids {
		bid, err := s.bids.GetByID(ctx, id)
		if err != nil || bid.Status != models.BidExpired {
			continue
		}
		s.notifier.Notify(ctx, models.NotificationPayload{
			UserID: bid.BidderID,
			Type:   models.NotifyBidExpired,
			Data:   map[string]string{"bid_id": bid.ID, "listing_id": bid.ListingID},
		})
	}
	return expired, nil
}
