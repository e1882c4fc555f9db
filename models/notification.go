package models

// NotificationType enumerates marketplace events surfaced to users. Delivery
// channels live outside this service.
type NotificationType string

const (
	NotifyNewBidReceived    NotificationType = "new_bid_received"
	NotifyBidAccepted       NotificationType = "bid_accepted"
	NotifyBidRejected       NotificationType = "bid_rejected"
	NotifyBidExpired        NotificationType = "bid_expired"
	NotifyBiddingEndingSoon NotificationType = "bidding_ending_soon"
	NotifyCounterOffer      NotificationType = "counter_offer_received"
	NotifyBookingConfirmed  NotificationType = "booking_confirmed"
	NotifyBookingDeclined   NotificationType = "booking_declined"
	NotifyBookingCancelled  NotificationType = "booking_cancelled"
	NotifyNewProposal       NotificationType = "new_proposal_received"
	NotifyProposalAccepted  NotificationType = "proposal_accepted"
	NotifyProposalRejected  NotificationType = "proposal_rejected"
)

// NotificationPayload is what the engines emit; dispatch is an external
// collaborator behind the notification service interface.
type NotificationPayload struct {
	UserID string            `json:"user_id"`
	Type   NotificationType  `json:"type"`
	Data   map[string]string `json:"data,omitempty"`
}
