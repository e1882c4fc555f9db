package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// PayoutStatus tracks the owner payout for a booking.
type PayoutStatus string

const (
	PayoutPending    PayoutStatus = "pending"
	PayoutProcessing PayoutStatus = "processing"
	PayoutPaid       PayoutStatus = "paid"
	PayoutFailed     PayoutStatus = "failed"
)

// Booking is created from one accepted bid or a direct purchase.
type Booking struct {
	ID         string `bson:"id" json:"id"`
	ListingID  string `bson:"listing_id" json:"listing_id"`
	RenterID   string `bson:"renter_id" json:"renter_id"`
	GuestCount int    `bson:"guest_count" json:"guest_count"`

	TotalAmount   float64 `bson:"total_amount" json:"total_amount"`
	ServiceFee    float64 `bson:"service_fee" json:"service_fee"`
	RavCommission float64 `bson:"rav_commission" json:"rav_commission"`
	OwnerPayout   float64 `bson:"owner_payout" json:"owner_payout"`

	Status       BookingStatus `bson:"status" json:"status"`
	PayoutStatus PayoutStatus  `bson:"payout_status" json:"payout_status"`

	PaymentIntentID *string   `bson:"payment_intent_id,omitempty" json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}
