// File: services/payment/interface.go
package payment

import "context"

// PaymentService wraps the money-movement side of the marketplace: refunding
// escrowed renter funds and paying out owners. Amounts are in the platform
// currency; implementations convert to minor units.
type PaymentService interface {
	// RefundEscrow refunds part or all of a captured payment intent and
	// returns the processor's refund reference.
	RefundEscrow(ctx context.Context, paymentIntentID string, amount float64) (string, error)
	// PayoutOwner transfers the owner's share to their connected account and
	// returns the processor's transfer reference.
	PayoutOwner(ctx context.Context, ownerAccountID string, amount float64, bookingID string) (string, error)
}
