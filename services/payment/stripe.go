// File: services/payment/stripe.go
package payment

import (
	"context"
	"fmt"
	"math"

	"ravmarket/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/refund"
	"github.com/stripe/stripe-go/v76/transfer"
	"go.uber.org/zap"
)

// StripePaymentService moves money through Stripe. The API key is set once on
// the global stripe client at startup.
type StripePaymentService struct{}

// NewStripePaymentService constructs a Stripe-backed PaymentService.
func NewStripePaymentService() PaymentService {
	return &StripePaymentService{}
}

func (s *StripePaymentService) RefundEscrow(ctx context.Context, paymentIntentID string, amount float64) (string, error) {
	logger := utils.GetLogger()
	if paymentIntentID == "" {
		return "", fmt.Errorf("refund requires a payment intent reference")
	}
	if amount <= 0 {
		return "", fmt.Errorf("refund amount must be positive, got %.2f", amount)
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
		Amount:        stripe.Int64(toMinorUnits(amount)),
	}
	params.Context = ctx

	r, err := refund.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe refund failed: %w", err)
	}
	logger.Info("Escrow refund issued",
		zap.String("payment_intent", paymentIntentID),
		zap.String("refund_id", r.ID),
		zap.Float64("amount", amount))
	return r.ID, nil
}

func (s *StripePaymentService) PayoutOwner(ctx context.Context, ownerAccountID string, amount float64, bookingID string) (string, error) {
	logger := utils.GetLogger()
	if ownerAccountID == "" {
		return "", fmt.Errorf("payout requires a connected account reference")
	}
	if amount <= 0 {
		return "", fmt.Errorf("payout amount must be positive, got %.2f", amount)
	}

	params := &stripe.TransferParams{
		Amount:        stripe.Int64(toMinorUnits(amount)),
		Currency:      stripe.String(string(stripe.CurrencyUSD)),
		Destination:   stripe.String(ownerAccountID),
		TransferGroup: stripe.String("booking_" + bookingID),
	}
	params.Context = ctx

	t, err := transfer.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe transfer failed: %w", err)
	}
	logger.Info("Owner payout issued",
		zap.String("owner_account", ownerAccountID),
		zap.String("transfer_id", t.ID),
		zap.Float64("amount", amount))
	return t.ID, nil
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
