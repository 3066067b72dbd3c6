package processor

import (
	"context"
	"fmt"
	"strings"
	"subscribe-server/internal/clients/billing"
	"subscribe-server/internal/observability"
)

// validateAmountAndCurrency applies the server-side business rules for a
// checkout charge. Currency comparison is on the lowercased code.
func validateAmountAndCurrency(amount int64, currency string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount < minimumAmount {
		return fmt.Errorf("%w: minimum is %d minor units", ErrAmountBelowMinimum, minimumAmount)
	}
	if !supportedCurrencies[strings.ToLower(currency)] {
		return fmt.Errorf("%w: %q", ErrUnsupportedCurrency, currency)
	}
	return nil
}

// CreateSubscriptionIntent opens a payment intent for the given customer
// and charge. The customer must carry a provider id; a customer without
// one fails fast with ErrCustomerMissingID and no provider call is made.
func (p *CheckoutProcessor) CreateSubscriptionIntent(ctx context.Context, customer billing.Customer,
	amount int64, currency string, idempotencyKey string) (billing.PaymentIntent, error) {
	if customer.ID == "" {
		p.logger.Error(ctx, "refusing to create intent for customer without id", ErrCustomerMissingID)
		return billing.PaymentIntent{}, ErrCustomerMissingID
	}
	if err := validateAmountAndCurrency(amount, currency); err != nil {
		return billing.PaymentIntent{}, err
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "customer_id", Value: customer.ID},
		observability.Field{Key: "amount", Value: amount},
		observability.Field{Key: "currency", Value: currency},
	)

	intent, err := p.provider.CreatePaymentIntent(ctx, billing.CreatePaymentIntentParams{
		Amount:         amount,
		Currency:       strings.ToLower(currency),
		CustomerID:     customer.ID,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create payment intent", err)
		return billing.PaymentIntent{}, fmt.Errorf("%w: %v", ErrFailedToCreatePaymentIntent, err)
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "payment_intent_id", Value: intent.ID})
	p.logger.Info(ctx, "Created payment intent")
	return intent, nil
}
