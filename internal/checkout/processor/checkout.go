package processor

import (
	"context"
	"subscribe-server/internal/observability"

	"github.com/google/uuid"
)

// checkoutState tracks a single checkout attempt through its lifecycle.
type checkoutState string

const (
	stateValidating        checkoutState = "validating"
	stateResolvingCustomer checkoutState = "resolving-customer"
	stateCreatingIntent    checkoutState = "creating-intent"
	stateCompleted         checkoutState = "completed"
	stateFailed            checkoutState = "failed"
)

// CheckoutParams is a checkout request after binding. Amount and Currency
// are zero-valued when the caller omitted them.
type CheckoutParams struct {
	Email    string
	Amount   int64
	Currency string
}

// CheckoutResult is what the caller needs to complete payment client-side.
type CheckoutResult struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

func (p *CheckoutProcessor) setState(ctx context.Context, state checkoutState) context.Context {
	ctx = observability.WithFields(ctx, observability.Field{Key: "checkout_state", Value: string(state)})
	p.logger.Debug(ctx, "checkout state transition")
	return ctx
}

// InitiateCheckout validates the request, resolves the customer and opens
// a payment intent, applying configured defaults for amount and currency.
// Every failure is surfaced; nothing is retried.
func (p *CheckoutProcessor) InitiateCheckout(ctx context.Context, params CheckoutParams) (CheckoutResult, error) {
	ctx = p.setState(ctx, stateValidating)
	if normalizeEmail(params.Email) == "" {
		p.setState(ctx, stateFailed)
		return CheckoutResult{}, ErrMissingEmail
	}

	amount := params.Amount
	if amount == 0 {
		amount = p.defaultAmount
	}
	currency := params.Currency
	if currency == "" {
		currency = p.defaultCurrency
	}
	if err := validateAmountAndCurrency(amount, currency); err != nil {
		p.setState(ctx, stateFailed)
		return CheckoutResult{}, err
	}

	ctx = p.setState(ctx, stateResolvingCustomer)
	customer, err := p.ResolveCustomer(ctx, params.Email)
	if err != nil {
		p.setState(ctx, stateFailed)
		return CheckoutResult{}, err
	}

	ctx = p.setState(ctx, stateCreatingIntent)
	// One intent per checkout attempt; the key makes a provider-side retry
	// of this exact attempt idempotent.
	intentKey := "payment-intent-" + uuid.New().String()
	intent, err := p.CreateSubscriptionIntent(ctx, customer, amount, currency, intentKey)
	if err != nil {
		p.setState(ctx, stateFailed)
		return CheckoutResult{}, err
	}

	ctx = p.setState(ctx, stateCompleted)
	p.logger.Info(ctx, "Checkout initiated")
	return CheckoutResult{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
	}, nil
}
