package processor

import (
	"context"
	"errors"
	"subscribe-server/internal/clients/billing"
	"subscribe-server/internal/observability"
)

// BillingProvider defines the payment-provider operations required by CheckoutProcessor
type BillingProvider interface {
	ListCustomersByEmail(ctx context.Context, email string, limit int64) ([]billing.Customer, error)
	CreateCustomer(ctx context.Context, params billing.CreateCustomerParams) (billing.Customer, error)
	CreatePaymentIntent(ctx context.Context, params billing.CreatePaymentIntentParams) (billing.PaymentIntent, error)
}

var (
	// Validation errors: detected locally, no provider call is made.
	ErrMissingEmail        = errors.New("customer email is required")
	ErrInvalidAmount       = errors.New("amount must be a positive number of minor currency units")
	ErrAmountBelowMinimum  = errors.New("amount is below the provider minimum")
	ErrUnsupportedCurrency = errors.New("currency is not supported")

	// Precondition errors: detected locally before the provider call.
	ErrCustomerMissingID = errors.New("customer is missing a provider id")

	// Provider errors: any failure returned by the billing provider.
	ErrFailedToListCustomers       = errors.New("failed to look up customers")
	ErrFailedToCreateCustomer      = errors.New("failed to create customer")
	ErrFailedToCreatePaymentIntent = errors.New("failed to create payment intent")
)

// customerLookupLimit caps the provider lookup page size.
const customerLookupLimit = 10

// minimumAmount is the smallest charge the provider accepts, in minor units.
const minimumAmount = 50

// supportedCurrencies are the lowercase ISO 4217 codes this system accepts.
var supportedCurrencies = map[string]bool{
	"aud": true,
	"cad": true,
	"eur": true,
	"gbp": true,
	"usd": true,
}

// CheckoutProcessor resolves billing customers and opens payment intents
// for checkout flows.
type CheckoutProcessor struct {
	provider        BillingProvider
	defaultAmount   int64
	defaultCurrency string
	logger          *observability.Logger
	emailLocks      keyedMutex
}

// New creates a CheckoutProcessor. defaultAmount and defaultCurrency are
// applied when a checkout request omits them.
func New(provider BillingProvider, defaultAmount int64, defaultCurrency string,
	logger *observability.Logger) *CheckoutProcessor {
	return &CheckoutProcessor{
		provider:        provider,
		defaultAmount:   defaultAmount,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}
