package billing

import (
	"context"
	"fmt"
	"subscribe-server/internal/observability"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/customer"
	"github.com/stripe/stripe-go/v79/paymentintent"
)

// Customer is a provider-side billing customer. The ID is assigned by the
// provider and is opaque to this system.
type Customer struct {
	ID    string
	Email string
}

// PaymentIntent tracks the lifecycle of a single checkout attempt. The
// ClientSecret is shared with the caller to complete payment client-side.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
	CustomerID   string
	Status       string
}

// CreateCustomerParams are the fields sent on customer creation. Email is
// required; the rest are optional.
type CreateCustomerParams struct {
	Email          string
	Name           string
	Description    string
	IdempotencyKey string
}

// CreatePaymentIntentParams are the fields sent on payment-intent creation.
type CreatePaymentIntentParams struct {
	Amount         int64 // minor currency units
	Currency       string
	CustomerID     string
	IdempotencyKey string
}

// Client talks to Stripe. It is the source of truth for customer identity
// and intent lifecycle; nothing is persisted locally.
type Client struct {
	logger *observability.Logger
}

// New creates a Stripe-backed billing client.
func New(stripeKey string, logger *observability.Logger) *Client {
	stripe.Key = stripeKey
	return &Client{logger: logger}
}

// ListCustomersByEmail returns up to limit customers whose email equals
// email, in provider-defined order.
func (c *Client) ListCustomersByEmail(ctx context.Context, email string, limit int64) ([]Customer, error) {
	params := &stripe.CustomerListParams{
		Email: stripe.String(email),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(limit)

	var customers []Customer
	iter := customer.List(params)
	for iter.Next() {
		sc := iter.Customer()
		customers = append(customers, Customer{ID: sc.ID, Email: sc.Email})
	}
	if err := iter.Err(); err != nil {
		c.logger.Error(ctx, "failed to list stripe customers", err)
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	return customers, nil
}

// CreateCustomer creates a new customer record at the provider.
func (c *Client) CreateCustomer(ctx context.Context, params CreateCustomerParams) (Customer, error) {
	createParams := &stripe.CustomerParams{
		Email: stripe.String(params.Email),
	}
	createParams.Context = ctx
	if params.Name != "" {
		createParams.Name = stripe.String(params.Name)
	}
	if params.Description != "" {
		createParams.Description = stripe.String(params.Description)
	}
	if params.IdempotencyKey != "" {
		createParams.SetIdempotencyKey(params.IdempotencyKey)
	}

	sc, err := customer.New(createParams)
	if err != nil {
		c.logger.Error(ctx, "failed to create stripe customer", err)
		return Customer{}, fmt.Errorf("creating customer: %w", err)
	}
	return Customer{ID: sc.ID, Email: sc.Email}, nil
}

// CreatePaymentIntent creates a payment intent scoped to a customer with
// automatic selection of applicable payment methods.
func (c *Client) CreatePaymentIntent(ctx context.Context, params CreatePaymentIntentParams) (PaymentIntent, error) {
	createParams := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(params.Amount),
		Currency: stripe.String(params.Currency),
		Customer: stripe.String(params.CustomerID),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	createParams.Context = ctx
	if params.IdempotencyKey != "" {
		createParams.SetIdempotencyKey(params.IdempotencyKey)
	}

	pi, err := paymentintent.New(createParams)
	if err != nil {
		c.logger.Error(ctx, "failed to create stripe payment intent", err)
		return PaymentIntent{}, fmt.Errorf("creating payment intent: %w", err)
	}

	intent := PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}
	if pi.Customer != nil {
		intent.CustomerID = pi.Customer.ID
	}
	return intent, nil
}
