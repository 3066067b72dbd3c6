package processor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"subscribe-server/internal/clients/billing"
	"subscribe-server/internal/observability"

	"github.com/google/uuid"
)

// keyedMutex serializes work per key. Resolving a customer holds the lock
// for its normalized email across the lookup-then-create window so two
// concurrent resolutions for an unseen email converge on one customer.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// normalizeEmail is the canonical form used for lookups, locking and
// idempotency keys.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// customerCreateIdempotencyKey is deterministic per normalized email, so a
// retried or racing create for the same unseen email dedupes provider-side.
func customerCreateIdempotencyKey(email string) string {
	return "customer-create-" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(email)).String()
}

// ResolveCustomer returns the existing customer for email or creates one.
// When multiple customers match, the first in provider-defined order is
// taken. The returned customer always has a non-empty id.
func (p *CheckoutProcessor) ResolveCustomer(ctx context.Context, email string) (billing.Customer, error) {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return billing.Customer{}, ErrMissingEmail
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "email", Value: normalized})

	unlock := p.emailLocks.lock(normalized)
	defer unlock()

	customers, err := p.provider.ListCustomersByEmail(ctx, normalized, customerLookupLimit)
	if err != nil {
		p.logger.Error(ctx, "failed to look up customers by email", err)
		return billing.Customer{}, fmt.Errorf("%w: %v", ErrFailedToListCustomers, err)
	}

	if len(customers) > 0 {
		existing := customers[0]
		ctx = observability.WithFields(ctx, observability.Field{Key: "customer_id", Value: existing.ID})
		p.logger.Info(ctx, "Resolved existing customer")
		return existing, nil
	}

	created, err := p.provider.CreateCustomer(ctx, billing.CreateCustomerParams{
		Email:          normalized,
		IdempotencyKey: customerCreateIdempotencyKey(normalized),
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create customer", err)
		return billing.Customer{}, fmt.Errorf("%w: %v", ErrFailedToCreateCustomer, err)
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "customer_id", Value: created.ID})
	p.logger.Info(ctx, "Created new customer")
	return created, nil
}
