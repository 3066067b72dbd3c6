package apierrors

import (
	"errors"

	checkoutProcessor "subscribe-server/internal/checkout/processor"
)

// MapError converts domain/processor errors to APIErrors.
// This function centralizes all error mapping logic to ensure consistent
// error responses across the entire API.
//
// If the error is already an APIError, it returns it as-is.
// If the error is a known domain error, it maps it to an appropriate APIError.
// If the error is unknown, it returns a sanitized InternalError (500).
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	// Check if already an APIError
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	// Validation errors: client-caused, the provider was never called
	case errors.Is(err, checkoutProcessor.ErrMissingEmail):
		return BadRequest(CodeMissingEmail, "Missing customer email")

	case errors.Is(err, checkoutProcessor.ErrInvalidAmount),
		errors.Is(err, checkoutProcessor.ErrAmountBelowMinimum):
		return BadRequest(CodeInvalidAmount, err.Error())

	case errors.Is(err, checkoutProcessor.ErrUnsupportedCurrency):
		return BadRequest(CodeUnsupportedCurrency, err.Error())

	// Precondition errors: detected locally before the provider call
	case errors.Is(err, checkoutProcessor.ErrCustomerMissingID):
		return UnprocessableEntity(CodePreconditionFailed, "Customer is missing a provider id")

	// Provider errors: propagated with the provider's message preserved
	case errors.Is(err, checkoutProcessor.ErrFailedToListCustomers),
		errors.Is(err, checkoutProcessor.ErrFailedToCreateCustomer),
		errors.Is(err, checkoutProcessor.ErrFailedToCreatePaymentIntent):
		return BadGateway(CodeProviderError, err)

	default:
		return InternalError(err)
	}
}
