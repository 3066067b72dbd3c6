//go:build integration
// +build integration

package tests

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run against a live server configured with a Stripe test key.

func TestAPI_Subscribe(t *testing.T) {
	t.Run("missing email returns 400", func(t *testing.T) {
		resp, body := makeRequest(t, http.MethodPost, "/subscribe",
			map[string]interface{}{"amount": 1000}, nil)
		assertStatusCode(t, resp, http.StatusBadRequest)

		var response map[string]interface{}
		parseJSONResponse(t, body, &response)
		assert.NotEmpty(t, response["error"])
	})

	t.Run("malformed email returns 400", func(t *testing.T) {
		resp, body := makeRequest(t, http.MethodPost, "/subscribe",
			map[string]interface{}{"customerEmail": "not-an-email"}, nil)
		assertStatusCode(t, resp, http.StatusBadRequest)

		var response map[string]interface{}
		parseJSONResponse(t, body, &response)
		assert.Equal(t, "INVALID_EMAIL", response["code"])
	})

	t.Run("unsupported currency returns 400", func(t *testing.T) {
		resp, body := makeRequest(t, http.MethodPost, "/subscribe", map[string]interface{}{
			"customerEmail": "someone@example.com",
			"amount":        1000,
			"currency":      "xyz",
		}, nil)
		assertStatusCode(t, resp, http.StatusBadRequest)

		var response map[string]interface{}
		parseJSONResponse(t, body, &response)
		assert.Equal(t, "UNSUPPORTED_CURRENCY", response["code"])
	})

	t.Run("new customer checkout returns client secret", func(t *testing.T) {
		email := fmt.Sprintf("subscribe-test-%d@example.com", time.Now().UnixNano())

		resp, body := makeRequest(t, http.MethodPost, "/subscribe", map[string]interface{}{
			"customerEmail": email,
			"amount":        1000,
			"currency":      "gbp",
		}, nil)
		assertStatusCode(t, resp, http.StatusOK)

		var response struct {
			ClientSecret    string `json:"clientSecret"`
			PaymentIntentID string `json:"paymentIntentId"`
		}
		parseJSONResponse(t, body, &response)
		require.NotEmpty(t, response.ClientSecret)
		require.NotEmpty(t, response.PaymentIntentID)

		// A second checkout for the same email must reuse the customer and
		// open a fresh intent.
		resp2, body2 := makeRequest(t, http.MethodPost, "/subscribe", map[string]interface{}{
			"customerEmail": email,
			"amount":        1000,
			"currency":      "gbp",
		}, nil)
		assertStatusCode(t, resp2, http.StatusOK)

		var response2 struct {
			ClientSecret    string `json:"clientSecret"`
			PaymentIntentID string `json:"paymentIntentId"`
		}
		parseJSONResponse(t, body2, &response2)
		require.NotEmpty(t, response2.PaymentIntentID)
		assert.NotEqual(t, response.PaymentIntentID, response2.PaymentIntentID)
	})
}
