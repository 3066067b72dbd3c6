package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"subscribe-server/internal/checkout/processor"
	"subscribe-server/internal/clients/billing"
	"subscribe-server/internal/observability"

	"github.com/gin-gonic/gin"
)

type stubProvider struct {
	customers []billing.Customer
	intentErr error

	listCalls   int
	createCalls int
	intentCalls int
}

func (s *stubProvider) ListCustomersByEmail(_ context.Context, email string, limit int64) ([]billing.Customer, error) {
	s.listCalls++
	var matches []billing.Customer
	for _, c := range s.customers {
		if c.Email == email && int64(len(matches)) < limit {
			matches = append(matches, c)
		}
	}
	return matches, nil
}

func (s *stubProvider) CreateCustomer(_ context.Context, params billing.CreateCustomerParams) (billing.Customer, error) {
	s.createCalls++
	return billing.Customer{ID: "cus_new", Email: params.Email}, nil
}

func (s *stubProvider) CreatePaymentIntent(_ context.Context, params billing.CreatePaymentIntentParams) (billing.PaymentIntent, error) {
	s.intentCalls++
	if s.intentErr != nil {
		return billing.PaymentIntent{}, s.intentErr
	}
	return billing.PaymentIntent{
		ID:           "pi_123",
		ClientSecret: "pi_123_secret",
		Amount:       params.Amount,
		Currency:     params.Currency,
		CustomerID:   params.CustomerID,
		Status:       "requires_payment_method",
	}, nil
}

func newTestRouter(provider *stubProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := observability.NewLogger()
	p := processor.New(provider, 1000, "gbp", logger)
	h := New(p, logger)

	router := gin.New()
	router.POST("/subscribe", h.HandleSubscribe)
	return router
}

func postSubscribe(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/subscribe", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestHandleSubscribeSuccess(t *testing.T) {
	provider := &stubProvider{}
	router := newTestRouter(provider)

	w := postSubscribe(t, router, `{"customerEmail":"new@example.com","amount":1000,"currency":"gbp"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		ClientSecret    string `json:"clientSecret"`
		PaymentIntentID string `json:"paymentIntentId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ClientSecret == "" {
		t.Error("expected non-empty clientSecret")
	}
	if resp.PaymentIntentID == "" {
		t.Error("expected non-empty paymentIntentId")
	}
	if provider.createCalls != 1 {
		t.Errorf("expected exactly 1 customer-create call, got %d", provider.createCalls)
	}
	if provider.intentCalls != 1 {
		t.Errorf("expected exactly 1 intent-create call, got %d", provider.intentCalls)
	}
}

func TestHandleSubscribeMissingEmail(t *testing.T) {
	provider := &stubProvider{}
	router := newTestRouter(provider)

	w := postSubscribe(t, router, `{"amount":1000}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if provider.listCalls != 0 || provider.createCalls != 0 || provider.intentCalls != 0 {
		t.Errorf("expected no provider calls, got list=%d create=%d intent=%d",
			provider.listCalls, provider.createCalls, provider.intentCalls)
	}
}

func TestHandleSubscribeMalformedEmail(t *testing.T) {
	provider := &stubProvider{}
	router := newTestRouter(provider)

	w := postSubscribe(t, router, `{"customerEmail":"not-an-email"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != "INVALID_EMAIL" {
		t.Errorf("expected code INVALID_EMAIL, got %s", resp.Code)
	}
	if provider.listCalls != 0 {
		t.Errorf("expected no provider calls, got %d", provider.listCalls)
	}
}

func TestHandleSubscribeInvalidJSON(t *testing.T) {
	provider := &stubProvider{}
	router := newTestRouter(provider)

	w := postSubscribe(t, router, `{"customerEmail":`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestHandleSubscribeExistingCustomer(t *testing.T) {
	provider := &stubProvider{
		customers: []billing.Customer{{ID: "cus_existing", Email: "known@example.com"}},
	}
	router := newTestRouter(provider)

	w := postSubscribe(t, router, `{"customerEmail":"known@example.com"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if provider.createCalls != 0 {
		t.Errorf("expected no customer-create call, got %d", provider.createCalls)
	}
}

func TestHandleSubscribeProviderFailure(t *testing.T) {
	provider := &stubProvider{intentErr: errors.New("stripe: currency not supported")}
	router := newTestRouter(provider)

	w := postSubscribe(t, router, `{"customerEmail":"new@example.com"}`)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", w.Code)
	}
	var resp struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != "PROVIDER_ERROR" {
		t.Errorf("expected code PROVIDER_ERROR, got %s", resp.Code)
	}
	if resp.Error == "" {
		t.Error("expected provider message in error response")
	}
}
