package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestWithFields(t *testing.T) {
	ctx := context.Background()

	ctx = WithFields(ctx, Field{"email", "user@example.com"})
	ctx = WithFields(ctx, Field{"request_id", "req-123"})

	fields := getObservabilityFields(ctx)
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Key != "email" || fields[0].Value != "user@example.com" {
		t.Errorf("unexpected first field: %+v", fields[0])
	}
	if fields[1].Key != "request_id" || fields[1].Value != "req-123" {
		t.Errorf("unexpected second field: %+v", fields[1])
	}
}

func TestWithFieldsEmptyContext(t *testing.T) {
	fields := getObservabilityFields(context.Background())
	if fields != nil {
		t.Errorf("expected nil fields, got %v", fields)
	}
}

func TestMiddlewareGeneratesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := NewLogger()

	router := gin.New()
	router.Use(Middleware(logger))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	requestID := w.Header().Get("X-Request-ID")
	if requestID == "" {
		t.Fatal("expected X-Request-ID header to be set")
	}
	if !strings.HasPrefix(requestID, "req-") {
		t.Errorf("expected generated request id with req- prefix, got %s", requestID)
	}
}

func TestMiddlewarePreservesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := NewLogger()

	router := gin.New()
	router.Use(Middleware(logger))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-preset")
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "req-preset" {
		t.Errorf("expected preset request id to be preserved, got %s", got)
	}
}

func TestMiddlewareRecoversFromPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := NewLogger()

	router := gin.New()
	router.Use(Middleware(logger))
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500 after panic, got %d", w.Code)
	}
}
