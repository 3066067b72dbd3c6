package handler

import (
	"net/http"

	"subscribe-server/internal/apierrors"
	"subscribe-server/internal/checkout/processor"
	"subscribe-server/internal/observability"

	"github.com/badoux/checkmail"
	"github.com/gin-gonic/gin"
)

// SubscribeRequest is the body of POST /subscribe. Amount is in minor
// currency units; amount and currency fall back to configured defaults
// when omitted.
type SubscribeRequest struct {
	CustomerEmail string `json:"customerEmail" binding:"required"`
	Amount        int64  `json:"amount" binding:"omitempty,gt=0"`
	Currency      string `json:"currency" binding:"omitempty,len=3"`
}

type Handler struct {
	processor *processor.CheckoutProcessor
	logger    *observability.Logger
}

func New(processor *processor.CheckoutProcessor, logger *observability.Logger) Handler {
	return Handler{processor: processor, logger: logger}
}

// HandleSubscribe validates the request and drives the checkout flow:
// customer resolution followed by payment-intent creation.
func (h *Handler) HandleSubscribe(c *gin.Context) {
	ctx := c.Request.Context()

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.InfoWithError(ctx, "failed to bind subscribe request", err)
		apierrors.RespondWithValidationError(c, err)
		return
	}

	if err := checkmail.ValidateFormat(req.CustomerEmail); err != nil {
		h.logger.InfoWithError(ctx, "rejected malformed customer email", err)
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidEmail,
			"customerEmail must be a valid email address"))
		return
	}

	result, err := h.processor.InitiateCheckout(ctx, processor.CheckoutParams{
		Email:    req.CustomerEmail,
		Amount:   req.Amount,
		Currency: req.Currency,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
