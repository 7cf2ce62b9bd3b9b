package adaptor

import (
	"io"
	"net/http"

	"venue-booking/internal/payment"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

type WebhookHandler struct {
	service usecase.BookingService
	secret  string
	log     *zap.Logger
}

func NewWebhookHandler(service usecase.BookingService, secret string, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		secret:  secret,
		log:     log.With(zap.String("handler", "webhook")),
	}
}

// HandlePaymentWebhook handles POST /api/payments/webhook (public, signed).
// The gateway retries on non-2xx, so unknown event types still return 200.
func (h *WebhookHandler) HandlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.ResponseBadRequest(w, "Failed to read request body", nil)
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if err := payment.VerifySignature(h.secret, body, signature); err != nil {
		h.log.Warn("Webhook signature verification failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid signature", nil)
		return
	}

	event, err := payment.ParseWebhookEvent(body)
	if err != nil {
		h.log.Warn("Failed to parse webhook payload", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid payload", nil)
		return
	}

	intentID := event.Data.Object.ID

	switch event.Type {
	case payment.EventIntentSucceeded:
		err = h.service.ConfirmSucceeded(r.Context(), intentID)
	case payment.EventIntentFailed:
		err = h.service.ConfirmFailed(r.Context(), intentID)
	default:
		h.log.Info("Ignoring webhook event", zap.String("type", event.Type))
		utils.ResponseSuccess(w, "ignored", nil)
		return
	}

	if err != nil {
		h.log.Error("Failed to process webhook event",
			zap.Error(err),
			zap.String("type", event.Type),
			zap.String("payment_intent_id", intentID),
		)
		utils.ResponseInternalError(w, "Failed to process event")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
