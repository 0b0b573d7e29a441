package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/madkurv/api/internal/payments"
	"github.com/madkurv/api/internal/platform/httpx"
	"github.com/madkurv/api/internal/platform/requestctx"
	"github.com/madkurv/api/internal/services"
)

// Stripe webhook payloads are small; anything larger is rejected unread.
const maxWebhookBody = 64 * 1024

// WebhookHandlers receives asynchronous PSP notifications. These endpoints
// are authenticated by signature, not by bearer token.
type WebhookHandlers struct {
	provider payments.Provider
	checkout services.CheckoutService
}

func NewWebhookHandlers(provider payments.Provider, checkout services.CheckoutService) *WebhookHandlers {
	return &WebhookHandlers{provider: provider, checkout: checkout}
}

// Routes mounts the webhook endpoints.
func (h *WebhookHandlers) Routes(r chi.Router) {
	r.Post("/stripe", h.handleStripe)
}

func (h *WebhookHandlers) handleStripe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := requestctx.Logger(ctx)

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody+1))
	if err != nil || len(payload) > maxWebhookBody {
		httpx.WriteError(ctx, w, httpx.BadRequest("unreadable webhook payload"))
		return
	}

	event, err := h.provider.VerifyWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		logger.Warn("webhook signature rejected", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.BadRequest("invalid webhook signature"))
		return
	}

	switch event.Type {
	case payments.EventCompleted:
		if _, err := h.checkout.CompletePayment(ctx, event.SessionID, event.IntentID); err != nil {
			logger.Error("payment completion failed",
				zap.String("session_id", event.SessionID), zap.Error(err))
			// Non-2xx makes Stripe retry the delivery later.
			httpx.WriteError(ctx, w, httpx.Internal("payment completion failed"))
			return
		}
	case payments.EventFailed:
		if err := h.checkout.FailPayment(ctx, event.SessionID, event.Reason); err != nil {
			logger.Error("payment failure handling failed",
				zap.String("session_id", event.SessionID), zap.Error(err))
			httpx.WriteError(ctx, w, httpx.Internal("payment failure handling failed"))
			return
		}
	default:
		logger.Info("webhook event ignored", zap.String("session_id", event.SessionID))
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"received": "true"})
}
