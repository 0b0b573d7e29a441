package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/madkurv/api/internal/domain"
	"github.com/madkurv/api/internal/payments"
	"github.com/madkurv/api/internal/services"
)

type stubPaymentProvider struct {
	event payments.Event
	err   error
}

func (s *stubPaymentProvider) CreateSession(context.Context, payments.SessionRequest) (payments.Session, error) {
	return payments.Session{}, errors.New("not used")
}

func (s *stubPaymentProvider) VerifyWebhook([]byte, string) (payments.Event, error) {
	return s.event, s.err
}

type stubCheckoutService struct {
	completed []string
	failed    []string
	err       error
}

func (s *stubCheckoutService) Start(context.Context, services.StartCheckoutCommand) (services.CheckoutSession, error) {
	return services.CheckoutSession{}, nil
}

func (s *stubCheckoutService) CompletePayment(_ context.Context, sessionID, _ string) (domain.Order, error) {
	s.completed = append(s.completed, sessionID)
	return domain.Order{Status: domain.OrderStatusPaid}, s.err
}

func (s *stubCheckoutService) FailPayment(_ context.Context, sessionID, _ string) error {
	s.failed = append(s.failed, sessionID)
	return s.err
}

func (s *stubCheckoutService) GetOrder(context.Context, string) (domain.Order, error) {
	return domain.Order{}, services.ErrOrderNotFound
}

func (s *stubCheckoutService) ListOrders(context.Context, string, string) ([]domain.Order, error) {
	return nil, nil
}

func webhookTestRouter(provider payments.Provider, checkout services.CheckoutService) http.Handler {
	r := chi.NewRouter()
	r.Route("/webhooks", NewWebhookHandlers(provider, checkout).Routes)
	return r
}

func postWebhook(router http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=sig")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestWebhookCompletedEvent(t *testing.T) {
	checkout := &stubCheckoutService{}
	provider := &stubPaymentProvider{event: payments.Event{
		Type:      payments.EventCompleted,
		SessionID: "cs_123",
		IntentID:  "pi_123",
	}}

	rr := postWebhook(webhookTestRouter(provider, checkout))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(checkout.completed) != 1 || checkout.completed[0] != "cs_123" {
		t.Fatalf("expected completion for cs_123, got %v", checkout.completed)
	}
}

func TestWebhookFailedEvent(t *testing.T) {
	checkout := &stubCheckoutService{}
	provider := &stubPaymentProvider{event: payments.Event{
		Type:      payments.EventFailed,
		SessionID: "cs_456",
		Reason:    "session expired",
	}}

	rr := postWebhook(webhookTestRouter(provider, checkout))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if len(checkout.failed) != 1 || checkout.failed[0] != "cs_456" {
		t.Fatalf("expected failure for cs_456, got %v", checkout.failed)
	}
}

func TestWebhookBadSignature(t *testing.T) {
	checkout := &stubCheckoutService{}
	provider := &stubPaymentProvider{err: errors.New("signature mismatch")}

	rr := postWebhook(webhookTestRouter(provider, checkout))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if len(checkout.completed)+len(checkout.failed) != 0 {
		t.Fatalf("checkout must not be touched on bad signature")
	}
}

func TestWebhookIgnoredEvent(t *testing.T) {
	checkout := &stubCheckoutService{}
	provider := &stubPaymentProvider{event: payments.Event{Type: payments.EventIgnored}}

	rr := postWebhook(webhookTestRouter(provider, checkout))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for ignored event, got %d", rr.Code)
	}
	if len(checkout.completed)+len(checkout.failed) != 0 {
		t.Fatalf("ignored events must not drive checkout")
	}
}

func TestWebhookCompletionErrorTriggersRetry(t *testing.T) {
	checkout := &stubCheckoutService{err: errors.New("firestore down")}
	provider := &stubPaymentProvider{event: payments.Event{
		Type:      payments.EventCompleted,
		SessionID: "cs_789",
	}}

	rr := postWebhook(webhookTestRouter(provider, checkout))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 so the provider retries, got %d", rr.Code)
	}
}
