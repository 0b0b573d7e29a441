package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"
)

// StripeProvider drives Stripe hosted checkout sessions.
type StripeProvider struct {
	api           *client.API
	webhookSecret string
}

// StripeConfig carries the provider credentials.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

// NewStripeProvider validates the credentials and builds the provider.
func NewStripeProvider(cfg StripeConfig) (*StripeProvider, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errors.New("stripe: secret key is required")
	}
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &StripeProvider{api: api, webhookSecret: cfg.WebhookSecret}, nil
}

// CreateSession opens a hosted checkout session for the already-priced order
// total. The idempotency key makes checkout retries reuse the same session.
func (p *StripeProvider) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	if req.AmountMinor <= 0 {
		return Session{}, fmt.Errorf("stripe: amount %d must be positive", req.AmountMinor)
	}
	if req.Currency == "" {
		return Session{}, errors.New("stripe: currency is required")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.CartID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(req.Currency)),
					UnitAmount: stripe.Int64(req.AmountMinor),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
			},
		},
	}
	params.Context = ctx
	if req.CustomerRef != "" {
		params.AddMetadata("userRef", req.CustomerRef)
	}
	params.AddMetadata("cartRef", req.CartID)
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return Session{}, fmt.Errorf("stripe: create session: %w", err)
	}

	out := Session{ID: sess.ID, RedirectURL: sess.URL}
	if sess.PaymentIntent != nil {
		out.IntentID = sess.PaymentIntent.ID
	}
	return out, nil
}

// VerifyWebhook checks the signature and normalises the event. Event types
// the platform does not act on come back as EventIgnored with no error.
func (p *StripeProvider) VerifyWebhook(payload []byte, signature string) (Event, error) {
	if p.webhookSecret == "" {
		return Event{}, errors.New("stripe: webhook secret is not configured")
	}
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return Event{}, fmt.Errorf("stripe: verify webhook: %w", err)
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.expired":
	default:
		return Event{Type: EventIgnored}, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return Event{}, fmt.Errorf("stripe: decode session payload: %w", err)
	}

	out := Event{SessionID: sess.ID}
	if sess.PaymentIntent != nil {
		out.IntentID = sess.PaymentIntent.ID
	}
	if event.Type == "checkout.session.completed" {
		out.Type = EventCompleted
	} else {
		out.Type = EventFailed
		out.Reason = "checkout session expired"
	}
	return out, nil
}

var _ Provider = (*StripeProvider)(nil)
