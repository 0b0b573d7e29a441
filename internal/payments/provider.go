// Package payments integrates the payment service provider. Amounts cross
// this boundary in minor units; everything above it prices in whole DKK.
package payments

import "context"

// SessionRequest asks the PSP for a hosted checkout session. Every field
// must be stable across retries of the same cart state: the provider treats
// a replayed IdempotencyKey with different parameters as an error, so
// nothing allocated per attempt (order ids, sequence numbers) belongs here.
type SessionRequest struct {
	CartID         string
	AmountMinor    int64
	Currency       string
	Description    string
	CustomerRef    string
	SuccessURL     string
	CancelURL      string
	IdempotencyKey string
}

// Session is the PSP's answer: where to send the shopper and how to correlate
// the webhook later.
type Session struct {
	ID          string
	IntentID    string
	RedirectURL string
}

// EventType classifies incoming webhook events.
type EventType string

const (
	// EventCompleted signals a successfully paid session.
	EventCompleted EventType = "completed"
	// EventFailed signals an expired or failed session.
	EventFailed EventType = "failed"
	// EventIgnored covers event types the platform does not act on.
	EventIgnored EventType = "ignored"
)

// Event is a verified, normalised webhook notification.
type Event struct {
	Type      EventType
	SessionID string
	IntentID  string
	Reason    string
}

// Provider is the PSP abstraction the checkout service talks to.
type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (Session, error)
	VerifyWebhook(payload []byte, signature string) (Event, error)
}
