package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	domain "github.com/madkurv/api/internal/domain"
	"github.com/madkurv/api/internal/payments"
	"github.com/madkurv/api/internal/platform/ids"
	"github.com/madkurv/api/internal/repositories"
)

var (
	ErrCartEmpty     = errors.New("checkout: cart is empty")
	ErrOrderNotFound = errors.New("checkout: order not found")
)

type checkoutService struct {
	carts    CartService
	cartRepo repositories.CartRepository
	orders   repositories.OrderRepository
	counters repositories.CounterRepository
	provider payments.Provider
	currency string
	now      func() time.Time
	logger   Logger
}

// CheckoutServiceDeps lists the collaborators of the checkout service.
type CheckoutServiceDeps struct {
	Carts    CartService
	CartRepo repositories.CartRepository
	Orders   repositories.OrderRepository
	Counters repositories.CounterRepository
	Provider payments.Provider
	Currency string
	Clock    Clock
	Logger   Logger
}

// NewCheckoutService validates deps and builds the checkout service.
func NewCheckoutService(deps CheckoutServiceDeps) (CheckoutService, error) {
	switch {
	case deps.Carts == nil:
		return nil, errors.New("checkout: cart service is required")
	case deps.CartRepo == nil:
		return nil, errors.New("checkout: cart repository is required")
	case deps.Orders == nil:
		return nil, errors.New("checkout: order repository is required")
	case deps.Counters == nil:
		return nil, errors.New("checkout: counter repository is required")
	case deps.Provider == nil:
		return nil, errors.New("checkout: payment provider is required")
	}
	currency := strings.ToUpper(strings.TrimSpace(deps.Currency))
	if currency == "" {
		currency = "DKK"
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &checkoutService{
		carts:    deps.Carts,
		cartRepo: deps.CartRepo,
		orders:   deps.Orders,
		counters: deps.Counters,
		provider: deps.Provider,
		currency: currency,
		now:      func() time.Time { return clock().UTC() },
		logger:   logger,
	}, nil
}

// Start freezes the cart into an order snapshot and opens a PSP session for
// the payable total. The idempotency key is a fingerprint of the priced cart,
// so retrying an unchanged cart replays the same session and returns the
// order already minted for it; the order number is only allocated once the
// session is known to be new. Rounding to minor units happens exactly once,
// here, at the provider boundary.
func (s *checkoutService) Start(ctx context.Context, cmd StartCheckoutCommand) (CheckoutSession, error) {
	priced, err := s.carts.Price(ctx, cmd.CartID)
	if err != nil {
		return CheckoutSession{}, err
	}
	if len(priced.Cart.Lines) == 0 {
		return CheckoutSession{}, ErrCartEmpty
	}

	session, err := s.provider.CreateSession(ctx, payments.SessionRequest{
		CartID:         priced.Cart.ID,
		AmountMinor:    toMinor(priced.Total),
		Currency:       s.currency,
		Description:    fmt.Sprintf("Order for cart %s", priced.Cart.ID),
		CustomerRef:    priced.Cart.UserID,
		SuccessURL:     cmd.SuccessURL,
		CancelURL:      cmd.CancelURL,
		IdempotencyKey: checkoutIdempotencyKey(priced),
	})
	if err != nil {
		return CheckoutSession{}, err
	}

	// A replayed key hands back the original session; its order already
	// exists, so return it instead of allocating another number.
	existing, err := s.orders.GetByPaymentSession(ctx, session.ID)
	if err == nil {
		return CheckoutSession{Order: existing, RedirectURL: session.RedirectURL}, nil
	}
	if !repositories.IsNotFound(err) {
		return CheckoutSession{}, err
	}

	seq, err := s.counters.Next(ctx, orderCounterPrefix+priced.Cart.BrandID)
	if err != nil {
		return CheckoutSession{}, err
	}

	now := s.now()
	deliveryFee := priced.DeliveryFee
	if priced.DeliveryFeeWaived {
		deliveryFee = 0
	}
	order := domain.Order{
		ID:           ids.New(now),
		OrderNumber:  formatOrderNumber(seq),
		UserID:       priced.Cart.UserID,
		BrandID:      priced.Cart.BrandID,
		LocationID:   priced.Cart.LocationID,
		DeliveryType: priced.Cart.DeliveryType,
		PickupTime:   priced.Cart.PickupTime,
		Lines:        priced.Cart.Lines,
		Payment: domain.PaymentDetails{
			Provider:    "stripe",
			SessionID:   session.ID,
			IntentID:    session.IntentID,
			Snapshot:    priced.Pricing,
			DeliveryFee: deliveryFee,
			FeeWaived:   priced.DeliveryFeeWaived,
			AmountMinor: toMinor(priced.Total),
			Currency:    s.currency,
		},
		Status:    domain.OrderStatusPendingPayment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return CheckoutSession{}, err
	}
	s.logger(ctx, "checkout.started", map[string]any{
		"orderId":     order.ID,
		"orderNumber": order.OrderNumber,
		"amountMinor": order.Payment.AmountMinor,
	})
	return CheckoutSession{Order: order, RedirectURL: session.RedirectURL}, nil
}

// CompletePayment transitions the order to paid and clears the cart. The
// transition is idempotent; the PSP retries webhooks until acknowledged.
func (s *checkoutService) CompletePayment(ctx context.Context, sessionID, intentID string) (domain.Order, error) {
	order, err := s.orderBySession(ctx, sessionID)
	if err != nil {
		return domain.Order{}, err
	}
	if order.Status == domain.OrderStatusPaid || order.Status == domain.OrderStatusCompleted {
		return order, nil
	}

	now := s.now()
	order.Status = domain.OrderStatusPaid
	order.PaidAt = &now
	order.UpdatedAt = now
	order.Payment.CompletedAt = &now
	if intentID != "" {
		order.Payment.IntentID = intentID
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return domain.Order{}, err
	}

	s.clearCart(ctx, order)
	s.logger(ctx, "checkout.paid", map[string]any{
		"orderId":     order.ID,
		"orderNumber": order.OrderNumber,
	})
	return order, nil
}

// FailPayment records the failure. The order stays pending so the shopper
// can retry a fresh session; an expired session is not a cancellation.
func (s *checkoutService) FailPayment(ctx context.Context, sessionID, reason string) error {
	order, err := s.orderBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	if order.Status != domain.OrderStatusPendingPayment {
		return nil
	}
	order.Payment.FailedReason = reason
	order.UpdatedAt = s.now()
	if err := s.orders.Save(ctx, order); err != nil {
		return err
	}
	s.logger(ctx, "checkout.payment_failed", map[string]any{
		"orderId": order.ID,
		"reason":  reason,
	})
	return nil
}

func (s *checkoutService) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
		}
		return domain.Order{}, err
	}
	return order, nil
}

func (s *checkoutService) ListOrders(ctx context.Context, userID, brandID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID, brandID)
}

func (s *checkoutService) orderBySession(ctx context.Context, sessionID string) (domain.Order, error) {
	order, err := s.orders.GetByPaymentSession(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.Order{}, fmt.Errorf("%w: session %s", ErrOrderNotFound, sessionID)
		}
		return domain.Order{}, err
	}
	return order, nil
}

// clearCart drops the shopper's cart after a paid order. Best effort; the
// order is already safe.
func (s *checkoutService) clearCart(ctx context.Context, order domain.Order) {
	cart, err := s.cartRepo.GetByUser(ctx, order.UserID, order.BrandID)
	if err != nil {
		if !repositories.IsNotFound(err) {
			s.logger(ctx, "checkout.cart_cleanup_failed", map[string]any{
				"orderId": order.ID,
				"error":   err.Error(),
			})
		}
		return
	}
	if err := s.cartRepo.Delete(ctx, cart.ID); err != nil {
		s.logger(ctx, "checkout.cart_cleanup_failed", map[string]any{
			"orderId": order.ID,
			"error":   err.Error(),
		})
	}
}

// toMinor converts whole DKK to øre. Pricing carries unrounded floats all the
// way; this is the single rounding point.
func toMinor(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// checkoutIdempotencyKey fingerprints the payable state of a priced cart.
// Two calls over an unchanged cart produce the same key; any mutation that
// changes what the shopper would pay (lines, quantities, voucher, fulfilment)
// changes it.
func checkoutIdempotencyKey(priced PricedCart) string {
	digest := sha256.New()
	io.WriteString(digest, priced.Cart.ID)
	io.WriteString(digest, "|"+string(priced.Cart.DeliveryType))
	if priced.Cart.PickupTime != nil {
		io.WriteString(digest, "|"+priced.Cart.PickupTime.UTC().Format(time.RFC3339))
	}
	io.WriteString(digest, "|"+priced.Cart.VoucherCode)
	fmt.Fprintf(digest, "|%d|%t", toMinor(priced.Total), priced.DeliveryFeeWaived)
	for _, line := range priced.Cart.Lines {
		fmt.Fprintf(digest, "|%s:%s:%s:%d:%d",
			line.ID, line.ProductID, line.ComboID, line.Quantity, toMinor(line.Price))
		for _, topping := range line.Toppings {
			fmt.Fprintf(digest, "+%s:%d", topping.Name, toMinor(topping.Price))
		}
	}
	return "checkout-" + priced.Cart.ID + "-" + hex.EncodeToString(digest.Sum(nil)[:12])
}
