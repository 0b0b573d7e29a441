// Package services holds the application's use cases. Each service is a
// plain struct constructed from a Deps value; constructors validate their
// required collaborators and return an error instead of panicking later.
package services

import (
	"context"
	"time"

	domain "github.com/madkurv/api/internal/domain"
)

// Logger is the structured event sink services write to. The observability
// package adapts zap to this signature; tests swap in a recording func.
type Logger func(ctx context.Context, event string, fields map[string]any)

// Clock supplies the current time. Services wrap it to UTC on construction.
type Clock func() time.Time

// CatalogService exposes a brand's storefront menu and the back-office
// mutations maintaining it.
type CatalogService interface {
	Menu(ctx context.Context, brandSlug string) (Menu, error)
	SaveCategory(ctx context.Context, category domain.Category) (domain.Category, error)
	SaveProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	SaveCombo(ctx context.Context, combo domain.Combo) (domain.Combo, error)
	DeleteProduct(ctx context.Context, id string) error
}

// DiscountService owns back-office discount and voucher authoring.
type DiscountService interface {
	ListDiscounts(ctx context.Context, brandID string) ([]domain.StandardDiscount, error)
	SaveDiscount(ctx context.Context, discount domain.StandardDiscount) (domain.StandardDiscount, error)
	DeleteDiscount(ctx context.Context, id string) error
	ListVouchers(ctx context.Context, brandID string) ([]domain.VoucherDiscount, error)
	SaveVoucher(ctx context.Context, voucher domain.VoucherDiscount) (domain.VoucherDiscount, error)
	DeleteVoucher(ctx context.Context, id string) error
}

// CartService manages the shopper's open cart and prices it on demand.
type CartService interface {
	GetOrCreate(ctx context.Context, cmd OpenCartCommand) (domain.Cart, error)
	AddProduct(ctx context.Context, cmd AddProductCommand) (PricedCart, error)
	AddCombo(ctx context.Context, cartID, comboID string) (PricedCart, error)
	AcceptUpsell(ctx context.Context, cartID, offerID string) (PricedCart, error)
	UpdateLineQuantity(ctx context.Context, cartID, lineID string, quantity int) (PricedCart, error)
	RemoveLine(ctx context.Context, cartID, lineID string) (PricedCart, error)
	ApplyVoucher(ctx context.Context, cartID, code string) (PricedCart, error)
	RemoveVoucher(ctx context.Context, cartID string) (PricedCart, error)
	SetFulfilment(ctx context.Context, cmd SetFulfilmentCommand) (PricedCart, error)
	Price(ctx context.Context, cartID string) (PricedCart, error)
}

// UpsellService selects checkout offers and tracks their performance.
type UpsellService interface {
	OffersForCart(ctx context.Context, cart domain.Cart) ([]domain.UpsellOffer, error)
	SaveOffer(ctx context.Context, offer domain.UpsellOffer) (domain.UpsellOffer, error)
	DeleteOffer(ctx context.Context, id string) error
	ListOffers(ctx context.Context, brandID string) ([]domain.UpsellOffer, error)
}

// CheckoutService freezes a cart into an order and drives the payment
// lifecycle from PSP webhooks.
type CheckoutService interface {
	Start(ctx context.Context, cmd StartCheckoutCommand) (CheckoutSession, error)
	CompletePayment(ctx context.Context, sessionID, intentID string) (domain.Order, error)
	FailPayment(ctx context.Context, sessionID, reason string) error
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	ListOrders(ctx context.Context, userID, brandID string) ([]domain.Order, error)
}

// FeedbackService accepts customer ratings and moderates them.
type FeedbackService interface {
	Submit(ctx context.Context, cmd SubmitFeedbackCommand) (domain.Feedback, error)
	Moderate(ctx context.Context, id string, approve bool, moderator string) (domain.Feedback, error)
	List(ctx context.Context, brandID string, status domain.FeedbackStatus) ([]domain.Feedback, error)
}

// QAService tracks internal test cases with counter-allocated codes.
type QAService interface {
	Create(ctx context.Context, cmd CreateQACaseCommand) (domain.QATestCase, error)
	SetStatus(ctx context.Context, id string, status domain.QAStatus) (domain.QATestCase, error)
	List(ctx context.Context) ([]domain.QATestCase, error)
}

// Menu is the storefront view of one brand.
type Menu struct {
	Brand      domain.Brand
	Locations  []domain.Location
	Categories []domain.Category
	Products   []domain.Product
	Combos     []domain.Combo
}

// PricedCart pairs the stored cart with a fresh pricing computation. The
// pricing half is never persisted with the cart; it is recomputed per call.
type PricedCart struct {
	Cart              domain.Cart
	Pricing           domain.PricingResult
	DeliveryFee       float64
	DeliveryFeeWaived bool
	Total             float64
}

// OpenCartCommand identifies the cart to open or create.
type OpenCartCommand struct {
	UserID       string
	BrandID      string
	LocationID   string
	DeliveryType domain.DeliveryType
}

// AddProductCommand adds a product line to a cart.
type AddProductCommand struct {
	CartID    string
	ProductID string
	Quantity  int
	Toppings  []string
}

// SetFulfilmentCommand changes how and when the order is fulfilled.
type SetFulfilmentCommand struct {
	CartID       string
	DeliveryType domain.DeliveryType
	PickupTime   *time.Time
}

// StartCheckoutCommand starts payment for a cart.
type StartCheckoutCommand struct {
	CartID     string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the PSP redirect handed back to the storefront.
type CheckoutSession struct {
	Order       domain.Order
	RedirectURL string
}

// SubmitFeedbackCommand records a customer rating for an order.
type SubmitFeedbackCommand struct {
	BrandID  string
	OrderID  string
	UserID   string
	Rating   int
	Comment  string
}

// CreateQACaseCommand registers a new QA test case.
type CreateQACaseCommand struct {
	Title    string
	Area     string
	Steps    []string
	Expected string
	Assignee string
}
