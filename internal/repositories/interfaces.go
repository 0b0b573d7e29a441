package repositories

import (
	"context"
	"errors"
	"time"

	domain "github.com/madkurv/api/internal/domain"
)

// RepositoryError lets callers branch on failure semantics without knowing
// the backing store.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// IsNotFound reports whether err represents a missing record.
func IsNotFound(err error) bool {
	var re RepositoryError
	return errors.As(err, &re) && re.IsNotFound()
}

// IsConflict reports whether err represents a lost concurrent update.
func IsConflict(err error) bool {
	var re RepositoryError
	return errors.As(err, &re) && re.IsConflict()
}

// IsUnavailable reports whether err is transient.
func IsUnavailable(err error) bool {
	var re RepositoryError
	return errors.As(err, &re) && re.IsUnavailable()
}

// BrandRepository reads and writes platform tenants.
type BrandRepository interface {
	Get(ctx context.Context, id string) (domain.Brand, error)
	GetBySlug(ctx context.Context, slug string) (domain.Brand, error)
	List(ctx context.Context) ([]domain.Brand, error)
	Save(ctx context.Context, brand domain.Brand) error
}

// LocationRepository stores a brand's restaurants.
type LocationRepository interface {
	Get(ctx context.Context, id string) (domain.Location, error)
	ListByBrand(ctx context.Context, brandID string) ([]domain.Location, error)
	Save(ctx context.Context, location domain.Location) error
}

// CategoryRepository stores menu categories.
type CategoryRepository interface {
	ListByBrand(ctx context.Context, brandID string) ([]domain.Category, error)
	Save(ctx context.Context, category domain.Category) error
	Delete(ctx context.Context, id string) error
}

// ProductRepository stores menu items.
type ProductRepository interface {
	Get(ctx context.Context, id string) (domain.Product, error)
	ListByBrand(ctx context.Context, brandID string) ([]domain.Product, error)
	Save(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, id string) error
}

// ComboRepository stores fixed-price product bundles.
type ComboRepository interface {
	Get(ctx context.Context, id string) (domain.Combo, error)
	ListByBrand(ctx context.Context, brandID string) ([]domain.Combo, error)
	Save(ctx context.Context, combo domain.Combo) error
	Delete(ctx context.Context, id string) error
}

// DiscountRepository stores back-office authored standard discounts. Pricing
// reads the whole brand catalog and filters in memory.
type DiscountRepository interface {
	Get(ctx context.Context, id string) (domain.StandardDiscount, error)
	ListByBrand(ctx context.Context, brandID string) ([]domain.StandardDiscount, error)
	Save(ctx context.Context, discount domain.StandardDiscount) error
	Delete(ctx context.Context, id string) error
}

// VoucherRepository stores code-based discounts. Codes are unique per brand.
type VoucherRepository interface {
	Get(ctx context.Context, id string) (domain.VoucherDiscount, error)
	GetByCode(ctx context.Context, brandID, code string) (domain.VoucherDiscount, error)
	ListByBrand(ctx context.Context, brandID string) ([]domain.VoucherDiscount, error)
	Save(ctx context.Context, voucher domain.VoucherDiscount) error
	Delete(ctx context.Context, id string) error
}

// CartRepository stores one open cart per user and brand.
type CartRepository interface {
	Get(ctx context.Context, id string) (domain.Cart, error)
	GetByUser(ctx context.Context, userID, brandID string) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
	Delete(ctx context.Context, id string) error
}

// OrderRepository stores checkout snapshots and their payment lifecycle.
type OrderRepository interface {
	Get(ctx context.Context, id string) (domain.Order, error)
	GetByPaymentSession(ctx context.Context, sessionID string) (domain.Order, error)
	ListByUser(ctx context.Context, userID, brandID string) ([]domain.Order, error)
	Save(ctx context.Context, order domain.Order) error
}

// UpsellRepository stores checkout upsell offers and their counters. The
// counter increments run in their own transactions so a stats write never
// blocks checkout.
type UpsellRepository interface {
	Get(ctx context.Context, id string) (domain.UpsellOffer, error)
	ListActiveByBrand(ctx context.Context, brandID string) ([]domain.UpsellOffer, error)
	Save(ctx context.Context, offer domain.UpsellOffer) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	IncrementConversions(ctx context.Context, id string) error
}

// CounterRepository allocates monotonically increasing sequence numbers.
type CounterRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}

// FeedbackRepository stores customer feedback awaiting moderation.
type FeedbackRepository interface {
	Get(ctx context.Context, id string) (domain.Feedback, error)
	ListByBrand(ctx context.Context, brandID string, status domain.FeedbackStatus) ([]domain.Feedback, error)
	Save(ctx context.Context, feedback domain.Feedback) error
}

// QARepository stores internal test tracking records.
type QARepository interface {
	Get(ctx context.Context, id string) (domain.QATestCase, error)
	List(ctx context.Context) ([]domain.QATestCase, error)
	Save(ctx context.Context, testCase domain.QATestCase) error
}

// Clock abstracts time for repositories that stamp documents.
type Clock func() time.Time
