package domain

import (
	"time"
)

// DeliveryType enumerates how an order reaches the customer.
type DeliveryType string

const (
	// DeliveryTypePickup indicates the customer collects the order at the location.
	DeliveryTypePickup DeliveryType = "pickup"
	// DeliveryTypeDelivery indicates the order is delivered to the customer.
	DeliveryTypeDelivery DeliveryType = "delivery"
)

// Brand is a tenant on the platform owning locations, menus and discounts.
type Brand struct {
	ID        string
	Name      string
	Slug      string
	Currency  string
	LogoURL   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OpeningHours stores a weekday's opening window in HH:mm strings.
type OpeningHours struct {
	Weekday string
	Open    string
	Close   string
}

// Location is a physical restaurant belonging to a brand.
type Location struct {
	ID            string
	BrandID       string
	Name          string
	Address       string
	City          string
	PostalCode    string
	Phone         string
	DeliveryTypes []DeliveryType
	DeliveryFee   float64
	MinOrderValue float64
	OpeningHours  []OpeningHours
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Category groups products on a brand's menu.
type Category struct {
	ID        string
	BrandID   string
	Name      string
	SortOrder int
	IsActive  bool
}

// Topping is an optional product add-on with its own price.
type Topping struct {
	Name  string
	Price float64
}

// Product is a menu item authored in the back office.
type Product struct {
	ID          string
	BrandID     string
	CategoryID  string
	Name        string
	Description string
	ImageURL    string
	BasePrice   float64
	Toppings    []Topping
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Combo bundles several products at a fixed price below the sum of their base prices.
type Combo struct {
	ID         string
	BrandID    string
	Name       string
	ComboPrice float64
	ProductIDs []string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// UpsellOffer proposes an extra product at a special price during checkout.
type UpsellOffer struct {
	ID          string
	BrandID     string
	ProductID   string
	OfferPrice  float64
	Views       int64
	Conversions int64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ItemType distinguishes plain product lines from combo lines.
type ItemType string

const (
	// ItemTypeProduct marks a cart line holding a single product.
	ItemTypeProduct ItemType = "product"
	// ItemTypeCombo marks a cart line holding a combo at its fixed price.
	ItemTypeCombo ItemType = "combo"
)

// CartLine is a single entry in a shopper's cart.
//
// BasePrice is the pre-discount unit price; Price is the effective unit price
// after item-level discounting. A line is locked when ItemType is combo or
// when Price differs from BasePrice (combo pricing or an accepted upsell
// fixed the price at creation).
type CartLine struct {
	ID         string
	ProductID  string
	ComboID    string
	CategoryID string
	Name       string
	ItemType   ItemType
	Quantity   int
	BasePrice  float64
	Price      float64
	Toppings   []Topping
	AddedAt    time.Time
}

// Locked reports whether the line is excluded from further discounting.
func (l CartLine) Locked() bool {
	return l.ItemType == ItemTypeCombo || l.Price != l.BasePrice
}

// ToppingsTotal sums the line's topping prices for a single unit.
func (l CartLine) ToppingsTotal() float64 {
	var total float64
	for _, t := range l.Toppings {
		total += t.Price
	}
	return total
}

// Cart aggregates a shopper's pending order for one brand and location.
type Cart struct {
	ID           string
	UserID       string
	BrandID      string
	LocationID   string
	DeliveryType DeliveryType
	PickupTime   *time.Time
	VoucherCode  string
	Lines        []CartLine
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DiscountType identifies what a standard discount targets.
type DiscountType string

const (
	// DiscountTypeProduct targets specific products by id.
	DiscountTypeProduct DiscountType = "product"
	// DiscountTypeCategory targets every product in the referenced categories.
	DiscountTypeCategory DiscountType = "category"
	// DiscountTypeCart applies to the discountable cart subtotal.
	DiscountTypeCart DiscountType = "cart"
	// DiscountTypeFreeDelivery waives the delivery fee.
	DiscountTypeFreeDelivery DiscountType = "free_delivery"
)

// DiscountMethod identifies how a discount value is applied.
type DiscountMethod string

const (
	// DiscountMethodPercentage reduces the price by Value percent.
	DiscountMethodPercentage DiscountMethod = "percentage"
	// DiscountMethodFixedAmount subtracts Value, floored at zero.
	DiscountMethodFixedAmount DiscountMethod = "fixed_amount"
)

// TimeSlotValidation selects which timestamp an active time slot is checked against.
type TimeSlotValidation string

const (
	// ValidateAgainstOrderTime checks slots against the moment the order is placed.
	ValidateAgainstOrderTime TimeSlotValidation = "orderTime"
	// ValidateAgainstPickupTime checks slots against the requested pickup time.
	ValidateAgainstPickupTime TimeSlotValidation = "pickupTime"
)

// TimeSlot is an inclusive [Start,End] window in HH:mm strings.
type TimeSlot struct {
	Start string
	End   string
}

// StandardDiscount is a back-office authored discount rule. It is read-only at
// pricing time; validation happens when it is created or updated.
type StandardDiscount struct {
	ID                 string
	BrandID            string
	Name               string
	Type               DiscountType
	Method             DiscountMethod
	Value              float64
	MinOrderValue      float64
	ReferenceIDs       []string
	OrderTypes         []DeliveryType
	LocationIDs        []string
	ActiveDays         []string
	ActiveTimeSlots    []TimeSlot
	TimeSlotValidation TimeSlotValidation
	StartDate          *time.Time
	EndDate            *time.Time
	IsActive           bool
	AllowStacking      bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// VoucherDiscount is a code-based discount the shopper applies explicitly at
// checkout. It competes best-of against the automatic cart discount.
type VoucherDiscount struct {
	ID            string
	BrandID       string
	Code          string
	Method        DiscountMethod
	Value         float64
	MinOrderValue float64
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderStatus enumerates the lifecycle of a placed order.
type OrderStatus string

const (
	// OrderStatusDraft indicates checkout has not been started for the snapshot.
	OrderStatusDraft OrderStatus = "draft"
	// OrderStatusPendingPayment indicates the PSP session awaits completion.
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	// OrderStatusPaid indicates payment succeeded.
	OrderStatusPaid OrderStatus = "paid"
	// OrderStatusCompleted indicates the order was fulfilled.
	OrderStatusCompleted OrderStatus = "completed"
	// OrderStatusCanceled indicates the order was canceled before fulfilment.
	OrderStatusCanceled OrderStatus = "canceled"
)

// PaymentDetails stores the PSP references and the pricing snapshot persisted
// at checkout time.
type PaymentDetails struct {
	Provider     string
	SessionID    string
	IntentID     string
	Snapshot     PricingResult
	DeliveryFee  float64
	FeeWaived    bool
	AmountMinor  int64
	Currency     string
	CompletedAt  *time.Time
	FailedReason string
}

// Order is the immutable snapshot of a cart taken at checkout.
type Order struct {
	ID           string
	OrderNumber  string
	UserID       string
	BrandID      string
	LocationID   string
	DeliveryType DeliveryType
	PickupTime   *time.Time
	Lines        []CartLine
	Payment      PaymentDetails
	Status       OrderStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
	PaidAt       *time.Time
	CanceledAt   *time.Time
}

// FeedbackStatus indicates the moderation state of customer feedback.
type FeedbackStatus string

const (
	// FeedbackStatusPending awaits back-office moderation.
	FeedbackStatusPending FeedbackStatus = "pending"
	// FeedbackStatusApproved is visible on the storefront.
	FeedbackStatusApproved FeedbackStatus = "approved"
	// FeedbackStatusRejected is hidden.
	FeedbackStatusRejected FeedbackStatus = "rejected"
)

// Feedback captures customer ratings tied to a completed order.
type Feedback struct {
	ID          string
	BrandID     string
	OrderRef    string
	UserRef     string
	Rating      int
	Comment     string
	Status      FeedbackStatus
	ModeratedBy string
	ModeratedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// QAStatus tracks the lifecycle of a QA test case.
type QAStatus string

const (
	// QAStatusOpen marks a case not yet executed.
	QAStatusOpen QAStatus = "open"
	// QAStatusPassed marks a case whose last run succeeded.
	QAStatusPassed QAStatus = "passed"
	// QAStatusFailed marks a case whose last run failed.
	QAStatusFailed QAStatus = "failed"
)

// QATestCase is a back-office test tracking record. Codes are allocated from a
// transactional counter sequence.
type QATestCase struct {
	ID        string
	Code      string
	Title     string
	Area      string
	Steps     []string
	Expected  string
	Status    QAStatus
	Assignee  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
