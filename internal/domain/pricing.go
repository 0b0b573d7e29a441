package domain

import "time"

// OrderContext carries the request-scoped facts the eligibility filter gates
// discounts on. It replaces any ambient configuration: callers construct one
// per pricing call.
type OrderContext struct {
	BrandID      string
	LocationID   string
	DeliveryType DeliveryType
	PickupTime   *time.Time
}

// AppliedDiscount summarises the discounts that actually fired during pricing.
// Name concatenates the distinct source names; Amount is the combined value.
type AppliedDiscount struct {
	Name   string
	Amount float64
}

// PricingResult is the output of one pricing computation. It is recomputed on
// every call and only ever persisted as a snapshot inside an order's payment
// details.
type PricingResult struct {
	// Subtotal sums basePrice*qty plus toppings*qty over every line,
	// locked or not.
	Subtotal float64
	// ItemDiscounts maps cart line ids to the per-line item discount amount.
	ItemDiscounts map[string]float64
	// FinalDiscount is nil exactly when no discount applied at all.
	FinalDiscount *AppliedDiscount
	// CartTotal is Subtotal minus the total discount.
	CartTotal float64
}

// TotalDiscount returns the combined discount amount, zero when none applied.
func (r PricingResult) TotalDiscount() float64 {
	if r.FinalDiscount == nil {
		return 0
	}
	return r.FinalDiscount.Amount
}
