package services

import (
	"context"
	"strings"
	"time"

	domain "github.com/madkurv/api/internal/domain"
)

// offerIDSuffix decorates product ids on upsell-generated cart lines; it must
// be stripped before matching product discounts.
const offerIDSuffix = "-offer"

// PricingEngine computes effective line prices, the applied discount summary
// and the cart total for one cart. Every computation is pure and synchronous:
// no shared state, no persistence, safe to run concurrently per request.
type PricingEngine struct {
	now    func() time.Time
	logger func(ctx context.Context, event string, fields map[string]any)
}

// PricingEngineDeps bundles the optional collaborators of the engine.
type PricingEngineDeps struct {
	Clock  func() time.Time
	Logger func(ctx context.Context, event string, fields map[string]any)
}

// NewPricingEngine constructs a PricingEngine, defaulting the clock to UTC now.
func NewPricingEngine(deps PricingEngineDeps) *PricingEngine {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &PricingEngine{
		now:    func() time.Time { return clock().UTC() },
		logger: logger,
	}
}

// PriceCartCommand carries one cart pricing request. Discounts is the brand's
// full catalog; the engine runs the eligibility filter itself.
type PriceCartCommand struct {
	Lines       []domain.CartLine
	Discounts   []domain.StandardDiscount
	Voucher     *domain.VoucherDiscount
	Context     domain.OrderContext
	DeliveryFee float64
}

// PriceCartResult returns the repriced lines together with the pricing output.
type PriceCartResult struct {
	Lines             []domain.CartLine
	Pricing           domain.PricingResult
	DeliveryFeeWaived bool
	FreeDeliveryName  string
}

// Price runs the full pipeline: eligibility filtering, item-level resolution,
// cart-level selection, aggregation and the free-delivery check. It never
// fails; degenerate inputs resolve to "no discount applies".
func (e *PricingEngine) Price(ctx context.Context, cmd PriceCartCommand) PriceCartResult {
	now := e.now()
	eligible := EligibleDiscounts(now, cmd.Context, cmd.Discounts)

	lines := cloneLines(cmd.Lines)
	itemDiscounts, itemNames := resolveItemDiscounts(lines, eligible)

	discountable := discountableSubtotal(lines)
	cartAmount, cartName := e.selectCartDiscount(ctx, eligible, cmd.Voucher, discountable)

	subtotal := cartSubtotal(lines)
	totalItem := 0.0
	for _, amount := range itemDiscounts {
		totalItem += amount
	}
	totalDiscount := totalItem + cartAmount

	var final *domain.AppliedDiscount
	if totalDiscount != 0 {
		final = &domain.AppliedDiscount{
			Name:   joinDiscountNames(itemNames, cartName),
			Amount: totalDiscount,
		}
	}

	waived, freeDeliveryName := selectFreeDelivery(eligible, discountable, cmd.DeliveryFee)

	result := PriceCartResult{
		Lines: lines,
		Pricing: domain.PricingResult{
			Subtotal:      subtotal,
			ItemDiscounts: itemDiscounts,
			FinalDiscount: final,
			CartTotal:     subtotal - totalDiscount,
		},
		DeliveryFeeWaived: waived,
		FreeDeliveryName:  freeDeliveryName,
	}

	if totalDiscount != 0 {
		e.logger(ctx, "pricing.discount_applied", map[string]any{
			"subtotal": subtotal,
			"discount": totalDiscount,
			"name":     final.Name,
		})
	}
	return result
}

// resolveItemDiscounts applies the best product/category discount to each
// unlocked product line, mutating the lines' effective prices in place.
// Returns the per-line discount amounts and the fired discount names in line
// order.
func resolveItemDiscounts(lines []domain.CartLine, eligible []domain.StandardDiscount) (map[string]float64, []string) {
	amounts := make(map[string]float64)
	var names []string

	for i := range lines {
		line := &lines[i]
		if line.Locked() {
			continue
		}
		best, ok := bestItemDiscount(*line, eligible)
		if !ok {
			continue
		}
		discounted := discountedUnitPrice(best, line.BasePrice)
		if discounted >= line.BasePrice {
			continue
		}
		line.Price = discounted
		amounts[line.ID] = (line.BasePrice - line.Price) * float64(line.Quantity)
		names = append(names, best.Name)
	}
	return amounts, names
}

// bestItemDiscount finds the product/category discount yielding the lowest
// unit price for the line. Ties keep the first-encountered discount.
func bestItemDiscount(line domain.CartLine, eligible []domain.StandardDiscount) (domain.StandardDiscount, bool) {
	var best domain.StandardDiscount
	bestPrice := line.BasePrice
	found := false

	productID := strings.TrimSuffix(line.ProductID, offerIDSuffix)
	for _, d := range eligible {
		switch d.Type {
		case domain.DiscountTypeProduct:
			if !containsFold(d.ReferenceIDs, productID) {
				continue
			}
		case domain.DiscountTypeCategory:
			if line.CategoryID == "" || !containsFold(d.ReferenceIDs, line.CategoryID) {
				continue
			}
		default:
			continue
		}
		price := discountedUnitPrice(d, line.BasePrice)
		if price < bestPrice {
			best = d
			bestPrice = price
			found = true
		}
	}
	return best, found
}

// discountedUnitPrice applies a discount's method to a unit price. Missing or
// out-of-range values leave the price untouched rather than erroring.
func discountedUnitPrice(d domain.StandardDiscount, basePrice float64) float64 {
	if d.Value <= 0 {
		return basePrice
	}
	switch d.Method {
	case domain.DiscountMethodPercentage:
		price := basePrice * (1 - d.Value/100)
		if price < 0 {
			return 0
		}
		return price
	case domain.DiscountMethodFixedAmount:
		price := basePrice - d.Value
		if price < 0 {
			return 0
		}
		return price
	default:
		return basePrice
	}
}

// discountableSubtotal sums base price and toppings over unlocked lines only.
// Lines locked by combos, upsells or item-level discounts contribute nothing,
// toppings included.
func discountableSubtotal(lines []domain.CartLine) float64 {
	var total float64
	for _, line := range lines {
		if line.Locked() {
			continue
		}
		total += (line.BasePrice + line.ToppingsTotal()) * float64(line.Quantity)
	}
	return total
}

// cartSubtotal sums base price and toppings over every line, locked or not.
func cartSubtotal(lines []domain.CartLine) float64 {
	var total float64
	for _, line := range lines {
		total += (line.BasePrice + line.ToppingsTotal()) * float64(line.Quantity)
	}
	return total
}

// selectCartDiscount evaluates the automatic cart discount and the applied
// voucher independently against the discountable subtotal and keeps the
// larger one. Exactly zero or one cart-level discount applies; the loser is
// discarded entirely. The voucher wins exact ties because the shopper applied
// it explicitly.
func (e *PricingEngine) selectCartDiscount(ctx context.Context, eligible []domain.StandardDiscount, voucher *domain.VoucherDiscount, discountable float64) (float64, string) {
	autoAmount, autoName := bestAutomaticCartDiscount(eligible, discountable)
	voucherAmount, voucherName := voucherDiscountAmount(voucher, discountable)

	if voucherAmount <= 0 && autoAmount <= 0 {
		return 0, ""
	}
	if voucherAmount >= autoAmount {
		if autoAmount > 0 {
			e.logger(ctx, "pricing.cart_discount_discarded", map[string]any{
				"discarded": autoName,
				"kept":      voucherName,
			})
		}
		return voucherAmount, voucherName
	}
	if voucherAmount > 0 {
		e.logger(ctx, "pricing.cart_discount_discarded", map[string]any{
			"discarded": voucherName,
			"kept":      autoName,
		})
	}
	return autoAmount, autoName
}

// bestAutomaticCartDiscount picks the highest-value eligible cart discount
// whose minimum order value is met. Ties keep the first-encountered rule so
// the selection stays deterministic for identical input.
func bestAutomaticCartDiscount(eligible []domain.StandardDiscount, discountable float64) (float64, string) {
	var bestAmount float64
	var bestName string
	for _, d := range eligible {
		if d.Type != domain.DiscountTypeCart {
			continue
		}
		if discountable < d.MinOrderValue {
			continue
		}
		amount := cartDiscountAmount(d.Method, d.Value, discountable)
		if amount > bestAmount {
			bestAmount = amount
			bestName = d.Name
		}
	}
	return bestAmount, bestName
}

func voucherDiscountAmount(voucher *domain.VoucherDiscount, discountable float64) (float64, string) {
	if voucher == nil {
		return 0, ""
	}
	if discountable < voucher.MinOrderValue {
		return 0, ""
	}
	amount := cartDiscountAmount(voucher.Method, voucher.Value, discountable)
	if amount <= 0 {
		return 0, ""
	}
	return amount, voucher.Code
}

// cartDiscountAmount computes a cart-level discount amount, clamped so the
// discount never exceeds the discountable subtotal.
func cartDiscountAmount(method domain.DiscountMethod, value, discountable float64) float64 {
	if value <= 0 || discountable <= 0 {
		return 0
	}
	var amount float64
	switch method {
	case domain.DiscountMethodPercentage:
		amount = discountable * value / 100
	case domain.DiscountMethodFixedAmount:
		amount = value
	default:
		return 0
	}
	if amount > discountable {
		amount = discountable
	}
	return amount
}

// selectFreeDelivery waives the delivery fee when an eligible free_delivery
// discount's minimum order value is met. It is kept apart from the cart-level
// comparison: the fee waiver never competes with cart discounts.
func selectFreeDelivery(eligible []domain.StandardDiscount, discountable, deliveryFee float64) (bool, string) {
	if deliveryFee <= 0 {
		return false, ""
	}
	for _, d := range eligible {
		if d.Type != domain.DiscountTypeFreeDelivery {
			continue
		}
		if discountable < d.MinOrderValue {
			continue
		}
		return true, d.Name
	}
	return false, ""
}

// joinDiscountNames builds the display name: deduplicated item-level names in
// the order they fired, followed by the winning cart-level name or code.
func joinDiscountNames(itemNames []string, cartName string) string {
	seen := make(map[string]struct{}, len(itemNames)+1)
	parts := make([]string, 0, len(itemNames)+1)
	for _, name := range itemNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		parts = append(parts, name)
	}
	if cartName = strings.TrimSpace(cartName); cartName != "" {
		if _, ok := seen[cartName]; !ok {
			parts = append(parts, cartName)
		}
	}
	return strings.Join(parts, ", ")
}

func cloneLines(lines []domain.CartLine) []domain.CartLine {
	if len(lines) == 0 {
		return nil
	}
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	for i := range out {
		if len(lines[i].Toppings) > 0 {
			toppings := make([]domain.Topping, len(lines[i].Toppings))
			copy(toppings, lines[i].Toppings)
			out[i].Toppings = toppings
		}
	}
	return out
}
