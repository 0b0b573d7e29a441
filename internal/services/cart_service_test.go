package services

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/madkurv/api/internal/domain"
)

type cartHarness struct {
	svc      CartService
	carts    *fakeCartRepo
	products *fakeProductRepo
	combos   *fakeComboRepo
	upsells  *fakeUpsellRepo
	disc     *fakeDiscountRepo
	vouchers *fakeVoucherRepo
	locs     *fakeLocationRepo
}

func newCartHarness(t *testing.T) *cartHarness {
	t.Helper()
	h := &cartHarness{
		carts:    newFakeCartRepo(),
		products: newFakeProductRepo(),
		combos:   newFakeComboRepo(),
		upsells:  newFakeUpsellRepo(),
		disc:     newFakeDiscountRepo(),
		vouchers: newFakeVoucherRepo(),
		locs:     newFakeLocationRepo(),
	}

	h.products.items["prod-pizza"] = domain.Product{
		ID: "prod-pizza", BrandID: "brand-1", CategoryID: "cat-italian",
		Name: "Margherita", BasePrice: 100, IsActive: true,
		Toppings: []domain.Topping{{Name: "Cheese", Price: 10}},
	}
	h.products.items["prod-brownie"] = domain.Product{
		ID: "prod-brownie", BrandID: "brand-1", Name: "Brownie",
		BasePrice: 25, IsActive: true,
	}
	h.combos.items["combo-1"] = domain.Combo{
		ID: "combo-1", BrandID: "brand-1", Name: "Family Deal",
		ComboPrice: 150, ProductIDs: []string{"prod-pizza", "prod-brownie"}, IsActive: true,
	}
	h.upsells.items["offer-1"] = domain.UpsellOffer{
		ID: "offer-1", BrandID: "brand-1", ProductID: "prod-brownie",
		OfferPrice: 15, IsActive: true,
	}
	h.locs.items["loc-1"] = domain.Location{
		ID: "loc-1", BrandID: "brand-1", Name: "Aarhus C",
		DeliveryTypes: []domain.DeliveryType{domain.DeliveryTypePickup, domain.DeliveryTypeDelivery},
		DeliveryFee:   39, IsActive: true,
	}
	h.vouchers.items["v-1"] = domain.VoucherDiscount{
		ID: "v-1", BrandID: "brand-1", Code: "WELCOME10",
		Method: domain.DiscountMethodPercentage, Value: 10, IsActive: true,
	}

	svc, err := NewCartService(CartServiceDeps{
		Carts:     h.carts,
		Products:  h.products,
		Combos:    h.combos,
		Upsells:   h.upsells,
		Discounts: h.disc,
		Vouchers:  h.vouchers,
		Locations: h.locs,
		Engine:    newTestEngine(),
		Clock:     func() time.Time { return pricingNow },
	})
	if err != nil {
		t.Fatalf("NewCartService: %v", err)
	}
	h.svc = svc
	return h
}

func (h *cartHarness) openCart(t *testing.T) domain.Cart {
	t.Helper()
	cart, err := h.svc.GetOrCreate(context.Background(), OpenCartCommand{
		UserID: "user-1", BrandID: "brand-1", LocationID: "loc-1",
	})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	return cart
}

func TestCartGetOrCreateReusesOpenCart(t *testing.T) {
	h := newCartHarness(t)
	first := h.openCart(t)
	second := h.openCart(t)
	if first.ID != second.ID {
		t.Fatalf("got two carts %s and %s for the same user", first.ID, second.ID)
	}
}

func TestCartAddProductWithToppings(t *testing.T) {
	h := newCartHarness(t)
	cart := h.openCart(t)

	priced, err := h.svc.AddProduct(context.Background(), AddProductCommand{
		CartID: cart.ID, ProductID: "prod-pizza", Quantity: 2, Toppings: []string{"cheese"},
	})
	if err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	if len(priced.Cart.Lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(priced.Cart.Lines))
	}
	line := priced.Cart.Lines[0]
	if line.BasePrice != 100 || line.Price != 100 || line.Quantity != 2 {
		t.Fatalf("line = %+v", line)
	}
	if len(line.Toppings) != 1 || line.Toppings[0].Price != 10 {
		t.Fatalf("toppings = %+v", line.Toppings)
	}
	// (100 + 10) * 2
	if !almostEqual(priced.Pricing.Subtotal, 220) {
		t.Fatalf("subtotal = %v, want 220", priced.Pricing.Subtotal)
	}
}

func TestCartAddProductUnknownTopping(t *testing.T) {
	h := newCartHarness(t)
	cart := h.openCart(t)

	_, err := h.svc.AddProduct(context.Background(), AddProductCommand{
		CartID: cart.ID, ProductID: "prod-pizza", Quantity: 1, Toppings: []string{"pineapple"},
	})
	if !errors.Is(err, ErrCartInvalid) {
		t.Fatalf("err = %v, want ErrCartInvalid", err)
	}
}

func TestCartAddComboIsLocked(t *testing.T) {
	h := newCartHarness(t)
	cart := h.openCart(t)

	priced, err := h.svc.AddCombo(context.Background(), cart.ID, "combo-1")
	if err != nil {
		t.Fatalf("AddCombo: %v", err)
	}
	line := priced.Cart.Lines[0]
	if !line.Locked() {
		t.Fatal("combo line must be locked")
	}
	if line.BasePrice != 150 || line.Price != 150 {
		t.Fatalf("combo line priced %v/%v, want 150/150", line.BasePrice, line.Price)
	}
}

func TestCartAcceptUpsell(t *testing.T) {
	h := newCartHarness(t)
	cart := h.openCart(t)

	priced, err := h.svc.AcceptUpsell(context.Background(), cart.ID, "offer-1")
	if err != nil {
		t.Fatalf("AcceptUpsell: %v", err)
	}
	line := priced.Cart.Lines[0]
	if line.ProductID != "prod-brownie-offer" {
		t.Fatalf("product id = %q, want offer suffix", line.ProductID)
	}
	if !line.Locked() {
		t.Fatal("upsell line must be locked")
	}
	if line.BasePrice != 25 || line.Price != 15 {
		t.Fatalf("upsell line priced %v/%v, want 25/15", line.BasePrice, line.Price)
	}
	if h.upsells.conversions["offer-1"] != 1 {
		t.Fatalf("conversions = %d, want 1", h.upsells.conversions["offer-1"])
	}
}

func TestCartApplyUnknownVoucher(t *testing.T) {
	h := newCartHarness(t)
	cart := h.openCart(t)

	_, err := h.svc.ApplyVoucher(context.Background(), cart.ID, "NOPE")
	if !errors.Is(err, ErrVoucherNotFound) {
		t.Fatalf("err = %v, want ErrVoucherNotFound", err)
	}
}

func TestCartVoucherAppliedToPricing(t *testing.T) {
	h := newCartHarness(t)
	cart := h.openCart(t)

	if _, err := h.svc.AddProduct(context.Background(), AddProductCommand{
		CartID: cart.ID, ProductID: "prod-pizza", Quantity: 1,
	}); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	priced, err := h.svc.ApplyVoucher(context.Background(), cart.ID, "welcome10")
	if err != nil {
		t.Fatalf("ApplyVoucher: %v", err)
	}
	if priced.Cart.VoucherCode != "WELCOME10" {
		t.Fatalf("voucher code = %q, want WELCOME10", priced.Cart.VoucherCode)
	}
	if priced.Pricing.FinalDiscount == nil || !almostEqual(priced.Pricing.FinalDiscount.Amount, 10) {
		t.Fatalf("final discount = %+v, want amount 10", priced.Pricing.FinalDiscount)
	}
}

func TestCartDeactivatedVoucherDegrades(t *testing.T) {
	h := newCartHarness(t)
	cart := h.openCart(t)

	if _, err := h.svc.AddProduct(context.Background(), AddProductCommand{
		CartID: cart.ID, ProductID: "prod-pizza", Quantity: 1,
	}); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	if _, err := h.svc.ApplyVoucher(context.Background(), cart.ID, "WELCOME10"); err != nil {
		t.Fatalf("ApplyVoucher: %v", err)
	}

	v := h.vouchers.items["v-1"]
	v.IsActive = false
	h.vouchers.items["v-1"] = v

	priced, err := h.svc.Price(context.Background(), cart.ID)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if priced.Pricing.FinalDiscount != nil {
		t.Fatalf("final discount = %+v, want nil after deactivation", priced.Pricing.FinalDiscount)
	}
}

func TestCartUpdateQuantityToZeroRemovesLine(t *testing.T) {
	h := newCartHarness(t)
	cart := h.openCart(t)

	priced, err := h.svc.AddProduct(context.Background(), AddProductCommand{
		CartID: cart.ID, ProductID: "prod-pizza", Quantity: 1,
	})
	if err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	lineID := priced.Cart.Lines[0].ID

	priced, err = h.svc.UpdateLineQuantity(context.Background(), cart.ID, lineID, 0)
	if err != nil {
		t.Fatalf("UpdateLineQuantity: %v", err)
	}
	if len(priced.Cart.Lines) != 0 {
		t.Fatalf("lines = %d, want 0", len(priced.Cart.Lines))
	}
}

func TestCartDeliveryFeeAddedToTotal(t *testing.T) {
	h := newCartHarness(t)
	cart := h.openCart(t)

	if _, err := h.svc.AddProduct(context.Background(), AddProductCommand{
		CartID: cart.ID, ProductID: "prod-pizza", Quantity: 1,
	}); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	priced, err := h.svc.SetFulfilment(context.Background(), SetFulfilmentCommand{
		CartID: cart.ID, DeliveryType: domain.DeliveryTypeDelivery,
	})
	if err != nil {
		t.Fatalf("SetFulfilment: %v", err)
	}
	if !almostEqual(priced.Total, 139) {
		t.Fatalf("total = %v, want 139 with delivery fee", priced.Total)
	}
}

func TestCartFreeDeliveryWaivesFee(t *testing.T) {
	h := newCartHarness(t)
	h.disc.items["d-free"] = domain.StandardDiscount{
		ID: "d-free", BrandID: "brand-1", Name: "free-ride",
		Type: domain.DiscountTypeFreeDelivery, MinOrderValue: 50, IsActive: true,
	}
	cart := h.openCart(t)

	if _, err := h.svc.AddProduct(context.Background(), AddProductCommand{
		CartID: cart.ID, ProductID: "prod-pizza", Quantity: 1,
	}); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	priced, err := h.svc.SetFulfilment(context.Background(), SetFulfilmentCommand{
		CartID: cart.ID, DeliveryType: domain.DeliveryTypeDelivery,
	})
	if err != nil {
		t.Fatalf("SetFulfilment: %v", err)
	}
	if !priced.DeliveryFeeWaived {
		t.Fatal("fee should be waived")
	}
	if !almostEqual(priced.Total, 100) {
		t.Fatalf("total = %v, want 100 without fee", priced.Total)
	}
}

func TestCartFulfilmentUnsupportedType(t *testing.T) {
	h := newCartHarness(t)
	loc := h.locs.items["loc-1"]
	loc.DeliveryTypes = []domain.DeliveryType{domain.DeliveryTypePickup}
	h.locs.items["loc-1"] = loc
	cart := h.openCart(t)

	_, err := h.svc.SetFulfilment(context.Background(), SetFulfilmentCommand{
		CartID: cart.ID, DeliveryType: domain.DeliveryTypeDelivery,
	})
	if !errors.Is(err, ErrCartInvalid) {
		t.Fatalf("err = %v, want ErrCartInvalid", err)
	}
}

func TestCartAddProductFromOtherBrand(t *testing.T) {
	h := newCartHarness(t)
	h.products.items["prod-foreign"] = domain.Product{
		ID: "prod-foreign", BrandID: "brand-2", Name: "Other", BasePrice: 10, IsActive: true,
	}
	cart := h.openCart(t)

	_, err := h.svc.AddProduct(context.Background(), AddProductCommand{
		CartID: cart.ID, ProductID: "prod-foreign", Quantity: 1,
	})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
}
