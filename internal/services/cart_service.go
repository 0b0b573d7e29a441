package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/madkurv/api/internal/domain"
	"github.com/madkurv/api/internal/platform/ids"
	"github.com/madkurv/api/internal/repositories"
)

var (
	ErrCartNotFound    = errors.New("cart: not found")
	ErrLineNotFound    = errors.New("cart: line not found")
	ErrVoucherNotFound = errors.New("cart: voucher not found")
	ErrOfferNotFound   = errors.New("cart: upsell offer not found")
	ErrCartInvalid     = errors.New("cart: invalid input")
)

type cartService struct {
	carts     repositories.CartRepository
	products  repositories.ProductRepository
	combos    repositories.ComboRepository
	upsells   repositories.UpsellRepository
	discounts repositories.DiscountRepository
	vouchers  repositories.VoucherRepository
	locations repositories.LocationRepository
	engine    *PricingEngine
	now       func() time.Time
	logger    Logger
}

// CartServiceDeps lists the collaborators of the cart service.
type CartServiceDeps struct {
	Carts     repositories.CartRepository
	Products  repositories.ProductRepository
	Combos    repositories.ComboRepository
	Upsells   repositories.UpsellRepository
	Discounts repositories.DiscountRepository
	Vouchers  repositories.VoucherRepository
	Locations repositories.LocationRepository
	Engine    *PricingEngine
	Clock     Clock
	Logger    Logger
}

// NewCartService validates deps and builds the cart service.
func NewCartService(deps CartServiceDeps) (CartService, error) {
	switch {
	case deps.Carts == nil:
		return nil, errors.New("cart: cart repository is required")
	case deps.Products == nil:
		return nil, errors.New("cart: product repository is required")
	case deps.Combos == nil:
		return nil, errors.New("cart: combo repository is required")
	case deps.Upsells == nil:
		return nil, errors.New("cart: upsell repository is required")
	case deps.Discounts == nil:
		return nil, errors.New("cart: discount repository is required")
	case deps.Vouchers == nil:
		return nil, errors.New("cart: voucher repository is required")
	case deps.Locations == nil:
		return nil, errors.New("cart: location repository is required")
	case deps.Engine == nil:
		return nil, errors.New("cart: pricing engine is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &cartService{
		carts:     deps.Carts,
		products:  deps.Products,
		combos:    deps.Combos,
		upsells:   deps.Upsells,
		discounts: deps.Discounts,
		vouchers:  deps.Vouchers,
		locations: deps.Locations,
		engine:    deps.Engine,
		now:       func() time.Time { return clock().UTC() },
		logger:    logger,
	}, nil
}

func (s *cartService) GetOrCreate(ctx context.Context, cmd OpenCartCommand) (domain.Cart, error) {
	if cmd.UserID == "" || cmd.BrandID == "" || cmd.LocationID == "" {
		return domain.Cart{}, fmt.Errorf("%w: user, brand and location are required", ErrCartInvalid)
	}
	if cmd.DeliveryType == "" {
		cmd.DeliveryType = domain.DeliveryTypePickup
	}

	cart, err := s.carts.GetByUser(ctx, cmd.UserID, cmd.BrandID)
	if err == nil {
		return cart, nil
	}
	if !repositories.IsNotFound(err) {
		return domain.Cart{}, err
	}

	now := s.now()
	cart = domain.Cart{
		ID:           ids.New(now),
		UserID:       cmd.UserID,
		BrandID:      cmd.BrandID,
		LocationID:   cmd.LocationID,
		DeliveryType: cmd.DeliveryType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return domain.Cart{}, err
	}
	s.logger(ctx, "cart.created", map[string]any{"cartId": cart.ID, "brandId": cart.BrandID})
	return cart, nil
}

func (s *cartService) AddProduct(ctx context.Context, cmd AddProductCommand) (PricedCart, error) {
	if cmd.Quantity <= 0 {
		return PricedCart{}, fmt.Errorf("%w: quantity must be positive", ErrCartInvalid)
	}

	cart, err := s.loadCart(ctx, cmd.CartID)
	if err != nil {
		return PricedCart{}, err
	}
	product, err := s.products.Get(ctx, cmd.ProductID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return PricedCart{}, fmt.Errorf("%w: %s", ErrProductNotFound, cmd.ProductID)
		}
		return PricedCart{}, err
	}
	if !product.IsActive || product.BrandID != cart.BrandID {
		return PricedCart{}, fmt.Errorf("%w: %s", ErrProductNotFound, cmd.ProductID)
	}

	toppings, err := pickToppings(product, cmd.Toppings)
	if err != nil {
		return PricedCart{}, err
	}

	now := s.now()
	cart.Lines = append(cart.Lines, domain.CartLine{
		ID:         ids.New(now),
		ProductID:  product.ID,
		CategoryID: product.CategoryID,
		Name:       product.Name,
		ItemType:   domain.ItemTypeProduct,
		Quantity:   cmd.Quantity,
		BasePrice:  product.BasePrice,
		Price:      product.BasePrice,
		Toppings:   toppings,
		AddedAt:    now,
	})
	return s.saveAndPrice(ctx, cart)
}

func (s *cartService) AddCombo(ctx context.Context, cartID, comboID string) (PricedCart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return PricedCart{}, err
	}
	combo, err := s.combos.Get(ctx, comboID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return PricedCart{}, fmt.Errorf("%w: combo %s", ErrProductNotFound, comboID)
		}
		return PricedCart{}, err
	}
	if !combo.IsActive || combo.BrandID != cart.BrandID {
		return PricedCart{}, fmt.Errorf("%w: combo %s", ErrProductNotFound, comboID)
	}

	// A combo line carries the fixed bundle price; the item type alone
	// keeps it out of every discount path.
	now := s.now()
	cart.Lines = append(cart.Lines, domain.CartLine{
		ID:        ids.New(now),
		ComboID:   combo.ID,
		Name:      combo.Name,
		ItemType:  domain.ItemTypeCombo,
		Quantity:  1,
		BasePrice: combo.ComboPrice,
		Price:     combo.ComboPrice,
		AddedAt:   now,
	})
	return s.saveAndPrice(ctx, cart)
}

// AcceptUpsell adds the offered product at its special price. The line is
// born locked: its price differs from the product's base price, and its
// product id carries the offer suffix so product discounts still recognise
// the underlying product if the offer price ever equals the base price.
func (s *cartService) AcceptUpsell(ctx context.Context, cartID, offerID string) (PricedCart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return PricedCart{}, err
	}
	offer, err := s.upsells.Get(ctx, offerID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return PricedCart{}, fmt.Errorf("%w: %s", ErrOfferNotFound, offerID)
		}
		return PricedCart{}, err
	}
	if !offer.IsActive || offer.BrandID != cart.BrandID {
		return PricedCart{}, fmt.Errorf("%w: %s", ErrOfferNotFound, offerID)
	}
	product, err := s.products.Get(ctx, offer.ProductID)
	if err != nil {
		return PricedCart{}, err
	}

	now := s.now()
	cart.Lines = append(cart.Lines, domain.CartLine{
		ID:         ids.New(now),
		ProductID:  product.ID + offerIDSuffix,
		CategoryID: product.CategoryID,
		Name:       product.Name,
		ItemType:   domain.ItemTypeProduct,
		Quantity:   1,
		BasePrice:  product.BasePrice,
		Price:      offer.OfferPrice,
		AddedAt:    now,
	})

	// Stats are best effort; a failed increment never fails the add.
	if err := s.upsells.IncrementConversions(ctx, offer.ID); err != nil {
		s.logger(ctx, "upsell.conversion_increment_failed", map[string]any{
			"offerId": offer.ID,
			"error":   err.Error(),
		})
	}
	return s.saveAndPrice(ctx, cart)
}

func (s *cartService) UpdateLineQuantity(ctx context.Context, cartID, lineID string, quantity int) (PricedCart, error) {
	if quantity <= 0 {
		return s.RemoveLine(ctx, cartID, lineID)
	}
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return PricedCart{}, err
	}
	found := false
	for i := range cart.Lines {
		if cart.Lines[i].ID == lineID {
			cart.Lines[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return PricedCart{}, fmt.Errorf("%w: %s", ErrLineNotFound, lineID)
	}
	return s.saveAndPrice(ctx, cart)
}

func (s *cartService) RemoveLine(ctx context.Context, cartID, lineID string) (PricedCart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return PricedCart{}, err
	}
	kept := cart.Lines[:0]
	found := false
	for _, line := range cart.Lines {
		if line.ID == lineID {
			found = true
			continue
		}
		kept = append(kept, line)
	}
	if !found {
		return PricedCart{}, fmt.Errorf("%w: %s", ErrLineNotFound, lineID)
	}
	cart.Lines = kept
	return s.saveAndPrice(ctx, cart)
}

func (s *cartService) ApplyVoucher(ctx context.Context, cartID, code string) (PricedCart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return PricedCart{}, err
	}
	voucher, err := s.vouchers.GetByCode(ctx, cart.BrandID, code)
	if err != nil {
		if repositories.IsNotFound(err) {
			return PricedCart{}, fmt.Errorf("%w: %s", ErrVoucherNotFound, code)
		}
		return PricedCart{}, err
	}
	if !voucher.IsActive {
		return PricedCart{}, fmt.Errorf("%w: %s", ErrVoucherNotFound, code)
	}
	cart.VoucherCode = voucher.Code
	return s.saveAndPrice(ctx, cart)
}

func (s *cartService) RemoveVoucher(ctx context.Context, cartID string) (PricedCart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return PricedCart{}, err
	}
	cart.VoucherCode = ""
	return s.saveAndPrice(ctx, cart)
}

func (s *cartService) SetFulfilment(ctx context.Context, cmd SetFulfilmentCommand) (PricedCart, error) {
	if cmd.DeliveryType != domain.DeliveryTypePickup && cmd.DeliveryType != domain.DeliveryTypeDelivery {
		return PricedCart{}, fmt.Errorf("%w: unknown delivery type %q", ErrCartInvalid, cmd.DeliveryType)
	}
	cart, err := s.loadCart(ctx, cmd.CartID)
	if err != nil {
		return PricedCart{}, err
	}

	location, err := s.locations.Get(ctx, cart.LocationID)
	if err != nil {
		return PricedCart{}, err
	}
	supported := false
	for _, dt := range location.DeliveryTypes {
		if dt == cmd.DeliveryType {
			supported = true
			break
		}
	}
	if !supported {
		return PricedCart{}, fmt.Errorf("%w: location does not offer %s", ErrCartInvalid, cmd.DeliveryType)
	}

	cart.DeliveryType = cmd.DeliveryType
	cart.PickupTime = cmd.PickupTime
	return s.saveAndPrice(ctx, cart)
}

func (s *cartService) Price(ctx context.Context, cartID string) (PricedCart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return PricedCart{}, err
	}
	return s.price(ctx, cart)
}

func (s *cartService) loadCart(ctx context.Context, cartID string) (domain.Cart, error) {
	if strings.TrimSpace(cartID) == "" {
		return domain.Cart{}, fmt.Errorf("%w: cart id is required", ErrCartInvalid)
	}
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.Cart{}, fmt.Errorf("%w: %s", ErrCartNotFound, cartID)
		}
		return domain.Cart{}, err
	}
	return cart, nil
}

func (s *cartService) saveAndPrice(ctx context.Context, cart domain.Cart) (PricedCart, error) {
	cart.UpdatedAt = s.now()
	if err := s.carts.Save(ctx, cart); err != nil {
		return PricedCart{}, err
	}
	return s.price(ctx, cart)
}

// price runs the engine against the cart's current state. A voucher code
// pointing at a deleted or deactivated voucher degrades to no voucher rather
// than failing the request.
func (s *cartService) price(ctx context.Context, cart domain.Cart) (PricedCart, error) {
	catalog, err := s.discounts.ListByBrand(ctx, cart.BrandID)
	if err != nil {
		return PricedCart{}, err
	}

	var voucher *domain.VoucherDiscount
	if cart.VoucherCode != "" {
		v, err := s.vouchers.GetByCode(ctx, cart.BrandID, cart.VoucherCode)
		switch {
		case err == nil && v.IsActive:
			voucher = &v
		case err != nil && !repositories.IsNotFound(err):
			return PricedCart{}, err
		}
	}

	var deliveryFee float64
	if cart.DeliveryType == domain.DeliveryTypeDelivery {
		location, err := s.locations.Get(ctx, cart.LocationID)
		if err != nil {
			return PricedCart{}, err
		}
		deliveryFee = location.DeliveryFee
	}

	res := s.engine.Price(ctx, PriceCartCommand{
		Lines:     cart.Lines,
		Discounts: catalog,
		Voucher:   voucher,
		Context: domain.OrderContext{
			BrandID:      cart.BrandID,
			LocationID:   cart.LocationID,
			DeliveryType: cart.DeliveryType,
			PickupTime:   cart.PickupTime,
		},
		DeliveryFee: deliveryFee,
	})

	priced := PricedCart{
		Cart:              cart,
		Pricing:           res.Pricing,
		DeliveryFee:       deliveryFee,
		DeliveryFeeWaived: res.DeliveryFeeWaived,
		Total:             res.Pricing.CartTotal,
	}
	priced.Cart.Lines = res.Lines
	if deliveryFee > 0 && !res.DeliveryFeeWaived {
		priced.Total += deliveryFee
	}
	return priced, nil
}

func pickToppings(product domain.Product, names []string) ([]domain.Topping, error) {
	if len(names) == 0 {
		return nil, nil
	}
	available := make(map[string]domain.Topping, len(product.Toppings))
	for _, t := range product.Toppings {
		available[strings.ToLower(t.Name)] = t
	}
	out := make([]domain.Topping, 0, len(names))
	for _, name := range names {
		t, ok := available[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("%w: product has no topping %q", ErrCartInvalid, name)
		}
		out = append(out, t)
	}
	return out, nil
}
