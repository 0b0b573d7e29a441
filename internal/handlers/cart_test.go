package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/madkurv/api/internal/domain"
	"github.com/madkurv/api/internal/platform/auth"
	"github.com/madkurv/api/internal/services"
)

type stubCartService struct {
	priced services.PricedCart
	err    error

	applied string
}

func (s *stubCartService) GetOrCreate(context.Context, services.OpenCartCommand) (domain.Cart, error) {
	return s.priced.Cart, s.err
}

func (s *stubCartService) AddProduct(context.Context, services.AddProductCommand) (services.PricedCart, error) {
	return s.priced, s.err
}

func (s *stubCartService) AddCombo(context.Context, string, string) (services.PricedCart, error) {
	return s.priced, s.err
}

func (s *stubCartService) AcceptUpsell(context.Context, string, string) (services.PricedCart, error) {
	return s.priced, s.err
}

func (s *stubCartService) UpdateLineQuantity(context.Context, string, string, int) (services.PricedCart, error) {
	return s.priced, s.err
}

func (s *stubCartService) RemoveLine(context.Context, string, string) (services.PricedCart, error) {
	return s.priced, s.err
}

func (s *stubCartService) ApplyVoucher(_ context.Context, _ string, code string) (services.PricedCart, error) {
	s.applied = code
	return s.priced, s.err
}

func (s *stubCartService) RemoveVoucher(context.Context, string) (services.PricedCart, error) {
	return s.priced, s.err
}

func (s *stubCartService) SetFulfilment(context.Context, services.SetFulfilmentCommand) (services.PricedCart, error) {
	return s.priced, s.err
}

func (s *stubCartService) Price(context.Context, string) (services.PricedCart, error) {
	return s.priced, s.err
}

type stubUpsellService struct {
	offers []domain.UpsellOffer
}

func (s *stubUpsellService) OffersForCart(context.Context, domain.Cart) ([]domain.UpsellOffer, error) {
	return s.offers, nil
}

func (s *stubUpsellService) SaveOffer(_ context.Context, offer domain.UpsellOffer) (domain.UpsellOffer, error) {
	return offer, nil
}

func (s *stubUpsellService) DeleteOffer(context.Context, string) error { return nil }

func (s *stubUpsellService) ListOffers(context.Context, string) ([]domain.UpsellOffer, error) {
	return s.offers, nil
}

func testPricedCart() services.PricedCart {
	return services.PricedCart{
		Cart: domain.Cart{
			ID:           "cart-1",
			UserID:       "user-1",
			BrandID:      "brand-1",
			DeliveryType: domain.DeliveryTypePickup,
			Lines: []domain.CartLine{
				{ID: "line-1", ProductID: "prod-1", Name: "margherita", ItemType: domain.ItemTypeProduct, Quantity: 1, BasePrice: 100, Price: 100},
			},
		},
		Pricing: domain.PricingResult{Subtotal: 100, CartTotal: 90, FinalDiscount: &domain.AppliedDiscount{Name: "welcome", Amount: 10}},
		Total:   90,
	}
}

func cartTestRouter(carts services.CartService, upsells services.UpsellService, uid string) http.Handler {
	h := NewCartHandlers(carts, upsells)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := auth.WithIdentity(req.Context(), &auth.Identity{UID: uid, Role: auth.RoleCustomer})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/carts", h.Routes)
	return r
}

func TestCartHandlersGetCart(t *testing.T) {
	svc := &stubCartService{priced: testPricedCart()}
	router := cartTestRouter(svc, &stubUpsellService{}, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/carts/cart-1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var body cartView
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if body.ID != "cart-1" {
		t.Fatalf("expected cart-1, got %q", body.ID)
	}
	if body.Total != 90 {
		t.Fatalf("expected total 90, got %v", body.Total)
	}
	if body.Pricing.FinalDiscount == nil || body.Pricing.FinalDiscount.Name != "welcome" {
		t.Fatalf("expected welcome discount, got %+v", body.Pricing.FinalDiscount)
	}
}

func TestCartHandlersForeignCartHidden(t *testing.T) {
	svc := &stubCartService{priced: testPricedCart()}
	router := cartTestRouter(svc, &stubUpsellService{}, "someone-else")

	req := httptest.NewRequest(http.MethodGet, "/carts/cart-1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign cart, got %d", rr.Code)
	}
}

func TestCartHandlersApplyVoucher(t *testing.T) {
	svc := &stubCartService{priced: testPricedCart()}
	router := cartTestRouter(svc, &stubUpsellService{}, "user-1")

	req := httptest.NewRequest(http.MethodPut, "/carts/cart-1/voucher", strings.NewReader(`{"code":"WELCOME10"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if svc.applied != "WELCOME10" {
		t.Fatalf("expected voucher forwarded, got %q", svc.applied)
	}
}

func TestCartHandlersApplyVoucherRequiresCode(t *testing.T) {
	svc := &stubCartService{priced: testPricedCart()}
	router := cartTestRouter(svc, &stubUpsellService{}, "user-1")

	req := httptest.NewRequest(http.MethodPut, "/carts/cart-1/voucher", strings.NewReader(`{"code":"  "}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestCartHandlersServiceErrorMapping(t *testing.T) {
	svc := &stubCartService{err: services.ErrCartNotFound}
	router := cartTestRouter(svc, &stubUpsellService{}, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/carts/missing", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if body["error"] != "not_found" {
		t.Fatalf("expected not_found code, got %v", body["error"])
	}
}

func TestCartHandlersListOffers(t *testing.T) {
	svc := &stubCartService{priced: testPricedCart()}
	upsells := &stubUpsellService{offers: []domain.UpsellOffer{
		{ID: "offer-1", ProductID: "prod-2", OfferPrice: 15},
	}}
	router := cartTestRouter(svc, upsells, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/carts/cart-1/offers", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body struct {
		Offers []offerView `json:"offers"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(body.Offers) != 1 || body.Offers[0].ID != "offer-1" {
		t.Fatalf("unexpected offers payload: %+v", body.Offers)
	}
}
