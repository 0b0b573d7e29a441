package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/madkurv/api/internal/domain"
	"github.com/madkurv/api/internal/platform/auth"
	"github.com/madkurv/api/internal/platform/httpx"
	"github.com/madkurv/api/internal/services"
)

// CartHandlers exposes the authenticated shopping cart endpoints.
type CartHandlers struct {
	carts   services.CartService
	upsells services.UpsellService
}

func NewCartHandlers(carts services.CartService, upsells services.UpsellService) *CartHandlers {
	return &CartHandlers{carts: carts, upsells: upsells}
}

// Routes mounts the cart endpoints. Callers are expected to have passed the
// auth middleware already.
func (h *CartHandlers) Routes(r chi.Router) {
	r.Post("/", h.openCart)
	r.Get("/{cartID}", h.getCart)
	r.Post("/{cartID}/lines", h.addProduct)
	r.Post("/{cartID}/combos", h.addCombo)
	r.Patch("/{cartID}/lines/{lineID}", h.updateLine)
	r.Delete("/{cartID}/lines/{lineID}", h.removeLine)
	r.Put("/{cartID}/voucher", h.applyVoucher)
	r.Delete("/{cartID}/voucher", h.removeVoucher)
	r.Put("/{cartID}/fulfilment", h.setFulfilment)
	r.Get("/{cartID}/offers", h.listOffers)
	r.Post("/{cartID}/offers/{offerID}", h.acceptOffer)
}

type openCartRequest struct {
	BrandID      string `json:"brandId"`
	LocationID   string `json:"locationId"`
	DeliveryType string `json:"deliveryType"`
}

func (h *CartHandlers) openCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := auth.FromContext(ctx)
	if !ok {
		httpx.WriteError(ctx, w, httpx.Unauthorized("authentication required"))
		return
	}

	var req openCartRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.BadRequest("malformed request body"))
		return
	}

	cart, err := h.carts.GetOrCreate(ctx, services.OpenCartCommand{
		UserID:       identity.UID,
		BrandID:      req.BrandID,
		LocationID:   req.LocationID,
		DeliveryType: domain.DeliveryType(req.DeliveryType),
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	priced, err := h.carts.Price(ctx, cart.ID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildCartView(priced))
}

func (h *CartHandlers) getCart(w http.ResponseWriter, r *http.Request) {
	priced, ok := h.ownedCart(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildCartView(priced))
}

type addProductRequest struct {
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	Toppings  []string `json:"toppings"`
}

func (h *CartHandlers) addProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.ownedCart(w, r); !ok {
		return
	}

	var req addProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.BadRequest("malformed request body"))
		return
	}

	priced, err := h.carts.AddProduct(ctx, services.AddProductCommand{
		CartID:    chi.URLParam(r, "cartID"),
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Toppings:  req.Toppings,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildCartView(priced))
}

type addComboRequest struct {
	ComboID string `json:"comboId"`
}

func (h *CartHandlers) addCombo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.ownedCart(w, r); !ok {
		return
	}

	var req addComboRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.BadRequest("malformed request body"))
		return
	}

	priced, err := h.carts.AddCombo(ctx, chi.URLParam(r, "cartID"), req.ComboID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildCartView(priced))
}

type updateLineRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandlers) updateLine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.ownedCart(w, r); !ok {
		return
	}

	var req updateLineRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.BadRequest("malformed request body"))
		return
	}

	priced, err := h.carts.UpdateLineQuantity(ctx, chi.URLParam(r, "cartID"), chi.URLParam(r, "lineID"), req.Quantity)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildCartView(priced))
}

func (h *CartHandlers) removeLine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.ownedCart(w, r); !ok {
		return
	}

	priced, err := h.carts.RemoveLine(ctx, chi.URLParam(r, "cartID"), chi.URLParam(r, "lineID"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildCartView(priced))
}

type applyVoucherRequest struct {
	Code string `json:"code"`
}

func (h *CartHandlers) applyVoucher(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.ownedCart(w, r); !ok {
		return
	}

	var req applyVoucherRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.BadRequest("malformed request body"))
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		httpx.WriteError(ctx, w, httpx.BadRequest("voucher code is required"))
		return
	}

	priced, err := h.carts.ApplyVoucher(ctx, chi.URLParam(r, "cartID"), req.Code)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildCartView(priced))
}

func (h *CartHandlers) removeVoucher(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.ownedCart(w, r); !ok {
		return
	}

	priced, err := h.carts.RemoveVoucher(ctx, chi.URLParam(r, "cartID"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildCartView(priced))
}

type setFulfilmentRequest struct {
	DeliveryType string `json:"deliveryType"`
	PickupTime   string `json:"pickupTime,omitempty"`
}

func (h *CartHandlers) setFulfilment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.ownedCart(w, r); !ok {
		return
	}

	var req setFulfilmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.BadRequest("malformed request body"))
		return
	}
	pickup, err := parsePickupTime(req.PickupTime)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.BadRequest("pickupTime must be RFC 3339"))
		return
	}

	priced, err := h.carts.SetFulfilment(ctx, services.SetFulfilmentCommand{
		CartID:       chi.URLParam(r, "cartID"),
		DeliveryType: domain.DeliveryType(req.DeliveryType),
		PickupTime:   pickup,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildCartView(priced))
}

type offerView struct {
	ID         string  `json:"id"`
	ProductID  string  `json:"productId"`
	OfferPrice float64 `json:"offerPrice"`
}

func (h *CartHandlers) listOffers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.upsells == nil {
		// Upsells are feature-flagged off.
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"offers": []offerView{}})
		return
	}
	priced, ok := h.ownedCart(w, r)
	if !ok {
		return
	}

	offers, err := h.upsells.OffersForCart(ctx, priced.Cart)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	views := make([]offerView, 0, len(offers))
	for _, offer := range offers {
		views = append(views, offerView{ID: offer.ID, ProductID: offer.ProductID, OfferPrice: offer.OfferPrice})
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"offers": views})
}

func (h *CartHandlers) acceptOffer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.ownedCart(w, r); !ok {
		return
	}

	priced, err := h.carts.AcceptUpsell(ctx, chi.URLParam(r, "cartID"), chi.URLParam(r, "offerID"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildCartView(priced))
}

// ownedCart loads the cart named in the URL and checks it belongs to the
// caller. Foreign carts answer 404 rather than 403 so cart ids stay
// unguessable.
func (h *CartHandlers) ownedCart(w http.ResponseWriter, r *http.Request) (services.PricedCart, bool) {
	ctx := r.Context()
	identity, ok := auth.FromContext(ctx)
	if !ok {
		httpx.WriteError(ctx, w, httpx.Unauthorized("authentication required"))
		return services.PricedCart{}, false
	}

	priced, err := h.carts.Price(ctx, chi.URLParam(r, "cartID"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return services.PricedCart{}, false
	}
	if priced.Cart.UserID != identity.UID && !identity.Is(auth.RoleStaff) {
		httpx.WriteError(ctx, w, httpx.NotFound("cart: not found"))
		return services.PricedCart{}, false
	}
	return priced, true
}
