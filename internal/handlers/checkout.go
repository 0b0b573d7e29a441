package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/madkurv/api/internal/platform/auth"
	"github.com/madkurv/api/internal/platform/httpx"
	"github.com/madkurv/api/internal/services"
)

// CheckoutHandlers starts payment sessions and serves order history.
type CheckoutHandlers struct {
	checkout services.CheckoutService
	carts    services.CartService
}

func NewCheckoutHandlers(checkout services.CheckoutService, carts services.CartService) *CheckoutHandlers {
	return &CheckoutHandlers{checkout: checkout, carts: carts}
}

// Routes mounts checkout and order endpoints; auth middleware runs upstream.
func (h *CheckoutHandlers) Routes(r chi.Router) {
	r.Post("/checkout", h.startCheckout)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{orderID}", h.getOrder)
}

type startCheckoutRequest struct {
	CartID     string `json:"cartId"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

type startCheckoutResponse struct {
	Order       orderView `json:"order"`
	RedirectURL string    `json:"redirectUrl"`
}

func (h *CheckoutHandlers) startCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := auth.FromContext(ctx)
	if !ok {
		httpx.WriteError(ctx, w, httpx.Unauthorized("authentication required"))
		return
	}

	var req startCheckoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.BadRequest("malformed request body"))
		return
	}
	if strings.TrimSpace(req.CartID) == "" {
		httpx.WriteError(ctx, w, httpx.BadRequest("cartId is required"))
		return
	}

	priced, err := h.carts.Price(ctx, req.CartID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	if priced.Cart.UserID != identity.UID {
		httpx.WriteError(ctx, w, httpx.NotFound("cart: not found"))
		return
	}

	session, err := h.checkout.Start(ctx, services.StartCheckoutCommand{
		CartID:     req.CartID,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, startCheckoutResponse{
		Order:       buildOrderView(session.Order),
		RedirectURL: session.RedirectURL,
	})
}

func (h *CheckoutHandlers) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := auth.FromContext(ctx)
	if !ok {
		httpx.WriteError(ctx, w, httpx.Unauthorized("authentication required"))
		return
	}

	orders, err := h.checkout.ListOrders(ctx, identity.UID, r.URL.Query().Get("brandId"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	views := make([]orderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, buildOrderView(order))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"orders": views})
}

func (h *CheckoutHandlers) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := auth.FromContext(ctx)
	if !ok {
		httpx.WriteError(ctx, w, httpx.Unauthorized("authentication required"))
		return
	}

	order, err := h.checkout.GetOrder(ctx, chi.URLParam(r, "orderID"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	if order.UserID != identity.UID && !identity.Is(auth.RoleStaff) {
		httpx.WriteError(ctx, w, httpx.NotFound("checkout: order not found"))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildOrderView(order))
}
