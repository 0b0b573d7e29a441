// Package handlers carries the HTTP layer. Handlers decode and validate the
// wire shapes, call a service, and translate errors into the shared JSON
// envelope; no business rules live here.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/madkurv/api/internal/domain"
	"github.com/madkurv/api/internal/platform/httpx"
	"github.com/madkurv/api/internal/platform/requestctx"
	"github.com/madkurv/api/internal/repositories"
	"github.com/madkurv/api/internal/services"
)

// writeServiceError maps service failures onto HTTP statuses. Anything the
// table does not recognise becomes an opaque 500 so internals never leak.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrBrandNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrCartNotFound),
		errors.Is(err, services.ErrLineNotFound),
		errors.Is(err, services.ErrVoucherNotFound),
		errors.Is(err, services.ErrOfferNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrFeedbackNotFound),
		errors.Is(err, services.ErrQANotFound):
		httpx.WriteError(ctx, w, httpx.NotFound(err.Error()))
	case errors.Is(err, services.ErrCartInvalid),
		errors.Is(err, services.ErrCatalogInvalid),
		errors.Is(err, services.ErrDiscountInvalid),
		errors.Is(err, services.ErrVoucherInvalid),
		errors.Is(err, services.ErrFeedbackInvalid),
		errors.Is(err, services.ErrQAInvalid),
		errors.Is(err, services.ErrOfferInvalid),
		errors.Is(err, services.ErrCartEmpty):
		httpx.WriteError(ctx, w, httpx.Unprocessable(err.Error()))
	case repositories.IsNotFound(err):
		httpx.WriteError(ctx, w, httpx.NotFound("resource not found"))
	case repositories.IsConflict(err):
		httpx.WriteError(ctx, w, httpx.Conflict("resource conflict"))
	case repositories.IsUnavailable(err):
		httpx.WriteError(ctx, w, httpx.Error{
			Status:  http.StatusServiceUnavailable,
			Code:    "unavailable",
			Message: "storage temporarily unavailable",
		})
	default:
		requestctx.Logger(ctx).Error("unhandled service error", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.Internal("internal server error"))
	}
}

type toppingView struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type cartLineView struct {
	ID        string        `json:"id"`
	ProductID string        `json:"productId,omitempty"`
	ComboID   string        `json:"comboId,omitempty"`
	Name      string        `json:"name"`
	ItemType  string        `json:"itemType"`
	Quantity  int           `json:"quantity"`
	BasePrice float64       `json:"basePrice"`
	Price     float64       `json:"price"`
	Toppings  []toppingView `json:"toppings,omitempty"`
}

type appliedDiscountView struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type pricingView struct {
	Subtotal      float64              `json:"subtotal"`
	ItemDiscounts map[string]float64   `json:"itemDiscounts,omitempty"`
	FinalDiscount *appliedDiscountView `json:"finalDiscount,omitempty"`
	CartTotal     float64              `json:"cartTotal"`
}

type cartView struct {
	ID                string         `json:"id"`
	BrandID           string         `json:"brandId"`
	LocationID        string         `json:"locationId,omitempty"`
	DeliveryType      string         `json:"deliveryType"`
	PickupTime        *time.Time     `json:"pickupTime,omitempty"`
	VoucherCode       string         `json:"voucherCode,omitempty"`
	Lines             []cartLineView `json:"lines"`
	Pricing           pricingView    `json:"pricing"`
	DeliveryFee       float64        `json:"deliveryFee"`
	DeliveryFeeWaived bool           `json:"deliveryFeeWaived"`
	Total             float64        `json:"total"`
}

func buildCartView(priced services.PricedCart) cartView {
	cart := priced.Cart
	view := cartView{
		ID:                cart.ID,
		BrandID:           cart.BrandID,
		LocationID:        cart.LocationID,
		DeliveryType:      string(cart.DeliveryType),
		PickupTime:        cart.PickupTime,
		VoucherCode:       cart.VoucherCode,
		Lines:             make([]cartLineView, 0, len(cart.Lines)),
		Pricing:           buildPricingView(priced.Pricing),
		DeliveryFee:       priced.DeliveryFee,
		DeliveryFeeWaived: priced.DeliveryFeeWaived,
		Total:             priced.Total,
	}
	for _, line := range cart.Lines {
		view.Lines = append(view.Lines, buildLineView(line))
	}
	return view
}

func buildLineView(line domain.CartLine) cartLineView {
	view := cartLineView{
		ID:        line.ID,
		ProductID: line.ProductID,
		ComboID:   line.ComboID,
		Name:      line.Name,
		ItemType:  string(line.ItemType),
		Quantity:  line.Quantity,
		BasePrice: line.BasePrice,
		Price:     line.Price,
	}
	for _, topping := range line.Toppings {
		view.Toppings = append(view.Toppings, toppingView{Name: topping.Name, Price: topping.Price})
	}
	return view
}

func buildPricingView(result domain.PricingResult) pricingView {
	view := pricingView{
		Subtotal:      result.Subtotal,
		ItemDiscounts: result.ItemDiscounts,
		CartTotal:     result.CartTotal,
	}
	if result.FinalDiscount != nil {
		view.FinalDiscount = &appliedDiscountView{
			Name:   result.FinalDiscount.Name,
			Amount: result.FinalDiscount.Amount,
		}
	}
	return view
}

type orderView struct {
	ID          string      `json:"id"`
	OrderNumber string      `json:"orderNumber"`
	Status      string      `json:"status"`
	Pricing     pricingView `json:"pricing"`
	DeliveryFee float64     `json:"deliveryFee"`
	FeeWaived   bool        `json:"deliveryFeeWaived"`
	AmountMinor int64       `json:"amountMinor"`
	Currency    string      `json:"currency"`
	CreatedAt   time.Time   `json:"createdAt"`
	PaidAt      *time.Time  `json:"paidAt,omitempty"`
}

func buildOrderView(order domain.Order) orderView {
	return orderView{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		Status:      string(order.Status),
		Pricing:     buildPricingView(order.Payment.Snapshot),
		DeliveryFee: order.Payment.DeliveryFee,
		FeeWaived:   order.Payment.FeeWaived,
		AmountMinor: order.Payment.AmountMinor,
		Currency:    order.Payment.Currency,
		CreatedAt:   order.CreatedAt,
		PaidAt:      order.PaidAt,
	}
}
