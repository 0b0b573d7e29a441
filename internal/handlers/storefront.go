package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/madkurv/api/internal/domain"
	"github.com/madkurv/api/internal/platform/httpx"
	"github.com/madkurv/api/internal/services"
)

// StorefrontHandlers serves the public, unauthenticated brand menu.
type StorefrontHandlers struct {
	catalog services.CatalogService
}

func NewStorefrontHandlers(catalog services.CatalogService) *StorefrontHandlers {
	return &StorefrontHandlers{catalog: catalog}
}

// Routes mounts the storefront endpoints.
func (h *StorefrontHandlers) Routes(r chi.Router) {
	r.Get("/brands/{slug}/menu", h.getMenu)
}

type menuResponse struct {
	Brand      brandView      `json:"brand"`
	Locations  []locationView `json:"locations"`
	Categories []categoryView `json:"categories"`
	Products   []productView  `json:"products"`
	Combos     []comboView    `json:"combos"`
}

type brandView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type locationView struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	DeliveryFee   float64  `json:"deliveryFee"`
	MinOrderValue float64  `json:"minOrderValue"`
	DeliveryTypes []string `json:"deliveryTypes"`
}

type categoryView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sortOrder"`
}

type productView struct {
	ID         string        `json:"id"`
	CategoryID string        `json:"categoryId"`
	Name       string        `json:"name"`
	Desc       string        `json:"description,omitempty"`
	BasePrice  float64       `json:"basePrice"`
	Toppings   []toppingView `json:"toppings,omitempty"`
}

type comboView struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	ComboPrice float64  `json:"comboPrice"`
	ProductIDs []string `json:"productIds"`
}

func (h *StorefrontHandlers) getMenu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	menu, err := h.catalog.Menu(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	resp := menuResponse{
		Brand: brandView{ID: menu.Brand.ID, Name: menu.Brand.Name, Slug: menu.Brand.Slug},
	}
	for _, loc := range menu.Locations {
		resp.Locations = append(resp.Locations, buildLocationView(loc))
	}
	for _, cat := range menu.Categories {
		resp.Categories = append(resp.Categories, categoryView{ID: cat.ID, Name: cat.Name, SortOrder: cat.SortOrder})
	}
	for _, product := range menu.Products {
		resp.Products = append(resp.Products, buildProductView(product))
	}
	for _, combo := range menu.Combos {
		resp.Combos = append(resp.Combos, comboView{
			ID:         combo.ID,
			Name:       combo.Name,
			ComboPrice: combo.ComboPrice,
			ProductIDs: combo.ProductIDs,
		})
	}

	w.Header().Set("Cache-Control", "public, max-age=60")
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func buildLocationView(loc domain.Location) locationView {
	view := locationView{
		ID:            loc.ID,
		Name:          loc.Name,
		Address:       loc.Address,
		DeliveryFee:   loc.DeliveryFee,
		MinOrderValue: loc.MinOrderValue,
	}
	for _, dt := range loc.DeliveryTypes {
		view.DeliveryTypes = append(view.DeliveryTypes, string(dt))
	}
	return view
}

func buildProductView(product domain.Product) productView {
	view := productView{
		ID:         product.ID,
		CategoryID: product.CategoryID,
		Name:       product.Name,
		Desc:       product.Description,
		BasePrice:  product.BasePrice,
	}
	for _, topping := range product.Toppings {
		view.Toppings = append(view.Toppings, toppingView{Name: topping.Name, Price: topping.Price})
	}
	return view
}

// parsePickupTime accepts RFC 3339 timestamps from clients.
func parsePickupTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
