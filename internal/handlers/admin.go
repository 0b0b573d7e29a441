package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/madkurv/api/internal/domain"
	"github.com/madkurv/api/internal/platform/auth"
	"github.com/madkurv/api/internal/platform/httpx"
	"github.com/madkurv/api/internal/services"
)

// AdminHandlers groups the back-office endpoints: catalog authoring,
// discount and voucher management, upsell offers, feedback moderation and
// the QA register. The router guards the whole group with staff/admin auth.
type AdminHandlers struct {
	catalog   services.CatalogService
	discounts services.DiscountService
	upsells   services.UpsellService
	feedback  services.FeedbackService
	qa        services.QAService
}

func NewAdminHandlers(
	catalog services.CatalogService,
	discounts services.DiscountService,
	upsells services.UpsellService,
	feedback services.FeedbackService,
	qa services.QAService,
) *AdminHandlers {
	return &AdminHandlers{
		catalog:   catalog,
		discounts: discounts,
		upsells:   upsells,
		feedback:  feedback,
		qa:        qa,
	}
}

// Routes mounts the admin endpoints.
func (h *AdminHandlers) Routes(r chi.Router) {
	r.Put("/categories", h.saveCategory)
	r.Put("/products", h.saveProduct)
	r.Delete("/products/{productID}", h.deleteProduct)
	r.Put("/combos", h.saveCombo)

	r.Get("/discounts", h.listDiscounts)
	r.Put("/discounts", h.saveDiscount)
	r.Delete("/discounts/{discountID}", h.deleteDiscount)

	r.Get("/vouchers", h.listVouchers)
	r.Put("/vouchers", h.saveVoucher)
	r.Delete("/vouchers/{voucherID}", h.deleteVoucher)

	r.Get("/upsells", h.listUpsells)
	r.Put("/upsells", h.saveUpsell)
	r.Delete("/upsells/{offerID}", h.deleteUpsell)

	r.Get("/feedback", h.listFeedback)
	r.Post("/feedback/{feedbackID}/moderate", h.moderateFeedback)

	r.Get("/qa", h.listQACases)
	r.Post("/qa", h.createQACase)
	r.Post("/qa/{caseID}/status", h.setQAStatus)
}

func (h *AdminHandlers) saveCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var category domain.Category
	if err := httpx.DecodeJSON(r, &category); err != nil {
		httpx.WriteError(ctx, w, httpx.BadRequest("malformed request body"))
		return
	}
	saved, err := h.catalog.SaveCategory(ctx, category)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, saved)
}

func (h *AdminHandlers) saveProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var product domain.Product
	if err := httpx.DecodeJSON(r, &product); err != nil {
		httpx.WriteError(ctx, w, httpx.BadRequest("malformed request body"))
		return
	}
	saved, err := h.catalog.SaveProduct(ctx, product)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, saved)
}

func (h *AdminHandlers) deleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.catalog.DeleteProduct(ctx, chi.URLParam(r, "productID")); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandlers) saveCombo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var combo domain.Combo
	if err := httpx.DecodeJSON(r, &combo); err != nil {
		httpx.WriteError(ctx, w, httpx.BadRequest("malformed request body"))
		return
	}
	saved, err := h.catalog.SaveCombo(ctx, combo)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, saved)
}

func (h *AdminHandlers) listDiscounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	brandID := r.URL.Query().Get("brandId")
	if brandID == "" {
		httpx.WriteError(ctx, w, httpx.BadRequest("brandId query parameter is required"))
		return
	}
	discounts, err := h.discounts.ListDiscounts(ctx, brandID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"discounts": discounts})
}

func (h *AdminHandlers) saveDiscount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var discount domain.StandardDiscount
	if err := httpx.DecodeJSON(r, &discount); err != nil {
		httpx.WriteError(ctx, w, httpx.BadRequest("malformed request body"))
		return
	}
	saved, err := h.discounts.SaveDiscount(ctx, discount)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, saved)
}

func (h *AdminHandlers) deleteDiscount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.discounts.DeleteDiscount(ctx, chi.URLParam(r, "discountID")); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandlers) listVouchers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	brandID := r.URL.Query().Get("brandId")
	if brandID == "" {
		httpx.WriteError(ctx, w, httpx.BadRequest("brandId query parameter is required"))
		return
	}
	vouchers, err := h.discounts.ListVouchers(ctx, brandID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"vouchers": vouchers})
}

func (h *AdminHandlers) saveVoucher(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var voucher domain.VoucherDiscount
	if err := httpx.DecodeJSON(r, &voucher); err != nil {
		httpx.WriteError(ctx, w, httpx.BadRequest("malformed request body"))
		return
	}
	saved, err := h.discounts.SaveVoucher(ctx, voucher)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, saved)
}

func (h *AdminHandlers) deleteVoucher(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.discounts.DeleteVoucher(ctx, chi.URLParam(r, "voucherID")); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandlers) listUpsells(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.upsellsEnabled(ctx, w) {
		return
	}
	brandID := r.URL.Query().Get("brandId")
	if brandID == "" {
		httpx.WriteError(ctx, w, httpx.BadRequest("brandId query parameter is required"))
		return
	}
	offers, err := h.upsells.ListOffers(ctx, brandID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"offers": offers})
}

func (h *AdminHandlers) saveUpsell(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.upsellsEnabled(ctx, w) {
		return
	}
	var offer domain.UpsellOffer
	if err := httpx.DecodeJSON(r, &offer); err != nil {
		httpx.WriteError(ctx, w, httpx.BadRequest("malformed request body"))
		return
	}
	saved, err := h.upsells.SaveOffer(ctx, offer)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, saved)
}

func (h *AdminHandlers) deleteUpsell(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.upsellsEnabled(ctx, w) {
		return
	}
	if err := h.upsells.DeleteOffer(ctx, chi.URLParam(r, "offerID")); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// upsellsEnabled rejects upsell management when the feature is flagged off
// and no service was wired.
func (h *AdminHandlers) upsellsEnabled(ctx context.Context, w http.ResponseWriter) bool {
	if h.upsells == nil {
		httpx.WriteError(ctx, w, httpx.NotFound("upsells are disabled"))
		return false
	}
	return true
}

func (h *AdminHandlers) listFeedback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	brandID := r.URL.Query().Get("brandId")
	if brandID == "" {
		httpx.WriteError(ctx, w, httpx.BadRequest("brandId query parameter is required"))
		return
	}
	entries, err := h.feedback.List(ctx, brandID, domain.FeedbackStatus(r.URL.Query().Get("status")))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"feedback": entries})
}

type moderateRequest struct {
	Approve bool `json:"approve"`
}

func (h *AdminHandlers) moderateFeedback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.FromContext(ctx)
	moderator := ""
	if identity != nil {
		moderator = identity.UID
	}

	var req moderateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.BadRequest("malformed request body"))
		return
	}

	entry, err := h.feedback.Moderate(ctx, chi.URLParam(r, "feedbackID"), req.Approve, moderator)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, entry)
}

func (h *AdminHandlers) listQACases(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cases, err := h.qa.List(ctx)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"cases": cases})
}

type createQARequest struct {
	Title    string   `json:"title"`
	Area     string   `json:"area"`
	Steps    []string `json:"steps"`
	Expected string   `json:"expected"`
	Assignee string   `json:"assignee"`
}

func (h *AdminHandlers) createQACase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createQARequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.BadRequest("malformed request body"))
		return
	}

	created, err := h.qa.Create(ctx, services.CreateQACaseCommand{
		Title:    req.Title,
		Area:     req.Area,
		Steps:    req.Steps,
		Expected: req.Expected,
		Assignee: req.Assignee,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, created)
}

type setQAStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminHandlers) setQAStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req setQAStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.BadRequest("malformed request body"))
		return
	}

	updated, err := h.qa.SetStatus(ctx, chi.URLParam(r, "caseID"), domain.QAStatus(req.Status))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}
