package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/madkurv/api/internal/platform/auth"
	"github.com/madkurv/api/internal/platform/httpx"
	"github.com/madkurv/api/internal/services"
)

// FeedbackHandlers lets customers rate completed orders.
type FeedbackHandlers struct {
	feedback services.FeedbackService
}

func NewFeedbackHandlers(feedback services.FeedbackService) *FeedbackHandlers {
	return &FeedbackHandlers{feedback: feedback}
}

// Routes mounts the customer-facing feedback endpoint.
func (h *FeedbackHandlers) Routes(r chi.Router) {
	r.Post("/", h.submit)
}

type submitFeedbackRequest struct {
	BrandID string `json:"brandId"`
	OrderID string `json:"orderId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type feedbackView struct {
	ID      string `json:"id"`
	OrderID string `json:"orderId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
	Status  string `json:"status"`
}

func (h *FeedbackHandlers) submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := auth.FromContext(ctx)
	if !ok {
		httpx.WriteError(ctx, w, httpx.Unauthorized("authentication required"))
		return
	}

	var req submitFeedbackRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.BadRequest("malformed request body"))
		return
	}

	entry, err := h.feedback.Submit(ctx, services.SubmitFeedbackCommand{
		BrandID: req.BrandID,
		OrderID: req.OrderID,
		UserID:  identity.UID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, feedbackView{
		ID:      entry.ID,
		OrderID: entry.OrderRef,
		Rating:  entry.Rating,
		Comment: entry.Comment,
		Status:  string(entry.Status),
	})
}
