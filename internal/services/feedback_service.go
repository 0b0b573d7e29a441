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
	ErrFeedbackInvalid  = errors.New("feedback: invalid input")
	ErrFeedbackNotFound = errors.New("feedback: not found")
)

type feedbackService struct {
	feedback repositories.FeedbackRepository
	orders   repositories.OrderRepository
	now      func() time.Time
	logger   Logger
}

// FeedbackServiceDeps lists the collaborators of the feedback service.
type FeedbackServiceDeps struct {
	Feedback repositories.FeedbackRepository
	Orders   repositories.OrderRepository
	Clock    Clock
	Logger   Logger
}

// NewFeedbackService validates deps and builds the feedback service.
func NewFeedbackService(deps FeedbackServiceDeps) (FeedbackService, error) {
	if deps.Feedback == nil {
		return nil, errors.New("feedback: feedback repository is required")
	}
	if deps.Orders == nil {
		return nil, errors.New("feedback: order repository is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &feedbackService{
		feedback: deps.Feedback,
		orders:   deps.Orders,
		now:      func() time.Time { return clock().UTC() },
		logger:   logger,
	}, nil
}

// Submit accepts a rating for a paid order the submitting user owns.
func (s *feedbackService) Submit(ctx context.Context, cmd SubmitFeedbackCommand) (domain.Feedback, error) {
	if cmd.Rating < 1 || cmd.Rating > 5 {
		return domain.Feedback{}, fmt.Errorf("%w: rating %d out of [1,5]", ErrFeedbackInvalid, cmd.Rating)
	}

	order, err := s.orders.Get(ctx, cmd.OrderID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.Feedback{}, fmt.Errorf("%w: order %s", ErrFeedbackInvalid, cmd.OrderID)
		}
		return domain.Feedback{}, err
	}
	if order.UserID != cmd.UserID {
		return domain.Feedback{}, fmt.Errorf("%w: order belongs to another user", ErrFeedbackInvalid)
	}
	if order.Status != domain.OrderStatusPaid && order.Status != domain.OrderStatusCompleted {
		return domain.Feedback{}, fmt.Errorf("%w: order is not paid", ErrFeedbackInvalid)
	}

	now := s.now()
	fb := domain.Feedback{
		ID:        ids.New(now),
		BrandID:   order.BrandID,
		OrderRef:  order.ID,
		UserRef:   cmd.UserID,
		Rating:    cmd.Rating,
		Comment:   strings.TrimSpace(cmd.Comment),
		Status:    domain.FeedbackStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.feedback.Save(ctx, fb); err != nil {
		return domain.Feedback{}, err
	}
	s.logger(ctx, "feedback.submitted", map[string]any{
		"feedbackId": fb.ID,
		"orderId":    order.ID,
		"rating":     fb.Rating,
	})
	return fb, nil
}

func (s *feedbackService) Moderate(ctx context.Context, id string, approve bool, moderator string) (domain.Feedback, error) {
	fb, err := s.feedback.Get(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.Feedback{}, fmt.Errorf("%w: %s", ErrFeedbackNotFound, id)
		}
		return domain.Feedback{}, err
	}

	now := s.now()
	if approve {
		fb.Status = domain.FeedbackStatusApproved
	} else {
		fb.Status = domain.FeedbackStatusRejected
	}
	fb.ModeratedBy = moderator
	fb.ModeratedAt = &now
	fb.UpdatedAt = now

	if err := s.feedback.Save(ctx, fb); err != nil {
		return domain.Feedback{}, err
	}
	return fb, nil
}

func (s *feedbackService) List(ctx context.Context, brandID string, status domain.FeedbackStatus) ([]domain.Feedback, error) {
	if strings.TrimSpace(brandID) == "" {
		return nil, fmt.Errorf("%w: brand id is required", ErrFeedbackInvalid)
	}
	return s.feedback.ListByBrand(ctx, brandID, status)
}
