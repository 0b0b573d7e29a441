package services

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/madkurv/api/internal/domain"
)

func newFeedbackHarness(t *testing.T) (FeedbackService, *fakeOrderRepo) {
	t.Helper()
	orders := newFakeOrderRepo()
	paidAt := pricingNow
	orders.items["order-1"] = domain.Order{
		ID: "order-1", BrandID: "brand-1", UserID: "user-1",
		Status: domain.OrderStatusPaid, PaidAt: &paidAt,
	}
	orders.items["order-2"] = domain.Order{
		ID: "order-2", BrandID: "brand-1", UserID: "user-1",
		Status: domain.OrderStatusPendingPayment,
	}

	svc, err := NewFeedbackService(FeedbackServiceDeps{
		Feedback: newFakeFeedbackRepo(),
		Orders:   orders,
		Clock:    func() time.Time { return pricingNow },
	})
	if err != nil {
		t.Fatalf("NewFeedbackService: %v", err)
	}
	return svc, orders
}

func TestFeedbackSubmit(t *testing.T) {
	svc, _ := newFeedbackHarness(t)

	fb, err := svc.Submit(context.Background(), SubmitFeedbackCommand{
		BrandID: "brand-1", OrderID: "order-1", UserID: "user-1", Rating: 5, Comment: "  great pizza  ",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if fb.Status != domain.FeedbackStatusPending {
		t.Fatalf("status = %s, want pending", fb.Status)
	}
	if fb.Comment != "great pizza" {
		t.Fatalf("comment = %q", fb.Comment)
	}
}

func TestFeedbackRatingBounds(t *testing.T) {
	svc, _ := newFeedbackHarness(t)
	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Submit(context.Background(), SubmitFeedbackCommand{
			OrderID: "order-1", UserID: "user-1", Rating: rating,
		})
		if !errors.Is(err, ErrFeedbackInvalid) {
			t.Fatalf("rating %d: err = %v, want ErrFeedbackInvalid", rating, err)
		}
	}
}

func TestFeedbackRejectsUnpaidOrder(t *testing.T) {
	svc, _ := newFeedbackHarness(t)
	_, err := svc.Submit(context.Background(), SubmitFeedbackCommand{
		OrderID: "order-2", UserID: "user-1", Rating: 4,
	})
	if !errors.Is(err, ErrFeedbackInvalid) {
		t.Fatalf("err = %v, want ErrFeedbackInvalid", err)
	}
}

func TestFeedbackRejectsForeignOrder(t *testing.T) {
	svc, _ := newFeedbackHarness(t)
	_, err := svc.Submit(context.Background(), SubmitFeedbackCommand{
		OrderID: "order-1", UserID: "user-2", Rating: 4,
	})
	if !errors.Is(err, ErrFeedbackInvalid) {
		t.Fatalf("err = %v, want ErrFeedbackInvalid", err)
	}
}

func TestFeedbackModerate(t *testing.T) {
	svc, _ := newFeedbackHarness(t)

	fb, err := svc.Submit(context.Background(), SubmitFeedbackCommand{
		OrderID: "order-1", UserID: "user-1", Rating: 3,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	approved, err := svc.Moderate(context.Background(), fb.ID, true, "admin-1")
	if err != nil {
		t.Fatalf("Moderate: %v", err)
	}
	if approved.Status != domain.FeedbackStatusApproved || approved.ModeratedBy != "admin-1" {
		t.Fatalf("moderated = %+v", approved)
	}
	if approved.ModeratedAt == nil {
		t.Fatal("moderated at not set")
	}
}
