package services

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/madkurv/api/internal/domain"
)

func newQAService(t *testing.T) QAService {
	t.Helper()
	svc, err := NewQAService(QAServiceDeps{
		Cases:    newFakeQARepo(),
		Counters: newFakeCounterRepo(),
		Clock:    func() time.Time { return pricingNow },
	})
	if err != nil {
		t.Fatalf("NewQAService: %v", err)
	}
	return svc
}

func TestQACodesAreSequential(t *testing.T) {
	svc := newQAService(t)

	first, err := svc.Create(context.Background(), CreateQACaseCommand{Title: "voucher beats weaker cart discount"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := svc.Create(context.Background(), CreateQACaseCommand{Title: "combo lines stay locked"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.Code != "QA-00001" || second.Code != "QA-00002" {
		t.Fatalf("codes = %q, %q", first.Code, second.Code)
	}
	if first.Status != domain.QAStatusOpen {
		t.Fatalf("status = %s, want open", first.Status)
	}
}

func TestQASetStatus(t *testing.T) {
	svc := newQAService(t)

	tc, err := svc.Create(context.Background(), CreateQACaseCommand{Title: "delivery fee waived at threshold"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	updated, err := svc.SetStatus(context.Background(), tc.ID, domain.QAStatusPassed)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if updated.Status != domain.QAStatusPassed {
		t.Fatalf("status = %s, want passed", updated.Status)
	}

	if _, err := svc.SetStatus(context.Background(), tc.ID, "wontfix"); !errors.Is(err, ErrQAInvalid) {
		t.Fatalf("err = %v, want ErrQAInvalid", err)
	}
}

func TestQACreateNeedsTitle(t *testing.T) {
	svc := newQAService(t)
	if _, err := svc.Create(context.Background(), CreateQACaseCommand{}); !errors.Is(err, ErrQAInvalid) {
		t.Fatalf("err = %v, want ErrQAInvalid", err)
	}
}
