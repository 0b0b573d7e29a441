package services

import (
	"testing"
	"time"

	domain "github.com/madkurv/api/internal/domain"
)

// Wednesday 2024-03-06 12:00 UTC.
var eligibilityNow = time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)

func baseDiscount() domain.StandardDiscount {
	return domain.StandardDiscount{
		ID:       "disc-1",
		Name:     "lunch-deal",
		Type:     domain.DiscountTypeCart,
		Method:   domain.DiscountMethodPercentage,
		Value:    10,
		IsActive: true,
	}
}

func eligibilityContext() domain.OrderContext {
	return domain.OrderContext{
		BrandID:      "brand-1",
		LocationID:   "loc-aarhus",
		DeliveryType: domain.DeliveryTypePickup,
	}
}

func assertEligible(t *testing.T, d domain.StandardDiscount, octx domain.OrderContext, want bool) {
	t.Helper()
	got := EligibleDiscounts(eligibilityNow, octx, []domain.StandardDiscount{d})
	if (len(got) == 1) != want {
		t.Fatalf("eligible = %v, want %v for %+v", len(got) == 1, want, d)
	}
}

func TestEligibilityInactiveDiscount(t *testing.T) {
	d := baseDiscount()
	d.IsActive = false
	assertEligible(t, d, eligibilityContext(), false)
}

func TestEligibilityUnrestrictedDiscount(t *testing.T) {
	assertEligible(t, baseDiscount(), eligibilityContext(), true)
}

func TestEligibilityLocationScope(t *testing.T) {
	d := baseDiscount()
	d.LocationIDs = []string{"loc-copenhagen"}
	assertEligible(t, d, eligibilityContext(), false)

	d.LocationIDs = []string{"loc-copenhagen", "loc-aarhus"}
	assertEligible(t, d, eligibilityContext(), true)
}

func TestEligibilityOrderType(t *testing.T) {
	d := baseDiscount()
	d.OrderTypes = []domain.DeliveryType{domain.DeliveryTypeDelivery}
	assertEligible(t, d, eligibilityContext(), false)

	octx := eligibilityContext()
	octx.DeliveryType = domain.DeliveryTypeDelivery
	assertEligible(t, d, octx, true)
}

func TestEligibilityDateRange(t *testing.T) {
	d := baseDiscount()
	start := eligibilityNow.Add(24 * time.Hour)
	d.StartDate = &start
	assertEligible(t, d, eligibilityContext(), false)

	d = baseDiscount()
	end := eligibilityNow.Add(-time.Hour)
	d.EndDate = &end
	assertEligible(t, d, eligibilityContext(), false)

	d = baseDiscount()
	start = eligibilityNow.Add(-24 * time.Hour)
	end = eligibilityNow.Add(24 * time.Hour)
	d.StartDate = &start
	d.EndDate = &end
	assertEligible(t, d, eligibilityContext(), true)
}

func TestEligibilityActiveDays(t *testing.T) {
	d := baseDiscount()
	d.ActiveDays = []string{"monday", "tuesday"}
	assertEligible(t, d, eligibilityContext(), false)

	d.ActiveDays = []string{"Wednesday"}
	assertEligible(t, d, eligibilityContext(), true)
}

func TestEligibilityTimeSlots(t *testing.T) {
	d := baseDiscount()
	d.ActiveTimeSlots = []domain.TimeSlot{{Start: "11:00", End: "13:00"}}
	assertEligible(t, d, eligibilityContext(), true)

	d.ActiveTimeSlots = []domain.TimeSlot{{Start: "17:00", End: "21:00"}}
	assertEligible(t, d, eligibilityContext(), false)
}

func TestEligibilityTimeSlotBoundsInclusive(t *testing.T) {
	d := baseDiscount()
	d.ActiveTimeSlots = []domain.TimeSlot{{Start: "12:00", End: "12:00"}}
	assertEligible(t, d, eligibilityContext(), true)
}

func TestEligibilityMalformedSlotFailsClosed(t *testing.T) {
	d := baseDiscount()
	d.ActiveTimeSlots = []domain.TimeSlot{
		{Start: "noon", End: "13:00"},
		{Start: "11:00", End: "25:99"},
	}
	assertEligible(t, d, eligibilityContext(), false)

	// A well-formed slot alongside broken ones still works.
	d.ActiveTimeSlots = append(d.ActiveTimeSlots, domain.TimeSlot{Start: "11:30", End: "12:30"})
	assertEligible(t, d, eligibilityContext(), true)
}

func TestEligibilityPickupTimeValidation(t *testing.T) {
	d := baseDiscount()
	d.TimeSlotValidation = domain.ValidateAgainstPickupTime
	d.ActiveTimeSlots = []domain.TimeSlot{{Start: "17:00", End: "19:00"}}

	// Ordering at noon for an evening pickup: the slot checks the pickup time.
	pickup := time.Date(2024, 3, 6, 18, 0, 0, 0, time.UTC)
	octx := eligibilityContext()
	octx.PickupTime = &pickup
	assertEligible(t, d, octx, true)

	// Without a pickup time the check falls back to the order time.
	assertEligible(t, d, eligibilityContext(), false)
}

func TestEligibilityOrderTimeValidationIgnoresPickup(t *testing.T) {
	d := baseDiscount()
	d.TimeSlotValidation = domain.ValidateAgainstOrderTime
	d.ActiveTimeSlots = []domain.TimeSlot{{Start: "11:00", End: "13:00"}}

	pickup := time.Date(2024, 3, 6, 18, 0, 0, 0, time.UTC)
	octx := eligibilityContext()
	octx.PickupTime = &pickup
	assertEligible(t, d, octx, true)
}

func TestEligibilityFiltersCatalog(t *testing.T) {
	active := baseDiscount()
	inactive := baseDiscount()
	inactive.ID = "disc-2"
	inactive.IsActive = false

	got := EligibleDiscounts(eligibilityNow, eligibilityContext(), []domain.StandardDiscount{active, inactive})
	if len(got) != 1 || got[0].ID != "disc-1" {
		t.Fatalf("eligible = %+v, want only disc-1", got)
	}
}
