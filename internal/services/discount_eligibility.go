package services

import (
	"strconv"
	"strings"
	"time"

	domain "github.com/madkurv/api/internal/domain"
)

// EligibleDiscounts filters a brand's discount catalog down to the rules that
// may apply to the given order context at the given moment. It is a pure
// function: the catalog is injected per call, never read from ambient state.
//
// Malformed time slot strings never make a discount apply; they fail closed.
func EligibleDiscounts(now time.Time, octx domain.OrderContext, catalog []domain.StandardDiscount) []domain.StandardDiscount {
	if len(catalog) == 0 {
		return nil
	}

	eligible := make([]domain.StandardDiscount, 0, len(catalog))
	for _, d := range catalog {
		if discountEligible(now, octx, d) {
			eligible = append(eligible, d)
		}
	}
	if len(eligible) == 0 {
		return nil
	}
	return eligible
}

func discountEligible(now time.Time, octx domain.OrderContext, d domain.StandardDiscount) bool {
	if !d.IsActive {
		return false
	}
	if len(d.LocationIDs) > 0 && !containsFold(d.LocationIDs, octx.LocationID) {
		return false
	}
	if !orderTypeAllowed(d.OrderTypes, octx.DeliveryType) {
		return false
	}
	if !withinDateRange(now, d.StartDate, d.EndDate) {
		return false
	}
	if len(d.ActiveDays) > 0 && !containsFold(d.ActiveDays, weekdayName(now)) {
		return false
	}
	if len(d.ActiveTimeSlots) > 0 && !anySlotContains(d.ActiveTimeSlots, slotEvaluationTime(now, octx, d)) {
		return false
	}
	return true
}

// slotEvaluationTime picks the timestamp time slots are checked against: the
// requested pickup time when the discount validates against it and one was
// supplied, otherwise the order time.
func slotEvaluationTime(now time.Time, octx domain.OrderContext, d domain.StandardDiscount) time.Time {
	if d.TimeSlotValidation == domain.ValidateAgainstPickupTime && octx.PickupTime != nil {
		return *octx.PickupTime
	}
	return now
}

// weekdayName yields the locale-invariant lower-case English weekday name.
func weekdayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// orderTypeAllowed treats an empty list as unrestricted, like every other
// restriction field on a discount.
func orderTypeAllowed(types []domain.DeliveryType, dt domain.DeliveryType) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if t == dt {
			return true
		}
	}
	return false
}

func withinDateRange(now time.Time, start, end *time.Time) bool {
	if start != nil && now.Before(*start) {
		return false
	}
	if end != nil && now.After(*end) {
		return false
	}
	return true
}

func anySlotContains(slots []domain.TimeSlot, t time.Time) bool {
	minute := t.Hour()*60 + t.Minute()
	for _, slot := range slots {
		start, ok := parseClockMinutes(slot.Start)
		if !ok {
			continue
		}
		end, ok := parseClockMinutes(slot.End)
		if !ok {
			continue
		}
		// Both bounds are inclusive.
		if minute >= start && minute <= end {
			return true
		}
	}
	return false
}

// parseClockMinutes parses an HH:mm string into minutes since midnight.
func parseClockMinutes(value string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

func containsFold(values []string, target string) bool {
	target = strings.TrimSpace(target)
	if target == "" {
		return false
	}
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return true
		}
	}
	return false
}
