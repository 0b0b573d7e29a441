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

// Validation failures surfaced to the back office.
var (
	ErrDiscountInvalid = errors.New("discounts: invalid discount")
	ErrVoucherInvalid  = errors.New("discounts: invalid voucher")
)

// discountService owns authoring. Pricing never goes through here; it reads
// the repository directly so a slow admin write cannot stall a checkout.
type discountService struct {
	discounts repositories.DiscountRepository
	vouchers  repositories.VoucherRepository
	now       func() time.Time
	logger    Logger
}

// DiscountServiceDeps lists the collaborators of the discount service.
type DiscountServiceDeps struct {
	Discounts repositories.DiscountRepository
	Vouchers  repositories.VoucherRepository
	Clock     Clock
	Logger    Logger
}

// NewDiscountService validates deps and builds the authoring service.
func NewDiscountService(deps DiscountServiceDeps) (DiscountService, error) {
	if deps.Discounts == nil {
		return nil, errors.New("discounts: discount repository is required")
	}
	if deps.Vouchers == nil {
		return nil, errors.New("discounts: voucher repository is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &discountService{
		discounts: deps.Discounts,
		vouchers:  deps.Vouchers,
		now:       func() time.Time { return clock().UTC() },
		logger:    logger,
	}, nil
}

func (s *discountService) ListDiscounts(ctx context.Context, brandID string) ([]domain.StandardDiscount, error) {
	if strings.TrimSpace(brandID) == "" {
		return nil, fmt.Errorf("%w: brand id is required", ErrDiscountInvalid)
	}
	return s.discounts.ListByBrand(ctx, brandID)
}

func (s *discountService) SaveDiscount(ctx context.Context, discount domain.StandardDiscount) (domain.StandardDiscount, error) {
	if err := validateDiscount(discount); err != nil {
		return domain.StandardDiscount{}, err
	}

	now := s.now()
	if discount.ID == "" {
		discount.ID = ids.New(now)
		discount.CreatedAt = now
	}
	discount.UpdatedAt = now
	discount.Name = strings.TrimSpace(discount.Name)

	if err := s.discounts.Save(ctx, discount); err != nil {
		return domain.StandardDiscount{}, err
	}
	s.logger(ctx, "discount.saved", map[string]any{
		"discountId": discount.ID,
		"brandId":    discount.BrandID,
		"type":       string(discount.Type),
	})
	return discount, nil
}

func (s *discountService) DeleteDiscount(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: discount id is required", ErrDiscountInvalid)
	}
	return s.discounts.Delete(ctx, id)
}

func (s *discountService) ListVouchers(ctx context.Context, brandID string) ([]domain.VoucherDiscount, error) {
	if strings.TrimSpace(brandID) == "" {
		return nil, fmt.Errorf("%w: brand id is required", ErrVoucherInvalid)
	}
	return s.vouchers.ListByBrand(ctx, brandID)
}

func (s *discountService) SaveVoucher(ctx context.Context, voucher domain.VoucherDiscount) (domain.VoucherDiscount, error) {
	if err := validateVoucher(voucher); err != nil {
		return domain.VoucherDiscount{}, err
	}

	now := s.now()
	if voucher.ID == "" {
		voucher.ID = ids.New(now)
		voucher.CreatedAt = now
	}
	voucher.UpdatedAt = now
	voucher.Code = strings.ToUpper(strings.TrimSpace(voucher.Code))

	if err := s.vouchers.Save(ctx, voucher); err != nil {
		return domain.VoucherDiscount{}, err
	}
	s.logger(ctx, "voucher.saved", map[string]any{
		"voucherId": voucher.ID,
		"brandId":   voucher.BrandID,
		"code":      voucher.Code,
	})
	return voucher, nil
}

func (s *discountService) DeleteVoucher(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: voucher id is required", ErrVoucherInvalid)
	}
	return s.vouchers.Delete(ctx, id)
}

// validateDiscount enforces the authoring rules so malformed rules never
// reach the pricing path. The eligibility filter still fails closed on
// anything that slips through.
func validateDiscount(d domain.StandardDiscount) error {
	if strings.TrimSpace(d.BrandID) == "" {
		return fmt.Errorf("%w: brand id is required", ErrDiscountInvalid)
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrDiscountInvalid)
	}

	switch d.Type {
	case domain.DiscountTypeProduct, domain.DiscountTypeCategory:
		if len(d.ReferenceIDs) == 0 {
			return fmt.Errorf("%w: %s discounts need reference ids", ErrDiscountInvalid, d.Type)
		}
	case domain.DiscountTypeCart:
	case domain.DiscountTypeFreeDelivery:
		if d.Value != 0 {
			return fmt.Errorf("%w: free delivery discounts carry no value", ErrDiscountInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrDiscountInvalid, d.Type)
	}

	if d.Type != domain.DiscountTypeFreeDelivery {
		if err := validateMethod(d.Method, d.Value); err != nil {
			return fmt.Errorf("%w: %v", ErrDiscountInvalid, err)
		}
	}
	if d.MinOrderValue < 0 {
		return fmt.Errorf("%w: minimum order value must not be negative", ErrDiscountInvalid)
	}

	for _, slot := range d.ActiveTimeSlots {
		if !validClock(slot.Start) || !validClock(slot.End) {
			return fmt.Errorf("%w: time slot %q-%q is not HH:mm", ErrDiscountInvalid, slot.Start, slot.End)
		}
	}
	for _, day := range d.ActiveDays {
		if !validWeekday(day) {
			return fmt.Errorf("%w: unknown weekday %q", ErrDiscountInvalid, day)
		}
	}
	for _, ot := range d.OrderTypes {
		if ot != domain.DeliveryTypePickup && ot != domain.DeliveryTypeDelivery {
			return fmt.Errorf("%w: unknown order type %q", ErrDiscountInvalid, ot)
		}
	}
	if d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate) {
		return fmt.Errorf("%w: end date precedes start date", ErrDiscountInvalid)
	}
	switch d.TimeSlotValidation {
	case "", domain.ValidateAgainstOrderTime, domain.ValidateAgainstPickupTime:
	default:
		return fmt.Errorf("%w: unknown time slot validation %q", ErrDiscountInvalid, d.TimeSlotValidation)
	}
	return nil
}

func validateVoucher(v domain.VoucherDiscount) error {
	if strings.TrimSpace(v.BrandID) == "" {
		return fmt.Errorf("%w: brand id is required", ErrVoucherInvalid)
	}
	if strings.TrimSpace(v.Code) == "" {
		return fmt.Errorf("%w: code is required", ErrVoucherInvalid)
	}
	if err := validateMethod(v.Method, v.Value); err != nil {
		return fmt.Errorf("%w: %v", ErrVoucherInvalid, err)
	}
	if v.MinOrderValue < 0 {
		return fmt.Errorf("%w: minimum order value must not be negative", ErrVoucherInvalid)
	}
	return nil
}

func validateMethod(method domain.DiscountMethod, value float64) error {
	switch method {
	case domain.DiscountMethodPercentage:
		if value <= 0 || value > 100 {
			return fmt.Errorf("percentage value %v out of (0,100]", value)
		}
	case domain.DiscountMethodFixedAmount:
		if value <= 0 {
			return fmt.Errorf("fixed amount value %v must be positive", value)
		}
	default:
		return fmt.Errorf("unknown method %q", method)
	}
	return nil
}

func validClock(value string) bool {
	_, ok := parseClockMinutes(value)
	return ok
}

func validWeekday(day string) bool {
	switch strings.ToLower(strings.TrimSpace(day)) {
	case "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday":
		return true
	}
	return false
}
