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

var ErrOfferInvalid = errors.New("upsell: invalid offer")

type upsellService struct {
	upsells  repositories.UpsellRepository
	products repositories.ProductRepository
	now      func() time.Time
	logger   Logger
}

// UpsellServiceDeps lists the collaborators of the upsell service.
type UpsellServiceDeps struct {
	Upsells  repositories.UpsellRepository
	Products repositories.ProductRepository
	Clock    Clock
	Logger   Logger
}

// NewUpsellService validates deps and builds the upsell service.
func NewUpsellService(deps UpsellServiceDeps) (UpsellService, error) {
	if deps.Upsells == nil {
		return nil, errors.New("upsell: upsell repository is required")
	}
	if deps.Products == nil {
		return nil, errors.New("upsell: product repository is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &upsellService{
		upsells:  deps.Upsells,
		products: deps.Products,
		now:      func() time.Time { return clock().UTC() },
		logger:   logger,
	}, nil
}

// OffersForCart returns the active offers whose product is not already in the
// cart, in plain or offer-priced form. Every returned offer counts as a view;
// a failed increment is logged, never surfaced.
func (s *upsellService) OffersForCart(ctx context.Context, cart domain.Cart) ([]domain.UpsellOffer, error) {
	offers, err := s.upsells.ListActiveByBrand(ctx, cart.BrandID)
	if err != nil {
		return nil, err
	}
	if len(offers) == 0 {
		return nil, nil
	}

	inCart := make(map[string]struct{}, len(cart.Lines))
	for _, line := range cart.Lines {
		inCart[strings.TrimSuffix(line.ProductID, offerIDSuffix)] = struct{}{}
	}

	var shown []domain.UpsellOffer
	for _, offer := range offers {
		if _, ok := inCart[offer.ProductID]; ok {
			continue
		}
		shown = append(shown, offer)
		if err := s.upsells.IncrementViews(ctx, offer.ID); err != nil {
			s.logger(ctx, "upsell.view_increment_failed", map[string]any{
				"offerId": offer.ID,
				"error":   err.Error(),
			})
		}
	}
	return shown, nil
}

func (s *upsellService) SaveOffer(ctx context.Context, offer domain.UpsellOffer) (domain.UpsellOffer, error) {
	if strings.TrimSpace(offer.BrandID) == "" {
		return domain.UpsellOffer{}, fmt.Errorf("%w: brand id is required", ErrOfferInvalid)
	}
	if offer.OfferPrice < 0 {
		return domain.UpsellOffer{}, fmt.Errorf("%w: offer price must not be negative", ErrOfferInvalid)
	}

	product, err := s.products.Get(ctx, offer.ProductID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.UpsellOffer{}, fmt.Errorf("%w: %s", ErrProductNotFound, offer.ProductID)
		}
		return domain.UpsellOffer{}, err
	}
	if product.BrandID != offer.BrandID {
		return domain.UpsellOffer{}, fmt.Errorf("%w: product belongs to another brand", ErrOfferInvalid)
	}
	if offer.OfferPrice > product.BasePrice {
		return domain.UpsellOffer{}, fmt.Errorf("%w: offer price exceeds the base price", ErrOfferInvalid)
	}

	now := s.now()
	if offer.ID == "" {
		offer.ID = ids.New(now)
		offer.CreatedAt = now
	}
	offer.UpdatedAt = now

	if err := s.upsells.Save(ctx, offer); err != nil {
		return domain.UpsellOffer{}, err
	}
	s.logger(ctx, "upsell.offer_saved", map[string]any{
		"offerId":   offer.ID,
		"productId": offer.ProductID,
	})
	return offer, nil
}

func (s *upsellService) DeleteOffer(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: offer id is required", ErrOfferInvalid)
	}
	return s.upsells.Delete(ctx, id)
}

func (s *upsellService) ListOffers(ctx context.Context, brandID string) ([]domain.UpsellOffer, error) {
	if strings.TrimSpace(brandID) == "" {
		return nil, fmt.Errorf("%w: brand id is required", ErrOfferInvalid)
	}
	return s.upsells.ListActiveByBrand(ctx, brandID)
}
