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
	ErrBrandNotFound   = errors.New("catalog: brand not found")
	ErrProductNotFound = errors.New("catalog: product not found")
	ErrCatalogInvalid  = errors.New("catalog: invalid input")
)

type catalogService struct {
	brands     repositories.BrandRepository
	locations  repositories.LocationRepository
	categories repositories.CategoryRepository
	products   repositories.ProductRepository
	combos     repositories.ComboRepository
	now        func() time.Time
	logger     Logger
}

// CatalogServiceDeps lists the collaborators of the catalog service.
type CatalogServiceDeps struct {
	Brands     repositories.BrandRepository
	Locations  repositories.LocationRepository
	Categories repositories.CategoryRepository
	Products   repositories.ProductRepository
	Combos     repositories.ComboRepository
	Clock      Clock
	Logger     Logger
}

// NewCatalogService validates deps and builds the catalog service.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Brands == nil || deps.Locations == nil || deps.Categories == nil || deps.Products == nil || deps.Combos == nil {
		return nil, errors.New("catalog: all repositories are required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &catalogService{
		brands:     deps.Brands,
		locations:  deps.Locations,
		categories: deps.Categories,
		products:   deps.Products,
		combos:     deps.Combos,
		now:        func() time.Time { return clock().UTC() },
		logger:     logger,
	}, nil
}

// Menu assembles the storefront view for one brand. Inactive entries are
// filtered here so the storefront never sees them.
func (s *catalogService) Menu(ctx context.Context, brandSlug string) (Menu, error) {
	brand, err := s.brands.GetBySlug(ctx, brandSlug)
	if err != nil {
		if repositories.IsNotFound(err) {
			return Menu{}, fmt.Errorf("%w: %s", ErrBrandNotFound, brandSlug)
		}
		return Menu{}, err
	}
	if !brand.IsActive {
		return Menu{}, fmt.Errorf("%w: %s", ErrBrandNotFound, brandSlug)
	}

	locations, err := s.locations.ListByBrand(ctx, brand.ID)
	if err != nil {
		return Menu{}, err
	}
	categories, err := s.categories.ListByBrand(ctx, brand.ID)
	if err != nil {
		return Menu{}, err
	}
	products, err := s.products.ListByBrand(ctx, brand.ID)
	if err != nil {
		return Menu{}, err
	}
	combos, err := s.combos.ListByBrand(ctx, brand.ID)
	if err != nil {
		return Menu{}, err
	}

	menu := Menu{Brand: brand}
	for _, loc := range locations {
		if loc.IsActive {
			menu.Locations = append(menu.Locations, loc)
		}
	}
	for _, cat := range categories {
		if cat.IsActive {
			menu.Categories = append(menu.Categories, cat)
		}
	}
	for _, p := range products {
		if p.IsActive {
			menu.Products = append(menu.Products, p)
		}
	}
	for _, c := range combos {
		if c.IsActive {
			menu.Combos = append(menu.Combos, c)
		}
	}
	return menu, nil
}

func (s *catalogService) SaveCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	if strings.TrimSpace(category.BrandID) == "" || strings.TrimSpace(category.Name) == "" {
		return domain.Category{}, fmt.Errorf("%w: category needs a brand and a name", ErrCatalogInvalid)
	}
	if category.ID == "" {
		category.ID = ids.New(s.now())
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

func (s *catalogService) SaveProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if strings.TrimSpace(product.BrandID) == "" || strings.TrimSpace(product.Name) == "" {
		return domain.Product{}, fmt.Errorf("%w: product needs a brand and a name", ErrCatalogInvalid)
	}
	if product.BasePrice < 0 {
		return domain.Product{}, fmt.Errorf("%w: base price must not be negative", ErrCatalogInvalid)
	}
	for _, t := range product.Toppings {
		if t.Price < 0 {
			return domain.Product{}, fmt.Errorf("%w: topping %q price must not be negative", ErrCatalogInvalid, t.Name)
		}
	}

	now := s.now()
	if product.ID == "" {
		product.ID = ids.New(now)
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	if err := s.products.Save(ctx, product); err != nil {
		return domain.Product{}, err
	}
	s.logger(ctx, "catalog.product_saved", map[string]any{
		"productId": product.ID,
		"brandId":   product.BrandID,
	})
	return product, nil
}

func (s *catalogService) SaveCombo(ctx context.Context, combo domain.Combo) (domain.Combo, error) {
	if strings.TrimSpace(combo.BrandID) == "" || strings.TrimSpace(combo.Name) == "" {
		return domain.Combo{}, fmt.Errorf("%w: combo needs a brand and a name", ErrCatalogInvalid)
	}
	if len(combo.ProductIDs) < 2 {
		return domain.Combo{}, fmt.Errorf("%w: combo needs at least two products", ErrCatalogInvalid)
	}
	if combo.ComboPrice <= 0 {
		return domain.Combo{}, fmt.Errorf("%w: combo price must be positive", ErrCatalogInvalid)
	}

	now := s.now()
	if combo.ID == "" {
		combo.ID = ids.New(now)
		combo.CreatedAt = now
	}
	combo.UpdatedAt = now

	if err := s.combos.Save(ctx, combo); err != nil {
		return domain.Combo{}, err
	}
	return combo, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: product id is required", ErrCatalogInvalid)
	}
	return s.products.Delete(ctx, id)
}
