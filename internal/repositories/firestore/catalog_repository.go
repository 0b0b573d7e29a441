package firestore

import (
	"context"
	"errors"
	"strings"

	fs "cloud.google.com/go/firestore"
	platform "github.com/madkurv/api/internal/platform/firestore"
	domain "github.com/madkurv/api/internal/domain"
	"github.com/madkurv/api/internal/repositories"
)

// BrandRepository persists tenants in the brands collection.
type BrandRepository struct {
	coll *platform.Collection[brandDoc]
}

func NewBrandRepository(provider *platform.Provider) *BrandRepository {
	coll := platform.NewCollection[brandDoc](provider, collBrands)
	coll.Hydrate = func(doc *brandDoc, snap *fs.DocumentSnapshot) { doc.ID = snap.Ref.ID }
	return &BrandRepository{coll: coll}
}

func (r *BrandRepository) Get(ctx context.Context, id string) (domain.Brand, error) {
	doc, err := r.coll.Get(ctx, id)
	if err != nil {
		return domain.Brand{}, err
	}
	return doc.toDomain(), nil
}

func (r *BrandRepository) GetBySlug(ctx context.Context, slug string) (domain.Brand, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return domain.Brand{}, platform.Wrap("brands.getBySlug", errors.New("slug is required"))
	}
	docs, err := r.coll.List(ctx, func(q fs.Query) fs.Query {
		return q.Where("slug", "==", slug).Limit(1)
	})
	if err != nil {
		return domain.Brand{}, err
	}
	if len(docs) == 0 {
		return domain.Brand{}, notFound("brands.getBySlug", slug)
	}
	return docs[0].toDomain(), nil
}

func (r *BrandRepository) List(ctx context.Context) ([]domain.Brand, error) {
	docs, err := r.coll.List(ctx, func(q fs.Query) fs.Query {
		return q.OrderBy("name", fs.Asc)
	})
	if err != nil {
		return nil, err
	}
	brands := make([]domain.Brand, len(docs))
	for i, doc := range docs {
		brands[i] = doc.toDomain()
	}
	return brands, nil
}

func (r *BrandRepository) Save(ctx context.Context, brand domain.Brand) error {
	return r.coll.Set(ctx, brand.ID, brandToDoc(brand))
}

// LocationRepository persists a brand's restaurants.
type LocationRepository struct {
	coll *platform.Collection[locationDoc]
}

func NewLocationRepository(provider *platform.Provider) *LocationRepository {
	coll := platform.NewCollection[locationDoc](provider, collLocations)
	coll.Hydrate = func(doc *locationDoc, snap *fs.DocumentSnapshot) { doc.ID = snap.Ref.ID }
	return &LocationRepository{coll: coll}
}

func (r *LocationRepository) Get(ctx context.Context, id string) (domain.Location, error) {
	doc, err := r.coll.Get(ctx, id)
	if err != nil {
		return domain.Location{}, err
	}
	return doc.toDomain(), nil
}

func (r *LocationRepository) ListByBrand(ctx context.Context, brandID string) ([]domain.Location, error) {
	docs, err := r.coll.List(ctx, func(q fs.Query) fs.Query {
		return q.Where("brandId", "==", brandID)
	})
	if err != nil {
		return nil, err
	}
	locations := make([]domain.Location, len(docs))
	for i, doc := range docs {
		locations[i] = doc.toDomain()
	}
	return locations, nil
}

func (r *LocationRepository) Save(ctx context.Context, location domain.Location) error {
	return r.coll.Set(ctx, location.ID, locationToDoc(location))
}

// CategoryRepository persists menu categories.
type CategoryRepository struct {
	coll *platform.Collection[categoryDoc]
}

func NewCategoryRepository(provider *platform.Provider) *CategoryRepository {
	coll := platform.NewCollection[categoryDoc](provider, collCategories)
	coll.Hydrate = func(doc *categoryDoc, snap *fs.DocumentSnapshot) { doc.ID = snap.Ref.ID }
	return &CategoryRepository{coll: coll}
}

func (r *CategoryRepository) ListByBrand(ctx context.Context, brandID string) ([]domain.Category, error) {
	docs, err := r.coll.List(ctx, func(q fs.Query) fs.Query {
		return q.Where("brandId", "==", brandID).OrderBy("sortOrder", fs.Asc)
	})
	if err != nil {
		return nil, err
	}
	categories := make([]domain.Category, len(docs))
	for i, doc := range docs {
		categories[i] = doc.toDomain()
	}
	return categories, nil
}

func (r *CategoryRepository) Save(ctx context.Context, category domain.Category) error {
	return r.coll.Set(ctx, category.ID, categoryToDoc(category))
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}

// ProductRepository persists menu items.
type ProductRepository struct {
	coll *platform.Collection[productDoc]
}

func NewProductRepository(provider *platform.Provider) *ProductRepository {
	coll := platform.NewCollection[productDoc](provider, collProducts)
	coll.Hydrate = func(doc *productDoc, snap *fs.DocumentSnapshot) { doc.ID = snap.Ref.ID }
	return &ProductRepository{coll: coll}
}

func (r *ProductRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	doc, err := r.coll.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return doc.toDomain(), nil
}

func (r *ProductRepository) ListByBrand(ctx context.Context, brandID string) ([]domain.Product, error) {
	docs, err := r.coll.List(ctx, func(q fs.Query) fs.Query {
		return q.Where("brandId", "==", brandID)
	})
	if err != nil {
		return nil, err
	}
	products := make([]domain.Product, len(docs))
	for i, doc := range docs {
		products[i] = doc.toDomain()
	}
	return products, nil
}

func (r *ProductRepository) Save(ctx context.Context, product domain.Product) error {
	return r.coll.Set(ctx, product.ID, productToDoc(product))
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}

// ComboRepository persists fixed-price bundles.
type ComboRepository struct {
	coll *platform.Collection[comboDoc]
}

func NewComboRepository(provider *platform.Provider) *ComboRepository {
	coll := platform.NewCollection[comboDoc](provider, collCombos)
	coll.Hydrate = func(doc *comboDoc, snap *fs.DocumentSnapshot) { doc.ID = snap.Ref.ID }
	return &ComboRepository{coll: coll}
}

func (r *ComboRepository) Get(ctx context.Context, id string) (domain.Combo, error) {
	doc, err := r.coll.Get(ctx, id)
	if err != nil {
		return domain.Combo{}, err
	}
	return doc.toDomain(), nil
}

func (r *ComboRepository) ListByBrand(ctx context.Context, brandID string) ([]domain.Combo, error) {
	docs, err := r.coll.List(ctx, func(q fs.Query) fs.Query {
		return q.Where("brandId", "==", brandID)
	})
	if err != nil {
		return nil, err
	}
	combos := make([]domain.Combo, len(docs))
	for i, doc := range docs {
		combos[i] = doc.toDomain()
	}
	return combos, nil
}

func (r *ComboRepository) Save(ctx context.Context, combo domain.Combo) error {
	return r.coll.Set(ctx, combo.ID, comboToDoc(combo))
}

func (r *ComboRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}

var (
	_ repositories.BrandRepository    = (*BrandRepository)(nil)
	_ repositories.LocationRepository = (*LocationRepository)(nil)
	_ repositories.CategoryRepository = (*CategoryRepository)(nil)
	_ repositories.ProductRepository  = (*ProductRepository)(nil)
	_ repositories.ComboRepository    = (*ComboRepository)(nil)
)
