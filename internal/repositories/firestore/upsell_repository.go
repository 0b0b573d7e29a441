package firestore

import (
	"context"

	fs "cloud.google.com/go/firestore"
	platform "github.com/madkurv/api/internal/platform/firestore"
	domain "github.com/madkurv/api/internal/domain"
	"github.com/madkurv/api/internal/repositories"
)

// UpsellRepository persists checkout offers. The view and conversion counters
// use atomic server-side increments so concurrent checkouts never clobber
// each other's stats.
type UpsellRepository struct {
	coll *platform.Collection[upsellDoc]
}

func NewUpsellRepository(provider *platform.Provider) *UpsellRepository {
	coll := platform.NewCollection[upsellDoc](provider, collUpsells)
	coll.Hydrate = func(doc *upsellDoc, snap *fs.DocumentSnapshot) { doc.ID = snap.Ref.ID }
	return &UpsellRepository{coll: coll}
}

func (r *UpsellRepository) Get(ctx context.Context, id string) (domain.UpsellOffer, error) {
	doc, err := r.coll.Get(ctx, id)
	if err != nil {
		return domain.UpsellOffer{}, err
	}
	return doc.toDomain(), nil
}

func (r *UpsellRepository) ListActiveByBrand(ctx context.Context, brandID string) ([]domain.UpsellOffer, error) {
	docs, err := r.coll.List(ctx, func(q fs.Query) fs.Query {
		return q.Where("brandId", "==", brandID).Where("isActive", "==", true)
	})
	if err != nil {
		return nil, err
	}
	offers := make([]domain.UpsellOffer, len(docs))
	for i, doc := range docs {
		offers[i] = doc.toDomain()
	}
	return offers, nil
}

func (r *UpsellRepository) Save(ctx context.Context, offer domain.UpsellOffer) error {
	return r.coll.Set(ctx, offer.ID, upsellToDoc(offer))
}

func (r *UpsellRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}

func (r *UpsellRepository) IncrementViews(ctx context.Context, id string) error {
	return r.increment(ctx, id, "views")
}

func (r *UpsellRepository) IncrementConversions(ctx context.Context, id string) error {
	return r.increment(ctx, id, "conversions")
}

func (r *UpsellRepository) increment(ctx context.Context, id, field string) error {
	return r.coll.Update(ctx, id, []fs.Update{
		{Path: field, Value: fs.Increment(1)},
	})
}

var _ repositories.UpsellRepository = (*UpsellRepository)(nil)
