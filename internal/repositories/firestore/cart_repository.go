package firestore

import (
	"context"

	fs "cloud.google.com/go/firestore"
	platform "github.com/madkurv/api/internal/platform/firestore"
	domain "github.com/madkurv/api/internal/domain"
	"github.com/madkurv/api/internal/repositories"
)

// CartRepository persists open carts. A user holds at most one cart per
// brand; the cart service enforces that by reusing GetByUser before creating.
type CartRepository struct {
	coll *platform.Collection[cartDoc]
}

func NewCartRepository(provider *platform.Provider) *CartRepository {
	coll := platform.NewCollection[cartDoc](provider, collCarts)
	coll.Hydrate = func(doc *cartDoc, snap *fs.DocumentSnapshot) { doc.ID = snap.Ref.ID }
	return &CartRepository{coll: coll}
}

func (r *CartRepository) Get(ctx context.Context, id string) (domain.Cart, error) {
	doc, err := r.coll.Get(ctx, id)
	if err != nil {
		return domain.Cart{}, err
	}
	return doc.toDomain(), nil
}

func (r *CartRepository) GetByUser(ctx context.Context, userID, brandID string) (domain.Cart, error) {
	docs, err := r.coll.List(ctx, func(q fs.Query) fs.Query {
		return q.Where("userId", "==", userID).Where("brandId", "==", brandID).Limit(1)
	})
	if err != nil {
		return domain.Cart{}, err
	}
	if len(docs) == 0 {
		return domain.Cart{}, notFound("carts.getByUser", userID)
	}
	return docs[0].toDomain(), nil
}

func (r *CartRepository) Save(ctx context.Context, cart domain.Cart) error {
	return r.coll.Set(ctx, cart.ID, cartToDoc(cart))
}

func (r *CartRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}

var _ repositories.CartRepository = (*CartRepository)(nil)
