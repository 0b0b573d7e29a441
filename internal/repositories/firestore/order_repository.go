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

// OrderRepository persists checkout snapshots. The payment session id is
// indexed so webhook handlers can resolve the order the PSP event refers to.
type OrderRepository struct {
	coll *platform.Collection[orderDoc]
}

func NewOrderRepository(provider *platform.Provider) *OrderRepository {
	coll := platform.NewCollection[orderDoc](provider, collOrders)
	coll.Hydrate = func(doc *orderDoc, snap *fs.DocumentSnapshot) { doc.ID = snap.Ref.ID }
	return &OrderRepository{coll: coll}
}

func (r *OrderRepository) Get(ctx context.Context, id string) (domain.Order, error) {
	doc, err := r.coll.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) GetByPaymentSession(ctx context.Context, sessionID string) (domain.Order, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domain.Order{}, platform.Wrap("orders.getBySession", errors.New("session id is required"))
	}
	docs, err := r.coll.List(ctx, func(q fs.Query) fs.Query {
		return q.Where("payment.sessionId", "==", sessionID).Limit(1)
	})
	if err != nil {
		return domain.Order{}, err
	}
	if len(docs) == 0 {
		return domain.Order{}, notFound("orders.getBySession", sessionID)
	}
	return docs[0].toDomain(), nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID, brandID string) ([]domain.Order, error) {
	docs, err := r.coll.List(ctx, func(q fs.Query) fs.Query {
		return q.Where("userId", "==", userID).
			Where("brandId", "==", brandID).
			OrderBy("createdAt", fs.Desc)
	})
	if err != nil {
		return nil, err
	}
	orders := make([]domain.Order, len(docs))
	for i, doc := range docs {
		orders[i] = doc.toDomain()
	}
	return orders, nil
}

func (r *OrderRepository) Save(ctx context.Context, order domain.Order) error {
	return r.coll.Set(ctx, order.ID, orderToDoc(order))
}

var _ repositories.OrderRepository = (*OrderRepository)(nil)
