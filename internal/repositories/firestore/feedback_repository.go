package firestore

import (
	"context"

	fs "cloud.google.com/go/firestore"
	platform "github.com/madkurv/api/internal/platform/firestore"
	domain "github.com/madkurv/api/internal/domain"
	"github.com/madkurv/api/internal/repositories"
)

// FeedbackRepository persists customer feedback.
type FeedbackRepository struct {
	coll *platform.Collection[feedbackDoc]
}

func NewFeedbackRepository(provider *platform.Provider) *FeedbackRepository {
	coll := platform.NewCollection[feedbackDoc](provider, collFeedback)
	coll.Hydrate = func(doc *feedbackDoc, snap *fs.DocumentSnapshot) { doc.ID = snap.Ref.ID }
	return &FeedbackRepository{coll: coll}
}

func (r *FeedbackRepository) Get(ctx context.Context, id string) (domain.Feedback, error) {
	doc, err := r.coll.Get(ctx, id)
	if err != nil {
		return domain.Feedback{}, err
	}
	return doc.toDomain(), nil
}

func (r *FeedbackRepository) ListByBrand(ctx context.Context, brandID string, status domain.FeedbackStatus) ([]domain.Feedback, error) {
	docs, err := r.coll.List(ctx, func(q fs.Query) fs.Query {
		q = q.Where("brandId", "==", brandID)
		if status != "" {
			q = q.Where("status", "==", string(status))
		}
		return q.OrderBy("createdAt", fs.Desc)
	})
	if err != nil {
		return nil, err
	}
	items := make([]domain.Feedback, len(docs))
	for i, doc := range docs {
		items[i] = doc.toDomain()
	}
	return items, nil
}

func (r *FeedbackRepository) Save(ctx context.Context, feedback domain.Feedback) error {
	return r.coll.Set(ctx, feedback.ID, feedbackToDoc(feedback))
}

var _ repositories.FeedbackRepository = (*FeedbackRepository)(nil)
