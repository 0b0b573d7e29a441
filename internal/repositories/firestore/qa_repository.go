package firestore

import (
	"context"

	fs "cloud.google.com/go/firestore"
	platform "github.com/madkurv/api/internal/platform/firestore"
	domain "github.com/madkurv/api/internal/domain"
	"github.com/madkurv/api/internal/repositories"
)

// QARepository persists internal test tracking records.
type QARepository struct {
	coll *platform.Collection[qaCaseDoc]
}

func NewQARepository(provider *platform.Provider) *QARepository {
	coll := platform.NewCollection[qaCaseDoc](provider, collQACases)
	coll.Hydrate = func(doc *qaCaseDoc, snap *fs.DocumentSnapshot) { doc.ID = snap.Ref.ID }
	return &QARepository{coll: coll}
}

func (r *QARepository) Get(ctx context.Context, id string) (domain.QATestCase, error) {
	doc, err := r.coll.Get(ctx, id)
	if err != nil {
		return domain.QATestCase{}, err
	}
	return doc.toDomain(), nil
}

func (r *QARepository) List(ctx context.Context) ([]domain.QATestCase, error) {
	docs, err := r.coll.List(ctx, func(q fs.Query) fs.Query {
		return q.OrderBy("code", fs.Asc)
	})
	if err != nil {
		return nil, err
	}
	cases := make([]domain.QATestCase, len(docs))
	for i, doc := range docs {
		cases[i] = doc.toDomain()
	}
	return cases, nil
}

func (r *QARepository) Save(ctx context.Context, testCase domain.QATestCase) error {
	return r.coll.Set(ctx, testCase.ID, qaCaseToDoc(testCase))
}

var _ repositories.QARepository = (*QARepository)(nil)
