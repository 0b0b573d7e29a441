package firestore

import (
	"context"
	"errors"
	"strings"

	fs "cloud.google.com/go/firestore"
	platform "github.com/madkurv/api/internal/platform/firestore"
	"github.com/madkurv/api/internal/repositories"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type counterDoc struct {
	Value int64 `firestore:"value"`
}

// CounterRepository allocates sequence numbers from single-document counters.
// The read-increment-write runs in a transaction so two concurrent checkouts
// never receive the same number.
type CounterRepository struct {
	provider *platform.Provider
	coll     *platform.Collection[counterDoc]
}

func NewCounterRepository(provider *platform.Provider) *CounterRepository {
	return &CounterRepository{
		provider: provider,
		coll:     platform.NewCollection[counterDoc](provider, collCounters),
	}
}

func (r *CounterRepository) Next(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, platform.Wrap("counters.next", errors.New("counter name is required"))
	}

	ref, err := r.coll.Doc(ctx, name)
	if err != nil {
		return 0, err
	}

	var next int64
	err = platform.RunTx(ctx, r.provider, func(ctx context.Context, tx *fs.Transaction) error {
		snap, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
			next = 1
		case err != nil:
			return err
		default:
			var doc counterDoc
			if err := snap.DataTo(&doc); err != nil {
				return err
			}
			next = doc.Value + 1
		}
		return tx.Set(ref, counterDoc{Value: next})
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

var _ repositories.CounterRepository = (*CounterRepository)(nil)
