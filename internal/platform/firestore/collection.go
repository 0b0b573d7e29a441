package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// QueryFn narrows a collection query before execution.
type QueryFn func(q firestore.Query) firestore.Query

// Collection is a typed view over one Firestore collection. T is the storage
// document struct; Hydrate, when set, receives the decoded value and the
// snapshot so repositories can copy the document id into the entity.
type Collection[T any] struct {
	provider *Provider
	name     string

	// Hydrate runs after decoding every document.
	Hydrate func(value *T, snap *firestore.DocumentSnapshot)
}

// NewCollection binds a typed collection to the shared provider.
func NewCollection[T any](provider *Provider, name string) *Collection[T] {
	return &Collection[T]{provider: provider, name: strings.TrimSpace(name)}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string { return c.name }

// Ref returns the raw collection reference for transactions and counters.
func (c *Collection[T]) Ref(ctx context.Context) (*firestore.CollectionRef, error) {
	if c.provider == nil {
		return nil, Wrap(c.op("ref"), errors.New("firestore: provider is nil"))
	}
	if c.name == "" {
		return nil, Wrap(c.op("ref"), errors.New("firestore: collection name is required"))
	}
	client, err := c.provider.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Collection(c.name), nil
}

// Doc returns the document reference for id.
func (c *Collection[T]) Doc(ctx context.Context, id string) (*firestore.DocumentRef, error) {
	if strings.TrimSpace(id) == "" {
		return nil, Wrap(c.op("doc"), errors.New("firestore: document id is required"))
	}
	coll, err := c.Ref(ctx)
	if err != nil {
		return nil, err
	}
	return coll.Doc(id), nil
}

// Get fetches and decodes one document.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	doc, err := c.Doc(ctx, id)
	if err != nil {
		return zero, err
	}
	snap, err := doc.Get(ctx)
	if err != nil {
		return zero, Wrap(c.op("get"), err)
	}
	return c.decode(snap)
}

// Set upserts value under id.
func (c *Collection[T]) Set(ctx context.Context, id string, value T) error {
	doc, err := c.Doc(ctx, id)
	if err != nil {
		return err
	}
	if _, err := doc.Set(ctx, value); err != nil {
		return Wrap(c.op("set"), err)
	}
	return nil
}

// Update applies field updates to an existing document.
func (c *Collection[T]) Update(ctx context.Context, id string, updates []firestore.Update) error {
	doc, err := c.Doc(ctx, id)
	if err != nil {
		return err
	}
	if _, err := doc.Update(ctx, updates); err != nil {
		return Wrap(c.op("update"), err)
	}
	return nil
}

// Delete removes a document. Deleting a missing document is not an error.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	doc, err := c.Doc(ctx, id)
	if err != nil {
		return err
	}
	if _, err := doc.Delete(ctx); err != nil {
		return Wrap(c.op("delete"), err)
	}
	return nil
}

// List runs a query over the collection and decodes every document.
func (c *Collection[T]) List(ctx context.Context, narrow QueryFn) ([]T, error) {
	coll, err := c.Ref(ctx)
	if err != nil {
		return nil, err
	}
	query := coll.Query
	if narrow != nil {
		query = narrow(query)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var out []T
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, Wrap(c.op("list"), err)
		}
		value, err := c.decode(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

// DecodeSnap decodes a snapshot obtained inside a transaction.
func (c *Collection[T]) DecodeSnap(snap *firestore.DocumentSnapshot) (T, error) {
	return c.decode(snap)
}

func (c *Collection[T]) decode(snap *firestore.DocumentSnapshot) (T, error) {
	var value T
	if err := snap.DataTo(&value); err != nil {
		return value, fmt.Errorf("%s: decode %s: %w", c.op("decode"), snap.Ref.ID, err)
	}
	if c.Hydrate != nil {
		c.Hydrate(&value, snap)
	}
	return value, nil
}

func (c *Collection[T]) op(action string) string {
	name := c.name
	if name == "" {
		name = "firestore"
	}
	return name + "." + action
}

// RunTx executes fn in a Firestore transaction on the provider's client.
func RunTx(ctx context.Context, provider *Provider, fn func(ctx context.Context, tx *firestore.Transaction) error) error {
	if provider == nil {
		return Wrap("tx", errors.New("firestore: provider is nil"))
	}
	client, err := provider.Client(ctx)
	if err != nil {
		return err
	}
	return Wrap("tx", client.RunTransaction(ctx, fn))
}
