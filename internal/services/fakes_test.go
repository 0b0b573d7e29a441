package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	domain "github.com/madkurv/api/internal/domain"
	"github.com/madkurv/api/internal/payments"
)

type fakeNotFound struct{ key string }

func (e *fakeNotFound) Error() string       { return fmt.Sprintf("fake: %s not found", e.key) }
func (e *fakeNotFound) IsNotFound() bool    { return true }
func (e *fakeNotFound) IsConflict() bool    { return false }
func (e *fakeNotFound) IsUnavailable() bool { return false }

type fakeDiscountRepo struct {
	mu    sync.Mutex
	items map[string]domain.StandardDiscount
}

func newFakeDiscountRepo() *fakeDiscountRepo {
	return &fakeDiscountRepo{items: map[string]domain.StandardDiscount{}}
}

func (r *fakeDiscountRepo) Get(_ context.Context, id string) (domain.StandardDiscount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.items[id]
	if !ok {
		return domain.StandardDiscount{}, &fakeNotFound{key: id}
	}
	return d, nil
}

func (r *fakeDiscountRepo) ListByBrand(_ context.Context, brandID string) ([]domain.StandardDiscount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.StandardDiscount
	for _, d := range r.items {
		if d.BrandID == brandID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeDiscountRepo) Save(_ context.Context, d domain.StandardDiscount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[d.ID] = d
	return nil
}

func (r *fakeDiscountRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type fakeVoucherRepo struct {
	mu    sync.Mutex
	items map[string]domain.VoucherDiscount
}

func newFakeVoucherRepo() *fakeVoucherRepo {
	return &fakeVoucherRepo{items: map[string]domain.VoucherDiscount{}}
}

func (r *fakeVoucherRepo) Get(_ context.Context, id string) (domain.VoucherDiscount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items[id]
	if !ok {
		return domain.VoucherDiscount{}, &fakeNotFound{key: id}
	}
	return v, nil
}

func (r *fakeVoucherRepo) GetByCode(_ context.Context, brandID, code string) (domain.VoucherDiscount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, v := range r.items {
		if v.BrandID == brandID && v.Code == code {
			return v, nil
		}
	}
	return domain.VoucherDiscount{}, &fakeNotFound{key: code}
}

func (r *fakeVoucherRepo) ListByBrand(_ context.Context, brandID string) ([]domain.VoucherDiscount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.VoucherDiscount
	for _, v := range r.items {
		if v.BrandID == brandID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVoucherRepo) Save(_ context.Context, v domain.VoucherDiscount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v.Code = strings.ToUpper(strings.TrimSpace(v.Code))
	r.items[v.ID] = v
	return nil
}

func (r *fakeVoucherRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type fakeCartRepo struct {
	mu    sync.Mutex
	items map[string]domain.Cart
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: map[string]domain.Cart{}}
}

func (r *fakeCartRepo) Get(_ context.Context, id string) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return domain.Cart{}, &fakeNotFound{key: id}
	}
	return c, nil
}

func (r *fakeCartRepo) GetByUser(_ context.Context, userID, brandID string) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.UserID == userID && c.BrandID == brandID {
			return c, nil
		}
	}
	return domain.Cart{}, &fakeNotFound{key: userID}
}

func (r *fakeCartRepo) Save(_ context.Context, c domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = c
	return nil
}

func (r *fakeCartRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type fakeProductRepo struct {
	mu    sync.Mutex
	items map[string]domain.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{items: map[string]domain.Product{}}
}

func (r *fakeProductRepo) Get(_ context.Context, id string) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return domain.Product{}, &fakeNotFound{key: id}
	}
	return p, nil
}

func (r *fakeProductRepo) ListByBrand(_ context.Context, brandID string) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Product
	for _, p := range r.items {
		if p.BrandID == brandID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Save(_ context.Context, p domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type fakeComboRepo struct {
	mu    sync.Mutex
	items map[string]domain.Combo
}

func newFakeComboRepo() *fakeComboRepo {
	return &fakeComboRepo{items: map[string]domain.Combo{}}
}

func (r *fakeComboRepo) Get(_ context.Context, id string) (domain.Combo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return domain.Combo{}, &fakeNotFound{key: id}
	}
	return c, nil
}

func (r *fakeComboRepo) ListByBrand(_ context.Context, brandID string) ([]domain.Combo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Combo
	for _, c := range r.items {
		if c.BrandID == brandID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeComboRepo) Save(_ context.Context, c domain.Combo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = c
	return nil
}

func (r *fakeComboRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type fakeUpsellRepo struct {
	mu          sync.Mutex
	items       map[string]domain.UpsellOffer
	views       map[string]int
	conversions map[string]int
}

func newFakeUpsellRepo() *fakeUpsellRepo {
	return &fakeUpsellRepo{
		items:       map[string]domain.UpsellOffer{},
		views:       map[string]int{},
		conversions: map[string]int{},
	}
}

func (r *fakeUpsellRepo) Get(_ context.Context, id string) (domain.UpsellOffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.items[id]
	if !ok {
		return domain.UpsellOffer{}, &fakeNotFound{key: id}
	}
	return o, nil
}

func (r *fakeUpsellRepo) ListActiveByBrand(_ context.Context, brandID string) ([]domain.UpsellOffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.UpsellOffer
	for _, o := range r.items {
		if o.BrandID == brandID && o.IsActive {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUpsellRepo) Save(_ context.Context, o domain.UpsellOffer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[o.ID] = o
	return nil
}

func (r *fakeUpsellRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *fakeUpsellRepo) IncrementViews(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[id]++
	return nil
}

func (r *fakeUpsellRepo) IncrementConversions(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversions[id]++
	return nil
}

type fakeLocationRepo struct {
	mu    sync.Mutex
	items map[string]domain.Location
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{items: map[string]domain.Location{}}
}

func (r *fakeLocationRepo) Get(_ context.Context, id string) (domain.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.items[id]
	if !ok {
		return domain.Location{}, &fakeNotFound{key: id}
	}
	return l, nil
}

func (r *fakeLocationRepo) ListByBrand(_ context.Context, brandID string) ([]domain.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Location
	for _, l := range r.items {
		if l.BrandID == brandID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLocationRepo) Save(_ context.Context, l domain.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[l.ID] = l
	return nil
}

type fakeOrderRepo struct {
	mu    sync.Mutex
	items map[string]domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{items: map[string]domain.Order{}}
}

func (r *fakeOrderRepo) Get(_ context.Context, id string) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.items[id]
	if !ok {
		return domain.Order{}, &fakeNotFound{key: id}
	}
	return o, nil
}

func (r *fakeOrderRepo) GetByPaymentSession(_ context.Context, sessionID string) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.items {
		if o.Payment.SessionID == sessionID {
			return o, nil
		}
	}
	return domain.Order{}, &fakeNotFound{key: sessionID}
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID, brandID string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.items {
		if o.UserID == userID && o.BrandID == brandID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) Save(_ context.Context, o domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[o.ID] = o
	return nil
}

type fakeCounterRepo struct {
	mu     sync.Mutex
	values map[string]int64
}

func newFakeCounterRepo() *fakeCounterRepo {
	return &fakeCounterRepo{values: map[string]int64{}}
}

func (r *fakeCounterRepo) Next(_ context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[name]++
	return r.values[name], nil
}

type fakeFeedbackRepo struct {
	mu    sync.Mutex
	items map[string]domain.Feedback
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{items: map[string]domain.Feedback{}}
}

func (r *fakeFeedbackRepo) Get(_ context.Context, id string) (domain.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.items[id]
	if !ok {
		return domain.Feedback{}, &fakeNotFound{key: id}
	}
	return f, nil
}

func (r *fakeFeedbackRepo) ListByBrand(_ context.Context, brandID string, status domain.FeedbackStatus) ([]domain.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Feedback
	for _, f := range r.items {
		if f.BrandID != brandID {
			continue
		}
		if status != "" && f.Status != status {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *fakeFeedbackRepo) Save(_ context.Context, f domain.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[f.ID] = f
	return nil
}

type fakeQARepo struct {
	mu    sync.Mutex
	items map[string]domain.QATestCase
}

func newFakeQARepo() *fakeQARepo {
	return &fakeQARepo{items: map[string]domain.QATestCase{}}
}

func (r *fakeQARepo) Get(_ context.Context, id string) (domain.QATestCase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tc, ok := r.items[id]
	if !ok {
		return domain.QATestCase{}, &fakeNotFound{key: id}
	}
	return tc, nil
}

func (r *fakeQARepo) List(_ context.Context) ([]domain.QATestCase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.QATestCase
	for _, tc := range r.items {
		out = append(out, tc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *fakeQARepo) Save(_ context.Context, tc domain.QATestCase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[tc.ID] = tc
	return nil
}

type fakePaymentProvider struct {
	mu       sync.Mutex
	requests []payments.SessionRequest
	sessions map[string]payments.Session
	failWith error
}

// CreateSession mimics the provider's idempotency contract: a replayed key
// returns the session minted for the first request.
func (p *fakePaymentProvider) CreateSession(_ context.Context, req payments.SessionRequest) (payments.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failWith != nil {
		return payments.Session{}, p.failWith
	}
	p.requests = append(p.requests, req)
	if session, ok := p.sessions[req.IdempotencyKey]; ok && req.IdempotencyKey != "" {
		return session, nil
	}
	if p.sessions == nil {
		p.sessions = map[string]payments.Session{}
	}
	session := payments.Session{
		ID:          fmt.Sprintf("cs_test_%d", len(p.sessions)+1),
		IntentID:    fmt.Sprintf("pi_test_%d", len(p.sessions)+1),
		RedirectURL: "https://psp.example/session",
	}
	p.sessions[req.IdempotencyKey] = session
	return session, nil
}

func (p *fakePaymentProvider) VerifyWebhook([]byte, string) (payments.Event, error) {
	return payments.Event{Type: payments.EventIgnored}, nil
}
