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

// DiscountRepository persists standard discounts. Pricing loads the full
// brand catalog per request; eligibility is evaluated in memory, never in the
// query.
type DiscountRepository struct {
	coll *platform.Collection[discountDoc]
}

func NewDiscountRepository(provider *platform.Provider) *DiscountRepository {
	coll := platform.NewCollection[discountDoc](provider, collDiscounts)
	coll.Hydrate = func(doc *discountDoc, snap *fs.DocumentSnapshot) { doc.ID = snap.Ref.ID }
	return &DiscountRepository{coll: coll}
}

func (r *DiscountRepository) Get(ctx context.Context, id string) (domain.StandardDiscount, error) {
	doc, err := r.coll.Get(ctx, id)
	if err != nil {
		return domain.StandardDiscount{}, err
	}
	return doc.toDomain(), nil
}

func (r *DiscountRepository) ListByBrand(ctx context.Context, brandID string) ([]domain.StandardDiscount, error) {
	docs, err := r.coll.List(ctx, func(q fs.Query) fs.Query {
		return q.Where("brandId", "==", brandID)
	})
	if err != nil {
		return nil, err
	}
	discounts := make([]domain.StandardDiscount, len(docs))
	for i, doc := range docs {
		discounts[i] = doc.toDomain()
	}
	return discounts, nil
}

func (r *DiscountRepository) Save(ctx context.Context, discount domain.StandardDiscount) error {
	return r.coll.Set(ctx, discount.ID, discountToDoc(discount))
}

func (r *DiscountRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}

// VoucherRepository persists voucher codes. Codes are stored upper-cased so
// lookups are case-insensitive.
type VoucherRepository struct {
	coll *platform.Collection[voucherDoc]
}

func NewVoucherRepository(provider *platform.Provider) *VoucherRepository {
	coll := platform.NewCollection[voucherDoc](provider, collVouchers)
	coll.Hydrate = func(doc *voucherDoc, snap *fs.DocumentSnapshot) { doc.ID = snap.Ref.ID }
	return &VoucherRepository{coll: coll}
}

func (r *VoucherRepository) Get(ctx context.Context, id string) (domain.VoucherDiscount, error) {
	doc, err := r.coll.Get(ctx, id)
	if err != nil {
		return domain.VoucherDiscount{}, err
	}
	return doc.toDomain(), nil
}

func (r *VoucherRepository) GetByCode(ctx context.Context, brandID, code string) (domain.VoucherDiscount, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return domain.VoucherDiscount{}, platform.Wrap("vouchers.getByCode", errors.New("code is required"))
	}
	docs, err := r.coll.List(ctx, func(q fs.Query) fs.Query {
		return q.Where("brandId", "==", brandID).Where("code", "==", code).Limit(1)
	})
	if err != nil {
		return domain.VoucherDiscount{}, err
	}
	if len(docs) == 0 {
		return domain.VoucherDiscount{}, notFound("vouchers.getByCode", code)
	}
	return docs[0].toDomain(), nil
}

func (r *VoucherRepository) ListByBrand(ctx context.Context, brandID string) ([]domain.VoucherDiscount, error) {
	docs, err := r.coll.List(ctx, func(q fs.Query) fs.Query {
		return q.Where("brandId", "==", brandID)
	})
	if err != nil {
		return nil, err
	}
	vouchers := make([]domain.VoucherDiscount, len(docs))
	for i, doc := range docs {
		vouchers[i] = doc.toDomain()
	}
	return vouchers, nil
}

func (r *VoucherRepository) Save(ctx context.Context, voucher domain.VoucherDiscount) error {
	voucher.Code = strings.ToUpper(strings.TrimSpace(voucher.Code))
	return r.coll.Set(ctx, voucher.ID, voucherToDoc(voucher))
}

func (r *VoucherRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}

var (
	_ repositories.DiscountRepository = (*DiscountRepository)(nil)
	_ repositories.VoucherRepository  = (*VoucherRepository)(nil)
)
