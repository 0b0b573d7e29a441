// Package firestore persists the platform's entities in Cloud Firestore.
//
// Every repository follows the same shape: a storage document struct with
// firestore tags, converters to and from the domain entity, and a typed
// collection from the platform package doing the reads and writes. Document
// ids live on the reference, not in the document body; Hydrate copies them
// back after decoding.
package firestore

import (
	"time"

	domain "github.com/madkurv/api/internal/domain"
)

const (
	collBrands     = "brands"
	collLocations  = "locations"
	collCategories = "categories"
	collProducts   = "products"
	collCombos     = "combos"
	collDiscounts  = "discounts"
	collVouchers   = "vouchers"
	collCarts      = "carts"
	collOrders     = "orders"
	collUpsells    = "upsellOffers"
	collCounters   = "counters"
	collFeedback   = "feedback"
	collQACases    = "qaTestCases"
)

type brandDoc struct {
	ID        string    `firestore:"-"`
	Name      string    `firestore:"name"`
	Slug      string    `firestore:"slug"`
	Currency  string    `firestore:"currency"`
	LogoURL   string    `firestore:"logoUrl"`
	IsActive  bool      `firestore:"isActive"`
	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

func brandToDoc(b domain.Brand) brandDoc {
	return brandDoc{
		ID:        b.ID,
		Name:      b.Name,
		Slug:      b.Slug,
		Currency:  b.Currency,
		LogoURL:   b.LogoURL,
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (d brandDoc) toDomain() domain.Brand {
	return domain.Brand{
		ID:        d.ID,
		Name:      d.Name,
		Slug:      d.Slug,
		Currency:  d.Currency,
		LogoURL:   d.LogoURL,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type openingHoursDoc struct {
	Weekday string `firestore:"weekday"`
	Open    string `firestore:"open"`
	Close   string `firestore:"close"`
}

type locationDoc struct {
	ID            string            `firestore:"-"`
	BrandID       string            `firestore:"brandId"`
	Name          string            `firestore:"name"`
	Address       string            `firestore:"address"`
	City          string            `firestore:"city"`
	PostalCode    string            `firestore:"postalCode"`
	Phone         string            `firestore:"phone"`
	DeliveryTypes []string          `firestore:"deliveryTypes"`
	DeliveryFee   float64           `firestore:"deliveryFee"`
	MinOrderValue float64           `firestore:"minOrderValue"`
	OpeningHours  []openingHoursDoc `firestore:"openingHours"`
	IsActive      bool              `firestore:"isActive"`
	CreatedAt     time.Time         `firestore:"createdAt"`
	UpdatedAt     time.Time         `firestore:"updatedAt"`
}

func locationToDoc(l domain.Location) locationDoc {
	doc := locationDoc{
		ID:            l.ID,
		BrandID:       l.BrandID,
		Name:          l.Name,
		Address:       l.Address,
		City:          l.City,
		PostalCode:    l.PostalCode,
		Phone:         l.Phone,
		DeliveryFee:   l.DeliveryFee,
		MinOrderValue: l.MinOrderValue,
		IsActive:      l.IsActive,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
	for _, dt := range l.DeliveryTypes {
		doc.DeliveryTypes = append(doc.DeliveryTypes, string(dt))
	}
	for _, h := range l.OpeningHours {
		doc.OpeningHours = append(doc.OpeningHours, openingHoursDoc(h))
	}
	return doc
}

func (d locationDoc) toDomain() domain.Location {
	loc := domain.Location{
		ID:            d.ID,
		BrandID:       d.BrandID,
		Name:          d.Name,
		Address:       d.Address,
		City:          d.City,
		PostalCode:    d.PostalCode,
		Phone:         d.Phone,
		DeliveryFee:   d.DeliveryFee,
		MinOrderValue: d.MinOrderValue,
		IsActive:      d.IsActive,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	for _, dt := range d.DeliveryTypes {
		loc.DeliveryTypes = append(loc.DeliveryTypes, domain.DeliveryType(dt))
	}
	for _, h := range d.OpeningHours {
		loc.OpeningHours = append(loc.OpeningHours, domain.OpeningHours(h))
	}
	return loc
}

type categoryDoc struct {
	ID        string `firestore:"-"`
	BrandID   string `firestore:"brandId"`
	Name      string `firestore:"name"`
	SortOrder int    `firestore:"sortOrder"`
	IsActive  bool   `firestore:"isActive"`
}

func categoryToDoc(c domain.Category) categoryDoc { return categoryDoc(c) }

func (d categoryDoc) toDomain() domain.Category { return domain.Category(d) }

type toppingDoc struct {
	Name  string  `firestore:"name"`
	Price float64 `firestore:"price"`
}

func toppingsToDoc(toppings []domain.Topping) []toppingDoc {
	if len(toppings) == 0 {
		return nil
	}
	out := make([]toppingDoc, len(toppings))
	for i, t := range toppings {
		out[i] = toppingDoc(t)
	}
	return out
}

func toppingsToDomain(docs []toppingDoc) []domain.Topping {
	if len(docs) == 0 {
		return nil
	}
	out := make([]domain.Topping, len(docs))
	for i, d := range docs {
		out[i] = domain.Topping(d)
	}
	return out
}

type productDoc struct {
	ID          string       `firestore:"-"`
	BrandID     string       `firestore:"brandId"`
	CategoryID  string       `firestore:"categoryId"`
	Name        string       `firestore:"name"`
	Description string       `firestore:"description"`
	ImageURL    string       `firestore:"imageUrl"`
	BasePrice   float64      `firestore:"basePrice"`
	Toppings    []toppingDoc `firestore:"toppings"`
	IsActive    bool         `firestore:"isActive"`
	CreatedAt   time.Time    `firestore:"createdAt"`
	UpdatedAt   time.Time    `firestore:"updatedAt"`
}

func productToDoc(p domain.Product) productDoc {
	return productDoc{
		ID:          p.ID,
		BrandID:     p.BrandID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		BasePrice:   p.BasePrice,
		Toppings:    toppingsToDoc(p.Toppings),
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d productDoc) toDomain() domain.Product {
	return domain.Product{
		ID:          d.ID,
		BrandID:     d.BrandID,
		CategoryID:  d.CategoryID,
		Name:        d.Name,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		BasePrice:   d.BasePrice,
		Toppings:    toppingsToDomain(d.Toppings),
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type comboDoc struct {
	ID         string    `firestore:"-"`
	BrandID    string    `firestore:"brandId"`
	Name       string    `firestore:"name"`
	ComboPrice float64   `firestore:"comboPrice"`
	ProductIDs []string  `firestore:"productIds"`
	IsActive   bool      `firestore:"isActive"`
	CreatedAt  time.Time `firestore:"createdAt"`
	UpdatedAt  time.Time `firestore:"updatedAt"`
}

func comboToDoc(c domain.Combo) comboDoc { return comboDoc(c) }

func (d comboDoc) toDomain() domain.Combo { return domain.Combo(d) }

type timeSlotDoc struct {
	Start string `firestore:"start"`
	End   string `firestore:"end"`
}

type discountDoc struct {
	ID                 string        `firestore:"-"`
	BrandID            string        `firestore:"brandId"`
	Name               string        `firestore:"name"`
	Type               string        `firestore:"type"`
	Method             string        `firestore:"method"`
	Value              float64       `firestore:"value"`
	MinOrderValue      float64       `firestore:"minOrderValue"`
	ReferenceIDs       []string      `firestore:"referenceIds"`
	OrderTypes         []string      `firestore:"orderTypes"`
	LocationIDs        []string      `firestore:"locationIds"`
	ActiveDays         []string      `firestore:"activeDays"`
	ActiveTimeSlots    []timeSlotDoc `firestore:"activeTimeSlots"`
	TimeSlotValidation string        `firestore:"timeSlotValidation"`
	StartDate          *time.Time    `firestore:"startDate"`
	EndDate            *time.Time    `firestore:"endDate"`
	IsActive           bool          `firestore:"isActive"`
	AllowStacking      bool          `firestore:"allowStacking"`
	CreatedAt          time.Time     `firestore:"createdAt"`
	UpdatedAt          time.Time     `firestore:"updatedAt"`
}

func discountToDoc(d domain.StandardDiscount) discountDoc {
	doc := discountDoc{
		ID:                 d.ID,
		BrandID:            d.BrandID,
		Name:               d.Name,
		Type:               string(d.Type),
		Method:             string(d.Method),
		Value:              d.Value,
		MinOrderValue:      d.MinOrderValue,
		ReferenceIDs:       d.ReferenceIDs,
		LocationIDs:        d.LocationIDs,
		ActiveDays:         d.ActiveDays,
		TimeSlotValidation: string(d.TimeSlotValidation),
		StartDate:          d.StartDate,
		EndDate:            d.EndDate,
		IsActive:           d.IsActive,
		AllowStacking:      d.AllowStacking,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	for _, ot := range d.OrderTypes {
		doc.OrderTypes = append(doc.OrderTypes, string(ot))
	}
	for _, slot := range d.ActiveTimeSlots {
		doc.ActiveTimeSlots = append(doc.ActiveTimeSlots, timeSlotDoc(slot))
	}
	return doc
}

func (d discountDoc) toDomain() domain.StandardDiscount {
	out := domain.StandardDiscount{
		ID:                 d.ID,
		BrandID:            d.BrandID,
		Name:               d.Name,
		Type:               domain.DiscountType(d.Type),
		Method:             domain.DiscountMethod(d.Method),
		Value:              d.Value,
		MinOrderValue:      d.MinOrderValue,
		ReferenceIDs:       d.ReferenceIDs,
		LocationIDs:        d.LocationIDs,
		ActiveDays:         d.ActiveDays,
		TimeSlotValidation: domain.TimeSlotValidation(d.TimeSlotValidation),
		StartDate:          d.StartDate,
		EndDate:            d.EndDate,
		IsActive:           d.IsActive,
		AllowStacking:      d.AllowStacking,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	for _, ot := range d.OrderTypes {
		out.OrderTypes = append(out.OrderTypes, domain.DeliveryType(ot))
	}
	for _, slot := range d.ActiveTimeSlots {
		out.ActiveTimeSlots = append(out.ActiveTimeSlots, domain.TimeSlot(slot))
	}
	return out
}

type voucherDoc struct {
	ID            string    `firestore:"-"`
	BrandID       string    `firestore:"brandId"`
	Code          string    `firestore:"code"`
	Method        string    `firestore:"method"`
	Value         float64   `firestore:"value"`
	MinOrderValue float64   `firestore:"minOrderValue"`
	IsActive      bool      `firestore:"isActive"`
	CreatedAt     time.Time `firestore:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt"`
}

func voucherToDoc(v domain.VoucherDiscount) voucherDoc {
	return voucherDoc{
		ID:            v.ID,
		BrandID:       v.BrandID,
		Code:          v.Code,
		Method:        string(v.Method),
		Value:         v.Value,
		MinOrderValue: v.MinOrderValue,
		IsActive:      v.IsActive,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

func (d voucherDoc) toDomain() domain.VoucherDiscount {
	return domain.VoucherDiscount{
		ID:            d.ID,
		BrandID:       d.BrandID,
		Code:          d.Code,
		Method:        domain.DiscountMethod(d.Method),
		Value:         d.Value,
		MinOrderValue: d.MinOrderValue,
		IsActive:      d.IsActive,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type cartLineDoc struct {
	ID         string       `firestore:"id"`
	ProductID  string       `firestore:"productId"`
	ComboID    string       `firestore:"comboId"`
	CategoryID string       `firestore:"categoryId"`
	Name       string       `firestore:"name"`
	ItemType   string       `firestore:"itemType"`
	Quantity   int          `firestore:"quantity"`
	BasePrice  float64      `firestore:"basePrice"`
	Price      float64      `firestore:"price"`
	Toppings   []toppingDoc `firestore:"toppings"`
	AddedAt    time.Time    `firestore:"addedAt"`
}

func cartLinesToDoc(lines []domain.CartLine) []cartLineDoc {
	if len(lines) == 0 {
		return nil
	}
	out := make([]cartLineDoc, len(lines))
	for i, l := range lines {
		out[i] = cartLineDoc{
			ID:         l.ID,
			ProductID:  l.ProductID,
			ComboID:    l.ComboID,
			CategoryID: l.CategoryID,
			Name:       l.Name,
			ItemType:   string(l.ItemType),
			Quantity:   l.Quantity,
			BasePrice:  l.BasePrice,
			Price:      l.Price,
			Toppings:   toppingsToDoc(l.Toppings),
			AddedAt:    l.AddedAt,
		}
	}
	return out
}

func cartLinesToDomain(docs []cartLineDoc) []domain.CartLine {
	if len(docs) == 0 {
		return nil
	}
	out := make([]domain.CartLine, len(docs))
	for i, d := range docs {
		out[i] = domain.CartLine{
			ID:         d.ID,
			ProductID:  d.ProductID,
			ComboID:    d.ComboID,
			CategoryID: d.CategoryID,
			Name:       d.Name,
			ItemType:   domain.ItemType(d.ItemType),
			Quantity:   d.Quantity,
			BasePrice:  d.BasePrice,
			Price:      d.Price,
			Toppings:   toppingsToDomain(d.Toppings),
			AddedAt:    d.AddedAt,
		}
	}
	return out
}

type cartDoc struct {
	ID           string        `firestore:"-"`
	UserID       string        `firestore:"userId"`
	BrandID      string        `firestore:"brandId"`
	LocationID   string        `firestore:"locationId"`
	DeliveryType string        `firestore:"deliveryType"`
	PickupTime   *time.Time    `firestore:"pickupTime"`
	VoucherCode  string        `firestore:"voucherCode"`
	Lines        []cartLineDoc `firestore:"lines"`
	CreatedAt    time.Time     `firestore:"createdAt"`
	UpdatedAt    time.Time     `firestore:"updatedAt"`
}

func cartToDoc(c domain.Cart) cartDoc {
	return cartDoc{
		ID:           c.ID,
		UserID:       c.UserID,
		BrandID:      c.BrandID,
		LocationID:   c.LocationID,
		DeliveryType: string(c.DeliveryType),
		PickupTime:   c.PickupTime,
		VoucherCode:  c.VoucherCode,
		Lines:        cartLinesToDoc(c.Lines),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (d cartDoc) toDomain() domain.Cart {
	return domain.Cart{
		ID:           d.ID,
		UserID:       d.UserID,
		BrandID:      d.BrandID,
		LocationID:   d.LocationID,
		DeliveryType: domain.DeliveryType(d.DeliveryType),
		PickupTime:   d.PickupTime,
		VoucherCode:  d.VoucherCode,
		Lines:        cartLinesToDomain(d.Lines),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type appliedDiscountDoc struct {
	Name   string  `firestore:"name"`
	Amount float64 `firestore:"amount"`
}

type pricingResultDoc struct {
	Subtotal      float64             `firestore:"subtotal"`
	ItemDiscounts map[string]float64  `firestore:"itemDiscounts"`
	FinalDiscount *appliedDiscountDoc `firestore:"finalDiscount"`
	CartTotal     float64             `firestore:"cartTotal"`
}

func pricingToDoc(p domain.PricingResult) pricingResultDoc {
	doc := pricingResultDoc{
		Subtotal:      p.Subtotal,
		ItemDiscounts: p.ItemDiscounts,
		CartTotal:     p.CartTotal,
	}
	if p.FinalDiscount != nil {
		fd := appliedDiscountDoc(*p.FinalDiscount)
		doc.FinalDiscount = &fd
	}
	return doc
}

func (d pricingResultDoc) toDomain() domain.PricingResult {
	out := domain.PricingResult{
		Subtotal:      d.Subtotal,
		ItemDiscounts: d.ItemDiscounts,
		CartTotal:     d.CartTotal,
	}
	if d.FinalDiscount != nil {
		fd := domain.AppliedDiscount(*d.FinalDiscount)
		out.FinalDiscount = &fd
	}
	return out
}

type paymentDoc struct {
	Provider     string           `firestore:"provider"`
	SessionID    string           `firestore:"sessionId"`
	IntentID     string           `firestore:"intentId"`
	Snapshot     pricingResultDoc `firestore:"snapshot"`
	DeliveryFee  float64          `firestore:"deliveryFee"`
	FeeWaived    bool             `firestore:"feeWaived"`
	AmountMinor  int64            `firestore:"amountMinor"`
	Currency     string           `firestore:"currency"`
	CompletedAt  *time.Time       `firestore:"completedAt"`
	FailedReason string           `firestore:"failedReason"`
}

type orderDoc struct {
	ID           string        `firestore:"-"`
	OrderNumber  string        `firestore:"orderNumber"`
	UserID       string        `firestore:"userId"`
	BrandID      string        `firestore:"brandId"`
	LocationID   string        `firestore:"locationId"`
	DeliveryType string        `firestore:"deliveryType"`
	PickupTime   *time.Time    `firestore:"pickupTime"`
	Lines        []cartLineDoc `firestore:"lines"`
	Payment      paymentDoc    `firestore:"payment"`
	Status       string        `firestore:"status"`
	CreatedAt    time.Time     `firestore:"createdAt"`
	UpdatedAt    time.Time     `firestore:"updatedAt"`
	PaidAt       *time.Time    `firestore:"paidAt"`
	CanceledAt   *time.Time    `firestore:"canceledAt"`
}

func orderToDoc(o domain.Order) orderDoc {
	return orderDoc{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		UserID:       o.UserID,
		BrandID:      o.BrandID,
		LocationID:   o.LocationID,
		DeliveryType: string(o.DeliveryType),
		PickupTime:   o.PickupTime,
		Lines:        cartLinesToDoc(o.Lines),
		Payment: paymentDoc{
			Provider:     o.Payment.Provider,
			SessionID:    o.Payment.SessionID,
			IntentID:     o.Payment.IntentID,
			Snapshot:     pricingToDoc(o.Payment.Snapshot),
			DeliveryFee:  o.Payment.DeliveryFee,
			FeeWaived:    o.Payment.FeeWaived,
			AmountMinor:  o.Payment.AmountMinor,
			Currency:     o.Payment.Currency,
			CompletedAt:  o.Payment.CompletedAt,
			FailedReason: o.Payment.FailedReason,
		},
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		PaidAt:     o.PaidAt,
		CanceledAt: o.CanceledAt,
	}
}

func (d orderDoc) toDomain() domain.Order {
	return domain.Order{
		ID:           d.ID,
		OrderNumber:  d.OrderNumber,
		UserID:       d.UserID,
		BrandID:      d.BrandID,
		LocationID:   d.LocationID,
		DeliveryType: domain.DeliveryType(d.DeliveryType),
		PickupTime:   d.PickupTime,
		Lines:        cartLinesToDomain(d.Lines),
		Payment: domain.PaymentDetails{
			Provider:     d.Payment.Provider,
			SessionID:    d.Payment.SessionID,
			IntentID:     d.Payment.IntentID,
			Snapshot:     d.Payment.Snapshot.toDomain(),
			DeliveryFee:  d.Payment.DeliveryFee,
			FeeWaived:    d.Payment.FeeWaived,
			AmountMinor:  d.Payment.AmountMinor,
			Currency:     d.Payment.Currency,
			CompletedAt:  d.Payment.CompletedAt,
			FailedReason: d.Payment.FailedReason,
		},
		Status:     domain.OrderStatus(d.Status),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
		PaidAt:     d.PaidAt,
		CanceledAt: d.CanceledAt,
	}
}

type upsellDoc struct {
	ID          string    `firestore:"-"`
	BrandID     string    `firestore:"brandId"`
	ProductID   string    `firestore:"productId"`
	OfferPrice  float64   `firestore:"offerPrice"`
	Views       int64     `firestore:"views"`
	Conversions int64     `firestore:"conversions"`
	IsActive    bool      `firestore:"isActive"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

func upsellToDoc(u domain.UpsellOffer) upsellDoc { return upsellDoc(u) }

func (d upsellDoc) toDomain() domain.UpsellOffer { return domain.UpsellOffer(d) }

type feedbackDoc struct {
	ID          string     `firestore:"-"`
	BrandID     string     `firestore:"brandId"`
	OrderRef    string     `firestore:"orderRef"`
	UserRef     string     `firestore:"userRef"`
	Rating      int        `firestore:"rating"`
	Comment     string     `firestore:"comment"`
	Status      string     `firestore:"status"`
	ModeratedBy string     `firestore:"moderatedBy"`
	ModeratedAt *time.Time `firestore:"moderatedAt"`
	CreatedAt   time.Time  `firestore:"createdAt"`
	UpdatedAt   time.Time  `firestore:"updatedAt"`
}

func feedbackToDoc(f domain.Feedback) feedbackDoc {
	return feedbackDoc{
		ID:          f.ID,
		BrandID:     f.BrandID,
		OrderRef:    f.OrderRef,
		UserRef:     f.UserRef,
		Rating:      f.Rating,
		Comment:     f.Comment,
		Status:      string(f.Status),
		ModeratedBy: f.ModeratedBy,
		ModeratedAt: f.ModeratedAt,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func (d feedbackDoc) toDomain() domain.Feedback {
	return domain.Feedback{
		ID:          d.ID,
		BrandID:     d.BrandID,
		OrderRef:    d.OrderRef,
		UserRef:     d.UserRef,
		Rating:      d.Rating,
		Comment:     d.Comment,
		Status:      domain.FeedbackStatus(d.Status),
		ModeratedBy: d.ModeratedBy,
		ModeratedAt: d.ModeratedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type qaCaseDoc struct {
	ID        string    `firestore:"-"`
	Code      string    `firestore:"code"`
	Title     string    `firestore:"title"`
	Area      string    `firestore:"area"`
	Steps     []string  `firestore:"steps"`
	Expected  string    `firestore:"expected"`
	Status    string    `firestore:"status"`
	Assignee  string    `firestore:"assignee"`
	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

func qaCaseToDoc(c domain.QATestCase) qaCaseDoc {
	return qaCaseDoc{
		ID:        c.ID,
		Code:      c.Code,
		Title:     c.Title,
		Area:      c.Area,
		Steps:     c.Steps,
		Expected:  c.Expected,
		Status:    string(c.Status),
		Assignee:  c.Assignee,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (d qaCaseDoc) toDomain() domain.QATestCase {
	return domain.QATestCase{
		ID:        d.ID,
		Code:      d.Code,
		Title:     d.Title,
		Area:      d.Area,
		Steps:     d.Steps,
		Expected:  d.Expected,
		Status:    domain.QAStatus(d.Status),
		Assignee:  d.Assignee,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
