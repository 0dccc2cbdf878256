package services

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"provision-store/internal/models"
)

type fakeProducts struct {
	mu        sync.Mutex
	items     map[primitive.ObjectID]models.Product
	order     []primitive.ObjectID
	adjustErr error
}

func newFakeProducts(products ...models.Product) *fakeProducts {
	f := &fakeProducts{items: make(map[primitive.ObjectID]models.Product)}
	for _, p := range products {
		f.put(p)
	}
	return f
}

func (f *fakeProducts) put(p models.Product) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, ok := f.items[p.ID]; !ok {
		f.order = append(f.order, p.ID)
	}
	f.items[p.ID] = p
}

func (f *fakeProducts) units(id primitive.ObjectID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id].Units
}

func (f *fakeProducts) List(context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Product, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0; i-- {
		if p, ok := f.items[f.order[i]]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) FindByID(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeProducts) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.items[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) Insert(_ context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	product.ID = primitive.NewObjectID()
	f.put(*product)
	return nil
}

func (f *fakeProducts) Update(_ context.Context, id primitive.ObjectID, patch models.ProductPatch) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Units != nil {
		p.Units = *patch.Units
	}
	if patch.Weight != nil {
		p.Weight = *patch.Weight
	}
	if patch.WeightUnit != nil {
		p.WeightUnit = *patch.WeightUnit
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	p.UpdatedAt = patch.UpdatedAt
	f.items[id] = p
	return p, nil
}

func (f *fakeProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeProducts) AdjustUnits(_ context.Context, id primitive.ObjectID, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.adjustErr != nil {
		return f.adjustErr
	}
	p, ok := f.items[id]
	if !ok {
		return ErrNotFound
	}
	p.Units += delta
	f.items[id] = p
	return nil
}

func (f *fakeProducts) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.items)), nil
}

func (f *fakeProducts) CountBelow(_ context.Context, threshold int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.items {
		if p.Units < threshold {
			n++
		}
	}
	return n, nil
}

type fakeBills struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.Bill
	order []primitive.ObjectID
	seq   int64
}

func newFakeBills() *fakeBills {
	return &fakeBills{items: make(map[primitive.ObjectID]models.Bill)}
}

func (f *fakeBills) List(context.Context) ([]models.Bill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Bill, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0; i-- {
		if b, ok := f.items[f.order[i]]; ok {
			out = append(out, cloneBill(b))
		}
	}
	return out, nil
}

func (f *fakeBills) FindByID(_ context.Context, id primitive.ObjectID) (models.Bill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.items[id]
	if !ok {
		return models.Bill{}, ErrNotFound
	}
	return cloneBill(b), nil
}

func (f *fakeBills) Insert(_ context.Context, bill *models.Bill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.BillNumber == bill.BillNumber {
			return ErrDuplicate
		}
	}
	bill.ID = primitive.NewObjectID()
	f.items[bill.ID] = cloneBill(*bill)
	f.order = append(f.order, bill.ID)
	return nil
}

func (f *fakeBills) Update(_ context.Context, id primitive.ObjectID, patch models.BillPatch) (models.Bill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.items[id]
	if !ok {
		return models.Bill{}, ErrNotFound
	}
	if patch.CustomerName != nil {
		b.CustomerName = *patch.CustomerName
	}
	if patch.CustomerPhone != nil {
		b.CustomerPhone = *patch.CustomerPhone
	}
	if patch.Items != nil {
		b.Items = patch.Items
	}
	if patch.TotalAmount != nil {
		b.TotalAmount = *patch.TotalAmount
	}
	if patch.PaymentStatus != nil {
		b.PaymentStatus = *patch.PaymentStatus
	}
	if patch.PaymentMethod != nil {
		b.PaymentMethod = *patch.PaymentMethod
	}
	b.UpdatedAt = patch.UpdatedAt
	f.items[id] = cloneBill(b)
	return cloneBill(b), nil
}

func (f *fakeBills) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeBills) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.items)), nil
}

func (f *fakeBills) SumTotalAmount(context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	amounts := make([]float64, 0, len(f.items))
	for _, b := range f.items {
		amounts = append(amounts, b.TotalAmount)
	}
	return sumMoney(amounts...), nil
}

func (f *fakeBills) NextSequence(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return f.seq, nil
}

func cloneBill(b models.Bill) models.Bill {
	items := make([]models.BillItem, len(b.Items))
	copy(items, b.Items)
	for i := range items {
		items[i].Product = nil
	}
	b.Items = items
	return b
}

// inlineTx runs fn directly. atomic only changes how BillService reacts to
// a failed unit decrement; nothing is rolled back here.
type inlineTx struct {
	atomic bool
}

func (t inlineTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (t inlineTx) Atomic() bool { return t.atomic }

type fakeCache struct {
	stats       *models.DashboardStats
	sets        int
	invalidated int
}

func (c *fakeCache) Get(context.Context) (models.DashboardStats, bool) {
	if c.stats == nil {
		return models.DashboardStats{}, false
	}
	return *c.stats, true
}

func (c *fakeCache) Set(_ context.Context, stats models.DashboardStats) {
	c.stats = &stats
	c.sets++
}

func (c *fakeCache) Invalidate(context.Context) {
	c.stats = nil
	c.invalidated++
}

var errAdjust = errors.New("write conflict")

func ptr[T any](v T) *T { return &v }
