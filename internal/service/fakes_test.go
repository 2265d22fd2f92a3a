package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"cart-service/internal/entity"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

type fakeRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]entity.CartItem
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[int64]entity.CartItem{}}
}

func (r *fakeRepo) ListAll(ctx context.Context) ([]entity.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.CartItem, 0, len(r.rows))
	for _, item := range r.rows {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id int64) (*entity.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (r *fakeRepo) FindByProductID(ctx context.Context, productID int64) (*entity.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.rows {
		if item.ProductID == productID {
			return &item, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) Add(ctx context.Context, productID int64, quantity int) (*entity.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, item := range r.rows {
		if item.ProductID == productID {
			item.Quantity += quantity
			r.rows[id] = item
			return &item, nil
		}
	}
	r.nextID++
	item := entity.CartItem{ID: r.nextID, ProductID: productID, Quantity: quantity, AddedAt: time.Now()}
	r.rows[item.ID] = item
	return &item, nil
}

func (r *fakeRepo) UpdateQuantity(ctx context.Context, id int64, quantity int) (*entity.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	item.Quantity = quantity
	r.rows[id] = item
	return &item, nil
}

func (r *fakeRepo) Remove(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = map[int64]entity.CartItem{}
	return nil
}

type fakeCatalog struct {
	mu     sync.Mutex
	prices map[int64]string
	calls  int
}

func (c *fakeCatalog) Fetch(ctx context.Context, productID int64) (*entity.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	price, ok := c.prices[productID]
	if !ok {
		return nil, ErrProductNotFound
	}
	p := decimal.RequireFromString(price)
	raw, _ := json.Marshal(map[string]any{"id": productID, "price": json.Number(price)})
	return &entity.Product{Price: p, Raw: raw}, nil
}

type fakeOrders struct {
	requests []entity.OrderRequest
	result   entity.OrderResult
	err      error
}

func (o *fakeOrders) Create(ctx context.Context, req entity.OrderRequest) (entity.OrderResult, error) {
	o.requests = append(o.requests, req)
	if o.err != nil {
		return nil, o.err
	}
	return o.result, nil
}

type reduction struct {
	ProductID int64
	Quantity  int
}

type fakeInventory struct {
	calls []reduction
	// failOn is the 1-based call that fails; 0 never fails.
	failOn int
}

func (f *fakeInventory) Reduce(ctx context.Context, productID int64, quantity int) error {
	f.calls = append(f.calls, reduction{ProductID: productID, Quantity: quantity})
	if f.failOn == len(f.calls) {
		return errors.New("connection refused")
	}
	return nil
}

type fakeWriter struct {
	msgs []kafka.Message
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

type fakeRecorder struct {
	mu     sync.Mutex
	states []CheckoutState
	errs   []error
}

func (r *fakeRecorder) CheckoutFinished(state CheckoutState, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
	r.errs = append(r.errs, err)
}

type mutexLocker struct {
	mu sync.Mutex
}

func (l *mutexLocker) Acquire(ctx context.Context) (func(), error) {
	l.mu.Lock()
	return l.mu.Unlock, nil
}

type busyLocker struct{}

func (busyLocker) Acquire(ctx context.Context) (func(), error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
