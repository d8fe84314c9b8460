package service

import (
	"context"
	"sort"
	"time"

	"github.com/avdeev/go-storefront/internal/domain"
	"github.com/avdeev/go-storefront/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fakeProducts implements ProductService over a fixed product map.
type fakeProducts struct {
	products map[string]*domain.Product
}

func (f *fakeProducts) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProducts) ListProducts(context.Context, string) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeCartLine struct {
	productID string
	quantity  int
	addedAt   time.Time
}

// fakeCartRepo mirrors the repository's upsert semantics in memory: one line
// per (owner, product), quantities merged on repeat add.
type fakeCartRepo struct {
	lines map[string][]*fakeCartLine
	err   error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{lines: make(map[string][]*fakeCartLine)}
}

func (f *fakeCartRepo) GetCart(_ context.Context, ownerID string) ([]domain.CartLine, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.CartLine
	for _, l := range f.lines[ownerID] {
		out = append(out, domain.CartLine{
			ProductID: l.productID,
			Quantity:  l.quantity,
			AddedAt:   l.addedAt,
		})
	}
	return out, nil
}

func (f *fakeCartRepo) AddItem(_ context.Context, ownerID, productID string, quantity int) error {
	if f.err != nil {
		return f.err
	}
	for _, l := range f.lines[ownerID] {
		if l.productID == productID {
			l.quantity += quantity
			return nil
		}
	}
	f.lines[ownerID] = append(f.lines[ownerID], &fakeCartLine{
		productID: productID,
		quantity:  quantity,
		addedAt:   time.Now(),
	})
	return nil
}

func (f *fakeCartRepo) UpdateQuantity(_ context.Context, ownerID, productID string, quantity int) error {
	if f.err != nil {
		return f.err
	}
	for _, l := range f.lines[ownerID] {
		if l.productID == productID {
			l.quantity = quantity
			return nil
		}
	}
	return repository.ErrLineNotFound
}

func (f *fakeCartRepo) RemoveItem(_ context.Context, ownerID, productID string) error {
	if f.err != nil {
		return f.err
	}
	for i, l := range f.lines[ownerID] {
		if l.productID == productID {
			f.lines[ownerID] = append(f.lines[ownerID][:i], f.lines[ownerID][i+1:]...)
			return nil
		}
	}
	return repository.ErrLineNotFound
}

func (f *fakeCartRepo) ClearCart(_ context.Context, ownerID string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.lines, ownerID)
	return nil
}

// mockOrderRepo records checkout calls and returns a canned result.
type mockOrderRepo struct {
	order    *domain.Order
	err      error
	calls    int
	ownerID  string
	idemKeys []string
}

func (m *mockOrderRepo) CreateOrderFromCart(_ context.Context, ownerID, idempotencyKey string) (*domain.Order, error) {
	m.calls++
	m.ownerID = ownerID
	m.idemKeys = append(m.idemKeys, idempotencyKey)
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *mockOrderRepo) GetOrder(_ context.Context, ownerID string, orderID uuid.UUID) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *mockOrderRepo) ListOrders(_ context.Context, ownerID string) ([]*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.order == nil {
		return nil, nil
	}
	return []*domain.Order{m.order}, nil
}

type mockPublisher struct {
	published []*domain.Order
	err       error
}

func (m *mockPublisher) PublishOrderCreated(_ context.Context, order *domain.Order) error {
	m.published = append(m.published, order)
	return m.err
}

func (m *mockPublisher) Close() error { return nil }

func activeProduct(id, name string, price string, stock int) *domain.Product {
	return &domain.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
}
