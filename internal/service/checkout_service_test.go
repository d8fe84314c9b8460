package service

import (
	"context"
	"errors"
	"testing"

	"github.com/avdeev/go-storefront/internal/cache"
	"github.com/avdeev/go-storefront/internal/domain"
	"github.com/avdeev/go-storefront/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingOrder(ownerID string) *domain.Order {
	return &domain.Order{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Status:  domain.OrderStatusPending,
		Total:   decimal.RequireFromString("25.00"),
		Items: []domain.OrderItem{
			{ProductID: "p1", ProductName: "Keyboard", Quantity: 2, Price: decimal.RequireFromString("10.00")},
			{ProductID: "p2", ProductName: "Mouse", Quantity: 1, Price: decimal.RequireFromString("5.00")},
		},
	}
}

func TestCheckout_Guest(t *testing.T) {
	repo := &mockOrderRepo{}
	pub := &mockPublisher{}
	svc := NewCheckoutService(repo, newFakeCache(), pub)

	order, err := svc.Checkout(context.Background(), domain.Owner{ID: "guest_x", Guest: true}, "")

	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Nil(t, order)
	assert.Zero(t, repo.calls, "guest checkout must never reach the repository")
	assert.Empty(t, pub.published)
}

func TestCheckout_EmptyCart(t *testing.T) {
	repo := &mockOrderRepo{err: repository.ErrEmptyCart}
	pub := &mockPublisher{}
	svc := NewCheckoutService(repo, newFakeCache(), pub)

	order, err := svc.Checkout(context.Background(), domain.Owner{ID: "user-1"}, "")

	assert.ErrorIs(t, err, repository.ErrEmptyCart)
	assert.Nil(t, order)
	assert.Empty(t, pub.published)
}

func TestCheckout_Success(t *testing.T) {
	expected := pendingOrder("user-1")
	repo := &mockOrderRepo{order: expected}
	pub := &mockPublisher{}
	svc := NewCheckoutService(repo, newFakeCache(), pub)

	order, err := svc.Checkout(context.Background(), domain.Owner{ID: "user-1"}, "")

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, expected.ID, order.ID)
	assert.Equal(t, "user-1", repo.ownerID)

	require.Len(t, pub.published, 1)
	assert.Equal(t, expected.ID, pub.published[0].ID)
}

func TestCheckout_InvalidatesSoldProductCache(t *testing.T) {
	c := newFakeCache()
	require.NoError(t, c.Set(context.Background(), activeProduct("p1", "Keyboard", "10.00", 50)))
	require.NoError(t, c.Set(context.Background(), activeProduct("p2", "Mouse", "5.00", 20)))
	require.NoError(t, c.Set(context.Background(), activeProduct("p3", "Monitor", "99.00", 10)))

	repo := &mockOrderRepo{order: pendingOrder("user-1")}
	svc := NewCheckoutService(repo, c, &mockPublisher{})

	_, err := svc.Checkout(context.Background(), domain.Owner{ID: "user-1"}, "")
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "p1")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
	_, err = c.Get(context.Background(), "p2")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	// p3 was not in the order; its snapshot stays cached.
	_, err = c.Get(context.Background(), "p3")
	assert.NoError(t, err)
}

func TestCheckout_PublishFailureDoesNotFailCheckout(t *testing.T) {
	repo := &mockOrderRepo{order: pendingOrder("user-1")}
	pub := &mockPublisher{err: errors.New("broker unavailable")}
	svc := NewCheckoutService(repo, newFakeCache(), pub)

	order, err := svc.Checkout(context.Background(), domain.Owner{ID: "user-1"}, "")

	require.NoError(t, err)
	assert.NotNil(t, order)
}

func TestCheckout_IdempotencyKeyForwarded(t *testing.T) {
	repo := &mockOrderRepo{order: pendingOrder("user-1")}
	svc := NewCheckoutService(repo, newFakeCache(), &mockPublisher{})

	_, err := svc.Checkout(context.Background(), domain.Owner{ID: "user-1"}, "retry-token-1")

	require.NoError(t, err)
	require.Len(t, repo.idemKeys, 1)
	assert.Equal(t, "retry-token-1", repo.idemKeys[0])
}

func TestCheckout_RepositoryError(t *testing.T) {
	repo := &mockOrderRepo{err: errors.New("repository error")}
	svc := NewCheckoutService(repo, newFakeCache(), &mockPublisher{})

	order, err := svc.Checkout(context.Background(), domain.Owner{ID: "user-1"}, "")

	assert.Error(t, err)
	assert.Nil(t, order)
}

func TestListOrders_Guest(t *testing.T) {
	svc := NewCheckoutService(&mockOrderRepo{}, newFakeCache(), &mockPublisher{})

	_, err := svc.ListOrders(context.Background(), domain.Owner{ID: "guest_x", Guest: true})

	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestGetOrder_Guest(t *testing.T) {
	svc := NewCheckoutService(&mockOrderRepo{}, newFakeCache(), &mockPublisher{})

	_, err := svc.GetOrder(context.Background(), domain.Owner{ID: "guest_x", Guest: true}, uuid.New())

	assert.ErrorIs(t, err, ErrUnauthenticated)
}
