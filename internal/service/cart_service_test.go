package service

import (
	"context"
	"testing"

	"github.com/avdeev/go-storefront/internal/domain"
	"github.com/avdeev/go-storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartFixture() (*CartServiceImpl, *fakeCartRepo) {
	repo := newFakeCartRepo()
	products := &fakeProducts{products: map[string]*domain.Product{
		"p1": activeProduct("p1", "Keyboard", "10.00", 50),
		"p2": activeProduct("p2", "Mouse", "5.00", 30),
	}}
	return NewCartService(repo, products), repo
}

func TestAddItem_MergesQuantities(t *testing.T) {
	svc, _ := newCartFixture()
	owner := domain.Owner{ID: "user-1"}

	require.NoError(t, svc.AddItem(context.Background(), owner, "p1", 2))
	require.NoError(t, svc.AddItem(context.Background(), owner, "p1", 3))

	lines, err := svc.GetCart(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "p1", lines[0].ProductID)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	svc, repo := newCartFixture()
	owner := domain.Owner{ID: "user-1"}

	err := svc.AddItem(context.Background(), owner, "missing-id", 1)

	assert.ErrorIs(t, err, repository.ErrProductNotFound)
	assert.Empty(t, repo.lines[owner.ID])
}

func TestAddItem_InactiveProduct(t *testing.T) {
	repo := newFakeCartRepo()
	inactive := activeProduct("p9", "Discontinued", "1.00", 10)
	inactive.IsActive = false
	svc := NewCartService(repo, &fakeProducts{products: map[string]*domain.Product{"p9": inactive}})

	err := svc.AddItem(context.Background(), domain.Owner{ID: "user-1"}, "p9", 1)

	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestAddItem_GuestCartIsPersisted(t *testing.T) {
	svc, _ := newCartFixture()
	guest := domain.Owner{ID: "guest_abc", Guest: true}

	require.NoError(t, svc.AddItem(context.Background(), guest, "p1", 1))

	lines, err := svc.GetCart(context.Background(), guest)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestUpdateQuantity_SetsExactValue(t *testing.T) {
	svc, _ := newCartFixture()
	owner := domain.Owner{ID: "user-1"}
	require.NoError(t, svc.AddItem(context.Background(), owner, "p1", 2))

	require.NoError(t, svc.UpdateQuantity(context.Background(), owner, "p1", 7))

	lines, err := svc.GetCart(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 7, lines[0].Quantity)
}

func TestUpdateQuantity_BelowOneRemovesLine(t *testing.T) {
	svc, _ := newCartFixture()
	owner := domain.Owner{ID: "user-1"}
	require.NoError(t, svc.AddItem(context.Background(), owner, "p1", 2))

	require.NoError(t, svc.UpdateQuantity(context.Background(), owner, "p1", 0))

	lines, err := svc.GetCart(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestUpdateQuantity_MissingLine(t *testing.T) {
	svc, _ := newCartFixture()

	err := svc.UpdateQuantity(context.Background(), domain.Owner{ID: "user-1"}, "p1", 3)

	assert.ErrorIs(t, err, repository.ErrLineNotFound)
}

func TestRemoveItem_MissingLine(t *testing.T) {
	svc, _ := newCartFixture()

	err := svc.RemoveItem(context.Background(), domain.Owner{ID: "user-1"}, "p1")

	assert.ErrorIs(t, err, repository.ErrLineNotFound)
}

func TestClearCart_EmptyIsNoOp(t *testing.T) {
	svc, _ := newCartFixture()

	assert.NoError(t, svc.ClearCart(context.Background(), domain.Owner{ID: "user-1"}))
}
