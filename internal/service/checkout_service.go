package service

import (
	"context"
	"log"

	"github.com/avdeev/go-storefront/internal/cache"
	"github.com/avdeev/go-storefront/internal/domain"
	"github.com/avdeev/go-storefront/internal/events"
	"github.com/avdeev/go-storefront/internal/repository"
	"github.com/google/uuid"
)

type CheckoutService interface {
	Checkout(ctx context.Context, owner domain.Owner, idempotencyKey string) (*domain.Order, error)
	GetOrder(ctx context.Context, owner domain.Owner, orderID uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, owner domain.Owner) ([]*domain.Order, error)
}

type CheckoutServiceImpl struct {
	repo      repository.OrderRepository
	cache     cache.ProductCache
	publisher events.OrderPublisher
}

func NewCheckoutService(repo repository.OrderRepository, cache cache.ProductCache, publisher events.OrderPublisher) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
	}
}

// Checkout converts the owner's cart into an order. Guests are told to
// authenticate first; nothing is ever created under a guest id. The
// repository runs the commit atomically, so on any error the cart is intact
// and no order exists.
func (s *CheckoutServiceImpl) Checkout(ctx context.Context, owner domain.Owner, idempotencyKey string) (*domain.Order, error) {
	if owner.Guest {
		return nil, ErrUnauthenticated
	}

	order, err := s.repo.CreateOrderFromCart(ctx, owner.ID, idempotencyKey)
	if err != nil {
		return nil, err
	}

	// Stock just changed; drop the sold products' cached snapshots so the
	// next read sees the decremented stock instead of a stale entry.
	for _, item := range order.Items {
		if errDel := s.cache.Delete(ctx, item.ProductID); errDel != nil {
			log.Printf("cache delete error: %v \n", errDel)
		}
	}

	// At-least-once; a publish failure never fails the checkout.
	if errPub := s.publisher.PublishOrderCreated(ctx, order); errPub != nil {
		log.Printf("publish order created error: %v \n", errPub)
	}

	return order, nil
}

func (s *CheckoutServiceImpl) GetOrder(ctx context.Context, owner domain.Owner, orderID uuid.UUID) (*domain.Order, error) {
	if owner.Guest {
		return nil, ErrUnauthenticated
	}
	return s.repo.GetOrder(ctx, owner.ID, orderID)
}

func (s *CheckoutServiceImpl) ListOrders(ctx context.Context, owner domain.Owner) ([]*domain.Order, error) {
	if owner.Guest {
		return nil, ErrUnauthenticated
	}
	return s.repo.ListOrders(ctx, owner.ID)
}
