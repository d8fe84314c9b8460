package repository

import (
	"context"
	"errors"

	"github.com/avdeev/go-storefront/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrLineNotFound    = errors.New("line not found")
	ErrAlreadyExists   = errors.New("line already exists")
	ErrOrderNotFound   = errors.New("order not found")
	ErrEmptyCart       = errors.New("cart is empty, nothing to checkout")
	ErrOutOfStock      = errors.New("insufficient stock")
)

type ProductRepository interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, category string) ([]*domain.Product, error)
}

type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) ([]domain.CartLine, error)
	AddItem(ctx context.Context, ownerID, productID string, quantity int) error
	UpdateQuantity(ctx context.Context, ownerID, productID string, quantity int) error
	RemoveItem(ctx context.Context, ownerID, productID string) error
	ClearCart(ctx context.Context, ownerID string) error
}

type WishlistRepository interface {
	GetWishlist(ctx context.Context, ownerID string) ([]*domain.Product, error)
	AddToWishlist(ctx context.Context, ownerID, productID string) error
	RemoveFromWishlist(ctx context.Context, ownerID, productID string) error
}

type OrderRepository interface {
	// CreateOrderFromCart runs the whole checkout commit as one transaction:
	// lock + price the cart lines, decrement stock, insert the order and its
	// items, delete the cart lines. Nothing is visible on failure.
	CreateOrderFromCart(ctx context.Context, ownerID, idempotencyKey string) (*domain.Order, error)
	GetOrder(ctx context.Context, ownerID string, orderID uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, ownerID string) ([]*domain.Order, error)
}
