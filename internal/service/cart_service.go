package service

import (
	"context"
	"log"

	"github.com/avdeev/go-storefront/internal/domain"
	"github.com/avdeev/go-storefront/internal/repository"
)

type CartService interface {
	GetCart(ctx context.Context, owner domain.Owner) ([]domain.CartLine, error)
	AddItem(ctx context.Context, owner domain.Owner, productID string, quantity int) error
	UpdateQuantity(ctx context.Context, owner domain.Owner, productID string, quantity int) error
	RemoveItem(ctx context.Context, owner domain.Owner, productID string) error
	ClearCart(ctx context.Context, owner domain.Owner) error
}

// CartServiceImpl persists guest carts under the guest owner id, so every
// mutator behaves the same for guests and users. Stock is deliberately not
// checked here; checkout re-validates it.
type CartServiceImpl struct {
	repo     repository.CartRepository
	products ProductService
}

func NewCartService(repo repository.CartRepository, products ProductService) *CartServiceImpl {
	return &CartServiceImpl{
		repo:     repo,
		products: products,
	}
}

func (s *CartServiceImpl) GetCart(ctx context.Context, owner domain.Owner) ([]domain.CartLine, error) {
	return s.repo.GetCart(ctx, owner.ID)
}

func (s *CartServiceImpl) AddItem(ctx context.Context, owner domain.Owner, productID string, quantity int) error {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return repository.ErrProductNotFound
	}

	if errAdd := s.repo.AddItem(ctx, owner.ID, productID, quantity); errAdd != nil {
		log.Printf("repo add item error: %v \n", errAdd)
		return errAdd
	}
	return nil
}

// UpdateQuantity sets the quantity exactly; anything below one removes the line.
func (s *CartServiceImpl) UpdateQuantity(ctx context.Context, owner domain.Owner, productID string, quantity int) error {
	if quantity < 1 {
		return s.RemoveItem(ctx, owner, productID)
	}

	if errUpdate := s.repo.UpdateQuantity(ctx, owner.ID, productID, quantity); errUpdate != nil {
		log.Printf("repo update item quantity error: %v \n", errUpdate)
		return errUpdate
	}
	return nil
}

func (s *CartServiceImpl) RemoveItem(ctx context.Context, owner domain.Owner, productID string) error {
	if errRemove := s.repo.RemoveItem(ctx, owner.ID, productID); errRemove != nil {
		log.Printf("repo remove item error: %v \n", errRemove)
		return errRemove
	}
	return nil
}

func (s *CartServiceImpl) ClearCart(ctx context.Context, owner domain.Owner) error {
	if errClear := s.repo.ClearCart(ctx, owner.ID); errClear != nil {
		log.Printf("repo clear cart error: %v \n", errClear)
		return errClear
	}
	return nil
}
