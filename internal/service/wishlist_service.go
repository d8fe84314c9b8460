package service

import (
	"context"

	"github.com/avdeev/go-storefront/internal/domain"
	"github.com/avdeev/go-storefront/internal/repository"
)

type WishlistService interface {
	GetWishlist(ctx context.Context, owner domain.Owner) ([]*domain.Product, error)
	AddToWishlist(ctx context.Context, owner domain.Owner, productID string) error
	RemoveFromWishlist(ctx context.Context, owner domain.Owner, productID string) error
}

// WishlistServiceImpl rejects guests outright, including on reads. A
// duplicate add fails with repository.ErrAlreadyExists.
type WishlistServiceImpl struct {
	repo repository.WishlistRepository
}

func NewWishlistService(repo repository.WishlistRepository) *WishlistServiceImpl {
	return &WishlistServiceImpl{repo: repo}
}

func (s *WishlistServiceImpl) GetWishlist(ctx context.Context, owner domain.Owner) ([]*domain.Product, error) {
	if owner.Guest {
		return nil, ErrUnauthenticated
	}
	return s.repo.GetWishlist(ctx, owner.ID)
}

func (s *WishlistServiceImpl) AddToWishlist(ctx context.Context, owner domain.Owner, productID string) error {
	if owner.Guest {
		return ErrUnauthenticated
	}
	return s.repo.AddToWishlist(ctx, owner.ID, productID)
}

func (s *WishlistServiceImpl) RemoveFromWishlist(ctx context.Context, owner domain.Owner, productID string) error {
	if owner.Guest {
		return ErrUnauthenticated
	}
	return s.repo.RemoveFromWishlist(ctx, owner.ID, productID)
}
