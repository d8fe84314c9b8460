package service

import (
	"context"
	"errors"
	"log"

	"github.com/avdeev/go-storefront/internal/cache"
	"github.com/avdeev/go-storefront/internal/domain"
	"github.com/avdeev/go-storefront/internal/repository"
	"golang.org/x/sync/singleflight"
)

type ProductService interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, category string) ([]*domain.Product, error)
}

type ProductServiceImpl struct {
	repo  repository.ProductRepository
	cache cache.ProductCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewProductService(repo repository.ProductRepository, cache cache.ProductCache) *ProductServiceImpl {
	return &ProductServiceImpl{
		repo:  repo,
		cache: cache,
	}
}

func (s *ProductServiceImpl) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(id, func() (interface{}, error) {

		product, err := s.cache.Get(ctx, id)
		if err == nil {
			return product, nil // product is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		product, errGet := s.repo.GetProduct(ctx, id)
		if errGet != nil {
			return nil, errGet
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), product)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return product, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Product), nil
}

func (s *ProductServiceImpl) ListProducts(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.repo.ListProducts(ctx, category)
}
