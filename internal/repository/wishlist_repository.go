package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/avdeev/go-storefront/internal/domain"
	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

func (r *Repository) GetWishlist(ctx context.Context, ownerID string) ([]*domain.Product, error) {
	query := `SELECT p.id, p.name, p.description, p.price, p.image, p.category, p.stock, p.is_active, p.created_at
	          FROM wishlist_items wi
	          JOIN products p ON p.id = wi.product_id
	          WHERE wi.owner_id = $1
	          ORDER BY wi.created_at`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query wishlist items: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p := &domain.Product{}
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.Image,
			&p.Category,
			&p.Stock,
			&p.IsActive,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan wishlist row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *Repository) AddToWishlist(ctx context.Context, ownerID, productID string) error {
	query := `INSERT INTO wishlist_items (owner_id, product_id, created_at) VALUES ($1, $2, NOW())`

	_, err := r.db.ExecContext(ctx, query, ownerID, productID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case pgUniqueViolation:
				return ErrAlreadyExists
			case pgForeignKeyViolation:
				return ErrProductNotFound
			}
		}
		return fmt.Errorf("insert wishlist item: %w", err)
	}
	return nil
}

func (r *Repository) RemoveFromWishlist(ctx context.Context, ownerID, productID string) error {
	query := `DELETE FROM wishlist_items WHERE owner_id = $1 AND product_id = $2`

	res, err := r.db.ExecContext(ctx, query, ownerID, productID)
	if err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrLineNotFound
	}
	return nil
}
