package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/avdeev/go-storefront/internal/domain"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const pgForeignKeyViolation = "23503"

func (r *Repository) GetCart(ctx context.Context, ownerID string) ([]domain.CartLine, error) {
	query := `SELECT ci.product_id, p.name, p.image, ci.quantity, p.price, ci.created_at
	          FROM cart_items ci
	          JOIN products p ON p.id = ci.product_id
	          WHERE ci.owner_id = $1
	          ORDER BY ci.created_at`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.ProductID,
			&line.ProductName,
			&line.Image,
			&line.Quantity,
			&line.UnitPrice,
			&line.AddedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart row: %w", err)
		}
		line.Subtotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return lines, nil
}

// AddItem is a single conditional upsert so two concurrent adds for the same
// (owner, product) merge their quantities instead of racing a read-then-write.
func (r *Repository) AddItem(ctx context.Context, ownerID, productID string, quantity int) error {
	query := `INSERT INTO cart_items (owner_id, product_id, quantity, created_at, updated_at)
	          VALUES ($1, $2, $3, NOW(), NOW())
	          ON CONFLICT (owner_id, product_id)
	          DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query, ownerID, productID, quantity)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation {
			return ErrProductNotFound
		}
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

func (r *Repository) UpdateQuantity(ctx context.Context, ownerID, productID string, quantity int) error {
	query := `UPDATE cart_items SET quantity = $3, updated_at = NOW()
	          WHERE owner_id = $1 AND product_id = $2`

	res, err := r.db.ExecContext(ctx, query, ownerID, productID, quantity)
	if err != nil {
		return fmt.Errorf("update cart item quantity: %w", err)
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

func (r *Repository) RemoveItem(ctx context.Context, ownerID, productID string) error {
	query := `DELETE FROM cart_items WHERE owner_id = $1 AND product_id = $2`

	res, err := r.db.ExecContext(ctx, query, ownerID, productID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
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

func (r *Repository) ClearCart(ctx context.Context, ownerID string) error {
	query := `DELETE FROM cart_items WHERE owner_id = $1`

	if _, err := r.db.ExecContext(ctx, query, ownerID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
