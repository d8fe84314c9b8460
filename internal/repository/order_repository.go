package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avdeev/go-storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// CreateOrderFromCart converts the owner's cart into an order inside a single
// transaction. The cart rows are locked with FOR UPDATE, so a second checkout
// for the same owner blocks until the first commits and then finds an empty
// cart. Stock is decremented with a floor check; any failure rolls the whole
// thing back.
func (r *Repository) CreateOrderFromCart(ctx context.Context, ownerID, idempotencyKey string) (*domain.Order, error) {
	if idempotencyKey != "" {
		order, err := r.getOrderByIdempotencyKey(ctx, ownerID, idempotencyKey)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, ErrOrderNotFound) {
			return nil, fmt.Errorf("check idempotency key: %w", err)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin checkout transaction: %w", err)
	}
	defer tx.Rollback()

	lines, err := lockCartLines(ctx, tx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	for _, item := range lines {
		res, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - $2 WHERE id = $1 AND stock >= $2`,
			item.ProductID, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("decrement stock for product %s: %w", item.ProductID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, ErrOutOfStock)
		}

		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	order := &domain.Order{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Status:  domain.OrderStatusPending,
		Total:   total,
		Items:   lines,
	}

	key := sql.NullString{String: idempotencyKey, Valid: idempotencyKey != ""}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (id, owner_id, status, total, idempotency_key, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING created_at`,
		order.ID, order.OwnerID, order.Status, order.Total, key).Scan(&order.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			// Lost the idempotency race; the other request's order wins.
			tx.Rollback()
			return r.getOrderByIdempotencyKey(ctx, ownerID, idempotencyKey)
		}
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for pos, item := range order.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, product_name, quantity, price, position)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			order.ID, item.ProductID, item.ProductName, item.Quantity, item.Price, pos)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM cart_items WHERE owner_id = $1`, ownerID); err != nil {
		return nil, fmt.Errorf("clear cart after order creation: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit checkout transaction: %w", err)
	}

	return order, nil
}

// lockCartLines reads the cart joined with current prices, locking the rows
// for the duration of the transaction. Prices read here are the snapshot that
// ends up on the order; nothing client-supplied is trusted.
func lockCartLines(ctx context.Context, tx *sql.Tx, ownerID string) ([]domain.OrderItem, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT ci.product_id, p.name, ci.quantity, p.price
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.owner_id = $1
		 ORDER BY ci.created_at
		 FOR UPDATE`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("lock cart lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return lines, nil
}

// getOrderByIdempotencyKey is scoped to the owner: keys are client-supplied,
// so the same key used by two different owners names two different orders.
func (r *Repository) getOrderByIdempotencyKey(ctx context.Context, ownerID, key string) (*domain.Order, error) {
	var order domain.Order
	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, status, total, created_at
		 FROM orders WHERE owner_id = $1 AND idempotency_key = $2`,
		ownerID, key).Scan(&order.ID, &order.OwnerID, &order.Status, &order.Total, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by idempotency key: %w", err)
	}

	if err := r.loadOrderItems(ctx, []*domain.Order{&order}); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repository) GetOrder(ctx context.Context, ownerID string, orderID uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, status, total, created_at
		 FROM orders WHERE id = $1 AND owner_id = $2`,
		orderID, ownerID).Scan(&order.ID, &order.OwnerID, &order.Status, &order.Total, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	if err := r.loadOrderItems(ctx, []*domain.Order{&order}); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repository) ListOrders(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, status, total, created_at
		 FROM orders WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query orders by owner: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.OwnerID, &order.Status, &order.Total, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if err := r.loadOrderItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *Repository) loadOrderItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID.String())
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT order_id, product_id, product_name, quantity, price
		 FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID uuid.UUID
		var item domain.OrderItem
		if err := rows.Scan(&orderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.Price); err != nil {
			return fmt.Errorf("scan order item row: %w", err)
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}
	return nil
}
