package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/avdeev/go-storefront/internal/domain"
	"github.com/avdeev/go-storefront/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// IdempotencyKeyHeader carries an optional client token that deduplicates
// checkout retries.
const IdempotencyKeyHeader = "Idempotency-Key"

type CheckoutHandler struct {
	checkout service.CheckoutService
	timeout  time.Duration
}

func NewCheckoutHandler(checkout service.CheckoutService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		timeout:  timeout,
	}
}

type OrderItemResponseDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
}

type OrderResponseDTO struct {
	ID        string                 `json:"id"`
	Status    string                 `json:"status"`
	Total     string                 `json:"total"`
	Items     []OrderItemResponseDTO `json:"items"`
	CreatedAt time.Time              `json:"created_at"`
}

func toOrderResponse(order *domain.Order) OrderResponseDTO {
	items := make([]OrderItemResponseDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponseDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price.StringFixed(2),
		})
	}
	return OrderResponseDTO{
		ID:        order.ID.String(),
		Status:    order.Status.String(),
		Total:     order.Total.StringFixed(2),
		Items:     items,
		CreatedAt: order.CreatedAt,
	}
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	owner := ownerFromContext(r.Context())
	idempotencyKey := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))

	order, err := h.checkout.Checkout(ctx, owner, idempotencyKey)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"order_id": order.ID.String()})
}

func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	owner := ownerFromContext(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a valid UUID")
		return
	}

	order, err := h.checkout.GetOrder(ctx, owner, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	owner := ownerFromContext(r.Context())

	orders, err := h.checkout.ListOrders(ctx, owner)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]OrderResponseDTO, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderResponse(order))
	}
	respondJSON(w, http.StatusOK, out)
}
