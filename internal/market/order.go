// AngelaMos | 2026
// order.go

package market

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/condoview/api/internal/core"
)

const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

type Order struct {
	ID             string    `db:"id"              json:"id"`
	UserID         string    `db:"user_id"         json:"user_id"`
	CondominiumID  string    `db:"condominium_id"  json:"condominium_id"`
	Status         string    `db:"status"          json:"status"`
	PaymentMethod  string    `db:"payment_method"  json:"payment_method"`
	DeliveryWindow string    `db:"delivery_window" json:"delivery_window,omitempty"`
	Notes          string    `db:"notes"           json:"notes,omitempty"`
	TotalCents     int64     `db:"total_cents"     json:"total_cents"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"      json:"updated_at"`

	Items []OrderItem `db:"-" json:"items,omitempty"`
}

type OrderItem struct {
	ID         string `db:"id"          json:"id"`
	OrderID    string `db:"order_id"    json:"order_id"`
	ProductID  int    `db:"product_id"  json:"product_id"`
	Title      string `db:"title"       json:"title"`
	PriceCents int64  `db:"price_cents" json:"price_cents"`
	Quantity   int    `db:"quantity"    json:"quantity"`
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order, items []OrderItem) error
	GetOrder(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListByCondominium(ctx context.Context, condominiumID string) ([]Order, error)
	UpdateStatus(ctx context.Context, order *Order) error
}

type orderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreateOrder writes the order and its items in one transaction so a failed
// item insert leaves nothing behind.
func (r *orderRepository) CreateOrder(
	ctx context.Context,
	order *Order,
	items []OrderItem,
) error {
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		orderQuery := `
			INSERT INTO orders (
				id, user_id, condominium_id, status, payment_method,
				delivery_window, notes, total_cents
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING created_at, updated_at`

		if err := tx.GetContext(ctx, order, orderQuery,
			order.ID, order.UserID, order.CondominiumID, order.Status,
			order.PaymentMethod, order.DeliveryWindow, order.Notes,
			order.TotalCents,
		); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		itemQuery := `
			INSERT INTO order_items (
				id, order_id, product_id, title, price_cents, quantity
			) VALUES ($1, $2, $3, $4, $5, $6)`

		for _, item := range items {
			if _, err := tx.ExecContext(ctx, itemQuery,
				item.ID, item.OrderID, item.ProductID,
				item.Title, item.PriceCents, item.Quantity,
			); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	order.Items = items
	return nil
}

const orderColumns = `
	id, user_id, condominium_id, status, payment_method,
	delivery_window, notes, total_cents, created_at, updated_at`

func (r *orderRepository) GetOrder(
	ctx context.Context,
	id string,
) (*Order, error) {
	query := `SELECT` + orderColumns + `
		FROM orders
		WHERE id = $1`

	var order Order
	err := r.db.GetContext(ctx, &order, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	if err := r.loadItems(ctx, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, order *Order) error {
	query := `
		SELECT id, order_id, product_id, title, price_cents, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY title`

	if err := r.db.SelectContext(ctx, &order.Items, query, order.ID); err != nil {
		return fmt.Errorf("load order items: %w", err)
	}

	return nil
}

func (r *orderRepository) ListByUser(
	ctx context.Context,
	userID string,
) ([]Order, error) {
	query := `SELECT` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`

	var orders []Order
	if err := r.db.SelectContext(ctx, &orders, query, userID); err != nil {
		return nil, fmt.Errorf("list orders by user: %w", err)
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (r *orderRepository) ListByCondominium(
	ctx context.Context,
	condominiumID string,
) ([]Order, error) {
	query := `SELECT` + orderColumns + `
		FROM orders
		WHERE condominium_id = $1
		ORDER BY created_at DESC`

	var orders []Order
	if err := r.db.SelectContext(ctx, &orders, query, condominiumID); err != nil {
		return nil, fmt.Errorf("list orders by condominium: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) UpdateStatus(
	ctx context.Context,
	order *Order,
) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &order.UpdatedAt, query, order.ID, order.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update order status: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	return nil
}
