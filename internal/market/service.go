// AngelaMos | 2026
// service.go

package market

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/condoview/api/internal/core"
)

type CheckoutRequest struct {
	PaymentMethod  string `json:"payment_method"  validate:"required,oneof=pix credit_card debit_card cash"`
	DeliveryWindow string `json:"delivery_window" validate:"omitempty,max=120"`
	Notes          string `json:"notes"           validate:"omitempty,max=1000"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

type Service struct {
	catalog *CatalogClient
	cart    *CartStore
	orders  OrderRepository
	logger  *slog.Logger
}

func NewService(
	catalog *CatalogClient,
	cart *CartStore,
	orders OrderRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		catalog: catalog,
		cart:    cart,
		orders:  orders,
		logger:  logger,
	}
}

func (s *Service) Products(ctx context.Context, limit, skip int) (*ProductPage, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	if skip < 0 {
		skip = 0
	}
	return s.catalog.Products(ctx, limit, skip)
}

func (s *Service) ProductsByCategory(ctx context.Context, category string) (*ProductPage, error) {
	if category == "" {
		return nil, fmt.Errorf("category required: %w", core.ErrInvalidInput)
	}
	return s.catalog.ProductsByCategory(ctx, category)
}

func (s *Service) SearchProducts(ctx context.Context, query string) (*ProductPage, error) {
	if query == "" {
		return nil, fmt.Errorf("search query required: %w", core.ErrInvalidInput)
	}
	return s.catalog.SearchProducts(ctx, query)
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.catalog.Categories(ctx)
}

func (s *Service) GetCart(ctx context.Context, userID string) ([]CartItem, error) {
	return s.cart.Get(ctx, userID)
}

func (s *Service) SaveCart(ctx context.Context, userID string, items []CartItem) error {
	return s.cart.Put(ctx, userID, items)
}

func (s *Service) ClearCart(ctx context.Context, userID string) error {
	return s.cart.Clear(ctx, userID)
}

// Checkout turns the stored cart into an order and empties the cart. An empty
// cart is rejected rather than producing a zero-value order.
func (s *Service) Checkout(
	ctx context.Context,
	userID, condominiumID string,
	req CheckoutRequest,
) (*Order, error) {
	if condominiumID == "" {
		return nil, fmt.Errorf("condominium scope required: %w", core.ErrInvalidInput)
	}

	items, err := s.cart.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("cart is empty: %w", core.ErrInvalidInput)
	}

	order := &Order{
		ID:             uuid.NewString(),
		UserID:         userID,
		CondominiumID:  condominiumID,
		Status:         OrderPending,
		PaymentMethod:  req.PaymentMethod,
		DeliveryWindow: req.DeliveryWindow,
		Notes:          req.Notes,
	}

	orderItems := make([]OrderItem, 0, len(items))
	for _, item := range items {
		order.TotalCents += item.PriceCents * int64(item.Quantity)
		orderItems = append(orderItems, OrderItem{
			ID:         uuid.NewString(),
			OrderID:    order.ID,
			ProductID:  item.ProductID,
			Title:      item.Title,
			PriceCents: item.PriceCents,
			Quantity:   item.Quantity,
		})
	}

	if err := s.orders.CreateOrder(ctx, order, orderItems); err != nil {
		return nil, err
	}

	if err := s.cart.Clear(ctx, userID); err != nil {
		// The order exists; a stale cart is an inconvenience, not a failure.
		s.logger.Warn("clear cart after checkout failed",
			slog.String("user_id", userID),
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("order created",
		slog.String("order_id", order.ID),
		slog.String("user_id", userID),
		slog.Int64("total_cents", order.TotalCents),
	)

	return order, nil
}

func (s *Service) ListMyOrders(ctx context.Context, userID string) ([]Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

func (s *Service) ListCondominiumOrders(
	ctx context.Context,
	condominiumID string,
) ([]Order, error) {
	if condominiumID == "" {
		return nil, fmt.Errorf("condominium scope required: %w", core.ErrInvalidInput)
	}

	orders, err := s.orders.ListByCondominium(ctx, condominiumID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

// UpdateOrderStatus moves an order along its lifecycle. Delivered and
// cancelled are terminal.
func (s *Service) UpdateOrderStatus(
	ctx context.Context,
	orderID, condominiumID, status string,
) (*Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.CondominiumID != condominiumID {
		return nil, fmt.Errorf("order belongs to another condominium: %w", core.ErrForbidden)
	}

	if order.Status == OrderDelivered || order.Status == OrderCancelled {
		return nil, fmt.Errorf(
			"order is %s and cannot change status: %w",
			order.Status, core.ErrInvalidInput,
		)
	}

	order.Status = status
	if err := s.orders.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}
