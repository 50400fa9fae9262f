package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrEmptyCart = errors.New("cart is empty")

// OrderService implements checkout and order history.
type OrderService struct {
	orders   repository.OrderRepository
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orders repository.OrderRepository, carts repository.CartRepository, products repository.ProductRepository, logger *zap.Logger) *OrderService {
	return &OrderService{orders: orders, carts: carts, products: products, logger: logger}
}

// Checkout places an order from the user's current cart, capturing product
// names and unit prices at purchase time, then clears the cart.
func (s *OrderService) Checkout(ctx context.Context, userID string) (*domain.Order, error) {
	cartItems, err := s.carts.Items(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	ids := make([]string, len(cartItems))
	for i, item := range cartItems {
		ids[i] = item.ProductID
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart products: %w", err)
	}
	byID := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	order := &domain.Order{
		ID:        uuid.New().String(),
		UserID:    userID,
		Status:    domain.OrderStatusPlaced,
		CreatedAt: time.Now(),
	}
	for _, item := range cartItems {
		p, ok := byID[item.ProductID]
		if !ok {
			// Product was removed from the catalog after being carted.
			continue
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price.Float64(),
			Quantity:  item.Quantity,
		})
		order.Total += p.Price.Float64() * float64(item.Quantity)
	}
	if len(order.Items) == 0 {
		return nil, ErrEmptyCart
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		// The order is already placed; a stale cart is recoverable.
		s.logger.Warn("Failed to clear cart after checkout",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	return order, nil
}

// List returns the user's most recent orders.
func (s *OrderService) List(ctx context.Context, userID string, limit int) ([]*domain.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.orders.ListByUser(ctx, userID, limit)
}
