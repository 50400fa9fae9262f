package service

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"go.uber.org/zap"
)

// SyncFailure reports one cart line that could not be pushed to the server
// during login sync. Sync is best-effort with no atomicity across items, so
// a partial failure leaves the server cart partially synced; failures are
// surfaced here instead of being discarded.
type SyncFailure struct {
	ProductID string `json:"productId"`
	Reason    string `json:"reason"`
}

// CartService implements the server-held cart and the login-time
// synchronization between a pre-login local cart and the server cart.
type CartService struct {
	carts  repository.CartRepository
	logger *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(carts repository.CartRepository, logger *zap.Logger) *CartService {
	return &CartService{carts: carts, logger: logger}
}

// Items returns the user's cart lines.
func (s *CartService) Items(ctx context.Context, userID string) ([]domain.CartItem, error) {
	return s.carts.Items(ctx, userID)
}

// Add puts a product into the cart, accumulating quantity onto an existing
// line. Quantities below 1 are normalized to 1.
func (s *CartService) Add(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	return s.carts.Add(ctx, userID, productID, quantity)
}

// SetQuantity replaces the quantity of a cart line. Quantities below 1 are
// normalized to 1; quantity updates never remove the line.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	return s.carts.SetQuantity(ctx, userID, productID, quantity)
}

// Remove deletes a cart line.
func (s *CartService) Remove(ctx context.Context, userID, productID string) error {
	return s.carts.Remove(ctx, userID, productID)
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.carts.Clear(ctx, userID)
}

// SyncOnLogin reconciles a pre-login local cart with the server cart.
//
// When the server cart is non-empty it wins outright: the returned items
// are the server's and the local cart is discarded, no merge. When the
// server cart is empty, local items are pushed one by one; items that fail
// to push are collected as SyncFailures and the rest still go through.
func (s *CartService) SyncOnLogin(ctx context.Context, userID string, local []domain.CartItem) ([]domain.CartItem, []SyncFailure, error) {
	serverItems, err := s.carts.Items(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load server cart: %w", err)
	}

	if len(serverItems) > 0 {
		return serverItems, nil, nil
	}

	failures := []SyncFailure{}
	for _, item := range local {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		if err := s.carts.Add(ctx, userID, item.ProductID, quantity); err != nil {
			s.logger.Warn("Failed to push local cart item during sync",
				zap.String("user_id", userID),
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			failures = append(failures, SyncFailure{ProductID: item.ProductID, Reason: err.Error()})
		}
	}

	items, err := s.carts.Items(ctx, userID)
	if err != nil {
		return nil, failures, fmt.Errorf("failed to reload cart after sync: %w", err)
	}

	return items, failures, nil
}
