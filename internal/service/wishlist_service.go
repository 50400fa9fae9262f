package service

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"go.uber.org/zap"
)

// WishlistService implements the server-backed wishlist. The wishlist
// persists across sessions; all operations require an authenticated user.
type WishlistService struct {
	wishlists repository.WishlistRepository
	products  repository.ProductRepository
	logger    *zap.Logger
}

// NewWishlistService creates a new WishlistService
func NewWishlistService(wishlists repository.WishlistRepository, products repository.ProductRepository, logger *zap.Logger) *WishlistService {
	return &WishlistService{wishlists: wishlists, products: products, logger: logger}
}

// List returns the user's wishlist hydrated with product details, in the
// order items were added. Entries whose product no longer exists are
// dropped from the result, not errors.
func (s *WishlistService) List(ctx context.Context, userID string) ([]domain.WishlistProduct, error) {
	items, err := s.wishlists.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []domain.WishlistProduct{}, nil
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate wishlist: %w", err)
	}

	byID := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	result := make([]domain.WishlistProduct, 0, len(items))
	for _, item := range items {
		p, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		result = append(result, domain.WishlistProduct{Product: *p, AddedToWishlist: item.AddedAt})
	}

	return result, nil
}

// Toggle adds the product to the wishlist when absent and removes it when
// present, returning whether it ended up added.
//
// The membership check and the mutation are separate statements with no
// concurrency guard; two sessions toggling the same entry at once can
// interleave and drop one of the updates.
func (s *WishlistService) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	has, err := s.wishlists.Has(ctx, userID, productID)
	if err != nil {
		return false, err
	}

	if has {
		if err := s.wishlists.Remove(ctx, userID, productID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.wishlists.Add(ctx, userID, productID); err != nil {
		return false, err
	}
	return true, nil
}

// Clear empties the user's wishlist.
func (s *WishlistService) Clear(ctx context.Context, userID string) error {
	return s.wishlists.Clear(ctx, userID)
}
