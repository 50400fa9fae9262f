package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/redis/go-redis/v9"
)

var ErrGuestCartItemNotFound = errors.New("guest cart item not found")

// guestCartTTL is how long an untouched guest cart survives in Redis.
const guestCartTTL = 30 * 24 * time.Hour

// GuestCartStore holds carts for unauthenticated sessions, keyed by the
// caller-supplied session id. The cart is serialized as a JSON array; every
// mutation is a read-modify-write of the whole array, mirroring how the
// pre-login cart behaves as a single client-held collection.
type GuestCartStore struct {
	client *redis.Client
}

// NewGuestCartStore creates a GuestCartStore over the given Redis client.
func NewGuestCartStore(client *redis.Client) *GuestCartStore {
	return &GuestCartStore{client: client}
}

func guestCartKey(sessionID string) string {
	return fmt.Sprintf("guest_cart:%s", sessionID)
}

// Items returns the guest cart, empty when none exists.
func (s *GuestCartStore) Items(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	data, err := s.client.Get(ctx, guestCartKey(sessionID)).Bytes()
	if err == redis.Nil {
		return []domain.CartItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load guest cart: %w", err)
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode guest cart: %w", err)
	}

	return items, nil
}

func (s *GuestCartStore) save(ctx context.Context, sessionID string, items []domain.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode guest cart: %w", err)
	}

	if err := s.client.Set(ctx, guestCartKey(sessionID), data, guestCartTTL).Err(); err != nil {
		return fmt.Errorf("failed to store guest cart: %w", err)
	}

	return nil
}

// Add puts a product into the guest cart, accumulating quantity onto an
// existing line.
func (s *GuestCartStore) Add(ctx context.Context, sessionID, productID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	items, err := s.Items(ctx, sessionID)
	if err != nil {
		return err
	}

	found := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			items[i].UpdatedAt = time.Now()
			found = true
			break
		}
	}
	if !found {
		items = append(items, domain.CartItem{ProductID: productID, Quantity: quantity, UpdatedAt: time.Now()})
	}

	return s.save(ctx, sessionID, items)
}

// SetQuantity replaces the quantity of a guest cart line.
func (s *GuestCartStore) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	items, err := s.Items(ctx, sessionID)
	if err != nil {
		return err
	}

	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			items[i].UpdatedAt = time.Now()
			return s.save(ctx, sessionID, items)
		}
	}

	return ErrGuestCartItemNotFound
}

// Remove deletes a guest cart line.
func (s *GuestCartStore) Remove(ctx context.Context, sessionID, productID string) error {
	items, err := s.Items(ctx, sessionID)
	if err != nil {
		return err
	}

	remaining := items[:0]
	found := false
	for _, item := range items {
		if item.ProductID == productID {
			found = true
			continue
		}
		remaining = append(remaining, item)
	}
	if !found {
		return ErrGuestCartItemNotFound
	}

	return s.save(ctx, sessionID, remaining)
}

// Clear deletes the guest cart entirely.
func (s *GuestCartStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, guestCartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear guest cart: %w", err)
	}
	return nil
}
