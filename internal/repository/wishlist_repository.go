package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
)

var (
	ErrWishlistItemNotFound = errors.New("wishlist item not found")
)

// WishlistRepository defines the interface for wishlist data access.
//
// Membership checks and mutations are separate statements with no
// optimistic-concurrency guard, matching the storefront's original
// behavior: concurrent toggles of the same entry from two sessions can
// interleave and drop one update.
type WishlistRepository interface {
	Items(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	Has(ctx context.Context, userID, productID string) (bool, error)
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

type wishlistRepository struct {
	db *sql.DB
}

// NewWishlistRepository creates a new instance of WishlistRepository
func NewWishlistRepository(db *sql.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

// Items retrieves the wishlist entries for a user, oldest first
func (r *wishlistRepository) Items(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	query := `
		SELECT product_id, added_at
		FROM wishlist_items
		WHERE user_id = $1
		ORDER BY added_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}
	defer rows.Close()

	items := []domain.WishlistItem{}
	for rows.Next() {
		var item domain.WishlistItem
		if err := rows.Scan(&item.ProductID, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist items: %w", err)
	}

	return items, nil
}

// Has reports whether the product is on the user's wishlist
func (r *wishlistRepository) Has(ctx context.Context, userID, productID string) (bool, error) {
	query := `SELECT 1 FROM wishlist_items WHERE user_id = $1 AND product_id = $2`

	var one int
	err := r.db.QueryRowContext(ctx, query, userID, productID).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check wishlist membership: %w", err)
	}

	return true, nil
}

// Add inserts a wishlist entry; adding an existing entry is a no-op
func (r *wishlistRepository) Add(ctx context.Context, userID, productID string) error {
	query := `
		INSERT INTO wishlist_items (user_id, product_id, added_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, userID, productID, time.Now()); err != nil {
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}

	return nil
}

// Remove deletes a wishlist entry
func (r *wishlistRepository) Remove(ctx context.Context, userID, productID string) error {
	query := `DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrWishlistItemNotFound
	}

	return nil
}

// Clear empties the user's wishlist
func (r *wishlistRepository) Clear(ctx context.Context, userID string) error {
	query := `DELETE FROM wishlist_items WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear wishlist: %w", err)
	}

	return nil
}
