package domain

import "time"

// CartItem is one line of a cart. Quantity is always at least 1; quantity
// updates replace the stored value rather than accumulating.
type CartItem struct {
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// WishlistItem is a wishlist entry. Entries are unique per product and keep
// the time they were added; the wishlist persists across sessions.
type WishlistItem struct {
	ProductID string    `json:"productId" db:"product_id"`
	AddedAt   time.Time `json:"addedAt" db:"added_at"`
}

// WishlistProduct is a wishlist entry hydrated with its product.
type WishlistProduct struct {
	Product
	AddedToWishlist time.Time `json:"addedToWishlist"`
}
