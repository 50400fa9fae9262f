package transport

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddCartItemRequest represents the add-to-cart payload
type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest represents a quantity update
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// SyncCartRequest carries the client-held cart pushed at login time.
type SyncCartRequest struct {
	Items []AddCartItemRequest `json:"items"`
}

// CartResponse is the cart payload inside the response envelope.
type CartResponse struct {
	Items    []domain.CartItem     `json:"items"`
	Failures []service.SyncFailure `json:"failures,omitempty"`
}

// CartHandler handles cart operations for authenticated users and, when a
// session id is supplied, for guests via the session-keyed guest store.
type CartHandler struct {
	cart   *service.CartService
	guests *service.GuestCartStore // nil when Redis is not configured
	logger *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cart *service.CartService, guests *service.GuestCartStore, logger *zap.Logger) *CartHandler {
	return &CartHandler{cart: cart, guests: guests, logger: logger}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router, optionalAuth, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/", h.Get)
			r.Post("/", h.Add)
			r.Put("/{productId}", h.Update)
			r.Delete("/{productId}", h.Remove)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/sync", h.Sync)
			r.Delete("/", h.Clear)
		})
	})
}

// guestSession returns the guest session id when guest carts are usable.
func (h *CartHandler) guestSession(r *http.Request) string {
	if h.guests == nil {
		return ""
	}
	return r.Header.Get("X-Session-Id")
}

// Get handles reading the cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		items, err := h.cart.Items(r.Context(), userID)
		if err != nil {
			h.logger.Error("Failed to load cart", zap.String("user_id", userID), zap.Error(err))
			middleware.RespondInternalError(w, "error fetching cart", err)
			return
		}
		middleware.RespondSuccess(w, http.StatusOK, CartResponse{Items: items})
		return
	}

	sessionID := h.guestSession(r)
	if sessionID == "" {
		middleware.RespondError(w, http.StatusUnauthorized, "no token provided, authorization required")
		return
	}

	items, err := h.guests.Items(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to load guest cart", zap.Error(err))
		middleware.RespondInternalError(w, "error fetching cart", err)
		return
	}
	middleware.RespondSuccess(w, http.StatusOK, CartResponse{Items: items})
}

// Add handles adding a product to the cart
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if userID, ok := middleware.GetUserID(r.Context()); ok {
		if err := h.cart.Add(r.Context(), userID, req.ProductID, req.Quantity); err != nil {
			h.logger.Error("Failed to add cart item", zap.String("user_id", userID), zap.Error(err))
			middleware.RespondInternalError(w, "error adding to cart", err)
			return
		}
		middleware.RespondMessage(w, http.StatusCreated, "item added to cart", nil)
		return
	}

	sessionID := h.guestSession(r)
	if sessionID == "" {
		middleware.RespondError(w, http.StatusUnauthorized, "no token provided, authorization required")
		return
	}

	if err := h.guests.Add(r.Context(), sessionID, req.ProductID, req.Quantity); err != nil {
		h.logger.Error("Failed to add guest cart item", zap.Error(err))
		middleware.RespondInternalError(w, "error adding to cart", err)
		return
	}
	middleware.RespondMessage(w, http.StatusCreated, "item added to cart", nil)
}

// Update handles replacing a cart line's quantity
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var req UpdateCartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if userID, ok := middleware.GetUserID(r.Context()); ok {
		if err := h.cart.SetQuantity(r.Context(), userID, productID, req.Quantity); err != nil {
			if err == repository.ErrCartItemNotFound {
				middleware.RespondError(w, http.StatusNotFound, "cart item not found")
				return
			}
			h.logger.Error("Failed to update cart item", zap.String("user_id", userID), zap.Error(err))
			middleware.RespondInternalError(w, "error updating cart", err)
			return
		}
		middleware.RespondMessage(w, http.StatusOK, "cart item updated", nil)
		return
	}

	sessionID := h.guestSession(r)
	if sessionID == "" {
		middleware.RespondError(w, http.StatusUnauthorized, "no token provided, authorization required")
		return
	}

	if err := h.guests.SetQuantity(r.Context(), sessionID, productID, req.Quantity); err != nil {
		if err == service.ErrGuestCartItemNotFound {
			middleware.RespondError(w, http.StatusNotFound, "cart item not found")
			return
		}
		h.logger.Error("Failed to update guest cart item", zap.Error(err))
		middleware.RespondInternalError(w, "error updating cart", err)
		return
	}
	middleware.RespondMessage(w, http.StatusOK, "cart item updated", nil)
}

// Remove handles deleting a cart line
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	if userID, ok := middleware.GetUserID(r.Context()); ok {
		if err := h.cart.Remove(r.Context(), userID, productID); err != nil {
			if err == repository.ErrCartItemNotFound {
				middleware.RespondError(w, http.StatusNotFound, "cart item not found")
				return
			}
			h.logger.Error("Failed to remove cart item", zap.String("user_id", userID), zap.Error(err))
			middleware.RespondInternalError(w, "error removing from cart", err)
			return
		}
		middleware.RespondMessage(w, http.StatusOK, "item removed from cart", nil)
		return
	}

	sessionID := h.guestSession(r)
	if sessionID == "" {
		middleware.RespondError(w, http.StatusUnauthorized, "no token provided, authorization required")
		return
	}

	if err := h.guests.Remove(r.Context(), sessionID, productID); err != nil {
		if err == service.ErrGuestCartItemNotFound {
			middleware.RespondError(w, http.StatusNotFound, "cart item not found")
			return
		}
		h.logger.Error("Failed to remove guest cart item", zap.Error(err))
		middleware.RespondInternalError(w, "error removing from cart", err)
		return
	}
	middleware.RespondMessage(w, http.StatusOK, "item removed from cart", nil)
}

// Clear handles emptying the authenticated user's cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.cart.Clear(r.Context(), userID); err != nil {
		h.logger.Error("Failed to clear cart", zap.String("user_id", userID), zap.Error(err))
		middleware.RespondInternalError(w, "error clearing cart", err)
		return
	}
	middleware.RespondMessage(w, http.StatusOK, "cart cleared", nil)
}

// Sync handles login-time reconciliation between the client-held cart and
// the server cart.
func (h *CartHandler) Sync(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SyncCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	local := make([]domain.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		local = append(local, domain.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	items, failures, err := h.cart.SyncOnLogin(r.Context(), userID, local)
	if err != nil {
		h.logger.Error("Cart sync failed", zap.String("user_id", userID), zap.Error(err))
		middleware.RespondInternalError(w, "error syncing cart", err)
		return
	}

	middleware.RespondSuccess(w, http.StatusOK, CartResponse{Items: items, Failures: failures})
}
