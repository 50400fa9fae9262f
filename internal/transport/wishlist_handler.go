package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ToggleWishlistRequest represents the wishlist toggle payload
type ToggleWishlistRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// WishlistHandler handles wishlist operations. All routes require
// authentication; the wishlist has no guest variant.
type WishlistHandler struct {
	wishlist *service.WishlistService
	logger   *zap.Logger
}

// NewWishlistHandler creates a new WishlistHandler
func NewWishlistHandler(wishlist *service.WishlistService, logger *zap.Logger) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist, logger: logger}
}

// RegisterRoutes registers all wishlist routes
func (h *WishlistHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/wishlist", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.List)
		r.Post("/toggle", h.Toggle)
		r.Delete("/", h.Clear)
	})
}

// List handles reading the wishlist with hydrated product details
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	items, err := h.wishlist.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load wishlist", zap.String("user_id", userID), zap.Error(err))
		middleware.RespondInternalError(w, "error fetching wishlist", err)
		return
	}

	middleware.RespondList(w, http.StatusOK, items, len(items))
}

// Toggle handles adding or removing a product from the wishlist
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ToggleWishlistRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	added, err := h.wishlist.Toggle(r.Context(), userID, req.ProductID)
	if err != nil {
		h.logger.Error("Failed to toggle wishlist item",
			zap.String("user_id", userID),
			zap.String("product_id", req.ProductID),
			zap.Error(err),
		)
		middleware.RespondInternalError(w, "error updating wishlist", err)
		return
	}

	message := "removed from wishlist"
	if added {
		message = "added to wishlist"
	}
	middleware.RespondMessage(w, http.StatusOK, message, map[string]interface{}{
		"productId": req.ProductID,
		"added":     added,
	})
}

// Clear handles emptying the wishlist
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.wishlist.Clear(r.Context(), userID); err != nil {
		h.logger.Error("Failed to clear wishlist", zap.String("user_id", userID), zap.Error(err))
		middleware.RespondInternalError(w, "error clearing wishlist", err)
		return
	}

	middleware.RespondMessage(w, http.StatusOK, "wishlist cleared", nil)
}
