package transport

import (
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultOrderPageSize = 20

// OrderHandler handles checkout and order history
type OrderHandler struct {
	orders *service.OrderService
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.List)
		r.Post("/", h.Checkout)
	})
}

// List handles listing the user's most recent orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := defaultOrderPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	orders, err := h.orders.List(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.String("user_id", userID), zap.Error(err))
		middleware.RespondInternalError(w, "error fetching orders", err)
		return
	}

	middleware.RespondList(w, http.StatusOK, orders, len(orders))
}

// Checkout handles placing an order from the current cart
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	order, err := h.orders.Checkout(r.Context(), userID)
	if err != nil {
		if err == service.ErrEmptyCart {
			middleware.RespondError(w, http.StatusBadRequest, "cart is empty")
			return
		}
		h.logger.Error("Checkout failed", zap.String("user_id", userID), zap.Error(err))
		middleware.RespondInternalError(w, "error placing order", err)
		return
	}

	h.logger.Info("Order placed",
		zap.String("user_id", userID),
		zap.String("order_id", order.ID),
		zap.Float64("total", order.Total),
	)
	middleware.RespondMessage(w, http.StatusCreated, "Order placed successfully", order)
}
