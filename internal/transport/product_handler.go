package transport

import (
	"net/http"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/recommend"
	"storefront/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	Name             string       `json:"name" validate:"required"`
	Price            domain.Price `json:"price" validate:"required"`
	Category         string       `json:"category" validate:"required"`
	Description      string       `json:"description"`
	ShortDescription string       `json:"shortDescription"`
	Stock            int          `json:"stock" validate:"gte=0"`
	Image            string       `json:"image"`
}

// UpdateProductRequest represents a partial product update; only fields
// present in the body are applied.
type UpdateProductRequest struct {
	Name        *string       `json:"name"`
	Price       *domain.Price `json:"price"`
	Category    *string       `json:"category"`
	Description *string       `json:"description"`
	Stock       *int          `json:"stock"`
	Image       *string       `json:"image"`
	Rating      *float64      `json:"rating"`
	Reviews     *int          `json:"reviews"`
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	products        repository.ProductRepository
	fetchLimit      int
	defaultPageSize int
	logger          *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products repository.ProductRepository, fetchLimit, defaultPageSize int, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products:        products,
		fetchLimit:      fetchLimit,
		defaultPageSize: defaultPageSize,
		logger:          logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		// Public routes
		r.Get("/", h.List)
		r.Get("/categories", h.Categories)
		r.Get("/{id}", h.GetByID)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminMiddleware)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List handles product listing with filtering, sorting and pagination
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := catalog.ParseQuery(r.URL.Query(), h.defaultPageSize)

	// The category filter is pushed down to the fetch; everything else is
	// applied in memory over the bounded result.
	products, err := h.products.FetchAll(r.Context(), query.Category, h.fetchLimit)
	if err != nil {
		h.logger.Error("Failed to fetch products", zap.Error(err))
		middleware.RespondInternalError(w, "error fetching products", err)
		return
	}

	result := query.Apply(products)
	middleware.RespondList(w, http.StatusOK, result, len(result))
}

// Categories handles listing the distinct product categories
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.products.Categories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondInternalError(w, "error fetching categories", err)
		return
	}

	middleware.RespondList(w, http.StatusOK, categories, len(categories))
}

// GetByID handles fetching a single product
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.products.FindByID(r.Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to fetch product", zap.String("id", id), zap.Error(err))
		middleware.RespondInternalError(w, "error fetching product", err)
		return
	}

	middleware.RespondSuccess(w, http.StatusOK, product)
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product creation validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	description := req.Description
	if description == "" && req.ShortDescription != "" {
		description = recommend.GenerateDescription(req.Name, req.Category, req.ShortDescription)
	}
	if description == "" {
		description = req.ShortDescription
	}

	image := req.Image
	if image == "" {
		image = "https://via.placeholder.com/400"
	}

	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       image,
		Stock:       req.Stock,
		Rating:      0,
		Reviews:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.products.Create(r.Context(), product); err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondInternalError(w, "error creating product", err)
		return
	}

	h.logger.Info("Product created", zap.String("id", product.ID), zap.String("name", product.Name))
	middleware.RespondMessage(w, http.StatusCreated, "Product created successfully", product)
}

// Update handles partial product updates
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product update decode failed", zap.Error(err))
		middleware.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.products.FindByID(r.Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to fetch product for update", zap.String("id", id), zap.Error(err))
		middleware.RespondInternalError(w, "error updating product", err)
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.Rating != nil {
		product.Rating = *req.Rating
	}
	if req.Reviews != nil {
		product.Reviews = *req.Reviews
	}
	product.UpdatedAt = time.Now()

	if err := h.products.Update(r.Context(), product); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to update product", zap.String("id", id), zap.Error(err))
		middleware.RespondInternalError(w, "error updating product", err)
		return
	}

	middleware.RespondMessage(w, http.StatusOK, "Product updated successfully", product)
}

// Delete handles product deletion
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.products.Delete(r.Context(), id); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.String("id", id), zap.Error(err))
		middleware.RespondInternalError(w, "error deleting product", err)
		return
	}

	middleware.RespondMessage(w, http.StatusOK, "Product deleted successfully", nil)
}
