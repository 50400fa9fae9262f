package transport

import (
	"net/http"
	"strconv"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/recommend"
	"storefront/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	// defaultRecommendationCount matches the storefront's product page,
	// which shows eight related items.
	defaultRecommendationCount = 8
	// recommendationPoolSize bounds the candidate fetch for ranking.
	recommendationPoolSize = 100
	defaultQuizPicks       = 5
)

// DescriptionRequest represents the description generation payload
type DescriptionRequest struct {
	Name             string `json:"name"`
	Category         string `json:"category"`
	ShortDescription string `json:"shortDescription"`
}

// QuizRequest carries the assistant quiz answers plus a result cap.
type QuizRequest struct {
	domain.Answers
	Limit int `json:"limit"`
}

// AIHandler handles the recommendation and description endpoints
type AIHandler struct {
	products    repository.ProductRepository
	users       repository.UserRepository
	recommender *recommend.Recommender
	fetchLimit  int
	logger      *zap.Logger
}

// NewAIHandler creates a new AIHandler
func NewAIHandler(products repository.ProductRepository, users repository.UserRepository, recommender *recommend.Recommender, fetchLimit int, logger *zap.Logger) *AIHandler {
	return &AIHandler{
		products:    products,
		users:       users,
		recommender: recommender,
		fetchLimit:  fetchLimit,
		logger:      logger,
	}
}

// RegisterRoutes registers the recommendation routes. The endpoints work
// with or without authentication; extraMiddleware typically carries the
// optional-auth and rate-limit layers.
func (h *AIHandler) RegisterRoutes(r chi.Router, extraMiddleware ...func(http.Handler) http.Handler) {
	r.Route("/api/ai", func(r chi.Router) {
		for _, m := range extraMiddleware {
			r.Use(m)
		}
		r.Get("/recommendations", h.Recommendations)
		r.Post("/description", h.Description)
		r.Post("/quiz", h.Quiz)
	})
}

// Recommendations handles personalized product recommendations
func (h *AIHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("productId")
	category := r.URL.Query().Get("category")

	limit := defaultRecommendationCount
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	userID, _ := middleware.GetUserID(r.Context())

	// Viewing a product while authenticated feeds the browsing history.
	// History failures must not break the recommendation response.
	if userID != "" && productID != "" {
		if err := h.users.AppendBrowsingHistory(r.Context(), userID, productID); err != nil {
			h.logger.Debug("Failed to record browsing history",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}

	candidates, err := h.products.FetchAll(r.Context(), category, recommendationPoolSize)
	if err != nil {
		h.logger.Error("Failed to fetch recommendation candidates", zap.Error(err))
		middleware.RespondInternalError(w, "error fetching recommendations", err)
		return
	}

	recommendations := h.recommender.Recommend(r.Context(), candidates, userID, productID, limit)
	middleware.RespondList(w, http.StatusOK, recommendations, len(recommendations))
}

// Description handles product description generation
func (h *AIHandler) Description(w http.ResponseWriter, r *http.Request) {
	var req DescriptionRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Category == "" {
		middleware.RespondError(w, http.StatusBadRequest, "product name and category are required")
		return
	}

	description := recommend.GenerateDescription(req.Name, req.Category, req.ShortDescription)
	middleware.RespondSuccess(w, http.StatusOK, map[string]string{"description": description})
}

// Quiz handles the shopping assistant: scores the catalog against the quiz
// answers and returns the top picks with their reasons.
func (h *AIHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	var req QuizRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultQuizPicks
	}

	candidates, err := h.products.FetchAll(r.Context(), req.Category, h.fetchLimit)
	if err != nil {
		h.logger.Error("Failed to fetch quiz candidates", zap.Error(err))
		middleware.RespondInternalError(w, "error scoring products", err)
		return
	}

	scored := recommend.ScoreQuiz(candidates, req.Answers)
	if limit > len(scored) {
		limit = len(scored)
	}
	picks := scored[:limit]

	middleware.RespondList(w, http.StatusOK, picks, len(picks))
}
