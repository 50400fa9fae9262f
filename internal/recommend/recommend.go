// Package recommend implements product ranking: the personalized
// recommendation pipeline with its deterministic fallback, the shopping
// assistant quiz scorer, and the product description generator.
package recommend

import (
	"context"
	"sort"

	"storefront/internal/domain"

	"go.uber.org/zap"
)

// Ranker supplies a personalized ranking signal for a user. Implementations
// may fail; the Recommender treats any failure as "no signal" and degrades
// to the fallback heuristic.
type Ranker interface {
	Rank(ctx context.Context, candidates []*domain.Product, userID, anchorID string, limit int) ([]*domain.Product, error)
}

// Recommender produces up to N recommended products from a candidate list,
// preferring the personalized ranking signal and filling remaining slots
// from the fallback heuristic.
type Recommender struct {
	ranker Ranker
	logger *zap.Logger
}

// NewRecommender creates a Recommender. ranker may be nil, in which case
// every request takes the fallback path.
func NewRecommender(ranker Ranker, logger *zap.Logger) *Recommender {
	return &Recommender{ranker: ranker, logger: logger}
}

// Recommend returns up to limit products. The anchor product, when set, is
// never part of the result. Ranker errors never propagate.
func (r *Recommender) Recommend(ctx context.Context, candidates []*domain.Product, userID, anchorID string, limit int) []*domain.Product {
	if limit <= 0 {
		return []*domain.Product{}
	}

	var primary []*domain.Product
	if r.ranker != nil && userID != "" {
		ranked, err := r.ranker.Rank(ctx, candidates, userID, anchorID, limit)
		if err != nil {
			r.logger.Debug("Ranking signal unavailable, using fallback ranking",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		} else {
			primary = ranked
		}
	}

	if len(primary) >= limit {
		return primary[:limit]
	}

	seen := make(map[string]bool, len(primary))
	for _, p := range primary {
		seen[p.ID] = true
	}

	result := make([]*domain.Product, 0, limit)
	result = append(result, primary...)
	for _, p := range Fallback(candidates, anchorID, len(candidates)) {
		if len(result) >= limit {
			break
		}
		if seen[p.ID] {
			continue
		}
		result = append(result, p)
	}

	return result
}

// Fallback is the deterministic, signal-free ranking. The anchor product is
// excluded from the result; when the anchor has a category, same-category
// candidates come first. Within each partition products are ordered by
// rating x reviews descending, ties keeping their original relative order.
func Fallback(candidates []*domain.Product, anchorID string, n int) []*domain.Product {
	if n <= 0 {
		return []*domain.Product{}
	}

	var anchor *domain.Product
	if anchorID != "" {
		for _, p := range candidates {
			if p.ID == anchorID {
				anchor = p
				break
			}
		}
	}

	var sameCategory, others []*domain.Product
	for _, p := range candidates {
		if anchorID != "" && p.ID == anchorID {
			continue
		}
		if anchor != nil && anchor.Category != "" && p.Category == anchor.Category {
			sameCategory = append(sameCategory, p)
		} else {
			others = append(others, p)
		}
	}

	byPopularity := func(products []*domain.Product) {
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].PopularityScore() > products[j].PopularityScore()
		})
	}
	byPopularity(sameCategory)
	byPopularity(others)

	ranked := append(sameCategory, others...)
	if n > len(ranked) {
		n = len(ranked)
	}

	return ranked[:n]
}
