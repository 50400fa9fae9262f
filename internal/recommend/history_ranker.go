package recommend

import (
	"context"
	"sort"

	"storefront/internal/domain"
)

// historyDepth bounds how much browsing history feeds the ranking.
const historyDepth = 50

// HistorySource provides a user's recently viewed product ids, most recent
// first.
type HistorySource interface {
	BrowsingHistory(ctx context.Context, userID string, limit int) ([]string, error)
}

// HistoryRanker ranks candidates by how strongly their category overlaps
// with the categories of products the user has viewed. It is the
// personalized signal of the recommendation pipeline; a store failure
// surfaces as an error and the caller degrades to the fallback.
type HistoryRanker struct {
	history HistorySource
}

// NewHistoryRanker creates a HistoryRanker over the given history source.
func NewHistoryRanker(history HistorySource) *HistoryRanker {
	return &HistoryRanker{history: history}
}

// Rank returns candidates whose category the user has shown interest in,
// strongest interest first. Products the user already viewed and the anchor
// product are excluded. With no usable history the result is empty, which
// leaves all slots to the fallback.
func (r *HistoryRanker) Rank(ctx context.Context, candidates []*domain.Product, userID, anchorID string, limit int) ([]*domain.Product, error) {
	viewedIDs, err := r.history.BrowsingHistory(ctx, userID, historyDepth)
	if err != nil {
		return nil, err
	}
	if len(viewedIDs) == 0 {
		return []*domain.Product{}, nil
	}

	viewed := make(map[string]bool, len(viewedIDs))
	for _, id := range viewedIDs {
		viewed[id] = true
	}

	// Weight categories by how many viewed products fall into them.
	categoryWeight := make(map[string]int)
	for _, p := range candidates {
		if viewed[p.ID] && p.Category != "" {
			categoryWeight[p.Category]++
		}
	}
	if len(categoryWeight) == 0 {
		return []*domain.Product{}, nil
	}

	type scored struct {
		product *domain.Product
		weight  int
	}
	ranked := []scored{}
	for _, p := range candidates {
		if p.ID == anchorID || viewed[p.ID] {
			continue
		}
		if w := categoryWeight[p.Category]; w > 0 {
			ranked = append(ranked, scored{product: p, weight: w})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].weight != ranked[j].weight {
			return ranked[i].weight > ranked[j].weight
		}
		return ranked[i].product.PopularityScore() > ranked[j].product.PopularityScore()
	})

	if limit > len(ranked) {
		limit = len(ranked)
	}

	result := make([]*domain.Product, 0, limit)
	for _, s := range ranked[:limit] {
		result = append(result, s.product)
	}

	return result, nil
}
