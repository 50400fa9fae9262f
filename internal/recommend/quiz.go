package recommend

import (
	"fmt"
	"sort"
	"strings"

	"storefront/internal/domain"
)

// ScoredProduct is a quiz result: a product, its accumulated score, and the
// human-readable reasons it was picked, in the order the scoring rules
// fired.
type ScoredProduct struct {
	Product *domain.Product `json:"product"`
	Score   float64         `json:"score"`
	Reasons []string        `json:"reasons"`
}

// ScoreQuiz ranks products against the assistant quiz answers.
//
// Candidates failing the category or minimum-rating filter are dropped
// entirely. The budget window is strict first; when it would empty a
// non-empty base set, it widens to [0.8*min, 1.2*max]. Surviving candidates
// accumulate independent score terms and are returned in descending score
// order, ties keeping their original relative order.
func ScoreQuiz(products []*domain.Product, answers domain.Answers) []ScoredProduct {
	purposeLower := strings.ToLower(strings.TrimSpace(answers.Purpose))
	brandLower := strings.ToLower(strings.TrimSpace(answers.Brand))

	// Hard filters: category and rating floor.
	candidates := []*domain.Product{}
	for _, p := range products {
		categoryOK := answers.Category == "" || answers.Category == "all" || p.Category == answers.Category
		ratingOK := p.Rating >= answers.MinRating
		if categoryOK && ratingOK {
			candidates = append(candidates, p)
		}
	}

	// Budget filter with graceful widening.
	inBudget := func(price, min, max float64) bool {
		return price >= min && price <= max
	}
	strict := []*domain.Product{}
	for _, p := range candidates {
		if inBudget(p.Price.Float64(), answers.MinPrice, answers.MaxPrice) {
			strict = append(strict, p)
		}
	}
	if len(strict) > 0 {
		candidates = strict
	} else {
		relaxed := []*domain.Product{}
		for _, p := range candidates {
			if inBudget(p.Price.Float64(), answers.MinPrice*0.8, answers.MaxPrice*1.2) {
				relaxed = append(relaxed, p)
			}
		}
		candidates = relaxed
	}

	results := make([]ScoredProduct, 0, len(candidates))
	for _, p := range candidates {
		score := 0.0
		reasons := []string{}
		price := p.Price.Float64()
		nameLower := strings.ToLower(p.Name)
		descLower := strings.ToLower(p.Description)

		if answers.Category != "" && answers.Category != "all" && p.Category == answers.Category {
			score += 4
			reasons = append(reasons, fmt.Sprintf("Fits your category: %s", answers.Category))
		}

		if inBudget(price, answers.MinPrice, answers.MaxPrice) {
			score += 3
			reasons = append(reasons, "Recommended because it fits your budget")
		} else {
			score += 1
			reasons = append(reasons, "Close to your budget")
		}

		if purposeLower != "" && (strings.Contains(descLower, purposeLower) || strings.Contains(nameLower, purposeLower)) {
			score += 2
			if purposeLower == "office" {
				reasons = append(reasons, "Popular for office use")
			} else {
				reasons = append(reasons, fmt.Sprintf("Great for %s", answers.Purpose))
			}
		}

		if answers.PreferBrand && brandLower != "" && (strings.Contains(nameLower, brandLower) || strings.Contains(descLower, brandLower)) {
			score += 2
			reasons = append(reasons, "Matches your brand/keyword preference")
		}

		score += (p.Rating / 5) * 2
		if p.Rating >= 4.5 {
			reasons = append(reasons, "Best rated")
		} else if p.Rating >= 4.0 {
			reasons = append(reasons, "Well rated")
		}

		if p.Stock > 0 {
			score += 1
			reasons = append(reasons, "In stock and ready to ship")
		}

		results = append(results, ScoredProduct{Product: p, Score: score, Reasons: reasons})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}
