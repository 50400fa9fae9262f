// Package catalog implements the in-memory product query engine: category,
// search and price filtering, sorting, and pagination over a bounded fetch
// from the backing store.
package catalog

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"storefront/internal/domain"
)

// Sort keys accepted by Apply. Anything else falls back to SortNewest.
const (
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
)

// CategoryAll disables category filtering.
const CategoryAll = "all"

// Query holds the filter, sort and pagination parameters of a product
// listing request.
type Query struct {
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
	Limit    int
}

// ParseQuery extracts a Query from URL parameters. Unparseable numeric
// values are ignored rather than rejected; a missing or invalid limit
// becomes defaultLimit.
func ParseQuery(values url.Values, defaultLimit int) Query {
	q := Query{
		Category: values.Get("category"),
		Search:   values.Get("search"),
		Sort:     values.Get("sort"),
		Limit:    defaultLimit,
	}

	if raw := values.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			q.Limit = limit
		}
	}
	if raw := values.Get("minPrice"); raw != "" {
		if min, err := strconv.ParseFloat(raw, 64); err == nil {
			q.MinPrice = &min
		}
	}
	if raw := values.Get("maxPrice"); raw != "" {
		if max, err := strconv.ParseFloat(raw, 64); err == nil {
			q.MaxPrice = &max
		}
	}

	return q
}

// Apply filters, sorts and paginates the product list. The input slice is
// not modified. Filtering order: category, search, price; the limit is
// applied strictly after sorting.
func (q Query) Apply(products []*domain.Product) []*domain.Product {
	filtered := make([]*domain.Product, 0, len(products))

	search := strings.ToLower(q.Search)
	for _, p := range products {
		if q.Category != "" && q.Category != CategoryAll && p.Category != q.Category {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		price := p.Price.Float64()
		if q.MinPrice != nil && price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && price > *q.MaxPrice {
			continue
		}
		filtered = append(filtered, p)
	}

	sortProducts(filtered, q.Sort)

	limit := q.Limit
	if limit <= 0 {
		limit = len(filtered)
	}
	if limit > len(filtered) {
		limit = len(filtered)
	}

	return filtered[:limit]
}

func matchesSearch(p *domain.Product, search string) bool {
	return strings.Contains(strings.ToLower(p.Name), search) ||
		strings.Contains(strings.ToLower(p.Description), search) ||
		strings.Contains(strings.ToLower(p.Category), search)
}

// sortProducts orders the slice in place. Ties keep their original relative
// order.
func sortProducts(products []*domain.Product, key string) {
	switch key {
	case SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.Float64() < products[j].Price.Float64()
		})
	case SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.Float64() > products[j].Price.Float64()
		})
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	default: // SortNewest and unknown keys
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		})
	}
}
