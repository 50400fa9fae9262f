package catalog

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func makeProduct(id, name, category string, price float64, rating float64, createdAt time.Time) *domain.Product {
	return &domain.Product{
		ID:        id,
		Name:      name,
		Category:  category,
		Price:     domain.Price(price),
		Rating:    rating,
		CreatedAt: createdAt,
	}
}

func TestParseQuery(t *testing.T) {
	values := url.Values{}
	values.Set("category", "Electronics")
	values.Set("search", "phone")
	values.Set("minPrice", "10")
	values.Set("maxPrice", "500")
	values.Set("sort", "price-low")
	values.Set("limit", "25")

	q := ParseQuery(values, 100)

	if q.Category != "Electronics" || q.Search != "phone" || q.Sort != SortPriceLow {
		t.Errorf("unexpected query: %+v", q)
	}
	if q.MinPrice == nil || *q.MinPrice != 10 {
		t.Errorf("expected minPrice 10, got %v", q.MinPrice)
	}
	if q.MaxPrice == nil || *q.MaxPrice != 500 {
		t.Errorf("expected maxPrice 500, got %v", q.MaxPrice)
	}
	if q.Limit != 25 {
		t.Errorf("expected limit 25, got %d", q.Limit)
	}
}

func TestParseQuery_InvalidNumericsIgnored(t *testing.T) {
	values := url.Values{}
	values.Set("minPrice", "cheap")
	values.Set("maxPrice", "")
	values.Set("limit", "-3")

	q := ParseQuery(values, 100)

	if q.MinPrice != nil || q.MaxPrice != nil {
		t.Errorf("expected nil price bounds, got %v / %v", q.MinPrice, q.MaxPrice)
	}
	if q.Limit != 100 {
		t.Errorf("expected default limit 100, got %d", q.Limit)
	}
}

// Prices imported as strings must sort numerically alongside numeric ones.
func TestApply_MixedPriceRepresentationsSortNumerically(t *testing.T) {
	raw := `[
		{"id":"a","name":"A","price":30},
		{"id":"b","name":"B","price":"10"},
		{"id":"c","name":"C","price":20}
	]`

	var products []*domain.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		t.Fatalf("failed to decode products: %v", err)
	}

	result := Query{Sort: SortPriceLow}.Apply(products)

	got := []string{result[0].ID, result[1].ID, result[2].ID}
	want := []string{"b", "c", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got order %v, want %v", got, want)
		}
	}
}

func TestApply_SearchMatchesNameDescriptionCategory(t *testing.T) {
	now := time.Now()
	products := []*domain.Product{
		makeProduct("1", "Smartphone X", "Electronics", 500, 4, now),
		makeProduct("2", "Desk Lamp", "Home", 40, 4, now),
		makeProduct("3", "Charging Dock", "Phone Accessories", 25, 4, now),
	}
	products[1].Description = "Works great next to your phone"

	result := Query{Search: "PHONE"}.Apply(products)

	if len(result) != 3 {
		ids := make([]string, len(result))
		for i, p := range result {
			ids[i] = p.ID
		}
		t.Errorf("expected case-insensitive match across all fields, got %v", ids)
	}
}

func TestApply_CategoryAllIsNoFilter(t *testing.T) {
	now := time.Now()
	products := []*domain.Product{
		makeProduct("1", "A", "Electronics", 10, 4, now),
		makeProduct("2", "B", "Home", 20, 4, now),
	}

	if got := len((Query{Category: CategoryAll}).Apply(products)); got != 2 {
		t.Errorf("category %q should match everything, got %d products", CategoryAll, got)
	}
	if got := len((Query{Category: "Home"}).Apply(products)); got != 1 {
		t.Errorf("expected 1 product in Home, got %d", got)
	}
}

func TestApply_PriceBoundsAreInclusive(t *testing.T) {
	now := time.Now()
	products := []*domain.Product{
		makeProduct("1", "A", "X", 10, 4, now),
		makeProduct("2", "B", "X", 20, 4, now),
		makeProduct("3", "C", "X", 30, 4, now),
	}

	min, max := 10.0, 20.0
	result := Query{MinPrice: &min, MaxPrice: &max}.Apply(products)

	if len(result) != 2 {
		t.Fatalf("expected 2 products within [10,20], got %d", len(result))
	}
}

func TestApply_UnknownSortFallsBackToNewest(t *testing.T) {
	base := time.Now()
	products := []*domain.Product{
		makeProduct("old", "A", "X", 10, 4, base.Add(-2*time.Hour)),
		makeProduct("new", "B", "X", 20, 4, base),
		makeProduct("mid", "C", "X", 30, 4, base.Add(-1*time.Hour)),
	}

	result := Query{Sort: "bogus"}.Apply(products)

	if result[0].ID != "new" || result[1].ID != "mid" || result[2].ID != "old" {
		t.Errorf("expected newest-first order, got %s %s %s", result[0].ID, result[1].ID, result[2].ID)
	}
}

func genCatalog() gopter.Gen {
	return gen.SliceOf(gopter.CombineGens(
		gen.Identifier(),
		gen.IntRange(0, 100_000),
		gen.IntRange(0, 50),
		gen.OneConstOf("Electronics", "Home", "Sports"),
		gen.IntRange(0, 1_000_000),
	).Map(func(vals []interface{}) *domain.Product {
		return &domain.Product{
			ID:        vals[0].(string),
			Name:      vals[0].(string),
			Price:     domain.Price(float64(vals[1].(int)) / 100),
			Rating:    float64(vals[2].(int)) / 10,
			Category:  vals[3].(string),
			CreatedAt: time.Unix(int64(vals[4].(int)), 0),
		}
	}))
}

func TestProperty_ApplySortsByRequestedKey(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("price-low yields non-decreasing prices", prop.ForAll(
		func(products []*domain.Product) bool {
			result := Query{Sort: SortPriceLow}.Apply(products)
			return isNonDecreasing(result)
		},
		genCatalog(),
	))

	properties.Property("price-high yields non-increasing prices", prop.ForAll(
		func(products []*domain.Product) bool {
			result := Query{Sort: SortPriceHigh}.Apply(products)
			for i := 1; i < len(result); i++ {
				if result[i-1].Price < result[i].Price {
					return false
				}
			}
			return true
		},
		genCatalog(),
	))

	properties.Property("rating yields non-increasing ratings", prop.ForAll(
		func(products []*domain.Product) bool {
			result := Query{Sort: SortRating}.Apply(products)
			for i := 1; i < len(result); i++ {
				if result[i-1].Rating < result[i].Rating {
					return false
				}
			}
			return true
		},
		genCatalog(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func isNonDecreasing(products []*domain.Product) bool {
	for i := 1; i < len(products); i++ {
		if products[i-1].Price > products[i].Price {
			return false
		}
	}
	return true
}

func TestProperty_LimitAppliedAfterFiltersAndSort(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("limit truncates the sorted result", prop.ForAll(
		func(products []*domain.Product, limit int) bool {
			full := Query{Sort: SortPriceLow}.Apply(products)
			limited := Query{Sort: SortPriceLow, Limit: limit}.Apply(products)

			want := limit
			if want <= 0 || want > len(full) {
				want = len(full)
			}
			if len(limited) != want {
				return false
			}

			// The limited result must be a prefix of the full result
			for i := range limited {
				if limited[i].ID != full[i].ID {
					return false
				}
			}
			return true
		},
		genCatalog(),
		gen.IntRange(0, 30),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_FiltersOnlyRemove(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every returned product satisfies the filters", prop.ForAll(
		func(products []*domain.Product, search string, minCents, maxCents int) bool {
			min := float64(minCents) / 100
			max := float64(maxCents) / 100
			q := Query{Search: search, MinPrice: &min, MaxPrice: &max}

			for _, p := range q.Apply(products) {
				price := p.Price.Float64()
				if price < min || price > max {
					return false
				}
				if search != "" {
					needle := strings.ToLower(search)
					if !strings.Contains(strings.ToLower(p.Name), needle) &&
						!strings.Contains(strings.ToLower(p.Description), needle) &&
						!strings.Contains(strings.ToLower(p.Category), needle) {
						return false
					}
				}
			}
			return true
		},
		genCatalog(),
		gen.AlphaString(),
		gen.IntRange(0, 50_000),
		gen.IntRange(50_000, 100_000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
