package recommend

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

func catalogProduct(id, category string, rating float64, reviews int) *domain.Product {
	return &domain.Product{
		ID:       id,
		Name:     "Product " + id,
		Category: category,
		Rating:   rating,
		Reviews:  reviews,
	}
}

func TestFallback_ExcludesAnchor(t *testing.T) {
	candidates := []*domain.Product{
		catalogProduct("a", "C", 4, 10),
		catalogProduct("b", "C", 5, 20),
		catalogProduct("c", "D", 3, 5),
	}

	result := Fallback(candidates, "b", 10)

	for _, p := range result {
		if p.ID == "b" {
			t.Fatal("anchor product must not appear in recommendations")
		}
	}
	if len(result) != 2 {
		t.Errorf("expected 2 products, got %d", len(result))
	}
}

func TestFallback_SameCategoryFirstThenPopularity(t *testing.T) {
	candidates := []*domain.Product{
		catalogProduct("anchor", "C", 5, 1000),
		catalogProduct("other1", "D", 5, 900), // most popular overall but wrong category
		catalogProduct("same-low", "C", 3, 10),
		catalogProduct("same-high", "C", 4, 100),
		catalogProduct("other2", "E", 4, 50),
	}

	result := Fallback(candidates, "anchor", 10)

	want := []string{"same-high", "same-low", "other1", "other2"}
	if len(result) != len(want) {
		t.Fatalf("expected %d products, got %d", len(want), len(result))
	}
	for i, id := range want {
		if result[i].ID != id {
			got := make([]string, len(result))
			for j, p := range result {
				got[j] = p.ID
			}
			t.Fatalf("got order %v, want %v", got, want)
		}
	}
}

func TestFallback_NoAnchorRanksByPopularityOnly(t *testing.T) {
	candidates := []*domain.Product{
		catalogProduct("low", "C", 3, 10),   // 30
		catalogProduct("high", "D", 5, 100), // 500
		catalogProduct("mid", "E", 4, 50),   // 200
	}

	result := Fallback(candidates, "", 3)

	if result[0].ID != "high" || result[1].ID != "mid" || result[2].ID != "low" {
		t.Errorf("got order %s %s %s, want high mid low", result[0].ID, result[1].ID, result[2].ID)
	}
}

func TestFallback_LimitAndEmptyInput(t *testing.T) {
	if got := Fallback(nil, "", 5); len(got) != 0 {
		t.Errorf("expected empty result for empty candidates, got %d", len(got))
	}
	if got := Fallback([]*domain.Product{catalogProduct("a", "C", 4, 1)}, "", 0); len(got) != 0 {
		t.Errorf("expected empty result for zero limit, got %d", len(got))
	}

	candidates := []*domain.Product{
		catalogProduct("a", "C", 4, 1),
		catalogProduct("b", "C", 4, 2),
		catalogProduct("c", "C", 4, 3),
	}
	if got := Fallback(candidates, "", 2); len(got) != 2 {
		t.Errorf("expected result truncated to 2, got %d", len(got))
	}
}

type stubRanker struct {
	result []*domain.Product
	err    error
}

func (s *stubRanker) Rank(ctx context.Context, candidates []*domain.Product, userID, anchorID string, limit int) ([]*domain.Product, error) {
	return s.result, s.err
}

func TestRecommend_RankerErrorDegradesToFallback(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	candidates := []*domain.Product{
		catalogProduct("a", "C", 5, 100),
		catalogProduct("b", "C", 4, 50),
	}

	r := NewRecommender(&stubRanker{err: errors.New("history store down")}, logger)
	result := r.Recommend(context.Background(), candidates, "user-1", "", 2)

	if len(result) != 2 {
		t.Fatalf("expected fallback to fill 2 slots, got %d", len(result))
	}
	if result[0].ID != "a" {
		t.Errorf("expected most popular product first, got %s", result[0].ID)
	}
}

func TestRecommend_PrimaryPrependedAndDeduplicated(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	candidates := []*domain.Product{
		catalogProduct("a", "C", 5, 100),
		catalogProduct("b", "C", 4, 50),
		catalogProduct("c", "D", 3, 10),
	}

	// Ranker picks "b"; fallback would rank a, b, c. The result must keep
	// "b" first and never repeat it.
	r := NewRecommender(&stubRanker{result: candidates[1:2]}, logger)
	result := r.Recommend(context.Background(), candidates, "user-1", "", 3)

	if len(result) != 3 {
		t.Fatalf("expected 3 products, got %d", len(result))
	}
	if result[0].ID != "b" {
		t.Errorf("expected ranked product first, got %s", result[0].ID)
	}
	seen := map[string]bool{}
	for _, p := range result {
		if seen[p.ID] {
			t.Fatalf("product %s appears twice", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestRecommend_AnonymousSkipsRanker(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	candidates := []*domain.Product{
		catalogProduct("a", "C", 5, 100),
	}

	// A ranker error would be logged, but anonymous requests must not even
	// consult it.
	r := NewRecommender(&stubRanker{err: errors.New("should not be called")}, logger)
	result := r.Recommend(context.Background(), candidates, "", "", 1)

	if len(result) != 1 || result[0].ID != "a" {
		t.Errorf("expected fallback result for anonymous user, got %v", result)
	}
}

func TestProperty_FallbackNeverReturnsAnchor(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("anchor is excluded for any candidate set", prop.ForAll(
		func(ids []string, anchorIdx int) bool {
			if len(ids) == 0 {
				return true
			}
			candidates := make([]*domain.Product, len(ids))
			for i, id := range ids {
				candidates[i] = catalogProduct(id, "C", 4, i)
			}
			anchorID := ids[anchorIdx%len(ids)]

			for _, p := range Fallback(candidates, anchorID, len(candidates)) {
				if p.ID == anchorID {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

type stubHistory struct {
	ids []string
	err error
}

func (s *stubHistory) BrowsingHistory(ctx context.Context, userID string, limit int) ([]string, error) {
	return s.ids, s.err
}

func TestHistoryRanker_RanksByCategoryInterest(t *testing.T) {
	candidates := []*domain.Product{
		catalogProduct("viewed1", "C", 4, 10),
		catalogProduct("viewed2", "C", 4, 10),
		catalogProduct("viewed3", "D", 4, 10),
		catalogProduct("cand-c", "C", 4, 10),
		catalogProduct("cand-d", "D", 5, 100),
		catalogProduct("cand-e", "E", 5, 1000),
	}

	ranker := NewHistoryRanker(&stubHistory{ids: []string{"viewed1", "viewed2", "viewed3"}})
	result, err := ranker.Rank(context.Background(), candidates, "user-1", "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Category C was viewed twice, D once; E never. Viewed products are
	// excluded regardless of weight.
	want := []string{"cand-c", "cand-d"}
	if len(result) != len(want) {
		got := make([]string, len(result))
		for i, p := range result {
			got[i] = p.ID
		}
		t.Fatalf("got %v, want %v", got, want)
	}
	for i, id := range want {
		if result[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, result[i].ID, id)
		}
	}
}

func TestHistoryRanker_EmptyHistoryYieldsNoSignal(t *testing.T) {
	ranker := NewHistoryRanker(&stubHistory{})
	result, err := ranker.Rank(context.Background(), []*domain.Product{catalogProduct("a", "C", 4, 1)}, "user-1", "", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("expected empty ranking without history, got %d", len(result))
	}
}

func TestHistoryRanker_StoreErrorPropagates(t *testing.T) {
	ranker := NewHistoryRanker(&stubHistory{err: errors.New("connection refused")})
	if _, err := ranker.Rank(context.Background(), nil, "user-1", "", 5); err == nil {
		t.Error("expected store error to propagate")
	}
}
