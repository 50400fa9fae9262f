package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCartRepository_AddAccumulatesQuantity(t *testing.T) {
	repo := NewCartRepository(testDB)
	ctx := context.Background()
	userID := uuid.New().String()
	insertTestUser(t, userID)

	if err := repo.Add(ctx, userID, "prod-1", 2); err != nil {
		t.Fatalf("Failed to add cart item: %v", err)
	}
	if err := repo.Add(ctx, userID, "prod-1", 3); err != nil {
		t.Fatalf("Failed to re-add cart item: %v", err)
	}

	items, err := repo.Items(ctx, userID)
	if err != nil {
		t.Fatalf("Failed to load cart: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one cart line, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Errorf("expected accumulated quantity 5, got %d", items[0].Quantity)
	}
}

func TestCartRepository_AddNormalizesQuantity(t *testing.T) {
	repo := NewCartRepository(testDB)
	ctx := context.Background()
	userID := uuid.New().String()
	insertTestUser(t, userID)

	if err := repo.Add(ctx, userID, "prod-1", -7); err != nil {
		t.Fatalf("Failed to add cart item: %v", err)
	}

	items, err := repo.Items(ctx, userID)
	if err != nil {
		t.Fatalf("Failed to load cart: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 1 {
		t.Errorf("expected a single line with quantity 1, got %+v", items)
	}
}

func TestCartRepository_SetQuantityReplacesValue(t *testing.T) {
	repo := NewCartRepository(testDB)
	ctx := context.Background()
	userID := uuid.New().String()
	insertTestUser(t, userID)

	if err := repo.Add(ctx, userID, "prod-1", 2); err != nil {
		t.Fatalf("Failed to add cart item: %v", err)
	}
	if err := repo.SetQuantity(ctx, userID, "prod-1", 9); err != nil {
		t.Fatalf("Failed to set quantity: %v", err)
	}

	items, _ := repo.Items(ctx, userID)
	if len(items) != 1 || items[0].Quantity != 9 {
		t.Errorf("expected quantity 9, got %+v", items)
	}

	if err := repo.SetQuantity(ctx, userID, "missing", 1); err != ErrCartItemNotFound {
		t.Errorf("expected ErrCartItemNotFound for an unknown line, got %v", err)
	}
}

func TestCartRepository_ItemsOldestFirst(t *testing.T) {
	repo := NewCartRepository(testDB)
	ctx := context.Background()
	userID := uuid.New().String()
	insertTestUser(t, userID)

	for _, productID := range []string{"prod-a", "prod-b", "prod-c"} {
		if err := repo.Add(ctx, userID, productID, 1); err != nil {
			t.Fatalf("Failed to add %s: %v", productID, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	items, err := repo.Items(ctx, userID)
	if err != nil {
		t.Fatalf("Failed to load cart: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(items))
	}
	if items[0].ProductID != "prod-a" || items[2].ProductID != "prod-c" {
		t.Errorf("expected insertion order, got %+v", items)
	}
}

func TestCartRepository_RemoveAndClear(t *testing.T) {
	repo := NewCartRepository(testDB)
	ctx := context.Background()
	userID := uuid.New().String()
	insertTestUser(t, userID)

	_ = repo.Add(ctx, userID, "prod-1", 1)
	_ = repo.Add(ctx, userID, "prod-2", 1)

	if err := repo.Remove(ctx, userID, "prod-1"); err != nil {
		t.Fatalf("Failed to remove cart item: %v", err)
	}
	if err := repo.Remove(ctx, userID, "prod-1"); err != ErrCartItemNotFound {
		t.Errorf("expected ErrCartItemNotFound for a removed line, got %v", err)
	}

	if err := repo.Clear(ctx, userID); err != nil {
		t.Fatalf("Failed to clear cart: %v", err)
	}
	items, _ := repo.Items(ctx, userID)
	if len(items) != 0 {
		t.Errorf("expected an empty cart after clear, got %d lines", len(items))
	}
}
