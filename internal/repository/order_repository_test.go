package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

func placeTestOrder(t *testing.T, repo OrderRepository, userID string, total float64, createdAt time.Time, items ...domain.OrderItem) *domain.Order {
	t.Helper()
	order := &domain.Order{
		ID:        uuid.New().String(),
		UserID:    userID,
		Total:     total,
		Status:    domain.OrderStatusPlaced,
		CreatedAt: createdAt,
		Items:     items,
	}
	if err := repo.Create(context.Background(), order); err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	return order
}

func TestOrderRepository_CreateAndFindByID(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()
	userID := uuid.New().String()
	insertTestUser(t, userID)

	order := placeTestOrder(t, repo, userID, 110, time.Now(),
		domain.OrderItem{ProductID: "prod-1", Name: "Lamp", Price: 30, Quantity: 2},
		domain.OrderItem{ProductID: "prod-2", Name: "Mug", Price: 10, Quantity: 5},
	)

	retrieved, err := repo.FindByID(ctx, userID, order.ID)
	if err != nil {
		t.Fatalf("Failed to find order: %v", err)
	}
	if retrieved.Total != 110 || retrieved.Status != domain.OrderStatusPlaced {
		t.Errorf("unexpected order header: %+v", retrieved)
	}
	if len(retrieved.Items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(retrieved.Items))
	}
	byProduct := map[string]domain.OrderItem{}
	for _, item := range retrieved.Items {
		byProduct[item.ProductID] = item
	}
	if byProduct["prod-1"].Name != "Lamp" || byProduct["prod-1"].Price != 30 {
		t.Errorf("expected captured name and price, got %+v", byProduct["prod-1"])
	}
}

func TestOrderRepository_FindByIDScopedToUser(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()
	owner := uuid.New().String()
	other := uuid.New().String()
	insertTestUser(t, owner)
	insertTestUser(t, other)

	order := placeTestOrder(t, repo, owner, 10, time.Now(),
		domain.OrderItem{ProductID: "prod-1", Name: "Lamp", Price: 10, Quantity: 1},
	)

	if _, err := repo.FindByID(ctx, other, order.ID); err != ErrOrderNotFound {
		t.Errorf("expected ErrOrderNotFound for another user's order, got %v", err)
	}
}

func TestOrderRepository_ListByUserNewestFirst(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()
	userID := uuid.New().String()
	insertTestUser(t, userID)

	base := time.Now()
	oldest := placeTestOrder(t, repo, userID, 10, base.Add(-2*time.Hour))
	middle := placeTestOrder(t, repo, userID, 20, base.Add(-time.Hour))
	newest := placeTestOrder(t, repo, userID, 30, base)

	orders, err := repo.ListByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("Failed to list orders: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	if orders[0].ID != newest.ID || orders[1].ID != middle.ID || orders[2].ID != oldest.ID {
		t.Errorf("expected newest first, got %s %s %s", orders[0].ID, orders[1].ID, orders[2].ID)
	}

	limited, err := repo.ListByUser(ctx, userID, 2)
	if err != nil {
		t.Fatalf("Failed to list limited orders: %v", err)
	}
	if len(limited) != 2 || limited[0].ID != newest.ID {
		t.Errorf("expected the limit to keep the newest orders, got %d orders", len(limited))
	}
}
