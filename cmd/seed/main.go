package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/domain"
	"storefront/internal/logger"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

//go:embed products.json
var productsJSON []byte

// seedProduct mirrors the loose shape of the sample data files: prices may
// arrive as strings and most fields are optional.
type seedProduct struct {
	Name        string       `json:"name"`
	Price       domain.Price `json:"price"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Stock       *int         `json:"stock"`
	Image       string       `json:"image"`
	Rating      *float64     `json:"rating"`
	Reviews     *int         `json:"reviews"`
}

func (s seedProduct) toProduct() domain.Product {
	p := domain.Product{
		Name:        s.Name,
		Price:       s.Price,
		Category:    s.Category,
		Description: s.Description,
		Stock:       100,
		Image:       s.Image,
		Rating:      4.5,
	}
	if p.Category == "" {
		p.Category = "General"
	}
	if p.Image == "" {
		p.Image = "https://via.placeholder.com/400"
	}
	if s.Stock != nil {
		p.Stock = *s.Stock
	}
	if s.Rating != nil {
		p.Rating = *s.Rating
	}
	if s.Reviews != nil {
		p.Reviews = *s.Reviews
	}
	return p
}

func main() {
	extraFile := flag.String("file", "", "path to an additional products JSON file to seed alongside the embedded set")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Printf("No .env file found: %v\n", err)
	}

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	dbService, err := database.New(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer dbService.Close()

	if err := database.RunMigrations(dbService.DB(), "migrations", log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	var seeds []seedProduct
	if err := json.Unmarshal(productsJSON, &seeds); err != nil {
		log.Fatal("Failed to parse seed data", zap.Error(err))
	}

	if *extraFile != "" {
		raw, err := os.ReadFile(*extraFile)
		if err != nil {
			log.Fatal("Failed to read seed file", zap.String("file", *extraFile), zap.Error(err))
		}
		var extra []seedProduct
		if err := json.Unmarshal(raw, &extra); err != nil {
			log.Fatal("Failed to parse seed file", zap.String("file", *extraFile), zap.Error(err))
		}
		seeds = append(seeds, extra...)
	}

	products := repository.NewProductRepository(dbService.DB())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log.Info("Seeding products", zap.Int("count", len(seeds)))

	for _, seed := range seeds {
		product := seed.toProduct()
		product.ID = uuid.New().String()
		now := time.Now()
		product.CreatedAt = now
		product.UpdatedAt = now
		if err := products.Create(ctx, &product); err != nil {
			log.Error("Failed to seed product", zap.String("name", product.Name), zap.Error(err))
			continue
		}
		log.Info("Seeded product", zap.String("name", product.Name), zap.String("id", product.ID))
	}

	log.Info("Seeding complete")
}
