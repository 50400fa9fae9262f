package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Price is a float64 that tolerates string-encoded JSON input. Catalog data
// imported from older sources stores some prices as strings, so decoding
// coerces them; an unparseable value becomes 0.
type Price float64

// UnmarshalJSON accepts both numeric and string representations.
func (p *Price) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*p = 0
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			*p = 0
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			*p = 0
			return nil
		}
		*p = Price(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*p = 0
		return nil
	}
	*p = Price(f)
	return nil
}

// Float64 returns the numeric value.
func (p Price) Float64() float64 {
	return float64(p)
}

// Product represents a product in the catalog. IDs are opaque strings
// rather than UUIDs because catalog rows keep the document ids they were
// imported with.
type Product struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       Price     `json:"price" db:"price"`
	Category    string    `json:"category" db:"category"`
	Image       string    `json:"image" db:"image"`
	Stock       int       `json:"stock" db:"stock"`
	Rating      float64   `json:"rating" db:"rating"`
	Reviews     int       `json:"reviews" db:"reviews"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// PopularityScore is the rating-weighted review count used by the
// recommendation fallback ordering.
func (p *Product) PopularityScore() float64 {
	return p.Rating * float64(p.Reviews)
}
