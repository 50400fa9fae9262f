package domain

// Answers is the structured input collected by the shopping assistant quiz:
// a category filter, a price range, a free-text purpose tag, a minimum
// rating threshold, and an optional brand keyword preference.
type Answers struct {
	Category    string  `json:"category"`
	MinPrice    float64 `json:"minPrice"`
	MaxPrice    float64 `json:"maxPrice"`
	Purpose     string  `json:"purpose"`
	MinRating   float64 `json:"minRating"`
	PreferBrand bool    `json:"preferBrand"`
	Brand       string  `json:"brand"`
}
