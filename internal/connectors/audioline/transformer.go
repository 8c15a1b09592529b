package audioline

import (
	"fmt"
	"math"

	"github.com/audioworx/feedsync/internal/models"
)

const SupplierSlug = "audioline"

const skuPrefix = "ADL-"

// Audioline's scraped website price is their dealer list; our retail sits
// 10% under it and our cost estimate 20% under it.
const (
	retailFactor = 0.90
	costFactor   = 0.80
)

// Transform maps one scraped card to the unified shape. The shop page only
// shows an in-stock badge, so stock falls back to the placeholder quantity.
func Transform(rec Product) (*models.UnifiedProduct, error) {
	if rec.SKU == "" {
		return nil, fmt.Errorf("audioline product %q has no sku", rec.Name)
	}
	if rec.Price <= 0 {
		return nil, fmt.Errorf("audioline product %s has no price", rec.SKU)
	}

	retail := round2(rec.Price * retailFactor)
	cost := round2(rec.Price * costFactor)

	stock := 0
	if rec.InStock {
		stock = models.PlaceholderStock
	}

	var images []string
	if rec.Image != "" {
		images = []string{rec.Image}
	}

	var margin float64
	if retail > 0 {
		margin = round2((retail - cost) / retail * 100)
	}

	return &models.UnifiedProduct{
		ProductName:           rec.Name,
		SKU:                   skuPrefix + rec.SKU,
		CostPrice:             cost,
		RetailPrice:           retail,
		SellingPrice:          retail,
		MarginPercentage:      margin,
		TotalStock:            stock,
		StockJHB:              stock,
		Images:                images,
		SupplierSKU:           rec.SKU,
		Active:                rec.InStock,
		ActiveForConsultation: rec.InStock,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
