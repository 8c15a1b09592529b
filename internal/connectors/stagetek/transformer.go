package stagetek

import (
	"fmt"
	"math"

	"github.com/audioworx/feedsync/internal/models"
)

const SupplierSlug = "stagetek"

const skuPrefix = "STK-"

// StageTek lists dealer prices ex VAT. Selling price is the incl-VAT price
// with the negotiated 5% dealer discount applied, rounded to the nearest 10
// rand; retail is the plain incl-VAT price.
const (
	vatRate        = 1.15
	dealerDiscount = 0.95
)

// Transform maps one portal card to the unified shape.
// Example chain: ex-VAT 100 -> incl-VAT 115 -> discounted 109.25 -> 110.
func Transform(rec Product) (*models.UnifiedProduct, error) {
	if rec.SKU == "" {
		return nil, fmt.Errorf("stagetek product %q has no sku", rec.Name)
	}
	if rec.PriceExVAT <= 0 {
		return nil, fmt.Errorf("stagetek product %s has no price", rec.SKU)
	}

	inclVAT := rec.PriceExVAT * vatRate
	retail := round2(inclVAT)
	selling := roundToTen(inclVAT * dealerDiscount)
	cost := round2(rec.PriceExVAT)

	var margin float64
	if selling > 0 {
		margin = round2((selling - cost) / selling * 100)
	}

	var images []string
	if rec.Image != "" {
		images = []string{rec.Image}
	}

	return &models.UnifiedProduct{
		ProductName:           rec.Name,
		SKU:                   skuPrefix + rec.SKU,
		Brand:                 rec.Brand,
		CategoryName:          rec.Category,
		CostPrice:             cost,
		RetailPrice:           retail,
		SellingPrice:          selling,
		MarginPercentage:      margin,
		TotalStock:            models.PlaceholderStock,
		StockJHB:              models.PlaceholderStock,
		Images:                images,
		SupplierSKU:           rec.SKU,
		Active:                true,
		ActiveForConsultation: true,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// roundToTen rounds to the nearest 10 currency units.
func roundToTen(v float64) float64 {
	return math.Round(v/10) * 10
}
