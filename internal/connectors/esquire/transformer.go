package esquire

import (
	"fmt"
	"math"

	"github.com/audioworx/feedsync/internal/models"
)

// SupplierSlug matches the pre-existing suppliers row.
const SupplierSlug = "esquire"

const skuPrefix = "ESQ-"

const vatRate = 1.15
const marginFactor = 1.20

// Transform maps one Esquire trade record to the unified shape. Pricing is
// this supplier's contract: cost excl VAT, plus 15% VAT, plus a 20% margin
// on the landed cost.
func Transform(rec Product) (*models.UnifiedProduct, error) {
	if rec.SKU == "" {
		return nil, fmt.Errorf("esquire product %d has no sku", rec.ID)
	}
	if rec.PriceExclVAT < 0 {
		return nil, fmt.Errorf("esquire product %s has negative price", rec.SKU)
	}

	cost := round2(rec.PriceExclVAT * vatRate)
	selling := round2(cost * marginFactor)

	retail := rec.RetailPrice
	if retail <= 0 {
		retail = selling
	}

	var margin float64
	if selling > 0 {
		margin = round2((selling - cost) / selling * 100)
	}

	return &models.UnifiedProduct{
		ProductName:           rec.Name,
		SKU:                   skuPrefix + rec.SKU,
		Model:                 rec.Model,
		Brand:                 rec.Brand,
		CategoryName:          rec.Category,
		Description:           rec.Description,
		CostPrice:             cost,
		RetailPrice:           retail,
		SellingPrice:          selling,
		MarginPercentage:      margin,
		TotalStock:            rec.StockJHB + rec.StockCPT,
		StockJHB:              rec.StockJHB,
		StockCPT:              rec.StockCPT,
		Images:                rec.Images,
		Specifications:        rec.Specs,
		SupplierSKU:           rec.SKU,
		Active:                !rec.Discontinued,
		ActiveForConsultation: !rec.Discontinued,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
