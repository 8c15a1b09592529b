package gmerchant

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/audioworx/feedsync/internal/models"
)

const SupplierSlug = "google-merchant"

// costFactor estimates cost at 20% off retail; the merchant feed carries
// storefront prices only.
const costFactor = 0.80

// Transform maps one feed item to the unified shape. The g:id is the SKU
// exactly as the storefront published it, which is what the loop-prevention
// upsert matches against: if that SKU is owned by a real supplier's sync,
// this record must not overwrite it.
func Transform(item Item) (*models.UnifiedProduct, error) {
	if item.ID == "" {
		return nil, fmt.Errorf("merchant feed item %q has no g:id", item.Title)
	}

	retail, err := parsePrice(item.Price)
	if err != nil {
		return nil, fmt.Errorf("merchant feed item %s: %w", item.ID, err)
	}

	inStock := strings.EqualFold(strings.TrimSpace(item.Availability), "in stock")
	stock := 0
	if inStock {
		stock = models.PlaceholderStock
	}

	var images []string
	if item.ImageLink != "" {
		images = []string{item.ImageLink}
	}

	cost := round2(retail * costFactor)

	var margin float64
	if retail > 0 {
		margin = round2((retail - cost) / retail * 100)
	}

	return &models.UnifiedProduct{
		ProductName:           item.Title,
		SKU:                   item.ID,
		Model:                 item.MPN,
		Brand:                 item.Brand,
		CategoryName:          item.ProductType,
		Description:           item.Description,
		CostPrice:             cost,
		RetailPrice:           retail,
		SellingPrice:          retail,
		MarginPercentage:      margin,
		TotalStock:            stock,
		StockJHB:              stock,
		Images:                images,
		SupplierSKU:           item.ID,
		Active:                inStock,
		ActiveForConsultation: inStock,
	}, nil
}

// parsePrice reads a Merchant price like "12345.00 ZAR".
func parsePrice(text string) (float64, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty g:price")
	}

	price, err := strconv.ParseFloat(strings.ReplaceAll(fields[0], ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid g:price %q: %w", text, err)
	}

	return price, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
