package sonicdirect

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/audioworx/feedsync/internal/models"
)

const SupplierSlug = "sonic-direct"

const skuPrefix = "SND-"

// costFactor estimates our cost at 20% off the storefront retail price.
// Sonic Direct does not expose dealer pricing on the public feed.
const costFactor = 0.80

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Transform maps one Shopify storefront product to the unified shape using
// the primary variant. Retail price passes through as the selling price.
// The feed only says whether a variant is available, not how many are on
// hand, so stock falls back to the placeholder quantity.
func Transform(rec Product) (*models.UnifiedProduct, error) {
	if len(rec.Variants) == 0 {
		return nil, fmt.Errorf("sonic direct product %d has no variants", rec.ID)
	}

	variant := rec.Variants[0]

	supplierSKU := variant.SKU
	if supplierSKU == "" {
		supplierSKU = rec.Handle
	}
	if supplierSKU == "" {
		return nil, fmt.Errorf("sonic direct product %d has no sku or handle", rec.ID)
	}

	retail, err := strconv.ParseFloat(variant.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("sonic direct product %s has invalid price %q: %w", supplierSKU, variant.Price, err)
	}

	cost := round2(retail * costFactor)

	stock := 0
	if variant.Available {
		stock = models.PlaceholderStock
	}

	images := make([]string, 0, len(rec.Images))
	for _, img := range rec.Images {
		images = append(images, img.Src)
	}

	var margin float64
	if retail > 0 {
		margin = round2((retail - cost) / retail * 100)
	}

	return &models.UnifiedProduct{
		ProductName:           rec.Title,
		SKU:                   skuPrefix + supplierSKU,
		Brand:                 rec.Vendor,
		CategoryName:          rec.ProductType,
		Description:           stripTags(rec.BodyHTML),
		CostPrice:             cost,
		RetailPrice:           retail,
		SellingPrice:          retail,
		MarginPercentage:      margin,
		TotalStock:            stock,
		StockJHB:              stock,
		Images:                images,
		SupplierSKU:           supplierSKU,
		Active:                variant.Available,
		ActiveForConsultation: variant.Available,
	}, nil
}

func stripTags(html string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(html, " "))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
