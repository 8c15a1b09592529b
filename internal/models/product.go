package models

import (
	"time"
)

// UnifiedProduct is the normalized record every connector writes into the
// shared product table. The table is keyed by (supplier_id, supplier_sku);
// SKU is the supplier-qualified code the storefront publishes.
type UnifiedProduct struct {
	ID                    string            `json:"id,omitempty"`
	ProductName           string            `json:"product_name"`
	SKU                   string            `json:"sku"`
	Model                 string            `json:"model,omitempty"`
	Brand                 string            `json:"brand,omitempty"`
	CategoryName          string            `json:"category_name,omitempty"`
	Description           string            `json:"description,omitempty"`
	CostPrice             float64           `json:"cost_price"`
	RetailPrice           float64           `json:"retail_price"`
	SellingPrice          float64           `json:"selling_price"`
	MarginPercentage      float64           `json:"margin_percentage"`
	TotalStock            int               `json:"total_stock"`
	StockJHB              int               `json:"stock_jhb"`
	StockCPT              int               `json:"stock_cpt"`
	Images                []string          `json:"images,omitempty"`
	Specifications        map[string]string `json:"specifications,omitempty"`
	SupplierID            int64             `json:"supplier_id"`
	SupplierSKU           string            `json:"supplier_sku"`
	Active                bool              `json:"active"`
	UseCase               string            `json:"use_case,omitempty"`
	ActiveForConsultation bool              `json:"active_for_consultation"`
	CreatedAt             time.Time         `json:"created_at,omitempty"`
	UpdatedAt             time.Time         `json:"updated_at,omitempty"`
}

// PlaceholderStock is written when a source only exposes a boolean
// in-stock flag instead of an exact count. Known precision loss.
const PlaceholderStock = 10

func (p *UnifiedProduct) Validate() []string {
	var problems []string

	if p.ProductName == "" {
		problems = append(problems, "product name is required")
	}
	if p.SKU == "" {
		problems = append(problems, "sku is required")
	}
	if p.SupplierSKU == "" {
		problems = append(problems, "supplier sku is required")
	}
	if p.SellingPrice < 0 {
		problems = append(problems, "selling price cannot be negative")
	}

	return problems
}

// UpsertOutcome reports what a product write did.
type UpsertOutcome string

const (
	OutcomeCreated UpsertOutcome = "created"
	OutcomeUpdated UpsertOutcome = "updated"
	// OutcomeSkipped means loop prevention refused the write because the
	// SKU already belongs to a non-manual supplier.
	OutcomeSkipped UpsertOutcome = "skipped"
)
