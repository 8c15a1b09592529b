package stagetek

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audioworx/feedsync/internal/models"
)

func TestTransform_Pricing(t *testing.T) {
	tests := []struct {
		name        string
		exVAT       float64
		wantCost    float64
		wantRetail  float64
		wantSelling float64
	}{
		// 100 ex VAT -> 115 incl -> 109.25 discounted -> 110 rounded.
		{name: "hundred rand chain", exVAT: 100, wantCost: 100, wantRetail: 115, wantSelling: 110},
		{name: "truss segment", exVAT: 12500, wantCost: 12500, wantRetail: 14375, wantSelling: 13660},
		{name: "small item", exVAT: 185, wantCost: 185, wantRetail: 212.75, wantSelling: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transform(Product{Name: "Item", SKU: "X-1", PriceExVAT: tt.exVAT})
			require.NoError(t, err)

			assert.Equal(t, tt.wantCost, got.CostPrice)
			assert.Equal(t, tt.wantRetail, got.RetailPrice)
			assert.Equal(t, tt.wantSelling, got.SellingPrice)
		})
	}
}

func TestRoundToTen(t *testing.T) {
	assert.Equal(t, 110.0, roundToTen(109.25))
	assert.Equal(t, 100.0, roundToTen(104.9))
	assert.Equal(t, 110.0, roundToTen(105.1))
	assert.Equal(t, 0.0, roundToTen(0))
}

func TestTransform_Fields(t *testing.T) {
	got, err := Transform(Product{
		Name:       "Coupler Clamp 50mm",
		SKU:        "CLAMP-50",
		Brand:      "StageTek",
		Category:   "Rigging",
		PriceExVAT: 100,
		Image:      "https://portal.stagetek.co.za/img/clamp.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, "STK-CLAMP-50", got.SKU)
	assert.Equal(t, "CLAMP-50", got.SupplierSKU)
	assert.Equal(t, "StageTek", got.Brand)
	assert.Equal(t, "Rigging", got.CategoryName)
	assert.Equal(t, 9.09, got.MarginPercentage)

	// The portal shows no stock at all; everything listed is assumed
	// orderable at the placeholder quantity.
	assert.Equal(t, models.PlaceholderStock, got.TotalStock)
	assert.True(t, got.Active)
}

func TestTransform_Rejects(t *testing.T) {
	t.Run("missing sku", func(t *testing.T) {
		_, err := Transform(Product{Name: "No SKU", PriceExVAT: 100})
		require.Error(t, err)
	})

	t.Run("zero price", func(t *testing.T) {
		_, err := Transform(Product{Name: "POA", SKU: "P-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no price")
	})
}
