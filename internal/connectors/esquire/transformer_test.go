package esquire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform_Pricing(t *testing.T) {
	tests := []struct {
		name         string
		priceExclVAT float64
		wantCost     float64
		wantSelling  float64
	}{
		{name: "round hundred", priceExclVAT: 100, wantCost: 115, wantSelling: 138},
		{name: "typical trade price", priceExclVAT: 2499, wantCost: 2873.85, wantSelling: 3448.62},
		{name: "free item", priceExclVAT: 0, wantCost: 0, wantSelling: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transform(Product{
				SKU:          "MIX-12",
				Name:         "Studio Mixer",
				PriceExclVAT: tt.priceExclVAT,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantCost, got.CostPrice)
			assert.Equal(t, tt.wantSelling, got.SellingPrice)
		})
	}
}

func TestTransform_Fields(t *testing.T) {
	got, err := Transform(Product{
		ID:           42,
		SKU:          "AMP-900",
		Name:         "Reference Amplifier",
		Model:        "RA-900",
		Brand:        "Denon",
		Category:     "Amplifiers",
		PriceExclVAT: 1000,
		RetailPrice:  1599,
		StockJHB:     4,
		StockCPT:     7,
		Images:       []string{"https://cdn.esquire.co.za/amp-900.jpg"},
		Specs:        map[string]string{"power": "2x90W"},
	})
	require.NoError(t, err)

	assert.Equal(t, "ESQ-AMP-900", got.SKU)
	assert.Equal(t, "AMP-900", got.SupplierSKU)
	assert.Equal(t, 1150.0, got.CostPrice)
	assert.Equal(t, 1380.0, got.SellingPrice)
	assert.Equal(t, 1599.0, got.RetailPrice, "supplier retail passes through when present")
	assert.Equal(t, 16.67, got.MarginPercentage)

	// Branch stock is exact, not a placeholder.
	assert.Equal(t, 4, got.StockJHB)
	assert.Equal(t, 7, got.StockCPT)
	assert.Equal(t, 11, got.TotalStock)

	assert.True(t, got.Active)
	assert.True(t, got.ActiveForConsultation)
}

func TestTransform_RetailFallsBackToSelling(t *testing.T) {
	got, err := Transform(Product{SKU: "CAB-1", Name: "Speaker Cable", PriceExclVAT: 100})
	require.NoError(t, err)

	assert.Equal(t, got.SellingPrice, got.RetailPrice)
}

func TestTransform_DiscontinuedIsInactive(t *testing.T) {
	got, err := Transform(Product{SKU: "OLD-1", Name: "Legacy Deck", PriceExclVAT: 100, Discontinued: true})
	require.NoError(t, err)

	assert.False(t, got.Active)
	assert.False(t, got.ActiveForConsultation)
}

func TestTransform_Rejects(t *testing.T) {
	t.Run("missing sku", func(t *testing.T) {
		_, err := Transform(Product{ID: 7, Name: "No SKU"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no sku")
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := Transform(Product{SKU: "NEG-1", Name: "Bad Price", PriceExclVAT: -5})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "negative price")
	})
}
