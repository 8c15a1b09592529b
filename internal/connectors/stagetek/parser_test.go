package stagetek

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogHTML = `<html><body>
<ul class="catalogue__grid">
	<li class="product-card" data-sku="TRS-2X4">
		<a href="https://portal.stagetek.co.za/catalogue/trs-2x4">
			<img src="https://portal.stagetek.co.za/img/trs-2x4.jpg">
		</a>
		<span class="product-card__brand">StageTek</span>
		<h3 class="product-card__title">Truss Segment 2x4m</h3>
		<span class="product-card__category">Rigging</span>
		<span class="product-card__price">R 12 500.00 ex VAT</span>
	</li>
	<li class="product-card" data-sku="CLAMP-50">
		<h3 class="product-card__title">Coupler Clamp 50mm</h3>
		<span class="product-card__price">R&nbsp;185.00 ex VAT</span>
	</li>
	<li class="product-card">
		<h3 class="product-card__title"></h3>
	</li>
</ul>
</body></html>`

func TestParseCatalog(t *testing.T) {
	products, err := ParseCatalog(catalogHTML)
	require.NoError(t, err)
	require.Len(t, products, 2, "nameless card is dropped")

	truss := products[0]
	assert.Equal(t, "Truss Segment 2x4m", truss.Name)
	assert.Equal(t, "TRS-2X4", truss.SKU)
	assert.Equal(t, "StageTek", truss.Brand)
	assert.Equal(t, "Rigging", truss.Category)
	assert.Equal(t, 12500.0, truss.PriceExVAT)
	assert.Equal(t, "https://portal.stagetek.co.za/img/trs-2x4.jpg", truss.Image)

	clamp := products[1]
	assert.Equal(t, "CLAMP-50", clamp.SKU)
	assert.Equal(t, 185.0, clamp.PriceExVAT)
}

func TestParseExVATPrice(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"R 12 500.00 ex VAT", 12500},
		{"R 1 234.50 ex VAT", 1234.5},
		{"R 185.00", 185},
		{"", 0},
		{"contact us", 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, parseExVATPrice(tt.text))
		})
	}
}
