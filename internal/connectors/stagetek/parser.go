package stagetek

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Product is one card parsed out of the fully-scrolled catalog DOM. The
// listed price is ex VAT, per the dealer portal convention.
type Product struct {
	Name       string
	SKU        string
	Brand      string
	Category   string
	PriceExVAT float64
	URL        string
	Image      string
}

// ParseCatalog extracts every product card from the accumulated page HTML.
func ParseCatalog(html string) ([]Product, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog HTML: %w", err)
	}

	var products []Product

	doc.Find(catalogItemSelector).Each(func(_ int, card *goquery.Selection) {
		var p Product

		p.Name = strings.TrimSpace(card.Find(".product-card__title").Text())
		p.Brand = strings.TrimSpace(card.Find(".product-card__brand").Text())
		p.Category = strings.TrimSpace(card.Find(".product-card__category").Text())
		p.SKU, _ = card.Attr("data-sku")
		p.URL, _ = card.Find("a").First().Attr("href")
		p.Image, _ = card.Find("img").First().Attr("src")
		p.PriceExVAT = parseExVATPrice(card.Find(".product-card__price").Text())

		if p.Name != "" {
			products = append(products, p)
		}
	})

	return products, nil
}

var priceDigits = regexp.MustCompile(`[\d.]+`)

// parseExVATPrice turns a rendered amount like "R 1 234.00 ex VAT" into a
// float. The portal uses spaces as thousands separators.
func parseExVATPrice(text string) float64 {
	cleaned := strings.NewReplacer(" ", "", "\u00a0", "", ",", "").Replace(text)
	match := priceDigits.FindString(cleaned)
	if match == "" {
		return 0
	}

	price, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}

	return price
}
