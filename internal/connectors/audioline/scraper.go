package audioline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultBaseURL is the Audioline dealer storefront. Override with FEED_BASE_URL.
const DefaultBaseURL = "https://audioline.co.za"

// DefaultPageSize is how many product cards one shop page carries.
const DefaultPageSize = 24

// Product is one card scraped off a shop category page.
type Product struct {
	Name    string
	SKU     string
	Price   float64
	URL     string
	Image   string
	InStock bool
}

// Scraper walks the /shop/page/N/ category pages of the WooCommerce
// storefront. The HTTP client carries the session cookie the Authenticator
// obtained, so dealer prices are visible.
type Scraper struct {
	client   *http.Client
	baseURL  string
	pageSize int
}

// NewHTTPClient builds the shared cookie-carrying client the Authenticator
// and Scraper must both use.
func NewHTTPClient() (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &http.Client{
		Jar:     jar,
		Timeout: 30 * time.Second,
	}, nil
}

func NewScraper(client *http.Client, baseURL string, pageSize int) *Scraper {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &Scraper{
		client:   client,
		baseURL:  baseURL,
		pageSize: pageSize,
	}
}

func (s *Scraper) PageSize() int {
	return s.pageSize
}

// FetchPage scrapes one shop page, starting at 1. WooCommerce answers 404
// past the last page, which is reported as an empty page, not an error.
func (s *Scraper) FetchPage(ctx context.Context, page int) ([]Product, error) {
	url := s.baseURL + "/shop/"
	if page > 1 {
		url = fmt.Sprintf("%s/shop/page/%d/", s.baseURL, page)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shop page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("shop page request failed: %d - %s", resp.StatusCode, string(body))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse shop page %d: %w", page, err)
	}

	return parseProductCards(doc), nil
}

func parseProductCards(doc *goquery.Document) []Product {
	var products []Product

	doc.Find("ul.products li.product").Each(func(_ int, card *goquery.Selection) {
		var p Product

		p.Name = strings.TrimSpace(card.Find(".woocommerce-loop-product__title").Text())
		p.URL, _ = card.Find("a.woocommerce-LoopProduct-link").Attr("href")
		p.Image, _ = card.Find("img").First().Attr("src")
		p.InStock = !card.HasClass("outofstock")

		p.SKU, _ = card.Find("a.add_to_cart_button").Attr("data-product_sku")
		if p.SKU == "" {
			p.SKU = skuFromURL(p.URL)
		}

		// Sale prices render two amounts; ins holds the effective one.
		priceText := card.Find(".price ins .woocommerce-Price-amount").First().Text()
		if priceText == "" {
			priceText = card.Find(".price .woocommerce-Price-amount").First().Text()
		}
		p.Price = parsePrice(priceText)

		if p.Name != "" {
			products = append(products, p)
		}
	})

	return products
}

var priceCleaner = regexp.MustCompile(`[^\d.]`)

// parsePrice turns a rendered amount like "R 12,345.00" into a float.
func parsePrice(text string) float64 {
	cleaned := priceCleaner.ReplaceAllString(strings.ReplaceAll(text, ",", ""), "")
	if cleaned == "" {
		return 0
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}

	return price
}

// skuFromURL falls back to the product slug when the card carries no SKU.
func skuFromURL(productURL string) string {
	trimmed := strings.TrimRight(productURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return ""
	}
	return trimmed[idx+1:]
}
