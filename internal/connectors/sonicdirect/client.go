package sonicdirect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the Sonic Direct Shopify storefront. Override with FEED_BASE_URL.
const DefaultBaseURL = "https://sonicdirect.co.za"

// DefaultPageSize is Shopify's maximum page size for the public products feed.
const DefaultPageSize = 250

// Product mirrors the Shopify storefront products.json shape.
type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Handle      string    `json:"handle"`
	BodyHTML    string    `json:"body_html"`
	Vendor      string    `json:"vendor"`
	ProductType string    `json:"product_type"`
	Variants    []Variant `json:"variants"`
	Images      []Image   `json:"images"`
}

type Variant struct {
	ID             int64  `json:"id"`
	SKU            string `json:"sku"`
	Title          string `json:"title"`
	Price          string `json:"price"`
	CompareAtPrice string `json:"compare_at_price"`
	Available      bool   `json:"available"`
}

type Image struct {
	Src string `json:"src"`
}

type productsResponse struct {
	Products []Product `json:"products"`
}

// Client fetches the public Shopify product feed page by page.
type Client struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
}

func NewClient(baseURL string, pageSize int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if pageSize <= 0 || pageSize > DefaultPageSize {
		pageSize = DefaultPageSize
	}

	return &Client{
		baseURL:  baseURL,
		pageSize: pageSize,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) PageSize() int {
	return c.pageSize
}

// FetchPage returns one page of the storefront feed. Shopify uses explicit
// page numbers here, starting at 1; an empty page means exhausted.
func (c *Client) FetchPage(ctx context.Context, page int) ([]Product, error) {
	url := fmt.Sprintf("%s/collections/all/products.json?limit=%d&page=%d", c.baseURL, c.pageSize, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("storefront request failed: %d - %s", resp.StatusCode, string(body))
	}

	var productsResp productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&productsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return productsResp.Products, nil
}
