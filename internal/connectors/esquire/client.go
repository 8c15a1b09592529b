package esquire

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the Esquire trade API endpoint. Override with FEED_BASE_URL.
const DefaultBaseURL = "https://api.esquire.co.za"

// DefaultPageSize is the largest page the trade API serves.
const DefaultPageSize = 100

// Product is one record as the Esquire trade API returns it. Prices come
// excl VAT; stock is exact per branch.
type Product struct {
	ID           int64             `json:"id"`
	SKU          string            `json:"sku"`
	Name         string            `json:"name"`
	Model        string            `json:"model"`
	Brand        string            `json:"brand"`
	Category     string            `json:"category"`
	Description  string            `json:"description"`
	PriceExclVAT float64           `json:"price_excl_vat"`
	RetailPrice  float64           `json:"retail_price"`
	StockJHB     int               `json:"stock_jhb"`
	StockCPT     int               `json:"stock_cpt"`
	Images       []string          `json:"images"`
	Specs        map[string]string `json:"specifications"`
	Discontinued bool              `json:"discontinued"`
}

type productsResponse struct {
	Products []Product `json:"products"`
}

// Client pages through the trade API with since_id cursor continuation.
type Client struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
}

func NewClient(baseURL string, pageSize int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if pageSize <= 0 {
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

// FetchPage returns the next batch of products after sinceID. An empty
// batch means the catalog is exhausted.
func (c *Client) FetchPage(ctx context.Context, sinceID int64) ([]Product, error) {
	url := fmt.Sprintf("%s/api/v1/products?since_id=%d&limit=%d", c.baseURL, sinceID, c.pageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("trade API request failed: %d - %s", resp.StatusCode, string(body))
	}

	var productsResp productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&productsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return productsResp.Products, nil
}
