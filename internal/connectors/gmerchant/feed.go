package gmerchant

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultFeedURL is our own storefront's Google Merchant feed. Override
// with FEED_BASE_URL.
const DefaultFeedURL = "https://www.audioworx.co.za/feeds/google-merchant.xml"

// Feed is the Merchant Center RSS document. Product fields live in the
// g: namespace (http://base.google.com/ns/1.0).
type Feed struct {
	XMLName xml.Name `xml:"rss"`
	Channel Channel  `xml:"channel"`
}

type Channel struct {
	Title string `xml:"title"`
	Link  string `xml:"link"`
	Items []Item `xml:"item"`
}

type Item struct {
	ID           string `xml:"http://base.google.com/ns/1.0 id"`
	Title        string `xml:"title"`
	Description  string `xml:"description"`
	Link         string `xml:"link"`
	ImageLink    string `xml:"http://base.google.com/ns/1.0 image_link"`
	Price        string `xml:"http://base.google.com/ns/1.0 price"`
	Availability string `xml:"http://base.google.com/ns/1.0 availability"`
	Brand        string `xml:"http://base.google.com/ns/1.0 brand"`
	MPN          string `xml:"http://base.google.com/ns/1.0 mpn"`
	Condition    string `xml:"http://base.google.com/ns/1.0 condition"`
	ProductType  string `xml:"http://base.google.com/ns/1.0 product_type"`
}

// Client fetches the merchant feed. The feed is one XML document, not a
// paginated API.
type Client struct {
	feedURL    string
	httpClient *http.Client
}

func NewClient(feedURL string) *Client {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}

	return &Client{
		feedURL: feedURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *Client) FetchFeed(ctx context.Context) (*Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch merchant feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("merchant feed request failed: %d - %s", resp.StatusCode, string(body))
	}

	return ParseFeed(resp.Body)
}

func ParseFeed(r io.Reader) (*Feed, error) {
	var feed Feed
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode merchant feed: %w", err)
	}

	return &feed, nil
}
