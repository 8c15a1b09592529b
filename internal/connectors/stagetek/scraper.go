package stagetek

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/audioworx/feedsync/internal/browser"
)

// DefaultBaseURL is the StageTek dealer portal. Override with FEED_BASE_URL.
const DefaultBaseURL = "https://portal.stagetek.co.za"

const (
	catalogPath         = "/catalogue"
	catalogItemSelector = "li.product-card"
	loadMoreSelector    = `button.catalogue__load-more`

	// settleDelay gives the lazy loader time to append cards after each
	// scroll or click before the count is re-checked.
	settleDelay = 1500 * time.Millisecond

	// maxStalledRounds is how many consecutive no-growth rounds end the
	// scroll loop.
	maxStalledRounds = 2
)

// Scraper drives a headless browser against the portal's scroll-driven
// catalog. The page only renders more cards as the viewport reaches the
// bottom or the "load more" control is clicked, so the whole catalog is
// accumulated in one browser session and parsed in one pass.
type Scraper struct {
	browser *browser.Browser
	baseURL string
	logger  *slog.Logger
}

func NewScraper(b *browser.Browser, baseURL string) *Scraper {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Scraper{
		browser: b,
		baseURL: baseURL,
		logger:  slog.Default().With("component", "stagetek"),
	}
}

// FetchCatalog scrolls the catalog until no new cards appear and returns
// every product found in the final DOM.
func (s *Scraper) FetchCatalog(ctx context.Context) ([]Product, error) {
	page, err := s.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	if err := s.browser.Navigate(page, s.baseURL+catalogPath); err != nil {
		return nil, err
	}

	if err := s.scrollToEnd(ctx, page); err != nil {
		return nil, err
	}

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}

	products, err := ParseCatalog(html)
	if err != nil {
		return nil, err
	}

	s.logger.Info("catalog collected", "products", len(products))
	return products, nil
}

func (s *Scraper) scrollToEnd(ctx context.Context, page playwright.Page) error {
	lastCount := 0
	stalled := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, err := page.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`); err != nil {
			return fmt.Errorf("failed to scroll: %w", err)
		}

		s.clickLoadMore(page)

		time.Sleep(settleDelay)

		count, err := page.Locator(catalogItemSelector).Count()
		if err != nil {
			return fmt.Errorf("failed to count catalog items: %w", err)
		}

		s.logger.Debug("scroll round", "cards", count)

		if count <= lastCount {
			stalled++
			if stalled >= maxStalledRounds {
				return nil
			}
		} else {
			stalled = 0
			lastCount = count
		}
	}
}

// clickLoadMore clicks the pagination control when the portal renders one
// instead of loading on scroll alone. Absence of the button is normal.
func (s *Scraper) clickLoadMore(page playwright.Page) {
	button := page.Locator(loadMoreSelector).First()

	count, err := button.Count()
	if err != nil || count == 0 {
		return
	}

	visible, err := button.IsVisible()
	if err != nil || !visible {
		return
	}

	if err := button.Click(); err != nil {
		s.logger.Debug("load more click failed", "error", err)
	}
}
