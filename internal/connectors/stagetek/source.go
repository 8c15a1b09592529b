package stagetek

import (
	"context"
	"log/slog"

	"github.com/audioworx/feedsync/internal/runner"
)

// Source collects the whole scroll-driven catalog in one batch; the browser
// session has already paid the cost of loading everything, so there is no
// page boundary to respect afterwards.
type Source struct {
	scraper    *Scraper
	supplierID int64
	done       bool
	logger     *slog.Logger
}

func NewSource(scraper *Scraper, supplierID int64) *Source {
	return &Source{
		scraper:    scraper,
		supplierID: supplierID,
		logger:     slog.Default().With("component", "stagetek"),
	}
}

func (s *Source) Name() string {
	return SupplierSlug
}

// Open is a no-op; the portal catalog is reachable without login.
func (s *Source) Open(ctx context.Context) error {
	return nil
}

func (s *Source) NextPage(ctx context.Context) (*runner.Page, error) {
	if s.done {
		return &runner.Page{}, nil
	}
	s.done = true

	records, err := s.scraper.FetchCatalog(ctx)
	if err != nil {
		return nil, err
	}

	page := &runner.Page{RawCount: len(records)}
	for _, rec := range records {
		product, err := Transform(rec)
		if err != nil {
			page.Errors = append(page.Errors, err)
			continue
		}
		product.SupplierID = s.supplierID
		page.Products = append(page.Products, product)
	}

	return page, nil
}

func (s *Source) Close() error {
	return nil
}
