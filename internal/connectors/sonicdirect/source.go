package sonicdirect

import (
	"context"
	"log/slog"

	"github.com/audioworx/feedsync/internal/runner"
)

// Source walks the Shopify storefront feed page by page.
type Source struct {
	client     *Client
	supplierID int64
	page       int
	logger     *slog.Logger
}

func NewSource(client *Client, supplierID int64) *Source {
	return &Source{
		client:     client,
		supplierID: supplierID,
		logger:     slog.Default().With("component", "sonicdirect"),
	}
}

func (s *Source) Name() string {
	return SupplierSlug
}

// Open is a no-op; the storefront feed is public.
func (s *Source) Open(ctx context.Context) error {
	return nil
}

func (s *Source) NextPage(ctx context.Context) (*runner.Page, error) {
	s.page++

	records, err := s.client.FetchPage(ctx, s.page)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("fetched page", "page", s.page, "records", len(records))

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
