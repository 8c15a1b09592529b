package gmerchant

import (
	"context"
	"log/slog"

	"github.com/audioworx/feedsync/internal/runner"
)

// Source yields the whole merchant feed as one batch. Every write from this
// source must go through the guarded upsert: the feed mirrors our own
// storefront, so without the ownership check it would race the real
// supplier syncs and overwrite their authoritative rows.
type Source struct {
	client     *Client
	supplierID int64
	done       bool
	logger     *slog.Logger
}

func NewSource(client *Client, supplierID int64) *Source {
	return &Source{
		client:     client,
		supplierID: supplierID,
		logger:     slog.Default().With("component", "gmerchant"),
	}
}

func (s *Source) Name() string {
	return SupplierSlug
}

// Open is a no-op; the feed is public.
func (s *Source) Open(ctx context.Context) error {
	return nil
}

func (s *Source) NextPage(ctx context.Context) (*runner.Page, error) {
	if s.done {
		return &runner.Page{}, nil
	}
	s.done = true

	feed, err := s.client.FetchFeed(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("merchant feed fetched", "items", len(feed.Channel.Items))

	page := &runner.Page{RawCount: len(feed.Channel.Items)}
	for _, item := range feed.Channel.Items {
		product, err := Transform(item)
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
