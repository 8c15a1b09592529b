package esquire

import (
	"context"
	"log/slog"

	"github.com/audioworx/feedsync/internal/runner"
)

// Source walks the Esquire trade API with a since_id cursor. The cursor
// lives on the source, not in any global state, so each run starts fresh.
type Source struct {
	client     *Client
	supplierID int64
	sinceID    int64
	logger     *slog.Logger
}

func NewSource(client *Client, supplierID int64) *Source {
	return &Source{
		client:     client,
		supplierID: supplierID,
		logger:     slog.Default().With("component", "esquire"),
	}
}

func (s *Source) Name() string {
	return SupplierSlug
}

// Open is a no-op; the trade API needs no login.
func (s *Source) Open(ctx context.Context) error {
	return nil
}

func (s *Source) NextPage(ctx context.Context) (*runner.Page, error) {
	records, err := s.client.FetchPage(ctx, s.sinceID)
	if err != nil {
		return nil, err
	}

	page := &runner.Page{RawCount: len(records)}
	if len(records) == 0 {
		return page, nil
	}

	s.sinceID = records[len(records)-1].ID
	s.logger.Debug("fetched page", "records", len(records), "cursor", s.sinceID)

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
