package audioline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/audioworx/feedsync/internal/runner"
)

// ErrLoginFailed aborts the run before any fetch when the account wall
// rejects the stored credentials.
var ErrLoginFailed = errors.New("audioline login failed")

// Source scrapes the dealer storefront behind the account wall.
type Source struct {
	auth       *Authenticator
	scraper    *Scraper
	supplierID int64
	page       int
	logger     *slog.Logger
}

func NewSource(auth *Authenticator, scraper *Scraper, supplierID int64) *Source {
	return &Source{
		auth:       auth,
		scraper:    scraper,
		supplierID: supplierID,
		logger:     slog.Default().With("component", "audioline"),
	}
}

func (s *Source) Name() string {
	return SupplierSlug
}

// Open performs the one-time form login. The session cookie lands in the
// shared client's jar and authenticates every page fetch afterwards.
func (s *Source) Open(ctx context.Context) error {
	if !s.auth.Login(ctx) {
		return ErrLoginFailed
	}
	return nil
}

func (s *Source) NextPage(ctx context.Context) (*runner.Page, error) {
	s.page++

	records, err := s.scraper.FetchPage(ctx, s.page)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("scraped page", "page", s.page, "records", len(records))

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
