package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/audioworx/feedsync/internal/models"
	"github.com/audioworx/feedsync/internal/ratelimit"
)

var (
	// ErrNoSupplier means the supplier reference row does not exist.
	// Connectors never create suppliers, so this aborts the run.
	ErrNoSupplier = errors.New("supplier row not found")
)

// Page is one batch of fetched and transformed records. RawCount is the
// number of records the source returned before transformation; the runner
// compares it against the page size to detect the last page. Errors holds
// per-record transform failures for the batch.
type Page struct {
	Products []*models.UnifiedProduct
	RawCount int
	Errors   []error
}

// Source is one supplier's catalog. Open performs any login or handshake
// the source needs; NextPage returns batches until an empty page signals
// exhaustion. Implementations are stateful and single-use.
type Source interface {
	Name() string
	Open(ctx context.Context) error
	NextPage(ctx context.Context) (*Page, error)
	Close() error
}

// Store is the slice of the database the runner touches.
type Store interface {
	SupplierBySlug(ctx context.Context, slug string) (*models.Supplier, error)
	SetSupplierStatus(ctx context.Context, supplierID int64, status models.SupplierStatus, lastError string) error
	MarkSyncResult(ctx context.Context, supplierID int64, status models.SupplierStatus, lastError string) error
	StartSession(ctx context.Context, supplierID int64) (*models.SyncSession, error)
	FinalizeSession(ctx context.Context, session *models.SyncSession) error
	UpsertProduct(ctx context.Context, p *models.UnifiedProduct) (models.UpsertOutcome, error)
	UpsertProductGuarded(ctx context.Context, p *models.UnifiedProduct) (models.UpsertOutcome, error)
}

// Options control one sync run.
type Options struct {
	// SupplierSlug identifies the pre-existing supplier row.
	SupplierSlug string
	// DryRun logs intended upserts without performing any write at all,
	// including session and supplier status rows.
	DryRun bool
	// Limit caps the total number of records processed; zero means no cap.
	Limit int
	// PageSize is the expected full-page record count; a shorter page is
	// treated as the last one.
	PageSize int
	// Guarded routes writes through the loop-prevention upsert. Only the
	// Google Merchant connector sets this.
	Guarded bool
}

// Report accumulates the outcome of one run. It is request-scoped: a fresh
// Report per Run, never shared between runs.
type Report struct {
	Processed int
	Added     int
	Updated   int
	Skipped   int
	Errors    []string
	Warnings  []string
}

type Runner struct {
	store   Store
	source  Source
	limiter ratelimit.RateLimiter
	logger  *slog.Logger
	opts    Options
}

func New(store Store, source Source, limiter ratelimit.RateLimiter, opts Options) *Runner {
	return &Runner{
		store:   store,
		source:  source,
		limiter: limiter,
		logger:  slog.Default().With("component", "runner", "supplier", opts.SupplierSlug),
		opts:    opts,
	}
}

// Run executes one full sequential sync: open the source, walk its pages,
// upsert each record, and finalize the session. A connection or auth
// failure aborts before any product write; a page fetch failure ends
// pagination with a warning and the partial result stands; a per-record
// failure is collected and processing continues.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	supplier, err := r.store.SupplierBySlug(ctx, r.opts.SupplierSlug)
	if err != nil {
		return report, fmt.Errorf("%w: %v", ErrNoSupplier, err)
	}

	var session *models.SyncSession
	if !r.opts.DryRun {
		if err := r.store.SetSupplierStatus(ctx, supplier.ID, models.SupplierRunning, ""); err != nil {
			return report, err
		}

		session, err = r.store.StartSession(ctx, supplier.ID)
		if err != nil {
			return report, r.fail(ctx, supplier, nil, report, err)
		}
	}

	if err := r.source.Open(ctx); err != nil {
		err = fmt.Errorf("failed to open source %s: %w", r.source.Name(), err)
		return report, r.fail(ctx, supplier, session, report, err)
	}
	defer r.source.Close()

	if err := r.walkPages(ctx, supplier, report); err != nil {
		return report, r.fail(ctx, supplier, session, report, err)
	}

	r.logger.Info("sync finished",
		"processed", report.Processed,
		"added", report.Added,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"errors", len(report.Errors),
		"warnings", len(report.Warnings))

	if r.opts.DryRun {
		return report, nil
	}

	session.Status = models.SessionSuccess
	session.ProductsAdded = report.Added
	session.ProductsUpdated = report.Updated
	session.ProductsSkipped = report.Skipped
	session.Errors = report.Errors
	session.Warnings = report.Warnings
	if err := r.store.FinalizeSession(ctx, session); err != nil {
		return report, err
	}

	if err := r.store.MarkSyncResult(ctx, supplier.ID, models.SupplierIdle, ""); err != nil {
		return report, err
	}

	return report, nil
}

func (r *Runner) walkPages(ctx context.Context, supplier *models.Supplier, report *Report) error {
	pageNum := 0

	for {
		if err := r.limiter.Wait(ctx); err != nil {
			return err
		}

		pageNum++
		page, err := r.source.NextPage(ctx)
		if err != nil {
			// Existing behaviour carried over from the original scripts:
			// a failed page fetch ends pagination instead of retrying,
			// so the sync may be silently truncated. Recorded as a
			// warning so the session shows the run was incomplete.
			warning := fmt.Sprintf("page %d fetch failed, pagination ended early: %v", pageNum, err)
			r.logger.Warn("pagination ended early", "page", pageNum, "error", err)
			report.Warnings = append(report.Warnings, warning)
			return nil
		}

		if page == nil || page.RawCount == 0 {
			return nil
		}

		for _, recordErr := range page.Errors {
			report.Errors = append(report.Errors, recordErr.Error())
		}

		for _, product := range page.Products {
			if r.opts.Limit > 0 && report.Processed >= r.opts.Limit {
				r.logger.Info("record limit reached", "limit", r.opts.Limit)
				return nil
			}

			r.processRecord(ctx, product, report)
		}

		// A short page means the source is exhausted.
		if r.opts.PageSize > 0 && page.RawCount < r.opts.PageSize {
			return nil
		}
	}
}

func (r *Runner) processRecord(ctx context.Context, product *models.UnifiedProduct, report *Report) {
	report.Processed++

	if problems := product.Validate(); len(problems) > 0 {
		report.Errors = append(report.Errors,
			fmt.Sprintf("invalid record %s: %v", product.SupplierSKU, problems))
		return
	}

	if r.opts.DryRun {
		r.logger.Info("dry run: would upsert",
			"sku", product.SKU,
			"name", product.ProductName,
			"selling_price", product.SellingPrice)
		return
	}

	upsert := r.store.UpsertProduct
	if r.opts.Guarded {
		upsert = r.store.UpsertProductGuarded
	}

	outcome, err := upsert(ctx, product)
	if err != nil {
		report.Errors = append(report.Errors,
			fmt.Sprintf("upsert failed for %s: %v", product.SKU, err))
		return
	}

	switch outcome {
	case models.OutcomeCreated:
		report.Added++
	case models.OutcomeUpdated:
		report.Updated++
	case models.OutcomeSkipped:
		r.logger.Info("skipped, sku owned by another supplier", "sku", product.SKU)
		report.Skipped++
	}
}

// fail finalizes the session and supplier row after a fatal error.
func (r *Runner) fail(ctx context.Context, supplier *models.Supplier, session *models.SyncSession, report *Report, cause error) error {
	r.logger.Error("sync failed", "error", cause)

	if r.opts.DryRun {
		return cause
	}

	if session != nil {
		session.Status = models.SessionFailed
		session.ProductsAdded = report.Added
		session.ProductsUpdated = report.Updated
		session.ProductsSkipped = report.Skipped
		session.Errors = append(report.Errors, cause.Error())
		session.Warnings = report.Warnings
		if err := r.store.FinalizeSession(ctx, session); err != nil {
			r.logger.Error("failed to finalize session", "error", err)
		}
	}

	if err := r.store.MarkSyncResult(ctx, supplier.ID, models.SupplierError, cause.Error()); err != nil {
		r.logger.Error("failed to mark supplier error", "error", err)
	}

	return cause
}
