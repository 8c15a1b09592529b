package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/audioworx/feedsync/internal/models"
)

const productColumns = `
		product_name, sku, model, brand, category_name, description,
		cost_price, retail_price, selling_price, margin_percentage,
		total_stock, stock_jhb, stock_cpt, images, specifications,
		supplier_id, supplier_sku, active, use_case, active_for_consultation`

const productConflictUpdate = `
		ON CONFLICT (supplier_id, supplier_sku) DO UPDATE SET
			product_name = EXCLUDED.product_name,
			sku = EXCLUDED.sku,
			model = EXCLUDED.model,
			brand = EXCLUDED.brand,
			category_name = EXCLUDED.category_name,
			description = EXCLUDED.description,
			cost_price = EXCLUDED.cost_price,
			retail_price = EXCLUDED.retail_price,
			selling_price = EXCLUDED.selling_price,
			margin_percentage = EXCLUDED.margin_percentage,
			total_stock = EXCLUDED.total_stock,
			stock_jhb = EXCLUDED.stock_jhb,
			stock_cpt = EXCLUDED.stock_cpt,
			images = EXCLUDED.images,
			specifications = EXCLUDED.specifications,
			active = EXCLUDED.active,
			use_case = EXCLUDED.use_case,
			active_for_consultation = EXCLUDED.active_for_consultation,
			updated_at = NOW()
		RETURNING id, (xmax = 0) AS inserted`

func productArgs(p *models.UnifiedProduct) ([]interface{}, error) {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal images: %w", err)
	}

	specs, err := json.Marshal(p.Specifications)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal specifications: %w", err)
	}

	return []interface{}{
		p.ProductName, p.SKU, p.Model, p.Brand, p.CategoryName, p.Description,
		p.CostPrice, p.RetailPrice, p.SellingPrice, p.MarginPercentage,
		p.TotalStock, p.StockJHB, p.StockCPT, images, specs,
		p.SupplierID, p.SupplierSKU, p.Active, p.UseCase, p.ActiveForConsultation,
	}, nil
}

// UpsertProduct writes a unified product keyed by (supplier_id, supplier_sku)
// as one atomic statement, reporting whether the row was created or updated.
// An outbox event is recorded in the same transaction.
func (db *DB) UpsertProduct(ctx context.Context, p *models.UnifiedProduct) (models.UpsertOutcome, error) {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20)` +
		productConflictUpdate

	args, err := productArgs(p)
	if err != nil {
		return "", err
	}

	var outcome models.UpsertOutcome

	err = db.WithTx(ctx, func(tx pgx.Tx) error {
		var inserted bool
		if err := tx.QueryRow(ctx, query, args...).Scan(&p.ID, &inserted); err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", p.SKU, err)
		}

		if inserted {
			outcome = models.OutcomeCreated
		} else {
			outcome = models.OutcomeUpdated
		}

		return insertProductEvent(ctx, tx, p, outcome)
	})
	if err != nil {
		return "", err
	}

	return outcome, nil
}

// UpsertProductGuarded is the loop-prevention variant used by the Google
// Merchant connector: the write is refused in the same statement when the
// SKU already belongs to a different non-manual supplier, so there is no
// check-then-write window between the ownership test and the insert.
func (db *DB) UpsertProductGuarded(ctx context.Context, p *models.UnifiedProduct) (models.UpsertOutcome, error) {
	query := `
		INSERT INTO products (` + productColumns + `)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		WHERE NOT EXISTS (
			SELECT 1
			FROM products existing
			JOIN suppliers owner ON owner.id = existing.supplier_id
			WHERE existing.sku = $2
			  AND existing.supplier_id <> $16
			  AND owner.is_manual = FALSE
		)` + productConflictUpdate

	args, err := productArgs(p)
	if err != nil {
		return "", err
	}

	var outcome models.UpsertOutcome

	err = db.WithTx(ctx, func(tx pgx.Tx) error {
		var inserted bool
		err := tx.QueryRow(ctx, query, args...).Scan(&p.ID, &inserted)
		if err == pgx.ErrNoRows {
			outcome = models.OutcomeSkipped
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", p.SKU, err)
		}

		if inserted {
			outcome = models.OutcomeCreated
		} else {
			outcome = models.OutcomeUpdated
		}

		return insertProductEvent(ctx, tx, p, outcome)
	})
	if err != nil {
		return "", err
	}

	return outcome, nil
}

func insertProductEvent(ctx context.Context, tx pgx.Tx, p *models.UnifiedProduct, outcome models.UpsertOutcome) error {
	eventType := EventProductUpdated
	if outcome == models.OutcomeCreated {
		eventType = EventProductCreated
	}

	payload, err := json.Marshal(map[string]interface{}{
		"sku":           p.SKU,
		"supplier_id":   p.SupplierID,
		"supplier_sku":  p.SupplierSKU,
		"selling_price": p.SellingPrice,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	event := &OutboxEvent{
		AggregateType: "product",
		AggregateID:   p.SKU,
		EventType:     eventType,
		Payload:       payload,
		TargetStream:  StreamCatalogSync,
	}

	return insertOutboxWithTx(ctx, tx, event)
}

// ProductBySupplierSKU fetches one row by its natural key, nil if absent.
func (db *DB) ProductBySupplierSKU(ctx context.Context, supplierID int64, supplierSKU string) (*models.UnifiedProduct, error) {
	query := `
		SELECT id, ` + productColumns + `, created_at, updated_at
		FROM products
		WHERE supplier_id = $1 AND supplier_sku = $2`

	p := &models.UnifiedProduct{}
	var images, specs []byte

	err := db.pool.QueryRow(ctx, query, supplierID, supplierSKU).Scan(
		&p.ID, &p.ProductName, &p.SKU, &p.Model, &p.Brand, &p.CategoryName, &p.Description,
		&p.CostPrice, &p.RetailPrice, &p.SellingPrice, &p.MarginPercentage,
		&p.TotalStock, &p.StockJHB, &p.StockCPT, &images, &specs,
		&p.SupplierID, &p.SupplierSKU, &p.Active, &p.UseCase, &p.ActiveForConsultation,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return nil, fmt.Errorf("failed to unmarshal images: %w", err)
		}
	}
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &p.Specifications); err != nil {
			return nil, fmt.Errorf("failed to unmarshal specifications: %w", err)
		}
	}

	return p, nil
}

// DeduplicateProducts removes duplicate rows per (supplier_id, supplier_sku),
// keeping the oldest. Run manually; the unique constraint should make this a
// no-op, it exists to clean up rows created before the constraint was added.
func (db *DB) DeduplicateProducts(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM products p
		USING products q
		WHERE p.supplier_id = q.supplier_id
		  AND p.supplier_sku = q.supplier_sku
		  AND p.created_at > q.created_at`

	tag, err := db.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to deduplicate products: %w", err)
	}

	return tag.RowsAffected(), nil
}
