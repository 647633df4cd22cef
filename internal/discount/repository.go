package discount

import (
	"context"
	"database/sql"
	"time"

	"multitoko-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, d *Discount) (*Discount, error)
	Delete(ctx context.Context, id string) error
	ListActive(ctx context.Context, t Target, now time.Time) ([]*Discount, error)
	ListByTarget(ctx context.Context, scope Scope, targetID string) ([]*Discount, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const discountColumns = `
		id,
		scope,
		type,
		value,
		priority,
		stackable,
		start_at,
		end_at,
		store_id,
		product_id,
		created_at`

func (r *repository) Create(ctx context.Context, d *Discount) (*Discount, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateDiscount"),
		zap.String("scope", string(d.Scope)),
	)

	query := `
	INSERT INTO discounts (
		scope,
		type,
		value,
		priority,
		stackable,
		start_at,
		end_at,
		store_id,
		product_id
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id, created_at
	`

	out := *d
	err := r.db.QueryRowContext(ctx, query,
		d.Scope,
		d.Type,
		d.Value,
		d.Priority,
		d.Stackable,
		d.StartAt.UTC(),
		d.EndAt.UTC(),
		d.StoreID,
		d.ProductID,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		log.Error("failed to create discount", zap.Error(err))
		return nil, err
	}

	log.Info("success create discount", zap.String("discount_id", out.ID))
	return &out, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM discounts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrDiscountNotFound
	}
	return nil
}

// ListActive returns the discounts active at now for t, oldest first so that
// equal-priority ties resolve in creation order.
func (r *repository) ListActive(ctx context.Context, t Target, now time.Time) ([]*Discount, error) {
	query := `
	SELECT` + discountColumns + `
	FROM discounts
	WHERE (
		scope = 'GLOBAL'
		OR (scope = 'STORE' AND store_id::text = $1)
		OR (scope = 'PRODUCT' AND product_id::text = $2)
	)
	AND start_at <= $3
	AND end_at > $3
	ORDER BY created_at ASC, id ASC
	`

	return r.query(ctx, "ListActiveDiscounts", query, t.StoreID, t.ProductID, now.UTC())
}

func (r *repository) ListByTarget(ctx context.Context, scope Scope, targetID string) ([]*Discount, error) {
	query := `
	SELECT` + discountColumns + `
	FROM discounts
	WHERE scope = $1
	AND (
		($1 = 'GLOBAL')
		OR ($1 = 'STORE' AND store_id::text = $2)
		OR ($1 = 'PRODUCT' AND product_id::text = $2)
	)
	ORDER BY created_at ASC, id ASC
	`

	return r.query(ctx, "ListDiscountsByTarget", query, scope, targetID)
}

func (r *repository) query(ctx context.Context, method, query string, args ...any) ([]*Discount, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", method),
	)

	start := time.Now()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []*Discount
	for rows.Next() {
		var (
			d         Discount
			storeID   sql.NullString
			productID sql.NullString
		)
		if err := rows.Scan(
			&d.ID,
			&d.Scope,
			&d.Type,
			&d.Value,
			&d.Priority,
			&d.Stackable,
			&d.StartAt,
			&d.EndAt,
			&storeID,
			&productID,
			&d.CreatedAt,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		if storeID.Valid {
			d.StoreID = &storeID.String
		}
		if productID.Valid {
			d.ProductID = &productID.String
		}
		out = append(out, &d)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	log.Debug("query success",
		zap.Int("rows", len(out)),
		zap.Duration("duration", time.Since(start)),
	)
	return out, nil
}
