package category

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"multitoko-be/internal/logger"
	"multitoko-be/internal/utils"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, slug, name string) (*Category, error)
	List(ctx context.Context, filter *string, limit, page *int32) ([]*Category, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Category, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, slug, name string) (*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateCategory"),
		zap.String("slug", slug),
	)

	query := `
		INSERT INTO categories (slug, name)
		VALUES ($1, $2)
		RETURNING id, slug, name
	`

	var c Category
	err := r.db.QueryRowContext(ctx, query, slug, name).Scan(&c.ID, &c.Slug, &c.Name)
	if err != nil {
		log.Error("failed to create category", zap.Error(err))
		return nil, err
	}

	log.Info("success create category", zap.String("category_id", c.ID))
	return &c, nil
}

func (r *repository) List(
	ctx context.Context,
	filter *string,
	limit *int32,
	page *int32,
) ([]*Category, error) {

	finalLimit := int32(20)
	finalPage := int32(1)

	if limit != nil && *limit > 0 {
		finalLimit = *limit
	}
	if page != nil && *page > 0 {
		finalPage = *page
	}

	finalOffset := (finalPage - 1) * finalLimit

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListCategories"),
		zap.String("filter", utils.PtrString(filter)),
		zap.Int32("limit", finalLimit),
		zap.Int32("page", finalPage),
	)

	query := `SELECT c.id, c.slug, c.name FROM categories c`

	where := []string{}
	args := []interface{}{}

	if filter != nil && *filter != "" {
		where = append(where, fmt.Sprintf("c.name ILIKE $%d", len(args)+1))
		args = append(args, "%"+*filter+"%")
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	query += " ORDER BY c.name ASC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, finalLimit, finalOffset)

	log.Debug("executing list categories query", zap.String("query", query))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list categories", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	categories, err := scanCategories(rows)
	if err != nil {
		log.Error("failed to scan categories", zap.Error(err))
		return nil, err
	}
	return categories, nil
}

// GetByIDs returns the categories found among ids. Missing ids are skipped.
func (r *repository) GetByIDs(ctx context.Context, ids []string) ([]*Category, error) {
	if len(ids) == 0 {
		return []*Category{}, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, slug, name FROM categories WHERE id = ANY($1) ORDER BY name ASC`,
		pq.Array(ids),
	)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get categories by ids",
			zap.String("layer", "repository"),
			zap.Strings("ids", ids),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	return scanCategories(rows)
}

func scanCategories(rows *sql.Rows) ([]*Category, error) {
	categories := []*Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}
