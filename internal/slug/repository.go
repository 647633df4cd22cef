package slug

import (
	"context"
	"database/sql"
	"fmt"

	"multitoko-be/internal/logger"

	"go.uber.org/zap"
)

var tables = map[Entity]string{
	EntityProduct:  "products",
	EntityStore:    "stores",
	EntityCategory: "categories",
}

type repository struct {
	db *sql.DB
}

// NewRepository returns a Checker backed by the slug columns of the catalog tables.
func NewRepository(db *sql.DB) Checker {
	return &repository{db: db}
}

func (r *repository) Exists(ctx context.Context, entity Entity, slug string, excludeID string) (bool, error) {
	table, ok := tables[entity]
	if !ok {
		return false, fmt.Errorf("unknown slug entity %q", entity)
	}

	query := fmt.Sprintf(
		`SELECT EXISTS(SELECT 1 FROM %s WHERE slug = $1 AND ($2 = '' OR id::text <> $2))`,
		table,
	)

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		logger.FromCtx(ctx).Error("slug existence check failed",
			zap.String("entity", string(entity)),
			zap.String("slug", slug),
			zap.Error(err),
		)
		return false, err
	}

	return exists, nil
}
