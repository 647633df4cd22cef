package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"multitoko-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, s *Store) (*Store, error)
	Update(ctx context.Context, in UpdateStoreInput, slug *string) (*Store, error)
	GetByID(ctx context.Context, id string) (*Store, error)
	GetBySlug(ctx context.Context, slug string) (*Store, error)
	CountProducts(ctx context.Context, storeID string) (int, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const storeColumns = `
		id,
		slug,
		name,
		description,
		theme_primary,
		theme_secondary,
		theme_accent,
		theme_background,
		theme_text,
		whatsapp,
		active,
		created_at,
		updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanStore(row scanner) (*Store, error) {
	var s Store
	err := row.Scan(
		&s.ID,
		&s.Slug,
		&s.Name,
		&s.Description,
		&s.Theme.Primary,
		&s.Theme.Secondary,
		&s.Theme.Accent,
		&s.Theme.Background,
		&s.Theme.Text,
		&s.WhatsApp,
		&s.Active,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Create(ctx context.Context, s *Store) (*Store, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateStore"),
		zap.String("slug", s.Slug),
	)

	query := `
	INSERT INTO stores (
		slug,
		name,
		description,
		theme_primary,
		theme_secondary,
		theme_accent,
		theme_background,
		theme_text,
		whatsapp,
		active
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING` + storeColumns

	created, err := scanStore(r.db.QueryRowContext(ctx, query,
		s.Slug,
		s.Name,
		s.Description,
		s.Theme.Primary,
		s.Theme.Secondary,
		s.Theme.Accent,
		s.Theme.Background,
		s.Theme.Text,
		s.WhatsApp,
		s.Active,
	))
	if err != nil {
		log.Error("failed to create store", zap.Error(err))
		return nil, err
	}

	log.Info("success create store", zap.String("store_id", created.ID))
	return created, nil
}

func (r *repository) Update(ctx context.Context, in UpdateStoreInput, slug *string) (*Store, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateStore"),
		zap.String("store_id", in.ID),
	)

	set := []string{}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if in.Name != nil {
		add("name", *in.Name)
	}
	if slug != nil {
		add("slug", *slug)
	}
	if in.Description != nil {
		add("description", *in.Description)
	}
	if in.Theme != nil {
		add("theme_primary", in.Theme.Primary)
		add("theme_secondary", in.Theme.Secondary)
		add("theme_accent", in.Theme.Accent)
		add("theme_background", in.Theme.Background)
		add("theme_text", in.Theme.Text)
	}
	if in.WhatsApp != nil {
		add("whatsapp", *in.WhatsApp)
	}
	if in.Active != nil {
		add("active", *in.Active)
	}

	if len(set) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	set = append(set, "updated_at = NOW()")
	args = append(args, in.ID)

	query := `UPDATE stores SET ` + strings.Join(set, ", ") +
		fmt.Sprintf(` WHERE id = $%d RETURNING`, len(args)) + storeColumns

	updated, err := scanStore(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStoreNotFound
	}
	if err != nil {
		log.Error("failed to update store", zap.Error(err))
		return nil, err
	}

	log.Info("success update store")
	return updated, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Store, error) {
	return r.getOne(ctx, `SELECT`+storeColumns+` FROM stores WHERE id = $1`, id)
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Store, error) {
	return r.getOne(ctx, `SELECT`+storeColumns+` FROM stores WHERE slug = $1`, slug)
}

func (r *repository) getOne(ctx context.Context, query string, arg string) (*Store, error) {
	s, err := scanStore(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStoreNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get store",
			zap.String("layer", "repository"),
			zap.String("key", arg),
			zap.Error(err),
		)
		return nil, err
	}
	return s, nil
}

func (r *repository) CountProducts(ctx context.Context, storeID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE store_id = $1`, storeID,
	).Scan(&n)
	return n, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	start := time.Now()

	res, err := r.db.ExecContext(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrStoreNotFound
	}

	logger.FromCtx(ctx).Info("store deleted",
		zap.String("store_id", id),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}
