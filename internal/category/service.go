package category

import (
	"context"
	"strings"
	"time"

	"multitoko-be/internal/db"
	"multitoko-be/internal/logger"
	"multitoko-be/internal/slug"

	"go.uber.org/zap"
)

const maxSlugAttempts = 3

type Service interface {
	Create(ctx context.Context, name string) (*Category, error)
	List(ctx context.Context, filter *string, limit, page *int32) ([]*Category, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Category, error)
}

type service struct {
	repo  Repository
	slugs *slug.Generator
}

func NewService(repo Repository, slugs *slug.Generator) Service {
	return &service{repo: repo, slugs: slugs}
}

func (s *service) Create(ctx context.Context, name string) (*Category, error) {
	start := time.Now()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateCategory"),
	)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	counter := 0
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		candidate, n, err := s.slugs.GenerateFrom(ctx, name, slug.EntityCategory, "", counter)
		if err != nil {
			return nil, err
		}

		c, err := s.repo.Create(ctx, candidate, name)
		if err == nil {
			log.Info("category created",
				zap.String("category_id", c.ID),
				zap.Duration("duration", time.Since(start)),
			)
			return c, nil
		}

		if constraint, ok := db.UniqueViolation(err); ok && constraint == PgCategoriesSlugKey {
			log.Warn("category slug taken concurrently, retrying", zap.String("slug", candidate))
			counter = n + 1
			continue
		}
		return nil, err
	}

	return nil, ErrSlugRetriesFailed
}

func (s *service) List(ctx context.Context, filter *string, limit, page *int32) ([]*Category, error) {
	return s.repo.List(ctx, filter, limit, page)
}

func (s *service) GetByIDs(ctx context.Context, ids []string) ([]*Category, error) {
	return s.repo.GetByIDs(ctx, ids)
}
