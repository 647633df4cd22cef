package store

import (
	"context"
	"strings"

	"multitoko-be/internal/db"
	"multitoko-be/internal/logger"
	"multitoko-be/internal/slug"

	"go.uber.org/zap"
)

const maxSlugAttempts = 3

type Service interface {
	Create(ctx context.Context, in NewStoreInput) (*Store, error)
	Update(ctx context.Context, in UpdateStoreInput) (*Store, error)
	GetByID(ctx context.Context, id string) (*Store, error)
	GetBySlug(ctx context.Context, slug string) (*Store, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo  Repository
	slugs *slug.Generator
}

func NewService(repo Repository, slugs *slug.Generator) Service {
	return &service{repo: repo, slugs: slugs}
}

func (s *service) Create(ctx context.Context, in NewStoreInput) (*Store, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateStore"),
	)

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	wa, err := NormalizeWhatsApp(in.WhatsApp)
	if err != nil {
		return nil, err
	}

	st := &Store{
		Name:        name,
		Description: in.Description,
		Theme:       in.Theme.withDefaults(),
		WhatsApp:    wa,
		Active:      in.Active,
	}

	counter := 0
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		st.Slug, counter, err = s.slugs.GenerateFrom(ctx, name, slug.EntityStore, "", counter)
		if err != nil {
			return nil, err
		}

		created, err := s.repo.Create(ctx, st)
		if err == nil {
			return created, nil
		}

		if constraint, ok := db.UniqueViolation(err); ok && constraint == PgStoresSlugKey {
			log.Warn("store slug taken concurrently, retrying",
				zap.String("slug", st.Slug),
				zap.Int("attempt", attempt+1),
			)
			counter++
			continue
		}
		return nil, err
	}

	return nil, ErrSlugRetriesFailed
}

func (s *service) Update(ctx context.Context, in UpdateStoreInput) (*Store, error) {
	if in.ID == "" {
		return nil, ErrStoreNotFound
	}
	if !in.hasAnyField() {
		return nil, ErrNoFieldsToUpdate
	}

	var newSlug *string
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
		in.Name = &name

		generated, err := s.slugs.Generate(ctx, name, slug.EntityStore, in.ID)
		if err != nil {
			return nil, err
		}
		newSlug = &generated
	}

	if in.WhatsApp != nil {
		wa, err := NormalizeWhatsApp(*in.WhatsApp)
		if err != nil {
			return nil, err
		}
		in.WhatsApp = &wa
	}

	if in.Theme != nil {
		theme := in.Theme.withDefaults()
		in.Theme = &theme
	}

	updated, err := s.repo.Update(ctx, in, newSlug)
	if constraint, ok := db.UniqueViolation(err); ok && constraint == PgStoresSlugKey {
		return nil, ErrSlugTaken
	}
	return updated, err
}

func (s *service) GetByID(ctx context.Context, id string) (*Store, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Store, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// Delete refuses to remove a store that still owns products.
func (s *service) Delete(ctx context.Context, id string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteStore"),
		zap.String("store_id", id),
	)

	n, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		log.Error("failed to count store products", zap.Error(err))
		return err
	}
	if n > 0 {
		log.Info("store delete refused", zap.Int("products", n))
		return ErrStoreHasProducts
	}

	err = s.repo.Delete(ctx, id)
	if db.ForeignKeyViolation(err) {
		log.Info("store delete refused, product added concurrently")
		return ErrStoreHasProducts
	}
	return err
}
