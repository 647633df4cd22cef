package discount

import (
	"context"
	"errors"
	"time"

	"multitoko-be/internal/apperror"
	"multitoko-be/internal/db"
	"multitoko-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, d Discount) (*Discount, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, scope Scope, targetID string) ([]*Discount, error)
	// Apply loads the discounts active at now for t and reduces unitPrice.
	Apply(ctx context.Context, t Target, unitPrice int64, now time.Time) (Result, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, d Discount) (*Discount, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateDiscount"),
	)

	if err := d.Validate(); err != nil {
		log.Warn("discount rejected", zap.Error(err))
		return nil, err
	}

	d.StartAt = d.StartAt.UTC()
	d.EndAt = d.EndAt.UTC()

	out, err := s.repo.Create(ctx, &d)
	if db.ForeignKeyViolation(err) {
		log.Info("discount target missing",
			zap.String("scope", string(d.Scope)),
			zap.Stringp("store_id", d.StoreID),
			zap.Stringp("product_id", d.ProductID),
		)
		return nil, ErrTargetNotFound
	}
	return out, err
}

func (s *service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperror.Validation("discount id is required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, ErrDiscountNotFound) {
			logger.FromCtx(ctx).Error("failed to delete discount",
				zap.String("discount_id", id),
				zap.Error(err),
			)
		}
		return err
	}
	return nil
}

func (s *service) List(ctx context.Context, scope Scope, targetID string) ([]*Discount, error) {
	switch scope {
	case ScopeGlobal:
		targetID = ""
	case ScopeStore, ScopeProduct:
		if targetID == "" {
			return nil, apperror.Validation("target id is required for scope %s", scope)
		}
	default:
		return nil, ErrInvalidScope
	}
	return s.repo.ListByTarget(ctx, scope, targetID)
}

func (s *service) Apply(ctx context.Context, t Target, unitPrice int64, now time.Time) (Result, error) {
	discounts, err := s.repo.ListActive(ctx, t, now)
	if err != nil {
		return Result{}, err
	}
	return Apply(discounts, t, unitPrice, now), nil
}
