package store

import (
	"context"
	"errors"
	"testing"

	"multitoko-be/internal/apperror"
	"multitoko-be/internal/slug"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, s *Store) (*Store, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Store), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, in UpdateStoreInput, slug *string) (*Store, error) {
	args := m.Called(ctx, in, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Store), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Store), args.Error(1)
}

func (m *MockRepository) GetBySlug(ctx context.Context, s string) (*Store, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Store), args.Error(1)
}

func (m *MockRepository) CountProducts(ctx context.Context, storeID string) (int, error) {
	args := m.Called(ctx, storeID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// takenSlugs is a slug.Checker over a fixed set of store slugs keyed to ids.
type takenSlugs map[string]string

func (t takenSlugs) Exists(_ context.Context, _ slug.Entity, s string, excludeID string) (bool, error) {
	id, ok := t[s]
	return ok && id != excludeID, nil
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, slug.NewGenerator(takenSlugs{"toko-batik": "s-0"}))

		repo.On("Create", ctx, mock.MatchedBy(func(s *Store) bool {
			return s.Slug == "toko-batik-1" &&
				s.WhatsApp == "628123456789" &&
				s.Theme.Accent == DefaultTheme.Accent &&
				s.Theme.Primary == "#000000"
		})).Return(&Store{ID: "s-1", Slug: "toko-batik-1"}, nil)

		res, err := svc.Create(ctx, NewStoreInput{
			Name:     "  Toko Batik ",
			WhatsApp: "0812 3456 789",
			Theme:    Theme{Primary: "#000000"},
			Active:   true,
		})
		require.NoError(t, err)
		assert.Equal(t, "s-1", res.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Retries on concurrent slug conflict", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, slug.NewGenerator(takenSlugs{}))

		conflict := &pq.Error{Code: "23505", Constraint: PgStoresSlugKey}
		repo.On("Create", ctx, mock.MatchedBy(func(s *Store) bool { return s.Slug == "toko-batik" })).
			Return(nil, conflict).Once()
		repo.On("Create", ctx, mock.MatchedBy(func(s *Store) bool { return s.Slug == "toko-batik-1" })).
			Return(&Store{ID: "s-2", Slug: "toko-batik-1"}, nil).Once()

		res, err := svc.Create(ctx, NewStoreInput{Name: "Toko Batik", WhatsApp: "628123456789"})
		require.NoError(t, err)
		assert.Equal(t, "toko-batik-1", res.Slug)
		repo.AssertExpectations(t)
	})

	t.Run("Gives up after bounded retries", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, slug.NewGenerator(takenSlugs{}))

		repo.On("Create", ctx, mock.Anything).
			Return(nil, &pq.Error{Code: "23505", Constraint: PgStoresSlugKey})

		_, err := svc.Create(ctx, NewStoreInput{Name: "Toko Batik", WhatsApp: "628123456789"})
		assert.ErrorIs(t, err, apperror.ErrConflict)
		repo.AssertNumberOfCalls(t, "Create", maxSlugAttempts)
	})

	t.Run("Validation", func(t *testing.T) {
		svc := NewService(new(MockRepository), slug.NewGenerator(takenSlugs{}))

		_, err := svc.Create(ctx, NewStoreInput{Name: " ", WhatsApp: "628123456789"})
		assert.ErrorIs(t, err, ErrInvalidName)

		_, err = svc.Create(ctx, NewStoreInput{Name: "Toko", WhatsApp: "123"})
		assert.ErrorIs(t, err, ErrInvalidWhatsApp)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Rename keeps own slug", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, slug.NewGenerator(takenSlugs{"toko-batik": "s-1"}))

		name := "Toko Batik"
		repo.On("Update", ctx, mock.Anything, mock.MatchedBy(func(s *string) bool {
			return s != nil && *s == "toko-batik"
		})).Return(&Store{ID: "s-1", Slug: "toko-batik"}, nil)

		res, err := svc.Update(ctx, UpdateStoreInput{ID: "s-1", Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "toko-batik", res.Slug)
	})

	t.Run("Without rename no slug", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, slug.NewGenerator(takenSlugs{}))

		wa := "0812 0000 1111"
		repo.On("Update", ctx, mock.MatchedBy(func(in UpdateStoreInput) bool {
			return *in.WhatsApp == "6281200001111"
		}), (*string)(nil)).Return(&Store{ID: "s-1"}, nil)

		_, err := svc.Update(ctx, UpdateStoreInput{ID: "s-1", WhatsApp: &wa})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("No fields", func(t *testing.T) {
		svc := NewService(new(MockRepository), slug.NewGenerator(takenSlugs{}))
		_, err := svc.Update(ctx, UpdateStoreInput{ID: "s-1"})
		assert.ErrorIs(t, err, ErrNoFieldsToUpdate)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Refused while products exist", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CountProducts", ctx, "s-1").Return(2, nil)

		err := NewService(repo, nil).Delete(ctx, "s-1")
		assert.ErrorIs(t, err, ErrStoreHasProducts)
		assert.ErrorIs(t, err, apperror.ErrConflict)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Deleted when empty", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CountProducts", ctx, "s-1").Return(0, nil)
		repo.On("Delete", ctx, "s-1").Return(nil)

		assert.NoError(t, NewService(repo, nil).Delete(ctx, "s-1"))
		repo.AssertExpectations(t)
	})

	t.Run("Product inserted after count", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CountProducts", ctx, "s-1").Return(0, nil)
		repo.On("Delete", ctx, "s-1").Return(&pq.Error{Code: "23503", Constraint: "products_store_id_fkey"})

		err := NewService(repo, nil).Delete(ctx, "s-1")
		assert.ErrorIs(t, err, ErrStoreHasProducts)
	})

	t.Run("Count error", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CountProducts", ctx, "s-1").Return(0, errors.New("db error"))

		assert.Error(t, NewService(repo, nil).Delete(ctx, "s-1"))
	})
}
