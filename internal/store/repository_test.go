package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storeCols = []string{
	"id", "slug", "name", "description",
	"theme_primary", "theme_secondary", "theme_accent", "theme_background", "theme_text",
	"whatsapp", "active", "created_at", "updated_at",
}

func storeRow(id, slug string) *sqlmock.Rows {
	return sqlmock.NewRows(storeCols).AddRow(
		id, slug, "Toko Batik", "Batik tulis",
		"#000", "#111", "#222", "#fff", "#333",
		"628123456789", true, time.Now(), nil,
	)
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	in := &Store{Slug: "toko-batik", Name: "Toko Batik", Theme: DefaultTheme, WhatsApp: "628123456789", Active: true}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO stores").
			WithArgs("toko-batik", "Toko Batik", "",
				DefaultTheme.Primary, DefaultTheme.Secondary, DefaultTheme.Accent, DefaultTheme.Background, DefaultTheme.Text,
				"628123456789", true).
			WillReturnRows(storeRow("s-1", "toko-batik"))

		res, err := repo.Create(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "s-1", res.ID)
		assert.Equal(t, "#fff", res.Theme.Background)
		assert.Nil(t, res.UpdatedAt)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO stores").WillReturnError(errors.New("db error"))

		_, err := repo.Create(context.Background(), in)
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Name and slug", func(t *testing.T) {
		name := "Toko Batik"
		slug := "toko-batik"

		mock.ExpectQuery("UPDATE stores SET name = \\$1, slug = \\$2, updated_at = NOW\\(\\) WHERE id = \\$3").
			WithArgs(name, slug, "s-1").
			WillReturnRows(storeRow("s-1", slug))

		res, err := repo.Update(context.Background(), UpdateStoreInput{ID: "s-1", Name: &name}, &slug)
		require.NoError(t, err)
		assert.Equal(t, slug, res.Slug)
	})

	t.Run("Not found", func(t *testing.T) {
		active := false
		mock.ExpectQuery("UPDATE stores SET active = \\$1").
			WithArgs(false, "s-9").
			WillReturnRows(sqlmock.NewRows(storeCols))

		_, err := repo.Update(context.Background(), UpdateStoreInput{ID: "s-9", Active: &active}, nil)
		assert.ErrorIs(t, err, ErrStoreNotFound)
	})

	t.Run("Nothing to update", func(t *testing.T) {
		_, err := repo.Update(context.Background(), UpdateStoreInput{ID: "s-1"}, nil)
		assert.ErrorIs(t, err, ErrNoFieldsToUpdate)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("BySlug", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM stores WHERE slug = \\$1").
			WithArgs("toko-batik").
			WillReturnRows(storeRow("s-1", "toko-batik"))

		res, err := repo.GetBySlug(context.Background(), "toko-batik")
		require.NoError(t, err)
		assert.Equal(t, "s-1", res.ID)
	})

	t.Run("ByID not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM stores WHERE id = \\$1").
			WithArgs("s-9").
			WillReturnRows(sqlmock.NewRows(storeCols))

		_, err := repo.GetByID(context.Background(), "s-9")
		assert.ErrorIs(t, err, ErrStoreNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountAndDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("CountProducts", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM products WHERE store_id = \\$1").
			WithArgs("s-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		n, err := repo.CountProducts(context.Background(), "s-1")
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("Delete", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM stores WHERE id = \\$1").
			WithArgs("s-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), "s-1"))
	})

	t.Run("Delete missing", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM stores").
			WithArgs("s-9").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), "s-9"), ErrStoreNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
