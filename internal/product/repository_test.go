package product

import (
	"context"
	"errors"
	"testing"
	"time"

	"multitoko-be/internal/catalog"
	"multitoko-be/internal/db"
	"multitoko-be/internal/variant"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productCols = []string{"id", "store_id", "slug", "name", "description", "base_price", "status", "created_at", "updated_at"}

var variantCols = []string{"id", "product_id", "sku", "stock", "price_absolute", "price_delta", "array"}

func TestRepository_GetBySlug(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	repo := NewRepository(sqlDB)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM products p WHERE p.slug = \\$1").
			WithArgs("kaos-polos").
			WillReturnRows(sqlmock.NewRows(productCols).
				AddRow("p-1", "s-1", "kaos-polos", "Kaos Polos", "", int64(50000), "ACTIVE", time.Now(), nil))

		p, err := repo.GetBySlug(context.Background(), "kaos-polos")
		require.NoError(t, err)
		assert.Equal(t, "p-1", p.ID)
		assert.Equal(t, catalog.ProductStatusActive, p.Status)
		assert.Equal(t, int64(50000), p.BasePrice)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM products p WHERE p.id = \\$1").
			WithArgs("p-9").
			WillReturnRows(sqlmock.NewRows(productCols))

		_, err := repo.GetByID(context.Background(), "p-9")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListOptionTypes(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	repo := NewRepository(sqlDB)

	mock.ExpectQuery("FROM option_types ot\\s+JOIN option_values ov").
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "position", "id", "name"}).
			AddRow("ot-1", "Color", 0, "ov-1", "Red").
			AddRow("ot-1", "Color", 0, "ov-2", "Blue").
			AddRow("ot-2", "Size", 1, "ov-3", "M"))

	types, err := repo.ListOptionTypes(context.Background(), "p-1")
	require.NoError(t, err)
	require.Len(t, types, 2)

	assert.Equal(t, "Color", types[0].Name)
	require.Len(t, types[0].Values, 2)
	assert.Equal(t, "ov-2", types[0].Values[1].ID)
	assert.Equal(t, "ot-1", types[0].Values[1].OptionTypeID)
	assert.Equal(t, "p-1", types[1].ProductID)
	assert.Equal(t, 1, types[1].Position)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListVariants(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	repo := NewRepository(sqlDB)

	mock.ExpectQuery("FROM variants v\\s+WHERE v.product_id = \\$1").
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows(variantCols).
			AddRow("v-1", "p-1", "KAOSPO-RED-M-0001", 5, nil, int64(-1000), "{ov-3,ov-1}").
			AddRow("v-2", "p-1", nil, 0, int64(75000), nil, "{}"))

	variants, err := repo.ListVariants(context.Background(), "p-1")
	require.NoError(t, err)
	require.Len(t, variants, 2)

	v1 := variants[0]
	assert.Equal(t, "KAOSPO-RED-M-0001", *v1.SKU)
	assert.Equal(t, 5, v1.Stock)
	assert.Nil(t, v1.PriceAbsolute)
	assert.Equal(t, int64(-1000), *v1.PriceDelta)
	assert.Equal(t, catalog.OptionSet{"ov-1", "ov-3"}, v1.Options)

	v2 := variants[1]
	assert.Nil(t, v2.SKU)
	assert.Equal(t, int64(75000), *v2.PriceAbsolute)
	assert.Empty(t, v2.Options)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListImagesAndCategories(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	repo := NewRepository(sqlDB)

	mock.ExpectQuery("FROM product_images").
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "url", "alt", "sort_order"}).
			AddRow("img-1", "https://cdn/1.jpg", "front", 0))

	images, err := repo.ListImages(context.Background(), "p-1")
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "front", images[0].Alt)

	mock.ExpectQuery("SELECT category_id FROM product_categories").
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows([]string{"category_id"}).AddRow("cat-1").AddRow("cat-2"))

	ids, err := repo.ListCategoryIDs(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"cat-1", "cat-2"}, ids)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ExistingSKUs(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	repo := NewRepository(sqlDB)

	t.Run("Some taken", func(t *testing.T) {
		skus := []string{"A-1", "B-2"}
		mock.ExpectQuery("SELECT sku FROM variants WHERE sku = ANY\\(\\$1\\)").
			WithArgs(pq.Array(skus)).
			WillReturnRows(sqlmock.NewRows([]string{"sku"}).AddRow("B-2"))

		taken, err := repo.ExistingSKUs(context.Background(), skus)
		require.NoError(t, err)
		assert.Equal(t, []string{"B-2"}, taken)
	})

	t.Run("Nothing to check", func(t *testing.T) {
		taken, err := repo.ExistingSKUs(context.Background(), nil)
		assert.NoError(t, err)
		assert.Empty(t, taken)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func sizeDraft() *Draft {
	skuS, skuM := "KAOS-S-0001", "KAOS-M-0002"
	return &Draft{
		Product: catalog.Product{
			StoreID:     "s-1",
			Slug:        "kaos",
			Name:        "Kaos",
			BasePrice:   50000,
			Status:      catalog.ProductStatusActive,
			CategoryIDs: []string{"cat-1"},
			Images:      []*catalog.Image{{URL: "https://cdn/1.jpg", Alt: "front", Order: 0}},
		},
		OptionTypes: []draftOptionType{{Key: "0", Name: "Size", Values: []string{"S", "M"}}},
		Variants: []DraftVariant{
			{Combination: variant.Combination{{OptionTypeID: "0", Value: "S"}}, SKU: &skuS, GeneratedSKU: true, Stock: 3},
			{Combination: variant.Combination{{OptionTypeID: "0", Value: "M"}}, SKU: &skuM, GeneratedSKU: true},
		},
	}
}

func TestRepository_CreateGraph(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer sqlDB.Close()

		repo := NewRepository(sqlDB)
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO products").
			WithArgs("s-1", "kaos", "Kaos", "", int64(50000), "ACTIVE").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("p-1", now))
		mock.ExpectExec("INSERT INTO product_categories").
			WithArgs("p-1", "cat-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO product_images").
			WithArgs("p-1", "https://cdn/1.jpg", "front", 0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("img-1"))
		mock.ExpectQuery("INSERT INTO option_types").
			WithArgs("p-1", "Size", 0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ot-1"))
		mock.ExpectQuery("INSERT INTO option_values").
			WithArgs("ot-1", "S", 0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ov-s"))
		mock.ExpectQuery("INSERT INTO option_values").
			WithArgs("ot-1", "M", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ov-m"))
		mock.ExpectQuery("INSERT INTO variants").
			WithArgs("p-1", "KAOS-S-0001", 3, nil, nil, 0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("v-1"))
		mock.ExpectExec("INSERT INTO variant_option_values").
			WithArgs("v-1", "ov-s").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO variants").
			WithArgs("p-1", "KAOS-M-0002", 0, nil, nil, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("v-2"))
		mock.ExpectExec("INSERT INTO variant_option_values").
			WithArgs("v-2", "ov-m").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		p, err := repo.CreateGraph(context.Background(), sizeDraft())
		require.NoError(t, err)

		assert.Equal(t, "p-1", p.ID)
		require.Len(t, p.Images, 1)
		assert.Equal(t, "img-1", p.Images[0].ID)
		require.Len(t, p.OptionTypes, 1)
		assert.Equal(t, "ov-m", p.OptionTypes[0].Values[1].ID)
		require.Len(t, p.Variants, 2)
		assert.Equal(t, catalog.OptionSet{"ov-s"}, p.Variants[0].Options)
		assert.Equal(t, 3, p.Variants[0].Stock)
		assert.NoError(t, variant.CheckVariants(p))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Sku conflict rolls back", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer sqlDB.Close()

		repo := NewRepository(sqlDB)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO products").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("p-1", time.Now()))
		mock.ExpectExec("INSERT INTO product_categories").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO product_images").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("img-1"))
		mock.ExpectQuery("INSERT INTO option_types").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ot-1"))
		mock.ExpectQuery("INSERT INTO option_values").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ov-s"))
		mock.ExpectQuery("INSERT INTO option_values").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ov-m"))
		mock.ExpectQuery("INSERT INTO variants").
			WillReturnError(&pq.Error{Code: "23505", Constraint: PgVariantsSKUKey})
		mock.ExpectRollback()

		_, err = repo.CreateGraph(context.Background(), sizeDraft())
		constraint, ok := db.UniqueViolation(err)
		assert.True(t, ok)
		assert.Equal(t, PgVariantsSKUKey, constraint)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_UpdateName(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	repo := NewRepository(sqlDB)

	mock.ExpectQuery("UPDATE products p\\s+SET name = \\$1, slug = \\$2").
		WithArgs("Kaos Baru", "kaos-baru", "p-1").
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow("p-1", "s-1", "kaos-baru", "Kaos Baru", "", int64(50000), "ACTIVE", time.Now(), time.Now()))

	p, err := repo.UpdateName(context.Background(), "p-1", "Kaos Baru", "kaos-baru")
	require.NoError(t, err)
	assert.Equal(t, "kaos-baru", p.Slug)
	assert.NotNil(t, p.UpdatedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateVariant(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	repo := NewRepository(sqlDB)

	t.Run("Stock and cleared absolute price", func(t *testing.T) {
		stock := 7
		mock.ExpectQuery("UPDATE variants v SET stock = \\$1, price_absolute = \\$2 WHERE v.id = \\$3").
			WithArgs(7, nil, "v-1").
			WillReturnRows(sqlmock.NewRows(variantCols).
				AddRow("v-1", "p-1", "SKU-1", 7, nil, nil, "{ov-1}"))

		v, err := repo.UpdateVariant(context.Background(), UpdateVariantInput{
			ID:            "v-1",
			Stock:         &stock,
			PriceAbsolute: &PriceChange{},
		})
		require.NoError(t, err)
		assert.Equal(t, 7, v.Stock)
		assert.Nil(t, v.PriceAbsolute)
		assert.Equal(t, catalog.OptionSet{"ov-1"}, v.Options)
	})

	t.Run("Clear sku", func(t *testing.T) {
		empty := ""
		mock.ExpectQuery("UPDATE variants v SET sku = \\$1 WHERE v.id = \\$2").
			WithArgs(nil, "v-1").
			WillReturnRows(sqlmock.NewRows(variantCols).
				AddRow("v-1", "p-1", nil, 7, nil, nil, "{ov-1}"))

		v, err := repo.UpdateVariant(context.Background(), UpdateVariantInput{ID: "v-1", SKU: &empty})
		require.NoError(t, err)
		assert.Nil(t, v.SKU)
	})

	t.Run("Not found", func(t *testing.T) {
		stock := 1
		mock.ExpectQuery("UPDATE variants v SET stock").
			WithArgs(1, "v-9").
			WillReturnRows(sqlmock.NewRows(variantCols))

		_, err := repo.UpdateVariant(context.Background(), UpdateVariantInput{ID: "v-9", Stock: &stock})
		assert.ErrorIs(t, err, ErrVariantNotFound)
	})

	t.Run("Db error", func(t *testing.T) {
		stock := 1
		mock.ExpectQuery("UPDATE variants v SET stock").WillReturnError(errors.New("db error"))

		_, err := repo.UpdateVariant(context.Background(), UpdateVariantInput{ID: "v-1", Stock: &stock})
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
