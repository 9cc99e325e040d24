package repository

import (
	"context"
	"testing"

	"qr_ordering/internal/apperror"
	"qr_ordering/internal/models"
	"qr_ordering/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogProductsAndOptions(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	category := &models.Category{Name: "Mains", IsActive: true}
	require.NoError(t, repo.CreateCategory(ctx, category))

	product := &models.Product{
		CategoryID:      category.ID,
		Name:            "Pizza",
		Price:           decimal.RequireFromString("9.90"),
		IsAvailable:     true,
		PreparationTime: 12,
		Options:         []models.ProductOption{{Name: "Large", Price: decimal.RequireFromString("2.00")}},
	}
	require.NoError(t, repo.CreateProduct(ctx, product))

	got, err := repo.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, got.Options, 1)

	got.Options = []models.ProductOption{{Name: "Small"}, {Name: "Family", Price: decimal.RequireFromString("5")}}
	require.NoError(t, repo.UpdateProduct(ctx, got))

	reloaded, err := repo.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Options, 2)
	assert.Equal(t, "Small", reloaded.Options[0].Name)

	byCategory, err := repo.GetProducts(ctx, &category.ID)
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	err = repo.DeleteCategory(ctx, category.ID)
	assert.True(t, apperror.Is(err, apperror.KindConflict), "category with products")

	require.NoError(t, repo.DeleteProduct(ctx, product.ID))
	require.NoError(t, repo.DeleteCategory(ctx, category.ID))
	assert.True(t, apperror.Is(repo.DeleteCategory(ctx, category.ID), apperror.KindNotFound))
}

func TestSettingsUpsert(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSettingsRepository(db)
	ctx := context.Background()

	s, err := repo.Upsert(ctx, "currency", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "EUR", s.Value)

	s, err = repo.Upsert(ctx, "currency", "GBP")
	require.NoError(t, err)
	assert.Equal(t, "GBP", s.Value)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = repo.Get(ctx, "missing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
