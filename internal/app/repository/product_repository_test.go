package repository

import (
	"testing"

	"github.com/Nil9n/merchshop-backend/internal/app/model"
	"github.com/Nil9n/merchshop-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductRepoTest(t *testing.T) (ProductRepository, *gorm.DB, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	repo := NewProductRepository(testDB)

	category := &model.Category{Name: "Stickers", Slug: "stickers"}
	testDB.Create(category)

	product := &model.Product{
		Name:       "Holo Sticker",
		Slug:       "holo-sticker",
		Price:      decimal.NewFromFloat(3.50),
		CategoryID: category.ID,
		Stock:      5,
		Available:  true,
	}
	require.NoError(t, repo.Create(product))

	return repo, testDB, product
}

func TestProductRepository_ReduceStock(t *testing.T) {
	repo, testDB, product := setupProductRepoTest(t)

	err := repo.ReduceStock(testDB, product.ID, 3)
	require.NoError(t, err)

	updated, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Stock)
	assert.True(t, updated.Available)
}

func TestProductRepository_ReduceStock_ToZeroFlipsAvailable(t *testing.T) {
	repo, testDB, product := setupProductRepoTest(t)

	err := repo.ReduceStock(testDB, product.ID, 5)
	require.NoError(t, err)

	updated, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)
	assert.False(t, updated.Available)
}

func TestProductRepository_ReduceStock_InsufficientLeavesStock(t *testing.T) {
	repo, testDB, product := setupProductRepoTest(t)

	err := repo.ReduceStock(testDB, product.ID, 6)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	updated, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Stock)
	assert.True(t, updated.Available)
}

func TestProductRepository_AddStock_ReenablesProduct(t *testing.T) {
	repo, testDB, product := setupProductRepoTest(t)

	require.NoError(t, repo.ReduceStock(testDB, product.ID, 5))

	require.NoError(t, repo.AddStock(product.ID, 7))

	updated, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Stock)
	assert.True(t, updated.Available)
}

func TestProductRepository_Create_PersistsUnavailable(t *testing.T) {
	repo, testDB, product := setupProductRepoTest(t)

	soldOut := &model.Product{
		Name:       "Sold Out Print",
		Slug:       "sold-out-print",
		Price:      decimal.NewFromFloat(12),
		CategoryID: product.CategoryID,
		Stock:      0,
		Available:  false,
	}
	require.NoError(t, repo.Create(soldOut))

	var stored model.Product
	require.NoError(t, testDB.First(&stored, soldOut.ID).Error)
	assert.False(t, stored.Available)

	products, err := repo.FindWithFilter(ProductFilter{AvailableOnly: true})
	require.NoError(t, err)
	for i := range products {
		assert.NotEqual(t, soldOut.ID, products[i].ID)
	}
}

func TestProductRepository_FindWithFilter(t *testing.T) {
	repo, testDB, _ := setupProductRepoTest(t)

	category := &model.Category{Name: "Vinyl", Slug: "vinyl"}
	testDB.Create(category)
	testDB.Create(&model.Product{
		Name:       "Live Album",
		Slug:       "live-album",
		Price:      decimal.NewFromFloat(30),
		CategoryID: category.ID,
		Stock:      3,
		Available:  true,
	})
	testDB.Create(&model.Product{
		Name:       "Rare Pressing",
		Slug:       "rare-pressing",
		Price:      decimal.NewFromFloat(80),
		CategoryID: category.ID,
		Stock:      0,
		Available:  false,
	})

	// Category filter
	products, err := repo.FindWithFilter(ProductFilter{CategorySlug: "vinyl", AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Live Album", products[0].Name)

	// Unavailable products show up without the flag
	products, err = repo.FindWithFilter(ProductFilter{CategorySlug: "vinyl"})
	require.NoError(t, err)
	assert.Len(t, products, 2)

	// Search matches name, case-insensitive
	products, err = repo.FindWithFilter(ProductFilter{Search: "holo"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Holo Sticker", products[0].Name)
}
