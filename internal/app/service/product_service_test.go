package service

import (
	"testing"

	"github.com/Nil9n/merchshop-backend/internal/app/model"
	"github.com/Nil9n/merchshop-backend/internal/app/repository"
	"github.com/Nil9n/merchshop-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (ProductService, *gorm.DB, *model.Category) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)
	svc := NewProductService(productRepo, categoryRepo, reviewRepo)

	category := &model.Category{Name: "Apparel", Slug: "apparel"}
	testDB.Create(category)

	return svc, testDB, category
}

func TestProductService_CreateProduct(t *testing.T) {
	svc, _, category := setupProductServiceTest(t)

	product, err := svc.CreateProduct(CreateProductInput{
		Name:       "Band Tee",
		Slug:       "band-tee",
		Price:      decimal.NewFromFloat(25.50),
		CategoryID: category.ID,
		Stock:      10,
		Available:  true,
	})
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.True(t, product.Available)
}

func TestProductService_CreateProduct_UnknownCategory(t *testing.T) {
	svc, _, _ := setupProductServiceTest(t)

	_, err := svc.CreateProduct(CreateProductInput{
		Name:       "Band Tee",
		Slug:       "band-tee",
		Price:      decimal.NewFromFloat(25.50),
		CategoryID: 9999,
		Stock:      10,
		Available:  true,
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestProductService_CreateProduct_ZeroStockNotAvailable(t *testing.T) {
	svc, _, category := setupProductServiceTest(t)

	product, err := svc.CreateProduct(CreateProductInput{
		Name:       "Preorder Vinyl",
		Slug:       "preorder-vinyl",
		Price:      decimal.NewFromFloat(35),
		CategoryID: category.ID,
		Stock:      0,
		Available:  true,
	})
	require.NoError(t, err)
	assert.False(t, product.Available)
}

func TestProductService_ListProducts(t *testing.T) {
	svc, testDB, category := setupProductServiceTest(t)

	other := &model.Category{Name: "Vinyl", Slug: "vinyl"}
	testDB.Create(other)

	for _, p := range []*model.Product{
		{Name: "Band Tee", Slug: "band-tee", Price: decimal.NewFromFloat(25.50), CategoryID: category.ID, Stock: 10, Available: true},
		{Name: "Tour Hoodie", Slug: "tour-hoodie", Price: decimal.NewFromFloat(49.90), CategoryID: category.ID, Stock: 5, Available: true},
		{Name: "Live Album", Slug: "live-album", Price: decimal.NewFromFloat(30), CategoryID: other.ID, Stock: 3, Available: true},
		{Name: "Sold Out Poster", Slug: "sold-out-poster", Price: decimal.NewFromFloat(15), CategoryID: category.ID, Stock: 0, Available: false},
	} {
		testDB.Create(p)
	}

	// Listing hides unavailable products
	products, err := svc.ListProducts("", "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, products, 3)

	// Category filter
	products, err = svc.ListProducts("apparel", "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	// Search narrows further
	products, err = svc.ListProducts("apparel", "hoodie", 20, 0)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Tour Hoodie", products[0].Name)

	// Pagination
	products, err = svc.ListProducts("", "", 2, 0)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestProductService_GetProductDetail(t *testing.T) {
	svc, testDB, category := setupProductServiceTest(t)

	product := &model.Product{Name: "Band Tee", Slug: "band-tee", Price: decimal.NewFromFloat(25.50), CategoryID: category.ID, Stock: 10, Available: true}
	testDB.Create(product)

	user := &model.User{Email: "fan@example.com", PasswordHash: "hash", Name: "Fan", Role: model.RoleUser, IsActive: true}
	testDB.Create(user)
	otherUser := &model.User{Email: "fan2@example.com", PasswordHash: "hash", Name: "Fan Two", Role: model.RoleUser, IsActive: true}
	testDB.Create(otherUser)

	testDB.Create(&model.Review{ProductID: product.ID, UserID: user.ID, Rating: 5, Comment: "Great fit"})
	testDB.Create(&model.Review{ProductID: product.ID, UserID: otherUser.ID, Rating: 2, Comment: "Shrank in the wash"})

	detail, err := svc.GetProductDetail(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Band Tee", detail.Product.Name)
	assert.Equal(t, 2, detail.ReviewCount)
	assert.InDelta(t, 3.5, detail.AverageRating, 0.001)
}

func TestProductService_GetProductDetail_NotFound(t *testing.T) {
	svc, _, _ := setupProductServiceTest(t)

	_, err := svc.GetProductDetail(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_UpdateProduct(t *testing.T) {
	svc, testDB, category := setupProductServiceTest(t)

	product := &model.Product{Name: "Band Tee", Slug: "band-tee", Price: decimal.NewFromFloat(25.50), CategoryID: category.ID, Stock: 10, Available: true}
	testDB.Create(product)

	updated, err := svc.UpdateProduct(product.ID, CreateProductInput{
		Name:       "Band Tee v2",
		Slug:       "band-tee-v2",
		Price:      decimal.NewFromFloat(27.00),
		CategoryID: category.ID,
		Stock:      0,
		Available:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Band Tee v2", updated.Name)
	assert.False(t, updated.Available, "zero stock forces unavailable")
}

func TestProductService_Restock(t *testing.T) {
	svc, testDB, category := setupProductServiceTest(t)

	product := &model.Product{Name: "Band Tee", Slug: "band-tee", Price: decimal.NewFromFloat(25.50), CategoryID: category.ID, Stock: 0, Available: false}
	testDB.Create(product)

	restocked, err := svc.Restock(product.ID, 15)
	require.NoError(t, err)
	assert.Equal(t, 15, restocked.Stock)
	assert.True(t, restocked.Available)

	_, err = svc.Restock(9999, 5)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct(t *testing.T) {
	svc, testDB, category := setupProductServiceTest(t)

	product := &model.Product{Name: "Band Tee", Slug: "band-tee", Price: decimal.NewFromFloat(25.50), CategoryID: category.ID, Stock: 10, Available: true}
	testDB.Create(product)

	require.NoError(t, svc.DeleteProduct(product.ID))

	_, err := svc.GetProductDetail(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.ErrorIs(t, svc.DeleteProduct(product.ID), ErrProductNotFound)
}

func TestProductService_GetCategories(t *testing.T) {
	svc, testDB, _ := setupProductServiceTest(t)

	testDB.Create(&model.Category{Name: "Vinyl", Slug: "vinyl"})

	categories, err := svc.GetCategories()
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}
