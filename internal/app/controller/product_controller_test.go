package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Nil9n/merchshop-backend/internal/app/model"
	"github.com/Nil9n/merchshop-backend/internal/app/repository"
	"github.com/Nil9n/merchshop-backend/internal/app/service"
	"github.com/Nil9n/merchshop-backend/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductControllerTest(t *testing.T) (*gin.Engine, *gorm.DB, *model.Category) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)
	productService := service.NewProductService(productRepo, categoryRepo, reviewRepo)
	productController := NewProductController(productService)

	category := &model.Category{Name: "Apparel", Slug: "apparel"}
	testDB.Create(category)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/products", productController.ListProducts)
	router.GET("/products/:id", productController.GetProduct)
	router.GET("/categories", productController.ListCategories)
	router.POST("/admin/products", productController.CreateProduct)
	router.POST("/admin/products/:id/restock", productController.Restock)

	return router, testDB, category
}

func TestProductController_ListProducts(t *testing.T) {
	router, testDB, category := setupProductControllerTest(t)

	testDB.Create(&model.Product{
		Name:       "Band Tee",
		Slug:       "band-tee",
		Price:      decimal.NewFromFloat(25.50),
		CategoryID: category.ID,
		Stock:      10,
		Available:  true,
	})
	testDB.Create(&model.Product{
		Name:       "Sold Out Poster",
		Slug:       "sold-out-poster",
		Price:      decimal.NewFromFloat(15),
		CategoryID: category.ID,
		Stock:      0,
		Available:  false,
	})

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])
	assert.NotContains(t, w.Body.String(), "Sold Out Poster")
}

func TestProductController_GetProduct(t *testing.T) {
	router, testDB, category := setupProductControllerTest(t)

	product := &model.Product{
		Name:       "Band Tee",
		Slug:       "band-tee",
		Price:      decimal.NewFromFloat(25.50),
		CategoryID: category.ID,
		Stock:      10,
		Available:  true,
	}
	testDB.Create(product)

	req := httptest.NewRequest(http.MethodGet, "/products/"+itoa(product.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, float64(0), detail["review_count"])
	assert.Equal(t, "Band Tee", detail["product"].(map[string]interface{})["name"])
}

func TestProductController_GetProduct_NotFound(t *testing.T) {
	router, _, _ := setupProductControllerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/products/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PRODUCT_NOT_FOUND")
}

func TestProductController_GetProduct_BadID(t *testing.T) {
	router, _, _ := setupProductControllerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/products/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_INVALID_ID")
}

func TestProductController_CreateProduct(t *testing.T) {
	router, _, category := setupProductControllerTest(t)

	body, _ := json.Marshal(ProductRequest{
		Name:       "New Hoodie",
		Slug:       "new-hoodie",
		Price:      decimal.NewFromFloat(55),
		CategoryID: category.ID,
		Stock:      20,
		Available:  true,
	})
	req := httptest.NewRequest(http.MethodPost, "/admin/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "new-hoodie")
}

func TestProductController_CreateProduct_UnknownCategory(t *testing.T) {
	router, _, _ := setupProductControllerTest(t)

	body, _ := json.Marshal(ProductRequest{
		Name:       "Orphan Product",
		Slug:       "orphan-product",
		Price:      decimal.NewFromFloat(10),
		CategoryID: 9999,
		Stock:      5,
		Available:  true,
	})
	req := httptest.NewRequest(http.MethodPost, "/admin/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "CATEGORY_NOT_FOUND")
}

func TestProductController_Restock(t *testing.T) {
	router, testDB, category := setupProductControllerTest(t)

	product := &model.Product{
		Name:       "Band Tee",
		Slug:       "band-tee",
		Price:      decimal.NewFromFloat(25.50),
		CategoryID: category.ID,
		Stock:      0,
		Available:  false,
	}
	testDB.Create(product)

	body, _ := json.Marshal(RestockRequest{Quantity: 12})
	req := httptest.NewRequest(http.MethodPost, "/admin/products/"+itoa(product.ID)+"/restock", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	updated := response["product"].(map[string]interface{})
	assert.Equal(t, float64(12), updated["stock"])
	assert.Equal(t, true, updated["available"])
}

func TestProductController_ListCategories(t *testing.T) {
	router, testDB, _ := setupProductControllerTest(t)

	testDB.Create(&model.Category{Name: "Vinyl", Slug: "vinyl"})

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "apparel")
	assert.Contains(t, w.Body.String(), "vinyl")
}
