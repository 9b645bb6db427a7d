package services_test

import (
	"strings"
	"testing"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProductService_CreateProduct(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	productService := services.NewProductService(repo)

	product := &models.Product{
		Name:     "Mechanical Keyboard",
		Price:    decimal.RequireFromString("79.90"),
		Stock:    10,
		IsActive: true,
	}
	err := productService.CreateProduct(product)
	assert.NoError(t, err)
	assert.Equal(t, "mechanical-keyboard", product.Slug)
	assert.NotEmpty(t, product.ID)

	found, err := repo.GetBySlug("mechanical-keyboard")
	assert.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)
}

func TestProductService_CreateProduct_SlugCollision(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	productService := services.NewProductService(repo)

	first := &models.Product{Name: "Desk Lamp", Price: decimal.RequireFromString("39.00"), Stock: 5}
	assert.NoError(t, productService.CreateProduct(first))
	assert.Equal(t, "desk-lamp", first.Slug)

	// A second product with the same name gets a suffixed slug rather
	// than a conflict error
	second := &models.Product{Name: "Desk Lamp", Price: decimal.RequireFromString("45.00"), Stock: 3}
	assert.NoError(t, productService.CreateProduct(second))
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.True(t, strings.HasPrefix(second.Slug, "desk-lamp-"), "got slug %q", second.Slug)
}

func TestProductService_CreateProduct_Validation(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	productService := services.NewProductService(repo)

	err := productService.CreateProduct(&models.Product{
		Name:  "Broken",
		Price: decimal.RequireFromString("-1.00"),
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "price must not be negative")

	err = productService.CreateProduct(&models.Product{
		Name:  "Broken",
		Price: decimal.RequireFromString("1.00"),
		Stock: -1,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "stock must not be negative")
}

func TestProductService_UpdateProduct_KeepsSlug(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	productService := services.NewProductService(repo)

	product := &models.Product{Name: "Desk Lamp", Price: decimal.RequireFromString("39.00"), Stock: 5}
	assert.NoError(t, productService.CreateProduct(product))

	// Renaming does not regenerate the slug, so catalog URLs stay valid
	product.Name = "Desk Lamp Pro"
	assert.NoError(t, productService.UpdateProduct(product))

	found, err := repo.GetBySlug("desk-lamp")
	assert.NoError(t, err)
	assert.Equal(t, "Desk Lamp Pro", found.Name)
}

func TestProductService_GetAllProducts_Filtered(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	productService := services.NewProductService(repo)

	assert.NoError(t, productService.CreateProduct(&models.Product{
		Name: "Mechanical Keyboard", Price: decimal.RequireFromString("79.90"), Stock: 10, IsActive: true,
	}))
	assert.NoError(t, productService.CreateProduct(&models.Product{
		Name: "Wireless Mouse", Price: decimal.RequireFromString("24.50"), Stock: 5, IsActive: false,
	}))

	all, err := productService.GetAllProducts(repositories.ProductFilter{})
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	active := true
	onlyActive, err := productService.GetAllProducts(repositories.ProductFilter{Active: &active})
	assert.NoError(t, err)
	assert.Len(t, onlyActive, 1)
	assert.Equal(t, "Mechanical Keyboard", onlyActive[0].Name)

	matched, err := productService.GetAllProducts(repositories.ProductFilter{Search: "mouse"})
	assert.NoError(t, err)
	assert.Len(t, matched, 1)
	assert.Equal(t, "Wireless Mouse", matched[0].Name)
}

func TestProductService_DeleteProduct(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	productService := services.NewProductService(repo)

	product := &models.Product{Name: "Desk Lamp", Price: decimal.RequireFromString("39.00"), Stock: 5}
	assert.NoError(t, productService.CreateProduct(product))

	assert.NoError(t, productService.DeleteProduct(product.ID))
	_, err := productService.GetProductByID(product.ID)
	assert.Error(t, err)

	// Deleting twice surfaces the repository error
	assert.Error(t, productService.DeleteProduct(product.ID))
}
