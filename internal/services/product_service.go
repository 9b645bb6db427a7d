package services

import (
	"fmt"

	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/google/uuid"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves products matching the filter.
func (s *ProductService) GetAllProducts(filter repositories.ProductFilter) ([]models.Product, error) {
	return s.repo.GetAll(filter)
}

// GetProductBySlug retrieves a single product by its slug.
func (s *ProductService) GetProductBySlug(slug string) (*models.Product, error) {
	return s.repo.GetBySlug(slug)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product, deriving its slug from the name.
// A slug already taken gets a short random suffix instead of failing.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if product.Price.IsNegative() {
		return fmt.Errorf("product price must not be negative")
	}
	if product.Stock < 0 {
		return fmt.Errorf("product stock must not be negative")
	}

	if product.Slug == "" {
		product.Slug = models.Slugify(product.Name)
	}
	if existing, err := s.repo.GetBySlug(product.Slug); err == nil && existing != nil {
		product.Slug = fmt.Sprintf("%s-%s", product.Slug, uuid.New().String()[:8])
	}

	return s.repo.Create(product)
}

// UpdateProduct updates an existing product. The slug is kept stable so
// catalog URLs do not break on renames.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if product.Price.IsNegative() {
		return fmt.Errorf("product price must not be negative")
	}
	if product.Stock < 0 {
		return fmt.Errorf("product stock must not be negative")
	}
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}
