package repositories

import (
	"pasar/internal/models"
)

// ProductFilter narrows catalog listings. Zero values mean "no filter".
type ProductFilter struct {
	CategorySlug string
	Search       string // matched against name and description
	Active       *bool
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(filter ProductFilter) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
