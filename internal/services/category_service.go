package services

import (
	"fmt"

	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/google/uuid"
)

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{
		repo: repo,
	}
}

// GetAllCategories retrieves all categories.
func (s *CategoryService) GetAllCategories() ([]models.Category, error) {
	return s.repo.GetAll()
}

// GetCategoryBySlug retrieves a single category by its slug.
func (s *CategoryService) GetCategoryBySlug(slug string) (*models.Category, error) {
	return s.repo.GetBySlug(slug)
}

// CreateCategory creates a new category, deriving its slug from the name.
func (s *CategoryService) CreateCategory(category *models.Category) error {
	if category.Slug == "" {
		category.Slug = models.Slugify(category.Name)
	}
	if existing, err := s.repo.GetBySlug(category.Slug); err == nil && existing != nil {
		category.Slug = fmt.Sprintf("%s-%s", category.Slug, uuid.New().String()[:8])
	}
	return s.repo.Create(category)
}

// UpdateCategory updates an existing category.
func (s *CategoryService) UpdateCategory(category *models.Category) error {
	return s.repo.Update(category)
}

// DeleteCategory deletes a category by its ID.
func (s *CategoryService) DeleteCategory(id string) error {
	return s.repo.Delete(id)
}
