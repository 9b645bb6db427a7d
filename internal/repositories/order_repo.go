package repositories

import "pasar/internal/models"

// OrderRepository defines the interface for order data access. Orders are
// created only by the checkout engine; the repository never exposes a way
// to mutate an order beyond its status.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetAllByUserID(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	UpdateStatus(id string, status string) error
}
