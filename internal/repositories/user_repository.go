package repositories

import "pasar/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByPhoneNumber(phoneNumber string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Update(user *models.User) error
}
