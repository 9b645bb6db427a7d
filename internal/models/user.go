package models

import "gorm.io/gorm"

// User roles. Admins may mutate the catalog and drive order status.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents a user of the store. PhoneNumber is the external login
// handle: users created through the chat-bot code flow get their username
// defaulted to it.
type User struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username    string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	PhoneNumber string `json:"phone_number" gorm:"uniqueIndex;type:varchar(20)" validate:"required,min=7,max=20"`
	FirstName   string `json:"first_name" gorm:"type:varchar(100)"`
	LastName    string `json:"last_name" gorm:"type:varchar(100)"`
	Address     string `json:"address" gorm:"type:varchar(150)"`
	Role        string `json:"role" gorm:"type:varchar(20);default:customer"`
	Password    string `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	gorm.Model         // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
