package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category groups products for catalog browsing. The slug is derived from
// the name and is the lookup key used in URLs.
type Category struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Slug       string `json:"slug" gorm:"uniqueIndex;type:varchar(120)"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Product represents a product in the store. Stock is only ever decremented
// through the checkout transaction and must never go negative.
type Product struct {
	ID            string              `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name          string              `json:"name" validate:"required,min=3,max=100"`
	Slug          string              `json:"slug" gorm:"uniqueIndex;type:varchar(120)"`
	Description   string              `json:"description" validate:"omitempty,max=500"`
	Price         decimal.Decimal     `json:"price" gorm:"type:decimal(12,2)"`
	DiscountPrice decimal.NullDecimal `json:"discount_price" gorm:"type:decimal(12,2)"`
	Stock         int                 `json:"stock" validate:"gte=0"`
	IsActive      bool                `json:"is_active" gorm:"default:true"`
	CategoryID    string              `json:"category_id" gorm:"type:varchar(36);index"`
	Category      *Category           `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	gorm.Model
}
