package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart holds a user's items before checkout. There is at most one cart per
// user; it is created lazily on the first item add and survives checkout
// with its items cleared.
type Cart struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string     `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	Items      []CartItem `json:"items" gorm:"foreignKey:CartID"`
	gorm.Model            // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// TotalPrice sums the item totals. Items and their products must be loaded.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.TotalPrice())
	}
	return total
}

// CartItem is one product line inside a cart.
type CartItem struct {
	ID         string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID     string   `json:"cart_id" gorm:"type:varchar(36);index"`
	ProductID  string   `json:"product_id" gorm:"type:varchar(36)"`
	Product    *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity   int      `json:"quantity" validate:"required,gte=1"`
	gorm.Model
}

// TotalPrice is derived from the live product price, never stored.
func (ci *CartItem) TotalPrice() decimal.Decimal {
	if ci.Product == nil {
		return decimal.Zero
	}
	return ci.Product.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}
