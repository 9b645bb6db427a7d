package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order statuses. An order starts pending; paid and canceled trigger a
// notification; delivered is terminal.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCanceled  = "canceled"
	OrderStatusDelivered = "delivered"
)

// orderTransitions is the allowed status graph: pending may become paid or
// canceled, a paid order may become delivered. Canceled is terminal.
var orderTransitions = map[string][]string{
	OrderStatusPending: {OrderStatusPaid, OrderStatusCanceled},
	OrderStatusPaid:    {OrderStatusDelivered},
}

// IsValidOrderStatus reports whether s is a known status value.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusCanceled, OrderStatusDelivered:
		return true
	}
	return false
}

// CanTransitionOrderStatus reports whether an order may move from one
// status to another.
func CanTransitionOrderStatus(from, to string) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Order is the immutable result of a checkout. TotalPrice is frozen at
// creation time; only Status changes afterwards.
type Order struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string          `json:"user_id" gorm:"type:varchar(36);index"`
	User       *User           `json:"-" gorm:"foreignKey:UserID"`
	Address    string          `json:"address" gorm:"type:varchar(150)"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:decimal(12,2)"`
	Status     string          `json:"status" gorm:"type:varchar(20);default:pending"`
	Items      []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	gorm.Model
}

// OrderItem is a snapshot of a cart line at checkout time. Price is the
// product price at order time and must not track later price changes.
type OrderItem struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID    string          `json:"order_id" gorm:"type:varchar(36);index"`
	ProductID  string          `json:"product_id" gorm:"type:varchar(36)"`
	Product    *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"`
	gorm.Model
}
