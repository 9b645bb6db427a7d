package models

import "gorm.io/gorm"

// Notification records an order status event for a user. Notifications are
// only ever created by the dispatcher reacting to a status transition,
// never directly by a client write.
type Notification struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SenderID   string `json:"sender_id" gorm:"type:varchar(36)"`
	ReceiverID string `json:"receiver_id" gorm:"type:varchar(36);index"`
	Type       string `json:"type" gorm:"type:varchar(20)"` // mirrors an order status value
	OrderID    string `json:"order_id" gorm:"type:varchar(36)"`
	gorm.Model
}
