package repositories

import "pasar/internal/models"

// NotificationRepository defines the interface for notification data access.
type NotificationRepository interface {
	Create(notification *models.Notification) error
	GetByReceiverID(receiverID string) ([]models.Notification, error)
}
