package repositories

import (
	"fmt"
	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMNotificationRepository is a GORM implementation of NotificationRepository.
type GORMNotificationRepository struct {
	db *gorm.DB
}

// NewGORMNotificationRepository creates a new instance of GORMNotificationRepository.
func NewGORMNotificationRepository(db *gorm.DB) *GORMNotificationRepository {
	return &GORMNotificationRepository{
		db: db,
	}
}

// Create creates a new notification in the database.
func (r *GORMNotificationRepository) Create(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if err := r.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// GetByReceiverID retrieves all notifications addressed to a user.
func (r *GORMNotificationRepository) GetByReceiverID(receiverID string) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := r.db.Find(&notifications, "receiver_id = ?", receiverID).Error; err != nil {
		return nil, fmt.Errorf("failed to get notifications for user %s: %w", receiverID, err)
	}
	return notifications, nil
}
