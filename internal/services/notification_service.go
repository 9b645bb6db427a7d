package services

import (
	"encoding/json"
	"log"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/pkg/rabbitmq"
)

// EventPublisher is the outbound message broker seam. Implemented by
// rabbitmq.Client; nil disables publishing.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// NotificationService reacts to order status transitions. It is invoked
// explicitly by the code path that writes the status, never by implicit
// framework hooks, so the "writing status also writes a notification"
// dependency stays visible at the call site.
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
	publisher        EventPublisher
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationRepo repositories.NotificationRepository, publisher EventPublisher) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		publisher:        publisher,
	}
}

// DispatchStatusChange creates exactly one notification for a transition
// into paid or canceled. Other statuses are ignored. The caller only
// invokes this on actual transitions, so a redundant same-status re-save
// never duplicates a notification.
func (s *NotificationService) DispatchStatusChange(order *models.Order) error {
	if order.Status != models.OrderStatusPaid && order.Status != models.OrderStatusCanceled {
		return nil
	}

	notification := &models.Notification{
		SenderID:   order.UserID,
		ReceiverID: order.UserID,
		Type:       order.Status,
		OrderID:    order.ID,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		return err
	}

	// Broker publish is best-effort: the notification record is the source
	// of truth, the event just fans it out.
	if s.publisher != nil {
		event := map[string]interface{}{
			"orderID": order.ID,
			"userID":  order.UserID,
			"status":  order.Status,
			"total":   order.TotalPrice,
		}
		body, err := json.Marshal(event)
		if err != nil {
			log.Printf("Failed to marshal order status event: %v", err)
			return nil
		}
		if err := s.publisher.Publish("", rabbitmq.OrderEventsQueue, body); err != nil {
			log.Printf("Warning: Failed to publish status event for order %s: %v", order.ID, err)
		}
	}

	return nil
}

// GetNotificationsForUser lists notifications addressed to a user.
func (s *NotificationService) GetNotificationsForUser(userID string) ([]models.Notification, error) {
	return s.notificationRepo.GetByReceiverID(userID)
}
