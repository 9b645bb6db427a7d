package handlers

import (
	"log"

	"pasar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles read-only HTTP requests for notifications.
type NotificationHandler struct {
	service *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		service: service,
	}
}

// RegisterRoutes registers the notification routes with the Fiber app.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/notifications", h.HandleGetNotifications)
}

// HandleGetNotifications lists notifications addressed to the
// authenticated user.
func (h *NotificationHandler) HandleGetNotifications(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	notifications, err := h.service.GetNotificationsForUser(userID)
	if err != nil {
		log.Printf("Error getting notifications for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve notifications",
			"error":   err.Error(),
		})
	}
	return c.JSON(notifications)
}
