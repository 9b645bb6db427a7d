package services

import (
	"fmt"

	"pasar/internal/models"
	"pasar/internal/repositories"
)

// OrderService handles business logic related to orders: read queries and
// the status state machine. Order creation itself lives in CheckoutService.
type OrderService struct {
	orderRepo repositories.OrderRepository
	notifier  *NotificationService
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, notifier *NotificationService) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		notifier:  notifier,
	}
}

// GetAllOrders retrieves all orders (admin view).
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrdersForUser retrieves the orders belonging to one user.
func (s *OrderService) GetOrdersForUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetAllByUserID(userID)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// UpdateOrderStatus drives the order state machine:
// pending -> paid | canceled, paid -> delivered. A transition into paid or
// canceled dispatches a notification; writing the current status again is
// a no-op and dispatches nothing.
func (s *OrderService) UpdateOrderStatus(id string, status string) error {
	if !models.IsValidOrderStatus(status) {
		return fmt.Errorf("invalid order status: %s", status)
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if order.Status == status {
		return nil
	}
	if !models.CanTransitionOrderStatus(order.Status, status) {
		return fmt.Errorf("order %s cannot transition from %s to %s", id, order.Status, status)
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}

	order.Status = status
	if err := s.notifier.DispatchStatusChange(order); err != nil {
		return fmt.Errorf("failed to dispatch notification for order %s: %w", id, err)
	}
	return nil
}
