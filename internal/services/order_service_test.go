package services_test

import (
	"fmt"
	"testing"

	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetAll() ([]models.Order, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllByUserID(userID string) ([]models.Order, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(id string, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

// MockNotificationRepository is a mock implementation of
// repositories.NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(notification *models.Notification) error {
	args := m.Called(notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByReceiverID(receiverID string) ([]models.Notification, error) {
	args := m.Called(receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

// recordingPublisher captures broker publishes in place of RabbitMQ.
type recordingPublisher struct {
	published [][]byte
	failAll   bool
}

func (p *recordingPublisher) Publish(exchange, routingKey string, body []byte) error {
	if p.failAll {
		return fmt.Errorf("broker down")
	}
	p.published = append(p.published, body)
	return nil
}

func newOrderServiceForTest() (*services.OrderService, *MockOrderRepository, *MockNotificationRepository, *recordingPublisher) {
	orderRepo := new(MockOrderRepository)
	notificationRepo := new(MockNotificationRepository)
	publisher := &recordingPublisher{}
	notifier := services.NewNotificationService(notificationRepo, publisher)
	return services.NewOrderService(orderRepo, notifier), orderRepo, notificationRepo, publisher
}

func TestOrderService_UpdateOrderStatus_PendingToPaid(t *testing.T) {
	orderService, orderRepo, notificationRepo, publisher := newOrderServiceForTest()

	order := &models.Order{ID: "order-1", UserID: "user-1", Status: models.OrderStatusPending}
	orderRepo.On("GetByID", "order-1").Return(order, nil).Once()
	orderRepo.On("UpdateStatus", "order-1", models.OrderStatusPaid).Return(nil).Once()
	notificationRepo.On("Create", mock.AnythingOfType("*models.Notification")).Run(func(args mock.Arguments) {
		n := args.Get(0).(*models.Notification)
		assert.Equal(t, "user-1", n.SenderID)
		assert.Equal(t, "user-1", n.ReceiverID)
		assert.Equal(t, models.OrderStatusPaid, n.Type)
		assert.Equal(t, "order-1", n.OrderID)
	}).Return(nil).Once()

	err := orderService.UpdateOrderStatus("order-1", models.OrderStatusPaid)
	assert.NoError(t, err)
	orderRepo.AssertExpectations(t)
	notificationRepo.AssertExpectations(t)
	assert.Len(t, publisher.published, 1)
	assert.Contains(t, string(publisher.published[0]), `"orderID":"order-1"`)
}

func TestOrderService_UpdateOrderStatus_PaidToDelivered(t *testing.T) {
	orderService, orderRepo, notificationRepo, publisher := newOrderServiceForTest()

	order := &models.Order{ID: "order-1", UserID: "user-1", Status: models.OrderStatusPaid}
	orderRepo.On("GetByID", "order-1").Return(order, nil).Once()
	orderRepo.On("UpdateStatus", "order-1", models.OrderStatusDelivered).Return(nil).Once()

	err := orderService.UpdateOrderStatus("order-1", models.OrderStatusDelivered)
	assert.NoError(t, err)
	orderRepo.AssertExpectations(t)
	// Delivered is not a notifying status
	notificationRepo.AssertNotCalled(t, "Create", mock.Anything)
	assert.Empty(t, publisher.published)
}

func TestOrderService_UpdateOrderStatus_SameStatusIsNoOp(t *testing.T) {
	orderService, orderRepo, notificationRepo, _ := newOrderServiceForTest()

	order := &models.Order{ID: "order-1", UserID: "user-1", Status: models.OrderStatusPaid}
	orderRepo.On("GetByID", "order-1").Return(order, nil).Once()

	err := orderService.UpdateOrderStatus("order-1", models.OrderStatusPaid)
	assert.NoError(t, err)
	// No write and, crucially, no duplicate notification
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	notificationRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestOrderService_UpdateOrderStatus_InvalidTransition(t *testing.T) {
	orderService, orderRepo, notificationRepo, _ := newOrderServiceForTest()

	order := &models.Order{ID: "order-1", UserID: "user-1", Status: models.OrderStatusCanceled}
	orderRepo.On("GetByID", "order-1").Return(order, nil).Once()

	err := orderService.UpdateOrderStatus("order-1", models.OrderStatusPaid)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot transition from canceled to paid")
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	notificationRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestOrderService_UpdateOrderStatus_UnknownStatus(t *testing.T) {
	orderService, orderRepo, _, _ := newOrderServiceForTest()

	err := orderService.UpdateOrderStatus("order-1", "shipped")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid order status: shipped")
	// Rejected before touching the repository
	orderRepo.AssertNotCalled(t, "GetByID", mock.Anything)
}

func TestOrderService_UpdateOrderStatus_BrokerFailureIsNotFatal(t *testing.T) {
	orderService, orderRepo, notificationRepo, publisher := newOrderServiceForTest()
	publisher.failAll = true

	order := &models.Order{ID: "order-1", UserID: "user-1", Status: models.OrderStatusPending}
	orderRepo.On("GetByID", "order-1").Return(order, nil).Once()
	orderRepo.On("UpdateStatus", "order-1", models.OrderStatusCanceled).Return(nil).Once()
	notificationRepo.On("Create", mock.AnythingOfType("*models.Notification")).Return(nil).Once()

	// The notification record is the source of truth; a broker outage
	// must not fail the status update.
	err := orderService.UpdateOrderStatus("order-1", models.OrderStatusCanceled)
	assert.NoError(t, err)
	notificationRepo.AssertExpectations(t)
}

func TestOrderService_GetOrdersForUser(t *testing.T) {
	orderService, orderRepo, _, _ := newOrderServiceForTest()

	expected := []models.Order{
		{ID: "order-1", UserID: "user-1"},
		{ID: "order-2", UserID: "user-1"},
	}
	orderRepo.On("GetAllByUserID", "user-1").Return(expected, nil).Once()

	orders, err := orderService.GetOrdersForUser("user-1")
	assert.NoError(t, err)
	assert.Equal(t, expected, orders)
	orderRepo.AssertExpectations(t)
}
