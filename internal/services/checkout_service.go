package services

import (
	"fmt"
	"log"

	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckoutService converts a mutable cart into an immutable order. It
// works on *gorm.DB directly rather than through the repositories because
// every read and write of a checkout must share one transaction.
type CheckoutService struct {
	db *gorm.DB
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(db *gorm.DB) *CheckoutService {
	return &CheckoutService{
		db: db,
	}
}

// Checkout places an order from the user's cart. Everything runs in one
// transaction: the order and its item snapshots are created, each
// product's stock is decremented, and the cart is emptied; any failure
// rolls the whole attempt back, so partial orders are never observable.
//
// cartItemIDs is accepted for API compatibility but deliberately unused:
// checkout always consumes the whole cart, matching the behavior clients
// were built against.
func (s *CheckoutService) Checkout(userID, address string, cartItemIDs []int) (*models.Order, error) {
	_ = cartItemIDs

	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Preload("Items.Product").First(&cart, "user_id = ?", userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrEmptyCart
			}
			return fmt.Errorf("failed to load cart: %w", err)
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		newOrder := &models.Order{
			ID:         uuid.New().String(),
			UserID:     userID,
			Address:    address,
			TotalPrice: cart.TotalPrice(), // prices as of this instant
			Status:     models.OrderStatusPending,
		}
		if err := tx.Create(newOrder).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, item := range cart.Items {
			if item.Product == nil {
				return fmt.Errorf("cart item %s references a missing product", item.ID)
			}

			// Conditional single-statement decrement: the stock >= quantity
			// guard and the write are one atomic operation, so two
			// concurrent checkouts can never both take the last unit.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to decrement stock for product %s: %w", item.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				var product models.Product
				available := 0
				if err := tx.First(&product, "id = ?", item.ProductID).Error; err == nil {
					available = product.Stock
				}
				return &InsufficientStockError{ProductName: item.Product.Name, Available: available}
			}

			orderItem := models.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   newOrder.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Product.Price, // snapshot, never tracks later price changes
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
			newOrder.Items = append(newOrder.Items, orderItem)
		}

		// The cart entity survives empty for reuse.
		if err := tx.Delete(&models.CartItem{}, "cart_id = ?", cart.ID).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		order = newOrder
		return nil
	})
	if err != nil {
		log.Printf("Checkout failed for user %s: %v", userID, err)
		return nil, err
	}
	return order, nil
}
