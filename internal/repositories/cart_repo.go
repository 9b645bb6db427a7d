package repositories

import "pasar/internal/models"

// CartRepository defines the interface for cart data access. A user has at
// most one cart; GetOrCreateByUserID creates it lazily.
type CartRepository interface {
	// GetByUserID loads the user's cart with items and their products
	// preloaded. Returns nil (no error) when the user has no cart yet.
	GetByUserID(userID string) (*models.Cart, error)
	GetOrCreateByUserID(userID string) (*models.Cart, error)
	AddItem(item *models.CartItem) error
	// ClearItems removes every item from the cart; the cart itself stays.
	ClearItems(cartID string) error
}
