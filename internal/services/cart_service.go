package services

import (
	"fmt"

	"pasar/internal/models"
	"pasar/internal/repositories"
)

// CartService handles business logic related to carts.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the user's cart with items and products loaded, or nil
// when the user has not added anything yet.
func (s *CartService) GetCart(userID string) (*models.Cart, error) {
	return s.cartRepo.GetByUserID(userID)
}

// AddItem puts a product into the user's cart, creating the cart on first
// use. Quantity is checked against stock at add time; checkout re-checks,
// since stock may change in between.
func (s *CartService) AddItem(userID, productSlug string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	product, err := s.productRepo.GetBySlug(productSlug)
	if err != nil {
		return nil, err
	}
	if product.Stock < quantity {
		return nil, fmt.Errorf("we have %d in product stock", product.Stock)
	}

	cart, err := s.cartRepo.GetOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}

	item := &models.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  quantity,
	}
	if err := s.cartRepo.AddItem(item); err != nil {
		return nil, err
	}
	item.Product = product
	return item, nil
}

// ClearCart removes every item from the user's cart. Clearing a cart that
// does not exist yet is a no-op.
func (s *CartService) ClearCart(userID string) error {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}
	return s.cartRepo.ClearItems(cart.ID)
}
