package service

import (
	"context"
	"errors"
	"fmt"

	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartRepository covers the cart reads and writes the cart service needs.
type CartRepository interface {
	CartStore
	GetCartItem(ctx context.Context, userID, cartID uuid.UUID) (*models.CartItem, error)
	GetCartItemByProductSize(ctx context.Context, userID, productSizeID uuid.UUID) (*models.CartItem, error)
	CreateCartItem(ctx context.Context, item *models.CartItem) error
	UpdateCartQuantity(ctx context.Context, cartID uuid.UUID, quantity int) error
	DeleteCartItem(ctx context.Context, userID, cartID uuid.UUID) error
}

// CatalogReader resolves products and stock rows for cart mutations.
type CatalogReader interface {
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductSize(ctx context.Context, productID uuid.UUID, size string) (*models.ProductSize, error)
	GetProductSizeByID(ctx context.Context, id uuid.UUID) (*models.ProductSize, error)
}

// CartService handles cart management
type CartService struct {
	carts   CartRepository
	catalog CatalogReader
	logger  *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(carts CartRepository, catalog CatalogReader) *CartService {
	return &CartService{
		carts:   carts,
		catalog: catalog,
		logger:  util.GetLogger(),
	}
}

// List retrieves the user's cart lines. An empty cart is ErrEmptyCart.
func (s *CartService) List(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	lines, err := s.carts.LinesForUser(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "loading cart", Err: err}
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	return lines, nil
}

// Add puts quantity of a product+size into the cart, merging with an
// existing line. The merged quantity is gated against current stock.
func (s *CartService) Add(ctx context.Context, userID, productID uuid.UUID, size string, quantity int) error {
	product, err := s.catalog.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &InvalidInputError{
				Field:   "product_id",
				Message: fmt.Sprintf("Product ID %s not found", productID),
			}
		}
		return &PersistenceError{Op: "loading product", Err: err}
	}

	stockRow, err := s.catalog.GetProductSize(ctx, productID, size)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &InvalidInputError{
				Field:   "size",
				Message: fmt.Sprintf("Size %s not available for product %s", size, product.Title),
			}
		}
		return &PersistenceError{Op: "loading stock", Err: err}
	}

	existing, err := s.carts.GetCartItemByProductSize(ctx, userID, stockRow.ID)
	if err != nil {
		return &PersistenceError{Op: "loading cart", Err: err}
	}

	requested := quantity
	if existing != nil {
		requested += existing.Quantity
	}
	if requested > stockRow.Quantity {
		return &OutOfStockError{Product: product.Title}
	}

	util.CartMutationsTotal.WithLabelValues("add").Inc()

	if existing != nil {
		if err := s.carts.UpdateCartQuantity(ctx, existing.ID, requested); err != nil {
			return &PersistenceError{Op: "updating cart", Err: err}
		}
		return nil
	}

	item := &models.CartItem{
		UserID:        userID,
		ProductSizeID: stockRow.ID,
		Quantity:      quantity,
	}
	if err := s.carts.CreateCartItem(ctx, item); err != nil {
		return &PersistenceError{Op: "creating cart", Err: err}
	}

	s.logger.Info("Added to cart",
		zap.String("user_id", userID.String()),
		zap.String("product", product.Title),
		zap.Int("quantity", quantity))
	return nil
}

// UpdateQuantity sets a cart line's quantity. Quantities above current
// stock are rejected; quantities at or below zero are accepted unchanged.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, cartID uuid.UUID, quantity int) error {
	item, err := s.carts.GetCartItem(ctx, userID, cartID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return &PersistenceError{Op: "loading cart", Err: err}
	}

	stockRow, err := s.catalog.GetProductSizeByID(ctx, item.ProductSizeID)
	if err != nil {
		return &PersistenceError{Op: "loading stock", Err: err}
	}

	if quantity > stockRow.Quantity {
		product, err := s.catalog.GetProductByID(ctx, stockRow.ProductID)
		if err != nil {
			return &PersistenceError{Op: "loading product", Err: err}
		}
		return &OutOfStockError{Product: product.Title}
	}

	if err := s.carts.UpdateCartQuantity(ctx, cartID, quantity); err != nil {
		return &PersistenceError{Op: "updating cart", Err: err}
	}

	util.CartMutationsTotal.WithLabelValues("update").Inc()
	return nil
}

// Delete removes a cart line owned by the user.
func (s *CartService) Delete(ctx context.Context, userID, cartID uuid.UUID) error {
	if err := s.carts.DeleteCartItem(ctx, userID, cartID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return &PersistenceError{Op: "deleting cart", Err: err}
	}

	util.CartMutationsTotal.WithLabelValues("delete").Inc()
	return nil
}

// Clear removes every cart line for the user.
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.carts.ClearForUser(ctx, userID); err != nil {
		return &PersistenceError{Op: "clearing cart", Err: err}
	}

	util.CartMutationsTotal.WithLabelValues("clear").Inc()
	return nil
}
