package store

import (
	"context"
	"database/sql"

	"storefront-service/internal/models"

	"github.com/google/uuid"
)

// LinesForUser retrieves the user's cart joined with product and stock data
func (s *Store) LinesForUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := s.db.SelectContext(ctx, &lines, `
		SELECT carts.id, carts.product_size_id, products.title, products.brand,
		sizes.size, products.price AS unit_price, carts.quantity,
		product_sizes.quantity AS stock
		FROM carts
		JOIN product_sizes ON carts.product_size_id = product_sizes.id
		JOIN sizes ON product_sizes.size_id = sizes.id
		JOIN products ON product_sizes.product_id = products.id
		WHERE carts.user_id = $1
		ORDER BY carts.created_at`,
		userID)
	return lines, err
}

// GetCartItem retrieves a cart item owned by the user
func (s *Store) GetCartItem(ctx context.Context, userID, cartID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.GetContext(ctx, &item,
		"SELECT * FROM carts WHERE id = $1 AND user_id = $2", cartID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetCartItemByProductSize retrieves the user's cart item for a stock row,
// if one exists
func (s *Store) GetCartItemByProductSize(ctx context.Context, userID, productSizeID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.GetContext(ctx, &item,
		"SELECT * FROM carts WHERE user_id = $1 AND product_size_id = $2",
		userID, productSizeID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateCartItem creates a new cart item
func (s *Store) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	query := `
		INSERT INTO carts (user_id, product_size_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, item, query,
		item.UserID, item.ProductSizeID, item.Quantity)
}

// UpdateCartQuantity sets the quantity of a cart item
func (s *Store) UpdateCartQuantity(ctx context.Context, cartID uuid.UUID, quantity int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE carts SET quantity = $1 WHERE id = $2", quantity, cartID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCartItem deletes a cart item owned by the user
func (s *Store) DeleteCartItem(ctx context.Context, userID, cartID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM carts WHERE id = $1 AND user_id = $2", cartID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearForUser deletes all cart items for the user
func (s *Store) ClearForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM carts WHERE user_id = $1", userID)
	return err
}
