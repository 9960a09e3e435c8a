package store

import (
	"context"
	"database/sql"
	"fmt"

	"storefront-service/internal/models"

	"github.com/google/uuid"
)

// GetCategories retrieves all categories
func (s *Store) GetCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.SelectContext(ctx, &categories, "SELECT * FROM categories ORDER BY title")
	return categories, err
}

// GetCategoryByID retrieves a category by ID
func (s *Store) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := s.db.GetContext(ctx, &category, "SELECT * FROM categories WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory creates a new category
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (title, type)
		VALUES ($1, $2)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, category, query, category.Title, category.Type)
}

// UpdateCategory updates a category's title and type
func (s *Store) UpdateCategory(ctx context.Context, id uuid.UUID, title, categoryType string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE categories SET title = $1, type = $2 WHERE id = $3",
		title, categoryType, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory deletes a category by ID
func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	return err
}

// GetProducts retrieves products, optionally filtered by category
func (s *Store) GetProducts(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if categoryID != nil {
		err := s.db.SelectContext(ctx, &products,
			"SELECT * FROM products WHERE category_id = $1 ORDER BY created_at DESC", *categoryID)
		return products, err
	}
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY created_at DESC")
	return products, err
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetSizes retrieves all sizes
func (s *Store) GetSizes(ctx context.Context) ([]models.Size, error) {
	var sizes []models.Size
	err := s.db.SelectContext(ctx, &sizes, "SELECT id, size FROM sizes ORDER BY size")
	return sizes, err
}

// GetProductSizes retrieves size and stock rows for a product
func (s *Store) GetProductSizes(ctx context.Context, productID uuid.UUID) ([]models.ProductSize, error) {
	var rows []models.ProductSize
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM product_sizes WHERE product_id = $1", productID)
	return rows, err
}

// GetProductSizeByID retrieves a stock row by its id
func (s *Store) GetProductSizeByID(ctx context.Context, id uuid.UUID) (*models.ProductSize, error) {
	var row models.ProductSize
	err := s.db.GetContext(ctx, &row, "SELECT * FROM product_sizes WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetProductSize resolves a product id and size name to its stock row
func (s *Store) GetProductSize(ctx context.Context, productID uuid.UUID, size string) (*models.ProductSize, error) {
	var row models.ProductSize
	err := s.db.GetContext(ctx, &row, `
		SELECT product_sizes.*
		FROM product_sizes
		JOIN sizes ON product_sizes.size_id = sizes.id
		WHERE product_sizes.product_id = $1 AND sizes.size = $2`,
		productID, size)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetStock retrieves the current stock level for a product-size row
func (s *Store) GetStock(ctx context.Context, productSizeID uuid.UUID) (int, error) {
	var quantity int
	err := s.db.GetContext(ctx, &quantity,
		"SELECT quantity FROM product_sizes WHERE id = $1", productSizeID)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	return quantity, err
}

// DecrementStock decrements stock for a product-size row only if enough
// remains. The guard runs inside the UPDATE itself so concurrent checkouts
// cannot drive the quantity negative.
func (s *Store) DecrementStock(ctx context.Context, productSizeID uuid.UUID, quantity int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE product_sizes SET quantity = quantity - $1 WHERE id = $2 AND quantity >= $1",
		quantity, productSizeID)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInsufficientStock
	}
	return nil
}
