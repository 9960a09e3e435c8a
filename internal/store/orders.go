package store

import (
	"context"
	"database/sql"
	"fmt"

	"storefront-service/internal/models"

	"github.com/google/uuid"
)

// CreateOrder creates a new order
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (user_id, address_name, address, city, phone_number,
			shipping_method, shipping_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, order, query,
		order.UserID, order.AddressName, order.Address, order.City,
		order.PhoneNumber, order.ShippingMethod, order.ShippingPrice, order.Status)
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderForUser retrieves an order by ID scoped to its owning user
func (s *Store) GetOrderForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE id = $1 AND user_id = $2", orderID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus updates order status
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1 WHERE id = $2", status, orderID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetOrdersByUserID retrieves orders for a user
func (s *Store) GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return orders, err
}

// CreateOrderItem creates a new order item
func (s *Store) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_size_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return s.db.GetContext(ctx, &item.ID, query,
		item.OrderID, item.ProductSizeID, item.Quantity, item.Price)
}

// GetOrderItemDetails retrieves an order's items joined with product and
// size data for the detail projection
func (s *Store) GetOrderItemDetails(ctx context.Context, orderID uuid.UUID) ([]models.OrderItemDetail, error) {
	var items []models.OrderItemDetail
	err := s.db.SelectContext(ctx, &items, `
		SELECT products.id AS product_id, products.title AS name, sizes.size,
		order_items.quantity, order_items.price
		FROM order_items
		JOIN product_sizes ON order_items.product_size_id = product_sizes.id
		JOIN sizes ON product_sizes.size_id = sizes.id
		JOIN products ON product_sizes.product_id = products.id
		WHERE order_items.order_id = $1`,
		orderID)
	return items, err
}

// ListAdminOrders retrieves a page of all orders with the computed order
// total, sorted by that total
func (s *Store) ListAdminOrders(ctx context.Context, sortAsc bool, limit, offset int) ([]models.AdminOrderRow, error) {
	sort := "DESC"
	if sortAsc {
		sort = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT orders.id, to_char(orders.created_at, 'Dy, DD FMMonth YYYY') AS created_at,
		users.id AS user_id, users.name AS user_name, users.email AS user_email,
		orders.status, SUM(order_items.price * order_items.quantity) + orders.shipping_price AS total
		FROM orders
		JOIN order_items ON orders.id = order_items.order_id
		JOIN users ON orders.user_id = users.id
		GROUP BY orders.id, users.id
		ORDER BY total %s
		LIMIT $1 OFFSET $2`, sort)

	var rows []models.AdminOrderRow
	err := s.db.SelectContext(ctx, &rows, query, limit, offset)
	return rows, err
}
