package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a storefront customer
type User struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	PhoneNumber string    `db:"phone_number" json:"phone_number"`
	AddressName string    `db:"address_name" json:"address_name"`
	Address     string    `db:"address" json:"address"`
	City        string    `db:"city" json:"city"`
	Balance     int64     `db:"balance" json:"balance"`
	IsAdmin     bool      `db:"is_admin" json:"is_admin"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Category groups products
type Category struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Type      string    `db:"type" json:"type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Product represents a catalog product
type Product struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CategoryID  uuid.UUID `db:"category_id" json:"category_id"`
	Title       string    `db:"title" json:"title"`
	Brand       string    `db:"brand" json:"brand"`
	Condition   string    `db:"condition" json:"condition"`
	Description string    `db:"description" json:"description"`
	Price       int64     `db:"price" json:"price"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Size is a named size shared across products
type Size struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Size string    `db:"size" json:"size"`
}

// ProductSize holds the stock level for one product+size combination
type ProductSize struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ProductID uuid.UUID `db:"product_id" json:"product_id"`
	SizeID    uuid.UUID `db:"size_id" json:"size_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
}

// CartItem is one product-size-quantity entry in a user's cart
type CartItem struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	ProductSizeID uuid.UUID `db:"product_size_id" json:"product_size_id"`
	Quantity      int       `db:"quantity" json:"quantity"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// CartLine is a cart item joined with product and stock data, as read at
// checkout or cart-listing time
type CartLine struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ProductSizeID uuid.UUID `db:"product_size_id" json:"product_size_id"`
	Title         string    `db:"title" json:"title"`
	Brand         string    `db:"brand" json:"brand"`
	Size          string    `db:"size" json:"size"`
	UnitPrice     int64     `db:"unit_price" json:"unit_price"`
	Quantity      int       `db:"quantity" json:"quantity"`
	Stock         int       `db:"stock" json:"stock"`
}

// Order represents a committed checkout
type Order struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	AddressName    string    `db:"address_name" json:"address_name"`
	Address        string    `db:"address" json:"address"`
	City           string    `db:"city" json:"city"`
	PhoneNumber    string    `db:"phone_number" json:"phone_number"`
	ShippingMethod string    `db:"shipping_method" json:"shipping_method"`
	ShippingPrice  int64     `db:"shipping_price" json:"shipping_price"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// OrderItem represents one cart line captured into an order
type OrderItem struct {
	ID            uuid.UUID `db:"id" json:"id"`
	OrderID       uuid.UUID `db:"order_id" json:"order_id"`
	ProductSizeID uuid.UUID `db:"product_size_id" json:"product_size_id"`
	Quantity      int       `db:"quantity" json:"quantity"`
	Price         int64     `db:"price" json:"price"`
}

// OrderItemDetail is an order item joined with product and size data for
// the order detail projection
type OrderItemDetail struct {
	ProductID uuid.UUID `db:"product_id" json:"product_id"`
	Name      string    `db:"name" json:"name"`
	Size      string    `db:"size" json:"size"`
	Quantity  int       `db:"quantity" json:"quantity"`
	Price     int64     `db:"price" json:"price"`
}

// AdminOrderRow is one row of the admin order listing
type AdminOrderRow struct {
	ID        uuid.UUID `db:"id" json:"id"`
	CreatedAt string    `db:"created_at" json:"created_at"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	UserName  string    `db:"user_name" json:"user_name"`
	UserEmail string    `db:"user_email" json:"user_email"`
	Status    string    `db:"status" json:"status"`
	Total     int64     `db:"total" json:"total"`
}

// Order statuses
const (
	OrderStatusProcessed = "processed"
	OrderStatusShipped   = "shipped"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// ValidOrderStatus reports whether s is a member of the order status enum.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusProcessed, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}
