package models

import (
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventTypeCheckoutCompleted  = "CHECKOUT_COMPLETED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// CheckoutLine is a cart-line snapshot carried in checkout events
type CheckoutLine struct {
	Title     string `json:"title"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// CheckoutCompletedEvent published after a successful checkout when the
// user opted into the confirmation email
type CheckoutCompletedEvent struct {
	BaseEvent
	OrderID        uuid.UUID      `json:"order_id"`
	UserName       string         `json:"user_name"`
	UserEmail      string         `json:"user_email"`
	Address        string         `json:"address"`
	ShippingMethod string         `json:"shipping_method"`
	ShippingPrice  int64          `json:"shipping_price"`
	ItemTotal      int64          `json:"item_total"`
	GrandTotal     int64          `json:"grand_total"`
	Lines          []CheckoutLine `json:"lines"`
}

// OrderStatusChangedEvent published when an order status is updated
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
	Status  string    `json:"status"`
}
