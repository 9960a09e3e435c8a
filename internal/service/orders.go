package service

import (
	"context"
	"errors"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderReader covers the order reads and status writes the order service
// needs.
type OrderReader interface {
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrderForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	GetOrderItemDetails(ctx context.Context, orderID uuid.UUID) ([]models.OrderItemDetail, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error
	ListAdminOrders(ctx context.Context, sortAsc bool, limit, offset int) ([]models.AdminOrderRow, error)
}

// StatusPublisher publishes order status change events, best effort.
type StatusPublisher interface {
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
}

// OrderService handles order reads and status transitions
type OrderService struct {
	orders    OrderReader
	users     UserStore
	publisher StatusPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service. publisher may be nil.
func NewOrderService(orders OrderReader, users UserStore, publisher StatusPublisher) *OrderService {
	return &OrderService{
		orders:    orders,
		users:     users,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// OrderDetail is the order detail projection: the order's core fields plus
// its items and the purchaser
type OrderDetail struct {
	ID             uuid.UUID                `json:"id"`
	CreatedAt      time.Time                `json:"created_at"`
	ShippingMethod string                   `json:"shipping_method"`
	ShippingPrice  int64                    `json:"shipping_price"`
	Status         string                   `json:"status"`
	Address        string                   `json:"shipping_address"`
	City           string                   `json:"city"`
	PhoneNumber    string                   `json:"phone_number"`
	Name           string                   `json:"name"`
	Email          string                   `json:"email"`
	Products       []models.OrderItemDetail `json:"products"`
}

// GetOrderDetail assembles the order detail projection
func (s *OrderService) GetOrderDetail(ctx context.Context, orderID uuid.UUID) (*OrderDetail, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	items, err := s.orders.GetOrderItemDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, order.UserID)
	if err != nil {
		return nil, err
	}

	return &OrderDetail{
		ID:             order.ID,
		CreatedAt:      order.CreatedAt,
		ShippingMethod: order.ShippingMethod,
		ShippingPrice:  order.ShippingPrice,
		Status:         order.Status,
		Address:        order.Address,
		City:           order.City,
		PhoneNumber:    order.PhoneNumber,
		Name:           user.Name,
		Email:          user.Email,
		Products:       items,
	}, nil
}

// ListUserOrders retrieves the caller's orders
func (s *OrderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.orders.GetOrdersByUserID(ctx, userID)
}

// CompleteOrder is the user-facing transition: only the owning user may
// move a shipped order to completed.
func (s *OrderService) CompleteOrder(ctx context.Context, userID, orderID uuid.UUID) error {
	order, err := s.orders.GetOrderForUser(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if order.Status != models.OrderStatusShipped {
		return ErrInvalidState
	}

	if err := s.orders.UpdateOrderStatus(ctx, orderID, models.OrderStatusCompleted); err != nil {
		return &PersistenceError{Op: "updating order status", Err: err}
	}

	util.OrderStatusUpdatesTotal.WithLabelValues(models.OrderStatusCompleted).Inc()
	s.publishStatusChanged(ctx, orderID, userID, models.OrderStatusCompleted)
	return nil
}

// SetOrderStatus is the admin-facing transition: any order may be set to
// any member of the status enum, with no legality check beyond membership.
func (s *OrderService) SetOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	if !models.ValidOrderStatus(status) {
		return &InvalidInputError{Field: "status", Message: "unknown order status"}
	}

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.orders.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return &PersistenceError{Op: "updating order status", Err: err}
	}

	util.OrderStatusUpdatesTotal.WithLabelValues(status).Inc()
	s.logger.Info("Order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("status", status))
	s.publishStatusChanged(ctx, orderID, order.UserID, status)
	return nil
}

// AdminOrderPage is one page of the admin order listing
type AdminOrderPage struct {
	Orders   []models.AdminOrderRow `json:"data"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
}

// ListAdminOrders retrieves a page of all orders sorted by computed total
func (s *OrderService) ListAdminOrders(ctx context.Context, sortAsc bool, page, pageSize int) (*AdminOrderPage, error) {
	rows, err := s.orders.ListAdminOrders(ctx, sortAsc, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	return &AdminOrderPage{Orders: rows, Page: page, PageSize: pageSize}, nil
}

func (s *OrderService) publishStatusChanged(ctx context.Context, orderID, userID uuid.UUID, status string) {
	if s.publisher == nil {
		return
	}

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID: orderID,
		UserID:  userID,
		Status:  status,
	}

	if err := s.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish status change",
			zap.String("order_id", orderID.String()),
			zap.Error(err))
	}
}
