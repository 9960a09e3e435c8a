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

// CartStore reads and clears a user's cart.
type CartStore interface {
	LinesForUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	ClearForUser(ctx context.Context, userID uuid.UUID) error
}

// StockStore decrements stock levels. The decrement must be conditional:
// it fails with store.ErrInsufficientStock instead of going negative.
type StockStore interface {
	DecrementStock(ctx context.Context, productSizeID uuid.UUID, quantity int) error
}

// OrderStore persists orders and their items.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItem(ctx context.Context, item *models.OrderItem) error
}

// UserStore reads users and debits balances.
type UserStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	DecrementBalance(ctx context.Context, userID uuid.UUID, amount int64) error
}

// Notifier enqueues the checkout confirmation email. Best effort: a failure
// is logged and never rolls back the order.
type Notifier interface {
	SendCheckoutEmail(ctx context.Context, event *models.CheckoutCompletedEvent) error
}

// IdempotencyStore remembers checkout keys so a replayed request returns
// the original order instead of re-running the workflow.
type IdempotencyStore interface {
	GetIdempotentOrder(ctx context.Context, key string) (uuid.UUID, bool, error)
	SetIdempotentOrder(ctx context.Context, key string, orderID uuid.UUID) error
}

// CheckoutService orchestrates order placement
type CheckoutService struct {
	carts    CartStore
	stock    StockStore
	orders   OrderStore
	users    UserStore
	notifier Notifier
	idem     IdempotencyStore
	logger   *zap.Logger
}

// NewCheckoutService creates a new checkout service. idem may be nil when
// idempotency is not configured.
func NewCheckoutService(
	carts CartStore,
	stock StockStore,
	orders OrderStore,
	users UserStore,
	notifier Notifier,
	idem IdempotencyStore,
) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		stock:    stock,
		orders:   orders,
		users:    users,
		notifier: notifier,
		idem:     idem,
		logger:   util.GetLogger(),
	}
}

// ShippingAddress holds the destination fields for an order
type ShippingAddress struct {
	AddressName string `json:"address_name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	PhoneNumber string `json:"phone_number"`
}

// CheckoutRequest represents a request to convert the cart into an order
type CheckoutRequest struct {
	ShippingAddress ShippingAddress `json:"shipping_address" binding:"required"`
	ShippingMethod  string          `json:"shipping_method" binding:"required"`
	SendEmail       bool            `json:"send_email"`
	IdempotencyKey  string          `json:"-"`
}

// CheckoutResponse represents the response after a successful checkout
type CheckoutResponse struct {
	OrderID     uuid.UUID `json:"order_id"`
	Message     string    `json:"message"`
	EmailQueued bool      `json:"email_queued"`
}

// Checkout converts the user's cart into a committed order: shipping price,
// balance gate, order + items, stock decrement, cart clearing, balance
// debit, optional confirmation email. Each persistence step commits on its
// own; there is no cross-step rollback.
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID, req *CheckoutRequest) (*CheckoutResponse, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Checkout")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutDuration.Observe(time.Since(start).Seconds())
	}()

	if field := emptyAddressField(&req.ShippingAddress); field != "" {
		util.CheckoutsFailedTotal.WithLabelValues("invalid_input").Inc()
		return nil, &InvalidInputError{Field: field}
	}

	method, err := ParseShippingMethod(req.ShippingMethod)
	if err != nil {
		util.CheckoutsFailedTotal.WithLabelValues("invalid_input").Inc()
		return nil, err
	}

	if s.idem != nil && req.IdempotencyKey != "" {
		orderID, found, err := s.idem.GetIdempotentOrder(ctx, req.IdempotencyKey)
		if err != nil {
			s.logger.Warn("Idempotency lookup failed", zap.Error(err))
		} else if found {
			s.logger.Info("Duplicate checkout request detected",
				zap.String("idempotency_key", req.IdempotencyKey),
				zap.String("order_id", orderID.String()))
			return &CheckoutResponse{
				OrderID: orderID,
				Message: "Order created successfully",
			}, nil
		}
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "loading user", Err: err}
	}

	lines, err := s.carts.LinesForUser(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "loading cart", Err: err}
	}
	if len(lines) == 0 {
		util.CheckoutsFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}

	var itemTotal int64
	for _, line := range lines {
		itemTotal += line.UnitPrice * int64(line.Quantity)
	}

	shippingPrice := ShippingPrice(itemTotal, method)
	util.ShippingPriceComputed.WithLabelValues(string(method)).Observe(float64(shippingPrice))

	s.logger.Info("Checkout totals computed",
		zap.String("user_id", userID.String()),
		zap.Int64("item_total", itemTotal),
		zap.Int64("shipping_price", shippingPrice))

	grandTotal := itemTotal + shippingPrice
	if grandTotal > user.Balance {
		util.CheckoutsFailedTotal.WithLabelValues("insufficient_balance").Inc()
		return nil, &InsufficientBalanceError{Shortfall: grandTotal - user.Balance}
	}

	order := &models.Order{
		UserID:         userID,
		AddressName:    req.ShippingAddress.AddressName,
		Address:        req.ShippingAddress.Address,
		City:           req.ShippingAddress.City,
		PhoneNumber:    req.ShippingAddress.PhoneNumber,
		ShippingMethod: string(method),
		ShippingPrice:  shippingPrice,
		Status:         models.OrderStatusProcessed,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		util.CheckoutsFailedTotal.WithLabelValues("persistence").Inc()
		s.logger.Error("Failed to create order", zap.Error(err))
		return nil, &PersistenceError{Op: "creating order", Err: err}
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user", user.Name))

	// Each item commits on its own: lines committed before an out-of-stock
	// line stay committed.
	for _, line := range lines {
		if line.Quantity > line.Stock {
			util.CheckoutsFailedTotal.WithLabelValues("out_of_stock").Inc()
			return nil, &OutOfStockError{Product: line.Title}
		}

		item := &models.OrderItem{
			OrderID:       order.ID,
			ProductSizeID: line.ProductSizeID,
			Quantity:      line.Quantity,
			Price:         line.UnitPrice,
		}
		if err := s.orders.CreateOrderItem(ctx, item); err != nil {
			util.CheckoutsFailedTotal.WithLabelValues("persistence").Inc()
			return nil, &PersistenceError{Op: "creating order item", Err: err}
		}

		if err := s.stock.DecrementStock(ctx, line.ProductSizeID, line.Quantity); err != nil {
			if errors.Is(err, store.ErrInsufficientStock) {
				util.CheckoutsFailedTotal.WithLabelValues("out_of_stock").Inc()
				return nil, &OutOfStockError{Product: line.Title}
			}
			util.CheckoutsFailedTotal.WithLabelValues("persistence").Inc()
			return nil, &PersistenceError{Op: "updating stock", Err: err}
		}

		s.logger.Info("Order item committed",
			zap.String("order_id", order.ID.String()),
			zap.String("product", line.Title),
			zap.Int("quantity", line.Quantity))
	}

	if err := s.carts.ClearForUser(ctx, userID); err != nil {
		util.CheckoutsFailedTotal.WithLabelValues("persistence").Inc()
		s.logger.Error("Failed to clear cart", zap.Error(err))
		return nil, &PersistenceError{Op: "clearing cart", Err: err}
	}

	if err := s.users.DecrementBalance(ctx, userID, grandTotal); err != nil {
		util.CheckoutsFailedTotal.WithLabelValues("persistence").Inc()
		s.logger.Error("Failed to debit balance", zap.Error(err))
		return nil, &PersistenceError{Op: "reducing balance", Err: err}
	}

	util.CheckoutsTotal.Inc()

	if s.idem != nil && req.IdempotencyKey != "" {
		if err := s.idem.SetIdempotentOrder(ctx, req.IdempotencyKey, order.ID); err != nil {
			s.logger.Warn("Failed to store idempotency key", zap.Error(err))
		}
	}

	resp := &CheckoutResponse{
		OrderID: order.ID,
		Message: "Order created successfully",
	}

	if req.SendEmail {
		event := checkoutEvent(order, user, req, itemTotal, grandTotal, lines)
		if err := s.notifier.SendCheckoutEmail(ctx, event); err != nil {
			s.logger.Error("Failed to enqueue checkout email",
				zap.String("order_id", order.ID.String()),
				zap.Error(err))
		} else {
			resp.EmailQueued = true
			resp.Message = "Order created successfully and an email will be sent to you shortly"
		}
	}

	return resp, nil
}

// Preview returns the shipping quote for every method against the user's
// current cart total. An empty cart quotes from zero, as the storefront
// shows the preview before checkout.
func (s *CheckoutService) Preview(ctx context.Context, userID uuid.UUID) ([]ShippingQuote, error) {
	lines, err := s.carts.LinesForUser(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "loading cart", Err: err}
	}

	var itemTotal int64
	for _, line := range lines {
		itemTotal += line.UnitPrice * int64(line.Quantity)
	}

	return ShippingQuotes(itemTotal), nil
}

func emptyAddressField(addr *ShippingAddress) string {
	switch {
	case addr.AddressName == "":
		return "address_name"
	case addr.Address == "":
		return "address"
	case addr.City == "":
		return "city"
	case addr.PhoneNumber == "":
		return "phone_number"
	}
	return ""
}

func checkoutEvent(
	order *models.Order,
	user *models.User,
	req *CheckoutRequest,
	itemTotal, grandTotal int64,
	lines []models.CartLine,
) *models.CheckoutCompletedEvent {
	snapshot := make([]models.CheckoutLine, 0, len(lines))
	for _, line := range lines {
		snapshot = append(snapshot, models.CheckoutLine{
			Title:     line.Title,
			Size:      line.Size,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	return &models.CheckoutCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeCheckoutCompleted,
			Timestamp: time.Now(),
		},
		OrderID:        order.ID,
		UserName:       user.Name,
		UserEmail:      user.Email,
		Address:        req.ShippingAddress.Address,
		ShippingMethod: order.ShippingMethod,
		ShippingPrice:  order.ShippingPrice,
		ItemTotal:      itemTotal,
		GrandTotal:     grandTotal,
		Lines:          snapshot,
	}
}
