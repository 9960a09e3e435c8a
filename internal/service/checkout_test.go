package service

import (
	"context"
	"errors"
	"testing"

	"storefront-service/internal/models"
	"storefront-service/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend implements the checkout boundary interfaces in memory.
type fakeBackend struct {
	user  *models.User
	lines []models.CartLine
	stock map[uuid.UUID]int

	orders      []*models.Order
	items       []*models.OrderItem
	cartCleared bool
	failOrder   error
	failItem    error
	failClear   error
	failDebit   error
}

func (f *fakeBackend) LinesForUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	return f.lines, nil
}

func (f *fakeBackend) ClearForUser(ctx context.Context, userID uuid.UUID) error {
	if f.failClear != nil {
		return f.failClear
	}
	f.cartCleared = true
	f.lines = nil
	return nil
}

func (f *fakeBackend) DecrementStock(ctx context.Context, productSizeID uuid.UUID, quantity int) error {
	have := f.stock[productSizeID]
	if have < quantity {
		return store.ErrInsufficientStock
	}
	f.stock[productSizeID] = have - quantity
	return nil
}

func (f *fakeBackend) CreateOrder(ctx context.Context, order *models.Order) error {
	if f.failOrder != nil {
		return f.failOrder
	}
	order.ID = uuid.New()
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeBackend) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	if f.failItem != nil {
		return f.failItem
	}
	item.ID = uuid.New()
	f.items = append(f.items, item)
	return nil
}

func (f *fakeBackend) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if f.user == nil {
		return nil, store.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeBackend) DecrementBalance(ctx context.Context, userID uuid.UUID, amount int64) error {
	if f.failDebit != nil {
		return f.failDebit
	}
	f.user.Balance -= amount
	return nil
}

type fakeNotifier struct {
	sent []*models.CheckoutCompletedEvent
	fail error
}

func (n *fakeNotifier) SendCheckoutEmail(ctx context.Context, event *models.CheckoutCompletedEvent) error {
	if n.fail != nil {
		return n.fail
	}
	n.sent = append(n.sent, event)
	return nil
}

type fakeIdem struct {
	entries map[string]uuid.UUID
}

func (f *fakeIdem) GetIdempotentOrder(ctx context.Context, key string) (uuid.UUID, bool, error) {
	id, ok := f.entries[key]
	return id, ok, nil
}

func (f *fakeIdem) SetIdempotentOrder(ctx context.Context, key string, orderID uuid.UUID) error {
	f.entries[key] = orderID
	return nil
}

func validAddress() ShippingAddress {
	return ShippingAddress{
		AddressName: "Home",
		Address:     "Jl. Sudirman 1",
		City:        "Jakarta",
		PhoneNumber: "08123456789",
	}
}

func newBackend(balance int64, lines []models.CartLine) *fakeBackend {
	stock := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		stock[line.ProductSizeID] = line.Stock
	}
	return &fakeBackend{
		user: &models.User{
			ID:      uuid.New(),
			Name:    "Budi",
			Email:   "budi@example.com",
			Balance: balance,
		},
		lines: lines,
		stock: stock,
	}
}

func newCheckout(backend *fakeBackend, notifier *fakeNotifier, idem IdempotencyStore) *CheckoutService {
	return NewCheckoutService(backend, backend, backend, backend, notifier, idem)
}

func oneLine(price int64, qty, stock int) []models.CartLine {
	return []models.CartLine{{
		ID:            uuid.New(),
		ProductSizeID: uuid.New(),
		Title:         "Air Jordan 1",
		Size:          "42",
		UnitPrice:     price,
		Quantity:      qty,
		Stock:         stock,
	}}
}

func TestCheckoutRegularSuccess(t *testing.T) {
	lines := oneLine(100000, 1, 5)
	backend := newBackend(200000, lines)
	svc := newCheckout(backend, &fakeNotifier{}, nil)

	resp, err := svc.Checkout(context.Background(), backend.user.ID, &CheckoutRequest{
		ShippingAddress: validAddress(),
		ShippingMethod:  "Regular",
	})
	require.NoError(t, err)

	// shipping = 15% of 100000, grand total 115000
	require.Len(t, backend.orders, 1)
	assert.Equal(t, int64(15000), backend.orders[0].ShippingPrice)
	assert.Equal(t, models.OrderStatusProcessed, backend.orders[0].Status)
	assert.Equal(t, int64(85000), backend.user.Balance)
	assert.True(t, backend.cartCleared)
	require.Len(t, backend.items, 1)
	assert.Equal(t, 1, backend.items[0].Quantity)
	assert.Equal(t, 4, backend.stock[lines[0].ProductSizeID])
	assert.Equal(t, backend.orders[0].ID, resp.OrderID)
	assert.False(t, resp.EmailQueued)
}

func TestCheckoutNextDayExactBalance(t *testing.T) {
	lines := oneLine(100000, 1, 5)
	backend := newBackend(120000, lines)
	svc := newCheckout(backend, &fakeNotifier{}, nil)

	_, err := svc.Checkout(context.Background(), backend.user.ID, &CheckoutRequest{
		ShippingAddress: validAddress(),
		ShippingMethod:  "Next Day",
	})
	require.NoError(t, err)

	// shipping = 20% of 100000; balance exactly covers 120000
	require.Len(t, backend.orders, 1)
	assert.Equal(t, int64(20000), backend.orders[0].ShippingPrice)
	assert.Equal(t, int64(0), backend.user.Balance)
}

func TestCheckoutEmptyCart(t *testing.T) {
	backend := newBackend(10_000_000, nil)
	svc := newCheckout(backend, &fakeNotifier{}, nil)

	_, err := svc.Checkout(context.Background(), backend.user.ID, &CheckoutRequest{
		ShippingAddress: validAddress(),
		ShippingMethod:  "Regular",
	})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, backend.orders)
}

func TestCheckoutInsufficientBalance(t *testing.T) {
	backend := newBackend(100000, oneLine(100000, 1, 5))
	svc := newCheckout(backend, &fakeNotifier{}, nil)

	_, err := svc.Checkout(context.Background(), backend.user.ID, &CheckoutRequest{
		ShippingAddress: validAddress(),
		ShippingMethod:  "Regular",
	})

	var insufficient *InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(15000), insufficient.Shortfall)
	assert.Empty(t, backend.orders)
	assert.Equal(t, int64(100000), backend.user.Balance)
}

func TestCheckoutEmptyAddressFields(t *testing.T) {
	fields := []struct {
		name  string
		mut   func(*ShippingAddress)
		field string
	}{
		{"address name", func(a *ShippingAddress) { a.AddressName = "" }, "address_name"},
		{"address", func(a *ShippingAddress) { a.Address = "" }, "address"},
		{"city", func(a *ShippingAddress) { a.City = "" }, "city"},
		{"phone number", func(a *ShippingAddress) { a.PhoneNumber = "" }, "phone_number"},
	}

	for _, tt := range fields {
		t.Run(tt.name, func(t *testing.T) {
			backend := newBackend(1_000_000, oneLine(100000, 1, 5))
			svc := newCheckout(backend, &fakeNotifier{}, nil)

			addr := validAddress()
			tt.mut(&addr)

			_, err := svc.Checkout(context.Background(), backend.user.ID, &CheckoutRequest{
				ShippingAddress: addr,
				ShippingMethod:  "Regular",
			})

			var invalid *InvalidInputError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
			assert.Empty(t, backend.orders)
		})
	}
}

func TestCheckoutOutOfStock(t *testing.T) {
	lines := oneLine(100000, 5, 1)
	backend := newBackend(10_000_000, lines)
	svc := newCheckout(backend, &fakeNotifier{}, nil)

	_, err := svc.Checkout(context.Background(), backend.user.ID, &CheckoutRequest{
		ShippingAddress: validAddress(),
		ShippingMethod:  "Regular",
	})

	var oos *OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, "Air Jordan 1", oos.Product)

	// the order row was committed before the stock gate; no items were committed
	assert.Len(t, backend.orders, 1)
	assert.Empty(t, backend.items)
	assert.Equal(t, 1, backend.stock[lines[0].ProductSizeID])
	assert.False(t, backend.cartCleared)
}

func TestCheckoutOutOfStockMidSequence(t *testing.T) {
	first := models.CartLine{
		ID: uuid.New(), ProductSizeID: uuid.New(),
		Title: "Air Jordan 1", Size: "42", UnitPrice: 50000, Quantity: 1, Stock: 3,
	}
	second := models.CartLine{
		ID: uuid.New(), ProductSizeID: uuid.New(),
		Title: "Yeezy 350", Size: "41", UnitPrice: 80000, Quantity: 2, Stock: 1,
	}
	backend := newBackend(10_000_000, []models.CartLine{first, second})
	svc := newCheckout(backend, &fakeNotifier{}, nil)

	_, err := svc.Checkout(context.Background(), backend.user.ID, &CheckoutRequest{
		ShippingAddress: validAddress(),
		ShippingMethod:  "Regular",
	})

	var oos *OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, "Yeezy 350", oos.Product)

	// the first line's item and decrement stay committed
	require.Len(t, backend.items, 1)
	assert.Equal(t, first.ProductSizeID, backend.items[0].ProductSizeID)
	assert.Equal(t, 2, backend.stock[first.ProductSizeID])
	assert.Equal(t, 1, backend.stock[second.ProductSizeID])
	assert.False(t, backend.cartCleared)
}

func TestCheckoutLostStockRace(t *testing.T) {
	// snapshot says 2 available, but another checkout drained it first
	lines := oneLine(100000, 2, 2)
	backend := newBackend(10_000_000, lines)
	backend.stock[lines[0].ProductSizeID] = 1
	svc := newCheckout(backend, &fakeNotifier{}, nil)

	_, err := svc.Checkout(context.Background(), backend.user.ID, &CheckoutRequest{
		ShippingAddress: validAddress(),
		ShippingMethod:  "Regular",
	})

	var oos *OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, 1, backend.stock[lines[0].ProductSizeID], "stock must not go negative")
}

func TestCheckoutSendsEmail(t *testing.T) {
	lines := []models.CartLine{
		{ID: uuid.New(), ProductSizeID: uuid.New(), Title: "Air Jordan 1", Size: "42", UnitPrice: 100000, Quantity: 2, Stock: 5},
	}
	backend := newBackend(1_000_000, lines)
	notifier := &fakeNotifier{}
	svc := newCheckout(backend, notifier, nil)

	resp, err := svc.Checkout(context.Background(), backend.user.ID, &CheckoutRequest{
		ShippingAddress: validAddress(),
		ShippingMethod:  "Next Day",
		SendEmail:       true,
	})
	require.NoError(t, err)
	assert.True(t, resp.EmailQueued)

	require.Len(t, notifier.sent, 1)
	event := notifier.sent[0]
	assert.Equal(t, "Budi", event.UserName)
	assert.Equal(t, "budi@example.com", event.UserEmail)
	assert.Equal(t, int64(200000), event.ItemTotal)
	assert.Equal(t, int64(40000), event.ShippingPrice)
	assert.Equal(t, int64(240000), event.GrandTotal)
	require.Len(t, event.Lines, 1)
	assert.Equal(t, "Air Jordan 1", event.Lines[0].Title)
	assert.Equal(t, 2, event.Lines[0].Quantity)
}

func TestCheckoutNotifierFailureDoesNotFailOrder(t *testing.T) {
	backend := newBackend(1_000_000, oneLine(100000, 1, 5))
	notifier := &fakeNotifier{fail: errors.New("broker down")}
	svc := newCheckout(backend, notifier, nil)

	resp, err := svc.Checkout(context.Background(), backend.user.ID, &CheckoutRequest{
		ShippingAddress: validAddress(),
		ShippingMethod:  "Regular",
		SendEmail:       true,
	})
	require.NoError(t, err)
	assert.False(t, resp.EmailQueued)
	assert.Len(t, backend.orders, 1)
	assert.True(t, backend.cartCleared)
}

func TestCheckoutIdempotentReplay(t *testing.T) {
	backend := newBackend(1_000_000, oneLine(100000, 1, 5))
	idem := &fakeIdem{entries: map[string]uuid.UUID{}}
	svc := newCheckout(backend, &fakeNotifier{}, idem)

	req := &CheckoutRequest{
		ShippingAddress: validAddress(),
		ShippingMethod:  "Regular",
		IdempotencyKey:  "key-1",
	}

	first, err := svc.Checkout(context.Background(), backend.user.ID, req)
	require.NoError(t, err)

	replay, err := svc.Checkout(context.Background(), backend.user.ID, req)
	require.NoError(t, err)

	assert.Equal(t, first.OrderID, replay.OrderID)
	assert.Len(t, backend.orders, 1, "replay must not create a second order")
	assert.Equal(t, int64(885000), backend.user.Balance, "replay must not debit again")
}

func TestCheckoutPersistenceFailures(t *testing.T) {
	t.Run("order create", func(t *testing.T) {
		backend := newBackend(1_000_000, oneLine(100000, 1, 5))
		backend.failOrder = errors.New("disk full")
		svc := newCheckout(backend, &fakeNotifier{}, nil)

		_, err := svc.Checkout(context.Background(), backend.user.ID, &CheckoutRequest{
			ShippingAddress: validAddress(),
			ShippingMethod:  "Regular",
		})

		var pe *PersistenceError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "creating order", pe.Op)
	})

	t.Run("balance debit failure leaves order committed", func(t *testing.T) {
		lines := oneLine(100000, 1, 5)
		backend := newBackend(1_000_000, lines)
		backend.failDebit = errors.New("disk full")
		svc := newCheckout(backend, &fakeNotifier{}, nil)

		_, err := svc.Checkout(context.Background(), backend.user.ID, &CheckoutRequest{
			ShippingAddress: validAddress(),
			ShippingMethod:  "Regular",
		})

		var pe *PersistenceError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "reducing balance", pe.Op)

		// earlier steps stay durably committed
		assert.Len(t, backend.orders, 1)
		assert.Len(t, backend.items, 1)
		assert.True(t, backend.cartCleared)
		assert.Equal(t, 4, backend.stock[lines[0].ProductSizeID])
	})
}

func TestPreview(t *testing.T) {
	backend := newBackend(0, oneLine(100000, 2, 5))
	svc := newCheckout(backend, &fakeNotifier{}, nil)

	quotes, err := svc.Preview(context.Background(), backend.user.ID)
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	// item total 200000: Regular crosses its threshold, Next Day does not
	assert.Equal(t, int64(40000), quotes[0].Price)
	assert.Equal(t, int64(40000), quotes[1].Price)
}
