package service

import (
	"context"
	"testing"

	"storefront-service/internal/models"
	"storefront-service/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderStore struct {
	orders map[uuid.UUID]*models.Order
	users  map[uuid.UUID]*models.User
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders: map[uuid.UUID]*models.Order{},
		users:  map[uuid.UUID]*models.User{},
	}
}

func (f *fakeOrderStore) addOrder(userID uuid.UUID, status string) *models.Order {
	order := &models.Order{ID: uuid.New(), UserID: userID, Status: status}
	f.orders[order.ID] = order
	return order
}

func (f *fakeOrderStore) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return order, nil
}

func (f *fakeOrderStore) GetOrderForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, store.ErrNotFound
	}
	return order, nil
}

func (f *fakeOrderStore) GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var result []models.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (f *fakeOrderStore) GetOrderItemDetails(ctx context.Context, orderID uuid.UUID) ([]models.OrderItemDetail, error) {
	return nil, nil
}

func (f *fakeOrderStore) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	order, ok := f.orders[orderID]
	if !ok {
		return store.ErrNotFound
	}
	order.Status = status
	return nil
}

func (f *fakeOrderStore) ListAdminOrders(ctx context.Context, sortAsc bool, limit, offset int) ([]models.AdminOrderRow, error) {
	var rows []models.AdminOrderRow
	for _, order := range f.orders {
		rows = append(rows, models.AdminOrderRow{ID: order.ID, Status: order.Status})
	}
	if offset >= len(rows) {
		return nil, nil
	}
	return rows, nil
}

func (f *fakeOrderStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeOrderStore) DecrementBalance(ctx context.Context, userID uuid.UUID, amount int64) error {
	return nil
}

func TestCompleteOrderShipped(t *testing.T) {
	fs := newFakeOrderStore()
	userID := uuid.New()
	order := fs.addOrder(userID, models.OrderStatusShipped)

	svc := NewOrderService(fs, fs, nil)

	err := svc.CompleteOrder(context.Background(), userID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, fs.orders[order.ID].Status)
}

func TestCompleteOrderNotShipped(t *testing.T) {
	fs := newFakeOrderStore()
	userID := uuid.New()
	order := fs.addOrder(userID, models.OrderStatusProcessed)

	svc := NewOrderService(fs, fs, nil)

	err := svc.CompleteOrder(context.Background(), userID, order.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, models.OrderStatusProcessed, fs.orders[order.ID].Status)
}

func TestCompleteOrderNotOwned(t *testing.T) {
	fs := newFakeOrderStore()
	order := fs.addOrder(uuid.New(), models.OrderStatusShipped)

	svc := NewOrderService(fs, fs, nil)

	err := svc.CompleteOrder(context.Background(), uuid.New(), order.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, models.OrderStatusShipped, order.Status)
}

func TestCompleteOrderMissing(t *testing.T) {
	fs := newFakeOrderStore()
	svc := NewOrderService(fs, fs, nil)

	err := svc.CompleteOrder(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetOrderStatusAdmin(t *testing.T) {
	fs := newFakeOrderStore()
	svc := NewOrderService(fs, fs, nil)

	// admin may move any order to any enum member, legality unchecked
	for _, status := range []string{
		models.OrderStatusShipped,
		models.OrderStatusCancelled,
		models.OrderStatusCompleted,
		models.OrderStatusProcessed,
	} {
		order := fs.addOrder(uuid.New(), models.OrderStatusCompleted)
		err := svc.SetOrderStatus(context.Background(), order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, fs.orders[order.ID].Status)
	}
}

func TestSetOrderStatusUnknownValue(t *testing.T) {
	fs := newFakeOrderStore()
	order := fs.addOrder(uuid.New(), models.OrderStatusProcessed)

	svc := NewOrderService(fs, fs, nil)

	err := svc.SetOrderStatus(context.Background(), order.ID, "teleported")
	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, models.OrderStatusProcessed, order.Status)
}

func TestSetOrderStatusMissingOrder(t *testing.T) {
	fs := newFakeOrderStore()
	svc := NewOrderService(fs, fs, nil)

	err := svc.SetOrderStatus(context.Background(), uuid.New(), models.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOrderDetail(t *testing.T) {
	fs := newFakeOrderStore()
	userID := uuid.New()
	fs.users[userID] = &models.User{ID: userID, Name: "Budi", Email: "budi@example.com"}
	order := fs.addOrder(userID, models.OrderStatusProcessed)
	order.ShippingMethod = "Regular"
	order.ShippingPrice = 15000

	svc := NewOrderService(fs, fs, nil)

	detail, err := svc.GetOrderDetail(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Budi", detail.Name)
	assert.Equal(t, "Regular", detail.ShippingMethod)
	assert.Equal(t, int64(15000), detail.ShippingPrice)
}

func TestListAdminOrdersEmptyPage(t *testing.T) {
	fs := newFakeOrderStore()
	svc := NewOrderService(fs, fs, nil)

	_, err := svc.ListAdminOrders(context.Background(), true, 1, 25)
	assert.ErrorIs(t, err, ErrNotFound)
}
