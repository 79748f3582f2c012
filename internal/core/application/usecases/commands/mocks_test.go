package commands_test

import (
	"context"
	"sync"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, filter ports.OrderFilter, page ports.Page) ([]*order.Order, int64, error) {
	args := m.Called(ctx, filter, page)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ListAwaitingCourier(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) FindByIDs(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]ports.Product, error) {
	args := m.Called(ctx, ids)
	products, _ := args.Get(0).(map[kernel.UUID]ports.Product)
	return products, args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) PublishOrderChanged(ctx context.Context, event ports.OrderChangedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type sentNotification struct {
	UserID  kernel.UUID
	Title   string
	Message string
}

// inbox records notifications instead of storing them.
type inbox struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (i *inbox) Notify(_ context.Context, userID kernel.UUID, title, message string) (*notification.Notification, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.sent = append(i.sent, sentNotification{UserID: userID, Title: title, Message: message})
	return notification.NewNotification(kernel.NewUUID(), userID, title, message)
}

func (i *inbox) For(userID kernel.UUID) []sentNotification {
	i.mu.Lock()
	defer i.mu.Unlock()
	var out []sentNotification
	for _, n := range i.sent {
		if n.UserID.IsEqual(userID) {
			out = append(out, n)
		}
	}
	return out
}

func (i *inbox) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.sent = nil
}
