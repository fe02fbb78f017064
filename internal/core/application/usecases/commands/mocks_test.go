package commands_test

import (
	"context"
	"testing"
	"time"

	"codorders/internal/core/application/usecases/commands"
	"codorders/internal/core/domain/model/courier"
	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/core/domain/model/order"
	"codorders/internal/core/domain/model/product"
	"codorders/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
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

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByToken(ctx context.Context, token order.DeliveryToken) (*order.Order, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByTokenForUpdate(
	ctx context.Context,
	token order.DeliveryToken,
) (*order.Order, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) Get(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) GetManyForUpdate(
	ctx context.Context,
	ids []kernel.UUID,
) (map[kernel.UUID]*product.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[kernel.UUID]*product.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

type MockHistoryRepository struct{ mock.Mock }

func (m *MockHistoryRepository) Append(ctx context.Context, rec order.TransitionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListByOrder(
	ctx context.Context,
	orderID kernel.UUID,
) ([]order.TransitionRecord, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.TransitionRecord), args.Error(1)
}

func (m *MockHistoryRepository) DeleteByOrder(ctx context.Context, orderID kernel.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type MockPlatformGateway struct{ mock.Mock }

func (m *MockPlatformGateway) HasActiveIntegration(ctx context.Context, tenantID kernel.UUID) bool {
	args := m.Called(ctx, tenantID)
	return args.Bool(0)
}

func (m *MockPlatformGateway) CancelOrder(ctx context.Context, externalRef string) error {
	args := m.Called(ctx, externalRef)
	return args.Error(0)
}

type MockQRGenerator struct{ mock.Mock }

func (m *MockQRGenerator) GenerateForToken(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockQRGenerator) RemoveForToken(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

type MockStockUoW struct{ mock.Mock }

func (m *MockStockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockStockUoW) ProductRepository() ports.ProductRepository {
	args := m.Called()
	return args.Get(0).(ports.ProductRepository)
}

type MockStockUoWFactory struct{ mock.Mock }

func (m *MockStockUoWFactory) Create() commands.StockUoW {
	args := m.Called()
	return args.Get(0).(commands.StockUoW)
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

type MockConfirmUoW struct{ mock.Mock }

func (m *MockConfirmUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockConfirmUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockConfirmUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockConfirmUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockConfirmUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

func (m *MockConfirmUoW) ProductRepository() ports.ProductRepository {
	args := m.Called()
	return args.Get(0).(ports.ProductRepository)
}

type MockConfirmUoWFactory struct{ mock.Mock }

func (m *MockConfirmUoWFactory) Create() commands.ConfirmUoW {
	args := m.Called()
	return args.Get(0).(commands.ConfirmUoW)
}

type MockPurgeUoW struct{ mock.Mock }

func (m *MockPurgeUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPurgeUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPurgeUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPurgeUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockPurgeUoW) ProductRepository() ports.ProductRepository {
	args := m.Called()
	return args.Get(0).(ports.ProductRepository)
}

func (m *MockPurgeUoW) HistoryRepository() ports.HistoryRepository {
	args := m.Called()
	return args.Get(0).(ports.HistoryRepository)
}

type MockPurgeUoWFactory struct{ mock.Mock }

func (m *MockPurgeUoWFactory) Create() commands.PurgeUoW {
	args := m.Called()
	return args.Get(0).(commands.PurgeUoW)
}

// newRelaxedSideEffects builds a side effect dispatcher whose collaborators
// accept any call. Side effects run in goroutines after commit, so tests
// never assert on them.
func newRelaxedSideEffects() *commands.SideEffects {
	history := &MockHistoryRepository{}
	history.On("Append", mock.Anything, mock.Anything).Return(nil).Maybe()

	platform := &MockPlatformGateway{}
	platform.On("HasActiveIntegration", mock.Anything, mock.Anything).Return(false).Maybe()
	platform.On("CancelOrder", mock.Anything, mock.Anything).Return(nil).Maybe()

	qr := &MockQRGenerator{}
	qr.On("GenerateForToken", mock.Anything).Return(nil).Maybe()
	qr.On("RemoveForToken", mock.Anything).Return(nil).Maybe()

	return commands.NewSideEffects(history, platform, qr, zap.NewNop())
}

func mustMoney(t *testing.T, cents int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoneyFromCents(cents)
	require.NoError(t, err)
	return m
}

func mustLineItem(t *testing.T, productID kernel.UUID, quantity int, unitPriceCents int64) order.LineItem {
	t.Helper()
	item, err := order.NewLineItem(productID, nil, quantity, mustMoney(t, unitPriceCents))
	require.NoError(t, err)
	return item
}

// restoreOrderInStatus builds a persisted-looking order fixture in the given
// status, with a token when the status keeps one active.
func restoreOrderInStatus(t *testing.T, status order.Status, items []order.LineItem) *order.Order {
	t.Helper()

	params := order.RestoreOrderParams{
		ID:              kernel.NewUUID(),
		TenantID:        kernel.NewUUID(),
		Status:          status,
		Version:         3,
		LineItems:       items,
		PaymentMethod:   order.PaymentCash,
		TotalPrice:      orderTotal(t, items),
		CODAmount:       orderTotal(t, items),
		AmountCollected: mustMoney(t, 0),
		DeliveryAddress: "12 Rue de la Paix, Tunis",
	}
	if status.AllowsDeliveryToken() {
		token, err := order.NewDeliveryToken()
		require.NoError(t, err)
		params.Token = &token
		courierID := kernel.NewUUID()
		params.CourierID = &courierID
		confirmedAt := time.Now().UTC().Add(-time.Hour)
		params.ConfirmedAt = &confirmedAt
		params.ConfirmedBy = &courierID
	}
	if status == order.StatusIncident {
		params.DeliveryOutcome = order.OutcomeFailed
		params.HasActiveIncident = true
		params.FailureReason = "customer unreachable"
	}

	ord, err := order.RestoreOrder(params)
	require.NoError(t, err)
	return ord
}

func orderTotal(t *testing.T, items []order.LineItem) kernel.Money {
	t.Helper()
	total := kernel.Zero()
	for _, item := range items {
		total = total.Add(item.Total())
	}
	return total
}
