package queries_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/model/shipment"
	"shipping/internal/core/ports"
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

func (m *MockOrderRepository) GetAllWithDueCustoms(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockCarrierClient struct{ mock.Mock }

func (m *MockCarrierClient) Rate(ctx context.Context, req ports.RateRequest) (ports.RateResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.RateResponse), args.Error(1)
}

func (m *MockCarrierClient) CreateShipment(ctx context.Context, req ports.CreateShipmentRequest) (ports.CreateShipmentResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.CreateShipmentResponse), args.Error(1)
}

func (m *MockCarrierClient) VoidShipment(ctx context.Context, identifier string) (shipment.VoidOutcome, error) {
	args := m.Called(ctx, identifier)
	return args.Get(0).(shipment.VoidOutcome), args.Error(1)
}

func (m *MockCarrierClient) ValidateAddress(ctx context.Context, address kernel.Address) (ports.AddressValidationResult, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(ports.AddressValidationResult), args.Error(1)
}

func (m *MockCarrierClient) UploadCustomsDocument(ctx context.Context, req ports.UploadDocumentRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockCarrierClient) LinkDocumentToTracking(ctx context.Context, req ports.LinkDocumentRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockCarrierClient) PreRegisterParcel(ctx context.Context, req ports.PreRegisterParcelRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func testShipper(t *testing.T) kernel.Address {
	t.Helper()
	addr, err := kernel.NewAddress(
		"Acme GmbH", "", "1 Warehouse Way", "", "Berlin", "", "10115", "DE",
		"+49 30 1234", "ship@acme.example")
	require.NoError(t, err)
	return addr
}

func testDestination(t *testing.T, countryCode, postalCode string) kernel.Address {
	t.Helper()
	addr, err := kernel.NewAddress(
		"John Smith", "", "10 Main Street", "", "Lyon", "", postalCode, countryCode,
		"+33 4 0000", "john@example.com")
	require.NoError(t, err)
	return addr
}

func testOrder(t *testing.T, itemWeightKg float64) *order.Order {
	t.Helper()
	total, err := kernel.NewMoney(50, "EUR")
	require.NoError(t, err)
	value, err := kernel.NewMoney(25, "EUR")
	require.NoError(t, err)
	item, err := order.NewItem("SKU-1", "widget", 1, itemWeightKg, value, "6403.99", "DE", true)
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(), "1001", testDestination(t, "FR", "69001"), total, []order.Item{item})
	require.NoError(t, err)
	return o
}
