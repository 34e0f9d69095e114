package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shipping/internal/adapters/out/eventbus"
	"shipping/internal/core/application/usecases/commands"
	"shipping/internal/core/domain/model/customs"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/services"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/lock"
)

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newGenerateLabelHandler(
	t *testing.T,
	factory *MockOrderUoWFactory,
	carrier *MockCarrierClient,
	publisher *MockEventPublisher,
) commands.GenerateLabelCommandHandler {
	t.Helper()
	planner, err := services.NewPackagePlanner(services.DefaultPlannerConfig())
	require.NoError(t, err)

	return commands.NewGenerateLabelCommandHandler(
		factory, carrier, planner, publisher, lock.NewKeyedMutex(),
		testShipper(t), func() time.Time { return fixedNow }, zap.NewNop())
}

func TestGenerateLabelCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	o := testOrder(t, testDestination(t, "FR", "69001"))
	cmd, err := commands.NewGenerateLabelCommand(o.ID())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	expectUoW(factory, uow, repo)
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()

	carrier := new(MockCarrierClient)
	carrier.On("PreRegisterParcel", mock.Anything, mock.AnythingOfType("ports.PreRegisterParcelRequest")).
		Return(nil).Once()
	carrier.On("CreateShipment", mock.Anything, mock.AnythingOfType("ports.CreateShipmentRequest")).
		Return(ports.CreateShipmentResponse{
			ShipmentID:     "1ZSHIP01",
			TrackingNumber: "1ZTRACK01",
			LabelImage:     "bGFiZWwx",
			LabelFormat:    "GIF",
		}, nil).Once()

	repo.On("Update", mock.Anything, o).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()

	publisher := new(MockEventPublisher)
	publisher.On("PublishWaybillCreated", mock.Anything, mock.MatchedBy(func(e ports.WaybillCreated) bool {
		return e.OrderID.IsEqual(o.ID()) && len(e.TrackingNumbers) == 1 && e.TrackingNumbers[0] == "1ZTRACK01"
	})).Once()

	h := newGenerateLabelHandler(t, factory, carrier, publisher)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.True(t, o.HasShipment())
	assert.Equal(t, 1, o.Shipment().LabelCount())
	assert.True(t, o.PreRegistration().Submitted())
	require.Len(t, o.Notes(), 1)
	assert.Equal(t, "waybill created", o.Notes()[0].Message)

	carrier.AssertExpectations(t)
	publisher.AssertExpectations(t)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestGenerateLabelCommandHandler_Handle_OnePackagePerDescriptor(t *testing.T) {
	ctx := t.Context()
	// 37 kg splits into three packages, so three carrier calls.
	o := testOrder(t, testDestination(t, "FR", "69001"))
	heavy, err := order.NewItem("SKU-H", "anvil", 1, 37.0, mustMoney(t, 100), "", "", true)
	require.NoError(t, err)
	total := mustMoney(t, 100)
	o, err = order.NewOrder(o.ID(), "1002", testDestination(t, "FR", "69001"), total, []order.Item{heavy})
	require.NoError(t, err)

	cmd, err := commands.NewGenerateLabelCommand(o.ID())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	expectUoW(factory, uow, repo)
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	repo.On("Update", mock.Anything, o).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()

	carrier := new(MockCarrierClient)
	carrier.On("PreRegisterParcel", mock.Anything, mock.Anything).Return(nil).Once()
	for i, tracking := range []string{"1ZTRACK01", "1ZTRACK02", "1ZTRACK03"} {
		carrier.On("CreateShipment", mock.Anything, mock.MatchedBy(func(ref string) func(ports.CreateShipmentRequest) bool {
			return func(req ports.CreateShipmentRequest) bool {
				return req.Package.Reference() == ref
			}
		}(boxRef(i+1)))).Return(ports.CreateShipmentResponse{
			ShipmentID:     "1ZSHIP0" + tracking[len(tracking)-1:],
			TrackingNumber: tracking,
			LabelImage:     "bGFiZWw=",
			LabelFormat:    "GIF",
		}, nil).Once()
	}

	publisher := new(MockEventPublisher)
	publisher.On("PublishWaybillCreated", mock.Anything, mock.Anything).Once()

	h := newGenerateLabelHandler(t, factory, carrier, publisher)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, 3, o.Shipment().LabelCount())
	assert.Equal(t, []string{"1ZTRACK01", "1ZTRACK02", "1ZTRACK03"}, o.Shipment().TrackingNumbers())
	carrier.AssertExpectations(t)
}

func TestGenerateLabelCommandHandler_Handle_AlreadyLabeled(t *testing.T) {
	ctx := t.Context()
	o := testOrder(t, testDestination(t, "FR", "69001"))
	require.NoError(t, o.AttachShipment(testRecord(t, fixedNow)))

	cmd, err := commands.NewGenerateLabelCommand(o.ID())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	expectUoW(factory, uow, repo)
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()

	h := newGenerateLabelHandler(t, factory, new(MockCarrierClient), new(MockEventPublisher))
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, order.ErrShipmentAlreadyAttached)
}

func TestGenerateLabelCommandHandler_Handle_IncompleteAddress(t *testing.T) {
	ctx := t.Context()
	// France requires a postal code; this destination has none.
	o := testOrder(t, testDestination(t, "FR", ""))

	cmd, err := commands.NewGenerateLabelCommand(o.ID())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	expectUoW(factory, uow, repo)
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()

	carrier := new(MockCarrierClient)
	h := newGenerateLabelHandler(t, factory, carrier, new(MockEventPublisher))
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, kernel.ErrAddressIncomplete)
	carrier.AssertNotCalled(t, "CreateShipment", mock.Anything, mock.Anything)
}

func TestGenerateLabelCommandHandler_Handle_CarrierFailureAborts(t *testing.T) {
	ctx := t.Context()
	o := testOrder(t, testDestination(t, "FR", "69001"))
	cmd, err := commands.NewGenerateLabelCommand(o.ID())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	expectUoW(factory, uow, repo)
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()

	carrier := new(MockCarrierClient)
	carrier.On("PreRegisterParcel", mock.Anything, mock.Anything).Return(nil).Once()
	carrier.On("CreateShipment", mock.Anything, mock.Anything).
		Return(ports.CreateShipmentResponse{}, errors.New("upstream 500")).Once()

	publisher := new(MockEventPublisher)

	h := newGenerateLabelHandler(t, factory, carrier, publisher)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.False(t, o.HasShipment())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	publisher.AssertNotCalled(t, "PublishWaybillCreated", mock.Anything, mock.Anything)
}

func TestGenerateLabelCommandHandler_Handle_PreRegistrationFailureDoesNotBlock(t *testing.T) {
	ctx := t.Context()
	o := testOrder(t, testDestination(t, "FR", "69001"))
	cmd, err := commands.NewGenerateLabelCommand(o.ID())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	expectUoW(factory, uow, repo)
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	repo.On("Update", mock.Anything, o).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()

	carrier := new(MockCarrierClient)
	carrier.On("PreRegisterParcel", mock.Anything, mock.Anything).
		Return(errors.New("pre-registration unavailable")).Once()
	carrier.On("CreateShipment", mock.Anything, mock.Anything).
		Return(ports.CreateShipmentResponse{
			ShipmentID:     "1ZSHIP01",
			TrackingNumber: "1ZTRACK01",
			LabelImage:     "bGFiZWwx",
			LabelFormat:    "GIF",
		}, nil).Once()

	publisher := new(MockEventPublisher)
	publisher.On("PublishWaybillCreated", mock.Anything, mock.Anything).Once()

	h := newGenerateLabelHandler(t, factory, carrier, publisher)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.True(t, o.HasShipment())
	assert.False(t, o.PreRegistration().Submitted())
	assert.Equal(t, "pre-registration unavailable", o.PreRegistration().LastError())
}

func TestGenerateLabelCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.GenerateLabelCommand{} // not constructed properly

	h := newGenerateLabelHandler(t, new(MockOrderUoWFactory), new(MockCarrierClient), new(MockEventPublisher))
	require.Error(t, h.Handle(ctx, cmd))
}

// Wires the production event path: the real dispatcher delivers the waybill
// event to a customs-scheduling subscriber that takes the same per-order
// lock. Labeling must release the lock before publishing or the subscriber
// blocks forever.
func TestGenerateLabelCommandHandler_Handle_WaybillSubscriberReusesOrderLock(t *testing.T) {
	ctx := t.Context()
	o := testOrder(t, testDestination(t, "FR", "69001"))
	cmd, err := commands.NewGenerateLabelCommand(o.ID())
	require.NoError(t, err)

	locks := lock.NewKeyedMutex()
	planner, err := services.NewPackagePlanner(services.DefaultPlannerConfig())
	require.NoError(t, err)

	labelRepo := new(MockOrderRepository)
	labelUoW := new(MockOrderUoW)
	labelFactory := new(MockOrderUoWFactory)
	expectUoW(labelFactory, labelUoW, labelRepo)
	labelRepo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	labelRepo.On("Update", mock.Anything, o).Return(nil).Once()
	labelUoW.On("Commit", mock.Anything).Return(nil).Once()

	carrier := new(MockCarrierClient)
	carrier.On("PreRegisterParcel", mock.Anything, mock.Anything).Return(nil).Once()
	carrier.On("CreateShipment", mock.Anything, mock.Anything).
		Return(ports.CreateShipmentResponse{
			ShipmentID:     "1ZSHIP01",
			TrackingNumber: "1ZTRACK01",
			LabelImage:     "bGFiZWwx",
			LabelFormat:    "GIF",
		}, nil).Once()

	customsRepo := new(MockOrderRepository)
	customsUoW := new(MockOrderUoW)
	customsFactory := new(MockOrderUoWFactory)
	expectUoW(customsFactory, customsUoW, customsRepo)
	customsRepo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	customsRepo.On("Update", mock.Anything, o).Return(nil).Once()
	customsUoW.On("Commit", mock.Anything).Return(nil).Once()

	scheduler := new(MockScheduler)
	scheduler.On("ScheduleAt", o.ID(), fixedNow.Add(5*time.Minute)).Once()

	scheduleHandler := commands.NewScheduleCustomsCommandHandler(
		customsFactory, scheduler, locks, "DE", 5*time.Minute,
		func() time.Time { return fixedNow }, zap.NewNop())

	var subscriberErr error
	dispatcher := eventbus.NewDispatcher(zap.NewNop())
	dispatcher.SubscribeWaybillCreated(func(ctx context.Context, event ports.WaybillCreated) {
		trigger, cmdErr := commands.NewScheduleCustomsCommand(event.OrderID)
		if cmdErr != nil {
			subscriberErr = cmdErr
			return
		}
		subscriberErr = scheduleHandler.Handle(ctx, trigger)
	})

	labelHandler := commands.NewGenerateLabelCommandHandler(
		labelFactory, carrier, planner, dispatcher, locks,
		testShipper(t), func() time.Time { return fixedNow }, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		done <- labelHandler.Handle(ctx, cmd)
	}()

	select {
	case err = <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("label generation did not complete; waybill subscriber blocked on the order lock")
	}

	require.NoError(t, subscriberErr)
	assert.True(t, o.HasShipment())
	require.NotNil(t, o.Customs())
	assert.Equal(t, customs.Pending, o.Customs().Status())
	scheduler.AssertExpectations(t)
	customsRepo.AssertExpectations(t)
}

func boxRef(i int) string {
	return "Box " + string(rune('0'+i)) + "/3"
}

func mustMoney(t *testing.T, amount float64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(amount, "EUR")
	require.NoError(t, err)
	return m
}
