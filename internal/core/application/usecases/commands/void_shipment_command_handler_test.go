package commands_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shipping/internal/core/application/usecases/commands"
	"shipping/internal/core/domain/model/customs"
	"shipping/internal/core/domain/model/shipment"
	"shipping/internal/pkg/lock"
)

func newVoidHandler(
	factory *MockOrderUoWFactory,
	carrier *MockCarrierClient,
	scheduler *MockScheduler,
) commands.VoidShipmentCommandHandler {
	return commands.NewVoidShipmentCommandHandler(
		factory, carrier, scheduler, lock.NewKeyedMutex(),
		func() time.Time { return fixedNow }, zap.NewNop())
}

func TestVoidShipmentCommandHandler_Handle_AllVoided(t *testing.T) {
	ctx := t.Context()
	o := testOrder(t, testDestination(t, "FR", "69001"))
	require.NoError(t, o.AttachShipment(testRecord(t, fixedNow)))
	require.NoError(t, o.AttachCustoms(customs.NewPendingSubmission(fixedNow, fixedNow.Add(5*time.Minute))))

	cmd, err := commands.NewVoidShipmentCommand(o.ID(), nil)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	expectUoW(factory, uow, repo)
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	repo.On("Update", mock.Anything, o).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()

	carrier := new(MockCarrierClient)
	carrier.On("VoidShipment", mock.Anything, "1ZSHIP01").Return(shipment.Voided, nil).Once()

	scheduler := new(MockScheduler)
	scheduler.On("Cancel", o.ID()).Once()

	h := newVoidHandler(factory, carrier, scheduler)
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, result.AllVoided())
	assert.False(t, o.HasShipment())
	assert.True(t, o.Customs().IsVoided())
	assert.True(t, o.PreRegistration().Voided())
	require.Len(t, o.Notes(), 1)
	assert.Equal(t, "all shipments voided", o.Notes()[0].Message)

	carrier.AssertExpectations(t)
	scheduler.AssertExpectations(t)
}

func TestVoidShipmentCommandHandler_Handle_AlreadyVoidedCountsAsSuccess(t *testing.T) {
	ctx := t.Context()
	o := testOrder(t, testDestination(t, "FR", "69001"))
	require.NoError(t, o.AttachShipment(testRecord(t, fixedNow)))

	cmd, err := commands.NewVoidShipmentCommand(o.ID(), nil)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	expectUoW(factory, uow, repo)
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	repo.On("Update", mock.Anything, o).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()

	carrier := new(MockCarrierClient)
	carrier.On("VoidShipment", mock.Anything, "1ZSHIP01").Return(shipment.AlreadyVoided, nil).Once()

	scheduler := new(MockScheduler)
	scheduler.On("Cancel", o.ID()).Once()

	h := newVoidHandler(factory, carrier, scheduler)
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, result.AllVoided())
	assert.False(t, o.HasShipment())
}

func TestVoidShipmentCommandHandler_Handle_PartialSuccessCleans(t *testing.T) {
	ctx := t.Context()
	o := testOrder(t, testDestination(t, "FR", "69001"))
	rec, err := shipment.NewRecord(
		[]string{"1ZSHIP01", "1ZSHIP02"},
		[]string{"1ZTRACK01", "1ZTRACK02"},
		[]string{"bGFiZWwx", "bGFiZWwy"},
		"GIF", fixedNow)
	require.NoError(t, err)
	require.NoError(t, o.AttachShipment(rec))

	cmd, err := commands.NewVoidShipmentCommand(o.ID(), nil)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	expectUoW(factory, uow, repo)
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	repo.On("Update", mock.Anything, o).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()

	carrier := new(MockCarrierClient)
	carrier.On("VoidShipment", mock.Anything, "1ZSHIP01").Return(shipment.Voided, nil).Once()
	carrier.On("VoidShipment", mock.Anything, "1ZSHIP02").
		Return(shipment.VoidFailed, errors.New("190102: no shipment found within the allowed void period")).Once()

	scheduler := new(MockScheduler)
	scheduler.On("Cancel", o.ID()).Once()

	h := newVoidHandler(factory, carrier, scheduler)
	result, err := h.Handle(ctx, cmd)

	// Partial success still cleans the order; the failure is in the result.
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount())
	assert.Equal(t, 1, result.FailureCount())
	assert.False(t, o.HasShipment())
	assert.True(t, o.PreRegistration().Voided())
	require.Len(t, o.Notes(), 1)
	assert.Equal(t,
		"shipments partially voided (1 success, 1 errors), data cleaned for safety",
		o.Notes()[0].Message)
}

func TestVoidShipmentCommandHandler_Handle_AllFailedLeavesOrderUntouched(t *testing.T) {
	ctx := t.Context()
	o := testOrder(t, testDestination(t, "FR", "69001"))
	require.NoError(t, o.AttachShipment(testRecord(t, fixedNow)))

	cmd, err := commands.NewVoidShipmentCommand(o.ID(), nil)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	expectUoW(factory, uow, repo)
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()

	carrier := new(MockCarrierClient)
	carrier.On("VoidShipment", mock.Anything, "1ZSHIP01").
		Return(shipment.VoidFailed, errors.New("void rejected")).Once()

	scheduler := new(MockScheduler)

	h := newVoidHandler(factory, carrier, scheduler)
	result, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrVoidFailed)
	assert.Equal(t, 0, result.SuccessCount())
	assert.True(t, o.HasShipment())
	assert.Empty(t, o.Notes())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	scheduler.AssertNotCalled(t, "Cancel", mock.Anything)
}

func TestVoidShipmentCommandHandler_Handle_ExplicitIdentifiers(t *testing.T) {
	ctx := t.Context()
	o := testOrder(t, testDestination(t, "FR", "69001"))

	cmd, err := commands.NewVoidShipmentCommand(o.ID(), []string{"1ZCUSTOM1"})
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	expectUoW(factory, uow, repo)
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	repo.On("Update", mock.Anything, o).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()

	carrier := new(MockCarrierClient)
	carrier.On("VoidShipment", mock.Anything, "1ZCUSTOM1").Return(shipment.Voided, nil).Once()

	scheduler := new(MockScheduler)
	scheduler.On("Cancel", o.ID()).Once()

	h := newVoidHandler(factory, carrier, scheduler)
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, result.AllVoided())
	carrier.AssertExpectations(t)
}

func TestVoidShipmentCommandHandler_Handle_NothingToVoid(t *testing.T) {
	ctx := t.Context()
	o := testOrder(t, testDestination(t, "FR", "69001"))

	cmd, err := commands.NewVoidShipmentCommand(o.ID(), nil)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	expectUoW(factory, uow, repo)
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()

	h := newVoidHandler(factory, new(MockCarrierClient), new(MockScheduler))
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, commands.ErrNothingToVoid)
}
