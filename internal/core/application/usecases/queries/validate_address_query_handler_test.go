package queries_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shipping/internal/core/application/usecases/queries"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/ports"
)

func TestValidateAddressQueryHandler_Handle_Valid(t *testing.T) {
	ctx := t.Context()
	addr := testDestination(t, "FR", "69001")
	query, err := queries.NewValidateAddressQuery(addr)
	require.NoError(t, err)

	carrier := new(MockCarrierClient)
	carrier.On("ValidateAddress", mock.Anything, addr).
		Return(ports.AddressValidationResult{Valid: true}, nil).Once()

	h := queries.NewValidateAddressQueryHandler(carrier)
	resp, err := h.Handle(ctx, query)

	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.False(t, resp.Ambiguous)
	assert.Empty(t, resp.Candidates)
}

func TestValidateAddressQueryHandler_Handle_Ambiguous(t *testing.T) {
	ctx := t.Context()
	addr := testDestination(t, "FR", "69001")
	query, err := queries.NewValidateAddressQuery(addr)
	require.NoError(t, err)

	carrier := new(MockCarrierClient)
	carrier.On("ValidateAddress", mock.Anything, addr).
		Return(ports.AddressValidationResult{
			Ambiguous:  true,
			Candidates: []string{"10 Main St, 69001 Lyon", "10 Main St, 69002 Lyon"},
		}, nil).Once()

	h := queries.NewValidateAddressQueryHandler(carrier)
	resp, err := h.Handle(ctx, query)

	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.True(t, resp.Ambiguous)
	assert.Len(t, resp.Candidates, 2)
}

func TestValidateAddressQueryHandler_Handle_IncompleteSkipsCarrier(t *testing.T) {
	ctx := t.Context()
	addr := testDestination(t, "FR", "")
	query, err := queries.NewValidateAddressQuery(addr)
	require.NoError(t, err)

	carrier := new(MockCarrierClient)
	h := queries.NewValidateAddressQueryHandler(carrier)
	_, err = h.Handle(ctx, query)

	require.ErrorIs(t, err, kernel.ErrAddressIncomplete)
	carrier.AssertNotCalled(t, "ValidateAddress", mock.Anything, mock.Anything)
}
