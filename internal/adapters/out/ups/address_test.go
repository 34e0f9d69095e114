package ups

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipping/internal/adapters/out/tokencache"
)

func TestClient_ValidateAddress_Valid(t *testing.T) {
	ctx := t.Context()
	server := newRecordingServer(t, map[string]http.HandlerFunc{
		"/security/v1/oauth/token": authHandler("3600"),
		"/api/addressvalidation/v1/1": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"XAVResponse":{"ValidAddressIndicator":{}}}`))
		},
	})
	client := newTestClient(t, server, tokencache.NewMemory())

	result, err := client.ValidateAddress(ctx, testDestination(t))

	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.False(t, result.Ambiguous)
	assert.Empty(t, result.Candidates)
}

func TestClient_ValidateAddress_AmbiguousWithCandidates(t *testing.T) {
	ctx := t.Context()
	server := newRecordingServer(t, map[string]http.HandlerFunc{
		"/security/v1/oauth/token": authHandler("3600"),
		"/api/addressvalidation/v1/1": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"XAVResponse":{"AmbiguousAddressIndicator":{},"Candidate":[
				{"AddressKeyFormat":{"AddressLine":["10 Main Street"],"PoliticalDivision2":"Lyon","PostcodePrimaryLow":"69001","CountryCode":"FR"}},
				{"AddressKeyFormat":{"AddressLine":["10 Main Street"],"PoliticalDivision2":"Lyon","PostcodePrimaryLow":"69002","CountryCode":"FR"}}]}}`))
		},
	})
	client := newTestClient(t, server, tokencache.NewMemory())

	result, err := client.ValidateAddress(ctx, testDestination(t))

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.True(t, result.Ambiguous)
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "10 Main Street, Lyon, 69001, FR", result.Candidates[0])
	assert.Equal(t, "10 Main Street, Lyon, 69002, FR", result.Candidates[1])
}

func TestClient_ValidateAddress_SingleObjectCandidate(t *testing.T) {
	ctx := t.Context()
	server := newRecordingServer(t, map[string]http.HandlerFunc{
		"/security/v1/oauth/token": authHandler("3600"),
		"/api/addressvalidation/v1/1": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"XAVResponse":{"AmbiguousAddressIndicator":{},"Candidate":
				{"AddressKeyFormat":{"AddressLine":["10 Main Street"],"PoliticalDivision2":"Lyon","PostcodePrimaryLow":"69001","CountryCode":"FR"}}}}`))
		},
	})
	client := newTestClient(t, server, tokencache.NewMemory())

	result, err := client.ValidateAddress(ctx, testDestination(t))

	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "10 Main Street, Lyon, 69001, FR", result.Candidates[0])
}

func TestClient_ValidateAddress_RequestShape(t *testing.T) {
	ctx := t.Context()
	server := newRecordingServer(t, map[string]http.HandlerFunc{
		"/security/v1/oauth/token": authHandler("3600"),
		"/api/addressvalidation/v1/1": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"XAVResponse":{"ValidAddressIndicator":{}}}`))
		},
	})
	client := newTestClient(t, server, tokencache.NewMemory())

	_, err := client.ValidateAddress(ctx, testDestination(t))
	require.NoError(t, err)

	var captured capturedRequest
	for _, req := range server.captured() {
		if req.Path == "/api/addressvalidation/v1/1" {
			captured = req
		}
	}
	require.NotEmpty(t, captured.Body)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(captured.Body, &payload))
	body := payload["XAVRequest"].(map[string]any)

	assert.Equal(t, "1", body["Request"].(map[string]any)["RequestOption"])

	key := body["AddressKeyFormat"].(map[string]any)
	assert.Equal(t, "Lyon", key["PoliticalDivision2"])
	assert.Equal(t, "69001", key["PostcodePrimaryLow"])
	assert.Equal(t, "FR", key["CountryCode"])
}
