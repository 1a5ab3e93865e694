package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"veronikaextra-backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) ImageProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewA4FProvider(A4FConfig{
		APIKey:  "key",
		Model:   "provider-4/imagen-3.5",
		BaseURL: server.URL + "/v1/images/generations",
	})
}

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "https://api.a4f.co/v1/images/generations", NormalizeEndpoint("https://api.a4f.ai/v1/images/generate"))
	assert.Equal(t, "https://api.a4f.co/v1/images/generations", NormalizeEndpoint("https://api.a4f.co/v1/images/generations"))
}

func TestProviderSendsPayload(t *testing.T) {
	var got a4fPayload
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		assert.Equal(t, "/v1/images/generations", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"url":"https://a4f.co/1.png"},{"b64_json":"QUJD"}]}`))
	})

	images, err := provider.Generate(context.Background(), "a red fox", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a4f.co/1.png", "data:image/png;base64,QUJD"}, images)
	assert.Equal(t, a4fPayload{Model: "provider-4/imagen-3.5", Prompt: "a red fox", NumImages: 2, Size: "1024x1024"}, got)
}

func TestNormalizeImagesShapes(t *testing.T) {
	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(`{
		"images": ["https://a4f.co/a.png", {"url": "https://a4f.co/b.png"}, {"base64": "AAA"}, {"b64": "BBB"}, {"other": 1}, 7],
		"data": [{"url": "https://a4f.co/ignored.png"}]
	}`), &payload))

	assert.Equal(t, []string{
		"https://a4f.co/a.png",
		"https://a4f.co/b.png",
		"data:image/png;base64,AAA",
		"data:image/png;base64,BBB",
	}, normalizeImages(payload))
}

func TestProviderErrorMessage(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"detail":"rate limited"}`))
	})

	_, err := provider.Generate(context.Background(), "fox", 1)
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusTooManyRequests, perr.Status)
	assert.Equal(t, "rate limited", perr.Message)
}

func TestProviderErrorDefaultsMessage(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := provider.Generate(context.Background(), "fox", 1)
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, domain.MessageImageProviderErr, perr.Message)
}

func TestProviderNestedErrorMessage(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	})

	_, err := provider.Generate(context.Background(), "fox", 1)
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "invalid api key", perr.Message)
}

func TestProviderMalformedResponse(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := provider.Generate(context.Background(), "fox", 1)
	assert.ErrorIs(t, err, domain.ErrMalformedProviderResponse)
}

func TestProviderWithoutKey(t *testing.T) {
	provider := NewA4FProvider(A4FConfig{BaseURL: "https://api.a4f.co/v1/images/generations"})
	assert.False(t, provider.Configured())

	_, err := provider.Generate(context.Background(), "fox", 1)
	assert.ErrorIs(t, err, domain.ErrProviderNotConfigured)
}
