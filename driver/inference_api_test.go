package driver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyword-aggregator/config"
	"keyword-aggregator/logger"
)

func testInferenceConfig(host string) *config.InferenceConfig {
	return &config.InferenceConfig{
		Host:        host,
		APIPath:     "/api/generate",
		Model:       "test-model",
		Timeout:     2 * time.Second,
		Temperature: 0.2,
		TopK:        40,
		TopP:        0.9,
		Seed:        42,
		MaxKeywords: 3,
	}
}

func TestInferenceClient_Generate(t *testing.T) {
	var captured generatePayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(generateResponse{
			Model:    "test-model",
			Response: `{"keywords":["economy","senate"]}`,
			Done:     true,
		})
	}))
	defer server.Close()

	client := NewInferenceClient(testInferenceConfig(server.URL), logger.Logger)

	response, err := client.Generate(context.Background(), "classify this")
	require.NoError(t, err)

	assert.Equal(t, `{"keywords":["economy","senate"]}`, response)
	assert.Equal(t, "test-model", captured.Model)
	assert.Equal(t, "json", captured.Format)
	assert.False(t, captured.Stream)
	assert.Equal(t, 42, captured.Options.Seed)
}

func TestInferenceClient_Generate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewInferenceClient(testInferenceConfig(server.URL), logger.Logger)

	_, err := client.Generate(context.Background(), "classify this")
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
}

func TestInferenceClient_Generate_ConnectionRefused(t *testing.T) {
	// Grab a port nothing listens on.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewInferenceClient(testInferenceConfig(server.URL), logger.Logger)

	_, err := client.Generate(context.Background(), "classify this")
	assert.Error(t, err)
}

func TestInferenceClient_Generate_OuterEnvelopeNotJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	client := NewInferenceClient(testInferenceConfig(server.URL), logger.Logger)

	_, err := client.Generate(context.Background(), "classify this")
	assert.Error(t, err)
}

func TestInferenceClient_CheckHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewInferenceClient(testInferenceConfig(server.URL), logger.Logger)
	assert.NoError(t, client.CheckHealth(context.Background()))

	server.Close()
	assert.Error(t, client.CheckHealth(context.Background()))
}
