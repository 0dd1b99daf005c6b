// ABOUTME: This file implements the HTTP driver for the external text-inference service
// ABOUTME: Speaks the Ollama-style generate API with JSON-format responses
package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"keyword-aggregator/config"
)

// HTTPError carries the status code of a non-2xx inference response so the
// retry layer can distinguish server errors from parse failures.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

type generatePayload struct {
	Model   string          `json:"model"`
	Format  string          `json:"format"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopK        int     `json:"top_k"`
	TopP        float64 `json:"top_p"`
	Seed        int     `json:"seed"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// InferenceClient issues single generate requests against the inference
// service. Retry and caching live above this layer.
type InferenceClient struct {
	cfg        *config.InferenceConfig
	httpClient *http.Client
	logger     *slog.Logger
}

func NewInferenceClient(cfg *config.InferenceConfig, logger *slog.Logger) *InferenceClient {
	return &InferenceClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Generate sends one prompt and returns the model's raw response string
// (itself expected to be JSON-encoded; the caller parses it defensively).
func (c *InferenceClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload := generatePayload{
		Model:  c.cfg.Model,
		Format: "json",
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: c.cfg.Temperature,
			TopK:        c.cfg.TopK,
			TopP:        c.cfg.TopP,
			Seed:        c.cfg.Seed,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := c.cfg.Host + c.cfg.APIPath

	ctxWithTimeout, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctxWithTimeout, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("calling inference service", "api_url", apiURL, "model", c.cfg.Model)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", &HTTPError{StatusCode: resp.StatusCode, Message: string(bodyBytes)}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResponse generateResponse
	if err := json.Unmarshal(respBody, &apiResponse); err != nil {
		return "", fmt.Errorf("failed to parse inference response: %w", err)
	}

	if !apiResponse.Done {
		c.logger.Warn("received incomplete response from inference service")
	}

	return apiResponse.Response, nil
}

// CheckHealth verifies the inference service answers at all.
func (c *InferenceClient) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Host, nil)
	if err != nil {
		return fmt.Errorf("failed to create health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("inference service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &HTTPError{StatusCode: resp.StatusCode, Message: "health check failed"}
	}

	return nil
}
