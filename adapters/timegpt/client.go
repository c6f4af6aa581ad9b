package timegpt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"salespulse/domain/series"
	"salespulse/internal"
	"salespulse/internal/errors"
	"salespulse/ports"
)

// Config holds the external service connection settings. The credential
// is explicit configuration passed in here, never read from the process
// environment inside the adapter.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client calls the zero-shot time-series service over HTTP. It issues
// one request per operation and never retries: the service documents no
// retry contract, so failures propagate to the caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *internal.Logger
}

const (
	defaultTimeout = 30 * time.Second

	// DefaultLevel is the anomaly-detection confidence level percentage.
	DefaultLevel = 99.0
	// DefaultHorizon is the forecast length in days.
	DefaultHorizon = 7
)

// DefaultForecastLevels are the forecast interval percentages.
var DefaultForecastLevels = []int{80, 90}

// NewClient creates a new service client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		logger:     internal.DefaultLogger,
	}
}

// WithAPIKey returns a client using the given credential in place of the
// configured one. An empty override keeps the configured key. Used when
// the caller supplies a key interactively for a single request.
func (c *Client) WithAPIKey(key string) *Client {
	if strings.TrimSpace(key) == "" {
		return c
	}
	clone := *c
	clone.apiKey = strings.TrimSpace(key)
	return &clone
}

var _ ports.AnomalyDetector = (*Client)(nil)
var _ ports.Forecaster = (*Client)(nil)

// DetectAnomalies sends the regularized set for zero-shot anomaly
// detection at the given confidence level. An empty set returns an empty
// result without a network call.
func (c *Client) DetectAnomalies(ctx context.Context, set series.Set, opts ports.AnomalyOptions) ([]series.AnomalyRecord, error) {
	if len(set) == 0 {
		return []series.AnomalyRecord{}, nil
	}
	level := opts.Level
	if level == 0 {
		level = DefaultLevel
	}

	req := anomalyRequest{Series: toWire(set), Freq: "D", Level: level}
	var resp serviceResponse
	if err := c.makeRequest(ctx, "/anomaly_detection", req, &resp); err != nil {
		return nil, err
	}

	records, err := normalizeAnomalyRows(resp.Data)
	if err != nil {
		return nil, errors.ServiceError("anomaly detection", err)
	}
	c.logger.Debug("[TimeGPT] anomaly detection returned %d rows for %d entities", len(records), len(set.Entities()))
	return records, nil
}

// Forecast requests a daily forecast for the given horizon with the
// given interval levels. An empty set returns an empty result without a
// network call.
func (c *Client) Forecast(ctx context.Context, set series.Set, opts ports.ForecastOptions) ([]series.ForecastRecord, error) {
	if len(set) == 0 {
		return []series.ForecastRecord{}, nil
	}
	horizon := opts.Horizon
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	levels := opts.Levels
	if len(levels) == 0 {
		levels = DefaultForecastLevels
	}

	req := forecastRequest{Series: toWire(set), Freq: "D", Horizon: horizon, Levels: levels}
	var resp serviceResponse
	if err := c.makeRequest(ctx, "/forecast", req, &resp); err != nil {
		return nil, err
	}

	records, err := normalizeForecastRows(resp.Data)
	if err != nil {
		return nil, errors.ServiceError("forecast", err)
	}
	c.logger.Debug("[TimeGPT] forecast returned %d rows (horizon %d)", len(records), horizon)
	return records, nil
}

// makeRequest posts a JSON body and decodes the JSON response, mapping
// failures onto the error taxonomy: missing credential or 401/403 become
// auth errors, everything else a service error.
func (c *Client) makeRequest(ctx context.Context, path string, body, result any) error {
	if c.apiKey == "" {
		return errors.AuthError("no API key supplied for the time-series service")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return errors.ServiceError("time-series", fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.ServiceError("time-series", fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.ServiceError("time-series", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("[TimeGPT] closing response body: %v", err)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.ServiceError("time-series", fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return errors.AuthError("the time-series service rejected the API key")
	}
	if resp.StatusCode >= 400 {
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return errors.ServiceError("time-series", fmt.Errorf("status %d: %s", resp.StatusCode, errResp.Error))
		}
		return errors.ServiceError("time-series", fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody)))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return errors.ServiceError("time-series", fmt.Errorf("unmarshal response: %w", err))
	}
	return nil
}

// BaseURL returns the configured service URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}
