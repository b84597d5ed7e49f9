package tomtom

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/config"
	"github.com/Vishrutha-23/SafeWalk/internal/metrics"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
)

const providerName = "tomtom"

// Client talks to the TomTom routing, search and traffic APIs. One client
// serves as RouteProvider, Geocoder and TrafficProvider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	travelMode string
	timeout    time.Duration
	logger     *zap.Logger
	metrics    *metrics.Collector
}

// NewClient создает новый клиент для TomTom API
func NewClient(cfg *config.ProvidersConfig, logger *zap.Logger, m *metrics.Collector) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	travelMode := cfg.TravelMode
	if travelMode == "" {
		travelMode = "pedestrian"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:    cfg.TomTomBaseURL,
		apiKey:     cfg.TomTomAPIKey,
		travelMode: travelMode,
		timeout:    timeout,
		logger:     logger,
		metrics:    m,
	}
}

// getJSON performs a keyed GET and decodes the JSON body into out. Transport
// failures become PROVIDER_TIMEOUT/PROVIDER_UNAVAILABLE and undecodable bodies
// COMPUTATION_FAILURE.
func (c *Client) getJSON(ctx context.Context, operation, path string, query url.Values, out interface{}) (int, error) {
	if c.apiKey == "" {
		return 0, errors.ErrProviderNotConfigured.WithDetails(map[string]interface{}{
			"provider": providerName,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if query == nil {
		query = url.Values{}
	}
	query.Set("key", c.apiKey)
	endpoint := c.baseURL + path + "?" + query.Encode()

	c.logger.Debug("Calling TomTom API",
		zap.String("operation", operation),
		zap.String("path", path))

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		appErr, outcome := transportError(ctx, err, operation)
		c.metrics.ObserveProvider(providerName, operation, outcome, time.Since(start))
		c.logger.Warn("TomTom request failed",
			zap.String("operation", operation),
			zap.String("outcome", outcome),
			zap.Error(err))
		return 0, appErr
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.metrics.ObserveProvider(providerName, operation, metrics.OutcomeError, time.Since(start))
		c.logger.Error("TomTom API returned error",
			zap.String("operation", operation),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return resp.StatusCode, errors.ErrProviderUnavailable.WithDetails(map[string]interface{}{
			"provider":    providerName,
			"operation":   operation,
			"status_code": resp.StatusCode,
		})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.ObserveProvider(providerName, operation, metrics.OutcomeError, time.Since(start))
		c.logger.Error("Failed to decode response", zap.String("operation", operation), zap.Error(err))
		return resp.StatusCode, errors.ErrComputationFailure.WithDetails(map[string]interface{}{
			"provider":  providerName,
			"operation": operation,
		})
	}

	c.metrics.ObserveProvider(providerName, operation, metrics.OutcomeOK, time.Since(start))
	return resp.StatusCode, nil
}

func transportError(ctx context.Context, err error, operation string) (*errors.AppError, string) {
	details := map[string]interface{}{
		"provider":  providerName,
		"operation": operation,
	}

	var netErr net.Error
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) ||
		stderrors.Is(err, context.DeadlineExceeded) ||
		(stderrors.As(err, &netErr) && netErr.Timeout()) {
		return errors.ErrProviderTimeout.WithDetails(details), metrics.OutcomeTimeout
	}
	return errors.ErrProviderUnavailable.WithDetails(details), metrics.OutcomeUnavailable
}
