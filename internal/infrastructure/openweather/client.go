package openweather

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
	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/metrics"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
)

const providerName = "openweather"

// Client provides access to the OpenWeatherMap current weather API
type Client struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Collector
	now        func() time.Time
}

type currentResponse struct {
	Name  string `json:"name"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Visibility int `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Dt int64 `json:"dt"`
}

func NewClient(cfg *config.ProvidersConfig, logger *zap.Logger, m *metrics.Collector) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	baseURL := cfg.OpenWeatherBaseURL
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org"
	}

	return &Client{
		apiKey:  cfg.OpenWeatherAPIKey,
		baseURL: baseURL,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// CurrentWeather retrieves current conditions in metric units.
func (c *Client) CurrentWeather(ctx context.Context, at domain.Coordinate) (*domain.WeatherSnapshot, error) {
	if !c.Configured() {
		return nil, errors.ErrProviderNotConfigured.WithDetails(map[string]interface{}{
			"provider": providerName,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%.6f", at.Lat))
	params.Set("lon", fmt.Sprintf("%.6f", at.Lon))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	requestURL := fmt.Sprintf("%s/data/2.5/weather?%s", c.baseURL, params.Encode())

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) || (stderrors.As(err, &netErr) && netErr.Timeout()) {
			c.metrics.ObserveProvider(providerName, "current", metrics.OutcomeTimeout, time.Since(start))
			c.logger.Warn("OpenWeather request timed out", zap.Error(err))
			return nil, errors.ErrProviderTimeout.WithDetails(map[string]interface{}{"provider": providerName})
		}
		c.metrics.ObserveProvider(providerName, "current", metrics.OutcomeUnavailable, time.Since(start))
		c.logger.Warn("OpenWeather request failed", zap.Error(err))
		return nil, errors.ErrProviderUnavailable.WithDetails(map[string]interface{}{"provider": providerName})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.metrics.ObserveProvider(providerName, "current", metrics.OutcomeError, time.Since(start))
		c.logger.Error("OpenWeather API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, errors.ErrProviderUnavailable.WithDetails(map[string]interface{}{
			"provider":    providerName,
			"status_code": resp.StatusCode,
		})
	}

	var response currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		c.metrics.ObserveProvider(providerName, "current", metrics.OutcomeError, time.Since(start))
		return nil, errors.ErrComputationFailure.WithDetails(map[string]interface{}{"provider": providerName})
	}

	c.metrics.ObserveProvider(providerName, "current", metrics.OutcomeOK, time.Since(start))
	return c.toSnapshot(at, response), nil
}

func (c *Client) toSnapshot(at domain.Coordinate, r currentResponse) *domain.WeatherSnapshot {
	var main, description, icon string
	if len(r.Weather) > 0 {
		main = r.Weather[0].Main
		description = r.Weather[0].Description
		icon = r.Weather[0].Icon
	}

	observed := c.now().UTC()
	if r.Dt > 0 {
		observed = time.Unix(r.Dt, 0).UTC()
	}

	return &domain.WeatherSnapshot{
		Location:         at,
		LocationName:     r.Name,
		Main:             main,
		Description:      description,
		Icon:             icon,
		TemperatureC:     r.Main.Temp,
		FeelsLikeC:       r.Main.FeelsLike,
		Humidity:         r.Main.Humidity,
		VisibilityMeters: r.Visibility,
		WindSpeedMs:      r.Wind.Speed,
		ObservedAt:       observed,
	}
}
