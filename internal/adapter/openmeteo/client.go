// Package openmeteo is a client for the Open-Meteo historical weather
// archive (https://archive-api.open-meteo.com/v1/archive). The archive
// publishes hourly series with roughly a five-day delay, so callers should
// request dates at least that far in the past.
package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
)

// ErrNoHourlyData indicates the archive response held no usable hourly series.
var ErrNoHourlyData = errors.New("no hourly data in response")

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
)

// Client fetches hourly historical weather with retries and a circuit
// breaker around the archive endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger

	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// NewClient creates an archive client. timeout bounds each HTTP request;
// transient failures (network errors, 429, 5xx) are retried up to three
// times with exponential backoff.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		baseURL:        baseURL,
		httpClient:     &http.Client{Timeout: timeout},
		breaker:        cb,
		logger:         logger,
		maxRetries:     3,
		initialBackoff: 500 * time.Millisecond,
		maxBackoff:     5 * time.Second,
	}
}

// HourlySeries holds one day of hourly readings. Entries are aligned by
// index; temperature and humidity values are nil where the archive reported
// null.
type HourlySeries struct {
	Time             []string
	Temperature      []*float64
	RelativeHumidity []*float64
}

// HourlyRecord is a single reading selected from a series.
type HourlyRecord struct {
	Time             string
	Temperature      *float64
	RelativeHumidity *float64
}

// At selects the reading whose timestamp falls on hour (0-23). When no
// timestamp matches, the first reading is returned as a fallback. Returns
// ErrNoHourlyData for an empty series.
func (s HourlySeries) At(hour int) (HourlyRecord, error) {
	if len(s.Time) == 0 {
		return HourlyRecord{}, ErrNoHourlyData
	}
	for i, ts := range s.Time {
		t, err := time.Parse("2006-01-02T15:04", ts)
		if err != nil {
			continue
		}
		if t.Hour() == hour {
			return s.record(i), nil
		}
	}
	return s.record(0), nil
}

func (s HourlySeries) record(i int) HourlyRecord {
	rec := HourlyRecord{Time: s.Time[i]}
	if i < len(s.Temperature) {
		rec.Temperature = s.Temperature[i]
	}
	if i < len(s.RelativeHumidity) {
		rec.RelativeHumidity = s.RelativeHumidity[i]
	}
	return rec
}

// FetchDay requests the hourly temperature and humidity series for one
// location and date (YYYY-MM-DD).
func (c *Client) FetchDay(ctx context.Context, lat, lon float64, date string) (HourlySeries, error) {
	params := url.Values{
		"latitude":   {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude":  {strconv.FormatFloat(lon, 'f', -1, 64)},
		"start_date": {date},
		"end_date":   {date},
		"hourly":     {"temperature_2m,relativehumidity_2m"},
		"timezone":   {"UTC"},
	}

	body, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	if err != nil {
		return HourlySeries{}, err
	}

	var payload response
	if err := json.Unmarshal(body, &payload); err != nil {
		return HourlySeries{}, fmt.Errorf("decode archive response: %w", err)
	}
	if len(payload.Hourly.Time) == 0 {
		return HourlySeries{}, ErrNoHourlyData
	}

	return HourlySeries{
		Time:             payload.Hourly.Time,
		Temperature:      payload.Hourly.Temperature2m,
		RelativeHumidity: payload.Hourly.RelativeHumidity2m,
	}, nil
}

// doRequest executes the GET with retries, exponential backoff, and the
// circuit breaker. Only transient failures are retried; 4xx responses other
// than 429 fail immediately.
func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	backoff := c.initialBackoff

	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		result, err := c.breaker.Execute(func() (any, error) {
			return c.attempt(ctx, fullURL)
		})
		if err == nil {
			return result.([]byte), nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("archive circuit open: %w", err)
		}
		if !retryable(err) || attempt >= c.maxRetries {
			return nil, err
		}
		c.logger.Warn("archive request failed, retrying",
			"attempt", attempt+1,
			"backoff", backoff,
			"error", err,
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		if backoff *= 2; backoff > c.maxBackoff {
			backoff = c.maxBackoff
		}
	}
}

func (c *Client) attempt(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("archive request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errRateLimited
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", errServerError, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("archive API error: status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func retryable(err error) bool {
	if errors.Is(err, errRateLimited) || errors.Is(err, errServerError) {
		return true
	}
	// Network-level failures surface as url.Error.
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// Archive API response types.

type response struct {
	Hourly hourly `json:"hourly"`
}

type hourly struct {
	Time               []string   `json:"time"`
	Temperature2m      []*float64 `json:"temperature_2m"`
	RelativeHumidity2m []*float64 `json:"relativehumidity_2m"`
}
