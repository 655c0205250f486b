package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rmitchellscott/wxcraft/internal/observability"
)

// Fetcher retrieves raw reports for a station.
type Fetcher interface {
	FetchMETAR(ctx context.Context, station string) (string, error)
	FetchTAF(ctx context.Context, station string) (string, error)
	FetchStationInfo(ctx context.Context, station string) (StationInfo, error)
	StationFinder
}

var (
	ErrInvalidStation  = errors.New("invalid station code")
	ErrStationNotFound = errors.New("station not found")
	ErrUpstream        = errors.New("upstream failure")
)

// StationInfo is the descriptive data the stationinfo endpoint returns.
type StationInfo struct {
	Name    string `json:"name"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// Report kinds, used as the endpoint path and metric label.
const (
	KindMETAR   = "metar"
	KindTAF     = "taf"
	KindStation = "stationinfo"
)

var (
	stationCodeRegex = regexp.MustCompile(`^[A-Z][A-Z0-9]{3}$`)

	siteRegex    = regexp.MustCompile(`(?m)^\s*Site:\s+(.+)$`)
	stateRegex   = regexp.MustCompile(`(?m)^\s*State:\s+(.+)$`)
	countryRegex = regexp.MustCompile(`(?m)^\s*Country:\s+(.+)$`)
)

// Client talks to the aviationweather.gov data API, which answers in plain text.
type Client struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
}

// New returns a Client for baseURL, e.g. "https://aviationweather.gov/api/data".
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// NormalizeStation upper-cases and validates a four-character ICAO code.
func NormalizeStation(station string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(station))
	if !stationCodeRegex.MatchString(code) {
		return "", fmt.Errorf("%w: %q must be 4 characters", ErrInvalidStation, station)
	}
	return code, nil
}

// FetchMETAR returns the latest raw METAR for station.
func (c *Client) FetchMETAR(ctx context.Context, station string) (string, error) {
	return c.fetch(ctx, KindMETAR, station)
}

// FetchTAF returns the latest raw TAF for station.
func (c *Client) FetchTAF(ctx context.Context, station string) (string, error) {
	return c.fetch(ctx, KindTAF, station)
}

// FetchStationInfo returns the site name, state and country of station.
func (c *Client) FetchStationInfo(ctx context.Context, station string) (StationInfo, error) {
	body, err := c.fetch(ctx, KindStation, station)
	if err != nil {
		return StationInfo{}, err
	}
	info, ok := parseStationInfo(body)
	if !ok {
		return StationInfo{}, fmt.Errorf("%w: no site name in station info for %s", ErrUpstream, station)
	}
	return info, nil
}

// parseStationInfo reads the Site, State and Country lines. Only the site
// name is required.
func parseStationInfo(text string) (StationInfo, bool) {
	var info StationInfo
	if m := siteRegex.FindStringSubmatch(text); m != nil {
		info.Name = strings.TrimSpace(m[1])
	}
	if m := stateRegex.FindStringSubmatch(text); m != nil {
		info.State = strings.TrimSpace(m[1])
	}
	if m := countryRegex.FindStringSubmatch(text); m != nil {
		info.Country = strings.TrimSpace(m[1])
	}
	return info, info.Name != ""
}

func (c *Client) fetch(ctx context.Context, kind, station string) (string, error) {
	code, err := NormalizeStation(station)
	if err != nil {
		return "", err
	}

	start := time.Now()
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.buildRequest(reqCtx, kind, code)
	if err != nil {
		observability.FetchCallsTotal.WithLabelValues(kind, "error").Inc()
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		observability.FetchCallsTotal.WithLabelValues(kind, "error").Inc()
		observability.FetchDuration.WithLabelValues(kind, "error").Observe(time.Since(start).Seconds())
		c.logger.Warn("upstream request failed",
			zap.String("kind", kind), zap.String("station", code), zap.Error(err))

		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("%w: request timeout: %w", ErrUpstream, err)
		}
		return "", fmt.Errorf("%w: http request failed: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	status := statusLabel(resp.StatusCode)
	observability.FetchCallsTotal.WithLabelValues(kind, status).Inc()
	observability.FetchDuration.WithLabelValues(kind, status).Observe(time.Since(start).Seconds())

	if err := handleErrorResponse(resp, code); err != nil {
		c.logger.Warn("upstream error response",
			zap.String("kind", kind), zap.String("station", code),
			zap.Int("status_code", resp.StatusCode), zap.Error(err))
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	data := strings.TrimSpace(string(body))
	if data == "" {
		return "", fmt.Errorf("%w: no %s data for %s", ErrStationNotFound, kind, code)
	}

	c.logger.Debug("fetched report",
		zap.String("kind", kind), zap.String("station", code), zap.Int("bytes", len(data)))
	return data, nil
}

func (c *Client) buildRequest(ctx context.Context, kind, station string) (*http.Request, error) {
	u, err := url.Parse(c.baseURL + "/" + kind)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	params := url.Values{}
	params.Set("ids", station)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	if corrID := extractCorrelationID(ctx); corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}
	return req, nil
}

// handleErrorResponse maps non-2xx statuses to sentinel errors. 204 means the
// station has no current report.
func handleErrorResponse(resp *http.Response, station string) error {
	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrStationNotFound, station)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s rejected by upstream", ErrInvalidStation, station)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d", ErrUpstream, resp.StatusCode)
	}
	return nil
}

func extractCorrelationID(ctx context.Context) string {
	if corrIDVal := ctx.Value("correlation_id"); corrIDVal != nil {
		if corrID, ok := corrIDVal.(string); ok {
			return corrID
		}
	}
	return ""
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode == 429 {
		return "rate_limited"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}
