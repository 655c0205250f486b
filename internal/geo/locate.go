package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultLocatorURL is ip-api.com's JSON endpoint, free for non-commercial use.
const DefaultLocatorURL = "http://ip-api.com/json/"

var ErrLocationUnavailable = errors.New("location unavailable")

// Location is the caller's approximate position derived from their IP address.
type Location struct {
	Position
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

// Locator resolves the caller's public IP address to a Location.
type Locator struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewLocator returns a Locator for url, normally DefaultLocatorURL.
func NewLocator(url string, timeout time.Duration, logger *zap.Logger) *Locator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type ipAPIResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	City        string  `json:"city"`
	RegionName  string  `json:"regionName"`
	CountryName string  `json:"country"`
}

// Locate returns the current location.
func (l *Locator) Locate(ctx context.Context) (Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return Location{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %w", ErrLocationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("%w: HTTP %d", ErrLocationUnavailable, resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Location{}, fmt.Errorf("parse response: %w", err)
	}
	if result.Status != "success" {
		return Location{}, fmt.Errorf("%w: %s", ErrLocationUnavailable, result.Message)
	}

	loc := Location{
		Position: Position{Latitude: result.Lat, Longitude: result.Lon},
		City:     result.City,
		Region:   result.RegionName,
		Country:  result.CountryName,
	}
	l.logger.Debug("located", zap.String("city", loc.City), zap.Float64("lat", loc.Latitude), zap.Float64("lon", loc.Longitude))
	return loc, nil
}
