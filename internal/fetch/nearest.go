package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/rmitchellscott/wxcraft/internal/geo"
	"github.com/rmitchellscott/wxcraft/internal/observability"
)

// KindStations labels bounding-box station searches.
const KindStations = "stations"

// Station is one entry of the stationinfo JSON listing.
type Station struct {
	ICAO      string  `json:"icaoId"`
	Name      string  `json:"name"`
	State     string  `json:"state,omitempty"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Elevation int     `json:"elev"`
}

// Position returns the station's coordinates.
func (s Station) Position() geo.Position {
	return geo.Position{Latitude: s.Latitude, Longitude: s.Longitude}
}

// StationFinder lists stations inside a bounding box.
type StationFinder interface {
	FetchStationsInBox(ctx context.Context, box geo.Box) ([]Station, error)
}

// FetchStationsInBox queries stationinfo for every station inside box.
func (c *Client) FetchStationsInBox(ctx context.Context, box geo.Box) ([]Station, error) {
	start := time.Now()
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u, err := url.Parse(c.baseURL + "/" + KindStation)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	params := url.Values{}
	params.Set("bbox", box.String())
	params.Set("format", "json")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if corrID := extractCorrelationID(ctx); corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		observability.FetchCallsTotal.WithLabelValues(KindStations, "error").Inc()
		observability.FetchDuration.WithLabelValues(KindStations, "error").Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: http request failed: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	status := statusLabel(resp.StatusCode)
	observability.FetchCallsTotal.WithLabelValues(KindStations, status).Inc()
	observability.FetchDuration.WithLabelValues(KindStations, status).Observe(time.Since(start).Seconds())

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	var stations []Station
	if len(body) > 0 {
		if err := json.Unmarshal(body, &stations); err != nil {
			return nil, fmt.Errorf("%w: parse station list: %w", ErrUpstream, err)
		}
	}

	c.logger.Debug("fetched stations", zap.String("bbox", box.String()), zap.Int("count", len(stations)))
	return stations, nil
}

// Nearest returns the station closest to pos within radiusMiles and its
// distance in miles. Stations without an ICAO code are skipped.
func Nearest(ctx context.Context, finder StationFinder, pos geo.Position, radiusMiles float64) (Station, float64, error) {
	stations, err := finder.FetchStationsInBox(ctx, geo.BoundingBox(pos, radiusMiles))
	if err != nil {
		return Station{}, 0, err
	}

	type stationDistance struct {
		station  Station
		distance float64
	}
	var candidates []stationDistance
	for _, s := range stations {
		if s.ICAO == "" {
			continue
		}
		d := geo.Distance(pos, s.Position())
		if d > radiusMiles {
			continue
		}
		candidates = append(candidates, stationDistance{station: s, distance: d})
	}
	if len(candidates) == 0 {
		return Station{}, 0, fmt.Errorf("%w: no airports found within %.1f miles", ErrStationNotFound, radiusMiles)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})
	return candidates[0].station, candidates[0].distance, nil
}
