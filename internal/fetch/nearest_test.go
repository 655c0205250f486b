package fetch

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmitchellscott/wxcraft/internal/geo"
)

type fakeFinder struct {
	stations []Station
	err      error
	box      geo.Box
}

func (f *fakeFinder) FetchStationsInBox(ctx context.Context, box geo.Box) ([]Station, error) {
	f.box = box
	return f.stations, f.err
}

var home = geo.Position{Latitude: 40.7128, Longitude: -74.0060}

func TestNearest(t *testing.T) {
	t.Parallel()

	f := &fakeFinder{stations: []Station{
		{ICAO: "KJFK", Latitude: 40.6398, Longitude: -73.7789},
		{ICAO: "KLGA", Latitude: 40.7769, Longitude: -73.8740},
		{ICAO: "", Latitude: 40.7128, Longitude: -74.0060},
		{ICAO: "KEWR", Latitude: 40.6925, Longitude: -74.1687},
	}}

	station, distance, err := Nearest(context.Background(), f, home, 50)
	require.NoError(t, err)
	assert.Equal(t, "KLGA", station.ICAO)
	assert.InDelta(t, 8.1, distance, 0.5)
	assert.Equal(t, geo.BoundingBox(home, 50), f.box)
}

func TestNearest_NoneInRadius(t *testing.T) {
	t.Parallel()

	// inside the box corner but outside the circle
	f := &fakeFinder{stations: []Station{{ICAO: "KXXX", Latitude: 41.40, Longitude: -73.10}}}
	_, _, err := Nearest(context.Background(), f, home, 50)
	assert.ErrorIs(t, err, ErrStationNotFound)

	_, _, err = Nearest(context.Background(), &fakeFinder{}, home, 50)
	assert.ErrorIs(t, err, ErrStationNotFound)
	assert.ErrorContains(t, err, "no airports found within 50.0 miles")
}

func TestNearest_FinderError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, _, err := Nearest(context.Background(), &fakeFinder{err: boom}, home, 50)
	assert.ErrorIs(t, err, boom)
}

func TestFetchStationsInBox(t *testing.T) {
	t.Parallel()

	box := geo.BoundingBox(home, 25)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stationinfo", r.URL.Path)
		assert.Equal(t, box.String(), r.URL.Query().Get("bbox"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		_, _ = w.Write([]byte(`[{"icaoId":"KJFK","name":"NEW YORK/JF KENNEDY INTL","state":"NY","country":"US","lat":40.6398,"lon":-73.7789,"elev":3}]`))
	})

	stations, err := c.FetchStationsInBox(context.Background(), box)
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, Station{
		ICAO: "KJFK", Name: "NEW YORK/JF KENNEDY INTL", State: "NY", Country: "US",
		Latitude: 40.6398, Longitude: -73.7789, Elevation: 3,
	}, stations[0])
}

func TestFetchStationsInBox_Errors(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	_, err := c.FetchStationsInBox(context.Background(), geo.BoundingBox(home, 25))
	assert.ErrorIs(t, err, ErrUpstream)

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err = c.FetchStationsInBox(context.Background(), geo.BoundingBox(home, 25))
	assert.ErrorIs(t, err, ErrUpstream)

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	stations, err := c.FetchStationsInBox(context.Background(), geo.BoundingBox(home, 25))
	require.NoError(t, err)
	assert.Empty(t, stations)
}
