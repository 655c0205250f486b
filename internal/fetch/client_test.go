package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const egll = "EGLL 021420Z AUTO 35004KT 300V040 9999 SCT024 12/06 Q1035"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 2*time.Second, nil)
}

func TestFetchMETAR(t *testing.T) {
	t.Parallel()

	var gotPath, gotIDs, gotCorrID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotIDs = r.URL.Query().Get("ids")
		gotCorrID = r.Header.Get("X-Correlation-ID")
		_, _ = w.Write([]byte(egll + "\n"))
	})

	ctx := context.WithValue(context.Background(), "correlation_id", "req-123")
	raw, err := c.FetchMETAR(ctx, " egll ")
	require.NoError(t, err)
	assert.Equal(t, egll, raw)
	assert.Equal(t, "/metar", gotPath)
	assert.Equal(t, "EGLL", gotIDs)
	assert.Equal(t, "req-123", gotCorrID)
}

func TestFetchTAF(t *testing.T) {
	t.Parallel()

	taf := "TAF EGLL 121100Z 1212/1318 35010KT 9999 SCT025"
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/taf", r.URL.Path)
		_, _ = w.Write([]byte(taf))
	})

	raw, err := c.FetchTAF(context.Background(), "EGLL")
	require.NoError(t, err)
	assert.Equal(t, taf, raw)
}

func TestFetch_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"empty body", http.StatusOK, "  \n", ErrStationNotFound},
		{"no content", http.StatusNoContent, "", ErrStationNotFound},
		{"not found", http.StatusNotFound, "", ErrStationNotFound},
		{"bad request", http.StatusBadRequest, "", ErrInvalidStation},
		{"server error", http.StatusBadGateway, "", ErrUpstream},
		{"rate limited", http.StatusTooManyRequests, "", ErrUpstream},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := c.FetchMETAR(context.Background(), "KJFK")
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestFetch_InvalidStation(t *testing.T) {
	t.Parallel()

	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	for _, station := range []string{"", "JFK", "KJFKX", "1ABC", "K-FK"} {
		_, err := c.FetchTAF(context.Background(), station)
		assert.ErrorIs(t, err, ErrInvalidStation, station)
	}
	assert.False(t, called)
}

func TestFetch_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c := New(srv.URL, 50*time.Millisecond, nil)
	_, err := c.FetchMETAR(context.Background(), "KJFK")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestFetchStationInfo(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stationinfo", r.URL.Path)
		_, _ = w.Write([]byte("Station: KJFK\nSite: New York/JF Kennedy Intl\nState: NY\nCountry: US\n"))
	})

	info, err := c.FetchStationInfo(context.Background(), "kjfk")
	require.NoError(t, err)
	assert.Equal(t, StationInfo{Name: "New York/JF Kennedy Intl", State: "NY", Country: "US"}, info)
}

func TestFetchStationInfo_NoSite(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("State: NY\n"))
	})

	_, err := c.FetchStationInfo(context.Background(), "KJFK")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestNormalizeStation(t *testing.T) {
	t.Parallel()

	code, err := NormalizeStation(" k1v4 ")
	require.NoError(t, err)
	assert.Equal(t, "K1V4", code)

	_, err = NormalizeStation("12AB")
	assert.ErrorIs(t, err, ErrInvalidStation)
}

func TestStatusLabel(t *testing.T) {
	t.Parallel()

	tests := map[int]string{
		200: "success",
		204: "success",
		429: "rate_limited",
		404: "client_error",
		503: "server_error",
		302: "error",
	}
	for code, want := range tests {
		assert.Equal(t, want, statusLabel(code), code)
	}
}
