package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/rmitchellscott/wxcraft"
	"github.com/rmitchellscott/wxcraft/internal/fetch"
	"github.com/rmitchellscott/wxcraft/internal/geo"
	"github.com/rmitchellscott/wxcraft/internal/observability"
)

// maxReportBytes bounds POST bodies; a full TAF is well under 4 KiB.
const maxReportBytes = 64 << 10

const (
	defaultRadiusMiles = 50.0
	maxRadiusMiles     = 250.0
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	fetcher fetch.Fetcher
	logger  *zap.Logger
	started time.Time
}

// NewHandler returns a new Handler.
func NewHandler(fetcher fetch.Fetcher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		fetcher: fetcher,
		logger:  logger,
		started: time.Now(),
	}
}

// GetMETAR handles GET /metar/{station}.
func (h *Handler) GetMETAR(w http.ResponseWriter, r *http.Request) {
	format, ok := formatParam(w, r)
	if !ok {
		return
	}
	raw, err := h.fetcher.FetchMETAR(r.Context(), mux.Vars(r)["station"])
	if err != nil {
		h.writeFetchError(w, r, err)
		return
	}
	h.respondMETAR(w, r, raw, format)
}

// GetTAF handles GET /taf/{station}.
func (h *Handler) GetTAF(w http.ResponseWriter, r *http.Request) {
	format, ok := formatParam(w, r)
	if !ok {
		return
	}
	raw, err := h.fetcher.FetchTAF(r.Context(), mux.Vars(r)["station"])
	if err != nil {
		h.writeFetchError(w, r, err)
		return
	}
	h.respondTAF(w, r, raw, format)
}

// DecodeMETAR handles POST /decode/metar with the raw report as the body.
func (h *Handler) DecodeMETAR(w http.ResponseWriter, r *http.Request) {
	format, ok := formatParam(w, r)
	if !ok {
		return
	}
	raw, ok := readReport(w, r)
	if !ok {
		return
	}
	h.respondMETAR(w, r, raw, format)
}

// DecodeTAF handles POST /decode/taf with the raw report as the body.
func (h *Handler) DecodeTAF(w http.ResponseWriter, r *http.Request) {
	format, ok := formatParam(w, r)
	if !ok {
		return
	}
	raw, ok := readReport(w, r)
	if !ok {
		return
	}
	h.respondTAF(w, r, raw, format)
}

// nearestResponse is the body of GET /nearest.
type nearestResponse struct {
	Station       fetch.Station `json:"station"`
	DistanceMiles float64       `json:"distance_miles"`
}

// GetNearest handles GET /nearest?lat=&lon=[&radius=].
func (h *Handler) GetNearest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
	pos := geo.Position{Latitude: lat, Longitude: lon}
	if latErr != nil || lonErr != nil || !pos.Valid() {
		writeError(w, r, http.StatusBadRequest, "INVALID_COORDINATES", "lat and lon must be decimal degrees")
		return
	}

	radius := defaultRadiusMiles
	if v := q.Get("radius"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 || parsed > maxRadiusMiles {
			writeError(w, r, http.StatusBadRequest, "INVALID_RADIUS", "radius must be between 0 and 250 miles")
			return
		}
		radius = parsed
	}

	station, distance, err := fetch.Nearest(r.Context(), h.fetcher, pos, radius)
	if err != nil {
		h.writeFetchError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nearestResponse{Station: station, DistanceMiles: distance})
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "wxcraft",
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) respondMETAR(w http.ResponseWriter, r *http.Request, raw, format string) {
	report := wxcraft.ParseMETAR(raw)
	observability.RecordDecode(fetch.KindMETAR, report.ParseError, report.Empty())
	if report.ParseError != "" {
		loggerFrom(r, h.logger).Warn("metar decode error",
			zap.String("station", report.Station), zap.String("parse_error", report.ParseError))
	}
	writeReport(w, format, report, func(opts wxcraft.Options) string {
		return wxcraft.FormatMETAR(report, opts)
	})
}

func (h *Handler) respondTAF(w http.ResponseWriter, r *http.Request, raw, format string) {
	report := wxcraft.ParseTAF(raw)
	observability.RecordDecode(fetch.KindTAF, report.ParseError, report.Empty())
	if report.ParseError != "" {
		loggerFrom(r, h.logger).Warn("taf decode error",
			zap.String("station", report.Station), zap.String("parse_error", report.ParseError))
	}
	writeReport(w, format, report, func(opts wxcraft.Options) string {
		return wxcraft.FormatTAF(report, opts)
	})
}

// writeReport writes report as JSON or as rendered text or markup.
func writeReport(w http.ResponseWriter, format string, report interface{}, render func(wxcraft.Options) string) {
	switch format {
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, render(wxcraft.Options{Mode: wxcraft.Text}))
	case "html", "rich":
		mode := wxcraft.HTML
		if format == "rich" {
			mode = wxcraft.RichHTML
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, render(wxcraft.Options{Mode: mode}))
	default:
		writeJSON(w, http.StatusOK, report)
	}
}

// formatParam reads ?format=, writing a 400 when it is not recognised.
func formatParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	switch format {
	case "", "json":
		return "json", true
	case "text", "html", "rich":
		return format, true
	}
	writeError(w, r, http.StatusBadRequest, "INVALID_FORMAT", "format must be one of json, text, html, rich")
	return "", false
}

func readReport(w http.ResponseWriter, r *http.Request) (string, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxReportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "REPORT_TOO_LARGE", "report body exceeds 64 KiB")
			return "", false
		}
		writeError(w, r, http.StatusBadRequest, "INVALID_BODY", "unable to read request body")
		return "", false
	}
	raw := strings.TrimSpace(string(body))
	if raw == "" {
		writeError(w, r, http.StatusBadRequest, "EMPTY_REPORT", "request body must contain a raw report")
		return "", false
	}
	return raw, true
}

// writeFetchError maps fetch sentinel errors onto HTTP statuses.
func (h *Handler) writeFetchError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, fetch.ErrInvalidStation):
		writeError(w, r, http.StatusBadRequest, "INVALID_STATION", "station must be a 4-character ICAO code")
	case errors.Is(err, fetch.ErrStationNotFound):
		writeError(w, r, http.StatusNotFound, "STATION_NOT_FOUND", "no report available for station")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "TIMEOUT", "upstream request timed out")
	default:
		writeError(w, r, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", "Unable to fetch weather data")
	}
	loggerFrom(r, h.logger).Debug("fetch error", zap.Error(err))
}

func loggerFrom(r *http.Request, fallback *zap.Logger) *zap.Logger {
	if logger, ok := r.Context().Value("logger").(*zap.Logger); ok && logger != nil {
		return logger
	}
	return fallback
}

// writeJSON writes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard error format with code, message,
// and requestId (correlation ID) if available in request context.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	corrID, _ := r.Context().Value("correlation_id").(string)
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": corrID,
		},
	})
}
