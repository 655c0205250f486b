package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"

	"github.com/rmitchellscott/wxcraft"
	"github.com/rmitchellscott/wxcraft/internal/fetch"
	"github.com/rmitchellscott/wxcraft/internal/geo"
)

var (
	functionColor = color.New(color.FgMagenta)
	labelColor    = color.New(color.FgCyan)
)

const separator = "----------------------------------"

// locator resolves the user's approximate position.
type locator interface {
	Locate(ctx context.Context) (geo.Location, error)
}

// app prints raw and decoded reports for one station.
type app struct {
	fetcher fetch.Fetcher
	locator locator
	out     io.Writer
	clock   clockwork.Clock
	opts    wxcraft.Options

	noRaw    bool
	noDecode bool
}

// request describes what to show. Raw is set when the report was piped in.
type request struct {
	station  string
	raw      string
	metarOff bool
	tafOff   bool
}

func (a *app) eol() string {
	if a.opts.EOL == "" {
		return "\n"
	}
	return a.opts.EOL
}

func (a *app) run(ctx context.Context, req request) error {
	if !a.noDecode && a.opts.Mode == wxcraft.Text && req.station != "" {
		a.site(ctx, req.station)
	}

	if req.raw != "" {
		if isTAF(req.raw) {
			return a.showTAF(ctx, req.station, req.raw)
		}
		return a.showMETAR(ctx, req.station, req.raw)
	}

	if !req.metarOff {
		if err := a.showMETAR(ctx, req.station, ""); err != nil {
			return err
		}
	}
	if !req.tafOff {
		if !req.metarOff {
			fmt.Fprint(a.out, a.eol()+separator+a.eol()+a.eol())
		}
		return a.showTAF(ctx, req.station, "")
	}
	return nil
}

// nearest finds the airport closest to the user's IP location.
func (a *app) nearest(ctx context.Context, radiusMiles float64) (string, error) {
	fmt.Fprint(a.out, "Finding nearest airport to your location..."+a.eol())
	loc, err := a.locator.Locate(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get your location: %w", err)
	}
	fmt.Fprintf(a.out, "Your location: %s, %s (%.4f, %.4f)%s",
		loc.City, loc.Country, loc.Latitude, loc.Longitude, a.eol())

	fmt.Fprintf(a.out, "Searching for airports within %.1f miles...%s", radiusMiles, a.eol())
	station, distance, err := fetch.Nearest(ctx, a.fetcher, loc.Position, radiusMiles)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(a.out, "Nearest airport: %s (%.1f miles away)%s%s", station.ICAO, distance, a.eol(), a.eol())
	return station.ICAO, nil
}

// site prints the station's descriptive name. Failure only warrants a warning.
func (a *app) site(ctx context.Context, station string) {
	info, err := a.fetcher.FetchStationInfo(ctx, station)
	if err != nil {
		fmt.Fprintf(a.out, "Warning: Could not fetch site info for %s: %v%s", station, err, a.eol())
		return
	}

	parts := []string{info.Name}
	for _, p := range []string{info.State, info.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	labelColor.Fprint(a.out, "Site: ")
	fmt.Fprint(a.out, strings.Join(parts, ", ")+a.eol()+a.eol())
}

func (a *app) showMETAR(ctx context.Context, station, raw string) error {
	if raw == "" {
		var err error
		if raw, err = a.fetcher.FetchMETAR(ctx, station); err != nil {
			return fmt.Errorf("fetch METAR: %w", err)
		}
	}

	a.showRaw("----- Raw METAR -----", raw)
	if a.noDecode {
		return nil
	}

	report := wxcraft.ParseMETAR(raw)
	a.header("--- Decoded METAR ---")
	a.body(wxcraft.FormatMETAR(report, a.opts))
	if report.Time != nil {
		a.age(report.Time, metarAgeColor)
	}
	return nil
}

func (a *app) showTAF(ctx context.Context, station, raw string) error {
	if raw == "" {
		var err error
		if raw, err = a.fetcher.FetchTAF(ctx, station); err != nil {
			return fmt.Errorf("fetch TAF: %w", err)
		}
	}

	a.showRaw("------ Raw TAF ------", raw)
	if a.noDecode {
		return nil
	}

	report := wxcraft.ParseTAF(raw)
	a.header("---- Decoded TAF ----")
	a.body(wxcraft.FormatTAF(report, a.opts))
	if report.IssueTime != nil {
		a.age(report.IssueTime, tafAgeColor)
	}
	return nil
}

func (a *app) showRaw(title, raw string) {
	if a.noRaw {
		return
	}
	a.header(title)
	fmt.Fprint(a.out, raw+a.eol())
	if !a.noDecode {
		fmt.Fprint(a.out, a.eol())
	}
}

// header prints a section title. Markup output carries its own structure.
func (a *app) header(title string) {
	if a.opts.Mode != wxcraft.Text {
		return
	}
	functionColor.Fprint(a.out, title)
	fmt.Fprint(a.out, a.eol())
}

func (a *app) body(rendered string) {
	fmt.Fprint(a.out, strings.TrimRight(rendered, "\r\n")+a.eol())
}

// age prints how long ago the report was issued, coloured by freshness.
func (a *app) age(stamp *wxcraft.ReportTime, colorFor func(time.Duration) *color.Color) {
	if a.opts.Mode != wxcraft.Text {
		return
	}
	now := a.clock.Now()
	age := now.Sub(stamp.At(now))

	labelColor.Fprint(a.out, "Report Age: ")
	colorFor(age).Fprint(a.out, relativeTimeString(age))
	fmt.Fprint(a.out, a.eol())
}
