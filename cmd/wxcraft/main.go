package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/rmitchellscott/wxcraft"
	"github.com/rmitchellscott/wxcraft/internal/config"
	"github.com/rmitchellscott/wxcraft/internal/fetch"
	"github.com/rmitchellscott/wxcraft/internal/geo"
	"github.com/rmitchellscott/wxcraft/internal/observability"
)

var eolEscapes = strings.NewReplacer(`\r`, "\r", `\n`, "\n")

func main() {
	metarOnly := flag.Bool("metar", false, "Show only METAR")
	tafOnly := flag.Bool("taf", false, "Show only TAF")
	noRawFlag := flag.Bool("no-raw", false, "Hide raw data")
	noDecodeFlag := flag.Bool("no-decode", false, "Show only raw data without decoding")
	flagNoColor := flag.Bool("no-color", false, "Disable color output")
	htmlFlag := flag.Bool("html", false, "Render decoded reports as HTML")
	richFlag := flag.Bool("rich", false, "Render decoded reports as HTML with symbols and raw code")
	eolFlag := flag.String("eol", `\n`, `Line ending for text output, e.g. "\r\n"`)
	radiusFlag := flag.Float64("radius", 50.0, "Search radius in miles when finding nearest airport")
	nearestFlag := flag.Bool("nearest", false, "Find nearest airport to your current location")
	verboseFlag := flag.Bool("verbose", false, "Log fetch and decode diagnostics to stderr")
	flag.Parse()

	opts := wxcraft.Options{EOL: eolEscapes.Replace(*eolFlag)}
	switch {
	case *richFlag:
		opts.Mode = wxcraft.RichHTML
	case *htmlFlag:
		opts.Mode = wxcraft.HTML
	}
	if *flagNoColor || opts.Mode != wxcraft.Text {
		color.NoColor = true // disables colorized output globally
	}
	opts.Color = !color.NoColor

	logger := zap.NewNop()
	if *verboseFlag {
		l, err := observability.NewLogger("debug")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger = l
		wxcraft.SetLogger(logger)
	}
	defer observability.FlushTelemetry(logger)

	baseURL := os.Getenv("AVWX_BASE_URL")
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}

	a := &app{
		fetcher:  fetch.New(baseURL, 10*time.Second, logger),
		locator:  geo.NewLocator(geo.DefaultLocatorURL, 10*time.Second, logger),
		out:      os.Stdout,
		clock:    clockwork.NewRealClock(),
		opts:     opts,
		noRaw:    *noRawFlag,
		noDecode: *noDecodeFlag,
	}
	req := request{metarOff: *tafOnly, tafOff: *metarOnly}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if stdinIsPiped() {
		station, raw, ok := readPiped(os.Stdin)
		if ok {
			req.station, req.raw = station, raw
		}
	}
	if req.raw == "" {
		var err error
		args := flag.Args()
		switch {
		case *nearestFlag || (len(args) > 0 && strings.EqualFold(strings.TrimSpace(args[0]), "AUTO")):
			req.station, err = a.nearest(ctx, *radiusFlag)
		case len(args) > 0:
			req.station, err = stationFromArgs(args)
		default:
			req.station, err = promptForStation(os.Stdin, os.Stdout)
			if err == nil && req.station == "AUTO" {
				req.station, err = a.nearest(ctx, *radiusFlag)
			}
		}
		if err != nil {
			stop()
			exit(os.Stderr, logger, err)
		}
	}

	if err := a.run(ctx, req); err != nil {
		stop()
		exit(os.Stderr, logger, err)
	}
}

var osExit = os.Exit

// exit reports err, flushes the logger and ends the process.
func exit(w io.Writer, logger *zap.Logger, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	_ = observability.FlushTelemetry(logger)
	osExit(1)
}
