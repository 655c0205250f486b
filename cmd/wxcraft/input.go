package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rmitchellscott/wxcraft/internal/fetch"
)

// stdinIsPiped reports whether stdin is a pipe or file rather than a terminal.
func stdinIsPiped() bool {
	info, err := os.Stdin.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice == 0
}

// readPiped reads a raw report from r. Multi-line TAFs are joined onto one
// line. The station is the first token after any TAF, METAR or SPECI prefix.
func readPiped(r io.Reader) (station, raw string, ok bool) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "", "", false
	}

	raw = strings.Join(lines, " ")
	for _, part := range strings.Fields(raw) {
		switch strings.ToUpper(part) {
		case "TAF", "METAR", "SPECI", "AMD", "COR":
			continue
		}
		return strings.ToUpper(part), raw, true
	}
	return "", raw, true
}

// isTAF reports whether raw looks like a TAF rather than a METAR.
func isTAF(raw string) bool {
	fields := strings.Fields(strings.ToUpper(raw))
	return len(fields) > 0 && fields[0] == "TAF"
}

// stationFromArgs gets the station code from command-line args.
func stationFromArgs(args []string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("no station code provided")
	}
	return fetch.NormalizeStation(args[0])
}

// promptForStation asks for a station code on out and reads it from in.
func promptForStation(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter ICAO airport code (e.g., KJFK, EGLL): ")
	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && input == "" {
		return "", fmt.Errorf("error reading input: %w", err)
	}
	return fetch.NormalizeStation(input)
}
