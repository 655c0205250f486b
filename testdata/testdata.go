// Package testdata provides corpora of real METAR and TAF reports, one report
// per line.
package testdata

import (
	"bufio"
	"embed"
	"iter"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

//go:embed *.txt
var data embed.FS

func newScanner(t *testing.T, path string) *bufio.Scanner {
	f, err := data.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, f.Close())
	})

	scanner := bufio.NewScanner(f)
	t.Cleanup(func() {
		require.NoError(t, scanner.Err())
	})

	return scanner
}

// lines yields every non-empty line of the corpus.
func lines(t *testing.T, path string) iter.Seq[string] {
	return func(yield func(string) bool) {
		scanner := newScanner(t, path)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}

func METAR(t *testing.T) iter.Seq[string] {
	return lines(t, "metar.txt")
}

func TAF(t *testing.T) iter.Seq[string] {
	return lines(t, "taf.txt")
}
