package wxcraft

import (
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// SetLogger installs the logger that receives recovered parse and format
// failures. Pass nil to discard them again.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// recoverInto turns a panic in a parse or format call into a note. Use it as
// the deferred call itself: defer recoverInto(...).
func recoverInto(note *string, op string, raw string) {
	r := recover()
	if r == nil {
		return
	}
	*note = fmt.Sprint(r)
	logger.Load().Warn("recovered from panic",
		zap.String("op", op),
		zap.String("raw", raw),
		zap.String("error", *note))
}

// tokenize collapses line breaks and repeated whitespace and splits the report
// into fields.
func tokenize(raw string) []string {
	return strings.Fields(strings.ToUpper(raw))
}

// indexOf returns the index of the first token in tokens[from:] that is one of
// words, or -1.
func indexOf(tokens []string, from int, words ...string) int {
	for i := from; i < len(tokens); i++ {
		for _, w := range words {
			if tokens[i] == w {
				return i
			}
		}
	}
	return -1
}

// capitalizeFirst capitalizes the first letter of a string
func capitalizeFirst(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
