// Package compat is the compatibility knowledge engine: it detects
// HTML/CSS features used by an email document, cross references them
// against a curated per-engine support matrix, resolves remediation
// advice and reduces the outcome to a per-engine score.
//
// All entry points are pure functions of their inputs. The only fatal
// condition is a document exceeding the size ceiling; malformed HTML or
// CSS degrades to fewer detected features, never to an error.
package compat

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"emc/css"
)

// DefaultMaxBytes is the default input size ceiling. Pathological
// documents are rejected before any parsing work starts.
const DefaultMaxBytes = 2 << 20 // 2 MiB

// ErrDocumentTooLarge is returned when input exceeds the size ceiling.
var ErrDocumentTooLarge = errors.New("document exceeds size limit")

// Analyzer runs read-only compatibility analyses over a document.
type Analyzer struct {
	log      *zap.Logger
	parser   *css.Parser
	maxBytes int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMaxBytes overrides the input size ceiling.
func WithMaxBytes(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxBytes = n
		}
	}
}

// NewAnalyzer creates a new Analyzer. A nil logger is replaced with a nop
// one.
func NewAnalyzer(log *zap.Logger, opts ...Option) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Analyzer{
		log:      log.Named("compat"),
		parser:   css.NewParser(log),
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// MaxBytes returns the configured input size ceiling.
func (a *Analyzer) MaxBytes() int {
	return a.maxBytes
}

// CheckSize validates the document against the ceiling. Empty or
// whitespace-only input is reported separately so callers can
// short-circuit to their defined empty result.
func CheckSize(doc string, maxBytes int) (empty bool, err error) {
	if len(doc) > maxBytes {
		return false, fmt.Errorf("%w: %d bytes (limit %d)", ErrDocumentTooLarge, len(doc), maxBytes)
	}
	if strings.TrimSpace(doc) == "" {
		return true, nil
	}
	return false, nil
}

// Framework identifies the authoring format of the document. Remediation
// snippets can be registered per framework; a resolved remedy that is not
// native to the requested framework is flagged as a generic fallback.
type Framework string

const (
	FrameworkNone    Framework = ""
	FrameworkMJML    Framework = "mjml"
	FrameworkJSX     Framework = "jsx"
	FrameworkMaizzle Framework = "maizzle"
)

// ParseFramework converts a configuration string into a Framework.
func ParseFramework(s string) (Framework, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "html":
		return FrameworkNone, nil
	case "mjml":
		return FrameworkMJML, nil
	case "jsx", "react":
		return FrameworkJSX, nil
	case "maizzle":
		return FrameworkMaizzle, nil
	default:
		return FrameworkNone, fmt.Errorf("unknown authoring framework %q", s)
	}
}
