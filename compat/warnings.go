package compat

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"emc/engine"
)

// Severity of a warning.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// rank orders severities: error < warning < info. Unrecognized values
// sort last.
func (s Severity) rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}

// Warning is a single per-engine compatibility finding. The warning list
// produced by this package is unique on (Engine, Feature, Severity) and
// sorted by severity.
type Warning struct {
	Severity             Severity  `yaml:"severity" json:"severity"`
	Engine               engine.ID `yaml:"engine" json:"engine"`
	Feature              string    `yaml:"feature" json:"feature"`
	Message              string    `yaml:"message" json:"message"`
	Suggestion           string    `yaml:"suggestion,omitempty" json:"suggestion,omitempty"`
	Fix                  *Fix      `yaml:"fix,omitempty" json:"fix,omitempty"`
	FixIsGenericFallback bool      `yaml:"fix_is_generic_fallback,omitempty" json:"fix_is_generic_fallback,omitempty"`
	FixType              FixType   `yaml:"fix_type" json:"fix_type"`
	Selector             string    `yaml:"selector,omitempty" json:"selector,omitempty"`
}

// NewWarning assembles a warning with resolver-attached remediation and
// the derived fix classification.
func NewWarning(sev Severity, id engine.ID, feature, message string, fw Framework) Warning {
	rem := ResolveFix(feature, id, fw)
	return Warning{
		Severity:             sev,
		Engine:               id,
		Feature:              feature,
		Message:              message,
		Suggestion:           rem.Suggestion,
		Fix:                  rem.Fix,
		FixIsGenericFallback: rem.GenericFallback,
		FixType:              FixTypeFor(feature),
	}
}

// SortWarnings orders warnings by severity (error, warning, info),
// stable otherwise.
func SortWarnings(ws []Warning) {
	sort.SliceStable(ws, func(i, j int) bool {
		return ws[i].Severity.rank() < ws[j].Severity.rank()
	})
}

type warningKey struct {
	engine   engine.ID
	feature  string
	severity Severity
}

// GenerateWarnings cross references detected features against the
// support matrix for every cataloged engine and returns a severity
// sorted, de-duplicated warning list. De-duplication happens at insert
// time; the first write for an (engine, feature, severity) triple wins.
func (a *Analyzer) GenerateWarnings(doc string, fw Framework) ([]Warning, error) {
	fs, err := a.DetectFeatures(doc)
	if err != nil {
		return nil, err
	}

	warnings := []Warning{}
	seen := make(map[warningKey]bool)

	for _, feature := range fs.Keys() {
		for _, prof := range engine.All() {
			var sev Severity
			var msg string
			switch Support(feature, prof.ID) {
			case Unsupported:
				sev = SeverityError
				msg = fmt.Sprintf("%s is not supported in %s", feature, prof.Name)
			case Partial:
				sev = SeverityWarning
				msg = fmt.Sprintf("%s is only partially supported in %s", feature, prof.Name)
			default:
				// supported or unknown: no warning either way
				continue
			}

			key := warningKey{prof.ID, feature, sev}
			if seen[key] {
				continue
			}
			seen[key] = true

			w := NewWarning(sev, prof.ID, feature, msg, fw)
			if ctx := fs.Context(feature); ctx != ContextStylesheet {
				w.Selector = ctx
			}
			warnings = append(warnings, w)
		}
	}

	SortWarnings(warnings)
	a.log.Debug("Warnings generated", zap.Int("features", fs.Len()), zap.Int("warnings", len(warnings)))
	return warnings, nil
}
