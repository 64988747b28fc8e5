package transform

import (
	"emc/compat"
	"emc/engine"
)

type recordedKey struct {
	feature  string
	severity compat.Severity
}

// recorder collects warnings emitted while mutating a document. Each
// neutralized feature produces exactly one warning per engine regardless
// of how many occurrences were touched; remediation is attached through
// the same resolver tiers the analysis side uses, so fixes stay
// consistent between "detected" and "applied" warnings.
type recorder struct {
	engine   engine.ID
	fw       compat.Framework
	seen     map[recordedKey]bool
	warnings []compat.Warning
}

func newRecorder(id engine.ID, fw compat.Framework) *recorder {
	return &recorder{
		engine:   id,
		fw:       fw,
		seen:     make(map[recordedKey]bool),
		warnings: []compat.Warning{},
	}
}

func (r *recorder) record(sev compat.Severity, feature, message string) {
	key := recordedKey{feature, sev}
	if r.seen[key] {
		return
	}
	r.seen[key] = true
	r.warnings = append(r.warnings, compat.NewWarning(sev, r.engine, feature, message, r.fw))
}

func (r *recorder) warn(feature, message string) {
	r.record(compat.SeverityWarning, feature, message)
}

func (r *recorder) info(feature, message string) {
	r.record(compat.SeverityInfo, feature, message)
}

func (r *recorder) sort() {
	compat.SortWarnings(r.warnings)
}
