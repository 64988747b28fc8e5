package compat

import "emc/engine"

// EngineScore is the 0-100 compatibility reduction of an engine's
// warning list, with per-severity counts.
type EngineScore struct {
	Score    int `yaml:"score" json:"score"`
	Errors   int `yaml:"errors" json:"errors"`
	Warnings int `yaml:"warnings" json:"warnings"`
	Info     int `yaml:"info" json:"info"`
}

// Score reduces a warning list to a per-engine score:
//
//	clamp(100 - 15*errors - 5*warnings - 1*info, 0, 100)
//
// Every cataloged engine appears in the result; an engine with no
// warnings scores exactly 100. Warnings for engines outside the catalog
// (e.g. emitted by a transform for an unknown id) are counted too.
func Score(warnings []Warning) map[engine.ID]EngineScore {
	out := make(map[engine.ID]EngineScore, len(engine.All()))
	for _, p := range engine.All() {
		out[p.ID] = EngineScore{Score: 100}
	}

	for _, w := range warnings {
		s := out[w.Engine]
		switch w.Severity {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		case SeverityInfo:
			s.Info++
		}
		out[w.Engine] = s
	}

	for id, s := range out {
		score := 100 - 15*s.Errors - 5*s.Warnings - s.Info
		if score < 0 {
			score = 0
		}
		s.Score = score
		out[id] = s
	}
	return out
}
