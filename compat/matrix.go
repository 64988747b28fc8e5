package compat

import (
	_ "embed"
	"fmt"
	"sync"

	yaml "gopkg.in/yaml.v3"

	"emc/engine"
)

// SupportLevel describes how well an engine supports a feature.
type SupportLevel int

const (
	// Unknown means no curated data exists. Absence of data is not
	// evidence of support and never produces a warning by itself.
	Unknown SupportLevel = iota
	Supported
	Partial
	Unsupported
)

func (l SupportLevel) String() string {
	switch l {
	case Supported:
		return "supported"
	case Partial:
		return "partial"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// UnmarshalYAML decodes a support level from its string form.
func (l *SupportLevel) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "supported":
		*l = Supported
	case "partial":
		*l = Partial
	case "unsupported":
		*l = Unsupported
	case "unknown":
		*l = Unknown
	default:
		return fmt.Errorf("unknown support level %q", s)
	}
	return nil
}

// Feature keys for structural markers and compound value-sensitive
// features. Plain CSS properties use the property name itself as the key.
const (
	FeatureStyleTag = "<style>"
	FeatureLinkTag  = "<link>"
	FeatureSVG      = "<svg>"
	FeatureVideo    = "<video>"
	FeatureForm     = "<form>"
	FeatureFontFace = "@font-face"
	FeatureMedia    = "@media"
	FeatureFlex     = "display:flex"
	FeatureGrid     = "display:grid"
	FeatureGradient = "linear-gradient"
)

//go:embed data/support_matrix.yaml
var supportMatrixData []byte

// The matrix is declarative data merged once into an immutable map at
// first use. Keys that do not appear resolve to Unknown.
var supportMatrix = sync.OnceValue(func() map[string]map[engine.ID]SupportLevel {
	var m map[string]map[engine.ID]SupportLevel
	if err := yaml.Unmarshal(supportMatrixData, &m); err != nil {
		// embedded data, failure here is a programming error
		panic(fmt.Sprintf("invalid embedded support matrix: %v", err))
	}
	return m
})

// Support resolves the support level of a feature key for an engine.
// Compound keys ("display:flex") are looked up directly and never
// decomposed back to the plain property. A missing engine entry for an
// existing feature is Unknown.
func Support(feature string, id engine.ID) SupportLevel {
	byEngine, ok := supportMatrix()[feature]
	if !ok {
		return Unknown
	}
	lvl, ok := byEngine[id]
	if !ok {
		return Unknown
	}
	return lvl
}

// MatrixFeatures returns every feature key present in the support matrix.
func MatrixFeatures() []string {
	m := supportMatrix()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
