package compat

import (
	_ "embed"
	"fmt"
	"sync"

	yaml "gopkg.in/yaml.v3"

	"emc/engine"
)

// Fix is a literal before/after code pair, not an executable patch.
type Fix struct {
	Before      string `yaml:"before" json:"before"`
	After       string `yaml:"after" json:"after"`
	Language    string `yaml:"language" json:"language"`
	Description string `yaml:"description" json:"description"`
}

// Remedy is resolved remediation advice for a feature on an engine.
type Remedy struct {
	Suggestion      string
	Fix             *Fix
	GenericFallback bool // true when a framework was requested but the advice is not framework-native
}

// FixType classifies how a warning is fixed.
type FixType string

const (
	FixTypeCSS        FixType = "css"
	FixTypeStructural FixType = "structural"
)

// structuralSet is the fixed set of features whose remediation requires
// restructuring markup rather than swapping a CSS value. Membership here
// is the single source of truth for FixType classification.
var structuralSet = map[string]bool{
	FeatureStyleTag: true,
	FeatureLinkTag:  true,
	FeatureSVG:      true,
	FeatureVideo:    true,
	FeatureForm:     true,
	FeatureFlex:     true,
	FeatureGrid:     true,
}

// FixTypeFor derives the fix classification for a feature.
func FixTypeFor(feature string) FixType {
	if structuralSet[feature] {
		return FixTypeStructural
	}
	return FixTypeCSS
}

type remedyEntry struct {
	Suggestion string `yaml:"suggestion"`
	Fix        *Fix   `yaml:"fix"`
}

//go:embed data/remedies.yaml
var remediesData []byte

// Remediation entries are registered under tiered keys:
//
//	feature::family::framework
//	feature::framework
//	feature::family
//	feature
//
// Family prefixes and framework tags are disjoint vocabularies, so the
// two middle tiers cannot collide in the flat map.
var remedies = sync.OnceValue(func() map[string]remedyEntry {
	var m map[string]remedyEntry
	if err := yaml.Unmarshal(remediesData, &m); err != nil {
		// embedded data, failure here is a programming error
		panic(fmt.Sprintf("invalid embedded remediation table: %v", err))
	}
	return m
})

// ResolveFix returns the best available remediation for a feature on a
// concrete engine, searching most specific tier first. The first tier
// with a registered entry wins. When a framework was requested but the
// winning tier is not framework-specific, the result is flagged as a
// generic fallback. The resolver never returns an empty suggestion.
func ResolveFix(feature string, id engine.ID, fw Framework) Remedy {
	family := engine.FamilyPrefix(id)
	table := remedies()

	type tier struct {
		key     string
		generic bool
	}
	var tiers []tier
	if family != "" && fw != FrameworkNone {
		tiers = append(tiers, tier{feature + "::" + family + "::" + string(fw), false})
	}
	if fw != FrameworkNone {
		tiers = append(tiers, tier{feature + "::" + string(fw), false})
	}
	if family != "" {
		tiers = append(tiers, tier{feature + "::" + family, fw != FrameworkNone})
	}
	tiers = append(tiers, tier{feature, fw != FrameworkNone})

	for _, t := range tiers {
		if e, ok := table[t.key]; ok {
			return Remedy{Suggestion: e.Suggestion, Fix: cloneFix(e.Fix), GenericFallback: t.generic}
		}
	}

	// Nothing registered at any tier: still answer with something usable.
	return Remedy{
		Suggestion:      fmt.Sprintf("%s is not supported in %s and there is no known workaround; consider removing it or providing a fallback", feature, engine.Name(id)),
		GenericFallback: fw != FrameworkNone,
	}
}

// ResolveFix on the analyzer mirrors the package function; it exists so
// call sites holding an Analyzer do not need a second import path.
func (a *Analyzer) ResolveFix(feature string, id engine.ID, fw Framework) Remedy {
	return ResolveFix(feature, id, fw)
}

func cloneFix(f *Fix) *Fix {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}
