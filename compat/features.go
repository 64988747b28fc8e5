package compat

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"emc/css"
)

// ContextStylesheet tags features observed inside a <style> block rather
// than on a concrete element.
const ContextStylesheet = "stylesheet"

// FeatureSet is an ordered set of observed feature keys, each tagged with
// the context it was first observed in: the owning element tag or
// ContextStylesheet.
type FeatureSet struct {
	keys     []string
	contexts map[string]string
}

func newFeatureSet() *FeatureSet {
	return &FeatureSet{contexts: make(map[string]string)}
}

func (fs *FeatureSet) add(key, context string) {
	if _, ok := fs.contexts[key]; ok {
		return
	}
	fs.keys = append(fs.keys, key)
	fs.contexts[key] = context
}

// Keys returns observed feature keys in first-seen order.
func (fs *FeatureSet) Keys() []string {
	return fs.keys
}

// Has reports whether the feature was observed.
func (fs *FeatureSet) Has(key string) bool {
	_, ok := fs.contexts[key]
	return ok
}

// Context returns where the feature was first observed: an element tag
// name or ContextStylesheet.
func (fs *FeatureSet) Context(key string) string {
	return fs.contexts[key]
}

// Len returns the number of distinct observed features.
func (fs *FeatureSet) Len() int {
	return len(fs.keys)
}

// DetectFeatures parses the document once and enumerates every
// potentially incompatible feature in use. Malformed HTML or CSS degrades
// to fewer detected features; the only possible error is the size ceiling.
func (a *Analyzer) DetectFeatures(doc string) (*FeatureSet, error) {
	fs := newFeatureSet()

	empty, err := CheckSize(doc, a.maxBytes)
	if err != nil {
		return nil, err
	}
	if empty {
		return fs, nil
	}

	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		// net/html only fails on reader errors; degrade to nothing detected
		a.log.Debug("HTML parse failed, no features detected", zap.Error(err))
		return fs, nil
	}

	a.scanStructure(d, fs)
	a.scanStylesheets(d, fs)
	a.scanInlineStyles(d, fs)

	a.log.Debug("Feature detection done", zap.Int("features", fs.Len()))
	return fs, nil
}

// scanStructure records presence of structural markers.
func (a *Analyzer) scanStructure(d *goquery.Document, fs *FeatureSet) {
	structural := []struct {
		selector string
		key      string
	}{
		{"style", FeatureStyleTag},
		{"svg", FeatureSVG},
		{"video", FeatureVideo},
		{"form", FeatureForm},
		{"input", FeatureForm},
		{"button[type='submit']", FeatureForm},
	}
	for _, s := range structural {
		sel := d.Find(s.selector)
		if sel.Length() == 0 {
			continue
		}
		fs.add(s.key, goquery.NodeName(sel.First()))
	}

	// rel holds a token list clients compare case-insensitively, so a
	// selector on the literal attribute value would miss rel="Stylesheet"
	links := d.Find("link[rel]").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		rel, _ := sel.Attr("rel")
		for _, token := range strings.Fields(rel) {
			if strings.EqualFold(token, "stylesheet") {
				return true
			}
		}
		return false
	})
	if links.Length() > 0 {
		fs.add(FeatureLinkTag, goquery.NodeName(links.First()))
	}
}

// scanStylesheets walks every <style> block once, collecting at-rule
// names, declared properties and value-sensitive compound features. A
// block that fails to parse contributes nothing.
func (a *Analyzer) scanStylesheets(d *goquery.Document, fs *FeatureSet) {
	d.Find("style").Each(func(_ int, sel *goquery.Selection) {
		sheet := a.parser.ParseString(sel.Text(), "style block")
		for _, name := range sheet.AtRuleNames() {
			fs.add(name, ContextStylesheet)
		}
		sheet.EachDeclaration(func(decl css.Declaration) {
			addDeclarationFeatures(fs, decl.Property, decl.Value, ContextStylesheet)
		})
	})
}

// scanInlineStyles tokenizes every inline style attribute and applies the
// same property and compound-key logic per element.
func (a *Analyzer) scanInlineStyles(d *goquery.Document, fs *FeatureSet) {
	d.Find("[style]").Each(func(_ int, sel *goquery.Selection) {
		attr, ok := sel.Attr("style")
		if !ok || strings.TrimSpace(attr) == "" {
			return
		}
		tag := nodeTag(sel)
		for _, decl := range css.SplitDeclarations(attr) {
			addDeclarationFeatures(fs, decl.Property, decl.Value, tag)
		}
	})
}

// addDeclarationFeatures records the plain property key and any compound
// keys its value produces. Compound keys exist in addition to the plain
// property, except that "display" itself is always recorded so engines
// with display-level quirks still see it.
func addDeclarationFeatures(fs *FeatureSet, property, value, context string) {
	fs.add(property, context)

	lower := strings.ToLower(value)
	if property == "display" {
		if strings.Contains(lower, "flex") {
			fs.add(FeatureFlex, context)
		}
		if strings.Contains(lower, "grid") {
			fs.add(FeatureGrid, context)
		}
	}
	// Gradients count regardless of which property carries them.
	if strings.Contains(lower, "linear-gradient") || strings.Contains(lower, "radial-gradient") {
		fs.add(FeatureGradient, context)
	}
}

func nodeTag(sel *goquery.Selection) string {
	if len(sel.Nodes) > 0 && sel.Nodes[0].Type == html.ElementNode {
		return sel.Nodes[0].Data
	}
	return goquery.NodeName(sel)
}
