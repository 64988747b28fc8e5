// Package transform rewrites a document per engine to approximate what
// that engine will actually show: CSS-to-inline flattening for clients
// that drop <style>, removal of declarations the engine is known to
// ignore, and structural substitutions for elements it strips.
//
// Every transform works on a fresh DOM copy and returns a full document,
// never a diff. Transforming for an unknown engine id is not an error:
// the input comes back unchanged with a single informational warning.
package transform

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"emc/compat"
	"emc/css"
	"emc/engine"
)

// Result is the outcome of transforming a document for one engine.
type Result struct {
	Engine   engine.ID        `yaml:"engine" json:"engine"`
	HTML     string           `yaml:"html" json:"html"`
	Warnings []compat.Warning `yaml:"warnings" json:"warnings"`
}

// transformer mutates a parsed document in place, recording one warning
// per neutralized feature.
type transformer interface {
	apply(doc *goquery.Document, id engine.ID, rec *recorder)
}

// Pipeline owns the per-engine transformers.
type Pipeline struct {
	log      *zap.Logger
	parser   *css.Parser
	maxBytes int
	registry map[engine.ID]transformer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMaxBytes overrides the input size ceiling.
func WithMaxBytes(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxBytes = n
		}
	}
}

// NewPipeline creates the transform pipeline. A nil logger is replaced
// with a nop one.
func NewPipeline(log *zap.Logger, opts ...Option) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pipeline{
		log:      log.Named("transform"),
		parser:   css.NewParser(log),
		maxBytes: compat.DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.registry = map[engine.ID]transformer{
		engine.GmailWeb:       &gmailTransformer{p: p},
		engine.GmailAndroid:   &gmailTransformer{p: p},
		engine.GmailIOS:       &gmailTransformer{p: p},
		engine.OutlookWindows: &outlookWordTransformer{p: p},
		engine.OutlookWeb:     &outlookWebTransformer{p: p},
		engine.OutlookMac:     passthroughTransformer{},
		engine.AppleMail:      passthroughTransformer{},
		engine.AppleMailIOS:   passthroughTransformer{},
		engine.YahooMail:      &yahooTransformer{p: p},
		engine.AOLMail:        &yahooTransformer{p: p},
		engine.Thunderbird:    passthroughTransformer{},
		engine.SamsungMail:    &samsungTransformer{p: p},
	}
	return p
}

// ForEngine rewrites the document the way the given engine would mangle
// it. The document is re-parsed on every call; there is no shared state
// between calls and transforming the same input twice yields identical
// output.
func (p *Pipeline) ForEngine(doc string, id engine.ID, fw compat.Framework) (Result, error) {
	empty, err := compat.CheckSize(doc, p.maxBytes)
	if err != nil {
		return Result{}, err
	}
	if empty {
		return Result{Engine: id, HTML: "", Warnings: []compat.Warning{}}, nil
	}

	t, ok := p.registry[id]
	if !ok {
		// Graceful degradation: no rules registered for this id.
		p.log.Debug("No transform rules for engine", zap.String("engine", string(id)))
		return Result{
			Engine: id,
			HTML:   doc,
			Warnings: []compat.Warning{{
				Severity: compat.SeverityInfo,
				Engine:   id,
				Feature:  "engine",
				Message:  fmt.Sprintf("no transform rules exist for engine %q; document returned unchanged", id),
				FixType:  compat.FixTypeCSS,
			}},
		}, nil
	}

	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return Result{}, fmt.Errorf("unable to parse document: %w", err)
	}

	rec := newRecorder(id, fw)
	t.apply(d, id, rec)

	out, err := renderDocument(d)
	if err != nil {
		return Result{}, fmt.Errorf("unable to serialize document for %s: %w", id, err)
	}

	rec.sort()
	p.log.Debug("Transform done", zap.String("engine", string(id)), zap.Int("warnings", len(rec.warnings)))
	return Result{Engine: id, HTML: out, Warnings: rec.warnings}, nil
}

// ForAllEngines transforms the document for every cataloged engine. Runs
// are sequential; each call owns its DOM so callers may parallelize
// without behavior changes.
func (p *Pipeline) ForAllEngines(doc string, fw compat.Framework) ([]Result, error) {
	results := make([]Result, 0, len(engine.All()))
	for _, prof := range engine.All() {
		res, err := p.ForEngine(doc, prof.ID, fw)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// renderDocument serializes the full document, doctype included.
func renderDocument(d *goquery.Document) (string, error) {
	return d.Selection.Html()
}
