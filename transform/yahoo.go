package transform

import (
	"github.com/PuerkitoBio/goquery"

	"emc/engine"
)

// yahooUnsupportedProps are stripped by the Yahoo/AOL sanitizer.
var yahooUnsupportedProps = map[string]bool{
	"position":  true,
	"transform": true,
	"animation": true,
}

// yahooTransformer covers Yahoo Mail and AOL Mail, which run on the same
// stack: <style> survives but custom fonts, positioning and grids do not.
type yahooTransformer struct {
	p *Pipeline
}

func (t *yahooTransformer) apply(doc *goquery.Document, _ engine.ID, rec *recorder) {
	t.p.filterStyleAtRules(doc, true, false, rec)
	dropLinkStylesheets(doc, rec)
	stripInlineDeclarations(doc, yahooUnsupportedProps, false, true, rec)
	replaceSVG(doc, rec)
	stripVideo(doc, rec)
	unwrapForms(doc, rec)
}
