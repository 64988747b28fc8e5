package transform

import (
	"github.com/PuerkitoBio/goquery"

	"emc/engine"
)

// wordUnsupportedProps are inline declarations the Word rendering engine
// ignores. Word honors neither box model extras nor positioning.
var wordUnsupportedProps = map[string]bool{
	"position":      true,
	"max-width":     true,
	"border-radius": true,
	"box-shadow":    true,
	"opacity":       true,
	"transform":     true,
	"animation":     true,
}

// outlookWordTransformer approximates Outlook on Windows (Word engine):
// no media queries, no custom fonts, no flex or grid at all, and a long
// list of dropped properties.
type outlookWordTransformer struct {
	p *Pipeline
}

func (t *outlookWordTransformer) apply(doc *goquery.Document, _ engine.ID, rec *recorder) {
	t.p.filterStyleAtRules(doc, true, true, rec)
	dropLinkStylesheets(doc, rec)
	stripInlineDeclarations(doc, wordUnsupportedProps, true, true, rec)
	replaceSVG(doc, rec)
	stripVideo(doc, rec)
	unwrapForms(doc, rec)
}

// outlookWebUnsupportedProps mirrors Outlook.com's sanitizer.
var outlookWebUnsupportedProps = map[string]bool{
	"position":   true,
	"transform":  true,
	"animation":  true,
	"box-shadow": true,
}

// outlookWebTransformer approximates Outlook.com, which keeps <style>
// but sanitizes custom fonts and positioned or animated content.
type outlookWebTransformer struct {
	p *Pipeline
}

func (t *outlookWebTransformer) apply(doc *goquery.Document, _ engine.ID, rec *recorder) {
	t.p.filterStyleAtRules(doc, true, false, rec)
	dropLinkStylesheets(doc, rec)
	stripInlineDeclarations(doc, outlookWebUnsupportedProps, false, true, rec)
	replaceSVG(doc, rec)
	stripVideo(doc, rec)
	unwrapForms(doc, rec)
}
