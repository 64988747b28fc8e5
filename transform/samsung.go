package transform

import (
	"github.com/PuerkitoBio/goquery"

	"emc/engine"
)

// samsungUnsupportedProps are dropped by Samsung Email's WebView wrapper.
var samsungUnsupportedProps = map[string]bool{
	"position":  true,
	"animation": true,
}

// samsungTransformer covers Samsung Email, which drops <style> blocks
// like Gmail's mobile apps do.
type samsungTransformer struct {
	p *Pipeline
}

func (t *samsungTransformer) apply(doc *goquery.Document, _ engine.ID, rec *recorder) {
	t.p.inlineStylesheets(doc, rec)
	dropLinkStylesheets(doc, rec)
	stripInlineDeclarations(doc, samsungUnsupportedProps, false, true, rec)
	replaceSVG(doc, rec)
	stripVideo(doc, rec)
	unwrapForms(doc, rec)
}
