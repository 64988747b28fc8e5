package transform

import (
	"github.com/PuerkitoBio/goquery"

	"emc/engine"
)

// gmailUnsupportedProps are inline declarations all Gmail variants strip.
var gmailUnsupportedProps = map[string]bool{
	"position":   true,
	"transform":  true,
	"animation":  true,
	"box-shadow": true,
}

// gmailTransformer covers the Gmail family. The web client keeps <style>
// (minus custom fonts) while the mobile apps drop style blocks for
// non-Google accounts, so those get the full CSS-to-inline flattening.
type gmailTransformer struct {
	p *Pipeline
}

func (t *gmailTransformer) apply(doc *goquery.Document, id engine.ID, rec *recorder) {
	switch id {
	case engine.GmailAndroid, engine.GmailIOS:
		t.p.inlineStylesheets(doc, rec)
		dropLinkStylesheets(doc, rec)
	default:
		t.p.filterStyleAtRules(doc, true, false, rec)
		dropLinkStylesheets(doc, rec)
	}

	stripInlineDeclarations(doc, gmailUnsupportedProps, false, true, rec)
	replaceSVG(doc, rec)
	stripVideo(doc, rec)
	unwrapForms(doc, rec)
}
