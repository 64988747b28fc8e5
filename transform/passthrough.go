package transform

import (
	"github.com/PuerkitoBio/goquery"

	"emc/engine"
)

// passthroughTransformer covers the standards compliant engines (Apple
// Mail on macOS and iOS, Outlook for macOS, Thunderbird). They render
// close enough to a browser that the document is left untouched; the
// serialization round trip is still performed so output normalization
// matches the other engines.
type passthroughTransformer struct{}

func (passthroughTransformer) apply(*goquery.Document, engine.ID, *recorder) {}
