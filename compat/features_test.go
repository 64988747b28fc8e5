package compat_test

import (
	"testing"

	"emc/compat"
)

func detect(t *testing.T, doc string) *compat.FeatureSet {
	t.Helper()
	fs, err := compat.NewAnalyzer(nil).DetectFeatures(doc)
	if err != nil {
		t.Fatalf("DetectFeatures() error = %v", err)
	}
	return fs
}

func TestDetectFeatures_Structural(t *testing.T) {
	doc := `<html><head>
		<style>p { color: red }</style>
		<link rel="stylesheet" href="x.css">
	</head><body>
		<svg viewBox="0 0 10 10"></svg>
		<video src="promo.mp4"></video>
		<form action="/subscribe"><input type="email"></form>
	</body></html>`

	fs := detect(t, doc)
	for _, key := range []string{
		compat.FeatureStyleTag,
		compat.FeatureLinkTag,
		compat.FeatureSVG,
		compat.FeatureVideo,
		compat.FeatureForm,
	} {
		if !fs.Has(key) {
			t.Errorf("feature %s not detected", key)
		}
	}

	// non-stylesheet links are not stylesheet features
	fs = detect(t, `<link rel="preconnect" href="https://example.com">`)
	if fs.Has(compat.FeatureLinkTag) {
		t.Error("preconnect link misdetected as stylesheet link")
	}

	// rel tokens compare case-insensitively and may sit in a token list
	for _, rel := range []string{"Stylesheet", "STYLESHEET", "alternate stylesheet"} {
		fs = detect(t, `<link rel="`+rel+`" href="x.css">`)
		if !fs.Has(compat.FeatureLinkTag) {
			t.Errorf("rel=%q stylesheet link not detected", rel)
		}
	}
}

func TestDetectFeatures_Stylesheet(t *testing.T) {
	doc := `<style>
		@import url("extra.css");
		@font-face { font-family: "Custom"; src: url(c.woff2) }
		@media screen and (max-width: 600px) { .col { float: left } }
		.hero { display: flex; background: linear-gradient(#fff, #000) }
	</style>`

	fs := detect(t, doc)
	for _, key := range []string{
		"@import", compat.FeatureFontFace, compat.FeatureMedia,
		"display", compat.FeatureFlex, "background", compat.FeatureGradient,
		"float",
	} {
		if !fs.Has(key) {
			t.Errorf("feature %s not detected", key)
		}
	}
	if fs.Context(compat.FeatureFlex) != compat.ContextStylesheet {
		t.Errorf("flex context = %q, want stylesheet", fs.Context(compat.FeatureFlex))
	}
	// flex present, grid absent
	if fs.Has(compat.FeatureGrid) {
		t.Error("display:grid detected without grid value")
	}
}

func TestDetectFeatures_InlineStyles(t *testing.T) {
	doc := `<div style="position: absolute; top: 0">
		<td style="display: grid"></td>
		<span style="background-image: radial-gradient(#fff, #000)"></span>
	</div>`

	fs := detect(t, doc)
	if !fs.Has("position") {
		t.Error("position not detected from inline style")
	}
	if got := fs.Context("position"); got != "div" {
		t.Errorf("position context = %q, want div", got)
	}
	if !fs.Has(compat.FeatureGrid) {
		t.Error("display:grid not detected from inline style")
	}
	if !fs.Has(compat.FeatureGradient) {
		t.Error("radial-gradient not detected")
	}
}

func TestDetectFeatures_FirstContextWins(t *testing.T) {
	doc := `<p style="color: red"></p><style>div { color: blue }</style>`

	fs := detect(t, doc)
	if got := fs.Context("color"); got != "p" {
		t.Errorf("color context = %q, want p (first observation)", got)
	}
	if fs.Len() != len(fs.Keys()) {
		t.Errorf("Len() = %d, Keys() has %d entries", fs.Len(), len(fs.Keys()))
	}
}

func TestDetectFeatures_EmptyDocument(t *testing.T) {
	for _, doc := range []string{"", "   \n\t"} {
		fs := detect(t, doc)
		if fs.Len() != 0 {
			t.Errorf("DetectFeatures(%q) found %d features, want 0", doc, fs.Len())
		}
	}
}

func TestDetectFeatures_MalformedHTML(t *testing.T) {
	// net/html recovers from almost anything; detection must not error and
	// keeps whatever it can see
	fs := detect(t, `<div style="color: red"><span><style>broken { ;;; </div>`)
	if !fs.Has("color") {
		t.Error("color not detected from malformed document")
	}
}

func TestDetectFeatures_PlainDocument(t *testing.T) {
	fs := detect(t, `<html><body><table><tr><td>Hello</td></tr></table></body></html>`)
	if fs.Len() != 0 {
		t.Errorf("plain table document produced features: %v", fs.Keys())
	}
}
