package transform

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"emc/compat"
	"emc/css"
)

// inlineStylesheets flattens every <style> block onto matching elements,
// for engines known to discard style blocks. Rules are applied in
// block/rule encounter order by appending their declaration text to the
// element's existing style attribute - a later rule's declaration for the
// same property simply lands after the earlier one, so rendering resolves
// the conflict by last declaration wins. This intentionally follows
// document order, not selector specificity. Pseudo selectors cannot be
// expressed inline and are skipped, as are selectors the matcher cannot
// compile. Rules nested in @media blocks are not inlined.
func (p *Pipeline) inlineStylesheets(doc *goquery.Document, rec *recorder) {
	inlined := false

	doc.Find("style").Each(func(_ int, sel *goquery.Selection) {
		sheet := p.parser.ParseString(sel.Text(), "style block")
		for _, rule := range sheet.Rules() {
			text := rule.DeclarationText()
			if text == "" {
				continue
			}
			for _, s := range rule.Selectors {
				if css.HasPseudo(s) {
					continue
				}
				matcher, err := cascadia.Compile(s)
				if err != nil {
					p.log.Debug("Skipping selector during inlining", zap.String("selector", s), zap.Error(err))
					continue
				}
				doc.FindMatcher(matcher).Each(func(_ int, el *goquery.Selection) {
					appendInlineStyle(el, text)
					inlined = true
				})
			}
		}
	})

	if doc.Find("style").Length() > 0 {
		msg := "style blocks are discarded by this engine; rules were inlined onto matching elements"
		if !inlined {
			msg = "style blocks are discarded by this engine and no rules could be inlined"
		}
		rec.warn(compat.FeatureStyleTag, msg)
		doc.Find("style").Remove()
	}
}

func appendInlineStyle(el *goquery.Selection, text string) {
	existing, _ := el.Attr("style")
	existing = strings.TrimSpace(existing)
	if existing == "" {
		el.SetAttr("style", text)
		return
	}
	el.SetAttr("style", strings.TrimRight(existing, ";")+"; "+text)
}

// stripInlineDeclarations drops declarations the engine ignores from
// every inline style attribute. Beyond the plain property set, the
// generic display property is dropped when its value mentions grid (or
// flex, for engines that support neither). The attribute is rewritten
// only when something changed and removed entirely when emptied.
func stripInlineDeclarations(doc *goquery.Document, unsupported map[string]bool, dropFlex, dropGrid bool, rec *recorder) {
	doc.Find("[style]").Each(func(_ int, el *goquery.Selection) {
		attr, ok := el.Attr("style")
		if !ok {
			return
		}

		decls := css.SplitDeclarations(attr)
		kept := decls[:0:0]
		changed := false

		for _, d := range decls {
			if unsupported[d.Property] {
				changed = true
				rec.warn(d.Property, fmt.Sprintf("removed %q declarations; this engine ignores the property", d.Property))
				continue
			}
			if d.Property == "display" {
				value := strings.ToLower(d.Value)
				if dropGrid && strings.Contains(value, "grid") {
					changed = true
					rec.warn(compat.FeatureGrid, "removed display:grid declarations; this engine cannot lay out grids")
					continue
				}
				if dropFlex && strings.Contains(value, "flex") {
					changed = true
					rec.warn(compat.FeatureFlex, "removed display:flex declarations; this engine stacks flex children vertically")
					continue
				}
			}
			kept = append(kept, d)
		}

		if !changed {
			return
		}
		if len(kept) == 0 {
			el.RemoveAttr("style")
			return
		}
		el.SetAttr("style", css.JoinDeclarations(kept))
	})
}

// filterStyleAtRules rewrites kept <style> blocks without the at-rules
// this engine ignores. The stylesheet is reserialized in source order so
// declaration precedence survives the round trip.
func (p *Pipeline) filterStyleAtRules(doc *goquery.Document, dropFontFace, dropMedia bool, rec *recorder) {
	doc.Find("style").Each(func(_ int, sel *goquery.Selection) {
		sheet := p.parser.ParseString(sel.Text(), "style block")
		if sheet.Empty() {
			return
		}

		dropped := false
		out := sheet.Filter(func(item css.Item) bool {
			if dropFontFace && item.At != nil && item.At.Name == "@font-face" {
				dropped = true
				rec.warn(compat.FeatureFontFace, "removed @font-face rules; this engine renders its default font stack")
				return false
			}
			if dropMedia && item.Media != nil {
				dropped = true
				rec.warn(compat.FeatureMedia, "removed @media blocks; this engine ignores media queries")
				return false
			}
			return true
		})

		if dropped {
			setStyleText(sel, out.String())
		}
	})
}

// setStyleText replaces the element's content with raw CSS text.
// SetText entity-escapes its argument, and inside a raw-text element
// like <style> those entities are never decoded back.
func setStyleText(sel *goquery.Selection, text string) {
	for _, n := range sel.Nodes {
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			n.RemoveChild(c)
			c = next
		}
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// replaceSVG substitutes every inline SVG subtree with a placeholder
// image carrying over declared dimensions.
func replaceSVG(doc *goquery.Document, rec *recorder) {
	svgs := doc.Find("svg")
	if svgs.Length() == 0 {
		return
	}
	svgs.Each(func(_ int, sel *goquery.Selection) {
		img := placeholderImage("alt", "SVG graphic (not displayed)")
		if w, ok := sel.Attr("width"); ok {
			img.Attr = append(img.Attr, html.Attribute{Key: "width", Val: w})
		}
		if h, ok := sel.Attr("height"); ok {
			img.Attr = append(img.Attr, html.Attribute{Key: "height", Val: h})
		}
		sel.ReplaceWithNodes(img)
	})
	rec.warn(compat.FeatureSVG, "replaced inline SVG with a placeholder image; this engine does not render SVG")
}

// stripVideo replaces each <video> with its poster frame when one is
// declared, otherwise removes it.
func stripVideo(doc *goquery.Document, rec *recorder) {
	videos := doc.Find("video")
	if videos.Length() == 0 {
		return
	}
	videos.Each(func(_ int, sel *goquery.Selection) {
		if poster, ok := sel.Attr("poster"); ok && strings.TrimSpace(poster) != "" {
			sel.ReplaceWithNodes(placeholderImage("src", poster, "alt", "Video preview"))
			return
		}
		sel.Remove()
	})
	rec.warn(compat.FeatureVideo, "removed embedded video; this engine does not play video")
}

// unwrapForms replaces every <form> with its inner content.
func unwrapForms(doc *goquery.Document, rec *recorder) {
	forms := doc.Find("form")
	if forms.Length() == 0 {
		return
	}
	forms.Each(func(_ int, sel *goquery.Selection) {
		sel.ReplaceWithSelection(sel.Contents())
	})
	rec.warn(compat.FeatureForm, "unwrapped form elements; this engine strips interactive forms")
}

// placeholderImage builds an <img> node from key/value attribute pairs,
// letting the renderer take care of attribute escaping.
func placeholderImage(attrs ...string) *html.Node {
	img := &html.Node{Type: html.ElementNode, Data: "img", DataAtom: atom.Img}
	for i := 0; i+1 < len(attrs); i += 2 {
		img.Attr = append(img.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return img
}

// dropLinkStylesheets removes <link rel=stylesheet> references. The rel
// attribute holds a token list clients compare case-insensitively.
func dropLinkStylesheets(doc *goquery.Document, rec *recorder) {
	links := doc.Find("link[rel]").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		rel, _ := sel.Attr("rel")
		return hasStylesheetToken(rel)
	})
	if links.Length() == 0 {
		return
	}
	links.Remove()
	rec.warn(compat.FeatureLinkTag, "removed linked stylesheets; this engine does not fetch external CSS")
}

func hasStylesheetToken(rel string) bool {
	for _, token := range strings.Fields(rel) {
		if strings.EqualFold(token, "stylesheet") {
			return true
		}
	}
	return false
}
