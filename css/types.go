package css

import (
	"fmt"
	"io"
	"strings"
)

// Declaration is a single property declaration. Value keeps the raw value
// text exactly as authored (sans surrounding whitespace).
type Declaration struct {
	Property string
	Value    string
}

// String returns the CSS text of the declaration.
func (d Declaration) String() string {
	return d.Property + ": " + d.Value
}

// Rule represents a single CSS rule: one or more selectors sharing a
// declaration block. Declarations keep source order - later declarations
// for the same property intentionally stay after earlier ones.
type Rule struct {
	Selectors    []string // raw selector strings, comma parts trimmed
	Declarations []Declaration
}

// DeclarationText returns the declaration block as inline-style text,
// e.g. "color: red; padding: 0".
func (r Rule) DeclarationText() string {
	return JoinDeclarations(r.Declarations)
}

// MediaBlock represents a @media block with its raw query and nested rules.
type MediaBlock struct {
	Query string
	Rules []Rule
}

// AtRule represents an at-rule that carries a declaration block
// (@font-face) or no block at all (@charset and friends). At-rules with
// nested rule blocks other than @media are recorded by name only, their
// bodies are dropped.
type AtRule struct {
	Name         string // includes the leading "@"
	Declarations []Declaration
}

// Item is a single top-level stylesheet item. Exactly one field is non-nil.
type Item struct {
	Rule   *Rule
	Media  *MediaBlock
	At     *AtRule
	Import *string
}

// Stylesheet is the parsed form of one <style> block, top-level items in
// source order.
type Stylesheet struct {
	Items []Item
}

// Empty reports whether nothing was parsed out of the source.
func (s *Stylesheet) Empty() bool {
	return len(s.Items) == 0
}

// Rules returns all top-level rules in source order, excluding rules
// nested inside @media blocks.
func (s *Stylesheet) Rules() []Rule {
	var rules []Rule
	for _, item := range s.Items {
		if item.Rule != nil {
			rules = append(rules, *item.Rule)
		}
	}
	return rules
}

// AtRuleNames returns the names of all at-rules present in the stylesheet
// in source order, one entry per occurrence. @media blocks and @import
// statements are included.
func (s *Stylesheet) AtRuleNames() []string {
	var names []string
	for _, item := range s.Items {
		switch {
		case item.Media != nil:
			names = append(names, "@media")
		case item.At != nil:
			names = append(names, item.At.Name)
		case item.Import != nil:
			names = append(names, "@import")
		}
	}
	return names
}

// EachDeclaration calls fn for every declaration in the stylesheet,
// including declarations nested in @media blocks and @font-face bodies.
func (s *Stylesheet) EachDeclaration(fn func(d Declaration)) {
	for _, item := range s.Items {
		switch {
		case item.Rule != nil:
			for _, d := range item.Rule.Declarations {
				fn(d)
			}
		case item.Media != nil:
			for _, r := range item.Media.Rules {
				for _, d := range r.Declarations {
					fn(d)
				}
			}
		case item.At != nil:
			for _, d := range item.At.Declarations {
				fn(d)
			}
		}
	}
}

// Filter returns a copy of the stylesheet keeping only items for which
// keep returns true. Rules nested in kept @media blocks are kept as is.
func (s *Stylesheet) Filter(keep func(Item) bool) *Stylesheet {
	out := &Stylesheet{}
	for _, item := range s.Items {
		if keep(item) {
			out.Items = append(out.Items, item)
		}
	}
	return out
}

// WriteTo writes the stylesheet to w in source order, implementing
// io.WriterTo. Declarations are written in source order - order is
// significant for conflict resolution and must survive a round trip.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, item := range s.Items {
		var n int
		var err error

		switch {
		case item.Import != nil:
			n, err = fmt.Fprintf(w, "@import url(%q);\n", *item.Import)
		case item.At != nil:
			n, err = writeAtRule(w, item.At)
		case item.Media != nil:
			n, err = writeMediaBlock(w, item.Media)
		case item.Rule != nil:
			n, err = writeRule(w, item.Rule, "")
		}

		total += int64(n)
		if err != nil {
			return total, err
		}

		if i < len(s.Items)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

func writeRule(w io.Writer, rule *Rule, indent string) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s%s {\n", indent, strings.Join(rule.Selectors, ", "))
	total += n
	if err != nil {
		return total, err
	}
	for _, d := range rule.Declarations {
		n, err = fmt.Fprintf(w, "%s  %s;\n", indent, d.String())
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprintf(w, "%s}\n", indent)
	total += n
	return total, err
}

func writeAtRule(w io.Writer, at *AtRule) (int, error) {
	if len(at.Declarations) == 0 {
		return fmt.Fprintf(w, "%s;\n", at.Name)
	}
	var total int
	n, err := fmt.Fprintf(w, "%s {\n", at.Name)
	total += n
	if err != nil {
		return total, err
	}
	for _, d := range at.Declarations {
		n, err = fmt.Fprintf(w, "  %s;\n", d.String())
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}

func writeMediaBlock(w io.Writer, mb *MediaBlock) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "@media %s {\n", mb.Query)
	total += n
	if err != nil {
		return total, err
	}
	for i := range mb.Rules {
		n, err = writeRule(w, &mb.Rules[i], "  ")
		total += n
		if err != nil {
			return total, err
		}
		if i < len(mb.Rules)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += n
			if err != nil {
				return total, err
			}
		}
	}
	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}

// HasPseudo reports whether the selector contains a pseudo-class or
// pseudo-element. Such selectors cannot be expressed as inline styles.
func HasPseudo(selector string) bool {
	return strings.Contains(selector, ":")
}
