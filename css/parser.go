package css

import (
	"bytes"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS stylesheets into structured items. Parsing is
// tolerant: malformed input produces a shorter stylesheet, never an error.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet. The optional source parameter
// identifies what is being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if parser.Err() != nil && parser.Err().Error() != "EOF" {
				p.log.Debug("CSS parse error", zap.Error(parser.Err()))
			}
			return sheet

		case css.BeginAtRuleGrammar:
			atRule := string(data)
			switch atRule {
			case "@media":
				query := tokensText(parser.Values())
				rules := p.parseMediaBlockRules(parser)
				p.log.Debug("Parsed @media block", zap.String("query", query), zap.Int("rules", len(rules)))
				sheet.Items = append(sheet.Items, Item{
					Media: &MediaBlock{Query: query, Rules: rules},
				})
			case "@font-face":
				decls := p.parseDeclarationBlock(parser, css.EndAtRuleGrammar)
				sheet.Items = append(sheet.Items, Item{
					At: &AtRule{Name: atRule, Declarations: decls},
				})
			default:
				// Record the occurrence, drop the body. Nothing downstream
				// needs the contents of @supports, @keyframes and friends.
				p.skipAtRuleBlock(parser)
				sheet.Items = append(sheet.Items, Item{At: &AtRule{Name: atRule}})
				p.log.Debug("Recorded @-rule without body", zap.String("rule", atRule))
			}

		case css.AtRuleGrammar:
			// Block-less @-rule
			atRule := string(data)
			if atRule == "@import" {
				if url := extractImportURL(parser.Values()); url != "" {
					sheet.Items = append(sheet.Items, Item{Import: &url})
					p.log.Debug("Parsed @import", zap.String("url", url))
					continue
				}
			}
			sheet.Items = append(sheet.Items, Item{At: &AtRule{Name: atRule}})

		case css.BeginRulesetGrammar, css.QualifiedRuleGrammar:
			selectors := parseSelectors(data, parser.Values())
			decls := p.parseDeclarationBlock(parser, css.EndRulesetGrammar)
			if len(selectors) > 0 {
				sheet.Items = append(sheet.Items, Item{
					Rule: &Rule{Selectors: selectors, Declarations: decls},
				})
			}
		}
	}
}

// ParseString is a convenience wrapper over Parse.
func (p *Parser) ParseString(data string, source ...string) *Stylesheet {
	return p.Parse([]byte(data), source...)
}

// parseDeclarationBlock collects declarations until the given end grammar.
func (p *Parser) parseDeclarationBlock(parser *css.Parser, end css.GrammarType) []Declaration {
	var decls []Declaration
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, end:
			return decls

		case css.DeclarationGrammar:
			if value := tokensText(parser.Values()); value != "" {
				decls = append(decls, Declaration{
					Property: strings.ToLower(string(data)),
					Value:    value,
				})
			}

		case css.CustomPropertyGrammar:
			// Custom properties (--var) never reach inline styles; skip.
			continue
		}
	}
}

// parseMediaBlockRules parses rules nested in an @media block.
func (p *Parser) parseMediaBlockRules(parser *css.Parser) []Rule {
	var rules []Rule
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndAtRuleGrammar:
			return rules

		case css.BeginRulesetGrammar:
			selectors := parseSelectors(data, parser.Values())
			decls := p.parseDeclarationBlock(parser, css.EndRulesetGrammar)
			if len(selectors) > 0 {
				rules = append(rules, Rule{Selectors: selectors, Declarations: decls})
			}
		}
	}
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// parseSelectors extracts comma separated selector strings from token data.
func parseSelectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	var selectors []string
	for s := range strings.SplitSeq(sb.String(), ",") {
		if s = strings.TrimSpace(s); s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}

// tokensText joins token data into a single string collapsing whitespace runs.
func tokensText(tokens []css.Token) string {
	var parts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			parts = append(parts, string(t.Data))
		} else if len(parts) > 0 && parts[len(parts)-1] != " " {
			parts = append(parts, " ")
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

// extractImportURL extracts the URL from @import tokens.
// Handles: @import "url"; @import url("url"); @import url(url);
func extractImportURL(tokens []css.Token) string {
	for _, t := range tokens {
		switch t.TokenType {
		case css.StringToken:
			return unquote(string(t.Data))
		case css.URLToken:
			s := string(t.Data)
			s = strings.TrimPrefix(s, "url(")
			s = strings.TrimSuffix(s, ")")
			return unquote(strings.TrimSpace(s))
		}
	}
	return ""
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
