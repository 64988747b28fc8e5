package css

import "strings"

// SplitDeclarations splits an inline style attribute value into its
// declarations. Inline style attributes are a much smaller grammar than a
// full stylesheet, so they get their own tokenizer instead of the AST
// parser. The split is semicolon aware: semicolons inside quoted strings
// and inside function parentheses do not terminate a declaration, so
// values like url('a;b') and format("x;y") survive intact. Fragments
// without a property/value colon are dropped.
func SplitDeclarations(s string) []Declaration {
	var decls []Declaration

	var (
		depth int  // parenthesis nesting, quotes excluded
		quote byte // active quote character or 0
		start int
	)

	flush := func(end int) {
		part := strings.TrimSpace(s[start:end])
		if part == "" {
			return
		}
		prop, value, ok := cutTopLevel(part, ':')
		if !ok {
			return
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		if prop == "" || value == "" {
			return
		}
		decls = append(decls, Declaration{Property: prop, Value: value})
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case c == ';' && depth == 0:
			flush(i)
			start = i + 1
		}
	}
	flush(len(s))

	return decls
}

// JoinDeclarations renders declarations back into inline style attribute
// text, preserving order.
func JoinDeclarations(decls []Declaration) string {
	if len(decls) == 0 {
		return ""
	}
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, "; ")
}

// cutTopLevel cuts s around the first occurrence of sep that is outside
// quotes and parentheses.
func cutTopLevel(s string, sep byte) (before, after string, found bool) {
	var (
		depth int
		quote byte
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case c == sep && depth == 0:
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}
