package compat_test

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"emc/compat"
)

func TestCheckSize(t *testing.T) {
	t.Run("within ceiling", func(t *testing.T) {
		empty, err := compat.CheckSize("<html></html>", compat.DefaultMaxBytes)
		if err != nil {
			t.Fatalf("CheckSize() error = %v", err)
		}
		if empty {
			t.Error("non-empty document reported as empty")
		}
	})

	t.Run("over ceiling", func(t *testing.T) {
		_, err := compat.CheckSize(strings.Repeat("x", 100), 99)
		if !errors.Is(err, compat.ErrDocumentTooLarge) {
			t.Errorf("CheckSize() error = %v, want ErrDocumentTooLarge", err)
		}
	})

	t.Run("empty and whitespace", func(t *testing.T) {
		for _, doc := range []string{"", "   ", "\n\t  \r\n"} {
			empty, err := compat.CheckSize(doc, compat.DefaultMaxBytes)
			if err != nil {
				t.Fatalf("CheckSize(%q) error = %v", doc, err)
			}
			if !empty {
				t.Errorf("CheckSize(%q) empty = false, want true", doc)
			}
		}
	})
}

func TestAnalyzerMaxBytes(t *testing.T) {
	a := compat.NewAnalyzer(zap.NewNop())
	if a.MaxBytes() != compat.DefaultMaxBytes {
		t.Errorf("default ceiling = %d, want %d", a.MaxBytes(), compat.DefaultMaxBytes)
	}

	a = compat.NewAnalyzer(nil, compat.WithMaxBytes(4096))
	if a.MaxBytes() != 4096 {
		t.Errorf("ceiling = %d, want 4096", a.MaxBytes())
	}

	// non-positive override is ignored
	a = compat.NewAnalyzer(nil, compat.WithMaxBytes(0))
	if a.MaxBytes() != compat.DefaultMaxBytes {
		t.Errorf("ceiling = %d, want default for zero override", a.MaxBytes())
	}

	_, err := a.DetectFeatures(strings.Repeat("x", compat.DefaultMaxBytes+1))
	if !errors.Is(err, compat.ErrDocumentTooLarge) {
		t.Errorf("DetectFeatures() error = %v, want ErrDocumentTooLarge", err)
	}
}

func TestParseFramework(t *testing.T) {
	cases := []struct {
		in   string
		want compat.Framework
		ok   bool
	}{
		{"", compat.FrameworkNone, true},
		{"none", compat.FrameworkNone, true},
		{"html", compat.FrameworkNone, true},
		{"mjml", compat.FrameworkMJML, true},
		{"MJML", compat.FrameworkMJML, true},
		{"jsx", compat.FrameworkJSX, true},
		{"react", compat.FrameworkJSX, true},
		{"maizzle", compat.FrameworkMaizzle, true},
		{"rails", compat.FrameworkNone, false},
	}
	for _, c := range cases {
		got, err := compat.ParseFramework(c.in)
		if (err == nil) != c.ok {
			t.Errorf("ParseFramework(%q) error = %v, ok = %v", c.in, err, c.ok)
			continue
		}
		if err == nil && got != c.want {
			t.Errorf("ParseFramework(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
