package check

import (
	"strings"
	"testing"

	"emc/compat"
	"emc/engine"
)

func TestFilterWarnings(t *testing.T) {
	mk := func() []compat.Warning {
		return []compat.Warning{
			{Engine: engine.GmailWeb, Feature: "a"},
			{Engine: engine.OutlookWindows, Feature: "b"},
			{Engine: engine.GmailWeb, Feature: "c"},
		}
	}

	got := filterWarnings(mk(), map[engine.ID]bool{engine.GmailWeb: true})
	if len(got) != 2 {
		t.Fatalf("filtered to %d warnings, want 2", len(got))
	}
	for _, w := range got {
		if w.Engine != engine.GmailWeb {
			t.Errorf("foreign engine survived filter: %+v", w)
		}
	}

	// nil filter keeps everything
	if got := filterWarnings(mk(), nil); len(got) != 3 {
		t.Errorf("nil filter dropped warnings: %d", len(got))
	}
}

func TestFilterScores(t *testing.T) {
	scores := map[engine.ID]compat.EngineScore{
		engine.GmailWeb:       {Score: 80},
		engine.OutlookWindows: {Score: 60},
	}

	got := filterScores(scores, map[engine.ID]bool{engine.OutlookWindows: true})
	if len(got) != 1 {
		t.Fatalf("filtered to %d scores, want 1", len(got))
	}
	if _, ok := got[engine.OutlookWindows]; !ok {
		t.Error("requested engine missing from filtered scores")
	}
}

func TestPrintReport(t *testing.T) {
	warnings := []compat.Warning{
		{
			Severity:   compat.SeverityError,
			Engine:     engine.GmailWeb,
			Feature:    "display:grid",
			Message:    "display:grid is not supported in Gmail (web)",
			Suggestion: "use a table",
		},
	}
	scores := map[engine.ID]compat.EngineScore{
		engine.GmailWeb: {Score: 85, Errors: 1},
	}
	deltas := map[engine.ID]int{engine.GmailWeb: -15}

	var sb strings.Builder
	printReport(&sb, "newsletter.html", warnings, scores, deltas)
	out := sb.String()

	for _, want := range []string{
		"newsletter.html",
		"[error] gmail-web: display:grid is not supported in Gmail (web) (use a table)",
		"gmail-web",
		" 85 ",
		"[-15]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintReport_Clean(t *testing.T) {
	var sb strings.Builder
	printReport(&sb, "clean.html", nil, map[engine.ID]compat.EngineScore{}, nil)
	if !strings.Contains(sb.String(), "no compatibility issues detected") {
		t.Errorf("clean report output:\n%s", sb.String())
	}
}
