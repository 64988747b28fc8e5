package engine_test

import (
	"testing"

	"emc/engine"
)

func TestCatalog(t *testing.T) {
	all := engine.All()
	if len(all) != 12 {
		t.Fatalf("catalog has %d engines, want 12", len(all))
	}

	seen := make(map[engine.ID]bool)
	for _, p := range all {
		if p.ID == "" || p.Name == "" || p.Rendering == "" {
			t.Errorf("incomplete profile: %+v", p)
		}
		if seen[p.ID] {
			t.Errorf("duplicate engine id %s", p.ID)
		}
		seen[p.ID] = true
	}

	// stable order, reports depend on it
	if all[0].ID != engine.GmailWeb || all[len(all)-1].ID != engine.SamsungMail {
		t.Errorf("catalog order changed: first %s, last %s", all[0].ID, all[len(all)-1].ID)
	}

	// All returns a copy
	all[0].Name = "mutated"
	if fresh := engine.All(); fresh[0].Name == "mutated" {
		t.Error("All() exposes internal catalog storage")
	}
}

func TestLookup(t *testing.T) {
	p, ok := engine.Lookup(engine.OutlookWindows)
	if !ok {
		t.Fatal("Lookup(outlook-windows) not found")
	}
	if p.Rendering != "Word" {
		t.Errorf("outlook-windows renders with %q, want Word", p.Rendering)
	}

	if _, ok := engine.Lookup("lotus-notes"); ok {
		t.Error("Lookup should not find engines outside the catalog")
	}
	if engine.Known("lotus-notes") {
		t.Error("Known should be false for engines outside the catalog")
	}
}

func TestName(t *testing.T) {
	if got := engine.Name(engine.AppleMail); got != "Apple Mail" {
		t.Errorf("Name(apple-mail) = %q", got)
	}
	// unknown ids fall back to the raw id
	if got := engine.Name("lotus-notes"); got != "lotus-notes" {
		t.Errorf("Name(lotus-notes) = %q", got)
	}
}

func TestFamilyPrefix(t *testing.T) {
	cases := []struct {
		id   engine.ID
		want string
	}{
		{engine.GmailWeb, "gmail"},
		{engine.GmailAndroid, "gmail"},
		{engine.GmailIOS, "gmail"},
		{engine.OutlookWindows, "outlook"},
		{engine.OutlookWeb, "outlook-web"},
		{engine.AppleMail, "apple"},
		{engine.AppleMailIOS, "apple"},
		{engine.YahooMail, "yahoo"},
		{engine.AOLMail, "yahoo"},
		{engine.SamsungMail, "samsung"},
		// browser-grade engines get no family advice
		{engine.OutlookMac, ""},
		{engine.Thunderbird, ""},
		{"lotus-notes", ""},
	}
	for _, c := range cases {
		if got := engine.FamilyPrefix(c.id); got != c.want {
			t.Errorf("FamilyPrefix(%s) = %q, want %q", c.id, got, c.want)
		}
	}
}

func TestCategoryString(t *testing.T) {
	cases := []struct {
		c    engine.Category
		want string
	}{
		{engine.CategoryWebmail, "webmail"},
		{engine.CategoryDesktop, "desktop"},
		{engine.CategoryMobile, "mobile"},
	}
	for _, c := range cases {
		if got := c.c.String(); got != c.want {
			t.Errorf("Category(%d).String() = %q, want %q", int(c.c), got, c.want)
		}
	}
}
