// Package engine defines the fixed catalog of mail rendering engines the
// program knows about. The catalog is immutable; everything else in the
// program refers to engines by ID.
package engine

// ID identifies a concrete mail rendering engine.
type ID string

const (
	GmailWeb       ID = "gmail-web"
	GmailAndroid   ID = "gmail-android"
	GmailIOS       ID = "gmail-ios"
	OutlookWindows ID = "outlook-windows"
	OutlookMac     ID = "outlook-mac"
	OutlookWeb     ID = "outlook-web"
	AppleMail      ID = "apple-mail"
	AppleMailIOS   ID = "apple-mail-ios"
	YahooMail      ID = "yahoo-mail"
	AOLMail        ID = "aol-mail"
	Thunderbird    ID = "thunderbird"
	SamsungMail    ID = "samsung-mail"
)

func (id ID) String() string {
	return string(id)
}

// Category of a mail client.
type Category int

const (
	CategoryWebmail Category = iota
	CategoryDesktop
	CategoryMobile
)

func (c Category) String() string {
	switch c {
	case CategoryWebmail:
		return "webmail"
	case CategoryDesktop:
		return "desktop"
	case CategoryMobile:
		return "mobile"
	default:
		// this should never happen
		panic("unsupported client category")
	}
}

// Profile describes a single cataloged engine.
type Profile struct {
	ID        ID
	Name      string
	Category  Category
	Rendering string // underlying rendering engine name
	DarkMode  bool   // client supports dark mode
}

// catalog lists every engine the program can analyze, in stable order.
// Order here is the order used for reports and score tables.
var catalog = []Profile{
	{ID: GmailWeb, Name: "Gmail (web)", Category: CategoryWebmail, Rendering: "Blink", DarkMode: false},
	{ID: GmailAndroid, Name: "Gmail (Android)", Category: CategoryMobile, Rendering: "WebView", DarkMode: true},
	{ID: GmailIOS, Name: "Gmail (iOS)", Category: CategoryMobile, Rendering: "WebKit", DarkMode: true},
	{ID: OutlookWindows, Name: "Outlook (Windows)", Category: CategoryDesktop, Rendering: "Word", DarkMode: false},
	{ID: OutlookMac, Name: "Outlook (macOS)", Category: CategoryDesktop, Rendering: "WebKit", DarkMode: true},
	{ID: OutlookWeb, Name: "Outlook.com", Category: CategoryWebmail, Rendering: "Blink", DarkMode: true},
	{ID: AppleMail, Name: "Apple Mail", Category: CategoryDesktop, Rendering: "WebKit", DarkMode: true},
	{ID: AppleMailIOS, Name: "Mail (iOS)", Category: CategoryMobile, Rendering: "WebKit", DarkMode: true},
	{ID: YahooMail, Name: "Yahoo Mail", Category: CategoryWebmail, Rendering: "Blink", DarkMode: true},
	{ID: AOLMail, Name: "AOL Mail", Category: CategoryWebmail, Rendering: "Blink", DarkMode: false},
	{ID: Thunderbird, Name: "Thunderbird", Category: CategoryDesktop, Rendering: "Gecko", DarkMode: true},
	{ID: SamsungMail, Name: "Samsung Email", Category: CategoryMobile, Rendering: "WebView", DarkMode: true},
}

// All returns profiles of all cataloged engines in stable order. The
// returned slice is a copy and safe to modify.
func All() []Profile {
	out := make([]Profile, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the profile for the given id.
func Lookup(id ID) (Profile, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Profile{}, false
}

// Known reports whether id is part of the catalog.
func Known(id ID) bool {
	_, ok := Lookup(id)
	return ok
}

// Name returns the human readable name for id, falling back to the raw id
// for engines outside the catalog.
func Name(id ID) string {
	if p, ok := Lookup(id); ok {
		return p.Name
	}
	return string(id)
}

// FamilyPrefix maps a concrete engine id to the prefix under which
// family-specific remediation advice is registered. Engines whose
// rendering is close enough to a regular browser (Outlook on macOS,
// Thunderbird) intentionally map to no prefix so that advice written for
// their quirky siblings never reaches them. AOL runs on the Yahoo stack
// and shares its prefix.
func FamilyPrefix(id ID) string {
	switch id {
	case GmailWeb, GmailAndroid, GmailIOS:
		return "gmail"
	case OutlookWindows:
		return "outlook"
	case OutlookWeb:
		return "outlook-web"
	case AppleMail, AppleMailIOS:
		return "apple"
	case YahooMail, AOLMail:
		return "yahoo"
	case SamsungMail:
		return "samsung"
	default:
		return ""
	}
}
