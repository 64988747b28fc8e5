package css_test

import (
	"testing"

	"emc/css"
)

func TestSplitDeclarations(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []css.Declaration
	}{
		{
			"simple",
			"color: red; padding: 0",
			[]css.Declaration{{Property: "color", Value: "red"}, {Property: "padding", Value: "0"}},
		},
		{
			"property case normalized",
			"COLOR: Red",
			[]css.Declaration{{Property: "color", Value: "Red"}},
		},
		{
			"semicolon inside quoted url",
			"background: url('a;b.png'); color: red",
			[]css.Declaration{{Property: "background", Value: "url('a;b.png')"}, {Property: "color", Value: "red"}},
		},
		{
			"semicolon inside function",
			`src: url(data:font/woff2;base64,AAAA) format("woff2")`,
			[]css.Declaration{{Property: "src", Value: `url(data:font/woff2;base64,AAAA) format("woff2")`}},
		},
		{
			"colon inside value survives",
			"background-image: url(https://example.com/a.png)",
			[]css.Declaration{{Property: "background-image", Value: "url(https://example.com/a.png)"}},
		},
		{
			"fragments without colon dropped",
			"color: red; nonsense; padding: 0;",
			[]css.Declaration{{Property: "color", Value: "red"}, {Property: "padding", Value: "0"}},
		},
		{
			"empty fragments",
			";;  ; color: red ;",
			[]css.Declaration{{Property: "color", Value: "red"}},
		},
		{"empty input", "", nil},
		{"whitespace only", "   \t ", nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := css.SplitDeclarations(c.in)
			if len(got) != len(c.want) {
				t.Fatalf("SplitDeclarations(%q) = %v, want %v", c.in, got, c.want)
			}
			for i := range c.want {
				if got[i] != c.want[i] {
					t.Errorf("declaration %d = %v, want %v", i, got[i], c.want[i])
				}
			}
		})
	}
}

func TestJoinDeclarations(t *testing.T) {
	decls := []css.Declaration{
		{Property: "color", Value: "red"},
		{Property: "padding", Value: "0 4px"},
	}
	if got, want := css.JoinDeclarations(decls), "color: red; padding: 0 4px"; got != want {
		t.Errorf("JoinDeclarations() = %q, want %q", got, want)
	}
	if got := css.JoinDeclarations(nil); got != "" {
		t.Errorf("JoinDeclarations(nil) = %q, want empty", got)
	}
}

func TestSplitJoinRoundTrip(t *testing.T) {
	in := "color: red; background: url('a;b.png'); padding: 0"
	out := css.JoinDeclarations(css.SplitDeclarations(in))
	if out != in {
		t.Errorf("round trip changed text: %q -> %q", in, out)
	}
}
