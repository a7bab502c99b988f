package util

import "testing"

func TestEscapeMarkdownV2(t *testing.T) {
	got := EscapeMarkdownV2("Q1 results (beat!) - up 5.2%")
	want := `Q1 results \(beat\!\) \- up 5\.2%`
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestEscapeMarkdownV2Backslash(t *testing.T) {
	got := EscapeMarkdownV2(`a\b`)
	if got != `a\\b` {
		t.Fatalf("got %q", got)
	}
}

func TestEscapeUnescapeRoundTrip(t *testing.T) {
	inputs := []string{
		"plain text",
		"_*[]()~`>#+-=|{}.!",
		`back\slash`,
		"RELIANCE.NS",
		"mixed: a_b (c) [d] {e} 1.5!",
		"",
	}
	for _, in := range inputs {
		if got := UnescapeMarkdownV2(EscapeMarkdownV2(in)); got != in {
			t.Fatalf("round trip %q: got %q", in, got)
		}
	}
}

func TestEscapeLinkURL(t *testing.T) {
	got := EscapeLinkURL(`https://example.com/a_(b)`)
	want := `https://example.com/a_(b\)`
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
