package marker

import "testing"

func TestParseCallout_ValidForms(t *testing.T) {
	cases := []struct {
		text          string
		detail, sheet string
	}{
		{"3/A7", "3", "A7"},
		{"n/a5.1", "N", "A5.1"},
		{" 12 / S2 ", "12", "S2"},
	}
	for _, tc := range cases {
		detail, sheet, ok := ParseCallout(tc.text)
		if !ok {
			t.Fatalf("expected %q to parse", tc.text)
		}
		if detail != tc.detail || sheet != tc.sheet {
			t.Fatalf("ParseCallout(%q): expected (%q,%q), got (%q,%q)", tc.text, tc.detail, tc.sheet, detail, sheet)
		}
	}
}

func TestParseCallout_InvalidForms(t *testing.T) {
	for _, text := range []string{"A7/3", "37", "3-A7", ""} {
		if _, _, ok := ParseCallout(text); ok {
			t.Fatalf("expected %q to fail to parse", text)
		}
	}
}

func TestNormalizeText_StripsWhitespaceAndUppercases(t *testing.T) {
	if got := NormalizeText(" 3 / a7\n"); got != "3/A7" {
		t.Fatalf("expected %q, got %q", "3/A7", got)
	}
}

func TestCalloutText_JoinsDetailAndSheet(t *testing.T) {
	if got := CalloutText("3", "A7"); got != "3/A7" {
		t.Fatalf("expected 3/A7, got %q", got)
	}
}
