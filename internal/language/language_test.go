package language_test

import (
	"testing"

	"aquarius/internal/language"
)

func TestDisplayName(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"en", "English"},
		{"eng", "English"},
		{"de", "German"},
		{"", "Unknown"},
		{"zz9", "ZZ9"},
	}
	for _, tc := range cases {
		if got := language.DisplayName(tc.code); got != tc.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	got := language.Normalize([]string{" EN", "en", "", "ger", "GER"})
	if len(got) != 2 || got[0] != "en" || got[1] != "ger" {
		t.Fatalf("unexpected normalization %v", got)
	}
	if language.Normalize(nil) != nil {
		t.Fatal("nil input should normalize to nil")
	}
}

func TestCollapse(t *testing.T) {
	if got := language.Collapse([]string{"eng"}); got != "eng" {
		t.Fatalf("single code should pass through, got %q", got)
	}
	if got := language.Collapse([]string{"eng", "ger"}); got != "mul" {
		t.Fatalf("multiple codes should collapse to mul, got %q", got)
	}
	if got := language.Collapse(nil); got != "" {
		t.Fatalf("no codes should collapse to empty, got %q", got)
	}
}
