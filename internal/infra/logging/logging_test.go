package logging

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRedact(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   string
		dev  bool
		want string
	}{
		{"dev mode passes through", "secret prompt", true, "secret prompt"},
		{"short is fully hidden", "12345678", false, "***"},
		{"long keeps a preview", "a photorealistic cat", false, "a ph...at"},
		{"multibyte preview", "écran géant très détaillé", false, "écra...lé"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Redact(tc.in, tc.dev)
			if got != tc.want {
				t.Errorf("Redact(%q, %v) = %q, want %q", tc.in, tc.dev, got, tc.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("Redact(%q) produced invalid UTF-8: %q", tc.in, got)
			}
		})
	}
}

func TestRedact_NeverLeaksMiddle(t *testing.T) {
	t.Parallel()
	s := "prefix" + strings.Repeat("secret", 10) + "zz"
	got := Redact(s, false)
	if strings.Contains(got, "secret") {
		t.Errorf("redacted string leaks middle: %q", got)
	}
}
