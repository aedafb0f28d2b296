package engine

import "testing"

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain caption", "plain caption"},
		{"<font color=\"#fff\">Hello</font> there", "Hello there"},
		{"  <i>spaced</i>  ", "spaced"},
		{"", ""},
	}
	for _, tt := range tests {
		got := CleanHTML(tt.input)
		if got != tt.want {
			t.Errorf("CleanHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("short", 10, "..."); got != "short" {
		t.Errorf("TruncateRunes short = %q", got)
	}
	got := TruncateRunes("привет мир, это длинная строка", 6, "...")
	if []rune(got)[0] != 'п' {
		t.Errorf("TruncateRunes broke the first rune: %q", got)
	}
	if len([]rune(got)) > 6+len("...") {
		t.Errorf("TruncateRunes did not truncate: %q", got)
	}
}
