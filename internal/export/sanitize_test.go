package export

import (
	"path/filepath"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"clean", "My Project", 120, "My Project"},
		{"slashes", "a/b\\c", 120, "a_b_c"},
		{"control chars", "a\x00b\nc", 120, "abc"},
		{"truncated", "abcdefgh", 4, "abcd"},
		{"trimmed", "  spaced  ", 120, "spaced"},
		{"allowed punctuation", "Take (2), v1.3-final_x", 120, "Take (2), v1.3-final_x"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeName(tc.in, tc.maxLen); got != tc.want {
				t.Fatalf("SanitizeName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestValidateOutputDir(t *testing.T) {
	dir := t.TempDir()

	if err := ValidateOutputDir(dir); err != nil {
		t.Fatalf("valid dir rejected: %v", err)
	}
	if err := ValidateOutputDir(""); err == nil {
		t.Error("empty dir accepted")
	}
	if err := ValidateOutputDir(filepath.Join(dir, "..", "x")); err == nil {
		t.Error("traversal accepted")
	}
	if err := ValidateOutputDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("nonexistent dir accepted")
	}
}
