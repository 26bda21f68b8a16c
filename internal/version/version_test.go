package version

import (
	"strings"
	"testing"
)

func TestPlainStripsEscapes(t *testing.T) {
	plain := Plain()
	if strings.ContainsRune(plain, 0x1b) {
		t.Errorf("Plain() = %q, contains escape sequences", plain)
	}
	if !strings.Contains(plain, "0") || !strings.Contains(plain, ".") {
		t.Errorf("Plain() = %q, expected a dotted version", plain)
	}
}

func TestVersionCanBeOverridden(t *testing.T) {
	origVersion := Version
	defer func() { Version = origVersion }()

	Version = "1.2.3"
	if Plain() != "1.2.3" {
		t.Errorf("Plain() = %q, want %q", Plain(), "1.2.3")
	}
}
