package version

import (
	"strings"
	"testing"
)

func TestVersionDefaults(t *testing.T) {
	if Version == "" || BuildTime == "" || GitCommit == "" {
		t.Fatal("build metadata must never be empty")
	}
}

func TestString(t *testing.T) {
	got := String()
	if !strings.HasPrefix(got, "eventsite ") {
		t.Fatalf("unexpected version line: %s", got)
	}
	if !strings.Contains(got, Version) {
		t.Fatalf("version line %q does not contain %q", got, Version)
	}
}
