package entitymodel

import (
	"regexp"
	"testing"
)

var versionPattern = regexp.MustCompile(`^sha256:[0-9a-f]{16}$`)

func TestVersion(t *testing.T) {
	v := Version()
	if !versionPattern.MatchString(v) {
		t.Fatalf("unexpected version %q", v)
	}
	if again := Version(); again != v {
		t.Fatalf("version changed between calls: %q then %q", v, again)
	}
}
