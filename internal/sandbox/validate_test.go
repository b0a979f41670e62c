package sandbox

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateScopesAcceptsDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := validateScopes(Policy{Read: []string{dir}, Write: []string{dir}}); err != nil {
		t.Fatalf("validateScopes: %v", err)
	}
}

func TestValidateScopesEmpty(t *testing.T) {
	if err := validateScopes(Policy{}); err != nil {
		t.Fatalf("validateScopes(Policy{}): %v", err)
	}
}

func TestValidateScopeRejectsEmptyEntry(t *testing.T) {
	err := validateScope("read", []string{""})
	if err == nil {
		t.Fatal("expected error for empty scope entry")
	}
	serr, ok := err.(*Error)
	if !ok || serr.Kind != KindInvalidScope {
		t.Fatalf("err = %v, want *Error{Kind: KindInvalidScope}", err)
	}
}

func TestValidateScopeRejectsMissingPath(t *testing.T) {
	err := validateScope("write", []string{"/definitely/does/not/exist/stevelock"})
	if err == nil {
		t.Fatal("expected error for nonexistent path")
	}
}

func TestValidateScopeRejectsPlainFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := validateScope("read", []string{file})
	if err == nil {
		t.Fatal("expected error for a plain file")
	}
}
