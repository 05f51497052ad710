package main

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFixtureModule writes files (relative path -> contents) into a fresh
// temp module directory and returns its root, adding a go.mod automatically
// unless one of the given files is itself named "go.mod". This mirrors
// golang.org/x/tools/go/callgraph's own test fixtures, which build a
// throwaway module with an Overlay rather than depend on GOPATH state.
func writeFixtureModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	if _, hasMod := files["go.mod"]; !hasMod {
		if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module fixture\n\ngo 1.25\n"), 0o644); err != nil {
			t.Fatalf("write go.mod: %v", err)
		}
	}
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return dir
}

// loadFixtureTU loads mainFileRel (relative to the module root) as a
// TranslationUnit, the same entry point the CLI uses (loader.go).
func loadFixtureTU(t *testing.T, files map[string]string, mainFileRel string) *TranslationUnit {
	t.Helper()
	dir := writeFixtureModule(t, files)
	mainFile := filepath.Join(dir, mainFileRel)
	prog := NewProgress(false)
	tu, err := LoadTranslationUnit(mainFile, prog)
	if err != nil {
		t.Fatalf("LoadTranslationUnit(%s): %v", mainFile, err)
	}
	if tu.ParseErr != nil {
		t.Fatalf("fixture failed to type-check: %v", tu.ParseErr)
	}
	return tu
}
