// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRootsOverride(t *testing.T) {
	dir := t.TempDir()
	override := `[{"Name":"custom_root","Type":"Object"}]`
	if err := os.WriteFile(filepath.Join(dir, "v8_roots.json"), []byte(override), 0o644); err != nil {
		t.Fatalf("WriteFile() failed, reason: %v", err)
	}

	roots := LoadRoots(dir, nil)
	if len(roots) != 1 || roots[0].Name != "custom_root" {
		t.Errorf("LoadRoots(override) got %+v, want one custom_root entry", roots)
	}
}

func TestLoadRootsFallsBackWhenMissing(t *testing.T) {
	dir := t.TempDir()
	roots := LoadRoots(dir, nil)
	embedded := loadEmbeddedRoots()
	if len(roots) != len(embedded) {
		t.Errorf("LoadRoots(no override) got %d roots, want the embedded %d", len(roots), len(embedded))
	}
}

func TestLoadVersionCatalogFallsBackOnInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "v8_versions.json"), []byte("not json"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed, reason: %v", err)
	}

	var warned bool
	warn := func(format string, args ...interface{}) { warned = true }

	c := LoadVersionCatalog(dir, warn)
	if c != defaultVersionCatalog {
		t.Errorf("LoadVersionCatalog(invalid override) did not fall back to the embedded catalog")
	}
	if !warned {
		t.Errorf("LoadVersionCatalog(invalid override) did not call warn")
	}
}

func TestLoadBuiltinsEmptyDataDir(t *testing.T) {
	builtins := LoadBuiltins("", nil)
	embedded := loadEmbeddedBuiltins()
	if len(builtins) != len(embedded) {
		t.Errorf("LoadBuiltins(\"\") got %d entries, want the embedded %d", len(builtins), len(embedded))
	}
}
