// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/saferwall/jscdump/internal/data"
)

type jsonRoot struct {
	Name string
	Type string
}

type jsonJSRuntime struct {
	Name string
}

func loadEmbeddedVersions() []string {
	var versions []string
	if err := json.Unmarshal(data.Versions, &versions); err != nil {
		return nil
	}
	return versions
}

func loadEmbeddedRoots() []RootObject {
	var raw []jsonRoot
	if err := json.Unmarshal(data.Roots, &raw); err != nil {
		return nil
	}
	roots := make([]RootObject, len(raw))
	for i, r := range raw {
		roots[i] = RootObject{Name: r.Name, Type: r.Type}
	}
	return roots
}

func loadEmbeddedBuiltins() []string {
	var builtins []string
	if err := json.Unmarshal(data.Builtins, &builtins); err != nil {
		return nil
	}
	return builtins
}

func loadEmbeddedJSRuntimes() []string {
	var raw []jsonJSRuntime
	if err := json.Unmarshal(data.JSRuntimes, &raw); err != nil {
		return nil
	}
	names := make([]string, len(raw))
	for i, r := range raw {
		names[i] = r.Name
	}
	return names
}

// warnFunc lets the metadata loaders report a disk override that failed to
// parse without hard-depending on a particular logger type.
type warnFunc func(format string, args ...interface{})

func readJSONOverride(dataDir, filename string, warn warnFunc, out interface{}) bool {
	if dataDir == "" {
		return false
	}
	raw, err := os.ReadFile(filepath.Join(dataDir, filename))
	if err != nil {
		if !os.IsNotExist(err) && warn != nil {
			warn("jscdump: reading %s: %v, falling back to embedded table", filename, err)
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		if warn != nil {
			warn("jscdump: parsing %s: %v, falling back to embedded table", filename, err)
		}
		return false
	}
	return true
}

// LoadVersionCatalog builds a VersionCatalog from dataDir's v8_versions.json
// if present and valid, otherwise from the embedded table. dataDir may be
// empty to always use the embedded table.
func LoadVersionCatalog(dataDir string, warn warnFunc) *VersionCatalog {
	var versions []string
	if readJSONOverride(dataDir, "v8_versions.json", warn, &versions) {
		return NewVersionCatalog(versions)
	}
	return defaultVersionCatalog
}

// LoadRoots returns the root object table, preferring dataDir's
// v8_roots.json override when present and valid.
func LoadRoots(dataDir string, warn warnFunc) []RootObject {
	var raw []jsonRoot
	if readJSONOverride(dataDir, "v8_roots.json", warn, &raw) {
		roots := make([]RootObject, len(raw))
		for i, r := range raw {
			roots[i] = RootObject{Name: r.Name, Type: r.Type}
		}
		return roots
	}
	return loadEmbeddedRoots()
}

// LoadBuiltins returns the builtin name table, preferring dataDir's
// v8_builtins.json override when present and valid.
func LoadBuiltins(dataDir string, warn warnFunc) []string {
	var builtins []string
	if readJSONOverride(dataDir, "v8_builtins.json", warn, &builtins) {
		return builtins
	}
	return loadEmbeddedBuiltins()
}

// LoadJSRuntimes returns the CallJSRuntime context-index name table,
// preferring dataDir's v8_jsruns.json override when present and valid.
func LoadJSRuntimes(dataDir string, warn warnFunc) []string {
	var raw []jsonJSRuntime
	if readJSONOverride(dataDir, "v8_jsruns.json", warn, &raw) {
		names := make([]string, len(raw))
		for i, r := range raw {
			names[i] = r.Name
		}
		return names
	}
	return loadEmbeddedJSRuntimes()
}
