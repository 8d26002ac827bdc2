// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package data embeds the static V8 metadata tables jscdump ships with: the
// version-hash catalog, the root object list, the builtins table, and the
// CallJSRuntime context index. Options.DataDir lets a caller override any of
// these from disk at runtime without rebuilding the binary.
package data

import _ "embed"

// Versions holds v8_versions.json, a flat array of "major.minor.build.patch"
// strings covering every V8 release jscdump knows the version hash for.
//
//go:embed v8_versions.json
var Versions []byte

// Roots holds v8_roots.json, an array of {"Name", "Type"} objects indexed
// the same way V8's root list is: the low 5 bits of a kRootArray control
// byte and the deserializer's hard-coded undefined/null/the_hole fillers
// both index into this table.
//
//go:embed v8_roots.json
var Roots []byte

// Builtins holds v8_builtins.json, a flat array of builtin names indexed by
// builtin id, used to resolve kBuiltin control bytes.
//
//go:embed v8_builtins.json
var Builtins []byte

// JSRuntimes holds v8_jsruns.json, an array of {"Name"} objects indexed by
// the context array slot CallJSRuntime addresses.
//
//go:embed v8_jsruns.json
var JSRuntimes []byte
