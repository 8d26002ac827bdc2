// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

// jsRuntimeStatic maps a CallJSRuntime context entry name to the static JS
// function it implements; the receiver register in the call's register
// range is discarded for these.
var jsRuntimeStatic = map[string]string{
	"math_pow":                "Math.pow",
	"math_floor":              "Math.floor",
	"object_create":           "Object.create",
	"object_define_property":  "Object.defineProperty",
	"object_define_properties": "Object.defineProperties",
	"object_freeze":           "Object.freeze",
	"object_get_prototype_of": "Object.getPrototypeOf",
	"object_is_extensible":    "Object.isExtensible",
	"object_is_frozen":        "Object.isFrozen",
	"object_is_sealed":        "Object.isSealed",
	"object_keys":             "Object.keys",
	"reflect_apply":           "Reflect.apply",
	"reflect_construct":       "Reflect.construct",
	"reflect_define_property": "Reflect.defineProperty",
	"reflect_delete_property": "Reflect.deleteProperty",
	"global_eval_fun":         "eval",
	"spread_arguments":        "...args",
	"spread_iterable":         "...iterable",
}

// jsRuntimeMethod maps a CallJSRuntime context entry name to the method it
// implements on its receiver, the call's first register-range register.
var jsRuntimeMethod = map[string]string{
	"array_pop":      "pop",
	"array_push":     "push",
	"array_shift":    "shift",
	"array_unshift":  "unshift",
	"array_splice":   "splice",
	"array_slice":    "slice",
	"array_concat":   "concat",
	"map_get":        "get",
	"map_set":        "set",
	"map_has":        "has",
	"map_delete":     "delete",
	"set_add":        "add",
	"set_delete":     "delete",
	"set_has":        "has",
	"promise_then":   "then",
	"promise_catch":  "catch",
	"promise_resolve": "resolve",
}

// jsRuntimeName resolves a CallJSRuntime context index against the embedded
// runtime function table.
func jsRuntimeName(idx int, names []string) string {
	if idx >= 0 && idx < len(names) {
		return names[idx]
	}
	return ""
}
