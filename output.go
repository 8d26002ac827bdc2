// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import (
	"encoding/json"
	"fmt"
	"strings"
)

// commonJSWrapperParams is the formal parameter list Node.js wraps every
// CommonJS module body in; a SharedFunctionInfo with exactly this parameter
// list is synthetic scaffolding, not user code.
var commonJSWrapperParams = []string{"exports", "require", "module", "__filename", "__dirname"}

// isWrapperFunction reports whether sfi is the top-level script scope or the
// Node.js module wrapper, neither of which is worth reconstructing as JS.
func isWrapperFunction(sfi *SharedFunctionInfo) bool {
	if sfi.ScopeInfo != nil && sfi.ScopeInfo.Flags.Scope == ScriptScope {
		return true
	}
	if sfi.ScopeInfo == nil {
		return false
	}
	params := sfi.ScopeInfo.Params
	if len(params) != len(commonJSWrapperParams) {
		return false
	}
	for i, p := range params {
		if p != commonJSWrapperParams[i] {
			return false
		}
	}
	return true
}

func handlerPredictionName(p int64) string {
	switch p {
	case 0:
		return "CAUGHT"
	case 1:
		return "UNCAUGHT"
	case 2:
		return "PROMISE"
	case 3:
		return "DESUGARING"
	case 4:
		return "ASYNC_AWAIT"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", p)
	}
}

func formatScopeInfo(si *ScopeInfo, indent string) string {
	if si == nil {
		return indent + "<none>\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%stype: %s  lang: %s\n", indent, si.Flags.Scope, si.Flags.LangMode)
	fmt.Fprintf(&b, "%sparams: %s\n", indent, strings.Join(si.Params, ", "))
	fmt.Fprintf(&b, "%sstack locals: %s\n", indent, strings.Join(si.StackLocals, ", "))
	fmt.Fprintf(&b, "%scontext locals: %s\n", indent, strings.Join(si.ContextLocals, ", "))
	if si.OuterScope != nil {
		b.WriteString(indent + "outer scope:\n")
		b.WriteString(formatScopeInfo(si.OuterScope, indent+"  "))
	}
	return b.String()
}

func formatConstantPool(cp *ConstantPool, indent string) string {
	if cp == nil || len(cp.Items) == 0 {
		return indent + "<empty>\n"
	}
	var b strings.Builder
	for i, item := range cp.Items {
		fmt.Fprintf(&b, "%s[%d] %s\n", indent, i, formatConstantPoolValue(item))
	}
	return b.String()
}

func formatHandlerTable(ht *HandlerTable, indent string) string {
	if ht == nil || len(ht.Entries) == 0 {
		return indent + "<empty>\n"
	}
	var b strings.Builder
	for _, e := range ht.Entries {
		fmt.Fprintf(&b, "%s[%04X, %04X) -> @%04X  %s\n", indent, e.Start, e.End, e.Handler, handlerPredictionName(e.Prediction))
	}
	return b.String()
}

func formatBytecode(bd *BytecodeData, indent string) string {
	if bd == nil {
		return indent + "<no bytecode>\n"
	}
	insns := DisassembleBytecode(bd.Bytecode, bd.ConstantPool, bd.HandlerTable)
	var b strings.Builder
	for _, insn := range insns {
		line := fmt.Sprintf("%04X: %-24s %-30s %s", insn.Offset, insn.Mnemonic, insn.Operands, insn.Comment)
		fmt.Fprintf(&b, "%s%s\n", indent, strings.TrimRight(line, " "))
	}
	return b.String()
}

func formatFunction(sfi *SharedFunctionInfo, verbose bool) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("=", 70) + "\n")
	fmt.Fprintf(&b, "function %s  (literal id %d)\n", sfi.Name, sfi.FunctionLiteralID)
	fmt.Fprintf(&b, "  formal parameters: %d\n", sfi.FormalParameterCount)
	fmt.Fprintf(&b, "  length: %d\n", sfi.FunctionLength)
	fmt.Fprintf(&b, "  source position: [%d, %d)\n", sfi.StartPositionAndType>>2, sfi.EndPosition)

	if sfi.Bytecode != nil {
		fmt.Fprintf(&b, "  bytecode length: %d  frame size: %d\n", sfi.Bytecode.Length, sfi.Bytecode.FrameSize)
	}

	b.WriteString("  scope:\n")
	b.WriteString(formatScopeInfo(sfi.ScopeInfo, "    "))

	if verbose {
		b.WriteString("  constant pool:\n")
		if sfi.Bytecode != nil {
			b.WriteString(formatConstantPool(sfi.Bytecode.ConstantPool, "    "))
		} else {
			b.WriteString("    <empty>\n")
		}
		b.WriteString("  handler table:\n")
		if sfi.Bytecode != nil {
			b.WriteString(formatHandlerTable(sfi.Bytecode.HandlerTable, "    "))
		} else {
			b.WriteString("    <empty>\n")
		}
	}

	b.WriteString("  bytecode:\n")
	if sfi.Bytecode != nil {
		b.WriteString(formatBytecode(sfi.Bytecode, "    "))
	} else {
		b.WriteString("    <none>\n")
	}

	return b.String()
}

func bitnessLabel(is32Bit bool) string {
	if is32Bit {
		return "32-bit"
	}
	return "64-bit"
}

// FormatText renders the full human-readable report: version, bitness, and
// every function's scope, optional constant pool and handler table, and
// disassembled bytecode.
func FormatText(version string, is32Bit bool, functions []*SharedFunctionInfo, verbose bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "V8 version: %s (%s)\n", version, bitnessLabel(is32Bit))
	fmt.Fprintf(&b, "functions: %d\n\n", len(functions))
	for _, fn := range functions {
		b.WriteString(formatFunction(fn, verbose))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatDisasm renders only the disassembled bytecode for each function,
// without the scope/constant-pool/handler-table sections FormatText prints.
func FormatDisasm(functions []*SharedFunctionInfo) string {
	var b strings.Builder
	for _, fn := range functions {
		fmt.Fprintf(&b, "; function %s (literal id %d)\n", fn.Name, fn.FunctionLiteralID)
		if fn.Bytecode != nil {
			b.WriteString(formatBytecode(fn.Bytecode, ""))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatJS reconstructs pseudo-JS source for every non-wrapper function and
// renders it as a single synthetic module.
func FormatJS(version string, is32Bit bool, functions []*SharedFunctionInfo, filename string, jsRuntimeNames []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// reconstructed from %s (V8 %s, %s)\n\n", filename, version, bitnessLabel(is32Bit))
	for _, fn := range functions {
		if isWrapperFunction(fn) {
			continue
		}
		params := ""
		if fn.ScopeInfo != nil {
			params = strings.Join(fn.ScopeInfo.Params, ", ")
		}
		fmt.Fprintf(&b, "function %s(%s) {\n", fn.Name, params)
		if fn.ScopeInfo != nil && len(fn.ScopeInfo.StackLocals) > 0 {
			fmt.Fprintf(&b, "  var %s;\n", strings.Join(fn.ScopeInfo.StackLocals, ", "))
		}
		body := ReconstructJS(fn, jsRuntimeNames)
		for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
			if line == "" {
				continue
			}
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteString("}\n\n")
	}
	return b.String()
}

type jsonConstantPoolItem struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

type jsonBytecodeInsn struct {
	Offset   uint32 `json:"offset"`
	Mnemonic string `json:"mnemonic"`
	Operands string `json:"operands"`
	Hex      string `json:"hex"`
}

type jsonScope struct {
	Type          string   `json:"type"`
	Params        []string `json:"params"`
	StackLocals   []string `json:"stack_locals"`
	ContextLocals []string `json:"context_locals"`
}

type jsonFunction struct {
	Name                 string                 `json:"name"`
	ID                   uint32                 `json:"id"`
	FormalParameters     uint32                 `json:"formal_parameters"`
	FunctionLength       uint32                 `json:"function_length"`
	StartPosition        uint32                 `json:"start_position"`
	EndPosition          uint32                 `json:"end_position"`
	BytecodeLength       int64                  `json:"bytecode_length"`
	FrameSize            uint32                 `json:"frame_size"`
	ConstantPool         []jsonConstantPoolItem `json:"constant_pool"`
	Bytecode             []jsonBytecodeInsn     `json:"bytecode"`
	Scope                jsonScope              `json:"scope"`
}

type jsonReport struct {
	Version      string         `json:"version"`
	Architecture string         `json:"architecture"`
	Functions    []jsonFunction `json:"functions"`
}

func constantPoolValueJSON(v ConstantPoolValue) jsonConstantPoolItem {
	switch v.Kind {
	case CPString:
		return jsonConstantPoolItem{Type: "string", Value: v.Str}
	case CPInt:
		return jsonConstantPoolItem{Type: "smi", Value: v.Int}
	case CPFloat:
		return jsonConstantPoolItem{Type: "number", Value: v.Float}
	case CPIntArray:
		return jsonConstantPoolItem{Type: "array", Value: v.IntArray}
	case CPRoot:
		return jsonConstantPoolItem{Type: "object", Value: v.Root.Name}
	case CPRef:
		return jsonConstantPoolItem{Type: "object", Value: v.Ref.Name}
	default:
		return jsonConstantPoolItem{Type: "unknown", Value: nil}
	}
}

// FormatJSON renders the same information as FormatText as a structured
// document, one entry per function with its constant pool and disassembled
// bytecode spelled out as arrays rather than formatted text blocks.
func FormatJSON(version string, is32Bit bool, functions []*SharedFunctionInfo) (string, error) {
	arch := "x64"
	if is32Bit {
		arch = "ia32"
	}
	report := jsonReport{Version: version, Architecture: arch}
	for _, fn := range functions {
		jf := jsonFunction{
			Name:             fn.Name,
			ID:               fn.FunctionLiteralID,
			FormalParameters: fn.FormalParameterCount,
			FunctionLength:   fn.FunctionLength,
			StartPosition:    fn.StartPositionAndType >> 2,
			EndPosition:      fn.EndPosition,
		}
		if fn.ScopeInfo != nil {
			jf.Scope = jsonScope{
				Type:          fn.ScopeInfo.Flags.Scope.String(),
				Params:        fn.ScopeInfo.Params,
				StackLocals:   fn.ScopeInfo.StackLocals,
				ContextLocals: fn.ScopeInfo.ContextLocals,
			}
		}
		if bd := fn.Bytecode; bd != nil {
			jf.BytecodeLength = bd.Length
			jf.FrameSize = bd.FrameSize
			if bd.ConstantPool != nil {
				for _, item := range bd.ConstantPool.Items {
					jf.ConstantPool = append(jf.ConstantPool, constantPoolValueJSON(item))
				}
			}
			for _, insn := range DisassembleBytecode(bd.Bytecode, bd.ConstantPool, bd.HandlerTable) {
				jf.Bytecode = append(jf.Bytecode, jsonBytecodeInsn{
					Offset:   insn.Offset,
					Mnemonic: insn.Mnemonic,
					Operands: insn.Operands,
					Hex:      fmt.Sprintf("%x", insn.Raw),
				})
			}
		}
		report.Functions = append(report.Functions, jf)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
