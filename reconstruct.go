// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// callOpcodes names instructions that leave a call expression in the
// accumulator; the reconstructor auto-emits it as a statement when the very
// next instruction doesn't consume it.
var callOpcodes = map[string]bool{
	"CallProperty0": true, "CallProperty1": true, "CallProperty2": true,
	"CallProperty": true, "CallAnyReceiver": true,
	"CallUndefinedReceiver0": true, "CallUndefinedReceiver1": true, "CallUndefinedReceiver2": true,
	"CallUndefinedReceiver": true, "CallWithSpread": true,
	"CallRuntime": true, "CallJSRuntime": true, "InvokeIntrinsic": true,
	"Construct": true, "ConstructWithSpread": true,
}

// accConsumingOpcodes names instructions that read the accumulator as an
// operand, so a preceding call's return value doesn't need a trailing
// statement of its own.
var accConsumingOpcodes = map[string]bool{
	"Star": true, "Return": true,
	"LogicalNot": true, "ToBooleanLogicalNot": true, "TypeOf": true,
	"ToNumber": true, "ToName": true, "ToObject": true,
	"ToBoolean": true, "ToNumeric": true, "ToString": true,
	"Throw": true, "ReThrow": true,
	"Add": true, "Sub": true, "Mul": true, "Div": true, "Mod": true, "Exp": true,
	"AddSmi": true, "SubSmi": true, "MulSmi": true, "DivSmi": true,
	"ModSmi": true, "ExpSmi": true,
	"BitwiseOr": true, "BitwiseXor": true, "BitwiseAnd": true,
	"BitwiseOrSmi": true, "BitwiseXorSmi": true, "BitwiseAndSmi": true,
	"ShiftLeft": true, "ShiftRight": true, "ShiftRightLogical": true,
	"ShiftLeftSmi": true, "ShiftRightSmi": true,
	"Inc": true, "Dec": true, "Negate": true, "BitwiseNot": true,
	"Construct": true, "ConstructWithSpread": true,
}

var rawRegisterRe = regexp.MustCompile(`^[ar]\d+$`)
var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
var regRangePrefixRe = regexp.MustCompile(`^([ar])(\d+)`)
var regRangeDashRe = regexp.MustCompile(`^[ar]\d+-([ar])(\d+)$`)
var regRangeCountRe = regexp.MustCompile(`\((\d+)\)`)

func isValidIdentifier(s string) bool { return identifierRe.MatchString(s) }

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// parseJumpTarget extracts the "-> @XXXX" annotation disasm.go attaches to
// jump instructions.
func parseJumpTarget(comment string) (int, bool) {
	idx := strings.Index(comment, "-> @")
	if idx < 0 {
		return 0, false
	}
	hexStr := comment[idx+4:]
	if len(hexStr) > 4 {
		hexStr = hexStr[:4]
	}
	v, err := strconv.ParseInt(hexStr, 16, 64)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// regToName converts a register operand (a0, r3, <this>, ...) to a source
// variable name when scope info names it. V8 stores parameters in reverse:
// a0 is the last formal parameter, a(N-1) the first.
func regToName(regStr string, params, stackLocals []string, stackFirstSlot int64) string {
	switch regStr {
	case "<this>":
		return "this"
	case "<closure>", "<context>":
		return regStr
	}
	if strings.HasPrefix(regStr, "a") && isDigits(regStr[1:]) {
		idx, _ := strconv.Atoi(regStr[1:])
		revIdx := len(params) - 1 - idx
		if revIdx >= 0 && revIdx < len(params) {
			return params[revIdx]
		}
	} else if strings.HasPrefix(regStr, "r") && isDigits(regStr[1:]) {
		idx, _ := strconv.Atoi(regStr[1:])
		slot := int64(idx) - stackFirstSlot
		if slot >= 0 && int(slot) < len(stackLocals) && stackLocals[slot] != "" {
			name := stackLocals[slot]
			if name != "empty_string" {
				name = strings.ReplaceAll(name, ".", "_")
				name = strings.ReplaceAll(name, " ", "_")
				return name
			}
		}
	}
	return regStr
}

// parseRegRangeArgs expands a disassembled register-range operand ("a1-a3(3)"
// or "r0(4)") into the symbolic value of each register in it.
func parseRegRangeArgs(rangeStr string, getReg func(string) string) []string {
	rangeStr = strings.TrimSuffix(rangeStr, ",")
	m := regRangePrefixRe.FindStringSubmatch(rangeStr)
	if m == nil {
		return nil
	}
	prefix := m[1]
	startIdx, _ := strconv.Atoi(m[2])

	if dm := regRangeDashRe.FindStringSubmatch(rangeStr); dm != nil {
		endIdx, _ := strconv.Atoi(dm[2])
		count := endIdx - startIdx + 1
		out := make([]string, 0, count)
		for i := 0; i < count; i++ {
			out = append(out, getReg(fmt.Sprintf("%s%d", prefix, startIdx+i)))
		}
		return out
	}

	cm := regRangeCountRe.FindStringSubmatch(rangeStr)
	if cm == nil {
		return []string{getReg(fmt.Sprintf("%s%d", prefix, startIdx))}
	}
	count, _ := strconv.Atoi(cm[1])
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, getReg(fmt.Sprintf("%s%d", prefix, startIdx+i)))
	}
	return out
}

// cpValueStr renders a constant pool entry the way the reconstructor embeds
// literals into pseudo-JS.
func cpValueStr(idx int, cp *ConstantPool) string {
	if cp == nil || idx < 0 || idx >= len(cp.Items) {
		return fmt.Sprintf("cp[%d]", idx)
	}
	item := cp.Items[idx]
	switch item.Kind {
	case CPString:
		return fmt.Sprintf("%q", item.Str)
	case CPFloat:
		return strconv.FormatFloat(item.Float, 'g', -1, 64)
	case CPInt:
		return strconv.FormatInt(item.Int, 10)
	case CPIntArray:
		parts := make([]string, len(item.IntArray))
		for i, v := range item.IntArray {
			parts[i] = strconv.FormatInt(v, 10)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case CPRoot:
		if item.Root.Name == "empty_string" {
			return `""`
		}
		if item.Root.Type == "str" {
			return fmt.Sprintf("%q", item.Root.Name)
		}
		return item.Root.Name
	case CPRef:
		return item.Ref.Name
	default:
		return fmt.Sprintf("cp[%d]", idx)
	}
}

// parseOperands splits a disassembled operand string into whitespace
// tokens; the opGet* accessors below scan this token list for the shape
// they need rather than assuming fixed positions, since different opcodes
// order their register/index/immediate operands differently.
func parseOperands(operandsStr string) []string { return strings.Fields(operandsStr) }

func isRegisterToken(t string) bool {
	if t == "_closure" || t == "_context" {
		return true
	}
	if len(t) < 2 {
		return false
	}
	if t[0] != 'a' && t[0] != 'r' {
		return false
	}
	return isDigits(t[1:])
}

func opGetReg(ops []string) string {
	for _, t := range ops {
		if isRegisterToken(t) {
			return t
		}
	}
	return "?"
}

func opGetSecondReg(ops []string) string {
	count := 0
	for _, t := range ops {
		if isRegisterToken(t) {
			count++
			if count == 2 {
				return t
			}
		}
	}
	return "?"
}

func opGetBracket(ops []string) (int, bool) {
	for _, t := range ops {
		if strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]") {
			v, err := strconv.Atoi(t[1 : len(t)-1])
			if err == nil {
				return v, true
			}
		}
	}
	return 0, false
}

func opGetIdx(ops []string) int {
	v, _ := opGetBracket(ops)
	return v
}

func opGetImm(ops []string) int {
	v, _ := opGetBracket(ops)
	return v
}

func opGetFlag8(ops []string) int {
	for _, t := range ops {
		if strings.HasPrefix(t, "#") {
			v, err := strconv.Atoi(t[1:])
			if err == nil {
				return v
			}
		}
	}
	return 0
}

// jumpCondition renders the boolean test a JumpIf* instruction guards,
// stripping the Constant suffix variants down to their base condition.
func jumpCondition(base, acc string) string {
	name := strings.TrimSuffix(base, "Constant")
	switch name {
	case "JumpIfToBooleanTrue", "JumpIfTrue":
		return acc
	case "JumpIfToBooleanFalse", "JumpIfFalse":
		return fmt.Sprintf("!(%s)", acc)
	case "JumpIfNull":
		return fmt.Sprintf("%s === null", acc)
	case "JumpIfNotNull":
		return fmt.Sprintf("%s !== null", acc)
	case "JumpIfUndefined":
		return fmt.Sprintf("%s === undefined", acc)
	case "JumpIfNotUndefined":
		return fmt.Sprintf("%s !== undefined", acc)
	case "JumpIfJSReceiver":
		return fmt.Sprintf(`typeof %s === "object"`, acc)
	default:
		return acc
	}
}

// ReconstructJS walks sfi's bytecode with a symbolic accumulator/register
// state machine and produces approximate JavaScript source. jsRuntimeNames
// resolves CallJSRuntime's context index to a runtime function name.
func ReconstructJS(sfi *SharedFunctionInfo, jsRuntimeNames []string) string {
	if sfi.Bytecode == nil {
		return fmt.Sprintf("// No bytecode available for %s\n", sfi.Name)
	}

	bc := sfi.Bytecode
	cp := bc.ConstantPool
	ht := bc.HandlerTable

	var params, stackLocals, contextLocals []string
	var stackFirstSlot int64
	if sfi.ScopeInfo != nil {
		params = append([]string(nil), sfi.ScopeInfo.Params...)
		stackLocals = append([]string(nil), sfi.ScopeInfo.StackLocals...)
		stackFirstSlot = sfi.ScopeInfo.StackLocalsFirstSlot
		contextLocals = append([]string(nil), sfi.ScopeInfo.ContextLocals...)
	}

	instructions := DisassembleBytecode(bc.Bytecode, cp, ht)

	jumpTargets := make(map[int]bool)
	for _, inst := range instructions {
		if t, ok := parseJumpTarget(inst.Comment); ok {
			jumpTargets[t] = true
		}
	}

	acc := "undefined"
	accPrec := precAtom
	regs := make(map[string]string)

	rname := func(r string) string { return regToName(r, params, stackLocals, stackFirstSlot) }
	getReg := func(r string) string {
		name := rname(r)
		if v, ok := regs[name]; ok {
			return v
		}
		return name
	}
	setReg := func(r, val string) string {
		name := rname(r)
		regs[name] = val
		return name
	}

	var lines []string
	indent := "    "

	trySt := make(map[int]bool)
	tryEnd := make(map[int]bool)
	handlerOff := make(map[int]bool)
	if ht != nil {
		for _, e := range ht.Entries {
			trySt[int(e.Start)] = true
			tryEnd[int(e.End)] = true
			handlerOff[int(e.Handler)] = true
		}
	}

	for instIdx, inst := range instructions {
		offset := int(inst.Offset)
		mnemonic := inst.Mnemonic
		operandsStr := inst.Operands
		comment := inst.Comment

		base := mnemonic
		if i := strings.LastIndex(mnemonic, "."); i >= 0 {
			base = mnemonic[i+1:]
		}

		// Star0-Star15 short forms
		if strings.HasPrefix(base, "Star") && len(base) > 4 && isDigits(base[4:]) {
			regNum, _ := strconv.Atoi(base[4:])
			reg := fmt.Sprintf("r%d", regNum)
			name := rname(reg)
			isRaw := rawRegisterRe.MatchString(name)
			if isRaw && accPrec < precAtom {
				setReg(reg, "("+acc+")")
			} else {
				setReg(reg, acc)
			}
			if !isRaw {
				lines = append(lines, fmt.Sprintf("%s%s = %s;", indent, name, acc))
				regs[name] = name
			}
			acc = name
			accPrec = precAtom
			continue
		}

		base = canonicalMnemonic(base)
		ops := parseOperands(operandsStr)

		if jumpTargets[offset] {
			lines = append(lines, "")
		}
		if trySt[offset] {
			lines = append(lines, indent+"try {")
			indent = "        "
		}
		if tryEnd[offset] {
			indent = "    "
			lines = append(lines, indent+"} catch (e) {")
			indent = "        "
		}
		if handlerOff[offset] {
			indent = "    "
			lines = append(lines, indent+"}")
		}

		if base == "StackCheck" {
			continue
		}

		switch {
		case base == "LdaZero":
			acc, accPrec = "0", precAtom
		case base == "LdaSmi":
			acc, accPrec = strconv.Itoa(opGetImm(ops)), precAtom
		case base == "LdaUndefined":
			acc, accPrec = "undefined", precAtom
		case base == "LdaNull":
			acc, accPrec = "null", precAtom
		case base == "LdaTheHole":
			acc, accPrec = "undefined /* TheHole */", precAtom
		case base == "LdaTrue":
			acc, accPrec = "true", precAtom
		case base == "LdaFalse":
			acc, accPrec = "false", precAtom
		case base == "LdaConstant":
			acc, accPrec = cpValueStr(opGetIdx(ops), cp), precAtom

		case base == "Ldar":
			acc, accPrec = getReg(opGetReg(ops)), precAtom
		case base == "Star":
			reg := opGetReg(ops)
			name := rname(reg)
			isRaw := rawRegisterRe.MatchString(name)
			if isRaw && accPrec < precAtom {
				setReg(reg, "("+acc+")")
			} else {
				setReg(reg, acc)
			}
			if !isRaw {
				lines = append(lines, fmt.Sprintf("%s%s = %s;", indent, name, acc))
				regs[name] = name
			}
			acc, accPrec = name, precAtom
		case base == "Mov":
			srcR, dstR := opGetReg(ops), opGetSecondReg(ops)
			val := getReg(srcR)
			name := setReg(dstR, val)
			if !rawRegisterRe.MatchString(name) {
				lines = append(lines, fmt.Sprintf("%s%s = %s;", indent, name, val))
				regs[name] = name
			}

		case base == "LdaGlobal" || base == "LdaGlobalInsideTypeof":
			acc, accPrec = strings.Trim(cpValueStr(opGetIdx(ops), cp), `"`), precAtom
		case base == "StaGlobalSloppy" || base == "StaGlobalStrict":
			gname := strings.Trim(cpValueStr(opGetIdx(ops), cp), `"`)
			lines = append(lines, fmt.Sprintf("%s%s = %s;", indent, gname, acc))

		case base == "LdaContextSlot" || base == "LdaImmutableContextSlot" ||
			base == "LdaCurrentContextSlot" || base == "LdaImmutableCurrentContextSlot":
			idx := opGetIdx(ops)
			if idx < len(contextLocals) && contextLocals[idx] != "" {
				acc = contextLocals[idx]
			} else {
				acc = fmt.Sprintf("ctx[%d]", idx)
			}
			accPrec = precAtom
		case base == "StaContextSlot" || base == "StaCurrentContextSlot" ||
			base == "StaScriptContextSlot" || base == "StaCurrentScriptContextSlot":
			idx := opGetIdx(ops)
			if idx < len(contextLocals) && contextLocals[idx] != "" {
				lines = append(lines, fmt.Sprintf("%s%s = %s;", indent, contextLocals[idx], acc))
			} else {
				lines = append(lines, fmt.Sprintf("%sctx[%d] = %s;", indent, idx, acc))
			}

		case base == "Add":
			r := opGetReg(ops)
			acc = fmt.Sprintf("%s + %s", getReg(r), wrapRight(acc, accPrec, precAdd, "+"))
			accPrec = precAdd
		case base == "Sub":
			r := opGetReg(ops)
			acc = fmt.Sprintf("%s - %s", getReg(r), wrapRight(acc, accPrec, precAdd, "-"))
			accPrec = precAdd
		case base == "Mul":
			r := opGetReg(ops)
			acc = fmt.Sprintf("%s * %s", getReg(r), wrapRight(acc, accPrec, precMul, "*"))
			accPrec = precMul
		case base == "Div":
			r := opGetReg(ops)
			acc = fmt.Sprintf("%s / %s", getReg(r), wrapRight(acc, accPrec, precMul, "/"))
			accPrec = precMul
		case base == "Mod":
			r := opGetReg(ops)
			acc = fmt.Sprintf("%s %% %s", getReg(r), wrapRight(acc, accPrec, precMul, "%"))
			accPrec = precMul
		case base == "Exp":
			r := opGetReg(ops)
			acc = fmt.Sprintf("%s ** %s", getReg(r), wrapRight(acc, accPrec, precExp, "**"))
			accPrec = precExp

		case base == "AddSmi":
			v := opGetImm(ops)
			acc = fmt.Sprintf("%s + %d", wrapLeft(acc, accPrec, precAdd), v)
			accPrec = precAdd
		case base == "SubSmi":
			v := opGetImm(ops)
			acc = fmt.Sprintf("%s - %d", wrapLeft(acc, accPrec, precAdd), v)
			accPrec = precAdd
		case base == "MulSmi":
			v := opGetImm(ops)
			acc = fmt.Sprintf("%s * %d", wrapLeft(acc, accPrec, precMul), v)
			accPrec = precMul
		case base == "DivSmi":
			v := opGetImm(ops)
			acc = fmt.Sprintf("%s / %d", wrapLeft(acc, accPrec, precMul), v)
			accPrec = precMul
		case base == "ModSmi":
			v := opGetImm(ops)
			acc = fmt.Sprintf("%s %% %d", wrapLeft(acc, accPrec, precMul), v)
			accPrec = precMul
		case base == "ExpSmi":
			v := opGetImm(ops)
			acc = fmt.Sprintf("%s ** %d", wrapLeft(acc, accPrec, precExp), v)
			accPrec = precExp

		case base == "BitwiseOr":
			r := opGetReg(ops)
			acc = fmt.Sprintf("%s | %s", getReg(r), wrapRight(acc, accPrec, precOr, "|"))
			accPrec = precOr
		case base == "BitwiseXor":
			r := opGetReg(ops)
			acc = fmt.Sprintf("%s ^ %s", getReg(r), wrapRight(acc, accPrec, precXor, "^"))
			accPrec = precXor
		case base == "BitwiseAnd":
			r := opGetReg(ops)
			acc = fmt.Sprintf("%s & %s", getReg(r), wrapRight(acc, accPrec, precAnd, "&"))
			accPrec = precAnd
		case base == "ShiftLeft":
			r := opGetReg(ops)
			acc = fmt.Sprintf("%s << %s", getReg(r), wrapRight(acc, accPrec, precShift, "<<"))
			accPrec = precShift
		case base == "ShiftRight":
			r := opGetReg(ops)
			acc = fmt.Sprintf("%s >> %s", getReg(r), wrapRight(acc, accPrec, precShift, ">>"))
			accPrec = precShift
		case base == "ShiftRightLogical":
			r := opGetReg(ops)
			acc = fmt.Sprintf("%s >>> %s", getReg(r), wrapRight(acc, accPrec, precShift, ">>>"))
			accPrec = precShift

		case base == "BitwiseOrSmi":
			v := opGetImm(ops)
			acc = fmt.Sprintf("%s | %d", wrapLeft(acc, accPrec, precOr), v)
			accPrec = precOr
		case base == "BitwiseXorSmi":
			v := opGetImm(ops)
			acc = fmt.Sprintf("%s ^ %d", wrapLeft(acc, accPrec, precXor), v)
			accPrec = precXor
		case base == "BitwiseAndSmi":
			v := opGetImm(ops)
			acc = fmt.Sprintf("%s & %d", wrapLeft(acc, accPrec, precAnd), v)
			accPrec = precAnd
		case base == "ShiftLeftSmi":
			v := opGetImm(ops)
			acc = fmt.Sprintf("%s << %d", wrapLeft(acc, accPrec, precShift), v)
			accPrec = precShift
		case base == "ShiftRightSmi":
			v := opGetImm(ops)
			acc = fmt.Sprintf("%s >> %d", wrapLeft(acc, accPrec, precShift), v)
			accPrec = precShift
		case base == "ShiftRightLogicalSmi":
			v := opGetImm(ops)
			acc = fmt.Sprintf("%s >>> %d", wrapLeft(acc, accPrec, precShift), v)
			accPrec = precShift

		case base == "Inc":
			acc = fmt.Sprintf("%s + 1", wrapLeft(acc, accPrec, precAdd))
			accPrec = precAdd
		case base == "Dec":
			acc = fmt.Sprintf("%s - 1", wrapLeft(acc, accPrec, precAdd))
			accPrec = precAdd
		case base == "ToBooleanLogicalNot" || base == "LogicalNot":
			if accPrec < precAtom {
				acc = fmt.Sprintf("!(%s)", acc)
			} else {
				acc = fmt.Sprintf("!%s", acc)
			}
			accPrec = precAtom
		case base == "TypeOf":
			acc = fmt.Sprintf("typeof %s", acc)
			accPrec = precAtom
		case base == "Negate":
			acc = fmt.Sprintf("-%s", wrapLeft(acc, accPrec, precAtom))
			accPrec = precAtom
		case base == "BitwiseNot":
			acc = fmt.Sprintf("~%s", wrapLeft(acc, accPrec, precAtom))
			accPrec = precAtom
		case base == "DeletePropertyStrict" || base == "DeletePropertySloppy":
			r := opGetReg(ops)
			key := acc
			trimmed := strings.Trim(key, `"`)
			if strings.HasPrefix(key, `"`) && strings.HasSuffix(key, `"`) && isValidIdentifier(trimmed) {
				acc = fmt.Sprintf("delete %s.%s", getReg(r), trimmed)
			} else {
				acc = fmt.Sprintf("delete %s[%s]", getReg(r), key)
			}
			accPrec = precAtom
			lines = append(lines, fmt.Sprintf("%s%s;", indent, acc))

		case base == "TestEqual":
			r := opGetReg(ops)
			acc, accPrec = fmt.Sprintf("%s == %s", getReg(r), acc), precEq
		case base == "TestEqualStrict" || base == "TestEqualStrictNoFeedback":
			r := opGetReg(ops)
			acc, accPrec = fmt.Sprintf("%s === %s", getReg(r), acc), precEq
		case base == "TestLessThan":
			r := opGetReg(ops)
			acc, accPrec = fmt.Sprintf("%s < %s", getReg(r), acc), precRel
		case base == "TestGreaterThan":
			r := opGetReg(ops)
			acc, accPrec = fmt.Sprintf("%s > %s", getReg(r), acc), precRel
		case base == "TestLessThanOrEqual":
			r := opGetReg(ops)
			acc, accPrec = fmt.Sprintf("%s <= %s", getReg(r), acc), precRel
		case base == "TestGreaterThanOrEqual":
			r := opGetReg(ops)
			acc, accPrec = fmt.Sprintf("%s >= %s", getReg(r), acc), precRel
		case base == "TestInstanceOf":
			r := opGetReg(ops)
			acc, accPrec = fmt.Sprintf("%s instanceof %s", getReg(r), acc), precRel
		case base == "TestIn":
			r := opGetReg(ops)
			acc, accPrec = fmt.Sprintf("%s in %s", getReg(r), acc), precRel
		case base == "TestUndetectable":
			acc, accPrec = fmt.Sprintf("%s == null", acc), precEq
		case base == "TestNull":
			acc, accPrec = fmt.Sprintf("%s === null", acc), precEq
		case base == "TestUndefined":
			acc, accPrec = fmt.Sprintf("%s === undefined", acc), precEq
		case base == "TestTypeOf":
			flag := opGetFlag8(ops)
			if flag >= 0 && flag < len(typeofLiterals) {
				acc = fmt.Sprintf("typeof %s === %q", acc, typeofLiterals[flag])
			} else {
				acc = fmt.Sprintf("typeof %s === ?", acc)
			}
			accPrec = precEq

		case base == "LdaNamedProperty":
			r := opGetReg(ops)
			prop := strings.Trim(cpValueStr(opGetIdx(ops), cp), `"`)
			objName := getReg(r)
			if isValidIdentifier(prop) {
				acc = fmt.Sprintf("%s.%s", objName, prop)
			} else {
				acc = fmt.Sprintf("%s[%q]", objName, prop)
			}
			accPrec = precAtom
		case base == "LdaKeyedProperty":
			r := opGetReg(ops)
			acc = fmt.Sprintf("%s[%s]", getReg(r), acc)
			accPrec = precAtom
		case base == "StaNamedPropertySloppy" || base == "StaNamedPropertyStrict" || base == "StaNamedOwnProperty":
			r := opGetReg(ops)
			prop := strings.Trim(cpValueStr(opGetIdx(ops), cp), `"`)
			objName := getReg(r)
			if isValidIdentifier(prop) {
				lines = append(lines, fmt.Sprintf("%s%s.%s = %s;", indent, objName, prop, acc))
			} else {
				lines = append(lines, fmt.Sprintf("%s%s[%q] = %s;", indent, objName, prop, acc))
			}
		case base == "StaKeyedPropertySloppy" || base == "StaKeyedPropertyStrict":
			r := opGetReg(ops)
			keyR := opGetSecondReg(ops)
			lines = append(lines, fmt.Sprintf("%s%s[%s] = %s;", indent, getReg(r), getReg(keyR), acc))

		case base == "CallProperty0" || base == "CallUndefinedReceiver0":
			r := opGetReg(ops)
			acc = fmt.Sprintf("%s()", getReg(r))
			accPrec = precAtom
		case base == "CallProperty1":
			parts := strings.Fields(operandsStr)
			callableR, arg1R := fieldOr(parts, 0, "?"), fieldOr(parts, 2, "?")
			acc = fmt.Sprintf("%s(%s)", getReg(callableR), getReg(arg1R))
			accPrec = precAtom
		case base == "CallProperty2":
			parts := strings.Fields(operandsStr)
			callableR, arg1R, arg2R := fieldOr(parts, 0, "?"), fieldOr(parts, 2, "?"), fieldOr(parts, 3, "?")
			acc = fmt.Sprintf("%s(%s, %s)", getReg(callableR), getReg(arg1R), getReg(arg2R))
			accPrec = precAtom
		case base == "CallUndefinedReceiver1":
			parts := strings.Fields(operandsStr)
			callableR, arg1R := fieldOr(parts, 0, "?"), fieldOr(parts, 1, "?")
			acc = fmt.Sprintf("%s(%s)", getReg(callableR), getReg(arg1R))
			accPrec = precAtom
		case base == "CallUndefinedReceiver2":
			parts := strings.Fields(operandsStr)
			callableR, arg1R, arg2R := fieldOr(parts, 0, "?"), fieldOr(parts, 1, "?"), fieldOr(parts, 2, "?")
			acc = fmt.Sprintf("%s(%s, %s)", getReg(callableR), getReg(arg1R), getReg(arg2R))
			accPrec = precAtom
		case base == "CallProperty" || base == "CallAnyReceiver" || base == "CallWithSpread":
			parts := strings.Fields(operandsStr)
			callableR := fieldOr(parts, 0, "?")
			rangeStr := fieldOr(parts, 1, "")
			rangeArgs := parseRegRangeArgs(rangeStr, getReg)
			var callArgs []string
			if len(rangeArgs) > 1 {
				callArgs = rangeArgs[1:]
			}
			acc = fmt.Sprintf("%s(%s)", getReg(callableR), strings.Join(callArgs, ", "))
			accPrec = precAtom
		case base == "CallUndefinedReceiver":
			parts := strings.Fields(operandsStr)
			callableR := fieldOr(parts, 0, "?")
			rangeStr := fieldOr(parts, 1, "")
			rangeArgs := parseRegRangeArgs(rangeStr, getReg)
			acc = fmt.Sprintf("%s(%s)", getReg(callableR), strings.Join(rangeArgs, ", "))
			accPrec = precAtom
		case base == "CallRuntime":
			acc = fmt.Sprintf("/* CallRuntime(%s) */", operandsStr)
			accPrec = precAtom

		case base == "CallJSRuntime":
			idx := opGetIdx(ops)
			parts := strings.Fields(operandsStr)
			rangeStr := fieldOr(parts, 1, "")
			rangeArgs := parseRegRangeArgs(rangeStr, getReg)
			rtName := jsRuntimeName(idx, jsRuntimeNames)
			switch {
			case rtName == "":
				acc = fmt.Sprintf("/* JSRuntime[%d](...) */", idx)
			default:
				if static, ok := jsRuntimeStatic[rtName]; ok {
					var argStrs []string
					if len(rangeArgs) > 1 {
						argStrs = rangeArgs[1:]
					}
					acc = fmt.Sprintf("%s(%s)", static, strings.Join(argStrs, ", "))
				} else if method, ok := jsRuntimeMethod[rtName]; ok {
					if len(rangeArgs) > 0 {
						receiver := rangeArgs[0]
						var argStrs []string
						if len(rangeArgs) > 1 {
							argStrs = rangeArgs[1:]
						}
						acc = fmt.Sprintf("%s.%s(%s)", receiver, method, strings.Join(argStrs, ", "))
					} else {
						acc = fmt.Sprintf("%s()", method)
					}
				} else {
					argStrs := rangeArgs
					if len(rangeArgs) > 1 {
						argStrs = rangeArgs[1:]
					}
					acc = fmt.Sprintf("%s(%s)", rtName, strings.Join(argStrs, ", "))
				}
			}
			accPrec = precAtom

		case base == "InvokeIntrinsic":
			acc = fmt.Sprintf("/* InvokeIntrinsic(%s) */", operandsStr)
			accPrec = precAtom
		case base == "ConstructForwardAllArgs":
			parts := strings.Fields(operandsStr)
			ctorR := fieldOr(parts, 0, "?")
			acc = fmt.Sprintf("new %s(...args)", getReg(ctorR))
			accPrec = precAtom
		case base == "Construct" || base == "ConstructWithSpread":
			parts := strings.Fields(operandsStr)
			ctorR := fieldOr(parts, 0, "?")
			rangeStr := fieldOr(parts, 1, "")
			rangeArgs := parseRegRangeArgs(rangeStr, getReg)
			callArgs := rangeArgs
			if len(rangeArgs) > 1 {
				callArgs = rangeArgs[:len(rangeArgs)-1]
			}
			acc = fmt.Sprintf("new %s(%s)", getReg(ctorR), strings.Join(callArgs, ", "))
			accPrec = precAtom

		case base == "CreateClosure":
			acc = cpValueStr(opGetIdx(ops), cp)
			accPrec = precAtom
		case base == "CreateArrayLiteral":
			arrStr := "[]"
			if cp != nil {
				bpIdx := opGetIdx(ops)
				if bpIdx >= 0 && bpIdx < len(cp.Items) && cp.Items[bpIdx].Kind == CPIntArray {
					arrStr = cpValueStr(bpIdx, cp)
				}
			}
			acc, accPrec = arrStr, precAtom
		case base == "CreateEmptyArrayLiteral":
			acc, accPrec = "[]", precAtom
		case base == "CreateObjectLiteral" || base == "CreateEmptyObjectLiteral":
			acc, accPrec = "{}", precAtom
		case base == "CloneObject":
			r := opGetReg(ops)
			acc = fmt.Sprintf("{...%s}", getReg(r))
			accPrec = precAtom
		case base == "CreateArrayFromIterable":
			acc = fmt.Sprintf("[...%s]", acc)
			accPrec = precAtom
		case base == "GetTemplateObject":
			acc, accPrec = "/* template object */", precAtom
		case base == "CreateRegExpLiteral":
			acc = fmt.Sprintf("/%s/", strings.Trim(cpValueStr(opGetIdx(ops), cp), `"`))
			accPrec = precAtom

		case base == "CreateFunctionContext" || base == "CreateBlockContext" ||
			base == "CreateCatchContext" || base == "PushContext" || base == "PopContext":
			// internal, skip

		case base == "Return":
			lines = append(lines, fmt.Sprintf("%sreturn %s;", indent, acc))

		case base == "JumpLoop":
			if t, ok := parseJumpTarget(comment); ok {
				lines = append(lines, fmt.Sprintf("%s/* loop back to @%04X */", indent, t))
			} else {
				lines = append(lines, indent+"/* loop */")
			}

		case base == "Jump":
			if t, ok := parseJumpTarget(comment); ok {
				lines = append(lines, fmt.Sprintf("%s/* goto @%04X */", indent, t))
			}

		case strings.HasPrefix(base, "JumpIf"):
			cond := jumpCondition(base, acc)
			if t, ok := parseJumpTarget(comment); ok {
				lines = append(lines, fmt.Sprintf("%sif (%s) { /* goto @%04X */ }", indent, cond, t))
			} else {
				lines = append(lines, fmt.Sprintf("%sif (%s) { ... }", indent, cond))
			}

		case base == "Throw":
			lines = append(lines, fmt.Sprintf("%sthrow %s;", indent, acc))
		case base == "ReThrow":
			lines = append(lines, fmt.Sprintf("%sthrow %s; /* rethrow */", indent, acc))
		case base == "ThrowReferenceErrorIfHole":
			lines = append(lines, fmt.Sprintf("%s/* ThrowReferenceErrorIfHole %s */", indent, cpValueStr(opGetIdx(ops), cp)))

		case base == "ForInPrepare":
			r := opGetReg(ops)
			lines = append(lines, fmt.Sprintf("%s/* for (... in %s) prepare */", indent, getReg(r)))
		case base == "ForInNext":
			r := opGetReg(ops)
			acc = fmt.Sprintf("/* ForInNext(%s) */", getReg(r))
			accPrec = precAtom
		case base == "ForInStep":
			r := opGetReg(ops)
			acc = fmt.Sprintf("%s + 1", getReg(r))
			accPrec = precAdd
		case base == "ForInContinue":
			r := opGetReg(ops)
			second := opGetSecondReg(ops)
			acc = fmt.Sprintf("%s < %s", getReg(r), getReg(second))
			accPrec = precRel

		case base == "SuspendGenerator" || base == "ResumeGenerator" ||
			base == "RestoreGeneratorState" || base == "RestoreGeneratorRegisters" ||
			base == "SwitchOnGeneratorState":
			lines = append(lines, fmt.Sprintf("%s/* %s %s */", indent, base, operandsStr))

		case strings.HasPrefix(base, "LdaLookup"):
			acc = strings.Trim(cpValueStr(opGetIdx(ops), cp), `"`)
			accPrec = precAtom
		case base == "StaLookupSlot":
			name := strings.Trim(cpValueStr(opGetIdx(ops), cp), `"`)
			lines = append(lines, fmt.Sprintf("%s%s = %s;", indent, name, acc))

		case base == "LdaModuleVariable":
			acc, accPrec = "/* module_var */", precAtom
		case base == "StaModuleVariable":
			lines = append(lines, fmt.Sprintf("%s/* StaModuleVariable = %s */", indent, acc))

		case base == "Nop" || base == "Illegal" || base == "DebugBreakWide" || base == "DebugBreakExtraWide" ||
			base == "SetPendingMessage" || base == "Wide" || base == "ExtraWide":
			// skip
		case strings.HasPrefix(base, "DebugBreak") || base == "Debugger":
			lines = append(lines, indent+"debugger;")
		case base == "SwitchOnSmiNoFeedback":
			lines = append(lines, fmt.Sprintf("%s/* switch (%s) { ... } */", indent, acc))
		case base == "ToNumber":
			r := opGetReg(ops)
			if r != "?" {
				setReg(r, acc)
			}
		case base == "ToName" || base == "ToObject" || base == "ToBoolean" || base == "ToNumeric" || base == "ToString":
			// implicit coercion, skip
		case base == "GetSuperConstructor":
			r := opGetReg(ops)
			lines = append(lines, fmt.Sprintf("%s%s = super.constructor;", indent, rname(r)))
		case base == "CreateMappedArguments" || base == "CreateUnmappedArguments":
			acc, accPrec = "arguments", precAtom
		case base == "CreateRestParameter":
			acc, accPrec = "[...rest]", precAtom
		case base == "ThrowSuperNotCalledIfHole" || base == "ThrowSuperAlreadyCalledIfNotHole" ||
			base == "ThrowIfNotSuperConstructor" || base == "FindNonDefaultConstructorOrConstruct" ||
			base == "IncBlockCounter" || base == "CollectTypeProfile" ||
			base == "StaDataPropertyInLiteral" || base == "StaInArrayLiteral" ||
			base == "GetIterator" || base == "Abort":
			// internal, skip
		case base == "CreateWithContext" || base == "CreateEvalContext":
			// skip

		default:
			lines = append(lines, fmt.Sprintf("%s/* %s %s */", indent, mnemonic, operandsStr))
		}

		if callOpcodes[base] {
			nextBase := ""
			if instIdx+1 < len(instructions) {
				nm := instructions[instIdx+1].Mnemonic
				if i := strings.LastIndex(nm, "."); i >= 0 {
					nextBase = nm[i+1:]
				} else {
					nextBase = nm
				}
			}
			accConsumed := accConsumingOpcodes[nextBase] ||
				strings.HasPrefix(nextBase, "JumpIf") ||
				strings.HasPrefix(nextBase, "Sta") ||
				strings.HasPrefix(nextBase, "Star") ||
				strings.HasPrefix(nextBase, "Test")
			if !accConsumed {
				lines = append(lines, fmt.Sprintf("%s%s;", indent, acc))
			}
		}
	}

	return strings.Join(lines, "\n")
}

func fieldOr(fields []string, idx int, fallback string) string {
	if idx < len(fields) {
		return fields[idx]
	}
	return fallback
}
