// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

// Operator precedence levels the reconstructor uses to decide when a
// sub-expression needs parenthesizing. Higher binds tighter.
const (
	precCond  = 4 // ternary ?:
	precOr    = 6
	precXor   = 7
	precAnd   = 8
	precEq    = 9
	precRel   = 10
	precShift = 11
	precAdd   = 12
	precMul   = 13
	precExp   = 14
	precAtom  = 100 // variable, literal, call — never needs wrapping
)

// rightAssocSafe holds operators where (a OP b) OP c == a OP (b OP c), so a
// right operand at the same precedence never needs parens.
var rightAssocSafe = map[string]bool{"+": true, "*": true, "|": true, "&": true, "^": true}

// wrapLeft wraps acc when it is the left operand and the new operator binds
// tighter than whatever produced acc.
func wrapLeft(acc string, accPrec, opPrec int) string {
	if accPrec < opPrec {
		return "(" + acc + ")"
	}
	return acc
}

// wrapRight wraps acc when it is the right operand.
func wrapRight(acc string, accPrec, opPrec int, opStr string) string {
	if accPrec < opPrec {
		return "(" + acc + ")"
	}
	if accPrec == opPrec && !rightAssocSafe[opStr] {
		return "(" + acc + ")"
	}
	return acc
}
