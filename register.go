// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import "fmt"

// byteToRegister renders an Ignition register operand byte as the name the
// interpreter's calling convention gives it: parameters count up from "a0",
// locals count down from "r0", and two reserved values name the closure and
// context registers every frame carries.
func byteToRegister(val byte) string {
	switch {
	case val == 0:
		return "Wide"
	case val == 1:
		return "ExtraWide"
	case val >= 2 && val <= 127:
		return fmt.Sprintf("a%d", val-2)
	case val >= 128 && val <= 251:
		return fmt.Sprintf("r%d", 251-val)
	case val == 252:
		return "_closure"
	case val == 253:
		return "_context"
	default:
		return fmt.Sprintf("??(%d)", val)
	}
}
