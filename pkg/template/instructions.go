// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"fmt"
	"strconv"
	"strings"
)

// InstructionSet names the emission primitives of one compilation. Names are
// unique per set so that spliced programs and user code cannot collide with
// (or shadow) the runtime bindings.
type InstructionSet struct {
	Put     InstructionOp
	PutExpr InstructionOp
	PutLine InstructionOp
	EndLine InstructionOp
	PutList InstructionOp
}

var (
	globalInsSetID = 1
)

func NewInstructionSet() *InstructionSet {
	globalInsSetID++
	uniqueID := globalInsSetID
	return &InstructionSet{
		Put:     InstructionOp{fmt.Sprintf("__fieldtpl%d_put", uniqueID)},
		PutExpr: InstructionOp{fmt.Sprintf("__fieldtpl%d_putx", uniqueID)},
		PutLine: InstructionOp{fmt.Sprintf("__fieldtpl%d_line", uniqueID)},
		EndLine: InstructionOp{fmt.Sprintf("__fieldtpl%d_endl", uniqueID)},
		PutList: InstructionOp{fmt.Sprintf("__fieldtpl%d_list", uniqueID)},
	}
}

// NewPut appends a literal to the line currently being built.
func (is *InstructionSet) NewPut(literal string) Instruction {
	return is.Put.WithArgs(strconv.Quote(literal))
}

// NewPutExpr evaluates expr in the scope, converts the result to text and
// appends it after the literal prefix. The expression source text rides along
// for error reporting.
func (is *InstructionSet) NewPutExpr(expr string, prefix string) Instruction {
	return is.PutExpr.WithArgs("("+expr+")", strconv.Quote(expr), strconv.Quote(prefix))
}

// NewPutLine emits text as one complete output line.
func (is *InstructionSet) NewPutLine(text string) Instruction {
	return is.PutLine.WithArgs(strconv.Quote(text))
}

// NewEndLine closes the line currently being built.
func (is *InstructionSet) NewEndLine() Instruction {
	return is.EndLine.WithArgs()
}

// NewPutList iterates the value of expr, emitting one indented output line
// per element.
func (is *InstructionSet) NewPutList(expr string, indent string) Instruction {
	return is.PutList.WithArgs("("+expr+")", strconv.Quote(expr), strconv.Quote(indent))
}

// NewCode carries a raw statement line into the generated program verbatim.
func (is *InstructionSet) NewCode(code string) Instruction {
	return Instruction{code: code}
}

// NewIncludeMarker is the bookkeeping boundary in front of a spliced
// program. It compiles to a comment, so it can never fail at runtime.
func (is *InstructionSet) NewIncludeMarker(name string) Instruction {
	return Instruction{code: "# include " + strconv.Quote(name)}
}

// Ops lists the instruction operations that need runtime bindings.
func (is *InstructionSet) Ops() []InstructionOp {
	return []InstructionOp{is.Put, is.PutExpr, is.PutLine, is.EndLine, is.PutList}
}

type InstructionOp struct {
	Name string
}

func (op InstructionOp) WithArgs(args ...string) Instruction {
	return Instruction{op: op, code: fmt.Sprintf("%s(%s)", op.Name, strings.Join(args, ", "))}
}

type Instruction struct {
	op   InstructionOp
	code string
}

func (i Instruction) Op() InstructionOp { return i.op }
func (i Instruction) AsString() string  { return i.code }
