// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"github.com/fieldtpl/fieldtpl/pkg/filepos"
)

// Line is one unit of compiled code: the instruction that is emitted into the
// generated program, paired with where it came from. Exactly one of the
// following holds: SourceLine is set (instruction maps to this program's own
// source), Include is set (instruction was spliced from an included program),
// or neither (generated bookkeeping with no user-visible origin).
type Line struct {
	Instruction Instruction
	SourceLine  *SourceLine
	Include     *IncludedProgram
}

type SourceLine struct {
	Position *filepos.Position
	Content  string
}

func NewSourceLine(pos *filepos.Position, content string) *SourceLine {
	if !pos.IsKnown() {
		panic("Expected source line position to be known")
	}
	return &SourceLine{Position: pos, Content: content}
}
