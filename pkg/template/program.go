// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"fmt"
	"strings"

	"github.com/fieldtpl/fieldtpl/pkg/filepos"
)

// Program is the compiled form of one template: an ordered sequence of
// instructions (one generated code line each) plus the source map that lets
// any instruction index be attributed back to a template source line, possibly
// through a chain of included programs.
type Program struct {
	Name        string
	SourceLines []string
	Code        []Line
	Includes    []*IncludedProgram

	instructions *InstructionSet
}

// IncludedProgram records one splice of another template's program into this
// one: which template, where the inclusion token sat in this program's source,
// and which generated line the spliced instructions start at.
type IncludedProgram struct {
	Name           string
	Program        *Program
	IncludedAtLine int // 1-based source line of the inclusion token
	StartLine      int // 1-based generated-code line of the first spliced instruction
}

func NewProgram(name string, sourceLines []string, code []Line,
	includes []*IncludedProgram, instructions *InstructionSet) *Program {

	return &Program{
		Name:         name,
		SourceLines:  sourceLines,
		Code:         code,
		Includes:     includes,
		instructions: instructions,
	}
}

func (p *Program) Instructions() *InstructionSet { return p.instructions }

// IncludedPrograms returns the name-keyed view of inclusions. When the same
// template is included more than once the last occurrence wins; Includes
// retains every occurrence.
func (p *Program) IncludedPrograms() map[string]*IncludedProgram {
	result := map[string]*IncludedProgram{}
	for _, inc := range p.Includes {
		result[inc.Name] = inc
	}
	return result
}

// CodeAsString renders the generated program handed to the expression
// evaluator. Line N of the result is instruction N.
func (p *Program) CodeAsString() string {
	result := []string{}
	for _, line := range p.Code {
		result = append(result, line.Instruction.AsString())
	}
	// Do not add any unnecessary newlines to keep code lines aligned
	return strings.Join(result, "\n")
}

// DebugCodeAsString renders instructions next to the source lines they map
// to, for inspecting a Program returned by a failed load.
func (p *Program) DebugCodeAsString() string {
	result := []string{"src:  tmpl: code: | srccode"}

	for i, line := range p.Code {
		src := ""
		pos := filepos.NewUnknownPosition()

		switch {
		case line.SourceLine != nil:
			src = line.SourceLine.Content
			pos = line.SourceLine.Position
		case line.Include != nil:
			src = fmt.Sprintf("(included template '%s')", line.Include.Name)
		}

		result = append(result, fmt.Sprintf("%s: %4d: %s | %s",
			pos.As4DigitString(), i+1, line.Instruction.AsString(), src))
	}

	return strings.Join(result, "\n")
}

func (p *Program) codeAtLine(lineNum int) *Line {
	if lineNum < 1 || lineNum > len(p.Code) {
		return nil
	}
	return &p.Code[lineNum-1]
}
