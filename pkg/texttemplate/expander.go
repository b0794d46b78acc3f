// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"strings"

	"github.com/fieldtpl/fieldtpl/pkg/filepos"
	"github.com/fieldtpl/fieldtpl/pkg/template"
)

// expander walks a template's classified lines and builds the Program.
// A single instruction set is shared by the whole expansion so that spliced
// programs call the same emission bindings as the root.
type expander struct {
	opts     ExpandOpts
	includes map[string]*Template
	ins      *template.InstructionSet
}

func newExpander(opts ExpandOpts, includes map[string]*Template) *expander {
	return &expander{opts: opts, includes: includes, ins: template.NewInstructionSet()}
}

// expandedProgram separates the program from its trailing bookkeeping: the
// epilogue preserves a final line terminator and must not be spliced into a
// parent (it would inject a spurious empty line mid-output).
type expandedProgram struct {
	program     *template.Program
	hasEpilogue bool
}

func (e expandedProgram) codeForSplicing() []template.Line {
	if e.hasEpilogue {
		return e.program.Code[:len(e.program.Code)-1]
	}
	return e.program.Code
}

func (e *expander) expand(tpl *Template, indent string) (expandedProgram, error) {
	srcLines, endsWithNewline := splitSourceLines(tpl.Source)

	var code []template.Line
	var includes []*template.IncludedProgram

	for i, content := range srcLines {
		srcLine := template.NewSourceLine(filepos.NewPosition(i+1), content)
		classified := classifyLine(content)

		switch classified.class {
		case classStatement:
			code = append(code, template.Line{
				Instruction: e.ins.NewCode(classified.code),
				SourceLine:  srcLine,
			})

		case classInclude:
			literalBs, escaped := foldBackslashes(classified.backslashes)
			if escaped {
				code = append(code, e.escapedLine(classified, literalBs, content, indent, srcLine))
				continue
			}

			includedTpl, found := e.includes[classified.payload]
			if !found {
				return expandedProgram{}, &UnresolvedIncludeError{
					Name: classified.payload, Position: srcLine.Position}
			}

			child, err := e.expand(includedTpl, indent+classified.indent+literalBs)
			if err != nil {
				return expandedProgram{}, err
			}

			included := &template.IncludedProgram{
				Name:           classified.payload,
				Program:        child.program,
				IncludedAtLine: i + 1,
			}

			code = append(code, template.Line{
				Instruction: e.ins.NewIncludeMarker(classified.payload),
				SourceLine:  srcLine,
			})

			included.StartLine = len(code) + 1
			for _, childLine := range child.codeForSplicing() {
				code = append(code, template.Line{
					Instruction: childLine.Instruction,
					Include:     included,
				})
			}

			includes = append(includes, included)

		case classList:
			literalBs, escaped := foldBackslashes(classified.backslashes)
			switch {
			case escaped:
				code = append(code, e.escapedLine(classified, literalBs, content, indent, srcLine))

			case len(classified.payload) == 0:
				// intentionally empty expansion keeps its alignment
				code = append(code, template.Line{
					Instruction: e.ins.NewPutLine(indent + classified.indent + literalBs),
					SourceLine:  srcLine,
				})

			default:
				code = append(code, template.Line{
					Instruction: e.ins.NewPutList(classified.payload, indent+classified.indent+literalBs),
					SourceLine:  srcLine,
				})
			}

		case classText:
			code = append(code, e.textLine(content, indent, srcLine)...)
		}
	}

	if endsWithNewline {
		code = append(code, template.Line{Instruction: e.ins.NewPutLine("")})
	}

	program := template.NewProgram(tpl.Name, srcLines, code, includes, e.ins)
	return expandedProgram{program: program, hasEpilogue: endsWithNewline}, nil
}

// textLine compiles one text/field line. A line with no field matches becomes
// a single complete-line emission; otherwise the line is built up as a chain
// of partial emissions closed by an end-of-line instruction, with the indent
// prepended once at the front.
func (e *expander) textLine(content, indent string, srcLine *template.SourceLine) []template.Line {
	matches, tail := matchFields(content, e.opts.AltDelimiters)

	if len(matches) == 0 {
		text := content
		if len(text) > 0 {
			// empty lines never receive indentation padding
			text = indent + text
		}
		return []template.Line{{Instruction: e.ins.NewPutLine(text), SourceLine: srcLine}}
	}

	var result []template.Line

	if len(indent) > 0 {
		result = append(result, template.Line{Instruction: e.ins.NewPut(indent), SourceLine: srcLine})
	}

	for _, match := range matches {
		literalBs, escaped := foldBackslashes(match.backslashes)
		switch {
		case escaped:
			result = append(result, template.Line{
				Instruction: e.ins.NewPut(match.prefix + literalBs + match.token),
				SourceLine:  srcLine,
			})

		case len(match.expr) == 0:
			// empty expression means "no value"; only the prefix is emitted
			result = append(result, template.Line{
				Instruction: e.ins.NewPut(match.prefix + literalBs),
				SourceLine:  srcLine,
			})

		default:
			result = append(result, template.Line{
				Instruction: e.ins.NewPutExpr(match.expr, match.prefix+literalBs),
				SourceLine:  srcLine,
			})
		}
	}

	if len(tail) > 0 {
		result = append(result, template.Line{Instruction: e.ins.NewPut(tail), SourceLine: srcLine})
	}

	result = append(result, template.Line{Instruction: e.ins.NewEndLine(), SourceLine: srcLine})
	return result
}

// escapedLine reproduces an inclusion or list-expansion line whose token was
// quoted away: the backslash run is halved, the rest of the line is kept
// verbatim.
func (e *expander) escapedLine(classified classifiedLine, literalBs, content, indent string,
	srcLine *template.SourceLine) template.Line {

	rest := content[len(classified.indent)+len(classified.backslashes):]
	return template.Line{
		Instruction: e.ins.NewPutLine(indent + classified.indent + literalBs + rest),
		SourceLine:  srcLine,
	}
}

// splitSourceLines splits template text on newlines; a trailing newline does
// not produce a final empty source line but is remembered so that the output
// keeps its terminator.
func splitSourceLines(source string) ([]string, bool) {
	lines := strings.Split(source, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" && strings.HasSuffix(source, "\n") {
		return lines[:len(lines)-1], true
	}
	return lines, false
}
