// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/k14s/starlark-go/resolve"
	"github.com/k14s/starlark-go/starlark"
	"github.com/k14s/starlark-go/syntax"
)

// ErrorTrail is the rendered, line-attributed report of one failed load or
// evaluation attempt. It is returned to the caller as an ordinary error value;
// nothing about a failure aborts the host process.
type ErrorTrail struct {
	Kind ErrorKind
	Msg  string

	lines []string
}

var _ error = &ErrorTrail{}

func (e *ErrorTrail) Error() string { return strings.Join(e.lines, "\n") }

// TrailLines returns the rendered report line by line.
func (e *ErrorTrail) TrailLines() []string { return e.lines }

const (
	compileFailedHeader = "Template compilation failed: "
	evalFailedHeader    = "Template evaluation failed: "
)

// opaqueMsgPosRegexp extracts "name:line: msg" positions out of failure
// reports that arrive as plain text instead of structured positions.
var opaqueMsgPosRegexp = regexp.MustCompile(`^(.+?):(\d+):\s*(.*)$`)

// NewCompileErrorTrail renders a failure of the expression evaluator to accept
// the generated program. Compile trails carry no stacktrace section.
func NewCompileErrorTrail(program *Program, err error) *ErrorTrail {
	trail := &ErrorTrail{Kind: ErrorKindSyntax}

	switch typedErr := err.(type) {
	case syntax.Error:
		trail.Msg = typedErr.Msg
		trail.lines = append(trail.lines, compileFailedHeader+typedErr.Msg)
		trail.lines = append(trail.lines, resolveCodeLine(program, int(typedErr.Pos.Line), "")...)

	case resolve.ErrorList:
		trail.Msg = typedErr[0].Msg
		for _, resolveErr := range typedErr {
			trail.lines = append(trail.lines, compileFailedHeader+resolveErr.Msg)
			trail.lines = append(trail.lines, resolveCodeLine(program, int(resolveErr.Pos.Line), "")...)
		}

	default:
		trail.Msg = err.Error()
		trail.lines = append(trail.lines, compileFailedHeader+trail.Msg)
		trail.lines = append(trail.lines, resolveOpaqueMsg(program, trail.Msg)...)
	}

	return trail
}

// NewEvalErrorTrail renders a runtime failure: the primary failing location
// followed, when the evaluator produced one, by a "Possible stacktrace"
// section with one block per resolvable call-stack entry.
func NewEvalErrorTrail(program *Program, err error) *ErrorTrail {
	evalErr, ok := err.(*starlark.EvalError)
	if !ok {
		trail := &ErrorTrail{Kind: ErrorKindEvaluationFailure, Msg: err.Error()}
		trail.lines = append(trail.lines, evalFailedHeader+trail.Msg)
		trail.lines = append(trail.lines, resolveOpaqueMsg(program, trail.Msg)...)
		return trail
	}

	trail := &ErrorTrail{Kind: classifyEvalMsg(evalErr.Msg), Msg: evalErr.Msg}
	trail.lines = append(trail.lines, evalFailedHeader+evalErr.Msg)

	// innermost frame that maps into the program is the primary location
	primaryFound := false
	for i := len(evalErr.CallStack) - 1; i >= 0; i-- {
		pos := evalErr.CallStack[i].Pos
		if pos.Filename() != program.Name || pos.Line == 0 {
			continue
		}
		trail.lines = append(trail.lines, resolveCodeLine(program, int(pos.Line), "")...)
		primaryFound = true
		break
	}
	if !primaryFound {
		trail.lines = append(trail.lines, resolveOpaqueMsg(program, evalErr.Msg)...)
	}

	var stackLines []string
	for i := len(evalErr.CallStack) - 1; i >= 0; i-- {
		frame := evalErr.CallStack[i]

		// builtin frames carry no line number; they add nothing over the
		// caller's location
		if frame.Pos.Filename() != program.Name || frame.Pos.Line == 0 {
			continue
		}

		name := frame.Name
		if name == "" {
			name = "<unknown>"
		}

		stackLines = append(stackLines, fmt.Sprintf("- in %s", name))
		stackLines = append(stackLines, resolveCodeLine(program, int(frame.Pos.Line), "  ")...)
	}

	if len(stackLines) > 0 {
		trail.lines = append(trail.lines, "Possible stacktrace:")
		trail.lines = append(trail.lines, stackLines...)
	}

	return trail
}

func classifyEvalMsg(msg string) ErrorKind {
	switch {
	case strings.HasPrefix(msg, undefinedRefMsgPrefix):
		return ErrorKindUndefinedReference
	case strings.HasPrefix(msg, badConversionMsgPrefix):
		return ErrorKindBadConversion
	default:
		return ErrorKindEvaluationFailure
	}
}

// resolveCodeLine attributes generated-code line lineNum to template source,
// recursing through inclusion records: an index occupied by a spliced program
// renders the include site and then the nested program's own attribution,
// indented one level deeper.
func resolveCodeLine(program *Program, lineNum int, indent string) []string {
	line := program.codeAtLine(lineNum)
	if line == nil {
		return []string{indent + fmt.Sprintf(
			"(internal error: no source mapping for compiled line %d)", lineNum)}
	}

	switch {
	case line.Include != nil:
		result := []string{indent + fmt.Sprintf("in template '%s' included at line %d",
			line.Include.Name, line.Include.IncludedAtLine)}
		nestedLine := lineNum - line.Include.StartLine + 1
		result = append(result, resolveCodeLine(line.Include.Program, nestedLine, indent+"  ")...)
		return result

	case line.SourceLine != nil:
		return []string{indent + fmt.Sprintf("[%s]:%d: >>> %s <<<",
			program.Name, line.SourceLine.Position.LineNum(), line.SourceLine.Content)}

	default:
		return []string{indent + fmt.Sprintf(
			"(internal error: no source mapping for compiled line %d)", lineNum)}
	}
}

// resolveOpaqueMsg attempts the textual "name:line: msg" convention on
// reports without structured positions.
func resolveOpaqueMsg(program *Program, msg string) []string {
	groups := opaqueMsgPosRegexp.FindStringSubmatch(msg)
	if groups == nil || groups[1] != program.Name {
		return nil
	}

	var lineNum int
	_, err := fmt.Sscanf(groups[2], "%d", &lineNum)
	if err != nil {
		return nil
	}

	return resolveCodeLine(program, lineNum, "")
}
