// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"fmt"
	"strings"

	"github.com/k14s/starlark-go/starlark"

	"github.com/fieldtpl/fieldtpl/pkg/template/core"
)

// evaluationCtx collects output produced by one run of a compiled program.
// Emission primitives append either to the line currently being built
// (pending) or directly to the finished lines.
type evaluationCtx struct {
	scope   *Scope
	pending string
	lines   []string
}

func newEvaluationCtx(scope *Scope) *evaluationCtx {
	return &evaluationCtx{scope: scope}
}

// InstructionBindings returns the runtime bindings for the emission
// primitives of the given instruction set.
func (c *evaluationCtx) InstructionBindings(ins *InstructionSet) starlark.StringDict {
	bindings := map[string]core.StarlarkFunc{
		ins.Put.Name:     c.tplPut,
		ins.PutExpr.Name: c.tplPutExpr,
		ins.PutLine.Name: c.tplPutLine,
		ins.EndLine.Name: c.tplEndLine,
		ins.PutList.Name: c.tplPutList,
	}

	result := starlark.StringDict{}
	for name, f := range bindings {
		result[name] = starlark.NewBuiltin(name, f)
	}
	return result
}

func (c *evaluationCtx) tplPut(thread *starlark.Thread, _ *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {

	lit, err := core.NewStarlarkValue(args.Index(0)).AsString()
	if err != nil {
		return starlark.None, err
	}

	c.pending += lit
	return starlark.None, nil
}

func (c *evaluationCtx) tplPutExpr(thread *starlark.Thread, _ *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {

	exprSrc, err := core.NewStarlarkValue(args.Index(1)).AsString()
	if err != nil {
		return starlark.None, err
	}
	prefix, err := core.NewStarlarkValue(args.Index(2)).AsString()
	if err != nil {
		return starlark.None, err
	}

	text, err := c.convert(thread, args.Index(0), exprSrc)
	if err != nil {
		return starlark.None, err
	}

	c.pending += prefix + text
	return starlark.None, nil
}

func (c *evaluationCtx) tplPutLine(thread *starlark.Thread, _ *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {

	text, err := core.NewStarlarkValue(args.Index(0)).AsString()
	if err != nil {
		return starlark.None, err
	}

	c.lines = append(c.lines, text)
	return starlark.None, nil
}

func (c *evaluationCtx) tplEndLine(thread *starlark.Thread, _ *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {

	c.lines = append(c.lines, c.pending)
	c.pending = ""
	return starlark.None, nil
}

func (c *evaluationCtx) tplPutList(thread *starlark.Thread, _ *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {

	exprSrc, err := core.NewStarlarkValue(args.Index(1)).AsString()
	if err != nil {
		return starlark.None, err
	}
	indent, err := core.NewStarlarkValue(args.Index(2)).AsString()
	if err != nil {
		return starlark.None, err
	}

	val := args.Index(0)
	iterable, ok := val.(starlark.Iterable)
	if !ok {
		return starlark.None, fmt.Errorf(
			"expected iterable value in expansion of '%s', but was %s", exprSrc, val.Type())
	}

	iter := iterable.Iterate()
	defer iter.Done()

	var item starlark.Value
	for iter.Next(&item) {
		text, err := c.convert(thread, item, exprSrc)
		if err != nil {
			return starlark.None, err
		}
		c.lines = append(c.lines, indent+text)
	}

	return starlark.None, nil
}

// convert turns a value into output text: a missing value is an error naming
// the originating expression, a scope-provided converter takes precedence over
// the default rendering, and the converter must produce a string.
func (c *evaluationCtx) convert(thread *starlark.Thread, val starlark.Value, exprSrc string) (string, error) {
	if val == nil || val == starlark.None {
		return "", &undefinedRefError{expr: exprSrc}
	}

	if convFunc, found := c.scope.Get(ConversionFuncName); found {
		callable, ok := convFunc.(starlark.Callable)
		if !ok {
			return "", fmt.Errorf("scope value '%s' is not callable (%s)",
				ConversionFuncName, convFunc.Type())
		}

		res, err := starlark.Call(thread, callable, starlark.Tuple{val}, nil)
		if err != nil {
			return "", err
		}

		typedRes, ok := res.(starlark.String)
		if !ok {
			return "", &badConversionError{expr: exprSrc, producedType: res.Type()}
		}
		return string(typedRes), nil
	}

	if typedVal, ok := val.(starlark.String); ok {
		return string(typedVal), nil
	}
	return val.String(), nil
}

// finish applies blank/empty line post-processing and returns the final
// sequence of output lines.
func (c *evaluationCtx) finish(opts *EvaluateOpts) []string {
	result := []string{}

	for _, line := range c.lines {
		if line == "" {
			if opts.PreserveEmptyLines {
				result = append(result, line)
			}
			continue
		}

		if strings.TrimSpace(line) == "" {
			switch {
			case opts.PreserveBlankLines:
				result = append(result, line)
			case opts.PreserveEmptyLines:
				// blank lines are reduced to empty, not dropped
				result = append(result, "")
			}
			continue
		}

		result = append(result, line)
	}

	return result
}
