// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"fmt"
	"sort"
	"strings"

	"github.com/k14s/starlark-go/resolve"
	"github.com/k14s/starlark-go/starlark"
	"github.com/k14s/starlark-go/syntax"

	"github.com/fieldtpl/fieldtpl/pkg/tpllibrary"
)

// EvaluateOpts controls output post-processing. Zero value drops blank and
// empty lines; DefaultEvaluateOpts preserves everything.
type EvaluateOpts struct {
	PreserveBlankLines bool // keep whitespace-only lines verbatim
	PreserveEmptyLines bool // keep empty lines
}

func DefaultEvaluateOpts() *EvaluateOpts {
	return &EvaluateOpts{PreserveBlankLines: true, PreserveEmptyLines: true}
}

// BoundTemplate pairs a compiled Program with the mutable Scope it executes
// against. Evaluate may be called any number of times; each call re-executes
// the program against the current scope state.
type BoundTemplate struct {
	program  *Program
	scope    *Scope
	compiled *starlark.Program

	// free identifiers of the generated program; names absent from the
	// scope are bound to None so that an undefined reference surfaces at
	// conversion time instead of as a resolve error
	freeNames []string
}

// Bind compiles the Program's generated code against the scope. On compile
// failure the returned error is an *ErrorTrail with source-line attribution.
func Bind(program *Program, scope *Scope) (*BoundTemplate, error) {
	// TODO package globals
	resolve.AllowFloat = true
	resolve.AllowSet = true
	resolve.AllowLambda = true
	resolve.AllowNestedDef = true
	resolve.AllowBitwise = true
	resolve.AllowRecursion = true
	resolve.AllowGlobalReassign = true

	file, err := syntax.Parse(program.Name, program.CodeAsString(), syntax.BlockScanner)
	if err != nil {
		return nil, NewCompileErrorTrail(program, err)
	}

	isPredeclared := func(name string) bool {
		if _, found := starlark.Universe[name]; found {
			// scope entries may shadow universe builtins
			return scope.Has(name)
		}
		return true
	}

	compiled, err := starlark.FileProgram(file, isPredeclared)
	if err != nil {
		return nil, NewCompileErrorTrail(program, err)
	}

	return &BoundTemplate{
		program:   program,
		scope:     scope,
		compiled:  compiled,
		freeNames: collectIdents(file),
	}, nil
}

func (bt *BoundTemplate) Program() *Program { return bt.program }
func (bt *BoundTemplate) Scope() *Scope     { return bt.scope }

// Evaluate runs the program and joins the produced lines with single
// newlines. Overrides are merged into the scope first (overrides win). On
// failure the returned error is an *ErrorTrail.
func (bt *BoundTemplate) Evaluate(opts *EvaluateOpts, overrides starlark.StringDict) (string, error) {
	lines, err := bt.EvaluateLines(opts, overrides)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// EvaluateLines is Evaluate returning the sequence of lines instead of the
// joined text.
func (bt *BoundTemplate) EvaluateLines(opts *EvaluateOpts, overrides starlark.StringDict) ([]string, error) {
	if opts == nil {
		opts = DefaultEvaluateOpts()
	}

	bt.scope.Merge(overrides)

	ctx := newEvaluationCtx(bt.scope)

	thread := &starlark.Thread{Name: bt.program.Name}

	_, err := bt.compiled.Init(thread, bt.predeclared(ctx))
	if err != nil {
		return nil, NewEvalErrorTrail(bt.program, err)
	}

	return ctx.finish(opts), nil
}

// AsCallable wraps the bound template into a zero-argument callable yielding
// its evaluated text. Stored as a scope value it lets one template trigger
// evaluation of another as a plain expression call.
func (bt *BoundTemplate) AsCallable(name string, opts *EvaluateOpts) starlark.Value {
	return starlark.NewBuiltin(name, func(thread *starlark.Thread, f *starlark.Builtin,
		args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {

		if args.Len() != 0 {
			return starlark.None, fmt.Errorf("expected no arguments")
		}

		result, err := bt.Evaluate(opts, nil)
		if err != nil {
			return starlark.None, err
		}
		return starlark.String(result), nil
	})
}

// predeclared builds the environment for one run: None for referenced names
// the scope does not define, helper-module defaults for absent well-known
// keys, the scope itself, and the emission bindings (which always win).
func (bt *BoundTemplate) predeclared(ctx *evaluationCtx) starlark.StringDict {
	result := starlark.StringDict{}

	for _, name := range bt.freeNames {
		if _, found := starlark.Universe[name]; found && !bt.scope.Has(name) {
			continue
		}
		if !bt.scope.Has(name) {
			if mod, found := tpllibrary.DefaultAPI.FindModule(name); found {
				result[name] = mod
				continue
			}
		}
		result[name] = starlark.None
	}

	for name, val := range bt.scope.Values() {
		result[name] = val
	}

	for name, binding := range ctx.InstructionBindings(bt.program.Instructions()) {
		result[name] = binding
	}

	return result
}

// collectIdents gathers every identifier appearing in the file. This is a
// superset of the free names the resolver marks predeclared; surplus entries
// in the predeclared environment are never consulted.
func collectIdents(file *syntax.File) []string {
	names := map[string]struct{}{}

	for _, stmt := range file.Stmts {
		syntax.Walk(stmt, func(node syntax.Node) bool {
			if ident, ok := node.(*syntax.Ident); ok {
				names[ident.Name] = struct{}{}
			}
			return true
		})
	}

	var result []string
	for name := range names {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}
