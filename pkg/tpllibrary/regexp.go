// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package tpllibrary

import (
	"fmt"
	"regexp"

	"github.com/k14s/starlark-go/starlark"
	"github.com/k14s/starlark-go/starlarkstruct"

	"github.com/fieldtpl/fieldtpl/pkg/template/core"
)

var (
	// RegexpModule is the default value of the scope key "regexp"
	RegexpModule starlark.Value = &starlarkstruct.Module{
		Name: "regexp",
		Members: starlark.StringDict{
			"match":   starlark.NewBuiltin("regexp.match", core.ErrWrapper(regexpModule{}.Match)),
			"replace": starlark.NewBuiltin("regexp.replace", core.ErrWrapper(regexpModule{}.Replace)),
		},
	}
)

type regexpModule struct{}

func (b regexpModule) Match(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if args.Len() != 2 {
		return starlark.None, fmt.Errorf("expected exactly two arguments")
	}

	pattern, err := core.NewStarlarkValue(args.Index(0)).AsString()
	if err != nil {
		return starlark.None, err
	}

	target, err := core.NewStarlarkValue(args.Index(1)).AsString()
	if err != nil {
		return starlark.None, err
	}

	matched, err := regexp.MatchString(pattern, target)
	if err != nil {
		return starlark.None, err
	}

	return starlark.Bool(matched), nil
}

// Replace searches given target for matches of the pattern, replacing each
// with the replacement which may either be a string (allowing $-expansion)
// or a callable receiving the matched string
func (b regexpModule) Replace(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if args.Len() != 3 {
		return starlark.None, fmt.Errorf("expected exactly three arguments")
	}

	pattern, err := core.NewStarlarkValue(args.Index(0)).AsString()
	if err != nil {
		return starlark.None, err
	}

	target, err := core.NewStarlarkValue(args.Index(1)).AsString()
	if err != nil {
		return starlark.None, err
	}

	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return starlark.None, err
	}

	switch typedRepl := args.Index(2).(type) {
	case starlark.String:
		return starlark.String(compiled.ReplaceAllString(target, typedRepl.GoString())), nil

	case starlark.Callable:
		var replErr error
		result := compiled.ReplaceAllStringFunc(target, func(match string) string {
			if replErr != nil {
				return match
			}
			replaced, err := starlark.Call(thread, typedRepl, starlark.Tuple{starlark.String(match)}, nil)
			if err != nil {
				replErr = err
				return match
			}
			replacedStr, err := core.NewStarlarkValue(replaced).AsString()
			if err != nil {
				replErr = err
				return match
			}
			return replacedStr
		})
		if replErr != nil {
			return starlark.None, replErr
		}
		return starlark.String(result), nil

	default:
		return starlark.None, fmt.Errorf("expected third argument to be a string or a function, but was %s", args.Index(2).Type())
	}
}
