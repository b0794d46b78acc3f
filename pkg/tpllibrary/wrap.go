// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package tpllibrary

import (
	"fmt"

	"github.com/k14s/starlark-go/starlark"

	"github.com/fieldtpl/fieldtpl/pkg/template/core"
)

var (
	// WrapBuiltin is the default value of the scope key "wrap". It decorates a
	// sequence (or a callable producing one) so that every non-empty item is
	// surrounded with a literal prefix and suffix. Useful for adapting an
	// existing sequence for list expansion without touching its source.
	WrapBuiltin starlark.Value = starlark.NewBuiltin("wrap", core.ErrWrapper(wrapModule{}.Wrap))
)

type wrapModule struct{}

func (m wrapModule) Wrap(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if args.Len() != 1 {
		return starlark.None, fmt.Errorf("expected exactly one argument")
	}
	allowedKWArgs := map[string]struct{}{
		"prefix": {},
		"suffix": {},
	}
	if err := core.CheckArgNames(kwargs, allowedKWArgs); err != nil {
		return starlark.None, err
	}

	prefix, err := core.StringArg(kwargs, "prefix")
	if err != nil {
		return starlark.None, err
	}

	suffix, err := core.StringArg(kwargs, "suffix")
	if err != nil {
		return starlark.None, err
	}

	switch typedVal := args.Index(0).(type) {
	case starlark.Callable:
		wrapped := func(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			result, err := starlark.Call(thread, typedVal, args, kwargs)
			if err != nil {
				return starlark.None, err
			}
			iterable, ok := result.(starlark.Iterable)
			if !ok {
				return starlark.None, fmt.Errorf("expected wrapped callable to produce an iterable, but was %s", result.Type())
			}
			return m.wrapItems(iterable, prefix, suffix)
		}
		return starlark.NewBuiltin("wrap: "+typedVal.Name(), core.ErrWrapper(wrapped)), nil

	case starlark.Iterable:
		return m.wrapItems(typedVal, prefix, suffix)

	default:
		return starlark.None, fmt.Errorf("expected iterable or callable value, but was %s", args.Index(0).Type())
	}
}

func (m wrapModule) wrapItems(iterable starlark.Iterable, prefix, suffix string) (starlark.Value, error) {
	var result []starlark.Value

	iter := iterable.Iterate()
	defer iter.Done()

	var item starlark.Value
	for iter.Next(&item) {
		itemStr, err := core.NewStarlarkValue(item).AsString()
		if err != nil {
			return starlark.None, err
		}
		if len(itemStr) > 0 {
			itemStr = prefix + itemStr + suffix
		}
		result = append(result, starlark.String(itemStr))
	}

	return starlark.NewList(result), nil
}

// WrapSequence surrounds every non-empty item with prefix and suffix;
// empty items pass through untouched.
func WrapSequence(items []string, prefix, suffix string) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		if len(item) > 0 {
			item = prefix + item + suffix
		}
		result = append(result, item)
	}
	return result
}
