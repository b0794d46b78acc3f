// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"

	"github.com/k14s/starlark-go/starlark"
)

type StarlarkFunc func(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

// ErrWrapper converts panics raised inside builtins into errors and
// prefixes returned errors with the builtin's name.
func ErrWrapper(wrappedFunc StarlarkFunc) StarlarkFunc {
	return func(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (val starlark.Value, resultErr error) {
		defer func() {
			if err := recover(); err != nil {
				if typedErr, ok := err.(error); ok {
					resultErr = typedErr
				} else {
					resultErr = fmt.Errorf("(p) %s", err)
				}
			}
		}()

		val, err := wrappedFunc(thread, f, args, kwargs)
		if err != nil {
			return val, fmt.Errorf("%s: %s", f.Name(), err)
		}

		return val, nil
	}
}
