// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"

	"github.com/k14s/starlark-go/starlark"
)

func BoolArg(kwargs []starlark.Tuple, keyToFind string) (bool, error) {
	for _, arg := range kwargs {
		key, err := NewStarlarkValue(arg.Index(0)).AsString()
		if err != nil {
			return false, err
		}
		if key == keyToFind {
			return NewStarlarkValue(arg.Index(1)).AsBool()
		}
	}
	return false, nil
}

func Int64Arg(kwargs []starlark.Tuple, keyToFind string) (int64, error) {
	for _, arg := range kwargs {
		key, err := NewStarlarkValue(arg.Index(0)).AsString()
		if err != nil {
			return 0, err
		}
		if key == keyToFind {
			return NewStarlarkValue(arg.Index(1)).AsInt64()
		}
	}
	return 0, nil
}

func StringArg(kwargs []starlark.Tuple, keyToFind string) (string, error) {
	for _, arg := range kwargs {
		key, err := NewStarlarkValue(arg.Index(0)).AsString()
		if err != nil {
			return "", err
		}
		if key == keyToFind {
			return NewStarlarkValue(arg.Index(1)).AsString()
		}
	}
	return "", nil
}

func CheckArgNames(kwargs []starlark.Tuple, allowedNames map[string]struct{}) error {
	for _, arg := range kwargs {
		name, err := NewStarlarkValue(arg.Index(0)).AsString()
		if err != nil {
			return err
		}
		if _, found := allowedNames[name]; !found {
			return fmt.Errorf("unexpected keyword argument '%s'", name)
		}
	}
	return nil
}
