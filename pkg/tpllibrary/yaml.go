// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package tpllibrary

import (
	"fmt"

	"github.com/k14s/starlark-go/starlark"
	"github.com/k14s/starlark-go/starlarkstruct"
	"gopkg.in/yaml.v3"

	"github.com/fieldtpl/fieldtpl/pkg/orderedmap"
	"github.com/fieldtpl/fieldtpl/pkg/template/core"
)

var (
	// YAMLModule is the default value of the scope key "yaml"
	YAMLModule starlark.Value = &starlarkstruct.Module{
		Name: "yaml",
		Members: starlark.StringDict{
			"encode": starlark.NewBuiltin("yaml.encode", core.ErrWrapper(yamlModule{}.Encode)),
			"decode": starlark.NewBuiltin("yaml.decode", core.ErrWrapper(yamlModule{}.Decode)),
		},
	}
)

type yamlModule struct{}

// Encode renders the provided input into a YAML formatted string
func (b yamlModule) Encode(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if args.Len() != 1 {
		return starlark.None, fmt.Errorf("expected exactly one argument")
	}

	val, err := core.NewStarlarkValue(args.Index(0)).AsGoValue()
	if err != nil {
		return starlark.None, err
	}
	val = orderedmap.Conversion{Object: val}.AsUnorderedStringMaps()

	valBs, err := yaml.Marshal(val)
	if err != nil {
		return starlark.None, err
	}

	return starlark.String(string(valBs)), nil
}

// Decode parses the provided input from YAML format into dicts, lists, and scalars
func (b yamlModule) Decode(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if args.Len() != 1 {
		return starlark.None, fmt.Errorf("expected exactly one argument")
	}

	valEncoded, err := core.NewStarlarkValue(args.Index(0)).AsString()
	if err != nil {
		return starlark.None, err
	}

	var valDecoded interface{}

	err = yaml.Unmarshal([]byte(valEncoded), &valDecoded)
	if err != nil {
		return starlark.None, err
	}

	valDecoded = orderedmap.Conversion{Object: valDecoded}.FromUnorderedMaps()

	return core.NewGoValue(valDecoded).AsStarlarkValue(), nil
}
