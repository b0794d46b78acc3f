// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

// Package tpllibrary holds the helper modules the evaluation runtime injects
// into a template's scope for well-known names the caller left absent:
// serialization helpers, regexp matching, engine-version gating and the
// sequence decorator.
package tpllibrary

import (
	"sort"

	"github.com/k14s/starlark-go/starlark"
)

// DefaultAPI is the module set offered to every evaluation; a scope entry of
// the same name always takes precedence.
var DefaultAPI = NewAPI()

type API struct {
	modules map[string]starlark.Value
}

func NewAPI() API {
	return API{map[string]starlark.Value{
		"regexp": RegexpModule,

		// Serializations
		"base64": Base64Module,
		"json":   JSONModule,
		"yaml":   YAMLModule,
		"toml":   TOMLModule,

		// Versioning
		"version": VersionModule,

		// Sequence decoration
		"wrap": WrapBuiltin,
	}}
}

func (a API) FindModule(name string) (starlark.Value, bool) {
	mod, found := a.modules[name]
	return mod, found
}

func (a API) ModuleNames() []string {
	var names []string
	for name := range a.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
