// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package tpllibrary

import (
	"fmt"

	semver "github.com/hashicorp/go-version"
	"github.com/k14s/starlark-go/starlark"
	"github.com/k14s/starlark-go/starlarkstruct"

	"github.com/fieldtpl/fieldtpl/pkg/template/core"
	"github.com/fieldtpl/fieldtpl/pkg/version"
)

var (
	// VersionModule is the default value of the scope key "version"
	VersionModule starlark.Value = &starlarkstruct.Module{
		Name: "version",
		Members: starlark.StringDict{
			"require_at_least": starlark.NewBuiltin("version.require_at_least", core.ErrWrapper(versionModule{}.RequireAtLeast)),
			"current":          starlark.String(version.Version),
		},
	}
)

type versionModule struct{}

func (b versionModule) RequireAtLeast(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if args.Len() != 1 {
		return starlark.None, fmt.Errorf("expected exactly one argument")
	}

	val, err := core.NewStarlarkValue(args.Index(0)).AsString()
	if err != nil {
		return starlark.None, err
	}

	userConstraint, err := semver.NewConstraint(">=" + val)
	if err != nil {
		return starlark.None, fmt.Errorf("expected '%s' to be a valid version constraint: %s", val, err)
	}

	currVersion, err := semver.NewVersion(version.Version)
	if err != nil {
		return starlark.None, fmt.Errorf("parsing current version: %s", err)
	}

	if !userConstraint.Check(currVersion) {
		return starlark.None, fmt.Errorf("templating requires version '%s' or later (currently '%s')", val, version.Version)
	}

	return starlark.None, nil
}
