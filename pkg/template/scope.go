// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"sort"

	"github.com/k14s/starlark-go/starlark"

	"github.com/fieldtpl/fieldtpl/pkg/template/core"
)

// ConversionFuncName is the scope key holding the optional custom
// value-to-text conversion callable used by expression emission.
const ConversionFuncName = "tostr"

// Scope is the mutable name->value environment expressions and statements run
// against. One Scope may back multiple bound templates; mutation discipline is
// the caller's concern (evaluation is single-threaded and re-reads the scope
// on every call).
type Scope struct {
	vals starlark.StringDict
}

func NewScope() *Scope {
	return &Scope{vals: starlark.StringDict{}}
}

// NewScopeWithValues retains (does not copy) vals.
func NewScopeWithValues(vals starlark.StringDict) *Scope {
	if vals == nil {
		vals = starlark.StringDict{}
	}
	return &Scope{vals: vals}
}

func (s *Scope) Set(name string, val starlark.Value) {
	s.vals[name] = val
}

// SetGoValue converts a plain Go value (scalars, []interface{}, []string,
// *orderedmap.Map) into its evaluator-native form and stores it.
func (s *Scope) SetGoValue(name string, val interface{}) {
	s.vals[name] = core.NewGoValue(val).AsStarlarkValue()
}

func (s *Scope) Get(name string) (starlark.Value, bool) {
	val, found := s.vals[name]
	return val, found
}

func (s *Scope) Has(name string) bool {
	_, found := s.vals[name]
	return found
}

// Merge copies overrides into the scope; overrides win on key conflicts.
func (s *Scope) Merge(overrides starlark.StringDict) {
	for name, val := range overrides {
		s.vals[name] = val
	}
}

func (s *Scope) Names() []string {
	var names []string
	for name := range s.vals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Scope) Values() starlark.StringDict { return s.vals }
