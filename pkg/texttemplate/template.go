// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"strings"

	"github.com/fieldtpl/fieldtpl/pkg/template"
)

// Template is immutable input text. Included templates are owned by the
// caller and handed to Expand separately; expansion references them without
// copying.
type Template struct {
	Name   string
	Source string
}

func NewTemplate(name, source string) *Template {
	return &Template{Name: name, Source: source}
}

// ExpandOpts configures one expansion.
type ExpandOpts struct {
	// IndentColumns left-pads every emitted line with this many spaces
	IndentColumns int

	// AltDelimiters switches field syntax from $(...) to the guillemet
	// form for templates whose text is dense with dollar-parens
	AltDelimiters bool
}

// Expand compiles the template into a Program: one instruction per generated
// code line, each attributed to a source line or to a spliced inclusion. Pure
// apart from reading the includes map; an inclusion token naming an absent
// template fails with *UnresolvedIncludeError.
func Expand(tpl *Template, opts ExpandOpts, includes map[string]*Template) (*template.Program, error) {
	e := newExpander(opts, includes)

	expanded, err := e.expand(tpl, strings.Repeat(" ", opts.IndentColumns))
	if err != nil {
		return nil, err
	}

	return expanded.program, nil
}

// Load expands the template and compiles the resulting Program's generated
// code against the scope. On compile failure the Program is still returned
// alongside the error so the caller can inspect what was generated
// (Program.DebugCodeAsString helps there).
func Load(tpl *Template, opts ExpandOpts, scope *template.Scope,
	includes map[string]*Template) (*template.BoundTemplate, *template.Program, error) {

	program, err := Expand(tpl, opts, includes)
	if err != nil {
		return nil, nil, err
	}

	boundTpl, err := template.Bind(program, scope)
	if err != nil {
		return nil, program, err
	}

	return boundTpl, program, nil
}
