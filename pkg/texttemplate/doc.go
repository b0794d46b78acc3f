// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

// Package texttemplate compiles line-oriented text templates into executable
// programs. Templates mix literal text, inline $(expr) fields, whole-line
// ${expr} list expansions, raw @statement lines and $<name> inclusions of
// other templates; expansion produces a template.Program whose instructions
// map back to source lines for precise error attribution.
package texttemplate
