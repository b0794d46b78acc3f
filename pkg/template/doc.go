// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

// Package template holds the compiled form of a template (Program), the
// evaluation runtime that binds a Program to a Scope and executes it, and the
// line-attributed error trails produced when compilation or evaluation fails.
package template
