// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package template_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldtpl/fieldtpl/pkg/template"
)

var insNameRegexp = regexp.MustCompile(`__fieldtpl\d+_`)

func normalized(ins template.Instruction) string {
	return insNameRegexp.ReplaceAllString(ins.AsString(), "__fieldtplXXX_")
}

func TestInstructionRendering(t *testing.T) {
	ins := template.NewInstructionSet()

	require.Equal(t, `__fieldtplXXX_put("a\"b")`, normalized(ins.NewPut(`a"b`)))
	require.Equal(t, `__fieldtplXXX_putx((x + 1), "x + 1", "pre ")`, normalized(ins.NewPutExpr("x + 1", "pre ")))
	require.Equal(t, `__fieldtplXXX_line("text")`, normalized(ins.NewPutLine("text")))
	require.Equal(t, `__fieldtplXXX_endl()`, normalized(ins.NewEndLine()))
	require.Equal(t, `__fieldtplXXX_list((xs), "xs", "  ")`, normalized(ins.NewPutList("xs", "  ")))
	require.Equal(t, `x = 1`, ins.NewCode(`x = 1`).AsString())
	require.Equal(t, `# include "other"`, ins.NewIncludeMarker("other").AsString())
}

func TestInstructionSetNamesAreUnique(t *testing.T) {
	first := template.NewInstructionSet()
	second := template.NewInstructionSet()

	require.NotEqual(t, first.Put.Name, second.Put.Name)
}

func TestInstructionSetOps(t *testing.T) {
	ins := template.NewInstructionSet()
	require.Len(t, ins.Ops(), 5)
}
