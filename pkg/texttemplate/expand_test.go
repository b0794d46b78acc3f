// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldtpl/fieldtpl/pkg/texttemplate"
)

var insNameRegexp = regexp.MustCompile(`__fieldtpl\d+_`)

func normalizedCode(t *testing.T, source string, opts texttemplate.ExpandOpts,
	includes map[string]*texttemplate.Template) string {

	program, err := texttemplate.Expand(texttemplate.NewTemplate("test.txt", source), opts, includes)
	require.NoError(t, err)
	return insNameRegexp.ReplaceAllString(program.CodeAsString(), "__fieldtplXXX_")
}

func TestExpandTextLine(t *testing.T) {
	code := normalizedCode(t, `Hello $(name)!`, texttemplate.ExpandOpts{}, nil)
	require.Equal(t, `__fieldtplXXX_putx((name), "name", "Hello ")
__fieldtplXXX_put("!")
__fieldtplXXX_endl()`, code)
}

func TestExpandStatementLine(t *testing.T) {
	code := normalizedCode(t, "@for i in range(2):\nx\n@end", texttemplate.ExpandOpts{}, nil)
	require.Equal(t, `for i in range(2):
__fieldtplXXX_line("x")
end`, code)
}

func TestExpandListLine(t *testing.T) {
	code := normalizedCode(t, `  ${items}`, texttemplate.ExpandOpts{}, nil)
	require.Equal(t, `__fieldtplXXX_list((items), "items", "  ")`, code)

	// empty expression keeps only the alignment
	code = normalizedCode(t, `  ${}`, texttemplate.ExpandOpts{}, nil)
	require.Equal(t, `__fieldtplXXX_line("  ")`, code)
}

func TestExpandTrailingNewlineEpilogue(t *testing.T) {
	code := normalizedCode(t, "x\n", texttemplate.ExpandOpts{}, nil)
	require.Equal(t, `__fieldtplXXX_line("x")
__fieldtplXXX_line("")`, code)

	code = normalizedCode(t, "x", texttemplate.ExpandOpts{}, nil)
	require.Equal(t, `__fieldtplXXX_line("x")`, code)
}

func TestExpandIncludeSourceMap(t *testing.T) {
	includes := map[string]*texttemplate.Template{
		"child": texttemplate.NewTemplate("child", "one\ntwo"),
	}

	program, err := texttemplate.Expand(
		texttemplate.NewTemplate("test.txt", "$<child>"), texttemplate.ExpandOpts{}, includes)
	require.NoError(t, err)

	require.Len(t, program.Includes, 1)
	included := program.Includes[0]
	require.Equal(t, "child", included.Name)
	require.Equal(t, 1, included.IncludedAtLine)
	require.Equal(t, 2, included.StartLine)

	// marker plus the two spliced line emissions
	require.Len(t, program.Code, 3)
	require.NotNil(t, program.Code[0].SourceLine)
	require.Nil(t, program.Code[0].Include)
	require.Nil(t, program.Code[1].SourceLine)
	require.Same(t, included, program.Code[1].Include)
	require.Same(t, included, program.Code[2].Include)
}

func TestExpandIncludeSkipsChildEpilogue(t *testing.T) {
	includes := map[string]*texttemplate.Template{
		"child": texttemplate.NewTemplate("child", "one\n"),
	}

	program, err := texttemplate.Expand(
		texttemplate.NewTemplate("test.txt", "$<child>"), texttemplate.ExpandOpts{}, includes)
	require.NoError(t, err)

	// the child's own trailing-newline bookkeeping must not leak into the
	// parent as a stray empty output line
	require.Len(t, program.Code, 2)
}
