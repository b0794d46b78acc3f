// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchFieldsSingle(t *testing.T) {
	matches, tail := matchFields(`Hello $(name)!`, false)
	require.Len(t, matches, 1)
	require.Equal(t, "Hello ", matches[0].prefix)
	require.Equal(t, "", matches[0].backslashes)
	require.Equal(t, "name", matches[0].expr)
	require.Equal(t, "$(name)", matches[0].token)
	require.Equal(t, "!", tail)
}

func TestMatchFieldsMultiple(t *testing.T) {
	matches, tail := matchFields(`$(a) and $(b) end`, false)
	require.Len(t, matches, 2)
	require.Equal(t, "", matches[0].prefix)
	require.Equal(t, "a", matches[0].expr)
	require.Equal(t, " and ", matches[1].prefix)
	require.Equal(t, "b", matches[1].expr)
	require.Equal(t, " end", tail)
}

func TestMatchFieldsBalancedParens(t *testing.T) {
	matches, tail := matchFields(`$(f(a, (b + c)))`, false)
	require.Len(t, matches, 1)
	require.Equal(t, "f(a, (b + c))", matches[0].expr)
	require.Equal(t, "", tail)
}

func TestMatchFieldsUnbalancedOpen(t *testing.T) {
	// an open without a close stays literal text
	matches, tail := matchFields(`oops $(a`, false)
	require.Len(t, matches, 0)
	require.Equal(t, `oops $(a`, tail)

	// and the search continues past it
	matches, tail = matchFields(`$(a $(b)`, false)
	require.Len(t, matches, 1)
	require.Equal(t, `$(a `, matches[0].prefix)
	require.Equal(t, "b", matches[0].expr)
	require.Equal(t, "", tail)
}

func TestMatchFieldsEmptyExpr(t *testing.T) {
	matches, tail := matchFields(`x$()y`, false)
	require.Len(t, matches, 1)
	require.Equal(t, "x", matches[0].prefix)
	require.Equal(t, "", matches[0].expr)
	require.Equal(t, "y", tail)
}

func TestMatchFieldsBackslashRun(t *testing.T) {
	matches, _ := matchFields(`a\\\$(x)`, false)
	require.Len(t, matches, 1)
	require.Equal(t, "a", matches[0].prefix)
	require.Equal(t, `\\\`, matches[0].backslashes)
	require.Equal(t, "x", matches[0].expr)
}

func TestMatchFieldsAltDelimiters(t *testing.T) {
	matches, tail := matchFields(`cost: $(«price») USD`, true)
	require.Len(t, matches, 1)
	require.Equal(t, "cost: $(", matches[0].prefix)
	require.Equal(t, "price", matches[0].expr)
	require.Equal(t, "«price»", matches[0].token)
	require.Equal(t, ") USD", tail)
}

func TestMatchFieldsNone(t *testing.T) {
	matches, tail := matchFields(`no fields here`, false)
	require.Len(t, matches, 0)
	require.Equal(t, "no fields here", tail)
}
