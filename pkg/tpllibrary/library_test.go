// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package tpllibrary_test

import (
	"testing"

	"github.com/k14s/starlark-go/starlark"
	"github.com/k14s/starlark-go/starlarkstruct"
	"github.com/stretchr/testify/require"

	"github.com/fieldtpl/fieldtpl/pkg/tpllibrary"
)

func callMember(t *testing.T, mod starlark.Value, member string,
	args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {

	typedMod, ok := mod.(*starlarkstruct.Module)
	require.True(t, ok, "expected *starlarkstruct.Module, got %T", mod)

	fn, err := typedMod.Attr(member)
	require.NoError(t, err)

	thread := &starlark.Thread{Name: "test"}
	return starlark.Call(thread, fn.(starlark.Callable), args, kwargs)
}

func TestFindModule(t *testing.T) {
	for _, name := range []string{"base64", "json", "yaml", "toml", "regexp", "version", "wrap"} {
		_, found := tpllibrary.DefaultAPI.FindModule(name)
		require.True(t, found, "expected module %s to be registered", name)
	}

	_, found := tpllibrary.DefaultAPI.FindModule("nope")
	require.False(t, found)
}

func TestBase64EncodeDecode(t *testing.T) {
	encoded, err := callMember(t, tpllibrary.Base64Module, "encode",
		starlark.Tuple{starlark.String("hello")}, nil)
	require.NoError(t, err)
	require.Equal(t, starlark.String("aGVsbG8="), encoded)

	decoded, err := callMember(t, tpllibrary.Base64Module, "decode",
		starlark.Tuple{encoded}, nil)
	require.NoError(t, err)
	require.Equal(t, starlark.String("hello"), decoded)
}

func TestJSONEncodeDecode(t *testing.T) {
	decoded, err := callMember(t, tpllibrary.JSONModule, "decode",
		starlark.Tuple{starlark.String(`{"b": 2, "a": 1}`)}, nil)
	require.NoError(t, err)

	encoded, err := callMember(t, tpllibrary.JSONModule, "encode",
		starlark.Tuple{decoded}, nil)
	require.NoError(t, err)
	require.Equal(t, starlark.String(`{"a":1,"b":2}`), encoded)
}

func TestYAMLEncode(t *testing.T) {
	decoded, err := callMember(t, tpllibrary.YAMLModule, "decode",
		starlark.Tuple{starlark.String("a: 1\n")}, nil)
	require.NoError(t, err)

	encoded, err := callMember(t, tpllibrary.YAMLModule, "encode",
		starlark.Tuple{decoded}, nil)
	require.NoError(t, err)
	require.Equal(t, starlark.String("a: 1\n"), encoded)
}

func TestTOMLDecode(t *testing.T) {
	decoded, err := callMember(t, tpllibrary.TOMLModule, "decode",
		starlark.Tuple{starlark.String("key = \"value\"\n")}, nil)
	require.NoError(t, err)

	dict, ok := decoded.(*starlark.Dict)
	require.True(t, ok, "expected *starlark.Dict, got %T", decoded)

	val, found, err := dict.Get(starlark.String("key"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, starlark.String("value"), val)
}

func TestRegexpMatch(t *testing.T) {
	matched, err := callMember(t, tpllibrary.RegexpModule, "match",
		starlark.Tuple{starlark.String(`^ab+$`), starlark.String("abbb")}, nil)
	require.NoError(t, err)
	require.Equal(t, starlark.Bool(true), matched)
}

func TestRegexpReplace(t *testing.T) {
	replaced, err := callMember(t, tpllibrary.RegexpModule, "replace",
		starlark.Tuple{starlark.String(`b+`), starlark.String("abbbc"), starlark.String("B")}, nil)
	require.NoError(t, err)
	require.Equal(t, starlark.String("aBc"), replaced)
}

func TestVersionRequireAtLeast(t *testing.T) {
	_, err := callMember(t, tpllibrary.VersionModule, "require_at_least",
		starlark.Tuple{starlark.String("0.1.0")}, nil)
	require.NoError(t, err)

	_, err = callMember(t, tpllibrary.VersionModule, "require_at_least",
		starlark.Tuple{starlark.String("99.0.0")}, nil)
	require.Error(t, err)
}

func TestWrapBuiltin(t *testing.T) {
	items := starlark.NewList([]starlark.Value{
		starlark.String("a"), starlark.String(""), starlark.String("b")})

	thread := &starlark.Thread{Name: "test"}
	wrapped, err := starlark.Call(thread, tpllibrary.WrapBuiltin.(starlark.Callable),
		starlark.Tuple{items},
		[]starlark.Tuple{
			{starlark.String("prefix"), starlark.String("<")},
			{starlark.String("suffix"), starlark.String(">")},
		})
	require.NoError(t, err)

	list, ok := wrapped.(*starlark.List)
	require.True(t, ok, "expected *starlark.List, got %T", wrapped)
	require.Equal(t, 3, list.Len())
	require.Equal(t, starlark.String("<a>"), list.Index(0))
	require.Equal(t, starlark.String(""), list.Index(1))
	require.Equal(t, starlark.String("<b>"), list.Index(2))
}

func TestWrapSequence(t *testing.T) {
	result := tpllibrary.WrapSequence([]string{"a", "", "b"}, "- ", "")
	require.Equal(t, []string{"- a", "", "- b"}, result)
}
