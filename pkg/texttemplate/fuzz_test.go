// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate_test

import (
	"testing"

	fuzz "github.com/google/gofuzz"

	"github.com/fieldtpl/fieldtpl/pkg/texttemplate"
)

// Expansion must never panic, whatever the input text; the only acceptable
// failure is an unresolved include.
func TestExpandFuzz(t *testing.T) {
	f := fuzz.New().NumElements(0, 50)

	for i := 0; i < 2000; i++ {
		var source string
		f.Fuzz(&source)

		for _, opts := range []texttemplate.ExpandOpts{
			{},
			{IndentColumns: 3},
			{AltDelimiters: true},
		} {
			_, err := texttemplate.Expand(texttemplate.NewTemplate("fuzz", source), opts, nil)
			if err != nil {
				if _, ok := err.(*texttemplate.UnresolvedIncludeError); !ok {
					t.Fatalf("unexpected error type %T for source %q: %s", err, source, err)
				}
			}
		}
	}
}
