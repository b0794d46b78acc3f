// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate_test

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/k14s/difflib"

	"github.com/fieldtpl/fieldtpl/pkg/template"
	"github.com/fieldtpl/fieldtpl/pkg/texttemplate"
)

var (
	// Example usage:
	//   go test ./pkg/texttemplate/ -run TestTextTemplate TestTextTemplate.filetest=for.tpltest
	selectedFileTestPath = kvArg("TestTextTemplate.filetest")
	showTemplateCode     = kvArg("TestTextTemplate.code")
	showErrs             = kvArg("TestTextTemplate.errs")
)

func TestTextTemplate(t *testing.T) {
	files, err := os.ReadDir("filetests")
	if err != nil {
		t.Fatal(err)
	}

	if len(selectedFileTestPath) > 0 {
		fmt.Printf("only running %s test(s)\n", selectedFileTestPath)
	}

	var errs []error

	for _, file := range files {
		filePath := filepath.Join("filetests", file.Name())

		if len(selectedFileTestPath) > 0 && !strings.HasPrefix(file.Name(), selectedFileTestPath) {
			continue
		}

		testDesc := fmt.Sprintf("checking %s ...\n", file.Name())
		fmt.Printf("%s", testDesc)

		contents, err := os.ReadFile(filePath)
		if err != nil {
			t.Fatal(err)
		}

		const (
			testSep   = "\n+++\n"
			errPrefix = "ERR:"
		)

		pieces := strings.SplitN(string(contents), testSep, 2)
		if len(pieces) != 2 {
			t.Fatalf("expected file %s to include +++ separator", filePath)
		}

		resultStr, testErr := evalTemplate(pieces[0])
		expectedStr := pieces[1]

		if strings.HasPrefix(expectedStr, errPrefix) {
			if testErr == nil {
				err = fmt.Errorf("expected eval error, but did not receive it")
			} else {
				resultStr := testErr.UserErr().Error()
				resultStr = regexp.MustCompile(`__fieldtpl\d+_`).ReplaceAllString(resultStr, "__fieldtplXXX_")
				err = expectEquals(resultStr, strings.TrimPrefix(expectedStr, errPrefix))
			}
		} else {
			if testErr == nil {
				err = expectEquals(resultStr, expectedStr)
			} else {
				err = testErr.TestErr()
			}
		}

		if err != nil {
			fmt.Printf("   FAIL\n")
			if showErrs == "t" {
				sep := strings.Repeat(".", 80)
				fmt.Printf("%s\n%s%s\n", sep, err, sep)
			}
			errs = append(errs, fmt.Errorf("%s: %s", testDesc, err))
		} else {
			fmt.Printf("   .\n")
		}
	}

	if len(errs) > 0 {
		t.Errorf("%s", errs[0].Error())
	}

	if len(selectedFileTestPath) > 0 {
		t.Errorf("skipped tests")
	}
}

type testErr struct {
	realErr error // error returned to the user
	testErr error // error wrapped with helpful test context
}

func (e testErr) UserErr() error { return e.realErr }
func (e testErr) TestErr() error { return e.testErr }

func evalTemplate(data string) (string, *testErr) {
	tpl := texttemplate.NewTemplate("stdin", data)

	boundTpl, compiledProgram, err := texttemplate.Load(
		tpl, texttemplate.ExpandOpts{}, template.NewScope(), nil)
	if err != nil {
		return "", &testErr{err, fmt.Errorf("template load error: %v", err)}
	}

	if showTemplateCode == "t" {
		fmt.Printf("### template:\n%s\n", compiledProgram.DebugCodeAsString())
	}

	resultStr, err := boundTpl.Evaluate(nil, nil)
	if err != nil {
		return "", &testErr{err, fmt.Errorf("eval error: %v\ncode:\n%s", err, compiledProgram.DebugCodeAsString())}
	}

	return resultStr, nil
}

func expectEquals(resultStr, expectedStr string) error {
	if resultStr != expectedStr {
		diff := difflib.PPDiff(strings.Split(expectedStr, "\n"), strings.Split(resultStr, "\n"))
		return fmt.Errorf("Not equal; diff expected...actual:\n%v", diff)
	}
	return nil
}

func kvArg(name string) string {
	name += "="
	for _, arg := range os.Args {
		if strings.HasPrefix(arg, name) {
			return strings.TrimPrefix(arg, name)
		}
	}
	return ""
}
