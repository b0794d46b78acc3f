// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"regexp"
	"strings"
)

type lineClass int

const (
	classText lineClass = iota
	classStatement
	classInclude
	classList
)

var (
	statementRegexp = regexp.MustCompile(`^\s*@(.*)$`)

	// the name group is greedy on purpose: two inclusion tokens on one line
	// merge into a single bogus name instead of splitting the line
	includeRegexp = regexp.MustCompile(`^([ \t]*)(\\*)\$<(.+)>[ \t]*$`)

	listRegexp = regexp.MustCompile(`^([ \t]*)(\\*)\$\{(.*)\}[ \t]*$`)
)

// classifiedLine is one source line with its classification payload.
// Inclusion and list tokens are only recognized when they describe the whole
// line; any other non-blank content makes the line an ordinary text line.
type classifiedLine struct {
	class lineClass

	code string // statement: everything after the @, verbatim

	// include and list lines
	indent      string
	backslashes string
	payload     string // included-template name, or list expression text
}

func classifyLine(line string) classifiedLine {
	if groups := statementRegexp.FindStringSubmatch(line); groups != nil {
		return classifiedLine{class: classStatement, code: groups[1]}
	}

	if groups := includeRegexp.FindStringSubmatch(line); groups != nil {
		return classifiedLine{class: classInclude,
			indent: groups[1], backslashes: groups[2], payload: groups[3]}
	}

	if groups := listRegexp.FindStringSubmatch(line); groups != nil {
		return classifiedLine{class: classList,
			indent: groups[1], backslashes: groups[2], payload: groups[3]}
	}

	return classifiedLine{class: classText}
}

// foldBackslashes halves a backslash run in front of a recognized token: n
// backslashes leave floor(n/2) literal ones, and an odd run marks the token
// as escaped (kept as literal text instead of being processed).
func foldBackslashes(run string) (literal string, escaped bool) {
	return strings.Repeat(`\`, len(run)/2), len(run)%2 == 1
}
