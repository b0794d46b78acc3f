// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"strings"
)

const (
	altOpenDelim  = "«"
	altCloseDelim = "»"
)

// fieldMatch is one "literal run, backslash run, delimited token" match
// produced by scanning a text line left to right.
type fieldMatch struct {
	prefix      string // literal text before the backslash run
	backslashes string
	expr        string // expression text between the delimiters; may be empty
	token       string // the delimited token verbatim, e.g. "$(name)"
}

// matchFields splits a text line into ordered non-overlapping field matches
// plus the literal tail after the last match. Default delimiters are $( and )
// with balanced parentheses inside; alternate delimiters are the guillemets
// with non-greedy content.
func matchFields(line string, altDelims bool) ([]fieldMatch, string) {
	var matches []fieldMatch

	pos := 0
	for {
		start, exprStart, exprEnd, end, found := findField(line, pos, altDelims)
		if !found {
			break
		}

		bsStart := start
		for bsStart > pos && line[bsStart-1] == '\\' {
			bsStart--
		}

		matches = append(matches, fieldMatch{
			prefix:      line[pos:bsStart],
			backslashes: line[bsStart:start],
			expr:        line[exprStart:exprEnd],
			token:       line[start:end],
		})
		pos = end
	}

	return matches, line[pos:]
}

// findField locates the next field token at or after byte offset from.
// Returned offsets are into line; end is one past the closing delimiter.
func findField(line string, from int, altDelims bool) (start, exprStart, exprEnd, end int, found bool) {
	if altDelims {
		i := strings.Index(line[from:], altOpenDelim)
		if i == -1 {
			return 0, 0, 0, 0, false
		}
		start = from + i
		exprStart = start + len(altOpenDelim)

		j := strings.Index(line[exprStart:], altCloseDelim)
		if j == -1 {
			return 0, 0, 0, 0, false
		}
		exprEnd = exprStart + j
		return start, exprStart, exprEnd, exprEnd + len(altCloseDelim), true
	}

	searchFrom := from
	for {
		i := strings.Index(line[searchFrom:], "$(")
		if i == -1 {
			return 0, 0, 0, 0, false
		}
		start = searchFrom + i

		depth := 0
		for k := start + 1; k < len(line); k++ {
			switch line[k] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					return start, start + 2, k, k + 1, true
				}
			}
		}

		// unbalanced open; that occurrence stays literal text
		searchFrom = start + 2
	}
}
