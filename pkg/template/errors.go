// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"fmt"
)

// ErrorKind classifies a failure of one load or evaluation attempt.
type ErrorKind int

const (
	ErrorKindSyntax ErrorKind = iota
	ErrorKindUnresolvedInclude
	ErrorKindUndefinedReference
	ErrorKindBadConversion
	ErrorKindEvaluationFailure
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindSyntax:
		return "syntax error"
	case ErrorKindUnresolvedInclude:
		return "unresolved include"
	case ErrorKindUndefinedReference:
		return "undefined reference"
	case ErrorKindBadConversion:
		return "bad conversion"
	case ErrorKindEvaluationFailure:
		return "evaluation failure"
	default:
		return "unknown"
	}
}

const (
	undefinedRefMsgPrefix  = "undefined value in expression"
	badConversionMsgPrefix = "string conversion for expression"
)

type undefinedRefError struct {
	expr string
}

func (e *undefinedRefError) Error() string {
	return fmt.Sprintf("%s '%s'", undefinedRefMsgPrefix, e.expr)
}

type badConversionError struct {
	expr         string
	producedType string
}

func (e *badConversionError) Error() string {
	return fmt.Sprintf("%s '%s' produced %s instead of string",
		badConversionMsgPrefix, e.expr, e.producedType)
}
