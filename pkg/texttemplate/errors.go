// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"fmt"

	"github.com/fieldtpl/fieldtpl/pkg/filepos"
)

// UnresolvedIncludeError reports an inclusion token naming a template absent
// from the includes map. It is raised during expansion; the generated program
// never reaches the expression evaluator.
type UnresolvedIncludeError struct {
	Name     string
	Position *filepos.Position
}

var _ error = &UnresolvedIncludeError{}

func (e *UnresolvedIncludeError) Error() string {
	return fmt.Sprintf("Unresolved template include '%s' (%s)", e.Name, e.Position.AsString())
}
