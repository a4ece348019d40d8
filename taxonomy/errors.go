// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package taxonomy

import (
	"fmt"
	"strconv"
	"strings"
)

// MalformedTaxonomyError is returned when a nodes.dmp or names.dmp line
// cannot be parsed.
type MalformedTaxonomyError struct {
	// Line is the 1-based line number, or 0 if unknown.
	Line int
	// Text is the offending line.
	Text string
	// Reason describes what was wrong with the line.
	Reason string
}

func (e *MalformedTaxonomyError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed taxonomy line %d (%s): %q", e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("malformed taxonomy line (%s): %q", e.Reason, e.Text)
}

// MissingParentError is returned when an ancestor walk reaches a taxid that
// has no parent record. Chain lists every taxid visited, starting from the
// taxid the walk began at and ending at Taxid.
type MissingParentError struct {
	Taxid int
	Chain []int
}

func (e *MissingParentError) Error() string {
	parts := make([]string, len(e.Chain))
	for i, t := range e.Chain {
		parts[i] = strconv.Itoa(t)
	}
	return fmt.Sprintf("missing parent for taxid %d (chain: %s)", e.Taxid, strings.Join(parts, ","))
}
