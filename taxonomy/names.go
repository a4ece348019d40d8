// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package taxonomy

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// ScientificName is the names.dmp name class of a taxon's canonical name.
const ScientificName = "scientific name"

// Names maps a taxid to its names. The scientific name, when present, is
// always first; synonyms and other name classes follow in dump order.
type Names map[int][]string

// Scientific returns the canonical display name of taxid, or "" if unknown.
func (n Names) Scientific(taxid int) string {
	if names := n[taxid]; len(names) > 0 {
		return names[0]
	}
	return ""
}

// ReadNames parses names.dmp content. If keep is non-nil, only taxids for
// which it returns true are retained; names.dmp is large and callers usually
// need a few thousand entries.
func ReadNames(r io.Reader, keep func(taxid int) bool) (Names, error) {
	names := Names{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), 1<<20)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitDmpLine(line)
		if len(fields) < 4 {
			return nil, &MalformedTaxonomyError{Line: lineno, Text: line, Reason: "expected 4 fields"}
		}
		taxid, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, &MalformedTaxonomyError{Line: lineno, Text: line, Reason: "bad taxid"}
		}
		if keep != nil && !keep(taxid) {
			continue
		}
		name := fields[1]
		if fields[3] == ScientificName {
			names[taxid] = append([]string{name}, names[taxid]...)
		} else {
			names[taxid] = append(names[taxid], name)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

// LoadNames reads a names.dmp file at the given path. See ReadNames.
func LoadNames(ctx context.Context, path string, keep func(taxid int) bool) (names Names, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open taxonomy names:", path)
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if names, err = ReadNames(in.Reader(ctx), keep); err != nil {
		return nil, errors.E(err, "read taxonomy names:", path)
	}
	return names, nil
}
