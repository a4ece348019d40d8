// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package taxonomy

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

// Seed is one row of a taxid list such as human-viruses.tsv.
type Seed struct {
	Taxid int
	Name  string
}

// ReadSeedList parses "taxid<TAB>name" rows. The list has no header.
func ReadSeedList(r io.Reader) ([]Seed, error) {
	tr := tsv.NewReader(r)
	tr.LazyQuotes = true
	var seeds []Seed
	for {
		var row Seed
		if err := tr.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		seeds = append(seeds, row)
	}
	return seeds, nil
}

// LoadSeedList reads a seed list from path.
func LoadSeedList(ctx context.Context, path string) (seeds []Seed, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open seed list:", path)
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if seeds, err = ReadSeedList(in.Reader(ctx)); err != nil {
		return nil, errors.E(err, "read seed list:", path)
	}
	return seeds, nil
}

// WriteSeedList writes seeds as "taxid<TAB>name" rows.
func WriteSeedList(w io.Writer, seeds []Seed) error {
	tw := tsv.NewWriter(w)
	for _, s := range seeds {
		tw.WriteInt64(int64(s.Taxid))
		tw.WriteString(s.Name)
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// SeedSet returns the taxids of seeds as a Set.
func SeedSet(seeds []Seed) Set {
	s := make(Set, len(seeds))
	for _, seed := range seeds {
		s.Add(seed.Taxid)
	}
	return s
}
