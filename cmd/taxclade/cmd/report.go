// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/taxclade/clade"
)

func comparisonSpecies(ctx context.Context, nodes string, n int, minCount int64, out string, inputs []string) error {
	g, err := loadGraph(ctx, nodes)
	if err != nil {
		return err
	}
	total := clade.NewCountTable()
	for _, path := range inputs {
		t, err := clade.LoadDirect(ctx, path)
		if err != nil {
			return err
		}
		total.Merge(t)
	}
	top := clade.TopTaxa(total, g, n, minCount)
	return writeFile(ctx, out, func(w io.Writer) error {
		tw := tsv.NewWriter(w)
		for _, c := range top {
			tw.WriteInt64(c.Count)
			tw.WriteInt64(int64(c.Taxid))
			if err := tw.EndLine(); err != nil {
				return err
			}
		}
		return tw.Flush()
	})
}

func categories(ctx context.Context, in, out string) error {
	t, err := clade.Load(ctx, in)
	if err != nil {
		return err
	}
	return writeFile(ctx, out, func(w io.Writer) error {
		return clade.WriteCategories(w, clade.CategoryCounts(t))
	})
}

func compare(ctx context.Context, targetPaths []string, out string, args []string) error {
	var targets []int
	for _, path := range targetPaths {
		taxids, err := readTaxids(ctx, path)
		if err != nil {
			return err
		}
		targets = append(targets, taxids...)
	}
	tables := map[string]*clade.CountTable{}
	for _, arg := range args {
		name, path := sampleName(arg), arg
		if i := strings.Index(arg, "="); i > 0 {
			name, path = arg[:i], arg[i+1:]
		}
		t, err := clade.Load(ctx, path)
		if err != nil {
			return err
		}
		if prev, ok := tables[name]; ok {
			prev.Merge(t)
			continue
		}
		tables[name] = t
	}
	return writeFile(ctx, out, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(clade.CompareCounts(tables, targets))
	})
}
