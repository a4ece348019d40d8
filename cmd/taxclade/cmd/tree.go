// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/taxclade/taxonomy"
	"github.com/grailbio/taxclade/tree"
)

type treeOpts struct {
	nodes    string
	names    string
	observed string
	namesOut string
}

func buildTree(ctx context.Context, opts treeOpts, seedsPath, out string) error {
	if opts.namesOut != "" && opts.names == "" {
		return fmt.Errorf("tree: -names must be set to write names")
	}
	g, err := loadGraph(ctx, opts.nodes)
	if err != nil {
		return err
	}
	seeds, err := taxonomy.LoadSeedList(ctx, seedsPath)
	if err != nil {
		return err
	}
	var observed taxonomy.Set
	if opts.observed != "" {
		taxids, err := readTaxids(ctx, opts.observed)
		if err != nil {
			return err
		}
		observed = taxonomy.NewSet(taxids...)
	}
	all := make([]int, len(seeds))
	for i, s := range seeds {
		all[i] = s.Taxid
	}
	mentioned, err := tree.Mentioned(g, tree.SelectSeeds(g, all, observed))
	if err != nil {
		return err
	}
	root, err := tree.Build(g, mentioned)
	if err != nil {
		return err
	}
	log.Printf("tree: %d seeds, %d taxa in tree", len(seeds), len(mentioned))
	if err := writeFile(ctx, out, func(w io.Writer) error {
		return tree.WriteJSON(w, root)
	}); err != nil {
		return err
	}
	if opts.namesOut == "" {
		return nil
	}
	names, err := taxonomy.LoadNames(ctx, opts.names, mentioned.Has)
	if err != nil {
		return err
	}
	return writeFile(ctx, opts.namesOut, func(w io.Writer) error {
		return tree.WriteNamesJSON(w, names, mentioned)
	})
}

func keyClades(ctx context.Context, nodes, out string) error {
	g, err := loadGraph(ctx, nodes)
	if err != nil {
		return err
	}
	return writeTaxids(ctx, out, taxonomy.KeyClades(g, taxonomy.RespiratoryBacteria...))
}

func expandClades(ctx context.Context, nodes, namesPath, seedsPath, out string) error {
	g, err := loadGraph(ctx, nodes)
	if err != nil {
		return err
	}
	seeds, err := taxonomy.LoadSeedList(ctx, seedsPath)
	if err != nil {
		return err
	}
	expanded := taxonomy.ExpandClades(g, taxonomy.SeedSet(seeds).Sorted())
	var names taxonomy.Names
	if namesPath != "" {
		keep := taxonomy.NewSet(expanded...)
		if names, err = taxonomy.LoadNames(ctx, namesPath, keep.Has); err != nil {
			return err
		}
	}
	given := map[int]string{}
	for _, s := range seeds {
		given[s.Taxid] = s.Name
	}
	rows := make([]taxonomy.Seed, len(expanded))
	for i, taxid := range expanded {
		name, ok := given[taxid]
		if !ok {
			name = names.Scientific(taxid)
		}
		rows[i] = taxonomy.Seed{Taxid: taxid, Name: name}
	}
	log.Printf("expand-clades: %d seeds expanded to %d taxa", len(seeds), len(rows))
	return writeFile(ctx, out, func(w io.Writer) error {
		return taxonomy.WriteSeedList(w, rows)
	})
}

func bucket(ctx context.Context, nodes, in, out string) error {
	g, err := loadGraph(ctx, nodes)
	if err != nil {
		return err
	}
	taxids, err := readTaxids(ctx, in)
	if err != nil {
		return err
	}
	buckets := []int{taxonomy.Bacteria, taxonomy.Viruses}
	b, err := taxonomy.Bucket(g, taxids, buckets)
	if err != nil {
		return err
	}
	return writeFile(ctx, out, func(w io.Writer) error {
		tw := tsv.NewWriter(w)
		for _, root := range buckets {
			for _, taxid := range b[root] {
				tw.WriteInt64(int64(root))
				tw.WriteInt64(int64(taxid))
				if err := tw.EndLine(); err != nil {
					return err
				}
			}
		}
		return tw.Flush()
	})
}
