// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/taxclade/clade"
	"github.com/grailbio/taxclade/dedup"
	"github.com/grailbio/taxclade/encoding/kraken"
	"github.com/grailbio/taxclade/taxonomy"
)

type countOpts struct {
	nodes       string
	parallelism int
	restrict    string
}

func loadDuplicates(ctx context.Context, path string) (sel *dedup.Selection, err error) {
	err = readFile(ctx, path, func(r io.Reader) error {
		sel, err = dedup.ReadDuplicates(r)
		return err
	})
	return sel, err
}

func count(ctx context.Context, opts countOpts, outDir string, args []string) error {
	g, err := loadGraph(ctx, opts.nodes)
	if err != nil {
		return err
	}
	copts := clade.DefaultOpts
	copts.Parallelism = opts.parallelism
	var seeds []taxonomy.Seed
	if opts.restrict != "" {
		if seeds, err = taxonomy.LoadSeedList(ctx, opts.restrict); err != nil {
			return err
		}
		copts.Restrict = taxonomy.SeedSet(seeds)
	}

	samples := make([]clade.Sample, len(args))
	for i, arg := range args {
		path, dups := arg, ""
		if j := strings.LastIndex(arg, ","); j >= 0 {
			path, dups = arg[:j], arg[j+1:]
		}
		samples[i] = clade.Sample{Name: sampleName(path), Path: path}
		if dups != "" {
			sel, err := loadDuplicates(ctx, dups)
			if err != nil {
				return err
			}
			log.Printf("count: %s: %d duplicate reads excluded", samples[i].Name, sel.Len())
			samples[i].Skip = sel.IsDuplicate
		}
	}

	tables, err := clade.CountSamples(ctx, g, samples, copts)
	if err != nil {
		return err
	}
	for i, t := range tables {
		name := samples[i].Name
		if err := clade.Save(ctx, file.Join(outDir, name+".cladecounts.tsv.gz"), t); err != nil {
			return err
		}
		if seeds == nil {
			continue
		}
		counts := clade.HumanVirusCounts(t, seeds)
		if err := writeFile(ctx, file.Join(outDir, name+".seedcounts.tsv"), func(w io.Writer) error {
			return clade.WriteTaxonCounts(w, counts)
		}); err != nil {
			return err
		}
	}
	return nil
}

func countDirect(ctx context.Context, in, duplicates, out string) (err error) {
	var skip func(string) bool
	if duplicates != "" {
		sel, err := loadDuplicates(ctx, duplicates)
		if err != nil {
			return err
		}
		skip = sel.IsDuplicate
	}
	sc, err := kraken.Open(ctx, in)
	if err != nil {
		return err
	}
	defer func() {
		if e := sc.Close(); e != nil && err == nil {
			err = e
		}
	}()
	t, err := clade.CountDirect(sc, skip)
	if err != nil {
		return err
	}
	return writeFile(ctx, out, func(w io.Writer) error {
		return clade.WriteDirectTSV(w, t)
	})
}

func countDown(ctx context.Context, nodes, targetsPath, in, out string) error {
	g, err := loadGraph(ctx, nodes)
	if err != nil {
		return err
	}
	direct, err := clade.LoadDirect(ctx, in)
	if err != nil {
		return err
	}
	var targets []int
	if targetsPath != "" {
		if targets, err = readTaxids(ctx, targetsPath); err != nil {
			return err
		}
	}
	t, err := clade.CountDown(g, direct, targets)
	if err != nil {
		return err
	}
	return clade.Save(ctx, out, t)
}
