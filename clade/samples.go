// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package clade

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/taxclade/encoding/kraken"
	"github.com/grailbio/taxclade/taxonomy"
)

// Sample names the classifier output of one sample.
type Sample struct {
	Name string
	// Path is the classifier output, plain or gzipped.
	Path string
	// Skip, if set, replaces Opts.Skip for this sample. Duplicate selections
	// are per sample, so each sample carries its own.
	Skip func(readID string) bool
}

// CountSamples aggregates each sample with its own Aggregator. Up to
// opts.Parallelism samples are read at once; g is shared read-only. The
// result is indexed like samples.
func CountSamples(ctx context.Context, g *taxonomy.Graph, samples []Sample, opts Opts) ([]*CountTable, error) {
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = 1
	}
	if parallelism > len(samples) {
		parallelism = len(samples)
	}
	tables := make([]*CountTable, len(samples))
	err := traverse.Each(parallelism, func(jobIdx int) error {
		for i := jobIdx; i < len(samples); i += parallelism {
			t, err := countSample(ctx, g, samples[i], opts)
			if err != nil {
				return errors.E(err, "sample", samples[i].Name)
			}
			tables[i] = t
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

func countSample(ctx context.Context, g *taxonomy.Graph, s Sample, opts Opts) (*CountTable, error) {
	sc, err := kraken.Open(ctx, s.Path)
	if err != nil {
		return nil, err
	}
	defer sc.Close() // nolint: errcheck
	if s.Skip != nil {
		opts.Skip = s.Skip
	}
	a := NewAggregator(g, opts)
	if err := a.AddAll(sc); err != nil {
		return nil, errors.E(err, s.Path)
	}
	log.Printf("clade: %s: counted %d records, skipped %d", s.Name, a.Records(), a.Skipped())
	return a.Table(), nil
}
