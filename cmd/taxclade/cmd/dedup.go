// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/taxclade/dedup"
	"github.com/grailbio/taxclade/encoding/fastq"
)

type dedupOpts struct {
	dedup.Opts
	// metrics is the path of the duplication metrics TSV, if set.
	metrics string
	// unique lists comma-separated output FASTQ paths, one per input, that
	// receive the reads that are not duplicates.
	unique string
}

func runDedup(ctx context.Context, opts dedupOpts, out string, fastqs []string) (err error) {
	if opts.K < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("dedup: -k must be non-negative, got %d", opts.K))
	}
	var unique []string
	if opts.unique != "" {
		unique = strings.Split(opts.unique, ",")
		if len(unique) != len(fastqs) {
			return errors.E(errors.Invalid, fmt.Sprintf("dedup: -unique needs %d paths, got %q", len(fastqs), opts.unique))
		}
	}
	files := make([]*fastq.File, len(fastqs))
	defer func() {
		for _, f := range files {
			if f == nil {
				continue
			}
			if e := f.Close(ctx); e != nil && err == nil {
				err = e
			}
		}
	}()
	for i, path := range fastqs {
		if files[i], err = fastq.Open(ctx, path); err != nil {
			return err
		}
	}

	c := dedup.NewCollector(opts.Opts)
	if len(files) == 1 {
		err = c.AddFASTQ(files[0].Reader())
	} else {
		err = c.AddFASTQPairs(files[0].Reader(), files[1].Reader())
	}
	if err != nil {
		return err
	}
	sel := c.Select()
	m := c.Metrics()
	log.Printf("dedup: %s: %d of %d reads are duplicates (%.2f%%)",
		fastqs[0], m.Duplicates, m.ReadsExamined, m.PercentDuplication())

	if err := writeFile(ctx, out, func(w io.Writer) error {
		return dedup.WriteDuplicates(w, sel)
	}); err != nil {
		return err
	}
	if opts.metrics != "" {
		if err := writeFile(ctx, opts.metrics, func(w io.Writer) error {
			return dedup.WriteMetrics(w, []string{sampleName(fastqs[0])}, []dedup.Metrics{m})
		}); err != nil {
			return err
		}
	}
	for i, path := range unique {
		if err := readFile(ctx, fastqs[i], func(r io.Reader) error {
			return writeFile(ctx, path, func(w io.Writer) error {
				return dedup.WriteUnique(w, r, sel)
			})
		}); err != nil {
			return err
		}
	}
	return nil
}
