// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/taxclade/taxonomy"
	"github.com/klauspost/compress/gzip"
)

// writeFile creates path and passes fn a writer for it. The output is
// gzipped if path ends in ".gz".
func writeFile(ctx context.Context, path string, fn func(w io.Writer) error) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create:", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	w := out.Writer(ctx)
	if fileio.DetermineType(path) != fileio.Gzip {
		return fn(w)
	}
	gz := gzip.NewWriter(w)
	if err = fn(gz); err != nil {
		return err
	}
	return gz.Close()
}

// readFile opens path and passes fn a reader for its content, gunzipped if
// path ends in ".gz".
func readFile(ctx context.Context, path string, fn func(r io.Reader) error) (err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return errors.E(err, "open:", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	var r io.Reader = in.Reader(ctx)
	if fileio.DetermineType(path) == fileio.Gzip {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return errors.E(err, "gunzip:", path)
		}
		defer gz.Close() // nolint: errcheck
		r = gz
	}
	return fn(r)
}

// readTaxids reads a file with one taxid per line.
func readTaxids(ctx context.Context, path string) (taxids []int, err error) {
	err = readFile(ctx, path, func(r io.Reader) error {
		tr := tsv.NewReader(r)
		for {
			var row struct{ Taxid int }
			if err := tr.Read(&row); err != nil {
				if err == io.EOF {
					return nil
				}
				return errors.E(err, "read taxids:", path)
			}
			taxids = append(taxids, row.Taxid)
		}
	})
	return taxids, err
}

// writeTaxids writes one taxid per line.
func writeTaxids(ctx context.Context, path string, taxids []int) error {
	return writeFile(ctx, path, func(w io.Writer) error {
		tw := tsv.NewWriter(w)
		for _, taxid := range taxids {
			tw.WriteInt64(int64(taxid))
			if err := tw.EndLine(); err != nil {
				return err
			}
		}
		return tw.Flush()
	})
}

// loadGraph loads nodes.dmp, failing with a usage error if the flag is unset.
func loadGraph(ctx context.Context, path string) (*taxonomy.Graph, error) {
	if path == "" {
		return nil, errors.E(errors.Invalid, "-nodes must be set")
	}
	return taxonomy.LoadNodes(ctx, path)
}

// sampleName derives a sample name from a file path by dropping the
// directory and all extensions.
func sampleName(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}
