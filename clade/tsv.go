// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package clade

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/tsv"
	"github.com/klauspost/compress/gzip"
	pkgerrors "github.com/pkg/errors"
)

// WriteTSV writes one "taxid, direct assignments, direct hits, clade
// assignments, clade hits" row per taxid, ascending. There is no header.
func WriteTSV(w io.Writer, t *CountTable) error {
	tw := tsv.NewWriter(w)
	for _, r := range t.Rows() {
		tw.WriteInt64(int64(r.Taxid))
		tw.WriteInt64(r.DirectAssignments)
		tw.WriteInt64(r.DirectHits)
		tw.WriteInt64(r.CladeAssignments)
		tw.WriteInt64(r.CladeHits)
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// ReadTSV parses the output of WriteTSV.
func ReadTSV(r io.Reader) (*CountTable, error) {
	tr := tsv.NewReader(r)
	t := NewCountTable()
	for line := 1; ; line++ {
		var row Row
		if err := tr.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, pkgerrors.Wrapf(err, "clade counts line %d", line)
		}
		t.set(row)
	}
	return t, nil
}

// Save writes t to path, gzip-compressed if the path ends in ".gz".
func Save(ctx context.Context, path string, t *CountTable) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create clade counts:", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	w := out.Writer(ctx)
	if fileio.DetermineType(path) != fileio.Gzip {
		return WriteTSV(w, t)
	}
	gz := gzip.NewWriter(w)
	if err = WriteTSV(gz, t); err != nil {
		return err
	}
	return gz.Close()
}

// Load reads a table written by Save.
func Load(ctx context.Context, path string) (t *CountTable, err error) {
	err = withReader(ctx, path, func(r io.Reader) error {
		t, err = ReadTSV(r)
		return err
	})
	return t, err
}

// LoadDirect reads a table written by WriteDirectTSV, possibly gzipped.
func LoadDirect(ctx context.Context, path string) (t *CountTable, err error) {
	err = withReader(ctx, path, func(r io.Reader) error {
		t, err = ReadDirectTSV(r)
		return err
	})
	return t, err
}

func withReader(ctx context.Context, path string, fn func(io.Reader) error) (err error) {
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
	if err := fn(r); err != nil {
		return errors.E(err, "read:", path)
	}
	return nil
}
