// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fastq

import (
	"context"
	"io"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// File is an open, possibly compressed, FASTQ file.
type File struct {
	in file.File
	r  io.Reader
	u  io.ReadCloser
}

// Open opens a FASTQ file for reading. Compression is detected from the path
// suffix.
func Open(ctx context.Context, path string) (*File, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open fastq:", path)
	}
	f := &File{in: in, r: in.Reader(ctx)}
	if u := compress.NewReaderPath(f.r, in.Name()); u != nil {
		f.u = u
		f.r = u
	}
	return f, nil
}

// Reader returns the uncompressed content.
func (f *File) Reader() io.Reader { return f.r }

// Close closes the decompressor and the file.
func (f *File) Close(ctx context.Context) error {
	var err error
	if f.u != nil {
		err = f.u.Close()
	}
	if e := f.in.Close(ctx); e != nil && err == nil {
		err = e
	}
	return err
}
