// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fastq

import "io"

// Writer writes FASTQ records.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter creates a Writer on top of w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes r as a four-line record. The first error is sticky.
func (w *Writer) Write(r *Read) error {
	w.write("@", r.ID, "\n", r.Seq, "\n+\n", r.Qual, "\n")
	return w.err
}

func (w *Writer) write(parts ...string) {
	for _, p := range parts {
		if w.err != nil {
			return
		}
		_, w.err = io.WriteString(w.w, p)
	}
}
