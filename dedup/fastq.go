// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package dedup

import (
	"io"

	"github.com/grailbio/taxclade/encoding/fastq"
)

// AddFASTQ adds every read of a single-end (or merged) FASTQ stream. Read
// IDs are normalized with fastq.ReadName so that they match the IDs in
// classification output.
func (c *Collector) AddFASTQ(r io.Reader) error {
	sc := fastq.NewScanner(r)
	var read fastq.Read
	for sc.Scan(&read) {
		c.Add(ReadRecord{ID: read.Name(), Seq: read.Seq})
	}
	return sc.Err()
}

// AddFASTQPairs adds every pair from two parallel FASTQ streams.
func (c *Collector) AddFASTQPairs(r1, r2 io.Reader) error {
	sc := fastq.NewPairScanner(r1, r2)
	var a, b fastq.Read
	for sc.Scan(&a, &b) {
		c.Add(ReadRecord{ID: a.Name(), Seq: a.Seq, Mate: b.Seq, Paired: true})
	}
	return sc.Err()
}

// WriteUnique copies the FASTQ stream r to w, dropping every read that sel
// marks as a duplicate. For pairs, call it once per mate file.
func WriteUnique(w io.Writer, r io.Reader, sel *Selection) error {
	sc := fastq.NewScanner(r)
	fw := fastq.NewWriter(w)
	var read fastq.Read
	for sc.Scan(&read) {
		if sel.IsDuplicate(read.Name()) {
			continue
		}
		if err := fw.Write(&read); err != nil {
			return err
		}
	}
	return sc.Err()
}
