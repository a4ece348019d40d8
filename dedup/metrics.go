// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package dedup

import (
	"fmt"
	"io"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
)

// Metrics summarizes deduplication of one sample.
type Metrics struct {
	// ReadsExamined is the number of reads (or pairs) added.
	ReadsExamined int
	// Unkeyed is the number of reads that could not be keyed and were
	// kept as unique.
	Unkeyed int
	// Groups is the number of distinct keys among keyed reads.
	Groups int
	// Duplicates is the number of reads excluded as duplicates.
	Duplicates int
}

// PercentDuplication is the share of examined reads that are duplicates.
func (m Metrics) PercentDuplication() float64 {
	if m.ReadsExamined == 0 {
		return 0
	}
	return 100 * float64(m.Duplicates) / float64(m.ReadsExamined)
}

// EstimatedLibrarySize estimates the number of distinct fragments in the
// library from the keyed reads. It returns 0 if there are no duplicates.
func (m Metrics) EstimatedLibrarySize() uint64 {
	keyed := uint64(m.ReadsExamined - m.Unkeyed)
	size, err := estimateLibrarySize(keyed, uint64(m.Groups))
	if err != nil {
		if err != errNoDuplicates {
			log.Error.Printf("estimateLibrarySize(%d, %d): %v", keyed, m.Groups, err)
		}
		return 0
	}
	return size
}

// Add accumulates other into m.
func (m *Metrics) Add(other Metrics) {
	m.ReadsExamined += other.ReadsExamined
	m.Unkeyed += other.Unkeyed
	m.Groups += other.Groups
	m.Duplicates += other.Duplicates
}

// WriteMetrics writes per-sample metrics as a TSV with a header row.
func WriteMetrics(w io.Writer, samples []string, metrics []Metrics) error {
	if len(samples) != len(metrics) {
		return fmt.Errorf("dedup: %d samples but %d metrics", len(samples), len(metrics))
	}
	tw := tsv.NewWriter(w)
	tw.WriteString("SAMPLE\tREADS_EXAMINED\tUNKEYED_READS\tDUPLICATE_GROUPS\tDUPLICATES\tPERCENT_DUPLICATION\tESTIMATED_LIBRARY_SIZE")
	if err := tw.EndLine(); err != nil {
		return err
	}
	for i, m := range metrics {
		tw.WriteString(samples[i])
		tw.WriteInt64(int64(m.ReadsExamined))
		tw.WriteInt64(int64(m.Unkeyed))
		tw.WriteInt64(int64(m.Groups))
		tw.WriteInt64(int64(m.Duplicates))
		tw.WriteString(fmt.Sprintf("%0.6f", m.PercentDuplication()))
		tw.WriteInt64(int64(m.EstimatedLibrarySize()))
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteDuplicates writes "read_id<TAB>representative_id" rows, one per
// duplicate, sorted by read ID.
func WriteDuplicates(w io.Writer, sel *Selection) error {
	tw := tsv.NewWriter(w)
	for _, id := range sel.Duplicates() {
		tw.WriteString(id)
		tw.WriteString(sel.Representative(id))
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// ReadDuplicates parses the output of WriteDuplicates back into a Selection.
func ReadDuplicates(r io.Reader) (*Selection, error) {
	tr := tsv.NewReader(r)
	sel := &Selection{representative: map[string]string{}}
	for {
		var row struct {
			ReadID, Representative string
		}
		if err := tr.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		sel.representative[row.ReadID] = row.Representative
	}
	return sel, nil
}
