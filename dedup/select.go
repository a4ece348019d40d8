// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package dedup

import (
	"sort"

	"github.com/grailbio/base/log"
)

// Collector groups the reads of one sample by DuplicateKey. Reads are added
// one at a time; Select picks the representatives once all reads are in.
// Collector is not threadsafe.
type Collector struct {
	opts    Opts
	groups  map[DuplicateKey][]string
	metrics Metrics
}

// NewCollector creates an empty Collector.
func NewCollector(opts Opts) *Collector {
	return &Collector{opts: opts, groups: map[DuplicateKey][]string{}}
}

// Add registers one read or read pair.
func (c *Collector) Add(r ReadRecord) {
	c.metrics.ReadsExamined++
	key, ok := CanonicalKey(r, c.opts.K)
	if !ok {
		c.metrics.Unkeyed++
		return
	}
	c.groups[key] = append(c.groups[key], r.ID)
}

// Select chooses one representative per duplicate group, the read with the
// smallest ID, and returns every other read as a duplicate of it.
func (c *Collector) Select() *Selection {
	sel := &Selection{representative: map[string]string{}}
	c.metrics.Groups = len(c.groups)
	c.metrics.Duplicates = 0
	for _, ids := range c.groups {
		if len(ids) < 2 {
			continue
		}
		sort.Strings(ids)
		for i := 1; i < len(ids); i++ {
			if ids[i] == ids[i-1] {
				// A read added twice is not its own duplicate.
				continue
			}
			sel.representative[ids[i]] = ids[0]
			c.metrics.Duplicates++
		}
	}
	log.Debug.Printf("dedup: %d reads, %d unkeyed, %d groups, %d duplicates",
		c.metrics.ReadsExamined, c.metrics.Unkeyed, c.metrics.Groups, c.metrics.Duplicates)
	return sel
}

// Metrics returns the statistics gathered so far. Groups and Duplicates are
// filled in by Select.
func (c *Collector) Metrics() Metrics { return c.metrics }

// GroupAndSelect runs a Collector over records.
func GroupAndSelect(records []ReadRecord, opts Opts) (*Selection, Metrics) {
	c := NewCollector(opts)
	for _, r := range records {
		c.Add(r)
	}
	sel := c.Select()
	return sel, c.Metrics()
}

// Selection is the outcome of deduplicating one sample.
type Selection struct {
	// representative maps each duplicate read ID to the ID of the read that
	// represents its group. Representatives and unique reads are absent.
	representative map[string]string
}

// IsDuplicate reports whether the read must be excluded from counting.
func (s *Selection) IsDuplicate(readID string) bool {
	if s == nil {
		return false
	}
	_, ok := s.representative[readID]
	return ok
}

// Representative returns the read that stands for readID: its group's
// representative if readID is a duplicate, else readID itself.
func (s *Selection) Representative(readID string) string {
	if rep, ok := s.representative[readID]; ok {
		return rep
	}
	return readID
}

// Len returns the number of duplicate reads.
func (s *Selection) Len() int { return len(s.representative) }

// Duplicates returns the duplicate read IDs in ascending order.
func (s *Selection) Duplicates() []string {
	ids := make([]string, 0, len(s.representative))
	for id := range s.representative {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
