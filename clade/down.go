// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package clade

import (
	"github.com/grailbio/taxclade/taxonomy"
)

// AllCounted returns every taxid with a direct count together with all of
// its ancestors.
func AllCounted(g *taxonomy.Graph, direct *CountTable) (taxonomy.Set, error) {
	s := taxonomy.Set{}
	visit := func(taxid int) error {
		return g.WalkAncestors(taxid, func(t int) bool {
			if s.Has(t) {
				return false
			}
			s.Add(t)
			return true
		})
	}
	for _, m := range []map[int]int64{direct.DirectAssignments, direct.DirectHits} {
		for taxid := range m {
			if err := visit(taxid); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// CountDown computes clade counts from direct counts by summing them over
// subtrees. The result holds direct and clade counts for every taxid in
// AllCounted, or only for targets if targets is non-nil.
// A target outside AllCounted has no counted descendants and gets zero.
//
// The subtree sums are computed in a single post-order pass over the counted
// part of the taxonomy, so the cost does not grow with the number of
// targets.
func CountDown(g *taxonomy.Graph, direct *CountTable, targets []int) (*CountTable, error) {
	counted, err := AllCounted(g, direct)
	if err != nil {
		return nil, err
	}
	var (
		children = map[int][]int{}
		roots    []int
	)
	for taxid := range counted {
		parent, ok := g.Parent(taxid)
		if !ok || parent == taxid || taxid == taxonomy.Unassigned || taxid == taxonomy.Root {
			roots = append(roots, taxid)
			continue
		}
		children[parent] = append(children[parent], taxid)
	}

	assignments := make(map[int]int64, len(counted))
	hits := make(map[int]int64, len(counted))
	type frame struct {
		taxid    int
		expanded bool
	}
	for _, root := range roots {
		stack := []frame{{taxid: root}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !f.expanded {
				stack = append(stack, frame{taxid: f.taxid, expanded: true})
				for _, c := range children[f.taxid] {
					stack = append(stack, frame{taxid: c})
				}
				continue
			}
			a := direct.DirectAssignments[f.taxid]
			h := direct.DirectHits[f.taxid]
			for _, c := range children[f.taxid] {
				a += assignments[c]
				h += hits[c]
			}
			assignments[f.taxid] = a
			hits[f.taxid] = h
		}
	}

	t := NewCountTable()
	if targets == nil {
		for taxid, n := range direct.DirectAssignments {
			t.DirectAssignments[taxid] = n
		}
		for taxid, n := range direct.DirectHits {
			t.DirectHits[taxid] = n
		}
		for taxid := range counted {
			t.CladeAssignments[taxid] = assignments[taxid]
			t.CladeHits[taxid] = hits[taxid]
		}
		return t, nil
	}
	for _, taxid := range targets {
		if n := direct.DirectAssignments[taxid]; n != 0 {
			t.DirectAssignments[taxid] = n
		}
		if n := direct.DirectHits[taxid]; n != 0 {
			t.DirectHits[taxid] = n
		}
		t.CladeAssignments[taxid] = assignments[taxid]
		t.CladeHits[taxid] = hits[taxid]
	}
	return t, nil
}
