// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package taxonomy

import "sort"

// RespiratoryBacteria are the bacterial respiratory pathogens that are always
// reported as key clades: the CDC travel respiratory-infection list plus
// tuberculosis.
var RespiratoryBacteria = []int{
	28450, // Burkholderia pseudomallei
	520,   // Bordetella pertussis
	83558, // Chlamydia pneumoniae
	1717,  // Corynebacterium diphtheriae
	727,   // Haemophilus influenzae
	2104,  // Mycoplasmoides pneumoniae
	1313,  // Streptococcus pneumoniae
	1773,  // Mycobacterium tuberculosis
}

// KeyClades returns the clades that reports always show, in ascending order:
// unassigned, root, Bacteria, Viruses, the given extra taxids, and the direct
// children of root, Bacteria and Viruses.
func KeyClades(g *Graph, extra ...int) []int {
	s := NewSet(Unassigned, Root, Bacteria, Viruses)
	for _, t := range extra {
		s.Add(t)
	}
	for _, parent := range []int{Root, Bacteria, Viruses} {
		for _, child := range g.Children(parent) {
			s.Add(child)
		}
	}
	return s.Sorted()
}

// ExpandClades returns every seed together with all of its descendants, in
// ascending order. Seed lists from external host databases often name a
// species but not its strains; this fills them in.
func ExpandClades(g *Graph, seeds []int) []int {
	s := Set{}
	for _, seed := range seeds {
		g.addDescendants(seed, s)
	}
	return s.Sorted()
}

// Bucket assigns each taxid to the first of the bucket roots found on its
// ancestor path (e.g. Bacteria or Viruses). Taxids that fall under none of
// the buckets are left out. Each result list is in ascending order.
func Bucket(g *Graph, taxids []int, buckets []int) (map[int][]int, error) {
	roots := NewSet(buckets...)
	result := make(map[int][]int, len(buckets))
	for _, b := range buckets {
		result[b] = []int{}
	}
	for _, taxid := range taxids {
		bucket := -1
		if err := g.WalkAncestors(taxid, func(t int) bool {
			if roots.Has(t) {
				bucket = t
				return false
			}
			return true
		}); err != nil {
			return nil, err
		}
		if bucket >= 0 {
			result[bucket] = append(result[bucket], taxid)
		}
	}
	for _, list := range result {
		sort.Ints(list)
	}
	return result, nil
}
