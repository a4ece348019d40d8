// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package clade

import (
	"io"
	"sort"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/taxclade/taxonomy"
)

// TaxonCount is a count attached to one taxid.
type TaxonCount struct {
	Taxid int
	Count int64
	Name  string
}

// WriteTaxonCounts writes "taxid<TAB>count<TAB>name" rows.
func WriteTaxonCounts(w io.Writer, counts []TaxonCount) error {
	tw := tsv.NewWriter(w)
	for _, c := range counts {
		tw.WriteInt64(int64(c.Taxid))
		tw.WriteInt64(c.Count)
		tw.WriteString(c.Name)
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// HumanVirusCounts returns the direct assignments of every seed taxon that
// has any, in ascending taxid order.
func HumanVirusCounts(t *CountTable, seeds []taxonomy.Seed) []TaxonCount {
	var counts []TaxonCount
	for _, s := range seeds {
		if n := t.DirectAssignments[s.Taxid]; n > 0 {
			counts = append(counts, TaxonCount{Taxid: s.Taxid, Count: n, Name: s.Name})
		}
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Taxid < counts[j].Taxid })
	return counts
}

// byCountDesc orders by count, then taxid, both descending.
func byCountDesc(c []TaxonCount) func(i, j int) bool {
	return func(i, j int) bool {
		if c[i].Count != c[j].Count {
			return c[i].Count > c[j].Count
		}
		return c[i].Taxid > c[j].Taxid
	}
}

func topN(c []TaxonCount, n int) []TaxonCount {
	sort.Slice(c, byCountDesc(c))
	if len(c) > n {
		c = c[:n]
	}
	return c
}

// TopTaxa picks the taxa to compare across samples: the n taxa with the
// most direct assignments, plus the n viral taxa with the most. Taxa with
// minCount or fewer assignments are dropped. The result is ordered by count,
// largest first.
func TopTaxa(direct *CountTable, g *taxonomy.Graph, n int, minCount int64) []TaxonCount {
	viruses := g.Descendants(taxonomy.Viruses)
	var all, viral []TaxonCount
	for taxid, count := range direct.DirectAssignments {
		c := TaxonCount{Taxid: taxid, Count: count}
		all = append(all, c)
		if viruses.Has(taxid) {
			viral = append(viral, c)
		}
	}
	seen := map[int]bool{}
	var top []TaxonCount
	for _, c := range append(topN(all, n), topN(viral, n)...) {
		if seen[c.Taxid] || c.Count <= minCount {
			continue
		}
		seen[c.Taxid] = true
		top = append(top, c)
	}
	sort.Slice(top, byCountDesc(top))
	return top
}

// CompareCounts returns, per sample, the clade assignments of each target
// taxid that occurs in the sample's table. targets may repeat.
func CompareCounts(tables map[string]*CountTable, targets []int) map[string]map[int]int64 {
	want := taxonomy.NewSet(targets...)
	out := make(map[string]map[int]int64, len(tables))
	for sample, t := range tables {
		m := map[int]int64{}
		for taxid := range want {
			if n, ok := t.CladeAssignments[taxid]; ok {
				m[taxid] = n
			}
		}
		out[sample] = m
	}
	return out
}

// Category is one row of the read category report.
type Category struct {
	Taxid  int
	Name   string
	Parent int
	Count  int64
}

// Categories lists the taxa of the read category report, in output order.
var Categories = []Category{
	{Taxid: taxonomy.Unassigned, Name: "unmatched", Parent: taxonomy.Unassigned},
	{Taxid: taxonomy.Root, Name: "root", Parent: taxonomy.Root},
	{Taxid: taxonomy.Viruses, Name: "Viruses", Parent: taxonomy.Root},
	{Taxid: taxonomy.CellularOrganisms, Name: "cellular organisms", Parent: taxonomy.Root},
	{Taxid: taxonomy.OtherEntries, Name: "other entries", Parent: taxonomy.Root},
	{Taxid: taxonomy.UnclassifiedEntries, Name: "unclassified entries", Parent: taxonomy.Root},
	{Taxid: taxonomy.Bacteria, Name: "Bacteria", Parent: taxonomy.CellularOrganisms},
	{Taxid: taxonomy.Eukaryota, Name: "Eukaryota", Parent: taxonomy.CellularOrganisms},
	{Taxid: taxonomy.Archaea, Name: "Archaea", Parent: taxonomy.CellularOrganisms},
}

// CategoryCounts fills in the clade assignments of each of Categories.
func CategoryCounts(t *CountTable) []Category {
	out := make([]Category, len(Categories))
	for i, c := range Categories {
		c.Count = t.CladeAssignments[c.Taxid]
		out[i] = c
	}
	return out
}

// WriteCategories writes the category report with a header row.
func WriteCategories(w io.Writer, cats []Category) error {
	tw := tsv.NewWriter(w)
	tw.WriteString("taxid\ttaxname\tparent taxid\tcount")
	if err := tw.EndLine(); err != nil {
		return err
	}
	for _, c := range cats {
		tw.WriteInt64(int64(c.Taxid))
		tw.WriteString(c.Name)
		tw.WriteInt64(int64(c.Parent))
		tw.WriteInt64(c.Count)
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}
