// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package taxonomy

import (
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testNodes is a small slice of the real taxonomy:
//
//   1 root
//   ├── 131567 cellular organisms
//   │   └── 2 Bacteria
//   │       └── 1224 Proteobacteria
//   │           └── 562 E. coli
//   └── 10239 Viruses
//       ├── 10508 Adenoviridae
//       │   └── 129951 Human mastadenovirus A
//       └── 11308 Orthomyxoviridae
//           └── 11320 Influenza A virus
var testNodes = []string{
	"1\t|\t1\t|\tno rank\t|\t\t|",
	"131567\t|\t1\t|\tno rank\t|\t\t|",
	"2\t|\t131567\t|\tsuperkingdom\t|\t\t|",
	"1224\t|\t2\t|\tphylum\t|\t\t|",
	"562\t|\t1224\t|\tspecies\t|\t\t|",
	"10239\t|\t1\t|\tsuperkingdom\t|\t\t|",
	"10508\t|\t10239\t|\tfamily\t|\t\t|",
	"129951\t|\t10508\t|\tspecies\t|\t\t|",
	"11308\t|\t10239\t|\tfamily\t|\t\t|",
	"11320\t|\t11308\t|\tspecies\t|\t\t|",
}

func testGraph(t *testing.T) *Graph {
	g, err := Build(testNodes)
	require.NoError(t, err)
	return g
}

func TestBuild(t *testing.T) {
	g := testGraph(t)
	expect.EQ(t, g.Len(), len(testNodes))
	parent, ok := g.Parent(562)
	expect.True(t, ok)
	expect.EQ(t, parent, 1224)
	expect.EQ(t, g.Rank(2), "superkingdom")
	expect.EQ(t, g.Children(10239), []int{10508, 11308})
	// The root is its own parent but never its own child.
	expect.EQ(t, g.Children(1), []int{131567, 10239})
	expect.False(t, g.Has(9606))
}

func TestReadNodesMatchesBuild(t *testing.T) {
	g, err := ReadNodes(strings.NewReader(strings.Join(testNodes, "\n") + "\n\n"))
	require.NoError(t, err)
	expect.EQ(t, g.Len(), len(testNodes))
	path, err := g.AncestorPath(11320)
	require.NoError(t, err)
	expect.EQ(t, path, []int{11320, 11308, 10239, 1})
}

func TestBuildMalformed(t *testing.T) {
	for _, line := range []string{
		"12\t|\t1",
		"x\t|\t1\t|\tspecies\t|",
		"12\t|\ty\t|\tspecies\t|",
	} {
		_, err := Build([]string{"1\t|\t1\t|\tno rank\t|", line})
		require.Error(t, err, line)
		e, ok := err.(*MalformedTaxonomyError)
		require.True(t, ok, "%v", err)
		assert.Equal(t, 2, e.Line)
		assert.Contains(t, err.Error(), "line 2")
	}
	_, err := Build([]string{"1\t|\t1\t|\tno rank\t|", "1\t|\t1\t|\tno rank\t|"})
	assert.Error(t, err)
}

func TestAncestorPath(t *testing.T) {
	g := testGraph(t)
	tests := []struct {
		taxid int
		want  []int
	}{
		{562, []int{562, 1224, 2, 131567, 1}},
		{1, []int{1}},
		{0, []int{0}},
		{129951, []int{129951, 10508, 10239, 1}},
	}
	for _, test := range tests {
		path, err := g.AncestorPath(test.taxid)
		require.NoError(t, err)
		expect.EQ(t, path, test.want)
	}
}

func TestAncestorPathTerminatesEverywhere(t *testing.T) {
	g := testGraph(t)
	for taxid := range g.nodes {
		path, err := g.AncestorPath(taxid)
		require.NoError(t, err)
		assert.True(t, len(path) <= g.Len())
		last := path[len(path)-1]
		assert.True(t, last == Root || last == Unassigned, "taxid %d ended at %d", taxid, last)
	}
}

func TestSelfParentTerminates(t *testing.T) {
	g, err := Build([]string{
		"7\t|\t7\t|\tno rank\t|",
		"8\t|\t7\t|\tspecies\t|",
	})
	require.NoError(t, err)
	path, err := g.AncestorPath(8)
	require.NoError(t, err)
	expect.EQ(t, path, []int{8, 7})
}

func TestMissingParent(t *testing.T) {
	g, err := Build([]string{
		"1\t|\t1\t|\tno rank\t|",
		"5\t|\t4\t|\tgenus\t|",
		"6\t|\t5\t|\tspecies\t|",
	})
	require.NoError(t, err)
	_, err = g.AncestorPath(6)
	require.Error(t, err)
	e, ok := err.(*MissingParentError)
	require.True(t, ok, "%v", err)
	expect.EQ(t, e.Taxid, 4)
	expect.EQ(t, e.Chain, []int{6, 5, 4})
	assert.Contains(t, err.Error(), "6,5,4")

	_, err = g.AncestorPath(99)
	e, ok = err.(*MissingParentError)
	require.True(t, ok)
	expect.EQ(t, e.Chain, []int{99})
}

func TestParentCycle(t *testing.T) {
	g, err := Build([]string{
		"3\t|\t4\t|\tno rank\t|",
		"4\t|\t3\t|\tno rank\t|",
	})
	require.NoError(t, err)
	_, err = g.AncestorPath(3)
	_, ok := err.(*MalformedTaxonomyError)
	assert.True(t, ok, "%v", err)
}

func TestIsUnder(t *testing.T) {
	g := testGraph(t)
	for _, test := range []struct {
		clade, taxid int
		want         bool
	}{
		{2, 562, true},
		{562, 562, true},
		{1, 11320, true},
		{10239, 562, false},
		{562, 2, false},
	} {
		got, err := g.IsUnder(test.clade, test.taxid)
		require.NoError(t, err)
		assert.Equal(t, test.want, got, "IsUnder(%d, %d)", test.clade, test.taxid)
	}
	_, err := g.IsUnder(1, 424242)
	assert.Error(t, err)
}

func TestDescendants(t *testing.T) {
	g := testGraph(t)
	expect.EQ(t, g.Descendants(10239).Sorted(), []int{10239, 10508, 11308, 11320, 129951})
	expect.EQ(t, g.Descendants(562).Sorted(), []int{562})
	expect.EQ(t, len(g.Descendants(1)), g.Len())
	// Unknown taxids are their own (empty) clade.
	expect.EQ(t, g.Descendants(5).Sorted(), []int{5})
}

func TestDescendantsDeepChain(t *testing.T) {
	// A long unary chain must not depend on recursion depth.
	const depth = 200000
	lines := []string{"1\t|\t1\t|\tno rank\t|"}
	for i := 2; i <= depth; i++ {
		lines = append(lines, strings.Join([]string{itoa(i), itoa(i - 1), "no rank", ""}, "\t|\t"))
	}
	g, err := Build(lines)
	require.NoError(t, err)
	expect.EQ(t, len(g.Descendants(1)), depth)
}
