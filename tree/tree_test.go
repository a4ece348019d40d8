// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tree

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/grailbio/taxclade/taxonomy"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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
	"11309\t|\t11308\t|\tgenus\t|\t\t|",
}

func testGraph(t *testing.T) *taxonomy.Graph {
	g, err := taxonomy.Build(testNodes)
	require.NoError(t, err)
	return g
}

func TestMentioned(t *testing.T) {
	g := testGraph(t)
	m, err := Mentioned(g, []int{11320, 129951})
	require.NoError(t, err)
	expect.EQ(t, m.Sorted(), []int{1, 10239, 10508, 11308, 11320, 129951})

	m, err = Mentioned(g, nil)
	require.NoError(t, err)
	expect.EQ(t, m.Sorted(), []int{1})

	_, err = Mentioned(g, []int{9606})
	_, ok := err.(*taxonomy.MissingParentError)
	expect.True(t, ok, "got %v", err)

	_, err = Mentioned(g, []int{0})
	assert.Error(t, err)
}

func TestBuildTree(t *testing.T) {
	g := testGraph(t)
	root, err := BuildTree(g, []int{11320, 129951, 11309, 562})
	require.NoError(t, err)
	b, err := json.Marshal(root)
	require.NoError(t, err)
	expect.EQ(t, string(b),
		"[1,[131567,[2,[1224,[562]]]],[10239,[10508,[129951]],[11308,[11309],[11320]]]]")
}

func TestBuildTreeClosure(t *testing.T) {
	g := testGraph(t)
	seeds := []int{11320, 129951, 11309, 562, 1224, 10239}
	mentioned, err := Mentioned(g, seeds)
	require.NoError(t, err)
	root, err := Build(g, mentioned)
	require.NoError(t, err)
	// Each mentioned taxon appears exactly once, and nothing else appears.
	expect.EQ(t, root.Taxids(), mentioned.Sorted())
	root.Walk(func(n *Node) {
		seen := map[*Node]bool{}
		for _, c := range n.Children {
			assert.False(t, seen[c], "taxid %d repeated under %d", c.Taxid, n.Taxid)
			seen[c] = true
			p, ok := g.Parent(c.Taxid)
			assert.True(t, ok)
			assert.Equal(t, n.Taxid, p)
		}
	})
}

func TestBuildRequiresClosure(t *testing.T) {
	g := testGraph(t)
	_, err := Build(g, taxonomy.NewSet(1, 11320))
	assert.Error(t, err)
	_, err = Build(g, taxonomy.NewSet(11320))
	assert.Error(t, err)
}

func TestBuildMissingParent(t *testing.T) {
	g, err := taxonomy.Build(append([]string{"30\t|\t40\t|\tspecies\t|\t\t|"}, testNodes...))
	require.NoError(t, err)
	_, err = Build(g, taxonomy.NewSet(1, 30, 40))
	e, ok := err.(*taxonomy.MissingParentError)
	require.True(t, ok, "got %v", err)
	expect.EQ(t, e.Taxid, 40)
	expect.EQ(t, e.Chain, []int{30, 40})
}

func TestSelectSeeds(t *testing.T) {
	g := testGraph(t)
	all := []int{11308, 11320, 11309, 129951}
	expect.EQ(t, SelectSeeds(g, all, nil), []int{11308, 129951})
	expect.EQ(t, SelectSeeds(g, all, taxonomy.NewSet(11320, 562)), []int{11308, 11320, 129951})
}

func TestNamesJSON(t *testing.T) {
	names := taxonomy.Names{
		1:     {"root"},
		11320: {"Influenza A virus", "influenza A"},
		562:   {"Escherichia coli"},
	}
	got := NamesJSON(names, taxonomy.NewSet(1, 11320, 10239))
	expect.EQ(t, got, map[int][]string{1: {"root"}, 11320: {"Influenza A virus", "influenza A"}})

	var buf bytes.Buffer
	require.NoError(t, WriteNamesJSON(&buf, names, taxonomy.NewSet(1)))
	expect.EQ(t, buf.String(), "{\n  \"1\": [\n    \"root\"\n  ]\n}\n")

	root, err := BuildTree(testGraph(t), []int{10239})
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, WriteJSON(&buf, root))
	expect.EQ(t, buf.String(), "[1,[10239]]\n")
}
