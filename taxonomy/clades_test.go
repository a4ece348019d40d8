// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package taxonomy

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(i int) string { return strconv.Itoa(i) }

func TestKeyClades(t *testing.T) {
	g := testGraph(t)
	expect.EQ(t, KeyClades(g), []int{0, 1, 2, 1224, 10239, 10508, 11308, 131567})
	expect.EQ(t, KeyClades(g, 1773, 2), []int{0, 1, 2, 1224, 1773, 10239, 10508, 11308, 131567})
}

func TestExpandClades(t *testing.T) {
	g := testGraph(t)
	expect.EQ(t, ExpandClades(g, []int{10508, 11320}), []int{10508, 11320, 129951})
	expect.EQ(t, len(ExpandClades(g, nil)), 0)
}

func TestBucket(t *testing.T) {
	g := testGraph(t)
	got, err := Bucket(g, []int{11320, 562, 131567, 2, 129951}, []int{Bacteria, Viruses})
	require.NoError(t, err)
	expect.EQ(t, got, map[int][]int{
		Bacteria: {2, 562},
		Viruses:  {11320, 129951},
	})

	_, err = Bucket(g, []int{31337}, []int{Bacteria})
	_, ok := err.(*MissingParentError)
	assert.True(t, ok)
}

func TestReadNames(t *testing.T) {
	dump := strings.Join([]string{
		"562\t|\tBacillus coli\t|\t\t|\tsynonym\t|",
		"562\t|\tEscherichia coli\t|\t\t|\tscientific name\t|",
		"562\t|\tE. coli\t|\t\t|\tcommon name\t|",
		"2\t|\tBacteria\t|\tBacteria <bacteria>\t|\tscientific name\t|",
		"10239\t|\tViruses\t|\t\t|\tscientific name\t|",
	}, "\n")
	names, err := ReadNames(strings.NewReader(dump), nil)
	require.NoError(t, err)
	expect.EQ(t, names[562], []string{"Escherichia coli", "Bacillus coli", "E. coli"})
	expect.EQ(t, names.Scientific(2), "Bacteria")
	expect.EQ(t, names.Scientific(9606), "")

	names, err = ReadNames(strings.NewReader(dump), func(taxid int) bool { return taxid == 10239 })
	require.NoError(t, err)
	expect.EQ(t, len(names), 1)

	_, err = ReadNames(strings.NewReader("562\t|\tEscherichia coli\t|"), nil)
	_, ok := err.(*MalformedTaxonomyError)
	assert.True(t, ok)
}

func TestSeedList(t *testing.T) {
	seeds, err := ReadSeedList(strings.NewReader("10508\tAdenoviridae\n11320\tInfluenza A virus\n"))
	require.NoError(t, err)
	expect.EQ(t, seeds, []Seed{{10508, "Adenoviridae"}, {11320, "Influenza A virus"}})
	expect.EQ(t, SeedSet(seeds).Sorted(), []int{10508, 11320})

	var buf bytes.Buffer
	require.NoError(t, WriteSeedList(&buf, seeds))
	expect.EQ(t, buf.String(), "10508\tAdenoviridae\n11320\tInfluenza A virus\n")
}
