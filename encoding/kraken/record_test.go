// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package kraken

import (
	"bytes"
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	rec, err := Parse("C\tread1\tEscherichia coli (taxid 562)\t151|149\t562:12 A:3 2:1 |:| 562:5 0:40")
	require.NoError(t, err)
	expect.EQ(t, rec, Record{
		Classified: true,
		ReadID:     "read1",
		Label:      "Escherichia coli (taxid 562)",
		Taxid:      562,
		Length:     "151|149",
		Hits:       []Hit{{562, 12}, {2, 1}, {562, 5}, {0, 40}},
	})
	expect.EQ(t, rec.HitTaxids(), []int{562, 2, 0})
}

func TestParseUnclassified(t *testing.T) {
	rec, err := Parse("U\tread2\tunclassified (taxid 0)\t100\t0:66")
	require.NoError(t, err)
	expect.False(t, rec.Classified)
	expect.EQ(t, rec.Taxid, 0)
	expect.EQ(t, rec.Hits, []Hit{{0, 66}})
}

func TestParseNameWithParens(t *testing.T) {
	rec, err := Parse("C\tr\tInfluenza A virus (A/Puerto Rico/8/1934(H1N1)) (taxid 211044)\t90\t211044:56")
	require.NoError(t, err)
	expect.EQ(t, rec.Taxid, 211044)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		line       string
		assignment bool
	}{
		{"C\tread1\tEscherichia coli\t151\t562:12", true},
		{"C\tread1\t562\t151\t562:12", true},
		{"C\tread1\tEscherichia coli (taxid 562) extra\t151\t562:12", true},
		{"C\tread1\tEscherichia coli (taxid 562)\t151", false},
		{"C\tread1\tEscherichia coli (taxid 562)\t151\t562", false},
		{"C\tread1\tEscherichia coli (taxid 562)\t151\t562:x", false},
		{"C\tread1\tEscherichia coli (taxid 562)\t151\tB:4", false},
	}
	for _, test := range tests {
		_, err := Parse(test.line)
		require.Error(t, err, test.line)
		_, isAssignment := err.(*UnparsableAssignmentError)
		_, isMalformed := err.(*MalformedLineError)
		assert.Equal(t, test.assignment, isAssignment, test.line)
		assert.Equal(t, !test.assignment, isMalformed, test.line)
	}
}

const testOutput = `C	r1	Escherichia coli (taxid 562)	151	562:12 A:3

C	r2	Bacteria (taxid 2)	151	2:4 562:3
U	r3	unclassified (taxid 0)	151	0:117
`

func TestScanner(t *testing.T) {
	sc := NewScanner(strings.NewReader(testOutput))
	var ids []string
	var lines []int
	for sc.Scan() {
		ids = append(ids, sc.Record().ReadID)
		lines = append(lines, sc.Line())
	}
	require.NoError(t, sc.Err())
	expect.EQ(t, ids, []string{"r1", "r2", "r3"})
	expect.EQ(t, lines, []int{1, 3, 4})
	assert.NoError(t, sc.Close())
}

func TestScannerStopsOnBadLine(t *testing.T) {
	sc := NewScanner(strings.NewReader("C\tr1\tEscherichia coli (taxid 562)\t151\t562:12\nC\tr2\tno taxid\t1\t2:1\nC\tr3\tBacteria (taxid 2)\t1\t2:1\n"))
	n := 0
	for sc.Scan() {
		n++
	}
	expect.EQ(t, n, 1)
	require.Error(t, sc.Err())
	assert.Contains(t, sc.Err().Error(), "line 2")
	_, ok := errors.Cause(sc.Err()).(*UnparsableAssignmentError)
	assert.True(t, ok)
	expect.False(t, sc.Scan())
}

func TestOpenGzip(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(dir, "sample.kraken2.tsv.gz")
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(testOutput))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, ioutil.WriteFile(path, buf.Bytes(), 0644))

	sc, err := Open(context.Background(), path)
	require.NoError(t, err)
	n := 0
	for sc.Scan() {
		n++
	}
	require.NoError(t, sc.Err())
	require.NoError(t, sc.Close())
	expect.EQ(t, n, 3)
}
