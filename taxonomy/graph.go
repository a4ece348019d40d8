// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package taxonomy

import (
	"bufio"
	"context"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// Well-known taxids.
const (
	Unassigned          = 0
	Root                = 1
	Bacteria            = 2
	Archaea             = 2157
	Eukaryota           = 2759
	Viruses             = 10239
	CellularOrganisms   = 131567
	UnclassifiedEntries = 2787823
	OtherEntries        = 2787854
)

// dmpFieldSep separates fields in NCBI .dmp files. Each line also ends in
// "\t|".
const dmpFieldSep = "\t|\t"

// Node is one nodes.dmp record.
type Node struct {
	Taxid  int
	Parent int
	Rank   string
}

// Graph is the taxonomy tree. It is immutable once built and safe for
// concurrent readers.
type Graph struct {
	nodes    map[int]Node
	children map[int][]int
}

// splitDmpLine splits one .dmp line into its fields, dropping the trailing
// "\t|" terminator.
func splitDmpLine(line string) []string {
	line = strings.TrimRight(line, "\r\n")
	line = strings.TrimSuffix(line, "\t|")
	return strings.Split(line, dmpFieldSep)
}

func parseNodeLine(line string, lineno int) (Node, error) {
	fields := splitDmpLine(line)
	if len(fields) < 3 {
		return Node{}, &MalformedTaxonomyError{Line: lineno, Text: line, Reason: "expected at least 3 fields"}
	}
	child, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return Node{}, &MalformedTaxonomyError{Line: lineno, Text: line, Reason: "bad taxid"}
	}
	parent, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return Node{}, &MalformedTaxonomyError{Line: lineno, Text: line, Reason: "bad parent taxid"}
	}
	return Node{Taxid: child, Parent: parent, Rank: strings.TrimSpace(fields[2])}, nil
}

type builder struct {
	g      *Graph
	lineno int
}

func newBuilder() *builder {
	return &builder{g: &Graph{nodes: map[int]Node{}, children: map[int][]int{}}}
}

func (b *builder) add(line string) error {
	b.lineno++
	if strings.TrimSpace(line) == "" {
		return nil
	}
	n, err := parseNodeLine(line, b.lineno)
	if err != nil {
		return err
	}
	if _, ok := b.g.nodes[n.Taxid]; ok {
		return &MalformedTaxonomyError{Line: b.lineno, Text: line, Reason: "duplicate taxid"}
	}
	b.g.nodes[n.Taxid] = n
	if n.Taxid != n.Parent {
		b.g.children[n.Parent] = append(b.g.children[n.Parent], n.Taxid)
	}
	return nil
}

// Build constructs a Graph from nodes.dmp lines. Blank lines are ignored.
func Build(lines []string) (*Graph, error) {
	b := newBuilder()
	for _, line := range lines {
		if err := b.add(line); err != nil {
			return nil, err
		}
	}
	return b.g, nil
}

// ReadNodes constructs a Graph by streaming nodes.dmp content from r.
func ReadNodes(r io.Reader) (*Graph, error) {
	b := newBuilder()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), 1<<20)
	for sc.Scan() {
		if err := b.add(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return b.g, nil
}

// LoadNodes reads a nodes.dmp file at the given path.
func LoadNodes(ctx context.Context, path string) (g *Graph, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open taxonomy nodes:", path)
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if g, err = ReadNodes(in.Reader(ctx)); err != nil {
		return nil, errors.E(err, "read taxonomy nodes:", path)
	}
	log.Printf("loaded %d taxonomy nodes from %s", g.Len(), path)
	return g, nil
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// Has reports whether the graph holds a record for taxid.
func (g *Graph) Has(taxid int) bool {
	_, ok := g.nodes[taxid]
	return ok
}

// Parent returns the parent of taxid and whether taxid is known.
func (g *Graph) Parent(taxid int) (int, bool) {
	n, ok := g.nodes[taxid]
	return n.Parent, ok
}

// Rank returns the rank of taxid, or "" if unknown.
func (g *Graph) Rank(taxid int) string { return g.nodes[taxid].Rank }

// Children returns the direct children of taxid in dump order. The returned
// slice must not be modified.
func (g *Graph) Children(taxid int) []int { return g.children[taxid] }

// isTerminal reports whether an ancestor walk stops after visiting taxid.
func isTerminal(taxid int) bool { return taxid == Unassigned || taxid == Root }

// WalkAncestors calls fn for taxid and then for each of its ancestors, root
// last. The walk stops after a sentinel (0 or 1), after a self-parented node,
// or as soon as fn returns false. It fails with *MissingParentError if a
// non-sentinel taxid on the way has no parent record.
func (g *Graph) WalkAncestors(taxid int, fn func(int) bool) error {
	start := taxid
	for steps := 0; ; steps++ {
		if steps > len(g.nodes) {
			return &MalformedTaxonomyError{Text: strconv.Itoa(start), Reason: "parent cycle"}
		}
		if !fn(taxid) || isTerminal(taxid) {
			return nil
		}
		n, ok := g.nodes[taxid]
		if !ok {
			return &MissingParentError{Taxid: taxid, Chain: g.chain(start, taxid)}
		}
		if n.Parent == taxid {
			return nil
		}
		taxid = n.Parent
	}
}

// chain lists the taxids from start up to and including end. It is only
// called after a failed walk, so the fast path never allocates.
func (g *Graph) chain(start, end int) []int {
	var c []int
	for t := start; ; t = g.nodes[t].Parent {
		c = append(c, t)
		if t == end {
			return c
		}
	}
}

// AncestorPath returns taxid followed by all of its ancestors, ending at the
// terminating sentinel or self-parented node.
func (g *Graph) AncestorPath(taxid int) ([]int, error) {
	var path []int
	if err := g.WalkAncestors(taxid, func(t int) bool {
		path = append(path, t)
		return true
	}); err != nil {
		return nil, err
	}
	return path, nil
}

// IsUnder reports whether cladeRoot is taxid or one of its ancestors.
func (g *Graph) IsUnder(cladeRoot, taxid int) (bool, error) {
	found := false
	err := g.WalkAncestors(taxid, func(t int) bool {
		found = t == cladeRoot
		return !found
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// Descendants returns taxid and every node below it.
func (g *Graph) Descendants(taxid int) Set {
	s := Set{}
	g.addDescendants(taxid, s)
	return s
}

func (g *Graph) addDescendants(taxid int, s Set) {
	stack := []int{taxid}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.Has(t) {
			continue
		}
		s.Add(t)
		stack = append(stack, g.children[t]...)
	}
}

// Set is a set of taxids.
type Set map[int]struct{}

// NewSet creates a set holding the given taxids.
func NewSet(taxids ...int) Set {
	s := make(Set, len(taxids))
	for _, t := range taxids {
		s.Add(t)
	}
	return s
}

// Add inserts taxid.
func (s Set) Add(taxid int) { s[taxid] = struct{}{} }

// Has reports whether taxid is in s.
func (s Set) Has(taxid int) bool {
	_, ok := s[taxid]
	return ok
}

// Sorted returns the members of s in ascending order.
func (s Set) Sorted() []int {
	r := make([]int, 0, len(s))
	for t := range s {
		r = append(r, t)
	}
	sort.Ints(r)
	return r
}
