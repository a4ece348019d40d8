// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package tree nests a set of taxa and their ancestors into the display tree
// used by the dashboard.
//
// The tree is serialized as nested JSON arrays, [taxid, child, child, ...],
// where each child has the same shape. The outermost array is the root,
// taxid 1.
package tree

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/taxclade/taxonomy"
)

// Node is one taxon of a display tree.
type Node struct {
	Taxid    int
	Children []*Node

	// linked is set once the node has been appended to its parent.
	linked bool
}

// Mentioned returns the root, seeds, and all ancestors of seeds. Every seed
// must descend from the root.
func Mentioned(g *taxonomy.Graph, seeds []int) (taxonomy.Set, error) {
	s := taxonomy.NewSet(taxonomy.Root)
	for _, seed := range seeds {
		path, err := g.AncestorPath(seed)
		if err != nil {
			return nil, err
		}
		if path[len(path)-1] != taxonomy.Root {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("taxid %d does not descend from the root", seed))
		}
		for _, t := range path {
			s.Add(t)
		}
	}
	return s, nil
}

// Build nests the taxa in mentioned under the root. mentioned must be closed
// under ancestors, as returned by Mentioned.
//
// Taxa are linked in ascending taxid order: each taxon is appended to its
// parent, then the parent to the grandparent, and so on until a node that is
// already linked is reached. Every mentioned taxon thus appears exactly once.
func Build(g *taxonomy.Graph, mentioned taxonomy.Set) (*Node, error) {
	if !mentioned.Has(taxonomy.Root) {
		return nil, errors.E(errors.Invalid, "root is not mentioned")
	}
	nodes := make(map[int]*Node, len(mentioned))
	for taxid := range mentioned {
		nodes[taxid] = &Node{Taxid: taxid}
	}
	for _, taxid := range mentioned.Sorted() {
		node := nodes[taxid]
		chain := []int{taxid}
		for t := taxid; t != taxonomy.Root; {
			p, ok := g.Parent(t)
			if !ok {
				return nil, &taxonomy.MissingParentError{Taxid: t, Chain: chain}
			}
			parent := nodes[p]
			if parent == nil || p == t {
				return nil, errors.E(errors.Invalid, fmt.Sprintf("parent %d of taxid %d is not mentioned", p, t))
			}
			if node.linked {
				break
			}
			parent.Children = append(parent.Children, node)
			node.linked = true
			node, t = parent, p
			chain = append(chain, t)
		}
	}
	return nodes[taxonomy.Root], nil
}

// BuildTree computes the taxa mentioned by seeds and nests them.
func BuildTree(g *taxonomy.Graph, seeds []int) (*Node, error) {
	mentioned, err := Mentioned(g, seeds)
	if err != nil {
		return nil, err
	}
	return Build(g, mentioned)
}

// SelectSeeds picks the taxa a tree is built from: every taxon of all whose
// parent is not itself in all, plus every taxon of observed that is in all.
// The result is sorted.
func SelectSeeds(g *taxonomy.Graph, all []int, observed taxonomy.Set) []int {
	set := taxonomy.NewSet(all...)
	seeds := taxonomy.Set{}
	for _, taxid := range all {
		if p, ok := g.Parent(taxid); !ok || !set.Has(p) || p == taxid {
			seeds.Add(taxid)
		}
	}
	for taxid := range observed {
		if set.Has(taxid) {
			seeds.Add(taxid)
		}
	}
	return seeds.Sorted()
}

// Walk calls fn for n and every node below it, parents before children.
func (n *Node) Walk(fn func(*Node)) {
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(cur)
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
}

// Taxids returns every taxid in the tree, sorted.
func (n *Node) Taxids() []int {
	var taxids []int
	n.Walk(func(c *Node) { taxids = append(taxids, c.Taxid) })
	sort.Ints(taxids)
	return taxids
}

// MarshalJSON implements json.Marshaler.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	n.appendJSON(&buf)
	return buf.Bytes(), nil
}

func (n *Node) appendJSON(buf *bytes.Buffer) {
	buf.WriteByte('[')
	buf.WriteString(strconv.Itoa(n.Taxid))
	for _, c := range n.Children {
		buf.WriteByte(',')
		c.appendJSON(buf)
	}
	buf.WriteByte(']')
}
