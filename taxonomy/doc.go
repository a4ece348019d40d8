// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*
Package taxonomy loads the NCBI taxonomy dump (nodes.dmp, names.dmp) into an
immutable parent/children graph and answers the ancestor and subtree queries
that clade counting and tree building are built on.

A Graph is constructed once per process and never mutated afterwards, so it
can be shared read-only by any number of goroutines. Every walk toward the
root terminates at taxid 0 (unassigned), taxid 1 (root), or a self-parented
node. A walk that reaches a taxid without a parent record fails with a
*MissingParentError carrying the chain walked so far.

Subtree walks (Descendants, ExpandClades) use an explicit stack. Nodes such as
"root", "Bacteria" or "Viruses" have hundreds of thousands of descendants.
*/
package taxonomy
