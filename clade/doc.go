// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package clade folds classifier records into per-taxid count tables.
//
// A CountTable holds four counters per taxid: direct assignments (reads the
// classifier assigned to the taxid), direct hits (reads with at least one
// k-mer hit on the taxid), and the clade versions of both, which also include
// every descendant of the taxid.
//
// Two ways of computing clade counts are provided. Aggregator walks the
// ancestor chain of every record ("counting up") and fills all four counters
// in one pass over the classifier output. CountDown starts from a table of
// direct counts and sums them over each target's subtree ("counting down").
// The two give identical clade assignments when no read is skipped, but are
// kept as separate entry points.
//
// Any taxid missing from the taxonomy aborts the run with a
// *taxonomy.MissingParentError. Malformed classifier lines are fatal as well.
package clade
