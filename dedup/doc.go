// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*
Package dedup finds reads that come from the same physical fragment (PCR or
optical duplicates) so that only one of them contributes to taxon counts.

Reads are not aligned, so duplicates are found by sequence instead of by
position. Each read, or read pair, is reduced to a DuplicateKey: the read with
its first k bases removed and the read with its last k bases removed (for a
pair, each mate with its first k bases removed). The key is
then canonicalized over strand (and, for pairs, over mate order) so that a
fragment sequenced from either strand produces the same key.

Within each group of reads sharing a key, the read with the smallest read ID
is the representative and every other read is a duplicate. The choice only
depends on the read IDs, so it is reproducible across runs and input orders.

A read that cannot be keyed (too short, or containing a base outside ACGTN)
is never treated as a duplicate.

Duplicates are only meaningful within one sample. Use one Collector per
sample.
*/
package dedup
