// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package dedup

import "fmt"

// InvalidBaseError is returned by ReverseComplement for a byte outside
// {A,C,G,T,N}.
type InvalidBaseError struct {
	Base byte
	Pos  int
}

func (e *InvalidBaseError) Error() string {
	return fmt.Sprintf("invalid base %q at position %d", e.Base, e.Pos)
}

// revCompTable maps a base to its complement. Zero marks an invalid base.
var revCompTable [256]byte

func init() {
	revCompTable['A'] = 'T'
	revCompTable['C'] = 'G'
	revCompTable['G'] = 'C'
	revCompTable['T'] = 'A'
	revCompTable['N'] = 'N'
}

// ReverseComplement returns the reverse complement of seq. Only uppercase
// A, C, G, T and N are accepted.
func ReverseComplement(seq string) (string, error) {
	n := len(seq)
	rc := make([]byte, n)
	for i := 0; i < n; i++ {
		c := revCompTable[seq[i]]
		if c == 0 {
			return "", &InvalidBaseError{Base: seq[i], Pos: i}
		}
		rc[n-1-i] = c
	}
	return string(rc), nil
}

// Opts controls keying.
type Opts struct {
	// K is the number of bases trimmed from each end when building a key.
	K int
}

// DefaultOpts is the default configuration.
var DefaultOpts = Opts{
	K: 25,
}

// ReadRecord is a read to be deduplicated: either a single (collapsed) read
// or a read pair.
type ReadRecord struct {
	ID string
	// Seq is the collapsed read, or R1 for a pair.
	Seq string
	// Mate is R2. It is only used when Paired is set.
	Mate   string
	Paired bool
}

// DuplicateKey identifies a fragment. Two reads with the same key are
// duplicates.
type DuplicateKey struct {
	Start, End string
}

func (k DuplicateKey) less(o DuplicateKey) bool {
	if k.Start != o.Start {
		return k.Start < o.Start
	}
	return k.End < o.End
}

// flip returns the key of the same fragment read from the opposite strand.
func (k DuplicateKey) flip() (DuplicateKey, error) {
	start, err := ReverseComplement(k.End)
	if err != nil {
		return DuplicateKey{}, err
	}
	end, err := ReverseComplement(k.Start)
	if err != nil {
		return DuplicateKey{}, err
	}
	return DuplicateKey{Start: start, End: end}, nil
}

// CanonicalKey computes the duplicate key of r with k bases trimmed from each
// end. It returns false if r is too short (k or fewer bases in any read) or
// contains an invalid base; such a read must be treated as unique.
//
// For a single sequence the key is built from seq[k:] and seq[:len-k]. Its
// canonical form is the smaller of that key and the key of the reverse
// complement sequence, so a read and its reverse complement share a key. For
// a pair the key is built from R1[k:] and R2[k:], and the canonical form is
// the smallest of the keys obtained by reverse complementing and by swapping
// mates.
func CanonicalKey(r ReadRecord, k int) (DuplicateKey, bool) {
	if k < 0 {
		return DuplicateKey{}, false
	}
	var key DuplicateKey
	if r.Paired {
		if len(r.Seq) <= k || len(r.Mate) <= k {
			return DuplicateKey{}, false
		}
		key = DuplicateKey{Start: r.Seq[k:], End: r.Mate[k:]}
	} else {
		n := len(r.Seq)
		if n <= k {
			return DuplicateKey{}, false
		}
		key = DuplicateKey{Start: r.Seq[k:], End: r.Seq[:n-k]}
	}
	flipped, err := key.flip()
	if err != nil {
		return DuplicateKey{}, false
	}
	best := key
	if flipped.less(best) {
		best = flipped
	}
	if r.Paired {
		for _, c := range []DuplicateKey{
			{Start: key.End, End: key.Start},
			{Start: flipped.End, End: flipped.Start},
		} {
			if c.less(best) {
				best = c
			}
		}
	}
	return best, true
}
