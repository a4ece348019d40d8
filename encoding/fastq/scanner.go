// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package fastq reads and writes FASTQ files for read deduplication. Read
// names are normalized so that they match the read IDs reported by the
// classifier.
package fastq

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

var (
	// ErrShort is returned when a truncated FASTQ file is encountered.
	ErrShort = errors.New("short FASTQ file")
	// ErrInvalid is returned when an invalid FASTQ file is encountered.
	ErrInvalid = errors.New("invalid FASTQ file")
	// ErrDiscordant is returned when the two files of a pair have a different
	// number of reads or mismatched read names.
	ErrDiscordant = errors.New("discordant FASTQ pairs")
)

// A Read is one FASTQ record. ID is the header line without the leading '@'.
type Read struct {
	ID, Seq, Qual string
}

// Name returns the read name as classifiers report it: the header up to the
// first whitespace, without a trailing "/1" or "/2" mate suffix.
func (r *Read) Name() string { return ReadName(r.ID) }

// ReadName normalizes a FASTQ header. See Read.Name.
func ReadName(id string) string {
	id = strings.TrimPrefix(id, "@")
	if i := strings.IndexAny(id, " \t"); i >= 0 {
		id = id[:i]
	}
	if n := len(id); n > 2 && id[n-2] == '/' && (id[n-1] == '1' || id[n-1] == '2') {
		id = id[:n-2]
	}
	return id
}

var errEOF = errors.New("eof")

// Scanner reads FASTQ records one at a time. It checks that the header starts
// with '@' and the separator line with '+'; sequence and quality contents are
// not validated. Scanners are not threadsafe.
type Scanner struct {
	b   *bufio.Scanner
	err error
}

// NewScanner creates a Scanner reading raw (uncompressed) FASTQ from r.
func NewScanner(r io.Reader) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(make([]byte, 64<<10), 4<<20)
	return &Scanner{b: b}
}

// Scan reads the next record into read. Once Scan returns false it never
// returns true again; Err tells whether the stream ended cleanly.
func (s *Scanner) Scan(read *Read) bool {
	if s.err != nil {
		return false
	}
	if !s.b.Scan() {
		if s.err = s.b.Err(); s.err == nil {
			s.err = errEOF
		}
		return false
	}
	id := s.b.Text()
	if len(id) == 0 || id[0] != '@' {
		s.err = ErrInvalid
		return false
	}
	read.ID = id[1:]
	if !s.scan() {
		return false
	}
	read.Seq = s.b.Text()
	if !s.scan() {
		return false
	}
	if sep := s.b.Bytes(); len(sep) == 0 || sep[0] != '+' {
		s.err = ErrInvalid
		return false
	}
	if !s.scan() {
		return false
	}
	read.Qual = s.b.Text()
	return true
}

func (s *Scanner) scan() bool {
	ok := s.b.Scan()
	if !ok {
		if s.err = s.b.Err(); s.err == nil {
			s.err = ErrShort
		}
	}
	return ok
}

// Err returns the scanning error, or nil if the input ended cleanly.
func (s *Scanner) Err() error {
	if s.err == errEOF {
		return nil
	}
	return s.err
}

// PairScanner reads R1 and R2 files in lockstep.
type PairScanner struct {
	r1, r2 *Scanner
	err    error
}

// NewPairScanner creates a PairScanner over the R1 and R2 readers.
func NewPairScanner(r1, r2 io.Reader) *PairScanner {
	return &PairScanner{r1: NewScanner(r1), r2: NewScanner(r2)}
}

// Scan reads the next pair. It fails with ErrDiscordant if only one file
// ends or if the two mates have different names.
func (p *PairScanner) Scan(r1, r2 *Read) bool {
	if p.err != nil {
		return false
	}
	ok1 := p.r1.Scan(r1)
	ok2 := p.r2.Scan(r2)
	if ok1 != ok2 {
		p.err = ErrDiscordant
		return false
	}
	if ok1 && r1.Name() != r2.Name() {
		p.err = ErrDiscordant
		return false
	}
	return ok1
}

// Err returns the scanning error, if any. It should be checked after Scan
// returns false.
func (p *PairScanner) Err() error {
	if err := p.r1.Err(); err != nil {
		return err
	}
	if err := p.r2.Err(); err != nil {
		return err
	}
	return p.err
}
