// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package kraken

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// maxLineLen bounds one output line. Long-read hit strings run to a few
// hundred kilobytes.
const maxLineLen = 16 << 20

// Scanner streams Records from classifier output, one line at a time, so the
// output of a sample never has to fit in memory. Blank lines are skipped.
// Scanners are not threadsafe.
//
//   sc := kraken.NewScanner(r)
//   for sc.Scan() {
//     rec := sc.Record()
//     ...
//   }
//   if err := sc.Err(); err != nil {
//     ...
//   }
type Scanner struct {
	b      *bufio.Scanner
	rec    Record
	lineno int
	err    error
	closer func() error
}

// NewScanner creates a Scanner that reads from r.
func NewScanner(r io.Reader) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(make([]byte, 64<<10), maxLineLen)
	return &Scanner{b: b}
}

// Open opens a plain or gzip-compressed classifier output file. The caller
// must Close the scanner.
func Open(ctx context.Context, path string) (*Scanner, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	var (
		r       io.Reader = in.Reader(ctx)
		gz      *gzip.Reader
		closeIn = func() error { return in.Close(ctx) }
	)
	if fileio.DetermineType(path) == fileio.Gzip {
		if gz, err = gzip.NewReader(r); err != nil {
			_ = closeIn()
			return nil, errors.Wrapf(err, "gunzip %s", path)
		}
		r = gz
	}
	sc := NewScanner(r)
	sc.closer = func() error {
		var err error
		if gz != nil {
			err = gz.Close()
		}
		if e := closeIn(); e != nil && err == nil {
			err = e
		}
		return err
	}
	return sc, nil
}

// Scan parses the next line. It returns false at EOF or on the first error;
// check Err afterwards.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	for s.b.Scan() {
		s.lineno++
		line := strings.TrimRight(s.b.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := Parse(line)
		if err != nil {
			s.err = errors.Wrapf(err, "line %d", s.lineno)
			return false
		}
		s.rec = rec
		return true
	}
	if err := s.b.Err(); err != nil {
		s.err = errors.Wrapf(err, "line %d", s.lineno+1)
	}
	return false
}

// Record returns the record parsed by the last successful Scan.
func (s *Scanner) Record() *Record { return &s.rec }

// Line returns the 1-based line number of the current record.
func (s *Scanner) Line() int { return s.lineno }

// Err returns the first error encountered, or nil at a clean EOF. Parse
// errors can be unwrapped with errors.Cause.
func (s *Scanner) Err() error { return s.err }

// Close releases the file opened by Open. It is a no-op for scanners created
// with NewScanner.
func (s *Scanner) Close() error {
	if s.closer == nil {
		return nil
	}
	c := s.closer
	s.closer = nil
	return c()
}
