// Package fasta contains streaming readers for FASTA files and their
// samtools-style indexes.  See http://www.htslib.org/doc/faidx.html.  Briefly,
// FASTA files consist of a number of named sequences that may be interrupted
// by newlines.  For example:
//
// >chr7
// ACGTAC
// GAGNNN
// NNG
// >chr8
// ACGT
//
// Sequence names are the stretch of characters excluding spaces immediately
// after '>'; '>chr1 A viral sequence' becomes 'chr1'.
//
// Sequences are never held in memory.  The scanner reports, per sequence, its
// length and the runs of undefined bases ('N' or 'n'), which is all a genome
// catalog needs.
package fasta

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"
)

const (
	bufferInitSize = 1024 * 1024
	bufferMaxSize  = 1024 * 1024 * 300 // 300 MB
)

// Gap is a run of undefined bases, [Start, End) in 0-based coordinates.
type Gap struct {
	Start, End int
}

// Len returns the number of bases in the gap.
func (g Gap) Len() int { return g.End - g.Start }

// Record summarizes one sequence of a FASTA file.
type Record struct {
	Name   string
	Length int
	// Gaps are the runs of undefined bases at least minGap long, in order.
	Gaps []Gap
}

// Scanner reads a FASTA file one sequence at a time.
type Scanner struct {
	sc      *bufio.Scanner
	minGap  int
	pending string // name line of the next sequence, already consumed
	started bool
	rec     Record
	err     error
}

// NewScanner creates a Scanner reporting gaps of at least minGap bases.  A
// minGap <= 0 disables gap detection.
func NewScanner(r io.Reader, minGap int) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, bufferInitSize), bufferMaxSize)
	return &Scanner{sc: sc, minGap: minGap}
}

func seqName(line []byte) string {
	name := line[1:]
	if i := bytes.IndexAny(name, " \t"); i >= 0 {
		name = name[:i]
	}
	return string(name)
}

// Scan advances to the next sequence.  It returns false at the end of input
// or on error; Err tells which.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	if !s.started {
		s.started = true
		for s.sc.Scan() {
			line := bytes.TrimRight(s.sc.Bytes(), "\r")
			if len(line) == 0 {
				continue
			}
			if line[0] != '>' {
				s.err = errors.Errorf("malformed FASTA file: sequence data before the first name line")
				return false
			}
			s.pending = seqName(line)
			if s.pending == "" {
				s.err = errors.Errorf("malformed FASTA file: empty first sequence name")
				return false
			}
			break
		}
		if err := s.sc.Err(); err != nil {
			s.err = errors.Wrap(err, "couldn't read FASTA data")
			return false
		}
		if s.pending == "" {
			return false
		}
	}
	if s.pending == "" {
		return false
	}
	s.rec = Record{Name: s.pending}
	s.pending = ""
	gapStart := -1
	closeGap := func() {
		if gapStart >= 0 && s.minGap > 0 && s.rec.Length-gapStart >= s.minGap {
			s.rec.Gaps = append(s.rec.Gaps, Gap{gapStart, s.rec.Length})
		}
		gapStart = -1
	}
	for s.sc.Scan() {
		line := bytes.TrimRight(s.sc.Bytes(), "\r")
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			s.pending = seqName(line)
			if s.pending == "" {
				s.err = errors.Errorf("malformed FASTA file: empty sequence name after %s", s.rec.Name)
				return false
			}
			break
		}
		for _, b := range line {
			if b == 'N' || b == 'n' {
				if gapStart < 0 {
					gapStart = s.rec.Length
				}
			} else if gapStart >= 0 {
				closeGap()
			}
			s.rec.Length++
		}
	}
	closeGap()
	if err := s.sc.Err(); err != nil {
		s.err = errors.Wrapf(err, "couldn't read FASTA sequence %s", s.rec.Name)
		return false
	}
	return true
}

// Record returns the sequence read by the last successful Scan.
func (s *Scanner) Record() Record {
	return s.rec
}

// Err returns the error that stopped the scan, if any.
func (s *Scanner) Err() error {
	return s.err
}
