package fasta

import (
	"bufio"
	"io"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

// Index files consist of one tab-separated line per sequence in the associated
// FASTA file.  The format is: "<sequence name>\t<length>\t<byte
// offset>\t<bases per line>\t<bytes per line>".
// For example: "chr3\t12345\t9000\t80\t81".
var indexRegExp = regexp.MustCompile(`^(\S+)\t(\d+)\t(\d+)\t(\d+)\t(\d+)`)

// IndexEntry is one line of a FASTA index.
type IndexEntry struct {
	Name      string
	Length    uint64
	Offset    uint64
	LineBase  uint64
	LineWidth uint64
}

// ReadIndex parses a FASTA index, returning its entries in file order.
func ReadIndex(index io.Reader) ([]IndexEntry, error) {
	var entries []IndexEntry
	scanner := bufio.NewScanner(index)
	lineno := 0
	for scanner.Scan() {
		lineno++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		matches := indexRegExp.FindStringSubmatch(scanner.Text())
		if len(matches) != 6 {
			return nil, errors.Errorf("invalid index line %d: %s", lineno, scanner.Text())
		}
		ent := IndexEntry{Name: matches[1]}
		for i, field := range []*uint64{&ent.Length, &ent.Offset, &ent.LineBase, &ent.LineWidth} {
			v, err := strconv.ParseUint(matches[i+2], 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid index line %d", lineno)
			}
			*field = v
		}
		entries = append(entries, ent)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "couldn't read FASTA index")
	}
	return entries, nil
}
