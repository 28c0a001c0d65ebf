package interval

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/biocc/util"
)

// isHeaderLine returns true for BED/bedGraph lines which do not describe an
// interval: comments, and "track"/"browser" declarations.
func isHeaderLine(line []byte) bool {
	if len(line) == 0 {
		return false
	}
	if line[0] == '#' {
		return true
	}
	s := gunsafe.BytesToString(line)
	return (len(s) >= 5 && s[:5] == "track") || (len(s) >= 7 && s[:7] == "browser")
}

// NewBEDOpts defines behavior of this package's BED-loading function(s).
type NewBEDOpts struct {
	// Keep, if non-nil, is called with each chromosome name; intervals on
	// chromosomes for which it returns false are not loaded.  This is how the
	// stated-chromosome filter and the chromosome catalog restrict a BED.
	Keep func(chrName string) bool
	// OneBasedInput interprets the BED interval boundaries as one-based [start,
	// end] instead of the usual zero-based [start, end).
	OneBasedInput bool
}

// BEDUnion is currently implemented as a collection of length-2N sequences,
// where N is the number of intervals, the (0-based) start position of the
// interval #k (numbering from zero) is in element [2k] and the end position is
// in element [2k+1], and the intervals are stored in increasing order.
// Overlapping and touching input intervals are merged, so every sequence is
// strictly increasing: its intervals are sorted, disjoint and non-adjacent.
type BEDUnion struct {
	// nameMap is a chromosome-keyed map with disjoint-interval-set values.
	// Always initialized.
	nameMap map[string]([]PosType)
	// names lists the chromosomes of nameMap in order of first appearance.
	names []string
	// nInput is the number of non-empty input intervals, before merging.
	nInput int
	// inputLen is the common length of all non-empty input intervals, or -1 if
	// they differ.  Zero if there were none.
	inputLen PosType
}

// Entry represents a single interval, with 0-based coordinates.
type Entry struct {
	ChrName string
	Start0  PosType
	End     PosType
}

// Length returns End - Start0.
func (e Entry) Length() PosType {
	return e.End - e.Start0
}

// unionBuilder collects raw intervals per chromosome and produces the merged
// endpoint arrays.
type unionBuilder struct {
	raw      map[string][]Entry
	names    []string
	nInput   int
	inputLen PosType
}

func newUnionBuilder() *unionBuilder {
	return &unionBuilder{raw: make(map[string][]Entry)}
}

func (b *unionBuilder) add(e Entry) {
	entries, found := b.raw[e.ChrName]
	if !found {
		b.names = append(b.names, e.ChrName)
	}
	if e.End == e.Start0 {
		// Distinguish between 'mentioned' chromosomes without any covered bases
		// and unmentioned chromosomes.
		if !found {
			b.raw[e.ChrName] = []Entry{}
		}
		return
	}
	b.raw[e.ChrName] = append(entries, e)
	length := e.Length()
	switch {
	case b.nInput == 0:
		b.inputLen = length
	case b.inputLen != length:
		b.inputLen = -1
	}
	b.nInput++
}

func (b *unionBuilder) build() (bedUnion BEDUnion) {
	bedUnion = BEDUnion{
		nameMap:  make(map[string]([]PosType), len(b.names)),
		names:    b.names,
		nInput:   b.nInput,
		inputLen: b.inputLen,
	}
	for _, chrName := range b.names {
		entries := b.raw[chrName]
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Start0 < entries[j].Start0 })
		chrIntervals := make([]PosType, 0, 2*len(entries))
		for _, e := range entries {
			n := len(chrIntervals)
			if n > 0 && e.Start0 <= chrIntervals[n-1] {
				// Overlapping or touching: extend the previous interval.
				if e.End > chrIntervals[n-1] {
					chrIntervals[n-1] = e.End
				}
				continue
			}
			chrIntervals = append(chrIntervals, e.Start0, e.End)
		}
		bedUnion.nameMap[chrName] = chrIntervals
	}
	return
}

func scanBEDUnion(scanner *bufio.Scanner, opts NewBEDOpts) (bedUnion BEDUnion, err error) {
	var startSubtract int
	if opts.OneBasedInput {
		startSubtract++
	}
	var tokens [3][]byte
	b := newUnionBuilder()
	lineIdx := 0
	lastChr := ""
	keepLast := true
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		if isHeaderLine(curLine) {
			continue
		}
		nToken := util.Tokens(tokens[:], curLine)
		if nToken != 3 {
			if nToken == 0 {
				continue
			}
			err = fmt.Errorf("interval.scanBEDUnion: line %d has fewer tokens than expected", lineIdx)
			return
		}
		// Chromosome names repeat on consecutive lines; avoid allocating a new
		// string for each of them.
		if gunsafe.BytesToString(tokens[0]) != lastChr {
			lastChr = string(tokens[0])
			keepLast = opts.Keep == nil || opts.Keep(lastChr)
		}
		if !keepLast {
			continue
		}
		var parsedStart int
		if parsedStart, err = strconv.Atoi(gunsafe.BytesToString(tokens[1])); err != nil {
			return
		}
		parsedStart -= startSubtract
		if parsedStart < 0 {
			err = fmt.Errorf("interval.scanBEDUnion: negative start coordinate %s on line %d", tokens[1], lineIdx)
			return
		}
		var parsedEnd int
		if parsedEnd, err = strconv.Atoi(gunsafe.BytesToString(tokens[2])); err != nil {
			return
		}
		if (parsedEnd < parsedStart) || (parsedEnd >= PosTypeMax) {
			err = fmt.Errorf("interval.scanBEDUnion: invalid coordinate pair on line %d", lineIdx)
			return
		}
		b.add(Entry{ChrName: lastChr, Start0: PosType(parsedStart), End: PosType(parsedEnd)})
	}
	if err = scanner.Err(); err != nil {
		return
	}
	bedUnion = b.build()
	log.Debug.Printf("BED loaded, %d interval(s) on %d chromosome(s), %d base(s) covered",
		bedUnion.nInput, len(bedUnion.names), bedUnion.TotalCoveredLength())
	return
}

// NewBEDUnion loads just the intervals from a BED, merging touching/overlapping
// intervals and eliminating empty ones in the process.  Lines of one
// chromosome need not be sorted.
func NewBEDUnion(reader io.Reader, opts NewBEDOpts) (bedUnion BEDUnion, err error) {
	scanner := bufio.NewScanner(reader)
	return scanBEDUnion(scanner, opts)
}

// NewBEDUnionFromPath is a wrapper for NewBEDUnion that takes a path instead
// of an io.Reader.
func NewBEDUnionFromPath(path string, opts NewBEDOpts) (bedUnion BEDUnion, err error) {
	err = util.WithPath(path, func(r io.Reader) error {
		var e error
		bedUnion, e = NewBEDUnion(r, opts)
		return e
	})
	return
}

// NewBEDUnionFromEntries initializes a BEDUnion from a []Entry.
func NewBEDUnionFromEntries(entries []Entry) (bedUnion BEDUnion, err error) {
	b := newUnionBuilder()
	for _, entry := range entries {
		if entry.Start0 < 0 {
			err = fmt.Errorf("interval.NewBEDUnionFromEntries: negative start coordinate")
			return
		}
		if (entry.End < entry.Start0) || (entry.End >= PosTypeMax) {
			err = fmt.Errorf("interval.NewBEDUnionFromEntries: invalid coordinate pair [%d, %d)", entry.Start0, entry.End)
			return
		}
		b.add(entry)
	}
	return b.build(), nil
}

// ChromNames returns the chromosomes mentioned in the BED, in order of first
// appearance.
func (u *BEDUnion) ChromNames() []string {
	return u.names
}

// Has returns whether the chromosome was mentioned in the BED.
func (u *BEDUnion) Has(chrName string) bool {
	_, found := u.nameMap[chrName]
	return found
}

// Endpoints returns the disjoint-interval-set of the chromosome, or nil if it
// was not mentioned.  The caller must not modify the slice.
func (u *BEDUnion) Endpoints(chrName string) []PosType {
	return u.nameMap[chrName]
}

// NumIntervals returns the number of (merged) intervals on the chromosome.
func (u *BEDUnion) NumIntervals(chrName string) int {
	return len(u.nameMap[chrName]) / 2
}

// CoveredLength returns the number of bases covered on the chromosome.
func (u *BEDUnion) CoveredLength(chrName string) int {
	chrIntervals := u.nameMap[chrName]
	total := 0
	for i := 0; i < len(chrIntervals); i += 2 {
		total += int(chrIntervals[i+1] - chrIntervals[i])
	}
	return total
}

// TotalCoveredLength returns the number of bases covered on all chromosomes.
func (u *BEDUnion) TotalCoveredLength() int {
	total := 0
	for _, chrName := range u.names {
		total += u.CoveredLength(chrName)
	}
	return total
}

// UniformInputLength returns the common length of all input intervals, and
// false if they differ or there were none.  Features of a single length are
// characteristic of alignments rather than of ordinary feature sets.
func (u *BEDUnion) UniformInputLength() (PosType, bool) {
	return u.inputLen, u.nInput > 1 && u.inputLen > 0
}

// Extend returns a new BEDUnion in which every interval is widened by ext on
// both sides, clipped to [0, chromosome length), and overlaps are re-merged.
// chromLen reports the length of a chromosome; chromosomes for which it
// returns false are left unclipped at the right end.
func (u *BEDUnion) Extend(ext PosType, chromLen func(chrName string) (PosType, bool)) BEDUnion {
	b := newUnionBuilder()
	b.nInput, b.inputLen = u.nInput, u.inputLen
	for _, chrName := range u.names {
		limit, ok := chromLen(chrName)
		if !ok {
			limit = PosTypeMax - 1
		}
		b.names = append(b.names, chrName)
		entries := []Entry{}
		var start, end PosType
		us := NewUnionScanner(u.nameMap[chrName])
		for us.Scan(&start, &end, PosTypeMax) {
			e := Entry{ChrName: chrName, Start0: start - ext, End: end + ext}
			if e.Start0 < 0 {
				e.Start0 = 0
			}
			if e.End > limit {
				e.End = limit
			}
			if e.End > e.Start0 {
				entries = append(entries, e)
			}
		}
		b.raw[chrName] = entries
	}
	return b.build()
}
