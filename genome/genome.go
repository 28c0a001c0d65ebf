// Package genome provides the chromosome catalog a comparison runs over:
// chromosome keys in catalog order, lengths, the regions of defined sequence
// and an optional single stated chromosome.
//
// A catalog is loaded from a chrom.sizes file, a FASTA index (.fai) or a FASTA
// file.  Only a FASTA file yields sub-chromosome regions: runs of undefined
// bases at least Opts.GapLen long are gaps and the regions are their
// complement.  Otherwise each chromosome is a single region.
package genome

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/biocc/encoding/fasta"
	"github.com/grailbio/biocc/util"
)

// Region is a half-open [Start, End) stretch of a chromosome.
type Region struct {
	Start, End int
}

// Len returns the number of bases in the region.
func (r Region) Len() int { return r.End - r.Start }

// Chrom is one chromosome of the catalog.
type Chrom struct {
	// ID is the catalog key: the index of the chromosome in catalog order.
	ID     int
	Name   string
	Length int
	// Regions are sorted and disjoint.
	Regions []Region
}

// Opts controls catalog loading.
type Opts struct {
	// GapLen is the minimal run of undefined bases treated as a gap when
	// loading a FASTA file.
	GapLen int
	// Stated, if not empty, restricts the catalog to this chromosome.
	Stated string
}

// DefaultOpts is the default catalog configuration.
var DefaultOpts = Opts{GapLen: 1000}

// Catalog is an ordered set of chromosomes.
type Catalog struct {
	chroms  []Chrom
	byName  map[string]int
	stated  int
	minLen  int
	gapped  bool
	genSize int64
}

// New creates a catalog from chromosomes in catalog order.  IDs are assigned
// from the order; a chromosome without regions gets a single whole-length
// one.
func New(chroms []Chrom, opts Opts) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]int, len(chroms)), stated: -1}
	for i, ch := range chroms {
		if ch.Length <= 0 {
			return nil, errors.E(errors.Invalid, "genome.New: non-positive length of", ch.Name)
		}
		if _, ok := c.byName[ch.Name]; ok {
			return nil, errors.E(errors.Invalid, "genome.New: duplicate chromosome", ch.Name)
		}
		ch.ID = i
		if len(ch.Regions) == 0 {
			ch.Regions = []Region{{0, ch.Length}}
		} else if len(ch.Regions) > 1 || ch.Regions[0] != (Region{0, ch.Length}) {
			c.gapped = true
		}
		c.byName[ch.Name] = i
		c.chroms = append(c.chroms, ch)
		if c.minLen == 0 || ch.Length < c.minLen {
			c.minLen = ch.Length
		}
		c.genSize += int64(ch.Length)
	}
	if len(c.chroms) == 0 {
		return nil, errors.E(errors.Invalid, "genome.New: no chromosomes")
	}
	if opts.Stated != "" {
		id, ok := c.byName[opts.Stated]
		if !ok {
			return nil, errors.E(errors.NotExist, "genome.New: stated chromosome", opts.Stated, "is not in the catalog")
		}
		c.stated = id
	}
	return c, nil
}

// Load reads a catalog from path, choosing the format by extension: .fai is
// a FASTA index, .fa/.fasta/.fna (optionally gzipped) is FASTA, anything else
// is a chrom.sizes file.
func Load(path string, opts Opts) (*Catalog, error) {
	var (
		chroms []Chrom
		err    error
	)
	name := strings.TrimSuffix(strings.ToLower(path), ".gz")
	switch {
	case strings.HasSuffix(name, ".fai"):
		err = util.WithPath(path, func(r io.Reader) (e error) {
			chroms, e = ReadIndex(r)
			return
		})
	case strings.HasSuffix(name, ".fa"), strings.HasSuffix(name, ".fasta"), strings.HasSuffix(name, ".fna"):
		err = util.WithPath(path, func(r io.Reader) (e error) {
			chroms, e = ReadFASTA(r, opts.GapLen)
			return
		})
	default:
		err = util.WithPath(path, func(r io.Reader) (e error) {
			chroms, e = ReadSizes(r)
			return
		})
	}
	if err != nil {
		return nil, errors.E(err, "genome.Load", path)
	}
	c, err := New(chroms, opts)
	if err != nil {
		return nil, errors.E(err, path)
	}
	log.Debug.Printf("genome.Load %s: %d chromosome(s), gap regions: %v", path, len(c.chroms), c.gapped)
	return c, nil
}

// ReadSizes parses a chrom.sizes file: one "name<TAB>length" line per
// chromosome.  Blank lines and '#' comments are skipped.
func ReadSizes(r io.Reader) ([]Chrom, error) {
	var chroms []Chrom
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, errors.E(errors.Invalid, "genome.ReadSizes: line", strconv.Itoa(lineno), "has fewer than 2 fields")
		}
		length, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.E(errors.Invalid, err, "genome.ReadSizes: line", strconv.Itoa(lineno))
		}
		chroms = append(chroms, Chrom{Name: fields[0], Length: length})
	}
	return chroms, scanner.Err()
}

// ReadIndex reads chromosome lengths from a FASTA index.
func ReadIndex(r io.Reader) ([]Chrom, error) {
	entries, err := fasta.ReadIndex(r)
	if err != nil {
		return nil, errors.E(errors.Invalid, err)
	}
	chroms := make([]Chrom, len(entries))
	for i, e := range entries {
		chroms[i] = Chrom{Name: e.Name, Length: int(e.Length)}
	}
	return chroms, nil
}

// ReadFASTA scans a FASTA file, deriving each chromosome's regions from its
// gaps of at least gapLen undefined bases.
func ReadFASTA(r io.Reader, gapLen int) ([]Chrom, error) {
	var chroms []Chrom
	s := fasta.NewScanner(r, gapLen)
	for s.Scan() {
		rec := s.Record()
		ch := Chrom{Name: rec.Name, Length: rec.Length}
		pos := 0
		for _, g := range rec.Gaps {
			if g.Start > pos {
				ch.Regions = append(ch.Regions, Region{pos, g.Start})
			}
			pos = g.End
		}
		if pos < rec.Length {
			ch.Regions = append(ch.Regions, Region{pos, rec.Length})
		}
		if len(ch.Regions) == 0 {
			log.Error.Printf("genome.ReadFASTA: %s has no defined bases, skipping it", rec.Name)
			continue
		}
		chroms = append(chroms, ch)
	}
	if err := s.Err(); err != nil {
		return nil, errors.E(errors.Invalid, err)
	}
	return chroms, nil
}

// Len returns the number of chromosomes.
func (c *Catalog) Len() int { return len(c.chroms) }

// Chroms returns every chromosome, in catalog order.
func (c *Catalog) Chroms() []Chrom { return c.chroms }

// Chrom returns the chromosome with the given key.
func (c *Catalog) Chrom(id int) Chrom { return c.chroms[id] }

// ID looks a chromosome up by name.
func (c *Catalog) ID(name string) (int, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// Length returns the length of the named chromosome.
func (c *Catalog) Length(name string) (int, bool) {
	id, ok := c.byName[name]
	if !ok {
		return 0, false
	}
	return c.chroms[id].Length, true
}

// Stated returns the key of the stated chromosome, if one was configured.
func (c *Catalog) Stated() (int, bool) {
	return c.stated, c.stated >= 0
}

// Accepts reports whether the named chromosome is in the catalog and allowed
// by the stated-chromosome filter.  Readers use it to skip foreign records.
func (c *Catalog) Accepts(name string) bool {
	id, ok := c.byName[name]
	return ok && (c.stated < 0 || c.stated == id)
}

// SingleRegions reports whether every chromosome is a single whole-length
// region.
func (c *Catalog) SingleRegions() bool { return !c.gapped }

// MinLength returns the length of the shortest chromosome.
func (c *Catalog) MinLength() int { return c.minLen }

// RelativeSize returns the length of the chromosome relative to the shortest
// one in the catalog.
func (c *Catalog) RelativeSize(id int) float64 {
	return float64(c.chroms[id].Length) / float64(c.MinLength())
}

// Size returns the summed length of every chromosome.
func (c *Catalog) Size() int64 { return c.genSize }
