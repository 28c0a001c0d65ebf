package track

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/biogo/store/llrb"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/biocc/genome"
	"github.com/grailbio/biocc/util"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
)

// DensityOpts configures the density readers.
type DensityOpts struct {
	Res Resolution
	// Dupl keeps duplicate reads: reads sharing chromosome, start and strand
	// with a read seen before.
	Dupl bool
}

// readKey identifies a read for duplicate removal.
type readKey struct {
	chrom   int
	start   int
	reverse bool
}

// Compare implements llrb.Comparable.
func (k readKey) Compare(c llrb.Comparable) int {
	k2 := c.(readKey)
	if diff := k.chrom - k2.chrom; diff != 0 {
		return diff
	}
	if diff := k.start - k2.start; diff != 0 {
		return diff
	}
	switch {
	case k.reverse == k2.reverse:
		return 0
	case k2.reverse:
		return -1
	}
	return 1
}

// densityCounter counts reads at their centre in the bins of a Map.
type densityCounter struct {
	cat   *genome.Catalog
	opts  DensityOpts
	m     *Map
	seen  llrb.Tree
	stats ReadStats
}

func newDensityCounter(cat *genome.Catalog, opts DensityOpts) *densityCounter {
	return &densityCounter{cat: cat, opts: opts, m: NewMap(opts.Res)}
}

func (d *densityCounter) add(chrom string, start, end int, reverse bool) {
	if !d.cat.Accepts(chrom) {
		return
	}
	id, _ := d.cat.ID(chrom)
	if !d.opts.Dupl {
		k := readKey{id, start, reverse}
		if d.seen.Get(k) != nil {
			d.stats.Duplicates++
			return
		}
		d.seen.Insert(k)
	}
	length := d.cat.Chrom(id).Length
	centre := start + (end-start)/2
	if centre >= length {
		d.stats.Exceeded++
		return
	}
	d.m.Add(id, length).Bins[centre/int(d.opts.Res)]++
	d.stats.Records++
}

func (d *densityCounter) finish(what string) (*Map, ReadStats, error) {
	if d.stats.Exceeded > 0 {
		log.Error.Printf("%s: %d read(s) centred beyond their chromosome were omitted", what, d.stats.Exceeded)
	}
	log.Debug.Printf("%s: %d read(s), %d duplicate(s) dropped", what, d.stats.Records, d.stats.Duplicates)
	if d.stats.Records == 0 {
		return nil, d.stats, errors.E(errors.Invalid, what+": no reads for correlation")
	}
	return d.m, d.stats, nil
}

// ReadDensityBED counts the reads of a BED file (chrom, start, end and
// optionally name, score, strand) into bins: each read counts once, in the
// bin holding its centre.
func ReadDensityBED(r io.Reader, cat *genome.Catalog, opts DensityOpts) (*Map, ReadStats, error) {
	d := newDensityCounter(cat, opts)
	scanner := bufio.NewScanner(r)
	var tokens [6][]byte
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Bytes()
		n := util.Tokens(tokens[:], line)
		if n == 0 || tokens[0][0] == '#' {
			continue
		}
		if first := gunsafe.BytesToString(tokens[0]); first == "track" || first == "browser" {
			continue
		}
		if n < 3 {
			return nil, d.stats, errors.E(errors.Invalid, "track.ReadDensityBED: line", strconv.Itoa(lineno), "has fewer than 3 fields")
		}
		start, err1 := strconv.Atoi(gunsafe.BytesToString(tokens[1]))
		end, err2 := strconv.Atoi(gunsafe.BytesToString(tokens[2]))
		if err1 != nil || err2 != nil || start < 0 || end < start {
			return nil, d.stats, errors.E(errors.Invalid, "track.ReadDensityBED: invalid coordinates on line", strconv.Itoa(lineno))
		}
		reverse := n == 6 && len(tokens[5]) == 1 && tokens[5][0] == '-'
		d.add(gunsafe.BytesToString(tokens[0]), start, end, reverse)
	}
	if err := scanner.Err(); err != nil {
		return nil, d.stats, errors.E(err, "track.ReadDensityBED")
	}
	return d.finish("track.ReadDensityBED")
}

// ReadDensityBAM counts the primary mapped alignments of a BAM stream into
// bins, like ReadDensityBED.
func ReadDensityBAM(r io.Reader, cat *genome.Catalog, opts DensityOpts) (*Map, ReadStats, error) {
	br, err := bam.NewReader(r, 1)
	if err != nil {
		return nil, ReadStats{}, errors.E(errors.Invalid, err, "track.ReadDensityBAM")
	}
	defer func() { _ = br.Close() }()
	d := newDensityCounter(cat, opts)
	for {
		rec, err := br.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, d.stats, errors.E(errors.Invalid, err, "track.ReadDensityBAM")
		}
		if rec.Ref != nil && rec.Flags&(sam.Unmapped|sam.Secondary|sam.Supplementary) == 0 {
			d.add(rec.Ref.Name(), rec.Pos, rec.End(), rec.Flags&sam.Reverse != 0)
		}
		sam.PutInFreePool(rec)
	}
	return d.finish("track.ReadDensityBAM")
}

// LoadDensity reads a BAM (.bam) or BED file of reads from path.
func LoadDensity(path string, cat *genome.Catalog, opts DensityOpts) (m *Map, stats ReadStats, err error) {
	read := ReadDensityBED
	if strings.HasSuffix(strings.ToLower(path), ".bam") {
		read = ReadDensityBAM
	}
	err = util.WithPath(path, func(r io.Reader) (e error) {
		m, stats, e = read(r, cat, opts)
		return
	})
	if err != nil {
		err = errors.E(err, path)
	}
	return
}
