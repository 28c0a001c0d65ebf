package cc

import (
	"path/filepath"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/biocc/genome"
	"github.com/grailbio/biocc/interval"
	"github.com/grailbio/biocc/track"
)

// Kind is the kind of data held by an input file.
type Kind int

const (
	// Coverage is a wiggle or bedGraph track of per-base values.
	Coverage Kind = iota
	// Features is a BED set of intervals, correlated as 0/1 membership.
	Features
	// Density is a set of alignments, correlated by read centre counts.
	Density
)

func (k Kind) String() string {
	switch k {
	case Coverage:
		return "coverage"
	case Features:
		return "features"
	case Density:
		return "density"
	}
	return "unknown"
}

// DetectKind returns the kind of the file at path from its extension; a
// trailing ".gz" is ignored.  BED files are features unless align is set.
func DetectKind(path string, align bool) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".gz" {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path))))
	}
	switch ext {
	case ".wig", ".bedgraph", ".bdg":
		return Coverage, nil
	case ".bed":
		if align {
			return Density, nil
		}
		return Features, nil
	case ".bam":
		return Density, nil
	}
	return Coverage, errors.E(errors.NotSupported, "cc: unknown file extension", path)
}

// Dataset is an input file loaded for correlation.
type Dataset interface {
	// Kind returns the kind of the data.
	Kind() Kind
	// ChromIDs returns the sorted catalog keys of the chromosomes with data.
	ChromIDs() []int
	// correlate compares the dataset with other, of the same kind, over the
	// common chromosomes and prints the results through p.
	correlate(p *Pair, path string, other Dataset, common []int) error
}

type trackData struct {
	m *track.Map
}

func (d trackData) ChromIDs() []int { return d.m.IDs() }

func (d trackData) trackMap() *track.Map { return d.m }

func (d trackData) correlate(p *Pair, path string, other Dataset, common []int) error {
	o, ok := other.(interface{ trackMap() *track.Map })
	if !ok {
		return errors.E(errors.Invalid, "cc: cannot correlate a track with", other.Kind().String())
	}
	return p.compareTracks(path, d.m, o.trackMap(), common)
}

type coverageData struct{ trackData }

func (coverageData) Kind() Kind { return Coverage }

type densityData struct{ trackData }

func (densityData) Kind() Kind { return Density }

type featureData struct {
	u   interval.BEDUnion
	ids []int
}

func (featureData) Kind() Kind { return Features }

func (d featureData) ChromIDs() []int { return d.ids }

func (d featureData) correlate(p *Pair, path string, other Dataset, common []int) error {
	o, ok := other.(featureData)
	if !ok {
		return errors.E(errors.Invalid, "cc: cannot correlate features with", other.Kind().String())
	}
	return p.compareFeatures(path, d, o, common)
}

func newFeatureData(u interval.BEDUnion, cat *genome.Catalog) featureData {
	d := featureData{u: u}
	for _, c := range cat.Chroms() {
		if u.Has(c.Name) {
			d.ids = append(d.ids, c.ID)
		}
	}
	return d
}

// extended returns d with every feature widened by ext on both sides.
func (d featureData) extended(ext int, cat *genome.Catalog) featureData {
	if ext == 0 {
		return d
	}
	return featureData{u: d.u.Extend(interval.PosType(ext), chromLength(cat)), ids: d.ids}
}

func chromLength(cat *genome.Catalog) func(string) (interval.PosType, bool) {
	return func(name string) (interval.PosType, bool) {
		length, ok := cat.Length(name)
		return interval.PosType(length), ok
	}
}

func loadFeatures(path string, cat *genome.Catalog) (interval.BEDUnion, error) {
	return interval.NewBEDUnionFromPath(path, interval.NewBEDOpts{Keep: cat.Accepts})
}

// Load reads the file at path as data of the given kind, restricted to the
// catalog.
func Load(path string, kind Kind, cat *genome.Catalog, opts Opts) (Dataset, error) {
	res := track.Resolution(opts.Space)
	switch kind {
	case Coverage:
		m, stats, err := track.LoadWig(path, cat, res)
		if err != nil {
			return nil, err
		}
		logStats(path, stats, opts.Warn)
		return coverageData{trackData{m}}, nil
	case Density:
		m, stats, err := track.LoadDensity(path, cat, track.DensityOpts{Res: res, Dupl: opts.Dupl})
		if err != nil {
			return nil, err
		}
		logStats(path, stats, opts.Warn)
		return densityData{trackData{m}}, nil
	case Features:
		u, err := loadFeatures(path, cat)
		if err != nil {
			return nil, err
		}
		if length, ok := u.UniformInputLength(); ok {
			log.Error.Printf("%s: all features are %d bases long, looks like an alignment! Use -align to correlate it by read density", path, length)
		}
		return newFeatureData(u, cat), nil
	}
	return nil, errors.E(errors.NotSupported, "cc.Load: unknown kind", kind.String())
}

func logStats(path string, stats track.ReadStats, warn bool) {
	if warn {
		log.Printf("%s: %d records, %d exceeding their chromosome, %d duplicates", path, stats.Records, stats.Exceeded, stats.Duplicates)
		return
	}
	log.Debug.Printf("%s: %d records", path, stats.Records)
}

// commonChroms returns the catalog keys present in both datasets, in catalog
// order.  Chromosomes present in only one of them are listed in the log when
// warn is set.
func commonChroms(d1, d2 Dataset, cat *genome.Catalog, name1, name2 string, warn bool) ([]int, error) {
	ids1, ids2 := d1.ChromIDs(), d2.ChromIDs()
	var common []int
	i, j := 0, 0
	for i < len(ids1) || j < len(ids2) {
		switch {
		case j == len(ids2) || (i < len(ids1) && ids1[i] < ids2[j]):
			if warn {
				log.Printf("%s: %s is absent from %s", name1, cat.Chrom(ids1[i]).Name, name2)
			}
			i++
		case i == len(ids1) || ids2[j] < ids1[i]:
			if warn {
				log.Printf("%s: %s is absent from %s", name2, cat.Chrom(ids2[j]).Name, name1)
			}
			j++
		default:
			common = append(common, ids1[i])
			i++
			j++
		}
	}
	if len(common) == 0 {
		return nil, errors.E(errors.NotExist, "no common chromosomes in", name1, "and", name2)
	}
	return common, nil
}
