package cc

import (
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/biocc/corr"
)

// Opts configures a run.  Fields map one to one to bio-cc flags.
type Opts struct {
	// Gen is the chromosome catalog: a chrom.sizes file, a FASTA index or a
	// FASTA file.  Required.
	Gen string
	// GapLen is the minimal run of undefined bases declared a gap when Gen
	// is a FASTA file.
	GapLen int
	// Align treats BED inputs as alignments, correlated by read density.
	Align bool
	// Dupl accepts duplicate reads.  Alignments only.
	Dupl bool
	// List names a file listing the inputs, one per line; '#' starts a
	// comment line.
	List string
	// Chr restricts the run to a single chromosome.
	Chr string
	// CC is the coefficient combination: "P", "S" or "P,S".
	CC string
	// Space is the resolution, in bases, of coverage and density maps.
	Space int
	// PrCC selects the reported coefficients: "IND", "TOT" or "IND,TOT".
	PrCC string
	// FBed is a template BED whose features are the regions correlated
	// within.  Ignored for feature inputs.
	FBed string
	// ExtLen extends the primary features (feature inputs) or the template
	// features (other inputs) by this many bases on both sides.
	ExtLen int
	// ExtStep, if positive, correlates feature inputs once per extension
	// 0, ExtStep, 2*ExtStep, ... up to ExtLen.
	ExtStep int
	// BinWidth, if positive, prints a histogram of the per-region
	// coefficients with bins of this width.
	BinWidth float64
	// Sort, if set, prints the per-region coefficients sorted by region
	// ("RGN") or by coefficient ("CC").
	Sort string
	// Norm scales regions to a common peak before correlating.
	Norm bool
	// Warn reports the chromosomes present in only one input of a pair.
	Warn bool
	// Out, if set, duplicates the standard output to this path.
	Out string
	// Time logs the run time.
	Time bool
}

// DefaultOpts are the default options.
var DefaultOpts = Opts{
	GapLen: 1000,
	Dupl:   true,
	CC:     "P",
	Space:  100,
	PrCC:   "IND",
	Norm:   true,
}

// Validate checks the option values and ranges.
func (o Opts) Validate() error {
	if o.Gen == "" {
		return errors.E(errors.Precondition, "cc: a chromosome catalog (-gen) is required")
	}
	if _, err := corr.ParseKind(o.CC); err != nil {
		return err
	}
	if _, err := corr.ParseOutput(o.PrCC); err != nil {
		return err
	}
	if _, err := o.regionOrder(); err != nil {
		return err
	}
	for _, r := range []struct {
		name       string
		val        float64
		minV, maxV float64
	}{
		{"gap-len", float64(o.GapLen), 50, 1e5},
		{"space", float64(o.Space), 2, 1e4},
		{"ext-len", float64(o.ExtLen), 0, 1e4},
		{"ext-step", float64(o.ExtStep), 0, 500},
		{"bin-width", o.BinWidth, 0, 1},
	} {
		if r.val < r.minV || r.val > r.maxV {
			return errors.E(errors.Invalid, "cc: -"+r.name, "is out of range")
		}
	}
	return nil
}

// regionOrder returns the print order of per-region coefficients.
func (o Opts) regionOrder() (corr.Order, error) {
	switch strings.ToUpper(o.Sort) {
	case "", "RGN":
		return corr.ByKey, nil
	case "CC":
		return corr.ByCoef, nil
	}
	return corr.ByKey, errors.E(errors.Invalid, "cc: -sort must be RGN or CC, not", o.Sort)
}
