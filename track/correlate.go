package track

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/biocc/corr"
	"github.com/grailbio/biocc/genome"
	"gonum.org/v1/gonum/floats"
)

// RegionSource supplies the regions to correlate within, per chromosome.
type RegionSource interface {
	// Regions returns the sorted, disjoint regions of chromosome id, or false
	// if the source has none for it.
	Regions(id int) ([]genome.Region, bool)
}

// Request configures Correlate.
type Request struct {
	Kinds  corr.Kind
	Output corr.Output
	// Regions, if not nil, restricts every chromosome to its regions.  The
	// genome total is not computed then.
	Regions RegionSource
	// Norm scales every region to the peak of its chromosome before
	// correlating.
	Norm bool
	// OnRegions, if set, receives the per-region coefficients of each
	// chromosome correlated by regions.
	OnRegions func(chrom genome.Chrom, rr corr.RegionResults)
}

// CorrelateWhole returns the coefficients of two maps of one chromosome.
func CorrelateWhole(a, b *ChromMap, kinds corr.Kind) corr.Coef {
	return corr.CorrelateSlices(kinds, a.Bins, b.Bins)
}

type binSpan struct {
	region      int
	first, last int
}

// CorrelateByRegions correlates two maps of one chromosome within each
// region, and over the concatenation of all regions.  Region bins are
// [Start/res, End/res) clipped to the map, except that a region reaching the
// chromosome end takes the partial last bin too.  Regions without bins are
// skipped with a warning.
//
// With norm set, the values of each region of each map are scaled by the
// ratio of the chromosome peak, taken over both maps and all regions, to the
// region's own peak.  Regions whose peak is zero are left as they are.
func CorrelateByRegions(a, b *ChromMap, res Resolution, regions []genome.Region, kinds corr.Kind, norm bool) (corr.Coef, corr.RegionResults) {
	r := int(res)
	n := len(a.Bins)
	if len(b.Bins) < n {
		n = len(b.Bins)
	}
	chromEnd := a.Length
	if chromEnd == 0 {
		chromEnd = n * r
	}
	spans := make([]binSpan, 0, len(regions))
	total := 0
	for i, rgn := range regions {
		first, last := rgn.Start/r, rgn.End/r
		if last > n || rgn.End >= chromEnd {
			last = n
		}
		if last <= first {
			log.Error.Printf("track.CorrelateByRegions: region %d [%d, %d) is shorter than a bin, skipping it", i+1, rgn.Start, rgn.End)
			continue
		}
		spans = append(spans, binSpan{i, first, last})
		total += last - first
	}
	if len(spans) == 0 {
		return corr.Coef{Kinds: kinds, P: corr.Undefined, S: corr.Undefined}, nil
	}

	var peak float64
	peaks1 := make([]float64, len(spans))
	peaks2 := make([]float64, len(spans))
	if norm {
		for i, s := range spans {
			peaks1[i] = floats.Max(a.Bins[s.first:s.last])
			peaks2[i] = floats.Max(b.Bins[s.first:s.last])
			if peaks1[i] > peak {
				peak = peaks1[i]
			}
			if peaks2[i] > peak {
				peak = peaks2[i]
			}
		}
	}
	arr1 := make([]float64, 0, total)
	arr2 := make([]float64, 0, total)
	rr := make(corr.RegionResults, 0, len(spans))
	for i, s := range spans {
		start := len(arr1)
		arr1 = append(arr1, a.Bins[s.first:s.last]...)
		arr2 = append(arr2, b.Bins[s.first:s.last]...)
		seg1, seg2 := arr1[start:], arr2[start:]
		if norm {
			if peaks1[i] > 0 {
				floats.Scale(peak/peaks1[i], seg1)
			}
			if peaks2[i] > 0 {
				floats.Scale(peak/peaks2[i], seg2)
			}
		}
		rr = append(rr, corr.RegionResult{
			Region: s.region + 1,
			Start:  regions[s.region].Start,
			End:    regions[s.region].End,
			Coef:   corr.CorrelateSlices(kinds, seg1, seg2),
		})
	}
	return corr.CorrelateSlices(kinds, arr1, arr2), rr
}

// GenomeMean returns the genome-wide means of a and b over the treated
// chromosomes of a.  Each chromosome mean is weighted by the chromosome
// length relative to the shortest chromosome of the catalog.
func GenomeMean(a, b *Map, cat *genome.Catalog) (mean1, mean2 float64) {
	var sumSize float64
	for _, id := range a.Treated() {
		ca, _ := a.Chrom(id)
		cb, ok := b.Chrom(id)
		if !ok {
			continue
		}
		w := cat.RelativeSize(id)
		mean1 += corr.Mean(ca.Bins) * w
		mean2 += corr.Mean(cb.Bins) * w
		sumSize += w
	}
	if sumSize == 0 {
		return 0, 0
	}
	return mean1 / sumSize, mean2 / sumSize
}

// CorrelateTotal accumulates the treated chromosomes of a and b, in catalog
// order, into a single genome-wide coefficient centred on the given means.
//
// If the Signal sums overflow, accumulation stops at that chromosome: the
// Signal coefficient is undefined and the Pearson one covers the chromosomes
// accumulated so far.  The partial coefficient is returned along with an
// errors.Invalid error.
func CorrelateTotal(a, b *Map, cat *genome.Catalog, kinds corr.Kind, mean1, mean2 float64) (corr.Coef, error) {
	p := corr.NewPair(kinds)
	p.Init(mean1, mean2, true)
	for _, id := range a.Treated() {
		ca, _ := a.Chrom(id)
		cb, ok := b.Chrom(id)
		if !ok {
			continue
		}
		p.AddSlices(ca.Bins, cb.Bins)
		if p.SignalOverflowed() {
			c := p.Result()
			c.S = corr.Undefined
			return c, errors.E(errors.Invalid, "track.CorrelateTotal: signal coefficient exceeds the numeric range at", cat.Chrom(id).Name)
		}
	}
	return p.Result(), nil
}

// Correlate computes the coefficients of a and b over the treated
// chromosomes of a, which must all be present in b, and records them in rs.
//
// Chromosomes are correlated by regions when req.Regions is set, and whole
// otherwise.  A Signal overflow of the total is returned as an errors.Invalid
// error after the partial total has been recorded.
func Correlate(a, b *Map, cat *genome.Catalog, req Request, rs *corr.ResultSet) error {
	if a.res != b.res {
		return errors.E(errors.Invalid, fmt.Sprintf("track.Correlate: resolutions differ: %d vs %d", a.res, b.res))
	}
	treated := a.Treated()
	for _, id := range treated {
		ca, _ := a.Chrom(id)
		cb, ok := b.Chrom(id)
		if !ok {
			return errors.E(errors.NotExist, "track.Correlate: second map lacks", cat.Chrom(id).Name)
		}
		if len(ca.Bins) != len(cb.Bins) {
			return errors.E(errors.Invalid, "track.Correlate: bin counts differ for", cat.Chrom(id).Name)
		}
	}

	if req.Regions != nil {
		for _, id := range treated {
			chrom := cat.Chrom(id)
			regions, ok := req.Regions.Regions(id)
			if !ok {
				log.Error.Printf("track.Correlate: no %s in template, skipping it", chrom.Name)
				continue
			}
			ca, _ := a.Chrom(id)
			cb, _ := b.Chrom(id)
			whole, rr := CorrelateByRegions(ca, cb, a.res, regions, req.Kinds, req.Norm)
			rs.Add(id, chrom.Name, whole)
			if req.OnRegions != nil {
				req.OnRegions(chrom, rr)
			}
		}
		return nil
	}

	if req.Output.Has(corr.Local) || len(treated) == 1 {
		for _, id := range treated {
			ca, _ := a.Chrom(id)
			cb, _ := b.Chrom(id)
			c := CorrelateWhole(ca, cb, req.Kinds)
			rs.Add(id, cat.Chrom(id).Name, c)
			log.Debug.Printf("track.Correlate: %s %v", cat.Chrom(id).Name, c)
		}
	}
	if !req.Output.Has(corr.Total) || len(treated) < 2 {
		return nil
	}
	var mean1, mean2 float64
	if req.Kinds.Has(corr.Pearson) {
		mean1, mean2 = GenomeMean(a, b, cat)
	}
	total, err := CorrelateTotal(a, b, cat, req.Kinds, mean1, mean2)
	rs.SetTotal(total, len(treated))
	return err
}
