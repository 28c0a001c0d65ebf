package cc

import (
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/biocc/corr"
	"github.com/grailbio/biocc/genome"
	"github.com/grailbio/biocc/interval"
	"github.com/grailbio/biocc/region"
	"github.com/grailbio/biocc/track"
)

// Pair compares a primary file with secondary files of the same kind.  The
// primary file and the template are loaded once.
type Pair struct {
	opts    Opts
	cat     *genome.Catalog
	kinds   corr.Kind
	output  corr.Output
	order   corr.Order
	path    string
	primary Dataset
	// regions is the region source of coverage and density comparisons, or
	// nil to correlate whole chromosomes.
	regions track.RegionSource
	out     *printer
}

// NewPair loads the primary file and the template, if any.
func NewPair(path string, cat *genome.Catalog, opts Opts, out io.Writer) (*Pair, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p := &Pair{opts: opts, cat: cat, path: path}
	p.kinds, _ = corr.ParseKind(opts.CC)
	p.output, _ = corr.ParseOutput(opts.PrCC)
	p.order, _ = opts.regionOrder()
	p.out = newPrinter(out, p.kinds)

	kind, err := DetectKind(path, opts.Align)
	if err != nil {
		return nil, err
	}
	if p.primary, err = Load(path, kind, cat, opts); err != nil {
		return nil, err
	}
	if kind == Features {
		if opts.FBed != "" {
			log.Error.Printf("%s: template %s is ignored for features", path, opts.FBed)
		}
		if opts.ExtStep == 0 && opts.ExtLen > 0 {
			p.primary = p.primary.(featureData).extended(opts.ExtLen, cat)
		}
		return p, nil
	}
	switch {
	case opts.FBed != "":
		tmpl, err := loadFeatures(opts.FBed, cat)
		if err != nil {
			return nil, err
		}
		if opts.ExtLen > 0 {
			tmpl = tmpl.Extend(interval.PosType(opts.ExtLen), chromLength(cat))
		}
		shell := region.FromTemplate(&tmpl, cat, opts.Space)
		if opts.Warn {
			for _, c := range cat.Chroms() {
				if n := shell.Count(c.ID); n > 0 {
					log.Printf("%s: %s: %d region(s), %d bases", opts.FBed, c.Name, n, shell.Length(c.ID))
				}
			}
		}
		p.regions = shell
	case !cat.SingleRegions():
		p.regions = region.FromCatalog(cat)
	}
	return p, nil
}

// Compare correlates the primary file with the file at path and prints the
// results.  An error concerns this pair only.
func (p *Pair) Compare(path string) error {
	kind, err := DetectKind(path, p.opts.Align)
	if err != nil {
		return err
	}
	if kind != p.primary.Kind() {
		return errors.E(errors.Invalid, path, "holds", kind.String(), "while", p.path, "holds", p.primary.Kind().String())
	}
	second, err := Load(path, kind, p.cat, p.opts)
	if err != nil {
		return err
	}
	common, err := commonChroms(p.primary, second, p.cat, p.path, path, p.opts.Warn)
	if err != nil {
		return err
	}
	return p.primary.correlate(p, path, second, common)
}

func (p *Pair) compareFeatures(path string, d1, d2 featureData, common []int) error {
	chroms := make([]interval.ChromExtent, len(common))
	for i, id := range common {
		c := p.cat.Chrom(id)
		chroms[i] = interval.ChromExtent{ID: id, Name: c.Name, Length: interval.PosType(c.Length)}
	}
	rs := corr.NewResultSet()
	if p.opts.ExtStep == 0 {
		if err := p.out.comparison(p.path, path, -1); err != nil {
			return err
		}
		corr.CorrelateJoin(interval.NewJoin(&d1.u, &d2.u, chroms), p.kinds, p.output, rs)
		return p.out.results(rs)
	}
	for ext := 0; ext <= p.opts.ExtLen; ext += p.opts.ExtStep {
		ext1 := d1.extended(ext, p.cat)
		if err := p.out.comparison(p.path, path, ext); err != nil {
			return err
		}
		corr.CorrelateJoin(interval.NewJoin(&ext1.u, &d2.u, chroms), p.kinds, p.output, rs)
		if err := p.out.results(rs); err != nil {
			return err
		}
		rs.Clear()
	}
	return nil
}

func (p *Pair) compareTracks(path string, m1, m2 *track.Map, common []int) error {
	m1.SetTreated(common)
	m2.SetTreated(common)
	var printErr error
	req := track.Request{
		Kinds:   p.kinds,
		Output:  p.output,
		Regions: p.regions,
		Norm:    p.opts.Norm,
	}
	if p.opts.Sort != "" || p.opts.BinWidth > 0 {
		req.OnRegions = func(chrom genome.Chrom, rr corr.RegionResults) {
			if printErr != nil {
				return
			}
			if p.opts.Sort != "" {
				printErr = p.out.regions(chrom.Name, rr, p.order)
			}
			if printErr == nil && p.opts.BinWidth > 0 {
				printErr = p.out.histogram(chrom.Name, rr, p.opts.BinWidth)
			}
		}
	}
	if err := p.out.comparison(p.path, path, -1); err != nil {
		return err
	}
	rs := corr.NewResultSet()
	corrErr := track.Correlate(m1, m2, p.cat, req, rs)
	if printErr != nil {
		return printErr
	}
	if corrErr != nil && rs.Empty() {
		return corrErr
	}
	if err := p.out.results(rs); err != nil {
		return err
	}
	return corrErr
}
