package cc

import (
	"io"
	"path/filepath"
	"strconv"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/biocc/corr"
)

// printer writes comparison results as tab-separated text.  Lines starting
// with '#' are headers.
type printer struct {
	w     *tsv.Writer
	kinds corr.Kind
}

func newPrinter(w io.Writer, kinds corr.Kind) *printer {
	return &printer{w: tsv.NewWriter(w), kinds: kinds}
}

var columnKinds = []corr.Kind{corr.Pearson, corr.Signal}

// coefHeader writes the coefficient column names.
func (p *printer) coefHeader() {
	for _, k := range columnKinds {
		if p.kinds.Has(k) {
			p.w.WriteString(k.String())
		}
	}
}

func (p *printer) coef(c corr.Coef) {
	for _, k := range columnKinds {
		if p.kinds.Has(k) {
			p.w.WriteString(c.Get(k).String())
		}
	}
}

// comparison starts the output of one file pair.  ext is the primary
// feature extension, or negative when features are not stepped.
func (p *printer) comparison(path1, path2 string, ext int) error {
	p.w.WriteString("#" + filepath.Base(path1))
	p.w.WriteString(filepath.Base(path2))
	if ext >= 0 {
		p.w.WriteString("ext=" + strconv.Itoa(ext))
	}
	return p.w.EndLine()
}

// results writes one line per chromosome in catalog order, then the total
// line if there is one.
func (p *printer) results(rs *corr.ResultSet) error {
	if rs.Empty() {
		p.w.WriteString("no chromosomes for correlation")
		if err := p.w.EndLine(); err != nil {
			return err
		}
		return p.w.Flush()
	}
	p.w.WriteString("#chrom")
	p.coefHeader()
	if err := p.w.EndLine(); err != nil {
		return err
	}
	for _, r := range rs.Chroms(corr.ByKey) {
		p.w.WriteString(r.Name)
		p.coef(r.Coef)
		if err := p.w.EndLine(); err != nil {
			return err
		}
	}
	if total, ok := rs.Total(); ok {
		p.w.WriteString("total")
		p.coef(total)
		if err := p.w.EndLine(); err != nil {
			return err
		}
	}
	return p.w.Flush()
}

// regions writes the per-region coefficients of a chromosome in the given
// order.
func (p *printer) regions(chrom string, rr corr.RegionResults, order corr.Order) error {
	p.w.WriteString("#" + chrom + ":region")
	p.w.WriteString("start")
	p.w.WriteString("end")
	p.coefHeader()
	if err := p.w.EndLine(); err != nil {
		return err
	}
	for _, r := range rr.Sorted(order) {
		p.w.WriteUint32(uint32(r.Region))
		p.w.WriteUint32(uint32(r.Start))
		p.w.WriteUint32(uint32(r.End))
		p.coef(r.Coef)
		if err := p.w.EndLine(); err != nil {
			return err
		}
	}
	return p.w.Flush()
}

// histogram writes the histogram of the per-region coefficients of a
// chromosome.  Bin bounds carry as many decimals as width needs.
func (p *printer) histogram(chrom string, rr corr.RegionResults, width float64) error {
	hist := rr.Histogram(width)
	if len(hist) == 0 {
		return nil
	}
	prec := 1
	for f := 10.0; width*f < 1; f *= 10 {
		prec++
	}
	p.w.WriteString("#" + chrom + ":bin up")
	p.w.WriteString("count")
	if err := p.w.EndLine(); err != nil {
		return err
	}
	for _, b := range hist {
		p.w.WriteString(strconv.FormatFloat(b.Upper, 'f', prec, 64))
		p.w.WriteUint32(uint32(b.Count))
		if err := p.w.EndLine(); err != nil {
			return err
		}
	}
	return p.w.Flush()
}
