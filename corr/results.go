package corr

import "sort"

// Order selects how results are iterated.
type Order int

const (
	// ByKey orders results by chromosome catalog order (or region number).
	ByKey Order = iota
	// ByCoef orders results by increasing primary coefficient; undefined
	// coefficients come first.
	ByCoef
)

// ChromResult is the coefficient of one chromosome.
type ChromResult struct {
	// Chrom is the catalog key; catalog order is increasing key order.
	Chrom int
	Name  string
	Coef  Coef
}

// ResultSet collects per-chromosome coefficients and the genome total.
type ResultSet struct {
	byChrom  map[int]ChromResult
	total    Coef
	hasTotal bool
}

// NewResultSet returns an empty ResultSet.
func NewResultSet() *ResultSet {
	return &ResultSet{byChrom: make(map[int]ChromResult)}
}

// Add records the coefficient of a chromosome, replacing any earlier one.
func (rs *ResultSet) Add(chrom int, name string, c Coef) {
	rs.byChrom[chrom] = ChromResult{Chrom: chrom, Name: name, Coef: c}
}

// SetTotal records the genome-wide coefficient computed over nChrom
// chromosomes.  A total over a single chromosome is that chromosome's own
// coefficient, so it is only kept when nChrom > 1.
func (rs *ResultSet) SetTotal(c Coef, nChrom int) {
	if nChrom <= 1 {
		return
	}
	rs.total = c
	rs.hasTotal = true
}

// Total returns the genome-wide coefficient, if any.
func (rs *ResultSet) Total() (Coef, bool) {
	return rs.total, rs.hasTotal
}

// Len returns the number of chromosomes with a coefficient.
func (rs *ResultSet) Len() int {
	return len(rs.byChrom)
}

// Empty returns whether nothing has been recorded.
func (rs *ResultSet) Empty() bool {
	return len(rs.byChrom) == 0 && !rs.hasTotal
}

// Chroms returns the per-chromosome coefficients in the given order.
func (rs *ResultSet) Chroms(order Order) []ChromResult {
	results := make([]ChromResult, 0, len(rs.byChrom))
	for _, r := range rs.byChrom {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Chrom < results[j].Chrom })
	if order == ByCoef {
		sort.SliceStable(results, func(i, j int) bool { return results[i].Coef.Less(results[j].Coef) })
	}
	return results
}

// Clear removes every recorded coefficient.
func (rs *ResultSet) Clear() {
	rs.byChrom = make(map[int]ChromResult)
	rs.total = Coef{}
	rs.hasTotal = false
}

// RegionResult is the coefficient of one region of a chromosome.
type RegionResult struct {
	// Region is the 1-based number of the region within its chromosome.
	Region int
	Start  int
	End    int
	Coef   Coef
}

// RegionResults are the per-region coefficients of one chromosome, in region
// order.
type RegionResults []RegionResult

// Sorted returns a copy of rr in the given order.
func (rr RegionResults) Sorted(order Order) RegionResults {
	sorted := append(RegionResults(nil), rr...)
	if order == ByCoef {
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Coef.Less(sorted[j].Coef) })
	}
	return sorted
}

// HistBin is one bin of a coefficient histogram: Count coefficients fall in
// (Upper - width, Upper].
type HistBin struct {
	Upper float64
	Count int
}

// Histogram bins the absolute primary coefficients of rr by width, which must
// be in (0, 1].  Bins are returned from the highest upper bound down.  The
// bounds are aligned to the decimal order of width: the top bound is the
// maximum rounded up to an even multiple of that order, the bottom one the
// minimum rounded down.  Undefined coefficients are not counted.
func (rr RegionResults) Histogram(width float64) []HistBin {
	var vals []float64
	for _, r := range rr {
		if v := r.Coef.Primary(); v.Defined() {
			vals = append(vals, v.Abs().R())
		}
	}
	if len(vals) == 0 || width <= 0 {
		return nil
	}
	sort.Float64s(vals)
	factor := 10.0
	for width*factor < 1 {
		factor *= 10
	}
	// float32 avoids consolidating 0.3 into the 0.2 bin through float64
	// rounding of the scaled minimum.
	minBin := float64(float32(int(factor*vals[0])) / float32(factor))
	maxScaled := factor * vals[len(vals)-1]
	maxDec := int(maxScaled)
	if maxScaled > float64(maxDec) {
		maxDec++
	}
	if maxDec%2 != 0 {
		maxDec++
	}
	maxBin := float64(maxDec) / factor
	hist := make([]HistBin, int((maxBin-minBin)/width)+1)
	for i := range hist {
		hist[i].Upper = maxBin - float64(i)*width
	}
	for _, v := range vals {
		i := int((maxBin - v) / width)
		if i >= len(hist) {
			i = len(hist) - 1
		}
		hist[i].Count++
	}
	return hist
}
