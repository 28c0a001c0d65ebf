package corr

import "math"

// Accumulator accumulates the two variances and the covariance of a pair of
// signals, centred on means fixed by Init.  It is fed either with paired
// samples (Add) or with runs of 0/1 membership values (Increment).
//
// Membership values come from the elementary ranges of an interval join: on
// a run of length n with mask m, x = m&1 and y = m>>1 for every base, so the
// run contributes n*(x-mean1)^2, n*(y-mean2)^2 and n*(x-mean1)*(y-mean2).
// There are only four (x, y) combinations, so the per-base contributions are
// precomputed by Init and indexed by the mask.
type Accumulator struct {
	var1, var2, cov float64
	mean1, mean2    float64
	sq1, sq2, cross [4]float64
}

// Init sets the means the accumulator centres on.  If clear is true the
// running sums are reset; otherwise accumulation continues on top of them,
// which lets a genome-wide accumulator span chromosomes.
func (a *Accumulator) Init(mean1, mean2 float64, clear bool) {
	d1 := 1 - mean1
	d2 := 1 - mean2
	a.mean1, a.mean2 = mean1, mean2
	a.sq1[0], a.sq1[2] = mean1*mean1, mean1*mean1
	a.sq1[1], a.sq1[3] = d1*d1, d1*d1
	a.sq2[0], a.sq2[1] = mean2*mean2, mean2*mean2
	a.sq2[2], a.sq2[3] = d2*d2, d2*d2
	a.cross[0] = mean1 * mean2
	a.cross[1] = -mean2 * d1
	a.cross[2] = -mean1 * d2
	a.cross[3] = d1 * d2
	if clear {
		a.var1, a.var2, a.cov = 0, 0, 0
	}
}

// Increment accumulates a run of length bases of membership mask.
func (a *Accumulator) Increment(length int, mask uint8) {
	l := float64(length)
	a.cov += l * a.cross[mask&3]
	a.var1 += l * a.sq1[mask&3]
	a.var2 += l * a.sq2[mask&3]
}

// Add accumulates one pair of samples.
func (a *Accumulator) Add(x, y float64) {
	dx := x - a.mean1
	dy := y - a.mean2
	a.cov += dx * dy
	a.var1 += dx * dx
	a.var2 += dy * dy
}

// AddSlices accumulates x[i], y[i] for every i.  The slices must have equal
// lengths.
func (a *Accumulator) AddSlices(x, y []float64) {
	y = y[:len(x)]
	var var1, var2, cov float64
	for i, xv := range x {
		dx := xv - a.mean1
		dy := y[i] - a.mean2
		cov += dx * dy
		var1 += dx * dx
		var2 += dy * dy
	}
	a.cov += cov
	a.var1 += var1
	a.var2 += var2
}

// Overflowed returns whether any running sum left the float64 range.
func (a *Accumulator) Overflowed() bool {
	for _, v := range [3]float64{a.var1, a.var2, a.cov} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return true
		}
	}
	return false
}

// Result returns the coefficient of everything accumulated so far.
func (a *Accumulator) Result() Value {
	return NewValue(a.cov, a.var1, a.var2)
}

// Pair accumulates the coefficients of a fixed set of kinds side by side.
// The set is resolved into a list of accumulators once, at construction, so
// the per-sample calls never test it.
type Pair struct {
	kinds    Kind
	pearson  Accumulator
	signal   Accumulator
	active   []*Accumulator
	centered []bool
}

// NewPair returns a Pair accumulating the given kinds.
func NewPair(kinds Kind) *Pair {
	p := &Pair{kinds: kinds}
	if kinds.Has(Pearson) {
		p.active = append(p.active, &p.pearson)
		p.centered = append(p.centered, true)
	}
	if kinds.Has(Signal) {
		p.active = append(p.active, &p.signal)
		p.centered = append(p.centered, false)
	}
	return p
}

// Kinds returns the kinds accumulated by p.
func (p *Pair) Kinds() Kind {
	return p.kinds
}

// Init sets the means of the Pearson accumulator; the Signal accumulator is
// always centred on zero.  See Accumulator.Init for clear.
func (p *Pair) Init(mean1, mean2 float64, clear bool) {
	for i, a := range p.active {
		if p.centered[i] {
			a.Init(mean1, mean2, clear)
		} else {
			a.Init(0, 0, clear)
		}
	}
}

// Increment accumulates a run of length bases of membership mask.
func (p *Pair) Increment(length int, mask uint8) {
	for _, a := range p.active {
		a.Increment(length, mask)
	}
}

// Add accumulates one pair of samples.
func (p *Pair) Add(x, y float64) {
	for _, a := range p.active {
		a.Add(x, y)
	}
}

// AddSlices accumulates paired samples.
func (p *Pair) AddSlices(x, y []float64) {
	for _, a := range p.active {
		a.AddSlices(x, y)
	}
}

// SignalOverflowed returns whether the Signal sums left the float64 range.
// It is always false when Signal is not accumulated.
func (p *Pair) SignalOverflowed() bool {
	return p.kinds.Has(Signal) && p.signal.Overflowed()
}

// Result returns the coefficients accumulated so far.
func (p *Pair) Result() Coef {
	c := Coef{Kinds: p.kinds}
	if p.kinds.Has(Pearson) {
		c.P = p.pearson.Result()
	}
	if p.kinds.Has(Signal) {
		c.S = p.signal.Result()
	}
	return c
}
