package corr

import "gonum.org/v1/gonum/floats"

// Mean returns the mean of x, or zero for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Sum(x) / float64(len(x))
}

// CorrelateSlices returns the coefficients of the paired samples x and y,
// which must have equal lengths.
func CorrelateSlices(kinds Kind, x, y []float64) Coef {
	p := NewPair(kinds)
	var mean1, mean2 float64
	if kinds.Has(Pearson) {
		mean1, mean2 = Mean(x), Mean(y)
	}
	p.Init(mean1, mean2, true)
	p.AddSlices(x, y)
	return p.Result()
}
