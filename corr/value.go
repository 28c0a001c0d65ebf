package corr

import (
	"math"
	"strconv"
	"strings"
)

// Value is a single correlation coefficient.  The zero Value is undefined.
type Value struct {
	r       float64
	defined bool
}

// Undefined is the coefficient of degenerate input.
var Undefined = Value{}

// NewValue returns cov / sqrt(var1 * var2), or Undefined when a variance is
// zero or any of the sums is not finite.  Rounding can push |r| slightly above
// one for perfectly (anti)correlated input; r is clamped to [-1, 1].
func NewValue(cov, var1, var2 float64) Value {
	if var1 <= 0 || var2 <= 0 {
		return Undefined
	}
	r := cov / math.Sqrt(var1*var2)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return Undefined
	}
	return Value{r: math.Max(-1, math.Min(1, r)), defined: true}
}

// Defined returns false for the coefficient of degenerate input.
func (v Value) Defined() bool {
	return v.defined
}

// R returns the coefficient, and zero if it is undefined.
func (v Value) R() float64 {
	return v.r
}

// Abs returns the absolute value of v.
func (v Value) Abs() Value {
	v.r = math.Abs(v.r)
	return v
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if !v.defined {
		return "undef"
	}
	return strconv.FormatFloat(v.r, 'f', 5, 64)
}

// less orders undefined values first.
func (v Value) less(o Value) bool {
	if v.defined != o.defined {
		return !v.defined
	}
	return v.r < o.r
}

// Coef holds the coefficients of each requested kind for one comparison.
type Coef struct {
	Kinds Kind
	P, S  Value
}

// Get returns the coefficient of a single kind.
func (c Coef) Get(k Kind) Value {
	if k == Signal {
		return c.S
	}
	return c.P
}

// Primary returns the Pearson coefficient if it was requested, and the Signal
// one otherwise.  It is the value coefficients are sorted and binned by.
func (c Coef) Primary() Value {
	if c.Kinds.Has(Pearson) {
		return c.P
	}
	return c.S
}

// Less orders coefficients by their primary value.
func (c Coef) Less(o Coef) bool {
	return c.Primary().less(o.Primary())
}

// String implements fmt.Stringer.  Values are labelled when both kinds are
// present.
func (c Coef) String() string {
	if c.Kinds != Both {
		return c.Primary().String()
	}
	return strings.Join([]string{"P=" + c.P.String(), "S=" + c.S.String()}, " ")
}
