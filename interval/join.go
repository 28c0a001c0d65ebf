package interval

// Mask is the joint membership of an elementary range: which of the two
// joined interval sets cover it.
type Mask uint8

const (
	// InFirst is set when the first interval set covers the range.
	InFirst Mask = 1 << iota
	// InSecond is set when the second interval set covers the range.
	InSecond
	// InBoth is InFirst | InSecond.
	InBoth = InFirst | InSecond
)

// ElementaryRange is a maximal stretch of one chromosome over which the joint
// membership is constant.  It extends from Start to the Start of the next
// range of the same chromosome, or to the chromosome end for the last one.
type ElementaryRange struct {
	Start PosType
	Mask  Mask
}

// ChromExtent identifies a chromosome to be joined.  ID is the catalog key;
// the join preserves the order in which extents are supplied.
type ChromExtent struct {
	ID     int
	Name   string
	Length PosType
}

// ChromRanges locates the elementary ranges of one chromosome inside a Join,
// along with the number of bases covered by each input set (needed for the
// per-chromosome means).
type ChromRanges struct {
	ChromExtent
	// First and Limit delimit the chromosome's ranges, [First, Limit).
	First, Limit int
	// Covered1 and Covered2 are the bases covered by the first and second set.
	Covered1, Covered2 int
}

// Join is the elementary-range decomposition of two interval unions over a
// list of chromosomes.  All ranges share one backing slice.
type Join struct {
	ranges []ElementaryRange
	chroms []ChromRanges
}

// clipEndpoints drops the endpoints at or beyond limit.  If that leaves an
// interval open, it implicitly extends to limit.
func clipEndpoints(endpoints []PosType, limit PosType) (clipped []PosType, covered int) {
	n := searchEndpoints(endpoints, limit-1)
	clipped = endpoints[:n]
	for i := 0; i < n; i += 2 {
		end := limit
		if i+1 < n {
			end = clipped[i+1]
		}
		covered += int(end - clipped[i])
	}
	return
}

// NewJoin sweeps the two unions over every given chromosome.  A chromosome
// absent from either union is joined against an empty set.
//
// At each step the two cursors point at the next boundary of their set: the
// start of the next interval while outside one, its end while inside.  The
// smaller boundary flips its set's membership bit; coincident boundaries flip
// both and produce a single range.  Since the endpoint arrays of a BEDUnion
// are strictly increasing, every flip changes the mask and consecutive ranges
// never share one.
func NewJoin(u1, u2 *BEDUnion, chroms []ChromExtent) *Join {
	nEndpoint := 0
	for _, c := range chroms {
		nEndpoint += len(u1.Endpoints(c.Name)) + len(u2.Endpoints(c.Name))
	}
	j := &Join{
		ranges: make([]ElementaryRange, 0, nEndpoint+len(chroms)),
		chroms: make([]ChromRanges, 0, len(chroms)),
	}
	for _, c := range chroms {
		e1, covered1 := clipEndpoints(u1.Endpoints(c.Name), c.Length)
		e2, covered2 := clipEndpoints(u2.Endpoints(c.Name), c.Length)
		cr := ChromRanges{
			ChromExtent: c,
			First:       len(j.ranges),
			Covered1:    covered1,
			Covered2:    covered2,
		}
		if (len(e1) == 0 || e1[0] > 0) && (len(e2) == 0 || e2[0] > 0) {
			j.ranges = append(j.ranges, ElementaryRange{Start: 0})
		}
		var mask Mask
		i1, i2 := 0, 0
		for i1 < len(e1) || i2 < len(e2) {
			p1, p2 := PosType(PosTypeMax), PosType(PosTypeMax)
			if i1 < len(e1) {
				p1 = e1[i1]
			}
			if i2 < len(e2) {
				p2 = e2[i2]
			}
			var pos PosType
			switch {
			case p1 < p2:
				pos = p1
				mask ^= InFirst
				i1++
			case p2 < p1:
				pos = p2
				mask ^= InSecond
				i2++
			default:
				pos = p1
				mask ^= InBoth
				i1++
				i2++
			}
			j.ranges = append(j.ranges, ElementaryRange{Start: pos, Mask: mask})
		}
		cr.Limit = len(j.ranges)
		j.chroms = append(j.chroms, cr)
	}
	return j
}

// Chroms returns the joined chromosomes in the order they were supplied.
func (j *Join) Chroms() []ChromRanges {
	return j.chroms
}

// Ranges returns the elementary ranges of one joined chromosome.
func (j *Join) Ranges(c ChromRanges) []ElementaryRange {
	return j.ranges[c.First:c.Limit]
}

// Do calls fn for every elementary range of the chromosome, in order, with
// the range's half-open extent.
func (j *Join) Do(c ChromRanges, fn func(start, end PosType, mask Mask)) {
	ranges := j.Ranges(c)
	for i, r := range ranges {
		end := c.Length
		if i+1 < len(ranges) {
			end = ranges[i+1].Start
		}
		fn(r.Start, end, r.Mask)
	}
}
