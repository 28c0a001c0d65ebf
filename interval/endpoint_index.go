package interval

import (
	"math"
	"sort"
)

// An interval union is stored as a strictly increasing []PosType of
// endpoints: interval k is [endpoints[2k], endpoints[2k+1]).  The union
// [5, 17) U [20, 25) is {5, 17, 20, 25}.

// PosType is the type used to represent interval coordinates.  int32 is wide
// enough for every chromosome of every genome assembly we correlate, and it
// keeps the endpoint arrays half the size of an []int.
type PosType int32

// PosTypeMax is the maximum value that can be represented by a PosType.
const PosTypeMax = math.MaxInt32

// searchEndpoints returns the number of endpoints <= pos.  It is odd iff pos
// lies inside an interval.
func searchEndpoints(endpoints []PosType, pos PosType) int {
	return sort.Search(len(endpoints), func(i int) bool { return endpoints[i] > pos })
}

// UnionScanner iterates over the intervals of a union in increasing order,
// clipped to a limit that may grow from one call to the next:
//
//	us := NewUnionScanner([]PosType{5, 17, 20, 25})
//	for us.Scan(&start, &end, 22) {} // [5, 17) [20, 22)
//	for us.Scan(&start, &end, 30) {} // [22, 25)
type UnionScanner struct {
	endpoints []PosType
	// pos is where the next interval piece starts, PosTypeMax once the
	// union is exhausted.
	pos PosType
	// endIdx indexes the end of the interval holding pos.
	endIdx int
}

// NewUnionScanner returns a UnionScanner positioned at the first interval.
func NewUnionScanner(endpoints []PosType) UnionScanner {
	us := UnionScanner{endpoints: endpoints, pos: PosTypeMax}
	if len(endpoints) > 0 {
		us.pos, us.endIdx = endpoints[0], 1
	}
	return us
}

// Scan stores the next interval piece below limit in [*start, *end) and
// returns true, or returns false if there is none.  An interval crossing
// limit is cut there, and its remainder is returned by a later call with a
// larger limit.
func (us *UnionScanner) Scan(start, end *PosType, limit PosType) bool {
	if us.pos >= limit {
		return false
	}
	*start = us.pos
	if e := us.endpoints[us.endIdx]; e > limit {
		*end, us.pos = limit, limit
		return true
	}
	*end = us.endpoints[us.endIdx]
	us.endIdx += 2
	if us.endIdx < len(us.endpoints) {
		us.pos = us.endpoints[us.endIdx-1]
	} else {
		us.pos = PosTypeMax
	}
	return true
}
