// Package track holds per-chromosome signals resampled into fixed-width bins,
// and the correlation of two such signals: per chromosome, per region within
// a chromosome, and over the whole genome.
//
// A Map is filled once by a reader (wiggle/bedGraph coverage, or the density
// of aligned reads) and is read-only afterwards.  All maps taking part in one
// comparison must share a Resolution.
package track

import (
	"sort"
)

// Resolution is the width of a bin, in bases.
type Resolution int

// Bins returns the number of bins covering length bases, ceil(length/r).
func (r Resolution) Bins(length int) int {
	return (length + int(r) - 1) / int(r)
}

// ChromMap is the binned signal of one chromosome.
type ChromMap struct {
	Bins []float64
	// Length is the chromosome length in bases.  The last bin may cover
	// fewer than a resolution of them.
	Length int
	// Treated is set for the chromosomes taking part in the current
	// comparison.
	Treated bool
}

// set assigns v to the bins covered by the bases [start, end).  A unit
// narrower than a bin sets the single bin holding its start; otherwise both
// ends are rounded down to the bin grid.
func (cm *ChromMap) set(res Resolution, start, end int, v float64) {
	r := int(res)
	first, limit := start/r, end/r
	if end-start < r || limit <= first {
		limit = first + 1
	}
	if limit > len(cm.Bins) {
		limit = len(cm.Bins)
	}
	for i := first; i < limit; i++ {
		cm.Bins[i] = v
	}
}

// Map is a genome-wide binned signal, keyed by catalog ID.
type Map struct {
	res    Resolution
	chroms map[int]*ChromMap
}

// NewMap creates an empty map with the given resolution.
func NewMap(res Resolution) *Map {
	return &Map{res: res, chroms: make(map[int]*ChromMap)}
}

// Resolution returns the bin width of m.
func (m *Map) Resolution() Resolution { return m.res }

// Add returns the map of chromosome id, creating it for a chromosome of
// length bases if needed.
func (m *Map) Add(id, length int) *ChromMap {
	cm, ok := m.chroms[id]
	if !ok {
		cm = &ChromMap{Bins: make([]float64, m.res.Bins(length)), Length: length}
		m.chroms[id] = cm
	}
	return cm
}

// Chrom returns the map of chromosome id.
func (m *Map) Chrom(id int) (*ChromMap, bool) {
	cm, ok := m.chroms[id]
	return cm, ok
}

// IDs returns the keys of the chromosomes present in m, in catalog order.
func (m *Map) IDs() []int {
	ids := make([]int, 0, len(m.chroms))
	for id := range m.chroms {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// SetTreated marks exactly the given chromosomes as treated.  IDs absent from
// m are ignored.
func (m *Map) SetTreated(ids []int) {
	for _, cm := range m.chroms {
		cm.Treated = false
	}
	for _, id := range ids {
		if cm, ok := m.chroms[id]; ok {
			cm.Treated = true
		}
	}
}

// Treated returns the keys of the treated chromosomes, in catalog order.
func (m *Map) Treated() []int {
	var ids []int
	for _, id := range m.IDs() {
		if m.chroms[id].Treated {
			ids = append(ids, id)
		}
	}
	return ids
}
