// Package region supplies the regions a dense comparison correlates within,
// uniformly for the two possible sources: the features of a template BED
// file, or the gap-free stretches of the chromosomes of a genome catalog.
package region

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/biocc/genome"
	"github.com/grailbio/biocc/interval"
)

// Shell is a read-only view of per-chromosome regions, keyed by catalog ID.
// Regions of a chromosome are sorted and disjoint.
type Shell struct {
	regions map[int][]genome.Region
}

// FromCatalog returns the regions of every chromosome of cat allowed by its
// stated-chromosome filter.
func FromCatalog(cat *genome.Catalog) *Shell {
	s := &Shell{regions: make(map[int][]genome.Region, cat.Len())}
	for _, c := range cat.Chroms() {
		if cat.Accepts(c.Name) {
			s.regions[c.ID] = c.Regions
		}
	}
	return s
}

// FromTemplate returns the intervals of a template union as regions,
// clipped to chromosome ends.  Chromosomes unknown to cat, excluded by its
// filter or left without intervals are absent.  Regions shorter than minLen
// (the resolution of the maps they will cut) are kept but reported.
func FromTemplate(u *interval.BEDUnion, cat *genome.Catalog, minLen int) *Shell {
	s := &Shell{regions: make(map[int][]genome.Region)}
	short := 0
	for _, name := range u.ChromNames() {
		if !cat.Accepts(name) {
			continue
		}
		id, _ := cat.ID(name)
		var start, end interval.PosType
		regions := make([]genome.Region, 0, u.NumIntervals(name))
		us := interval.NewUnionScanner(u.Endpoints(name))
		for us.Scan(&start, &end, interval.PosType(cat.Chrom(id).Length)) {
			if int(end-start) < minLen {
				short++
			}
			regions = append(regions, genome.Region{Start: int(start), End: int(end)})
		}
		if len(regions) > 0 {
			s.regions[id] = regions
		}
	}
	if short > 0 {
		log.Error.Printf("region.FromTemplate: %d template feature(s) shorter than %d", short, minLen)
	}
	return s
}

// Regions implements track.RegionSource.
func (s *Shell) Regions(id int) ([]genome.Region, bool) {
	regions, ok := s.regions[id]
	return regions, ok
}

// Count returns the number of regions of chromosome id.
func (s *Shell) Count(id int) int {
	return len(s.regions[id])
}

// Length returns the total length of the regions of chromosome id.
func (s *Shell) Length(id int) int {
	n := 0
	for _, r := range s.regions[id] {
		n += r.Len()
	}
	return n
}
