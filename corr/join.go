package corr

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/biocc/interval"
)

// CorrelateJoin computes the coefficients of two interval sets from their
// elementary-range decomposition, treating each set as a 0/1 membership
// signal.
//
// Local coefficients centre each chromosome on its own coverage fractions.
// The total centres every chromosome on the genome-wide fractions, covered
// bases over the summed length of the joined chromosomes, and accumulates
// them into a single Pair.  If only the total is requested and a single
// chromosome is joined, its local coefficient is recorded instead.
func CorrelateJoin(j *interval.Join, kinds Kind, out Output, rs *ResultSet) {
	chroms := j.Chroms()
	local := out.Has(Local) || (len(chroms) == 1 && out.Has(Total))
	if local {
		p := NewPair(kinds)
		for _, c := range chroms {
			length := float64(c.Length)
			p.Init(float64(c.Covered1)/length, float64(c.Covered2)/length, true)
			j.Do(c, func(start, end interval.PosType, mask interval.Mask) {
				p.Increment(int(end-start), uint8(mask))
			})
			rs.Add(c.ID, c.Name, p.Result())
			log.Debug.Printf("corr.CorrelateJoin: %s %v", c.Name, p.Result())
		}
	}
	if !out.Has(Total) || len(chroms) < 2 {
		return
	}
	var genomeLen, covered1, covered2 float64
	for _, c := range chroms {
		genomeLen += float64(c.Length)
		covered1 += float64(c.Covered1)
		covered2 += float64(c.Covered2)
	}
	p := NewPair(kinds)
	p.Init(covered1/genomeLen, covered2/genomeLen, true)
	for _, c := range chroms {
		j.Do(c, func(start, end interval.PosType, mask interval.Mask) {
			p.Increment(int(end-start), uint8(mask))
		})
	}
	rs.SetTotal(p.Result(), len(chroms))
}
