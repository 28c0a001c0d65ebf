package interval

import (
	"math/rand"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func mustUnion(t *testing.T, entries ...Entry) BEDUnion {
	u, err := NewBEDUnionFromEntries(entries)
	require.NoError(t, err)
	return u
}

func TestJoinScenarios(t *testing.T) {
	tests := []struct {
		name       string
		set1, set2 []Entry
		length     PosType
		want       []ElementaryRange
		cov1, cov2 int
	}{
		{
			"identical",
			[]Entry{{"c", 2, 5}},
			[]Entry{{"c", 2, 5}},
			10,
			[]ElementaryRange{{0, 0}, {2, InBoth}, {5, 0}},
			3, 3,
		},
		{
			"complementary",
			[]Entry{{"c", 0, 5}},
			[]Entry{{"c", 5, 10}},
			10,
			[]ElementaryRange{{0, InFirst}, {5, InSecond}},
			5, 5,
		},
		{
			"staggered",
			[]Entry{{"c", 1, 4}, {"c", 6, 8}},
			[]Entry{{"c", 3, 7}},
			10,
			[]ElementaryRange{{0, 0}, {1, InFirst}, {3, InBoth}, {4, InSecond}, {6, InBoth}, {7, InFirst}, {8, 0}},
			5, 4,
		},
		{
			"second empty",
			[]Entry{{"c", 4, 6}},
			nil,
			10,
			[]ElementaryRange{{0, 0}, {4, InFirst}, {6, 0}},
			2, 0,
		},
		{
			"clipped at chromosome end",
			[]Entry{{"c", 8, 20}},
			[]Entry{{"c", 12, 14}},
			10,
			[]ElementaryRange{{0, 0}, {8, InFirst}},
			2, 0,
		},
	}
	for _, tt := range tests {
		u1 := mustUnion(t, tt.set1...)
		u2 := mustUnion(t, tt.set2...)
		j := NewJoin(&u1, &u2, []ChromExtent{{ID: 0, Name: "c", Length: tt.length}})
		require.Len(t, j.Chroms(), 1, tt.name)
		c := j.Chroms()[0]
		expect.EQ(t, j.Ranges(c), tt.want, tt.name)
		expect.EQ(t, c.Covered1, tt.cov1, tt.name)
		expect.EQ(t, c.Covered2, tt.cov2, tt.name)
	}
}

func TestJoinMultipleChroms(t *testing.T) {
	u1 := mustUnion(t, Entry{"a", 0, 3}, Entry{"b", 2, 4})
	u2 := mustUnion(t, Entry{"b", 3, 5})
	j := NewJoin(&u1, &u2, []ChromExtent{{0, "a", 5}, {1, "b", 6}})
	chroms := j.Chroms()
	require.Len(t, chroms, 2)
	expect.EQ(t, chroms[0].ID, 0)
	expect.EQ(t, j.Ranges(chroms[0]), []ElementaryRange{{0, InFirst}, {3, 0}})
	expect.EQ(t, chroms[1].ID, 1)
	expect.EQ(t, j.Ranges(chroms[1]), []ElementaryRange{{0, 0}, {2, InFirst}, {3, InBoth}, {4, InSecond}, {5, 0}})
}

func randomEntries(r *rand.Rand, name string, length PosType) []Entry {
	var entries []Entry
	for pos := PosType(r.Intn(20)); pos < length; {
		end := pos + 1 + PosType(r.Intn(30))
		entries = append(entries, Entry{name, pos, end})
		pos = end + PosType(r.Intn(30))
	}
	return entries
}

// TestJoinTiling checks the decomposition against per-base membership.
func TestJoinTiling(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	const length = 500
	for iter := 0; iter < 50; iter++ {
		u1 := mustUnion(t, randomEntries(r, "c", length)...)
		u2 := mustUnion(t, randomEntries(r, "c", length)...)
		j := NewJoin(&u1, &u2, []ChromExtent{{0, "c", length}})
		c := j.Chroms()[0]
		next := PosType(0)
		prevMask := Mask(0xff)
		covered1, covered2 := 0, 0
		j.Do(c, func(start, end PosType, mask Mask) {
			expect.EQ(t, start, next)
			expect.True(t, end > start)
			expect.True(t, mask != prevMask)
			for pos := start; pos < end; pos++ {
				expect.EQ(t, mask&InFirst != 0, contains(&u1, "c", pos))
				expect.EQ(t, mask&InSecond != 0, contains(&u2, "c", pos))
			}
			if mask&InFirst != 0 {
				covered1 += int(end - start)
			}
			if mask&InSecond != 0 {
				covered2 += int(end - start)
			}
			next = end
			prevMask = mask
		})
		expect.EQ(t, next, PosType(length))
		expect.EQ(t, c.Covered1, covered1)
		expect.EQ(t, c.Covered2, covered2)
	}
}
