package genome

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func TestReadSizes(t *testing.T) {
	chroms, err := ReadSizes(strings.NewReader("# sizes\nchr1\t100\n\nchr2 200\n"))
	assert.NoError(t, err)
	expect.EQ(t, chroms, []Chrom{{Name: "chr1", Length: 100}, {Name: "chr2", Length: 200}})

	_, err = ReadSizes(strings.NewReader("chr1\n"))
	expect.True(t, errors.Is(errors.Invalid, err))
	_, err = ReadSizes(strings.NewReader("chr1\tabc\n"))
	expect.True(t, errors.Is(errors.Invalid, err))
}

func TestReadFASTA(t *testing.T) {
	const fa = ">c1\nACNNNNGT\nNNNNACGT\n>c2\nNNNN\n>c3\nACGT\n"
	chroms, err := ReadFASTA(strings.NewReader(fa), 3)
	assert.NoError(t, err)
	// c2 is all gap and dropped.
	expect.EQ(t, chroms, []Chrom{
		{Name: "c1", Length: 16, Regions: []Region{{0, 2}, {6, 8}, {12, 16}}},
		{Name: "c3", Length: 4, Regions: []Region{{0, 4}}},
	})
}

func TestCatalog(t *testing.T) {
	c, err := New([]Chrom{{Name: "chr1", Length: 100}, {Name: "chr2", Length: 250}}, Opts{})
	require.NoError(t, err)
	expect.EQ(t, c.Len(), 2)
	expect.True(t, c.SingleRegions())
	expect.EQ(t, c.Chrom(1).ID, 1)
	expect.EQ(t, c.Chrom(1).Regions, []Region{{0, 250}})
	expect.EQ(t, c.MinLength(), 100)
	expect.EQ(t, c.RelativeSize(1), 2.5)
	expect.EQ(t, c.Size(), int64(350))
	id, ok := c.ID("chr2")
	expect.True(t, ok)
	expect.EQ(t, id, 1)
	_, ok = c.Stated()
	expect.False(t, ok)
	expect.True(t, c.Accepts("chr1"))
	expect.False(t, c.Accepts("chrX"))

	c, err = New([]Chrom{{Name: "chr1", Length: 100}, {Name: "chr2", Length: 250, Regions: []Region{{10, 250}}}}, Opts{Stated: "chr2"})
	require.NoError(t, err)
	expect.False(t, c.SingleRegions())
	id, ok = c.Stated()
	expect.True(t, ok)
	expect.EQ(t, id, 1)
	expect.False(t, c.Accepts("chr1"))
	expect.True(t, c.Accepts("chr2"))

	_, err = New([]Chrom{{Name: "chr1", Length: 100}}, Opts{Stated: "chr9"})
	expect.True(t, errors.Is(errors.NotExist, err))
	_, err = New([]Chrom{{Name: "chr1", Length: 100}, {Name: "chr1", Length: 10}}, Opts{})
	expect.True(t, errors.Is(errors.Invalid, err))
	_, err = New(nil, Opts{})
	expect.True(t, err != nil)
}

func TestLoad(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	write := func(name, data string) string {
		path := filepath.Join(tmpdir, name)
		require.NoError(t, ioutil.WriteFile(path, []byte(data), 0644))
		return path
	}

	c, err := Load(write("g.chrom.sizes", "chr1\t100\nchr2\t300\n"), DefaultOpts)
	require.NoError(t, err)
	expect.EQ(t, c.Len(), 2)

	c, err = Load(write("g.fa.fai", "chr1\t12\t6\t5\t6\n"), DefaultOpts)
	require.NoError(t, err)
	l, ok := c.Length("chr1")
	expect.True(t, ok)
	expect.EQ(t, l, 12)

	c, err = Load(write("g.fa", ">chr1\nACGTNNNNAC\n"), Opts{GapLen: 2})
	require.NoError(t, err)
	expect.False(t, c.SingleRegions())
	expect.EQ(t, c.Chrom(0).Regions, []Region{{0, 4}, {8, 10}})

	_, err = Load(filepath.Join(tmpdir, "missing.sizes"), DefaultOpts)
	expect.True(t, err != nil)
}
