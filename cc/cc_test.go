package cc

import (
	"bytes"
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/biocc/genome"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	assert.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

func testOpts(gen string) Opts {
	opts := DefaultOpts
	opts.Gen = gen
	opts.Space = 2
	return opts
}

func testCatalog(t *testing.T) *genome.Catalog {
	cat, err := genome.New([]genome.Chrom{{Name: "c1", Length: 10}, {Name: "c2", Length: 20}}, genome.DefaultOpts)
	require.NoError(t, err)
	return cat
}

func TestDetectKind(t *testing.T) {
	for _, tt := range []struct {
		path  string
		align bool
		want  Kind
	}{
		{"a.wig", false, Coverage},
		{"a.WIG.gz", false, Coverage},
		{"a.bedgraph", false, Coverage},
		{"a.bed", false, Features},
		{"a.bed.gz", true, Density},
		{"a.bam", false, Density},
	} {
		k, err := DetectKind(tt.path, tt.align)
		require.NoError(t, err, tt.path)
		expect.EQ(t, k, tt.want, tt.path)
	}
	_, err := DetectKind("a.txt", false)
	expect.True(t, errors.Is(errors.NotSupported, err))
}

func TestValidate(t *testing.T) {
	expect.True(t, errors.Is(errors.Precondition, DefaultOpts.Validate()))
	opts := testOpts("g.sizes")
	assert.NoError(t, opts.Validate())

	for _, modify := range []func(o *Opts){
		func(o *Opts) { o.Space = 1 },
		func(o *Opts) { o.GapLen = 10 },
		func(o *Opts) { o.ExtStep = 501 },
		func(o *Opts) { o.BinWidth = 1.5 },
		func(o *Opts) { o.CC = "X" },
		func(o *Opts) { o.PrCC = "ALL" },
		func(o *Opts) { o.Sort = "name" },
	} {
		o := opts
		modify(&o)
		expect.True(t, errors.Is(errors.Invalid, o.Validate()), "%+v", o)
	}
}

func TestReadList(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := writeFile(t, dir, "list", "# inputs\na.wig\n\n  b.wig \n#c.wig\n")
	paths, err := ReadList(path)
	require.NoError(t, err)
	expect.EQ(t, paths, []string{"a.wig", "b.wig"})
}

func compare(t *testing.T, opts Opts, primary, secondary string) (string, error) {
	var buf bytes.Buffer
	p, err := NewPair(primary, testCatalog(t), opts, &buf)
	require.NoError(t, err)
	err = p.Compare(secondary)
	return buf.String(), err
}

func TestCompareFeatures(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	a := writeFile(t, dir, "a.bed", "c1\t2\t5\n")
	b := writeFile(t, dir, "b.bed", "c1\t2\t5\nc3\t0\t4\n")
	out, err := compare(t, testOpts("g"), a, b)
	require.NoError(t, err)
	expect.EQ(t, out, "#a.bed\tb.bed\n#chrom\tP\nc1\t1.00000\n")

	// The primary is widened to [0,7), so membership differs on [0,2) and
	// [5,7) out of 10 bases.
	opts := testOpts("g")
	opts.ExtLen = 2
	opts.CC = "S"
	out, err = compare(t, opts, a, b)
	require.NoError(t, err)
	expect.True(t, strings.HasPrefix(out, "#a.bed\tb.bed\n#chrom\tS\nc1\t0.65465\n"), out)
}

func TestCompareFeaturesStepped(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	a := writeFile(t, dir, "a.bed", "c1\t4\t5\n")
	b := writeFile(t, dir, "b.bed", "c1\t2\t7\n")
	opts := testOpts("g")
	opts.ExtLen = 2
	opts.ExtStep = 1
	out, err := compare(t, opts, a, b)
	require.NoError(t, err)
	blocks := strings.Split(out, "#a.bed")
	require.Len(t, blocks, 4)
	expect.True(t, strings.HasPrefix(blocks[1], "\tb.bed\text=0\n"), blocks[1])
	expect.True(t, strings.HasPrefix(blocks[3], "\tb.bed\text=2\n"), blocks[3])
	expect.True(t, strings.HasSuffix(blocks[3], "c1\t1.00000\n"), blocks[3])
}

func TestCompareErrors(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	a := writeFile(t, dir, "a.bed", "c1\t2\t5\n")
	wig := writeFile(t, dir, "b.bedgraph", "c1\t0\t2\t1\n")
	other := writeFile(t, dir, "c.bed", "c2\t2\t5\n")

	out, err := compare(t, testOpts("g"), a, wig)
	expect.True(t, errors.Is(errors.Invalid, err))
	expect.EQ(t, out, "")

	_, err = compare(t, testOpts("g"), a, other)
	expect.True(t, errors.Is(errors.NotExist, err))
}

const (
	trackA = "c1\t0\t2\t1\nc1\t6\t8\t3\nc2\t0\t4\t2\nc2\t10\t12\t5\n"
	trackB = "c1\t0\t2\t1\nc1\t6\t8\t3\nc2\t0\t4\t2\nc2\t10\t12\t5\nc3\t0\t1\t1\n"
)

func TestCompareCoverage(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	a := writeFile(t, dir, "a.bedgraph", trackA)
	b := writeFile(t, dir, "b.bedgraph", trackB)
	opts := testOpts("g")
	opts.CC = "P,S"
	opts.PrCC = "IND,TOT"
	out, err := compare(t, opts, a, b)
	require.NoError(t, err)
	expect.EQ(t, out, "#a.bedgraph\tb.bedgraph\n#chrom\tP\tS\n"+
		"c1\t1.00000\t1.00000\nc2\t1.00000\t1.00000\ntotal\t1.00000\t1.00000\n")

	opts.PrCC = "TOT"
	out, err = compare(t, opts, a, b)
	require.NoError(t, err)
	expect.EQ(t, out, "#a.bedgraph\tb.bedgraph\n#chrom\tP\tS\ntotal\t1.00000\t1.00000\n")
}

func TestCompareTemplate(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	a := writeFile(t, dir, "a.bedgraph", trackA)
	b := writeFile(t, dir, "b.bedgraph", trackB)
	opts := testOpts("g")
	opts.FBed = writeFile(t, dir, "tmpl.bed", "c1\t0\t4\nc1\t6\t10\n")
	opts.Sort = "RGN"
	opts.BinWidth = 0.1
	opts.Warn = true
	out, err := compare(t, opts, a, b)
	require.NoError(t, err)
	expect.EQ(t, out, "#a.bedgraph\tb.bedgraph\n"+
		"#c1:region\tstart\tend\tP\n1\t0\t4\t1.00000\n2\t6\t10\t1.00000\n"+
		"#c1:bin up\tcount\n1.0\t2\n"+
		"#chrom\tP\nc1\t1.00000\n")
}

func TestCompareDensity(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	reads := "c1\t0\t2\tr1\t0\t+\nc1\t4\t8\tr2\t0\t-\nc2\t10\t12\tr3\t0\t+\n"
	a := writeFile(t, dir, "a.bed", reads)
	b := writeFile(t, dir, "b.bed", reads+"c1\t0\t2\tr4\t0\t+\n")
	opts := testOpts("g")
	opts.Align = true
	opts.Dupl = false
	out, err := compare(t, opts, a, b)
	require.NoError(t, err)
	expect.EQ(t, out, "#a.bed\tb.bed\n#chrom\tP\nc1\t1.00000\nc2\t1.00000\n")
}

func TestRun(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	opts := testOpts(writeFile(t, dir, "g.sizes", "c1\t10\nc2\t20\n"))
	a := writeFile(t, dir, "a.bed", "c1\t2\t5\n")
	b := writeFile(t, dir, "b.bed", "c1\t2\t5\n")
	c := writeFile(t, dir, "c.bedgraph", "c1\t0\t2\t1\n")
	opts.List = writeFile(t, dir, "list", "# secondary\n"+b+"\n")
	opts.Out = filepath.Join(dir, "out.txt")

	var stdout bytes.Buffer
	require.NoError(t, Run(context.Background(), opts, []string{a}, &stdout))
	expect.EQ(t, stdout.String(), "#a.bed\tb.bed\n#chrom\tP\nc1\t1.00000\n")
	data, err := ioutil.ReadFile(opts.Out)
	require.NoError(t, err)
	expect.EQ(t, string(data), stdout.String())

	// A failing pair does not stop the others.
	stdout.Reset()
	opts.List, opts.Out = "", ""
	err = Run(context.Background(), opts, []string{a, c, b}, &stdout)
	expect.True(t, errors.Is(errors.Invalid, err))
	expect.EQ(t, stdout.String(), "#a.bed\tb.bed\n#chrom\tP\nc1\t1.00000\n")

	err = Run(context.Background(), opts, []string{a}, &stdout)
	expect.True(t, errors.Is(errors.Invalid, err))
}
