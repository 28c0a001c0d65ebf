package main

import (
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/biocc/cc"
	"v.io/x/lib/cmdline"
)

func newCmdCC() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "bio-cc",
		Short:    "Correlate genomic coverage, alignment and feature files",
		ArgsName: "primary [secondary...]",
		LookPath: false,
	}
	opts := cc.DefaultOpts
	cmd.Flags.StringVar(&opts.Gen, "gen", "", "Chromosome sizes: a chrom.sizes file, a FASTA index (.fai) or a FASTA file. Required")
	cmd.Flags.IntVar(&opts.GapLen, "gap-len", opts.GapLen, "Minimal run of N bases treated as a gap when -gen is a FASTA file, in [50, 100000]")
	cmd.Flags.BoolVar(&opts.Align, "align", opts.Align, "Treat BED inputs as alignments and correlate their read densities")
	cmd.Flags.BoolVar(&opts.Dupl, "dupl", opts.Dupl, "Accept duplicate reads. Alignments only")
	cmd.Flags.StringVar(&opts.List, "list", "", "File listing further inputs, one per line; '#' starts a comment line")
	cmd.Flags.StringVar(&opts.Chr, "chr", "", "Treat this chromosome only")
	cmd.Flags.StringVar(&opts.CC, "cc", opts.CC, "Coefficients: P (Pearson), S (signal) or P,S")
	cmd.Flags.IntVar(&opts.Space, "space", opts.Space, "Resolution of coverage and density maps in bases, in [2, 10000]")
	cmd.Flags.StringVar(&opts.PrCC, "pr-cc", opts.PrCC, "Coefficients to print: IND (per chromosome), TOT (genome total) or IND,TOT")
	cmd.Flags.StringVar(&opts.FBed, "fbed", "", "Template BED: correlate within its features only. Ignored for feature inputs")
	cmd.Flags.IntVar(&opts.ExtLen, "ext-len", opts.ExtLen, `Extension of features on both sides, in [0, 10000].
The primary features of feature inputs are extended, the template features otherwise.`)
	cmd.Flags.IntVar(&opts.ExtStep, "ext-step", opts.ExtStep, "Correlate feature inputs at every extension step up to -ext-len, in [0, 500]")
	cmd.Flags.Float64Var(&opts.BinWidth, "bin-width", opts.BinWidth, "Print a histogram of the per-feature coefficients with this bin width, in [0, 1]")
	cmd.Flags.StringVar(&opts.Sort, "sort", "", "Print the per-feature coefficients sorted by feature (RGN) or by coefficient (CC)")
	cmd.Flags.BoolVar(&opts.Norm, "norm", opts.Norm, "Normalize the features of -fbed to a common peak")
	cmd.Flags.BoolVar(&opts.Warn, "warn", opts.Warn, "Report the chromosomes missing from either file of a pair and reading statistics")
	cmd.Flags.StringVar(&opts.Out, "out", "", "Duplicate the standard output to this file")
	cmd.Flags.BoolVar(&opts.Time, "time", opts.Time, "Log the run time")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) == 0 && opts.List == "" {
			return errors.E(errors.Invalid, "bio-cc takes a primary file and at least one secondary file")
		}
		return cc.Run(vcontext.Background(), opts, argv, env.Stdout)
	})
	return cmd
}

func main() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newCmdCC())
}
