// Package cc correlates a primary genomic file with secondary files: coverage
// tracks, alignment densities and feature sets.  Each file pair is compared
// over the chromosomes common to both files and the catalog.
package cc

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/biocc/genome"
	"github.com/grailbio/biocc/util"
)

// ReadList reads input paths, one per line.  Empty lines and lines starting
// with '#' are skipped.
func ReadList(path string) (paths []string, err error) {
	err = util.WithPath(path, func(r io.Reader) error {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || line[0] == '#' {
				continue
			}
			paths = append(paths, line)
		}
		return scanner.Err()
	})
	if err != nil {
		err = errors.E(err, "cc.ReadList", path)
	}
	return
}

// Run compares the first of the inputs with each of the others, writing the
// results to stdout and, with opts.Out set, to that file too.  The inputs are
// args followed by the paths listed in opts.List.
//
// Errors loading the catalog, the primary file or the template end the run.
// Errors comparing one pair are logged and the run goes on with the next
// one; Run then returns an error once every pair is done.
func Run(ctx context.Context, opts Opts, args []string, stdout io.Writer) (err error) {
	start := time.Now()
	if err = opts.Validate(); err != nil {
		return err
	}
	paths := append([]string(nil), args...)
	if opts.List != "" {
		listed, err := ReadList(opts.List)
		if err != nil {
			return err
		}
		paths = append(paths, listed...)
	}
	if len(paths) < 2 {
		return errors.E(errors.Invalid, "cc.Run: a primary file and at least one secondary file are required")
	}
	cat, err := genome.Load(opts.Gen, genome.Opts{GapLen: opts.GapLen, Stated: opts.Chr})
	if err != nil {
		return err
	}
	if id, ok := cat.Stated(); ok {
		log.Printf("cc.Run: %s only", cat.Chrom(id).Name)
	} else {
		log.Debug.Printf("cc.Run: %d chromosome(s), %d bases", cat.Len(), cat.Size())
	}

	w := stdout
	if opts.Out != "" {
		out, closer, e := util.CreatePath(ctx, opts.Out)
		if e != nil {
			return e
		}
		defer func() {
			if e := closer(); e != nil && err == nil {
				err = e
			}
		}()
		w = io.MultiWriter(stdout, out)
	}

	p, err := NewPair(paths[0], cat, opts, w)
	if err != nil {
		return err
	}
	failed := 0
	for _, path := range paths[1:] {
		if err := p.Compare(path); err != nil {
			log.Error.Printf("%s vs %s: %v", paths[0], path, err)
			failed++
		}
	}
	if opts.Time {
		log.Printf("cc.Run: %d comparison(s) in %v", len(paths)-1, time.Since(start))
	}
	if failed > 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("cc.Run: %d of %d comparison(s) failed", failed, len(paths)-1))
	}
	return nil
}
