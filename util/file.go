// Package util holds file helpers shared by the readers and the driver.
package util

import (
	"context"
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
)

// OpenPath opens path for reading, transparently decompressing gzipped
// files.  The returned closer must be called once the reader is exhausted.
func OpenPath(path string) (reader io.Reader, closer func() error, err error) {
	ctx := vcontext.Background()
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	closer = func() error { return infile.Close(ctx) }
	reader = io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(reader); err != nil {
			_ = closer()
			return
		}
		reader = gz
	}
	return
}

// WithPath calls fn with a reader of path, as opened by OpenPath, and closes
// it afterwards.  The first error wins.
func WithPath(path string, fn func(r io.Reader) error) (err error) {
	reader, closer, err := OpenPath(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closer(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(reader)
}

// CreatePath creates path for writing.  The returned closer flushes the file.
func CreatePath(ctx context.Context, path string) (w io.Writer, closer func() error, err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return out.Writer(ctx), func() error { return out.Close(ctx) }, nil
}
