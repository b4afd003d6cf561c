package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/multierr"

	"github.com/vertti/fxscan/internal/format"
)

// Open creates a Scanner that owns the input at path and releases it on Close.
// Gzip and zstd input is decompressed transparently. A path of "" or "-"
// reads standard input, which is never closed.
func Open(path string) (*Scanner, error) {
	if path == "" || path == "-" {
		r, closers, err := wrapCompressed(path, os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		return newOwned(r, closers), nil
	}

	f, err := os.Open(path) //nolint:gosec // CLI tool needs to open user-specified files
	if err != nil {
		return nil, fmt.Errorf("cannot open input: %w", err)
	}

	r, closers, err := wrapCompressed(path, f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return newOwned(r, append(closers, f)), nil
}

func newOwned(r io.Reader, closers multiCloser) *Scanner {
	s := New(r)
	s.ownership = owned
	s.source = closers
	return s
}

// wrapCompressed returns a reader yielding decompressed bytes of in, plus the
// decoders that must be closed with it.
func wrapCompressed(path string, in io.Reader) (io.Reader, multiCloser, error) {
	br := bufio.NewReaderSize(in, defaultBufferSize)
	c, err := format.Detect(path, br)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot inspect input: %w", err)
	}

	switch c {
	case format.Gzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open gzip input: %w", err)
		}
		return gz, multiCloser{gz}, nil
	case format.Zstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open zstd input: %w", err)
		}
		rc := zr.IOReadCloser()
		return rc, multiCloser{rc}, nil
	default:
		return br, nil, nil
	}
}

// multiCloser closes every closer in order and reports all failures.
type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var err error
	for _, c := range m {
		err = multierr.Append(err, c.Close())
	}
	return err
}
