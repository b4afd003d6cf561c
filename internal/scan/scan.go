// Package scan summarizes FASTA/FASTQ inputs, one Scanner per input.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/vertti/fxscan/internal/parser"
	"github.com/vertti/fxscan/internal/stats"
)

// ErrCorrupt is matched by every CorruptError.
var ErrCorrupt = errors.New("corrupt record")

// CorruptError reports the first corrupt record of an input in strict mode.
type CorruptError struct {
	Path   string
	Record uint64 // 1-based position among the records scanned so far
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("%s: corrupt record #%d", e.Path, e.Record)
}

func (e *CorruptError) Unwrap() error { return ErrCorrupt }

// Options configures scanning behavior.
type Options struct {
	Workers int  // Number of inputs scanned in parallel (default: NumCPU)
	Strict  bool // Fail on the first corrupt record instead of counting it
}

func (o *Options) withDefaults() Options {
	var opts Options
	if o != nil {
		opts = *o
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return opts
}

// Result is the outcome of scanning one input.
type Result struct {
	Path    string
	Summary stats.Summary
}

// Total combines the summaries of several results into one named "total".
func Total(results []*Result) *Result {
	total := &Result{Path: "total"}
	for _, res := range results {
		total.Summary.Merge(&res.Summary)
	}
	return total
}

// scanJob is one input waiting for a worker.
type scanJob struct {
	seqNum int
	path   string
}

// File scans the input at path. Compressed input is handled by parser.Open.
func File(ctx context.Context, path string, opts *Options) (res *Result, err error) {
	s, err := parser.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			res, err = nil, fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	return scanRecords(ctx, path, s, opts.withDefaults())
}

// Stream scans r under the given name. r is not closed.
func Stream(ctx context.Context, name string, r io.Reader, opts *Options) (*Result, error) {
	return scanRecords(ctx, name, parser.New(r), opts.withDefaults())
}

func scanRecords(ctx context.Context, name string, s *parser.Scanner, opts Options) (*Result, error) {
	res := &Result{Path: name}

	for n := uint64(1); ; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		st := s.Next()
		switch st {
		case parser.EndOfStream:
			res.Summary.Format = s.Format()
			return res, nil
		case parser.ReadFailure:
			return nil, fmt.Errorf("scanning %s: %w", name, s.Err())
		case parser.CorruptFormat:
			if opts.Strict {
				return nil, &CorruptError{Path: name, Record: n}
			}
		}
		res.Summary.Add(s.Record(), st)
	}
}

// Files scans every path on a bounded pool of workers. Each input gets its
// own Scanner. Results are returned in the order of paths; the first error
// cancels the remaining work.
func Files(ctx context.Context, paths []string, opts *Options) ([]*Result, error) {
	o := opts.withDefaults()
	results := make([]*Result, len(paths))

	// Single worker path (simpler, no goroutine overhead)
	if o.Workers == 1 || len(paths) <= 1 {
		for i, path := range paths {
			res, err := File(ctx, path, &o)
			if err != nil {
				return nil, err
			}
			results[i] = res
		}
		return results, nil
	}

	jobs := make(chan scanJob, o.Workers*2)
	g, ctx := errgroup.WithContext(ctx)

	// Start workers
	for range min(o.Workers, len(paths)) {
		g.Go(func() error {
			return runScanWorker(ctx, jobs, results, &o)
		})
	}

	// Producer: dispatch inputs in order
	g.Go(func() error {
		defer close(jobs)
		return produceScanJobs(ctx, jobs, paths)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// runScanWorker writes each result to its own slot, so no collector is needed.
func runScanWorker(ctx context.Context, jobs <-chan scanJob, results []*Result, opts *Options) error {
	for job := range jobs {
		res, err := File(ctx, job.path, opts)
		if err != nil {
			return err
		}
		results[job.seqNum] = res
	}
	return nil
}

func produceScanJobs(ctx context.Context, jobs chan<- scanJob, paths []string) error {
	for i, path := range paths {
		select {
		case jobs <- scanJob{seqNum: i, path: path}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
