// fxscan summarizes FASTA and FASTQ files.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vertti/fxscan/internal/scan"
)

var version = "dev"

const (
	exitSuccess = 0
	exitError   = 1
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	return exitSuccess
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "fxscan [flags] [file ...]",
		Short: "Summarize FASTA and FASTQ files",
		Long: `fxscan reads FASTA or FASTQ records, detecting the format from the first
record, and prints a summary per input: record counts by status, base counts,
length distribution, GC content and quality encoding.

Gzip and zstd input is decompressed transparently. With no file, or when file
is -, standard input is read.

Settings can also come from a config file (--config) or FXSCAN_* environment
variables, e.g. FXSCAN_WORKERS=4.`,
		Example: `  fxscan sample.fq                  Summarize one file
  fxscan -w 8 lane*.fastq.gz        Scan many files in parallel
  fxscan --strict genome.fa         Fail on the first corrupt record
  zcat sample.fq.gz | fxscan        Read from stdin`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), configFile)
			if err != nil {
				return err
			}
			return execute(cmd.Context(), cfg, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file (TOML, YAML or JSON)")
	flags.IntP("workers", "w", 0, "files scanned in parallel (default: NumCPU)")
	flags.Bool("strict", false, "fail on the first corrupt record")
	flags.BoolP("quiet", "q", false, "suppress corruption warnings")

	return cmd
}

func execute(ctx context.Context, cfg config, paths []string, stdout, stderr io.Writer) error {
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	opts := &scan.Options{
		Workers: cfg.Workers,
		Strict:  cfg.Strict,
	}
	results, err := scan.Files(ctx, paths, opts)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(stdout)
	for _, res := range results {
		writeSummary(bw, res)
		if res.Summary.Corrupt > 0 && !cfg.Quiet {
			fmt.Fprintf(stderr, "warning: %s: %d corrupt record(s) skipped\n", res.Path, res.Summary.Corrupt)
		}
	}
	if len(results) > 1 {
		writeSummary(bw, scan.Total(results))
	}
	return bw.Flush()
}
