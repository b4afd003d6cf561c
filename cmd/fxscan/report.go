package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/vertti/fxscan/internal/scan"
)

func writeSummary(w io.Writer, res *scan.Result) {
	sum := &res.Summary

	name := res.Path
	if name == "-" {
		name = "<stdin>"
	}

	fmt.Fprintf(w, "%s\n", name)
	fmt.Fprintf(w, "  format:   %s\n", sum.Format)
	fmt.Fprintf(w, "  records:  %s (good %s, no quality %s, corrupt %s)\n",
		comma(sum.Records), comma(sum.Good), comma(sum.NoQuality), comma(sum.Corrupt))
	fmt.Fprintf(w, "  bases:    %s (%s)\n", comma(sum.Bases), humanize.SI(float64(sum.Bases), "bp"))
	if sum.Records > 0 {
		fmt.Fprintf(w, "  lengths:  %d-%d, mean %.1f, N50 %d\n",
			sum.MinLength, sum.MaxLength, sum.MeanLength(), sum.N50())
		fmt.Fprintf(w, "  GC:       %.2f%%, non-ACGT %.2f%%\n",
			100*sum.Composition.GCFraction(), 100*sum.Composition.OtherFraction())
	}
	if sum.QualityBases() > 0 {
		fmt.Fprintf(w, "  quality:  %s, mean Q%.1f, Q20 %.2f%%, Q30 %.2f%%\n",
			sum.Encoding(), sum.MeanQuality(),
			100*sum.FractionAtLeast(20), 100*sum.FractionAtLeast(30))
	}
}

func comma(n uint64) string {
	return humanize.Comma(int64(n)) //nolint:gosec // counts stay far below 2^63
}
