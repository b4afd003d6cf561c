package stats

import (
	"slices"

	"github.com/vertti/fxscan/internal/parser"
)

// Summary accumulates statistics for one record stream.
// The zero value is ready to use.
type Summary struct {
	Format parser.Format

	Records   uint64 // Records produced (Good + NoQuality)
	Good      uint64
	NoQuality uint64
	Corrupt   uint64

	Bases       uint64
	MinLength   int
	MaxLength   int
	Composition Composition

	lengths  map[int]uint64 // sequence length -> record count
	qualHist [256]uint64    // raw quality byte -> count
}

// Add accounts for the outcome of one Scanner.Next call. Records are only
// read for Good and NoQualityFound statuses.
func (s *Summary) Add(rec *parser.Record, st parser.Status) {
	switch st {
	case parser.Good:
		s.Good++
	case parser.NoQualityFound:
		s.NoQuality++
	case parser.CorruptFormat:
		s.Corrupt++
		return
	default:
		return
	}

	n := len(rec.Sequence)
	if s.Records == 0 || n < s.MinLength {
		s.MinLength = n
	}
	if n > s.MaxLength {
		s.MaxLength = n
	}
	s.Records++
	s.Bases += uint64(n)

	if s.lengths == nil {
		s.lengths = make(map[int]uint64)
	}
	s.lengths[n]++

	s.Composition.Add(rec.Sequence)
	for _, q := range rec.Quality {
		s.qualHist[q]++
	}
}

// Merge folds o into s. The merged Format stays set only while both agree.
func (s *Summary) Merge(o *Summary) {
	switch {
	case s.Records+s.Corrupt == 0 && s.Format == parser.FormatUnknown:
		s.Format = o.Format
	case o.Format != s.Format && o.Format != parser.FormatUnknown:
		s.Format = parser.FormatUnknown
	}

	if o.Records > 0 {
		if s.Records == 0 || o.MinLength < s.MinLength {
			s.MinLength = o.MinLength
		}
		s.MaxLength = max(s.MaxLength, o.MaxLength)
	}

	s.Records += o.Records
	s.Good += o.Good
	s.NoQuality += o.NoQuality
	s.Corrupt += o.Corrupt
	s.Bases += o.Bases
	s.Composition.Merge(o.Composition)

	if len(o.lengths) > 0 && s.lengths == nil {
		s.lengths = make(map[int]uint64, len(o.lengths))
	}
	for l, n := range o.lengths {
		s.lengths[l] += n
	}
	for b, n := range o.qualHist {
		s.qualHist[b] += n
	}
}

// MeanLength returns the average sequence length.
func (s *Summary) MeanLength() float64 {
	if s.Records == 0 {
		return 0
	}
	return float64(s.Bases) / float64(s.Records)
}

// N50 returns the length L such that records of length >= L hold at least
// half of all bases.
func (s *Summary) N50() int {
	if s.Bases == 0 {
		return 0
	}

	sizes := make([]int, 0, len(s.lengths))
	for l := range s.lengths {
		sizes = append(sizes, l)
	}
	slices.Sort(sizes)
	slices.Reverse(sizes)

	var sum uint64
	for _, l := range sizes {
		sum += uint64(l) * s.lengths[l]
		if sum*2 >= s.Bases {
			return l
		}
	}
	return 0
}

// QualityBases returns the number of quality bytes seen.
func (s *Summary) QualityBases() uint64 {
	var n uint64
	for _, c := range s.qualHist {
		n += c
	}
	return n
}

// Encoding returns the quality encoding inferred from the smallest quality
// byte seen.
func (s *Summary) Encoding() QualityEncoding {
	for b, c := range s.qualHist {
		if c > 0 {
			return EncodingFromMin(byte(b))
		}
	}
	return EncodingFromMin(255)
}

// MeanQuality returns the mean Phred score over all quality bytes.
func (s *Summary) MeanQuality() float64 {
	total := s.QualityBases()
	if total == 0 {
		return 0
	}

	offset := s.Encoding().Offset()
	var sum int64
	for b, c := range s.qualHist {
		if c > 0 {
			sum += int64(b-offset) * int64(c) //nolint:gosec // bounded by record sizes
		}
	}
	return float64(sum) / float64(total)
}

// FractionAtLeast returns the fraction of quality bytes with Phred score >= q.
func (s *Summary) FractionAtLeast(q int) float64 {
	total := s.QualityBases()
	if total == 0 {
		return 0
	}

	threshold := q + s.Encoding().Offset()
	var n uint64
	for b := max(threshold, 0); b < len(s.qualHist); b++ {
		n += s.qualHist[b]
	}
	return float64(n) / float64(total)
}
