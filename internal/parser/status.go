package parser

import "strconv"

// Status is the outcome of a single Scanner.Next call.
//
// Non-negative values mean a record was produced. Negative values are terminal
// for the call: no record is available.
type Status int

// Scan statuses.
const (
	Good           Status = 0    // Record complete, possibly at end of stream
	NoQualityFound Status = 1    // FASTQ record without a quality block; sequence is usable
	EndOfStream    Status = -1   // No further record; repeated calls return the same
	ReadFailure    Status = -2   // Underlying reader failed; see Scanner.Err
	CorruptFormat  Status = -255 // Input violated the record structure
)

// OK reports whether a record was produced.
func (s Status) OK() bool { return s >= 0 }

// Terminal reports whether the call produced no record.
func (s Status) Terminal() bool { return s < 0 }

func (s Status) String() string {
	switch s {
	case Good:
		return "good"
	case NoQualityFound:
		return "no quality"
	case EndOfStream:
		return "end of stream"
	case ReadFailure:
		return "read failure"
	case CorruptFormat:
		return "corrupt format"
	default:
		return "status(" + strconv.Itoa(int(s)) + ")"
	}
}

// Format is the record format of a stream, fixed by its first record.
type Format int

// Stream formats.
const (
	FormatUnknown Format = iota
	FormatFASTA
	FormatFASTQ
)

func (f Format) String() string {
	switch f {
	case FormatFASTA:
		return "FASTA"
	case FormatFASTQ:
		return "FASTQ"
	default:
		return "unknown"
	}
}

// formatOf maps a header marker byte to its format.
func formatOf(marker byte) Format {
	if marker == '@' {
		return FormatFASTQ
	}
	return FormatFASTA
}
