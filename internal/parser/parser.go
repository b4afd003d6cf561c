// Package parser provides streaming FASTA/FASTQ record scanning.
//
// A Scanner detects the format from the first record marker ('>' for FASTA,
// '@' for FASTQ) and keeps it for the life of the stream. Multi-line sequence
// and quality blocks are supported. Malformed input is reported through the
// returned Status, never by panicking.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Record is a single FASTA or FASTQ record.
//
// The slices are owned by the Scanner and overwritten by the next call to
// Next. Use Clone to keep a record.
type Record struct {
	Name     []byte // Header up to the first space, without the marker
	Comment  []byte // Header after the first space; empty if none
	Sequence []byte // Sequence lines concatenated without separators
	Quality  []byte // Quality lines concatenated; empty for FASTA
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	return &Record{
		Name:     bytes.Clone(r.Name),
		Comment:  bytes.Clone(r.Comment),
		Sequence: bytes.Clone(r.Sequence),
		Quality:  bytes.Clone(r.Quality),
	}
}

func (r *Record) reset() {
	r.Name = r.Name[:0]
	r.Comment = r.Comment[:0]
	r.Sequence = r.Sequence[:0]
	r.Quality = r.Quality[:0]
}

// setHeader splits a header line at its first space.
func (r *Record) setHeader(line []byte) {
	if i := bytes.IndexByte(line, ' '); i >= 0 {
		r.Name = append(r.Name[:0], line[:i]...)
		r.Comment = append(r.Comment[:0], line[i+1:]...)
		return
	}
	r.Name = append(r.Name[:0], line...)
	r.Comment = r.Comment[:0]
}

// ownership tells whether the Scanner must release its source on Close.
type ownership uint8

const (
	borrowed ownership = iota // caller-supplied stream, never closed
	owned                     // opened by Open, closed by Close
)

// Scanner reads FASTA or FASTQ records from a LineReader.
// A Scanner must not be used from multiple goroutines at once.
type Scanner struct {
	stream LineReader
	rec    Record
	format Format
	err    error

	ownership ownership
	source    io.Closer
	closed    bool
}

// New creates a Scanner reading from r. The Scanner never closes r.
func New(r io.Reader) *Scanner {
	return NewFromLineReader(NewLineReader(r))
}

// NewFromLineReader creates a Scanner over an existing LineReader.
// The Scanner never closes it.
func NewFromLineReader(lr LineReader) *Scanner {
	return &Scanner{stream: lr, ownership: borrowed}
}

// Record returns the record filled by the last successful call to Next.
func (s *Scanner) Record() *Record { return &s.rec }

// Format returns the stream format, or FormatUnknown before the first record.
func (s *Scanner) Format() Format { return s.format }

// Err returns the read error behind a ReadFailure status, if any.
func (s *Scanner) Err() error { return s.err }

// Close releases the underlying source if the Scanner opened it.
// Closing a Scanner over a borrowed stream does nothing.
func (s *Scanner) Close() error {
	if s.ownership == borrowed || s.closed {
		return nil
	}
	s.closed = true
	return s.source.Close()
}

type scanState uint8

const (
	readingHeader scanState = iota
	readingSequence
	readingQuality
	skippingBlank
	done
)

// boundary classifies the next line of input before it is consumed.
type boundary uint8

const (
	atEnd       boundary = iota // end of stream
	atMarker                    // '>' or '@' starting a new record
	atSeparator                 // '+' starting a FASTQ quality block
	atOther                     // record payload
)

// Next parses the next record into Record.
//
// Good and NoQualityFound mean a record is available. EndOfStream is returned
// once the input is exhausted, on every further call, and leaves the record
// untouched. CorruptFormat reports malformed input; calling Next again
// resumes at the following record marker. ReadFailure is sticky; Err returns
// the cause.
func (s *Scanner) Next() Status {
	if s.err != nil {
		return ReadFailure
	}
	if !s.stream.More() {
		_, err := s.stream.PeekByte()
		return s.fail(err)
	}

	state, status := readingHeader, Good
	for state != done {
		switch state {
		case readingHeader:
			state, status = s.readHeader()
		case readingSequence:
			state, status = s.readSequence()
		case readingQuality:
			state, status = s.readQuality()
		case skippingBlank:
			state, status = s.skipBlankLines()
		}
	}
	return status
}

func (s *Scanner) readHeader() (scanState, Status) {
	marker, discarded, err := s.skipToMarker()
	if err != nil {
		if errors.Is(err, io.EOF) && discarded {
			return done, CorruptFormat
		}
		return done, s.fail(err)
	}

	s.rec.reset()
	switch f := formatOf(marker); {
	case s.format == FormatUnknown:
		s.format = f
	case s.format != f:
		if err := s.stream.SkipUntil('\n'); err != nil && !errors.Is(err, io.EOF) {
			return done, s.fail(err)
		}
		return done, s.corrupt()
	}

	line, err := s.stream.ReadLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return done, s.fail(err)
	}
	s.rec.setHeader(line)
	return readingSequence, Good
}

// skipToNextRecord drops whole lines until the next line that starts with a
// marker, or the end of stream. The stream must be at the start of a line.
// Every CorruptFormat leaves the stream there, so one bad record is reported
// once.
func (s *Scanner) skipToNextRecord() error {
	for {
		b, err := s.peekBoundary()
		if err != nil {
			return err
		}
		if b == atEnd || b == atMarker {
			return nil
		}
		if err := s.stream.SkipUntil('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// corrupt discards the rest of a malformed record.
func (s *Scanner) corrupt() Status {
	if err := s.skipToNextRecord(); err != nil {
		return s.fail(err)
	}
	return CorruptFormat
}

// skipToMarker consumes input through the next record marker. discarded
// reports whether any non-blank byte was dropped on the way.
func (s *Scanner) skipToMarker() (marker byte, discarded bool, err error) {
	for {
		c, err := s.stream.ReadByte()
		if err != nil {
			return 0, discarded, err
		}
		switch c {
		case '>', '@':
			return c, discarded, nil
		case ' ', '\t', '\r', '\n':
		default:
			discarded = true
		}
	}
}

func (s *Scanner) readSequence() (scanState, Status) {
	for {
		b, err := s.peekBoundary()
		if err != nil {
			return done, s.fail(err)
		}

		switch b {
		case atEnd, atMarker:
			if s.format == FormatFASTQ {
				return done, NoQualityFound
			}
			return done, Good
		case atSeparator:
			if s.format == FormatFASTQ {
				return readingQuality, Good
			}
			return done, Good
		}

		line, err := s.stream.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				continue
			}
			return done, s.fail(err)
		}
		s.rec.Sequence = append(s.rec.Sequence, line...)
	}
}

func (s *Scanner) readQuality() (scanState, Status) {
	// The '+' line may repeat the header; it is not checked.
	if err := s.stream.SkipUntil('\n'); err != nil && !errors.Is(err, io.EOF) {
		return done, s.fail(err)
	}

	for len(s.rec.Quality) < len(s.rec.Sequence) {
		line, err := s.stream.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return done, s.fail(err)
		}
		s.rec.Quality = append(s.rec.Quality, line...)
	}

	if len(s.rec.Quality) != len(s.rec.Sequence) {
		return done, s.corrupt()
	}
	return skippingBlank, Good
}

// skipBlankLines drops empty lines after a quality block and checks that the
// next record or the end of stream follows.
func (s *Scanner) skipBlankLines() (scanState, Status) {
	for {
		c, err := s.stream.PeekByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return done, Good
			}
			return done, s.fail(err)
		}
		if c != '\n' && c != '\r' {
			break
		}
		if _, err := s.stream.ReadByte(); err != nil {
			return done, s.fail(err)
		}
	}

	b, err := s.peekBoundary()
	if err != nil {
		return done, s.fail(err)
	}
	if b == atEnd || b == atMarker {
		return done, Good
	}
	return done, s.corrupt()
}

// peekBoundary looks at the next byte. End of stream is not an error.
func (s *Scanner) peekBoundary() (boundary, error) {
	c, err := s.stream.PeekByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return atEnd, nil
		}
		return atEnd, err
	}
	switch c {
	case '>', '@':
		return atMarker, nil
	case '+':
		return atSeparator, nil
	default:
		return atOther, nil
	}
}

// fail maps io.EOF to EndOfStream and records any other error.
func (s *Scanner) fail(err error) Status {
	if err == nil || errors.Is(err, io.EOF) {
		return EndOfStream
	}
	s.err = fmt.Errorf("reading input: %w", err)
	return ReadFailure
}
