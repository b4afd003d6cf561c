package parser

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// defaultBufferSize matches the read buffer used for FASTQ input elsewhere.
const defaultBufferSize = 1 << 20 // 1MB buffer

// LineReader is the line-oriented byte stream the scanner consumes.
//
// PeekByte, ReadByte and ReadLine return io.EOF once the stream is exhausted.
// Any other error is a read failure of the underlying source.
type LineReader interface {
	// More reports whether at least one more byte can be read.
	More() bool
	// PeekByte returns the next byte without consuming it.
	PeekByte() (byte, error)
	// ReadByte consumes and returns the next byte.
	ReadByte() (byte, error)
	// ReadLine returns the next line without its terminator. The slice is only
	// valid until the next call on the reader.
	ReadLine() ([]byte, error)
	// SkipUntil discards input up to and including delim.
	SkipUntil(delim byte) error
}

// bufferedStream implements LineReader on top of a bufio.Reader.
type bufferedStream struct {
	reader *bufio.Reader
	line   []byte // reusable buffer for reading lines
	err    error  // first non-EOF read error, returned from then on
}

// NewLineReader wraps r in a buffered LineReader.
func NewLineReader(r io.Reader) LineReader {
	return &bufferedStream{
		reader: bufio.NewReaderSize(r, defaultBufferSize),
		line:   make([]byte, 0, 512),
	}
}

func (s *bufferedStream) More() bool {
	_, err := s.PeekByte()
	return err == nil
}

func (s *bufferedStream) PeekByte() (byte, error) {
	if s.err != nil {
		return 0, s.err
	}
	b, err := s.reader.Peek(1)
	if err != nil {
		return 0, s.keep(err)
	}
	return b[0], nil
}

func (s *bufferedStream) ReadByte() (byte, error) {
	if s.err != nil {
		return 0, s.err
	}
	c, err := s.reader.ReadByte()
	if err != nil {
		return 0, s.keep(err)
	}
	return c, nil
}

// ReadLine reads a line from the input, stripping the newline.
// A final line without a terminator is returned with a nil error.
func (s *bufferedStream) ReadLine() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.line = s.line[:0]

	for {
		segment, isPrefix, err := s.reader.ReadLine()
		if err != nil {
			return nil, s.keep(err)
		}

		s.line = append(s.line, segment...)

		if !isPrefix {
			break
		}
	}

	// Trim any trailing CR (for Windows line endings)
	s.line = bytes.TrimSuffix(s.line, []byte{'\r'})

	return s.line, nil
}

func (s *bufferedStream) SkipUntil(delim byte) error {
	if s.err != nil {
		return s.err
	}
	for {
		_, err := s.reader.ReadSlice(delim)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil {
			return s.keep(err)
		}
		return nil
	}
}

// keep remembers err unless it is io.EOF. bufio.Reader reports a read error
// only once, which would otherwise let a failed read look like end of input.
func (s *bufferedStream) keep(err error) error {
	if !errors.Is(err, io.EOF) {
		s.err = err
	}
	return err
}
