// Package format detects the compression container wrapping sequence input.
package format

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// Magic bytes identifying supported containers.
var (
	GzipMagic = []byte{0x1f, 0x8b}
	ZstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Compression is the container format of an input stream.
type Compression uint8

// Supported containers.
const (
	None Compression = iota // Plain text
	Gzip                    // gzip / bgzip
	Zstd                    // Zstandard
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	default:
		return "none"
	}
}

// Sniff inspects the first bytes of br without consuming them.
// Input shorter than a magic number is reported as None.
func Sniff(br *bufio.Reader) (Compression, error) {
	header, err := br.Peek(len(ZstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return None, err
	}

	switch {
	case bytes.HasPrefix(header, GzipMagic):
		return Gzip, nil
	case bytes.HasPrefix(header, ZstdMagic):
		return Zstd, nil
	default:
		return None, nil
	}
}

// FromExtension guesses the container from a file name.
func FromExtension(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip", ".bgz":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	default:
		return None
	}
}

// Detect combines Sniff and FromExtension. Magic bytes take precedence; the
// extension is only consulted when the content is not recognized.
func Detect(path string, br *bufio.Reader) (Compression, error) {
	c, err := Sniff(br)
	if err != nil {
		return None, err
	}
	if c != None {
		return c, nil
	}
	return FromExtension(path), nil
}
