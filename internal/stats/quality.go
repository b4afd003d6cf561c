package stats

// Phred encoding offsets.
const (
	Phred33Offset = 33
	Phred64Offset = 64
)

// QualityEncoding represents the quality score encoding scheme.
type QualityEncoding uint8

// Quality encoding schemes.
const (
	EncodingPhred33 QualityEncoding = iota // Sanger/Illumina 1.8+ (offset 33)
	EncodingPhred64                        // Illumina 1.3-1.7 (offset 64)
)

func (e QualityEncoding) String() string {
	if e == EncodingPhred64 {
		return "Phred+64"
	}
	return "Phred+33"
}

// Offset returns the ASCII offset of the encoding.
func (e QualityEncoding) Offset() int {
	if e == EncodingPhred64 {
		return Phred64Offset
	}
	return Phred33Offset
}

// EncodingFromMin picks the encoding from the smallest quality byte seen.
// Anything below '@' (64) can only be Phred+33; the ambiguous ';'..'?' range
// also defaults to Phred+33. 255 means no quality data and yields Phred+33.
func EncodingFromMin(minByte byte) QualityEncoding {
	if minByte == 255 {
		return EncodingPhred33
	}
	if minByte >= 64 {
		return EncodingPhred64
	}
	return EncodingPhred33
}
