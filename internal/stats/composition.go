// Package stats accumulates per-stream statistics over scanned records.
package stats

// Base indexes into a Composition.
const (
	BaseA = iota
	BaseC
	BaseG
	BaseT
	BaseOther // N, IUPAC codes, gaps and anything else
)

var baseTable [256]byte

func init() {
	// Default to BaseOther
	for i := range baseTable {
		baseTable[i] = BaseOther
	}
	baseTable['A'] = BaseA
	baseTable['a'] = BaseA
	baseTable['C'] = BaseC
	baseTable['c'] = BaseC
	baseTable['G'] = BaseG
	baseTable['g'] = BaseG
	baseTable['T'] = BaseT
	baseTable['t'] = BaseT
}

// Composition counts sequence bytes by base.
type Composition [5]uint64

// Add counts every byte of seq.
func (c *Composition) Add(seq []byte) {
	for _, b := range seq {
		c[baseTable[b]]++
	}
}

// Merge adds the counts of o.
func (c *Composition) Merge(o Composition) {
	for i := range c {
		c[i] += o[i]
	}
}

// Total returns the number of counted bytes.
func (c Composition) Total() uint64 {
	var n uint64
	for _, v := range c {
		n += v
	}
	return n
}

// GCFraction returns (G+C)/(A+C+G+T). Other bytes are excluded.
// It is 0 when no ACGT base was counted.
func (c Composition) GCFraction() float64 {
	acgt := c[BaseA] + c[BaseC] + c[BaseG] + c[BaseT]
	if acgt == 0 {
		return 0
	}
	return float64(c[BaseG]+c[BaseC]) / float64(acgt)
}

// OtherFraction returns the share of counted bytes that are not A, C, G or T.
func (c Composition) OtherFraction() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c[BaseOther]) / float64(total)
}
