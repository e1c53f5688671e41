package zraw

import "math/bits"

// blockParameters is the (a,b,c,d,e,f) tuple derived once per block from
// the current bitdepth_diff. Variable-length and raw mode share the same
// tuple; only usage differs.
type blockParameters struct {
	a int
	b int
	c int
	d int
	e int
	f int
}

// deriveBlockParameters computes the tuple described in spec.md §3/§4.2.
// bitdepthDiff must already lie in [0, bitdepthReal]; ReadNext rejects
// values outside that range before calling this.
func deriveBlockParameters(bitdepthDiff, maxAllowedPixelValue, bitdepthReal int) blockParameters {
	a := bitdepthDiff
	b := 1 << uint(a)
	c := (b >> 1) - 1
	if c < 0 {
		c = 0
	}
	d := ((2*c + maxAllowedPixelValue) >> uint(a)) + 1
	e := 0
	if d > 1 {
		e = bits.Len(uint(d - 1))
	}
	f := bitdepthReal - a
	return blockParameters{a: a, b: b, c: c, d: d, e: e, f: f}
}
