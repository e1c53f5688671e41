package zraw

// BlockSize is the encoder's fixed block width in samples. 16 is the value
// used consistently throughout the source decoder.
const BlockSize = 16

// BlockLine is a 2D buffer of blocksCount x BlockSize u16 samples, plus a
// per-block header-value side channel. It plays the role the source's
// ZRawImageBlockLine plays: a flat, reusable buffer whose sample storage is
// allocated once at construction. Line returns a newly allocated copy.
type BlockLine struct {
	blocksCount int
	valuesCount int
	blocks      [][BlockSize]uint16
	header      []uint32
}

// NewBlockLine allocates a BlockLine sized for blocksCount blocks of
// BlockSize samples, filled with defaultValue.
func NewBlockLine(blocksCount, valuesCount int, defaultValue uint16) *BlockLine {
	bl := &BlockLine{
		blocksCount: blocksCount,
		valuesCount: valuesCount,
		blocks:      make([][BlockSize]uint16, blocksCount),
		header:      make([]uint32, blocksCount),
	}
	bl.Fill(defaultValue)
	return bl
}

// Fill resets every sample to value, leaving header values untouched.
func (bl *BlockLine) Fill(value uint16) {
	for b := range bl.blocks {
		for i := range bl.blocks[b] {
			bl.blocks[b][i] = value
		}
	}
}

// At returns the sample at (block, index).
func (bl *BlockLine) At(block, index int) uint16 {
	return bl.blocks[block][index]
}

// Set stores a sample at (block, index).
func (bl *BlockLine) Set(block, index int, value uint16) {
	bl.blocks[block][index] = value
}

// HeaderValues exposes the per-block header side channel for direct
// indexed writes, mirroring the source's HeaderValues() accessor.
func (bl *BlockLine) HeaderValues() []uint32 {
	return bl.header
}

// CopyFrom overwrites the receiver's samples and header values with src's,
// implementing the source's line_a_prev = line_a content-copy assignment
// without reallocating.
func (bl *BlockLine) CopyFrom(src *BlockLine) {
	copy(bl.blocks, src.blocks)
	copy(bl.header, src.header)
}

// Line flattens the buffer into a single valuesCount-long slice of
// samples in block-major order, matching the source's Line() accessor.
func (bl *BlockLine) Line() []uint16 {
	out := make([]uint16, bl.valuesCount)
	n := 0
	for b := 0; b < bl.blocksCount && n < bl.valuesCount; b++ {
		for i := 0; i < BlockSize && n < bl.valuesCount; i++ {
			out[n] = bl.blocks[b][i]
			n++
		}
	}
	return out
}

// Restore scatters a previously-flattened slice (as returned by Line, and
// possibly mutated by a post-process hook) back into block-major storage.
// The post-process contract in spec.md §4.7 operates on flattened lines
// that must feed the next line's previous-line predictor, so any in-place
// edit has to be written back through this method.
func (bl *BlockLine) Restore(flat []uint16) {
	n := 0
	for b := 0; b < bl.blocksCount && n < len(flat); b++ {
		for i := 0; i < BlockSize && n < len(flat); i++ {
			bl.blocks[b][i] = flat[n]
			n++
		}
	}
}
