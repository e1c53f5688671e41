// Package zraw is the public façade over the ZRAW line decoder. It mirrors
// the internal package's types closely, adding only the defaults and
// friendlier zero-value handling appropriate for external callers.
package zraw

import (
	"errors"
	"fmt"

	"github.com/rawpipe/zraw/internal/zraw"
)

// PostProcessor receives the line post-processing calls a ZRAW stream
// expects after each line: sensor-specific noise reduction, cross-field
// filtering, and headroom truncation. Implementations mutate their line
// argument in place. Callers that have no post-process kernel can omit
// Options.PostProcess entirely; a no-op implementation is used instead.
type PostProcessor = zraw.PostProcessor

// AlignMode selects the bit boundary a line's final block aligns to when
// Options.Stride is set.
type AlignMode int

const (
	// AlignTo128 aligns the stream to a 128-bit boundary after each line.
	AlignTo128 AlignMode = iota
	// AlignTo256 aligns the stream to a 256-bit boundary after each line.
	AlignTo256
)

func (m AlignMode) String() string {
	switch m {
	case AlignTo128:
		return "AlignTo128"
	case AlignTo256:
		return "AlignTo256"
	default:
		return fmt.Sprintf("AlignMode(%d)", int(m))
	}
}

func (m AlignMode) toInternal() zraw.AlignMode {
	if m == AlignTo256 {
		return zraw.AlignTo256
	}
	return zraw.AlignTo128
}

// BayerPattern selects which line parity is reported as the needed field
// to the A-component post-process hook. The B component's cross-line
// predictor is chosen by line parity alone, whatever the pattern.
type BayerPattern uint32

const (
	BayerPattern0 BayerPattern = iota
	BayerPattern1
	BayerPattern2
	BayerPattern3
)

func (p BayerPattern) String() string {
	if p <= BayerPattern3 {
		return fmt.Sprintf("BayerPattern%d", uint32(p))
	}
	return fmt.Sprintf("BayerPattern(%d)", uint32(p))
}

// Options configures a Decoder. It corresponds field-for-field to a ZRAW
// stream's per-line configuration; callers typically read these values out
// of a container header before constructing a Decoder.
type Options struct {
	// DefaultPixValue seeds every context window at the start of a line and
	// fills samples that precede any decoded data.
	DefaultPixValue uint16

	// MaxAllowedPixelValue is the inclusive upper bound of a reconstructed
	// sample, e.g. 4095 for 12-bit sensor data.
	MaxAllowedPixelValue int
	// MaxAllowedRawValue bounds the adaptive magnitude estimate fed back
	// into the prefix width selection.
	MaxAllowedRawValue int

	// MaxValuesCount is the number of samples actually present in a line;
	// it may be less than BlocksCount*16 for a partial final block.
	MaxValuesCount int
	// BlocksCount is the number of 16-sample blocks composing a line.
	BlocksCount int

	// Stride, when true, pads the stream to AlignMode's boundary after a
	// line's last block.
	Stride    bool
	AlignMode AlignMode

	// Lossless disables the per-block bitdepth_diff delta protocol: every
	// block behaves as if bitdepth_diff were 0.
	Lossless bool

	// BitdepthReal is the sensor's native bit depth, 1..16.
	BitdepthReal int

	BayerPattern BayerPattern

	// NoiseLevel1 and NoiseLevel2 bound the rolling noise level estimate.
	NoiseLevel1 int
	NoiseLevel2 int
	// NoiseLevelDistance is the characteristic-distance threshold below
	// which a sample counts toward the noise level estimate.
	NoiseLevelDistance uint32

	// PostProcess receives the per-line filtering calls. If nil, decoded
	// lines pass through unmodified.
	PostProcess PostProcessor
}

func (o Options) toInternal() zraw.Parameters {
	return zraw.Parameters{
		DefaultPixValue:      o.DefaultPixValue,
		MaxAllowedPixelValue: o.MaxAllowedPixelValue,
		MaxAllowedRawValue:   o.MaxAllowedRawValue,
		MaxValuesCount:       o.MaxValuesCount,
		BlocksCount:          o.BlocksCount,
		Stride:               o.Stride,
		AlignMode:            o.AlignMode.toInternal(),
		Lossless:             o.Lossless,
		BitdepthReal:         o.BitdepthReal,
		BayerPattern:         zraw.BayerPattern(o.BayerPattern),
		NoiseLevel1:          o.NoiseLevel1,
		NoiseLevel2:          o.NoiseLevel2,
		NoiseLevelDistance:   o.NoiseLevelDistance,
		PostProcess:          o.PostProcess,
	}
}

// BitSource is the bit-level reader a Decoder consumes. io.Reader is not
// enough because ZRAW blocks are not byte-aligned; callers wrap their input
// in a *BitReader (see NewBitReader).
type BitSource = zraw.BitSource

// BitReader is a concrete BitSource over an in-memory buffer.
type BitReader = zraw.BitReader

// NewBitReader constructs a BitReader over data. The buffer is not copied.
func NewBitReader(data []byte) *BitReader {
	return zraw.NewBitReader(data)
}

// Decoder decodes a sequence of ZRAW lines sharing one Options configuration.
type Decoder struct {
	inner *zraw.LineDecoder
}

// New constructs a Decoder. It returns an error if opts fails validation
// (e.g. BlocksCount <= 0, BitdepthReal outside 1..16).
func New(opts Options) (*Decoder, error) {
	if opts.BlocksCount <= 0 {
		return nil, errors.New("zraw: BlocksCount must be positive")
	}
	inner, err := zraw.NewLineDecoder(opts.toInternal())
	if err != nil {
		return nil, err
	}
	return &Decoder{inner: inner}, nil
}

// DecodeLine reads one complete line from src, running it through
// PostProcess and rotating the previous-line buffers forward before
// returning.
func (d *Decoder) DecodeLine(src BitSource) error {
	if err := d.inner.ReadLine(src); err != nil {
		return err
	}
	return d.inner.FinalizeLine()
}

// LineA returns a snapshot of the most recently decoded line's A-component
// samples (in most bayer layouts, the red or luma channel).
func (d *Decoder) LineA() []uint16 {
	return d.inner.LineA()
}

// LineB returns a snapshot of the most recently decoded line's B-component
// samples.
func (d *Decoder) LineB() []uint16 {
	return d.inner.LineB()
}

// CurrentLineIndex returns the number of lines decoded so far.
func (d *Decoder) CurrentLineIndex() uint32 {
	return d.inner.CurrentLineIndex()
}

// NoiseLevel returns the current rolling noise level estimate.
func (d *Decoder) NoiseLevel() uint32 {
	return d.inner.NoiseLevel()
}
