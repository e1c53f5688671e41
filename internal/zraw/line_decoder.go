package zraw

// AlignMode selects the bit-alignment boundary applied after a line's
// final block when Parameters.Stride is set.
type AlignMode int

const (
	// AlignTo128 aligns to a 128-bit boundary.
	AlignTo128 AlignMode = 0
	// AlignTo256 aligns to a 256-bit boundary.
	AlignTo256 AlignMode = 1
)

// BayerPattern selects which line parity carries which chroma field, per
// spec.md §4.7.
type BayerPattern uint32

const (
	BayerPattern0 BayerPattern = 0
	BayerPattern1 BayerPattern = 1
	BayerPattern2 BayerPattern = 2
	BayerPattern3 BayerPattern = 3
)

// Parameters is the immutable configuration of a LineDecoder instance, per
// spec.md §3.
type Parameters struct {
	DefaultPixValue uint16

	MaxAllowedPixelValue int
	MaxAllowedRawValue   int

	MaxValuesCount int
	BlocksCount    int

	Stride    bool
	AlignMode AlignMode

	Lossless bool

	BitdepthReal int

	BayerPattern BayerPattern

	NoiseLevel1 int
	NoiseLevel2 int

	NoiseLevelDistance uint32

	// PostProcess receives the line post-processing calls described in
	// spec.md §4.7. If nil, NoOpPostProcessor is used.
	PostProcess PostProcessor
}

// validate enforces the constructor-time checks from spec.md §7.
func (p Parameters) validate() error {
	if p.BlocksCount <= 0 {
		return &ParameterOutOfRangeError{Field: "BlocksCount", Reason: "must be positive"}
	}
	if p.MaxValuesCount <= 0 || p.MaxValuesCount > p.BlocksCount*BlockSize {
		return &ParameterOutOfRangeError{Field: "MaxValuesCount", Reason: "must be in (0, BlocksCount*BlockSize]"}
	}
	if p.AlignMode != AlignTo128 && p.AlignMode != AlignTo256 {
		return &ParameterOutOfRangeError{Field: "AlignMode", Reason: "must be AlignTo128 or AlignTo256"}
	}
	if p.BayerPattern > BayerPattern3 {
		return &ParameterOutOfRangeError{Field: "BayerPattern", Reason: "must be 0..3"}
	}
	if p.BitdepthReal <= 0 || p.BitdepthReal > 16 {
		return &ParameterOutOfRangeError{Field: "BitdepthReal", Reason: "must be in 1..16"}
	}
	return nil
}

// LineDecoder is the façade orchestrating per-line header reads, block
// iteration, alignment padding, previous-line rotation, post-processing
// invocation, and context reinitialization, per spec.md §2/§4.7.
type LineDecoder struct {
	param Parameters
	post  PostProcessor

	lineA     *BlockLine
	lineBC    *BlockLine
	lineAPrev *BlockLine
	lineBPrev *BlockLine
	lineCPrev *BlockLine

	ctxA decodingContext
	ctxB decodingContext

	currentLineIndex   uint32
	currentBlockIndex  int
	readValuesCount    int
	bitdepthDiff       int
	decodingModeRaw    bool
	noiseLevel         uint32
	noiseLessThanCount uint32
	noiseLevels        [8]uint32

	reader BitSource
}

// NewLineDecoder constructs a decoder for the given parameters, allocating
// all five BlockLine buffers and both decoding contexts once.
func NewLineDecoder(param Parameters) (*LineDecoder, error) {
	if err := param.validate(); err != nil {
		return nil, err
	}
	post := param.PostProcess
	if post == nil {
		post = NoOpPostProcessor{}
	}
	d := &LineDecoder{
		param:     param,
		post:      post,
		lineA:     NewBlockLine(param.BlocksCount, param.MaxValuesCount, param.DefaultPixValue),
		lineBC:    NewBlockLine(param.BlocksCount, param.MaxValuesCount, param.DefaultPixValue),
		lineAPrev: NewBlockLine(param.BlocksCount, param.MaxValuesCount, param.DefaultPixValue),
		lineBPrev: NewBlockLine(param.BlocksCount, param.MaxValuesCount, param.DefaultPixValue),
		lineCPrev: NewBlockLine(param.BlocksCount, param.MaxValuesCount, param.DefaultPixValue),
	}
	d.reinitializeContexts()
	return d, nil
}

func (d *LineDecoder) reinitializeContexts() {
	d.ctxA.reset(int(d.param.DefaultPixValue))
	d.ctxB.reset(int(d.param.DefaultPixValue))
}

// isUpperFieldLine reports whether current_line_index is even, per
// spec.md §4.7.
func (d *LineDecoder) isUpperFieldLine() bool {
	return d.currentLineIndex&1 == 0
}

// isNeededField implements spec.md §4.7's is_needed_field.
func (d *LineDecoder) isNeededField() bool {
	a := uint32(1)
	if d.param.BayerPattern != BayerPattern3 {
		if d.param.BayerPattern == BayerPattern0 {
			a = 1
		} else {
			a = 0
		}
	}
	return d.currentLineIndex&1 == a
}

// prevFieldLine returns the previous-line buffer feeding the B component's
// cross-line predictor, per spec.md §4.7.
func (d *LineDecoder) prevFieldLine() *BlockLine {
	if d.isUpperFieldLine() {
		return d.lineBPrev
	}
	return d.lineCPrev
}

// SetSource binds the BitSource used by subsequent ReadNext calls. The
// decoder holds a non-owning reference for the duration of the line.
func (d *LineDecoder) SetSource(reader BitSource) {
	d.reader = reader
}

// ReadLine decodes one line end to end by repeatedly calling ReadNext.
func (d *LineDecoder) ReadLine(reader BitSource) error {
	d.SetSource(reader)
	for {
		done, err := d.ReadNext()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// ReadNext decodes the next block and reports whether the line is now
// complete, per spec.md §6.
func (d *LineDecoder) ReadNext() (bool, error) {
	if d.reader == nil {
		return false, &ParameterOutOfRangeError{Field: "reader", Reason: "ReadNext requires a prior ReadLine/SetSource call"}
	}
	if d.currentBlockIndex >= d.param.BlocksCount {
		return true, nil
	}

	headerValue, err := d.readBlockHeader()
	if err != nil {
		return false, err
	}
	d.lineA.HeaderValues()[d.currentBlockIndex] = headerValue
	d.lineBC.HeaderValues()[d.currentBlockIndex] = headerValue

	if d.bitdepthDiff < 0 || d.bitdepthDiff > 15 {
		return false, &ParameterOutOfRangeError{Field: "bitdepthDiff", Reason: "must be in 0..15"}
	}
	if d.bitdepthDiff > d.param.BitdepthReal {
		return false, &ParameterOutOfRangeError{Field: "bitdepthDiff", Reason: "exceeds BitdepthReal"}
	}

	params := deriveBlockParameters(d.bitdepthDiff, d.param.MaxAllowedPixelValue, d.param.BitdepthReal)

	prevLineDependent := d.currentLineIndex > 0
	var prevA, prevB *BlockLine
	if prevLineDependent {
		prevA = d.lineAPrev
		prevB = d.prevFieldLine()
	}

	remaining := d.param.MaxValuesCount - d.readValuesCount
	count := BlockSize
	if remaining < count {
		count = remaining
	}

	state := &blockDecodeState{
		ctxA:          &d.ctxA,
		ctxB:          &d.ctxB,
		lineA:         d.lineA,
		lineBC:        d.lineBC,
		prevA:         prevA,
		prevB:         prevB,
		blockIndex:    d.currentBlockIndex,
		defaultPixel:  int(d.param.DefaultPixValue),
		maxPixelValue: d.param.MaxAllowedPixelValue,
		maxRawValue:   d.param.MaxAllowedRawValue,
		bitdepthReal:  d.param.BitdepthReal,
		noiseDistance: d.param.NoiseLevelDistance,
	}

	if d.decodingModeRaw {
		err = state.decodeRaw(d.reader, params, count, &d.noiseLessThanCount)
	} else {
		err = state.decodeVariableLength(d.reader, params, count, &d.noiseLessThanCount)
	}
	if err != nil {
		return false, err
	}
	d.readValuesCount += count

	d.currentBlockIndex++

	if d.currentBlockIndex >= d.param.BlocksCount {
		if d.param.Stride {
			boundary := 128
			if d.param.AlignMode == AlignTo256 {
				boundary = 256
			}
			if err := d.reader.AlignTo(boundary); err != nil {
				return false, err
			}
		}
		return true, nil
	}
	return false, nil
}

// readBlockHeader implements spec.md §4.7's per-block header read.
func (d *LineDecoder) readBlockHeader() (uint32, error) {
	if d.param.Lossless {
		d.bitdepthDiff = 0
	} else if d.readValuesCount > 0 {
		flag, err := d.reader.Read(1)
		if err != nil {
			return 0, err
		}
		if flag != 0 {
			code, err := d.reader.Read(2)
			if err != nil {
				return 0, err
			}
			switch code {
			case 0:
				d.bitdepthDiff -= 2
			case 1:
				d.bitdepthDiff -= 1
			case 2:
				d.bitdepthDiff += 1
			case 3:
				d.bitdepthDiff += 2
			}
		}
	} else {
		v, err := d.reader.Read(4)
		if err != nil {
			return 0, err
		}
		d.bitdepthDiff = int(v)
	}

	modeBit, err := d.reader.Read(1)
	if err != nil {
		return 0, err
	}
	d.decodingModeRaw = modeBit != 0

	return uint32(d.bitdepthDiff), nil
}

// FinalizeLine performs the rotate + post-process + reset sequence from
// spec.md §4.7.
func (d *LineDecoder) FinalizeLine() error {
	if d.currentBlockIndex < d.param.BlocksCount {
		return ErrInvalidState
	}

	d.lineAPrev.CopyFrom(d.lineA)
	if d.isUpperFieldLine() {
		d.lineBPrev.CopyFrom(d.lineBC)
	} else {
		d.lineCPrev.CopyFrom(d.lineBC)
	}

	fieldPrev := d.prevFieldLine()

	aFlat := d.lineAPrev.Line()
	d.post.PostProcessA(aFlat, d.isNeededField(), d.noiseLevel)
	d.lineAPrev.Restore(aFlat)

	fieldFlat := fieldPrev.Line()
	d.post.PostProcessB(fieldFlat, d.noiseLevel)
	fieldPrev.Restore(fieldFlat)

	for _, bl := range [...]*BlockLine{d.lineAPrev, d.lineBPrev, d.lineCPrev} {
		flat := bl.Line()
		d.post.Truncate(flat, d.param.BitdepthReal, 10)
		bl.Restore(flat)
	}

	d.noiseLevel = d.post.EstimateNoiseLevel(d.param.NoiseLevel1, d.param.NoiseLevel2, d.noiseLessThanCount, &d.noiseLevels)

	d.currentLineIndex++
	d.currentBlockIndex = 0
	d.readValuesCount = 0
	d.noiseLessThanCount = 0
	d.reinitializeContexts()

	return nil
}

// LineA returns a snapshot of the current line's A-component samples.
func (d *LineDecoder) LineA() []uint16 {
	return d.lineA.Line()
}

// LineB returns a snapshot of the current line's B-component samples.
func (d *LineDecoder) LineB() []uint16 {
	return d.lineBC.Line()
}

// CurrentLineIndex exposes the monotonically increasing line counter.
func (d *LineDecoder) CurrentLineIndex() uint32 { return d.currentLineIndex }

// NoiseLevel exposes the current rolling noise level estimate.
func (d *LineDecoder) NoiseLevel() uint32 { return d.noiseLevel }
