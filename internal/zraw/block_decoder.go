package zraw

// blockDecodeState bundles the mutable pieces a single block decode touches:
// the two rolling contexts, the destination line buffers, and the previous
// line's samples for this block (already resolved to the correct field per
// spec.md §4.7's parity rule, or nil on the first line).
type blockDecodeState struct {
	ctxA, ctxB     *decodingContext
	lineA, lineBC  *BlockLine
	prevA, prevB   *BlockLine // nil when current_line_index == 0
	blockIndex     int
	defaultPixel   int
	maxPixelValue  int
	maxRawValue    int
	bitdepthReal   int
	noiseDistance  uint32
}

// oldSample returns the previous-line sample feeding ctx.lastOld[0] for
// pixel i of the current block, or the line's default value on the first
// line, per spec.md §4.3 step 1.
func (s *blockDecodeState) oldSample(prev *BlockLine, i int) int {
	if prev == nil {
		return s.defaultPixel
	}
	return int(prev.At(s.blockIndex, i))
}

// decodeVariableLength decodes up to count pixel pairs of a block in
// variable-length mode (spec.md §4.3), advancing noiseCount as it goes.
func (s *blockDecodeState) decodeVariableLength(src BitSource, params blockParameters, count int, noiseCount *uint32) error {
	for i := 0; i < count; i++ {
		s.ctxA.lastOld[0] = s.oldSample(s.prevA, i)
		s.ctxB.lastOld[0] = s.oldSample(s.prevB, i)

		widthA := minWidthCapped6(s.ctxA.g)
		widthB := minWidthCapped6(s.ctxB.g)

		peeked, err := src.Peek(48)
		if err != nil {
			return err
		}

		msbA, sizeA := decodePrefixClass(peeked)
		peeked >>= sizeA
		msbB, sizeB := decodePrefixClass(peeked)
		peeked >>= sizeB

		lsbASize := widthA
		if msbA == escapeClass {
			lsbASize = params.f
		}
		var lsbA uint64
		if lsbASize > 0 {
			lsbA = peeked & (uint64(1)<<uint(lsbASize) - 1)
			peeked >>= uint(lsbASize)
		}

		lsbBSize := widthB
		if msbB == escapeClass {
			lsbBSize = params.f
		}
		var lsbB uint64
		if lsbBSize > 0 {
			lsbB = peeked & (uint64(1)<<uint(lsbBSize) - 1)
		}

		if err := src.Consume(int(sizeA) + int(sizeB) + lsbASize + lsbBSize); err != nil {
			return err
		}

		var valueA, valueB int
		if msbA == escapeClass {
			valueA = int(lsbA) + 1
		} else {
			valueA = (int(msbA) << uint(lsbASize)) | int(lsbA)
		}
		if msbB == escapeClass {
			valueB = int(lsbB) + 1
		} else {
			valueB = (int(msbB) << uint(lsbBSize)) | int(lsbB)
		}

		predictedA := fixPrediction(s.ctxA.lastNew[1], s.ctxA.lastOld[0], s.ctxA.lastOld[1])
		predictedB := fixPrediction(s.ctxB.lastNew[1], s.ctxB.lastOld[0], s.ctxB.lastOld[1])

		residualA := signedResidual(valueA)
		residualB := signedResidual(valueB)

		pixelA := unmod(params.b*residualA+predictedA, params.d, s.maxPixelValue, params.c, params.b)
		pixelA = clampInt(0, pixelA, s.maxPixelValue)
		s.ctxA.lastNew[0] = pixelA

		pixelB := unmod(params.b*residualB+predictedB, params.d, s.maxPixelValue, params.c, params.b)
		pixelB = clampInt(0, pixelB, s.maxPixelValue)
		s.ctxB.lastNew[0] = pixelB

		s.ctxA.updateG(valueA, widthA, s.maxRawValue)
		s.ctxB.updateG(valueB, widthB, s.maxRawValue)

		noiseEstimator{}.tick(s.ctxA, s.noiseDistance, noiseCount)

		s.ctxA.shift()
		s.ctxB.shift()

		s.lineA.Set(s.blockIndex, i, uint16(pixelA))
		s.lineBC.Set(s.blockIndex, i, uint16(pixelB))
	}
	return nil
}

// decodeRaw decodes up to count pixel pairs of a block in raw mode
// (spec.md §4.4).
func (s *blockDecodeState) decodeRaw(src BitSource, params blockParameters, count int, noiseCount *uint32) error {
	width := s.bitdepthReal - params.a
	for i := 0; i < count; i++ {
		s.ctxA.lastOld[0] = s.oldSample(s.prevA, i)
		s.ctxB.lastOld[0] = s.oldSample(s.prevB, i)

		var val1, val2 uint32
		if width > 0 {
			var err error
			val1, err = src.Read(width)
			if err != nil {
				return err
			}
			val2, err = src.Read(width)
			if err != nil {
				return err
			}
		}

		s.ctxA.lastNew[0] = int(val1) << uint(params.a)
		old := s.ctxB.lastNew[0]
		s.ctxB.lastNew[0] = int(val2) << uint(params.a)

		noiseEstimator{}.tick(s.ctxA, s.noiseDistance, noiseCount)

		s.ctxA.shift()
		s.ctxB.shift()

		s.lineA.Set(s.blockIndex, i, uint16(s.ctxA.lastNew[0]))
		s.lineBC.Set(s.blockIndex, i, uint16(s.ctxB.lastNew[0]))

		// Component B's newest-value slot is intentionally not propagated
		// within raw mode; restore it after the write. Preserved
		// bit-exactly from the source.
		s.ctxB.lastNew[0] = old
	}
	return nil
}

// signedResidual decodes the sign-interleaved mapping (0,-1,1,-2,2,...)
// described in spec.md §9. Substituting value/2 with a plain sign bit is
// not equivalent at the boundary; this must stay exact.
func signedResidual(value int) int {
	sign := value & 1
	body := (value + 1) >> 1
	if sign != 0 {
		return -body
	}
	return body
}
