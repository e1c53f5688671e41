package zraw

import "testing"

func TestNewRejectsZeroBlocksCount(t *testing.T) {
	_, err := New(Options{})
	if err == nil {
		t.Fatal("expected error for BlocksCount=0, got nil")
	}
}

func TestNewRejectsInvalidBitdepth(t *testing.T) {
	_, err := New(Options{
		BlocksCount:    1,
		MaxValuesCount: 1,
		BitdepthReal:   0,
	})
	if err == nil {
		t.Fatal("expected error for BitdepthReal=0, got nil")
	}
}

func TestNewAcceptsValidOptions(t *testing.T) {
	d, err := New(Options{
		BlocksCount:          1,
		MaxValuesCount:       1,
		BitdepthReal:         12,
		MaxAllowedPixelValue: 4095,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d == nil {
		t.Fatal("expected non-nil decoder")
	}
	if d.CurrentLineIndex() != 0 {
		t.Errorf("CurrentLineIndex = %d, want 0", d.CurrentLineIndex())
	}
}

// packBitsLSB mirrors the internal package's test helper: it packs fields
// as (value, width) pairs LSB-first, byte-sequential, matching BitReader's
// consumption order.
func packBitsLSB(fields [][2]int) []byte {
	var bits []int
	for _, f := range fields {
		value, width := f[0], f[1]
		for i := 0; i < width; i++ {
			bits = append(bits, (value>>uint(i))&1)
		}
	}
	out := make([]byte, (len(bits)+7)/8)
	for k, b := range bits {
		if b != 0 {
			out[k/8] |= 1 << uint(k%8)
		}
	}
	return out
}

func TestDecodeLineSingleBlockLossless(t *testing.T) {
	d, err := New(Options{
		BlocksCount:          1,
		MaxValuesCount:       1,
		BitdepthReal:         12,
		MaxAllowedPixelValue: 4095,
		MaxAllowedRawValue:   4095,
		Lossless:             true,
		NoiseLevelDistance:   1,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	data := packBitsLSB([][2]int{
		{0, 1},         // mode bit: variable-length
		{1, 1}, {1, 1}, // prefix class 0 for component A, then for B
		{0, 2}, {0, 2}, // lsb 0 for A, then for B -> both values 0
	})

	if err := d.DecodeLine(NewBitReader(data)); err != nil {
		t.Fatalf("DecodeLine: %v", err)
	}

	if got := d.LineA(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("LineA = %v, want [0]", got)
	}
	if got := d.LineB(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("LineB = %v, want [0]", got)
	}
	if d.CurrentLineIndex() != 1 {
		t.Fatalf("CurrentLineIndex = %d, want 1", d.CurrentLineIndex())
	}
}

func TestAlignModeString(t *testing.T) {
	tests := []struct {
		mode AlignMode
		want string
	}{
		{AlignTo128, "AlignTo128"},
		{AlignTo256, "AlignTo256"},
	}
	for _, tc := range tests {
		if got := tc.mode.String(); got != tc.want {
			t.Errorf("AlignMode(%d).String() = %q, want %q", tc.mode, got, tc.want)
		}
	}
	if got := AlignMode(42).String(); got != "AlignMode(42)" {
		t.Errorf("unexpected fallback string: got %q", got)
	}
}

func TestBayerPatternString(t *testing.T) {
	if got := BayerPattern2.String(); got != "BayerPattern2" {
		t.Errorf("BayerPattern2.String() = %q, want %q", got, "BayerPattern2")
	}
}
