package zraw

import "testing"

func TestDecodingContextReset(t *testing.T) {
	var c decodingContext
	c.g = 99
	c.lastNew = [3]int{1, 2, 3}
	c.lastOld = [3]int{4, 5, 6}

	c.reset(128)

	if c.g != 4 {
		t.Errorf("g = %d, want 4", c.g)
	}
	for i, v := range c.lastNew {
		if v != 128 {
			t.Errorf("lastNew[%d] = %d, want 128", i, v)
		}
	}
	for i, v := range c.lastOld {
		if v != 128 {
			t.Errorf("lastOld[%d] = %d, want 128", i, v)
		}
	}
}

func TestDecodingContextShift(t *testing.T) {
	var c decodingContext
	c.reset(0)
	c.lastNew[0] = 10
	c.lastOld[0] = 20

	c.shift()
	if c.lastNew != [3]int{10, 10, 0} {
		t.Errorf("lastNew after first shift = %v", c.lastNew)
	}
	if c.lastOld != [3]int{20, 20, 0} {
		t.Errorf("lastOld after first shift = %v", c.lastOld)
	}

	c.lastNew[0] = 30
	c.lastOld[0] = 40
	c.shift()
	if c.lastNew != [3]int{30, 10, 10} {
		t.Errorf("lastNew after second shift = %v", c.lastNew)
	}
	if c.lastOld != [3]int{40, 20, 20} {
		t.Errorf("lastOld after second shift = %v", c.lastOld)
	}
}

func TestMinWidthCapped6(t *testing.T) {
	cases := []struct {
		x    int
		want int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 1},
		{4, 2},
		{7, 2},
		{8, 3},
		{63, 5},
		{64, 6},
		{1 << 20, 6}, // capped at 6 regardless of magnitude
	}
	for _, c := range cases {
		got := minWidthCapped6(c.x)
		if got != c.want {
			t.Errorf("minWidthCapped6(%d) = %d, want %d", c.x, got, c.want)
		}
	}
}

// TestUpdateGWithinBounds checks spec.md §8 invariant 2: g stays within
// [0, maxAllowedRawValue] after every update, for any decoded value in a
// representative range including out-of-bounds inputs the clamp must catch.
func TestUpdateGWithinBounds(t *testing.T) {
	const maxRaw = 1023
	var c decodingContext
	c.reset(0)

	for _, value := range []int{-500, -1, 0, 1, 2, 500, 1023, 5000, 1 << 20} {
		for bitWidth := 0; bitWidth <= 6; bitWidth++ {
			before := c.g
			c.updateG(value, bitWidth, maxRaw)
			if c.g < 0 || c.g > maxRaw {
				t.Fatalf("g out of bounds after updateG(%d,%d,%d): g=%d (was %d)",
					value, bitWidth, maxRaw, c.g, before)
			}
		}
	}
}

func TestUpdateGHandComputed(t *testing.T) {
	cases := []struct {
		value, bitWidth, maxRaw, startG, want int
	}{
		{100, 0, 1000, 0, 50}, // 100>>0=100>11 decrements to 99, g=(2*99+2)/4=50
		{5, 0, 1000, 0, 3},    // 5>>0=5, not >11, g=(2*5+2)/4=3
		{-50, 0, 1000, 10, 5}, // negative clamps to 0, g=(0+20+2)/4=5
	}
	for _, c := range cases {
		var ctx decodingContext
		ctx.g = c.startG
		ctx.updateG(c.value, c.bitWidth, c.maxRaw)
		if ctx.g != c.want {
			t.Errorf("updateG(%d,%d,%d) from g=%d = %d, want %d",
				c.value, c.bitWidth, c.maxRaw, c.startG, ctx.g, c.want)
		}
	}
}
