package zraw

// escapeClass is the magnitude class that switches the LSB width to the
// block's default f and remaps the decoded value to lsb+1.
const escapeClass = 12

// decodePrefixClass decodes a magnitude class from the low bits of data
// using the unary-plus-tail scheme in spec.md §4.1. data is treated
// LSB-first: bit 0 is the next unread stream bit. It returns the class and
// the number of bits the class consumed, so the caller can shift data
// right by size before reading any trailing LSBs.
func decodePrefixClass(data uint64) (class uint32, size uint32) {
	i := 0
	d := data
	for ; i < 9; i++ {
		if d&1 != 0 {
			break
		}
		d >>= 1
	}

	switch i {
	case 0:
		return 0, 1
	case 1:
		return 1, 2
	case 2:
		return 2, 3
	case 3:
		return 3, 4
	case 4:
		return 4, 5
	case 5:
		if d&3 == 1 {
			return 5, 7
		}
		return 6, 7
	case 6:
		if d&3 == 1 {
			return 7, 8
		}
		return 8, 8
	case 7:
		if d&3 == 1 {
			return 11, 9
		}
		return escapeClass, 9
	case 8:
		return 10, 9
	default:
		// i == 9: no set bit found in 9 attempts. The source declares a
		// NotImplemented exception type for this branch but never throws
		// it here; it maps straight through to class 9. Kept as a debug
		// assertion boundary rather than removed, per the source comment.
		if i != 9 {
			panic(&NotImplementedError{Where: "prefix.decodePrefixClass: unreachable leading-zero count"})
		}
		return 9, 9
	}
}
