package lib

import "math"

func MaxInt(x, y int) int {
	if x > y {
		return x
	}
	return y
}

func ceilDiv(x, y int) int {
	return (x + y - 1) / y
}

// roundByte converts a float intensity to 8-bit with clamping. Values are
// rounded rather than truncated so that v/255*255 maps back to v exactly.
func roundByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
