package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFrame fills an image with a deterministic byte pattern.
func testFrame(w, h int) Image {
	im := NewImage(w, h)
	for k := range im.Bytes {
		im.Bytes[k] = byte((k*31 + 7) % 251)
	}
	return im
}

func TestParseColorMode(t *testing.T) {
	m, err := ParseColorMode("gray")
	require.NoError(t, err)
	assert.Equal(t, ModeGray, m)

	m, err = ParseColorMode("color")
	require.NoError(t, err)
	assert.Equal(t, ModeColor, m)

	_, err = ParseColorMode("sepia")
	assert.Error(t, err)

	assert.Equal(t, "gray", ModeGray.String())
	assert.Equal(t, "color", ModeColor.String())
}

func TestProjectLumaKnownValues(t *testing.T) {
	frame := NewImage(5, 1)
	frame.SetRGB(0, 0, [3]uint8{255, 255, 255})
	frame.SetRGB(1, 0, [3]uint8{0, 0, 0})
	frame.SetRGB(2, 0, [3]uint8{255, 0, 0})
	frame.SetRGB(3, 0, [3]uint8{0, 255, 0})
	frame.SetRGB(4, 0, [3]uint8{0, 0, 255})

	stack := ProjectLuma([]Image{frame}, ModeGray)
	require.Equal(t, 1, stack.T)
	require.Equal(t, 1, stack.H)
	require.Equal(t, 5, stack.W)

	assert.Equal(t, 1.0, stack.At(0, 0, 0))
	assert.Equal(t, 0.0, stack.At(0, 0, 1))
	// BT.601 weights after rounding to 8 bits
	assert.InDelta(t, 76.0/255, stack.At(0, 0, 2), 1e-12)
	assert.InDelta(t, 150.0/255, stack.At(0, 0, 3), 1e-12)
	assert.InDelta(t, 29.0/255, stack.At(0, 0, 4), 1e-12)
}

func TestProjectLumaModesAgree(t *testing.T) {
	frames := []Image{testFrame(8, 6), testFrame(8, 6)}

	gray := ProjectLuma(frames, ModeGray)
	color := ProjectLuma(frames, ModeColor)
	assert.Equal(t, gray.Data, color.Data,
		"both modes share the BT.601 projection")
}

func TestProjectLumaIsDeterministic(t *testing.T) {
	frames := []Image{testFrame(16, 9)}

	a := ProjectLuma(frames, ModeColor)
	b := ProjectLuma(frames, ModeColor)
	assert.Equal(t, a.Data, b.Data)
}

func TestProjectLumaRange(t *testing.T) {
	stack := ProjectLuma([]Image{testFrame(32, 8), testFrame(32, 8)}, ModeGray)
	require.Equal(t, 2, stack.T)
	for _, v := range stack.Data {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestProjectLumaEmptyChunk(t *testing.T) {
	stack := ProjectLuma(nil, ModeGray)
	assert.Equal(t, 0, stack.T)
	assert.Empty(t, stack.Data)
}

func TestLumaStackAccessors(t *testing.T) {
	stack := NewLumaStack(2, 3, 4)
	require.Len(t, stack.Data, 24)

	stack.Set(1, 2, 3, 0.7)
	assert.Equal(t, 0.7, stack.At(1, 2, 3))

	plane := stack.Plane(1)
	require.Len(t, plane, 12)
	assert.Equal(t, 0.7, plane[2*4+3])

	// planes are views, not copies
	plane[0] = 0.25
	assert.Equal(t, 0.25, stack.At(1, 0, 0))
}

func TestYCrCbRoundTrip(t *testing.T) {
	absDiff := func(a, b uint8) int {
		d := int(a) - int(b)
		if d < 0 {
			d = -d
		}
		return d
	}

	// neutral grays carry no chroma
	y, cr, cb := toYCrCb(128, 128, 128)
	assert.Equal(t, uint8(128), y)
	assert.Equal(t, uint8(128), cr)
	assert.Equal(t, uint8(128), cb)

	vals := []uint8{255}
	for v := 0; v < 256; v += 7 {
		vals = append(vals, uint8(v))
	}
	for _, r := range vals {
		for _, g := range vals {
			for _, b := range vals {
				y, cr, cb := toYCrCb(r, g, b)
				r2, g2, b2 := fromYCrCb(y, cr, cb)
				if absDiff(r, r2) > 1 || absDiff(g, g2) > 1 || absDiff(b, b2) > 1 {
					t.Fatalf("round trip (%d,%d,%d) -> (%d,%d,%d) off by more than 1",
						r, g, b, r2, g2, b2)
				}
			}
		}
	}
}
