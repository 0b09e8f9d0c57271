package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstructGrayExpandsAndClamps(t *testing.T) {
	stack := NewLumaStack(1, 1, 4)
	stack.Set(0, 0, 0, 0.5)
	stack.Set(0, 0, 1, 1.2)
	stack.Set(0, 0, 2, -0.1)
	stack.Set(0, 0, 3, 0.25)

	frames := ReconstructFrames(stack, nil, ModeGray, "", OverlayConfig{})
	require.Len(t, frames, 1)

	want := []uint8{128, 255, 0, 64}
	for x, w := range want {
		px := frames[0].GetRGB(x, 0)
		assert.Equal(t, [3]uint8{w, w, w}, px, "pixel %d", x)
	}
}

func TestReconstructColorRoundTrip(t *testing.T) {
	palette := [][3]uint8{
		{0, 0, 0}, {255, 255, 255}, {255, 0, 0}, {0, 255, 0}, {0, 0, 255},
		{128, 128, 128}, {200, 60, 90}, {17, 34, 51}, {100, 150, 200}, {10, 200, 150},
	}
	ref := NewImage(len(palette), 1)
	for x, c := range palette {
		ref.SetRGB(x, 0, c)
	}
	refs := []Image{ref}

	// an unamplified stack reconstructs back to the reference frame
	stack := ProjectLuma(refs, ModeColor)
	frames := ReconstructFrames(stack, refs, ModeColor, "", OverlayConfig{})
	require.Len(t, frames, 1)

	for x, c := range palette {
		got := frames[0].GetRGB(x, 0)
		for ch := 0; ch < 3; ch++ {
			assert.InDelta(t, float64(c[ch]), float64(got[ch]), 1,
				"pixel %d channel %d", x, ch)
		}
	}
}

func TestReconstructColorReplacesLumaKeepsChroma(t *testing.T) {
	ref := NewImage(4, 2)
	ref.FillRectangle(0, 0, 4, 2, [3]uint8{100, 150, 200})

	stack := NewLumaStack(1, 2, 4)
	for i := range stack.Data {
		stack.Data[i] = 0.6
	}
	frames := ReconstructFrames(stack, []Image{ref}, ModeColor, "", OverlayConfig{})
	require.Len(t, frames, 1)

	_, wantCr, wantCb := toYCrCb(100, 150, 200)
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			got := frames[0].GetRGB(x, y)
			assert.Equal(t, [3]uint8{112, 162, 212}, got)

			gy, gcr, gcb := toYCrCb(got[0], got[1], got[2])
			assert.Equal(t, uint8(153), gy, "luma should follow the stack")
			assert.Equal(t, wantCr, gcr, "chroma should follow the reference")
			assert.Equal(t, wantCb, gcb)
		}
	}
}

func TestReconstructAppliesOverlay(t *testing.T) {
	stack := NewLumaStack(1, 48, 64)
	for i := range stack.Data {
		stack.Data[i] = 0.5
	}
	oc := DefaultOverlayConfig()

	frames := ReconstructFrames(stack, nil, ModeGray, "Alpha: 15", oc)
	require.Len(t, frames, 1)

	// the bottom band is darkened, the rest of the frame is untouched
	assert.Equal(t, [3]uint8{64, 64, 64}, frames[0].GetRGB(2, 45))
	assert.Equal(t, [3]uint8{128, 128, 128}, frames[0].GetRGB(2, 5))

	oc.Enabled = false
	plain := ReconstructFrames(stack, nil, ModeGray, "Alpha: 15", oc)
	assert.Equal(t, [3]uint8{128, 128, 128}, plain[0].GetRGB(2, 45))
}

func TestReconstructColorShortRefsPanics(t *testing.T) {
	stack := NewLumaStack(2, 1, 1)
	assert.Panics(t, func() {
		ReconstructFrames(stack, []Image{NewImage(1, 1)}, ModeColor, "", OverlayConfig{})
	})
}
