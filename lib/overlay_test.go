package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlayBandPositions(t *testing.T) {
	oc := OverlayConfig{FontScale: 0.5, Margin: 10}

	cases := []struct {
		name       string
		position   string
		lines      int
		wantY0     float64
		wantY1     float64
		wantStartY int
	}{
		{"bottom single", PositionBottom, 1, 48, 80, 58},
		{"top single", PositionTop, 1, 0, 32, 22},
		{"center single", PositionCenter, 1, 19, 51, 29},
		{"bottom triple", PositionBottom, 3, 24, 80, 34},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			oc.Position = c.position
			band, startY := OverlayBand(100, 80, c.lines, oc)
			assert.Equal(t, 0.0, band.Min.X)
			assert.Equal(t, 100.0, band.Max.X)
			assert.Equal(t, c.wantY0, band.Min.Y)
			assert.Equal(t, c.wantY1, band.Max.Y)
			assert.Equal(t, c.wantStartY, startY)
		})
	}
}

func TestOverlayLines(t *testing.T) {
	multi := OverlayConfig{Multiline: true}
	single := OverlayConfig{Multiline: false}

	assert.Equal(t, []string{"A", "B", "C"}, overlayLines("A | B | C", multi))
	assert.Equal(t, []string{"A | B | C"}, overlayLines("A | B | C", single))
	assert.Equal(t, []string{"plain"}, overlayLines("plain", multi))
}

func TestInfoTextFormat(t *testing.T) {
	cfg := RunConfig{
		Alpha:        15,
		Order:        2,
		LowHz:        0.5,
		HighHz:       2,
		ChunkSeconds: 2,
		Mode:         "gray",
	}
	got := InfoText(cfg, 4)
	assert.Equal(t,
		"Alpha: 15 | Order: 2 | Freq: 0.5-2Hz | Chunk: 2s | Color: gray | Time: 4s",
		got)
}

func TestAddInfoOverlayEmptyTextIsNoop(t *testing.T) {
	frame := testFrame(20, 20)
	before := make([]byte, len(frame.Bytes))
	copy(before, frame.Bytes)

	AddInfoOverlay(frame, "   ", DefaultOverlayConfig())
	assert.Equal(t, before, frame.Bytes)
}

func TestAddInfoOverlayBlendsBandAndText(t *testing.T) {
	frame := NewImage(60, 40)
	frame.FillRectangle(0, 0, 60, 40, [3]uint8{200, 200, 200})

	oc := OverlayConfig{
		Enabled:   true,
		FontScale: 0.5,
		Position:  PositionBottom,
		BgAlpha:   0.25,
		Margin:    10,
	}
	AddInfoOverlay(frame, "Hi", oc)

	// inside the band, left of the text
	assert.Equal(t, [3]uint8{150, 150, 150}, frame.GetRGB(2, 38))
	// above the band
	assert.Equal(t, [3]uint8{200, 200, 200}, frame.GetRGB(2, 3))

	// the glyphs themselves land as white pixels near the baseline
	found := false
	for y := 5; y < 22 && !found; y++ {
		for x := 10; x < 30 && !found; x++ {
			if frame.GetRGB(x, y) == [3]uint8{255, 255, 255} {
				found = true
			}
		}
	}
	require.True(t, found, "expected white text pixels")
}
