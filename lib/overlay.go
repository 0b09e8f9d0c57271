package lib

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/mitroadmaps/gomapinfer/common"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Overlay positions.
const (
	PositionTop    = "top"
	PositionBottom = "bottom"
	PositionCenter = "center"
)

// OverlayConfig styles the diagnostic text band composited onto
// reconstructed frames. Consumed once per chunk.
type OverlayConfig struct {
	Enabled   bool    `yaml:"enabled"`
	FontScale float64 `yaml:"font_scale"`
	Position  string  `yaml:"position"`
	BgAlpha   float64 `yaml:"bg_alpha"`
	Margin    int     `yaml:"margin"`
	Multiline bool    `yaml:"multiline"`
}

func DefaultOverlayConfig() OverlayConfig {
	return OverlayConfig{
		Enabled:   true,
		FontScale: 0.5,
		Position:  PositionBottom,
		BgAlpha:   0.5,
		Margin:    10,
		Multiline: false,
	}
}

// InfoText formats the parameter summary drawn on every frame of a chunk.
// Pure: depends only on the config snapshot and the elapsed seconds.
func InfoText(cfg RunConfig, elapsedSeconds int) string {
	return fmt.Sprintf("Alpha: %g | Order: %d | Freq: %g-%gHz | Chunk: %gs | Color: %s | Time: %ds",
		cfg.Alpha, cfg.Order, cfg.LowHz, cfg.HighHz, cfg.ChunkSeconds, cfg.Mode, elapsedSeconds)
}

// overlayLines splits the text for rendering. Multiline mode breaks on the
// "|" delimiter and trims each segment.
func overlayLines(text string, oc OverlayConfig) []string {
	if oc.Multiline && strings.Contains(text, "|") {
		parts := strings.Split(text, "|")
		lines := make([]string, len(parts))
		for i, p := range parts {
			lines[i] = strings.TrimSpace(p)
		}
		return lines
	}
	return []string{text}
}

// OverlayBand computes the full-width background band for a text block of
// the given line count, plus the baseline y of the first line.
func OverlayBand(width, height, lines int, oc OverlayConfig) (common.Rectangle, int) {
	lineHeight := MaxInt(1, int(25*oc.FontScale))
	blockH := lines*lineHeight + oc.Margin

	var startY, bgY0, bgY1 int
	switch oc.Position {
	case PositionTop:
		startY = oc.Margin + lineHeight
		bgY0 = 0
		bgY1 = blockH + oc.Margin
	case PositionCenter:
		startY = height/2 - blockH/2
		bgY0 = startY - oc.Margin
		bgY1 = startY + blockH
	default: // bottom
		startY = height - blockH
		bgY0 = height - blockH - oc.Margin
		bgY1 = height
	}
	band := common.Rectangle{
		Min: common.Point{X: 0, Y: float64(bgY0)},
		Max: common.Point{X: float64(width), Y: float64(bgY1)},
	}
	return band, startY
}

// AddInfoOverlay composites the text block onto the frame in place: a
// semi-transparent black band under white text lines. Empty text leaves the
// frame untouched.
func AddInfoOverlay(frame Image, text string, oc OverlayConfig) {
	if strings.TrimSpace(text) == "" {
		return
	}
	lines := overlayLines(text, oc)
	band, startY := OverlayBand(frame.Width, frame.Height, len(lines), oc)
	frame.BlendRectangle(int(band.Min.X), int(band.Min.Y), int(band.Max.X), int(band.Max.Y),
		[3]uint8{0, 0, 0}, oc.BgAlpha)

	lineHeight := MaxInt(1, int(25*oc.FontScale))
	mult := MaxInt(1, int(math.Round(oc.FontScale*2)))
	for i, line := range lines {
		drawTextLine(frame, line, oc.Margin, startY+i*lineHeight, mult, [3]uint8{255, 255, 255})
	}
}

// drawTextLine rasterizes one line with the fixed 7x13 face into a mask and
// stamps it at an integer scale, baseline at y.
func drawTextLine(im Image, s string, x, y int, mult int, col [3]uint8) {
	if s == "" {
		return
	}
	face := basicfont.Face7x13
	width := font.MeasureString(face, s).Ceil()
	if width <= 0 {
		return
	}
	mask := image.NewGray(image.Rect(0, 0, width, face.Height))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)

	top := y - face.Ascent*mult
	for my := 0; my < face.Height; my++ {
		for mx := 0; mx < width; mx++ {
			if mask.GrayAt(mx, my).Y < 128 {
				continue
			}
			for dy := 0; dy < mult; dy++ {
				for dx := 0; dx < mult; dx++ {
					im.SetRGB(x+mx*mult+dx, top+my*mult+dy, col)
				}
			}
		}
	}
}
