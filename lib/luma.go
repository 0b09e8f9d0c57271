package lib

import "fmt"

// ColorMode selects how frames are projected to luma and reconstructed.
type ColorMode int

const (
	// ModeGray discards chrominance entirely; output frames are achromatic.
	ModeGray ColorMode = iota
	// ModeColor amplifies the luma plane and keeps the original chrominance.
	ModeColor
)

func (m ColorMode) String() string {
	switch m {
	case ModeGray:
		return "gray"
	case ModeColor:
		return "color"
	}
	return fmt.Sprintf("ColorMode(%d)", int(m))
}

func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "gray":
		return ModeGray, nil
	case "color":
		return ModeColor, nil
	}
	return ModeGray, fmt.Errorf("unknown color mode %q (want gray or color)", s)
}

// LumaStack is a time-ordered stack of normalized intensity planes,
// indexed (time, row, column) with values in [0,1].
type LumaStack struct {
	T, H, W int
	Data    []float64
}

func NewLumaStack(t, h, w int) LumaStack {
	return LumaStack{T: t, H: h, W: w, Data: make([]float64, t*h*w)}
}

func (s LumaStack) At(t, i, j int) float64 {
	return s.Data[(t*s.H+i)*s.W+j]
}

func (s LumaStack) Set(t, i, j int, v float64) {
	s.Data[(t*s.H+i)*s.W+j] = v
}

// Plane returns the time slice t as a shared view.
func (s LumaStack) Plane(t int) []float64 {
	n := s.H * s.W
	return s.Data[t*n : (t+1)*n]
}

// bt601 is the luma weighting shared by the achromatic conversion and the
// Y plane of YCrCb, so both color modes project to identical stacks.
func bt601(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// toYCrCb converts an RGB pixel to full-range YCrCb.
func toYCrCb(r, g, b uint8) (uint8, uint8, uint8) {
	y := bt601(r, g, b)
	cr := roundByte((float64(r)-y)*0.713 + 128)
	cb := roundByte((float64(b)-y)*0.564 + 128)
	return roundByte(y), cr, cb
}

func fromYCrCb(y, cr, cb uint8) (uint8, uint8, uint8) {
	fy := float64(y)
	fcr := float64(cr) - 128
	fcb := float64(cb) - 128
	r := roundByte(fy + 1.403*fcr)
	g := roundByte(fy - 0.714*fcr - 0.344*fcb)
	b := roundByte(fy + 1.773*fcb)
	return r, g, b
}

// ProjectLuma converts a chunk of frames into a normalized luma stack.
// Pure: identical frames always yield a bit-identical stack. All frames
// must share the dimensions of the first.
func ProjectLuma(frames []Image, mode ColorMode) LumaStack {
	if len(frames) == 0 {
		return LumaStack{}
	}
	h, w := frames[0].Height, frames[0].Width
	stack := NewLumaStack(len(frames), h, w)
	for t, frame := range frames {
		plane := stack.Plane(t)
		idx := 0
		for p := 0; p < h*w; p++ {
			r := frame.Bytes[idx]
			g := frame.Bytes[idx+1]
			b := frame.Bytes[idx+2]
			var y8 uint8
			switch mode {
			case ModeGray:
				y8 = roundByte(bt601(r, g, b))
			case ModeColor:
				y8, _, _ = toYCrCb(r, g, b)
			default:
				panic("unhandled color mode")
			}
			plane[p] = float64(y8) / 255.0
			idx += 3
		}
	}
	return stack
}
