package lib

// ReconstructFrames converts an amplified stack back into displayable
// frames and composites the overlay. Gray mode expands the clamped 8-bit
// luma across all three channels; color mode keeps each reference frame's
// chrominance and replaces only its luma plane. refs must align with the
// stack's time extent in color mode.
func ReconstructFrames(amp LumaStack, refs []Image, mode ColorMode, text string, oc OverlayConfig) []Image {
	if mode == ModeColor && len(refs) < amp.T {
		panic("reconstruct: reference frames shorter than stack")
	}
	frames := make([]Image, amp.T)
	for t := 0; t < amp.T; t++ {
		plane := amp.Plane(t)
		frame := NewImage(amp.W, amp.H)
		switch mode {
		case ModeGray:
			idx := 0
			for _, v := range plane {
				y := roundByte(v * 255)
				frame.Bytes[idx] = y
				frame.Bytes[idx+1] = y
				frame.Bytes[idx+2] = y
				idx += 3
			}
		case ModeColor:
			ref := refs[t]
			idx := 0
			for _, v := range plane {
				_, cr, cb := toYCrCb(ref.Bytes[idx], ref.Bytes[idx+1], ref.Bytes[idx+2])
				r, g, b := fromYCrCb(roundByte(v*255), cr, cb)
				frame.Bytes[idx] = r
				frame.Bytes[idx+1] = g
				frame.Bytes[idx+2] = b
				idx += 3
			}
		default:
			panic("unhandled color mode")
		}
		if oc.Enabled {
			AddInfoOverlay(frame, text, oc)
		}
		frames[t] = frame
	}
	return frames
}
