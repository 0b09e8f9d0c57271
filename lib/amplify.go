package lib

import "fmt"

// MinFilterSamples is the shortest stack the zero-phase step accepts for a
// given filter order. The forward-backward pass reflects padLen samples at
// each end, so the signal must be longer than that; the floor of 31 keeps
// the historical skip threshold for the orders where padding alone would
// allow shorter chunks.
func MinFilterSamples(order int) int {
	return MaxInt(31, padLen(order)+1)
}

// AmplifyStack filters the stack along the time axis with the designed
// bandpass, forward and backward so the amplified motion is not shifted in
// time, then adds the scaled result back: out = in + alpha*bandpass(in).
// Values are deliberately left unclamped; reconstruction clamps.
//
// Each call filters this chunk in isolation. No filter state survives
// between chunks, so the output can be discontinuous at chunk boundaries.
func AmplifyStack(stack LumaStack, spec FilterSpec, alpha float64) (LumaStack, error) {
	if alpha < 0 {
		return LumaStack{}, fmt.Errorf("alpha must be non-negative, got %g", alpha)
	}
	if min := MinFilterSamples(spec.Order); stack.T < min {
		return LumaStack{}, fmt.Errorf("%w: %d time samples, need at least %d at order %d",
			ErrChunkTooShort, stack.T, min, spec.Order)
	}

	out := NewLumaStack(stack.T, stack.H, stack.W)
	zp := newZeroPhase(spec.Sections)
	series := make([]float64, stack.T)
	pixels := stack.H * stack.W
	for p := 0; p < pixels; p++ {
		for t := 0; t < stack.T; t++ {
			series[t] = stack.Data[t*pixels+p]
		}
		filtered := zp.run(series)
		for t := 0; t < stack.T; t++ {
			out.Data[t*pixels+p] = stack.Data[t*pixels+p] + alpha*filtered[t]
		}
	}
	return out, nil
}
