package lib

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// StackStats summarizes the values of a luma stack. Amplified stacks may
// range outside [0, 1]; the spread here is what reconstruction will clamp.
type StackStats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// ComputeStackStats reduces a stack to its summary statistics.
func ComputeStackStats(s LumaStack) StackStats {
	if len(s.Data) == 0 {
		return StackStats{}
	}
	return StackStats{
		Min:    floats.Min(s.Data),
		Max:    floats.Max(s.Data),
		Mean:   stat.Mean(s.Data, nil),
		StdDev: stat.StdDev(s.Data, nil),
	}
}

// Range is the peak-to-peak spread.
func (st StackStats) Range() float64 {
	return st.Max - st.Min
}
