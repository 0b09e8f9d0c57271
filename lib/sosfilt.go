package lib

// Biquad is one second-order section of a cascaded IIR filter, denominator
// normalized so a0 == 1.
type Biquad struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// padLen is the number of reflected samples added at each end of a signal
// before zero-phase filtering through a cascade of n sections.
func padLen(n int) int {
	return 3 * (2*n + 1)
}

// sosForward runs the cascade over x in place (direct form II transposed),
// starting from and updating the per-section state z.
func sosForward(sos []Biquad, x []float64, z [][2]float64) {
	for s, q := range sos {
		z0, z1 := z[s][0], z[s][1]
		for i, xn := range x {
			yn := q.B0*xn + z0
			z0 = q.B1*xn + z1 - q.A1*yn
			z1 = q.B2*xn - q.A2*yn
			x[i] = yn
		}
		z[s][0], z[s][1] = z0, z1
	}
}

// steadyState returns per-section initial conditions for which the cascade's
// step response starts already settled. Scaling these by the first input
// sample suppresses the startup transient.
func steadyState(sos []Biquad) [][2]float64 {
	zi := make([][2]float64, len(sos))
	scale := 1.0
	for s, q := range sos {
		c0 := q.B1 - q.A1*q.B0
		c1 := q.B2 - q.A2*q.B0
		// solve (I - A^T) zi = c for the 2x2 transposed companion form
		m00, m01 := 1+q.A1, -1.0
		m10, m11 := q.A2, 1.0
		det := m00*m11 - m01*m10
		zi[s][0] = scale * (c0*m11 - m01*c1) / det
		zi[s][1] = scale * (m00*c1 - c0*m10) / det
		scale *= (q.B0 + q.B1 + q.B2) / (1 + q.A1 + q.A2)
	}
	return zi
}

// zeroPhase applies a SOS cascade forward and backward over a signal so the
// result carries no phase shift. Buffers are reused across calls; a run
// result is only valid until the next call.
type zeroPhase struct {
	sos []Biquad
	zi  [][2]float64
	pad int
	ext []float64
	z   [][2]float64
}

func newZeroPhase(sos []Biquad) *zeroPhase {
	return &zeroPhase{
		sos: sos,
		zi:  steadyState(sos),
		pad: padLen(len(sos)),
		z:   make([][2]float64, len(sos)),
	}
}

// run filters x without phase shift. len(x) must exceed padLen(sections);
// AmplifyStack enforces that through the chunk length threshold.
func (f *zeroPhase) run(x []float64) []float64 {
	n := len(x)
	total := n + 2*f.pad
	if cap(f.ext) < total {
		f.ext = make([]float64, total)
	}
	ext := f.ext[:total]

	// odd reflection about both endpoints
	for i := 0; i < f.pad; i++ {
		ext[i] = 2*x[0] - x[f.pad-i]
		ext[f.pad+n+i] = 2*x[n-1] - x[n-2-i]
	}
	copy(ext[f.pad:], x)

	f.seed(ext[0])
	sosForward(f.sos, ext, f.z)
	reverse(ext)
	f.seed(ext[0])
	sosForward(f.sos, ext, f.z)
	reverse(ext)

	return ext[f.pad : f.pad+n]
}

func (f *zeroPhase) seed(x0 float64) {
	for s := range f.z {
		f.z[s][0] = f.zi[s][0] * x0
		f.z[s][1] = f.zi[s][1] * x0
	}
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
