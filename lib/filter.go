package lib

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
)

// FilterSpec is an immutable bandpass design: the requested band plus the
// derived second-order sections. Designed once per run and reused for
// every chunk.
type FilterSpec struct {
	Order      int
	LowHz      float64
	HighHz     float64
	SampleRate float64
	Sections   []Biquad
}

// DesignBandpass builds a digital Butterworth bandpass in cascaded
// second-order sections: analog prototype poles, lowpass-to-bandpass
// transform, bilinear mapping with frequency pre-warping, conjugate pole
// pairing. The cascade form stays numerically stable where expanded
// direct-form coefficients degenerate as the order grows. The digital
// response is -3 dB at exactly lowHz and highHz.
func DesignBandpass(order int, lowHz, highHz, rate float64) (FilterSpec, error) {
	nyq := rate / 2
	if !(0 < lowHz && lowHz < highHz && highHz < nyq) {
		return FilterSpec{}, fmt.Errorf(
			"%w: frequencies must satisfy 0 < low < high < Nyquist (%g Hz), got low=%g Hz high=%g Hz",
			ErrInvalidFilterBand, nyq, lowHz, highHz)
	}
	if order < 1 {
		return FilterSpec{}, fmt.Errorf("filter order must be at least 1, got %d", order)
	}

	// band edges normalized to Nyquist, pre-warped to the analog domain
	// (internal sampling rate 2, so the bilinear step below uses fs2 = 4)
	warped1 := 4 * math.Tan(math.Pi*lowHz/rate)
	warped2 := 4 * math.Tan(math.Pi*highHz/rate)
	bw := warped2 - warped1
	wo := math.Sqrt(warped1 * warped2)

	// Butterworth prototype: poles equally spaced on the left unit semicircle
	prototype := make([]complex128, 0, order)
	for k := -order + 1; k < order; k += 2 {
		theta := math.Pi * float64(k) / float64(2*order)
		prototype = append(prototype, -cmplx.Exp(complex(0, theta)))
	}

	// lowpass -> bandpass: each prototype pole splits into a pair
	poles := make([]complex128, 0, 2*order)
	for _, sign := range []float64{1, -1} {
		for _, p := range prototype {
			pl := p * complex(bw/2, 0)
			s := cmplx.Sqrt(pl*pl - complex(wo*wo, 0))
			poles = append(poles, pl+complex(sign, 0)*s)
		}
	}
	gain := math.Pow(bw, float64(order))

	// bilinear transform; the order zeros at s=0 map to z=+1 and the order
	// zeros at infinity map to z=-1
	const fs2 = 4.0
	digital := make([]complex128, len(poles))
	prodP := complex(1, 0)
	for i, p := range poles {
		digital[i] = (complex(fs2, 0) + p) / (complex(fs2, 0) - p)
		prodP *= complex(fs2, 0) - p
	}
	prodZ := complex(math.Pow(fs2, float64(order)), 0)
	gain *= real(prodZ / prodP)

	sections := pairSections(digital)
	// each section gets one zero at +1 and one at -1: numerator z^2 - 1
	for i := range sections {
		sections[i].B0 = 1
		sections[i].B2 = -1
	}
	sections[0].B0 *= gain
	sections[0].B2 *= gain

	return FilterSpec{
		Order:      order,
		LowHz:      lowHz,
		HighHz:     highHz,
		SampleRate: rate,
		Sections:   sections,
	}, nil
}

// pairSections groups digital poles into conjugate pairs and converts each
// pair into a real biquad denominator. Sections are ordered so the poles
// closest to the unit circle come last.
func pairSections(poles []complex128) []Biquad {
	type pair [2]complex128
	used := make([]bool, len(poles))
	pairs := make([]pair, 0, len(poles)/2)
	for i, p := range poles {
		if used[i] {
			continue
		}
		used[i] = true
		partner := -1
		if math.Abs(imag(p)) > 1e-12 {
			pc := cmplx.Conj(p)
			bestDist := math.Inf(1)
			for j := i + 1; j < len(poles); j++ {
				if used[j] {
					continue
				}
				if d := cmplx.Abs(poles[j] - pc); d < bestDist {
					bestDist = d
					partner = j
				}
			}
		} else {
			// the bandpass transform produces real poles in even counts
			for j := i + 1; j < len(poles); j++ {
				if !used[j] && math.Abs(imag(poles[j])) <= 1e-12 {
					partner = j
					break
				}
			}
		}
		used[partner] = true
		pairs = append(pairs, pair{p, poles[partner]})
	}
	sort.Slice(pairs, func(a, b int) bool {
		ra := math.Max(cmplx.Abs(pairs[a][0]), cmplx.Abs(pairs[a][1]))
		rb := math.Max(cmplx.Abs(pairs[b][0]), cmplx.Abs(pairs[b][1]))
		return ra < rb
	})
	sections := make([]Biquad, len(pairs))
	for i, pr := range pairs {
		sections[i].A1 = -real(pr[0] + pr[1])
		sections[i].A2 = real(pr[0] * pr[1])
	}
	return sections
}

// Response evaluates the cascade's transfer function at freqHz.
func (spec FilterSpec) Response(freqHz float64) complex128 {
	w := 2 * math.Pi * freqHz / spec.SampleRate
	z1 := cmplx.Exp(complex(0, -w))
	z2 := z1 * z1
	h := complex(1, 0)
	for _, q := range spec.Sections {
		num := complex(q.B0, 0) + complex(q.B1, 0)*z1 + complex(q.B2, 0)*z2
		den := complex(1, 0) + complex(q.A1, 0)*z1 + complex(q.A2, 0)*z2
		h *= num / den
	}
	return h
}

// Gain is the magnitude response at freqHz.
func (spec FilterSpec) Gain(freqHz float64) float64 {
	return cmplx.Abs(spec.Response(freqHz))
}

// Stable reports whether every section's poles lie inside the unit circle.
func (spec FilterSpec) Stable() bool {
	for _, q := range spec.Sections {
		if q.A2 >= 1 || math.Abs(q.A1) >= 1+q.A2 {
			return false
		}
	}
	return true
}
