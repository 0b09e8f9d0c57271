package lib

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stackFromSeries builds a single-pixel stack whose time axis is the series.
func stackFromSeries(series []float64) LumaStack {
	stack := NewLumaStack(len(series), 1, 1)
	copy(stack.Data, series)
	return stack
}

func TestMinFilterSamples(t *testing.T) {
	cases := []struct {
		order, want int
	}{
		{1, 31},
		{2, 31},
		{3, 31},
		{4, 31},
		{5, 34},
		{10, 64},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MinFilterSamples(c.order), "order %d", c.order)
	}
}

func TestAmplifyStackRejectsNegativeAlpha(t *testing.T) {
	spec, err := DesignBandpass(2, 0.5, 2.0, 30.0)
	require.NoError(t, err)

	_, err = AmplifyStack(stackFromSeries(make([]float64, 90)), spec, -1)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrChunkTooShort))
	assert.Contains(t, err.Error(), "alpha")
}

func TestAmplifyStackShortChunk(t *testing.T) {
	spec, err := DesignBandpass(2, 0.5, 2.0, 30.0)
	require.NoError(t, err)

	short := stackFromSeries(make([]float64, MinFilterSamples(2)-1))
	_, err = AmplifyStack(short, spec, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrChunkTooShort))

	// exactly the minimum is accepted
	exact := stackFromSeries(make([]float64, MinFilterSamples(2)))
	_, err = AmplifyStack(exact, spec, 10)
	assert.NoError(t, err)
}

func TestAmplifyStackZeroAlphaIdentity(t *testing.T) {
	spec, err := DesignBandpass(2, 0.5, 2.0, 30.0)
	require.NoError(t, err)

	series := make([]float64, 90)
	for i := range series {
		series[i] = 0.5 + 0.25*math.Sin(2*math.Pi*float64(i)/30.0)
	}
	in := stackFromSeries(series)

	out, err := AmplifyStack(in, spec, 0)
	require.NoError(t, err)
	assert.Equal(t, in.T, out.T)
	assert.Equal(t, in.H, out.H)
	assert.Equal(t, in.W, out.W)
	assert.Equal(t, in.Data, out.Data)
}

func TestAmplifyStackBoostsInBandMotion(t *testing.T) {
	spec, err := DesignBandpass(2, 0.5, 2.0, 30.0)
	require.NoError(t, err)

	series := make([]float64, 90)
	for i, v := range sine(90, 1.0, 30.0) {
		series[i] = 0.5 + 0.1*v
	}
	out, err := AmplifyStack(stackFromSeries(series), spec, 10)
	require.NoError(t, err)

	// compare peak deviation from the resting level over the interior
	var devIn, devOut, sum float64
	for i := 15; i < 75; i++ {
		devIn = math.Max(devIn, math.Abs(series[i]-0.5))
		devOut = math.Max(devOut, math.Abs(out.Data[i]-0.5))
		sum += out.Data[i]
	}
	ratio := devOut / devIn
	assert.Greater(t, ratio, 5.0, "1 Hz motion should be magnified by alpha")
	assert.Less(t, ratio, 15.0)
	// the resting level itself is out of band and stays put
	assert.InDelta(t, 0.5, sum/60, 0.05)
}

func TestAmplifyStackLeavesValuesUnclamped(t *testing.T) {
	spec, err := DesignBandpass(2, 0.5, 2.0, 30.0)
	require.NoError(t, err)

	series := make([]float64, 90)
	for i, v := range sine(90, 1.0, 30.0) {
		series[i] = 0.9 + 0.1*v
	}
	out, err := AmplifyStack(stackFromSeries(series), spec, 20)
	require.NoError(t, err)

	peak := 0.0
	for _, v := range out.Data {
		peak = math.Max(peak, v)
	}
	assert.Greater(t, peak, 1.0, "amplified values must not be clamped to [0,1]")
}

func TestAmplifyStackPixelsAreIndependent(t *testing.T) {
	spec, err := DesignBandpass(2, 0.5, 2.0, 30.0)
	require.NoError(t, err)

	moving := make([]float64, 90)
	for i, v := range sine(90, 1.0, 30.0) {
		moving[i] = 0.5 + 0.2*v
	}

	stack := NewLumaStack(90, 1, 2)
	for i := 0; i < 90; i++ {
		stack.Set(i, 0, 0, moving[i])
		stack.Set(i, 0, 1, 0.3)
	}
	out, err := AmplifyStack(stack, spec, 5)
	require.NoError(t, err)

	// the static pixel sees no bandpass energy and stays where it was
	for i := 0; i < 90; i++ {
		assert.InDelta(t, 0.3, out.At(i, 0, 1), 1e-9)
	}

	// the moving pixel matches a run of the same series on its own
	solo, err := AmplifyStack(stackFromSeries(moving), spec, 5)
	require.NoError(t, err)
	for i := 0; i < 90; i++ {
		assert.Equal(t, solo.Data[i], out.At(i, 0, 0), "sample %d", i)
	}
}
