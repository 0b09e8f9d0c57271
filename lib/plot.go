package lib

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// floorDB keeps the exact nulls at DC and Nyquist plottable on a log axis.
const floorDB = -100.0

// PlotResponse saves the designed filter's magnitude response, in dB from
// DC to Nyquist, as a line plot at path.
func PlotResponse(spec FilterSpec, path string) error {
	const samples = 512
	nyq := spec.SampleRate / 2

	data := make(plotter.XYs, samples)
	for i := range data {
		freq := nyq * float64(i) / float64(samples-1)
		db := floorDB
		if g := spec.Gain(freq); g > 0 {
			db = math.Max(20*math.Log10(g), floorDB)
		}
		data[i].X = freq
		data[i].Y = db
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Bandpass %g-%g Hz, order %d at %g fps",
		spec.LowHz, spec.HighHz, spec.Order, spec.SampleRate)
	p.X.Label.Text = "Frequency (Hz)"
	p.Y.Label.Text = "Magnitude (dB)"

	if err := plotutil.AddLinePoints(p, "Response", data); err != nil {
		return err
	}
	return p.Save(12*vg.Inch, 10*vg.Inch, path)
}
