package main

import (
	"flag"
	"math"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"videomag/lib"
)

// gensine writes a synthetic clip with a centered block whose brightness
// oscillates sinusoidally over a flat gray background. Useful for checking
// a band and alpha before pointing the amplifier at real footage.
func main() {
	output := flag.String("output", "sine.mp4", "Output video path")
	width := flag.Int("width", 100, "Frame width")
	height := flag.Int("height", 100, "Frame height")
	fps := flag.Float64("fps", 30, "Frame rate")
	seconds := flag.Float64("seconds", 3, "Clip length in seconds")
	freq := flag.Float64("freq", 1.0, "Oscillation frequency in Hz")
	amp := flag.Float64("amp", 5, "Oscillation amplitude in 8-bit counts")
	size := flag.Int("size", 20, "Block size in pixels")
	flag.Parse()

	format := strings.TrimPrefix(filepath.Ext(*output), ".")
	if format == "" {
		format = "mp4"
	}

	wr, err := lib.CreateVideo(*output, *fps, *width, *height, format, "light")
	if err != nil {
		logrus.Fatal(err)
	}

	frames := int(*seconds * *fps)
	cx, cy := *width/2, *height/2
	for i := 0; i < frames; i++ {
		t := float64(i) / *fps
		im := lib.NewImage(*width, *height)
		im.FillRectangle(0, 0, *width, *height, [3]uint8{128, 128, 128})

		v := 128 + *amp*math.Sin(2*math.Pi**freq*t)
		b := uint8(math.Round(math.Min(math.Max(v, 0), 255)))
		im.FillRectangle(cx-*size/2, cy-*size/2, cx+*size/2, cy+*size/2, [3]uint8{b, b, b})

		if err := wr.Write(im); err != nil {
			logrus.Fatal(err)
		}
	}
	if err := wr.Close(); err != nil {
		logrus.Fatal(err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "main",
		"output":   *output,
		"frames":   frames,
		"freq_hz":  *freq,
	}).Info("Wrote synthetic clip")
}
