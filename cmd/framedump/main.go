package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"videomag/lib"
)

// framedump grabs one frame from a video, runs the enhancement chain on a
// copy and writes before/after PNGs plus a side-by-side composite. Handy
// for dialing in chain parameters without encoding a full clip.
func main() {
	input := flag.String("input", "", "Input video path (or first positional argument)")
	frameIdx := flag.Int("frame", 0, "Frame index to dump")
	outDir := flag.String("outdir", ".", "Directory for the PNGs")
	blur := flag.Float64("blur", 0, "Gaussian blur sigma")
	sharpen := flag.Float64("sharpen", 1.0, "Sharpen sigma")
	saturation := flag.Float64("saturation", 0, "Saturation shift in percent")
	brightness := flag.Float64("brightness", 0, "Brightness shift, -1..1")
	contrast := flag.Float64("contrast", 0, "Contrast shift, -1..1")
	flag.Parse()

	if *input == "" && flag.NArg() > 0 {
		*input = flag.Arg(0)
	}
	if *input == "" {
		logrus.Fatal("framedump needs an input video")
	}

	ec := lib.EnhanceConfig{
		Enabled:    true,
		Blur:       *blur,
		Sharpen:    *sharpen,
		Saturation: *saturation,
		Brightness: *brightness,
		Contrast:   *contrast,
	}
	if err := ec.Validate(); err != nil {
		logrus.Fatal(err)
	}

	src, err := lib.OpenVideo(*input)
	if err != nil {
		logrus.Fatal(err)
	}
	defer src.Close()

	var im lib.Image
	for i := 0; i <= *frameIdx; i++ {
		im, err = src.Read()
		if err == io.EOF {
			logrus.Fatalf("frame %d is past the end of %s", *frameIdx, *input)
		}
		if err != nil {
			logrus.Fatal(err)
		}
	}

	enhanced := im.Copy()
	lib.EnhanceImage(&enhanced, ec)

	if err := writePNG(filepath.Join(*outDir, "original.png"), im); err != nil {
		logrus.Fatal(err)
	}
	if err := writePNG(filepath.Join(*outDir, "enhanced.png"), enhanced); err != nil {
		logrus.Fatal(err)
	}
	if err := writePNG(filepath.Join(*outDir, "compare.png"), sideBySide(im, enhanced)); err != nil {
		logrus.Fatal(err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "main",
		"input":    *input,
		"frame":    *frameIdx,
		"outdir":   *outDir,
	}).Info("Wrote frame dumps")
}

func writePNG(path string, im lib.Image) error {
	data, err := im.AsPNG()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// sideBySide scales both frames to half size and puts them on one canvas,
// original on the left.
func sideBySide(left, right lib.Image) lib.Image {
	halfW := lib.MaxInt(1, left.Width/2)
	halfH := lib.MaxInt(1, left.Height/2)
	l := left.Resize(halfW, halfH)
	r := right.Resize(halfW, halfH)

	out := lib.NewImage(halfW*2, halfH)
	for y := 0; y < halfH; y++ {
		for x := 0; x < halfW; x++ {
			out.SetRGB(x, y, l.GetRGB(x, y))
			out.SetRGB(halfW+x, y, r.GetRGB(x, y))
		}
	}
	return out
}
