package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"videomag/lib"
)

func main() {
	def := lib.DefaultRunConfig()

	configPath := flag.String("config", "", "YAML config file; flags set on the command line override it")
	input := flag.String("input", "", "Input video path (or first positional argument)")
	output := flag.String("output", "", "Output video path (default: auto-named from the input)")
	low := flag.Float64("low", def.LowHz, "Passband low edge in Hz")
	high := flag.Float64("high", def.HighHz, "Passband high edge in Hz")
	alpha := flag.Float64("alpha", def.Alpha, "Amplification factor")
	order := flag.Int("order", def.Order, "Butterworth filter order")
	chunk := flag.Float64("chunk", def.ChunkSeconds, "Chunk length in seconds")
	mode := flag.String("mode", def.Mode, "Color mode: gray or color")
	fps := flag.Float64("fps", 0, "Override the input frame rate (0 = probe)")
	outFPS := flag.Float64("out-fps", 0, "Output frame rate (0 = same as input)")
	format := flag.String("format", def.Format, "Output container: mp4 or avi")
	quality := flag.String("quality", def.Quality, "Encode quality: none, light, medium, heavy or maximum")

	overlay := flag.Bool("overlay", def.Overlay.Enabled, "Draw the parameter overlay")
	overlayPos := flag.String("overlay-position", def.Overlay.Position, "Overlay position: top, bottom or center")
	overlayScale := flag.Float64("overlay-scale", def.Overlay.FontScale, "Overlay font scale")
	overlayAlpha := flag.Float64("overlay-alpha", def.Overlay.BgAlpha, "Overlay background opacity")
	overlayMargin := flag.Int("overlay-margin", def.Overlay.Margin, "Overlay margin in pixels")
	multiline := flag.Bool("multiline", def.Overlay.Multiline, "Split the overlay text on | into lines")

	enhance := flag.Bool("enhance", false, "Enable the enhancement chain")
	blur := flag.Float64("blur", 0, "Enhancement gaussian blur sigma")
	sharpen := flag.Float64("sharpen", 0, "Enhancement sharpen sigma")
	saturation := flag.Float64("saturation", 0, "Enhancement saturation shift in percent")
	brightness := flag.Float64("brightness", 0, "Enhancement brightness shift, -1..1")
	contrast := flag.Float64("contrast", 0, "Enhancement contrast shift, -1..1")

	readAhead := flag.Int("readahead", 0, "Frames to prefetch from the decoder (0 = synchronous)")
	record := flag.Bool("record", false, "Log host and process resource usage")
	plotPath := flag.String("plot", "", "Save the filter's frequency response PNG to this path")
	saveConfig := flag.String("save-config", "", "Write the resolved configuration to this YAML file and exit")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg := def
	if *configPath != "" {
		loaded, err := lib.LoadConfig(*configPath)
		if err != nil {
			logrus.Fatal(err)
		}
		cfg = loaded
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = *input
		case "output":
			cfg.Output = *output
		case "low":
			cfg.LowHz = *low
		case "high":
			cfg.HighHz = *high
		case "alpha":
			cfg.Alpha = *alpha
		case "order":
			cfg.Order = *order
		case "chunk":
			cfg.ChunkSeconds = *chunk
		case "mode":
			cfg.Mode = *mode
		case "fps":
			if *fps > 0 {
				cfg.InputFPS = fps
			}
		case "out-fps":
			if *outFPS > 0 {
				cfg.OutputFPS = outFPS
			}
		case "format":
			cfg.Format = *format
		case "quality":
			cfg.Quality = *quality
		case "overlay":
			cfg.Overlay.Enabled = *overlay
		case "overlay-position":
			cfg.Overlay.Position = *overlayPos
		case "overlay-scale":
			cfg.Overlay.FontScale = *overlayScale
		case "overlay-alpha":
			cfg.Overlay.BgAlpha = *overlayAlpha
		case "overlay-margin":
			cfg.Overlay.Margin = *overlayMargin
		case "multiline":
			cfg.Overlay.Multiline = *multiline
		case "enhance":
			cfg.Enhance.Enabled = *enhance
		case "blur":
			cfg.Enhance.Blur = *blur
		case "sharpen":
			cfg.Enhance.Sharpen = *sharpen
		case "saturation":
			cfg.Enhance.Saturation = *saturation
		case "brightness":
			cfg.Enhance.Brightness = *brightness
		case "contrast":
			cfg.Enhance.Contrast = *contrast
		case "readahead":
			cfg.ReadAhead = *readAhead
		case "record":
			cfg.Record = *record
		case "plot":
			cfg.ResponsePlot = *plotPath
		}
	})
	if cfg.Input == "" && flag.NArg() > 0 {
		cfg.Input = flag.Arg(0)
	}

	if *saveConfig != "" {
		if err := lib.SaveConfig(*saveConfig, cfg); err != nil {
			logrus.Fatal(err)
		}
		fmt.Printf("Wrote %s\n", *saveConfig)
		return
	}

	if cfg.Input == "" {
		fmt.Fprintln(os.Stderr, "usage: videomag [flags] input-video")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := lib.Run(ctx, cfg)
	if err != nil {
		logrus.Fatal(err)
	}
	lib.PrintSummary(res)
}
