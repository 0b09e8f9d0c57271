package lib

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// RunResult reports what one amplification run produced.
type RunResult struct {
	OutputPath      string
	FramesRead      int
	FramesWritten   int
	ChunksProcessed int
	ChunksSkipped   int
	Elapsed         time.Duration
}

func tempOutputName(format string) string { return "amplified_output." + format }

// outputName builds the auto-generated output file name from the input stem
// and the processing time in whole seconds.
func outputName(input, format string, elapsedSec int) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return fmt.Sprintf("%s_%d_sec.%s", stem, elapsedSec, format)
}

// Process pulls frames from src chunk by chunk, amplifies each chunk and
// writes the reconstruction to sink. The caller owns src and sink; both
// stay open. Chunks too short for the filter are warned about and dropped,
// every other error is fatal. Cancellation is checked between chunks only,
// so a chunk is never split.
func Process(ctx context.Context, src FrameSource, sink FrameSink, cfg RunConfig, rep Reporter) (RunResult, error) {
	var res RunResult
	if rep == nil {
		rep = NopReporter{}
	}

	mode, err := ParseColorMode(cfg.Mode)
	if err != nil {
		return res, err
	}

	meta := src.Meta()
	fps := meta.FPS
	if cfg.InputFPS != nil {
		fps = *cfg.InputFPS
	}
	if fps <= 0 {
		logrus.WithFields(logrus.Fields{
			"function": "Process",
			"fallback": 30.0,
		}).Warn("Input frame rate unknown, assuming fallback")
		fps = 30.0
	}

	spec, err := DesignBandpass(cfg.Order, cfg.LowHz, cfg.HighHz, fps)
	if err != nil {
		return res, err
	}
	logrus.WithFields(logrus.Fields{
		"function": "Process",
		"low_hz":   cfg.LowHz,
		"high_hz":  cfg.HighHz,
		"order":    cfg.Order,
		"rate":     fps,
		"sections": len(spec.Sections),
	}).Info("Designed bandpass filter")

	chunkFrames := int(cfg.ChunkSeconds * fps)
	if chunkFrames < 1 {
		chunkFrames = 1
	}
	totalChunks := MaxInt(1, ceilDiv(MaxInt(meta.FrameCount, 1), chunkFrames))

	done := 0
	for chunkIdx := 0; ; chunkIdx++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		frames, err := ReadChunk(src, chunkFrames)
		if err != nil {
			return res, err
		}
		if len(frames) == 0 {
			break
		}
		res.FramesRead += len(frames)
		last := len(frames) < chunkFrames

		stack := ProjectLuma(frames, mode)
		amp, err := AmplifyStack(stack, spec, cfg.Alpha)
		if errors.Is(err, ErrChunkTooShort) {
			logrus.WithFields(logrus.Fields{
				"function":    "Process",
				"chunk":       chunkIdx,
				"frames":      len(frames),
				"min_samples": MinFilterSamples(cfg.Order),
			}).Warn("Skipping chunk below the filter's minimum sample count")
			res.ChunksSkipped++
			done++
			if !last && done == totalChunks {
				totalChunks++
			}
			rep.Report(done, totalChunks)
			if last {
				break
			}
			continue
		}
		if err != nil {
			return res, err
		}

		if logrus.IsLevelEnabled(logrus.DebugLevel) {
			st := ComputeStackStats(amp)
			logrus.WithFields(logrus.Fields{
				"function": "Process",
				"chunk":    chunkIdx,
				"min":      st.Min,
				"max":      st.Max,
				"mean":     st.Mean,
				"stddev":   st.StdDev,
			}).Debug("Amplified chunk statistics")
		}

		text := ""
		if cfg.Overlay.Enabled {
			text = InfoText(cfg, int(float64(chunkIdx)*cfg.ChunkSeconds))
		}
		out := ReconstructFrames(amp, frames, mode, text, cfg.Overlay)
		for i := range out {
			EnhanceImage(&out[i], cfg.Enhance)
			if err := sink.Write(out[i]); err != nil {
				return res, err
			}
		}
		res.FramesWritten += len(out)
		res.ChunksProcessed++
		done++
		if !last && done == totalChunks {
			totalChunks++
		}
		rep.Report(done, totalChunks)
		if last {
			break
		}
	}
	return res, nil
}

// Run executes one full amplification pass from probe through encoded
// output. The band check runs before the encoder exists, so an invalid
// band leaves nothing on disk.
func Run(ctx context.Context, cfg RunConfig) (RunResult, error) {
	var res RunResult
	if err := cfg.Validate(); err != nil {
		return res, err
	}

	t0 := time.Now()
	if cfg.Record {
		LogSystemInfo()
		SnapshotUsage().Log("start")
	}

	src, err := OpenVideo(cfg.Input)
	if err != nil {
		return res, err
	}
	meta := src.Meta()
	logrus.WithFields(logrus.Fields{
		"function": "Run",
		"input":    cfg.Input,
		"width":    meta.Width,
		"height":   meta.Height,
		"fps":      meta.FPS,
		"frames":   meta.FrameCount,
	}).Info("Opened input video")

	fps := meta.FPS
	if cfg.InputFPS != nil {
		fps = *cfg.InputFPS
	}
	if fps <= 0 {
		fps = 30.0
	}

	spec, err := DesignBandpass(cfg.Order, cfg.LowHz, cfg.HighHz, fps)
	if err != nil {
		src.Close()
		return res, err
	}
	if cfg.ResponsePlot != "" {
		if perr := PlotResponse(spec, cfg.ResponsePlot); perr != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Run",
				"path":     cfg.ResponsePlot,
				"error":    perr.Error(),
			}).Warn("Could not save response plot")
		}
	}

	outFPS := fps
	if cfg.OutputFPS != nil {
		outFPS = *cfg.OutputFPS
	}
	outPath := cfg.Output
	autoName := outPath == ""
	if autoName {
		outPath = tempOutputName(cfg.Format)
	}
	sink, err := CreateVideo(outPath, outFPS, meta.Width, meta.Height, cfg.Format, cfg.Quality)
	if err != nil {
		src.Close()
		return res, err
	}

	var source FrameSource = src
	if cfg.ReadAhead > 0 {
		source = NewBufferedSource(src, cfg.ReadAhead)
	}

	chunkFrames := int(cfg.ChunkSeconds * fps)
	if chunkFrames < 1 {
		chunkFrames = 1
	}
	rep := NewBarReporter("[cyan][VM][reset] Amplify",
		MaxInt(1, ceilDiv(MaxInt(meta.FrameCount, 1), chunkFrames)))

	res, perr := Process(ctx, source, sink, cfg, rep)

	srcErr := source.Close()
	sinkErr := sink.Close()
	if perr != nil {
		if autoName {
			os.Remove(outPath)
		}
		return res, perr
	}
	if sinkErr != nil {
		return res, fmt.Errorf("finalize %s: %v", outPath, sinkErr)
	}
	if srcErr != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Run",
			"error":    srcErr.Error(),
		}).Warn("Closing the input reported an error")
	}

	res.Elapsed = time.Since(t0)
	if autoName {
		final := outputName(cfg.Input, cfg.Format, int(res.Elapsed.Seconds()))
		if err := os.Rename(outPath, final); err != nil {
			return res, err
		}
		outPath = final
	}
	res.OutputPath = outPath

	if cfg.Record {
		SnapshotUsage().Log("end")
	}
	logrus.WithFields(logrus.Fields{
		"function":       "Run",
		"output":         res.OutputPath,
		"frames_read":    res.FramesRead,
		"frames_written": res.FramesWritten,
		"chunks":         res.ChunksProcessed,
		"skipped":        res.ChunksSkipped,
		"elapsed_sec":    res.Elapsed.Seconds(),
	}).Info("Amplification complete")
	return res, nil
}
