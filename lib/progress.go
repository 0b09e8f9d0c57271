package lib

import (
	"github.com/fatih/color"
	ansi "github.com/k0kubun/go-ansi"
	"github.com/mitchellh/colorstring"
	"github.com/schollz/progressbar/v3"
)

// Reporter observes chunk progress. Reporting is observability only: Run
// treats every Report as fire-and-forget and never changes behavior on it.
// Skipped chunks advance the count exactly like processed ones.
type Reporter interface {
	Report(done, total int)
}

// NopReporter discards progress.
type NopReporter struct{}

func (NopReporter) Report(done, total int) {}

// BarReporter renders chunk progress as a fixed-width console bar.
type BarReporter struct {
	bar   *progressbar.ProgressBar
	total int
}

// NewBarReporter builds a console bar for total chunks.
func NewBarReporter(description string, total int) *BarReporter {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	return &BarReporter{bar: bar, total: total}
}

// Report moves the bar to done of total. Terminal write errors are dropped.
func (r *BarReporter) Report(done, total int) {
	if total != r.total {
		r.bar.ChangeMax(total)
		r.total = total
	}
	_ = r.bar.Set(done)
}

// PrintSummary prints the end-of-run totals to the console.
func PrintSummary(res RunResult) {
	color.Output = ansi.NewAnsiStdout()
	colorstring.Printf("\nOutput: [green]%s\n", res.OutputPath)
	colorstring.Printf("Frames read: [green]%d, ", res.FramesRead)
	colorstring.Printf("written: [green]%d\n", res.FramesWritten)
	colorstring.Printf("Chunks processed: [green]%d, ", res.ChunksProcessed)
	if res.ChunksSkipped > 0 {
		colorstring.Printf("skipped: [red]%d\n", res.ChunksSkipped)
	} else {
		colorstring.Printf("skipped: [green]%d\n", res.ChunksSkipped)
	}
	colorstring.Printf("Elapsed: [green]%.1fs\n", res.Elapsed.Seconds())
}
