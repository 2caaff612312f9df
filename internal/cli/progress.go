package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/shinji-kodama/portable-git/internal/extract"
)

const (
	// barMax is the bar resolution; fractions are scaled onto it.
	barMax = 1000

	descExtracting = "Extracting"
)

// barProgress renders extraction progress on a terminal bar. The installer
// reports each archive from 0 to 1, so a fraction of 0 starts a fresh bar.
type barProgress struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func newBarProgress(out io.Writer) *barProgress {
	return &barProgress{out: out}
}

// Progress returns the callbacks to hand to the installer.
func (b *barProgress) Progress() *extract.Progress {
	return &extract.Progress{
		OnFraction:  b.fraction,
		OnRemaining: b.remaining,
	}
}

func (b *barProgress) fraction(f float64) {
	if b.bar == nil || f == 0 {
		b.start()
	}
	_ = b.bar.Set(int(f * barMax))
}

func (b *barProgress) remaining(d time.Duration) {
	if b.bar == nil {
		return
	}
	if d <= 0 {
		b.bar.Describe(descExtracting)
		return
	}
	b.bar.Describe(fmt.Sprintf("%s (%s left)", descExtracting, d.Round(time.Second)))
}

func (b *barProgress) start() {
	b.finish()
	b.bar = progressbar.NewOptions(barMax,
		progressbar.OptionSetWriter(b.out),
		progressbar.OptionSetDescription(descExtracting),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(b.out) }),
	)
}

// finish completes the current bar, if any.
func (b *barProgress) finish() {
	if b.bar == nil {
		return
	}
	if !b.bar.IsFinished() {
		_ = b.bar.Finish()
	}
	b.bar = nil
}
