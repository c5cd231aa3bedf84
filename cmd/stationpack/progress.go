package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"stationpack/internal/pipeline"
)

// newProgress returns a terminal progress bar when stderr is a TTY, and a
// no-op observer otherwise so piped and logged runs stay clean.
func newProgress() pipeline.Progress {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return pipeline.NopProgress()
	}
	return &barProgress{}
}

type barProgress struct {
	bar *progressbar.ProgressBar
}

func (p *barProgress) Start(total int) {
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("stations"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *barProgress) Advance(index int, name string, eta time.Duration) {
	if p.bar == nil {
		return
	}
	label := truncateLabel(name, 28)
	if eta > 0 {
		label = fmt.Sprintf("%s (eta %s)", label, eta.Round(time.Second))
	}
	p.bar.Describe(label)
	_ = p.bar.Set(index)
}

func (p *barProgress) Finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	fmt.Fprintln(os.Stderr)
}

func truncateLabel(name string, limit int) string {
	runes := []rune(name)
	if len(runes) <= limit {
		return name
	}
	return string(runes[:limit-1]) + "…"
}
