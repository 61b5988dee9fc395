package menu

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// Progress draws one progress bar per pipeline operation. Its Update method
// satisfies operations.ProgressFunc, so it can be handed to the runner before
// the menu exists.
type Progress struct {
	mu  sync.Mutex
	w   io.Writer
	bar *progressbar.ProgressBar
}

// NewProgress creates a progress reporter writing to w.
func NewProgress(w io.Writer) *Progress {
	return &Progress{w: w}
}

// Update advances the bar to done of total. The first step of an operation
// starts a fresh bar; the last one completes it.
func (p *Progress) Update(step string, done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil || done == 1 {
		p.bar = p.newBar(total)
	}
	p.bar.Describe(fmt.Sprintf("[cyan][bold]%-22s[reset]", step))
	if err := p.bar.Set(done); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
	if done >= total {
		p.bar = nil
	}
}

func (p *Progress) newBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
