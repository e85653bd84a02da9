package report

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/smykla-skalski/liftoff/internal/coordinator"
)

// ProgressPrinter prints download progress as a single rewritten line on a
// terminal, or as occasional plain lines otherwise.
type ProgressPrinter struct {
	mu       sync.Mutex
	out      io.Writer
	tty      bool
	interval time.Duration
	now      func() time.Time
	last     time.Time
	stage    coordinator.Stage
	started  time.Time
	width    int
}

// NewProgressPrinter creates a ProgressPrinter writing to out.
func NewProgressPrinter(out io.Writer, tty bool) *ProgressPrinter {
	return &ProgressPrinter{
		out:      out,
		tty:      tty,
		interval: 100 * time.Millisecond,
		now:      time.Now,
	}
}

// Update is a coordinator.ProgressFunc.
func (p *ProgressPrinter) Update(pr coordinator.Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()

	if pr.Stage != p.stage {
		p.finishLocked()
		p.stage = pr.Stage
		p.started = now
		p.last = time.Time{}
	}

	interval := p.interval
	if !p.tty {
		interval = 5 * time.Second
	}

	complete := pr.Total > 0 && pr.Received >= pr.Total
	if !complete && !p.last.IsZero() && now.Sub(p.last) < interval {
		return
	}

	p.last = now
	line := FormatProgress(pr, now.Sub(p.started))

	if p.tty {
		pad := max(0, p.width-len(line))
		p.width = len(line)
		_, _ = fmt.Fprintf(p.out, "\r%s%*s", line, pad, "")

		return
	}

	_, _ = fmt.Fprintln(p.out, line)
}

// Done terminates the progress line.
func (p *ProgressPrinter) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.finishLocked()
}

func (p *ProgressPrinter) finishLocked() {
	if p.tty && p.width > 0 {
		_, _ = fmt.Fprintln(p.out)
	}

	p.width = 0
}

// FormatProgress renders a progress update, e.g.
// "archive: 12 MB / 48 MB (25%) in 3 seconds".
func FormatProgress(pr coordinator.Progress, elapsed time.Duration) string {
	var amount string

	if pr.Total > 0 {
		percent := pr.Received * 100 / pr.Total
		amount = fmt.Sprintf("%s / %s (%d%%)",
			humanize.Bytes(uint64(pr.Received)), //nolint:gosec // G115: sizes are non-negative
			humanize.Bytes(uint64(pr.Total)),    //nolint:gosec // G115: sizes are non-negative
			percent,
		)
	} else {
		amount = humanize.Bytes(uint64(max(pr.Received, 0))) //nolint:gosec // G115: clamped
	}

	return fmt.Sprintf("%s: %s in %s", pr.Stage, amount, FormatElapsed(elapsed))
}
