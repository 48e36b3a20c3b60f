package worker

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const barWidth = 24

// Progress renders a single-line progress bar for a pool run.
type Progress struct {
	startTime time.Time
	output    io.Writer
	unit      string
	total     int
	completed int
	failed    int
	mu        sync.Mutex
	enabled   bool
}

// NewProgress creates a tracker for total items counted in unit ("layers").
// A disabled tracker still records counts for Summary.
func NewProgress(total int, unit string, enabled bool) *Progress {
	if unit == "" {
		unit = "items"
	}
	return &Progress{
		total:     total,
		unit:      unit,
		startTime: time.Now(),
		output:    os.Stderr,
		enabled:   enabled,
	}
}

// SetOutput redirects the bar, e.g. to a buffer in tests.
func (p *Progress) SetOutput(w io.Writer) {
	p.mu.Lock()
	p.output = w
	p.mu.Unlock()
}

// Update records a completion count. It satisfies ProgressFunc.
func (p *Progress) Update(completed, total, failed int) {
	p.mu.Lock()
	p.completed = completed
	p.total = total
	p.failed = failed
	line := p.lineLocked()
	out := p.output
	p.mu.Unlock()

	if p.enabled {
		fmt.Fprint(out, line)
	}
}

// Callback returns a ProgressFunc suitable for use with Pool.Config.
func (p *Progress) Callback() ProgressFunc {
	return p.Update
}

func (p *Progress) lineLocked() string {
	filled := 0
	if p.total > 0 {
		filled = p.completed * barWidth / p.total
	}
	bar := strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)

	line := fmt.Sprintf("\r[%s] %d/%d %s", bar, p.completed, p.total, p.unit)
	if p.failed > 0 {
		line += fmt.Sprintf(" (%d failed)", p.failed)
	}
	if p.completed == p.total {
		line += " - done in " + formatDuration(time.Since(p.startTime))
	}
	return line
}

// Done terminates the progress line.
func (p *Progress) Done() {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.output)
}

// Summary returns a one-line account of the run.
func (p *Progress) Summary() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return fmt.Sprintf("Built %d/%d %s (%d failed) in %s",
		p.completed-p.failed, p.total, p.unit, p.failed, formatDuration(time.Since(p.startTime)))
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
