package sqlite

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker prints a single, rewritten status line while entries are
// imported. It is safe for concurrent use; a tracker reports nothing until
// Start is called.
type ProgressTracker struct {
	mu       sync.Mutex
	w        io.Writer
	total    int
	every    int
	done     int
	reported int
	started  time.Time
}

// NewProgressTracker reports to w after every `every` imported entries out of total.
func NewProgressTracker(w io.Writer, total, every int) *ProgressTracker {
	return &ProgressTracker{w: w, total: total, every: max(every, 1)}
}

// Start resets the counters and the clock.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = time.Now()
	p.done, p.reported = 0, 0
}

// Increment records n more imported entries, capped at the total.
func (p *ProgressTracker) Increment(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started.IsZero() {
		return
	}
	p.done = min(p.done+n, p.total)
	if p.done-p.reported >= p.every {
		p.print()
		p.reported = p.done
	}
}

// Current returns the number of entries imported so far.
func (p *ProgressTracker) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Finish prints the final line and ends it with a newline.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started.IsZero() {
		return
	}
	p.done = p.total
	p.print()
	fmt.Fprintf(p.w, " in %s\n", time.Since(p.started).Round(time.Millisecond))
}

// print must be called with mu held.
func (p *ProgressTracker) print() {
	pct := 100.0
	if p.total > 0 {
		pct = float64(p.done) * 100 / float64(p.total)
	}
	fmt.Fprintf(p.w, "\rImported: %d/%d entries (%3.0f%%)", p.done, p.total, pct)
}
