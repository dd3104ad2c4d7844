package usecase

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// progressTracker holds the coarse send-progress stage. Pure UI state:
// after a send completes it snaps back to idle one reset interval later.
type progressTracker struct {
	mu         sync.Mutex
	value      int
	clk        clock.Clock
	resetAfter time.Duration
	reset      *clock.Timer
}

func newProgressTracker(clk clock.Clock, resetAfter time.Duration) *progressTracker {
	return &progressTracker{clk: clk, resetAfter: resetAfter}
}

func (p *progressTracker) set(v int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reset != nil {
		p.reset.Stop()
		p.reset = nil
	}
	p.value = v
}

// complete sets the terminal stage and schedules the snap back to idle.
func (p *progressTracker) complete(v int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reset != nil {
		p.reset.Stop()
	}
	p.value = v
	p.reset = p.clk.AfterFunc(p.resetAfter, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.value = 0
		p.reset = nil
	})
}

func (p *progressTracker) current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}
