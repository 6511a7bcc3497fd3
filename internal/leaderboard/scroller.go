package leaderboard

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Scroll timing.
const (
	ScrollInterval = 50 * time.Millisecond
	ScrollPause    = 3 * time.Second
)

// Scroller pans a list taller than its viewport: it pauses at the top, steps
// down every interval until the bottom, pauses, steps back up, and repeats.
// Pauses are counted in ticks so a single ticker drives the whole loop.
type Scroller struct {
	clock      clockwork.Clock
	step       int
	interval   time.Duration
	pauseTicks int

	mu        sync.Mutex
	content   int
	viewport  int
	offset    int
	direction int
	paused    int
}

// NewScroller creates a Scroller that moves step pixels per tick.
func NewScroller(clock clockwork.Clock, step int) *Scroller {
	s := &Scroller{
		clock:      clock,
		step:       step,
		interval:   ScrollInterval,
		pauseTicks: int(ScrollPause / ScrollInterval),
		direction:  1,
	}
	s.paused = s.pauseTicks
	return s
}

// Resize sets the content and viewport heights and rewinds to the top, where
// the loop pauses before moving.
func (s *Scroller) Resize(content, viewport int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = content
	s.viewport = viewport
	s.offset = 0
	s.direction = 1
	s.paused = s.pauseTicks
}

// Offset returns the current scroll position in pixels.
func (s *Scroller) Offset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

// Run drives the scroll loop until ctx is cancelled. The ticker is stopped on
// return, so no tick outlives the view.
func (s *Scroller) Run(ctx context.Context) error {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			s.tick()
		}
	}
}

func (s *Scroller) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused > 0 {
		s.paused--
		return
	}

	maxScroll := s.content - s.viewport
	if maxScroll <= 0 {
		return
	}

	s.offset += s.direction * s.step
	switch {
	case s.offset >= maxScroll:
		s.offset = maxScroll
		s.direction = -1
		s.paused = s.pauseTicks
	case s.offset <= 0:
		s.offset = 0
		s.direction = 1
		s.paused = s.pauseTicks
	}
}
