// Package timer arms and cancels the single-shot and repeating timers that
// drive the jump controller. At most one timer per Kind is outstanding:
// scheduling a kind replaces whatever was armed for it before.
//
// A Service is not safe for concurrent use. It is owned by one event loop,
// which selects on C for each kind it cares about.
package timer

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Kind names the logical purpose of a timer.
type Kind string

// Handle identifies one scheduled timer. A handle outlives its timer; using it
// after the kind has been rescheduled is a no-op.
type Handle struct {
	Kind Kind
	seq  uint64
}

type armed struct {
	handle    Handle
	repeating bool
	timer     clockwork.Timer
	ticker    clockwork.Ticker
}

func (a *armed) channel() <-chan time.Time {
	if a.repeating {
		return a.ticker.Chan()
	}
	return a.timer.Chan()
}

func (a *armed) stop() {
	if a.repeating {
		a.ticker.Stop()
		select {
		case <-a.ticker.Chan():
		default:
		}
		return
	}
	stopAndDrainTimer(a.timer)
}

// Service tracks the outstanding timer for each kind.
type Service struct {
	clock  clockwork.Clock
	seq    uint64
	active map[Kind]*armed
}

// New creates a Service on the given clock.
func New(clock clockwork.Clock) *Service {
	return &Service{
		clock:  clock,
		active: make(map[Kind]*armed),
	}
}

// Schedule arms a timer of the given kind that fires after d, or every d when
// repeating. Any timer already outstanding for kind is cancelled first.
func (s *Service) Schedule(kind Kind, d time.Duration, repeating bool) Handle {
	s.cancelKind(kind)

	s.seq++
	a := &armed{
		handle:    Handle{Kind: kind, seq: s.seq},
		repeating: repeating,
	}
	if repeating {
		a.ticker = s.clock.NewTicker(d)
	} else {
		a.timer = s.clock.NewTimer(d)
	}
	s.active[kind] = a
	return a.handle
}

// Cancel stops the timer identified by h. It reports false when h is stale,
// meaning its kind was rescheduled, cancelled, or already fired.
func (s *Service) Cancel(h Handle) bool {
	a, ok := s.active[h.Kind]
	if !ok || a.handle != h {
		return false
	}
	a.stop()
	delete(s.active, h.Kind)
	return true
}

// CancelAll stops every outstanding timer.
func (s *Service) CancelAll() {
	for kind := range s.active {
		s.cancelKind(kind)
	}
}

// C returns the channel of the outstanding timer for kind, or nil when none is
// armed. Receiving from a nil channel blocks forever, so callers can select on
// C for every kind unconditionally.
func (s *Service) C(kind Kind) <-chan time.Time {
	a, ok := s.active[kind]
	if !ok {
		return nil
	}
	return a.channel()
}

// Fired marks a single-shot timer of kind as consumed. Repeating timers stay
// armed until cancelled.
func (s *Service) Fired(kind Kind) {
	if a, ok := s.active[kind]; ok && !a.repeating {
		delete(s.active, kind)
	}
}

// Active returns the handle of the outstanding timer for kind.
func (s *Service) Active(kind Kind) (Handle, bool) {
	a, ok := s.active[kind]
	if !ok {
		return Handle{}, false
	}
	return a.handle, true
}

// Len returns the number of outstanding timers.
func (s *Service) Len() int {
	return len(s.active)
}

func (s *Service) cancelKind(kind Kind) {
	if a, ok := s.active[kind]; ok {
		a.stop()
		delete(s.active, kind)
	}
}

// stopAndDrainTimer stops a timer and drains a pending fire so a stale value
// is never received later.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
