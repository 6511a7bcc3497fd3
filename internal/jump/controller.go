// Package jump runs the jump-event state machine: countdown, jump, the looping
// fill animation, score resolution, and the hand-off to the leaderboard.
//
// All state is owned by one event loop (Run). Commands, timer fires, and
// resolution results are funnelled through it, so phase logic never runs in
// parallel and needs no locking of its own.
package jump

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Dory74/STEMX373-SafeToManu/internal/domain"
	"github.com/Dory74/STEMX373-SafeToManu/internal/observability"
	"github.com/Dory74/STEMX373-SafeToManu/internal/timer"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// ErrNotRunning is returned by commands issued while the loop is not running.
var ErrNotRunning = errors.New("jump controller is not running")

const publishTimeout = 5 * time.Second

// Timer kinds. Only one phase timer is ever armed; the fill ticker is separate
// so it can be reasoned about on its own.
const (
	kindPhase timer.Kind = "phase"
	kindFill  timer.Kind = "fill"
)

// Resolver produces the result of a jump. It must not fail: degraded results
// are its own concern.
type Resolver interface {
	Resolve(ctx context.Context) domain.JumpResult
}

// Publisher receives every result applied to a live cycle.
type Publisher interface {
	Publish(ctx context.Context, result domain.JumpResult) error
}

// Observer is called from the loop after every state change. It must not block.
type Observer func(prev, next domain.State)

type commandKind int

const (
	cmdState commandKind = iota
	cmdStart
	cmdReset
	cmdToggleLoop
	cmdBack
)

type command struct {
	kind  commandKind
	reply chan domain.State
}

type resolution struct {
	generation uint64
	result     domain.JumpResult
}

// Controller is the single source of truth for the jump display.
type Controller struct {
	resolver  Resolver
	publisher Publisher
	clock     clockwork.Clock
	timers    *timer.Service
	logger    *slog.Logger
	metrics   *observability.Metrics
	observer  Observer

	commands    chan command
	resolutions chan resolution
	running     atomic.Bool

	// Loop-owned state.
	state       domain.State
	fillStep    int
	generation  uint64
	cancelFetch context.CancelFunc
	runCtx      context.Context
}

// New creates a Controller. publisher may be nil.
func New(resolver Resolver, publisher Publisher, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Controller {
	return &Controller{
		resolver:    resolver,
		publisher:   publisher,
		clock:       clock,
		timers:      timer.New(clock),
		logger:      logger,
		metrics:     metrics,
		commands:    make(chan command),
		resolutions: make(chan resolution),
		state:       domain.InitialState(),
	}
}

// Observe registers fn to be called after every state change. Call before Run.
func (c *Controller) Observe(fn Observer) {
	c.observer = fn
}

// CheckReadiness returns nil once the loop is running.
func (c *Controller) CheckReadiness(_ context.Context) error {
	if !c.running.Load() {
		return ErrNotRunning
	}
	return nil
}

// Start begins a new cycle. It is a no-op outside Idle.
func (c *Controller) Start(ctx context.Context) (domain.State, error) {
	return c.send(ctx, cmdStart)
}

// Reset cancels every pending timer and in-flight resolution and restores the
// initial state. It is legal in every phase.
func (c *Controller) Reset(ctx context.Context) (domain.State, error) {
	return c.send(ctx, cmdReset)
}

// ToggleLoop flips the loop flag. It is a no-op outside Filling.
func (c *Controller) ToggleLoop(ctx context.Context) (domain.State, error) {
	return c.send(ctx, cmdToggleLoop)
}

// Back leaves the leaderboard for Idle. It is a no-op outside Leaderboard.
func (c *Controller) Back(ctx context.Context) (domain.State, error) {
	return c.send(ctx, cmdBack)
}

// State returns a copy of the current state. Timers already due are applied
// before the copy is taken.
func (c *Controller) State(ctx context.Context) (domain.State, error) {
	return c.send(ctx, cmdState)
}

func (c *Controller) send(ctx context.Context, kind commandKind) (domain.State, error) {
	if !c.running.Load() {
		return domain.State{}, ErrNotRunning
	}
	cmd := command{kind: kind, reply: make(chan domain.State, 1)}
	select {
	case c.commands <- cmd:
	case <-ctx.Done():
		return domain.State{}, ctx.Err()
	}
	select {
	case s := <-cmd.reply:
		return s, nil
	case <-ctx.Done():
		return domain.State{}, ctx.Err()
	}
}

// Run executes the event loop until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	c.runCtx = ctx
	c.running.Store(true)
	c.metrics.ControllerRunning.Set(1)
	c.metrics.CurrentPhase.Set(float64(c.state.Phase))
	c.logger.Info("jump controller started")

	defer func() {
		c.running.Store(false)
		c.timers.CancelAll()
		c.stopFetch()
		c.metrics.ControllerRunning.Set(0)
	}()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("jump controller stopping", "reason", ctx.Err())
			return nil
		case cmd := <-c.commands:
			c.drainDue()
			c.handleCommand(cmd)
		case <-c.timers.C(kindPhase):
			c.onPhaseTimer()
		case <-c.timers.C(kindFill):
			c.onFillTick()
		case res := <-c.resolutions:
			c.onResolution(res)
		}
	}
}

// drainDue applies timers that have already fired so a command always sees
// state that is current with the clock.
func (c *Controller) drainDue() {
	for {
		select {
		case <-c.timers.C(kindPhase):
			c.onPhaseTimer()
		case <-c.timers.C(kindFill):
			c.onFillTick()
		default:
			return
		}
	}
}

func (c *Controller) handleCommand(cmd command) {
	prev := c.state
	switch cmd.kind {
	case cmdStart:
		if c.state.Phase == domain.PhaseIdle {
			c.startCycle()
		}
	case cmdReset:
		c.reset()
	case cmdToggleLoop:
		if c.state.Phase == domain.PhaseFilling {
			c.state.Loop = !c.state.Loop
			c.logger.Debug("fill loop toggled", "loop", c.state.Loop)
		}
	case cmdBack:
		if c.state.Phase == domain.PhaseLeaderboard {
			c.reset()
		}
	case cmdState:
	}
	c.notify(prev)
	cmd.reply <- c.snapshot()
}

func (c *Controller) startCycle() {
	c.generation++
	c.state = domain.InitialState()
	c.state.Running = true
	c.state.CycleID = uuid.New()
	c.fillStep = 0
	c.logger.Info("jump cycle started", "cycle_id", c.state.CycleID, "generation", c.generation)
	c.enter(domain.PhaseCountdown)
}

func (c *Controller) reset() {
	c.timers.CancelAll()
	c.stopFetch()
	c.generation++
	c.state = domain.InitialState()
	c.fillStep = 0
	c.logger.Info("jump controller reset", "generation", c.generation)
	c.metrics.PhaseTransitions.WithLabelValues(domain.PhaseIdle.String()).Inc()
	c.metrics.CurrentPhase.Set(float64(domain.PhaseIdle))
}

// enter switches to phase p. Every timer armed by the previous phase is
// cancelled before the new phase arms its own.
func (c *Controller) enter(p domain.Phase) {
	c.timers.CancelAll()
	from := c.state.Phase
	c.state.Phase = p
	c.metrics.PhaseTransitions.WithLabelValues(p.String()).Inc()
	c.metrics.CurrentPhase.Set(float64(p))
	c.logger.Debug("phase transition", "from", from, "to", p, "cycle_id", c.state.CycleID)

	switch p {
	case domain.PhaseIdle:
	case domain.PhaseCountdown:
		c.state.Remaining = domain.CountdownStart
		c.timers.Schedule(kindPhase, domain.CountdownTick, false)
	case domain.PhaseJump:
		c.timers.Schedule(kindPhase, domain.JumpDwell, false)
	case domain.PhaseFilling:
		c.setFillStep(0)
		c.timers.Schedule(kindFill, domain.FillTick, true)
	case domain.PhaseResult:
		c.state.Running = false
		c.timers.Schedule(kindPhase, domain.ResultDwell, false)
		c.startResolution()
	case domain.PhaseLeaderboard:
	}
}

func (c *Controller) onPhaseTimer() {
	c.timers.Fired(kindPhase)
	prev := c.state

	switch c.state.Phase {
	case domain.PhaseCountdown:
		c.state.Remaining--
		if c.state.Remaining <= 0 {
			c.state.Remaining = 0
			c.enter(domain.PhaseJump)
		} else {
			c.timers.Schedule(kindPhase, domain.CountdownTick, false)
		}
	case domain.PhaseJump:
		c.enter(domain.PhaseFilling)
	case domain.PhaseResult:
		c.enter(domain.PhaseLeaderboard)
	default:
		c.logger.Warn("phase timer fired in a phase that arms none", "phase", c.state.Phase)
	}
	c.notify(prev)
}

// onFillTick advances the fill by one step. The loop flag is read here, at the
// moment the 100% boundary is evaluated, so a toggle always affects the next
// crossing.
func (c *Controller) onFillTick() {
	if c.state.Phase != domain.PhaseFilling {
		return
	}
	prev := c.state

	if c.fillStep >= domain.FillSteps {
		c.metrics.FillCycles.Inc()
		if c.state.Loop {
			c.setFillStep(0)
		} else {
			c.enter(domain.PhaseResult)
		}
	} else {
		c.setFillStep(c.fillStep + 1)
	}
	c.notify(prev)
}

func (c *Controller) setFillStep(step int) {
	c.fillStep = step
	progress := float64(step) * domain.MaxProgress / float64(domain.FillSteps)
	c.state.Progress = min(progress, domain.MaxProgress)
}

// startResolution resolves the jump in the background. The result is tagged
// with the current generation; a reset in the meantime makes it stale.
func (c *Controller) startResolution() {
	c.stopFetch()
	ctx, cancel := context.WithCancel(c.runCtx)
	c.cancelFetch = cancel
	gen := c.generation

	go func() {
		defer cancel()
		result := c.resolver.Resolve(ctx)
		select {
		case c.resolutions <- resolution{generation: gen, result: result}:
		case <-c.runCtx.Done():
		}
	}()
}

func (c *Controller) stopFetch() {
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
}

func (c *Controller) onResolution(res resolution) {
	live := res.generation == c.generation &&
		(c.state.Phase == domain.PhaseResult || c.state.Phase == domain.PhaseLeaderboard)
	if !live {
		c.metrics.StaleResolutions.Inc()
		c.logger.Debug("dropping stale resolution", "generation", res.generation, "current", c.generation)
		return
	}

	prev := c.state
	result := res.result
	result.CycleID = c.state.CycleID
	result.Generation = res.generation
	c.state.Result = &result
	c.cancelFetch = nil

	c.logger.Info("jump resolved",
		"cycle_id", result.CycleID,
		"username", result.Username,
		"score", result.Score,
		"ranked", result.Ranked(),
		"degraded", result.Degraded,
	)
	c.publish(result)
	c.notify(prev)
}

func (c *Controller) publish(result domain.JumpResult) {
	if c.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(c.runCtx, publishTimeout)
		defer cancel()
		if err := c.publisher.Publish(ctx, result); err != nil {
			c.logger.Warn("publish jump result failed", "error", err, "cycle_id", result.CycleID)
		}
	}()
}

func (c *Controller) notify(prev domain.State) {
	if c.observer == nil {
		return
	}
	if statesEqual(prev, c.state) {
		return
	}
	c.observer(prev, c.snapshot())
}

func (c *Controller) snapshot() domain.State {
	s := c.state
	if s.Result != nil {
		r := *s.Result
		if r.Rank != nil {
			rank := *r.Rank
			r.Rank = &rank
		}
		s.Result = &r
	}
	return s
}

func statesEqual(a, b domain.State) bool {
	return a.Phase == b.Phase &&
		a.Remaining == b.Remaining &&
		a.Progress == b.Progress &&
		a.Loop == b.Loop &&
		a.Running == b.Running &&
		a.CycleID == b.CycleID &&
		a.Result == b.Result
}
