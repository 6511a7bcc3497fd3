package domain

import (
	"fmt"
	"time"
)

// Phase is the active state of the jump-event controller.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCountdown
	PhaseJump
	PhaseFilling
	PhaseResult
	PhaseLeaderboard
)

// Timing and sizing of a jump cycle.
const (
	CountdownStart = 5
	CountdownTick  = time.Second
	JumpDwell      = 3 * time.Second
	FillTick       = 50 * time.Millisecond
	FillCycle      = 3 * time.Second
	ResultDwell    = 5 * time.Second

	// FillSteps is the number of fill ticks needed to go from 0 to 100.
	FillSteps = int(FillCycle / FillTick)

	MaxProgress = 100.0
)

var phaseNames = [...]string{
	PhaseIdle:        "idle",
	PhaseCountdown:   "countdown",
	PhaseJump:        "jump",
	PhaseFilling:     "filling",
	PhaseResult:      "result",
	PhaseLeaderboard: "leaderboard",
}

// Phases lists every phase in cycle order.
func Phases() []Phase {
	return []Phase{PhaseIdle, PhaseCountdown, PhaseJump, PhaseFilling, PhaseResult, PhaseLeaderboard}
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// MarshalText encodes the phase by name so JSON consumers see "filling", not 3.
func (p Phase) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= len(phaseNames) {
		return nil, fmt.Errorf("unknown phase %d", int(p))
	}
	return []byte(phaseNames[p]), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if name == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}
