package engine

// Phase is the stage of the sweep pipeline.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSweepRequested
	PhaseRevealing
	PhaseClassifying
	PhaseHighlighting
	PhaseAwarding
	PhaseRoundComplete
)

var phaseNames = [...]string{
	PhaseIdle:           "idle",
	PhaseSweepRequested: "sweep-requested",
	PhaseRevealing:      "revealing",
	PhaseClassifying:    "classifying",
	PhaseHighlighting:   "highlighting",
	PhaseAwarding:       "awarding",
	PhaseRoundComplete:  "round-complete",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Busy reports whether a sweep is running in this phase.
func (p Phase) Busy() bool {
	return p > PhaseIdle && p < PhaseRoundComplete
}
