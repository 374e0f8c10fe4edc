package engine

import "time"

// TimeManager turns a UCI "go" command's clock arguments into soft and hard
// deadlines for one search. Grounded on the teacher's uciCalculateAllowedTimeMs
// (mains/uci/main.go), whose whole strategy is "1/16th of the remaining
// time, or the increment if that's non-positive" - we keep that shape for
// the per-move target, which becomes the soft bound the Coordinator uses to
// bail out of iterative deepening early, the way CounterGo's timeManager
// does, and set the hard bound at 3x that target, since the teacher's
// version has no notion of stopping before the hard deadline.
type TimeManager struct {
	start     time.Time
	soft      time.Duration
	hard      time.Duration
	infinite  bool
	fixed     bool
	nodeLimit uint64
}

// GoParams mirrors the subset of UCI "go" arguments the teacher's goScanner
// loop recognises, extended with movestogo/depth/nodes/movetime per spec
// §4.6 (the teacher only ever parsed wtime/btime/winc/binc/infinite).
type GoParams struct {
	WTimeMs, BTimeMs int
	WIncMs, BIncMs   int
	MovesToGo        int
	MoveTimeMs       int
	NodesLimit       uint64
	Infinite         bool
}

// NewTimeManager computes the deadlines for a search starting now, from the
// side to move's perspective.
func NewTimeManager(now time.Time, whiteToMove bool, params GoParams, moveOverheadMs int) *TimeManager {
	tm := &TimeManager{start: now, nodeLimit: params.NodesLimit}

	if params.Infinite {
		tm.infinite = true
		return tm
	}

	if params.MoveTimeMs > 0 {
		tm.fixed = true
		budget := time.Duration(params.MoveTimeMs-moveOverheadMs) * time.Millisecond
		if budget < time.Millisecond {
			budget = time.Millisecond
		}
		tm.soft = budget
		tm.hard = budget
		return tm
	}

	ourTimeMs, ourIncMs := params.WTimeMs, params.WIncMs
	if !whiteToMove {
		ourTimeMs, ourIncMs = params.BTimeMs, params.BIncMs
	}
	if ourTimeMs <= 0 {
		// No clock info at all: search will run until explicitly stopped.
		tm.infinite = true
		return tm
	}

	movesToGo := params.MovesToGo
	if movesToGo <= 0 {
		// The teacher's 1/16th rule implicitly assumes ~16 moves left;
		// keep that assumption when the GUI doesn't tell us movestogo.
		movesToGo = 16
	}

	targetMs := float64(ourTimeMs)/float64(movesToGo) + 0.6*float64(ourIncMs)
	if targetMs <= 0 {
		targetMs = float64(ourIncMs)
	}
	if targetMs <= 0 {
		targetMs = 1
	}

	// The hard bound is a generous 3x backstop above the planned per-move
	// target, leaving ShouldStartNextDepth's node-fraction extension room to
	// work with; it's still capped by what the clock actually has left,
	// minus the overhead we reserve for GUI/network latency.
	hardMs := 3 * targetMs
	if maxMs := float64(ourTimeMs - moveOverheadMs); maxMs > 0 && hardMs > maxMs {
		hardMs = maxMs
	}
	if hardMs <= 0 {
		hardMs = 1
	}

	tm.hard = time.Duration(hardMs) * time.Millisecond
	// The soft bound is what iterative deepening checks between depths: once
	// the planned per-move target is spent, stop starting new depths unless
	// the node-fraction adjustment below says otherwise.
	tm.soft = time.Duration(targetMs) * time.Millisecond
	if tm.soft < time.Millisecond {
		tm.soft = time.Millisecond
	}
	if tm.soft > tm.hard {
		tm.soft = tm.hard
	}
	return tm
}

// NodeLimit is the node budget from "go nodes N", or zero if none was given.
func (tm *TimeManager) NodeLimit() uint64 { return tm.nodeLimit }

// Infinite reports whether this search has no time limit at all (UCI
// "go infinite", or a GUI that never sends clock info); the Coordinator
// only stops such a search on an explicit "stop"/"quit".
func (tm *TimeManager) Infinite() bool { return tm.infinite }

// HardDeadline is the point past which the search must not still be
// running; the Coordinator arms a timer against it regardless of depth.
func (tm *TimeManager) HardDeadline() time.Time { return tm.start.Add(tm.hard) }

// ShouldStartNextDepth reports whether there's enough of the budget left to
// be worth starting another iterative-deepening pass, given how long the
// search has run and, once available, the share of the search's nodes
// that the Coordinator credits to the current best move (each completed
// depth's nodes go to that depth's best move; a stable best move rarely
// changes its mind, so the soft bound can be spent faster for it).
func (tm *TimeManager) ShouldStartNextDepth(elapsed time.Duration, bestMoveNodeFraction float64) bool {
	if tm.infinite || tm.fixed {
		return !tm.fixed || elapsed < tm.hard
	}
	soft := tm.soft
	if bestMoveNodeFraction > 0 {
		// The teacher has no such adjustment; this mirrors CounterGo's
		// timeManager, which shrinks the soft bound when one move is
		// already dominating the root's node count.
		soft = time.Duration(float64(soft) * (1.5 - bestMoveNodeFraction))
		if soft < time.Millisecond {
			soft = time.Millisecond
		}
	}
	return elapsed < soft
}
