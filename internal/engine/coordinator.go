package engine

import (
	"context"
	"sync/atomic"
	"time"

	dragon "github.com/Bubblyworld/dragontoothmg"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// InfoLine is one "info depth ... score cp ... pv ..." report, emitted once
// per completed iterative-deepening depth. The shape mirrors the teacher's
// single fmt.Println("info depth", ...) call in uciSearch, split into a
// struct so cmd/hardfiskur can format it however UCI wants without the
// Coordinator knowing about stdout.
type InfoLine struct {
	Depth    int
	SelDepth int
	ScoreCp  Score
	Mate     int // UCI "mate N" in full moves (negative when being mated) if ScoreCp is a mate score, else 0
	Nodes    uint64
	Nps      uint64
	TimeMs   int64
	HashFull int
	PV       []Move
}

// Result is what a search settles on: the move to actually play plus the
// expected reply, score and stats of the final completed depth, for
// logging/bench.
type Result struct {
	BestMove Move
	// Ponder is the move we expect the opponent to reply with, taken from
	// the second entry of the final depth's principal variation (spec.md
	// §6 allows reporting it; NoMove if the PV didn't run that deep).
	Ponder Move
	Score  Score
	Stats  Stats
	Depth  int
}

// Coordinator drives one Thread through iterative deepening with aspiration
// windows and reports progress via InfoFunc, replacing the teacher's
// fixed-depth uciSearch (mains/uci/main.go) with the iterative-deepening +
// aspiration-window shape CounterGo's search.go uses, joined against a
// hard-deadline timer with errgroup rather than the teacher's halt channel
// plus "TODO do this properly" sleep-based timeout.
type Coordinator struct {
	TT      *TranspositionTable
	History *HistoryTables
	Cfg     Config
	Log     zerolog.Logger

	InfoFunc func(InfoLine)
}

// NewCoordinator wires a Coordinator around a shared TT/history and config.
// Both tables persist across searches within a game, per spec §4.5 (only
// "ucinewgame" and the "Clear Hash" option clear them); a Coordinator is cheap to keep around for the
// life of a UCI session.
func NewCoordinator(tt *TranspositionTable, history *HistoryTables, cfg Config, logger zerolog.Logger) *Coordinator {
	return &Coordinator{TT: tt, History: history, Cfg: cfg, Log: logger}
}

// Search runs iterative deepening from board's current position until
// maxDepth, the time manager's hard deadline, or ctx is cancelled, whichever
// comes first. gameHistory is the Zobrist key of every position since the
// last irreversible move, including the current one (spec §4.3's draw rule
// needs this to be correct from the first node, not just after fifty plies
// of the search itself, and to catch a threefold repetition that already
// happened before "go" was sent).
func (c *Coordinator) Search(ctx context.Context, board *dragon.Board, gameHistory []uint64, maxDepth int, tm *TimeManager) Result {
	stop := &atomic.Bool{}
	thread := NewThread(board, c.TT, c.History, c.Cfg, stop, c.Log)
	thread.SeedGameHistory(gameHistory)
	thread.SetNodeLimit(tm.NodeLimit())

	g, gctx := errgroup.WithContext(ctx)
	searchDone := make(chan struct{})
	stopOnCancel := context.AfterFunc(ctx, func() { stop.Store(true) })
	defer stopOnCancel()

	if !tm.Infinite() {
		deadline := tm.HardDeadline()
		g.Go(func() error {
			timer := time.NewTimer(time.Until(deadline))
			defer timer.Stop()
			select {
			case <-timer.C:
				stop.Store(true)
			case <-searchDone:
			case <-gctx.Done():
			}
			return nil
		})
	}

	var result Result
	start := time.Now()
	rootNodesByMove := map[Move]uint64{}

	g.Go(func() error {
		defer close(searchDone) // tell the timer goroutine to give up once we're done

		pv := make([]Move, MaxPly)
		var lastScore Score
		var lastNodes uint64

		for depth := 1; depth <= maxDepth; depth++ {
			if stop.Load() {
				break
			}

			score := c.searchDepth(thread, depth, lastScore, pv)
			if thread.Stopped() && depth > 1 {
				// Partial depth: keep the previous depth's result, since a
				// timed-out search's PV/score can't be trusted (spec §4.6).
				break
			}

			lastScore = score
			elapsed := time.Since(start)

			line := InfoLine{
				Depth:    depth,
				SelDepth: thread.Stats.SelDepth,
				ScoreCp:  score,
				Nodes:    thread.Stats.Nodes,
				TimeMs:   elapsed.Milliseconds(),
				HashFull: c.TT.HashFull(),
				PV:       pvCopy(pv),
			}
			if isMateScore(score) {
				line.Mate = matePlies(score)
			}
			if elapsed > 0 {
				line.Nps = uint64(float64(thread.Stats.Nodes) / elapsed.Seconds())
			}
			if c.InfoFunc != nil {
				c.InfoFunc(line)
			}

			ponder := NoMove
			if pv[1] != NoMove {
				ponder = pv[1]
			}
			result = Result{
				BestMove: pv[0],
				Ponder:   ponder,
				Score:    score,
				Stats:    thread.Stats,
				Depth:    depth,
			}

			newNodes := thread.Stats.Nodes - lastNodes
			lastNodes = thread.Stats.Nodes
			rootNodesByMove[pv[0]] += newNodes

			if tm.Infinite() {
				continue
			}
			fraction := 0.0
			if thread.Stats.Nodes > 0 {
				fraction = float64(rootNodesByMove[pv[0]]) / float64(thread.Stats.Nodes)
			}
			if !tm.ShouldStartNextDepth(time.Since(start), fraction) {
				break
			}
		}
		return nil
	})

	_ = g.Wait()
	return result
}

// searchDepth runs one iterative-deepening depth with an aspiration window
// around the previous depth's score, widening and re-searching on failure,
// per spec §4.6 and grounded on CounterGo's search.go aspiration loop. Below
// AspirationMinDepth it just searches the full window, matching the
// teacher's search, which has no aspiration windows at all.
func (c *Coordinator) searchDepth(t *Thread, depth int, prevScore Score, pv []Move) Score {
	if depth < c.Cfg.AspirationMinDepth {
		return t.Search(depth, -Infinite, Infinite, pv)
	}

	delta := c.Cfg.AspirationInitialDelta
	alpha := widenLow(prevScore - delta)
	beta := widenHigh(prevScore + delta)

	for {
		score := t.Search(depth, alpha, beta, pv)
		if t.Stopped() {
			return score
		}
		if score <= alpha {
			beta = (alpha + beta) / 2
			alpha = widenLow(score - delta)
		} else if score >= beta {
			beta = widenHigh(score + delta)
		} else {
			return score
		}
		delta += delta / 2
		if delta >= Infinite {
			alpha, beta = -Infinite, Infinite
		}
	}
}

func widenLow(s Score) Score {
	if s < -Infinite {
		return -Infinite
	}
	return s
}

func widenHigh(s Score) Score {
	if s > Infinite {
		return Infinite
	}
	return s
}

func pvCopy(pv []Move) []Move {
	out := make([]Move, 0, len(pv))
	for _, m := range pv {
		if m == NoMove {
			break
		}
		out = append(out, m)
	}
	return out
}

// matePlies turns a mate score into the UCI "mate N" value, counted in full
// moves (positive when we're mating, negative when we're getting mated).
func matePlies(score Score) int {
	if score > 0 {
		return int(Mate-score+1) / 2
	}
	return -int(Mate+score+1) / 2
}
