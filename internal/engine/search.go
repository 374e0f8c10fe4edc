package engine

import (
	"math/bits"
	"sync/atomic"

	dragon "github.com/Bubblyworld/dragontoothmg"
	"github.com/rs/zerolog"

	"github.com/t-veor/hardfiskur/internal/eval"
)

// Thread owns everything one search needs across the whole iterative
// deepening run: the board it searches from, the shared TT, its own
// killer/history tables, and the bookkeeping negamax needs to detect
// draws and respect the clock. It is not safe for concurrent use by more
// than one goroutine, matching spec §1's no-lazy-SMP non-goal; the
// Coordinator owns exactly one Thread per search.
//
// Grounded on the teacher's SearchT (negalphabeta.go): we keep its
// node-counting and PV-copy-up conventions (the move loop's result is
// returned fail-hard, via failHard), but replace its
// depth-parity double-TT and disabled LMR probes with the single TT and
// depth/move-index LMR shape CounterGo's search.go uses, per spec §9.
type Thread struct {
	Board   *dragon.Board
	TT      *TranspositionTable
	History *HistoryTables
	Cfg     Config
	Stats   Stats
	Log     zerolog.Logger

	stop *atomic.Bool

	repetition    PositionHistory
	halfmoveClock int
	evalStack     [MaxPly]Score

	nodesAtLastCheck uint64
	timedOut         bool
	nodeLimit        uint64

	rootPly int
}

// NewThread wires a fresh search thread around an already-positioned
// board. Call SeedGameHistory before searching so the fifty-move counter
// and repetition table reflect the game's real move history, not just a
// fresh start position.
func NewThread(board *dragon.Board, tt *TranspositionTable, history *HistoryTables, cfg Config, stop *atomic.Bool, logger zerolog.Logger) *Thread {
	return &Thread{
		Board:      board,
		TT:         tt,
		History:    history,
		Cfg:        cfg,
		Log:        logger,
		stop:       stop,
		repetition: PositionHistory{},
	}
}

// SeedGameHistory primes the repetition table and fifty-move counter from
// the real game's move history before search starts: gameHistory is every
// position's Zobrist key since the last irreversible move, including the
// current (root) one. Without this, a threefold repetition reached purely
// by moves already played before "go" (spec's seed-suite scenario 4) would
// never be detected, since the search's own repetition table only ever sees
// positions it visits itself.
func (t *Thread) SeedGameHistory(gameHistory []uint64) {
	for _, key := range gameHistory {
		t.repetition.Add(key)
	}
	if len(gameHistory) > 0 {
		t.halfmoveClock = len(gameHistory) - 1
	}
}

// SetNodeLimit caps the search at approximately nodeLimit total nodes,
// checked on every node rather than at the clock's polling cadence
// (spec.md §4.6's "go nodes N").
// Zero means unlimited.
func (t *Thread) SetNodeLimit(nodeLimit uint64) {
	t.nodeLimit = nodeLimit
}

// Stopped reports whether the thread bailed out of its last search due to
// the stop flag or a mid-search timeout; the Coordinator uses this to
// decide whether a result is safe to publish.
func (t *Thread) Stopped() bool { return t.timedOut }

func (t *Thread) checkStop() bool {
	if t.nodeLimit > 0 && !t.timedOut && t.Stats.Nodes >= t.nodeLimit {
		// Set the shared stop flag, the same way a clock timeout does, so
		// the iterative-deepening loop doesn't start another depth.
		t.stop.Store(true)
		t.timedOut = true
		t.Log.Debug().Uint64("nodes", t.Stats.Nodes).Msg("search aborted: node limit reached")
		return true
	}
	if t.Stats.Nodes-t.nodesAtLastCheck < t.Cfg.NodeCheckInterval {
		return t.timedOut
	}
	t.nodesAtLastCheck = t.Stats.Nodes
	if t.stop.Load() {
		if !t.timedOut {
			t.Log.Debug().Uint64("nodes", t.Stats.Nodes).Msg("search aborted")
		}
		t.timedOut = true
	}
	return t.timedOut
}

// Search runs a fixed-depth negamax/PVS search from the current board
// position and returns the best score found along with the principal
// variation (pv[0] is the move to play). It never returns an error: a
// search that's asked to stop mid-flight returns a meaningless score, and
// Stopped() reports that so the caller can keep its last fully-completed
// depth instead.
func (t *Thread) Search(depth int, alpha, beta Score, pv []Move) Score {
	t.timedOut = false
	t.rootPly = 0
	return t.negamax(depth, 0, alpha, beta, true, pv)
}

func (t *Thread) negamax(depth, ply int, alpha, beta Score, pvNode bool, pv []Move) Score {
	if t.checkStop() {
		return 0
	}
	t.Stats.Nodes++
	if t.Stats.SelDepth < ply {
		t.Stats.SelDepth = ply
	}

	if ply == 0 {
		// The root never goes through drawScore's two-fold check (that's
		// for positions transposed into mid-search); it needs the actual
		// chess rule instead, since t.repetition was seeded with every
		// real occurrence of the current position prior to this search
		// (spec §4.4.1 "three-fold at the root").
		if t.halfmoveClock >= 100 || t.repetition[t.Board.Hash()] >= 3 {
			return Draw
		}
	}
	if ply > 0 {
		if d, ok := t.drawScore(); ok {
			return d
		}
		alpha, beta = t.mateDistancePruning(ply, alpha, beta)
		if alpha >= beta {
			return alpha
		}
	}

	inCheck := t.Board.OurKingInCheck()
	if depth <= 0 && !inCheck {
		return t.qsearch(alpha, beta, ply)
	}
	if depth < 0 {
		depth = 0
	}

	key := t.Board.Hash()
	origAlpha, origBeta := alpha, beta

	ttMove := NoMove
	if entry, ok := t.TT.ProbeAdjusted(key, ply); ok {
		t.Stats.TTHits++
		ttMove = entry.Move
		if entry.Depth >= depth {
			switch entry.Bound {
			case BoundExact:
				t.Stats.TTCuts++
				return failHard(entry.Score, alpha, beta)
			case BoundLower:
				if entry.Score >= beta {
					t.Stats.TTCuts++
					return failHard(entry.Score, alpha, beta)
				}
			case BoundUpper:
				if entry.Score <= alpha {
					t.Stats.TTCuts++
					return failHard(entry.Score, alpha, beta)
				}
			}
		}
	}

	staticEval := Score(eval.NegaEvaluate(t.Board))
	t.evalStack[ply] = staticEval

	if !pvNode && !inCheck {
		if s, ok := t.reverseFutility(depth, beta, staticEval); ok {
			return s
		}
		if s, ok := t.nullMove(depth, ply, beta, staticEval); ok {
			return s
		}
	}

	if t.Cfg.UseInternalIterativeReduction && ttMove == NoMove && depth >= t.Cfg.IIRMinDepth {
		depth--
	}

	legalMoves, isInCheck := t.Board.GenerateLegalMoves2(false)
	if len(legalMoves) == 0 {
		if isInCheck {
			t.Stats.Mates++
			return matedIn(ply)
		}
		return Draw
	}

	improving := ply >= 2 && staticEval > t.evalStack[ply-2]

	picker := NewMovePicker(t.Board, legalMoves, ttMove, t.History, ply)

	bestScore := -Infinite
	bestMove := NoMove
	var childPV []Move
	if pv != nil {
		childPV = make([]Move, depth)
	}

	quietsTried := make([]Move, 0, len(legalMoves))
	moveIndex := 0

	for {
		move, ok := picker.Next()
		if !ok {
			break
		}

		quiet := isQuiet(t.Board, move)
		isFirst := moveIndex == 0

		if !isFirst && !inCheck && quiet {
			if t.lateMovePrune(depth, len(quietsTried), improving) {
				moveIndex++
				continue
			}
			if t.futilityPrune(depth, staticEval, alpha) {
				moveIndex++
				continue
			}
		}
		if !isFirst && !inCheck && !quiet && t.Cfg.UseSEEPruning && depth <= 6 {
			if !seeGE(t.Board, move, -20*depth) {
				moveIndex++
				continue
			}
		}

		resetsClock := !quiet || movingPiece(t.Board, move) == dragon.Pawn
		prevClock := t.halfmoveClock

		var boardSave dragon.BoardSaveT
		t.Board.MakeMove(move, &boardSave)
		t.repetition.Add(t.Board.Hash())
		if resetsClock {
			t.halfmoveClock = 0
		} else {
			t.halfmoveClock++
		}

		var score Score
		reduced := 0
		if !isFirst && quiet && t.Cfg.UseLMR && depth >= t.Cfg.LMRMinDepth && moveIndex >= t.Cfg.LMRMinMoveIndex {
			reduced = t.lmrReduction(depth, moveIndex, improving)
			if pvNode && reduced > 0 {
				reduced--
			}
		}

		if isFirst {
			score = -t.negamax(depth-1, ply+1, -beta, -alpha, pvNode, childPV)
		} else {
			score = -t.negamax(depth-1-reduced, ply+1, -alpha-1, -alpha, false, nil)
			if score > alpha && reduced > 0 {
				score = -t.negamax(depth-1, ply+1, -alpha-1, -alpha, false, nil)
			}
			if score > alpha && score < beta {
				score = -t.negamax(depth-1, ply+1, -beta, -alpha, pvNode, childPV)
			}
		}

		t.repetition.Remove(t.Board.Hash())
		t.Board.Restore(&boardSave)
		t.halfmoveClock = prevClock

		if quiet {
			quietsTried = append(quietsTried, move)
		}

		if t.timedOut {
			return 0
		}

		moveIndex++

		if score > bestScore {
			bestScore = score
			bestMove = move
			if score > alpha {
				alpha = score
				if pv != nil {
					pv[0] = move
					copy(pv[1:], childPV)
				}
			}
		}

		if alpha >= beta {
			t.Stats.BetaCuts++
			if isFirst {
				t.Stats.FirstChildCuts++
			}
			if quiet {
				t.History.AddKiller(ply, move)
				t.History.UpdateHistory(t.Board.Wtomove, move, quietsTried, depth)
			}
			break
		}
	}

	bound := BoundExact
	if bestScore >= origBeta {
		bound = BoundLower
	} else if bestScore <= origAlpha {
		bound = BoundUpper
	}
	t.TT.StoreAdjusted(key, bestMove, bestScore, staticEval, depth, ply, bound)

	return failHard(bestScore, origAlpha, origBeta)
}

func (t *Thread) drawScore() (Score, bool) {
	if t.halfmoveClock >= 100 {
		return Draw, true
	}
	if t.repetition[t.Board.Hash()] >= 2 {
		t.Stats.PosRepetitions++
		return Draw, true
	}
	if isInsufficientMaterial(t.Board) {
		return Draw, true
	}
	return 0, false
}

// mateDistancePruning tightens alpha/beta to the best/worst score
// reachable given how far from the root we already are, which lets a
// forced mate get recognized without searching past it (standard
// technique; CounterGo's search.go applies the same bound tightening).
func (t *Thread) mateDistancePruning(ply int, alpha, beta Score) (Score, Score) {
	if m := matedIn(ply); alpha < m {
		alpha = m
	}
	if m := mateIn(ply + 1); beta > m {
		beta = m
	}
	return alpha, beta
}

func (t *Thread) reverseFutility(depth int, beta, staticEval Score) (Score, bool) {
	if !t.Cfg.UseReverseFutility || depth > t.Cfg.ReverseFutilityMaxDepth {
		return 0, false
	}
	if isMateScore(beta) {
		return 0, false
	}
	margin := t.Cfg.ReverseFutilityMargin * Score(depth)
	if staticEval-margin >= beta {
		return staticEval - margin, true
	}
	return 0, false
}

func (t *Thread) nullMove(depth, ply int, beta, staticEval Score) (Score, bool) {
	if !t.Cfg.UseNullMove || depth < t.Cfg.NullMoveMinDepth {
		return 0, false
	}
	if isMateScore(beta) || staticEval < beta {
		return 0, false
	}
	nonPawns := bits.OnesCount64((t.Board.White.All &^ t.Board.White.Pawns &^ t.Board.White.Kings) |
		(t.Board.Black.All &^ t.Board.Black.Pawns &^ t.Board.Black.Kings))
	if nonPawns < t.Cfg.NullMoveMinNonPawns {
		return 0, false
	}

	reduction := t.Cfg.NullMoveBaseReduction + depth/t.Cfg.NullMoveDivisor
	unapply := t.Board.ApplyNullMove()
	score := -t.negamax(depth-1-reduction, ply+1, -beta, -beta+1, false, nil)
	unapply()

	if t.timedOut {
		return 0, false
	}
	if score >= beta {
		t.Stats.NullMoveCuts++
		if score > t.Cfg.NullWindowEval {
			score = t.Cfg.NullWindowEval
		}
		return score, true
	}
	return 0, false
}

// lateMovePrune reports whether the depth-indexed quiet-move budget is
// spent: quietIndex is how many quiet moves have already been tried at
// this node, not the overall move count (spec §4.4.1's threshold is on
// quiets tried, and captures searched earlier in the picker's stage order
// must not count against it).
func (t *Thread) lateMovePrune(depth, quietIndex int, improving bool) bool {
	if !t.Cfg.UseLateMovePruning || depth > t.Cfg.LMPMaxDepth {
		return false
	}
	limit := t.Cfg.LMPBaseNotImproving
	if improving {
		limit = t.Cfg.LMPBaseImproving
	}
	return quietIndex >= limit+depth*depth
}

func (t *Thread) futilityPrune(depth int, staticEval, alpha Score) bool {
	if !t.Cfg.UseFutility || depth > t.Cfg.FutilityMaxDepth {
		return false
	}
	if isMateScore(alpha) {
		return false
	}
	margin := t.Cfg.FutilityMargin * Score(depth)
	return staticEval+margin <= alpha
}

func (t *Thread) lmrReduction(depth, moveIndex int, improving bool) int {
	r := 1
	if depth >= 6 && moveIndex >= 4 {
		r = 2
	}
	if !improving {
		r++
	}
	if r > depth-1 {
		r = depth - 1
	}
	if r < 0 {
		r = 0
	}
	return r
}

// isInsufficientMaterial reports the simplest draw-by-material cases: bare
// kings, or king plus a single minor piece each. Anything richer (two
// knights, bishop pairs with opposite colors, etc.) is left to the search
// to evaluate down to ~0 on its own, matching how most engines in this
// weight class scope the rule.
func isInsufficientMaterial(board *dragon.Board) bool {
	if board.White.Pawns != 0 || board.Black.Pawns != 0 {
		return false
	}
	if board.White.Queens != 0 || board.Black.Queens != 0 {
		return false
	}
	if board.White.Rooks != 0 || board.Black.Rooks != 0 {
		return false
	}
	whiteMinors := bits.OnesCount64(board.White.Knights | board.White.Bishops)
	blackMinors := bits.OnesCount64(board.Black.Knights | board.Black.Bishops)
	return whiteMinors <= 1 && blackMinors <= 1
}
