package engine

import (
	dragon "github.com/Bubblyworld/dragontoothmg"

	"github.com/t-veor/hardfiskur/internal/eval"
)

// qsearch is the capture/check-evasion-only search negamax calls once
// depth runs out, so the horizon doesn't stop mid-exchange. Grounded on
// the teacher's QSearchNegAlphaBeta (negalphabeta_qsearch.go): stand pat
// as the lower bound, then only the moves GenerateLegalMoves2's noisy
// mode returns, sorted by SEE instead of re-deriving MVV-LVA, and with
// SEE used to prune losing captures outright rather than just ordering
// them last.
func (t *Thread) qsearch(alpha, beta Score, ply int) Score {
	if t.checkStop() {
		return 0
	}
	t.Stats.Nodes++
	t.Stats.QNodes++
	if t.Stats.SelDepth < ply {
		t.Stats.SelDepth = ply
	}

	key := t.Board.Hash()
	origAlpha, origBeta := alpha, beta
	if entry, ok := t.TT.ProbeAdjusted(key, ply); ok {
		t.Stats.TTHits++
		switch entry.Bound {
		case BoundExact:
			return failHard(entry.Score, alpha, beta)
		case BoundLower:
			if entry.Score >= beta {
				return failHard(entry.Score, alpha, beta)
			}
		case BoundUpper:
			if entry.Score <= alpha {
				return failHard(entry.Score, alpha, beta)
			}
		}
	}

	standPat := Score(eval.NegaEvaluate(t.Board))

	legalMoves, isInCheck := t.Board.GenerateLegalMoves2(true)
	if len(legalMoves) == 0 {
		if isInCheck {
			// GenerateLegalMoves2's noisy mode still returns every legal
			// evasion when in check (spec §4.4), so an empty result here
			// really is checkmate.
			t.Stats.Mates++
			return matedIn(ply)
		}
		return standPat
	}

	// A side in check has no legal "do nothing" option, so it may not
	// stand pat: every evasion must be searched regardless of how the
	// static eval compares to alpha/beta (spec §4.4.2).
	bestScore := -Infinite
	if !isInCheck {
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
		bestScore = standPat
	}
	picker := NewMovePicker(t.Board, legalMoves, NoMove, nil, ply)

	for {
		move, ok := picker.Next()
		if !ok {
			break
		}

		if !isInCheck && isCapture(t.Board, move) {
			if !seeGE(t.Board, move, 0) {
				continue
			}
		}

		var boardSave dragon.BoardSaveT
		t.Board.MakeMove(move, &boardSave)
		score := -t.qsearch(-beta, -alpha, ply+1)
		t.Board.Restore(&boardSave)

		if t.timedOut {
			return 0
		}

		if score > bestScore {
			bestScore = score
			if score > alpha {
				alpha = score
			}
		}
		if alpha >= beta {
			break
		}
	}

	bound := BoundUpper
	if bestScore >= beta {
		bound = BoundLower
	}
	t.TT.StoreAdjusted(key, NoMove, bestScore, standPat, 0, ply, bound)

	return failHard(bestScore, origAlpha, origBeta)
}
