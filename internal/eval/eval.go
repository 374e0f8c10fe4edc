package eval

import (
	"math/bits"

	dragon "github.com/Bubblyworld/dragontoothmg"
)

// Score is centipawns, positive favoring White, matching the teacher's
// EvalCp (evaluate.go) except widened to int32 so it composes cleanly with
// the search package's mate-distance arithmetic without its own overflow
// margin.
type Score int32

const (
	pawnValue   Score = 100
	knightValue Score = 320
	bishopValue Score = 330
	rookValue   Score = 500
	queenValue  Score = 900
)

// phaseMax is the total phase weight of a full set of minor/major pieces
// (4 knights/bishops, 4 rooks, 2 queens), used to taper between the
// midgame and endgame piece-square tables. Weights follow the common
// "Fruit" phase scheme the pack's CounterGo-style engines also use:
// knight/bishop=1, rook=2, queen=4.
const (
	knightPhase = 1
	bishopPhase = 1
	rookPhase   = 2
	queenPhase  = 4
	phaseMax    = 4*knightPhase + 4*bishopPhase + 4*rookPhase + 2*queenPhase
)

// Evaluate scores board from White's point of view.
func Evaluate(board *dragon.Board) Score {
	material := materialEval(&board.White) - materialEval(&board.Black)

	phase := gamePhase(board)
	pst := pstEval(&board.White, phase, true) - pstEval(&board.Black, phase, false)

	pawns := pawnStructureEval(board.White.Pawns, board.Black.Pawns)
	king := kingSafetyEval(board, phase)
	mobility := mobilityEval(board)

	return material + pst + pawns + king + mobility
}

// NegaEvaluate scores board from the point of view of the side to move,
// the orientation the search's negamax loop needs.
func NegaEvaluate(board *dragon.Board) Score {
	if board.Wtomove {
		return Evaluate(board)
	}
	return -Evaluate(board)
}

func materialEval(bb *dragon.Bitboards) Score {
	return pawnValue*Score(bits.OnesCount64(bb.Pawns)) +
		knightValue*Score(bits.OnesCount64(bb.Knights)) +
		bishopValue*Score(bits.OnesCount64(bb.Bishops)) +
		rookValue*Score(bits.OnesCount64(bb.Rooks)) +
		queenValue*Score(bits.OnesCount64(bb.Queens))
}

// gamePhase returns a value from 0 (full endgame material) to phaseMax
// (full starting material), used to interpolate the king's piece-square
// table. Unlike the teacher's evaluate.go, which hardcodes NeverInEndgame
// = true and never actually tapers, we compute and use the real ratio:
// the spec calls for king safety that degrades correctly into king
// activity once material is traded off, and the teacher's own comments
// mark that as a known gap ("TODO delta eval doesn't cope with end-game
// aware king eval").
func gamePhase(board *dragon.Board) int {
	phase := 0
	for _, bb := range [...]*dragon.Bitboards{&board.White, &board.Black} {
		phase += bits.OnesCount64(bb.Knights) * knightPhase
		phase += bits.OnesCount64(bb.Bishops) * bishopPhase
		phase += bits.OnesCount64(bb.Rooks) * rookPhase
		phase += bits.OnesCount64(bb.Queens) * queenPhase
	}
	if phase > phaseMax {
		phase = phaseMax
	}
	return phase
}

func pstEval(bb *dragon.Bitboards, phase int, isWhite bool) Score {
	eval := pstSum(bb.Pawns, &pawnPST, isWhite)
	eval += pstSum(bb.Knights, &knightPST, isWhite)
	eval += pstSum(bb.Bishops, &bishopPST, isWhite)
	eval += pstSum(bb.Rooks, &rookPST, isWhite)
	eval += pstSum(bb.Queens, &queenPST, isWhite)

	kingMid := pstSum(bb.Kings, &kingPST, isWhite)
	kingEnd := pstSum(bb.Kings, &kingEndgamePST, isWhite)
	eval += (kingMid*Score(phase) + kingEnd*Score(phaseMax-phase)) / Score(phaseMax)

	return eval
}

// pstSum totals table lookups for every piece in bb, mirroring the square
// first when the pieces are Black's (the tables are defined for White).
func pstSum(bb uint64, table *[64]int16, isWhite bool) Score {
	var eval Score
	for bb != 0 {
		sq := uint8(bits.TrailingZeros64(bb))
		bb &= bb - 1
		if !isWhite {
			sq = mirror(sq)
		}
		eval += Score(table[sq])
	}
	return eval
}
