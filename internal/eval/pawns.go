package eval

import "math/bits"

// Pawn-structure terms adapted from the teacher's eval_pawns.go, converted
// from its float-pawns-then-scale style to direct centipawn integers (the
// teacher accumulates in pawns-as-float64 and multiplies by 100 at the
// edge; doing the multiply up front avoids float drift between moves that
// only differ by a pawn-structure term, which matters for transposition
// table score comparisons).

var pawnRankBonus = [8]Score{0, -15, -7, 4, 11, 29, 40, 0}
var passedPawnRankBonus = [8]Score{0, 13, 20, 28, 37, 45, 0, 0}

const doubledPawnPenalty Score = -13
const pawnIslandPenalty Score = -7
const isolatedPawnPenalty Score = -9
const connectedPawnBonus Score = 15
const ewConnectedPawnBonus Score = 9

func pawnStructureEval(whitePawns, blackPawns uint64) Score {
	eval := rankBonusEval(whitePawns, blackPawns, &pawnRankBonus)
	eval += passedPawnsEval(whitePawns, blackPawns)
	eval += doubledPawnsEval(whitePawns, blackPawns)
	eval += pawnIslandsEval(whitePawns, blackPawns)
	eval += connectedPawnsEval(whitePawns) - connectedPawnsEval(blackPawns)
	return eval
}

func rankBonusEval(whitePawns, blackPawns uint64, table *[8]Score) Score {
	var eval Score
	for bb := whitePawns; bb != 0; bb &= bb - 1 {
		sq := uint8(bits.TrailingZeros64(bb))
		eval += table[sq/8]
	}
	for bb := blackPawns; bb != 0; bb &= bb - 1 {
		sq := uint8(bits.TrailingZeros64(bb))
		eval -= table[7-sq/8]
	}
	return eval
}

func pawnScopeNorth(pawns uint64) uint64 {
	n := bbNorth(pawns)
	fill := n | bbWest(n) | bbEast(n)
	return fillNorth(fill)
}

func pawnScopeSouth(pawns uint64) uint64 {
	s := bbSouth(pawns)
	fill := s | bbWest(s) | bbEast(s)
	return fillSouth(fill)
}

func passedPawnsEval(whitePawns, blackPawns uint64) Score {
	whitePassed := whitePawns &^ pawnScopeSouth(blackPawns)
	blackPassed := blackPawns &^ pawnScopeNorth(whitePawns)
	return rankBonusEval(whitePassed, blackPassed, &passedPawnRankBonus)
}

func doubledPawnsEval(whitePawns, blackPawns uint64) Score {
	whiteDoubled := fillNorth(bbNorth(whitePawns)) & whitePawns
	blackDoubled := fillSouth(bbSouth(blackPawns)) & blackPawns
	return Score(bits.OnesCount64(whiteDoubled)-bits.OnesCount64(blackDoubled)) * doubledPawnPenalty
}

func pawnIslandsEval(whitePawns, blackPawns uint64) Score {
	return pawnIslandsEvalForSide(whitePawns) - pawnIslandsEvalForSide(blackPawns)
}

func pawnIslandsEvalForSide(pawns uint64) Score {
	files := fileOccupancy(pawns)
	islands, isolated := countIslandsAndIsolated(files)
	if islands > 0 {
		islands--
	}
	return Score(islands)*pawnIslandPenalty + Score(isolated)*isolatedPawnPenalty
}

func fileOccupancy(pawns uint64) uint8 {
	for shift := uint(32); shift >= 8; shift /= 2 {
		pawns |= pawns >> shift
	}
	return uint8(pawns)
}

func countIslandsAndIsolated(files uint8) (islands, isolated int) {
	run := 0
	for i := 0; i < 8; i++ {
		if files&(1<<i) == 0 {
			if run > 0 {
				islands++
				if run == 1 {
					isolated++
				}
				run = 0
			}
		} else {
			run++
		}
	}
	if run > 0 {
		islands++
		if run == 1 {
			isolated++
		}
	}
	return
}

func connectedPawnsEval(pawns uint64) Score {
	ew := bbEast(pawns) | bbWest(pawns)
	all := bbSouth(ew) | ew | bbNorth(ew)
	connected := all & pawns
	ewConnected := ew & pawns
	return Score(bits.OnesCount64(connected))*connectedPawnBonus +
		Score(bits.OnesCount64(ewConnected))*ewConnectedPawnBonus
}
