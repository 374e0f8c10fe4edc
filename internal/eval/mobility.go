package eval

import (
	"math/bits"

	dragon "github.com/Bubblyworld/dragontoothmg"
)

// Mobility counts squares each side's knights, bishops and rooks attack
// (queens are not counted), using the same
// per-piece-type bitboard queries the teacher's position_eval.go builds
// "influence" from (dragon.CalculateBishopMoveBitboard/CalculateRookMoveBitboard/
// KnightMovesBitboard against the shared occupancy), reduced here to a
// single mobility score rather than the teacher's full per-square
// influence table, since search-time eval has no use for per-square
// breakdowns.
const mobilityWeight Score = 4

func mobilityEval(board *dragon.Board) Score {
	occ := board.White.All | board.Black.All

	white := pieceMobility(board.White.Knights, dragon.KnightMovesBitboard) +
		pieceMobility(board.White.Bishops, func(pos uint8) uint64 { return dragon.CalculateBishopMoveBitboard(pos, occ) }) +
		pieceMobility(board.White.Rooks, func(pos uint8) uint64 { return dragon.CalculateRookMoveBitboard(pos, occ) })

	black := pieceMobility(board.Black.Knights, dragon.KnightMovesBitboard) +
		pieceMobility(board.Black.Bishops, func(pos uint8) uint64 { return dragon.CalculateBishopMoveBitboard(pos, occ) }) +
		pieceMobility(board.Black.Rooks, func(pos uint8) uint64 { return dragon.CalculateRookMoveBitboard(pos, occ) })

	return (white - black) * mobilityWeight
}

func pieceMobility(pieces uint64, attacksFrom func(uint8) uint64) Score {
	var total Score
	for bb := pieces; bb != 0; bb &= bb - 1 {
		sq := uint8(bits.TrailingZeros64(bb))
		total += Score(bits.OnesCount64(attacksFrom(sq)))
	}
	return total
}
