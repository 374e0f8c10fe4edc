package engine

import (
	"math/bits"

	dragon "github.com/Bubblyworld/dragontoothmg"
)

// seePieceValue gives each piece type the weight SEE uses to total up an
// exchange sequence. These are the conventional centipawn values, not the
// richer tapered values internal/eval computes for positional scoring: SEE
// only needs a consistent ordering of "who wins the trade", and mixing in
// the full evaluation would make exchanges order-dependent on the rest of
// the position.
func seePieceValue(piece dragon.Piece) int {
	switch piece {
	case dragon.Pawn:
		return 100
	case dragon.Knight:
		return 320
	case dragon.Bishop:
		return 330
	case dragon.Rook:
		return 500
	case dragon.Queen:
		return 900
	case dragon.King:
		return 20000
	default:
		return 0
	}
}

// attackersTo returns every piece, of either color, that attacks square to
// given the occupancy occ. occ may differ from the board's actual
// occupancy: SEE removes pieces from it as they're "used up" in the
// exchange, which is what lets a piece behind an attacker (an x-ray) join
// in once the piece in front of it moves away.
func attackersTo(board *dragon.Board, to uint8, occ uint64) uint64 {
	toBit := squareBit(to)

	whitePawns := board.Bbs[dragon.White][dragon.Pawn] & occ
	blackPawns := board.Bbs[dragon.Black][dragon.Pawn] & occ
	pawnAttackers := (bbEast(bbSouth(toBit)) | bbWest(bbSouth(toBit))) & whitePawns
	pawnAttackers |= (bbEast(bbNorth(toBit)) | bbWest(bbNorth(toBit))) & blackPawns

	knights := (board.Bbs[dragon.White][dragon.Knight] | board.Bbs[dragon.Black][dragon.Knight]) & occ
	knightAttackers := dragon.KnightMovesBitboard(to) & knights

	kings := (board.Bbs[dragon.White][dragon.King] | board.Bbs[dragon.Black][dragon.King]) & occ
	kingAttackers := dragon.KingMovesBitboard(to) & kings

	diagonalSliders := (board.Bbs[dragon.White][dragon.Bishop] | board.Bbs[dragon.Black][dragon.Bishop] |
		board.Bbs[dragon.White][dragon.Queen] | board.Bbs[dragon.Black][dragon.Queen]) & occ
	bishopAttackers := dragon.CalculateBishopMoveBitboard(to, occ) & diagonalSliders

	straightSliders := (board.Bbs[dragon.White][dragon.Rook] | board.Bbs[dragon.Black][dragon.Rook] |
		board.Bbs[dragon.White][dragon.Queen] | board.Bbs[dragon.Black][dragon.Queen]) & occ
	rookAttackers := dragon.CalculateRookMoveBitboard(to, occ) & straightSliders

	return pawnAttackers | knightAttackers | kingAttackers | bishopAttackers | rookAttackers
}

// leastValuableAttacker picks the cheapest piece belonging to the given
// color within attackers, returning its square, piece type, and a one-bit
// mask of its square (0 if there's no such attacker).
func leastValuableAttacker(board *dragon.Board, attackers uint64, color dragon.ColorT) (uint8, dragon.Piece, uint64) {
	order := [...]dragon.Piece{dragon.Pawn, dragon.Knight, dragon.Bishop, dragon.Rook, dragon.Queen, dragon.King}
	for _, pt := range order {
		bb := attackers & board.Bbs[color][pt]
		if bb != 0 {
			sq := uint8(bits.TrailingZeros64(bb))
			return sq, pt, squareBit(sq)
		}
	}
	return 0, dragon.Nothing, 0
}

// see runs the standard "swap" static-exchange-evaluation algorithm for a
// capture starting with move, and returns the net material result of both sides trading on
// move.To() with best play, from the mover's point of view. This mirrors
// CounterGo's SeeGE use at capture-ordering and qsearch-pruning call sites;
// dragontoothmg doesn't expose an exchange evaluator of its own, so we work
// directly off its bitboards the way the teacher's eval_positional.go does
// for influence rather than through any move-generation call, since
// re-running move generation for every trial capture in the sequence would
// be far too slow.
func see(board *dragon.Board, move Move) int {
	to := uint8(move.To())
	from := uint8(move.From())

	occ := board.Bbs[dragon.White][dragon.All] | board.Bbs[dragon.Black][dragon.All]

	var side dragon.ColorT
	if board.Wtomove {
		side = dragon.White
	} else {
		side = dragon.Black
	}
	attacker := movingPiece(board, move)
	victim := capturedPiece(board, move)

	// En-passant removes a pawn that isn't on the destination square.
	if attacker == dragon.Pawn && victim == dragon.Pawn && board.PieceAt(to) == dragon.Nothing {
		epCaptureSquare := to - 8
		if side == dragon.Black {
			epCaptureSquare = to + 8
		}
		occ &^= squareBit(epCaptureSquare)
	}

	gain := make([]int, 1, 32)
	gain[0] = seePieceValue(victim)

	occ &^= squareBit(from)
	attackers := attackersTo(board, to, occ)

	onSquareValue := seePieceValue(attacker)
	side = opposite(side)

	for {
		_, pt, bit := leastValuableAttacker(board, attackers&occ, side)
		if bit == 0 {
			break
		}
		gain = append(gain, onSquareValue-gain[len(gain)-1])

		occ &^= bit
		attackers = attackersTo(board, to, occ)
		onSquareValue = seePieceValue(pt)
		side = opposite(side)
	}

	for d := len(gain) - 1; d > 0; d-- {
		gain[d-1] = -max(-gain[d-1], gain[d])
	}
	return gain[0]
}

// seeGE reports whether the net result of the exchange on move is at least
// threshold, from the mover's point of view. The MovePicker and quiescence
// search only ever need this boolean, not the exact value, and computing
// it via see keeps a single implementation of the swap loop.
func seeGE(board *dragon.Board, move Move, threshold int) bool {
	return see(board, move) >= threshold
}

func opposite(c dragon.ColorT) dragon.ColorT {
	if c == dragon.White {
		return dragon.Black
	}
	return dragon.White
}
