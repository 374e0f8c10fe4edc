package eval

import (
	"math/bits"

	dragon "github.com/Bubblyworld/dragontoothmg"
)

// King-safety terms adapted from the teacher's evaluate.go kingProtectionVal:
// a flat bonus per piece and per pawn sitting in the king's own corner,
// vanishing once the king's own rank/file is too central to have a
// "corner" at all, and fading out entirely in the endgame where king
// activity matters more than shelter.

type kingZone uint8

const (
	zoneNone kingZone = iota
	zoneQueenside
	zoneKingside
)

var whiteKingZone = buildKingZones(true)
var blackKingZone = buildKingZones(false)

func buildKingZones(white bool) [64]kingZone {
	var zones [64]kingZone
	backRank := uint8(0)
	if !white {
		backRank = 7
	}
	for file := uint8(0); file < 8; file++ {
		sq := backRank*8 + file
		switch {
		case file <= 2:
			zones[sq] = zoneQueenside
		case file >= 5:
			zones[sq] = zoneKingside
		}
	}
	return zones
}

var whiteShelterBB [3]uint64
var blackShelterBB [3]uint64

func init() {
	whiteShelterBB[zoneQueenside] = rankFileBox(1, 2, 0, 2)
	whiteShelterBB[zoneKingside] = rankFileBox(1, 2, 5, 7)
	blackShelterBB[zoneQueenside] = rankFileBox(5, 6, 0, 2)
	blackShelterBB[zoneKingside] = rankFileBox(5, 6, 5, 7)
}

func rankFileBox(rankLo, rankHi, fileLo, fileHi uint8) uint64 {
	var bb uint64
	for r := rankLo; r <= rankHi; r++ {
		for f := fileLo; f <= fileHi; f++ {
			bb |= uint64(1) << (r*8 + f)
		}
	}
	return bb
}

const kingProtectorBonus Score = 8
const kingPawnProtectorBonus Score = 11

func kingSafetyEval(board *dragon.Board, phase int) Score {
	if phase == 0 {
		return 0
	}
	white := kingSafetyForSide(&board.White, whiteKingZone, whiteShelterBB)
	black := kingSafetyForSide(&board.Black, blackKingZone, blackShelterBB)
	return (white - black) * Score(phase) / Score(phaseMax)
}

func kingSafetyForSide(bb *dragon.Bitboards, zones [64]kingZone, shelter [3]uint64) Score {
	kingSq := uint8(bits.TrailingZeros64(bb.Kings))
	zone := zones[kingSq]
	shelterBB := shelter[zone]

	nonPawnProtectors := bb.All &^ bb.Kings &^ bb.Pawns
	protectors := nonPawnProtectors & shelterBB
	pawnProtectors := bb.Pawns & shelterBB

	return Score(bits.OnesCount64(protectors))*kingProtectorBonus +
		Score(bits.OnesCount64(pawnProtectors))*kingPawnProtectorBonus
}
