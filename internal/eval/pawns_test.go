package eval

import "testing"

// Squares are little-endian rank-major: a1=0 ... h1=7, a2=8 ... h8=63.
func sq(file, rank int) uint64 { return uint64(1) << (rank*8 + file) }

func TestDoubledPawnsPenalized(t *testing.T) {
	doubled := sq(3, 1) | sq(3, 3) // two white pawns on the d-file
	single := sq(3, 1)
	if got := doubledPawnsEval(doubled, 0); got >= doubledPawnsEval(single, 0) {
		t.Errorf("doubled pawns scored %d, want worse than a single pawn's %d", got, doubledPawnsEval(single, 0))
	}
}

func TestConnectedPawnsBonus(t *testing.T) {
	connected := sq(3, 2) | sq(4, 2) // d3 and e3, side by side
	isolated := sq(3, 2)
	if connectedPawnsEval(connected) <= connectedPawnsEval(isolated) {
		t.Errorf("side-by-side pawns should score higher than a lone pawn")
	}
}

func TestPassedPawnIsRewarded(t *testing.T) {
	// A lone white pawn on d6 with no black pawns anywhere is passed.
	passed := passedPawnsEval(sq(3, 5), 0)
	if passed <= 0 {
		t.Errorf("passedPawnsEval = %d, want positive for an unopposed advanced pawn", passed)
	}

	// The same pawn with a black pawn still ahead of it on an adjacent
	// file is not passed.
	blocked := passedPawnsEval(sq(3, 5), sq(4, 6))
	if blocked >= passed {
		t.Errorf("a pawn with an adjacent-file blocker ahead of it should score no better than the truly passed case")
	}
}

func TestPawnIslandsSingleIslandHasNoPenalty(t *testing.T) {
	contiguous := sq(0, 1) | sq(1, 1) | sq(2, 1) | sq(3, 1)
	if got := pawnIslandsEvalForSide(contiguous); got != 0 {
		t.Errorf("one contiguous pawn block should have zero island penalty, got %d", got)
	}
}

func TestPawnIslandsTwoGroupsPenalized(t *testing.T) {
	split := sq(0, 1) | sq(1, 1) | sq(6, 1) | sq(7, 1)
	if got := pawnIslandsEvalForSide(split); got >= 0 {
		t.Errorf("two separated pawn groups should be penalized, got %d", got)
	}
}
