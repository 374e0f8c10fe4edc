package engine

import (
	"testing"

	dragon "github.com/Bubblyworld/dragontoothmg"
)

func legalMovesForTest(t *testing.T, fen string) []Move {
	t.Helper()
	board := dragon.ParseFen(fen)
	moves := board.GenerateLegalMoves()
	if len(moves) < 2 {
		t.Fatalf("fixture position %q has too few legal moves for this test", fen)
	}
	return moves
}

func TestKillerInstallAndShift(t *testing.T) {
	moves := legalMovesForTest(t, dragon.Startpos)
	h := NewHistoryTables()

	h.AddKiller(3, moves[0])
	if !h.IsKiller(3, moves[0]) {
		t.Errorf("expected moves[0] to be a killer at ply 3")
	}
	if h.IsKiller(4, moves[0]) {
		t.Errorf("killer at ply 3 must not leak into ply 4")
	}

	h.AddKiller(3, moves[1])
	killers := h.Killers(3)
	if killers[0] != moves[1] || killers[1] != moves[0] {
		t.Errorf("AddKiller should shift the previous killer down: got %v", killers)
	}
}

func TestAddKillerIgnoresNoMoveAndDuplicate(t *testing.T) {
	moves := legalMovesForTest(t, dragon.Startpos)
	h := NewHistoryTables()

	h.AddKiller(0, NoMove)
	if h.IsKiller(0, NoMove) {
		t.Errorf("NoMove must never register as a killer")
	}

	h.AddKiller(0, moves[0])
	h.AddKiller(0, moves[0])
	killers := h.Killers(0)
	if killers[0] != moves[0] || killers[1] != NoMove {
		t.Errorf("re-adding the existing top killer should be a no-op, got %v", killers)
	}
}

func TestUpdateHistoryRewardsCutAndPenalizesOthers(t *testing.T) {
	moves := legalMovesForTest(t, dragon.Startpos)
	h := NewHistoryTables()

	tried := moves[:3]
	h.UpdateHistory(true, tried[0], tried, 5)

	cutScore := h.HistoryScore(true, tried[0])
	if cutScore <= 0 {
		t.Errorf("cutting move's history score = %d, want positive", cutScore)
	}
	for _, m := range tried[1:] {
		if s := h.HistoryScore(true, m); s >= 0 {
			t.Errorf("non-cutting tried move's history score = %d, want negative", s)
		}
	}
}

func TestHistorySaturates(t *testing.T) {
	moves := legalMovesForTest(t, dragon.Startpos)
	h := NewHistoryTables()
	for i := 0; i < 1000; i++ {
		h.UpdateHistory(true, moves[0], moves[:1], 127)
	}
	if s := h.HistoryScore(true, moves[0]); s != historyMax {
		t.Errorf("HistoryScore after many large bonuses = %d, want clamp at %d", s, historyMax)
	}
}

func TestHistoryClear(t *testing.T) {
	moves := legalMovesForTest(t, dragon.Startpos)
	h := NewHistoryTables()
	h.AddKiller(0, moves[0])
	h.UpdateHistory(true, moves[0], moves[:1], 4)
	h.Clear()
	if h.IsKiller(0, moves[0]) {
		t.Errorf("killer survived Clear")
	}
	if s := h.HistoryScore(true, moves[0]); s != 0 {
		t.Errorf("history score survived Clear: %d", s)
	}
}
