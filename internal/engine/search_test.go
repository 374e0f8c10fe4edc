package engine

import (
	"context"
	"testing"
	"time"

	dragon "github.com/Bubblyworld/dragontoothmg"
	"github.com/rs/zerolog"
)

func newTestCoordinator() *Coordinator {
	return NewCoordinator(NewTranspositionTable(1), NewHistoryTables(), DefaultConfig(), zerolog.Nop())
}

func TestIsInsufficientMaterial(t *testing.T) {
	cases := []struct {
		fen  string
		want bool
	}{
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 1", true},              // bare kings
		{"4k3/8/8/8/8/8/8/3NK3 w - - 0 1", true},              // king + knight vs king
		{"4k3/8/8/8/8/8/8/2B1K3 w - - 0 1", true},             // king + bishop vs king
		{"4k3/8/8/8/8/8/8/2BNK3 w - - 0 1", false},            // king + bishop + knight: enough to mate
		{"4k3/8/8/8/8/8/8/3RK3 w - - 0 1", false},             // a rook is always sufficient
		{"4k3/8/8/8/8/8/P7/4K3 w - - 0 1", false},             // a pawn is always sufficient
	}
	for _, c := range cases {
		board := dragon.ParseFen(c.fen)
		if got := isInsufficientMaterial(&board); got != c.want {
			t.Errorf("isInsufficientMaterial(%q) = %v, want %v", c.fen, got, c.want)
		}
	}
}

func TestMateDistancePruningTightensWindow(t *testing.T) {
	thread := &Thread{}
	alpha, beta := thread.mateDistancePruning(2, -Infinite, Infinite)
	if alpha != matedIn(2) {
		t.Errorf("alpha = %d, want %d", alpha, matedIn(2))
	}
	if beta != mateIn(3) {
		t.Errorf("beta = %d, want %d", beta, mateIn(3))
	}
}

func TestSearchFindsMateInOne(t *testing.T) {
	c := newTestCoordinator()
	board := dragon.ParseFen("7k/8/6K1/8/8/8/8/R7 w - - 0 1")
	tm := NewTimeManager(time.Now(), true, GoParams{}, 0)

	result := c.Search(context.Background(), &board, []uint64{board.Hash()}, 4, tm)

	if !isMateScore(result.Score) || result.Score <= 0 {
		t.Fatalf("score = %d, want a positive mate score", result.Score)
	}
	if result.BestMove.String() != "a1a8" {
		t.Errorf("bestmove = %s, want a1a8", result.BestMove.String())
	}
}

func TestSearchStalemateIsADraw(t *testing.T) {
	c := newTestCoordinator()
	// Classic stalemate: black king a8 has no legal move and isn't in check.
	board := dragon.ParseFen("k7/8/1Q6/8/8/8/8/7K b - - 0 1")
	tm := NewTimeManager(time.Now(), false, GoParams{}, 0)

	result := c.Search(context.Background(), &board, []uint64{board.Hash()}, 1, tm)
	if result.Score != Draw {
		t.Errorf("score = %d, want Draw (%d)", result.Score, Draw)
	}
}

func TestSearchRespectsNodeLimit(t *testing.T) {
	c := newTestCoordinator()
	board := dragon.ParseFen(dragon.Startpos)
	tm := NewTimeManager(time.Now(), true, GoParams{NodesLimit: 200}, 0)

	result := c.Search(context.Background(), &board, []uint64{board.Hash()}, MaxPly-1, tm)
	if result.Stats.Nodes > 1000 {
		t.Errorf("searched %d nodes, want roughly the 200-node limit to cut it short", result.Stats.Nodes)
	}
	if result.BestMove == NoMove {
		t.Errorf("expected a legal best move even from a node-limited search")
	}
}

func TestSearchReportsPonderMoveFromSecondPVEntry(t *testing.T) {
	c := newTestCoordinator()
	board := dragon.ParseFen(dragon.Startpos)
	tm := NewTimeManager(time.Now(), true, GoParams{}, 0)

	result := c.Search(context.Background(), &board, []uint64{board.Hash()}, 3, tm)
	if result.Ponder == NoMove {
		t.Errorf("expected a ponder move from a depth-3 search")
	}
	if result.Ponder == result.BestMove {
		t.Errorf("ponder move should be the opponent's reply, not our own best move")
	}
}

func TestSearchDepthIsMonotonicallyAvailable(t *testing.T) {
	c := newTestCoordinator()
	board := dragon.ParseFen(dragon.Startpos)
	tm := NewTimeManager(time.Now(), true, GoParams{}, 0)

	var lastDepth int
	c.InfoFunc = func(line InfoLine) {
		if line.Depth <= lastDepth {
			t.Errorf("depth went from %d to %d, want strictly increasing", lastDepth, line.Depth)
		}
		lastDepth = line.Depth
	}
	result := c.Search(context.Background(), &board, []uint64{board.Hash()}, 3, tm)
	if result.Depth != 3 {
		t.Errorf("final depth = %d, want 3", result.Depth)
	}
	if result.BestMove == NoMove {
		t.Errorf("expected a legal best move from the start position")
	}
}
