package engine

import (
	"testing"

	dragon "github.com/Bubblyworld/dragontoothmg"
)

func drainPicker(mp *MovePicker) []Move {
	var out []Move
	for {
		m, ok := mp.Next()
		if !ok {
			return out
		}
		out = append(out, m)
	}
}

func TestMovePickerYieldsEachLegalMoveExactlyOnce(t *testing.T) {
	board := dragon.ParseFen(dragon.Startpos)
	legal := board.GenerateLegalMoves()
	mp := NewMovePicker(&board, legal, NoMove, nil, 0)

	got := drainPicker(mp)
	if len(got) != len(legal) {
		t.Fatalf("got %d moves, want %d", len(got), len(legal))
	}
	seen := map[Move]int{}
	for _, m := range got {
		seen[m]++
	}
	for _, m := range legal {
		if seen[m] != 1 {
			t.Errorf("move %s returned %d times, want 1", m.String(), seen[m])
		}
	}
}

func TestMovePickerReturnsHashMoveFirst(t *testing.T) {
	board := dragon.ParseFen(dragon.Startpos)
	legal := board.GenerateLegalMoves()
	hashMove := legal[len(legal)-1]

	mp := NewMovePicker(&board, legal, hashMove, nil, 0)
	first, ok := mp.Next()
	if !ok || first != hashMove {
		t.Errorf("first move = %v, want hash move %v", first, hashMove)
	}
}

func TestMovePickerOrdersWinningCapturesBeforeQuiets(t *testing.T) {
	board := dragon.ParseFen("4k3/8/8/8/3p4/8/8/3R3K w - - 0 1")
	legal := board.GenerateLegalMoves()
	capture := findMove(t, &board, "d1d4")

	mp := NewMovePicker(&board, legal, NoMove, nil, 0)
	got := drainPicker(mp)

	captureIdx, quietIdx := -1, -1
	for i, m := range got {
		if m == capture {
			captureIdx = i
		} else if quietIdx < 0 && isQuiet(&board, m) {
			quietIdx = i
		}
	}
	if captureIdx < 0 {
		t.Fatalf("winning capture never returned")
	}
	if quietIdx >= 0 && captureIdx > quietIdx {
		t.Errorf("winning capture at index %d came after a quiet move at index %d", captureIdx, quietIdx)
	}
}

func TestMovePickerSkipsStaleHashMove(t *testing.T) {
	board := dragon.ParseFen(dragon.Startpos)
	legal := board.GenerateLegalMoves()

	// A TT signature collision can hand back a move from a completely
	// different position; it must never be yielded as if it were legal here.
	otherBoard := dragon.ParseFen("4k3/8/8/8/3p4/8/8/3R3K w - - 0 1")
	staleHashMove := findMove(t, &otherBoard, "d1d4")

	mp := NewMovePicker(&board, legal, staleHashMove, nil, 0)
	got := drainPicker(mp)
	if len(got) != len(legal) {
		t.Fatalf("got %d moves, want %d (stale hash move must not be injected)", len(got), len(legal))
	}
	for _, m := range got {
		if m == staleHashMove {
			t.Errorf("stale hash move %v was yielded despite not being legal here", staleHashMove)
		}
	}
}

func TestMovePickerSkipsStaleKiller(t *testing.T) {
	board := dragon.ParseFen(dragon.Startpos)
	legal := board.GenerateLegalMoves()

	h := NewHistoryTables()
	// Install a killer move that is legal in a completely different
	// position (an illegal move here), to confirm it never gets yielded.
	otherBoard := dragon.ParseFen("4k3/8/8/8/3p4/8/8/3R3K w - - 0 1")
	staleKiller := findMove(t, &otherBoard, "d1d4")
	h.AddKiller(0, staleKiller)

	mp := NewMovePicker(&board, legal, NoMove, h, 0)
	got := drainPicker(mp)
	if len(got) != len(legal) {
		t.Fatalf("got %d moves, want %d (stale killer must not be injected)", len(got), len(legal))
	}
	for _, m := range got {
		if m == staleKiller {
			found := false
			for _, l := range legal {
				if l == staleKiller {
					found = true
				}
			}
			if !found {
				t.Errorf("stale killer %v was yielded despite not being legal here", staleKiller)
			}
		}
	}
}
