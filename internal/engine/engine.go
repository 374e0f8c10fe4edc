package engine

import (
	"context"
	"fmt"
	"time"

	dragon "github.com/Bubblyworld/dragontoothmg"
	"github.com/rs/zerolog"
)

// Engine is the long-lived state a UCI session keeps across "position" and
// "go" commands: the board, the shared TT/history tables, and the
// Coordinator that drives searches against them. Grounded on the teacher's
// package-level board/haltchannel globals in mains/uci/main.go, collected
// into one struct instead of loose package state so cmd/hardfiskur can stay
// a thin protocol loop.
type Engine struct {
	Board       *dragon.Board
	TT          *TranspositionTable
	History     *HistoryTables
	Cfg         Config
	Coordinator *Coordinator

	// halfmoveClock is the fifty-move counter for the position currently set
	// up by "position", recomputed on every "position" command by replaying
	// the move list (spec §4.3).
	halfmoveClock int

	// gameHistory holds the Zobrist key of every position since the last
	// irreversible move, including the current one, so the search can
	// detect a threefold repetition that happened entirely via moves
	// already played before "go" (spec §4.4.1's "three-fold at the root"),
	// not just repetitions reached while searching.
	gameHistory []uint64
}

// NewEngine creates a fresh engine at the standard starting position.
func NewEngine(cfg Config, logger zerolog.Logger) *Engine {
	board := dragon.ParseFen(dragon.Startpos)
	tt := NewTranspositionTable(cfg.HashMB)
	history := NewHistoryTables()
	return &Engine{
		Board:       &board,
		TT:          tt,
		History:     history,
		Cfg:         cfg,
		Coordinator: NewCoordinator(tt, history, cfg, logger),
	}
}

// NewGame resets everything that must not leak between games (spec §4.5):
// a fresh board, a cleared TT generation, and cleared history/killers. The
// TT's backing array is kept, matching the teacher's commented-out
// "transtable.Initialize" call, which only ever reset state, not capacity.
func (e *Engine) NewGame() {
	board := dragon.ParseFen(dragon.Startpos)
	e.Board = &board
	e.TT.Clear()
	e.History.Clear()
	e.halfmoveClock = 0
	e.gameHistory = []uint64{e.Board.Hash()}
}

// SetPosition replays a FEN (or the standard start position) followed by a
// list of moves in UCI long-algebraic form, matching each move against the
// legal-move list of the position it is played from. A move that isn't in
// that list is rejected with an error. It builds the new position on a scratch board first and only replaces
// e.Board once every move has parsed, so a bad move list leaves the prior
// position in place (spec §7 "retain prior position").
func (e *Engine) SetPosition(fen string, moves []string) error {
	board := dragon.ParseFen(fen)
	halfmoveClock := 0
	gameHistory := []uint64{board.Hash()}

	for _, moveStr := range moves {
		legalMoves := board.GenerateLegalMoves()
		var next dragon.Move
		found := false
		for _, mv := range legalMoves {
			if mv.String() == moveStr {
				next = mv
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("illegal move %s", moveStr)
		}
		if !isQuiet(&board, next) || movingPiece(&board, next) == dragon.Pawn {
			halfmoveClock = 0
			gameHistory = gameHistory[:0]
		} else {
			halfmoveClock++
		}
		board.Apply(next)
		gameHistory = append(gameHistory, board.Hash())
	}

	e.Board = &board
	e.halfmoveClock = halfmoveClock
	e.gameHistory = gameHistory
	return nil
}

// Go runs a search against the engine's current position using params to
// derive its time budget, and returns the final Result once the search
// settles (bounded by maxDepth, params' clock, or ctx being cancelled).
func (e *Engine) Go(ctx context.Context, params GoParams, maxDepth int, infoFunc func(InfoLine)) Result {
	e.Coordinator.InfoFunc = infoFunc
	tm := NewTimeManager(time.Now(), e.Board.Wtomove, params, e.Cfg.MoveOverheadMs)
	return e.Coordinator.Search(ctx, e.Board, e.gameHistory, maxDepth, tm)
}
