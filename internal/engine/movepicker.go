package engine

import (
	"sort"

	dragon "github.com/Bubblyworld/dragontoothmg"
)

// moveStage names where the MovePicker currently is in its staged walk
// through a node's legal moves.
type moveStage int

const (
	stageHashMove moveStage = iota
	stageWinningCaptures
	stageKillers
	stageQuiets
	stageLosingCaptures
	stageDone
)

// scoredMove pairs a move with the key MovePicker sorts it by within its
// stage (SEE value for captures, history score for quiets).
type scoredMove struct {
	move  Move
	score int32
}

// MovePicker yields a node's legal moves in the staged order described by
// the teacher's prioritiseKillerMove/orderMoves split (hash move, then
// captures, then quiets), with each bucket scored once (SEE for captures,
// history for quiets). NewMovePicker scores every move and fully sorts
// each bucket up front; Next then walks the sorted buckets stage by stage.
// No move is scored or ordered lazily.
type MovePicker struct {
	board   *dragon.Board
	history *HistoryTables
	ply     int

	ttMove Move
	// legalTTMove records whether ttMove actually showed up in this node's
	// legal-move list: a TT entry can carry a move left over from a
	// different position that hashed to the same signature, and a stale
	// move like that must never be handed back as if it were legal here.
	legalTTMove bool
	killers     [killersPerPly]Move
	// legalKiller[i] records whether killers[i] actually showed up in this
	// node's legal-move list: a killer table entry left over from a
	// different position at the same ply must never be handed back as if
	// it were legal here.
	legalKiller [killersPerPly]bool

	stage moveStage

	winningCaptures []scoredMove
	losingCaptures  []scoredMove
	quiets          []scoredMove

	idx int
}

// NewMovePicker buckets legalMoves into captures and quiets and primes the
// hash-move/killer stages. legalMoves is only read: it is neither modified
// nor retained.
func NewMovePicker(board *dragon.Board, legalMoves []Move, ttMove Move, history *HistoryTables, ply int) *MovePicker {
	mp := &MovePicker{
		board:   board,
		history: history,
		ply:     ply,
		ttMove:  ttMove,
		stage:   stageHashMove,
	}
	if history != nil {
		mp.killers = history.Killers(ply)
	}

	for _, m := range legalMoves {
		if m == ttMove {
			mp.legalTTMove = true
			continue
		}
		if isCapture(board, m) {
			seeValue := see(board, m)
			sm := scoredMove{move: m, score: int32(seeValue)}
			if seeValue >= 0 {
				mp.winningCaptures = append(mp.winningCaptures, sm)
			} else {
				mp.losingCaptures = append(mp.losingCaptures, sm)
			}
			continue
		}
		for i, k := range mp.killers {
			if k == m {
				mp.legalKiller[i] = true
			}
		}
		if mp.isPendingKiller(m) {
			continue
		}
		histScore := int32(0)
		if history != nil {
			histScore = history.HistoryScore(board.Wtomove, m)
		}
		mp.quiets = append(mp.quiets, scoredMove{move: m, score: histScore})
	}

	sort.SliceStable(mp.winningCaptures, func(i, j int) bool {
		return mp.winningCaptures[i].score > mp.winningCaptures[j].score
	})
	sort.SliceStable(mp.losingCaptures, func(i, j int) bool {
		return mp.losingCaptures[i].score > mp.losingCaptures[j].score
	})
	sort.SliceStable(mp.quiets, func(i, j int) bool {
		return mp.quiets[i].score > mp.quiets[j].score
	})

	return mp
}

func (mp *MovePicker) isPendingKiller(m Move) bool {
	for _, k := range mp.killers {
		if k == m {
			return true
		}
	}
	return false
}

// Next returns the next move to try, and false once every legal move has
// been returned exactly once.
func (mp *MovePicker) Next() (Move, bool) {
	for {
		switch mp.stage {
		case stageHashMove:
			mp.stage = stageWinningCaptures
			if mp.ttMove != NoMove && mp.legalTTMove {
				return mp.ttMove, true
			}

		case stageWinningCaptures:
			if mp.idx < len(mp.winningCaptures) {
				m := mp.winningCaptures[mp.idx].move
				mp.idx++
				return m, true
			}
			mp.idx = 0
			mp.stage = stageKillers

		case stageKillers:
			for mp.idx < len(mp.killers) {
				k, ok := mp.killers[mp.idx], mp.legalKiller[mp.idx]
				mp.idx++
				if ok && k != NoMove && k != mp.ttMove {
					return k, true
				}
			}
			mp.idx = 0
			mp.stage = stageQuiets

		case stageQuiets:
			if mp.idx < len(mp.quiets) {
				m := mp.quiets[mp.idx].move
				mp.idx++
				return m, true
			}
			mp.idx = 0
			mp.stage = stageLosingCaptures

		case stageLosingCaptures:
			if mp.idx < len(mp.losingCaptures) {
				m := mp.losingCaptures[mp.idx].move
				mp.idx++
				return m, true
			}
			mp.stage = stageDone

		case stageDone:
			return NoMove, false
		}
	}
}
