package engine

import (
	dragon "github.com/Bubblyworld/dragontoothmg"
)

// Move is the compact move encoding described by the position/move-generation
// layer. We never define our own encoding; dragontoothmg's 16-bit Move
// already satisfies the from/to/promotion layout the search cares about.
type Move = dragon.Move

// NoMove is the sentinel distinct from every legal move.
const NoMove Move = 0

// isCapture reports whether move is a capture in the context of board,
// i.e. the destination square was occupied before the move was made, or
// the move is an en-passant capture of a pawn that isn't on the
// destination square. We don't need a dedicated move-flag bit for this:
// the board already tells us.
func isCapture(board *dragon.Board, move Move) bool {
	to := move.To()
	if board.PieceAt(uint8(to)) != dragon.Nothing {
		return true
	}
	// En-passant: destination is empty but a pawn moves diagonally onto
	// the en-passant file.
	from := move.From()
	moving := board.PieceAt(uint8(from))
	if moving == dragon.Pawn {
		fromFile, toFile := from%8, to%8
		if fromFile != toFile {
			return true
		}
	}
	return false
}

// isPromotion reports whether move promotes a pawn.
func isPromotion(move Move) bool {
	return move.Promote() != dragon.Nothing
}

// isQuiet is the negation of "noisy" (capture or promotion).
func isQuiet(board *dragon.Board, move Move) bool {
	return !isCapture(board, move) && !isPromotion(move)
}

// movingPiece returns the piece type occupying the from-square, used for
// MVV-LVA ordering and SEE.
func movingPiece(board *dragon.Board, move Move) dragon.Piece {
	return board.PieceAt(uint8(move.From()))
}

// capturedPiece returns the piece type being captured by move, or
// dragon.Nothing if move isn't a capture. For en-passant the captured
// pawn is reported even though it doesn't sit on the destination square.
func capturedPiece(board *dragon.Board, move Move) dragon.Piece {
	to := move.To()
	victim := board.PieceAt(uint8(to))
	if victim != dragon.Nothing {
		return victim
	}
	from := move.From()
	if board.PieceAt(uint8(from)) == dragon.Pawn && from%8 != to%8 {
		return dragon.Pawn
	}
	return dragon.Nothing
}
