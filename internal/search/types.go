// Package search implements the negamax alpha-beta search core: a
// transposition-table-backed, null-move- and futility-pruning, PVS
// negamax search with a quiescence extension, driven by an
// iterative-deepening loop with aspiration windows.
package search

import "github.com/chessbot/revolver/internal/board"

// Score is a signed centipawn evaluation, symmetric around 0.
type Score int32

// Score constants. Mate scores are ply-relative: CHECKMATE-p means mate
// delivered at ply p from the search root.
const (
	Infinite           Score = 32000
	Checkmate          Score = 31000
	GuaranteeCheckmate Score = Checkmate - MaxDepth
	Draw               Score = 0
)

// MaxDepth bounds recursion depth and the ply-indexed scratch arrays.
const MaxDepth = 255

// Node identifies the kind of node being searched.
type Node uint8

const (
	RootNode Node = iota
	PVNode
	NonPVNode
)

// Bound describes what a stored score implies about the true value.
type Bound uint8

const (
	BoundExact Bound = iota
	BoundLower       // fail-high: true score >= nodeScore
	BoundUpper       // fail-low: true score <= nodeScore
)

// MoveObject pairs a move with its search score, as produced by the
// root search and consumed by the training driver.
type MoveObject struct {
	Move  board.Move
	Score Score
}

// isInteresting reports whether a move is tactically significant enough
// to survive futility pruning's quiet-move filter: a capture, en
// passant, or a queen promotion.
func isInteresting(pos *board.Position, m board.Move) bool {
	return m.IsCapture(pos) || m.IsEnPassant() || (m.IsPromotion() && m.Promotion() == board.Queen)
}

// isDraw reports a draw by the 50-move rule or insufficient material.
// Stalemate is detected separately, via the "no legal moves" branch at
// the bottom of the move loop — board.Position.IsDraw folds stalemate
// in, which would short-circuit the loop before it can tell stalemate
// apart from checkmate, so it is deliberately not used here.
func isDraw(pos *board.Position) bool {
	return pos.HalfMoveClock >= 100 || pos.IsInsufficientMaterial()
}

// IsDraw reports a draw by the 50-move rule or insufficient material,
// excluding stalemate. Exported for callers outside this package (the
// training driver) that need the same end-of-game test the search core
// uses internally.
func IsDraw(pos *board.Position) bool {
	return isDraw(pos)
}
