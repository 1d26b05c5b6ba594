package evaluation

import "github.com/chessbot/revolver/internal/board"

// Accumulator is the evaluator's opaque per-position snapshot: hidden
// layer values for both perspectives. It is a plain value type so the
// search's ply-indexed accumulator array can copy one ply's state into
// the next with a struct assignment.
type Accumulator struct {
	White [L1Size]int16
	Black [L1Size]int16

	Computed bool
}

// ComputeFull recomputes the accumulator from scratch for pos.
func (acc *Accumulator) ComputeFull(pos *board.Position, net *Network) {
	whiteFeatures, blackFeatures := GetActiveFeatures(pos)

	copy(acc.White[:], net.L1Bias[:])
	copy(acc.Black[:], net.L1Bias[:])

	for _, idx := range whiteFeatures {
		if idx >= 0 && idx < HalfKPSize {
			for i := 0; i < L1Size; i++ {
				acc.White[i] += net.L1Weights[idx][i]
			}
		}
	}
	for _, idx := range blackFeatures {
		if idx >= 0 && idx < HalfKPSize {
			for i := 0; i < L1Size; i++ {
				acc.Black[i] += net.L1Weights[idx][i]
			}
		}
	}

	acc.Computed = true
}

// UpdateIncremental updates acc for a move already made on pos, in
// O(changed pieces) instead of recomputing from scratch. Call after
// MakeMove, with acc holding the pre-move state copied forward from the
// parent ply.
func (acc *Accumulator) UpdateIncremental(pos *board.Position, m board.Move, captured board.Piece, net *Network) {
	if !acc.Computed {
		acc.ComputeFull(pos, net)
		return
	}

	movedPiece := pos.PieceAt(m.To())
	if movedPiece == board.NoPiece {
		acc.Computed = false
		return
	}

	if movedPiece.Type() == board.King {
		acc.ComputeFull(pos, net)
		return
	}

	whiteAdd, whiteRem, blackAdd, blackRem := GetChangedFeatures(pos, m, captured)

	for _, idx := range whiteRem {
		if idx >= 0 && idx < HalfKPSize {
			for i := 0; i < L1Size; i++ {
				acc.White[i] -= net.L1Weights[idx][i]
			}
		}
	}
	for _, idx := range blackRem {
		if idx >= 0 && idx < HalfKPSize {
			for i := 0; i < L1Size; i++ {
				acc.Black[i] -= net.L1Weights[idx][i]
			}
		}
	}
	for _, idx := range whiteAdd {
		if idx >= 0 && idx < HalfKPSize {
			for i := 0; i < L1Size; i++ {
				acc.White[i] += net.L1Weights[idx][i]
			}
		}
	}
	for _, idx := range blackAdd {
		if idx >= 0 && idx < HalfKPSize {
			for i := 0; i < L1Size; i++ {
				acc.Black[i] += net.L1Weights[idx][i]
			}
		}
	}
}
