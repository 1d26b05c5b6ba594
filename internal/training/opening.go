package training

import (
	"math/rand"

	"github.com/chessbot/revolver/internal/board"
	"github.com/chessbot/revolver/internal/book"
	"github.com/chessbot/revolver/internal/evaluation"
)

// minRandomPlies/maxRandomPlies bound the random opening: 5 to 10 plies,
// matching the reference training driver.
const (
	minRandomPlies = 5
	maxRandomPlies = 10
)

// playRandomOpening advances pos by 5-10 random plies, uniformly sampling
// from the legal moves at each ply, updating the accumulator in place
// with UpdateIncremental. When ob is non-nil, each ply first tries a weighted book move
// before falling back to uniform sampling, for more varied and less
// degenerate openings (see SPEC_FULL.md's opening-source supplement).
func playRandomOpening(pos *board.Position, acc *evaluation.Accumulator, net *evaluation.Network, rng *rand.Rand, ob *book.Book) {
	plies := minRandomPlies + rng.Intn(maxRandomPlies-minRandomPlies+1)

	for i := 0; i < plies; i++ {
		var move board.Move
		if ob != nil {
			if m, ok := ob.Probe(pos); ok {
				move = m
			}
		}
		if move == board.NoMove {
			moves := pos.GenerateLegalMoves()
			if moves.Len() == 0 {
				return
			}
			move = moves.Get(rng.Intn(moves.Len()))
		}

		captured := pos.PieceAt(move.To())
		pos.MakeMove(move)
		acc.UpdateIncremental(pos, move, captured, net)

		if pos.GameOver() {
			return
		}
	}
}
