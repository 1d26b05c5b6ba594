package search

import "github.com/chessbot/revolver/internal/board"

// quiescence extends the search past the horizon along tactical lines
// only: when in check it searches every legal evasion, otherwise it
// restricts itself to captures, en passant and pawn promotions (the
// moves of GenerateCaptures), using the static evaluation as a
// stand-pat lower bound. See alphaBeta for the sibling recursive
// negamax that calls into this at depth 0.
func (st *SearchThread) quiescence(alpha, beta Score) Score {
	st.Nodes++

	if isDraw(st.Board) {
		return Draw
	}

	checkers := st.Board.InCheck()
	var bestScore Score
	if checkers {
		bestScore = -Checkmate + Score(st.Ply)
	} else {
		bestScore = st.evaluate()
	}
	if bestScore > alpha {
		if bestScore >= beta {
			return bestScore
		}
		alpha = bestScore
	}

	var moves *board.MoveList
	if checkers {
		moves = st.Board.GenerateLegalMoves()
	} else {
		moves = st.Board.GenerateCaptures()
	}

	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)

		captured := st.Board.PieceAt(move.To())
		st.Ply++
		*st.childAccumulator() = *st.currentAccumulator()
		undo := st.Board.MakeMove(move)
		st.childAccumulator().UpdateIncremental(st.Board, move, captured, st.Net)
		score := -st.quiescence(-beta, -alpha)
		st.Board.UnmakeMove(move, undo)
		st.Ply--

		if score > bestScore {
			if score > alpha {
				if score >= beta {
					return score
				}
				alpha = score
			}
			bestScore = score
		}
	}

	return bestScore
}
