package search

import "github.com/chessbot/revolver/internal/board"

// Result is published once per completed iteration of the deepener.
type Result struct {
	Depth int
	Score Score
	PV    []board.Move
}

// Deepen runs iterative deepening with an aspiration window: each depth
// re-uses the previous iteration's score to open a narrow window, and on
// a miss re-searches the same depth with the failing side of the window
// opened to Infinite. It starts the time budget and bumps the TT age on
// entry, and stops when the budget runs out, publishing st.BestMove
// and, if st.Print, the UCI-style progress lines described in the
// report component.
func (st *SearchThread) Deepen() MoveObject {
	st.StartNs = st.Clock.NowNs()
	st.TT.NewSearch()

	alpha, beta := -Infinite, Infinite
	window := st.Params.AspirationWindow

	var lastPV []board.Move

	for depth := 1; depth <= MaxDepth && !st.outOfTime(); {
		score := st.alphaBeta(alpha, beta, depth, RootNode, board.NoMove)

		if score > alpha && score < beta && !st.Stop {
			alpha = score - window
			beta = score + window

			pv := collectPV(st.currentHelper())
			lastPV = pv
			st.BestMove = MoveObject{Move: pv[0], Score: score}

			if st.Print {
				reportIteration(depth, score, pv, st.Nodes, st.StartNs, st.Clock)
			}
			depth++
		} else {
			if score <= alpha {
				alpha = -Infinite
			}
			if score >= beta {
				beta = Infinite
			}
		}
	}

	if st.Print {
		reportBestMove(lastPV)
	}

	return st.BestMove
}

func collectPV(sh *SearchHelper) []board.Move {
	pv := make([]board.Move, 0, 8)
	for _, m := range sh.PV {
		if m == board.NoMove {
			break
		}
		pv = append(pv, m)
	}
	if len(pv) == 0 {
		pv = append(pv, board.NoMove)
	}
	return pv
}
