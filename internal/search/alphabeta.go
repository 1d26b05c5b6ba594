package search

import (
	"github.com/chessbot/revolver/internal/board"
	"github.com/chessbot/revolver/internal/movesel"
)

// alphaBeta is the recursive negamax search: transposition table probe,
// null-move pruning, reverse futility pruning, move-loop futility
// pruning, late-move reductions and principal-variation search, in that
// order. Its PV scratch is st.Helpers[st.Ply], taken from the thread's
// ply-indexed arena rather than allocated per call.
func (st *SearchThread) alphaBeta(alpha, beta Score, depth int, node Node, prevMove board.Move) Score {
	sh := st.currentHelper()
	sh.PV[0] = board.NoMove

	// 1) Quiescence search at the horizon.
	if depth <= 0 {
		return st.quiescence(alpha, beta)
	}

	st.Nodes++

	// 2) Draw detection and time check.
	if (node != RootNode && isDraw(st.Board)) || st.outOfTime() {
		return Draw
	}

	// 3) Transposition table probe.
	isPVNode := node != NonPVNode
	key := st.Board.Hash
	pe, hasEvaluation := st.TT.Probe(key)
	ttMove := board.NoMove
	if hasEvaluation {
		if !isPVNode && int(pe.Depth) >= depth {
			nodeScore := adjustNodeScoreFromTT(Score(pe.NodeScore), st.Ply)
			switch {
			case pe.Bound == BoundExact:
				return nodeScore
			case pe.Bound == BoundLower && nodeScore >= beta:
				return nodeScore
			case pe.Bound == BoundUpper && nodeScore <= alpha:
				return nodeScore
			}
		}
		ttMove = pe.BestMove
	}

	checkers := st.Board.InCheck()
	var staticEvaluation Score
	switch {
	case checkers:
		staticEvaluation = -Infinite
	case hasEvaluation:
		staticEvaluation = Score(pe.StaticEvaluation)
	default:
		staticEvaluation = st.evaluate()
	}

	// 4) Null-move pruning.
	if !isPVNode && !checkers && depth > st.Params.NullMoveMinDepth-1 &&
		staticEvaluation >= beta && st.Board.HasNonPawnMaterial() {
		st.Ply++
		*st.childAccumulator() = *st.currentAccumulator()
		nullUndo := st.Board.MakeNullMove()
		score := -st.alphaBeta(-beta, -beta+1, depth-st.Params.NullMoveReduction, NonPVNode, board.NoMove)
		st.Board.UnmakeNullMove(nullUndo)
		st.Ply--
		if score >= beta {
			return score
		}
	}

	// 5) Reverse futility pruning.
	if !isPVNode && !checkers && staticEvaluation-st.Params.reverseFutilityMargin(depth) >= beta {
		return staticEvaluation
	}

	moves := st.Board.GenerateLegalMoves()
	scores := st.Selector.Score(st.Board, moves, st.Ply, ttMove, prevMove)

	legalMoves := 0
	bestScore := -Infinite
	oldAlpha := alpha
	bestMove := board.NoMove
	child := st.childHelper()

	// 6) Move loop, lazily selecting the best-scoring remaining move.
	for i := 0; i < moves.Len(); i++ {
		movesel.Pick(moves, scores, i)
		move := moves.Get(i)
		legalMoves++

		expectedNonPVNode := !isPVNode || legalMoves > 1

		// 7) Futility pruning of late, quiet, uninteresting moves.
		if expectedNonPVNode && depth < st.Params.FutilityMaxDepth && !checkers &&
			!isInteresting(st.Board, move) &&
			st.Params.reverseFutilityScore(staticEvaluation, depth) <= alpha {
			continue
		}

		// 8) Late move reductions.
		reduction := 1
		if legalMoves > 1 && depth > 1 {
			reduction = st.Params.LateMoveReduction
		}

		captured := st.Board.PieceAt(move.To())
		movingPiece := st.Board.PieceAt(move.From())
		st.Ply++
		*st.childAccumulator() = *st.currentAccumulator()
		undo := st.Board.MakeMove(move)
		st.childAccumulator().UpdateIncremental(st.Board, move, captured, st.Net)

		// 9) Principal variation search: scout with a zero-width window,
		// re-search at full depth and the original window only if the
		// scout beats alpha (or this is the PV node's first move).
		var score Score
		if expectedNonPVNode {
			score = -st.alphaBeta(-alpha-1, -alpha, depth-reduction, NonPVNode, move)
		}
		if isPVNode && (legalMoves == 1 || score > alpha) {
			score = -st.alphaBeta(-beta, -alpha, depth-1, PVNode, move)
		}

		st.Board.UnmakeMove(move, undo)
		st.Ply--

		if score > bestScore {
			if score > alpha {
				if score >= beta {
					if !st.Stop {
						st.TT.Store(key, depth, BoundLower, adjustNodeScoreToTT(score, st.Ply), staticEvaluation, move)
					}
					st.recordCutoff(move, prevMove, captured, movingPiece, depth, st.Ply)
					return score
				}
				updatePV(sh, move, child)
				alpha = score
			}
			bestScore = score
			bestMove = move
		}
	}

	// 10) Checkmate and stalemate detection.
	if legalMoves == 0 {
		if checkers {
			bestScore = -Checkmate + Score(st.Ply)
		} else {
			bestScore = Draw
		}
	}

	if !st.Stop {
		storedScore := bestScore
		if storedScore == -Infinite {
			storedScore = staticEvaluation
		}
		bound := BoundUpper
		if bestScore > oldAlpha {
			bound = BoundExact
		}
		st.TT.Store(key, depth, bound, adjustNodeScoreToTT(storedScore, st.Ply), staticEvaluation, bestMove)
	}

	return bestScore
}

// recordCutoff updates the move-ordering heuristics after a beta cutoff:
// captures strengthen capture history, quiet moves become a killer at
// this ply, strengthen the history and countermove tables.
func (st *SearchThread) recordCutoff(move, prevMove board.Move, captured, movingPiece board.Piece, depth, ply int) {
	if captured != board.NoPiece || move.IsEnPassant() {
		capturedType := captured.Type()
		if move.IsEnPassant() {
			capturedType = board.Pawn
		}
		st.Selector.UpdateCaptureHistory(movingPiece, move.To(), capturedType, depth, true)
		return
	}

	st.Selector.UpdateKillers(move, ply)
	st.Selector.UpdateHistory(move, depth, true)
	st.Selector.UpdateCounterMove(prevMove, move, st.Board)

	if prevMove != board.NoMove {
		prevPiece := st.Board.PieceAt(prevMove.To())
		st.Selector.UpdateCountermoveHistory(prevMove, move, prevPiece, movingPiece, depth, true)
	}
}
