package search

import (
	"github.com/chessbot/revolver/internal/board"
	"github.com/chessbot/revolver/internal/evaluation"
	"github.com/chessbot/revolver/internal/movesel"
)

// SearchHelper is the per-ply scratch the recursive search threads
// through the call stack — currently just the principal variation found
// below this node, terminated by board.NoMove.
type SearchHelper struct {
	PV [MaxDepth + 1]board.Move
}

// updatePV records move as the new head of this node's PV, followed by
// the child's PV.
func updatePV(sh *SearchHelper, move board.Move, childPV *SearchHelper) {
	sh.PV[0] = move
	i := 0
	for childPV.PV[i] != board.NoMove {
		sh.PV[i+1] = childPV.PV[i]
		i++
	}
	sh.PV[i+1] = board.NoMove
}

// SearchThread is the complete state carried through one recursive
// search: the board being searched, its transposition table, the
// evaluator, move-ordering heuristics, and the ply-indexed accumulator
// stack that lets each recursive level work from an O(1)-copyable
// evaluation snapshot.
type SearchThread struct {
	Board    *board.Position
	TT       *TranspositionTable
	Net      *evaluation.Network
	Selector *movesel.Selector
	Params   Params
	Clock    Clock

	Accumulators [MaxDepth + 2]evaluation.Accumulator
	Helpers      [MaxDepth + 2]SearchHelper

	StartNs         int64
	MaxSearchTimeNs int64
	Nodes           uint64
	Ply             int

	BestMove MoveObject

	Print bool
	Stop  bool
}

// NewSearchThread builds a thread ready to search pos, with its root
// accumulator computed from scratch.
func NewSearchThread(pos *board.Position, tt *TranspositionTable, net *evaluation.Network, maxSearchTimeNs int64, print bool) *SearchThread {
	st := &SearchThread{
		Board:           pos,
		TT:              tt,
		Net:             net,
		Selector:        movesel.New(),
		Params:          DefaultParams(),
		Clock:           SystemClock{},
		MaxSearchTimeNs: maxSearchTimeNs,
		Print:           print,
	}
	st.Accumulators[0].ComputeFull(pos, net)
	return st
}

// outOfTime polls the clock and sets the sticky Stop flag once the time
// budget is exhausted. Stop, once true, is never cleared by this thread.
func (st *SearchThread) outOfTime() bool {
	if st.Stop {
		return true
	}
	if st.Clock.NowNs()-st.StartNs >= st.MaxSearchTimeNs {
		st.Stop = true
	}
	return st.Stop
}

func (st *SearchThread) currentAccumulator() *evaluation.Accumulator {
	return &st.Accumulators[st.Ply]
}

func (st *SearchThread) childAccumulator() *evaluation.Accumulator {
	return &st.Accumulators[st.Ply+1]
}

func (st *SearchThread) currentHelper() *SearchHelper {
	return &st.Helpers[st.Ply]
}

func (st *SearchThread) childHelper() *SearchHelper {
	return &st.Helpers[st.Ply+1]
}

func (st *SearchThread) evaluate() Score {
	acc := st.currentAccumulator()
	if !acc.Computed {
		acc.ComputeFull(st.Board, st.Net)
	}
	return Score(st.Net.Evaluate(acc, st.Board.SideToMove))
}
