package movesel

import (
	"testing"

	"github.com/chessbot/revolver/internal/board"
)

func TestScorePrefersTTMove(t *testing.T) {
	pos := board.NewPosition()
	moves := pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		t.Fatal("starting position has no legal moves")
	}

	sel := New()
	tt := moves.Get(moves.Len() - 1)
	scores := sel.Score(pos, moves, 0, tt, board.NoMove)

	for i := 0; i < moves.Len(); i++ {
		if moves.Get(i) == tt {
			continue
		}
		if scores[i] >= TTMoveScore {
			t.Errorf("non-TT move %s scored %d, expected below TTMoveScore", moves.Get(i), scores[i])
		}
	}
}

func TestUpdateKillersShiftsSlots(t *testing.T) {
	sel := New()
	pos := board.NewPosition()
	moves := pos.GenerateLegalMoves()
	m1, m2 := moves.Get(0), moves.Get(1)

	sel.UpdateKillers(m1, 3)
	sel.UpdateKillers(m2, 3)

	if sel.killers[3][0] != m2 || sel.killers[3][1] != m1 {
		t.Fatalf("killer slots after two updates = %v, %v", sel.killers[3][0], sel.killers[3][1])
	}

	// Re-inserting the current first killer must be a no-op.
	sel.UpdateKillers(m2, 3)
	if sel.killers[3][0] != m2 || sel.killers[3][1] != m1 {
		t.Fatalf("re-inserting first killer mutated slots: %v, %v", sel.killers[3][0], sel.killers[3][1])
	}
}

func TestHistorySaturates(t *testing.T) {
	sel := New()
	pos := board.NewPosition()
	m := pos.GenerateLegalMoves().Get(0)

	for i := 0; i < 1100; i++ {
		sel.UpdateHistory(m, 20, false)
	}

	if sel.HistoryScore(m) < -400000 {
		t.Fatalf("history score %d exceeded saturation floor", sel.HistoryScore(m))
	}
}

func TestClearHalvesHistoryAndDropsKillers(t *testing.T) {
	sel := New()
	pos := board.NewPosition()
	m := pos.GenerateLegalMoves().Get(0)

	sel.UpdateHistory(m, 10, true)
	before := sel.HistoryScore(m)
	sel.UpdateKillers(m, 0)

	sel.Clear()

	if sel.HistoryScore(m) != before/2 {
		t.Fatalf("history score after Clear = %d, want %d", sel.HistoryScore(m), before/2)
	}
	if sel.killers[0][0] != board.NoMove {
		t.Fatalf("killer at ply 0 survived Clear: %v", sel.killers[0][0])
	}
}
