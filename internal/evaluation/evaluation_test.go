package evaluation

import (
	"testing"

	"github.com/chessbot/revolver/internal/board"
)

func TestIncrementalMatchesFullRecompute(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(42)

	pos := board.NewPosition()
	var acc Accumulator
	acc.ComputeFull(pos, net)

	moves := pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		t.Fatal("starting position has no legal moves")
	}
	move := moves.Get(0)
	captured := pos.PieceAt(move.To())

	pos.MakeMove(move)
	acc.UpdateIncremental(pos, move, captured, net)

	var fresh Accumulator
	fresh.ComputeFull(pos, net)

	if acc.White != fresh.White {
		t.Fatalf("White accumulator diverged after incremental update:\n got: %v\nwant: %v", acc.White, fresh.White)
	}
	if acc.Black != fresh.Black {
		t.Fatalf("Black accumulator diverged after incremental update:\n got: %v\nwant: %v", acc.Black, fresh.Black)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(7)

	pos := board.NewPosition()
	var acc Accumulator
	acc.ComputeFull(pos, net)

	first := net.Evaluate(&acc, board.White)
	second := net.Evaluate(&acc, board.White)

	if first != second {
		t.Fatalf("evaluating the same accumulator twice gave different results: %d vs %d", first, second)
	}
}

func TestClampedReLU(t *testing.T) {
	cases := []struct {
		in   int16
		want int8
	}{
		{-10, 0},
		{0, 0},
		{50, 50},
		{127, 127},
		{200, 127},
	}
	for _, c := range cases {
		if got := ClampedReLU(c.in); got != c.want {
			t.Errorf("ClampedReLU(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}
