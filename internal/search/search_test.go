package search

import (
	"testing"

	"github.com/chessbot/revolver/internal/board"
	"github.com/chessbot/revolver/internal/evaluation"
)

func newThread(t *testing.T, fen string, maxSearchTimeNs int64) *SearchThread {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	net := evaluation.NewNetwork()
	net.InitRandom(1)
	tt := NewTranspositionTable(1)
	return NewSearchThread(pos, tt, net, maxSearchTimeNs, false)
}

func TestDeepenFindsMateInOne(t *testing.T) {
	st := newThread(t, "4k3/4Q3/4K3/8/8/8/8/8 w - - 0 1", int64(200_000_000))
	best := st.Deepen()

	if best.Score < GuaranteeCheckmate {
		t.Fatalf("expected a checkmate score, got %d", best.Score)
	}
}

func TestDeepenReportsStalemateAsDraw(t *testing.T) {
	st := newThread(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", int64(200_000_000))

	if st.Board.GenerateLegalMoves().Len() != 0 {
		t.Skip("position is not actually a stalemate against this move generator")
	}

	best := st.Deepen()
	if best.Score != Draw {
		t.Fatalf("expected a draw score at a stalemate, got %d", best.Score)
	}
}

func TestIsDrawDetectsInsufficientMaterial(t *testing.T) {
	pos, err := board.ParseFEN("8/8/4k3/8/4K3/8/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !IsDraw(pos) {
		t.Fatal("lone kings should be detected as insufficient material")
	}
}

func TestTranspositionTableAgeReplacement(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(0x1234567890abcdef)

	tt.Store(key, 4, BoundExact, 100, 80, board.NoMove)
	pe, ok := tt.Probe(key)
	if !ok || pe.Depth != 4 {
		t.Fatalf("expected depth-4 entry after store, got %+v ok=%v", pe, ok)
	}

	// A shallower store in the same generation must not overwrite a
	// deeper entry.
	tt.Store(key, 2, BoundExact, 50, 40, board.NoMove)
	pe, ok = tt.Probe(key)
	if !ok || pe.Depth != 4 {
		t.Fatalf("shallower same-generation store should not replace deeper entry, got %+v", pe)
	}

	// Bumping the generation makes the slot replaceable regardless of
	// relative depth.
	tt.NewSearch()
	tt.Store(key, 2, BoundExact, 50, 40, board.NoMove)
	pe, ok = tt.Probe(key)
	if !ok || pe.Depth != 2 {
		t.Fatalf("new-generation store should replace stale entry, got %+v", pe)
	}
}

func TestAdjustNodeScoreRoundTrip(t *testing.T) {
	mateScore := Checkmate - 3
	stored := adjustNodeScoreToTT(mateScore, 5)
	back := adjustNodeScoreFromTT(stored, 5)
	if back != mateScore {
		t.Fatalf("round trip mismatch: got %d, want %d", back, mateScore)
	}

	plain := Score(37)
	if adjustNodeScoreFromTT(adjustNodeScoreToTT(plain, 5), 5) != plain {
		t.Fatal("non-mate scores must be unaffected by ply adjustment")
	}
}

func TestQuiescenceStandPatBound(t *testing.T) {
	st := newThread(t, "4k3/8/4K3/8/8/8/8/8 w - - 0 1", int64(200_000_000))
	score := st.quiescence(-Infinite, Infinite)
	if score <= -Infinite || score >= Infinite {
		t.Fatalf("quiescence score should be a bounded evaluation, got %d", score)
	}
}
