package training

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chessbot/revolver/internal/board"
	"github.com/chessbot/revolver/internal/evaluation"
	"github.com/chessbot/revolver/internal/search"
)

func TestPlayRandomOpeningStaysLegal(t *testing.T) {
	net := evaluation.NewNetwork()
	net.InitRandom(1)

	pos := board.NewPosition()
	var acc evaluation.Accumulator
	acc.ComputeFull(pos, net)

	rng := rand.New(rand.NewSource(7))
	playRandomOpening(pos, &acc, net, rng, nil)

	if pos.GenerateLegalMoves().Len() == 0 {
		require.True(t, pos.GameOver(), "position after random opening has no legal moves but is not flagged game over")
	}
}

func TestWriteGameDataSkipsDummyTerminator(t *testing.T) {
	dummy := &gameRecord{}
	first := &gameRecord{prev: dummy, score: 15, fen: "fen-a"}
	second := &gameRecord{prev: first, score: -30, fen: "fen-b"}

	var buf bytes.Buffer
	n := writeGameData(second, &buf, 1.0)

	require.Equal(t, 2, n, "expected 2 positions written")

	want := "fen-b | -30 | 1.0\nfen-a | 15 | 1.0\n"
	assert.Equal(t, want, buf.String())
}

func TestIsCheckmateScoreThreshold(t *testing.T) {
	assert.False(t, isCheckmateScore(0), "a zero score should not count as checkmate")
	assert.True(t, isCheckmateScore(search.GuaranteeCheckmate))
	assert.True(t, isCheckmateScore(-search.GuaranteeCheckmate))
}

func TestIsStalemateScore(t *testing.T) {
	assert.True(t, isStalemateScore(search.Draw, board.NoMove))
	assert.False(t, isStalemateScore(search.Draw, board.Move(1)))
}
