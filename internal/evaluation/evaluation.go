// Package evaluation implements a small quantized feed-forward network
// (HalfKP-style features, two-perspective accumulator) used as the
// static evaluation behind the search core. It satisfies the single
// contract the search needs: turn an Accumulator plus a side to move
// into a centipawn score.
package evaluation

import "github.com/chessbot/revolver/internal/board"

// Network architecture constants.
const (
	NumKingSquares  = 64
	NumPieceTypes   = 10 // P, N, B, R, Q for both colors (excluding kings)
	NumPieceSquares = 64

	// King square * (piece_type * piece_square)
	HalfKPSize = NumKingSquares * NumPieceTypes * NumPieceSquares // 40960

	L1Size     = 256 // first hidden layer, per perspective
	L2Size     = 32
	OutputSize = 1

	InputQuantShift = 6
	L1QuantShift    = 6
	L2QuantShift    = 6
	OutputScale     = 600
)

// ClampedReLU clamps a value to [0, 127] for quantized inference.
func ClampedReLU(x int16) int8 {
	if x < 0 {
		return 0
	}
	if x > 127 {
		return 127
	}
	return int8(x)
}

// Network holds the evaluator's weights. A Network is read-only once
// loaded and is safe to share across search threads; all mutable
// evaluation state lives in the caller's Accumulator.
type Network struct {
	L1Weights [HalfKPSize][L1Size]int16
	L1Bias    [L1Size]int16

	L2Weights [L1Size * 2][L2Size]int8
	L2Bias    [L2Size]int32

	OutputWeights [L2Size]int8
	OutputBias    int32
}

// NewNetwork returns a zero-weight network; callers must either load
// weights or call InitRandom before using it.
func NewNetwork() *Network {
	return &Network{}
}

// Evaluate computes the network output for an accumulator from the
// given side's perspective, in centipawns.
func (n *Network) Evaluate(acc *Accumulator, sideToMove board.Color) int {
	var stmAcc, nstmAcc *[L1Size]int16
	if sideToMove == board.White {
		stmAcc = &acc.White
		nstmAcc = &acc.Black
	} else {
		stmAcc = &acc.Black
		nstmAcc = &acc.White
	}

	var l1Out [L1Size * 2]int8
	for i := 0; i < L1Size; i++ {
		l1Out[i] = ClampedReLU(stmAcc[i])
		l1Out[L1Size+i] = ClampedReLU(nstmAcc[i])
	}

	var l2Out [L2Size]int8
	for i := 0; i < L2Size; i++ {
		sum := n.L2Bias[i]
		for j := 0; j < L1Size*2; j++ {
			sum += int32(l1Out[j]) * int32(n.L2Weights[j][i])
		}
		scaled := int16(sum >> L1QuantShift)
		l2Out[i] = ClampedReLU(scaled)
	}

	var output = n.OutputBias
	for i := 0; i < L2Size; i++ {
		output += int32(l2Out[i]) * int32(n.OutputWeights[i])
	}

	return int(output * OutputScale >> (L2QuantShift + 8))
}

// InitRandom initializes weights with small deterministic pseudo-random
// values. Used when no trained network is configured, so the engine and
// its tests have a reproducible evaluation without shipping a weights
// file.
func (n *Network) InitRandom(seed int64) {
	state := uint64(seed)
	next := func() int16 {
		state = state*6364136223846793005 + 1442695040888963407
		return int16((state>>48)&0xFF) - 128
	}

	for i := 0; i < HalfKPSize; i++ {
		for j := 0; j < L1Size; j++ {
			n.L1Weights[i][j] = next() >> 5
		}
	}
	for i := 0; i < L1Size; i++ {
		n.L1Bias[i] = next() >> 3
	}
	for i := 0; i < L1Size*2; i++ {
		for j := 0; j < L2Size; j++ {
			val := next() >> 6
			if val > 127 {
				val = 127
			} else if val < -128 {
				val = -128
			}
			n.L2Weights[i][j] = int8(val)
		}
	}
	for i := 0; i < L2Size; i++ {
		n.L2Bias[i] = int32(next())
	}
	for i := 0; i < L2Size; i++ {
		val := next() >> 6
		if val > 127 {
			val = 127
		} else if val < -128 {
			val = -128
		}
		n.OutputWeights[i] = int8(val)
	}
	n.OutputBias = int32(next()) * 100
}
