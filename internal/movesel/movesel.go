// Package movesel implements the move selector contract used by the
// search core: given a set of pseudo-legal/legal moves at a node, order
// them so that the move most likely to cause a cutoff is tried first.
package movesel

import "github.com/chessbot/revolver/internal/board"

// MaxPly bounds the killer-move table; the search core never recurses
// past this ply.
const MaxPly = 256

// Ordering priority bands. TT move first, then captures (MVV-LVA, all in
// the GoodCaptureBase band), then promotions, then killers, then
// history-ordered quiet moves. No capture is demoted to the
// BadCaptureBase band: Score never uses it.
const (
	TTMoveScore     = 10_000_000
	GoodCaptureBase = 1_000_000
	KillerScore1    = 900_000
	KillerScore2    = 800_000
	BadCaptureBase  = -100_000
)

var pieceValue = [7]int{100, 320, 330, 500, 900, 20000, 0}

// mvvLva[victim][attacker]: most-valuable-victim, least-valuable-attacker.
var mvvLva = [6][6]int{
	/* P */ {15, 14, 14, 13, 12, 11},
	/* N */ {25, 24, 24, 23, 22, 21},
	/* B */ {35, 34, 34, 33, 32, 31},
	/* R */ {45, 44, 44, 43, 42, 41},
	/* Q */ {55, 54, 54, 53, 52, 51},
	/* K */ {0, 0, 0, 0, 0, 0},
}

// Selector carries the move-ordering heuristics that persist across a
// whole search (killers, history, counter moves) — everything that is
// not specific to a single node's move list.
type Selector struct {
	killers            [MaxPly][2]board.Move
	history            [64][64]int
	counterMoves       [12][64]board.Move
	captureHistory     [12][64][6]int
	countermoveHistory [12][64][12][64]int
}

// New returns a Selector with empty heuristic tables.
func New() *Selector {
	return &Selector{}
}

// Clear ages the heuristic tables for a fresh search (killers dropped,
// history/capture-history/countermove-history halved rather than
// zeroed, so recent games still nudge ordering early on).
func (s *Selector) Clear() {
	for i := range s.killers {
		s.killers[i][0] = board.NoMove
		s.killers[i][1] = board.NoMove
	}
	for i := range s.history {
		for j := range s.history[i] {
			s.history[i][j] /= 2
		}
	}
	for i := range s.counterMoves {
		for j := range s.counterMoves[i] {
			s.counterMoves[i][j] = board.NoMove
		}
	}
	for i := range s.captureHistory {
		for j := range s.captureHistory[i] {
			for k := range s.captureHistory[i][j] {
				s.captureHistory[i][j][k] /= 2
			}
		}
	}
	for i := range s.countermoveHistory {
		for j := range s.countermoveHistory[i] {
			for k := range s.countermoveHistory[i][j] {
				for l := range s.countermoveHistory[i][j][k] {
					s.countermoveHistory[i][j][k][l] /= 2
				}
			}
		}
	}
}

// Score assigns an ordering score to every move in moves, for the node
// at ply with the given TT move (NoMove if none) and previous move
// played (NoMove at the root).
func (s *Selector) Score(pos *board.Position, moves *board.MoveList, ply int, ttMove, prevMove board.Move) []int {
	scores := make([]int, moves.Len())
	counterMove := s.CounterMove(prevMove, pos)

	var prevPiece board.Piece = board.NoPiece
	if prevMove != board.NoMove {
		prevPiece = pos.PieceAt(prevMove.To())
	}

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		scores[i] = s.scoreMove(pos, m, ply, ttMove)

		if m == counterMove && scores[i] < KillerScore2 {
			scores[i] = KillerScore2 - 10000
		}

		if !m.IsCapture(pos) && !m.IsPromotion() && m != ttMove {
			movePiece := pos.PieceAt(m.From())
			cmh := s.CountermoveHistoryScore(prevMove, prevPiece, movePiece, m.To())
			scores[i] += cmh / 2
		}
	}

	return scores
}

func (s *Selector) scoreMove(pos *board.Position, m board.Move, ply int, ttMove board.Move) int {
	if m == ttMove {
		return TTMoveScore
	}

	from := m.From()
	to := m.To()

	if m.IsCapture(pos) {
		attackerPiece := pos.PieceAt(from)
		if attackerPiece == board.NoPiece {
			return GoodCaptureBase
		}
		attacker := attackerPiece.Type()

		var victim board.PieceType
		if m.IsEnPassant() {
			victim = board.Pawn
		} else {
			capturedPiece := pos.PieceAt(to)
			if capturedPiece == board.NoPiece {
				return GoodCaptureBase
			}
			victim = capturedPiece.Type()
		}

		if victim >= board.King || attacker > board.King {
			return GoodCaptureBase
		}

		score := GoodCaptureBase + mvvLva[victim][attacker]*1000
		score += s.CaptureHistoryScore(attackerPiece, to, victim) / 4

		if pieceValue[attacker] < pieceValue[victim] {
			score += 10000
		}

		return score
	}

	if m.IsPromotion() {
		return GoodCaptureBase - 1000 + int(m.Promotion())*100
	}

	if m == s.killers[ply][0] {
		return KillerScore1
	}
	if m == s.killers[ply][1] {
		return KillerScore2
	}

	return s.history[from][to]
}

// Sort orders moves by score, descending, in place.
func Sort(moves *board.MoveList, scores []int) {
	n := moves.Len()
	for i := 0; i < n-1; i++ {
		best := i
		for j := i + 1; j < n; j++ {
			if scores[j] > scores[best] {
				best = j
			}
		}
		if best != i {
			moves.Swap(i, best)
			scores[i], scores[best] = scores[best], scores[i]
		}
	}
}

// Pick selects the best-scoring move at or after index and swaps it
// into place, supporting lazy selection sort so the search need not
// fully sort a move list it may cut off early.
func Pick(moves *board.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < moves.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		moves.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}

// UpdateKillers records a quiet cutoff move at ply.
func (s *Selector) UpdateKillers(m board.Move, ply int) {
	if ply >= MaxPly {
		return
	}
	if s.killers[ply][0] == m {
		return
	}
	s.killers[ply][1] = s.killers[ply][0]
	s.killers[ply][0] = m
}

// UpdateHistory adjusts the quiet-move history score by depth^2, up or
// down, with saturation to keep scores bounded.
func (s *Selector) UpdateHistory(m board.Move, depth int, isGood bool) {
	from := m.From()
	to := m.To()
	bonus := depth * depth

	if isGood {
		s.history[from][to] += bonus
		if s.history[from][to] > 400000 {
			for i := range s.history {
				for j := range s.history[i] {
					s.history[i][j] /= 2
				}
			}
		}
	} else {
		s.history[from][to] -= bonus
		if s.history[from][to] < -400000 {
			s.history[from][to] = -400000
		}
	}
}

// UpdateCounterMove records that counterMove answered prevMove.
func (s *Selector) UpdateCounterMove(prevMove, counterMove board.Move, pos *board.Position) {
	if prevMove == board.NoMove {
		return
	}
	piece := pos.PieceAt(prevMove.To())
	if piece == board.NoPiece {
		return
	}
	s.counterMoves[piece][prevMove.To()] = counterMove
}

// CounterMove returns the recorded answer to prevMove, if any.
func (s *Selector) CounterMove(prevMove board.Move, pos *board.Position) board.Move {
	if prevMove == board.NoMove {
		return board.NoMove
	}
	piece := pos.PieceAt(prevMove.To())
	if piece == board.NoPiece {
		return board.NoMove
	}
	return s.counterMoves[piece][prevMove.To()]
}

// HistoryScore returns the raw quiet-move history score.
func (s *Selector) HistoryScore(m board.Move) int {
	return s.history[m.From()][m.To()]
}

// UpdateCaptureHistory adjusts the capture history score for an
// attacker/target-square/victim-type triple.
func (s *Selector) UpdateCaptureHistory(attackerPiece board.Piece, toSq board.Square, capturedType board.PieceType, depth int, isGood bool) {
	if attackerPiece == board.NoPiece || capturedType >= board.King {
		return
	}
	bonus := depth * depth
	if isGood {
		s.captureHistory[attackerPiece][toSq][capturedType] += bonus
		if s.captureHistory[attackerPiece][toSq][capturedType] > 400000 {
			s.scaleCaptureHistory()
		}
	} else {
		s.captureHistory[attackerPiece][toSq][capturedType] -= bonus
		if s.captureHistory[attackerPiece][toSq][capturedType] < -400000 {
			s.captureHistory[attackerPiece][toSq][capturedType] = -400000
		}
	}
}

func (s *Selector) scaleCaptureHistory() {
	for i := range s.captureHistory {
		for j := range s.captureHistory[i] {
			for k := range s.captureHistory[i][j] {
				s.captureHistory[i][j][k] /= 2
			}
		}
	}
}

// CaptureHistoryScore returns the capture history score for a capture.
func (s *Selector) CaptureHistoryScore(attackerPiece board.Piece, toSq board.Square, capturedType board.PieceType) int {
	if attackerPiece == board.NoPiece || capturedType >= board.King {
		return 0
	}
	return s.captureHistory[attackerPiece][toSq][capturedType]
}

// UpdateCountermoveHistory adjusts the countermove-history score for a
// (prevMove, goodMove) pair.
func (s *Selector) UpdateCountermoveHistory(prevMove, goodMove board.Move, prevPiece, movePiece board.Piece, depth int, isGood bool) {
	if prevMove == board.NoMove || prevPiece == board.NoPiece || movePiece == board.NoPiece {
		return
	}
	prevTo := prevMove.To()
	moveTo := goodMove.To()
	bonus := depth * depth

	if isGood {
		s.countermoveHistory[prevPiece][prevTo][movePiece][moveTo] += bonus
		if s.countermoveHistory[prevPiece][prevTo][movePiece][moveTo] > 400000 {
			s.scaleCountermoveHistory()
		}
	} else {
		s.countermoveHistory[prevPiece][prevTo][movePiece][moveTo] -= bonus
		if s.countermoveHistory[prevPiece][prevTo][movePiece][moveTo] < -400000 {
			s.countermoveHistory[prevPiece][prevTo][movePiece][moveTo] = -400000
		}
	}
}

func (s *Selector) scaleCountermoveHistory() {
	for i := range s.countermoveHistory {
		for j := range s.countermoveHistory[i] {
			for k := range s.countermoveHistory[i][j] {
				for l := range s.countermoveHistory[i][j][k] {
					s.countermoveHistory[i][j][k][l] /= 2
				}
			}
		}
	}
}

// CountermoveHistoryScore returns the CMH score for a move given the
// previous move played.
func (s *Selector) CountermoveHistoryScore(prevMove board.Move, prevPiece, movePiece board.Piece, moveTo board.Square) int {
	if prevMove == board.NoMove || prevPiece == board.NoPiece || movePiece == board.NoPiece {
		return 0
	}
	return s.countermoveHistory[prevPiece][prevMove.To()][movePiece][moveTo]
}
